package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mahdiidarabi/secp256k1-recover/pkg/ecdsarecover"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their configuration key rather than the Go name.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("mapstructure"), ",")
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})

	if err := v.RegisterValidation("pointformat", func(fl validator.FieldLevel) bool {
		return ecdsarecover.PointFormat(fl.Field().Int()).Size() != 0
	}); err != nil {
		panic(fmt.Sprintf("failed to register pointformat validation: %v", err))
	}

	if err := v.RegisterValidation("noncestrategy", func(fl validator.FieldLevel) bool {
		_, err := ecdsarecover.NonceStrategyByName(fl.Field().String())
		return err == nil
	}); err != nil {
		panic(fmt.Sprintf("failed to register noncestrategy validation: %v", err))
	}
	return v
}

// Validate checks cfg and describes the first invalid field.
func Validate(cfg *Config) error {
	if cfg == nil {
		return ErrConfigNil
	}
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		key := strings.TrimPrefix(fe.Namespace(), "Config.")
		if fe.Param() != "" {
			return fmt.Errorf("%w: %s must satisfy %s=%s, got %v", ErrInvalidConfig, key, fe.Tag(), fe.Param(), fe.Value())
		}
		return fmt.Errorf("%w: %s must satisfy %s, got %v", ErrInvalidConfig, key, fe.Tag(), fe.Value())
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
}
