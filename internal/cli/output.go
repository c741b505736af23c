package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/mahdiidarabi/secp256k1-recover/internal/config"
	"github.com/mahdiidarabi/secp256k1-recover/pkg/ecdsarecover"
)

// field is one named value of a command result.
type field struct {
	key   string
	value any
}

// render writes a command result in the configured output format. In text
// mode a single field is written bare so that it can be piped.
func (a *app) render(w io.Writer, fields ...field) error {
	switch a.cfg.Output {
	case config.OutputJSON, config.OutputYAML:
		doc := make(map[string]any, len(fields))
		for _, f := range fields {
			doc[f.key] = f.value
		}
		return a.encode(w, doc)
	default:
		if len(fields) == 1 {
			_, err := fmt.Fprintln(w, fields[0].value)
			return err
		}
		for _, f := range fields {
			if _, err := fmt.Fprintf(w, "%s: %v\n", f.key, f.value); err != nil {
				return err
			}
		}
		return nil
	}
}

// batchRow is the structured form of one batch result.
type batchRow struct {
	Index     int    `json:"index" yaml:"index"`
	Valid     bool   `json:"valid" yaml:"valid"`
	PublicKey string `json:"public_key,omitempty" yaml:"public_key,omitempty"`
	Error     string `json:"error,omitempty" yaml:"error,omitempty"`
}

func (a *app) renderBatch(w io.Writer, results []ecdsarecover.BatchResult) error {
	rows := make([]batchRow, len(results))
	for i, result := range results {
		rows[i] = batchRow{Index: result.Index, Valid: result.Valid}
		if result.PublicKey != nil {
			rows[i].PublicKey = ecdsarecover.EncodeHex(result.PublicKey.Serialize(a.cfg.PointFormat))
		}
		if result.Err != nil {
			rows[i].Error = result.Err.Error()
		}
	}

	if a.cfg.Output == config.OutputJSON || a.cfg.Output == config.OutputYAML {
		return a.encode(w, rows)
	}
	for _, row := range rows {
		status := "ok"
		switch {
		case row.Error != "":
			status = "error"
		case !row.Valid:
			status = "invalid"
		}
		line := fmt.Sprintf("%d\t%s", row.Index, status)
		if row.PublicKey != "" {
			line += "\t" + row.PublicKey
		}
		if row.Error != "" {
			line += "\t" + row.Error
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) encode(w io.Writer, v any) error {
	if a.cfg.Output == config.OutputYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
