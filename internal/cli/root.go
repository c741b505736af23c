// Package cli provides the command-line interface for secp256k1 signing,
// verification and public key recovery.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mahdiidarabi/secp256k1-recover/internal/config"
	"github.com/mahdiidarabi/secp256k1-recover/internal/logging"
	"github.com/mahdiidarabi/secp256k1-recover/pkg/ecdsarecover"
)

// Version is set at build time via ldflags.
var Version = "dev" //nolint:gochecknoglobals // set by ldflags

// Exit codes for the CLI.
const (
	// ExitSuccess indicates successful execution.
	ExitSuccess = 0
	// ExitFailure indicates an error, including malformed input.
	ExitFailure = 1
	// ExitNotVerified indicates well-formed input that did not verify.
	ExitNotVerified = 2
)

// ErrNotVerified is returned by commands whose check came out false. It is
// mapped to ExitNotVerified and not printed as an error.
var ErrNotVerified = errors.New("not verified")

// globalFlags holds flags that are not part of the layered configuration.
type globalFlags struct {
	configFile string
	verbose    bool
	quiet      bool
}

// app carries state resolved in PersistentPreRunE to the subcommands.
type app struct {
	flags  globalFlags
	cfg    *config.Config
	logger zerolog.Logger
	client *ecdsarecover.Client
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zerolog.Nop()}

	cmd := &cobra.Command{
		Use:   "recovery",
		Short: "Sign, verify and recover public keys with secp256k1 ECDSA",
		Long: `recovery signs messages with secp256k1 ECDSA over SHA-256, verifies
signatures and recovers the signer's public key from a 65-byte
r||s||recovery_id signature.

Configuration is read from built-in defaults, an optional YAML file (--config),
ECRECOVER_* environment variables and flags, in increasing precedence.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.flags.configFile, "config", "", "path to a YAML config file")
	flags.BoolVarP(&a.flags.verbose, "verbose", "v", false, "enable debug logging")
	flags.BoolVarP(&a.flags.quiet, "quiet", "q", false, "log errors only")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")
	config.AddFlags(flags)

	cmd.AddCommand(
		newHashCmd(a),
		newSignCmd(a),
		newVerifyCmd(a),
		newRecoverCmd(a),
		newPubkeyCmd(a),
		newBatchCmd(a),
	)
	return cmd
}

// init loads configuration, builds the logger and the library client.
func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(cmd.Context(), config.Options{
		ConfigFile: a.flags.configFile,
		Flags:      cmd.Root().PersistentFlags(),
	})
	if err != nil {
		return err
	}

	var logOut io.Writer
	if w := cmd.ErrOrStderr(); w != os.Stderr {
		logOut = w
	}
	a.logger = logging.New(logging.Options{
		Level:   cfg.Log.Level,
		Verbose: a.flags.verbose,
		Quiet:   a.flags.quiet,
		Writer:  logOut,
	})

	client, err := cfg.NewClient(a.logger)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.client = client
	cmd.SetContext(a.logger.WithContext(cmd.Context()))

	a.logger.Debug().
		Str("command", cmd.Name()).
		Stringer("point_format", cfg.PointFormat).
		Str("nonce", cfg.Nonce).
		Msg("initialized")
	return nil
}

// Run executes the command line in args and returns the process exit code.
// Errors other than ErrNotVerified are printed to stderr.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err != nil && !errors.Is(err, ErrNotVerified) {
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return ExitCode(err)
}

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrNotVerified):
		return ExitNotVerified
	default:
		return ExitFailure
	}
}
