package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mahdiidarabi/secp256k1-recover/internal/config"
	"github.com/mahdiidarabi/secp256k1-recover/pkg/ecdsarecover"
)

// errNoPrivateKey is returned when neither --key nor the environment
// variable supplies a private key.
var errNoPrivateKey = fmt.Errorf("no private key: pass --key or set %s", config.PrivateKeyEnvVar)

// messageFlags holds the flags shared by commands taking a message argument.
type messageFlags struct {
	hex bool
}

func (f *messageFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.hex, "hex", false, "interpret the message argument as hex")
}

// message converts the message argument to bytes.
func (f *messageFlags) message(arg string) ([]byte, error) {
	if !f.hex {
		return []byte(arg), nil
	}
	b, err := ecdsarecover.DecodeHex(arg)
	if err != nil {
		return nil, fmt.Errorf("failed to decode message: %w", err)
	}
	return b, nil
}

// privateKeyHex returns the --key value, falling back to the environment.
func privateKeyHex(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if v, ok := os.LookupEnv(config.PrivateKeyEnvVar); ok && v != "" {
		return v, nil
	}
	return "", errNoPrivateKey
}

func newHashCmd(a *app) *cobra.Command {
	var (
		msg    messageFlags
		expect string
	)
	cmd := &cobra.Command{
		Use:   "hash <message>",
		Short: "Print the SHA-256 digest of a message",
		Long: `Print the SHA-256 digest of a message as 64 hex digits.

With --expect the digest is compared with the given hex digest in constant
time; a mismatch exits with status 2.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			message, err := msg.message(args[0])
			if err != nil {
				return err
			}
			digest := a.client.SHA256Hex(message)
			if expect == "" {
				return a.render(cmd.OutOrStdout(), field{"digest", digest})
			}

			match, err := a.client.CheckDigestHex(message, expect)
			if err != nil {
				return fmt.Errorf("failed to parse expected digest: %w", err)
			}
			if err := a.render(cmd.OutOrStdout(), field{"digest", digest}, field{"match", match}); err != nil {
				return err
			}
			if !match {
				return ErrNotVerified
			}
			return nil
		},
	}
	msg.register(cmd)
	cmd.Flags().StringVar(&expect, "expect", "", "expected digest in hex")
	return cmd
}

func newSignCmd(a *app) *cobra.Command {
	var (
		msg messageFlags
		key string
	)
	cmd := &cobra.Command{
		Use:   "sign <message>",
		Short: "Sign a message and print r||s||recovery_id in hex",
		Long: `Sign the SHA-256 digest of a message and print the 65-byte
r||s||recovery_id signature as 130 hex digits.

The private key is read from --key or, preferably, from the
ECRECOVER_PRIVATE_KEY environment variable so that it does not appear in the
process list.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			message, err := msg.message(args[0])
			if err != nil {
				return err
			}
			keyHex, err := privateKeyHex(key)
			if err != nil {
				return err
			}
			a.logger.Debug().Str("nonce", a.cfg.Nonce).Int("message_len", len(message)).Msg("signing")

			sigHex, err := a.client.SignHex(message, keyHex)
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), field{"signature", sigHex})
		},
	}
	msg.register(cmd)
	cmd.Flags().StringVar(&key, "key", "", "private key in hex (default $"+config.PrivateKeyEnvVar+")")
	return cmd
}

func newVerifyCmd(a *app) *cobra.Command {
	var (
		msg       messageFlags
		pubkeyHex string
		sigHex    string
	)
	cmd := &cobra.Command{
		Use:   "verify <message>",
		Short: "Verify a signature against a public key",
		Long: `Verify a 64-byte r||s or 65-byte r||s||recovery_id signature against a
compressed, uncompressed or raw public key.

Exits with status 2 when the input is well formed but the signature does not
verify, and 1 when the input is malformed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			message, err := msg.message(args[0])
			if err != nil {
				return err
			}
			valid, err := a.client.VerifyHex(message, pubkeyHex, sigHex)
			if err != nil {
				return err
			}
			if err := a.render(cmd.OutOrStdout(), field{"valid", valid}); err != nil {
				return err
			}
			if !valid {
				return ErrNotVerified
			}
			return nil
		},
	}
	msg.register(cmd)
	cmd.Flags().StringVar(&pubkeyHex, "pubkey", "", "public key in hex")
	cmd.Flags().StringVar(&sigHex, "sig", "", "signature in hex")
	_ = cmd.MarkFlagRequired("pubkey")
	_ = cmd.MarkFlagRequired("sig")
	return cmd
}

func newRecoverCmd(a *app) *cobra.Command {
	var (
		msg    messageFlags
		sigArg string
	)
	cmd := &cobra.Command{
		Use:   "recover <message>",
		Short: "Recover the signer's public key from a signature",
		Long: `Recover the public key that produced a 65-byte r||s||recovery_id signature.

--sig takes 130 hex digits or a JSON envelope {"signature": "<base64 or hex>"}.
The key is printed in the configured --format.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			message, err := msg.message(args[0])
			if err != nil {
				return err
			}
			sigHex, err := signatureHex(sigArg)
			if err != nil {
				return err
			}
			pubHex, err := a.client.RecoverPublicKeyHex(message, sigHex)
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), field{"public_key", pubHex})
		},
	}
	msg.register(cmd)
	cmd.Flags().StringVar(&sigArg, "sig", "", "signature in hex or as a JSON envelope")
	_ = cmd.MarkFlagRequired("sig")
	return cmd
}

// signatureHex unwraps a JSON signature envelope; anything else is passed
// through as hex.
func signatureHex(arg string) (string, error) {
	if !strings.HasPrefix(strings.TrimSpace(arg), "{") {
		return arg, nil
	}
	sig, err := ecdsarecover.ParseSignatureJSON([]byte(arg))
	if err != nil {
		return "", fmt.Errorf("failed to parse signature envelope: %w", err)
	}
	return sig.String(), nil
}

func newPubkeyCmd(a *app) *cobra.Command {
	var key string
	cmd := &cobra.Command{
		Use:   "pubkey",
		Short: "Derive the public key of a private key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			keyHex, err := privateKeyHex(key)
			if err != nil {
				return err
			}
			pubHex, err := a.client.PublicKeyHex(keyHex)
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), field{"public_key", pubHex})
		},
	}
	cmd.Flags().StringVar(&key, "key", "", "private key in hex (default $"+config.PrivateKeyEnvVar+")")
	return cmd
}

func newBatchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Verify or recover every record of a JSON or CSV file",
		Long: `Process a file of records in parallel. Files ending in .csv are read as CSV
with a header row; anything else is read as a JSON array. Each record has a
message (or message_hex), a signature and an optional public_key.

Exits with status 2 if any record fails or does not verify.`,
	}

	run := func(mode string) *cobra.Command {
		return &cobra.Command{
			Use:   mode + " <file>",
			Short: strings.ToUpper(mode[:1]) + mode[1:] + " every record of a file",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				process := a.client.VerifyFile
				if mode == "recover" {
					process = a.client.RecoverFile
				}
				results, err := process(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if err := a.renderBatch(cmd.OutOrStdout(), results); err != nil {
					return err
				}
				return batchOutcome(results)
			},
		}
	}

	cmd.AddCommand(run("verify"), run("recover"))
	return cmd
}

// batchOutcome returns ErrNotVerified if any record failed.
func batchOutcome(results []ecdsarecover.BatchResult) error {
	var failed int
	for _, result := range results {
		if result.Err != nil || !result.Valid {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d records", ErrNotVerified, failed, len(results))
	}
	return nil
}
