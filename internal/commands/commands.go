// Package commands provides the command-line interface for batchcrypt.
//
// It implements commands for:
//   - encryption
//   - decryption
//   - key generation
//
// The package handles command-line parsing, configuration validation,
// and environment variable binding through cobra and viper.
package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"batchcrypt/internal/config"
)

// bindFlags returns a PersistentPreRunE handler wiring the command's
// flags into viper.
func bindFlags(cmd *cobra.Command, _ []string) error {
	return viper.BindPFlags(cmd.Flags())
}

// loadConfig unmarshals the bound flags into a Config, resolves the
// positional arguments and validates the result. Decrypt runs with no
// arguments default to files carrying the encrypted suffix.
func loadConfig(args []string, decrypt bool) (*config.Config, error) {
	var cfg config.Config

	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.Decrypt = decrypt
	cfg.Files = args

	if decrypt && len(args) == 0 {
		cfg.Files = []string{"*" + cfg.EncryptSuffix}
	}

	if cfg.Passphrase {
		passphrase, err := readPassphrase()
		if err != nil {
			return nil, err
		}

		cfg.PassphraseValue = passphrase
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// readPassphrase prompts on the controlling terminal without echo.
func readPassphrase() ([]byte, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, errors.New("passphrase prompt requires a terminal")
	}

	fmt.Fprint(os.Stderr, "Passphrase: ")

	passphrase, err := term.ReadPassword(int(os.Stdin.Fd()))

	fmt.Fprintln(os.Stderr)

	if err != nil {
		return nil, fmt.Errorf("reading passphrase: %w", err)
	}

	if len(passphrase) == 0 {
		return nil, errors.New("empty passphrase")
	}

	return passphrase, nil
}
