// Package config holds the runtime configuration bound from flags and
// environment variables.
package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Config is the full runtime configuration.
type Config struct {
	// Key material source: a hex-encoded key file (created on first use)
	// or an interactively prompted passphrase. Mutually exclusive.
	KeyFile    string `mapstructure:"key-file"`
	Passphrase bool   `mapstructure:"passphrase"`
	SaltFile   string `mapstructure:"salt-file"`

	// PassphraseValue is filled from the terminal prompt, never from
	// flags or environment.
	PassphraseValue []byte `mapstructure:"-"`

	// Parallel is the dispatcher worker count.
	Parallel int `validate:"min=1"`

	EncryptSuffix string `mapstructure:"encrypt-ext"`

	Quiet    bool
	Progress bool
	Stats    bool

	Decrypt bool

	// Positional arguments
	Files []string `validate:"min=1"`
}

// Validate validates the configuration against the struct tags plus the
// key-source exclusivity rule.
func (c Config) Validate() error {
	validate := validator.New()

	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("validating configuration: %w", err)
	}

	switch {
	case c.Passphrase && c.KeyFile != "":
		return errors.New("--passphrase and --key-file are mutually exclusive")
	case !c.Passphrase && c.KeyFile == "":
		return errors.New("either --key-file or --passphrase is required")
	}

	return nil
}
