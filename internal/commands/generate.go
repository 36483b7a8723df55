package commands

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"batchcrypt/internal/keys"
)

// NewGenerateCommand creates a new cobra command for the generate subcommand.
func NewGenerateCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "generate",
		Aliases:           []string{"gen"},
		Short:             "Generate a new encryption key",
		Args:              cobra.NoArgs,
		PersistentPreRunE: bindFlags,
		RunE: func(_ *cobra.Command, _ []string) error {
			key := make([]byte, keys.Size)
			if _, err := rand.Read(key); err != nil {
				return fmt.Errorf("generating key: %w", err)
			}

			fmt.Println(hex.EncodeToString(key)) //nolint:forbidigo

			return nil
		},
	}
}
