package commands

import (
	"github.com/spf13/cobra"

	"batchcrypt/internal/logic"
)

// NewDecryptCommand creates a new cobra command for the decrypt subcommand.
// With no arguments it targets files carrying the encrypted suffix.
func NewDecryptCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "decrypt [flags] [files...]",
		Aliases:           []string{"dec"},
		Short:             "Decrypt files in place",
		Args:              cobra.ArbitraryArgs,
		PersistentPreRunE: bindFlags,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(args, true)
			if err != nil {
				return err
			}

			return logic.Run(cmd.Context(), cfg)
		},
	}
}
