package commands

import (
	"github.com/spf13/cobra"

	"batchcrypt/internal/logic"
)

// NewEncryptCommand creates a new cobra command for the encrypt subcommand.
func NewEncryptCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "encrypt [flags] files...",
		Aliases:           []string{"enc"},
		Short:             "Encrypt files in place",
		Args:              cobra.MinimumNArgs(1),
		PersistentPreRunE: bindFlags,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(args, false)
			if err != nil {
				return err
			}

			return logic.Run(cmd.Context(), cfg)
		},
	}
}
