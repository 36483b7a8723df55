package commands

import (
	"runtime"

	"github.com/spf13/cobra"
)

// NewRootCommand creates the root command with common configuration.
// It sets up environment variable binding and flag handling.
func NewRootCommand(version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "batchcrypt [flags] command [flags]",
		Short: "Batch file encryption utility",
		Long: `A batch file encryption utility that transforms files in place.
Files are streamed through AES-256-CBC in bounded memory, replaced
atomically, and processed concurrently in small groups.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().IntP("parallel", "j", runtime.NumCPU(), "Number of parallel workers, defaults to number of CPUs")
	root.PersistentFlags().BoolP("quiet", "q", false, "Suppress non-error output")
	root.PersistentFlags().Bool("progress", false, "Print per-file progress percentages")
	root.PersistentFlags().Bool("stats", false, "Print summary statistics on exit")

	root.PersistentFlags().StringP("key-file", "k", "", "Path to the hex-encoded key file (created on first use)")
	root.PersistentFlags().BoolP("passphrase", "p", false, "Derive the key from an interactively prompted passphrase")
	root.PersistentFlags().String("salt-file", "", "Salt file for passphrase derivation (created on first use)")

	root.PersistentFlags().String("encrypt-ext", ".enc", "Suffix identifying encrypted files")

	root.AddCommand(NewEncryptCommand(), NewDecryptCommand(), NewGenerateCommand())

	return root
}
