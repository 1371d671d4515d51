package commands

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/idelchi/fcrypt/internal/config"
)

// NewRootCommand creates the root command with common configuration.
// Every flag can also be set through an FCRYPT_ environment variable.
func NewRootCommand(cfg *config.Config, version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "fcrypt [flags] command [flags]",
		Short: "Password based file and folder encryption",
		Long: `Encrypts files and folders in place with a password.

Each file is replaced by a <name>.encrypted sibling holding a random IV
followed by its AES-256-CBC ciphertext, and restored by the decrypt command.
Folders are walked recursively; a failing file does not stop the walk.`,
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
	}

	flags := root.PersistentFlags()

	flags.StringP("password", "p", "", "Password, prompted for when neither it nor --password-file is set")
	flags.String("password-file", "", "Path to a file holding the password on its first line")
	flags.IntP("parallel", "j", runtime.NumCPU(), "Number of paths processed concurrently")
	flags.BoolP("quiet", "q", false, "Suppress non-error output")
	flags.BoolP("stats", "s", false, "Print a summary when done")
	flags.Bool("dry", false, "List the files that would be processed and exit")
	flags.Bool("progress", false, "Draw a progress bar when stderr is a terminal")
	flags.StringSliceP("exclude", "e", nil, "Exclude entries matching the pattern when walking folders (repeatable)")
	flags.String("exclude-from", "", "Path to a JSONC file with an array of exclude patterns")
	flags.Bool("preserve-timestamps", false, "Copy the modification time of each input to its output")
	flags.String("log-level", "info", "Log level (debug, info, warn, error)")
	flags.String("log-format", "console", "Log format (console, json)")
	flags.String("metrics-file", "", "Write Prometheus metrics to this file when done")

	root.AddCommand(NewEncryptCommand(cfg), NewDecryptCommand(cfg), NewCheckCommand(cfg))

	return root
}
