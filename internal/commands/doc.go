// Package commands provides the command-line interface for fcrypt.
//
// It implements commands for:
//   - encryption
//   - decryption
//   - exclude pattern checks
//
// The package handles command-line parsing, configuration validation,
// password resolution and environment variable binding through cobra and viper.
package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/idelchi/fcrypt/internal/config"
)

// EnvPrefix prefixes the environment variables mirroring the flags.
const EnvPrefix = "FCRYPT"

// preRun returns a PreRunE handler that loads flags and environment into cfg,
// resolves positional args into cfg.Paths and validates the result.
func preRun(cfg *config.Config, decrypt bool) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		v := viper.New()

		v.SetEnvPrefix(EnvPrefix)
		v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
		v.AutomaticEnv()

		if err := v.BindPFlags(cmd.Flags()); err != nil {
			return fmt.Errorf("binding flags: %w", err)
		}

		if err := v.Unmarshal(cfg); err != nil {
			return fmt.Errorf("parsing config: %w", err)
		}

		cfg.Paths = args
		cfg.Decrypt = decrypt

		return cfg.Validate() //nolint:wrapcheck
	}
}
