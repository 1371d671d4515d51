// Package config holds the command line configuration.
package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Config is filled from flags and FCRYPT_* environment variables.
type Config struct {
	// Password is used as is; PasswordFile holds it on its first line.
	Password     string `label:"--password"      mapstructure:"password"      validate:"exclusive=PasswordFile"`
	PasswordFile string `label:"--password-file" mapstructure:"password-file" validate:"omitempty,file"`

	Parallel int  `label:"--parallel" mapstructure:"parallel" validate:"min=1"`
	Quiet    bool `mapstructure:"quiet"`
	Stats    bool `mapstructure:"stats"`
	Dry      bool `mapstructure:"dry"`
	Progress bool `mapstructure:"progress"`

	Exclude     []string `mapstructure:"exclude"`
	ExcludeFrom string   `label:"--exclude-from" mapstructure:"exclude-from" validate:"omitempty,file"`

	PreserveTimestamps bool `mapstructure:"preserve-timestamps"`

	LogLevel  string `label:"--log-level"  mapstructure:"log-level"  validate:"oneof=debug info warn error"`
	LogFormat string `label:"--log-format" mapstructure:"log-format" validate:"oneof=console json"`

	MetricsFile string `mapstructure:"metrics-file"`

	// Decrypt is set by the decrypt command.
	Decrypt bool `mapstructure:"-"`

	// Paths are the positional arguments.
	Paths []string `label:"paths" mapstructure:"-" validate:"min=1,dive,required"`
}

// Validate checks the configuration against its struct tags.
func (c *Config) Validate() error {
	validate, err := newValidator()
	if err != nil {
		return err
	}

	if err := validate.Struct(c); err != nil {
		var invalid validator.ValidationErrors
		if errors.As(err, &invalid) {
			return fmt.Errorf("validating configuration: %w", describe(invalid))
		}

		return fmt.Errorf("validating configuration: %w", err)
	}

	return nil
}
