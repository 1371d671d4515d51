// Command fcrypt encrypts and decrypts files and folders with a password.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/idelchi/fcrypt/internal/commands"
	"github.com/idelchi/fcrypt/internal/config"
)

// version is set at build time.
var version = "unknown" //nolint:gochecknoglobals

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	cfg := config.Config{}

	err := commands.NewRootCommand(&cfg, version).ExecuteContext(ctx)

	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "fcrypt: %v\n", err)
		os.Exit(1)
	}
}
