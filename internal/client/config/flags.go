package config

import (
	"flag"
	"os"

	"github.com/studyvault/noteguard/internal/flagx"
)

// parseFlags populates selected viewer Config fields from command-line flags.
//
// Supported flags:
//
//	-s string   server base URL
//	-u string   user id
//	-f string   sqlite database path
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-s", "-u", "-f"})

	fs := flag.NewFlagSet("viewer", flag.ContinueOnError)

	fs.StringVar(&config.ServerBaseURL, "s", config.ServerBaseURL, "server base URL")
	fs.StringVar(&config.UserID, "u", config.UserID, "user id")
	fs.StringVar(&config.DatabasePath, "f", config.DatabasePath, "sqlite database path")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
