package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/gatekeeper/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-t", "-g", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "identity service base URL")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "local database file")
	verifyTimeout := fs.Int("t", int(cfg.VerifyTimeout.Seconds()), "verification timeout (in seconds)")
	redirectGrace := fs.Int("g", int(cfg.RedirectGrace.Milliseconds()), "redirect grace delay (in milliseconds)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.VerifyTimeout = time.Duration(*verifyTimeout) * time.Second
	cfg.RedirectGrace = time.Duration(*redirectGrace) * time.Millisecond
}
