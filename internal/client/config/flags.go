package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/talkclient/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-s string   default server URL
//	-d string   path of the local account database
//	-l string   log level
//	-t int      request timeout in seconds
//	-i int      online check interval in seconds
//	-p int      purge interval in seconds
//	-r uint     retries of a failed room operation
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-s", "-d", "-l", "-t", "-i", "-p", "-r"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "s", cfg.ServerURL, "default server URL")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path of the local account database")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug, info, warn, error)")
	requestTimeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	purgeInterval := fs.Int("p", int(cfg.PurgeInterval.Seconds()), "purge interval (in seconds)")
	fs.Uint64Var(&cfg.Retries, "r", cfg.Retries, "retries of a failed room operation")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*requestTimeout) * time.Second
	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
	cfg.PurgeInterval = time.Duration(*purgeInterval) * time.Second
}
