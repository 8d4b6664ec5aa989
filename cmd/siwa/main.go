// Command siwa is a debug companion for the go-siwa library: it builds
// authorization URLs, mints client secrets, exchanges codes and verifies
// identity tokens using the SIWA_-prefixed environment configuration.
package main

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	envFile  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "siwa",
	Short: "Sign in with Apple debug tool",
	Long: `siwa exercises a Sign in with Apple integration from the command line:
building authorization URLs, minting client secrets, exchanging
authorization codes and verifying identity tokens.

Configuration is read from SIWA_-prefixed environment variables,
optionally loaded from a .env file.`,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		level, err := zerolog.ParseLevel(logLevel)
		if err != nil {
			return err
		}

		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
			Level(level).
			With().Timestamp().Logger()

		if envFile != "" {
			if err := godotenv.Load(envFile); err != nil {
				return err
			}

			log.Debug().Str("file", envFile).Msg("loaded environment file")
		} else if err := godotenv.Load(); err == nil {
			log.Debug().Msg("loaded .env")
		}

		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Environment file to load before reading SIWA_* variables")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("execution failed")
		os.Exit(1)
	}
}
