package main

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/edenhq/go-siwa"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the resolved configuration",
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg, err := siwa.Load()
		if err != nil {
			return err
		}

		// Never print key material.
		redacted := *cfg
		if redacted.PrivateKey != "" {
			redacted.PrivateKey = "(redacted)"
		}

		b, err := json.MarshalIndent(map[string]string{
			"client_id":     redacted.ClientID,
			"team_id":       redacted.TeamID,
			"key_id":        redacted.KeyID,
			"private_key":   redacted.PrivateKey,
			"redirect_uri":  redacted.RedirectURI,
			"scope":         redacted.Scope,
			"response_mode": redacted.ResponseMode,
			"response_type": redacted.ResponseType,
			"state":         redacted.State,
		}, "", "  ")
		if err != nil {
			return err
		}

		fmt.Println(string(b))
		log.Info().Msg("configuration is valid")

		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
