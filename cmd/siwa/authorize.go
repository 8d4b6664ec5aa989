package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/edenhq/go-siwa"
)

var (
	authorizeState string
	authorizeNonce string
)

var authorizeURLCmd = &cobra.Command{
	Use:   "authorize-url",
	Short: "Build an authorization URL from the configuration",
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg, err := siwa.Load()
		if err != nil {
			return err
		}

		var opts []siwa.AuthorizeOption

		if authorizeState != "" {
			opts = append(opts, siwa.WithState(authorizeState))
		}

		if authorizeNonce != "" {
			opts = append(opts, siwa.WithRequestNonce(authorizeNonce))
		}

		req := siwa.NewAuthorizationRequest(cfg, opts...)

		log.Info().Str("state", req.State).Str("nonce", req.Nonce).
			Msg("keep state and nonce to validate the response")
		fmt.Println(req.URL)

		return nil
	},
}

func init() {
	authorizeURLCmd.Flags().StringVar(&authorizeState, "state", "", "State value (generated when empty)")
	authorizeURLCmd.Flags().StringVar(&authorizeNonce, "nonce", "", "Nonce value (generated when empty)")

	rootCmd.AddCommand(authorizeURLCmd)
}
