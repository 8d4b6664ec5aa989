package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/edenhq/go-siwa"
)

var secretLifetime time.Duration

var clientSecretCmd = &cobra.Command{
	Use:   "client-secret",
	Short: "Mint a client secret for the token endpoint",
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg, err := siwa.Load()
		if err != nil {
			return err
		}

		secret, err := siwa.ClientSecret(cfg, secretLifetime)
		if err != nil {
			return err
		}

		fmt.Println(secret)

		return nil
	},
}

var exchangeCmd = &cobra.Command{
	Use:   "exchange <code>",
	Short: "Exchange an authorization code for tokens",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := siwa.Load()
		if err != nil {
			return err
		}

		c := siwa.NewClient(cfg, siwa.WithSecretLifetime(secretLifetime))

		tr, err := c.Exchange(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		return printJSON(tr)
	},
}

var refreshCmd = &cobra.Command{
	Use:   "refresh <refresh-token>",
	Short: "Exchange a refresh token for a new access token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := siwa.Load()
		if err != nil {
			return err
		}

		c := siwa.NewClient(cfg, siwa.WithSecretLifetime(secretLifetime))

		tr, err := c.Refresh(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		return printJSON(tr)
	},
}

func printJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	fmt.Println(string(b))

	return nil
}

func init() {
	for _, c := range []*cobra.Command{clientSecretCmd, exchangeCmd, refreshCmd} {
		c.Flags().DurationVar(&secretLifetime, "secret-lifetime", 5*time.Minute, "Client secret lifetime")
	}

	rootCmd.AddCommand(clientSecretCmd, exchangeCmd, refreshCmd)
}
