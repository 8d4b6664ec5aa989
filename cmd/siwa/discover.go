package main

import (
	"github.com/spf13/cobra"

	"github.com/edenhq/go-siwa"
)

var discoverURI string

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Fetch and print the issuer's provider metadata",
	RunE: func(cmd *cobra.Command, _ []string) error {
		meta, err := siwa.Discover(cmd.Context(), discoverURI)
		if err != nil {
			return err
		}

		return printJSON(meta)
	},
}

func init() {
	discoverCmd.Flags().StringVar(&discoverURI, "configuration-uri", siwa.ConfigurationURI,
		"OpenID configuration document to fetch")

	rootCmd.AddCommand(discoverCmd)
}
