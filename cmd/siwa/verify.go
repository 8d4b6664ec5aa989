package main

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/edenhq/go-siwa"
)

var (
	verifyNonce   string
	verifyJWKSURI string
)

var verifyCmd = &cobra.Command{
	Use:   "verify <identity-token>",
	Short: "Verify an identity token and print its claims",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := siwa.Load()
		if err != nil {
			return err
		}

		var ksOpts []siwa.KeySetOption

		if verifyJWKSURI != "" {
			ksOpts = append(ksOpts, siwa.WithJWKSURI(verifyJWKSURI))
		}

		ks, err := siwa.NewKeySet(cmd.Context(), ksOpts...)
		if err != nil {
			return err
		}

		var opts []siwa.VerifyOption

		if verifyNonce != "" {
			opts = append(opts, siwa.WithNonce(verifyNonce))
		}

		start := time.Now()

		it, err := siwa.NewVerifier(cfg, ks).Verify(cmd.Context(), []byte(args[0]), opts...)
		if err != nil {
			return err
		}

		log.Info().Str("sub", it.Subject).Dur("took", time.Since(start)).Msg("token verified")

		return printJSON(it)
	},
}

func init() {
	verifyCmd.Flags().StringVar(&verifyNonce, "nonce", "", "Nonce sent with the authorization request")
	verifyCmd.Flags().StringVar(&verifyJWKSURI, "jwks-uri", "", "Override the JWKS endpoint")

	rootCmd.AddCommand(verifyCmd)
}
