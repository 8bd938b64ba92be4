package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/yuchialin/tripledger/internal/config"
	"github.com/yuchialin/tripledger/internal/sheets"
)

func authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authenticate with Google Sheets",
		Long: `Run the interactive OAuth2 flow against Google Sheets and store the
refresh token for later runs. Alternatively, configure a service account
key path and skip this step entirely.`,
		RunE: runAuth,
	}

	return cmd
}

func runAuth(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	clientID := viper.GetString("sheets.client_id")
	clientSecret := viper.GetString("sheets.client_secret")
	if clientID == "" || clientSecret == "" {
		return fmt.Errorf("sheets.client_id and sheets.client_secret must be configured")
	}

	token, err := sheets.GetOrCreateToken(ctx, sheets.OAuth2Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenFile:    config.TokenPath(),
	})
	if err != nil {
		return err
	}

	fmt.Println("Authentication complete.")
	fmt.Println("Add this refresh token to your config as sheets.refresh_token:")
	fmt.Println(token.RefreshToken)

	return nil
}
