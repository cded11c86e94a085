package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/calebmor/drivecat/internal/remote/gdrive"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authorize drivecat to read your Google Drive",
	Long: `Auth runs the OAuth authorization flow and stores the resulting token
on disk. Scans reuse and refresh the stored token automatically; re-run
this command if the refresh token is revoked.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.ValidateCredentials(); err != nil {
			return fmt.Errorf("%w\nset credentials.client_id and credentials.client_secret in the config file", err)
		}

		auth := gdrive.NewAuthenticator(
			cfg.Credentials.ClientID,
			cfg.Credentials.ClientSecret,
			cfg.Credentials.TokenPath)

		_, err := auth.Authenticate(cmd.Context())
		return err
	},
}

func init() {
	rootCmd.AddCommand(authCmd)
}
