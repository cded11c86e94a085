package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/calebmor/drivecat/internal/progress"
	"github.com/calebmor/drivecat/internal/remote/gdrive"
	"github.com/calebmor/drivecat/internal/service"
)

var (
	scanOutput   string
	scanFolderID string
	scanUpdate   bool
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan Google Drive and write the catalog CSV",
	Long: `Scan walks the Drive tree breadth-first, resolves every file's full
path and writes the catalog. With --update, the existing catalog is
loaded first and refreshed in place: new files are added, previously
seen files are replaced, and files missing from this scan are kept.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if scanOutput != "" {
			cfg.Catalog.Path = scanOutput
		}
		if scanFolderID != "" {
			cfg.Scan.FolderID = scanFolderID
		}

		if err := cfg.ValidateCredentials(); err != nil {
			return fmt.Errorf("%w\nset credentials.client_id and credentials.client_secret in the config file", err)
		}

		ctx := cmd.Context()

		store, err := gdrive.New(ctx,
			cfg.Credentials.ClientID,
			cfg.Credentials.ClientSecret,
			cfg.Credentials.TokenPath,
			cfg.Scan.PageSize)
		if err != nil {
			return err
		}

		svc, err := service.New(cfg, store)
		if err != nil {
			return err
		}
		defer svc.Close()

		svc.SetReporter(progress.NewConsoleReporter(os.Stderr))

		fmt.Fprintln(os.Stderr, "Scanning Google Drive...")
		summary, err := svc.Run(ctx, scanUpdate)
		if err != nil {
			return err
		}

		if summary.Merged {
			fmt.Printf("Merged catalog contains %d total entries (%d from this scan)\n",
				summary.TotalRecords, summary.Stats.FilesEmitted)
		} else {
			fmt.Printf("Catalog contains %d entries\n", summary.TotalRecords)
		}
		fmt.Printf("Catalog saved to %s\n", cfg.Catalog.Path)
		return nil
	},
}

func init() {
	scanCmd.Flags().StringVarP(&scanOutput, "output", "o", "",
		"output CSV file path (overrides catalog.path)")
	scanCmd.Flags().StringVarP(&scanFolderID, "folder-id", "f", "",
		"Drive folder ID to scan (scans drive root if not specified)")
	scanCmd.Flags().BoolVarP(&scanUpdate, "update", "u", false,
		"update existing catalog instead of overwriting it")
	rootCmd.AddCommand(scanCmd)
}
