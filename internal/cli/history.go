package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/calebmor/drivecat/internal/progress"
	"github.com/calebmor/drivecat/internal/state"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent scan runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, err := state.NewManager(cfg.GetDataDir())
		if err != nil {
			return err
		}
		defer manager.Close()

		records, err := manager.History(historyLimit)
		if err != nil {
			return err
		}

		if len(records) == 0 {
			fmt.Println("No scans recorded yet.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "STARTED\tSTATUS\tFILES\tFOLDERS\tSIZE\tCATALOG")
		for _, r := range records {
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\t%s\n",
				r.StartTime.Format("2006-01-02 15:04:05"),
				r.Status,
				r.FilesFound,
				r.FoldersVisited,
				progress.FormatBytes(r.BytesSeen),
				r.CatalogPath)
		}
		return w.Flush()
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20,
		"maximum number of scans to show")
	rootCmd.AddCommand(historyCmd)
}
