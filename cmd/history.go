package cmd

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/snapcourier/snapcourier/pkg/config"
	"github.com/snapcourier/snapcourier/pkg/journal"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the recorded upload history",
	RunE:  showHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
}

func showHistory(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if cfg.General.JournalPath == "" {
		return fmt.Errorf("no journal_path configured")
	}

	j, err := journal.Open(cfg.General.JournalPath)
	if err != nil {
		return err
	}
	defer j.Close()

	entries, err := j.List()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No uploads recorded yet.")
		return nil
	}

	for _, entry := range entries {
		when := time.UnixMicro(entry.RecordedAt).Format(time.RFC3339)
		if entry.AnySuccess {
			color.Green("✓ %s  %s (%d bytes)", when, entry.Path, entry.Size)
		} else {
			color.Red("✗ %s  %s (%d bytes)", when, entry.Path, entry.Size)
		}
		for name, ok := range entry.Outcomes {
			status := "failed"
			if ok {
				status = "ok"
			}
			fmt.Printf("    %-10s %s\n", name, status)
		}
	}
	return nil
}
