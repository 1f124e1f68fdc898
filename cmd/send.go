package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/snapcourier/snapcourier/internal/logging"
	"github.com/snapcourier/snapcourier/pkg/config"
	"github.com/snapcourier/snapcourier/pkg/model"
	"github.com/snapcourier/snapcourier/pkg/uploader"
)

var sendCmd = &cobra.Command{
	Use:   "send <file>",
	Short: "Deliver a single album file to the configured destinations and exit",
	Args:  cobra.ExactArgs(1),
	RunE:  sendOnce,
}

func init() {
	rootCmd.AddCommand(sendCmd)
}

func sendOnce(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	log, closeLog, err := logging.New(logging.Config{
		Level:    cfg.General.LogLevel,
		File:     cfg.General.LogFile,
		KeepLogs: cfg.General.KeepLogs,
	})
	if err != nil {
		return err
	}
	defer closeLog()

	if !cfg.HasValidDestination() {
		return fmt.Errorf("no valid upload destination configured")
	}

	path := args[0]
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if len(path) > model.MaxPathLen {
		return fmt.Errorf("path exceeds %d characters", model.MaxPathLen)
	}
	task := model.UploadTask{Path: path, Size: info.Size()}

	destinations := buildDestinations(cfg, log)
	retrier := uploader.NewRetrier(log)

	anySuccess := false
	for _, dest := range destinations {
		if err := retrier.Do(context.Background(), dest, task); err != nil {
			color.Red("✗ %s: %v", dest.Name(), err)
			continue
		}
		color.Green("✓ %s", dest.Name())
		anySuccess = true
	}
	if !anySuccess {
		return fmt.Errorf("all uploads failed")
	}
	return nil
}
