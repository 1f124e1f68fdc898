package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/snapcourier/snapcourier/internal/logging"
	"github.com/snapcourier/snapcourier/pkg/album"
	"github.com/snapcourier/snapcourier/pkg/config"
	"github.com/snapcourier/snapcourier/pkg/journal"
	"github.com/snapcourier/snapcourier/pkg/queue"
	"github.com/snapcourier/snapcourier/pkg/uploader"
	"github.com/snapcourier/snapcourier/pkg/watcher"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the detection and upload loops until terminated",
	RunE:  runDaemon,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runDaemon(cmd *cobra.Command, args []string) error {
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

	log.Info().Str("version", version).Msg("snapcourier is starting")

	if !cfg.HasValidDestination() {
		log.Error().Msg("no valid upload destination: telegram, ntfy and discord are disabled or misconfigured")
		return fmt.Errorf("no valid upload destination configured")
	}

	channels := make([]string, 0, 3)
	if cfg.Telegram.Valid() {
		channels = append(channels, "telegram")
	}
	if cfg.Ntfy.Valid() {
		channels = append(channels, "ntfy")
	}
	if cfg.Discord.Valid() {
		channels = append(channels, "discord")
	}
	log.Info().Strs("channels", channels).Msg("enabled upload channels")
	if cfg.Telegram.Enabled {
		log.Info().Str("mode", cfg.Telegram.Mode.String()).Msg("telegram upload mode")
	}
	log.Info().Int("seconds", cfg.General.CheckInterval).Msg("check interval")

	var recorder uploader.Recorder
	if cfg.General.JournalPath != "" {
		j, err := journal.Open(cfg.General.JournalPath)
		if err != nil {
			log.Warn().Err(err).Msg("journal disabled")
		} else {
			defer j.Close()
			recorder = j
		}
	}

	q := queue.New(queue.DefaultCapacity)
	destinations := buildDestinations(cfg, log)
	worker := uploader.NewWorker(q, destinations, uploader.NewRetrier(log), recorder, log)
	scanner := album.NewScanner(cfg.General.AlbumRoot)
	w := watcher.New(scanner, q, worker, time.Duration(cfg.General.CheckInterval)*time.Second, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_ = w.Run(ctx)

	log.Info().Msg("shutting down, waiting for pending uploads")
	done := make(chan struct{})
	go func() {
		worker.Wait()
		close(done)
	}()
	select {
	case <-done:
		log.Info().Msg("all uploads completed")
	case <-time.After(30 * time.Second):
		log.Warn().Msg("shutdown timeout, some uploads may be incomplete")
	}

	return nil
}
