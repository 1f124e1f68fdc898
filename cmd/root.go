package cmd

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/snapcourier/snapcourier/internal/api"
	"github.com/snapcourier/snapcourier/pkg/model"
	"github.com/snapcourier/snapcourier/pkg/uploader"
)

const version = "1.0.0"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "snapcourier",
	Short: "Deliver new album captures to messaging endpoints",
	Long: `snapcourier watches a device-local capture album and delivers every new
screenshot or video to the configured upload destinations (a Telegram bot,
an ntfy topic and/or a Discord channel), with bounded retry and backoff.`,
	SilenceUsage: true,
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.ini", "path to the INI configuration file")
}

// buildDestinations assembles the enabled senders in their fixed delivery
// order: telegram, ntfy, discord. An enabled destination with missing
// credentials is still built; its validation fails per task so the others
// keep running.
func buildDestinations(cfg *model.Config, log zerolog.Logger) []uploader.Destination {
	clients := api.NewClients()

	var destinations []uploader.Destination
	if cfg.Telegram.Enabled {
		destinations = append(destinations, api.NewTelegram(cfg.Telegram, clients, log))
	}
	if cfg.Ntfy.Enabled {
		destinations = append(destinations, api.NewNtfy(cfg.Ntfy, clients, log))
	}
	if cfg.Discord.Enabled {
		destinations = append(destinations, api.NewDiscord(cfg.Discord, clients, log))
	}
	return destinations
}
