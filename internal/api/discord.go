package api

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/snapcourier/snapcourier/pkg/model"
)

// Discord delivers captures as message attachments through a chat-platform
// bot API. Files always go up unmodified.
type Discord struct {
	cfg     model.DiscordConfig
	clients *Clients
	log     zerolog.Logger
}

// NewDiscord returns the chat-platform sender.
func NewDiscord(cfg model.DiscordConfig, clients *Clients, log zerolog.Logger) *Discord {
	return &Discord{
		cfg:     cfg,
		clients: clients,
		log:     log.With().Str("destination", "discord").Logger(),
	}
}

// Name identifies the sender in logs and journal records.
func (d *Discord) Name() string { return "discord" }

// Send performs one delivery attempt for the task.
func (d *Discord) Send(ctx context.Context, task model.UploadTask) error {
	d.log.Info().
		Str("file", task.Path).
		Int64("size", task.Size).
		Msg("starting upload")

	_, skip, err := checkTask(task, d.cfg.UploadScreenshots, d.cfg.UploadMovies, d.log)
	if err != nil {
		return err
	}
	if skip {
		return nil
	}

	if d.cfg.BotToken == "" || d.cfg.ChannelID == "" {
		return fmt.Errorf("bot token or channel id not configured: %w", model.ErrRejected)
	}

	f, err := os.Open(task.Path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", task.Path, err)
	}
	defer f.Close()

	url := fmt.Sprintf("%s/channels/%s/messages", d.cfg.APIURL, d.cfg.ChannelID)
	d.log.Debug().Str("channel_id", d.cfg.ChannelID).Msg("sending request")

	resp, err := d.clients.For(task.Kind()).R().
		SetContext(ctx).
		SetHeader("Authorization", "Bot "+d.cfg.BotToken).
		SetFileReader("files[0]", filepath.Base(task.Path), newProgressReader(f, task.Size, d.log)).
		Post(url)
	if err != nil {
		return fmt.Errorf("transfer failed for %s: %w", task.Path, err)
	}
	// The create-message endpoint answers 201 on success; some proxies
	// collapse it to 200.
	if resp.StatusCode() != 200 && resp.StatusCode() != 201 {
		return &ApiError{StatusCode: resp.StatusCode(), Message: resp.String()}
	}

	d.log.Info().Str("file", task.Path).Msg("successfully uploaded")
	return nil
}
