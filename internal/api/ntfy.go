package api

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/snapcourier/snapcourier/pkg/model"
)

// Ntfy delivers captures to a pub/sub notification topic. Files always go up
// unmodified; the notification title carries the title ID.
type Ntfy struct {
	cfg     model.NtfyConfig
	clients *Clients
	log     zerolog.Logger
}

// NewNtfy returns the pub/sub sender.
func NewNtfy(cfg model.NtfyConfig, clients *Clients, log zerolog.Logger) *Ntfy {
	return &Ntfy{
		cfg:     cfg,
		clients: clients,
		log:     log.With().Str("destination", "ntfy").Logger(),
	}
}

// Name identifies the sender in logs and journal records.
func (n *Ntfy) Name() string { return "ntfy" }

// Send performs one delivery attempt for the task.
func (n *Ntfy) Send(ctx context.Context, task model.UploadTask) error {
	n.log.Info().
		Str("file", task.Path).
		Int64("size", task.Size).
		Msg("starting upload")

	tid, skip, err := checkTask(task, n.cfg.UploadScreenshots, n.cfg.UploadMovies, n.log)
	if err != nil {
		return err
	}
	if skip {
		return nil
	}

	if n.cfg.Topic == "" {
		return fmt.Errorf("topic is not configured: %w", model.ErrRejected)
	}

	f, err := os.Open(task.Path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", task.Path, err)
	}
	defer f.Close()

	req := n.clients.For(task.Kind()).R().
		SetContext(ctx).
		SetHeader("Filename", filepath.Base(task.Path)).
		SetHeader("Title", "Screenshot from "+tid).
		SetBody(newProgressReader(f, task.Size, n.log))

	if n.cfg.Token != "" {
		req.SetHeader("Authorization", "Bearer "+n.cfg.Token)
	}
	if n.cfg.Priority != "" && n.cfg.Priority != "default" {
		req.SetHeader("Priority", n.cfg.Priority)
	}

	// The topic URL would expose credentials in the log, so it is never
	// logged.
	resp, err := req.Put(n.cfg.URL + "/" + n.cfg.Topic)
	if err != nil {
		return fmt.Errorf("transfer failed for %s: %w", task.Path, err)
	}
	if resp.StatusCode() != 200 {
		return &ApiError{StatusCode: resp.StatusCode(), Message: resp.String()}
	}

	n.log.Info().Str("file", task.Path).Msg("successfully uploaded")
	return nil
}
