package api

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/snapcourier/snapcourier/pkg/model"
)

// Telegram delivers captures through a bot-relay messaging API.
type Telegram struct {
	cfg     model.TelegramConfig
	clients *Clients
	log     zerolog.Logger
}

// NewTelegram returns the relay-bot sender.
func NewTelegram(cfg model.TelegramConfig, clients *Clients, log zerolog.Logger) *Telegram {
	return &Telegram{
		cfg:     cfg,
		clients: clients,
		log:     log.With().Str("destination", "telegram").Logger(),
	}
}

// Name identifies the sender in logs and journal records.
func (t *Telegram) Name() string { return "telegram" }

// variant describes how one file type maps onto the bot API for a given
// compression choice.
type variant struct {
	field       string
	method      string
	contentType string
}

// variantFor picks the API method and form field for an extension. The
// compressed variant lets the API resize the media; the original variant
// ships the untouched file as a document.
func variantFor(ext string, compressed bool) (variant, bool) {
	switch ext {
	case ".jpg":
		if compressed {
			return variant{field: "photo", method: "sendPhoto", contentType: "image/jpeg"}, true
		}
		return variant{field: "document", method: "sendDocument", contentType: "image/jpeg"}, true
	case ".mp4":
		if compressed {
			return variant{field: "video", method: "sendVideo", contentType: "video/mp4"}, true
		}
		return variant{field: "document", method: "sendDocument", contentType: "video/mp4"}, true
	default:
		return variant{}, false
	}
}

// Send performs one delivery pass for the task. In "both" mode the
// compressed and original variants are sent as two independent sub-calls and
// either success counts.
func (t *Telegram) Send(ctx context.Context, task model.UploadTask) error {
	t.log.Info().
		Str("file", task.Path).
		Int64("size", task.Size).
		Str("mode", t.cfg.Mode.String()).
		Msg("starting upload")

	_, skip, err := checkTask(task, t.cfg.UploadScreenshots, t.cfg.UploadMovies, t.log)
	if err != nil {
		return err
	}
	if skip {
		return nil
	}

	if t.cfg.BotToken == "" || t.cfg.ChatID == "" {
		return fmt.Errorf("bot token or chat id not configured: %w", model.ErrRejected)
	}

	switch t.cfg.Mode {
	case model.ModeOriginal:
		return t.sendVariant(ctx, task, false)
	case model.ModeBoth:
		compressedErr := t.sendVariant(ctx, task, true)
		originalErr := t.sendVariant(ctx, task, false)
		if compressedErr == nil || originalErr == nil {
			return nil
		}
		return errors.Join(compressedErr, originalErr)
	default:
		return t.sendVariant(ctx, task, true)
	}
}

func (t *Telegram) sendVariant(ctx context.Context, task model.UploadTask, compressed bool) error {
	v, ok := variantFor(filepath.Ext(task.Path), compressed)
	if !ok {
		return fmt.Errorf("unknown file extension %q: %w", filepath.Ext(task.Path), model.ErrRejected)
	}

	f, err := os.Open(task.Path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", task.Path, err)
	}
	defer f.Close()

	url := fmt.Sprintf("%s/bot%s/%s", t.cfg.APIURL, t.cfg.BotToken, v.method)
	t.log.Debug().
		Str("method", v.method).
		Str("chat_id", t.cfg.ChatID).
		Bool("compressed", compressed).
		Msg("sending request")

	resp, err := t.clients.For(task.Kind()).R().
		SetContext(ctx).
		SetQueryParam("chat_id", t.cfg.ChatID).
		SetMultipartField(v.field, filepath.Base(task.Path), v.contentType, newProgressReader(f, task.Size, t.log)).
		Post(url)
	if err != nil {
		return fmt.Errorf("transfer failed for %s: %w", task.Path, err)
	}
	if resp.StatusCode() != 200 {
		return &ApiError{StatusCode: resp.StatusCode(), Message: resp.String()}
	}

	t.log.Info().Str("file", task.Path).Bool("compressed", compressed).Msg("successfully uploaded")
	return nil
}
