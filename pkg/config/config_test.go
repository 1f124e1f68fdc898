package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/snapcourier/snapcourier/pkg/model"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.ini")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
[general]
album_root = /mnt/album
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.General.AlbumRoot != "/mnt/album" {
		t.Errorf("album_root = %q", cfg.General.AlbumRoot)
	}
	if cfg.General.CheckInterval != 5 {
		t.Errorf("check_interval = %d, want 5", cfg.General.CheckInterval)
	}
	if cfg.General.LogLevel != "info" {
		t.Errorf("log_level = %q, want info", cfg.General.LogLevel)
	}
	if cfg.Telegram.Enabled || cfg.Ntfy.Enabled || cfg.Discord.Enabled {
		t.Error("destinations must default to disabled")
	}
	if cfg.Telegram.APIURL != "https://api.telegram.org" {
		t.Errorf("telegram api_url = %q", cfg.Telegram.APIURL)
	}
	if cfg.Ntfy.URL != "https://ntfy.sh" {
		t.Errorf("ntfy url = %q", cfg.Ntfy.URL)
	}
	if cfg.Ntfy.Priority != "default" {
		t.Errorf("ntfy priority = %q", cfg.Ntfy.Priority)
	}
	if cfg.Discord.APIURL != "https://discord.com/api/v10" {
		t.Errorf("discord api_url = %q", cfg.Discord.APIURL)
	}
	if !cfg.Telegram.UploadScreenshots || !cfg.Telegram.UploadMovies {
		t.Error("telegram defaults to screenshots and movies on")
	}
	if !cfg.Ntfy.UploadScreenshots || cfg.Ntfy.UploadMovies {
		t.Error("ntfy defaults to screenshots only")
	}
	if !cfg.Discord.UploadScreenshots || cfg.Discord.UploadMovies {
		t.Error("discord defaults to screenshots only")
	}
	if cfg.Telegram.Mode != model.ModeCompressed {
		t.Errorf("telegram mode = %v, want compressed", cfg.Telegram.Mode)
	}
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
[general]
album_root = /mnt/album
check_interval = 30
log_level = debug
keep_logs = true

[telegram]
enabled = true
bot_token = tok
chat_id = 42
upload_mode = both
upload_movies = false

[ntfy]
enabled = true
topic = captures
priority = high

[discord]
enabled = true
bot_token = dtok
channel_id = 99
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.General.CheckInterval != 30 {
		t.Errorf("check_interval = %d, want 30", cfg.General.CheckInterval)
	}
	if !cfg.General.KeepLogs {
		t.Error("keep_logs not parsed")
	}
	if !cfg.Telegram.Valid() || cfg.Telegram.ChatID != "42" {
		t.Errorf("telegram = %+v", cfg.Telegram)
	}
	if cfg.Telegram.Mode != model.ModeBoth {
		t.Errorf("telegram mode = %v, want both", cfg.Telegram.Mode)
	}
	if cfg.Telegram.UploadMovies {
		t.Error("telegram upload_movies override lost")
	}
	if !cfg.Ntfy.Valid() || cfg.Ntfy.Priority != "high" {
		t.Errorf("ntfy = %+v", cfg.Ntfy)
	}
	if !cfg.Discord.Valid() {
		t.Errorf("discord = %+v", cfg.Discord)
	}
	if !cfg.HasValidDestination() {
		t.Error("expected a valid destination")
	}
}

func TestLoadClampsCheckInterval(t *testing.T) {
	path := writeConfig(t, `
[general]
album_root = /mnt/album
check_interval = 0
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.General.CheckInterval != 1 {
		t.Errorf("check_interval = %d, want clamped to 1", cfg.General.CheckInterval)
	}
}

func TestLoadUnknownUploadModeFallsBack(t *testing.T) {
	path := writeConfig(t, `
[general]
album_root = /mnt/album

[telegram]
upload_mode = turbo
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Telegram.Mode != model.ModeCompressed {
		t.Errorf("mode = %v, want compressed fallback", cfg.Telegram.Mode)
	}
}

func TestLoadMissingAlbumRoot(t *testing.T) {
	path := writeConfig(t, `
[general]
check_interval = 5
`)
	if _, err := Load(path); err == nil {
		t.Error("missing album_root must fail validation")
	}
}

func TestLoadMissingFileFailsValidation(t *testing.T) {
	// Defaults alone have no album root, so a missing file cannot validate.
	path := filepath.Join(t.TempDir(), "absent.ini")
	if _, err := Load(path); err == nil {
		t.Error("missing config file must fail validation")
	}
}

func TestLoadInvalidLogLevel(t *testing.T) {
	path := writeConfig(t, `
[general]
album_root = /mnt/album
log_level = chatty
`)
	if _, err := Load(path); err == nil {
		t.Error("unknown log_level must fail validation")
	}
}

func TestResolveCredentialPassthrough(t *testing.T) {
	got, err := resolveCredential("plain-token")
	if err != nil {
		t.Fatal(err)
	}
	if got != "plain-token" {
		t.Errorf("resolveCredential = %q", got)
	}
	if got, err := resolveCredential(""); err != nil || got != "" {
		t.Errorf("resolveCredential(\"\") = %q, %v", got, err)
	}
}
