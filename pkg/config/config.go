// Package config loads the immutable process configuration from an INI file.
// The snapshot is read once at startup; a reload requires a restart.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"github.com/zalando/go-keyring"

	"github.com/snapcourier/snapcourier/pkg/model"
)

// KeyringService is the OS keyring service name used for credential lookups.
const KeyringService = "snapcourier"

// keyringPrefix marks a credential value that should be resolved from the OS
// keyring instead of being used verbatim.
const keyringPrefix = "keyring:"

// Load reads the INI file at path, applies defaults, resolves keyring
// credentials and validates the result. A missing file yields the defaults.
func Load(path string) (*model.Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("ini")
	setDefaults(v)

	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	cfg := &model.Config{}
	// INI values arrive as strings; decode bools and ints weakly.
	weakDecode := func(dc *mapstructure.DecoderConfig) { dc.WeaklyTypedInput = true }
	if err := v.Unmarshal(cfg, weakDecode); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Minimum one second between detection cycles.
	if cfg.General.CheckInterval < 1 {
		cfg.General.CheckInterval = 1
	}

	// Unrecognized modes fall back to compressed rather than propagating.
	cfg.Telegram.Mode, _ = model.ParseUploadMode(cfg.Telegram.UploadMode)

	if err := resolveCredentials(cfg); err != nil {
		return nil, err
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("general.check_interval", 5)
	v.SetDefault("general.keep_logs", false)
	v.SetDefault("general.log_level", "info")
	v.SetDefault("general.log_file", "")
	v.SetDefault("general.journal_path", "")

	v.SetDefault("telegram.enabled", false)
	v.SetDefault("telegram.api_url", "https://api.telegram.org")
	v.SetDefault("telegram.upload_screenshots", true)
	v.SetDefault("telegram.upload_movies", true)
	v.SetDefault("telegram.upload_mode", "compressed")

	v.SetDefault("ntfy.enabled", false)
	v.SetDefault("ntfy.url", "https://ntfy.sh")
	v.SetDefault("ntfy.priority", "default")
	v.SetDefault("ntfy.upload_screenshots", true)
	v.SetDefault("ntfy.upload_movies", false)

	v.SetDefault("discord.enabled", false)
	v.SetDefault("discord.api_url", "https://discord.com/api/v10")
	v.SetDefault("discord.upload_screenshots", true)
	v.SetDefault("discord.upload_movies", false)
}

// resolveCredentials replaces "keyring:<name>" credential values with the
// secret stored under that name in the OS keyring.
func resolveCredentials(cfg *model.Config) error {
	var err error
	if cfg.Telegram.BotToken, err = resolveCredential(cfg.Telegram.BotToken); err != nil {
		return fmt.Errorf("telegram bot token: %w", err)
	}
	if cfg.Ntfy.Token, err = resolveCredential(cfg.Ntfy.Token); err != nil {
		return fmt.Errorf("ntfy token: %w", err)
	}
	if cfg.Discord.BotToken, err = resolveCredential(cfg.Discord.BotToken); err != nil {
		return fmt.Errorf("discord bot token: %w", err)
	}
	return nil
}

func resolveCredential(value string) (string, error) {
	if !strings.HasPrefix(value, keyringPrefix) {
		return value, nil
	}
	name := strings.TrimPrefix(value, keyringPrefix)
	secret, err := keyring.Get(KeyringService, name)
	if err != nil {
		return "", fmt.Errorf("failed to resolve keyring entry %q: %w", name, err)
	}
	return secret, nil
}
