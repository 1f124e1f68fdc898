package model

// UploadMode selects which variant of a file the relay bot receives.
type UploadMode int

const (
	ModeCompressed UploadMode = iota // platform-side resized variant
	ModeOriginal                     // unmodified file as a document
	ModeBoth                         // compressed and original in one pass
)

func (m UploadMode) String() string {
	switch m {
	case ModeCompressed:
		return "compressed"
	case ModeOriginal:
		return "original"
	case ModeBoth:
		return "both"
	default:
		return "unknown"
	}
}

// ParseUploadMode maps a configuration string onto an UploadMode. Unknown
// values fall back to ModeCompressed; the second result reports whether the
// input was recognized.
func ParseUploadMode(s string) (UploadMode, bool) {
	switch s {
	case "compressed":
		return ModeCompressed, true
	case "original":
		return ModeOriginal, true
	case "both":
		return ModeBoth, true
	default:
		return ModeCompressed, false
	}
}

// GeneralConfig carries settings that are not tied to one destination.
type GeneralConfig struct {
	AlbumRoot     string `mapstructure:"album_root" validate:"required"`
	CheckInterval int    `mapstructure:"check_interval" validate:"min=1"`
	KeepLogs      bool   `mapstructure:"keep_logs"`
	LogLevel      string `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	LogFile       string `mapstructure:"log_file"`
	JournalPath   string `mapstructure:"journal_path"`
}

// TelegramConfig configures the relay-bot destination.
type TelegramConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	BotToken          string `mapstructure:"bot_token"`
	ChatID            string `mapstructure:"chat_id"`
	APIURL            string `mapstructure:"api_url" validate:"omitempty,url"`
	UploadScreenshots bool   `mapstructure:"upload_screenshots"`
	UploadMovies      bool   `mapstructure:"upload_movies"`
	UploadMode        string `mapstructure:"upload_mode"`

	// Mode is the parsed form of UploadMode, set during config load.
	Mode UploadMode `mapstructure:"-"`
}

// Valid reports whether the destination is enabled with usable credentials.
func (c TelegramConfig) Valid() bool {
	return c.Enabled && c.BotToken != "" && c.ChatID != ""
}

// NtfyConfig configures the pub/sub notification destination.
type NtfyConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	URL               string `mapstructure:"url" validate:"omitempty,url"`
	Topic             string `mapstructure:"topic"`
	Token             string `mapstructure:"token"`
	Priority          string `mapstructure:"priority"`
	UploadScreenshots bool   `mapstructure:"upload_screenshots"`
	UploadMovies      bool   `mapstructure:"upload_movies"`
}

// Valid reports whether the destination is enabled with usable credentials.
func (c NtfyConfig) Valid() bool {
	return c.Enabled && c.Topic != ""
}

// DiscordConfig configures the chat-platform destination.
type DiscordConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	BotToken          string `mapstructure:"bot_token"`
	ChannelID         string `mapstructure:"channel_id"`
	APIURL            string `mapstructure:"api_url" validate:"omitempty,url"`
	UploadScreenshots bool   `mapstructure:"upload_screenshots"`
	UploadMovies      bool   `mapstructure:"upload_movies"`
}

// Valid reports whether the destination is enabled with usable credentials.
func (c DiscordConfig) Valid() bool {
	return c.Enabled && c.BotToken != "" && c.ChannelID != ""
}

// Config is the immutable process-lifetime configuration snapshot. It is
// loaded once at startup and read concurrently without synchronization
// afterwards.
type Config struct {
	General  GeneralConfig  `mapstructure:"general"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Ntfy     NtfyConfig     `mapstructure:"ntfy"`
	Discord  DiscordConfig  `mapstructure:"discord"`
}

// HasValidDestination reports whether at least one destination can deliver.
func (c *Config) HasValidDestination() bool {
	return c.Telegram.Valid() || c.Ntfy.Valid() || c.Discord.Valid()
}
