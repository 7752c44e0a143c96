package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/ytget/ytfetch/internal/model"
	"github.com/ytget/ytfetch/internal/platform"
)

// Settings keys
const (
	KeyDownloadDir         = "download.dir"
	KeyDownloadType        = "download.type"
	KeyVideoFormat         = "download.video_format"
	KeyAudioFormat         = "download.audio_format"
	KeyQuality             = "download.quality"
	KeyConcurrent          = "download.concurrent"
	KeyFFmpegPath          = "tools.ffmpeg"
	KeyYTDLPPath           = "tools.ytdlp"
	KeyOutputContainer     = "merge.output_container"
	KeyCatalogTimeout      = "catalog.timeout"
	KeyProgressInterval    = "progress.interval"
	KeyLogLevel            = "log.level"
	KeyLogFile             = "log.file"
	KeyLanguage            = "ui.language"
	KeyAutoRevealComplete  = "ui.auto_reveal"
	EnvPrefix              = "YTFETCH"
	ConfigName             = "config"
	ConfigType             = "yaml"
	ConfigDirName          = "ytfetch"
	fallbackDownloadSubdir = "downloads"
)

// Default values
const (
	DefaultDownloadType       = string(model.TypeBoth)
	DefaultVideoFormat        = "mp4"
	DefaultAudioFormat        = "m4a"
	DefaultConcurrent         = true
	DefaultFFmpegPath         = "ffmpeg"
	DefaultYTDLPPath          = "yt-dlp"
	DefaultOutputContainer    = "mp4"
	DefaultCatalogTimeout     = 60 * time.Second
	DefaultProgressInterval   = 500 * time.Millisecond
	DefaultLogLevel           = "info"
	DefaultLanguage           = "system"
	DefaultAutoRevealComplete = true

	MinProgressInterval = 100 * time.Millisecond
	MaxProgressInterval = 10 * time.Second
)

// Flag names bound to settings keys
var flagKeys = map[string]string{
	"dir":              KeyDownloadDir,
	"type":             KeyDownloadType,
	"video-format":     KeyVideoFormat,
	"audio-format":     KeyAudioFormat,
	"quality":          KeyQuality,
	"concurrent":       KeyConcurrent,
	"ffmpeg":           KeyFFmpegPath,
	"yt-dlp":           KeyYTDLPPath,
	"output-container": KeyOutputContainer,
	"timeout":          KeyCatalogTimeout,
	"log-level":        KeyLogLevel,
	"log-file":         KeyLogFile,
}

// Settings is the resolved application configuration
type Settings struct {
	Download DownloadSettings `mapstructure:"download"`
	Tools    ToolSettings     `mapstructure:"tools"`
	Merge    MergeSettings    `mapstructure:"merge"`
	Catalog  CatalogSettings  `mapstructure:"catalog"`
	Progress ProgressSettings `mapstructure:"progress"`
	Log      LogSettings      `mapstructure:"log"`
	UI       UISettings       `mapstructure:"ui"`
}

// DownloadSettings are the defaults of a download request
type DownloadSettings struct {
	Dir         string `mapstructure:"dir"`
	Type        string `mapstructure:"type"`
	VideoFormat string `mapstructure:"video_format"`
	AudioFormat string `mapstructure:"audio_format"`
	Quality     string `mapstructure:"quality"`
	Concurrent  bool   `mapstructure:"concurrent"`
}

// ToolSettings locate the external binaries
type ToolSettings struct {
	FFmpeg string `mapstructure:"ffmpeg"`
	YTDLP  string `mapstructure:"ytdlp"`
}

// MergeSettings configure the remux step
type MergeSettings struct {
	OutputContainer string `mapstructure:"output_container"`
}

// CatalogSettings configure encoding listing
type CatalogSettings struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// ProgressSettings configure progress reporting
type ProgressSettings struct {
	Interval time.Duration `mapstructure:"interval"`
}

// LogSettings configure the logger
type LogSettings struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// UISettings configure the desktop front-end
type UISettings struct {
	Language   string `mapstructure:"language"`
	AutoReveal bool   `mapstructure:"auto_reveal"`
}

// Options control where settings are loaded from
type Options struct {
	ConfigFile string         // explicit config file; must exist when set
	Flags      *pflag.FlagSet // flags registered with BindFlags
}

// Store manages application configuration
type Store struct {
	v    *viper.Viper
	file string
}

// BindFlags registers the command line flags understood by Load
func BindFlags(fs *pflag.FlagSet) {
	fs.String("dir", "", "destination directory (default: ~/Downloads)")
	fs.StringP("type", "t", DefaultDownloadType, "download type: video, audio or both")
	fs.String("video-format", DefaultVideoFormat, "video container: "+strings.Join(VideoFormatOptions(), ", "))
	fs.String("audio-format", DefaultAudioFormat, "audio container: "+strings.Join(AudioFormatOptions(), ", "))
	fs.StringP("quality", "q", "", "quality label such as 1080p; empty picks the best")
	fs.Bool("concurrent", DefaultConcurrent, "fetch video and audio tracks in parallel")
	fs.String("ffmpeg", DefaultFFmpegPath, "ffmpeg binary")
	fs.String("yt-dlp", DefaultYTDLPPath, "yt-dlp binary")
	fs.String("output-container", DefaultOutputContainer, "container of merged files")
	fs.Duration("timeout", DefaultCatalogTimeout, "timeout for listing encodings")
	fs.String("log-level", DefaultLogLevel, "log level: debug, info, warn, error")
	fs.String("log-file", "", "also append logs to this file")
}

// Load reads configuration from flags, environment variables and an optional config file.
func Load(opts Options) (*Store, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if opts.Flags != nil {
		for name, key := range flagKeys {
			if f := opts.Flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	s := &Store{v: v, file: opts.ConfigFile}
	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", opts.ConfigFile, err)
		}
		return s, nil
	}

	v.SetConfigName(ConfigName)
	v.SetConfigType(ConfigType)
	v.AddConfigPath(".")
	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, ConfigDirName))
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	s.file = v.ConfigFileUsed()
	return s, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyDownloadDir, defaultDownloadDir())
	v.SetDefault(KeyDownloadType, DefaultDownloadType)
	v.SetDefault(KeyVideoFormat, DefaultVideoFormat)
	v.SetDefault(KeyAudioFormat, DefaultAudioFormat)
	v.SetDefault(KeyQuality, "")
	v.SetDefault(KeyConcurrent, DefaultConcurrent)
	v.SetDefault(KeyFFmpegPath, DefaultFFmpegPath)
	v.SetDefault(KeyYTDLPPath, DefaultYTDLPPath)
	v.SetDefault(KeyOutputContainer, DefaultOutputContainer)
	v.SetDefault(KeyCatalogTimeout, DefaultCatalogTimeout)
	v.SetDefault(KeyProgressInterval, DefaultProgressInterval)
	v.SetDefault(KeyLogLevel, DefaultLogLevel)
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyLanguage, DefaultLanguage)
	v.SetDefault(KeyAutoRevealComplete, DefaultAutoRevealComplete)
}

// defaultDownloadDir returns the system Downloads directory
func defaultDownloadDir() string {
	dir, err := platform.GetHomeDownloadsDir()
	if err != nil {
		return filepath.Join(os.TempDir(), fallbackDownloadSubdir)
	}
	return dir
}

// Settings resolves, normalises and validates the current values
func (s *Store) Settings() (Settings, error) {
	var cfg Settings
	if err := s.v.Unmarshal(&cfg); err != nil {
		return Settings{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Settings{}, err
	}
	return cfg, nil
}

// Set overrides one key for the lifetime of the store
func (s *Store) Set(key string, value any) {
	if key == KeyProgressInterval {
		if d, ok := value.(time.Duration); ok {
			value = clampInterval(d)
		}
	}
	s.v.Set(key, value)
}

// ConfigFile returns the file settings were read from or will be saved to
func (s *Store) ConfigFile() string {
	return s.file
}

// Save writes every setting to the config file, creating it if needed
func (s *Store) Save() error {
	file := s.file
	if file == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return fmt.Errorf("locate config dir: %w", err)
		}
		file = filepath.Join(dir, ConfigDirName, ConfigName+"."+ConfigType)
	}
	if err := platform.CreateDirectoryIfNotExists(filepath.Dir(file)); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := s.v.WriteConfigAs(file); err != nil {
		return fmt.Errorf("write config %s: %w", file, err)
	}
	s.file = file
	return nil
}

// normalize lowercases enum values and clamps ranges
func (c *Settings) normalize() {
	c.Download.Type = strings.ToLower(strings.TrimSpace(c.Download.Type))
	c.Download.VideoFormat = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(c.Download.VideoFormat), "."))
	c.Download.AudioFormat = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(c.Download.AudioFormat), "."))
	c.Download.Quality = strings.TrimSpace(c.Download.Quality)
	c.Merge.OutputContainer = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(c.Merge.OutputContainer), "."))
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	c.Progress.Interval = clampInterval(c.Progress.Interval)
	if c.UI.Language == "" {
		c.UI.Language = DefaultLanguage
	}
}

// Validate checks enum values and required fields
func (c Settings) Validate() error {
	if c.Download.Dir == "" {
		return fmt.Errorf("%s must not be empty", KeyDownloadDir)
	}
	if !model.DownloadType(c.Download.Type).IsValid() {
		return fmt.Errorf("invalid %s %q (valid: %s)", KeyDownloadType, c.Download.Type, strings.Join(DownloadTypeOptions(), ", "))
	}
	if !contains(VideoFormatOptions(), c.Download.VideoFormat) {
		return fmt.Errorf("invalid %s %q (valid: %s)", KeyVideoFormat, c.Download.VideoFormat, strings.Join(VideoFormatOptions(), ", "))
	}
	if !contains(AudioFormatOptions(), c.Download.AudioFormat) {
		return fmt.Errorf("invalid %s %q (valid: %s)", KeyAudioFormat, c.Download.AudioFormat, strings.Join(AudioFormatOptions(), ", "))
	}
	if !contains(VideoFormatOptions(), c.Merge.OutputContainer) {
		return fmt.Errorf("invalid %s %q", KeyOutputContainer, c.Merge.OutputContainer)
	}
	if c.Tools.FFmpeg == "" || c.Tools.YTDLP == "" {
		return errors.New("tool paths must not be empty")
	}
	if c.Catalog.Timeout < 0 {
		return fmt.Errorf("%s must not be negative", KeyCatalogTimeout)
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid %s: %w", KeyLogLevel, err)
	}
	if _, ok := LanguageOptions()[c.UI.Language]; !ok {
		return fmt.Errorf("invalid %s %q", KeyLanguage, c.UI.Language)
	}
	return nil
}

// Request builds a download request from the configured defaults
func (c Settings) Request(itemRef string) model.DownloadRequest {
	return model.NewDownloadRequest(itemRef, model.DownloadType(c.Download.Type), c.Download.VideoFormat,
		c.Download.AudioFormat, c.Download.Quality, c.Download.Dir)
}

func clampInterval(d time.Duration) time.Duration {
	if d < MinProgressInterval {
		return MinProgressInterval
	}
	if d > MaxProgressInterval {
		return MaxProgressInterval
	}
	return d
}

// DownloadTypeOptions returns the available download types
func DownloadTypeOptions() []string {
	return []string{string(model.TypeBoth), string(model.TypeVideo), string(model.TypeAudio)}
}

// VideoFormatOptions returns the available video containers
func VideoFormatOptions() []string {
	return []string{"mp4", "webm", "mkv"}
}

// AudioFormatOptions returns the available audio containers
func AudioFormatOptions() []string {
	return []string{"m4a", "mp3", "opus", "webm", "wav", "flac"}
}

// LanguageOptions returns available language options
func LanguageOptions() map[string]string {
	return map[string]string{
		"system": "System Default",
		"en":     "English",
		"ru":     "Русский",
		"pt":     "Português",
	}
}

func contains(options []string, value string) bool {
	for _, o := range options {
		if o == value {
			return true
		}
	}
	return false
}
