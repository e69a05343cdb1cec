// Package config provides configuration management for MindMate.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	User       UserConfig       `mapstructure:"user"`
	Camera     CameraConfig     `mapstructure:"camera"`
	Stabilizer StabilizerConfig `mapstructure:"stabilizer"`
	Response   ResponseConfig   `mapstructure:"response"`
	Speech     SpeechConfig     `mapstructure:"speech"`
	Avatar     AvatarConfig     `mapstructure:"avatar"`
	Store      StoreConfig      `mapstructure:"store"`
	Sync       SyncConfig       `mapstructure:"sync"`
}

// UserConfig identifies the user
type UserConfig struct {
	Name     string `mapstructure:"name"`
	Language string `mapstructure:"language"` // en, hi, hinglish
}

// CameraConfig configures the facial-emotion sampling loop
type CameraConfig struct {
	Enabled             bool          `mapstructure:"enabled"`
	InferenceURL        string        `mapstructure:"inference_url"`
	PollInterval        time.Duration `mapstructure:"poll_interval"`
	ConfidenceThreshold float64       `mapstructure:"confidence_threshold"`
}

// StabilizerConfig configures emotion debouncing
type StabilizerConfig struct {
	RepeatThreshold int `mapstructure:"repeat_threshold"`
}

// ResponseConfig configures response resolution
type ResponseConfig struct {
	IncludeTimeGreeting bool `mapstructure:"include_time_greeting"`
}

// SpeechConfig configures speech delivery
type SpeechConfig struct {
	Provider   string `mapstructure:"provider"` // http, mock
	ServiceURL string `mapstructure:"service_url"`
	Timeout    int    `mapstructure:"timeout_sec"`
	Lang       string `mapstructure:"lang"` // BCP 47 delivery language
}

// AvatarConfig configures the expression engine
type AvatarConfig struct {
	TransitionDuration time.Duration `mapstructure:"transition_duration"`
	BlinkMinGap        time.Duration `mapstructure:"blink_min_gap"`
	BlinkMaxGap        time.Duration `mapstructure:"blink_max_gap"`
	JitterPeriod       time.Duration `mapstructure:"jitter_period"`
}

// StoreConfig configures persona persistence
type StoreConfig struct {
	Path string `mapstructure:"path"` // empty = in-memory
}

// SyncConfig configures the avatar-state broadcast server
type SyncConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	ListenAddr string `mapstructure:"listen_addr"`
}

// DefaultConfig returns sensible default configuration
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		User: UserConfig{
			Language: "en",
		},
		Camera: CameraConfig{
			Enabled:             true,
			InferenceURL:        "http://localhost:8090",
			PollInterval:        2500 * time.Millisecond,
			ConfidenceThreshold: 0.7,
		},
		Stabilizer: StabilizerConfig{
			RepeatThreshold: 2,
		},
		Response: ResponseConfig{
			IncludeTimeGreeting: true,
		},
		Speech: SpeechConfig{
			Provider:   "http",
			ServiceURL: "http://localhost:8899",
			Timeout:    30,
			Lang:       "en-US",
		},
		Avatar: AvatarConfig{
			TransitionDuration: 800 * time.Millisecond,
			BlinkMinGap:        3 * time.Second,
			BlinkMaxGap:        5 * time.Second,
			JitterPeriod:       150 * time.Millisecond,
		},
		Store: StoreConfig{
			Path: filepath.Join(home, ".mindmate", "persona.db"),
		},
		Sync: SyncConfig{
			Enabled:    true,
			ListenAddr: "127.0.0.1:8765",
		},
	}
}

// Load reads configuration from file and environment
func Load() (*Config, error) {
	cfg := DefaultConfig()

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return cfg, err
	}

	configDir := filepath.Join(homeDir, ".mindmate")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return cfg, err
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir)
	viper.AddConfigPath(".")

	// Environment variable overrides
	viper.SetEnvPrefix("MINDMATE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return cfg, err
		}
		// Config file not found, use defaults and create one
		if err := Save(cfg); err != nil {
			return cfg, err
		}
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Save writes the configuration to file
func Save(cfg *Config) error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return err
	}

	configDir := filepath.Join(homeDir, ".mindmate")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return err
	}

	viper.Set("user", cfg.User)
	viper.Set("camera", cfg.Camera)
	viper.Set("stabilizer", cfg.Stabilizer)
	viper.Set("response", cfg.Response)
	viper.Set("speech", cfg.Speech)
	viper.Set("avatar", cfg.Avatar)
	viper.Set("store", cfg.Store)
	viper.Set("sync", cfg.Sync)

	configPath := filepath.Join(configDir, "config.yaml")
	return viper.WriteConfigAs(configPath)
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".mindmate"), nil
}
