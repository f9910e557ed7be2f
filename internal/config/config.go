package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

type AppConfig struct {
	BackendURL     string
	RequestTimeout time.Duration
	PageLimit      int
	WatchDir       string
	JournalPath    string
	TokenPath      string
	LogPath        string
}

var cfg AppConfig

func Init() AppConfig {
	defaultDir := filepath.Join(os.TempDir(), "nimbus")

	v := viper.New()
	v.SetConfigFile("config/config.yaml")
	v.SetConfigType("yaml")

	// defaults
	v.SetDefault("drive.backend.url", "http://127.0.0.1:9500/api")
	v.SetDefault("drive.backend.timeout", "30s")
	v.SetDefault("drive.page_limit", 50)
	v.SetDefault("drive.watch_dir", "")
	v.SetDefault("drive.journal_path", filepath.Join(defaultDir, "uploads.db"))
	v.SetDefault("drive.token_path", filepath.Join(defaultDir, "drive.token"))
	_ = v.ReadInConfig()

	cfg = AppConfig{
		BackendURL:     v.GetString("drive.backend.url"),
		RequestTimeout: v.GetDuration("drive.backend.timeout"),
		PageLimit:      v.GetInt("drive.page_limit"),
		WatchDir:       v.GetString("drive.watch_dir"),
		JournalPath:    v.GetString("drive.journal_path"),
		TokenPath:      v.GetString("drive.token_path"),
		LogPath:        v.GetString("drive.log_path"),
	}
	return cfg
}

func Get() AppConfig { return cfg }

func TokenFilePath() string {
	if cfg.TokenPath == "" {
		return filepath.Join(os.TempDir(), "nimbus", "drive.token")
	}
	return cfg.TokenPath
}
