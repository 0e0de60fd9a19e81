// Package config resolves runtime settings from the environment (a .env
// file is loaded by main), with flag overrides bound by the commands.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	BackendSupabase = "supabase"
	BackendSQLite   = "sqlite"
)

type Config struct {
	Port    string
	GinMode string

	SupabaseURL     string
	SupabaseAnonKey string

	Backend      string
	Table        string
	DatabasePath string
	StaticDir    string
	ImagesDir    string

	HTTPTimeout time.Duration

	TrackVisitors          bool
	VisitorRetention       time.Duration
	VisitorCleanupSchedule string
}

// New returns a viper instance with defaults set and the environment bound.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault("port", "8080")
	v.SetDefault("gin_mode", "")
	v.SetDefault("supabase_url", "")
	v.SetDefault("supabase_anon_key", "")
	v.SetDefault("wwlog_backend", "")
	v.SetDefault("wwlog_table", "wwlog")
	v.SetDefault("database_path", "data/portfolio.db")
	v.SetDefault("static_dir", "./static")
	v.SetDefault("images_dir", "./images")
	v.SetDefault("http_timeout", "10s")
	v.SetDefault("track_visitors", true)
	v.SetDefault("visitor_retention", "8760h")
	v.SetDefault("visitor_cleanup_schedule", "@daily")

	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads and validates the configuration held by v.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		Port:                   v.GetString("port"),
		GinMode:                v.GetString("gin_mode"),
		SupabaseURL:            v.GetString("supabase_url"),
		SupabaseAnonKey:        v.GetString("supabase_anon_key"),
		Backend:                strings.ToLower(v.GetString("wwlog_backend")),
		Table:                  v.GetString("wwlog_table"),
		DatabasePath:           v.GetString("database_path"),
		StaticDir:              v.GetString("static_dir"),
		ImagesDir:              v.GetString("images_dir"),
		HTTPTimeout:            v.GetDuration("http_timeout"),
		TrackVisitors:          v.GetBool("track_visitors"),
		VisitorRetention:       v.GetDuration("visitor_retention"),
		VisitorCleanupSchedule: v.GetString("visitor_cleanup_schedule"),
	}

	if cfg.Backend == "" {
		cfg.Backend = BackendSQLite
		if cfg.SupabaseURL != "" {
			cfg.Backend = BackendSupabase
		}
	}

	switch cfg.Backend {
	case BackendSupabase:
		if cfg.SupabaseURL == "" || cfg.SupabaseAnonKey == "" {
			return Config{}, fmt.Errorf("supabase backend requires SUPABASE_URL and SUPABASE_ANON_KEY")
		}
	case BackendSQLite:
	default:
		return Config{}, fmt.Errorf("unknown WWLOG_BACKEND %q", cfg.Backend)
	}

	if cfg.HTTPTimeout <= 0 {
		return Config{}, fmt.Errorf("HTTP_TIMEOUT must be positive, got %s", cfg.HTTPTimeout)
	}
	if cfg.VisitorRetention <= 0 {
		return Config{}, fmt.Errorf("VISITOR_RETENTION must be positive, got %s", cfg.VisitorRetention)
	}
	return cfg, nil
}
