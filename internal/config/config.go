package config

import (
	"fmt"
)

type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	Log     LogConfig
	Spin    SpinConfig
	Picker  PickerConfig
}

type ServerConfig struct {
	Port int
}

type StorageConfig struct {
	DataDir string
}

type LogConfig struct {
	Level string
}

// SpinConfig controls the presentational "spinning" cue shown before a new
// pick is displayed. It never delays the pick itself.
type SpinConfig struct {
	Delay string
}

// PickerConfig seeds the random source. Zero means non-deterministic.
type PickerConfig struct {
	Seed int
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Port: 4100,
		},
		Storage: StorageConfig{
			DataDir: defaultDataDir(),
		},
		Log: LogConfig{
			Level: "info",
		},
		Spin: SpinConfig{
			Delay: "1s",
		},
	}
}

// Load reads configuration from the platform-native backend and environment
// variables.
//
// On macOS the backend is UserDefaults (domain: com.whatnow.app).
// On Linux the backend is a JSON file at $XDG_CONFIG_HOME/whatnow/config.json.
//
// Environment variables (WHATNOW_*) override backend values on all platforms.
func Load() (Config, error) {
	return loadWith(newPlatformBackend())
}

func loadWith(b ConfigBackend) (Config, error) {
	cfg := defaults()

	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}

	applyEnvOverrides(&cfg)

	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return Config{}, fmt.Errorf("invalid server.port %d: must be between 1 and 65535", cfg.Server.Port)
	}

	return cfg, nil
}
