package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const EnvPrefix = "GAMEREC"

// Settings is the effective tool configuration.
// Precedence: flag > env > config file > default.
type Settings struct {
	SteamDir  string `mapstructure:"steam_dir"`
	Profile   string `mapstructure:"profile"`
	Root      string `mapstructure:"root"`
	FFmpeg    string `mapstructure:"ffmpeg"`
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
	LogOutput string `mapstructure:"log_output"`
}

// flag name -> settings key
var flagKeys = map[string]string{
	"steam-dir":  "steam_dir",
	"profile":    "profile",
	"root":       "root",
	"ffmpeg":     "ffmpeg",
	"log-level":  "log_level",
	"log-format": "log_format",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("steam_dir", "")
	v.SetDefault("profile", "")
	v.SetDefault("root", "")
	v.SetDefault("ffmpeg", "ffmpeg")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
	v.SetDefault("log_output", "stderr")
}

// Load merges .env, GAMEREC_* variables, an optional YAML file and the
// flags that exist in fs. configFile may be empty, in which case
// gamerec.yaml is looked up in the working directory and the user config
// directory and skipped when absent.
func Load(fs *pflag.FlagSet, configFile string) (Settings, error) {
	_ = godotenv.Load() // best-effort: load .env if present

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, fmt.Errorf("read config %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName("gamerec")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "gamerec"))
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Settings{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	if fs != nil {
		for name, key := range flagKeys {
			f := fs.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return Settings{}, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("decode settings: %w", err)
	}
	return s, nil
}
