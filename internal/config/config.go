package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"term-todo/internal/tasks"
)

const appDirName = "todo"

type Config struct {
	// Path to the sqlite database holding the task snapshot.
	DBPath string `yaml:"db_path" mapstructure:"db_path"`

	// KV slot the snapshot is stored under.
	SlotKey string `yaml:"slot_key" mapstructure:"slot_key"`

	Log LogConfig `yaml:"log" mapstructure:"log"`
}

type LogConfig struct {
	Level string `yaml:"level" mapstructure:"level"`
	File  string `yaml:"file" mapstructure:"file"`
	JSON  bool   `yaml:"json" mapstructure:"json"`
}

func DefaultConfig() *Config {
	dir := DataDir()
	return &Config{
		DBPath:  filepath.Join(dir, "state.db"),
		SlotKey: tasks.DefaultSlotKey,
		Log: LogConfig{
			Level: "info",
			File:  filepath.Join(dir, "todo.log"),
		},
	}
}

// Load returns the defaults merged with the YAML file at path. An empty path
// means the default location; a missing default file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath()
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return nil, fmt.Errorf("stat config %s: %w", path, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}

	if cfg.SlotKey == "" {
		cfg.SlotKey = tasks.DefaultSlotKey
	}
	return cfg, nil
}

func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".todo", "config.yaml")
	}
	return filepath.Join(dir, appDirName, "config.yaml")
}

// DataDir is where the database and log file live by default.
func DataDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".todo"
	}
	return filepath.Join(dir, appDirName)
}
