package store

import (
	"fmt"
	"os"

	"github.com/golang/glog"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"tableflip.dev/curate/pkg/rows"
	"tableflip.dev/curate/pkg/staged"
)

// Config locates the store and carries the layout limits handed to the
// engine at construction time.
type Config interface {
	BasePath() string
	// MaxColumns is the viewer's column entitlement.
	MaxColumns() int
	DefaultColumns() int
	// ColumnsPerRow is the picker sidebar width.
	ColumnsPerRow() int
	// MinSections is the delete-last-section policy; zero disables it.
	MinSections() int
}

// LoadConfig reads .curate.yaml from CURATE_CONFIG_PATH or the working
// directory, with CURATE_* environment overrides.
func LoadConfig() (Config, error) {
	viper.SetDefault("path", "~/.curate.db")
	viper.SetDefault("maxColumns", staged.DefaultMaxColumns)
	viper.SetDefault("defaultColumns", staged.DefaultColumns)
	viper.SetDefault("columnsPerRow", rows.DefaultColumnsPerRow)
	viper.SetDefault("minSections", 1)
	viper.SetConfigName(".curate") // .yaml is implicit
	viper.SetEnvPrefix("CURATE")
	viper.AutomaticEnv()

	if override := os.Getenv("CURATE_CONFIG_PATH"); override != "" {
		viper.AddConfigPath(override)
	}

	viper.AddConfigPath("./")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("store: read config: %w", err)
		}
	} else {
		glog.V(1).Infof("store: using config %s", viper.ConfigFileUsed())
	}

	path, err := homedir.Expand(viper.GetString("path"))
	if err != nil {
		return nil, fmt.Errorf("store: expand path: %w", err)
	}

	return &fileConfig{
		Path:    path,
		Max:     viper.GetInt("maxColumns"),
		Default: viper.GetInt("defaultColumns"),
		PerRow:  viper.GetInt("columnsPerRow"),
		MinSec:  viper.GetInt("minSections"),
	}, nil
}

// StaticConfig builds a Config without consulting viper.
func StaticConfig(path string, maxColumns, defaultColumns, columnsPerRow, minSections int) Config {
	return &fileConfig{Path: path, Max: maxColumns, Default: defaultColumns, PerRow: columnsPerRow, MinSec: minSections}
}

// EngineConfig converts store config into the staged engine's config.
func EngineConfig(cfg Config) staged.Config {
	return staged.Config{
		MaxColumns:     cfg.MaxColumns(),
		DefaultColumns: cfg.DefaultColumns(),
		MinSections:    cfg.MinSections(),
	}
}

type fileConfig struct {
	Path    string `json:"path"`
	Max     int    `json:"maxColumns"`
	Default int    `json:"defaultColumns"`
	PerRow  int    `json:"columnsPerRow"`
	MinSec  int    `json:"minSections"`
}

func (f *fileConfig) BasePath() string { return f.Path }

func (f *fileConfig) MaxColumns() int { return f.Max }

func (f *fileConfig) DefaultColumns() int { return f.Default }

func (f *fileConfig) ColumnsPerRow() int { return f.PerRow }

func (f *fileConfig) MinSections() int { return f.MinSec }
