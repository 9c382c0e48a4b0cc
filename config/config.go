package config

import (
	"io"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/cube2222/typewire/cache"
	"github.com/cube2222/typewire/typecodec"
)

const (
	OutputName = "name"
	OutputHex  = "hex"
	OutputJSON = "json"
)

type Config struct {
	MaxDepth          int          `yaml:"maxDepth"`
	AllowTrailingData bool         `yaml:"allowTrailingData"`
	Cache             cache.Config `yaml:"cache"`
	CatalogPath       string       `yaml:"catalogPath"`
	LogDirectory      string       `yaml:"logDirectory"`
	Output            string       `yaml:"output"`
}

// Dir is ~/.typewire, the default location of every file the CLI keeps.
func Dir() (string, error) {
	dir, err := homedir.Dir()
	if err != nil {
		return "", errors.Wrap(err, "couldn't get user home directory")
	}
	return filepath.Join(dir, ".typewire"), nil
}

func Default() (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	return &Config{
		MaxDepth:     typecodec.DefaultMaxDepth,
		Cache:        cache.DefaultConfig,
		CatalogPath:  filepath.Join(dir, "catalog.yml"),
		LogDirectory: dir,
		Output:       OutputName,
	}, nil
}

// Read loads the configuration at path, ~/.typewire/config.yml if path is
// empty. Keys missing from the file, or a missing file, keep their defaults.
func Read(path string) (*Config, error) {
	config, err := Default()
	if err != nil {
		return nil, err
	}
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, "config.yml")
	} else if path, err = homedir.Expand(path); err != nil {
		return nil, errors.Wrap(err, "couldn't expand config path")
	}

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return config, nil
	} else if err != nil {
		return nil, errors.Wrap(err, "couldn't open file")
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(config); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "couldn't decode yaml configuration")
	}

	if config.CatalogPath, err = homedir.Expand(config.CatalogPath); err != nil {
		return nil, errors.Wrap(err, "couldn't expand catalog path")
	}
	if config.LogDirectory, err = homedir.Expand(config.LogDirectory); err != nil {
		return nil, errors.Wrap(err, "couldn't expand log directory")
	}

	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	return config, nil
}

func (config *Config) Validate() error {
	if config.MaxDepth < 0 {
		return errors.Errorf("maxDepth must not be negative, got %d", config.MaxDepth)
	}
	switch config.Output {
	case OutputName, OutputHex, OutputJSON:
	default:
		return errors.Errorf("unknown output '%s', expected one of name, hex, json", config.Output)
	}
	return nil
}

func (config *Config) Decoder() typecodec.Decoder {
	return typecodec.Decoder{
		MaxDepth:          config.MaxDepth,
		AllowTrailingData: config.AllowTrailingData,
	}
}
