package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileSettings is the on-disk shape of config.yaml.
type fileSettings struct {
	APIURL   string `yaml:"api_url"`
	Cache    string `yaml:"cache"`
	Timeout  string `yaml:"timeout"`
	LogLevel string `yaml:"log_level"`
}

// Marshal renders the file-backed settings as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(fileSettings{
		APIURL:   c.APIURL,
		Cache:    c.Cache,
		Timeout:  c.Timeout.String(),
		LogLevel: c.LogLevel,
	})
}

// WriteFile writes the file-backed settings to config.yaml with mode 0600.
// An existing file is left alone unless overwrite is set.
func (c *Config) WriteFile(overwrite bool) error {
	if c.HasConfigFile() && !overwrite {
		return fmt.Errorf("%s already exists", c.ConfigPath())
	}
	if err := c.EnsureDir(); err != nil {
		return err
	}
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	return os.WriteFile(c.ConfigPath(), data, 0600)
}
