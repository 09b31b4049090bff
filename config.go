// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package babel

import (
	"net/url"
	"os"
	"time"

	"github.com/juju/errors"
	"gopkg.in/yaml.v3"

	"github.com/luxfi/babel/codec"
)

// Config describes how to reach a Babel service.
//
//	base-url: https://svc.example.com/api
//	format: xml
//	timeout: 10s
//	retry-count: 2
//	retry-delay: 250ms
//	headers:
//	  X-Tenant: acme
type Config struct {
	BaseURL string `yaml:"base-url"`
	// Format names a registered codec. Empty means JSON.
	Format string `yaml:"format,omitempty"`
	// Timeout bounds each attempt. Zero selects the transport default.
	Timeout    time.Duration     `yaml:"timeout,omitempty"`
	RetryCount int               `yaml:"retry-count,omitempty"`
	RetryDelay time.Duration     `yaml:"retry-delay,omitempty"`
	Headers    map[string]string `yaml:"headers,omitempty"`
}

// ParseConfig reads and validates a YAML config.
func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Annotate(err, "parsing babel config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, errors.Trace(err)
	}
	return cfg, nil
}

// ReadConfig reads and validates the YAML config at path.
func ReadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Trace(err)
	}
	cfg, err := ParseConfig(data)
	return cfg, errors.Annotatef(err, "reading %s", path)
}

// Marshal returns the YAML form of cfg.
func (cfg Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	return data, errors.Trace(err)
}

// Validate reports the first problem found in cfg as a NotValid error.
func (cfg Config) Validate() error {
	if cfg.BaseURL == "" {
		return errors.NotValidf("empty base-url")
	}
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return errors.NewNotValid(err, "base-url")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.NotValidf("base-url scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.NotValidf("base-url %q without host", cfg.BaseURL)
	}
	if cfg.Format != "" {
		if _, err := codec.Lookup(cfg.Format); err != nil {
			return errors.NotValidf("format %q", cfg.Format)
		}
	}
	switch {
	case cfg.Timeout < 0:
		return errors.NotValidf("negative timeout %v", cfg.Timeout)
	case cfg.RetryCount < 0:
		return errors.NotValidf("negative retry-count %d", cfg.RetryCount)
	case cfg.RetryDelay < 0:
		return errors.NotValidf("negative retry-delay %v", cfg.RetryDelay)
	}
	return nil
}

func (cfg Config) format() string {
	if cfg.Format == "" {
		return codec.Default
	}
	return cfg.Format
}
