package main

import (
	"fmt"
	"os"

	"github.com/postarch/postarch"
	"gopkg.in/yaml.v3"
)

// Settings mirrors the YAML config file. Every field is optional:
// absent fields keep their built-in defaults, and command-line flags
// override the file.
type Settings struct {
	URLs           []string `yaml:"urls"`
	Formats        []string `yaml:"formats"`
	OutputDir      string   `yaml:"output_dir"`
	DownloadImages *bool    `yaml:"download_images"`
	Incremental    *bool    `yaml:"incremental"`
	Delay          *float64 `yaml:"delay"`
	AssetsDir      string   `yaml:"assets_dir"`
	Concurrency    *int     `yaml:"concurrency"`
	Extractor      string   `yaml:"extractor"`
}

// LoadSettings reads and parses the YAML config file.
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing config file %q: %w", path, err)
	}
	return &s, nil
}

// ResolveConfig layers defaults, the optional config file, and flags
// into the run configuration. Returns the config and the extractor
// engine name.
func (c *RunCmd) ResolveConfig() (postarch.Config, string, error) {
	cfg := postarch.DefaultConfig()
	extractor := ""

	if c.Config != "" {
		s, err := LoadSettings(c.Config)
		if err != nil {
			return cfg, "", err
		}
		if len(s.URLs) > 0 {
			cfg.SourceURLs = s.URLs
		}
		if len(s.Formats) > 0 {
			var formats []postarch.Format
			for _, f := range s.Formats {
				format := postarch.Format(f)
				if !format.Valid() {
					return cfg, "", postarch.Errorf(postarch.EINVALID, "unknown format %q in config file", f)
				}
				formats = append(formats, format)
			}
			cfg.Formats = formats
		}
		if s.OutputDir != "" {
			cfg.OutputDir = s.OutputDir
		}
		if s.DownloadImages != nil {
			cfg.DownloadImages = *s.DownloadImages
		}
		if s.Incremental != nil {
			cfg.Incremental = *s.Incremental
		}
		if s.Delay != nil {
			cfg.Delay = *s.Delay
		}
		if s.AssetsDir != "" {
			cfg.AssetsDirName = s.AssetsDir
		}
		if s.Concurrency != nil {
			cfg.Concurrency = *s.Concurrency
		}
		extractor = s.Extractor
	}

	if len(c.URLs) > 0 {
		cfg.SourceURLs = c.URLs
	}
	if c.Formats != "" {
		formats, err := postarch.ParseFormats(c.Formats)
		if err != nil {
			return cfg, "", err
		}
		cfg.Formats = formats
	}
	if c.Output != "" {
		cfg.OutputDir = c.Output
	}
	if c.NoImages {
		cfg.DownloadImages = false
	}
	if c.Incremental {
		cfg.Incremental = true
	}
	if c.Delay >= 0 {
		cfg.Delay = c.Delay
	}
	if c.Concurrency > 0 {
		cfg.Concurrency = c.Concurrency
	}
	if c.Extractor != "" {
		extractor = c.Extractor
	}
	if extractor == "" {
		extractor = "readability"
	}
	if extractor != "readability" && extractor != "trafilatura" {
		return cfg, "", postarch.Errorf(postarch.EINVALID, "unknown extractor %q (want readability or trafilatura)", extractor)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, "", err
	}
	return cfg, extractor, nil
}
