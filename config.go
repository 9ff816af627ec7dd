package postarch

// Config is the fully resolved run configuration. The CLI layer owns
// flag and file parsing; the pipeline only ever sees this struct.
type Config struct {
	// SourceURLs are the publication root URLs to archive.
	SourceURLs []string

	// Formats are the output formats to render for every post.
	Formats []Format

	// OutputDir is the root output directory. Each source gets its own
	// subdirectory named by the source ID.
	OutputDir string

	// DownloadImages enables asset localization.
	DownloadImages bool

	// Incremental skips posts already archived in all requested formats.
	Incremental bool

	// Delay is the minimum interval between requests to the same host,
	// in seconds.
	Delay float64

	// AssetsDirName is the per-source subdirectory for localized images.
	AssetsDirName string

	// Concurrency is the number of posts processed in parallel.
	Concurrency int
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Formats:        []Format{FormatMarkdown, FormatJSON},
		OutputDir:      "archived_posts",
		DownloadImages: true,
		Incremental:    false,
		Delay:          1.0,
		AssetsDirName:  "assets",
		Concurrency:    1,
	}
}

// Validate returns an error if the configuration is unusable.
func (c *Config) Validate() error {
	if len(c.SourceURLs) == 0 {
		return Errorf(EINVALID, "at least one source URL required")
	}
	if len(c.Formats) == 0 {
		return Errorf(EINVALID, "at least one output format required")
	}
	for _, f := range c.Formats {
		if !f.Valid() {
			return Errorf(EINVALID, "unknown format %q", f)
		}
	}
	if c.OutputDir == "" {
		return Errorf(EINVALID, "output directory required")
	}
	if c.Delay < 0 {
		return Errorf(EINVALID, "delay must be >= 0")
	}
	if c.AssetsDirName == "" {
		return Errorf(EINVALID, "assets directory name required")
	}
	if c.Concurrency < 0 {
		return Errorf(EINVALID, "concurrency must be >= 0")
	}
	return nil
}
