package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/postarch/postarch"
	"github.com/postarch/postarch/archive"
	"github.com/postarch/postarch/goquery"
	posthttp "github.com/postarch/postarch/http"
	"github.com/postarch/postarch/htmltomarkdown"
	"github.com/postarch/postarch/pandoc"
	"github.com/postarch/postarch/readability"
	"github.com/postarch/postarch/render"
	postslog "github.com/postarch/postarch/slog"
	"github.com/postarch/postarch/sqlite"
	"github.com/postarch/postarch/trafilatura"

	postfs "github.com/postarch/postarch/fs"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database used by the archive log.
	DB *sqlite.DB

	// Services for end-to-end testing.
	ArchiveService postarch.ArchiveService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("postarch"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'postarch --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	logger := newLogger(stderr, cli.Verbose)

	// Open the archive log database
	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set POSTARCH_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	m.ArchiveService = postslog.NewLoggingArchiveService(sqlite.NewArchiveService(m.DB), logger)
	deps.DB = m.DB
	deps.Archive = m.ArchiveService

	// Wire the pipeline for the run command once the resolved
	// configuration is known.
	if cmd == "run" {
		cfg, extractorName, err := cli.Run.ResolveConfig()
		if err != nil {
			return err
		}
		deps.Config = cfg
		deps.Archiver, err = buildArchiver(cfg, extractorName, m.ArchiveService, logger)
		if err != nil {
			return err
		}
	}

	return kongCtx.Run(deps)
}

// buildArchiver assembles the pipeline from the resolved configuration.
func buildArchiver(cfg postarch.Config, extractorName string, archiveSvc postarch.ArchiveService, logger *slog.Logger) (*archive.Archiver, error) {
	fetcher := posthttp.NewFetcher()
	limiter := archive.NewHostLimiter(requestsPerSecond(cfg.Delay))
	store := postfs.NewStore(cfg.OutputDir, cfg.AssetsDirName)

	var extractor postarch.Extractor
	switch extractorName {
	case "trafilatura":
		extractor = trafilatura.NewExtractor()
	default:
		extractor = readability.NewExtractor()
	}

	var renderers []postarch.Renderer
	for _, f := range cfg.Formats {
		switch f {
		case postarch.FormatMarkdown:
			renderers = append(renderers, htmltomarkdown.NewRenderer())
		case postarch.FormatHTML:
			renderers = append(renderers, render.NewHTMLRenderer())
		case postarch.FormatJSON:
			renderers = append(renderers, render.NewJSONRenderer())
		case postarch.FormatPDF, postarch.FormatEPUB:
			renderers = append(renderers, pandoc.NewRenderer(f, store))
		default:
			return nil, postarch.Errorf(postarch.EINVALID, "unknown format %q", f)
		}
	}

	discovery := &archive.Discovery{
		Primary: &goquery.ArchiveDiscoverer{
			Fetcher: postslog.NewLoggingFetcher(fetcher, logger),
			Limiter: limiter,
		},
		Fallback: posthttp.NewFeedDiscoverer(nil, limiter),
	}

	return &archive.Archiver{
		Discoverer:     postslog.NewLoggingDiscoverer(discovery, logger),
		Fetcher:        postslog.NewLoggingFetcher(fetcher, logger),
		Extractor:      extractor,
		BlockParser:    goquery.NewBlockParser(),
		MetaScanner:    goquery.NewMetaScanner(),
		Localizer:      archive.NewLocalizer(fetcher, store, limiter),
		Renderers:      renderers,
		Store:          store,
		Archive:        archiveSvc,
		Limiter:        limiter,
		Formats:        cfg.Formats,
		Incremental:    cfg.Incremental,
		DownloadImages: cfg.DownloadImages,
		Concurrency:    cfg.Concurrency,
	}, nil
}

// requestsPerSecond converts the inter-request delay (seconds) into a
// per-host rate. Zero delay means unlimited.
func requestsPerSecond(delay float64) float64 {
	if delay <= 0 {
		return 0
	}
	return 1.0 / delay
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func defaultDBPath() string {
	if path := os.Getenv("POSTARCH_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "postarch.db"
	}
	dir := filepath.Join(home, ".postarch")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "postarch.db")
}
