package main

import (
	"context"
	"io"

	"github.com/postarch/postarch"
	"github.com/postarch/postarch/archive"
	"github.com/postarch/postarch/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	DB       *sqlite.DB
	Archive  postarch.ArchiveService
	Archiver *archive.Archiver
	Config   postarch.Config
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Run      RunCmd      `cmd:"" help:"Archive posts from one or more sources"`
	List     ListCmd     `cmd:"" help:"List archived posts"`
	Discover DiscoverCmd `cmd:"" help:"Show post URLs a source contains without archiving"`

	Verbose bool `short:"v" help:"Enable debug logging"`
}

// RunCmd is the "run" subcommand.
type RunCmd struct {
	URLs        []string `arg:"" optional:"" help:"Publication root URLs"`
	Config      string   `short:"c" help:"YAML config file path"`
	Formats     string   `short:"f" help:"Comma-separated output formats (md,html,json,pdf,epub)"`
	Output      string   `short:"o" help:"Output directory"`
	NoImages    bool     `help:"Skip downloading images"`
	Incremental bool     `short:"i" help:"Skip posts already archived in all requested formats"`
	Delay       float64  `default:"-1" help:"Seconds between requests to the same host"`
	Concurrency int      `help:"Posts processed in parallel per source"`
	Extractor   string   `help:"Content extraction engine (readability or trafilatura)"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct {
	Source string `help:"Filter by source ID"`
	Format string `help:"Filter by output format"`
	Limit  int    `default:"50" help:"Maximum records to show"`
}

// DiscoverCmd is the "discover" subcommand.
type DiscoverCmd struct {
	URL   string  `arg:"" help:"Publication root URL"`
	Delay float64 `default:"1" help:"Seconds between requests to the same host"`
}
