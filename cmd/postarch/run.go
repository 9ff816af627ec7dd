package main

import (
	"fmt"

	"github.com/postarch/postarch"
	"github.com/postarch/postarch/archive"
)

// Run executes the run command.
func (c *RunCmd) Run(deps *Dependencies) error {
	var sources []postarch.Source
	for _, rawURL := range deps.Config.SourceURLs {
		src, err := postarch.NewSource(rawURL)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", postarch.ErrorMessage(err))
			return err
		}
		sources = append(sources, src)
	}

	deps.Archiver.Progress = func(event archive.ProgressEvent) {
		switch event.Type {
		case archive.ProgressDiscovered:
			fmt.Fprintf(deps.Stdout, "%s: found %d posts\n", event.SourceID, event.Total)
		case archive.ProgressSkipped:
			fmt.Fprintf(deps.Stdout, "  skip %s (already archived)\n", event.URL)
		case archive.ProgressArchived:
			fmt.Fprintf(deps.Stdout, "  archived %q\n", event.Title)
		case archive.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  fail %s: %s\n", event.URL, event.Message)
		}
	}

	summary, err := deps.Archiver.ArchiveAll(deps.Ctx, sources)
	printSummary(deps, summary)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", postarch.ErrorMessage(err))
		return err
	}
	return nil
}

func printSummary(deps *Dependencies, s postarch.RunSummary) {
	fmt.Fprintf(deps.Stdout, "Done: %d archived, %d skipped, %d failed\n",
		s.Succeeded, s.Skipped, s.Failed)
	for _, w := range s.Warnings {
		fmt.Fprintf(deps.Stderr, "  warn %s: %s\n", w.Ref.URL, w.Message)
	}
	for _, f := range s.Failures {
		if f.Format != "" {
			fmt.Fprintf(deps.Stderr, "  fail %s (%s): %s\n", f.Ref.URL, f.Format, f.Message)
			continue
		}
		fmt.Fprintf(deps.Stderr, "  fail %s: %s\n", f.Ref.URL, f.Message)
	}
}
