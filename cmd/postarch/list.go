package main

import (
	"fmt"

	"github.com/postarch/postarch"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	filter := postarch.RecordFilter{Limit: c.Limit}
	if c.Source != "" {
		filter.SourceID = &c.Source
	}
	if c.Format != "" {
		f := postarch.Format(c.Format)
		if !f.Valid() {
			err := postarch.Errorf(postarch.EINVALID, "unknown format %q", c.Format)
			fmt.Fprintf(deps.Stderr, "error: %s\n", postarch.ErrorMessage(err))
			return err
		}
		filter.Format = &f
	}

	recs, err := deps.Archive.FindRecords(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", postarch.ErrorMessage(err))
		return err
	}

	if len(recs) == 0 {
		fmt.Fprintln(deps.Stdout, "No archived posts found. Use 'postarch run' to archive a source.")
		return nil
	}

	for _, r := range recs {
		fmt.Fprintf(deps.Stdout, "%s  %-4s  %s  %s\n",
			r.ArchivedAt.Format("2006-01-02"), r.Format, r.SourceID, r.Title)
	}

	return nil
}
