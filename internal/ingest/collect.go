package ingest

import (
	"fmt"
	"os"
	"sort"
	"time"

	"gallery/internal/domain/card"
	"gallery/internal/logger"
)

type Warning struct {
	Path string
	Msg  string
}

// Entry is a record file that made it through the date pass.
type Entry struct {
	File  SourceFile
	Date  time.Time
	Title string
}

// Broken is a record file whose front matter could not be read during the
// date pass. It is kept out of the ordering.
type Broken struct {
	File SourceFile
	Err  error
}

type Collection struct {
	Entries []Entry
	Broken  []Broken
}

type Options struct {
	Ext         string
	DateLayouts []string
	Logger      logger.Logger
}

func (o Options) withDefaults() Options {
	if o.Ext == "" {
		o.Ext = ".md"
	}
	if len(o.DateLayouts) == 0 {
		o.DateLayouts = []string{time.DateOnly}
	}
	if o.Logger == nil {
		o.Logger = logger.NewNop()
	}
	return o
}

// Collect discovers the record files in dir and orders them newest first by
// submission_date. Equal dates keep discovery order. Files that fail to parse
// are reported as warnings and returned in Broken, in discovery order.
func Collect(dir string, opt Options) (Collection, []Warning, error) {
	opt = opt.withDefaults()

	files, err := DiscoverCards(dir, opt.Ext)
	if err != nil {
		return Collection{}, nil, fmt.Errorf("discover cards in %s: %w", dir, err)
	}

	var (
		col   Collection
		warns []Warning
	)
	for _, sf := range files {
		raw, readErr := os.ReadFile(sf.Path)
		if readErr == nil {
			var data map[string]any
			data, _, readErr = ParseRecord(raw)
			if readErr == nil {
				col.Entries = append(col.Entries, Entry{
					File:  sf,
					Date:  DateKey(data["submission_date"], opt.DateLayouts),
					Title: card.Extract(data).Title,
				})
				continue
			}
		}

		opt.Logger.Warn("skipping card in date pass",
			logger.String("path", sf.Path),
			logger.Error(readErr),
		)
		warns = append(warns, Warning{
			Path: sf.Path,
			Msg:  "failed to parse front matter: " + readErr.Error(),
		})
		col.Broken = append(col.Broken, Broken{File: sf, Err: readErr})
	}

	sort.SliceStable(col.Entries, func(i, j int) bool {
		return col.Entries[i].Date.After(col.Entries[j].Date)
	})
	return col, warns, nil
}
