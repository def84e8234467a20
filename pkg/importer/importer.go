// Package importer loads parsed race data into the relational store.
// Vehicles are written before their dependents, each source file is one
// atomic transaction.
package importer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/racedatahub/racedata-manager-go/log"
	"github.com/racedatahub/racedata-manager-go/pkg/parse"
	"github.com/racedatahub/racedata-manager-go/pkg/stats"
)

type Option func(*Importer)

func WithLogger(l *log.Logger) Option {
	return func(i *Importer) {
		i.log = l
	}
}

type Importer struct {
	pool *pgxpool.Pool
	log  *log.Logger
}

func New(pool *pgxpool.Pool, opts ...Option) *Importer {
	ret := &Importer{pool: pool, log: log.Default().Named("importer")}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Summary reports per entity type how many rows an import run stored
// and how many malformed rows the parsers skipped.
type Summary struct {
	Files    int
	Vehicles int
	Imported map[parse.SourceType]int
	Skipped  map[parse.SourceType]int
}

func newSummary() *Summary {
	return &Summary{
		Imported: make(map[parse.SourceType]int),
		Skipped:  make(map[parse.SourceType]int),
	}
}

// Classify maps a file name to its source type by substring
// convention. Section must win over lap since section file names tend
// to contain "laptime" style fragments as well.
func Classify(name string) (parse.SourceType, bool) {
	n := strings.ToLower(filepath.Base(name))
	if !strings.HasSuffix(n, ".csv") {
		return "", false
	}
	switch {
	case strings.Contains(n, "weather"):
		return parse.SourceWeather, true
	case strings.Contains(n, "telemetry"):
		return parse.SourceTelemetry, true
	case strings.Contains(n, "section"):
		return parse.SourceSections, true
	case strings.Contains(n, "result"):
		return parse.SourceResults, true
	case strings.Contains(n, "lap"):
		return parse.SourceLaps, true
	}
	return "", false
}

// importOrder fixes the processing sequence of one run. Results come
// first so the class label is known when the vehicle rows are created;
// correctness does not depend on it since every file seeds the vehicle
// table itself.
var importOrder = []parse.SourceType{
	parse.SourceResults,
	parse.SourceLaps,
	parse.SourceSections,
	parse.SourceTelemetry,
	parse.SourceWeather,
}

// ImportDir imports all recognized CSV files beneath dir and refreshes
// the vehicle summaries afterwards.
func (i *Importer) ImportDir(ctx context.Context, dir string) (*Summary, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	files := make(map[parse.SourceType][]string)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if source, ok := Classify(e.Name()); ok {
			files[source] = append(files[source], filepath.Join(dir, e.Name()))
		}
	}
	summary := newSummary()
	for _, source := range importOrder {
		sort.Strings(files[source])
		for _, path := range files[source] {
			if err := i.ImportFile(ctx, path, summary); err != nil {
				return summary, err
			}
		}
	}
	if summary.Files == 0 {
		return summary, fmt.Errorf("no importable files in %s", dir)
	}
	vehicles, err := stats.RecomputeAll(ctx, i.pool)
	if err != nil {
		return summary, err
	}
	summary.Vehicles = vehicles
	return summary, nil
}

// ImportFile parses and loads one source file. The write is atomic: on
// any failure no row of the file is visible.
func (i *Importer) ImportFile(
	ctx context.Context,
	path string,
	summary *Summary,
) error {
	source, ok := Classify(path)
	if !ok {
		return &ImportError{File: path, Err: fmt.Errorf("unrecognized file name")}
	}
	f, err := os.Open(path)
	if err != nil {
		return &ImportError{File: path, Err: err}
	}
	defer f.Close()

	loader, skipped, err := i.prepare(source, f)
	if err != nil {
		return &ImportError{File: path, Err: err}
	}

	count := 0
	err = pgx.BeginFunc(ctx, i.pool, func(tx pgx.Tx) error {
		count, err = loader(ctx, tx)
		return err
	})
	if err != nil {
		return &ImportError{File: path, Err: err}
	}
	summary.Files++
	summary.Imported[source] += count
	summary.Skipped[source] += skipped
	i.log.Info("imported file",
		log.String("file", filepath.Base(path)),
		log.String("source", string(source)),
		log.Int("rows", count),
		log.Int("skipped", skipped))
	return nil
}
