package replay

import (
	"context"
	"time"

	"github.com/racedatahub/racedata-manager-go/pkg/model"
	"github.com/racedatahub/racedata-manager-go/pkg/repository"
	"github.com/racedatahub/racedata-manager-go/pkg/repository/telemetry"
)

// DataProvider supplies the chronological record sequence of one
// subscription. Next returns nil once the sequence is exhausted.
type DataProvider interface {
	Next(ctx context.Context) (*model.TelemetryRecord, error)
}

// Fetcher is the store backed DataProvider. It reads fixed size pages
// ordered by (ts, id) and keeps only the current page in memory; the
// cursor advances with the last record handed out, so a replay started
// mid ingestion simply observes the growing dataset.
type Fetcher struct {
	conn      repository.Querier
	vehicleID string
	lap       int
	pageSize  int
	lastTS    time.Time
	lastID    int64
	buffer    []*model.TelemetryRecord
	exhausted bool
}

func NewFetcher(
	conn repository.Querier,
	vehicleID string,
	lap int,
	pageSize int,
) *Fetcher {
	return &Fetcher{
		conn:      conn,
		vehicleID: vehicleID,
		lap:       lap,
		pageSize:  pageSize,
	}
}

func (f *Fetcher) Next(ctx context.Context) (*model.TelemetryRecord, error) {
	if len(f.buffer) == 0 {
		if f.exhausted {
			return nil, nil
		}
		if err := f.fetch(ctx); err != nil {
			return nil, err
		}
	}
	if len(f.buffer) == 0 {
		return nil, nil
	}
	ret := f.buffer[0]
	f.buffer = f.buffer[1:]
	f.lastTS = ret.TS
	f.lastID = ret.ID
	return ret, nil
}

func (f *Fetcher) fetch(ctx context.Context) error {
	var err error
	f.buffer, err = telemetry.LoadPage(ctx, f.conn,
		f.vehicleID, f.lap, f.lastTS, f.lastID, f.pageSize)
	if err != nil {
		return err
	}
	if len(f.buffer) < f.pageSize {
		f.exhausted = true
	}
	return nil
}
