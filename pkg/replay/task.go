// Package replay streams previously imported telemetry back to a
// subscriber in original temporal order, scaled by a playback speed.
package replay

import (
	"context"
	"time"

	"github.com/racedatahub/racedata-manager-go/log"
	"github.com/racedatahub/racedata-manager-go/pkg/model"
)

const (
	MinSpeed        = 0.1
	MaxSpeed        = 10.0
	DefaultPageSize = 100

	// deltas whose scaled pause stays below this are emitted without
	// suspension to avoid scheduler thrashing on near-simultaneous
	// samples
	minPause = time.Millisecond
)

// ClampSpeed bounds the playback speed to the supported range.
func ClampSpeed(speed float64) float64 {
	if speed < MinSpeed {
		return MinSpeed
	}
	if speed > MaxSpeed {
		return MaxSpeed
	}
	return speed
}

// ConnectedEvent acknowledges a new subscription.
type ConnectedEvent struct {
	VehicleID string
	CarNumber int
	Lap       int // 0: no lap filter
	Speed     float64
}

// Sink receives the events of one subscription, one method per event
// kind of the replay protocol.
type Sink interface {
	Connected(ev *ConnectedEvent) error
	Record(rec *model.TelemetryRecord) error
	Complete(msg string) error
	Error(err error) error
}

type Option func(*Task)

func WithSpeed(speed float64) Option {
	return func(t *Task) {
		t.speed = ClampSpeed(speed)
	}
}

func WithLap(lap int) Option {
	return func(t *Task) {
		t.lap = lap
	}
}

func WithLogger(l *log.Logger) Option {
	return func(t *Task) {
		t.log = l
	}
}

// Task replays the time series of one vehicle to one sink. Each task
// owns its provider cursor and is independent of concurrent tasks; the
// store is never written.
type Task struct {
	vehicle  *model.Vehicle
	provider DataProvider
	sink     Sink
	speed    float64
	lap      int
	log      *log.Logger
}

func NewTask(
	vehicle *model.Vehicle,
	provider DataProvider,
	sink Sink,
	opts ...Option,
) *Task {
	ret := &Task{
		vehicle:  vehicle,
		provider: provider,
		sink:     sink,
		speed:    1.0,
		log:      log.Default().Named("replay"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Run drives the subscription until the sequence is exhausted, the
// read layer fails or ctx is canceled. Cancellation is observed before
// each record and before each page fetch; after cancellation no
// further event is emitted. A read failure surfaces as one terminal
// error event. Emitted record timestamps are non-decreasing.
func (t *Task) Run(ctx context.Context) error {
	if err := t.sink.Connected(&ConnectedEvent{
		VehicleID: t.vehicle.VehicleID,
		CarNumber: t.vehicle.CarNumber,
		Lap:       t.lap,
		Speed:     t.speed,
	}); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	dataChan := make(chan *model.TelemetryRecord)
	errChan := make(chan error, 1)
	go t.provide(ctx, dataChan, errChan)

	var lastTS time.Time
	count := 0
	for rec := range dataChan {
		if err := t.pause(ctx, lastTS, rec.TS); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			t.log.Debug("replay canceled", log.Int("emitted", count))
			return ctx.Err()
		default:
		}
		if err := t.sink.Record(rec); err != nil {
			return err
		}
		lastTS = rec.TS
		count++
	}
	if err := <-errChan; err != nil {
		streamErr := &StreamError{Err: err}
		t.log.Error("replay failed", log.ErrorField(err))
		//nolint:errcheck // terminal event, connection is closed anyway
		t.sink.Error(streamErr)
		return streamErr
	}
	t.log.Debug("replay complete", log.Int("emitted", count))
	return t.sink.Complete("replay complete")
}

// provide feeds the records into dataChan and reports the terminal
// condition on errChan (nil: exhausted).
func (t *Task) provide(
	ctx context.Context,
	dataChan chan<- *model.TelemetryRecord,
	errChan chan<- error,
) {
	defer close(dataChan)
	for {
		select {
		case <-ctx.Done():
			errChan <- nil
			return
		default:
		}
		item, err := t.provider.Next(ctx)
		if err != nil {
			errChan <- err
			return
		}
		if item == nil {
			errChan <- nil
			return
		}
		select {
		case <-ctx.Done():
			errChan <- nil
			return
		case dataChan <- item:
		}
	}
}

// pause suspends for the speed scaled delta between two records.
func (t *Task) pause(ctx context.Context, lastTS, nextTS time.Time) error {
	if lastTS.IsZero() {
		return nil
	}
	delta := nextTS.Sub(lastTS)
	if delta <= 0 {
		return nil
	}
	wait := time.Duration(float64(delta) / t.speed)
	if wait < minPause {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(wait):
		return nil
	}
}
