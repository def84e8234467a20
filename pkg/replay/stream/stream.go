// Package stream encodes replay events as newline-delimited UTF-8
// frames, one JSON object per line.
package stream

import (
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/racedatahub/racedata-manager-go/pkg/model"
	"github.com/racedatahub/racedata-manager-go/pkg/replay"
)

const (
	EventConnected = "connected"
	EventTelemetry = "telemetry"
	EventComplete  = "complete"
	EventError     = "error"
)

type frame struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

type connectedData struct {
	VehicleID string  `json:"vehicle_id"`
	CarNumber int     `json:"car_number"`
	Lap       int     `json:"lap,omitempty"`
	Speed     float64 `json:"speed"`
}

type telemetryData struct {
	VehicleID string  `json:"vehicle_id"`
	Lap       int     `json:"lap"`
	TS        string  `json:"timestamp"`
	Name      string  `json:"telemetry_name"`
	Value     float64 `json:"telemetry_value"`
}

type statusData struct {
	Status string `json:"status"`
}

type errorData struct {
	Message string `json:"message"`
}

// Writer is a replay.Sink writing frames to an io.Writer. Safe for use
// by one subscription; the mutex only guards against interleaved
// writes when the same writer backs several sinks.
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

var _ replay.Sink = (*Writer)(nil)

func (s *Writer) Connected(ev *replay.ConnectedEvent) error {
	return s.writeFrame(EventConnected, &connectedData{
		VehicleID: ev.VehicleID,
		CarNumber: ev.CarNumber,
		Lap:       ev.Lap,
		Speed:     ev.Speed,
	})
}

func (s *Writer) Record(rec *model.TelemetryRecord) error {
	return s.writeFrame(EventTelemetry, &telemetryData{
		VehicleID: rec.VehicleID,
		Lap:       rec.Lap,
		TS:        rec.TS.UTC().Format(time.RFC3339Nano),
		Name:      rec.Name,
		Value:     rec.Value,
	})
}

func (s *Writer) Complete(msg string) error {
	return s.writeFrame(EventComplete, &statusData{Status: msg})
}

func (s *Writer) Error(err error) error {
	return s.writeFrame(EventError, &errorData{Message: err.Error()})
}

func (s *Writer) writeFrame(event string, data any) error {
	buf, err := json.Marshal(&frame{Event: event, Data: data})
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.w.Write(buf); err != nil {
		return err
	}
	_, err = s.w.Write([]byte("\n"))
	return err
}
