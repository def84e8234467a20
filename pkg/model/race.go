package model

import "time"

// Vehicle is the canonical identity a car assumes across all source
// files. The summary fields are derived from the raw rows at import time
// and stay NULL until at least one dependent row exists for the vehicle.
type Vehicle struct {
	VehicleID  string
	CarNumber  int
	Class      string
	FastestLap *float64
	AverageLap *float64
	TotalLaps  *int
	MaxSpeed   *float64
	Position   *int
}

type LapTime struct {
	ID        int64
	VehicleID string
	Lap       int
	LapTime   float64 // seconds
	TS        time.Time
}

// TelemetryRecord is a single tagged time-series point. Arrival order
// within a source file is not chronological; ordering is imposed at
// query time.
type TelemetryRecord struct {
	ID        int64
	VehicleID string
	Lap       int
	TS        time.Time
	Name      string
	Value     float64
}

// SectionTime carries the split times of one lap. Partial section
// coverage is tolerated, any of S1..S3 may be nil.
type SectionTime struct {
	ID        int64
	VehicleID string
	Lap       int
	S1        *float64
	S2        *float64
	S3        *float64
	LapTime   *float64
	TopSpeed  *float64
}

// RaceResult is immutable once written for a race. Gap columns keep the
// verbatim source text since values like "+2 Laps" carry no numeric form.
type RaceResult struct {
	VehicleID   string
	Position    int
	CarNumber   int
	Laps        int
	TotalTime   *float64 // seconds
	GapFirst    string
	GapPrevious string
	BestLapTime *float64 // seconds
	Class       string
}

type WeatherRecord struct {
	ID            int64
	TS            time.Time
	AirTemp       *float64
	TrackTemp     *float64
	Humidity      *float64
	Pressure      *float64
	WindSpeed     *float64
	WindDirection *float64
	Rain          *float64
}
