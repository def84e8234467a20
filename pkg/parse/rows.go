package parse

import "time"

// One plain struct per source shape. The car number is kept raw here;
// the importer resolves it to a vehicle id.

type LapRow struct {
	CarNumber int
	Lap       int
	LapTime   float64 // seconds
	TS        time.Time
}

type TelemetryRow struct {
	CarNumber int
	Lap       int
	TS        time.Time
	Name      string
	Value     float64
}

type ResultRow struct {
	Position    int
	CarNumber   int
	Laps        int
	TotalTime   *float64
	GapFirst    string
	GapPrevious string
	BestLapTime *float64
	Class       string
}

type SectionRow struct {
	CarNumber int
	Lap       int
	S1        *float64
	S2        *float64
	S3        *float64
	LapTime   *float64
	TopSpeed  *float64
}

type WeatherRow struct {
	TS            time.Time
	AirTemp       *float64
	TrackTemp     *float64
	Humidity      *float64
	Pressure      *float64
	WindSpeed     *float64
	WindDirection *float64
	Rain          *float64
}
