package parse

import (
	"io"
)

// optLaptime parses a nullable lap-time style column ("1:23.456" or
// plain seconds).
func optLaptime(h *header, row []string, names ...string) *float64 {
	v, ok := h.value(row, names...)
	if !ok {
		return nil
	}
	f, err := Laptime(v)
	if err != nil {
		return nil
	}
	return &f
}

// Laps parses a lap-time source. Returns the recovered rows and the
// number of skipped malformed rows.
func Laps(r io.Reader) ([]*LapRow, int, error) {
	h, rows, err := readTable(r, SourceLaps)
	if err != nil {
		return nil, 0, err
	}
	if !h.has("car_number", "number", "car") || !h.has("lap_time", "laptime") {
		return nil, 0, &ParseError{Source: SourceLaps, Reason: "missing required columns"}
	}
	ret := make([]*LapRow, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		carNumber, ok := h.intValue(row, "car_number", "number", "car")
		if !ok || carNumber <= 0 {
			skipped++
			continue
		}
		lap, ok := h.intValue(row, "lap", "lap_number")
		if !ok {
			skipped++
			continue
		}
		raw, ok := h.value(row, "lap_time", "laptime")
		if !ok {
			skipped++
			continue
		}
		lapTime, err := Laptime(raw)
		if err != nil {
			skipped++
			continue
		}
		item := &LapRow{CarNumber: carNumber, Lap: lap, LapTime: lapTime}
		if v, ok := h.value(row, "timestamp", "ts"); ok {
			if ts, err := Timestamp(v); err == nil {
				item.TS = ts
			}
		}
		ret = append(ret, item)
	}
	return ret, skipped, nil
}

// Telemetry parses a tagged time-series source.
func Telemetry(r io.Reader) ([]*TelemetryRow, int, error) {
	h, rows, err := readTable(r, SourceTelemetry)
	if err != nil {
		return nil, 0, err
	}
	if !h.has("car_number", "number", "car") ||
		!h.has("timestamp", "ts") ||
		!h.has("telemetry_name", "name", "channel") {
		return nil, 0, &ParseError{
			Source: SourceTelemetry, Reason: "missing required columns",
		}
	}
	ret := make([]*TelemetryRow, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		carNumber, ok := h.intValue(row, "car_number", "number", "car")
		if !ok || carNumber <= 0 {
			skipped++
			continue
		}
		rawTS, ok := h.value(row, "timestamp", "ts")
		if !ok {
			skipped++
			continue
		}
		ts, err := Timestamp(rawTS)
		if err != nil {
			skipped++
			continue
		}
		name, ok := h.value(row, "telemetry_name", "name", "channel")
		if !ok {
			skipped++
			continue
		}
		value, ok := h.floatValue(row, "telemetry_value", "value")
		if !ok {
			skipped++
			continue
		}
		lap, _ := h.intValue(row, "lap", "lap_number")
		ret = append(ret, &TelemetryRow{
			CarNumber: carNumber,
			Lap:       lap,
			TS:        ts,
			Name:      name,
			Value:     value,
		})
	}
	return ret, skipped, nil
}

// Results parses a race-result source, one row per vehicle.
func Results(r io.Reader) ([]*ResultRow, int, error) {
	h, rows, err := readTable(r, SourceResults)
	if err != nil {
		return nil, 0, err
	}
	if !h.has("car_number", "number", "car") || !h.has("position", "pos") {
		return nil, 0, &ParseError{
			Source: SourceResults, Reason: "missing required columns",
		}
	}
	ret := make([]*ResultRow, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		carNumber, ok := h.intValue(row, "car_number", "number", "car")
		if !ok || carNumber <= 0 {
			skipped++
			continue
		}
		position, ok := h.intValue(row, "position", "pos")
		if !ok {
			skipped++
			continue
		}
		item := &ResultRow{
			Position:    position,
			CarNumber:   carNumber,
			TotalTime:   optLaptime(h, row, "total_time"),
			BestLapTime: optLaptime(h, row, "best_lap_time", "best_lap", "fastest_lap"),
		}
		item.Laps, _ = h.intValue(row, "laps", "total_laps")
		item.GapFirst, _ = h.value(row, "gap_first", "gap")
		item.GapPrevious, _ = h.value(row, "gap_previous", "interval")
		item.Class, _ = h.value(row, "class", "category")
		ret = append(ret, item)
	}
	return ret, skipped, nil
}

// Sections parses a section-time source. Any of s1..s3 may be absent.
func Sections(r io.Reader) ([]*SectionRow, int, error) {
	h, rows, err := readTable(r, SourceSections)
	if err != nil {
		return nil, 0, err
	}
	if !h.has("car_number", "number", "car") || !h.has("lap", "lap_number") {
		return nil, 0, &ParseError{
			Source: SourceSections, Reason: "missing required columns",
		}
	}
	ret := make([]*SectionRow, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		carNumber, ok := h.intValue(row, "car_number", "number", "car")
		if !ok || carNumber <= 0 {
			skipped++
			continue
		}
		lap, ok := h.intValue(row, "lap", "lap_number")
		if !ok {
			skipped++
			continue
		}
		ret = append(ret, &SectionRow{
			CarNumber: carNumber,
			Lap:       lap,
			S1:        optLaptime(h, row, "s1", "sector1"),
			S2:        optLaptime(h, row, "s2", "sector2"),
			S3:        optLaptime(h, row, "s3", "sector3"),
			LapTime:   optLaptime(h, row, "lap_time", "laptime"),
			TopSpeed:  h.optFloat(row, "top_speed", "topspeed", "speed_trap"),
		})
	}
	return ret, skipped, nil
}

// Weather parses a weather source; rows carry no vehicle association.
func Weather(r io.Reader) ([]*WeatherRow, int, error) {
	h, rows, err := readTable(r, SourceWeather)
	if err != nil {
		return nil, 0, err
	}
	if !h.has("timestamp", "ts", "time") {
		return nil, 0, &ParseError{
			Source: SourceWeather, Reason: "missing required columns",
		}
	}
	ret := make([]*WeatherRow, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		rawTS, ok := h.value(row, "timestamp", "ts", "time")
		if !ok {
			skipped++
			continue
		}
		ts, err := Timestamp(rawTS)
		if err != nil {
			skipped++
			continue
		}
		ret = append(ret, &WeatherRow{
			TS:            ts,
			AirTemp:       h.optFloat(row, "air_temp", "ambient_temp"),
			TrackTemp:     h.optFloat(row, "track_temp"),
			Humidity:      h.optFloat(row, "humidity"),
			Pressure:      h.optFloat(row, "pressure"),
			WindSpeed:     h.optFloat(row, "wind_speed"),
			WindDirection: h.optFloat(row, "wind_direction"),
			Rain:          h.optFloat(row, "rain"),
		})
	}
	return ret, skipped, nil
}
