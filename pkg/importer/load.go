package importer

import (
	"context"
	"fmt"
	"io"

	"github.com/jackc/pgx/v5"

	"github.com/racedatahub/racedata-manager-go/log"
	"github.com/racedatahub/racedata-manager-go/pkg/ident"
	"github.com/racedatahub/racedata-manager-go/pkg/model"
	"github.com/racedatahub/racedata-manager-go/pkg/parse"
	"github.com/racedatahub/racedata-manager-go/pkg/repository/laptime"
	"github.com/racedatahub/racedata-manager-go/pkg/repository/result"
	"github.com/racedatahub/racedata-manager-go/pkg/repository/section"
	"github.com/racedatahub/racedata-manager-go/pkg/repository/telemetry"
	"github.com/racedatahub/racedata-manager-go/pkg/repository/vehicle"
	"github.com/racedatahub/racedata-manager-go/pkg/repository/weather"
)

// loaderFunc performs the writes of one parsed file inside the file
// transaction and returns the number of dependent rows inserted.
type loaderFunc func(ctx context.Context, tx pgx.Tx) (int, error)

// prepare parses the source and builds the transactional loader for
// it. Parsing happens outside the transaction, the store is only
// touched once the file shape is known to be usable.
//
//nolint:cyclop // one switch per source type
func (i *Importer) prepare(
	source parse.SourceType,
	r io.Reader,
) (loaderFunc, int, error) {
	registry := ident.NewRegistry()
	switch source {
	case parse.SourceLaps:
		parsed, skipped, err := parse.Laps(r)
		if err != nil {
			return nil, 0, err
		}
		rows := make([]*model.LapTime, 0, len(parsed))
		for _, p := range parsed {
			vehicleID, err := resolve(registry, p.CarNumber)
			if err != nil {
				i.skipRecord(err)
				skipped++
				continue
			}
			rows = append(rows, &model.LapTime{
				VehicleID: vehicleID,
				Lap:       p.Lap,
				LapTime:   p.LapTime,
				TS:        p.TS,
			})
		}
		return func(ctx context.Context, tx pgx.Tx) (int, error) {
			if err := vehicle.EnsureExists(ctx, tx, registry.Entries()); err != nil {
				return 0, err
			}
			return verified(len(rows))(laptime.InsertBatch(ctx, tx, rows))
		}, skipped, nil

	case parse.SourceTelemetry:
		parsed, skipped, err := parse.Telemetry(r)
		if err != nil {
			return nil, 0, err
		}
		rows := make([]*model.TelemetryRecord, 0, len(parsed))
		for _, p := range parsed {
			vehicleID, err := resolve(registry, p.CarNumber)
			if err != nil {
				i.skipRecord(err)
				skipped++
				continue
			}
			rows = append(rows, &model.TelemetryRecord{
				VehicleID: vehicleID,
				Lap:       p.Lap,
				TS:        p.TS,
				Name:      p.Name,
				Value:     p.Value,
			})
		}
		return func(ctx context.Context, tx pgx.Tx) (int, error) {
			if err := vehicle.EnsureExists(ctx, tx, registry.Entries()); err != nil {
				return 0, err
			}
			return verified(len(rows))(telemetry.InsertBatch(ctx, tx, rows))
		}, skipped, nil

	case parse.SourceResults:
		parsed, skipped, err := parse.Results(r)
		if err != nil {
			return nil, 0, err
		}
		rows := make([]*model.RaceResult, 0, len(parsed))
		for _, p := range parsed {
			vehicleID, err := resolve(registry, p.CarNumber)
			if err != nil {
				i.skipRecord(err)
				skipped++
				continue
			}
			registry.NoteClass(p.CarNumber, p.Class)
			rows = append(rows, &model.RaceResult{
				VehicleID:   vehicleID,
				Position:    p.Position,
				CarNumber:   p.CarNumber,
				Laps:        p.Laps,
				TotalTime:   p.TotalTime,
				GapFirst:    p.GapFirst,
				GapPrevious: p.GapPrevious,
				BestLapTime: p.BestLapTime,
				Class:       p.Class,
			})
		}
		return func(ctx context.Context, tx pgx.Tx) (int, error) {
			if err := vehicle.EnsureExists(ctx, tx, registry.Entries()); err != nil {
				return 0, err
			}
			return verified(len(rows))(result.InsertBatch(ctx, tx, rows))
		}, skipped, nil

	case parse.SourceSections:
		parsed, skipped, err := parse.Sections(r)
		if err != nil {
			return nil, 0, err
		}
		rows := make([]*model.SectionTime, 0, len(parsed))
		for _, p := range parsed {
			vehicleID, err := resolve(registry, p.CarNumber)
			if err != nil {
				i.skipRecord(err)
				skipped++
				continue
			}
			rows = append(rows, &model.SectionTime{
				VehicleID: vehicleID,
				Lap:       p.Lap,
				S1:        p.S1,
				S2:        p.S2,
				S3:        p.S3,
				LapTime:   p.LapTime,
				TopSpeed:  p.TopSpeed,
			})
		}
		return func(ctx context.Context, tx pgx.Tx) (int, error) {
			if err := vehicle.EnsureExists(ctx, tx, registry.Entries()); err != nil {
				return 0, err
			}
			return verified(len(rows))(section.InsertBatch(ctx, tx, rows))
		}, skipped, nil

	case parse.SourceWeather:
		parsed, skipped, err := parse.Weather(r)
		if err != nil {
			return nil, 0, err
		}
		rows := make([]*model.WeatherRecord, 0, len(parsed))
		for _, p := range parsed {
			rows = append(rows, &model.WeatherRecord{
				TS:            p.TS,
				AirTemp:       p.AirTemp,
				TrackTemp:     p.TrackTemp,
				Humidity:      p.Humidity,
				Pressure:      p.Pressure,
				WindSpeed:     p.WindSpeed,
				WindDirection: p.WindDirection,
				Rain:          p.Rain,
			})
		}
		return func(ctx context.Context, tx pgx.Tx) (int, error) {
			return verified(len(rows))(weather.InsertBatch(ctx, tx, rows))
		}, skipped, nil
	}
	return nil, 0, fmt.Errorf("unknown source type %q", source)
}

// resolve maps the car number to its canonical vehicle id and records
// the identity for the vehicle table seed.
func resolve(registry *ident.Registry, carNumber int) (string, error) {
	if carNumber <= 0 {
		return "", &IdentityError{CarNumber: carNumber}
	}
	registry.Note(carNumber)
	return ident.Resolve(carNumber), nil
}

func (i *Importer) skipRecord(err error) {
	i.log.Warn("skipping record", log.ErrorField(err))
}

// verified enforces count fidelity: importing N well-formed records
// must yield exactly N stored rows. A mismatch fails the transaction.
func verified(want int) func(int, error) (int, error) {
	return func(got int, err error) (int, error) {
		if err != nil {
			return got, err
		}
		if got != want {
			return got, fmt.Errorf("inserted %d of %d rows", got, want)
		}
		return got, nil
	}
}
