// Package stats derives the per vehicle summary fields from the raw
// rows. The values are stored redundantly on the vehicle row for fast
// reads but stay re-derivable from the raw data at any time.
package stats

import (
	"context"
	"errors"
	"math"

	"github.com/jackc/pgx/v5"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"

	"github.com/racedatahub/racedata-manager-go/log"
	"github.com/racedatahub/racedata-manager-go/pkg/model"
	"github.com/racedatahub/racedata-manager-go/pkg/repository"
	"github.com/racedatahub/racedata-manager-go/pkg/repository/laptime"
	"github.com/racedatahub/racedata-manager-go/pkg/repository/result"
	"github.com/racedatahub/racedata-manager-go/pkg/repository/telemetry"
	"github.com/racedatahub/racedata-manager-go/pkg/repository/vehicle"
)

// SpeedChannel is the telemetry channel feeding the max_speed summary.
const SpeedChannel = "speed"

// LapStatistics describes the lap times of one vehicle. StdDev follows
// the population definition (divide by N).
type LapStatistics struct {
	Count   int
	Fastest float64
	Average float64
	StdDev  float64
}

func ComputeLapStatistics(lapTimes []float64) *LapStatistics {
	if len(lapTimes) == 0 {
		return &LapStatistics{}
	}
	return &LapStatistics{
		Count:   len(lapTimes),
		Fastest: lo.Min(lapTimes),
		Average: stat.Mean(lapTimes, nil),
		StdDev:  PopStdDev(lapTimes),
	}
}

// PopStdDev returns the population standard deviation of xs.
func PopStdDev(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	mean := stat.Mean(xs, nil)
	sum := 0.0
	for _, x := range xs {
		d := x - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(xs)))
}

// Apply sets the summary fields on the vehicle from the raw rows.
// Fields without backing data stay nil.
func Apply(
	v *model.Vehicle,
	laps []*model.LapTime,
	maxSpeed *float64,
	res *model.RaceResult,
) {
	if len(laps) > 0 {
		times := lo.Map(laps, func(l *model.LapTime, _ int) float64 {
			return l.LapTime
		})
		s := ComputeLapStatistics(times)
		v.FastestLap = &s.Fastest
		v.AverageLap = &s.Average
		v.TotalLaps = &s.Count
	}
	v.MaxSpeed = maxSpeed
	if res != nil {
		pos := res.Position
		v.Position = &pos
	}
}

// Recompute derives the summary for one vehicle from the store and
// writes it back to the vehicle row.
func Recompute(
	ctx context.Context,
	conn repository.Querier,
	v *model.Vehicle,
) error {
	laps, err := laptime.LoadByVehicle(ctx, conn, v.VehicleID)
	if err != nil {
		return err
	}
	maxSpeed, err := telemetry.MaxChannelValue(ctx, conn, v.VehicleID, SpeedChannel)
	if err != nil {
		return err
	}
	res, err := result.LoadByVehicle(ctx, conn, v.VehicleID)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return err
		}
		res = nil
	}
	Apply(v, laps, maxSpeed, res)
	return vehicle.UpdateSummary(ctx, conn, v)
}

// RecomputeAll refreshes the summary of every vehicle.
func RecomputeAll(ctx context.Context, conn repository.Querier) (int, error) {
	l := log.GetFromContext(ctx).Named("stats")
	vehicles, err := vehicle.LoadAll(ctx, conn)
	if err != nil {
		return 0, err
	}
	for _, v := range vehicles {
		if err := Recompute(ctx, conn, v); err != nil {
			return 0, err
		}
		l.Debug("recomputed summary", log.String("vehicle", v.VehicleID))
	}
	return len(vehicles), nil
}
