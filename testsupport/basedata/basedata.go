// Package basedata provides sample race data shared by the database
// backed tests.
package basedata

import (
	"context"
	"log"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/racedatahub/racedata-manager-go/pkg/ident"
	"github.com/racedatahub/racedata-manager-go/pkg/model"
	laptimerepos "github.com/racedatahub/racedata-manager-go/pkg/repository/laptime"
	telemetryrepos "github.com/racedatahub/racedata-manager-go/pkg/repository/telemetry"
	vehiclerepos "github.com/racedatahub/racedata-manager-go/pkg/repository/vehicle"
)

// SampleCarNumber is the car used throughout the fixtures.
const SampleCarNumber = 78

func TestTime() time.Time {
	t, _ := time.Parse(time.RFC3339, "2024-04-28T11:10:12Z")
	return t
}

// LapsCSV covers three laps for the sample car plus one lap of a rival.
const LapsCSV = `car_number,lap,lap_time,timestamp
78,1,1:31.500,2024-04-28T11:12:00Z
78,2,1:30.200,2024-04-28T11:13:31Z
78,3,1:30.900,2024-04-28T11:15:01Z
12,1,1:32.100,2024-04-28T11:12:05Z
`

// TelemetryCSV is deliberately out of chronological order.
const TelemetryCSV = `car_number,lap,timestamp,telemetry_name,telemetry_value
78,2,2024-04-28T11:13:00Z,speed,281.4
78,1,2024-04-28T11:11:00Z,speed,278.9
78,1,2024-04-28T11:11:00Z,throttle,0.97
`

const ResultsCSV = `position,car_number,laps,total_time,gap_first,gap_previous,best_lap_time,class
1,78,3,4:32.600,,,1:30.200,GT3-Pro
2,12,3,4:35.100,+2.500,+2.500,1:31.800,GT3-Am
`

const SectionsCSV = `car_number,lap,s1,s2,s3,lap_time,top_speed
78,1,28.100,31.900,31.500,1:31.500,278.9
78,2,27.800,31.200,31.200,1:30.200,281.4
`

const WeatherCSV = `timestamp,air_temp,track_temp,humidity,rain
2024-04-28T11:10:00Z,21.5,29.0,0.55,0
2024-04-28T11:20:00Z,22.0,30.5,0.53,0
`

func SampleVehicle() *model.Vehicle {
	return &model.Vehicle{
		VehicleID: ident.Resolve(SampleCarNumber),
		CarNumber: SampleCarNumber,
		Class:     "GT3-Pro",
	}
}

func SampleLapTimes() []*model.LapTime {
	id := ident.Resolve(SampleCarNumber)
	return []*model.LapTime{
		{VehicleID: id, Lap: 1, LapTime: 91.5, TS: TestTime().Add(2 * time.Minute)},
		{VehicleID: id, Lap: 2, LapTime: 90.2, TS: TestTime().Add(4 * time.Minute)},
		{VehicleID: id, Lap: 3, LapTime: 90.9, TS: TestTime().Add(6 * time.Minute)},
	}
}

func SampleTelemetry() []*model.TelemetryRecord {
	id := ident.Resolve(SampleCarNumber)
	base := TestTime()
	return []*model.TelemetryRecord{
		{VehicleID: id, Lap: 1, TS: base, Name: "speed", Value: 278.9},
		{VehicleID: id, Lap: 1, TS: base.Add(time.Second), Name: "throttle", Value: 0.97},
		{VehicleID: id, Lap: 2, TS: base.Add(2 * time.Second), Name: "speed", Value: 281.4},
	}
}

// CreateSampleVehicle seeds the vehicle row with its lap times and
// telemetry in one transaction.
func CreateSampleVehicle(db *pgxpool.Pool) *model.Vehicle {
	ctx := context.Background()
	v := SampleVehicle()
	err := pgx.BeginFunc(ctx, db, func(tx pgx.Tx) error {
		identity := &ident.Identity{
			VehicleID: v.VehicleID, CarNumber: v.CarNumber, Class: v.Class,
		}
		if err := vehiclerepos.EnsureExists(ctx, tx,
			[]*ident.Identity{identity}); err != nil {
			return err
		}
		if _, err := laptimerepos.InsertBatch(ctx, tx, SampleLapTimes()); err != nil {
			return err
		}
		_, err := telemetryrepos.InsertBatch(ctx, tx, SampleTelemetry())
		return err
	})
	if err != nil {
		log.Fatalf("createSampleVehicle: %v\n", err)
	}
	return v
}
