package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/racedatahub/racedata-manager-go/pkg/model"
	"github.com/racedatahub/racedata-manager-go/pkg/repository"
)

// InsertBatch writes the rows via the copy protocol. Telemetry files
// reach tens of thousands of rows, single statement round trips are the
// dominant cost driver there.
func InsertBatch(
	ctx context.Context,
	conn repository.CopyQuerier,
	rows []*model.TelemetryRecord,
) (int, error) {
	count, err := conn.CopyFrom(ctx,
		pgx.Identifier{"telemetry"},
		[]string{"vehicle_id", "lap", "ts", "telemetry_name", "telemetry_value"},
		pgx.CopyFromSlice(len(rows), func(i int) ([]any, error) {
			r := rows[i]
			return []any{r.VehicleID, r.Lap, r.TS, r.Name, r.Value}, nil
		}))
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

// LoadPage returns the next page of the chronological sequence for a
// vehicle using a keyset cursor on (ts, id). The id tie break keeps the
// order stable for records sharing a timestamp, so pagination never
// reorders or skips across page boundaries. lap == 0 means all laps.
//
//nolint:whitespace // can't make the linters happy
func LoadPage(
	ctx context.Context,
	conn repository.Querier,
	vehicleID string,
	lap int,
	afterTS time.Time,
	afterID int64,
	limit int,
) ([]*model.TelemetryRecord, error) {
	var rows pgx.Rows
	var err error
	if lap > 0 {
		rows, err = conn.Query(ctx, fmt.Sprintf(`%s
	where vehicle_id=$1 and lap=$2 and (ts, id) > ($3, $4)
	order by ts asc, id asc limit $5`, selector),
			vehicleID, lap, afterTS, afterID, limit)
	} else {
		rows, err = conn.Query(ctx, fmt.Sprintf(`%s
	where vehicle_id=$1 and (ts, id) > ($2, $3)
	order by ts asc, id asc limit $4`, selector),
			vehicleID, afterTS, afterID, limit)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ret := make([]*model.TelemetryRecord, 0, limit)
	for rows.Next() {
		var item model.TelemetryRecord
		if err := scan(&item, rows); err != nil {
			return nil, err
		}
		ret = append(ret, &item)
	}
	return ret, rows.Err()
}

// MaxChannelValue returns the maximum value of one telemetry channel
// for a vehicle, nil when the vehicle has no samples on that channel.
func MaxChannelValue(
	ctx context.Context,
	conn repository.Querier,
	vehicleID, channel string,
) (*float64, error) {
	row := conn.QueryRow(ctx, `
	select max(telemetry_value) from telemetry
	where vehicle_id=$1 and lower(telemetry_name)=lower($2)
	`, vehicleID, channel)
	var max *float64
	if err := row.Scan(&max); err != nil {
		return nil, err
	}
	return max, nil
}

func CountByVehicle(
	ctx context.Context,
	conn repository.Querier,
	vehicleID string,
) (int, error) {
	row := conn.QueryRow(ctx,
		"select count(*) from telemetry where vehicle_id=$1", vehicleID)
	count := 0
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// little helper
const selector = string(`
select id, vehicle_id, lap, ts, telemetry_name, telemetry_value from telemetry
`)

func scan(e *model.TelemetryRecord, rows pgx.Rows) error {
	return rows.Scan(&e.ID, &e.VehicleID, &e.Lap, &e.TS, &e.Name, &e.Value)
}
