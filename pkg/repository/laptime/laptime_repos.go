package laptime

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/racedatahub/racedata-manager-go/pkg/model"
	"github.com/racedatahub/racedata-manager-go/pkg/repository"
)

// InsertBatch writes the rows with one round trip via the batch
// protocol and returns the number of inserted rows.
func InsertBatch(
	ctx context.Context,
	conn repository.Querier,
	rows []*model.LapTime,
) (int, error) {
	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(`
	insert into lap_times (vehicle_id, lap, lap_time, ts)
	values ($1,$2,$3,$4)
		`, r.VehicleID, r.Lap, r.LapTime, tsArg(r))
	}
	br := conn.SendBatch(ctx, batch)
	defer br.Close()
	count := 0
	for range rows {
		ct, err := br.Exec()
		if err != nil {
			return count, err
		}
		count += int(ct.RowsAffected())
	}
	return count, nil
}

func tsArg(r *model.LapTime) interface{} {
	if r.TS.IsZero() {
		return nil
	}
	return r.TS
}

func LoadByVehicle(
	ctx context.Context,
	conn repository.Querier,
	vehicleID string,
) ([]*model.LapTime, error) {
	rows, err := conn.Query(ctx,
		fmt.Sprintf("%s where vehicle_id=$1 order by lap asc", selector),
		vehicleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ret := make([]*model.LapTime, 0)
	for rows.Next() {
		var item model.LapTime
		var ts *time.Time
		if err := rows.Scan(&item.ID, &item.VehicleID, &item.Lap,
			&item.LapTime, &ts); err != nil {
			return nil, err
		}
		if ts != nil {
			item.TS = *ts
		}
		ret = append(ret, &item)
	}
	return ret, rows.Err()
}

func CountByVehicle(
	ctx context.Context,
	conn repository.Querier,
	vehicleID string,
) (int, error) {
	row := conn.QueryRow(ctx,
		"select count(*) from lap_times where vehicle_id=$1", vehicleID)
	count := 0
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// little helper
const selector = string(`
select id, vehicle_id, lap, lap_time, ts from lap_times
`)
