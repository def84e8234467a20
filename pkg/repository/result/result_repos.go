package result

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/racedatahub/racedata-manager-go/pkg/model"
	"github.com/racedatahub/racedata-manager-go/pkg/repository"
)

func InsertBatch(
	ctx context.Context,
	conn repository.Querier,
	rows []*model.RaceResult,
) (int, error) {
	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(`
	insert into race_results (
		vehicle_id, position, car_number, laps, total_time,
		gap_first, gap_previous, best_lap_time, class
	) values ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		`, r.VehicleID, r.Position, r.CarNumber, r.Laps, r.TotalTime,
			r.GapFirst, r.GapPrevious, r.BestLapTime, r.Class)
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

func LoadByVehicle(
	ctx context.Context,
	conn repository.Querier,
	vehicleID string,
) (*model.RaceResult, error) {
	row := conn.QueryRow(ctx,
		fmt.Sprintf("%s where vehicle_id=$1", selector), vehicleID)
	var item model.RaceResult
	if err := scan(&item, row); err != nil {
		return nil, err
	}
	return &item, nil
}

func LoadAll(
	ctx context.Context,
	conn repository.Querier,
) ([]*model.RaceResult, error) {
	rows, err := conn.Query(ctx,
		fmt.Sprintf("%s order by position asc", selector))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ret := make([]*model.RaceResult, 0)
	for rows.Next() {
		var item model.RaceResult
		if err := scan(&item, rows); err != nil {
			return nil, err
		}
		ret = append(ret, &item)
	}
	return ret, rows.Err()
}

// little helper
const selector = string(`
select vehicle_id, position, car_number, laps, total_time,
  gap_first, gap_previous, best_lap_time, class
from race_results
`)

func scan(e *model.RaceResult, row pgx.Row) error {
	return row.Scan(&e.VehicleID, &e.Position, &e.CarNumber, &e.Laps,
		&e.TotalTime, &e.GapFirst, &e.GapPrevious, &e.BestLapTime, &e.Class)
}
