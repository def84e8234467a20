package section

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
	rows []*model.SectionTime,
) (int, error) {
	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(`
	insert into section_times (vehicle_id, lap, s1, s2, s3, lap_time, top_speed)
	values ($1,$2,$3,$4,$5,$6,$7)
		`, r.VehicleID, r.Lap, r.S1, r.S2, r.S3, r.LapTime, r.TopSpeed)
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
) ([]*model.SectionTime, error) {
	rows, err := conn.Query(ctx,
		fmt.Sprintf("%s where vehicle_id=$1 order by lap asc", selector),
		vehicleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ret := make([]*model.SectionTime, 0)
	for rows.Next() {
		var item model.SectionTime
		if err := rows.Scan(&item.ID, &item.VehicleID, &item.Lap,
			&item.S1, &item.S2, &item.S3, &item.LapTime, &item.TopSpeed); err != nil {
			return nil, err
		}
		ret = append(ret, &item)
	}
	return ret, rows.Err()
}

// little helper
const selector = string(`
select id, vehicle_id, lap, s1, s2, s3, lap_time, top_speed from section_times
`)
