package weather

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/racedatahub/racedata-manager-go/pkg/model"
	"github.com/racedatahub/racedata-manager-go/pkg/repository"
)

func InsertBatch(
	ctx context.Context,
	conn repository.Querier,
	rows []*model.WeatherRecord,
) (int, error) {
	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(`
	insert into weather (
		ts, air_temp, track_temp, humidity, pressure,
		wind_speed, wind_direction, rain
	) values ($1,$2,$3,$4,$5,$6,$7,$8)
		`, r.TS, r.AirTemp, r.TrackTemp, r.Humidity, r.Pressure,
			r.WindSpeed, r.WindDirection, r.Rain)
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

// LoadRange returns the weather records within [from, to) in
// chronological order.
func LoadRange(
	ctx context.Context,
	conn repository.Querier,
	from, to time.Time,
) ([]*model.WeatherRecord, error) {
	rows, err := conn.Query(ctx,
		fmt.Sprintf("%s where ts >= $1 and ts < $2 order by ts asc", selector),
		from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

func LoadAll(
	ctx context.Context,
	conn repository.Querier,
) ([]*model.WeatherRecord, error) {
	rows, err := conn.Query(ctx,
		fmt.Sprintf("%s order by ts asc", selector))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

func collect(rows pgx.Rows) ([]*model.WeatherRecord, error) {
	ret := make([]*model.WeatherRecord, 0)
	for rows.Next() {
		var item model.WeatherRecord
		if err := rows.Scan(&item.ID, &item.TS, &item.AirTemp, &item.TrackTemp,
			&item.Humidity, &item.Pressure, &item.WindSpeed,
			&item.WindDirection, &item.Rain); err != nil {
			return nil, err
		}
		ret = append(ret, &item)
	}
	return ret, rows.Err()
}

// little helper
const selector = string(`
select id, ts, air_temp, track_temp, humidity, pressure,
  wind_speed, wind_direction, rain
from weather
`)
