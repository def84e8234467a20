package vehicle

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/racedatahub/racedata-manager-go/pkg/ident"
	"github.com/racedatahub/racedata-manager-go/pkg/model"
	"github.com/racedatahub/racedata-manager-go/pkg/repository"
)

// EnsureExists writes the collected identities with insert-or-ignore
// semantics. A class label discovered by a later source still sticks to
// an existing row that has none yet. Must run before any dependent
// insert of the same transaction.
func EnsureExists(
	ctx context.Context,
	conn repository.Querier,
	identities []*ident.Identity,
) error {
	batch := &pgx.Batch{}
	for _, id := range identities {
		batch.Queue(`
	insert into vehicles (vehicle_id, car_number, class)
	values ($1,$2,$3)
	on conflict (vehicle_id) do update set class = excluded.class
	where vehicles.class = '' and excluded.class <> ''
		`, id.VehicleID, id.CarNumber, id.Class)
	}
	br := conn.SendBatch(ctx, batch)
	defer br.Close()
	for range identities {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

func LoadByCarNumber(
	ctx context.Context,
	conn repository.Querier,
	carNumber int,
) (*model.Vehicle, error) {
	row := conn.QueryRow(ctx,
		fmt.Sprintf("%s where car_number=$1", selector), carNumber)
	var v model.Vehicle
	if err := scan(&v, row); err != nil {
		return nil, err
	}
	return &v, nil
}

func LoadByID(
	ctx context.Context,
	conn repository.Querier,
	vehicleID string,
) (*model.Vehicle, error) {
	row := conn.QueryRow(ctx,
		fmt.Sprintf("%s where vehicle_id=$1", selector), vehicleID)
	var v model.Vehicle
	if err := scan(&v, row); err != nil {
		return nil, err
	}
	return &v, nil
}

func LoadAll(
	ctx context.Context,
	conn repository.Querier,
) ([]*model.Vehicle, error) {
	rows, err := conn.Query(ctx,
		fmt.Sprintf("%s order by car_number asc", selector))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ret := make([]*model.Vehicle, 0)
	for rows.Next() {
		var v model.Vehicle
		if err := scan(&v, rows); err != nil {
			return nil, err
		}
		ret = append(ret, &v)
	}
	return ret, rows.Err()
}

// UpdateSummary stores the derived aggregate fields on the vehicle row.
func UpdateSummary(
	ctx context.Context,
	conn repository.Querier,
	v *model.Vehicle,
) error {
	_, err := conn.Exec(ctx, `
	update vehicles
	set fastest_lap=$2, average_lap=$3, total_laps=$4, max_speed=$5, position=$6
	where vehicle_id=$1
	`, v.VehicleID, v.FastestLap, v.AverageLap, v.TotalLaps, v.MaxSpeed, v.Position)
	return err
}

// little helper
const selector = string(`
select vehicle_id, car_number, class,
  fastest_lap, average_lap, total_laps, max_speed, position
from vehicles
`)

func scan(v *model.Vehicle, row pgx.Row) error {
	return row.Scan(&v.VehicleID, &v.CarNumber, &v.Class,
		&v.FastestLap, &v.AverageLap, &v.TotalLaps, &v.MaxSpeed, &v.Position)
}
