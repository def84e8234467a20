package result

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/racedatahub/racedata-manager-go/pkg/ident"
	"github.com/racedatahub/racedata-manager-go/pkg/model"
	vehiclerepos "github.com/racedatahub/racedata-manager-go/pkg/repository/vehicle"
	"github.com/racedatahub/racedata-manager-go/testsupport/testdb"
)

func TestInsertAndLoad(t *testing.T) {
	pool := testdb.InitTestDb()
	ctx := context.Background()
	require.NoError(t, vehiclerepos.EnsureExists(ctx, pool, []*ident.Identity{
		{VehicleID: ident.Resolve(78), CarNumber: 78, Class: "GT3-Pro"},
		{VehicleID: ident.Resolve(12), CarNumber: 12, Class: "GT3-Am"},
	}))

	bestLap := 90.2
	rows := []*model.RaceResult{
		{
			VehicleID:   ident.Resolve(78),
			Position:    1,
			CarNumber:   78,
			Laps:        52,
			BestLapTime: &bestLap,
			Class:       "GT3-Pro",
		},
		{
			VehicleID:   ident.Resolve(12),
			Position:    2,
			CarNumber:   12,
			Laps:        50,
			GapFirst:    "+2 Laps",
			GapPrevious: "+2 Laps",
			Class:       "GT3-Am",
		},
	}
	count, err := InsertBatch(ctx, pool, rows)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	res, err := LoadByVehicle(ctx, pool, ident.Resolve(78))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Position)
	require.NotNil(t, res.BestLapTime)
	assert.InDelta(t, 90.2, *res.BestLapTime, 0.0001)
	assert.Nil(t, res.TotalTime)

	// gaps survive verbatim, "+2 Laps" has no numeric form
	rival, err := LoadByVehicle(ctx, pool, ident.Resolve(12))
	require.NoError(t, err)
	assert.Equal(t, "+2 Laps", rival.GapFirst)

	all, err := LoadAll(ctx, pool)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, 1, all[0].Position)
	assert.Equal(t, 2, all[1].Position)
}

func TestLoadByVehicleNoResult(t *testing.T) {
	pool := testdb.InitTestDb()
	_, err := LoadByVehicle(context.Background(), pool, ident.Resolve(99))
	assert.True(t, errors.Is(err, pgx.ErrNoRows))
}
