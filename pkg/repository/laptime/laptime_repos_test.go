package laptime

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/racedatahub/racedata-manager-go/pkg/ident"
	"github.com/racedatahub/racedata-manager-go/pkg/model"
	vehiclerepos "github.com/racedatahub/racedata-manager-go/pkg/repository/vehicle"
	"github.com/racedatahub/racedata-manager-go/testsupport/testdb"
)

func TestInsertBatch(t *testing.T) {
	pool := testdb.InitTestDb()
	ctx := context.Background()
	vehicleID := ident.Resolve(78)
	require.NoError(t, vehiclerepos.EnsureExists(ctx, pool, []*ident.Identity{
		{VehicleID: vehicleID, CarNumber: 78},
	}))

	ts := time.Date(2024, 4, 28, 11, 13, 31, 0, time.UTC)
	rows := []*model.LapTime{
		{VehicleID: vehicleID, Lap: 2, LapTime: 90.2, TS: ts},
		{VehicleID: vehicleID, Lap: 1, LapTime: 91.5}, // no timestamp
		{VehicleID: vehicleID, Lap: 3, LapTime: 90.9},
	}
	count, err := InsertBatch(ctx, pool, rows)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	loaded, err := LoadByVehicle(ctx, pool, vehicleID)
	require.NoError(t, err)
	require.Len(t, loaded, 3)
	// ordered by lap
	assert.Equal(t, 1, loaded[0].Lap)
	assert.Equal(t, 3, loaded[2].Lap)
	assert.True(t, loaded[0].TS.IsZero())
	assert.True(t, loaded[1].TS.Equal(ts))

	num, err := CountByVehicle(ctx, pool, vehicleID)
	require.NoError(t, err)
	assert.Equal(t, 3, num)
}
