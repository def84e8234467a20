package section

import (
	"context"
	"testing"

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
	vehicleID := ident.Resolve(78)
	require.NoError(t, vehiclerepos.EnsureExists(ctx, pool, []*ident.Identity{
		{VehicleID: vehicleID, CarNumber: 78},
	}))

	s1 := 28.1
	s3 := 31.5
	lapTime := 91.5
	rows := []*model.SectionTime{
		{VehicleID: vehicleID, Lap: 2, S1: &s1},
		// partial coverage, s2 missing
		{VehicleID: vehicleID, Lap: 1, S1: &s1, S3: &s3, LapTime: &lapTime},
	}
	count, err := InsertBatch(ctx, pool, rows)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	loaded, err := LoadByVehicle(ctx, pool, vehicleID)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, 1, loaded[0].Lap)
	assert.Nil(t, loaded[0].S2)
	require.NotNil(t, loaded[0].S3)
	assert.InDelta(t, 31.5, *loaded[0].S3, 0.0001)
	assert.Nil(t, loaded[1].LapTime)
}
