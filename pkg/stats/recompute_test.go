package stats

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vehiclerepos "github.com/racedatahub/racedata-manager-go/pkg/repository/vehicle"
	base "github.com/racedatahub/racedata-manager-go/testsupport/basedata"
	"github.com/racedatahub/racedata-manager-go/testsupport/testdb"
)

func TestRecompute(t *testing.T) {
	pool := testdb.InitTestDb()
	ctx := context.Background()
	v := base.CreateSampleVehicle(pool)

	require.NoError(t, Recompute(ctx, pool, v))

	check, err := vehiclerepos.LoadByID(ctx, pool, v.VehicleID)
	require.NoError(t, err)
	require.NotNil(t, check.FastestLap)
	assert.InDelta(t, 90.2, *check.FastestLap, 0.0001)
	require.NotNil(t, check.AverageLap)
	assert.InDelta(t, 90.8667, *check.AverageLap, 0.001)
	require.NotNil(t, check.TotalLaps)
	assert.Equal(t, 3, *check.TotalLaps)
	require.NotNil(t, check.MaxSpeed)
	assert.InDelta(t, 281.4, *check.MaxSpeed, 0.0001)
	// no race result imported
	assert.Nil(t, check.Position)
}

func TestRecomputeAll(t *testing.T) {
	pool := testdb.InitTestDb()
	ctx := context.Background()
	base.CreateSampleVehicle(pool)

	count, err := RecomputeAll(ctx, pool)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
