package vehicle

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/racedatahub/racedata-manager-go/pkg/ident"
	"github.com/racedatahub/racedata-manager-go/testsupport/testdb"
)

func sampleIdentities() []*ident.Identity {
	return []*ident.Identity{
		{VehicleID: ident.Resolve(12), CarNumber: 12, Class: ""},
		{VehicleID: ident.Resolve(78), CarNumber: 78, Class: "GT3-Pro"},
	}
}

func TestEnsureExists(t *testing.T) {
	pool := testdb.InitTestDb()
	ctx := context.Background()

	require.NoError(t, EnsureExists(ctx, pool, sampleIdentities()))

	v, err := LoadByCarNumber(ctx, pool, 78)
	require.NoError(t, err)
	assert.Equal(t, "GT3-2024-078", v.VehicleID)
	assert.Equal(t, "GT3-Pro", v.Class)

	// repeated seeding is a no-op
	require.NoError(t, EnsureExists(ctx, pool, sampleIdentities()))
	all, err := LoadAll(ctx, pool)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestEnsureExistsClassSticks(t *testing.T) {
	pool := testdb.InitTestDb()
	ctx := context.Background()

	// first sighting without class label
	require.NoError(t, EnsureExists(ctx, pool, []*ident.Identity{
		{VehicleID: ident.Resolve(12), CarNumber: 12, Class: ""},
	}))
	// a later source supplies the class
	require.NoError(t, EnsureExists(ctx, pool, []*ident.Identity{
		{VehicleID: ident.Resolve(12), CarNumber: 12, Class: "GT3-Am"},
	}))
	v, err := LoadByCarNumber(ctx, pool, 12)
	require.NoError(t, err)
	assert.Equal(t, "GT3-Am", v.Class)

	// once set the label is not replaced
	require.NoError(t, EnsureExists(ctx, pool, []*ident.Identity{
		{VehicleID: ident.Resolve(12), CarNumber: 12, Class: "Other"},
	}))
	v, err = LoadByCarNumber(ctx, pool, 12)
	require.NoError(t, err)
	assert.Equal(t, "GT3-Am", v.Class)
}

func TestUpdateSummary(t *testing.T) {
	pool := testdb.InitTestDb()
	ctx := context.Background()

	require.NoError(t, EnsureExists(ctx, pool, sampleIdentities()))
	v, err := LoadByCarNumber(ctx, pool, 78)
	require.NoError(t, err)
	assert.Nil(t, v.FastestLap)

	fastest := 90.2
	average := 90.87
	laps := 3
	v.FastestLap = &fastest
	v.AverageLap = &average
	v.TotalLaps = &laps
	require.NoError(t, UpdateSummary(ctx, pool, v))

	check, err := LoadByID(ctx, pool, v.VehicleID)
	require.NoError(t, err)
	require.NotNil(t, check.FastestLap)
	assert.InDelta(t, 90.2, *check.FastestLap, 0.0001)
	require.NotNil(t, check.TotalLaps)
	assert.Equal(t, 3, *check.TotalLaps)
	assert.Nil(t, check.MaxSpeed)
	assert.Nil(t, check.Position)
}
