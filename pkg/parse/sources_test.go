package parse

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLapsHeaderAliases(t *testing.T) {
	data := `Number,Lap,LapTime
78,1,1:31.500
78,2,1:30.200
`
	rows, skipped, err := Laps(strings.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 0, skipped)
	want := []*LapRow{
		{CarNumber: 78, Lap: 1, LapTime: 91.5},
		{CarNumber: 78, Lap: 2, LapTime: 90.2},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("Laps() mismatch (-want +got):\n%s", diff)
	}
}

func TestLapsSkipsMalformedRows(t *testing.T) {
	data := `car_number,lap,lap_time
78,1,1:31.500
78,two,1:30.200
,3,1:30.900
78,4,not-a-time
78,5,1:30.100
`
	rows, skipped, err := Laps(strings.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 3, skipped)
	require.Len(t, rows, 2)
	assert.Equal(t, 1, rows[0].Lap)
	assert.Equal(t, 5, rows[1].Lap)
}

func TestLapsMissingRequiredColumns(t *testing.T) {
	data := `car_number,lap
78,1
`
	_, _, err := Laps(strings.NewReader(data))
	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, SourceLaps, parseErr.Source)
}

func TestLapsBomAndSpacing(t *testing.T) {
	data := "\ufeffCar Number, Lap, Lap Time\n78, 1, 1:31.500\n"
	rows, skipped, err := Laps(strings.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 0, skipped)
	require.Len(t, rows, 1)
	assert.Equal(t, 78, rows[0].CarNumber)
}

func TestTelemetryChannelAliases(t *testing.T) {
	data := `car,ts,channel,value
78,2024-04-28T11:11:00Z,speed,278.9
78,2024-04-28T11:11:01Z,throttle,0.97
`
	rows, skipped, err := Telemetry(strings.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 0, skipped)
	require.Len(t, rows, 2)
	assert.Equal(t, "speed", rows[0].Name)
	assert.InDelta(t, 278.9, rows[0].Value, 0.0001)
	assert.Equal(t, 0, rows[0].Lap)
}

func TestTelemetrySkipsBadTimestamps(t *testing.T) {
	data := `car_number,timestamp,telemetry_name,telemetry_value
78,not-a-time,speed,278.9
78,2024-04-28T11:11:00Z,speed,281.4
`
	rows, skipped, err := Telemetry(strings.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 1, skipped)
	require.Len(t, rows, 1)
	assert.InDelta(t, 281.4, rows[0].Value, 0.0001)
}

func TestResultsKeepsVerbatimGaps(t *testing.T) {
	data := `position,car_number,laps,gap_first,interval,best_lap,class
1,78,52,,,1:30.200,GT3-Pro
2,12,50,+2 Laps,+2 Laps,1:31.800,GT3-Am
`
	rows, skipped, err := Results(strings.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 0, skipped)
	require.Len(t, rows, 2)
	assert.Equal(t, "+2 Laps", rows[1].GapFirst)
	assert.Equal(t, "+2 Laps", rows[1].GapPrevious)
	assert.Equal(t, "GT3-Am", rows[1].Class)
	require.NotNil(t, rows[0].BestLapTime)
	assert.InDelta(t, 90.2, *rows[0].BestLapTime, 0.0001)
	assert.Nil(t, rows[0].TotalTime)
}

func TestSectionsPartialCoverage(t *testing.T) {
	data := `car_number,lap,s1,s2,s3
78,1,28.100,,31.500
`
	rows, skipped, err := Sections(strings.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 0, skipped)
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].S1)
	assert.InDelta(t, 28.1, *rows[0].S1, 0.0001)
	assert.Nil(t, rows[0].S2)
	require.NotNil(t, rows[0].S3)
}

func TestWeatherOptionalColumns(t *testing.T) {
	data := `time,ambient_temp,track_temp
2024-04-28T11:10:00Z,21.5,29.0
2024-04-28T11:20:00Z,,30.5
`
	rows, skipped, err := Weather(strings.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 0, skipped)
	require.Len(t, rows, 2)
	require.NotNil(t, rows[0].AirTemp)
	assert.InDelta(t, 21.5, *rows[0].AirTemp, 0.0001)
	assert.Nil(t, rows[1].AirTemp)
	assert.Nil(t, rows[0].Humidity)
}
