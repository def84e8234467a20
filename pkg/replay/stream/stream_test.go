package stream

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/racedatahub/racedata-manager-go/pkg/model"
	"github.com/racedatahub/racedata-manager-go/pkg/replay"
)

func decodeFrames(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	ret := make([]map[string]any, 0, len(lines))
	for _, line := range lines {
		var f map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &f))
		ret = append(ret, f)
	}
	return ret
}

func TestWriterFrameSequence(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewWriter(buf)

	require.NoError(t, w.Connected(&replay.ConnectedEvent{
		VehicleID: "GT3-2024-078", CarNumber: 78, Speed: 2.5,
	}))
	require.NoError(t, w.Record(&model.TelemetryRecord{
		VehicleID: "GT3-2024-078",
		Lap:       2,
		TS:        time.Date(2024, 4, 28, 11, 13, 0, 0, time.UTC),
		Name:      "speed",
		Value:     281.4,
	}))
	require.NoError(t, w.Complete("replay complete"))

	frames := decodeFrames(t, buf)
	require.Len(t, frames, 3)
	assert.Equal(t, EventConnected, frames[0]["event"])
	assert.Equal(t, EventTelemetry, frames[1]["event"])
	assert.Equal(t, EventComplete, frames[2]["event"])

	data, ok := frames[1]["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "GT3-2024-078", data["vehicle_id"])
	assert.Equal(t, 2.0, data["lap"])
	assert.Equal(t, "2024-04-28T11:13:00Z", data["timestamp"])
	assert.Equal(t, "speed", data["telemetry_name"])
	assert.InDelta(t, 281.4, data["telemetry_value"].(float64), 0.0001)
}

func TestWriterErrorFrame(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewWriter(buf)

	require.NoError(t, w.Error(fmt.Errorf("read failed")))

	frames := decodeFrames(t, buf)
	require.Len(t, frames, 1)
	assert.Equal(t, EventError, frames[0]["event"])
	data := frames[0]["data"].(map[string]any)
	assert.Equal(t, "read failed", data["message"])
}

func TestWriterOneFramePerLine(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewWriter(buf)
	require.NoError(t, w.Complete("done"))
	require.NoError(t, w.Complete("done"))

	assert.Equal(t, 2, strings.Count(buf.String(), "\n"))
	assert.True(t, strings.HasSuffix(buf.String(), "\n"))
}
