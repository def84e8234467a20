package parse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLaptime(t *testing.T) {
	tests := []struct {
		name    string
		arg     string
		want    float64
		wantErr bool
	}{
		{name: "minutes and seconds", arg: "1:23.456", want: 83.456},
		{name: "plain seconds", arg: "83.456", want: 83.456},
		{name: "hours", arg: "1:02:03.456", want: 3723.456},
		{name: "leading plus", arg: "+2.500", want: 2.5},
		{name: "whitespace", arg: " 1:30.200 ", want: 90.2},
		{name: "integer seconds", arg: "90", want: 90},
		{name: "empty", arg: "", wantErr: true},
		{name: "garbage", arg: "abc", wantErr: true},
		{name: "too many separators", arg: "1:2:3:4", wantErr: true},
		{name: "negative", arg: "-1:23.456", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Laptime(tt.arg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.InDelta(t, tt.want, got, 0.0001)
		})
	}
}

func TestTimestamp(t *testing.T) {
	want := time.Date(2024, 4, 28, 11, 10, 12, 0, time.UTC)
	tests := []struct {
		name    string
		arg     string
		want    time.Time
		wantErr bool
	}{
		{name: "rfc3339", arg: "2024-04-28T11:10:12Z", want: want},
		{
			name: "rfc3339 millis",
			arg:  "2024-04-28T11:10:12.500Z",
			want: want.Add(500 * time.Millisecond),
		},
		{name: "no zone", arg: "2024-04-28T11:10:12", want: want},
		{name: "space separator", arg: "2024-04-28 11:10:12", want: want},
		{
			name: "offset normalized to utc",
			arg:  "2024-04-28T13:10:12+02:00",
			want: want,
		},
		{name: "garbage", arg: "yesterday", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Timestamp(tt.arg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %v, want %v", got, tt.want)
		})
	}
}
