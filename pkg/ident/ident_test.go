package ident

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name      string
		carNumber int
		want      string
	}{
		{name: "single digit padded", carNumber: 5, want: "GT3-2024-005"},
		{name: "two digits padded", carNumber: 78, want: "GT3-2024-078"},
		{name: "three digits", carNumber: 123, want: "GT3-2024-123"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.carNumber))
		})
	}
}

func TestResolveDeterministic(t *testing.T) {
	first := Resolve(78)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Resolve(78))
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	r.Note(78)
	r.Note(78)
	r.Note(12)
	assert.Equal(t, 2, r.Len())

	entries := r.Entries()
	assert.Equal(t, 12, entries[0].CarNumber)
	assert.Equal(t, 78, entries[1].CarNumber)
	assert.Equal(t, "GT3-2024-078", entries[1].VehicleID)
}

func TestRegistryClassSticks(t *testing.T) {
	r := NewRegistry()
	r.Note(78)
	r.NoteClass(78, "GT3-Pro")
	// an empty class from a later source must not erase the label
	r.NoteClass(78, "")
	assert.Equal(t, 1, r.Len())
	assert.Equal(t, "GT3-Pro", r.Entries()[0].Class)
}
