// Package ident derives the canonical vehicle identity from a car
// number and collects the identities seen during one import run.
package ident

import (
	"fmt"
	"sort"
)

const (
	// Prefix and Series form the fixed part of every vehicle id.
	Prefix = "GT3"
	Series = "2024"
)

// Resolve returns the canonical vehicle id for a car number. The
// function is pure: the same number always yields the same id, which is
// what allows lap, telemetry and result rows from independently parsed
// files to merge without a join table.
func Resolve(carNumber int) string {
	return fmt.Sprintf("%s-%s-%03d", Prefix, Series, carNumber)
}

// Identity is one distinct vehicle encountered during an import run.
type Identity struct {
	VehicleID string
	CarNumber int
	Class     string
}

// Registry accumulates the distinct vehicle identities across all
// sources of the current import run. It seeds the vehicle table write,
// so a car that only ever shows up in telemetry still gets a row.
// Not safe for concurrent use; an import run is single-threaded.
type Registry struct {
	entries map[int]*Identity
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[int]*Identity)}
}

// Note records a car number. Repeated calls are cheap no-ops.
func (r *Registry) Note(carNumber int) {
	if _, ok := r.entries[carNumber]; !ok {
		r.entries[carNumber] = &Identity{
			VehicleID: Resolve(carNumber),
			CarNumber: carNumber,
		}
	}
}

// NoteClass records a car number together with its class label. The
// class sticks once known even if later sources omit it.
func (r *Registry) NoteClass(carNumber int, class string) {
	r.Note(carNumber)
	if class != "" {
		r.entries[carNumber].Class = class
	}
}

// Entries returns the collected identities ordered by car number.
func (r *Registry) Entries() []*Identity {
	ret := make([]*Identity, 0, len(r.entries))
	for _, e := range r.entries {
		ret = append(ret, e)
	}
	sort.Slice(ret, func(i, j int) bool {
		return ret[i].CarNumber < ret[j].CarNumber
	})
	return ret
}

func (r *Registry) Len() int {
	return len(r.entries)
}
