package database

import (
	"strings"
	"time"
)

// nextID derives a record id from the wall clock but never reuses or goes below an
// existing id, so two creates in the same millisecond still get distinct ids.
func nextID(now time.Time, maxID int64) int64 {
	id := now.UnixMilli()
	if id <= maxID {
		id = maxID + 1
	}
	return id
}

func maxID[T any](items []T, idOf func(T) int64) int64 {
	var highest int64
	for _, item := range items {
		if id := idOf(item); id > highest {
			highest = id
		}
	}
	return highest
}

func indexByID[T any](items []T, id int64, idOf func(T) int64) int {
	for i, item := range items {
		if idOf(item) == id {
			return i
		}
	}
	return -1
}

// timestamp is the creation/update time as persisted: UTC, millisecond precision
func timestamp(now func() time.Time) time.Time {
	return now().UTC().Truncate(time.Millisecond)
}

// optionalString maps blank strings to nil
func optionalString(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
