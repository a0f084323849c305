// Package memory provides in-memory repository implementations backed
// by maps and mutexes. They serve the unit tests and local runs that
// have no database.
package memory

import (
	"sort"
	"time"
)

func sortByCreatedAt[T any](items []T, at func(T) time.Time) {
	sort.Slice(items, func(i, j int) bool {
		return at(items[i]).Before(at(items[j]))
	})
}
