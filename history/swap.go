package history

import (
	"sort"
)

// Len is part of sort.Interface.
func (e Entries) Len() int {
	return len(e)
}

// Swap is part of sort.Interface.
func (e Entries) Swap(i, j int) {
	e[i], e[j] = e[j], e[i]
}

// Less is part of the sort.Sort interface.
// The files are sorted acccording to their modification time.
// We always want to return the slice with the oldest files first.
func (e Entries) Less(i, j int) bool {
	return e[i].ModTime.Before(e[j].ModTime)
}

// Size returns the sum of all entry sizes.
func (e Entries) Size() int64 {
	var size int64

	for _, entry := range e {
		size += entry.Size
	}

	return size
}

// Paths returns the entry paths in order.
func (e Entries) Paths() []string {
	paths := make([]string, len(e))

	for idx, entry := range e {
		paths[idx] = entry.Path
	}

	return paths
}

// Our Entries must satify a sort.Interface.
var _ sort.Interface = (Entries)(nil)
