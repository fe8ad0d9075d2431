package model

import (
	"fmt"
	"sort"
	"strings"
)

type SortKey int

const (
	SortByCPU SortKey = iota
	SortByPID
	SortByMem
	SortByOwner
	SortByNet
	SortByName
	SortByPath
)

var sortKeyNames = []string{"cpu", "pid", "mem", "owner", "net", "name", "path"}

func (k SortKey) String() string {
	if k < 0 || int(k) >= len(sortKeyNames) {
		return "cpu"
	}
	return sortKeyNames[k]
}

// ParseSortKey maps a config name to its key.
func ParseSortKey(s string) (SortKey, error) {
	for i, name := range sortKeyNames {
		if strings.EqualFold(s, name) {
			return SortKey(i), nil
		}
	}
	return SortByCPU, fmt.Errorf("unknown sort key %q", s)
}

// DefaultAscending reports the direction a key starts with when first
// selected: descending for CPU and memory, ascending otherwise.
func (k SortKey) DefaultAscending() bool {
	switch k {
	case SortByCPU, SortByMem:
		return false
	default:
		return true
	}
}

type Sorter struct {
	Key       SortKey
	Ascending bool
}

func NewSorter() *Sorter {
	return &Sorter{
		Key:       SortByCPU,
		Ascending: false, // Default: highest CPU first
	}
}

// Toggle flips the direction when key is already active, otherwise
// switches to key with its default direction.
func (s *Sorter) Toggle(key SortKey) {
	if s.Key == key {
		s.Ascending = !s.Ascending
		return
	}
	s.Key = key
	s.Ascending = key.DefaultAscending()
}

// Compare orders a before b (negative), after (positive) or equal.
// Empty strings sort last in either direction. Ties on the key fall back
// to CPU descending then PID ascending, unaffected by direction.
func (s *Sorter) Compare(a, b *ProcRow) int {
	var c int
	switch s.Key {
	case SortByCPU:
		c = s.directed(cmpFloat(a.CPU, b.CPU))
	case SortByPID:
		c = s.directed(cmpInt(int64(a.Pid), int64(b.Pid)))
	case SortByMem:
		c = s.directed(cmpUint(a.WorkingSet, b.WorkingSet))
	case SortByOwner:
		c = s.compareText(a.Owner, b.Owner)
	case SortByNet:
		c = s.compareText(a.Net(), b.Net())
	case SortByName:
		c = s.compareText(a.Name, b.Name)
	case SortByPath:
		c = s.compareText(a.Path, b.Path)
	}
	if c != 0 {
		return c
	}
	return TieBreak(a, b)
}

// Sort orders rows in place.
func (s *Sorter) Sort(rows []ProcRow) {
	sort.Slice(rows, func(i, j int) bool {
		return s.Compare(&rows[i], &rows[j]) < 0
	})
}

func (s *Sorter) ColumnName() string {
	names := []string{"CPU", "PID", "MEM", "OWNER", "NET", "NAME", "PATH"}
	if s.Key < 0 || int(s.Key) >= len(names) {
		return names[0]
	}
	return names[s.Key]
}

// TieBreak orders by CPU descending, then PID ascending.
func TieBreak(a, b *ProcRow) int {
	if c := cmpFloat(b.CPU, a.CPU); c != 0 {
		return c
	}
	return cmpInt(int64(a.Pid), int64(b.Pid))
}

func (s *Sorter) directed(c int) int {
	if s.Ascending {
		return c
	}
	return -c
}

func (s *Sorter) compareText(a, b string) int {
	aEmpty, bEmpty := a == "", b == ""
	switch {
	case aEmpty && bEmpty:
		return 0
	case aEmpty:
		return 1
	case bEmpty:
		return -1
	}
	return s.directed(strings.Compare(strings.ToLower(a), strings.ToLower(b)))
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func cmpInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func cmpUint(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
