package model

// Text limits for row fields, counted in runes including the terminator
// slot, so a field holds at most limit-1 runes.
const (
	NameLen  = 64
	PathLen  = 260
	OwnerLen = 96
	NetLen   = 64
)

// ProcEntry is one item of a process enumeration.
type ProcEntry struct {
	Pid  int32
	Name string
}

// Conn is one row of the host's connection table.
type Conn struct {
	Pid        int32
	Status     string
	RemoteIP   string
	RemotePort uint32
}

// ProcRow is one process (or one group header) at one sampling tick.
type ProcRow struct {
	Pid        int32
	CPU        float64 // percent of total system CPU time, 0-100
	WorkingSet uint64  // bytes

	HasNet    bool
	NetRemote string

	Name  string
	Path  string
	Owner string
}

// Net returns the remote endpoint, or "" when the row has none.
func (r ProcRow) Net() string {
	if !r.HasNet {
		return ""
	}
	return r.NetRemote
}

// MemMB returns the working set in mebibytes.
func (r ProcRow) MemMB() float64 {
	return float64(r.WorkingSet) / (1024.0 * 1024.0)
}

// Clip bounds s to limit-1 runes. It never splits a rune and always
// returns "" for a non-positive limit.
func Clip(s string, limit int) string {
	if limit <= 1 {
		return ""
	}
	keep := limit - 1
	if len(s) <= keep {
		return s
	}
	n := 0
	for i := range s {
		if n == keep {
			return s[:i]
		}
		n++
	}
	return s
}

// FindRow returns the index of the row with pid, or -1.
func FindRow(rows []ProcRow, pid int32) int {
	if pid == 0 {
		return -1
	}
	for i := range rows {
		if rows[i].Pid == pid {
			return i
		}
	}
	return -1
}
