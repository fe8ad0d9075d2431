package monitor

import "time"

type baseline struct {
	total time.Duration
	valid bool // total came from a successful query
	seen  bool
}

// Baselines keeps the last cumulative CPU time observed for each pid.
// A pass is Mark, then Record or Invalidate for every pid enumerated, then
// Compact, which drops pids that were not touched.
type Baselines struct {
	entries map[int32]*baseline
}

func NewBaselines() *Baselines {
	return &Baselines{entries: make(map[int32]*baseline, 256)}
}

// Mark flags every entry as unseen.
func (b *Baselines) Mark() {
	for _, e := range b.entries {
		e.seen = false
	}
}

func (b *Baselines) ensure(pid int32) *baseline {
	e, ok := b.entries[pid]
	if !ok {
		e = &baseline{}
		b.entries[pid] = e
	}
	e.seen = true
	return e
}

// Invalidate keeps pid alive but drops its recorded time, so the next
// Record has no usable previous value.
func (b *Baselines) Invalidate(pid int32) {
	b.ensure(pid).valid = false
}

// Record stores total as the new baseline for pid and returns the
// previous one. ok is false when no usable previous value existed.
func (b *Baselines) Record(pid int32, total time.Duration) (prev time.Duration, ok bool) {
	e := b.ensure(pid)
	prev, ok = e.total, e.valid
	e.total = total
	e.valid = true
	return prev, ok
}

// Compact removes every entry not touched since the last Mark.
func (b *Baselines) Compact() {
	for pid, e := range b.entries {
		if !e.seen {
			delete(b.entries, pid)
		}
	}
}

func (b *Baselines) Len() int {
	return len(b.entries)
}

func (b *Baselines) Has(pid int32) bool {
	_, ok := b.entries[pid]
	return ok
}
