// Package stack builds the grouped ("stacked") process view: one header
// row per executable name with aggregated CPU and memory, and the member
// rows of at most one expanded group.
package stack

import (
	"fmt"
	"strings"

	"ccmon/model"
)

// Group is every process sharing one executable name, compared without
// case.
type Group struct {
	Name    string  // as first seen in the Row Table
	Leader  int32   // lowest member pid, the header's row key
	Members []int32 // Row Table order

	CPU    float64 // member sum, clamped to 0-100
	Memory uint64

	Owner     string
	Path      string
	OwnerSame bool
	PathSame  bool

	// HeaderAt is the index of the group's header in the composed view,
	// -1 until composed.
	HeaderAt int

	rows []int // Row Table index of each member
}

func (g *Group) Count() int {
	return len(g.Members)
}

// Header synthesizes the group's row. Owner and path are only shown when
// every member agrees; the network column is never aggregated.
func (g *Group) Header() model.ProcRow {
	name := g.Name
	if len(g.Members) > 1 {
		name = fmt.Sprintf("%s (%d)", g.Name, len(g.Members))
	}
	r := model.ProcRow{
		Pid:        g.Leader,
		CPU:        g.CPU,
		WorkingSet: g.Memory,
		Name:       model.Clip(name, model.NameLen),
	}
	if g.OwnerSame {
		r.Owner = g.Owner
	}
	if g.PathSame {
		r.Path = g.Path
	}
	return r
}

// Aggregator partitions a Row Table into groups. Its buffers are reused
// between builds.
type Aggregator struct {
	groups []Group
	byName map[string]int
}

func NewAggregator() *Aggregator {
	return &Aggregator{byName: make(map[string]int, 64)}
}

// Reset drops all groups, keeping capacity.
func (a *Aggregator) Reset() {
	a.groups = a.groups[:0]
	clear(a.byName)
}

// Build regroups rows from scratch. Groups come out in discovery order;
// the pid 0 placeholder is never grouped. The result is valid until the
// next Build or Reset.
func (a *Aggregator) Build(rows []model.ProcRow) []Group {
	a.Reset()

	for i := range rows {
		r := &rows[i]
		if r.Pid == 0 {
			continue
		}

		key := strings.ToLower(r.Name)
		gi, ok := a.byName[key]
		if !ok {
			gi = a.newGroup(r)
			a.byName[key] = gi
		}

		g := &a.groups[gi]
		g.Members = append(g.Members, r.Pid)
		g.rows = append(g.rows, i)
		if r.Pid < g.Leader {
			g.Leader = r.Pid
		}

		g.CPU += r.CPU
		g.Memory += r.WorkingSet

		if g.OwnerSame && !strings.EqualFold(g.Owner, r.Owner) {
			g.OwnerSame = false
		}
		if g.PathSame && !strings.EqualFold(g.Path, r.Path) {
			g.PathSame = false
		}
	}

	for i := range a.groups {
		g := &a.groups[i]
		if g.CPU < 0 {
			g.CPU = 0
		} else if g.CPU > 100 {
			g.CPU = 100
		}
	}
	return a.groups
}

func (a *Aggregator) newGroup(first *model.ProcRow) int {
	idx := len(a.groups)
	if idx < cap(a.groups) {
		a.groups = a.groups[:idx+1]
	} else {
		a.groups = append(a.groups, Group{})
	}

	g := &a.groups[idx]
	members, rows := g.Members[:0], g.rows[:0]
	*g = Group{
		Name:      first.Name,
		Leader:    first.Pid,
		Members:   members,
		Owner:     first.Owner,
		Path:      first.Path,
		OwnerSame: true,
		PathSame:  true,
		HeaderAt:  -1,
		rows:      rows,
	}
	return idx
}
