package stack

import (
	"sort"
	"strings"

	"ccmon/model"
)

const memberIndent = "  "

// State is the consumer-held view state. All fields are plain values the
// caller may read or set directly; call Rebuild after changing Stacked,
// Expanded or Sorter by hand.
type State struct {
	Sorter      model.Sorter
	Scroll      int
	Selected    int32 // 0 means no selection
	Stacked     bool
	Expanded    string // base name of the expanded group, "" for none
	VisibleRows int
}

func NewState() State {
	return State{
		Sorter:  *model.NewSorter(),
		Stacked: true,
	}
}

// View composes the rows shown to the rest of the application from the
// latest Row Table and the current State.
type View struct {
	State

	agg    *Aggregator
	table  []model.ProcRow
	groups []Group
	rows   []model.ProcRow
	spare  []model.ProcRow
	order  []int
}

func NewView(state State) *View {
	return &View{
		State: state,
		agg:   NewAggregator(),
	}
}

// Update installs a new Row Table and recomposes. The view keeps the
// slice; callers must not modify it afterwards.
func (v *View) Update(table []model.ProcRow) {
	v.table = table
	v.Rebuild()
}

// Rebuild recomposes from the current table and State, drops a selection
// that is no longer visible and clamps the scroll offset.
func (v *View) Rebuild() {
	if v.Stacked {
		v.composeStacked()
	} else {
		v.composeFlat()
	}

	if v.Selected != 0 && model.FindRow(v.rows, v.Selected) < 0 {
		v.Selected = 0
	}
	v.clampScroll()
}

func (v *View) composeFlat() {
	v.agg.Reset()
	v.groups = v.groups[:0]

	v.rows = append(v.rows[:0], v.table...)
	v.Sorter.Sort(v.rows)
}

func (v *View) composeStacked() {
	v.groups = v.agg.Build(v.table)
	v.rows = v.rows[:0]

	expanded, expandedRows := -1, 0
	for gi := range v.groups {
		g := &v.groups[gi]
		g.HeaderAt = len(v.rows)
		v.rows = append(v.rows, g.Header())
		if v.isExpanded(g) {
			before := len(v.rows)
			v.rows = v.appendMembers(v.rows, g)
			expanded, expandedRows = gi, len(v.rows)-before
		}
	}

	v.sortHeaders(expanded, expandedRows)
}

// sortHeaders orders the header rows only. The expanded group's member
// rows travel with their header.
func (v *View) sortHeaders(expanded, expandedRows int) {
	v.order = v.order[:0]
	for gi := range v.groups {
		v.order = append(v.order, gi)
	}
	sort.Slice(v.order, func(i, j int) bool {
		a := &v.rows[v.groups[v.order[i]].HeaderAt]
		b := &v.rows[v.groups[v.order[j]].HeaderAt]
		return v.Sorter.Compare(a, b) < 0
	})

	out := v.spare[:0]
	for _, gi := range v.order {
		g := &v.groups[gi]
		start, end := g.HeaderAt, g.HeaderAt+1
		if gi == expanded {
			end += expandedRows
		}
		g.HeaderAt = len(out)
		out = append(out, v.rows[start:end]...)
	}
	v.rows, v.spare = out, v.rows
}

func (v *View) isExpanded(g *Group) bool {
	return v.Expanded != "" && len(g.Members) > 1 && strings.EqualFold(v.Expanded, g.Name)
}

// appendMembers adds the non-leader members of g, busiest first.
func (v *View) appendMembers(dst []model.ProcRow, g *Group) []model.ProcRow {
	start := len(dst)
	for k, pid := range g.Members {
		if pid == g.Leader {
			continue
		}
		r := v.table[g.rows[k]]
		r.Name = model.Clip(memberIndent+r.Name, model.NameLen)
		dst = append(dst, r)
	}

	members := dst[start:]
	sort.Slice(members, func(i, j int) bool {
		return model.TieBreak(&members[i], &members[j]) < 0
	})
	return dst
}

// Rows is the composed view. It is valid until the next Rebuild.
func (v *View) Rows() []model.ProcRow {
	return v.rows
}

func (v *View) Len() int {
	return len(v.rows)
}

// Total is the number of processes in the Row Table, before grouping.
func (v *View) Total() int {
	return len(v.table)
}

// Groups returns the groups of the last stacked composition, nil in flat
// mode.
func (v *View) Groups() []Group {
	return v.groups
}

// GroupByLeader returns the group whose header carries pid, if any.
func (v *View) GroupByLeader(pid int32) *Group {
	for i := range v.groups {
		if v.groups[i].Leader == pid {
			return &v.groups[i]
		}
	}
	return nil
}

// Click selects pid. In stacked mode, clicking a multi-member header
// expands that group, or collapses it when it is already expanded; any
// other expanded group collapses.
func (v *View) Click(pid int32) {
	v.Selected = pid
	if v.Stacked {
		if g := v.GroupByLeader(pid); g != nil && g.Count() > 1 {
			if strings.EqualFold(v.Expanded, g.Name) {
				v.Expanded = ""
			} else {
				v.Expanded = g.Name
			}
		}
	}
	v.Rebuild()
}

// ToggleStacked switches between the flat and the stacked view. Either
// way the result has no expanded group.
func (v *View) ToggleStacked() {
	v.Stacked = !v.Stacked
	v.Expanded = ""
	v.Rebuild()
}

// SortBy selects key, flipping the direction if it is already active.
func (v *View) SortBy(key model.SortKey) {
	v.Sorter.Toggle(key)
	v.Rebuild()
}

// Select sets the selection if pid is in the view and reports whether it
// was.
func (v *View) Select(pid int32) bool {
	if model.FindRow(v.rows, pid) < 0 {
		return false
	}
	v.Selected = pid
	return true
}

// SelectedIndex is the view index of the selection, or -1.
func (v *View) SelectedIndex() int {
	return model.FindRow(v.rows, v.Selected)
}

// SelectionVisible reports whether the selection is inside the scroll
// window.
func (v *View) SelectionVisible() bool {
	i := v.SelectedIndex()
	if i < v.Scroll || i < 0 {
		return false
	}
	return v.VisibleRows <= 0 || i < v.Scroll+v.VisibleRows
}

func (v *View) SelectedRow() (model.ProcRow, bool) {
	i := v.SelectedIndex()
	if i < 0 {
		return model.ProcRow{}, false
	}
	return v.rows[i], true
}

// MoveCursor moves the selection by delta rows and scrolls just enough
// to keep it visible.
func (v *View) MoveCursor(delta int) {
	if len(v.rows) == 0 {
		v.Selected = 0
		return
	}
	i := v.SelectedIndex()
	if i < 0 {
		i = v.Scroll
		if delta > 0 {
			delta--
		}
	}
	i = clamp(i+delta, 0, len(v.rows)-1)
	v.Selected = v.rows[i].Pid

	if i < v.Scroll {
		v.Scroll = i
	} else if v.VisibleRows > 0 && i >= v.Scroll+v.VisibleRows {
		v.Scroll = i - v.VisibleRows + 1
	}
	v.clampScroll()
}

func (v *View) ScrollBy(delta int) {
	v.Scroll += delta
	v.clampScroll()
}

func (v *View) SetVisibleRows(n int) {
	if n < 0 {
		n = 0
	}
	v.VisibleRows = n
	v.clampScroll()
}

// MaxScroll is the largest valid scroll offset.
func (v *View) MaxScroll() int {
	if v.VisibleRows <= 0 || len(v.rows) <= v.VisibleRows {
		return 0
	}
	return len(v.rows) - v.VisibleRows
}

// Visible returns the rows inside the scroll window.
func (v *View) Visible() []model.ProcRow {
	if v.VisibleRows <= 0 || v.Scroll >= len(v.rows) {
		return nil
	}
	end := v.Scroll + v.VisibleRows
	if end > len(v.rows) {
		end = len(v.rows)
	}
	return v.rows[v.Scroll:end]
}

// TargetPids lists the processes an action on pid applies to: every
// member when pid is a multi-member header, otherwise pid alone.
func (v *View) TargetPids(pid int32) []int32 {
	if pid == 0 {
		return nil
	}
	if v.Stacked {
		if g := v.GroupByLeader(pid); g != nil && g.Count() > 1 {
			return append([]int32(nil), g.Members...)
		}
	}
	return []int32{pid}
}

func (v *View) clampScroll() {
	v.Scroll = clamp(v.Scroll, 0, v.MaxScroll())
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
