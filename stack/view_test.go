package stack

import (
	"bytes"
	"strings"
	"testing"

	"ccmon/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(rows []model.ProcRow) []string {
	out := make([]string, len(rows))
	for i := range rows {
		out[i] = rows[i].Name
	}
	return out
}

func rowPids(rows []model.ProcRow) []int32 {
	out := make([]int32, len(rows))
	for i := range rows {
		out[i] = rows[i].Pid
	}
	return out
}

func TestStackedCollapsed(t *testing.T) {
	v := NewView(NewState())
	v.Update(sampleTable())

	rows := v.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, "chrome.exe (2)", rows[0].Name)
	assert.Equal(t, int32(10), rows[0].Pid)
	assert.Equal(t, 12.0, rows[0].CPU)
	assert.Equal(t, "notepad.exe", rows[1].Name)
	assert.Equal(t, int32(12), rows[1].Pid)
	assert.Equal(t, 1.0, rows[1].CPU)
	assert.Equal(t, 3, v.Total())
	assert.Equal(t, 2, v.Len())
}

func TestExportScenario(t *testing.T) {
	v := NewView(NewState())
	v.Update(sampleTable())

	var buf bytes.Buffer
	require.NoError(t, v.ExportAll(&buf))
	assert.True(t, strings.HasPrefix(buf.String(),
		"PID\tCPU%\tMem(MB)\tOwner\tNet(remote)\tName\tPath\r\n10\t12.0\t"))
	assert.Equal(t, 3, strings.Count(buf.String(), "\r\n"))
}

func TestFlatMode(t *testing.T) {
	st := NewState()
	st.Stacked = false
	v := NewView(st)
	v.Update(sampleTable())

	assert.Equal(t, []int32{11, 10, 12}, rowPids(v.Rows()))
	assert.Nil(t, v.GroupByLeader(10))

	v.SortBy(model.SortByPID)
	assert.Equal(t, []int32{10, 11, 12}, rowPids(v.Rows()))
}

func TestToggleStacked(t *testing.T) {
	v := NewView(NewState())
	v.Update(sampleTable())
	require.Equal(t, 2, v.Len())

	v.ToggleStacked()
	assert.False(t, v.Stacked)
	assert.Equal(t, 3, v.Len())

	v.ToggleStacked()
	assert.Equal(t, 2, v.Len())
}

func TestToggleStackedCollapses(t *testing.T) {
	v := NewView(NewState())
	v.Update(sampleTable())
	v.Click(10)
	require.Equal(t, "chrome.exe", v.Expanded)
	require.Equal(t, 3, v.Len())

	v.ToggleStacked()
	v.ToggleStacked()
	assert.True(t, v.Stacked)
	assert.Empty(t, v.Expanded)
	assert.Equal(t, 2, v.Len())
	assert.Equal(t, int32(10), v.Selected, "the header is still a row")
}

func TestSelectionVisible(t *testing.T) {
	table := make([]model.ProcRow, 0, 10)
	for pid := int32(1); pid <= 10; pid++ {
		table = append(table, model.ProcRow{Pid: pid, Name: "p", CPU: float64(20 - pid)})
	}
	st := NewState()
	st.Stacked = false
	v := NewView(st)
	v.SetVisibleRows(3)
	v.Update(table)

	assert.False(t, v.SelectionVisible(), "nothing selected")
	require.True(t, v.Select(1))
	assert.True(t, v.SelectionVisible())

	// pid 1 drops to the bottom while the window stays at the top.
	table[0].CPU = 0
	v.Update(table)
	assert.Equal(t, int32(1), v.Selected)
	assert.Equal(t, 9, v.SelectedIndex())
	assert.False(t, v.SelectionVisible())
}

func TestExpandShowsMembersUnderHeader(t *testing.T) {
	table := []model.ProcRow{
		{Pid: 10, Name: "chrome.exe", CPU: 5},
		{Pid: 11, Name: "chrome.exe", CPU: 1},
		{Pid: 12, Name: "notepad.exe", CPU: 30},
		{Pid: 13, Name: "chrome.exe", CPU: 9},
		{Pid: 14, Name: "chrome.exe", CPU: 1},
	}
	v := NewView(NewState())
	v.Update(table)

	v.Click(10)
	assert.Equal(t, "chrome.exe", v.Expanded)
	assert.Equal(t, int32(10), v.Selected)

	// notepad (30) sorts above chrome (16); members stay under chrome,
	// busiest first, ties by pid, leader excluded.
	assert.Equal(t, []int32{12, 10, 13, 11, 14}, rowPids(v.Rows()))
	assert.Equal(t, []string{"notepad.exe", "chrome.exe (4)", "  chrome.exe", "  chrome.exe", "  chrome.exe"}, names(v.Rows()))

	g := v.GroupByLeader(10)
	require.NotNil(t, g)
	assert.Equal(t, 1, g.HeaderAt)
	assert.Equal(t, 0, v.GroupByLeader(12).HeaderAt)

	v.Click(10)
	assert.Empty(t, v.Expanded)
	assert.Equal(t, []int32{12, 10}, rowPids(v.Rows()))
}

func TestMembersStayGluedUnderAnySort(t *testing.T) {
	table := []model.ProcRow{
		{Pid: 5, Name: "b", CPU: 1},
		{Pid: 6, Name: "b", CPU: 3},
		{Pid: 7, Name: "b", CPU: 2},
		{Pid: 8, Name: "a", CPU: 0},
		{Pid: 9, Name: "c", CPU: 50},
	}
	v := NewView(NewState())
	v.Update(table)
	v.Click(5)

	for _, key := range []model.SortKey{model.SortByCPU, model.SortByPID, model.SortByName, model.SortByMem} {
		for i := 0; i < 2; i++ {
			v.SortBy(key)
			rows := v.Rows()
			g := v.GroupByLeader(5)
			require.NotNil(t, g)
			require.Equal(t, int32(5), rows[g.HeaderAt].Pid)
			assert.Equal(t, []int32{6, 7}, rowPids(rows[g.HeaderAt+1:g.HeaderAt+3]), "key=%v asc=%v", key, v.Sorter.Ascending)
		}
	}

	v.Sorter = model.Sorter{Key: model.SortByName, Ascending: true}
	v.Rebuild()
	assert.Equal(t, []int32{8, 5, 6, 7, 9}, rowPids(v.Rows()))

	v.Sorter.Ascending = false
	v.Rebuild()
	assert.Equal(t, []int32{9, 5, 6, 7, 8}, rowPids(v.Rows()))
}

func TestAccordion(t *testing.T) {
	table := []model.ProcRow{
		{Pid: 1, Name: "a"}, {Pid: 2, Name: "a"},
		{Pid: 3, Name: "b"}, {Pid: 4, Name: "b"},
		{Pid: 5, Name: "solo"},
	}
	v := NewView(NewState())
	v.Update(table)

	clicks := []int32{1, 3, 3, 1, 5, 1, 2, 3, 1}
	for _, pid := range clicks {
		v.Click(pid)

		expanded := 0
		for i := range v.Groups() {
			if v.isExpanded(&v.Groups()[i]) {
				expanded++
			}
		}
		assert.LessOrEqual(t, expanded, 1)
	}

	v.Expanded = ""
	v.Rebuild()
	v.Click(1)
	v.Click(3)
	assert.Equal(t, "b", v.Expanded, "clicking another header switches the target")
	assert.Equal(t, 4, v.Len())

	v.Click(5)
	assert.Equal(t, "b", v.Expanded, "single-member header does not expand")
	assert.Equal(t, int32(5), v.Selected)
}

func TestClickInFlatModeOnlySelects(t *testing.T) {
	st := NewState()
	st.Stacked = false
	v := NewView(st)
	v.Update(sampleTable())

	v.Click(10)
	assert.Empty(t, v.Expanded)
	assert.Equal(t, int32(10), v.Selected)
}

func TestSelectionLoss(t *testing.T) {
	st := NewState()
	st.Stacked = false
	v := NewView(st)
	v.Update([]model.ProcRow{{Pid: 10, Name: "a.exe"}})
	require.True(t, v.Select(10))

	v.Update([]model.ProcRow{{Pid: 11, Name: "a.exe"}})
	assert.Equal(t, int32(0), v.Selected)
}

func TestSelectionKeptWhenPresent(t *testing.T) {
	v := NewView(NewState())
	v.Update(sampleTable())
	require.True(t, v.Select(12))

	v.Update(sampleTable())
	assert.Equal(t, int32(12), v.Selected)
	assert.False(t, v.Select(11), "collapsed members are not rows")
}

func TestSelectedMemberClearedOnCollapse(t *testing.T) {
	v := NewView(NewState())
	v.Update(sampleTable())
	v.Click(10)
	require.True(t, v.Select(11))

	v.Expanded = ""
	v.Rebuild()
	assert.Equal(t, int32(0), v.Selected)
}

func TestExpandedGroupVanishes(t *testing.T) {
	v := NewView(NewState())
	v.Update(sampleTable())
	v.Click(10)
	require.Equal(t, 3, v.Len())

	v.Update([]model.ProcRow{{Pid: 12, Name: "notepad.exe"}})
	assert.Equal(t, 1, v.Len())
	assert.Equal(t, int32(0), v.Selected)

	v.Update(sampleTable())
	assert.Equal(t, 3, v.Len(), "expansion follows the name across samples")
}

func TestScrollClamp(t *testing.T) {
	table := make([]model.ProcRow, 0, 10)
	for pid := int32(1); pid <= 10; pid++ {
		table = append(table, model.ProcRow{Pid: pid, Name: string(rune('a' + pid))})
	}
	st := NewState()
	st.Stacked = false
	v := NewView(st)
	v.SetVisibleRows(4)
	v.Update(table)

	assert.Equal(t, 6, v.MaxScroll())
	v.ScrollBy(100)
	assert.Equal(t, 6, v.Scroll)
	v.ScrollBy(-100)
	assert.Equal(t, 0, v.Scroll)

	v.ScrollBy(5)
	v.Update(table[:6])
	assert.Equal(t, 2, v.Scroll)

	v.Update(table[:3])
	assert.Equal(t, 0, v.Scroll)
	assert.Equal(t, 0, v.MaxScroll())
}

func TestMoveCursorFollowsScroll(t *testing.T) {
	table := make([]model.ProcRow, 0, 10)
	for pid := int32(1); pid <= 10; pid++ {
		table = append(table, model.ProcRow{Pid: pid, Name: "p"})
	}
	st := NewState()
	st.Stacked = false
	st.Sorter = model.Sorter{Key: model.SortByPID, Ascending: true}
	v := NewView(st)
	v.SetVisibleRows(3)
	v.Update(table)

	v.MoveCursor(1)
	assert.Equal(t, int32(1), v.Selected)

	v.MoveCursor(4)
	assert.Equal(t, int32(5), v.Selected)
	assert.Equal(t, 2, v.Scroll)

	v.MoveCursor(100)
	assert.Equal(t, int32(10), v.Selected)
	assert.Equal(t, 7, v.Scroll)

	v.MoveCursor(-9)
	assert.Equal(t, int32(1), v.Selected)
	assert.Equal(t, 0, v.Scroll)

	assert.Equal(t, []int32{1, 2, 3}, rowPids(v.Visible()))
}

func TestTargetPids(t *testing.T) {
	v := NewView(NewState())
	v.Update(sampleTable())

	assert.ElementsMatch(t, []int32{10, 11}, v.TargetPids(10))
	assert.Equal(t, []int32{12}, v.TargetPids(12))
	assert.Nil(t, v.TargetPids(0))

	v.ToggleStacked()
	assert.Equal(t, []int32{10}, v.TargetPids(10))
}

func TestExportSelectedAndFields(t *testing.T) {
	table := []model.ProcRow{
		{Pid: 10, Name: "a", Path: "/opt/a"},
		{Pid: 11, Name: "a", Path: "/opt/a2"},
		{Pid: 12, Name: "b", Path: "/opt/b", CPU: 2.3},
	}
	v := NewView(NewState())
	v.Update(table)

	var buf bytes.Buffer
	assert.ErrorIs(t, v.ExportSelected(&buf), ErrNoSelection)

	require.True(t, v.Select(12))
	buf.Reset()
	require.NoError(t, v.ExportSelected(&buf))
	assert.Equal(t, model.TSVHeader+"12\t2.3\t0.0\t\t\tb\t/opt/b\r\n", buf.String())

	pid, err := v.SelectedPID()
	require.NoError(t, err)
	assert.Equal(t, "12\r\n", pid)

	path, err := v.SelectedPath()
	require.NoError(t, err)
	assert.Equal(t, "/opt/b\r\n", path)

	require.True(t, v.Select(10))
	_, err = v.SelectedPath()
	assert.ErrorIs(t, err, ErrNoPath, "members disagree on path")
}

func TestExportVisible(t *testing.T) {
	st := NewState()
	st.Stacked = false
	v := NewView(st)
	v.SetVisibleRows(1)
	v.Update(sampleTable())

	var buf bytes.Buffer
	require.NoError(t, v.ExportVisible(&buf))
	assert.Equal(t, 2, strings.Count(buf.String(), "\r\n"))
	assert.Contains(t, buf.String(), "\r\n11\t")
}
