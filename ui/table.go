package ui

import (
	"fmt"
	"strings"

	"ccmon/model"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// headerLines is the height of the table header including its border.
const headerLines = 2

var columnTitles = []struct {
	key   model.SortKey
	title string
	width int
}{
	{model.SortByPID, "PID", 7},
	{model.SortByCPU, "CPU%", 7},
	{model.SortByMem, "Mem(MB)", 9},
	{model.SortByOwner, "Owner", 16},
	{model.SortByNet, "Net(remote)", 22},
	{model.SortByName, "Name", 28},
	{model.SortByPath, "Path", 40},
}

// columns builds the table columns with the sort indicator applied.
func columns(s model.Sorter) []table.Column {
	indicator := "↓"
	if s.Ascending {
		indicator = "↑"
	}

	cols := make([]table.Column, len(columnTitles))
	for i, c := range columnTitles {
		cols[i] = table.Column{Title: c.title, Width: c.width}
		if c.key == s.Key {
			cols[i].Title += " " + indicator
		}
	}
	return cols
}

// tableStyles highlights the cursor row only when the selected row is on
// screen.
func tableStyles(selected bool) table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(muted).
		BorderBottom(true).
		Bold(true).
		Foreground(lipgloss.Color("117"))
	if selected {
		s.Selected = s.Selected.
			Foreground(lipgloss.Color("231")).
			Background(accent).
			Bold(false)
	} else {
		s.Selected = lipgloss.NewStyle()
	}
	return s
}

// refresh recomposes the view from the latest table and pushes the
// visible window into the bubbles table.
func (m *Model) refresh() {
	m.view.Update(m.applyFilter(m.rows, m.filterText))
	m.sync()
}

// sync renders the current view without recomposing it.
func (m *Model) sync() {
	m.table.SetColumns(columns(m.view.Sorter))
	m.table.SetRows(m.buildRows(m.view.Visible()))

	// A selection scrolled out of the window is not highlighted; the
	// cursor would otherwise land on some other row.
	m.cursorShown = m.view.SelectionVisible()
	m.table.SetStyles(tableStyles(m.cursorShown))
	if m.cursorShown {
		m.table.SetCursor(m.view.SelectedIndex() - m.view.Scroll)
	} else {
		m.table.SetCursor(0)
	}
}

// buildRows converts view rows into table rows with styling.
func (m *Model) buildRows(rows []model.ProcRow) []table.Row {
	out := make([]table.Row, 0, len(rows))
	for _, r := range rows {
		cpu := fmt.Sprintf("%.1f", r.CPU)
		if style, ok := m.cpuStyle(r.CPU); ok {
			cpu = style.Render(cpu)
		}

		name := r.Name
		if g := m.view.GroupByLeader(r.Pid); g != nil && g.Count() > 1 {
			name = groupStyle.Render(name)
		}

		out = append(out, table.Row{
			fmt.Sprintf("%d", r.Pid),
			cpu,
			fmt.Sprintf("%.1f", r.MemMB()),
			r.Owner,
			r.Net(),
			name,
			r.Path,
		})
	}
	return out
}

// cpuStyle picks the style for a CPU cell from the alert threshold. A
// zero threshold leaves every cell plain.
func (m *Model) cpuStyle(cpu float64) (lipgloss.Style, bool) {
	limit := m.cfg.CPUThreshold
	switch {
	case limit <= 0:
		return lipgloss.Style{}, false
	case cpu >= limit:
		return hotCPUStyle, true
	case cpu >= limit/2:
		return warmCPUStyle, true
	}
	return lipgloss.Style{}, false
}

// applyFilter returns the rows whose name contains text, ignoring case.
// When text is empty, returns the input rows unchanged.
func (m *Model) applyFilter(rows []model.ProcRow, text string) []model.ProcRow {
	if text == "" {
		return rows
	}

	searchLower := strings.ToLower(text)
	filtered := make([]model.ProcRow, 0, len(rows))
	for _, r := range rows {
		if strings.Contains(strings.ToLower(r.Name), searchLower) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}
