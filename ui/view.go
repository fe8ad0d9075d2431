package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	switch m.mode {
	case helpMode:
		return m.renderHelp()
	case settingsMode, confirmDeleteWebhook:
		return m.renderSettings()
	case editThresholdCPU:
		return "Edit CPU Threshold (%):\n\n" + m.cpuInput.View() + "\n\n[enter=save, esc=cancel]\n" + m.renderStatus()
	case editThresholdMEM:
		return "Edit Memory Threshold (MB):\n\n" + m.memInput.View() + "\n\n[enter=save, esc=cancel]\n" + m.renderStatus()
	case addWebhookMode:
		return m.renderAddWebhook()
	}

	var b strings.Builder
	b.WriteString(m.renderTitle())
	b.WriteString("\n\n")
	b.WriteString(summaryStyle.Render(m.renderHeader()))
	b.WriteString("\n\n")
	b.WriteString(tableFrameStyle.Render(m.table.View()))
	b.WriteString("\n")

	if m.mode == normalMode {
		b.WriteString(m.renderQuickHelp())
		b.WriteString("\n")
	}

	if m.statusText != "" {
		b.WriteString("\n")
		b.WriteString(m.renderStatus())
		b.WriteString("\n")
	}

	if m.mode == filterMode {
		b.WriteString("\n")
		b.WriteString(m.renderFilterBar())
	}

	if m.mode == confirmKillMode {
		b.WriteString("\n")
		b.WriteString(m.renderConfirmKill())
	}

	return b.String()
}

func (m Model) renderTitle() string {
	return titleBarStyle.Width(m.width).Render(titleStyle.Render("CCMON - Process CPU Monitor"))
}

func (m Model) renderHeader() string {
	direction := sortedColumnStyle.Render("↓")
	if m.view.Sorter.Ascending {
		direction = sortedColumnStyle.Render("↑")
	}

	layout := "flat"
	if m.view.Stacked {
		layout = "stacked"
	}

	s := m.summary
	header := fmt.Sprintf(
		"Processes: %d | Rows: %d (%s) | Load: %.2f %.2f %.2f | Mem: %s / %s | Uptime: %s | Sort: %s %s",
		m.total, m.view.Len(), layout,
		s.Load1, s.Load5, s.Load15,
		FormatBytes(s.MemUsed), FormatBytes(s.MemTotal),
		FormatUptime(s.Uptime),
		sortedColumnStyle.Render(m.view.Sorter.ColumnName()),
		direction,
	)

	if m.filterText != "" {
		header += fmt.Sprintf(" | Filter: %s",
			successStyle.Render(m.filterText))
	}
	return header
}

func (m Model) renderQuickHelp() string {
	quickHelp := fmt.Sprintf(
		"%s Sort | %s Stack | %s Expand | %s Filter | %s Copy | %s End | %s Settings | %s Help | %s Quit",
		keybindStyle.Render("[c/p/m/o/w/n/t]"),
		keybindStyle.Render("[g]"),
		keybindStyle.Render("[enter]"),
		keybindStyle.Render("[/]"),
		keybindStyle.Render("[y/Y/v/i/P]"),
		keybindStyle.Render("[k/K]"),
		keybindStyle.Render("[s]"),
		keybindStyle.Render("[?]"),
		keybindStyle.Render("[q]"),
	)
	return keybindDescStyle.Render(quickHelp)
}

func (m Model) renderStatus() string {
	style := successStyle
	if m.statusError {
		style = errorStyle
	}
	return style.Render(m.statusText)
}

func (m Model) renderFilterBar() string {
	return sectionStyle.Render("Filter: ") +
		m.filterInput.View() +
		keybindDescStyle.Render(" (Enter to apply, Esc to clear)")
}

func (m Model) renderConfirmKill() string {
	msg := fmt.Sprintf("Terminate %s? (y/n)", m.pendingFor)
	if len(m.pending) > 1 {
		msg = fmt.Sprintf("Terminate all %d processes of %s? (y/n)", len(m.pending), m.pendingFor)
	}
	return confirmStyle.Render(msg)
}

type binding struct{ key, desc string }

var helpSections = []struct {
	title string
	keys  []binding
}{
	{
		title: "SORTING",
		keys: []binding{
			{"c", "Sort by CPU%"},
			{"p", "Sort by PID"},
			{"m", "Sort by memory"},
			{"o", "Sort by owner"},
			{"w", "Sort by remote address"},
			{"n", "Sort by name"},
			{"t", "Sort by path"},
			{"", "Press same key to toggle ascending/descending"},
		},
	},
	{
		title: "GROUPING",
		keys: []binding{
			{"g", "Toggle stacked/flat view"},
			{"Enter/Space", "Expand or collapse the selected group"},
			{"", "Only one group is expanded at a time"},
		},
	},
	{
		title: "FILTERING",
		keys: []binding{
			{"/", "Enter filter mode"},
			{"Enter", "Apply filter"},
			{"Esc", "Clear filter"},
		},
	},
	{
		title: "COPY (written to export_path)",
		keys: []binding{
			{"y", "Selected row"},
			{"Y", "All rows"},
			{"v", "Visible rows"},
			{"i", "PID of the selected row"},
			{"P", "Path of the selected row"},
		},
	},
	{
		title: "PROCESS MANAGEMENT",
		keys: []binding{
			{"k", "Terminate (asks first)"},
			{"K", "Kill immediately"},
			{"", "On a group header both apply to every member"},
		},
	},
	{
		title: "NAVIGATION",
		keys: []binding{
			{"↑/↓", "Move selection"},
			{"PgUp/PgDn", "Page up/down"},
			{"Home/End", "Go to first/last"},
		},
	},
	{
		title: "GENERAL",
		keys: []binding{
			{"s", "Open settings (thresholds & webhooks)"},
			{"?", "Show/hide this help"},
			{"q", "Quit program"},
		},
	},
}

func (m Model) renderHelp() string {
	var b strings.Builder

	b.WriteString(titleBarStyle.Width(m.width).Render(titleStyle.Render("CCMON - Keyboard Shortcuts")))
	b.WriteString("\n\n")

	for _, section := range helpSections {
		b.WriteString(sectionStyle.Render(section.title))
		b.WriteString("\n")

		for _, k := range section.keys {
			if k.key == "" {
				b.WriteString(keybindDescStyle.Render("  ℹ " + k.desc))
			} else {
				line := fmt.Sprintf("  %s  %s",
					keybindStyle.Render(lipgloss.NewStyle().Width(12).Render(k.key)),
					keybindDescStyle.Render(k.desc))
				b.WriteString(line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(keybindDescStyle.Render("Press any key to return..."))

	return helpBoxStyle.Render(b.String())
}

func (m Model) renderSettings() string {
	var b strings.Builder

	b.WriteString("===== SETTINGS =====\n\n")

	b.WriteString(fmt.Sprintf("CPU Threshold: %.0f%%\n", m.cfg.CPUThreshold))
	b.WriteString(fmt.Sprintf("Memory Threshold: %.0f MB\n\n", m.cfg.MemThresholdMB))

	b.WriteString("Webhooks:\n")
	for i, name := range m.webhookNames {
		marker := " "
		if name == m.cfg.ActiveWebhook {
			marker = "*"
		}
		sel := " "
		if i == m.selectedWebhookIndex {
			sel = ">"
		}
		b.WriteString(fmt.Sprintf("%s %s %s → %s\n", sel, marker, name, m.cfg.Webhooks[name]))
	}

	if m.mode == confirmDeleteWebhook {
		b.WriteString("\n")
		b.WriteString(confirmStyle.Render(fmt.Sprintf("Delete webhook %s? (y/n)", m.webhookNames[m.selectedWebhookIndex])))
		b.WriteString("\n")
	}

	b.WriteString("\nActions:\n")
	b.WriteString(" e  Edit CPU Threshold\n")
	b.WriteString(" m  Edit Memory Threshold\n")
	b.WriteString(" a  Add Webhook\n")
	b.WriteString(" d  Delete Webhook\n")
	b.WriteString(" w  Set Selected as Active\n")
	b.WriteString(" q  Back\n")

	if m.statusText != "" {
		b.WriteString("\n")
		b.WriteString(m.renderStatus())
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) renderAddWebhook() string {
	var b strings.Builder

	b.WriteString("=== Add Webhook ===\n\n")

	b.WriteString("Name:\n")
	b.WriteString(m.webhookNameInput.View())
	b.WriteString("\n\n")

	b.WriteString("URL:\n")
	b.WriteString(m.webhookURLInput.View())
	b.WriteString("\n\n")

	b.WriteString("[enter = next/save]   [esc = cancel]\n")

	return b.String()
}
