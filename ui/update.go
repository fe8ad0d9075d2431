package ui

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"ccmon/config"
	"ccmon/model"
	"ccmon/proc"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const errorFmt = "Error: %v"

// chromeLines is the screen height taken by everything but the table.
const chromeLines = 10

var sortKeys = map[string]model.SortKey{
	"c": model.SortByCPU,
	"p": model.SortByPID,
	"m": model.SortByMem,
	"o": model.SortByOwner,
	"w": model.SortByNet,
	"n": model.SortByName,
	"t": model.SortByPath,
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.mode {
		case settingsMode:
			return m.handleSettingsMode(msg)
		case editThresholdCPU:
			return m.handleEditCPU(msg)
		case editThresholdMEM:
			return m.handleEditMEM(msg)
		case addWebhookMode:
			return m.handleAddWebhook(msg)
		case confirmDeleteWebhook:
			return m.handleConfirmDeleteWebhook(msg)
		}
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		h := msg.Height - chromeLines
		if h < headerLines+1 {
			h = headerLines + 1
		}
		m.table.SetHeight(h)
		m.table.SetWidth(msg.Width)
		m.view.SetVisibleRows(h - headerLines)
		m.sync()
		return m, nil

	case tickMsg:
		return m, readSummary

	case summaryMsg:
		m.summary = proc.Summary(msg)
		return m, tickCmd(summaryInterval)

	case dataMsg:
		m.rows = msg.rows
		m.total = msg.total
		m.refresh()
		return m, nil

	case statusMsg:
		m.statusText = msg.text
		m.statusError = msg.isError
		return m, nil
	}

	// Update filter input if in filter mode
	if m.mode == filterMode {
		m.filterInput, cmd = m.filterInput.Update(msg)
		m.filterText = m.filterInput.Value()
		m.refresh()
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case normalMode:
		return m.handleNormalMode(msg)
	case filterMode:
		return m.handleFilterMode(msg)
	case confirmKillMode:
		return m.handleConfirmKill(msg)
	case helpMode:
		m.mode = normalMode
		return m, nil
	}
	return m, nil
}

func (m Model) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if k, ok := sortKeys[key]; ok {
		m.view.SortBy(k)
		m.sync()
		return m, nil
	}

	switch key {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "?":
		m.mode = helpMode
		return m, nil

	case "g":
		m.view.ToggleStacked()
		m.sync()

	case "enter", " ", "space":
		if m.view.SelectionVisible() {
			m.view.Click(m.view.Selected)
			m.sync()
		}

	// Navigation
	case "up":
		m.view.MoveCursor(-1)
		m.sync()
	case "down":
		m.view.MoveCursor(1)
		m.sync()
	case "pgup":
		m.view.MoveCursor(-m.page())
		m.sync()
	case "pgdown":
		m.view.MoveCursor(m.page())
		m.sync()
	case "home":
		m.view.MoveCursor(-m.view.Len())
		m.sync()
	case "end":
		m.view.MoveCursor(m.view.Len())
		m.sync()

	// Filtering
	case "/":
		m.mode = filterMode
		m.filterInput.Focus()
		return m, textinput.Blink

	// Copies
	case "Y":
		return m, m.exportWith("all rows", m.view.ExportAll)
	case "v":
		return m, m.exportWith("visible rows", m.view.ExportVisible)

	case "y", "i", "P", "k", "K":
		if m.view.Selected != 0 && !m.view.SelectionVisible() {
			return m, m.showStatus("Error: selected process is scrolled out of view", true)
		}
		return m.handleSelectionKey(key)

	case "s":
		m.mode = settingsMode
		return m, nil
	}

	return m, nil
}

// handleSelectionKey runs the copy and end keys against the selected row.
func (m Model) handleSelectionKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "y":
		return m, m.exportWith("selected row", m.view.ExportSelected)
	case "i":
		pid, err := m.view.SelectedPID()
		if err != nil {
			return m, m.showStatus(fmt.Sprintf(errorFmt, err), true)
		}
		return m, exportCmd(m.cfg.ExportPath, pid, "PID")
	case "P":
		path, err := m.view.SelectedPath()
		if err != nil {
			return m, m.showStatus(fmt.Sprintf(errorFmt, err), true)
		}
		return m, exportCmd(m.cfg.ExportPath, path, "path")

	// Terminate, after confirmation
	case "k":
		if r, ok := m.view.SelectedRow(); ok {
			m.pending = m.view.TargetPids(r.Pid)
			m.pendingFor = r.Name
			m.mode = confirmKillMode
		}

	// Force kill
	case "K":
		if r, ok := m.view.SelectedRow(); ok {
			return m, m.endCmd(m.view.TargetPids(r.Pid), proc.SignalKill, r.Name)
		}
	}
	return m, nil
}

func (m Model) page() int {
	if m.view.VisibleRows > 1 {
		return m.view.VisibleRows
	}
	return 1
}

func (m Model) handleFilterMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+c":
		m.mode = normalMode
		m.filterInput.Blur()
		m.filterInput.SetValue("")
		m.filterText = ""
		m.refresh()
		return m, nil
	case "enter":
		m.mode = normalMode
		m.filterInput.Blur()
		m.filterText = m.filterInput.Value()
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	m.filterText = m.filterInput.Value()
	m.refresh()
	return m, cmd
}

func (m Model) handleConfirmKill(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.mode = normalMode
		return m, m.endCmd(m.pending, proc.SignalTerminate, m.pendingFor)

	case "n", "N", "esc", "q":
		m.mode = normalMode
		m.pending = nil
		return m, nil
	}
	return m, nil
}

// endCmd signals pids off the UI goroutine and reports the outcome.
func (m Model) endCmd(pids []int32, sig proc.Signal, label string) tea.Cmd {
	ctl := m.ctl
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		failed, err := ctl.EndAll(ctx, pids, sig)
		if err != nil {
			return statusMsg{
				text:    fmt.Sprintf("%s %s: %d of %d failed: %v", sig, label, failed, len(pids), err),
				isError: true,
			}
		}
		return statusMsg{text: fmt.Sprintf("Sent %s to %s (%d process(es))", sig, label, len(pids))}
	}
}

// exportWith renders rows on the UI goroutine and writes them in the
// background.
func (m Model) exportWith(what string, render func(io.Writer) error) tea.Cmd {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return m.showStatus(fmt.Sprintf(errorFmt, err), true)
	}
	return exportCmd(m.cfg.ExportPath, buf.String(), what)
}

func exportCmd(path, data, what string) tea.Cmd {
	return func() tea.Msg {
		if path == "" {
			return statusMsg{text: "Error: export_path is not configured", isError: true}
		}
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return statusMsg{text: fmt.Sprintf(errorFmt, err), isError: true}
		}
		if err := os.WriteFile(path, []byte(data), 0644); err != nil {
			return statusMsg{text: fmt.Sprintf(errorFmt, err), isError: true}
		}
		return statusMsg{text: fmt.Sprintf("Copied %s to %s", what, path)}
	}
}

func (m Model) showStatus(text string, isError bool) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: text, isError: isError}
	}
}

func (m Model) saveConfig() tea.Cmd {
	if err := config.Save(m.cfgPath, m.cfg); err != nil {
		return m.showStatus(fmt.Sprintf(errorFmt, err), true)
	}
	return m.showStatus("Settings saved", false)
}

func (m Model) handleSettingsMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {

	case "q", "esc":
		m.mode = normalMode
		return m, nil

	case "e":
		m.mode = editThresholdCPU
		m.cpuInput.Focus()
		return m, nil

	case "m":
		m.mode = editThresholdMEM
		m.memInput.Focus()
		return m, nil

	case "a":
		m.mode = addWebhookMode
		m.addingWebhookStep = 0
		m.webhookNameInput.SetValue("")
		m.webhookURLInput.SetValue("")
		m.webhookNameInput.Focus()
		return m, nil

	case "d":
		if len(m.webhookNames) > 0 {
			m.mode = confirmDeleteWebhook
		}
		return m, nil

	case "w":
		if len(m.webhookNames) > 0 {
			m.cfg.ActiveWebhook = m.webhookNames[m.selectedWebhookIndex]
			return m, m.saveConfig()
		}
		return m, nil

	case "up":
		if m.selectedWebhookIndex > 0 {
			m.selectedWebhookIndex--
		}
		return m, nil

	case "down":
		if m.selectedWebhookIndex < len(m.webhookNames)-1 {
			m.selectedWebhookIndex++
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleEditCPU(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		f, err := strconv.ParseFloat(m.cpuInput.Value(), 64)
		if err != nil || f < 0 || f > 100 {
			return m, m.showStatus("CPU threshold must be a number within 0-100", true)
		}
		m.cfg.CPUThreshold = f
		m.cpuInput.Blur()
		m.mode = settingsMode
		return m, m.saveConfig()

	case "esc":
		m.cpuInput.Blur()
		m.mode = settingsMode
		return m, nil
	}

	var cmd tea.Cmd
	m.cpuInput, cmd = m.cpuInput.Update(msg)
	return m, cmd
}

func (m Model) handleEditMEM(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		f, err := strconv.ParseFloat(m.memInput.Value(), 64)
		if err != nil || f < 0 {
			return m, m.showStatus("memory threshold must be a non-negative number of MB", true)
		}
		m.cfg.MemThresholdMB = f
		m.memInput.Blur()
		m.mode = settingsMode
		return m, m.saveConfig()

	case "esc":
		m.memInput.Blur()
		m.mode = settingsMode
		return m, nil
	}

	var cmd tea.Cmd
	m.memInput, cmd = m.memInput.Update(msg)
	return m, cmd
}

func (m Model) handleAddWebhook(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {

	case "enter":
		if m.addingWebhookStep == 0 {
			if m.webhookNameInput.Value() == "" {
				return m, nil
			}

			m.addingWebhookStep = 1
			m.webhookNameInput.Blur()
			m.webhookURLInput.Focus()
			return m, nil
		}

		name := m.webhookNameInput.Value()
		url := m.webhookURLInput.Value()

		m.addingWebhookStep = 0
		m.webhookNameInput.SetValue("")
		m.webhookURLInput.SetValue("")
		m.webhookURLInput.Blur()
		m.mode = settingsMode

		if name == "" || url == "" {
			return m, nil
		}
		if m.cfg.Webhooks == nil {
			m.cfg.Webhooks = map[string]string{}
		}
		m.cfg.Webhooks[name] = url
		m.webhookNames = webhookNames(m.cfg)
		return m, m.saveConfig()

	case "esc":
		m.addingWebhookStep = 0
		m.webhookNameInput.Blur()
		m.webhookURLInput.Blur()
		m.mode = settingsMode
		return m, nil
	}

	var cmd tea.Cmd

	if m.addingWebhookStep == 0 {
		m.webhookNameInput, cmd = m.webhookNameInput.Update(msg)
		return m, cmd
	}

	m.webhookURLInput, cmd = m.webhookURLInput.Update(msg)
	return m, cmd
}

func (m Model) handleConfirmDeleteWebhook(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		name := m.webhookNames[m.selectedWebhookIndex]
		delete(m.cfg.Webhooks, name)
		if m.cfg.ActiveWebhook == name {
			m.cfg.ActiveWebhook = ""
		}
		m.webhookNames = webhookNames(m.cfg)
		if m.selectedWebhookIndex >= len(m.webhookNames) && m.selectedWebhookIndex > 0 {
			m.selectedWebhookIndex--
		}
		m.mode = settingsMode
		return m, m.saveConfig()

	case "n", "N", "esc", "q":
		m.mode = settingsMode
		return m, nil
	}
	return m, nil
}
