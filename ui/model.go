package ui

import (
	"context"
	"fmt"
	"sort"
	"time"

	"ccmon/config"
	"ccmon/model"
	"ccmon/proc"
	"ccmon/stack"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// summaryInterval paces the load/memory/uptime line.
const summaryInterval = 2 * time.Second

// Model holds TUI state. Selection, scroll and grouping live in view; the
// bubbles table only renders the visible window.
type Model struct {
	table   table.Model
	view    *stack.View
	rows    []model.ProcRow // latest Row Table, unfiltered
	total   int
	summary proc.Summary
	width   int
	height  int

	// cursorShown is set when the selected row is highlighted on screen.
	cursorShown bool

	// Filtering
	filterInput textinput.Model
	filterText  string
	mode        uiMode

	// Status messages
	statusText  string
	statusError bool

	// Kill confirmation
	pending    []int32
	pendingFor string

	ctl     Controller
	cfg     *config.Config
	cfgPath string

	webhookNames         []string
	selectedWebhookIndex int

	cpuInput          textinput.Model
	memInput          textinput.Model
	webhookNameInput  textinput.Model
	webhookURLInput   textinput.Model
	addingWebhookStep int
}

func NewModel(cfg *config.Config, cfgPath string, ctl Controller) Model {
	t := table.New(
		table.WithColumns(columns(model.Sorter{})),
		table.WithFocused(true),
		table.WithHeight(20),
	)
	t.SetStyles(tableStyles(false))

	st := stack.NewState()
	st.Stacked = cfg.Stacked
	st.Sorter = cfg.Sorter()
	st.VisibleRows = 20 - headerLines

	// Setup filter input
	ti := textinput.New()
	ti.Placeholder = "filter by name..."
	ti.CharLimit = model.NameLen - 1

	cpuInput := textinput.New()
	cpuInput.Placeholder = "CPU threshold %"
	cpuInput.CharLimit = 5
	cpuInput.SetValue(fmt.Sprintf("%.0f", cfg.CPUThreshold))

	memInput := textinput.New()
	memInput.Placeholder = "memory threshold MB"
	memInput.CharLimit = 8
	memInput.SetValue(fmt.Sprintf("%.0f", cfg.MemThresholdMB))

	webhookName := textinput.New()
	webhookName.Placeholder = "webhook name"

	webhookURL := textinput.New()
	webhookURL.Placeholder = "webhook URL"

	return Model{
		table:            t,
		view:             stack.NewView(st),
		filterInput:      ti,
		mode:             normalMode,
		ctl:              ctl,
		cfg:              cfg,
		cfgPath:          cfgPath,
		webhookNames:     webhookNames(cfg),
		cpuInput:         cpuInput,
		memInput:         memInput,
		webhookNameInput: webhookName,
		webhookURLInput:  webhookURL,
	}
}

func webhookNames(cfg *config.Config) []string {
	names := make([]string, 0, len(cfg.Webhooks))
	for name := range cfg.Webhooks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		readSummary,
		tea.EnterAltScreen,
	)
}

func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func readSummary() tea.Msg {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	return summaryMsg(proc.ReadSummary(ctx))
}

// SendData is called by the engine to push a new Row Table. rows must not
// be touched by the caller afterwards.
func SendData(p *tea.Program, rows []model.ProcRow, total int) {
	p.Send(dataMsg{rows: rows, total: total})
}
