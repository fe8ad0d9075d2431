package ui

import "github.com/charmbracelet/lipgloss"

var (
	accent = lipgloss.Color("63")
	muted  = lipgloss.Color("244")
)

// Screen frame
var (
	tableFrameStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(muted)

	summaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("117"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("231")).
			Bold(true).
			Padding(0, 1)

	titleBarStyle = lipgloss.NewStyle().
			Background(accent).
			Bold(true).
			Align(lipgloss.Center)

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("117")).
			Bold(true)
)

// Rows. Hot is at or above the configured CPU threshold, warm at or above
// half of it; group headers that stand for several processes are bold.
var (
	hotCPUStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	warmCPUStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	groupStyle   = lipgloss.NewStyle().Bold(true)
)

// Status line and prompts
var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))

	confirmStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true).
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(lipgloss.Color("203")).
			Padding(0, 2)
)

// Key hints
var (
	sortedColumnStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("78")).
				Underline(true)

	helpBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1)

	keybindStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("219"))
	keybindDescStyle = lipgloss.NewStyle().Foreground(muted)
)
