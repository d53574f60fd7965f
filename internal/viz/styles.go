package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2).
			Width(46)
	headerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	activeParamStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	activePointStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	graphStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)

	supersonicStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	subsonicStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
)

// opacityBar renders a marker's remaining lifetime as a filled bar.
func opacityBar(opacity float64, width int) string {
	filled := int(opacity * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// tuneBar renders a parameter value on a scale of zero to twice its
// initial value, so the midpoint marks the starting setting.
func tuneBar(val, initial float64, width int) string {
	if initial == 0 {
		initial = 1e-6
	}
	ratio := val / (2 * initial)
	if ratio > 1 {
		ratio = 1
	} else if ratio < 0 {
		ratio = 0
	}
	filled := int(ratio * float64(width))
	return "[" + strings.Repeat("=", filled) + strings.Repeat("-", width-filled) + "]"
}
