package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorAccent = lipgloss.Color("#E07A5F")
	colorText   = lipgloss.Color("#FFFFFF")
	colorDim    = lipgloss.Color("#6B7280")
	colorOK     = lipgloss.Color("#10B981")
	colorInfo   = lipgloss.Color("#60A5FA")
	colorError  = lipgloss.Color("#EF4444")
)

const (
	labelWidth    = 16
	panelChrome   = 4 // border and padding of panelStyle
	minInputWidth = 10
	maxInputWidth = 40
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Underline(true)

	tabStyle       = lipgloss.NewStyle().Foreground(colorDim).Padding(0, 1)
	activeTabStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Padding(0, 1)

	itemStyle     = lipgloss.NewStyle().Foreground(colorText)
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	dimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	labelStyle    = lipgloss.NewStyle().Foreground(colorDim).Width(labelWidth)

	successStyle = lipgloss.NewStyle().Foreground(colorOK)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError).Bold(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(0, 1)

	toastStyles = map[toastKind]lipgloss.Style{
		toastInfo:    lipgloss.NewStyle().Foreground(colorInfo),
		toastSuccess: lipgloss.NewStyle().Foreground(colorOK),
		toastError:   lipgloss.NewStyle().Foreground(colorError),
	}
)

func cursor(on bool) string {
	if on {
		return selectedStyle.Render("› ")
	}
	return "  "
}
