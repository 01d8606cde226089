package output

import "github.com/charmbracelet/lipgloss"

// Palette.
var (
	colorPrimary = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7571F9"}
	colorSuccess = lipgloss.AdaptiveColor{Light: "#02BA84", Dark: "#02BF87"}
	colorWarning = lipgloss.AdaptiveColor{Light: "#D08700", Dark: "#F5A623"}
	colorError   = lipgloss.AdaptiveColor{Light: "#E0245E", Dark: "#FF5F87"}
	colorInfo    = lipgloss.AdaptiveColor{Light: "#0077B6", Dark: "#48CAE4"}
	colorMuted   = lipgloss.AdaptiveColor{Light: "#8A8A8A", Dark: "#6C6C6C"}
)

// Styles holds the lipgloss styles used by the renderer and commands.
type Styles struct {
	Header1 lipgloss.Style
	Header2 lipgloss.Style
	Bold    lipgloss.Style
	Muted   lipgloss.Style

	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style

	StatusSuccess lipgloss.Style
	StatusFailed  lipgloss.Style

	RulePath lipgloss.Style
	FilePath lipgloss.Style
}

// NewStyles builds styles bound to a lipgloss renderer, so the color
// profile of the output stream is respected.
func NewStyles(r *lipgloss.Renderer) *Styles {
	return &Styles{
		Header1: r.NewStyle().Bold(true).Foreground(colorPrimary).MarginBottom(1),
		Header2: r.NewStyle().Bold(true).Foreground(colorPrimary),
		Bold:    r.NewStyle().Bold(true),
		Muted:   r.NewStyle().Foreground(colorMuted),

		Success: r.NewStyle().Foreground(colorSuccess),
		Warning: r.NewStyle().Foreground(colorWarning),
		Error:   r.NewStyle().Foreground(colorError).Bold(true),
		Info:    r.NewStyle().Foreground(colorInfo),

		StatusSuccess: r.NewStyle().Foreground(colorSuccess).Bold(true),
		StatusFailed:  r.NewStyle().Foreground(colorError).Bold(true),

		RulePath: r.NewStyle().Foreground(colorInfo),
		FilePath: r.NewStyle().Underline(true),
	}
}
