package console

import "github.com/charmbracelet/lipgloss"

// Theme defines the colours of the console transcript.
type Theme struct {
	Agent    lipgloss.Color
	Customer lipgloss.Color
	System   lipgloss.Color
	On       lipgloss.Color
	Off      lipgloss.Color
	Accent   lipgloss.Color
	Muted    lipgloss.Color
}

func DefaultTheme() Theme {
	return Theme{
		Agent:    lipgloss.Color("#6E56CF"),
		Customer: lipgloss.Color("#30A46C"),
		System:   lipgloss.Color("#889096"),
		On:       lipgloss.Color("10"),
		Off:      lipgloss.Color("9"),
		Accent:   lipgloss.Color("#E5A836"),
		Muted:    lipgloss.Color("240"),
	}
}

type Styles struct {
	Agent    lipgloss.Style
	Customer lipgloss.Style
	System   lipgloss.Style
	Badge    lipgloss.Style
	On       lipgloss.Style
	Off      lipgloss.Style
	Tag      lipgloss.Style
	Muted    lipgloss.Style
	Panel    lipgloss.Style
	Title    lipgloss.Style
}

func NewStyles(t Theme) Styles {
	return Styles{
		Agent:    lipgloss.NewStyle().Foreground(t.Agent).Bold(true),
		Customer: lipgloss.NewStyle().Foreground(t.Customer).Bold(true),
		System:   lipgloss.NewStyle().Foreground(t.System).Italic(true),
		Badge:    lipgloss.NewStyle().Bold(true).Padding(0, 1),
		On:       lipgloss.NewStyle().Foreground(t.On).Bold(true),
		Off:      lipgloss.NewStyle().Foreground(t.Off).Bold(true),
		Tag:      lipgloss.NewStyle().Foreground(t.Accent),
		Muted:    lipgloss.NewStyle().Foreground(t.Muted),
		Panel:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(t.Muted).Padding(0, 1),
		Title:    lipgloss.NewStyle().Foreground(t.Agent).Bold(true).Underline(true),
	}
}
