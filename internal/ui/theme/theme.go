package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/dori/taskhive/internal/model"
)

// Theme defines the color scheme for terminal output
type Theme struct {
	Name string

	// Base colors
	Foreground lipgloss.Color
	Subtle     lipgloss.Color
	Highlight  lipgloss.Color
	Border     lipgloss.Color

	// Semantic colors
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
	Info      lipgloss.Color

	// Priority colors
	PriorityLow    lipgloss.Color
	PriorityMedium lipgloss.Color
	PriorityHigh   lipgloss.Color
}

// Light mirrors the light palette: gray text on white, blue accents
var Light = Theme{
	Name: "light",

	Foreground: lipgloss.Color("#111827"), // gray-900
	Subtle:     lipgloss.Color("#6B7280"), // gray-500
	Highlight:  lipgloss.Color("#EFF6FF"), // blue-50
	Border:     lipgloss.Color("#E5E7EB"), // gray-200

	Primary:   lipgloss.Color("#2563EB"), // blue-600
	Secondary: lipgloss.Color("#7C3AED"), // violet-600
	Success:   lipgloss.Color("#16A34A"),
	Warning:   lipgloss.Color("#CA8A04"),
	Error:     lipgloss.Color("#DC2626"),
	Info:      lipgloss.Color("#0D9488"), // teal-600

	PriorityLow:    lipgloss.Color("#16A34A"),
	PriorityMedium: lipgloss.Color("#CA8A04"),
	PriorityHigh:   lipgloss.Color("#DC2626"),
}

// Dark is the palette used when dark mode is on
var Dark = Theme{
	Name: "dark",

	Foreground: lipgloss.Color("#F9FAFB"), // gray-50
	Subtle:     lipgloss.Color("#9CA3AF"), // gray-400
	Highlight:  lipgloss.Color("#1F2937"), // gray-800
	Border:     lipgloss.Color("#374151"), // gray-700

	Primary:   lipgloss.Color("#60A5FA"), // blue-400
	Secondary: lipgloss.Color("#A78BFA"), // violet-400
	Success:   lipgloss.Color("#4ADE80"),
	Warning:   lipgloss.Color("#FACC15"),
	Error:     lipgloss.Color("#F87171"),
	Info:      lipgloss.Color("#2DD4BF"), // teal-400

	PriorityLow:    lipgloss.Color("#4ADE80"),
	PriorityMedium: lipgloss.Color("#FACC15"),
	PriorityHigh:   lipgloss.Color("#F87171"),
}

// For returns the palette for the dark mode flag
func For(dark bool) Theme {
	if dark {
		return Dark
	}
	return Light
}

// Available returns all available themes
func Available() []Theme {
	return []Theme{Light, Dark}
}

// ByName returns a theme by its name
func ByName(name string) (Theme, bool) {
	for _, t := range Available() {
		if t.Name == name {
			return t, true
		}
	}
	return Theme{}, false
}

// PriorityColor returns the color for a priority
func (t Theme) PriorityColor(p model.Priority) lipgloss.Color {
	switch p {
	case model.PriorityHigh:
		return t.PriorityHigh
	case model.PriorityMedium:
		return t.PriorityMedium
	default:
		return t.PriorityLow
	}
}

// Styles holds pre-computed lipgloss styles based on theme
type Styles struct {
	Theme Theme

	Header lipgloss.Style
	Footer lipgloss.Style

	// Task styles
	TaskNormal  lipgloss.Style
	TaskDone    lipgloss.Style
	TaskOverdue lipgloss.Style

	// Component styles
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Label    lipgloss.Style
	Tag      lipgloss.Style
	DueDate  lipgloss.Style
	ID       lipgloss.Style

	// Panel styles
	Panel      lipgloss.Style
	PanelTitle lipgloss.Style

	// Calendar cells
	DayInMonth  lipgloss.Style
	DayOutside  lipgloss.Style
	DayToday    lipgloss.Style
	DayWithTask lipgloss.Style

	// Messages
	Success lipgloss.Style
	Error   lipgloss.Style
}

// NewStyles creates styles from a theme
func NewStyles(t Theme) Styles {
	return Styles{
		Theme: t,

		Header: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		Footer: lipgloss.NewStyle().
			Foreground(t.Subtle),

		TaskNormal: lipgloss.NewStyle().
			Foreground(t.Foreground),

		TaskDone: lipgloss.NewStyle().
			Foreground(t.Subtle).
			Strikethrough(true),

		TaskOverdue: lipgloss.NewStyle().
			Foreground(t.Error),

		Title: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true).
			MarginBottom(1),

		Subtitle: lipgloss.NewStyle().
			Foreground(t.Secondary).
			Italic(true),

		Label: lipgloss.NewStyle().
			Foreground(t.Subtle),

		Tag: lipgloss.NewStyle().
			Foreground(t.Info).
			Background(t.Highlight).
			Padding(0, 1).
			MarginRight(1),

		DueDate: lipgloss.NewStyle().
			Foreground(t.Warning),

		ID: lipgloss.NewStyle().
			Foreground(t.Subtle),

		Panel: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),

		PanelTitle: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		DayInMonth: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Width(5).
			Align(lipgloss.Right),

		DayOutside: lipgloss.NewStyle().
			Foreground(t.Subtle).
			Width(5).
			Align(lipgloss.Right),

		DayToday: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true).
			Underline(true).
			Width(5).
			Align(lipgloss.Right),

		DayWithTask: lipgloss.NewStyle().
			Foreground(t.Warning).
			Bold(true).
			Width(5).
			Align(lipgloss.Right),

		Success: lipgloss.NewStyle().
			Foreground(t.Success),

		Error: lipgloss.NewStyle().
			Foreground(t.Error).
			Bold(true),
	}
}

// Priority renders a priority badge
func (s Styles) Priority(p model.Priority) string {
	return lipgloss.NewStyle().
		Foreground(s.Theme.PriorityColor(p)).
		Bold(true).
		Render(string(p))
}
