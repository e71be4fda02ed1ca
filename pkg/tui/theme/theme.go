package theme

import "github.com/charmbracelet/lipgloss/v2"

// Theme centralizes Lip Gloss styles for the Bubble Tea UI.
type Theme struct {
	Footer  FooterTheme
	Panel   PanelTheme
	Picker  PickerTheme
	Gallery GalleryTheme
}

// FooterTheme groups styles used by the bottom status and help bar.
type FooterTheme struct {
	Help   lipgloss.Style
	Status lipgloss.Style
	Error  lipgloss.Style
	Prompt lipgloss.Style
}

// PanelTheme styles framed panes and their headings.
type PanelTheme struct {
	Frame        lipgloss.Style
	FocusedFrame lipgloss.Style
	Title        lipgloss.Style
}

// PickerTheme styles the token picker pane.
type PickerTheme struct {
	Group    lipgloss.Style
	Token    lipgloss.Style
	Selected lipgloss.Style
	Empty    lipgloss.Style
}

// GalleryTheme styles the collection pane.
type GalleryTheme struct {
	Section       lipgloss.Style
	ActiveSection lipgloss.Style
	Detail        lipgloss.Style
	Token         lipgloss.Style
	Whitespace    lipgloss.Style
	Cursor        lipgloss.Style
}

// Default returns the built-in theme used across the UI.
func Default() Theme {
	frame := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	return Theme{
		Footer: FooterTheme{
			Help:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			Status: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
			Error:  lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
			Prompt: lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true),
		},
		Panel: PanelTheme{
			Frame:        frame,
			FocusedFrame: frame.BorderForeground(lipgloss.Color("212")),
			Title:        lipgloss.NewStyle().Bold(true),
		},
		Picker: PickerTheme{
			Group:    lipgloss.NewStyle().Bold(true),
			Token:    lipgloss.NewStyle(),
			Selected: lipgloss.NewStyle().Reverse(true),
			Empty:    lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("244")),
		},
		Gallery: GalleryTheme{
			Section:       lipgloss.NewStyle().Bold(true),
			ActiveSection: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("213")),
			Detail:        lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
			Token:         lipgloss.NewStyle().Foreground(lipgloss.Color("255")),
			Whitespace:    lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
			Cursor:        lipgloss.NewStyle().Reverse(true),
		},
	}
}
