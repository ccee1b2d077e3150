// Package outliner is the interactive scene tree: it builds treeview rows
// from loaded scenes and renders them as a bubbletea panel.
package outliner

import "github.com/charmbracelet/lipgloss"

// Theme bundles the renderer and the colors the outliner draws with.
type Theme struct {
	Renderer *lipgloss.Renderer

	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Muted     lipgloss.Color
	Highlight lipgloss.Color
	Danger    lipgloss.Color

	// Selected styles the active row.
	Selected lipgloss.Style

	// Header and Footer style the chrome above and below the tree.
	Header lipgloss.Style
	Footer lipgloss.Style
}

// DefaultTheme returns the standard dark palette bound to the given
// renderer.
func DefaultTheme(r *lipgloss.Renderer) Theme {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}

	primary := lipgloss.Color("#BD93F9")
	secondary := lipgloss.Color("#8BE9FD")
	muted := lipgloss.Color("#6272A4")
	highlight := lipgloss.Color("#F1FA8C")
	danger := lipgloss.Color("#FF5555")

	return Theme{
		Renderer:  r,
		Primary:   primary,
		Secondary: secondary,
		Muted:     muted,
		Highlight: highlight,
		Danger:    danger,

		Selected: r.NewStyle().
			Foreground(lipgloss.Color("#F8F8F2")).
			Background(lipgloss.Color("#44475A")).
			Bold(true),

		Header: r.NewStyle().
			Foreground(primary).
			Bold(true),

		Footer: r.NewStyle().
			Foreground(muted),
	}
}
