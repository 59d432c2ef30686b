// Package ui contains the skimmer's terminal widgets: the range-bounded
// slider, the frame navigator built on top of it, the keypoint label
// selector, and the frame preview renderer. Widgets follow the bubbles
// convention: value structs with Update returning the next model, setters
// on pointer receivers.
package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/vskim/vskim/pkg/keypoints"
)

// Theme carries the renderer and palette shared by every widget.
type Theme struct {
	Renderer *lipgloss.Renderer

	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Text      lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor
	Border    lipgloss.AdaptiveColor
	Accent    lipgloss.AdaptiveColor
	Warning   lipgloss.AdaptiveColor
	Danger    lipgloss.AdaptiveColor
}

// DefaultTheme returns the standard palette bound to r.
func DefaultTheme(r *lipgloss.Renderer) Theme {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	return Theme{
		Renderer:  r,
		Primary:   lipgloss.AdaptiveColor{Light: "#7D56F4", Dark: "#BD93F9"},
		Secondary: lipgloss.AdaptiveColor{Light: "#5A5A8F", Dark: "#6272A4"},
		Text:      lipgloss.AdaptiveColor{Light: "#1A1A2E", Dark: "#F8F8F2"},
		Subtext:   lipgloss.AdaptiveColor{Light: "#6E6E8F", Dark: "#BFBFBF"},
		Border:    lipgloss.AdaptiveColor{Light: "#D0D0E0", Dark: "#44475A"},
		Accent:    lipgloss.AdaptiveColor{Light: "#0E8A8A", Dark: "#8BE9FD"},
		Warning:   lipgloss.AdaptiveColor{Light: "#B8860B", Dark: "#FFB86C"},
		Danger:    lipgloss.AdaptiveColor{Light: "#C0392B", Dark: "#FF5555"},
	}
}

// ══════════════════════════════════════════════════════════════════════════
// MESSAGES - Widget notifications flowing up the model tree
// ══════════════════════════════════════════════════════════════════════════

// RangeChangedMsg announces that a slider's current range was replaced.
// It carries no payload; interested models re-read the slider's Range and
// RangeBounds accessors.
type RangeChangedMsg struct{}

// SliderValueMsg announces a new slider position.
type SliderValueMsg struct{ Value int }

// FrameChangedMsg announces that the navigator selected a new frame.
type FrameChangedMsg struct{ Frame int }

// KeypointSelectedMsg announces a selection made in the label selector.
type KeypointSelectedMsg struct{ Label, ID string }

// TableReloadedMsg announces that the annotation table backing file changed
// on disk and was reloaded.
type TableReloadedMsg struct {
	Table *keypoints.Table
	Err   error
}
