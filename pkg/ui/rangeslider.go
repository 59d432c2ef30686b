package ui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vskim/vskim/pkg/interval"
)

// ErrOutOfBounds is returned when a requested range does not fit inside the
// slider's range bounds.
var ErrOutOfBounds = errors.New("ui: range outside bounds")

type sliderFocus int

const (
	focusMinField sliderFocus = iota
	focusSlider
	focusMaxField

	numSliderFocus
)

// RangeSlider presents an editable, boundable integer range: a slider
// flanked by two numeric fields for the range's low and high ends. The
// current range always nests inside the outer range bounds; every edit is
// validated against both before it commits, and invalid field edits revert
// silently to the last good value.
type RangeSlider struct {
	current interval.Interval
	bounds  interval.Interval
	value   int

	minField textinput.Model
	maxField textinput.Model
	focus    sliderFocus
	focused  bool

	width int
	theme Theme
}

// validateIntText accepts well-formed optionally-signed decimal integers
// plus the empty and sign-only intermediate states reached while typing.
func validateIntText(s string) error {
	if s == "" || s == "+" || s == "-" {
		return nil
	}
	rest := strings.TrimPrefix(strings.TrimPrefix(s, "+"), "-")
	if rest == "" {
		return fmt.Errorf("incomplete number")
	}
	for _, r := range rest {
		if r < '0' || r > '9' {
			return fmt.Errorf("not an integer: %q", s)
		}
	}
	return nil
}

func newBoundField(theme Theme) textinput.Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 10
	ti.Width = 6
	ti.Validate = validateIntText
	ti.SetValue("0")
	ti.TextStyle = theme.Renderer.NewStyle().Foreground(theme.Text)
	return ti
}

// NewRangeSlider returns a slider over the degenerate range [0, 0].
func NewRangeSlider(theme Theme) RangeSlider {
	return RangeSlider{
		minField: newBoundField(theme),
		maxField: newBoundField(theme),
		focus:    focusSlider,
		width:    40,
		theme:    theme,
	}
}

// Range returns a copy of the current range.
func (m RangeSlider) Range() interval.Interval { return m.current }

// RangeBounds returns a copy of the outer bounds.
func (m RangeSlider) RangeBounds() interval.Interval { return m.bounds }

// Value returns the slider position.
func (m RangeSlider) Value() int { return m.value }

// SetValue moves the slider position, clamped into the current range.
func (m *RangeSlider) SetValue(v int) {
	m.value = m.current.Clamp(v)
}

// SetWidth sets the total rendered width.
func (m *RangeSlider) SetWidth(w int) {
	if w < 16 {
		w = 16
	}
	m.width = w
}

// Focus marks the widget as receiving key input, starting at the low field.
func (m *RangeSlider) Focus() {
	m.focused = true
	m.focus = focusMinField
	m.applyFocus()
}

// FocusLast is Focus but starting at the high field, for parents cycling
// focus backwards into the widget.
func (m *RangeSlider) FocusLast() {
	m.focused = true
	m.focus = focusMaxField
	m.applyFocus()
}

// CycleFocus moves the internal focus one stop in dir (+1 or -1), committing
// any pending field edit first. It reports false when focus would walk off
// the widget's edge, so the parent can move focus onward; the widget stays
// focused in that case and the parent is expected to Blur it.
func (m *RangeSlider) CycleFocus(dir int) (tea.Cmd, bool) {
	cmd := m.commitFocusedField()
	next := m.focus + sliderFocus(dir)
	if next < 0 || next >= numSliderFocus {
		return cmd, false
	}
	m.focus = next
	m.applyFocus()
	return cmd, true
}

// Blur commits any pending field edit and stops receiving key input.
func (m *RangeSlider) Blur() tea.Cmd {
	cmd := m.commitFocusedField()
	m.focused = false
	m.minField.Blur()
	m.maxField.Blur()
	return cmd
}

// Focused reports whether the widget receives key input.
func (m RangeSlider) Focused() bool { return m.focused }

// onTrack reports whether focus sits on the slider track rather than one of
// the bound fields.
func (m RangeSlider) onTrack() bool { return m.focused && m.focus == focusSlider }

// rangeOptions collects the SetRange call variants.
type rangeOptions struct {
	stretch bool
	silent  bool
}

// RangeOption configures a SetRange call.
type RangeOption func(*rangeOptions)

// WithStretchBounds widens the range bounds as needed so the requested
// range always fits.
func WithStretchBounds() RangeOption {
	return func(o *rangeOptions) { o.stretch = true }
}

// WithoutNotify suppresses the RangeChangedMsg, for batch callers that
// will notify once themselves.
func WithoutNotify() RangeOption {
	return func(o *rangeOptions) { o.silent = true }
}

// SetRange replaces the current range. Without WithStretchBounds the
// request must nest inside the existing bounds; with it, the bounds are
// normalized outward first and the request is accepted unconditionally.
func (m *RangeSlider) SetRange(lo, hi int, opts ...RangeOption) (tea.Cmd, error) {
	var o rangeOptions
	for _, opt := range opts {
		opt(&o)
	}

	candidate, err := interval.New(lo, hi)
	if err != nil {
		return nil, err
	}

	if o.stretch {
		m.bounds.Normalize(candidate)
	} else if !m.bounds.ContainsInterval(candidate) {
		return nil, fmt.Errorf("%w: requested %v, bounds %v", ErrOutOfBounds, candidate, m.bounds)
	}

	m.current = candidate
	m.refreshViews()
	if o.silent {
		return nil, nil
	}
	return notifyRangeChanged, nil
}

// SetRangeBounds replaces the outer bounds. The current range is re-fitted
// by clamping it into the new bounds; when the two are disjoint the
// current range takes the new bounds' full extent. Unchanged bounds are a
// no-op.
func (m *RangeSlider) SetRangeBounds(lo, hi int) (tea.Cmd, error) {
	next, err := interval.New(lo, hi)
	if err != nil {
		return nil, err
	}
	if next == m.bounds {
		return nil, nil
	}
	m.bounds = next

	if m.current.Max() < next.Min() || m.current.Min() > next.Max() {
		// Disjoint: nothing of the old range survives, take the full extent.
		m.current = next
	} else if err := m.current.Set(next.Clamp(m.current.Min()), next.Clamp(m.current.Max())); err != nil {
		return nil, err
	}
	m.refreshViews()
	return notifyRangeChanged, nil
}

func notifyRangeChanged() tea.Msg { return RangeChangedMsg{} }

// refreshViews re-synchronizes the two fields and the slider position with
// the current range. Every mutator ends here.
func (m *RangeSlider) refreshViews() {
	m.minField.SetValue(strconv.Itoa(m.current.Min()))
	m.maxField.SetValue(strconv.Itoa(m.current.Max()))
	m.value = m.current.Clamp(m.value)
}

// commitMinField applies a finished edit of the low field. Candidates that
// cross the current max or escape the bounds revert the field instead of
// erroring: these are UX corrections, not failures.
func (m *RangeSlider) commitMinField() tea.Cmd {
	v, err := strconv.Atoi(m.minField.Value())
	if err != nil || v > m.current.Max() || !m.bounds.Contains(v) {
		m.minField.SetValue(strconv.Itoa(m.current.Min()))
		return nil
	}
	if v == m.current.Min() {
		return nil
	}
	if err := m.current.SetMin(v); err != nil {
		m.minField.SetValue(strconv.Itoa(m.current.Min()))
		return nil
	}
	m.refreshViews()
	return notifyRangeChanged
}

func (m *RangeSlider) commitMaxField() tea.Cmd {
	v, err := strconv.Atoi(m.maxField.Value())
	if err != nil || v < m.current.Min() || !m.bounds.Contains(v) {
		m.maxField.SetValue(strconv.Itoa(m.current.Max()))
		return nil
	}
	if v == m.current.Max() {
		return nil
	}
	if err := m.current.SetMax(v); err != nil {
		m.maxField.SetValue(strconv.Itoa(m.current.Max()))
		return nil
	}
	m.refreshViews()
	return notifyRangeChanged
}

func (m *RangeSlider) commitFocusedField() tea.Cmd {
	switch m.focus {
	case focusMinField:
		return m.commitMinField()
	case focusMaxField:
		return m.commitMaxField()
	}
	return nil
}

func (m *RangeSlider) applyFocus() {
	m.minField.Blur()
	m.maxField.Blur()
	if !m.focused {
		return
	}
	switch m.focus {
	case focusMinField:
		m.minField.Focus()
	case focusMaxField:
		m.maxField.Focus()
	}
}

func (m *RangeSlider) moveValue(delta int) tea.Cmd {
	next := m.current.Clamp(m.value + delta)
	if next == m.value {
		return nil
	}
	m.value = next
	v := next
	return func() tea.Msg { return SliderValueMsg{Value: v} }
}

// Update implements the bubbles update convention.
func (m RangeSlider) Update(msg tea.Msg) (RangeSlider, tea.Cmd) {
	if !m.focused {
		return m, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m.updateFields(msg)
	}

	if keyMsg.String() == "enter" {
		return m, m.commitFocusedField()
	}

	if m.focus == focusSlider {
		switch keyMsg.String() {
		case "left", "h":
			return m, m.moveValue(-1)
		case "right", "l":
			return m, m.moveValue(1)
		case "home":
			return m, m.moveValue(m.current.Min() - m.value)
		case "end":
			return m, m.moveValue(m.current.Max() - m.value)
		}
		return m, nil
	}

	return m.updateFields(msg)
}

func (m RangeSlider) updateFields(msg tea.Msg) (RangeSlider, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.minField, cmd = m.minField.Update(msg)
	cmds = append(cmds, cmd)
	m.maxField, cmd = m.maxField.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// View renders `min ──━━█━━── max`.
func (m RangeSlider) View() string {
	t := m.theme
	trackWidth := m.width - lipgloss.Width(m.minField.View()) - lipgloss.Width(m.maxField.View()) - 2
	if trackWidth < 4 {
		trackWidth = 4
	}

	span := m.current.Span()
	pos := 0
	if span > 1 {
		pos = (m.value - m.current.Min()) * (trackWidth - 1) / (span - 1)
	}

	trackStyle := t.Renderer.NewStyle().Foreground(t.Border)
	thumbColor := t.Secondary
	if m.focused && m.focus == focusSlider {
		thumbColor = t.Primary
	}
	thumbStyle := t.Renderer.NewStyle().Foreground(thumbColor).Bold(true)

	var track strings.Builder
	for i := 0; i < trackWidth; i++ {
		if i == pos {
			track.WriteString(thumbStyle.Render("█"))
		} else {
			track.WriteString(trackStyle.Render("─"))
		}
	}

	return m.minField.View() + " " + track.String() + " " + m.maxField.View()
}
