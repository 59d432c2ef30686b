package ui

import (
	"fmt"
	"image"
	"strconv"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vskim/vskim/pkg/interval"
	"github.com/vskim/vskim/pkg/video"
)

type skimmerFocus int

const (
	focusSpin skimmerFocus = iota
	focusRange
)

// FrameSkimmer lets the user scrub through a clip by frame index. It keeps
// three views synchronized: the range slider, the frame spinbox, and the
// rendered preview of the current frame.
type FrameSkimmer struct {
	slider RangeSlider
	spin   textinput.Model

	clip    *video.Clip
	current int
	frame   image.Image

	// markers supplies the overlay for a given frame; nil means none.
	markers func(frame int) []Marker

	focus       skimmerFocus
	previewCols int
	previewRows int
	theme       Theme
	lastErr     error
}

// NewFrameSkimmer returns a skimmer with no video loaded.
func NewFrameSkimmer(theme Theme) FrameSkimmer {
	spin := textinput.New()
	spin.Prompt = ""
	spin.CharLimit = 10
	spin.Width = 8
	spin.Validate = validateIntText
	spin.SetValue("0")
	spin.Focus()

	return FrameSkimmer{
		slider:      NewRangeSlider(theme),
		spin:        spin,
		previewCols: 64,
		previewRows: 18,
		theme:       theme,
	}
}

// HasVideo reports whether a clip is loaded.
func (m *FrameSkimmer) HasVideo() bool { return m.clip != nil }

// Clip returns the loaded clip, or nil.
func (m *FrameSkimmer) Clip() *video.Clip { return m.clip }

// CurrentFrame returns the selected frame index.
func (m *FrameSkimmer) CurrentFrame() int { return m.current }

// FrameRange returns the frame range the user may currently access.
func (m *FrameSkimmer) FrameRange() interval.Interval { return m.slider.Range() }

// InFrameRange reports whether n is accessible right now.
func (m *FrameSkimmer) InFrameRange(n int) bool { return m.slider.Range().Contains(n) }

// SetMarkers installs the overlay supplier consulted on every preview
// refresh.
func (m *FrameSkimmer) SetMarkers(fn func(frame int) []Marker) { m.markers = fn }

// SetPreviewSize sets the preview pane size in terminal cells.
func (m *FrameSkimmer) SetPreviewSize(cols, rows int) {
	if cols > 0 {
		m.previewCols = cols
	}
	if rows > 0 {
		m.previewRows = rows
	}
	m.slider.SetWidth(m.previewCols)
}

// SetVideo opens the video at path and loads it into the skimmer.
func (m *FrameSkimmer) SetVideo(path string) error {
	clip, err := video.Open(path)
	if err != nil {
		return err
	}
	return m.SetClip(clip)
}

// SetClip loads an already-opened clip: bounds and frame range reset to the
// whole video and frame 0 is selected.
func (m *FrameSkimmer) SetClip(clip *video.Clip) error {
	if m.clip != nil {
		m.clip.Close()
	}
	m.clip = clip
	if _, err := m.slider.SetRangeBounds(0, clip.LargestFrame()); err != nil {
		return err
	}
	if err := m.SetFrameRange(nil, nil); err != nil {
		return err
	}
	return m.SetFrame(0)
}

// SetFrameRange restricts which frames the skimmer will display. nil start
// means 0, nil stop means the last frame. Ranges reaching outside the video
// are an error.
func (m *FrameSkimmer) SetFrameRange(start, stop *int) error {
	if m.clip == nil {
		return fmt.Errorf("ui: no video loaded")
	}
	lo, hi := 0, m.clip.LargestFrame()
	if start != nil {
		lo = *start
	}
	if stop != nil {
		hi = *stop
	}
	want, err := interval.New(lo, hi)
	if err != nil {
		return err
	}
	if _, err := m.slider.SetRange(want.Min(), want.Max()); err != nil {
		return err
	}
	// The new range may have stranded the current frame; pull it back in.
	if !m.InFrameRange(m.current) {
		return m.SetFrame(m.current)
	}
	return nil
}

// frameOptions collects the SetFrame call variants.
type frameOptions struct {
	strict    bool
	noPreview bool
}

// FrameOption configures a SetFrame call.
type FrameOption func(*frameOptions)

// Strict makes out-of-range frame requests fail instead of clamping to the
// nearest accessible frame.
func Strict() FrameOption {
	return func(o *frameOptions) { o.strict = true }
}

// WithoutPreview skips the immediate preview refresh; the displayed frame
// stays stale until UpdatePreview is called.
func WithoutPreview() FrameOption {
	return func(o *frameOptions) { o.noPreview = true }
}

// SetFrame selects frame n. Without a loaded video it is a no-op. By
// default out-of-range requests clamp to the nearest end of the frame
// range; with Strict they fail.
func (m *FrameSkimmer) SetFrame(n int, opts ...FrameOption) error {
	if m.clip == nil {
		return nil
	}
	var o frameOptions
	for _, opt := range opts {
		opt(&o)
	}

	r := m.slider.Range()
	if !r.Contains(n) {
		if o.strict {
			return fmt.Errorf("%w: frame %d not in %v", ErrOutOfBounds, n, r)
		}
		n = r.Clamp(n)
	}

	m.current = n
	m.spin.SetValue(strconv.Itoa(n))
	m.slider.SetValue(n)

	if o.noPreview {
		return nil
	}
	return m.UpdatePreview()
}

// NextFrame advances one frame; at the top of the frame range it is a
// no-op, the expected terminal condition of playback, not an error.
func (m *FrameSkimmer) NextFrame() error {
	if m.clip == nil || !m.InFrameRange(m.current+1) {
		return nil
	}
	return m.SetFrame(m.current + 1)
}

// PrevFrame retreats one frame; a no-op at the bottom of the frame range.
func (m *FrameSkimmer) PrevFrame() error {
	if m.clip == nil || !m.InFrameRange(m.current-1) {
		return nil
	}
	return m.SetFrame(m.current - 1)
}

// UpdatePreview decodes the current frame and refreshes the preview pane.
func (m *FrameSkimmer) UpdatePreview() error {
	if m.clip == nil {
		return nil
	}
	img, err := m.clip.Frame(m.current)
	if err != nil {
		return err
	}
	m.frame = img
	return nil
}

// writeClipboard is swapped out by tests.
var writeClipboard = clipboard.WriteAll

// copyFrameRef puts "path#frame" on the system clipboard.
func (m *FrameSkimmer) copyFrameRef() error {
	if m.clip == nil {
		return nil
	}
	return writeClipboard(fmt.Sprintf("%s#%d", m.clip.Path(), m.current))
}

// commitSpin applies a finished spinbox edit, reverting malformed text.
func (m *FrameSkimmer) commitSpin() tea.Cmd {
	v, err := strconv.Atoi(m.spin.Value())
	if err != nil {
		m.spin.SetValue(strconv.Itoa(m.current))
		return nil
	}
	return m.selectFrame(v)
}

// selectFrame routes a user frame choice through SetFrame and reports the
// change upward.
func (m *FrameSkimmer) selectFrame(n int) tea.Cmd {
	if err := m.SetFrame(n); err != nil {
		m.lastErr = err
		return nil
	}
	m.lastErr = nil
	frame := m.current
	return func() tea.Msg { return FrameChangedMsg{Frame: frame} }
}

func (m *FrameSkimmer) cycleFocus(dir int) tea.Cmd {
	if m.focus == focusSpin {
		cmd := m.commitSpin()
		m.spin.Blur()
		m.focus = focusRange
		if dir > 0 {
			m.slider.Focus()
		} else {
			m.slider.FocusLast()
		}
		return cmd
	}
	cmd, ok := m.slider.CycleFocus(dir)
	if !ok {
		m.slider.Blur()
		m.focus = focusSpin
		m.spin.Focus()
	}
	return cmd
}

// Update implements the bubbles update convention.
func (m FrameSkimmer) Update(msg tea.Msg) (FrameSkimmer, tea.Cmd) {
	switch msg := msg.(type) {
	case RangeChangedMsg:
		// The accessible range moved; keep the current frame inside it.
		if m.clip != nil && !m.InFrameRange(m.current) {
			return m, m.selectFrame(m.current)
		}
		return m, nil

	case SliderValueMsg:
		// Slider drives the spinbox, never the other way around mid-drag.
		return m, m.selectFrame(msg.Value)

	case tea.KeyMsg:
		switch msg.String() {
		case "tab":
			return m, m.cycleFocus(1)
		case "shift+tab":
			return m, m.cycleFocus(-1)
		case "up", "k":
			if err := m.NextFrame(); err != nil {
				m.lastErr = err
			}
			return m, nil
		case "down", "j":
			if err := m.PrevFrame(); err != nil {
				m.lastErr = err
			}
			return m, nil
		case "pgup":
			return m, m.selectFrame(m.current + 10)
		case "pgdown":
			return m, m.selectFrame(m.current - 10)
		case "y":
			// Only the slider track; a "y" typed into a text field is
			// field input, not the copy shortcut.
			if m.focus == focusRange && m.slider.onTrack() {
				m.lastErr = m.copyFrameRef()
				return m, nil
			}
		case "enter":
			if m.focus == focusSpin {
				return m, m.commitSpin()
			}
		}
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	if m.focus == focusSpin {
		m.spin, cmd = m.spin.Update(msg)
		cmds = append(cmds, cmd)
	}
	m.slider, cmd = m.slider.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// View renders the preview pane over the counter, spinbox and slider.
func (m FrameSkimmer) View() string {
	t := m.theme

	var preview string
	if m.frame != nil {
		var markers []Marker
		if m.markers != nil {
			markers = m.markers(m.current)
		}
		preview = RenderFrame(t, m.frame, m.previewCols, m.previewRows, markers)
	} else {
		preview = t.Renderer.NewStyle().
			Foreground(t.Subtext).
			Width(m.previewCols).
			Height(m.previewRows).
			Align(lipgloss.Center, lipgloss.Center).
			Render("no video loaded")
	}
	pane := t.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Render(preview)

	counter := ""
	if m.clip != nil {
		counter = t.Renderer.NewStyle().Foreground(t.Subtext).
			Render(fmt.Sprintf("frame %d / %d", m.current, m.clip.LargestFrame()))
	}

	controls := lipgloss.JoinHorizontal(lipgloss.Center, m.spin.View(), " ", m.slider.View())

	parts := []string{pane, counter, controls}
	if m.lastErr != nil {
		parts = append(parts, t.Renderer.NewStyle().Foreground(t.Danger).Render(m.lastErr.Error()))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
