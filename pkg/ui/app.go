package ui

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vskim/vskim/pkg/keypoints"
)

// Model is the top-level application model: the frame skimmer plus the
// keypoint session state and the selector overlay.
type Model struct {
	skimmer  FrameSkimmer
	selector *LabelSelector

	store *keypoints.Store
	table *keypoints.Table
	mode  keypoints.LabelMode

	colors map[keypoints.Pair]Marker

	width    int
	height   int
	showHelp bool
	theme    Theme
}

// NewModel assembles the application. table and store may be nil when no
// annotation data was given; the skimmer then runs without overlays.
func NewModel(table *keypoints.Table, store *keypoints.Store, theme Theme) Model {
	m := Model{
		skimmer: NewFrameSkimmer(theme),
		store:   store,
		mode:    keypoints.DefaultLabelMode(),
		theme:   theme,
	}
	m.setTable(table)
	return m
}

// Skimmer exposes the embedded frame skimmer for programmatic control
// before the program starts (loading the clip, restoring a session).
func (m *Model) Skimmer() *FrameSkimmer { return &m.skimmer }

// SessionState reports the resumable position for persistence, or false
// when no video is loaded.
func (m Model) SessionState() (path string, frame, rangeMin, rangeMax int, ok bool) {
	if !m.skimmer.HasVideo() {
		return "", 0, 0, 0, false
	}
	r := m.skimmer.FrameRange()
	return m.skimmer.Clip().Path(), m.skimmer.CurrentFrame(), r.Min(), r.Max(), true
}

// setTable installs the annotation table and rebuilds the marker colors.
func (m *Model) setTable(table *keypoints.Table) {
	m.table = table
	m.colors = nil
	if table == nil {
		m.skimmer.SetMarkers(nil)
		return
	}

	pairs := table.Header.IndividualBodypartPairs()
	cycle := ColorCycle(len(pairs))
	m.colors = make(map[keypoints.Pair]Marker, len(pairs))
	for i, p := range pairs {
		m.colors[p] = Marker{Color: cycle[i]}
	}
	m.skimmer.SetMarkers(m.markersFor)
}

// markersFor extracts the annotated coordinates of one frame from the
// table. Frames are table rows; keypoints with NaN coordinates are skipped.
func (m *Model) markersFor(frame int) []Marker {
	if m.table == nil || frame < 0 || frame >= len(m.table.Data) {
		return nil
	}
	row := m.table.Data[frame]

	var markers []Marker
	cols := m.table.Header.Columns()
	var xAt, yAt = -1, -1
	var cur keypoints.Pair
	flush := func() {
		if xAt < 0 || yAt < 0 {
			return
		}
		x, y := row[xAt], row[yAt]
		if math.IsNaN(x) || math.IsNaN(y) {
			return
		}
		mk := m.colors[cur]
		mk.X, mk.Y = x, y
		markers = append(markers, mk)
	}
	for i, c := range cols {
		p := keypoints.Pair{Individual: c.Individual, Bodypart: c.Bodypart}
		if p != cur {
			flush()
			cur, xAt, yAt = p, -1, -1
		}
		switch c.Coord {
		case "x":
			xAt = i
		case "y":
			yAt = i
		}
	}
	flush()
	return markers
}

// annotatedCounts tallies, per keypoint, how many frames carry it.
func (m *Model) annotatedCounts() map[keypoints.Keypoint]int {
	counts := make(map[keypoints.Keypoint]int)
	if m.table == nil {
		return counts
	}
	cols := m.table.Header.Columns()
	for _, row := range m.table.Data {
		seen := make(map[keypoints.Pair]bool)
		for i, c := range cols {
			if c.Coord != "x" || math.IsNaN(row[i]) {
				continue
			}
			p := keypoints.Pair{Individual: c.Individual, Bodypart: c.Bodypart}
			if !seen[p] {
				seen[p] = true
				counts[keypoints.Keypoint{Label: c.Bodypart, ID: c.Individual}]++
			}
		}
	}
	return counts
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.skimmer.SetPreviewSize(msg.Width-4, msg.Height-8)
		if m.selector != nil {
			m.selector.SetSize(msg.Width/2, msg.Height-4)
		}
		return m, nil

	case TableReloadedMsg:
		if msg.Err == nil && msg.Table != nil {
			m.setTable(msg.Table)
		}
		return m, nil

	case KeypointSelectedMsg:
		m.selector = nil
		if m.store != nil {
			if err := m.store.SetCurrent(keypoints.Keypoint{Label: msg.Label, ID: msg.ID}); err == nil {
				// Jump to the first frame missing this keypoint.
				m.skimmer.SetFrame(m.store.FirstUnlabeledFrame(m.annotatedFrames(msg)))
			}
		}
		return m, nil
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		// Overlay swallows input while open.
		if m.selector != nil {
			if keyMsg.String() == "esc" {
				m.selector = nil
				return m, nil
			}
			sel, cmd := m.selector.Update(msg)
			m.selector = &sel
			return m, cmd
		}

		switch keyMsg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "?":
			m.showHelp = !m.showHelp
			return m, nil
		case "m":
			m.mode = m.mode.Next()
			return m, nil
		case "b":
			if m.store != nil {
				sel := NewLabelSelector(m.store, m.annotatedCounts(), m.theme)
				sel.SetSize(m.width/2, m.height-4)
				m.selector = &sel
			}
			return m, nil
		case "[":
			if m.store != nil {
				m.store.Prev()
			}
			return m, nil
		case "]":
			if m.store != nil {
				m.store.Next()
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.skimmer, cmd = m.skimmer.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	t := m.theme

	title := t.Renderer.NewStyle().Bold(true).Foreground(t.Primary).Render("vskim")
	if m.skimmer.HasVideo() {
		title += t.Renderer.NewStyle().Foreground(t.Subtext).
			Render("  " + m.skimmer.Clip().Path())
	}

	var status []string
	status = append(status, fmt.Sprintf("mode:%s", m.mode))
	if m.store != nil {
		kp := m.store.Current()
		label := kp.Label
		if kp.ID != "" {
			label = kp.ID + "/" + label
		}
		status = append(status, "keypoint:"+label)
	}
	statusLine := t.Renderer.NewStyle().Foreground(t.Secondary).
		Render(strings.Join(status, "  "))

	body := m.skimmer.View()
	if m.selector != nil {
		body = m.selector.View()
	}

	parts := []string{title, body, statusLine}
	if m.showHelp {
		parts = append(parts, m.helpView())
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) helpView() string {
	help := [][2]string{
		{"tab", "cycle focus"},
		{"←/→", "move slider"},
		{"↑/↓", "next/prev frame"},
		{"pgup/pgdn", "forward/back 10 frames"},
		{"b", "select keypoint"},
		{"[/]", "prev/next keypoint"},
		{"m", "cycle label mode"},
		{"y", "copy frame ref"},
		{"q", "quit"},
	}
	keyStyle := m.theme.Renderer.NewStyle().Foreground(m.theme.Accent)
	descStyle := m.theme.Renderer.NewStyle().Foreground(m.theme.Subtext)
	var b strings.Builder
	for _, h := range help {
		b.WriteString(keyStyle.Render(h[0]))
		b.WriteString(" ")
		b.WriteString(descStyle.Render(h[1]))
		b.WriteString("   ")
	}
	return strings.TrimRight(b.String(), " ")
}

// annotatedFrames reports which frames already carry the given keypoint.
func (m *Model) annotatedFrames(kp KeypointSelectedMsg) map[int]bool {
	out := make(map[int]bool)
	if m.table == nil {
		return out
	}
	cols := m.table.Header.Columns()
	for frame, row := range m.table.Data {
		for i, c := range cols {
			if c.Bodypart == kp.Label && c.Individual == kp.ID && c.Coord == "x" && !math.IsNaN(row[i]) {
				out[frame] = true
				break
			}
		}
	}
	return out
}
