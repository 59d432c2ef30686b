package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/vskim/vskim/pkg/keypoints"
)

// LabelItem is one selectable keypoint in the selector overlay.
type LabelItem struct {
	Keypoint  keypoints.Keypoint
	Annotated int // frames already carrying this keypoint
}

func (it LabelItem) display() string {
	if it.Keypoint.ID == "" {
		return it.Keypoint.Label
	}
	return it.Keypoint.ID + "/" + it.Keypoint.Label
}

// LabelSelector is a fuzzy-searchable overlay for jumping to a keypoint.
type LabelSelector struct {
	allItems      []LabelItem
	filteredItems []LabelItem

	searchInput   textinput.Model
	selectedIndex int

	width  int
	height int
	theme  Theme
}

// NewLabelSelector builds the selector from the session's keypoint store.
// annotated maps keypoints to the number of frames where they are placed.
func NewLabelSelector(store *keypoints.Store, annotated map[keypoints.Keypoint]int, theme Theme) LabelSelector {
	ti := textinput.New()
	ti.Placeholder = "Search keypoints..."
	ti.Focus()
	ti.CharLimit = 64
	ti.Width = 32

	var items []LabelItem
	for _, kp := range store.Keypoints() {
		items = append(items, LabelItem{Keypoint: kp, Annotated: annotated[kp]})
	}

	return LabelSelector{
		allItems:      items,
		filteredItems: items,
		searchInput:   ti,
		theme:         theme,
		width:         44,
		height:        16,
	}
}

// SetSize sets the overlay's outer dimensions.
func (m *LabelSelector) SetSize(w, h int) {
	if w > 0 {
		m.width = w
	}
	if h > 0 {
		m.height = h
	}
}

// filter narrows the item list with a fuzzy match over the display names.
func (m *LabelSelector) filter(query string) {
	if strings.TrimSpace(query) == "" {
		m.filteredItems = m.allItems
		m.selectedIndex = 0
		return
	}
	targets := make([]string, len(m.allItems))
	for i, it := range m.allItems {
		targets[i] = it.display()
	}
	matches := fuzzy.Find(query, targets)
	filtered := make([]LabelItem, 0, len(matches))
	for _, match := range matches {
		filtered = append(filtered, m.allItems[match.Index])
	}
	m.filteredItems = filtered
	m.selectedIndex = 0
}

// Update implements the bubbles update convention. Enter resolves to a
// KeypointSelectedMsg; dismissing the overlay is the caller's concern.
func (m LabelSelector) Update(msg tea.Msg) (LabelSelector, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "up", "ctrl+p":
			if m.selectedIndex > 0 {
				m.selectedIndex--
			}
			return m, nil
		case "down", "ctrl+n":
			if m.selectedIndex < len(m.filteredItems)-1 {
				m.selectedIndex++
			}
			return m, nil
		case "enter":
			if len(m.filteredItems) == 0 {
				return m, nil
			}
			kp := m.filteredItems[m.selectedIndex].Keypoint
			return m, func() tea.Msg {
				return KeypointSelectedMsg{Label: kp.Label, ID: kp.ID}
			}
		}
	}

	var cmd tea.Cmd
	before := m.searchInput.Value()
	m.searchInput, cmd = m.searchInput.Update(msg)
	if m.searchInput.Value() != before {
		m.filter(m.searchInput.Value())
	}
	return m, cmd
}

// View renders the overlay box.
func (m LabelSelector) View() string {
	t := m.theme
	var b strings.Builder

	title := t.Renderer.NewStyle().
		Bold(true).
		Foreground(t.Primary).
		Render("Select keypoint")
	b.WriteString(title)
	b.WriteString("\n\n")
	b.WriteString(m.searchInput.View())
	b.WriteString("\n\n")

	visible := m.height - 7
	if visible < 1 {
		visible = 1
	}
	start := 0
	if m.selectedIndex >= visible {
		start = m.selectedIndex - visible + 1
	}

	itemStyle := t.Renderer.NewStyle().Foreground(t.Text)
	selectedStyle := t.Renderer.NewStyle().Foreground(t.Primary).Bold(true)
	countStyle := t.Renderer.NewStyle().Foreground(t.Subtext)

	if len(m.filteredItems) == 0 {
		b.WriteString(countStyle.Render("no matches"))
	}
	for i := start; i < len(m.filteredItems) && i < start+visible; i++ {
		it := m.filteredItems[i]
		line := it.display()
		if it.Annotated > 0 {
			line += countStyle.Render(fmt.Sprintf("  (%d)", it.Annotated))
		}
		if i == m.selectedIndex {
			b.WriteString(selectedStyle.Render("▸ " + line))
		} else {
			b.WriteString(itemStyle.Render("  " + line))
		}
		b.WriteByte('\n')
	}

	return t.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(1, 2).
		Width(m.width).
		Render(strings.TrimRight(b.String(), "\n"))
}
