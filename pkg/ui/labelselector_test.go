package ui

import (
	"testing"

	"github.com/vskim/vskim/pkg/keypoints"
)

func newTestSelector(t *testing.T) LabelSelector {
	t.Helper()
	h := keypoints.NewHeader([]keypoints.Column{
		{Scorer: "alice", Bodypart: "nose", Coord: "x"},
		{Scorer: "alice", Bodypart: "nose", Coord: "y"},
		{Scorer: "alice", Bodypart: "tailbase", Coord: "x"},
		{Scorer: "alice", Bodypart: "tailbase", Coord: "y"},
		{Scorer: "alice", Bodypart: "earL", Coord: "x"},
		{Scorer: "alice", Bodypart: "earL", Coord: "y"},
	})
	store := keypoints.NewStore(h, 3)
	annotated := map[keypoints.Keypoint]int{
		{Label: "nose"}: 12,
	}
	return NewLabelSelector(store, annotated, testTheme())
}

func TestSelectorFuzzyFilter(t *testing.T) {
	m := newTestSelector(t)
	if len(m.filteredItems) != 3 {
		t.Fatalf("unfiltered items = %d, want 3", len(m.filteredItems))
	}

	m.searchInput.SetValue("tail")
	m.filter("tail")
	if len(m.filteredItems) != 1 || m.filteredItems[0].Keypoint.Label != "tailbase" {
		t.Errorf("filter(tail) = %+v", m.filteredItems)
	}

	// Clearing the query restores the full list.
	m.filter("")
	if len(m.filteredItems) != 3 {
		t.Errorf("cleared filter items = %d, want 3", len(m.filteredItems))
	}
}

func TestSelectorNavigationAndSelect(t *testing.T) {
	m := newTestSelector(t)

	m, _ = m.Update(keyMsg("down"))
	m, cmd := m.Update(keyMsg("enter"))
	if cmd == nil {
		t.Fatal("enter on an item should produce a selection")
	}
	msg, ok := cmd().(KeypointSelectedMsg)
	if !ok {
		t.Fatalf("cmd produced %T", cmd())
	}
	if msg.Label != "tailbase" {
		t.Errorf("selected %q, want tailbase", msg.Label)
	}

	// Cursor stops at the list edges.
	m.selectedIndex = 0
	m, _ = m.Update(keyMsg("up"))
	if m.selectedIndex != 0 {
		t.Errorf("up at top moved cursor to %d", m.selectedIndex)
	}
}

func TestSelectorEnterWithNoMatches(t *testing.T) {
	m := newTestSelector(t)
	m.filter("zzzz")
	if len(m.filteredItems) != 0 {
		t.Fatalf("filter(zzzz) matched %d items", len(m.filteredItems))
	}
	if _, cmd := m.Update(keyMsg("enter")); cmd != nil {
		t.Error("enter on an empty list should be inert")
	}
}

func TestColorCycleDistinctPerKeypoint(t *testing.T) {
	for _, n := range []int{1, 2, 5, 17} {
		colors := ColorCycle(n)
		if len(colors) != n {
			t.Fatalf("ColorCycle(%d) returned %d colors", n, len(colors))
		}
		seen := make(map[[4]uint32]bool)
		for _, c := range colors {
			r, g, b, a := c.RGBA()
			key := [4]uint32{r, g, b, a}
			if seen[key] {
				t.Errorf("ColorCycle(%d) repeats %v", n, key)
			}
			seen[key] = true
		}
	}
	if got := ColorCycle(0); len(got) != 0 {
		t.Errorf("ColorCycle(0) = %v, want empty", got)
	}
}
