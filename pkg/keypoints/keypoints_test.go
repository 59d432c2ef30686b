package keypoints

import (
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestUnsortedUnique(t *testing.T) {
	got := UnsortedUnique([]string{"nose", "tail", "nose", "ear", "tail"})
	want := []string{"nose", "tail", "ear"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("UnsortedUnique = %v, want %v", got, want)
	}
}

func TestEncodeCategories(t *testing.T) {
	codes, mapping := EncodeCategories([]string{"b", "a", "b", "c", "a"})
	if !reflect.DeepEqual(codes, []int{0, 1, 0, 2, 1}) {
		t.Errorf("codes = %v", codes)
	}
	want := map[string]int{"b": 0, "a": 1, "c": 2}
	if !reflect.DeepEqual(mapping, want) {
		t.Errorf("mapping = %v, want %v", mapping, want)
	}
}

func TestToOSDirSep(t *testing.T) {
	sep := string(os.PathSeparator)

	got, err := ToOSDirSep("a/b/c")
	if err != nil {
		t.Fatal(err)
	}
	if got != strings.Join([]string{"a", "b", "c"}, sep) {
		t.Errorf("ToOSDirSep(a/b/c) = %q", got)
	}

	got, err = ToOSDirSep(`a\b\c`)
	if err != nil {
		t.Fatal(err)
	}
	if got != strings.Join([]string{"a", "b", "c"}, sep) {
		t.Errorf(`ToOSDirSep(a\b\c) = %q`, got)
	}

	if _, err := ToOSDirSep(`a/b\c`); err == nil {
		t.Error("mixed separators: expected error")
	} else {
		for _, s := range []string{`\`, "/"} {
			if !strings.Contains(err.Error(), s) {
				t.Errorf("mixed-separator error %q does not name %q", err, s)
			}
		}
	}
}

func singleAnimalHeader(scorers []string, bodyparts []string, coords []string) *Header {
	var cols []Column
	for _, s := range scorers {
		for _, bp := range bodyparts {
			for _, co := range coords {
				cols = append(cols, Column{Scorer: s, Bodypart: bp, Coord: co})
			}
		}
	}
	return NewHeader(cols)
}

func TestHeaderLevels(t *testing.T) {
	h := singleAnimalHeader([]string{"alice"}, []string{"nose", "tail"}, []string{"x", "y"})
	if h.Scorer() != "alice" {
		t.Errorf("Scorer = %q", h.Scorer())
	}
	if got := h.Bodyparts(); !reflect.DeepEqual(got, []string{"nose", "tail"}) {
		t.Errorf("Bodyparts = %v", got)
	}
	if got := h.Coords(); !reflect.DeepEqual(got, []string{"x", "y"}) {
		t.Errorf("Coords = %v", got)
	}
	if got := h.Individuals(); !reflect.DeepEqual(got, []string{""}) {
		t.Errorf("Individuals (single-animal) = %v", got)
	}
	if h.HasLikelihood() {
		t.Error("HasLikelihood = true without a likelihood coord")
	}
}

func TestHeaderFromConfig(t *testing.T) {
	cfg := &Config{
		Scorer:               "alice",
		MultiAnimal:          true,
		Individuals:          []string{"mouse1", "mouse2"},
		MultiAnimalBodyparts: []string{"nose"},
		UniqueBodyparts:      []string{"corner"},
	}
	h := HeaderFromConfig(cfg)

	if got := h.Individuals(); !reflect.DeepEqual(got, []string{"mouse1", "mouse2", "single"}) {
		t.Errorf("Individuals = %v", got)
	}
	if got := h.Bodyparts(); !reflect.DeepEqual(got, []string{"nose", "corner"}) {
		t.Errorf("Bodyparts = %v", got)
	}
	// 2 individuals * 1 bodypart * 2 coords + 1 unique * 2 coords
	if h.Len() != 6 {
		t.Errorf("Len = %d, want 6", h.Len())
	}

	pairs := h.IndividualBodypartPairs()
	wantPairs := []Pair{
		{"mouse1", "nose"},
		{"mouse2", "nose"},
		{"single", "corner"},
	}
	if !reflect.DeepEqual(pairs, wantPairs) {
		t.Errorf("IndividualBodypartPairs = %v, want %v", pairs, wantPairs)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `scorer: alice
multianimalproject: false
bodyparts: [nose, tail]
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Scorer != "alice" || !reflect.DeepEqual(cfg.Bodyparts, []string{"nose", "tail"}) {
		t.Errorf("LoadConfig = %+v", cfg)
	}
}

func TestMergeScorersSingleScorerIsIdentity(t *testing.T) {
	h := singleAnimalHeader([]string{"alice"}, []string{"nose"}, []string{"x", "y", "likelihood"})
	tab, err := NewTable(h, []string{"0"}, [][]float64{{1, 2, 0.9}})
	if err != nil {
		t.Fatal(err)
	}
	got, err := MergeScorers(tab)
	if err != nil {
		t.Fatal(err)
	}
	if got != tab {
		t.Error("single-scorer table should be returned unchanged")
	}
}

func TestMergeScorersByLikelihood(t *testing.T) {
	h := singleAnimalHeader([]string{"alice", "bob"}, []string{"nose"}, []string{"x", "y", "likelihood"})
	nan := math.NaN()
	tab, err := NewTable(h, []string{"0", "1", "2"}, [][]float64{
		// alice x, y, lik | bob x, y, lik
		{1, 2, 0.4, 10, 20, 0.9}, // bob wins
		{3, 4, 0.8, 30, 40, 0.1}, // alice wins
		{nan, nan, nan, nan, nan, nan}, // all NaN: stays NaN
	})
	if err != nil {
		t.Fatal(err)
	}

	got, err := MergeScorers(tab)
	if err != nil {
		t.Fatal(err)
	}
	if got.Header.Len() != 3 {
		t.Fatalf("merged width = %d, want 3", got.Header.Len())
	}
	if got.Data[0][0] != 10 || got.Data[0][1] != 20 || got.Data[0][2] != 0.9 {
		t.Errorf("row 0 = %v, want bob's prediction", got.Data[0])
	}
	if got.Data[1][0] != 3 || got.Data[1][1] != 4 || got.Data[1][2] != 0.8 {
		t.Errorf("row 1 = %v, want alice's prediction", got.Data[1])
	}
	for j, v := range got.Data[2] {
		if !math.IsNaN(v) {
			t.Errorf("row 2 column %d = %v, want NaN", j, v)
		}
	}
}

func TestMergeScorersWithoutLikelihood(t *testing.T) {
	h := singleAnimalHeader([]string{"alice", "bob"}, []string{"nose"}, []string{"x", "y"})
	tab, err := NewTable(h, []string{"0"}, [][]float64{{1, 2, 10, 20}})
	if err != nil {
		t.Fatal(err)
	}
	got, err := MergeScorers(tab)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got.Data[0], []float64{1, 2}) {
		t.Errorf("row 0 = %v, want first scorer's block", got.Data[0])
	}
	if got.Header.Scorer() != "alice" {
		t.Errorf("merged scorer = %q", got.Header.Scorer())
	}
}

func TestSplitIndex(t *testing.T) {
	h := singleAnimalHeader([]string{"alice"}, []string{"nose"}, []string{"x"})

	tab, err := NewTable(h, []string{"labeled-data/vid1/img000.png"}, [][]float64{{1}})
	if err != nil {
		t.Fatal(err)
	}
	parts, err := tab.SplitIndex()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(parts[0], []string{"labeled-data", "vid1", "img000.png"}) {
		t.Errorf("SplitIndex = %v", parts[0])
	}

	// Numeric frame indices have nothing to split.
	tab, err = NewTable(h, []string{"0"}, [][]float64{{1}})
	if err != nil {
		t.Fatal(err)
	}
	parts, err = tab.SplitIndex()
	if err != nil || parts != nil {
		t.Errorf("numeric SplitIndex = %v, %v; want nil, nil", parts, err)
	}

	// Mixed separators fail loudly.
	tab, err = NewTable(h, []string{`a/b\c`}, [][]float64{{1}})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tab.SplitIndex(); err == nil {
		t.Error("mixed-separator index: expected error")
	}
}

func TestLoadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.csv")
	body := strings.Join([]string{
		"scorer,alice,alice,alice",
		"bodyparts,nose,nose,nose",
		"coords,x,y,likelihood",
		"labeled-data/v/img0.png,1.5,2.5,0.9",
		"labeled-data/v/img1.png,,,",
	}, "\n")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	tab, err := LoadCSV(path)
	if err != nil {
		t.Fatal(err)
	}
	if tab.Header.Scorer() != "alice" || tab.Header.Len() != 3 {
		t.Fatalf("header = %+v", tab.Header)
	}
	if len(tab.Data) != 2 {
		t.Fatalf("rows = %d, want 2", len(tab.Data))
	}
	if tab.Data[0][0] != 1.5 || tab.Data[0][2] != 0.9 {
		t.Errorf("row 0 = %v", tab.Data[0])
	}
	for j, v := range tab.Data[1] {
		if !math.IsNaN(v) {
			t.Errorf("empty cell %d = %v, want NaN", j, v)
		}
	}
}

func TestLoadCSVMissing(t *testing.T) {
	if _, err := LoadCSV(filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLabelModeCycle(t *testing.T) {
	m := DefaultLabelMode()
	if m != Sequential {
		t.Fatalf("default mode = %v", m)
	}
	seq := []LabelMode{Quick, Loop, Sequential, Quick}
	for i, want := range seq {
		m = m.Next()
		if m != want {
			t.Errorf("step %d: mode = %v, want %v", i, m, want)
		}
	}
}

func TestParseLabelMode(t *testing.T) {
	for _, m := range []LabelMode{Sequential, Quick, Loop} {
		got, err := ParseLabelMode(m.String())
		if err != nil || got != m {
			t.Errorf("ParseLabelMode(%q) = %v, %v", m.String(), got, err)
		}
	}
	if _, err := ParseLabelMode("turbo"); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestStoreNavigation(t *testing.T) {
	h := singleAnimalHeader([]string{"alice"}, []string{"nose", "ear", "tail"}, []string{"x", "y"})
	s := NewStore(h, 5)

	if got := s.Current(); got.Label != "nose" {
		t.Fatalf("initial keypoint = %+v", got)
	}
	s.Prev() // at the start: no-op
	if s.Current().Label != "nose" {
		t.Error("Prev at start moved the selection")
	}
	s.Next()
	s.Next()
	if s.Current().Label != "tail" {
		t.Errorf("after two Next: %+v", s.Current())
	}
	s.Next() // at the end: no-op
	if s.Current().Label != "tail" {
		t.Error("Next at end moved the selection")
	}

	if err := s.SetCurrent(Keypoint{Label: "ear"}); err != nil {
		t.Fatal(err)
	}
	if s.Current().Label != "ear" {
		t.Errorf("SetCurrent: %+v", s.Current())
	}
	if err := s.SetCurrent(Keypoint{Label: "wing"}); err == nil {
		t.Error("SetCurrent with unknown keypoint: expected error")
	}
}

func TestStoreSteps(t *testing.T) {
	h := singleAnimalHeader([]string{"alice"}, []string{"nose"}, []string{"x", "y"})
	s := NewStore(h, 3)

	s.AdvanceStep()
	s.AdvanceStep()
	if s.Step() != 2 {
		t.Fatalf("Step = %d", s.Step())
	}
	s.AdvanceStep() // wraps
	if s.Step() != 0 {
		t.Errorf("Step after wrap = %d, want 0", s.Step())
	}

	s.SetStep(99)
	if s.Step() != 2 {
		t.Errorf("SetStep clamps to last step, got %d", s.Step())
	}

	if got := s.FirstUnlabeledFrame(map[int]bool{0: true, 1: true}); got != 2 {
		t.Errorf("FirstUnlabeledFrame = %d, want 2", got)
	}
	if got := s.FirstUnlabeledFrame(map[int]bool{0: true, 1: true, 2: true}); got != 2 {
		t.Errorf("all labeled: FirstUnlabeledFrame = %d, want last step", got)
	}
}
