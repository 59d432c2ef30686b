package keypoints

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Column is one column tuple of an annotation table header. Individual is
// empty for single-animal projects.
type Column struct {
	Scorer     string
	Individual string
	Bodypart   string
	Coord      string
}

// Header is the ordered multi-level column labeling of an annotation table.
type Header struct {
	columns        []Column
	hasIndividuals bool
}

// NewHeader builds a header from ordered column tuples. The individuals
// level is considered present when any column carries a non-empty
// Individual.
func NewHeader(columns []Column) *Header {
	h := &Header{columns: columns}
	for _, c := range columns {
		if c.Individual != "" {
			h.hasIndividuals = true
			break
		}
	}
	return h
}

// Columns returns the ordered column tuples. The slice is shared; callers
// must not mutate it.
func (h *Header) Columns() []Column { return h.columns }

// Len returns the number of columns.
func (h *Header) Len() int { return len(h.columns) }

// Scorer returns the first scorer in column order.
func (h *Header) Scorer() string {
	s := h.Scorers()
	if len(s) == 0 {
		return ""
	}
	return s[0]
}

// Scorers returns the unique scorers in first-seen order.
func (h *Header) Scorers() []string {
	return UnsortedUnique(h.level(func(c Column) string { return c.Scorer }))
}

// Individuals returns the unique individuals in first-seen order, or a
// single empty string for single-animal headers.
func (h *Header) Individuals() []string {
	if !h.hasIndividuals {
		return []string{""}
	}
	return UnsortedUnique(h.level(func(c Column) string { return c.Individual }))
}

// Bodyparts returns the unique bodyparts in first-seen order.
func (h *Header) Bodyparts() []string {
	return UnsortedUnique(h.level(func(c Column) string { return c.Bodypart }))
}

// Coords returns the unique coordinate labels in first-seen order,
// typically x, y and optionally likelihood.
func (h *Header) Coords() []string {
	return UnsortedUnique(h.level(func(c Column) string { return c.Coord }))
}

// HasLikelihood reports whether a likelihood coordinate is present.
func (h *Header) HasLikelihood() bool {
	for _, c := range h.Coords() {
		if c == "likelihood" {
			return true
		}
	}
	return false
}

// SetScorer relabels the scorer level of every column.
func (h *Header) SetScorer(scorer string) {
	for i := range h.columns {
		h.columns[i].Scorer = scorer
	}
}

// Pair identifies one keypoint: an (individual, bodypart) combination.
type Pair struct {
	Individual string
	Bodypart   string
}

// IndividualBodypartPairs returns every keypoint the header describes, in
// column order. Single-animal headers pair each bodypart with the empty
// individual.
func (h *Header) IndividualBodypartPairs() []Pair {
	seen := make(map[Pair]struct{})
	var pairs []Pair
	for _, ind := range h.Individuals() {
		for _, c := range h.columns {
			p := Pair{Individual: c.Individual, Bodypart: c.Bodypart}
			if !h.hasIndividuals {
				p.Individual = ind
			} else if p.Individual != ind {
				continue
			}
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			pairs = append(pairs, p)
		}
	}
	return pairs
}

func (h *Header) level(get func(Column) string) []string {
	out := make([]string, len(h.columns))
	for i, c := range h.columns {
		out[i] = get(c)
	}
	return out
}

// Config is the subset of an annotation project config the header needs.
type Config struct {
	Scorer               string   `yaml:"scorer"`
	MultiAnimal          bool     `yaml:"multianimalproject"`
	Individuals          []string `yaml:"individuals"`
	MultiAnimalBodyparts []string `yaml:"multianimalbodyparts"`
	UniqueBodyparts      []string `yaml:"uniquebodyparts"`
	Bodyparts            []string `yaml:"bodyparts"`
}

// LoadConfig reads a YAML project config.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("keypoints: read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("keypoints: parse config %q: %w", path, err)
	}
	return &cfg, nil
}

// HeaderFromConfig builds the header a fresh annotation table would carry
// for the project. Multi-animal projects get the product of individuals and
// multi-animal bodyparts, with unique bodyparts bucketed under the "single"
// individual.
func HeaderFromConfig(cfg *Config) *Header {
	coords := []string{"x", "y"}
	var columns []Column
	if cfg.MultiAnimal {
		for _, ind := range cfg.Individuals {
			for _, bp := range cfg.MultiAnimalBodyparts {
				for _, co := range coords {
					columns = append(columns, Column{cfg.Scorer, ind, bp, co})
				}
			}
		}
		for _, bp := range cfg.UniqueBodyparts {
			for _, co := range coords {
				columns = append(columns, Column{cfg.Scorer, "single", bp, co})
			}
		}
	} else {
		for _, bp := range cfg.Bodyparts {
			for _, co := range coords {
				columns = append(columns, Column{Scorer: cfg.Scorer, Bodypart: bp, Coord: co})
			}
		}
	}
	return NewHeader(columns)
}
