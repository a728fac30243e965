// Package stoplist holds the parts of speech whose words never count as
// content words.
package stoplist

import (
	"sort"
	"strings"

	"github.com/cognicore/wordforms/pkg/wordforms/morph"
)

// Manager is a set of stopped part-of-speech tags.
type Manager struct {
	stops map[morph.POS]struct{}
}

// NewManager creates a stoplist with the given tags.
func NewManager(initial []morph.POS) *Manager {
	stops := make(map[morph.POS]struct{}, len(initial))
	for _, p := range initial {
		stops[normalize(p)] = struct{}{}
	}
	return &Manager{stops: stops}
}

// Default stops the functional parts of speech.
func Default() *Manager {
	return NewManager(morph.FunctionalPOS())
}

// FromStrings builds a stoplist from configuration values such as "PREP".
func FromStrings(tags []string) *Manager {
	initial := make([]morph.POS, 0, len(tags))
	for _, t := range tags {
		if strings.TrimSpace(t) == "" {
			continue
		}
		initial = append(initial, morph.POS(t))
	}
	return NewManager(initial)
}

// IsStop checks if a part of speech is stopped
func (m *Manager) IsStop(pos morph.POS) bool {
	_, ok := m.stops[normalize(pos)]
	return ok
}

// Add stops a part of speech
func (m *Manager) Add(pos morph.POS) {
	m.stops[normalize(pos)] = struct{}{}
}

// Remove un-stops a part of speech
func (m *Manager) Remove(pos morph.POS) {
	delete(m.stops, normalize(pos))
}

// All returns the stopped tags in sorted order
func (m *Manager) All() []morph.POS {
	result := make([]morph.POS, 0, len(m.stops))
	for p := range m.stops {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}

func normalize(p morph.POS) morph.POS {
	return morph.POS(strings.ToUpper(strings.TrimSpace(string(p))))
}
