package anon

import (
	"fmt"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/sqlcloak/sqlcloak/src/sqllex"
)

// categoryMapping holds the bidirectional mapping for one anonymizable
// category. forward and reverse are exact inverses and counter always equals
// len(forward); placeholders are "<prefix>_<n>" minted in first-seen order.
type categoryMapping struct {
	forward map[string]string
	reverse map[string]string
	counter int
}

func newCategoryMapping() *categoryMapping {
	return &categoryMapping{
		forward: make(map[string]string),
		reverse: make(map[string]string),
	}
}

// MappingState is the shared mutable mapping between original values and
// placeholders. It is explicitly constructed and explicitly passed; there is
// no module-level default. It grows monotonically during anonymization until
// the caller clears or persists it.
type MappingState struct {
	categories map[sqllex.TokenCategory]*categoryMapping
}

func NewMappingState() *MappingState {
	s := &MappingState{categories: make(map[sqllex.TokenCategory]*categoryMapping)}
	for _, c := range AnonymizableCategories {
		s.categories[c] = newCategoryMapping()
	}
	return s
}

// AssignPlaceholder returns the placeholder for (category, value), minting a
// new one on first sight. TableAlias values pass through unchanged: aliases
// are short-lived scoped names, and preserving them keeps "alias.column"
// patterns visually stable across runs. Any category outside the anonymizable
// set (other than TableAlias) is a contract violation.
func (s *MappingState) AssignPlaceholder(category sqllex.TokenCategory, value string) (string, error) {
	if category == sqllex.CategoryTableAlias {
		for orig := range s.categories[sqllex.CategoryTable].forward {
			if strings.EqualFold(value, strings.SplitN(orig, "_", 2)[0]) {
				log.Debugf("alias %q matches first segment of mapped table %q", value, orig)
				break
			}
		}
		return value, nil
	}

	prefix, err := PlaceholderPrefix(category)
	if err != nil {
		return "", fmt.Errorf("assign placeholder for %q: %w", category, err)
	}

	m := s.categories[category]
	if placeholder, exists := m.forward[value]; exists {
		return placeholder, nil
	}

	m.counter++
	placeholder := fmt.Sprintf("%s_%d", prefix, m.counter)
	m.forward[value] = placeholder
	m.reverse[placeholder] = value
	return placeholder, nil
}

// LookupOriginal resolves a placeholder back to its original value, checking
// the categories in their fixed order. ok is false for text that is not a
// known placeholder.
func (s *MappingState) LookupOriginal(placeholder string) (value string, category sqllex.TokenCategory, ok bool) {
	for _, c := range AnonymizableCategories {
		if original, exists := s.categories[c].reverse[placeholder]; exists {
			return original, c, true
		}
	}
	return "", sqllex.CategoryUnknown, false
}

// Counter returns the per-category monotonic counter.
func (s *MappingState) Counter(category sqllex.TokenCategory) int {
	if m, ok := s.categories[category]; ok {
		return m.counter
	}
	return 0
}

// CategorySize returns the number of mapped values in one category.
func (s *MappingState) CategorySize(category sqllex.TokenCategory) int {
	if m, ok := s.categories[category]; ok {
		return len(m.forward)
	}
	return 0
}

// Size returns the total number of mapped values across categories.
func (s *MappingState) Size() int {
	total := 0
	for _, c := range AnonymizableCategories {
		total += len(s.categories[c].forward)
	}
	return total
}

// Clear resets the state to empty, discarding both maps and the counters for
// every category. Clearing is all-or-nothing.
func (s *MappingState) Clear() {
	for _, c := range AnonymizableCategories {
		s.categories[c] = newCategoryMapping()
	}
}

// MappingEntry is one (original, placeholder) pair, surfaced for display and
// export listings.
type MappingEntry struct {
	Category    sqllex.TokenCategory
	Original    string
	Placeholder string
}

// Entries lists one category's mappings in placeholder-mint order.
func (s *MappingState) Entries(category sqllex.TokenCategory) []MappingEntry {
	m, ok := s.categories[category]
	if !ok {
		return nil
	}
	entries := make([]MappingEntry, 0, len(m.forward))
	for original, placeholder := range m.forward {
		entries = append(entries, MappingEntry{Category: category, Original: original, Placeholder: placeholder})
	}
	sort.Slice(entries, func(i, j int) bool {
		return placeholderOrdinal(entries[i].Placeholder) < placeholderOrdinal(entries[j].Placeholder)
	})
	return entries
}

func placeholderOrdinal(placeholder string) int {
	idx := strings.LastIndexByte(placeholder, '_')
	if idx < 0 {
		return 0
	}
	n := 0
	fmt.Sscanf(placeholder[idx+1:], "%d", &n)
	return n
}
