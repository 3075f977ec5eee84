package category

import (
	"errors"
	"strings"

	"golang.org/x/text/cases"
)

var ErrEmptyName = errors.New("empty category name")

// DefaultCategories are offered to every owner before any custom category is added.
var DefaultCategories = []string{
	"Food & Dining",
	"Shopping",
	"Housing",
	"Transportation",
	"Entertainment",
	"Healthcare",
	"Personal Care",
	"Education",
	"Travel",
	"Utilities",
	"Other",
}

// Set is an insertion-ordered list of category names deduplicated under Unicode
// case folding. The first spelling added wins.
type Set struct {
	fold  cases.Caser
	names []string
	index map[string]int
}

func NewSet(names ...string) *Set {
	s := &Set{
		fold:  cases.Fold(),
		index: make(map[string]int, len(names)),
	}

	for _, n := range names {
		s.Add(n)
	}

	return s
}

func (s *Set) key(name string) string {
	return s.fold.String(strings.TrimSpace(name))
}

// Add inserts name unless an equivalent one exists. It returns the canonical
// spelling stored in the set and whether name was new.
func (s *Set) Add(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false
	}

	k := s.key(name)
	if i, ok := s.index[k]; ok {
		return s.names[i], false
	}

	s.index[k] = len(s.names)
	s.names = append(s.names, name)

	return name, true
}

func (s *Set) Contains(name string) bool {
	_, ok := s.index[s.key(name)]
	return ok
}

// Lookup returns the stored spelling of name.
func (s *Set) Lookup(name string) (string, bool) {
	i, ok := s.index[s.key(name)]
	if !ok {
		return "", false
	}

	return s.names[i], true
}

func (s *Set) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)

	return out
}

func (s *Set) Len() int {
	return len(s.names)
}
