package core

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Selections records which proteins belong to which user-named selection.
// Selection names are kept in the order they were first seen so that color
// assignment is reproducible.
type Selections struct {
	names   []string
	members map[string]map[string]bool
	order   map[string][]string // protein id -> selection names in insertion order
}

// NewSelections returns an empty membership.
func NewSelections() *Selections {
	return &Selections{
		members: make(map[string]map[string]bool),
		order:   make(map[string][]string),
	}
}

// Set records whether protein id is a member of selection name.
func (s *Selections) Set(id, name string, member bool) {
	m, ok := s.members[id]
	if !ok {
		m = make(map[string]bool)
		s.members[id] = m
	}
	if _, seen := m[name]; !seen {
		s.order[id] = append(s.order[id], name)
	}
	m[name] = member
	if member && !s.hasName(name) {
		s.names = append(s.names, name)
	}
}

// Add marks protein id as a member of selection name.
func (s *Selections) Add(id, name string) { s.Set(id, name, true) }

func (s *Selections) hasName(name string) bool {
	for _, n := range s.names {
		if n == name {
			return true
		}
	}
	return false
}

// Names returns the selection names with at least one member, in the order
// they were first marked.
func (s *Selections) Names() []string {
	if s == nil {
		return nil
	}
	var names []string
	for _, n := range s.names {
		if s.hasMember(n) {
			names = append(names, n)
		}
	}
	return names
}

func (s *Selections) hasMember(name string) bool {
	for _, m := range s.members {
		if m[name] {
			return true
		}
	}
	return false
}

// For returns the selections protein id is a member of, in insertion order.
func (s *Selections) For(id string) []string {
	if s == nil {
		return nil
	}
	m := s.members[id]
	var names []string
	for _, n := range s.order[id] {
		if m[n] {
			names = append(names, n)
		}
	}
	return names
}

// Len returns the number of proteins with any recorded membership.
func (s *Selections) Len() int {
	if s == nil {
		return 0
	}
	return len(s.members)
}

// ReadSelections reads a two column tab-delimited membership list of
// protein identifier and selection name. A header line starting with
// "#" is skipped, as are blank lines.
func ReadSelections(r io.Reader) (*Selections, error) {
	sel := NewSelections()
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Split(line, "\t")
		if len(parts) < 2 {
			return nil, fmt.Errorf("line %d: expected 2 tab-separated fields (id, selection), got %d", lineNum, len(parts))
		}
		id := strings.TrimSpace(parts[0])
		name := strings.TrimSpace(parts[1])
		if name == "" {
			return nil, fmt.Errorf("line %d: empty selection name for %q", lineNum, id)
		}
		sel.Add(id, name)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading selections: %w", err)
	}
	return sel, nil
}
