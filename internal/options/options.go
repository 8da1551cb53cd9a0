package options

import (
	"strings"

	"github.com/pkg/errors"
)

// ErrUnknownOption is returned when a selection is not part of the discovered set
var ErrUnknownOption = errors.New("unknown option")

// Option is a processing mode exposed by screech together with the labels
// of the parameters it requires
type Option struct {
	Name   string
	Params []string
}

// Set holds the discovered options keyed by name while remembering the
// order in which names first appeared in the dump
type Set struct {
	order  []string
	params map[string][]string
}

// NewSet creates an empty option set
func NewSet() *Set {
	return &Set{params: make(map[string][]string)}
}

// Add inserts or replaces an option. A name seen before keeps its original
// position but takes the new parameter labels.
func (s *Set) Add(opt Option) {
	if _, exists := s.params[opt.Name]; !exists {
		s.order = append(s.order, opt.Name)
	}
	s.params[opt.Name] = copyParams(opt.Params)
}

// Len returns the number of distinct options
func (s *Set) Len() int {
	return len(s.order)
}

// Names returns option names in presentation order
func (s *Set) Names() []string {
	return append([]string(nil), s.order...)
}

// Options returns every option in presentation order
func (s *Set) Options() []Option {
	out := make([]Option, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, Option{Name: name, Params: copyParams(s.params[name])})
	}
	return out
}

// Lookup returns the option registered under name
func (s *Set) Lookup(name string) (Option, error) {
	params, ok := s.params[name]
	if !ok {
		return Option{}, errors.Wrapf(ErrUnknownOption, "%q", name)
	}
	return Option{Name: name, Params: copyParams(params)}, nil
}

// Candidates returns the newline-joined names handed to the picker
func (s *Set) Candidates() string {
	return strings.Join(s.order, "\n")
}

// Usage renders the set the way screech prints its own usage list
func (s *Set) Usage() string {
	var b strings.Builder
	for _, opt := range s.Options() {
		b.WriteString(opt.Name)
		for _, p := range opt.Params {
			b.WriteString(" <")
			b.WriteString(p)
			b.WriteString(">")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func copyParams(params []string) []string {
	out := make([]string, len(params))
	copy(out, params)
	return out
}

// Parse builds an option set from the text printed by `screech dump_options`.
// Each non-blank line is split on whitespace; the first token names the
// option and the remaining tokens are its parameter labels.
func Parse(text string) *Set {
	set := NewSet()
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		set.Add(Option{Name: fields[0], Params: fields[1:]})
	}
	return set
}
