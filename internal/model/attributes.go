package model

import (
	"slices"

	"ridl/internal/source"
)

// Selection is a named attribute carrying positional words and keyed
// values. Reads consume entries so that whatever remains afterwards can be
// reported as unused.
type Selection struct {
	Span   source.Span
	words  []Value
	values map[string]Value
}

// NewSelection creates an empty selection anchored at span.
func NewSelection(span source.Span) *Selection {
	return &Selection{Span: span, values: make(map[string]Value)}
}

// AddWord appends a positional word.
func (s *Selection) AddWord(v Value) {
	s.words = append(s.words, v)
}

// AddValue sets a keyed value, returning the span of a previous entry
// under the same key when one existed.
func (s *Selection) AddValue(key string, v Value) (source.Span, bool) {
	if prev, ok := s.values[key]; ok {
		s.values[key] = v
		return prev.Span, true
	}
	s.values[key] = v
	return source.Span{}, false
}

// TakeWord consumes and returns the next positional word.
func (s *Selection) TakeWord() (Value, bool) {
	if len(s.words) == 0 {
		return Value{}, false
	}
	v := s.words[0]
	s.words = s.words[1:]
	return v, true
}

// Take consumes and returns the value stored under key.
func (s *Selection) Take(key string) (Value, bool) {
	v, ok := s.values[key]
	if ok {
		delete(s.values, key)
	}
	return v, ok
}

// Unused returns the spans of everything never consumed, ordered by
// position.
func (s *Selection) Unused() []source.Span {
	spans := make([]source.Span, 0, len(s.words)+len(s.values))
	for _, w := range s.words {
		spans = append(spans, w.Span)
	}
	for _, v := range s.values {
		spans = append(spans, v.Span)
	}
	sortSpans(spans)
	return spans
}

// Attributes is the set of attributes attached to one declaration site:
// bare words plus named selections. Reads consume entries; Unused reports
// the leftovers.
type Attributes struct {
	words      map[string]source.Span
	selections map[string]*Selection
}

// NewAttributes creates an empty attribute set.
func NewAttributes() *Attributes {
	return &Attributes{
		words:      make(map[string]source.Span),
		selections: make(map[string]*Selection),
	}
}

// AddWord records a bare word attribute, returning the span of a previous
// entry under the same name when one existed.
func (a *Attributes) AddWord(word string, span source.Span) (source.Span, bool) {
	if prev, ok := a.words[word]; ok {
		a.words[word] = span
		return prev, true
	}
	a.words[word] = span
	return source.Span{}, false
}

// AddSelection records a named selection, returning the span of a previous
// entry under the same name when one existed.
func (a *Attributes) AddSelection(name string, sel *Selection) (source.Span, bool) {
	if prev, ok := a.selections[name]; ok {
		a.selections[name] = sel
		return prev.Span, true
	}
	a.selections[name] = sel
	return source.Span{}, false
}

// TakeWord consumes a bare word by name.
func (a *Attributes) TakeWord(word string) (source.Span, bool) {
	span, ok := a.words[word]
	if ok {
		delete(a.words, word)
	}
	return span, ok
}

// TakeSelection consumes a named selection.
func (a *Attributes) TakeSelection(name string) (*Selection, bool) {
	sel, ok := a.selections[name]
	if ok {
		delete(a.selections, name)
	}
	return sel, ok
}

// Unused returns the spans of attributes never consumed, ordered by
// position.
func (a *Attributes) Unused() []source.Span {
	spans := make([]source.Span, 0, len(a.words)+len(a.selections))
	for _, span := range a.words {
		spans = append(spans, span)
	}
	for _, sel := range a.selections {
		spans = append(spans, sel.Span)
	}
	sortSpans(spans)
	return spans
}

func sortSpans(spans []source.Span) {
	slices.SortFunc(spans, func(a, b source.Span) int {
		if a.File != b.File {
			if a.File < b.File {
				return -1
			}
			return 1
		}
		if a.Start != b.Start {
			if a.Start < b.Start {
				return -1
			}
			return 1
		}
		if a.End != b.End {
			if a.End < b.End {
				return -1
			}
			return 1
		}
		return 0
	})
}
