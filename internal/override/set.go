package override

// Set is the immutable, indexed form of Lists. It is safe for concurrent use.
type Set struct {
	mode      RemovalMode
	additions map[string][]Entry   // form -> additions in file order
	removals  map[string][]Removal // form -> removals
	// byLemmaTag indexes additions for synthesis: lemma|tag -> forms.
	byLemmaTag map[string][]string
}

// NewSet indexes l. Duplicate additions are collapsed.
func NewSet(l Lists, mode RemovalMode) *Set {
	s := &Set{
		mode:       mode,
		additions:  make(map[string][]Entry),
		removals:   make(map[string][]Removal),
		byLemmaTag: make(map[string][]string),
	}
	seen := make(map[Entry]struct{}, len(l.Additions))
	for _, e := range l.Additions {
		if _, dup := seen[e]; dup {
			continue
		}
		seen[e] = struct{}{}
		s.additions[e.Form] = append(s.additions[e.Form], e)
		k := e.Lemma + "|" + e.Tag
		s.byLemmaTag[k] = append(s.byLemmaTag[k], e.Form)
	}
	for _, r := range l.Removals {
		s.removals[r.Form] = append(s.removals[r.Form], r)
	}
	return s
}

// Empty reports whether the set has no additions and no removals.
func (s *Set) Empty() bool {
	return s == nil || (len(s.additions) == 0 && len(s.removals) == 0)
}

// Removed reports whether a dictionary analysis is suppressed.
func (s *Set) Removed(e Entry) bool {
	if s == nil {
		return false
	}
	for _, r := range s.removals[e.Form] {
		if s.mode == RemoveWholeForm {
			return true
		}
		if (r.Lemma == "" || r.Lemma == e.Lemma) && (r.Tag == "" || r.Tag == e.Tag) {
			return true
		}
	}
	return false
}

// Additions returns the additions for form in file order.
func (s *Set) Additions(form string) []Entry {
	if s == nil {
		return nil
	}
	return s.additions[form]
}

// FormsFor returns the added forms carrying lemma and tag.
func (s *Set) FormsFor(lemma, tag string) []string {
	if s == nil {
		return nil
	}
	return s.byLemmaTag[lemma+"|"+tag]
}

// Apply merges dictionary entries for form with the overrides: entries that
// match a removal are dropped, duplicates are collapsed, and additions not
// already present are appended. Entries in raw must all carry form.
func (s *Set) Apply(form string, raw []Entry) []Entry {
	out := make([]Entry, 0, len(raw))
	seen := make(map[Entry]struct{}, len(raw))
	for _, e := range raw {
		if s.Removed(e) {
			continue
		}
		if _, dup := seen[e]; dup {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	for _, e := range s.Additions(form) {
		if _, dup := seen[e]; dup {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	return out
}
