package skills

// Set is a set of skill phrases.
type Set map[string]struct{}

// NewSet returns a set holding items.
func NewSet(items ...string) Set {
	s := make(Set, len(items))
	for _, item := range items {
		s[item] = struct{}{}
	}
	return s
}

func (s Set) Has(skill string) bool {
	_, ok := s[skill]
	return ok
}

func (s Set) Len() int { return len(s) }

// Intersect returns the skills present in both sets.
func (s Set) Intersect(other Set) Set {
	out := make(Set)
	for skill := range s {
		if other.Has(skill) {
			out[skill] = struct{}{}
		}
	}
	return out
}

// Difference returns the skills of s missing from other.
func (s Set) Difference(other Set) Set {
	out := make(Set)
	for skill := range s {
		if !other.Has(skill) {
			out[skill] = struct{}{}
		}
	}
	return out
}
