package metadata

// Collection is an ordered, immutable sequence of facts declared on one class or one method.
//
// The zero value is an empty collection.
type Collection struct {
	facts []Fact
}

// NewCollection creates a collection holding facts in declaration order.
func NewCollection(facts ...Fact) Collection {
	if len(facts) == 0 {
		return Collection{}
	}
	owned := make([]Fact, len(facts))
	copy(owned, facts)
	return Collection{facts: owned}
}

// Facts returns a copy of the facts in declaration order.
func (c Collection) Facts() []Fact {
	result := make([]Fact, len(c.facts))
	copy(result, c.facts)
	return result
}

// Len returns the number of facts.
func (c Collection) Len() int {
	return len(c.facts)
}

// IsEmpty returns true if the collection holds no facts.
func (c Collection) IsEmpty() bool {
	return len(c.facts) == 0
}

// IsNotEmpty returns true if the collection holds at least one fact.
func (c Collection) IsNotEmpty() bool {
	return len(c.facts) > 0
}

// MergeWith returns a collection holding c's facts followed by other's facts.
// Neither operand is modified.
func (c Collection) MergeWith(other Collection) Collection {
	if other.IsEmpty() {
		return c
	}
	if c.IsEmpty() {
		return other
	}
	merged := make([]Fact, 0, len(c.facts)+len(other.facts))
	merged = append(merged, c.facts...)
	merged = append(merged, other.facts...)
	return Collection{facts: merged}
}

// Filter returns the facts for which keep returns true, preserving order.
func (c Collection) Filter(keep func(Fact) bool) Collection {
	var kept []Fact
	for _, f := range c.facts {
		if keep(f) {
			kept = append(kept, f)
		}
	}
	return Collection{facts: kept}
}

// OfType returns the facts of c whose concrete type is T.
func OfType[T Fact](c Collection) []T {
	var result []T
	for _, f := range c.facts {
		if typed, ok := f.(T); ok {
			result = append(result, typed)
		}
	}
	return result
}

// Has returns true if c holds at least one fact of type T.
func Has[T Fact](c Collection) bool {
	for _, f := range c.facts {
		if _, ok := f.(T); ok {
			return true
		}
	}
	return false
}

// Covers returns every fact naming a covers target (free-form, class, method, function).
func (c Collection) Covers() Collection {
	return c.Filter(func(f Fact) bool {
		switch f.(type) {
		case Covers, CoversClass, CoversMethod, CoversFunction:
			return true
		default:
			return false
		}
	})
}

// Uses returns every fact naming a uses target.
func (c Collection) Uses() Collection {
	return c.Filter(func(f Fact) bool {
		switch f.(type) {
		case Uses, UsesClass, UsesMethod, UsesFunction:
			return true
		default:
			return false
		}
	})
}

// Depends returns every execution-order dependency fact.
func (c Collection) Depends() Collection {
	return c.Filter(func(f Fact) bool {
		switch f.(type) {
		case DependsOnClass, DependsOnMethod:
			return true
		default:
			return false
		}
	})
}

// Requires returns every requirement fact.
func (c Collection) Requires() []Requires {
	return OfType[Requires](c)
}

// Targets returns the coverage targets of c in order.
func (c Collection) Targets() []CoverageTarget {
	return OfType[CoverageTarget](c)
}
