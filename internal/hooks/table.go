package hooks

import "github.com/vvka-141/testmeta/pkg/testmeta"

// HookMethodTable lists, per lifecycle point, the methods the runner calls in order.
type HookMethodTable struct {
	BeforeClass   []string `json:"beforeClass" yaml:"beforeClass"`
	Before        []string `json:"before" yaml:"before"`
	PreCondition  []string `json:"preCondition" yaml:"preCondition"`
	PostCondition []string `json:"postCondition" yaml:"postCondition"`
	After         []string `json:"after" yaml:"after"`
	AfterClass    []string `json:"afterClass" yaml:"afterClass"`
}

// DefaultTable returns a table holding only the conventional hook methods.
func DefaultTable() HookMethodTable {
	var t HookMethodTable
	for _, kind := range testmeta.HookKinds {
		*t.list(kind) = []string{kind.DefaultMethod()}
	}
	return t
}

// Methods returns the methods registered for kind.
func (t HookMethodTable) Methods(kind testmeta.HookKind) []string {
	l := t.list(kind)
	if l == nil {
		return nil
	}
	return append([]string(nil), *l...)
}

// Add registers a method for kind. Setup-style kinds run declared methods before
// the ones already registered, teardown-style kinds after. A method already
// registered for kind is not added again.
func (t *HookMethodTable) Add(kind testmeta.HookKind, method string) {
	l := t.list(kind)
	if l == nil {
		return
	}
	for _, existing := range *l {
		if existing == method {
			return
		}
	}
	if kind.Prepends() {
		*l = append([]string{method}, *l...)
		return
	}
	*l = append(*l, method)
}

func (t *HookMethodTable) list(kind testmeta.HookKind) *[]string {
	switch kind {
	case testmeta.HookBeforeClass:
		return &t.BeforeClass
	case testmeta.HookBefore:
		return &t.Before
	case testmeta.HookPreCondition:
		return &t.PreCondition
	case testmeta.HookPostCondition:
		return &t.PostCondition
	case testmeta.HookAfter:
		return &t.After
	case testmeta.HookAfterClass:
		return &t.AfterClass
	default:
		return nil
	}
}

func (t HookMethodTable) clone() HookMethodTable {
	var out HookMethodTable
	for _, kind := range testmeta.HookKinds {
		*out.list(kind) = t.Methods(kind)
	}
	return out
}
