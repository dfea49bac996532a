package requirements

import (
	"strconv"

	"github.com/vvka-141/testmeta/internal/metadata"
)

// Keys of a requirement tree.
const (
	KeyRuntime             = "PHP"
	KeyRuntimeConstraint   = "PHP_constraint"
	KeyFramework           = "PHPUnit"
	KeyFrameworkConstraint = "PHPUnit_constraint"
	KeyOS                  = "OS"
	KeyOSFamily            = "OSFAMILY"
	KeyFunctions           = "functions"
	KeySettings            = "setting"
	KeyExtensions          = "extensions"
	KeyExtensionVersions   = "extension_versions"
	KeyOffset              = "__OFFSET"
	KeyOffsetFile          = "__FILE"

	fieldVersion    = "version"
	fieldOperator   = "operator"
	fieldConstraint = "constraint"
)

// Tree is an insertion-ordered requirement tree. Values are strings, ints,
// nested *Tree values or lists ([]any).
type Tree struct {
	keys   []string
	values map[string]any
}

// NewTree creates an empty tree.
func NewTree() *Tree {
	return &Tree{values: make(map[string]any)}
}

// Set stores a value, keeping the key's original position when it already exists.
func (t *Tree) Set(key string, value any) {
	if _, ok := t.values[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.values[key] = value
}

// Get returns the value stored under key.
func (t *Tree) Get(key string) (any, bool) {
	if t == nil {
		return nil, false
	}
	v, ok := t.values[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (t *Tree) Keys() []string {
	if t == nil {
		return nil
	}
	return append([]string(nil), t.keys...)
}

// Len returns the number of keys.
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}
	return len(t.keys)
}

// IsEmpty returns true for a nil or empty tree.
func (t *Tree) IsEmpty() bool {
	return t.Len() == 0
}

func (t *Tree) subtree(key string) *Tree {
	v, _ := t.Get(key)
	sub, _ := v.(*Tree)
	return sub
}

func (t *Tree) ensureSubtree(key string) *Tree {
	if sub := t.subtree(key); sub != nil {
		return sub
	}
	sub := NewTree()
	t.Set(key, sub)
	return sub
}

func (t *Tree) str(key string) string {
	v, _ := t.Get(key)
	s, _ := v.(string)
	return s
}

func (t *Tree) list(key string) []any {
	v, _ := t.Get(key)
	l, _ := v.([]any)
	return l
}

func (t *Tree) appendTo(key string, value any) {
	t.Set(key, append(t.list(key), value))
}

// ToMap converts the tree into plain maps and slices, for serialization.
func (t *Tree) ToMap() map[string]any {
	out := make(map[string]any, t.Len())
	for _, k := range t.Keys() {
		out[k] = plain(t.values[k])
	}
	return out
}

func plain(v any) any {
	switch val := v.(type) {
	case *Tree:
		return val.ToMap()
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = plain(item)
		}
		return out
	default:
		return v
	}
}

func clone(v any) any {
	switch val := v.(type) {
	case *Tree:
		out := NewTree()
		for _, k := range val.keys {
			out.Set(k, clone(val.values[k]))
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = clone(item)
		}
		return out
	default:
		return v
	}
}

// MergeRecursive merges b into a copy of a, key by key. Nested trees merge
// recursively, lists append, and any other value from b overwrites a's.
// Neither argument is modified.
func MergeRecursive(a, b *Tree) *Tree {
	var out *Tree
	if a == nil {
		out = NewTree()
	} else {
		out = clone(a).(*Tree)
	}
	if b == nil {
		return out
	}

	for _, key := range b.keys {
		value := b.values[key]
		existing, ok := out.values[key]
		if !ok {
			out.Set(key, clone(value))
			continue
		}
		switch v := value.(type) {
		case *Tree:
			if et, isTree := existing.(*Tree); isTree {
				out.Set(key, MergeRecursive(et, v))
				continue
			}
		case []any:
			if el, isList := existing.([]any); isList {
				out.Set(key, append(el, clone(v).([]any)...))
				continue
			}
		}
		out.Set(key, clone(value))
	}
	return out
}

// BuildTree turns the Requires facts of one scope into a requirement tree.
// An offset subtree recording the declaring file and per-requirement lines is
// added when any fact carries a location.
func BuildTree(reqs []metadata.Requires) *Tree {
	tree := NewTree()
	offset := NewTree()

	for _, r := range reqs {
		var hint string
		switch r.Kind {
		case metadata.RequiresRuntime, metadata.RequiresFramework:
			key := KeyRuntime
			if r.Kind == metadata.RequiresFramework {
				key = KeyFramework
			}
			if r.Versioned() {
				entry := NewTree()
				entry.Set(fieldVersion, r.Version)
				entry.Set(fieldOperator, r.Operator)
				tree.Set(key, entry)
				hint = key
			} else {
				entry := NewTree()
				entry.Set(fieldConstraint, r.Constraint)
				tree.Set(key+"_constraint", entry)
				hint = key + "_constraint"
			}
		case metadata.RequiresOS:
			tree.Set(KeyOS, r.Value)
			hint = KeyOS
		case metadata.RequiresOSFamily:
			tree.Set(KeyOSFamily, r.Value)
			hint = KeyOSFamily
		case metadata.RequiresFunction:
			tree.appendTo(KeyFunctions, r.Operand)
			hint = functionHint(r.Operand)
		case metadata.RequiresSetting:
			tree.ensureSubtree(KeySettings).Set(r.Operand, r.Value)
			hint = settingHint(r.Operand)
		case metadata.RequiresExtension:
			tree.appendTo(KeyExtensions, r.Operand)
			if r.Versioned() {
				entry := NewTree()
				entry.Set(fieldVersion, r.Version)
				entry.Set(fieldOperator, r.Operator)
				tree.ensureSubtree(KeyExtensionVersions).Set(r.Operand, entry)
			}
			hint = extensionHint(r.Operand)
		default:
			continue
		}

		if r.Location.IsZero() {
			continue
		}
		if r.Location.File != "" {
			if _, ok := offset.Get(KeyOffsetFile); !ok {
				offset.Set(KeyOffsetFile, r.Location.File)
			}
		}
		if r.Location.Line > 0 {
			offset.Set(hint, r.Location.Line)
		}
	}

	if offset.Len() > 0 {
		tree.Set(KeyOffset, offset)
	}
	return tree
}

func functionHint(name string) string  { return "function_" + name }
func settingHint(name string) string   { return "__SETTING_" + name }
func extensionHint(name string) string { return "extension_" + name }

// offsetLine returns the line recorded for hint, defaulting to 1.
func offsetLine(offset *Tree, hint string) int {
	v, ok := offset.Get(hint)
	if !ok {
		return 1
	}
	switch line := v.(type) {
	case int:
		return line
	case string:
		if n, err := strconv.Atoi(line); err == nil {
			return n
		}
	}
	return 1
}
