package testmeta

import "fmt"

// HookKind identifies a lifecycle point at which hook methods run.
type HookKind int

const (
	HookBeforeClass HookKind = iota
	HookBefore
	HookPreCondition
	HookPostCondition
	HookAfter
	HookAfterClass
)

// HookKinds lists every hook kind in lifecycle order.
var HookKinds = []HookKind{
	HookBeforeClass,
	HookBefore,
	HookPreCondition,
	HookPostCondition,
	HookAfter,
	HookAfterClass,
}

// String returns the conventional name of the hook kind.
func (k HookKind) String() string {
	switch k {
	case HookBeforeClass:
		return "beforeClass"
	case HookBefore:
		return "before"
	case HookPreCondition:
		return "preCondition"
	case HookPostCondition:
		return "postCondition"
	case HookAfter:
		return "after"
	case HookAfterClass:
		return "afterClass"
	default:
		return fmt.Sprintf("Unknown(%d)", k)
	}
}

// DefaultMethod returns the conventional method name the runner calls for the hook kind
// when no metadata declares additional hooks.
func (k HookKind) DefaultMethod() string {
	switch k {
	case HookBeforeClass:
		return "setUpBeforeClass"
	case HookBefore:
		return "setUp"
	case HookPreCondition:
		return "assertPreConditions"
	case HookPostCondition:
		return "assertPostConditions"
	case HookAfter:
		return "tearDown"
	case HookAfterClass:
		return "tearDownAfterClass"
	default:
		return ""
	}
}

// Prepends reports whether metadata-declared hooks of this kind run before the default.
// Setup-style hooks prepend; teardown-style hooks append.
func (k HookKind) Prepends() bool {
	return k == HookBeforeClass || k == HookBefore || k == HookPreCondition
}

// TestSize classifies a test by its declared size group.
type TestSize int

const (
	SizeUnknown TestSize = iota
	SizeSmall
	SizeMedium
	SizeLarge
)

// String returns the group name of the size.
func (s TestSize) String() string {
	switch s {
	case SizeSmall:
		return "small"
	case SizeMedium:
		return "medium"
	case SizeLarge:
		return "large"
	default:
		return "unknown"
	}
}

// IsKnown returns true if the size was declared.
func (s TestSize) IsKnown() bool {
	return s != SizeUnknown
}
