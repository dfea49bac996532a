package coverage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentity_Deterministic(t *testing.T) {
	a := NewClassUnit(`App\Mailer`, "a.php", LineRange{Start: 1, End: 2})
	b := NewClassUnit(`\app\MAILER`, "b.php", LineRange{Start: 3, End: 4})

	assert.Equal(t, a.ID(), b.ID(), "class names are case-insensitive")
	assert.NotEqual(t, a.ID(), NewMethodUnit(`App\Mailer`, "send", "a.php", LineRange{}).ID())
	assert.NotEqual(t, NewFunctionUnit("send", "", LineRange{}).ID(), NewMethodUnit("", "send", "", LineRange{}).ID())
}

func TestCanonicalName(t *testing.T) {
	assert.Equal(t, `app\mailer`, CanonicalName(`\App\Mailer`))
	assert.Equal(t, `app\mailer::send`, CanonicalName(`App\Mailer::send\`))
}

func TestCodeUnit_Reference(t *testing.T) {
	assert.Equal(t, `App\Mailer`, NewClassUnit(`\App\Mailer`, "", LineRange{}).Reference())
	assert.Equal(t, `App\Mailer::send`, NewMethodUnit(`App\Mailer`, "send", "", LineRange{}).Reference())
	assert.Equal(t, "::strlen", NewFunctionUnit("strlen", "", LineRange{}).Reference())
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "Class", KindClass.String())
	assert.Equal(t, "Method", KindMethod.String())
	assert.Equal(t, "Function", KindFunction.String())
	assert.Equal(t, "Unknown", Kind(42).String())
}

func TestCodeUnitSet_UnionDeduplicates(t *testing.T) {
	a := NewClassUnit("A", "a.php", LineRange{})
	b := NewClassUnit("B", "b.php", LineRange{})
	c := NewClassUnit("C", "c.php", LineRange{})

	left := NewCodeUnitSet(a, b, a)
	right := NewCodeUnitSet(b, c)

	union := left.Union(right)

	assert.Equal(t, 2, left.Len())
	assert.Equal(t, []string{"A", "B", "C"}, union.References())
	assert.True(t, union.Contains(c))
	assert.Equal(t, 2, left.Len(), "union must not modify its operands")
}

func TestCodeUnitSet_ZeroValue(t *testing.T) {
	var s CodeUnitSet
	assert.True(t, s.IsEmpty())
	assert.False(t, s.Contains(NewClassUnit("A", "", LineRange{})))
	assert.Equal(t, 1, s.With(NewClassUnit("A", "", LineRange{})).Len())
	assert.True(t, s.IsEmpty())
}

func TestLineRanges_Normalize(t *testing.T) {
	l := LineRanges{}
	l.Add("a.php", LineRange{Start: 10, End: 20})
	l.Add("a.php", LineRange{Start: 1, End: 5})
	l.Add("a.php", LineRange{Start: 15, End: 30})
	l.Add("a.php", LineRange{Start: 31, End: 31})
	l.Add("b.php", LineRange{Start: 7, End: 7})

	n := l.Normalize()

	assert.Equal(t, []LineRange{{Start: 1, End: 5}, {Start: 10, End: 31}}, n["a.php"])
	assert.Equal(t, []string{"a.php", "b.php"}, n.Files())
	assert.Len(t, l["a.php"], 4, "normalize must not modify the receiver")
}

func TestLineRange_String(t *testing.T) {
	assert.Equal(t, "7", LineRange{Start: 7, End: 7}.String())
	assert.Equal(t, "7-9", LineRange{Start: 7, End: 9}.String())
}
