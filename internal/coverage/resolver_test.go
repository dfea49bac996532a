package coverage

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/testmeta/internal/introspect"
	"github.com/vvka-141/testmeta/internal/metadata"
	"github.com/vvka-141/testmeta/pkg/testmeta"
)

type mapReader struct {
	classes map[string]metadata.Collection
	methods map[string]metadata.Collection
}

func (r mapReader) ForClass(className string) (metadata.Collection, error) {
	c, ok := r.classes[className]
	if !ok {
		return metadata.Collection{}, fmt.Errorf("%s: %w", className, testmeta.ErrMetadataNotFound)
	}
	return c, nil
}

func (r mapReader) ForMethod(className, methodName string) (metadata.Collection, error) {
	c, ok := r.methods[className+"::"+methodName]
	if !ok {
		return metadata.Collection{}, fmt.Errorf("%s::%s: %w", className, methodName, testmeta.ErrMetadataNotFound)
	}
	return c, nil
}

type fakeMapper struct {
	units map[string]CodeUnit
}

func (m fakeMapper) Resolve(target string) (CodeUnit, error) {
	u, ok := m.units[target]
	if !ok {
		return CodeUnit{}, fmt.Errorf("unknown target %s: %w", target, testmeta.ErrInvalidCoverageTarget)
	}
	return u, nil
}

func (m fakeMapper) ToLineRanges(units CodeUnitSet) LineRanges {
	out := LineRanges{}
	for _, u := range units.Units() {
		out.Add(u.File, u.Lines)
	}
	return out.Normalize()
}

type fakeInspector struct {
	interfaces map[string]bool
}

func (f fakeInspector) ClassExists(string) bool                      { return true }
func (f fakeInspector) InterfaceExists(name string) bool             { return f.interfaces[name] }
func (f fakeInspector) MethodExists(string, string) bool             { return true }
func (f fakeInspector) FunctionExists(string) bool                   { return true }
func (f fakeInspector) Methods(string) ([]introspect.Method, error) { return nil, nil }

var (
	mailerClass = NewClassUnit(`App\Mailer`, "src/Mailer.php", LineRange{Start: 5, End: 40})
	mailerSend  = NewMethodUnit(`App\Mailer`, "send", "src/Mailer.php", LineRange{Start: 12, End: 20})
	helperFunc  = NewFunctionUnit(`App\format`, "src/functions.php", LineRange{Start: 3, End: 6})
	transport   = NewClassUnit(`App\Transport`, "src/Transport.php", LineRange{Start: 1, End: 9})
)

func newTestResolver(reader mapReader) *Resolver {
	mapper := fakeMapper{units: map[string]CodeUnit{
		`App\Mailer`:         mailerClass,
		`App\Mailer::send`:   mailerSend,
		`::App\format`:       helperFunc,
		`App\format`:         helperFunc,
		`App\Transport`:      transport,
		`App\TransportLike`:  transport,
		`App\Mailer::unsent`: mailerSend,
	}}
	inspector := fakeInspector{interfaces: map[string]bool{`App\TransportLike`: true}}
	return NewResolver(reader, mapper, inspector, nil)
}

func scoped(class, method metadata.Collection) mapReader {
	return mapReader{
		classes: map[string]metadata.Collection{"MailerTest": class},
		methods: map[string]metadata.Collection{"MailerTest::testSend": method},
	}
}

func TestCodeUnitsToBeCovered_Eligibility(t *testing.T) {
	tests := []struct {
		name    string
		class   metadata.Collection
		method  metadata.Collection
		enabled bool
	}{
		{"no facts", metadata.Collection{}, metadata.Collection{}, true},
		{"method covers nothing", metadata.Collection{}, metadata.NewCollection(metadata.CoversNothing{}), false},
		{"class covers nothing", metadata.NewCollection(metadata.CoversNothing{}), metadata.Collection{}, false},
		{
			"method covers wins over method covers nothing",
			metadata.Collection{},
			metadata.NewCollection(metadata.CoversNothing{}, metadata.CoversClass{ClassName: `App\Mailer`}),
			true,
		},
		{
			"method covers wins over class covers nothing",
			metadata.NewCollection(metadata.CoversNothing{}),
			metadata.NewCollection(metadata.Covers{Target: `App\Mailer`}),
			true,
		},
		{
			"class covers do not override class covers nothing",
			metadata.NewCollection(metadata.CoversNothing{}, metadata.CoversClass{ClassName: `App\Mailer`}),
			metadata.Collection{},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestResolver(scoped(tt.class, tt.method))
			_, enabled, err := r.CodeUnitsToBeCovered("MailerTest", "testSend")
			require.NoError(t, err)
			assert.Equal(t, tt.enabled, enabled)
		})
	}
}

func TestCodeUnitsToBeCovered_MethodThenClassOrder(t *testing.T) {
	r := newTestResolver(scoped(
		metadata.NewCollection(metadata.CoversClass{ClassName: `App\Transport`}),
		metadata.NewCollection(metadata.CoversMethod{ClassName: `App\Mailer`, MethodName: "send"}, metadata.CoversFunction{FunctionName: `App\format`}),
	))

	units, enabled, err := r.CodeUnitsToBeCovered("MailerTest", "testSend")
	require.NoError(t, err)
	assert.True(t, enabled)
	assert.Equal(t, []string{`App\Mailer::send`, `::App\format`, `App\Transport`}, units.References())
}

func TestCodeUnitsToBeCovered_Deduplicates(t *testing.T) {
	r := newTestResolver(scoped(
		metadata.NewCollection(metadata.CoversClass{ClassName: `App\Mailer`}),
		metadata.NewCollection(metadata.Covers{Target: `App\Mailer`}, metadata.CoversClass{ClassName: `App\Mailer`}),
	))

	units, _, err := r.CodeUnitsToBeCovered("MailerTest", "testSend")
	require.NoError(t, err)
	assert.Equal(t, 1, units.Len())
}

func TestCodeUnitsToBeCovered_DefaultClassShortcut(t *testing.T) {
	shortcut := newTestResolver(scoped(
		metadata.NewCollection(metadata.CoversDefaultClass{ClassName: `App\Mailer`}),
		metadata.NewCollection(metadata.Covers{Target: "::send"}),
	))
	explicit := newTestResolver(scoped(
		metadata.Collection{},
		metadata.NewCollection(metadata.Covers{Target: `App\Mailer::send`}),
	))

	viaShortcut, _, err := shortcut.CodeUnitsToBeCovered("MailerTest", "testSend")
	require.NoError(t, err)
	viaExplicit, _, err := explicit.CodeUnitsToBeCovered("MailerTest", "testSend")
	require.NoError(t, err)

	assert.Equal(t, viaExplicit.References(), viaShortcut.References())
	assert.True(t, viaShortcut.Contains(mailerSend))
}

func TestCodeUnitsToBeCovered_AmbiguousDefaultClass(t *testing.T) {
	r := newTestResolver(scoped(
		metadata.NewCollection(
			metadata.CoversDefaultClass{ClassName: `App\Mailer`},
			metadata.CoversDefaultClass{ClassName: `App\Transport`},
		),
		metadata.NewCollection(metadata.Covers{Target: "::send"}),
	))

	_, _, err := r.CodeUnitsToBeCovered("MailerTest", "testSend")
	require.Error(t, err)
	assert.True(t, errors.Is(err, testmeta.ErrAmbiguousDefaultClass))
	assert.Contains(t, err.Error(), `"MailerTest"`)
}

func TestCodeUnitsToBeCovered_InterfaceRejected(t *testing.T) {
	r := newTestResolver(scoped(
		metadata.Collection{},
		metadata.NewCollection(metadata.Covers{Target: `App\TransportLike`}),
	))

	_, _, err := r.CodeUnitsToBeCovered("MailerTest", "testSend")
	require.Error(t, err)
	assert.Equal(t, `Trying to @covers interface "App\TransportLike".`, err.Error())
	assert.True(t, errors.Is(err, testmeta.ErrInvalidCoverageTarget))
}

func TestCodeUnitsToBeCovered_InvalidTypedTarget(t *testing.T) {
	tests := []struct {
		name string
		fact metadata.Fact
		kind string
		msg  string
	}{
		{"class", metadata.CoversClass{ClassName: `App\Missing`}, "Class", `Class "App\Missing" is not a valid target for code coverage`},
		{"method", metadata.CoversMethod{ClassName: `App\Mailer`, MethodName: "gone"}, "Method", `Method "App\Mailer::gone" is not a valid target for code coverage`},
		{"function", metadata.CoversFunction{FunctionName: "missing"}, "Function", `Function "missing" is not a valid target for code coverage`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestResolver(scoped(metadata.Collection{}, metadata.NewCollection(tt.fact)))

			_, _, err := r.CodeUnitsToBeCovered("MailerTest", "testSend")

			var targetErr *CoverageTargetError
			require.True(t, errors.As(err, &targetErr))
			assert.Equal(t, tt.kind, targetErr.Kind)
			assert.Equal(t, tt.msg, err.Error())
			assert.True(t, errors.Is(err, testmeta.ErrInvalidCoverageTarget))
		})
	}
}

func TestCodeUnitsToBeCovered_InvalidFreeFormTarget(t *testing.T) {
	r := newTestResolver(scoped(metadata.Collection{}, metadata.NewCollection(metadata.Covers{Target: "Nope"})))

	_, _, err := r.CodeUnitsToBeCovered("MailerTest", "testSend")
	require.Error(t, err)
	assert.Equal(t, `"@covers Nope" is invalid`, err.Error())
}

func TestCodeUnitsToBeCovered_MissingMetadataIsEmpty(t *testing.T) {
	r := newTestResolver(mapReader{})

	units, enabled, err := r.CodeUnitsToBeCovered("Unknown", "testSend")
	require.NoError(t, err)
	assert.True(t, enabled)
	assert.True(t, units.IsEmpty())
}

func TestLinesToBeCovered(t *testing.T) {
	r := newTestResolver(scoped(
		metadata.Collection{},
		metadata.NewCollection(metadata.CoversClass{ClassName: `App\Mailer`}, metadata.CoversMethod{ClassName: `App\Mailer`, MethodName: "send"}),
	))

	lines, enabled, err := r.LinesToBeCovered("MailerTest", "testSend")
	require.NoError(t, err)
	assert.True(t, enabled)
	assert.Equal(t, LineRanges{"src/Mailer.php": {{Start: 5, End: 40}}}, lines)
}

func TestLinesToBeCovered_Disabled(t *testing.T) {
	r := newTestResolver(scoped(metadata.NewCollection(metadata.CoversNothing{}), metadata.Collection{}))

	lines, enabled, err := r.LinesToBeCovered("MailerTest", "testSend")
	require.NoError(t, err)
	assert.False(t, enabled)
	assert.Nil(t, lines)
}

func TestLinesToBeUsed(t *testing.T) {
	r := newTestResolver(scoped(
		metadata.NewCollection(metadata.CoversNothing{}, metadata.UsesDefaultClass{ClassName: `App\Mailer`}),
		metadata.NewCollection(metadata.Uses{Target: "::send"}, metadata.UsesClass{ClassName: `App\Transport`}),
	))

	lines, err := r.LinesToBeUsed("MailerTest", "testSend")
	require.NoError(t, err)
	assert.Equal(t, LineRanges{
		"src/Mailer.php":    {{Start: 12, End: 20}},
		"src/Transport.php": {{Start: 1, End: 9}},
	}, lines)
}

func TestCodeUnitsToBeUsed_InterfaceAllowed(t *testing.T) {
	r := newTestResolver(scoped(metadata.Collection{}, metadata.NewCollection(metadata.Uses{Target: `App\TransportLike`})))

	units, err := r.CodeUnitsToBeUsed("MailerTest", "testSend")
	require.NoError(t, err)
	assert.Equal(t, 1, units.Len())
}

func TestCodeUnitsToBeUsed_AmbiguousDefaultClass(t *testing.T) {
	r := newTestResolver(scoped(
		metadata.NewCollection(
			metadata.UsesDefaultClass{ClassName: `App\Mailer`},
			metadata.UsesDefaultClass{ClassName: `App\Transport`},
		),
		metadata.Collection{},
	))

	_, err := r.CodeUnitsToBeUsed("MailerTest", "testSend")
	assert.True(t, errors.Is(err, testmeta.ErrAmbiguousDefaultClass))
	assert.Contains(t, err.Error(), "@usesDefaultClass")
}

func TestCodeUnitsToBeUsed_InvalidTarget(t *testing.T) {
	r := newTestResolver(scoped(metadata.Collection{}, metadata.NewCollection(metadata.Uses{Target: "Nope"})))

	_, err := r.CodeUnitsToBeUsed("MailerTest", "testSend")
	assert.Equal(t, `"@uses Nope" is invalid`, err.Error())
}
