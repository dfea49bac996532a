package grouping

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/testmeta/internal/metadata"
	"github.com/vvka-141/testmeta/pkg/testmeta"
)

type mapReader struct {
	classes map[string]metadata.Collection
	methods map[string]metadata.Collection
	err     error
}

func (r mapReader) ForClass(className string) (metadata.Collection, error) {
	if r.err != nil {
		return metadata.Collection{}, r.err
	}
	c, ok := r.classes[className]
	if !ok {
		return metadata.Collection{}, fmt.Errorf("%s: %w", className, testmeta.ErrMetadataNotFound)
	}
	return c, nil
}

func (r mapReader) ForMethod(className, methodName string) (metadata.Collection, error) {
	if r.err != nil {
		return metadata.Collection{}, r.err
	}
	c, ok := r.methods[className+"::"+methodName]
	if !ok {
		return metadata.Collection{}, fmt.Errorf("%s::%s: %w", className, methodName, testmeta.ErrMetadataNotFound)
	}
	return c, nil
}

func boolPtr(b bool) *bool { return &b }

func TestGroups(t *testing.T) {
	class := metadata.NewCollection(
		metadata.Group{Name: "integration"},
		metadata.CoversClass{ClassName: `\App\Mailer\`},
		metadata.UsesFunction{FunctionName: `App\format`},
	)
	method := metadata.NewCollection(
		metadata.Group{Name: "integration"},
		metadata.Group{Name: "slow"},
		metadata.Covers{Target: `App\Mailer::Send`},
		metadata.UsesClass{ClassName: `App\Transport`},
		metadata.CoversClass{ClassName: `App\Mailer`},
	)

	groups := Groups(class, method)

	assert.Equal(t, []string{
		"integration",
		`__covers_app\mailer`,
		`__uses_::app\format`,
		"slow",
		`__covers_app\mailer::send`,
		`__uses_app\transport`,
	}, groups)
}

func TestGroups_OneSyntheticGroupPerTarget(t *testing.T) {
	method := metadata.NewCollection(
		metadata.CoversClass{ClassName: "A"},
		metadata.CoversMethod{ClassName: "B", MethodName: "run"},
		metadata.UsesClass{ClassName: "C"},
	)

	groups := Groups(metadata.Collection{}, method)

	assert.Equal(t, []string{"__covers_a", "__covers_b::run", "__uses_c"}, groups)
}

func TestGroups_FunctionTargetsKeepMapperPrefix(t *testing.T) {
	method := metadata.NewCollection(
		metadata.CoversFunction{FunctionName: `App\format`},
		metadata.Covers{Target: `::App\format`},
		metadata.UsesFunction{FunctionName: "strlen"},
	)

	groups := Groups(metadata.Collection{}, method)

	assert.Equal(t, []string{`__covers_::app\format`, "__uses_::strlen"}, groups)
}

func TestSizeOf(t *testing.T) {
	tests := []struct {
		name   string
		groups []string
		want   testmeta.TestSize
	}{
		{"large wins over small", []string{"large", "small"}, testmeta.SizeLarge},
		{"medium wins over small", []string{"small", "medium"}, testmeta.SizeMedium},
		{"small", []string{"db", "small"}, testmeta.SizeSmall},
		{"none", []string{"db"}, testmeta.SizeUnknown},
		{"empty", nil, testmeta.SizeUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SizeOf(tt.groups))
		})
	}
}

func TestDependencies_ClassThenMethod(t *testing.T) {
	class := metadata.NewCollection(metadata.DependsOnMethod{ClassName: "FooTest", MethodName: "testA"})
	method := metadata.NewCollection(
		metadata.DependsOnMethod{ClassName: "FooTest", MethodName: "testB", DeepClone: true},
		metadata.DependsOnMethod{ClassName: "FooTest", MethodName: "testA", ShallowClone: true},
		metadata.DependsOnClass{ClassName: `App\SetupTest`},
	)

	deps := Dependencies(class, method)

	assert.Equal(t, []string{"FooTest::testA", "FooTest::testB", `App\SetupTest::class`}, Tokens(deps))
	assert.False(t, deps[0].ShallowClone, "first occurrence keeps its flags")
	assert.True(t, deps[1].DeepClone)
	assert.True(t, deps[2].ClassDependency())
}

func TestResolveSettings(t *testing.T) {
	tests := []struct {
		name   string
		class  metadata.Collection
		method metadata.Collection
		want   Settings
	}{
		{"unset", metadata.Collection{}, metadata.Collection{}, Settings{}},
		{
			"class only",
			metadata.NewCollection(metadata.BackupGlobals{Enabled: true}, metadata.RunTestsInSeparateProcesses{}),
			metadata.Collection{},
			Settings{BackupGlobals: boolPtr(true), RunTestsInSeparateProcesses: true},
		},
		{
			"method wins",
			metadata.NewCollection(metadata.BackupGlobals{Enabled: true}, metadata.PreserveGlobalState{Enabled: true}),
			metadata.NewCollection(metadata.BackupGlobals{Enabled: false}, metadata.BackupStaticProperties{Enabled: true}),
			Settings{BackupGlobals: boolPtr(false), BackupStaticProperties: boolPtr(true), PreserveGlobalState: boolPtr(true)},
		},
		{
			"process isolation flags",
			metadata.NewCollection(metadata.RunClassInSeparateProcess{}, metadata.RunInSeparateProcess{}),
			metadata.NewCollection(metadata.RunInSeparateProcess{}),
			Settings{RunInSeparateProcess: true, RunClassInSeparateProcess: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveSettings(tt.class, tt.method))
		})
	}
}

func TestResolver_ReadsThroughReader(t *testing.T) {
	reader := mapReader{
		classes: map[string]metadata.Collection{
			"FooTest": metadata.NewCollection(
				metadata.Group{Name: "small"},
				metadata.DependsOnMethod{ClassName: "FooTest", MethodName: "testA"},
				metadata.RunClassInSeparateProcess{},
			),
		},
		methods: map[string]metadata.Collection{
			"FooTest::testB": metadata.NewCollection(
				metadata.Group{Name: "large"},
				metadata.BackupGlobals{Enabled: true},
				metadata.RunInSeparateProcess{},
			),
		},
	}
	r := NewResolver(reader, nil)

	groups, err := r.Groups("FooTest", "testB")
	require.NoError(t, err)
	assert.Equal(t, []string{"small", "large"}, groups)

	size, err := r.Size("FooTest", "testB")
	require.NoError(t, err)
	assert.Equal(t, testmeta.SizeLarge, size)

	deps, err := r.Dependencies("FooTest", "testB")
	require.NoError(t, err)
	assert.Equal(t, []string{"FooTest::testA"}, Tokens(deps))

	backup, err := r.BackupGlobals("FooTest", "testB")
	require.NoError(t, err)
	require.NotNil(t, backup)
	assert.True(t, *backup)

	static, err := r.BackupStaticProperties("FooTest", "testB")
	require.NoError(t, err)
	assert.Nil(t, static)

	preserve, err := r.PreserveGlobalState("FooTest", "testB")
	require.NoError(t, err)
	assert.Nil(t, preserve)

	isolated, err := r.RunInSeparateProcess("FooTest", "testB")
	require.NoError(t, err)
	assert.True(t, isolated)

	perTest, err := r.RunTestsInSeparateProcesses("FooTest")
	require.NoError(t, err)
	assert.False(t, perTest)

	perClass, err := r.RunClassInSeparateProcess("FooTest")
	require.NoError(t, err)
	assert.True(t, perClass)
}

func TestResolver_MissingMetadataIsEmpty(t *testing.T) {
	r := NewResolver(mapReader{}, nil)

	groups, err := r.Groups("Unknown", "testA")
	require.NoError(t, err)
	assert.Empty(t, groups)

	size, err := r.Size("Unknown", "testA")
	require.NoError(t, err)
	assert.Equal(t, testmeta.SizeUnknown, size)

	perClass, err := r.RunClassInSeparateProcess("Unknown")
	require.NoError(t, err)
	assert.False(t, perClass)
}

func TestResolver_ReaderFailure(t *testing.T) {
	r := NewResolver(mapReader{err: errors.New("corrupt cache")}, nil)

	_, err := r.Groups("FooTest", "testA")
	assert.ErrorContains(t, err, "corrupt cache")

	_, err = r.RunTestsInSeparateProcesses("FooTest")
	assert.ErrorContains(t, err, "corrupt cache")
}
