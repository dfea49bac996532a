package metadata

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/testmeta/pkg/testmeta"
)

func TestExtract_CoverageAnnotations(t *testing.T) {
	doc := `/**
 * @coversDefaultClass \App\Mailer
 * @covers ::send()
 * @covers \App\Transport
 * @coversClass App\Queue
 * @coversMethod App\Queue::push
 * @coversFunction App\format_address
 * @uses App\Logger
 * @usesDefaultClass App\Logger
 */`

	facts, err := Extract(doc, Source{ClassName: `App\MailerTest`})
	require.NoError(t, err)

	assert.Equal(t, []Fact{
		CoversDefaultClass{ClassName: `\App\Mailer`},
		Covers{Target: "::send"},
		Covers{Target: `\App\Transport`},
		CoversClass{ClassName: `App\Queue`},
		CoversMethod{ClassName: `App\Queue`, MethodName: "push"},
		CoversFunction{FunctionName: `App\format_address`},
		Uses{Target: `App\Logger`},
		UsesDefaultClass{ClassName: `App\Logger`},
	}, facts.Facts())
}

func TestExtract_IgnoresUnknownAnnotations(t *testing.T) {
	doc := `/**
 * Sends mail.
 *
 * @param string $to
 * @return void
 * @group mail
 */`

	facts, err := Extract(doc, Source{})
	require.NoError(t, err)
	assert.Equal(t, []Fact{Group{Name: "mail"}}, facts.Facts())
}

func TestExtract_SizesAndGroupAliases(t *testing.T) {
	doc := "@large\n@ticket 1234\n@author jane\n@small"

	facts, err := Extract(doc, Source{})
	require.NoError(t, err)
	assert.Equal(t, []Fact{
		Group{Name: "large"},
		Group{Name: "1234"},
		Group{Name: "jane"},
		Group{Name: "small"},
	}, facts.Facts())
}

func TestExtract_HooksAndFlags(t *testing.T) {
	doc := `/**
 * @test
 * @before
 * @after
 * @beforeClass
 * @afterClass
 * @preCondition
 * @postCondition
 * @backupGlobals enabled
 * @backupStaticAttributes disabled
 * @preserveGlobalState disabled
 * @runInSeparateProcess
 * @runTestsInSeparateProcesses
 * @runClassInSeparateProcess
 */`

	facts, err := Extract(doc, Source{})
	require.NoError(t, err)
	assert.Equal(t, []Fact{
		Test{}, Before{}, After{}, BeforeClass{}, AfterClass{}, PreCondition{}, PostCondition{},
		BackupGlobals{Enabled: true},
		BackupStaticProperties{Enabled: false},
		PreserveGlobalState{Enabled: false},
		RunInSeparateProcess{},
		RunTestsInSeparateProcesses{},
		RunClassInSeparateProcess{},
	}, facts.Facts())
}

func TestExtract_InvalidToggle(t *testing.T) {
	_, err := Extract("@backupGlobals maybe", Source{File: "tests/FooTest.php", Line: 3})
	require.Error(t, err)

	var metaErr *MetadataError
	require.True(t, errors.As(err, &metaErr))
	assert.Equal(t, "backupGlobals", metaErr.Field)
	assert.Equal(t, 3, metaErr.Line)
	assert.True(t, errors.Is(err, testmeta.ErrInvalidManifest))
}

func TestExtract_Depends(t *testing.T) {
	doc := `/**
 * @depends testCreate
 * @depends clone testRead
 * @depends shallowClone App\OtherTest::testList
 * @depends !clone ::testUpdate
 * @depends App\SetupTest::class
 */`

	facts, err := Extract(doc, Source{ClassName: `App\UserTest`})
	require.NoError(t, err)
	assert.Equal(t, []Fact{
		DependsOnMethod{ClassName: `App\UserTest`, MethodName: "testCreate"},
		DependsOnMethod{ClassName: `App\UserTest`, MethodName: "testRead", DeepClone: true},
		DependsOnMethod{ClassName: `App\OtherTest`, MethodName: "testList", ShallowClone: true},
		DependsOnMethod{ClassName: `App\UserTest`, MethodName: "testUpdate"},
		DependsOnClass{ClassName: `App\SetupTest`},
	}, facts.Facts())
}

func TestExtract_Requires(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  Requires
	}{
		{"runtime with operator", "PHP >= 8.0", Requires{Kind: RequiresRuntime, Version: "8.0", Operator: ">="}},
		{"runtime without operator", "PHP 7.4", Requires{Kind: RequiresRuntime, Version: "7.4"}},
		{"runtime dev version", "PHP < 8.1-dev", Requires{Kind: RequiresRuntime, Version: "8.1-dev", Operator: "<"}},
		{"runtime constraint", "PHP ^7.4 || ^8.0", Requires{Kind: RequiresRuntime, Constraint: "^7.4 || ^8.0"}},
		{"framework", "PHPUnit != 10.1", Requires{Kind: RequiresFramework, Version: "10.1", Operator: "!="}},
		{"framework constraint", "PHPUnit ~10.2", Requires{Kind: RequiresFramework, Constraint: "~10.2"}},
		{"os", "OS Linux|Darwin", Requires{Kind: RequiresOS, Value: "Linux|Darwin"}},
		{"os family", "OSFAMILY Windows", Requires{Kind: RequiresOSFamily, Value: "Windows"}},
		{"function", "function mb_strlen", Requires{Kind: RequiresFunction, Operand: "mb_strlen"}},
		{"static method", `function App\Util::now`, Requires{Kind: RequiresFunction, Operand: `App\Util::now`}},
		{"extension", "extension redis", Requires{Kind: RequiresExtension, Operand: "redis"}},
		{"extension version", "extension pdo >= 1.2.3", Requires{Kind: RequiresExtension, Operand: "pdo", Operator: ">=", Version: "1.2.3"}},
		{"setting", "setting date.timezone UTC", Requires{Kind: RequiresSetting, Operand: "date.timezone", Value: "UTC"}},
		{"setting without value", "setting display_errors", Requires{Kind: RequiresSetting, Operand: "display_errors"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			facts, err := Extract("@requires "+tt.value, Source{File: "t.php", Line: 10})
			require.NoError(t, err)

			got := facts.Requires()
			require.Len(t, got, 1)
			tt.want.Location = Location{File: "t.php", Line: 10}
			assert.Equal(t, tt.want, got[0])
		})
	}
}

func TestExtract_RequiresLineNumbers(t *testing.T) {
	doc := "/**\n * @requires PHP 8.0\n *\n * @requires extension intl\n */"

	facts, err := Extract(doc, Source{File: "a.php", Line: 20})
	require.NoError(t, err)

	reqs := facts.Requires()
	require.Len(t, reqs, 2)
	assert.Equal(t, 21, reqs[0].Location.Line)
	assert.Equal(t, 23, reqs[1].Location.Line)
}

func TestExtract_MalformedRequires(t *testing.T) {
	_, err := Extract("@requires nothing-useful here", Source{File: "a.php", Line: 5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "@requires")
	assert.Contains(t, err.Error(), "Hint:")
}

func TestExtract_MissingTarget(t *testing.T) {
	_, err := Extract("@covers", Source{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a target is required")

	_, err = Extract("@coversMethod App\\Foo", Source{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Class::method")
}

func TestExtractAndValidate_DuplicateDefaultClass(t *testing.T) {
	doc := "@coversDefaultClass A\n@coversDefaultClass B"

	_, err := ExtractAndValidate(doc, Source{ClassName: "FooTest"}, LevelClass)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "more than one @coversDefaultClass")
	assert.True(t, errors.Is(err, testmeta.ErrInvalidManifest))
}

func TestExtractAndValidate_SinglePipeConstraint(t *testing.T) {
	facts, err := ExtractAndValidate("@requires PHP ^7.4 | ^8.0", Source{ClassName: "FooTest"}, LevelMethod)
	require.NoError(t, err)

	reqs := facts.Requires()
	require.Len(t, reqs, 1)
	assert.Equal(t, "^7.4 | ^8.0", reqs[0].Constraint)
}

func TestExtractAndValidate_BadConstraint(t *testing.T) {
	_, err := ExtractAndValidate("@requires PHP ^^8", Source{ClassName: "FooTest"}, LevelMethod)
	require.Error(t, err)
}
