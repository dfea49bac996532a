package metadata

import "strings"

// Fact is one declarative assertion attached to a class or a method.
//
// The set of facts is closed: every case is a struct declared in this package,
// sealed by the unexported isFact marker. Resolvers switch over the concrete
// types; adding a case means visiting every such switch.
type Fact interface {
	isFact()
}

// CoverageTarget is implemented by the covers and uses facts that name a code unit.
type CoverageTarget interface {
	Fact
	// Reference returns the symbolic reference handed to the code-unit mapper.
	Reference() string
}

// Covers is a free-form covers target ("App\Foo", "App\Foo::bar", "::bar", "::fn").
type Covers struct{ Target string }

// CoversClass declares that a test covers every method of a class.
type CoversClass struct{ ClassName string }

// CoversMethod declares that a test covers one method of a class.
type CoversMethod struct {
	ClassName  string
	MethodName string
}

// CoversFunction declares that a test covers a free function.
type CoversFunction struct{ FunctionName string }

// CoversNothing disables coverage collection for the test.
type CoversNothing struct{}

// CoversDefaultClass records the class prefixed onto "::method" covers targets.
type CoversDefaultClass struct{ ClassName string }

// Uses is a free-form uses target.
type Uses struct{ Target string }

type UsesClass struct{ ClassName string }

type UsesMethod struct {
	ClassName  string
	MethodName string
}

type UsesFunction struct{ FunctionName string }

// UsesDefaultClass records the class prefixed onto "::method" uses targets.
type UsesDefaultClass struct{ ClassName string }

// Group assigns the test to a named group.
type Group struct{ Name string }

// Test marks a method as a test regardless of its name.
type Test struct{}

type Before struct{}

type After struct{}

type BeforeClass struct{}

type AfterClass struct{}

type PreCondition struct{}

type PostCondition struct{}

type BackupGlobals struct{ Enabled bool }

type BackupStaticProperties struct{ Enabled bool }

type PreserveGlobalState struct{ Enabled bool }

type RunInSeparateProcess struct{}

type RunTestsInSeparateProcesses struct{}

type RunClassInSeparateProcess struct{}

// DependsOnClass declares that every test of ClassName must pass first.
type DependsOnClass struct {
	ClassName    string
	DeepClone    bool
	ShallowClone bool
}

// DependsOnMethod declares an execution-order dependency on another test method.
type DependsOnMethod struct {
	ClassName    string
	MethodName   string
	DeepClone    bool
	ShallowClone bool
}

// RequirementKind identifies what a Requires fact constrains.
type RequirementKind int

const (
	RequiresRuntime RequirementKind = iota
	RequiresFramework
	RequiresOS
	RequiresOSFamily
	RequiresFunction
	RequiresSetting
	RequiresExtension
)

// String returns the annotation keyword for the requirement kind.
func (k RequirementKind) String() string {
	switch k {
	case RequiresRuntime:
		return "PHP"
	case RequiresFramework:
		return "PHPUnit"
	case RequiresOS:
		return "OS"
	case RequiresOSFamily:
		return "OSFAMILY"
	case RequiresFunction:
		return "function"
	case RequiresSetting:
		return "setting"
	case RequiresExtension:
		return "extension"
	default:
		return "unknown"
	}
}

// Location points at the source line a fact was declared on.
type Location struct {
	File string
	Line int
}

// IsZero returns true if no location was recorded.
func (l Location) IsZero() bool {
	return l.File == "" && l.Line == 0
}

// Requires declares an environment precondition.
//
// Which fields are meaningful depends on Kind:
//   - RequiresRuntime, RequiresFramework: Version+Operator, or Constraint
//   - RequiresOS, RequiresOSFamily: Value
//   - RequiresFunction: Operand (function or Class::method)
//   - RequiresSetting: Operand (setting name) and Value
//   - RequiresExtension: Operand (extension name), optionally Version+Operator
type Requires struct {
	Kind       RequirementKind
	Operand    string
	Version    string
	Operator   string
	Constraint string
	Value      string
	Location   Location
}

// Versioned returns true if the requirement carries a version to compare against.
func (r Requires) Versioned() bool {
	return r.Version != ""
}

func (Covers) isFact()                      {}
func (CoversClass) isFact()                 {}
func (CoversMethod) isFact()                {}
func (CoversFunction) isFact()              {}
func (CoversNothing) isFact()               {}
func (CoversDefaultClass) isFact()          {}
func (Uses) isFact()                        {}
func (UsesClass) isFact()                   {}
func (UsesMethod) isFact()                  {}
func (UsesFunction) isFact()                {}
func (UsesDefaultClass) isFact()            {}
func (Group) isFact()                       {}
func (Test) isFact()                        {}
func (Before) isFact()                      {}
func (After) isFact()                       {}
func (BeforeClass) isFact()                 {}
func (AfterClass) isFact()                  {}
func (PreCondition) isFact()                {}
func (PostCondition) isFact()               {}
func (BackupGlobals) isFact()               {}
func (BackupStaticProperties) isFact()      {}
func (PreserveGlobalState) isFact()         {}
func (RunInSeparateProcess) isFact()        {}
func (RunTestsInSeparateProcesses) isFact() {}
func (RunClassInSeparateProcess) isFact()   {}
func (DependsOnClass) isFact()              {}
func (DependsOnMethod) isFact()             {}
func (Requires) isFact()                    {}

func (f Covers) Reference() string         { return f.Target }
func (f CoversClass) Reference() string    { return f.ClassName }
func (f CoversMethod) Reference() string   { return f.ClassName + "::" + f.MethodName }
func (f CoversFunction) Reference() string { return "::" + strings.TrimPrefix(f.FunctionName, "::") }
func (f Uses) Reference() string           { return f.Target }
func (f UsesClass) Reference() string      { return f.ClassName }
func (f UsesMethod) Reference() string     { return f.ClassName + "::" + f.MethodName }
func (f UsesFunction) Reference() string   { return "::" + strings.TrimPrefix(f.FunctionName, "::") }
