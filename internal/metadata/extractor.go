package metadata

import (
	"fmt"
	"regexp"
	"strings"
)

// Source describes where a docblock was declared.
type Source struct {
	ClassName string // Class declaring the docblock; resolves relative @depends targets
	File      string // File path for diagnostics and requirement locations
	Line      int    // Line number of the docblock's first line (1-based, 0 if unknown)
}

// annotation is one "@name value" line found in a docblock.
type annotation struct {
	name  string
	value string
	line  int
}

var (
	requiresVersionRegex    = regexp.MustCompile(`^(?P<name>PHP(?:Unit)?)\s+(?P<operator>[<>=!]{0,2})\s*(?P<version>[\d.-]+(dev|(RC|alpha|beta)[\d.])?)[ \t]*$`)
	requiresConstraintRegex = regexp.MustCompile(`^(?P<name>PHP(?:Unit)?)\s+(?P<constraint>[\d\t \-.|~^]+)[ \t]*$`)
	requiresOSRegex         = regexp.MustCompile(`^(?P<name>OS(?:FAMILY)?)\s+(?P<value>.+?)[ \t]*$`)
	requiresSettingRegex    = regexp.MustCompile(`^setting\s+(?P<setting>\S+)(?:\s+(?P<value>[\w.-]+))?[ \t]*$`)
	requiresRegex           = regexp.MustCompile(`^(?P<name>function|extension)\s+(?P<value>[^\s<>=!]+)\s*(?P<operator>[<>=!]{0,2})\s*(?P<version>[\d.-]+[\d.]?)?[ \t]*$`)

	trailingCallRegex = regexp.MustCompile(`[\s()]+$`)
)

// Extract parses the annotations of a docblock into facts.
//
// Algorithm:
//  1. Strip the comment delimiters and leading asterisks of every line
//  2. Collect lines starting with "@" as annotations, recording their line number
//  3. Convert each known annotation into its fact; unknown annotations are ignored
//
// Error cases:
//   - Annotation missing a required value → MetadataError
//   - Malformed @requires, @depends or enabled/disabled value → MetadataError
func Extract(doc string, src Source) (Collection, error) {
	var facts []Fact
	for _, a := range scanAnnotations(doc, src.Line) {
		f, err := src.toFact(a)
		if err != nil {
			return Collection{}, err
		}
		if f != nil {
			facts = append(facts, f)
		}
	}
	return NewCollection(facts...), nil
}

// ExtractAndValidate combines extraction and validation in one call.
func ExtractAndValidate(doc string, src Source, level Level) (Collection, error) {
	facts, err := Extract(doc, src)
	if err != nil {
		return Collection{}, err
	}

	result := Validate(facts, level)
	if !result.Valid {
		subject := src.ClassName
		if subject == "" {
			subject = src.File
		}
		return Collection{}, formatValidationErrors(result, fmt.Sprintf("%s %s", level, subject))
	}

	return facts, nil
}

func scanAnnotations(doc string, firstLine int) []annotation {
	var result []annotation
	for i, raw := range strings.Split(doc, "\n") {
		line := strings.TrimSpace(raw)
		line = strings.TrimPrefix(line, "/**")
		line = strings.TrimSuffix(line, "*/")
		line = strings.TrimSpace(line)
		line = strings.TrimSpace(strings.TrimLeft(line, "*"))
		if !strings.HasPrefix(line, "@") {
			continue
		}

		name, value := line[1:], ""
		if sep := strings.IndexAny(name, " \t"); sep >= 0 {
			name, value = name[:sep], name[sep+1:]
		}

		lineNum := 0
		if firstLine > 0 {
			lineNum = firstLine + i
		}
		result = append(result, annotation{name: name, value: strings.TrimSpace(value), line: lineNum})
	}
	return result
}

func (src Source) toFact(a annotation) (Fact, error) {
	switch a.name {
	case "covers":
		target, err := src.target(a)
		return Covers{Target: target}, err
	case "coversClass":
		target, err := src.target(a)
		return CoversClass{ClassName: target}, err
	case "coversMethod":
		class, method, err := src.classMethod(a)
		return CoversMethod{ClassName: class, MethodName: method}, err
	case "coversFunction":
		target, err := src.target(a)
		return CoversFunction{FunctionName: target}, err
	case "coversNothing":
		return CoversNothing{}, nil
	case "coversDefaultClass":
		target, err := src.target(a)
		return CoversDefaultClass{ClassName: target}, err
	case "uses":
		target, err := src.target(a)
		return Uses{Target: target}, err
	case "usesClass":
		target, err := src.target(a)
		return UsesClass{ClassName: target}, err
	case "usesMethod":
		class, method, err := src.classMethod(a)
		return UsesMethod{ClassName: class, MethodName: method}, err
	case "usesFunction":
		target, err := src.target(a)
		return UsesFunction{FunctionName: target}, err
	case "usesDefaultClass":
		target, err := src.target(a)
		return UsesDefaultClass{ClassName: target}, err
	case "group", "ticket", "author":
		if a.value == "" {
			return nil, src.errorf(a, "a group name is required", "Example: @group integration")
		}
		return Group{Name: a.value}, nil
	case "small", "medium", "large":
		return Group{Name: a.name}, nil
	case "test":
		return Test{}, nil
	case "before":
		return Before{}, nil
	case "after":
		return After{}, nil
	case "beforeClass":
		return BeforeClass{}, nil
	case "afterClass":
		return AfterClass{}, nil
	case "preCondition":
		return PreCondition{}, nil
	case "postCondition":
		return PostCondition{}, nil
	case "backupGlobals":
		enabled, err := src.toggle(a)
		return BackupGlobals{Enabled: enabled}, err
	case "backupStaticAttributes", "backupStaticProperties":
		enabled, err := src.toggle(a)
		return BackupStaticProperties{Enabled: enabled}, err
	case "preserveGlobalState":
		enabled, err := src.toggle(a)
		return PreserveGlobalState{Enabled: enabled}, err
	case "runInSeparateProcess":
		return RunInSeparateProcess{}, nil
	case "runTestsInSeparateProcesses":
		return RunTestsInSeparateProcesses{}, nil
	case "runClassInSeparateProcess":
		return RunClassInSeparateProcess{}, nil
	case "depends":
		return src.depends(a)
	case "requires":
		return src.requires(a)
	default:
		return nil, nil
	}
}

func (src Source) target(a annotation) (string, error) {
	value := trailingCallRegex.ReplaceAllString(a.value, "")
	value, _, _ = strings.Cut(value, " ")
	if value == "" {
		return "", src.errorf(a, "a target is required", "Example: @"+a.name+` App\Service\Mailer`)
	}
	return value, nil
}

func (src Source) classMethod(a annotation) (string, string, error) {
	target, err := src.target(a)
	if err != nil {
		return "", "", err
	}
	class, method, ok := strings.Cut(target, "::")
	if !ok || class == "" || method == "" {
		return "", "", src.errorf(a, fmt.Sprintf("%q is not a Class::method reference", target),
			"Example: @"+a.name+` App\Service\Mailer::send`)
	}
	return class, method, nil
}

func (src Source) toggle(a annotation) (bool, error) {
	switch strings.ToLower(a.value) {
	case "enabled":
		return true, nil
	case "disabled":
		return false, nil
	default:
		return false, src.errorf(a, fmt.Sprintf("expected \"enabled\" or \"disabled\", got %q", a.value), "")
	}
}

func (src Source) depends(a annotation) (Fact, error) {
	value := a.value
	var deep, shallow bool
	switch {
	case strings.HasPrefix(value, "clone "):
		deep = true
		value = strings.TrimPrefix(value, "clone ")
	case strings.HasPrefix(value, "!clone "):
		value = strings.TrimPrefix(value, "!clone ")
	case strings.HasPrefix(value, "shallowClone "):
		shallow = true
		value = strings.TrimPrefix(value, "shallowClone ")
	case strings.HasPrefix(value, "!shallowClone "):
		value = strings.TrimPrefix(value, "!shallowClone ")
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, src.errorf(a, "a dependency target is required", "Example: @depends testCreate")
	}

	class, method, ok := strings.Cut(value, "::")
	if !ok {
		return DependsOnMethod{ClassName: src.ClassName, MethodName: value, DeepClone: deep, ShallowClone: shallow}, nil
	}
	if method == "class" {
		return DependsOnClass{ClassName: class, DeepClone: deep, ShallowClone: shallow}, nil
	}
	if class == "" {
		class = src.ClassName
	}
	return DependsOnMethod{ClassName: class, MethodName: method, DeepClone: deep, ShallowClone: shallow}, nil
}

func (src Source) requires(a annotation) (Fact, error) {
	loc := Location{File: src.File, Line: a.line}

	if m := submatches(requiresVersionRegex, a.value); m != nil {
		return Requires{Kind: versionKind(m["name"]), Version: m["version"], Operator: m["operator"], Location: loc}, nil
	}
	if m := submatches(requiresConstraintRegex, a.value); m != nil {
		return Requires{Kind: versionKind(m["name"]), Constraint: strings.TrimSpace(m["constraint"]), Location: loc}, nil
	}
	if m := submatches(requiresOSRegex, a.value); m != nil {
		kind := RequiresOS
		if m["name"] == "OSFAMILY" {
			kind = RequiresOSFamily
		}
		return Requires{Kind: kind, Value: m["value"], Location: loc}, nil
	}
	if m := submatches(requiresSettingRegex, a.value); m != nil {
		return Requires{Kind: RequiresSetting, Operand: m["setting"], Value: m["value"], Location: loc}, nil
	}
	if m := submatches(requiresRegex, a.value); m != nil {
		kind := RequiresFunction
		if m["name"] == "extension" {
			kind = RequiresExtension
		}
		return Requires{Kind: kind, Operand: m["value"], Version: m["version"], Operator: m["operator"], Location: loc}, nil
	}

	return nil, src.errorf(a, fmt.Sprintf("cannot parse %q", a.value),
		"Supported forms:\n"+
			"  @requires PHP >= 8.1\n"+
			"  @requires PHPUnit ^10.0\n"+
			"  @requires OS Linux|Darwin\n"+
			"  @requires OSFAMILY Windows\n"+
			"  @requires function mb_strlen\n"+
			"  @requires extension pdo_sqlite >= 3.0\n"+
			"  @requires setting date.timezone UTC")
}

func (src Source) errorf(a annotation, message, hint string) error {
	return &MetadataError{
		FilePath: src.File,
		Line:     a.line,
		Field:    a.name,
		Message:  message,
		Hint:     hint,
	}
}

func versionKind(name string) RequirementKind {
	if name == "PHPUnit" {
		return RequiresFramework
	}
	return RequiresRuntime
}

func submatches(re *regexp.Regexp, s string) map[string]string {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return nil
	}
	result := make(map[string]string, len(m))
	for i, name := range re.SubexpNames() {
		if name != "" {
			result[name] = m[i]
		}
	}
	return result
}
