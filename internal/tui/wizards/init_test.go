package wizards

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vvka-141/testmeta/pkg/testmeta"
)

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

func update(t *testing.T, m tea.Model, msg tea.Msg) (tea.Model, tea.Cmd) {
	t.Helper()
	return m.Update(msg)
}

// typeText sends every rune of s as its own key press.
func typeText(t *testing.T, m tea.Model, s string) tea.Model {
	t.Helper()
	for _, r := range s {
		m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func clearInput(t *testing.T, m tea.Model) tea.Model {
	t.Helper()
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlU})
	return m
}

func isQuitCmd(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func asInitWizard(t *testing.T, m tea.Model) InitWizard {
	t.Helper()
	w, ok := m.(InitWizard)
	if !ok {
		t.Fatalf("expected InitWizard, got %T", m)
	}
	return w
}

func testTemplates() []TemplateInfo {
	return []TemplateInfo{
		{Name: "basic", Description: "Example classes"},
		{Name: "minimal", Description: "One test class"},
	}
}

func TestInitWizard_InitialState(t *testing.T) {
	w := NewInitWizard(testTemplates(), "App")
	if w.step != initStepTemplate {
		t.Errorf("initial step = %d, want initStepTemplate (%d)", w.step, initStepTemplate)
	}
	if w.namespace.Value() != "App" {
		t.Errorf("namespace default = %q, want %q", w.namespace.Value(), "App")
	}
	if len(w.envInputs) != 3 {
		t.Errorf("environment form should have 3 inputs, got %d", len(w.envInputs))
	}
}

func TestInitWizard_FullHappyPath(t *testing.T) {
	var m tea.Model = NewInitWizard(testTemplates(), "App")

	// template: pick "minimal"
	m, _ = update(t, m, keyMsg("down"))
	m, _ = update(t, m, keyMsg("enter"))
	if w := asInitWizard(t, m); w.step != initStepNamespace {
		t.Fatalf("after template, step = %d, want initStepNamespace", w.step)
	}

	// namespace: replace "App" with Acme\Shop
	m = clearInput(t, m)
	m = typeText(t, m, `Acme\Shop`)
	m, _ = update(t, m, keyMsg("enter"))
	if w := asInitWizard(t, m); w.step != initStepEnvironment {
		t.Fatalf("after namespace, step = %d, want initStepEnvironment (err: %v)", w.step, w.err)
	}

	// environment: runtime, framework left empty, extensions
	m = typeText(t, m, "8.2.1")
	m, _ = update(t, m, keyMsg("enter"))
	m, _ = update(t, m, keyMsg("tab"))
	m = typeText(t, m, "intl, pdo=8.2.1")
	m, _ = update(t, m, keyMsg("enter"))
	w := asInitWizard(t, m)
	if w.step != initStepReview {
		t.Fatalf("after environment, step = %d, want initStepReview (err: %v)", w.step, w.err)
	}
	if !strings.Contains(w.View(), "runtime: 8.2.1") {
		t.Errorf("review should preview the environment, got:\n%s", w.View())
	}

	m, cmd := update(t, m, keyMsg("enter"))
	if !isQuitCmd(cmd) {
		t.Fatal("expected tea.Quit after confirming the review")
	}

	result := asInitWizard(t, m).Result()
	if result.Cancelled {
		t.Error("result should not be cancelled")
	}
	if result.Template != "minimal" {
		t.Errorf("template = %q, want minimal", result.Template)
	}
	if result.Namespace != `Acme\Shop` {
		t.Errorf("namespace = %q, want Acme\\Shop", result.Namespace)
	}
	if result.Environment.Runtime != "8.2.1" || result.Environment.Framework != "" {
		t.Errorf("environment versions = %q/%q, want 8.2.1/\"\"", result.Environment.Runtime, result.Environment.Framework)
	}
	wantExt := map[string]string{"intl": "", "pdo": "8.2.1"}
	if !reflect.DeepEqual(result.Environment.Extensions, wantExt) {
		t.Errorf("extensions = %v, want %v", result.Environment.Extensions, wantExt)
	}
}

func TestInitWizard_DefaultsKeepTemplateEnvironment(t *testing.T) {
	var m tea.Model = NewInitWizard(testTemplates(), "App")

	m, _ = update(t, m, keyMsg("enter"))
	m, _ = update(t, m, keyMsg("enter"))
	m, _ = update(t, m, keyMsg("enter"))
	m, _ = update(t, m, keyMsg("enter"))
	m, _ = update(t, m, keyMsg("enter"))
	m, cmd := update(t, m, keyMsg("enter"))

	if !isQuitCmd(cmd) {
		t.Fatal("expected tea.Quit")
	}
	result := asInitWizard(t, m).Result()
	if result.Template != "basic" || result.Namespace != "App" {
		t.Errorf("result = %+v, want basic/App", result)
	}
	if result.Environment.Runtime != "" || result.Environment.Extensions != nil {
		t.Errorf("empty answers should leave the environment empty, got %+v", result.Environment)
	}
}

func TestInitWizard_InvalidNamespaceStays(t *testing.T) {
	var m tea.Model = NewInitWizard(testTemplates(), "")

	m, _ = update(t, m, keyMsg("enter"))
	m = typeText(t, m, "9lives")
	m, _ = update(t, m, keyMsg("enter"))

	w := asInitWizard(t, m)
	if w.step != initStepNamespace {
		t.Errorf("step = %d, want initStepNamespace", w.step)
	}
	if !errors.Is(w.err, testmeta.ErrInvalidConfig) {
		t.Errorf("err = %v, want ErrInvalidConfig", w.err)
	}
	if !strings.Contains(w.View(), "not a valid namespace") {
		t.Error("view should show the namespace error")
	}
}

func TestInitWizard_InvalidVersionStays(t *testing.T) {
	var m tea.Model = NewInitWizard(testTemplates(), "App")

	m, _ = update(t, m, keyMsg("enter"))
	m, _ = update(t, m, keyMsg("enter"))
	m = typeText(t, m, "eight")
	m, _ = update(t, m, keyMsg("tab"))
	m, _ = update(t, m, keyMsg("tab"))
	m, _ = update(t, m, keyMsg("enter"))

	w := asInitWizard(t, m)
	if w.step != initStepEnvironment {
		t.Errorf("step = %d, want initStepEnvironment", w.step)
	}
	if !errors.Is(w.err, testmeta.ErrInvalidVersion) {
		t.Errorf("err = %v, want ErrInvalidVersion", w.err)
	}
}

func TestInitWizard_TypingQInNamespaceDoesNotQuit(t *testing.T) {
	var m tea.Model = NewInitWizard(testTemplates(), "")

	m, _ = update(t, m, keyMsg("enter"))
	m, cmd := update(t, m, keyMsg("q"))

	if isQuitCmd(cmd) {
		t.Fatal("q inside a text field must not quit")
	}
	if got := asInitWizard(t, m).namespace.Value(); got != "q" {
		t.Errorf("namespace = %q, want %q", got, "q")
	}
}

func TestInitWizard_EscNavigatesBack(t *testing.T) {
	var m tea.Model = NewInitWizard(testTemplates(), "App")

	m, _ = update(t, m, keyMsg("enter"))
	m, _ = update(t, m, keyMsg("enter"))
	m, _ = update(t, m, keyMsg("esc"))
	if w := asInitWizard(t, m); w.step != initStepNamespace {
		t.Errorf("esc from environment: step = %d, want initStepNamespace", w.step)
	}
	m, _ = update(t, m, keyMsg("esc"))
	if w := asInitWizard(t, m); w.step != initStepTemplate {
		t.Errorf("esc from namespace: step = %d, want initStepTemplate", w.step)
	}

	m, cmd := update(t, m, keyMsg("esc"))
	if !isQuitCmd(cmd) {
		t.Fatal("esc on the first step should quit")
	}
	if !asInitWizard(t, m).Result().Cancelled {
		t.Error("esc on the first step should cancel")
	}
}

func TestInitWizard_CtrlC_Cancels(t *testing.T) {
	var m tea.Model = NewInitWizard(testTemplates(), "App")
	m, _ = update(t, m, keyMsg("enter"))

	m, cmd := update(t, m, keyMsg("ctrl+c"))
	if !isQuitCmd(cmd) {
		t.Fatal("expected tea.Quit on ctrl+c")
	}
	if !asInitWizard(t, m).Result().Cancelled {
		t.Error("ctrl+c should cancel")
	}
}

func TestInitWizard_View_TemplateStep(t *testing.T) {
	w := NewInitWizard(testTemplates(), "App")
	view := w.View()
	for _, want := range []string{"Select a template", "basic", "minimal", "One test class"} {
		if !strings.Contains(view, want) {
			t.Errorf("template view missing %q", want)
		}
	}
}

func TestAvailableTemplates(t *testing.T) {
	templates, err := AvailableTemplates()
	if err != nil {
		t.Fatalf("AvailableTemplates: %v", err)
	}
	if len(templates) != 2 || templates[0].Name != "basic" || templates[1].Name != "minimal" {
		t.Fatalf("templates = %+v, want basic and minimal", templates)
	}
	for _, tmpl := range templates {
		if tmpl.Description == "" {
			t.Errorf("template %s has no description", tmpl.Name)
		}
	}
}
