// Package wizards holds the interactive bubbletea flows of the CLI.
package wizards

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/vvka-141/testmeta/internal/config"
	"github.com/vvka-141/testmeta/internal/params"
	"github.com/vvka-141/testmeta/internal/scaffold"
	"github.com/vvka-141/testmeta/internal/version"
)

// TemplateInfo holds template metadata for display.
type TemplateInfo struct {
	Name        string
	Description string
}

// AvailableTemplates lists the embedded scaffold templates with their descriptions.
func AvailableTemplates() ([]TemplateInfo, error) {
	names, err := scaffold.ListTemplates()
	if err != nil {
		return nil, err
	}
	templates := make([]TemplateInfo, 0, len(names))
	for _, name := range names {
		templates = append(templates, TemplateInfo{Name: name, Description: scaffold.Description(name)})
	}
	return templates, nil
}

// InitResult holds the answers of the init wizard. Empty environment values
// mean the template's own values are kept.
type InitResult struct {
	Cancelled   bool
	Template    string
	Namespace   string
	Environment config.EnvironmentConfig
}

// InitWizard asks for a template, a root namespace and the environment
// requirements are checked against.
type InitWizard struct {
	step initStep

	templates   []TemplateInfo
	templateIdx int

	namespace textinput.Model

	envInputs []textinput.Model
	envFocus  int

	err    error
	result InitResult

	width  int
	height int

	styles wizardStyles
	keys   wizardKeys
}

type initStep int

const (
	initStepTemplate initStep = iota
	initStepNamespace
	initStepEnvironment
	initStepReview
	initStepDone
)

const (
	envRuntime = iota
	envFramework
	envExtensions
)

type wizardStyles struct {
	Title       lipgloss.Style
	Subtitle    lipgloss.Style
	Selected    lipgloss.Style
	Unselected  lipgloss.Style
	Description lipgloss.Style
	Help        lipgloss.Style
	Error       lipgloss.Style
	Label       lipgloss.Style
}

type wizardKeys struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Back   key.Binding
	Quit   key.Binding
	Cancel key.Binding
	Tab    key.Binding
	Prev   key.Binding
}

func defaultWizardStyles() wizardStyles {
	return wizardStyles{
		Title:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).MarginBottom(1),
		Subtitle:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")).MarginBottom(1),
		Selected:    lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true),
		Unselected:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Description: lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginLeft(4),
		Help:        lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1),
		Error:       lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		Label:       lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12),
	}
}

// Quit ("q") only applies on steps without text input; Cancel works everywhere.
func defaultWizardKeys() wizardKeys {
	return wizardKeys{
		Up:     key.NewBinding(key.WithKeys("up", "k")),
		Down:   key.NewBinding(key.WithKeys("down", "j")),
		Select: key.NewBinding(key.WithKeys("enter")),
		Back:   key.NewBinding(key.WithKeys("esc")),
		Quit:   key.NewBinding(key.WithKeys("q")),
		Cancel: key.NewBinding(key.WithKeys("ctrl+c")),
		Tab:    key.NewBinding(key.WithKeys("tab", "down")),
		Prev:   key.NewBinding(key.WithKeys("shift+tab", "up")),
	}
}

// NewInitWizard creates an init wizard. The namespace field starts with namespace.
func NewInitWizard(templates []TemplateInfo, namespace string) InitWizard {
	ns := textinput.New()
	ns.Placeholder = `App\Tests`
	ns.CharLimit = 128
	ns.Width = 40
	ns.SetValue(namespace)

	return InitWizard{
		step:      initStepTemplate,
		templates: templates,
		namespace: ns,
		envInputs: newEnvironmentInputs(),
		width:     80,
		height:    24,
		styles:    defaultWizardStyles(),
		keys:      defaultWizardKeys(),
	}
}

func newEnvironmentInputs() []textinput.Model {
	placeholders := []string{"8.3.0", "10.5.0", "json=8.3.0, intl"}
	inputs := make([]textinput.Model, len(placeholders))
	for i, p := range placeholders {
		in := textinput.New()
		in.Placeholder = p
		in.CharLimit = 256
		in.Width = 40
		inputs[i] = in
	}
	return inputs
}

// Init implements tea.Model.
func (w InitWizard) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (w InitWizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w.width = msg.Width
		w.height = msg.Height
		return w, nil

	case tea.KeyMsg:
		if key.Matches(msg, w.keys.Cancel) {
			w.result.Cancelled = true
			return w, tea.Quit
		}

		switch w.step {
		case initStepTemplate:
			return w.updateTemplate(msg)
		case initStepNamespace:
			return w.updateNamespace(msg)
		case initStepEnvironment:
			return w.updateEnvironment(msg)
		case initStepReview:
			return w.updateReview(msg)
		}
	}

	return w, nil
}

func (w InitWizard) updateTemplate(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, w.keys.Up):
		if w.templateIdx > 0 {
			w.templateIdx--
		}
	case key.Matches(msg, w.keys.Down):
		if w.templateIdx < len(w.templates)-1 {
			w.templateIdx++
		}
	case key.Matches(msg, w.keys.Select):
		if len(w.templates) == 0 {
			return w, nil
		}
		w.result.Template = w.templates[w.templateIdx].Name
		w.step = initStepNamespace
		cmd := w.namespace.Focus()
		return w, cmd
	case key.Matches(msg, w.keys.Back), key.Matches(msg, w.keys.Quit):
		w.result.Cancelled = true
		return w, tea.Quit
	}
	return w, nil
}

func (w InitWizard) updateNamespace(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, w.keys.Select):
		ns := strings.Trim(strings.TrimSpace(w.namespace.Value()), `\`)
		if err := scaffold.ValidateNamespace(ns); err != nil {
			w.err = err
			return w, nil
		}
		w.err = nil
		w.result.Namespace = ns
		w.namespace.Blur()
		w.step = initStepEnvironment
		cmd := w.focusEnv(envRuntime)
		return w, cmd
	case key.Matches(msg, w.keys.Back):
		w.err = nil
		w.namespace.Blur()
		w.step = initStepTemplate
		return w, nil
	}

	var cmd tea.Cmd
	w.namespace, cmd = w.namespace.Update(msg)
	return w, cmd
}

func (w InitWizard) updateEnvironment(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, w.keys.Tab):
		if w.envFocus < len(w.envInputs)-1 {
			cmd := w.focusEnv(w.envFocus + 1)
			return w, cmd
		}
		return w, nil
	case key.Matches(msg, w.keys.Prev):
		if w.envFocus > 0 {
			cmd := w.focusEnv(w.envFocus - 1)
			return w, cmd
		}
		return w, nil
	case key.Matches(msg, w.keys.Select):
		if w.envFocus < len(w.envInputs)-1 {
			cmd := w.focusEnv(w.envFocus + 1)
			return w, cmd
		}
		env, err := w.buildEnvironment()
		if err != nil {
			w.err = err
			return w, nil
		}
		w.err = nil
		w.result.Environment = env
		w.envInputs[w.envFocus].Blur()
		w.step = initStepReview
		return w, nil
	case key.Matches(msg, w.keys.Back):
		w.err = nil
		w.envInputs[w.envFocus].Blur()
		w.step = initStepNamespace
		cmd := w.namespace.Focus()
		return w, cmd
	}

	var cmd tea.Cmd
	w.envInputs[w.envFocus], cmd = w.envInputs[w.envFocus].Update(msg)
	return w, cmd
}

func (w *InitWizard) focusEnv(idx int) tea.Cmd {
	w.envInputs[w.envFocus].Blur()
	w.envFocus = idx
	return w.envInputs[idx].Focus()
}

func (w InitWizard) buildEnvironment() (config.EnvironmentConfig, error) {
	var env config.EnvironmentConfig

	env.Runtime = strings.TrimSpace(w.envInputs[envRuntime].Value())
	if env.Runtime != "" {
		if err := version.Validate(env.Runtime); err != nil {
			return env, fmt.Errorf("runtime: %w", err)
		}
	}
	env.Framework = strings.TrimSpace(w.envInputs[envFramework].Value())
	if env.Framework != "" {
		if err := version.Validate(env.Framework); err != nil {
			return env, fmt.Errorf("framework: %w", err)
		}
	}

	var entries []string
	for _, part := range strings.Split(w.envInputs[envExtensions].Value(), ",") {
		if part = strings.TrimSpace(part); part != "" {
			entries = append(entries, part)
		}
	}
	if len(entries) == 0 {
		return env, nil
	}
	exts, err := params.ParseExtensions(entries)
	if err != nil {
		return env, fmt.Errorf("extensions: %w", err)
	}
	for name, v := range exts {
		if v == "" {
			continue
		}
		if err := version.Validate(v); err != nil {
			return env, fmt.Errorf("extension %s: %w", name, err)
		}
	}
	env.Extensions = exts
	return env, nil
}

func (w InitWizard) updateReview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, w.keys.Select):
		w.step = initStepDone
		return w, tea.Quit
	case key.Matches(msg, w.keys.Back):
		w.step = initStepEnvironment
		cmd := w.envInputs[w.envFocus].Focus()
		return w, cmd
	case key.Matches(msg, w.keys.Quit):
		w.result.Cancelled = true
		return w, tea.Quit
	}
	return w, nil
}

// View implements tea.Model.
func (w InitWizard) View() string {
	var b strings.Builder

	b.WriteString(w.styles.Title.Render("testmeta init - Project Setup"))
	b.WriteString("\n")

	switch w.step {
	case initStepTemplate:
		b.WriteString(w.viewTemplate())
	case initStepNamespace:
		b.WriteString(w.viewNamespace())
	case initStepEnvironment:
		b.WriteString(w.viewEnvironment())
	case initStepReview:
		b.WriteString(w.viewReview())
	}

	if w.err != nil {
		b.WriteString("\n")
		b.WriteString(w.styles.Error.Render(w.err.Error()))
		b.WriteString("\n")
	}

	return b.String()
}

func (w InitWizard) viewTemplate() string {
	var b strings.Builder

	b.WriteString(w.styles.Subtitle.Render("Select a template"))
	b.WriteString("\n\n")

	for i, t := range w.templates {
		cursor := "  "
		style := w.styles.Unselected
		symbol := "○"

		if i == w.templateIdx {
			cursor = ""
			style = w.styles.Selected
			symbol = "●"
		}

		b.WriteString(cursor)
		b.WriteString(style.Render(symbol + " " + t.Name))
		b.WriteString("\n")
		b.WriteString(w.styles.Description.Render(t.Description))
		b.WriteString("\n")
	}

	b.WriteString(w.styles.Help.Render("\n↑/↓ navigate • enter select • q quit"))

	return b.String()
}

func (w InitWizard) viewNamespace() string {
	var b strings.Builder

	b.WriteString(w.styles.Subtitle.Render("Root namespace of the example classes"))
	b.WriteString("\n\n")
	b.WriteString(w.namespace.View())
	b.WriteString("\n")
	b.WriteString(w.styles.Help.Render("\nenter continue • esc back"))

	return b.String()
}

func (w InitWizard) viewEnvironment() string {
	var b strings.Builder

	b.WriteString(w.styles.Subtitle.Render("Environment @requires is checked against"))
	b.WriteString("\n")
	b.WriteString(w.styles.Description.Render("Leave a field empty to keep the template's value"))
	b.WriteString("\n\n")

	labels := []string{"Runtime", "Framework", "Extensions"}
	for i, in := range w.envInputs {
		b.WriteString(w.styles.Label.Render(labels[i] + ":"))
		b.WriteString(in.View())
		b.WriteString("\n")
	}

	b.WriteString(w.styles.Help.Render("\ntab next field • enter continue • esc back"))

	return b.String()
}

func (w InitWizard) viewReview() string {
	var b strings.Builder

	b.WriteString(w.styles.Subtitle.Render("Review"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Template:  %s\n", w.result.Template))
	b.WriteString(fmt.Sprintf("Namespace: %s\n\n", w.result.Namespace))

	yamlBytes, _ := yaml.Marshal(struct {
		Environment config.EnvironmentConfig `yaml:"environment"`
	}{w.result.Environment})
	for _, line := range strings.Split(strings.TrimRight(string(yamlBytes), "\n"), "\n") {
		b.WriteString(w.styles.Description.Render(line))
		b.WriteString("\n")
	}

	b.WriteString(w.styles.Help.Render("\nenter create project • esc back • q quit"))

	return b.String()
}

// Result returns the wizard result.
func (w InitWizard) Result() InitResult {
	return w.result
}

// RunInitWizard runs the init wizard on the given terminal streams.
func RunInitWizard(in io.Reader, out io.Writer, namespace string) (InitResult, error) {
	templates, err := AvailableTemplates()
	if err != nil {
		return InitResult{Cancelled: true}, err
	}
	if len(templates) == 0 {
		return InitResult{Cancelled: true}, fmt.Errorf("no templates available")
	}

	p := tea.NewProgram(NewInitWizard(templates, namespace),
		tea.WithAltScreen(), tea.WithInput(in), tea.WithOutput(out))

	model, err := p.Run()
	if err != nil {
		return InitResult{Cancelled: true}, err
	}
	return model.(InitWizard).Result(), nil
}
