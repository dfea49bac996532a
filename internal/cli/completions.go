package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/vvka-141/testmeta/internal/scaffold"
)

const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

// outputFormats contains valid --output values for shell completion.
var outputFormats = []string{outputText, outputJSON, outputYAML}

// completeOutputFormats provides shell completion for the output flag.
func completeOutputFormats(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return filterPrefix(outputFormats, toComplete), cobra.ShellCompDirectiveNoFileComp
}

// completeTemplateNames provides shell completion for template names.
func completeTemplateNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	templates, err := scaffold.ListTemplates()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return filterPrefix(templates, toComplete), cobra.ShellCompDirectiveNoFileComp
}

// completeClassNames provides shell completion for class names declared in the manifest.
func completeClassNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	project, err := openProject(cmd)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return filterPrefix(project.Manifest.Classes(), toComplete), cobra.ShellCompDirectiveNoFileComp
}

// completeTestRefs provides shell completion for Class::method references of test methods.
func completeTestRefs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	project, err := openProject(cmd)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	var refs []string
	for _, className := range project.Manifest.Classes() {
		if !strings.HasPrefix(toComplete, className) && !strings.HasPrefix(className, toComplete) {
			continue
		}
		tests, err := project.Service.TestMethods(className)
		if err != nil {
			continue
		}
		for _, m := range tests {
			refs = append(refs, className+"::"+m.Name)
		}
	}
	return filterPrefix(refs, toComplete), cobra.ShellCompDirectiveNoFileComp
}

func filterPrefix(values []string, prefix string) []string {
	var matches []string
	for _, v := range values {
		if strings.HasPrefix(v, prefix) {
			matches = append(matches, v)
		}
	}
	return matches
}
