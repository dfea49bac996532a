package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vvka-141/testmeta/internal/config"
	"github.com/vvka-141/testmeta/internal/logging"
	"github.com/vvka-141/testmeta/internal/scaffold"
	"github.com/vvka-141/testmeta/internal/tui"
	"github.com/vvka-141/testmeta/internal/tui/wizards"
)

var initCmd = &cobra.Command{
	Use:   "init [target_path]",
	Short: "Initialize a testmeta project",
	Long: `Initialize a testmeta project with:
- testmeta.yaml describing the environment requirements are checked against
- testmeta.manifest.yaml with example classes and docblocks
- settings.env with runtime settings (basic template)

An existing testmeta.yaml is never overwritten; other existing files are kept.

On an interactive terminal, when neither --template nor --namespace is given,
a wizard asks for the template, the namespace and the environment (runtime,
framework and extension versions). Set TESTMETA_NON_INTERACTIVE=1 to skip it.

Examples:
  testmeta init                          # Initialize in current directory
  testmeta init ./myproject --namespace 'Acme\Shop'
  testmeta init --template minimal

Available templates:
  basic    - Example classes covering coverage, requirements, groups and hooks
  minimal  - One test class, no settings file`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

var (
	initTemplate  string
	initNamespace string
	initList      bool
)

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().StringVarP(&initTemplate, "template", "t", "basic", "Template to use (basic, minimal)")
	initCmd.Flags().StringVar(&initNamespace, "namespace", "App", "Root namespace of the example classes")
	initCmd.Flags().BoolVar(&initList, "list", false, "List available templates")

	_ = initCmd.RegisterFlagCompletionFunc("template", completeTemplateNames)
}

func runInit(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if initList {
		templates, err := scaffold.ListTemplates()
		if err != nil {
			return fmt.Errorf("failed to list templates: %w", err)
		}
		for _, t := range templates {
			fmt.Fprintln(out, t)
		}
		return nil
	}

	targetPath := "."
	if len(args) == 1 {
		targetPath = args[0]
	}

	template, namespace := initTemplate, initNamespace
	var env *config.EnvironmentConfig
	if useInitWizard(cmd) {
		result, err := wizards.RunInitWizard(cmd.InOrStdin(), cmd.OutOrStdout(), initNamespace)
		if err != nil {
			return fmt.Errorf("init wizard failed: %w", err)
		}
		if result.Cancelled {
			fmt.Fprintln(out, "Cancelled.")
			return nil
		}
		template, namespace, env = result.Template, result.Namespace, &result.Environment
	}

	logger := logging.NewConsoleLogger(getVerboseFlag(cmd))
	scaffolder := scaffold.NewScaffolder(logger)
	written, err := scaffolder.CreateProject(namespace, template, targetPath)
	if err != nil {
		return err
	}
	if env != nil {
		if err := scaffolder.ApplyEnvironment(targetPath, *env); err != nil {
			return err
		}
	}

	p := newPrinter(cmd)
	p.Title("Initialized testmeta project in %s", targetPath)
	p.List(written)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintf(out, "  testmeta list -C %s\n", targetPath)
	fmt.Fprintf(out, "  testmeta resolve <class> -C %s\n", targetPath)
	return nil
}

// useInitWizard reports whether init should ask interactively instead of
// relying on flags.
func useInitWizard(cmd *cobra.Command) bool {
	if cmd.Flags().Changed("template") || cmd.Flags().Changed("namespace") {
		return false
	}
	return tui.IsInteractive(cmd.InOrStdin(), cmd.OutOrStdout())
}
