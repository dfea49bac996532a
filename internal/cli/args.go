package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// RequireClassName validates that exactly one class argument is provided.
func RequireClassName(cmd *cobra.Command, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf(`missing required argument: <class>

Usage: %s

Example:
  %s 'App\Tests\CartTest'

Use 'testmeta list' to see the test classes of the project.`, cmd.UseLine(), cmd.CommandPath())
	}
	if len(args) > 1 {
		return fmt.Errorf("accepts 1 arg(s), received %d", len(args))
	}
	return nil
}

// RequireTestRef validates that exactly one Class::method argument is provided.
func RequireTestRef(cmd *cobra.Command, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf(`missing required argument: <class>::<method>

Usage: %s

Example:
  %s 'App\Tests\CartTest::testAdd'`, cmd.UseLine(), cmd.CommandPath())
	}
	if len(args) > 1 {
		return fmt.Errorf("accepts 1 arg(s), received %d", len(args))
	}
	if _, _, err := splitTestRef(args[0]); err != nil {
		return err
	}
	return nil
}

// splitTestRef splits "Class::method" into its parts.
func splitTestRef(ref string) (className, methodName string, err error) {
	className, methodName, ok := strings.Cut(strings.TrimSpace(ref), "::")
	if !ok || className == "" || methodName == "" {
		return "", "", fmt.Errorf("invalid argument %q: expected <class>::<method>", ref)
	}
	return className, methodName, nil
}
