package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vvka-141/testmeta/internal/coverage"
	"github.com/vvka-141/testmeta/internal/grouping"
	"github.com/vvka-141/testmeta/internal/hooks"
	"github.com/vvka-141/testmeta/internal/services"
	"github.com/vvka-141/testmeta/internal/tui"
	"github.com/vvka-141/testmeta/pkg/testmeta"
)

// outputFormat returns the validated --output value.
func outputFormat(cmd *cobra.Command) (string, error) {
	format, _ := cmd.Flags().GetString("output")
	for _, f := range outputFormats {
		if f == format {
			return format, nil
		}
	}
	return "", fmt.Errorf("invalid argument %q for --output: expected text, json or yaml", format)
}

// newPrinter creates a Printer for the command's output, styled only on a terminal.
func newPrinter(cmd *cobra.Command) *tui.Printer {
	out := cmd.OutOrStdout()
	f, ok := out.(*os.File)
	if !ok {
		return tui.NewPrinter(out, tui.ModePlain)
	}
	return tui.NewPrinter(out, tui.DetectMode(f)).WithWidth(tui.TerminalWidth(f, 80))
}

// writeStructured encodes v as JSON or YAML.
func writeStructured(out io.Writer, format string, v interface{}) error {
	switch format {
	case outputJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case outputYAML:
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

// formatLines renders line ranges as "file:start-end", files sorted.
func formatLines(lines coverage.LineRanges) []string {
	var out []string
	for _, file := range lines.Files() {
		for _, r := range lines[file] {
			out = append(out, file+":"+r.String())
		}
	}
	return out
}

func formatToggle(v *bool) string {
	if v == nil {
		return "unset"
	}
	if *v {
		return "enabled"
	}
	return "disabled"
}

func renderClassification(p *tui.Printer, groups []string, size string, deps []string, settings grouping.Settings) {
	p.Section("Classification")
	p.Field("Groups", tui.Join(groups))
	p.Field("Size", size)
	p.Field("Depends on", tui.Join(deps))
	p.Field("Backup globals", formatToggle(settings.BackupGlobals))
	p.Field("Backup statics", formatToggle(settings.BackupStaticProperties))
	p.Field("Preserve state", formatToggle(settings.PreserveGlobalState))
	p.Field("Separate process", strconv.FormatBool(settings.RunInSeparateProcess))
}

func renderRequirements(p *tui.Printer, missing []string, at string) {
	p.Section("Requirements")
	if len(missing) == 0 {
		p.Status(true, "all requirements met")
		return
	}
	for _, msg := range missing {
		p.Status(false, msg)
	}
	if at != "" {
		p.Field("Declared at", at)
	}
}

func renderCoverage(p *tui.Printer, r services.Report) {
	p.Section("Coverage")
	if r.CoverageError != "" {
		p.Status(false, r.CoverageError)
		return
	}
	p.Field("Collected", strconv.FormatBool(r.CoverageEnabled))
	p.Field("Covers", tui.Join(r.Covers))
	p.Field("Uses", tui.Join(r.Uses))
	if r.CoverageEnabled {
		p.Field("Lines covered", tui.Join(formatLines(r.LinesCovered)))
	}
	p.Field("Lines used", tui.Join(formatLines(r.LinesUsed)))
}

func renderHooks(p *tui.Printer, table hooks.HookMethodTable) {
	p.Section("Hooks")
	for _, kind := range testmeta.HookKinds {
		p.Field(kind.String(), tui.Join(table.Methods(kind)))
	}
}

func renderReport(p *tui.Printer, r services.Report) {
	p.Title("%s::%s", r.Class, r.Method)
	if r.Skipped() {
		p.Warning("skipped: requirements not met")
	}
	renderClassification(p, r.Groups, r.Size, r.Dependencies, r.Settings)
	renderRequirements(p, r.MissingRequirements, r.RequirementsAt)
	renderCoverage(p, r)
	renderHooks(p, r.Hooks)
}
