package tui

import (
	"io"
	"os"

	"golang.org/x/term"
)

// Mode is how reports are written to the terminal.
type Mode int

const (
	// ModePlain writes unstyled text: pipes, files, CI logs.
	ModePlain Mode = iota
	// ModeStyled writes colored output for a human at a terminal.
	ModeStyled
)

// DetectMode decides how to write to out.
//
// Returns ModePlain if:
//   - TESTMETA_PLAIN=1 is set
//   - CI is set (common CI/CD convention)
//   - NO_COLOR is set
//   - out is not a terminal
//
// Returns ModeStyled otherwise.
func DetectMode(out *os.File) Mode {
	if os.Getenv("TESTMETA_PLAIN") == "1" {
		return ModePlain
	}
	if os.Getenv("CI") != "" {
		return ModePlain
	}
	if os.Getenv("NO_COLOR") != "" {
		return ModePlain
	}
	if out == nil || !term.IsTerminal(int(out.Fd())) {
		return ModePlain
	}
	return ModeStyled
}

// IsInteractive reports whether a human can answer prompts: in and out are both
// terminals and neither TESTMETA_NON_INTERACTIVE=1 nor CI is set.
func IsInteractive(in io.Reader, out io.Writer) bool {
	if os.Getenv("TESTMETA_NON_INTERACTIVE") == "1" || os.Getenv("CI") != "" {
		return false
	}
	inFile, ok := in.(*os.File)
	if !ok || !term.IsTerminal(int(inFile.Fd())) {
		return false
	}
	outFile, ok := out.(*os.File)
	return ok && term.IsTerminal(int(outFile.Fd()))
}

// TerminalWidth returns the width of out, or fallback when it is not a terminal.
func TerminalWidth(out *os.File, fallback int) int {
	if out == nil {
		return fallback
	}
	width, _, err := term.GetSize(int(out.Fd()))
	if err != nil || width <= 0 {
		return fallback
	}
	return width
}
