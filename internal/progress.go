package internal

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

// UIManager handles all user interface concerns (spinners, verbose output, warnings)
type UIManager interface {
	// Spinners
	NewSpinner(description string) ProgressBar

	// Verbose output
	Verbose(format string, args ...any)

	// Status messages
	Printf(format string, args ...any)
	Println(args ...any)
	Warnf(format string, args ...any)
}

// ProgressBar interface abstracts progress bar operations
type ProgressBar interface {
	Describe(description string)
	Advance()
	Finish()
}

// StandardUIManager handles normal UI operations
type StandardUIManager struct {
	verbose  bool
	quiet    bool
	spinners bool
	out      io.Writer
	errOut   io.Writer
}

// NewUIManager writes status to stdout and warnings to stderr. Spinners are only
// drawn when stderr is a terminal.
func NewUIManager(verbose, quiet bool) UIManager {
	return &StandardUIManager{
		verbose:  verbose,
		quiet:    quiet,
		spinners: !quiet && !verbose && isTerminal(os.Stderr),
		out:      os.Stdout,
		errOut:   os.Stderr,
	}
}

// NewWriterUIManager writes everything to w and never draws spinners
func NewWriterUIManager(w io.Writer, verbose, quiet bool) UIManager {
	return &StandardUIManager{
		verbose: verbose,
		quiet:   quiet,
		out:     w,
		errOut:  w,
	}
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (ui *StandardUIManager) NewSpinner(description string) ProgressBar {
	if !ui.spinners {
		return &SilentProgressBar{}
	}

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(ui.errOut),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
	return &VisibleProgressBar{bar: bar}
}

// Verbose Output Methods
func (ui *StandardUIManager) Verbose(format string, args ...any) {
	if ui.verbose {
		fmt.Fprintf(ui.out, format, args...)
	}
}

// Status Message Methods
func (ui *StandardUIManager) Printf(format string, args ...any) {
	if !ui.quiet {
		fmt.Fprintf(ui.out, format, args...)
	}
}

func (ui *StandardUIManager) Println(args ...any) {
	if !ui.quiet {
		fmt.Fprintln(ui.out, args...)
	}
}

func (ui *StandardUIManager) Warnf(format string, args ...any) {
	fmt.Fprintf(ui.errOut, "Warning: "+format, args...)
}

// VisibleProgressBar wraps the actual progress bar
type VisibleProgressBar struct {
	bar *progressbar.ProgressBar
}

func (v *VisibleProgressBar) Describe(description string) {
	v.bar.Describe(description)
}

func (v *VisibleProgressBar) Advance() {
	_ = v.bar.Add(1)
}

func (v *VisibleProgressBar) Finish() {
	_ = v.bar.Finish()
}

// SilentProgressBar implements a silent progress bar
type SilentProgressBar struct{}

func (s *SilentProgressBar) Describe(description string) {}

func (s *SilentProgressBar) Advance() {}

func (s *SilentProgressBar) Finish() {}
