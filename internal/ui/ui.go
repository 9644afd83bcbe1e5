// Package ui renders the operator-facing prompts of the mapper. Colors
// follow the original tool's palette and are dropped when stdout is not a
// terminal.
package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

const (
	ansiBlue   = "\033[94m"
	ansiCyan   = "\033[96m"
	ansiGreen  = "\033[92m"
	ansiYellow = "\033[93m"
	ansiRed    = "\033[91m"
	ansiBold   = "\033[1m"
	ansiDim    = "\033[2m"
	ansiReset  = "\033[0m"
)

// Printer writes status lines and prompts to the terminal.
type Printer struct {
	out   io.Writer
	in    *bufio.Reader
	color bool
}

// New returns a Printer on stdout/stdin. Color is enabled only when stdout
// is a terminal and forceOff is false.
func New(forceOff bool) *Printer {
	color := !forceOff && term.IsTerminal(int(os.Stdout.Fd()))
	return &Printer{out: os.Stdout, in: bufio.NewReader(os.Stdin), color: color}
}

// NewWriter returns a Printer on the given streams, used by tests.
func NewWriter(out io.Writer, in io.Reader, color bool) *Printer {
	return &Printer{out: out, in: bufio.NewReader(in), color: color}
}

func (p *Printer) paint(code, text string) string {
	if !p.color {
		return text
	}
	return code + text + ansiReset
}

// Header prints the banner the original mapper greeted with.
func (p *Printer) Header() {
	banner := "" +
		"╔═══════════════════════════════════════════════════════════╗\n" +
		"║         SNES Controller Mapper for GRUB                   ║\n" +
		"║         Configure your controller for bootloader          ║\n" +
		"╚═══════════════════════════════════════════════════════════╝"
	fmt.Fprintln(p.out, p.paint(ansiCyan+ansiBold, banner))
}

// Step prints a numbered phase marker.
func (p *Printer) Step(step, total int, text string) {
	fmt.Fprintf(p.out, "\n%s %s\n\n",
		p.paint(ansiBlue, fmt.Sprintf("[%d/%d]", step, total)),
		p.paint(ansiBold, text))
}

func (p *Printer) Success(format string, args ...any) {
	fmt.Fprintln(p.out, p.paint(ansiGreen, "✓ "+fmt.Sprintf(format, args...)))
}

func (p *Printer) Error(format string, args ...any) {
	fmt.Fprintln(p.out, p.paint(ansiRed, "✗ "+fmt.Sprintf(format, args...)))
}

func (p *Printer) Info(format string, args ...any) {
	fmt.Fprintln(p.out, p.paint(ansiCyan, "ℹ "+fmt.Sprintf(format, args...)))
}

func (p *Printer) Warn(format string, args ...any) {
	fmt.Fprintln(p.out, p.paint(ansiYellow, "⚠ "+fmt.Sprintf(format, args...)))
}

func (p *Printer) Dim(format string, args ...any) {
	fmt.Fprintln(p.out, p.paint(ansiDim, fmt.Sprintf(format, args...)))
}

// PressPrompt announces which button the operator should press next.
func (p *Printer) PressPrompt(label string) {
	fmt.Fprintf(p.out, "\n%s\n", p.paint(ansiYellow, ">>> Press "+label+" <<<"))
}

// Select prompts for a 1-based choice until a valid one is entered.
func (p *Printer) Select(prompt string, max int) (int, error) {
	for {
		fmt.Fprint(p.out, p.paint(ansiYellow, fmt.Sprintf("%s (1-%d): ", prompt, max)))
		line, err := p.in.ReadString('\n')
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(strings.TrimSpace(line))
		if err == nil && n >= 1 && n <= max {
			return n - 1, nil
		}
		p.Error("Invalid choice, try again")
	}
}
