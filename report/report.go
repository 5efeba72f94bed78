// Package report prints errors for humans: the message, the offending
// source line and a caret under the column.
package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/text/width"

	"github.com/ohadk123/kc/lex"
)

type Reporter struct {
	w       io.Writer
	sources map[string][]string

	loc   lipgloss.Style
	msg   lipgloss.Style
	src   lipgloss.Style
	caret lipgloss.Style
}

// New returns a Reporter writing to w. color is auto, always or never.
func New(w io.Writer, color string) *Reporter {
	re := lipgloss.NewRenderer(w)
	switch color {
	case "always":
		re.SetColorProfile(termenv.ANSI256)
	case "never":
		re.SetColorProfile(termenv.Ascii)
	}
	return &Reporter{
		w:       w,
		sources: make(map[string][]string),
		loc:     re.NewStyle().Bold(true),
		msg:     re.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true),
		src:     re.NewStyle().Foreground(lipgloss.Color("#94A3B8")),
		caret:   re.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true),
	}
}

// AddSource registers the text of a file that is not on disk, such as an
// expression given on the command line.
func (r *Reporter) AddSource(name string, src []byte) {
	r.sources[name] = strings.Split(string(src), "\n")
}

// Report prints err. Errors that unwrap to several errors, like a
// parse.ErrorList, are printed one after another.
func (r *Reporter) Report(err error) {
	if err == nil {
		return
	}
	if multi, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range multi.Unwrap() {
			r.Report(e)
		}
		return
	}
	var errLoc *lex.ErrorLoc
	if !errors.As(err, &errLoc) {
		fmt.Fprintln(r.w, paint(r.msg, err.Error()))
		return
	}
	pos := errLoc.Pos
	fmt.Fprintf(r.w, "%s: %s\n", paint(r.loc, pos.String()), paint(r.msg, errLoc.Err.Error()))
	line, ok := r.line(pos)
	if !ok {
		return
	}
	fmt.Fprintln(r.w, paint(r.src, strings.ReplaceAll(line, "\t", "    ")))
	fmt.Fprintf(r.w, "%s%s\n", strings.Repeat(" ", caretOffset(line, pos.Col)), paint(r.caret, "^"))
}

func (r *Reporter) line(pos lex.FilePos) (string, bool) {
	lines, ok := r.sources[pos.File]
	if !ok {
		if pos.File == "" {
			return "", false
		}
		src, err := os.ReadFile(pos.File)
		if err != nil {
			return "", false
		}
		r.AddSource(pos.File, src)
		lines = r.sources[pos.File]
	}
	if pos.Line < 1 || pos.Line > len(lines) {
		return "", false
	}
	return strings.TrimSuffix(lines[pos.Line-1], "\r"), true
}

// paint styles each line on its own so multi line messages keep their
// shape.
func paint(s lipgloss.Style, text string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = s.Render(l)
		}
	}
	return strings.Join(lines, "\n")
}

// caretOffset is the number of terminal cells before lexer column col.
// The lexer counts a tab as 4 columns and every other rune as 1, while
// east asian wide runes take 2 cells on screen.
func caretOffset(line string, col int) int {
	lcol, cells := 1, 0
	for _, c := range line {
		if lcol >= col {
			break
		}
		if c == '\t' {
			lcol += 4
			cells += 4
			continue
		}
		lcol++
		cells += runeCells(c)
	}
	if lcol < col {
		cells += col - lcol
	}
	return cells
}

func runeCells(c rune) int {
	switch width.LookupRune(c).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	}
	return 1
}
