// Package clifmt renders human-oriented command output: colored text
// and name/detail tables sized to the terminal.
package clifmt

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"
)

const (
	defaultTableWidth = 100
	minDetailWidth    = 36
)

func colorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func colorize(code, s string) string {
	if !colorEnabled() {
		return s
	}
	return "\x1b[" + code + "m" + s + "\x1b[0m"
}

func Key(s string) string     { return colorize("1", s) }
func Dim(s string) string     { return colorize("2", s) }
func Success(s string) string { return colorize("32", s) }
func Warn(s string) string    { return colorize("33", s) }

func Headerf(format string, args ...any) string {
	return colorize("1;4", fmt.Sprintf(format, args...))
}

// NameDetailRow is one table row: a short name and a wrappable detail.
type NameDetailRow struct {
	Name   string
	Detail string
}

// PrintNameDetailTable writes rows as a two-column table, wrapping the
// detail column to the terminal width (or a fixed default when out is
// not a terminal).
func PrintNameDetailTable(out io.Writer, title string, rows []NameDetailRow) {
	if out == nil {
		out = os.Stdout
	}
	if title != "" {
		fmt.Fprintln(out, Headerf("%s (%d)", title, len(rows)))
	}
	if len(rows) == 0 {
		fmt.Fprintln(out, Warn("No entries."))
		return
	}

	nameWidth := utf8.RuneCountInString("NAME")
	for _, row := range rows {
		if w := utf8.RuneCountInString(row.Name); w > nameWidth {
			nameWidth = w
		}
	}
	detailWidth := detailColumnWidth(out, nameWidth)

	fmt.Fprintf(out, "%s  %s\n", Key(padRight("NAME", nameWidth)), Key("DESCRIPTION"))
	fmt.Fprintf(out, "%s  %s\n", Dim(strings.Repeat("-", nameWidth)), Dim(strings.Repeat("-", detailWidth)))

	for _, row := range rows {
		lines := wrapText(strings.TrimSpace(row.Detail), detailWidth)
		fmt.Fprintf(out, "%s  %s\n", Success(padRight(row.Name, nameWidth)), lines[0])
		for _, line := range lines[1:] {
			fmt.Fprintf(out, "%s  %s\n", strings.Repeat(" ", nameWidth), line)
		}
	}
}

func detailColumnWidth(out io.Writer, nameWidth int) int {
	width := defaultTableWidth
	if file, ok := out.(*os.File); ok && term.IsTerminal(int(file.Fd())) {
		if terminalWidth, _, err := term.GetSize(int(file.Fd())); err == nil && terminalWidth > 0 {
			width = terminalWidth
		}
	}
	detailWidth := width - nameWidth - 2
	if detailWidth < minDetailWidth {
		detailWidth = minDetailWidth
	}
	return detailWidth
}

func padRight(s string, width int) string {
	missing := width - utf8.RuneCountInString(s)
	if missing <= 0 {
		return s
	}
	return s + strings.Repeat(" ", missing)
}

func wrapText(text string, width int) []string {
	if text == "" {
		return []string{""}
	}
	if width <= 0 {
		return []string{text}
	}

	words := strings.Fields(text)
	lines := make([]string, 0, len(words))
	current := ""

	flush := func() {
		if current != "" {
			lines = append(lines, current)
			current = ""
		}
	}

	for _, word := range words {
		for utf8.RuneCountInString(word) > width {
			flush()
			runes := []rune(word)
			lines = append(lines, string(runes[:width]))
			word = string(runes[width:])
		}
		switch {
		case current == "":
			current = word
		case utf8.RuneCountInString(current)+1+utf8.RuneCountInString(word) <= width:
			current += " " + word
		default:
			flush()
			current = word
		}
	}
	flush()

	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}
