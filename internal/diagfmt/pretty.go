package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"scopetree/internal/diag"
	"scopetree/internal/source"
)

type palette struct {
	err, warn, info *color.Color
	path, code      *color.Color
	caret, note     *color.Color
	gutter          *color.Color
	added, removed  *color.Color
}

func newColor(enabled bool, attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if enabled {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

func newPalette(enabled bool) palette {
	return palette{
		err:     newColor(enabled, color.FgRed, color.Bold),
		warn:    newColor(enabled, color.FgYellow, color.Bold),
		info:    newColor(enabled, color.FgCyan, color.Bold),
		path:    newColor(enabled, color.Bold),
		code:    newColor(enabled, color.FgMagenta),
		caret:   newColor(enabled, color.FgGreen, color.Bold),
		note:    newColor(enabled, color.FgBlue, color.Bold),
		gutter:  newColor(enabled, color.FgHiBlack),
		added:   newColor(enabled, color.FgGreen),
		removed: newColor(enabled, color.FgRed),
	}
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes и Fixes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	pr := prettyPrinter{w: w, fs: fs, opts: opts, pal: newPalette(opts.Color)}
	items := bag.Items()
	for i := range items {
		pr.diagnostic(&items[i])
	}
}

type prettyPrinter struct {
	w    io.Writer
	fs   *source.FileSet
	opts PrettyOpts
	pal  palette
}

func (pr *prettyPrinter) location(sp source.Span) (string, bool) {
	f := pr.fs.Get(sp.File)
	if f == nil || !sp.IsValid() {
		return "", false
	}
	start, _ := pr.fs.Resolve(sp)
	return fmt.Sprintf("%s:%d:%d", formatPath(f, pr.fs.BaseDir(), pr.opts.PathMode), start.Line, start.Col), true
}

func (pr *prettyPrinter) diagnostic(d *diag.Diagnostic) {
	loc, ok := pr.location(d.Primary)
	if ok {
		fmt.Fprintf(pr.w, "%s: ", pr.pal.path.Sprint(loc))
	}
	fmt.Fprintf(pr.w, "%s %s: %s\n",
		pr.pal.severity(d.Severity).Sprint(d.Severity.String()),
		pr.pal.code.Sprint(d.Code.ID()),
		d.Message)
	if ok {
		pr.snippet(d.Primary)
	}

	if pr.opts.ShowNotes {
		for _, n := range d.Notes {
			if nloc, ok := pr.location(n.Span); ok {
				fmt.Fprintf(pr.w, "  %s %s: %s\n", pr.pal.note.Sprint("note:"), nloc, n.Msg)
				continue
			}
			fmt.Fprintf(pr.w, "  %s %s\n", pr.pal.note.Sprint("note:"), n.Msg)
		}
	}
	if pr.opts.ShowFixes {
		for i := range d.Fixes {
			pr.fix(i, &d.Fixes[i])
		}
	}
}

// snippet печатает Context строк до span и строку с подчёркиванием.
func (pr *prettyPrinter) snippet(sp source.Span) {
	f := pr.fs.Get(sp.File)
	start, end := pr.fs.Resolve(sp)
	first := start.Line
	if ctx := uint32(max(pr.opts.Context, 0)); first > ctx {
		first -= ctx
	} else {
		first = 1
	}
	gutterWidth := len(fmt.Sprint(start.Line))
	for line := first; line <= start.Line; line++ {
		text := pr.clip(expandTabs(f.GetLine(line)))
		fmt.Fprintf(pr.w, "%s %s\n", pr.pal.gutter.Sprintf("%*d |", gutterWidth, line), text)
	}

	raw := f.GetLine(start.Line)
	col := int(start.Col) - 1
	col = min(max(col, 0), len(raw))
	endCol := len(raw)
	if end.Line == start.Line {
		endCol = min(max(int(end.Col)-1, col), len(raw))
	}
	pad := runewidth.StringWidth(expandTabs(raw[:col]))
	width := runewidth.StringWidth(expandTabs(raw[col:endCol]))
	marker := "^"
	if width > 1 {
		marker += strings.Repeat("~", width-1)
	}
	fmt.Fprintf(pr.w, "%s %s%s\n",
		pr.pal.gutter.Sprintf("%*s |", gutterWidth, ""),
		strings.Repeat(" ", pad),
		pr.pal.caret.Sprint(marker))
}

func (pr *prettyPrinter) clip(s string) string {
	if pr.opts.Width == 0 || runewidth.StringWidth(s) <= int(pr.opts.Width) {
		return s
	}
	return runewidth.Truncate(s, int(pr.opts.Width), "…")
}

func (pr *prettyPrinter) fix(i int, fix *diag.Fix) {
	fmt.Fprintf(pr.w, "  fix #%d: %s\n", i+1, fix.Title)
	for _, edit := range fix.Edits {
		loc := "?"
		if f := pr.fs.Get(edit.Span.File); f != nil && edit.Span.IsValid() {
			start, end := pr.fs.Resolve(edit.Span)
			loc = fmt.Sprintf("%s:%s-%s", formatPath(f, pr.fs.BaseDir(), pr.opts.PathMode), start, end)
		}
		fmt.Fprintf(pr.w, "    edit %s apply=%q\n", loc, edit.NewText)
		if !pr.opts.ShowPreview {
			continue
		}
		preview, err := buildFixEditPreview(pr.fs, edit)
		if err != nil {
			fmt.Fprintf(pr.w, "    preview unavailable: %v\n", err)
			continue
		}
		fmt.Fprintln(pr.w, "    preview:")
		for _, l := range preview.before {
			fmt.Fprintf(pr.w, "      %s\n", pr.pal.removed.Sprint("- "+l))
		}
		for _, l := range preview.after {
			fmt.Fprintf(pr.w, "      %s\n", pr.pal.added.Sprint("+ "+l))
		}
	}
}

const tabWidth = 4

func expandTabs(s string) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	var sb strings.Builder
	col := 0
	for _, r := range s {
		if r == '\t' {
			n := tabWidth - col%tabWidth
			sb.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		sb.WriteRune(r)
		col += runewidth.RuneWidth(r)
	}
	return sb.String()
}
