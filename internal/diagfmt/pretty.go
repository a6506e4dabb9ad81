package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"approxc/internal/diag"
	"approxc/internal/source"
)

type palette struct {
	err, warn, info, note, code, gutter, caret, fix *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan),
		note:   color.New(color.FgBlue, color.Bold),
		code:   color.New(color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgGreen, color.Bold),
		fix:    color.New(color.FgMagenta),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.note, p.code, p.gutter, p.caret, p.fix} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	}
	return p.info
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes с аналогичным форматом.
// Цвет включается опцией.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil || fs == nil {
		return
	}
	p := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		prettyOne(w, &d, fs, opts, p)
	}
}

func prettyOne(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, p palette) {
	f := fs.Get(d.Primary.File)
	start, end := fs.Resolve(d.Primary)
	path := formatPath(f, fs, opts.PathMode)

	fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n",
		path, start.Line, start.Col,
		p.severity(d.Severity).Sprint(d.Severity.String()),
		p.code.Sprint(d.Code.ID()),
		d.Message)

	if f != nil {
		writeSnippet(w, f, start, end, opts, p)
	}

	if opts.ShowQual && d.Qual != nil {
		fmt.Fprintf(w, "  = %s: expected %s, found %s (%s)\n",
			d.Rule(), d.Qual.Expected, d.Qual.Found, d.Qual.Construct)
	}

	if opts.ShowNotes {
		for _, n := range d.Notes {
			nf := fs.Get(n.Span.File)
			npos, _ := fs.Resolve(n.Span)
			fmt.Fprintf(w, "  %s %s:%d:%d: %s\n",
				p.note.Sprint("note:"), formatPath(nf, fs, opts.PathMode), npos.Line, npos.Col, n.Msg)
		}
	}

	if opts.ShowFixes {
		for i, fx := range d.Fixes {
			fmt.Fprintf(w, "  %s %s\n", p.fix.Sprintf("fix #%d:", i+1), fx.Title)
			for _, e := range fx.Edits {
				ef := fs.Get(e.Span.File)
				epos, _ := fs.Resolve(e.Span)
				fmt.Fprintf(w, "    edit %s:%d:%d apply=%q\n",
					formatPath(ef, fs, opts.PathMode), epos.Line, epos.Col, e.NewText)
				if !opts.ShowPreview {
					continue
				}
				pv, err := buildFixEditPreview(fs, e)
				if err != nil {
					continue
				}
				fmt.Fprintln(w, "    preview:")
				for _, l := range pv.before {
					fmt.Fprintf(w, "      - %s\n", l)
				}
				for _, l := range pv.after {
					fmt.Fprintf(w, "      + %s\n", l)
				}
			}
		}
	}
}

// writeSnippet печатает строку(и) исходника с номером в гаттере и подчёркиванием.
func writeSnippet(w io.Writer, f *source.File, start, end source.LineCol, opts PrettyOpts, p palette) {
	if start.Line == 0 {
		return
	}
	ctx := uint32(max(opts.Context, 0))
	first := uint32(1)
	if start.Line > ctx {
		first = start.Line - ctx
	}
	last := start.Line + ctx
	total := uint32(len(f.LineIdx)) + 1

	gw := len(fmt.Sprint(min(last, total)))
	blank := strings.Repeat(" ", gw)

	for ln := first; ln <= last && ln <= total; ln++ {
		text := f.GetLine(ln)
		if ln != start.Line && strings.TrimSpace(text) == "" {
			continue
		}
		shown := text
		if opts.Width > 0 {
			shown = runewidth.Truncate(shown, int(opts.Width), "…")
		}
		fmt.Fprintf(w, "%s %s %s\n", p.gutter.Sprintf("%*d", gw, ln), p.gutter.Sprint("|"), shown)
		if ln != start.Line {
			continue
		}
		pad, width := caretGeometry(text, start, end)
		if opts.Width > 0 && pad+width > int(opts.Width) {
			width = max(int(opts.Width)-pad, 1)
		}
		marks := "^" + strings.Repeat("~", width-1)
		fmt.Fprintf(w, "%s %s %s%s\n", blank, p.gutter.Sprint("|"), padFor(text, start.Col), p.caret.Sprint(marks))
	}
}

// caretGeometry считает отступ и ширину подчёркивания в колонках терминала.
func caretGeometry(line string, start, end source.LineCol) (pad, width int) {
	s := clampCol(line, start.Col)
	e := len(line)
	if end.Line == start.Line {
		e = clampCol(line, end.Col)
	}
	pad = runewidth.StringWidth(line[:s])
	if e > s {
		width = runewidth.StringWidth(line[s:e])
	}
	return pad, max(width, 1)
}

// padFor сохраняет табы исходной строки, чтобы каретка встала под нужный символ.
func padFor(line string, col uint32) string {
	prefix := line[:clampCol(line, col)]
	var b strings.Builder
	for _, r := range prefix {
		if r == '\t' {
			b.WriteByte('\t')
			continue
		}
		b.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	return b.String()
}

func clampCol(line string, col uint32) int {
	if col == 0 {
		return 0
	}
	return min(int(col-1), len(line))
}
