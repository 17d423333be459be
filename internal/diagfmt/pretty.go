package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"moonwave/internal/diag"
	"moonwave/internal/source"
)

type palette struct {
	sev    map[diag.Severity]*color.Color
	code   *color.Color
	gutter *color.Color
	note   *color.Color
	fix    *color.Color
	del    *color.Color
	add    *color.Color
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		sev: map[diag.Severity]*color.Color{
			diag.SevError:   mk(color.FgRed, color.Bold),
			diag.SevWarning: mk(color.FgYellow, color.Bold),
			diag.SevInfo:    mk(color.FgCyan, color.Bold),
		},
		code:   mk(color.Bold),
		gutter: mk(color.FgBlue),
		note:   mk(color.FgCyan),
		fix:    mk(color.FgGreen),
		del:    mk(color.FgRed),
		add:    mk(color.FgGreen),
	}
}

func (p palette) severity(s diag.Severity) *color.Color {
	if c, ok := p.sev[s]; ok {
		return c
	}
	return p.code
}

// Pretty writes diagnostics in bag order, one block each:
//
//	<path>:<line>:<col>: <SEV> <CODE>: <Message>
//	  12 | 	@field x number
//	     | 	^~~~~~~~~~~~~~~
//
// followed by notes and fixes when enabled.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	for _, d := range bag.Items() {
		prettyOne(w, d, fs, opts, p)
	}
}

func prettyOne(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, p palette) {
	sevColor := p.severity(d.Severity)
	fmt.Fprintf(w, "%s: %s %s: %s\n",
		location(fs, d.Primary, opts.PathMode),
		sevColor.Sprint(d.Severity.String()),
		p.code.Sprint(d.Code.ID()),
		d.Message,
	)

	if f := fs.Get(d.Primary.File); f != nil && len(f.Content) > 0 {
		writeSnippet(w, f, fs, d.Primary, opts.Context, sevColor, p)
	}

	if opts.ShowNotes {
		for _, n := range d.Notes {
			fmt.Fprintf(w, "  %s %s: %s\n", p.note.Sprint("note:"), location(fs, n.Span, opts.PathMode), n.Msg)
		}
	}

	if opts.ShowFixes {
		for i, fx := range d.Fixes {
			fmt.Fprintf(w, "  %s %s\n", p.fix.Sprintf("fix #%d:", i+1), fx.Title)
			for _, e := range fx.Edits {
				fmt.Fprintf(w, "    edit %s apply=%q\n", location(fs, e.Span, opts.PathMode), e.NewText)
				if !opts.ShowPreview {
					continue
				}
				preview, err := buildFixEditPreview(fs, e)
				if err != nil {
					continue
				}
				fmt.Fprintln(w, "    preview:")
				for _, line := range preview.before {
					fmt.Fprintf(w, "      %s\n", p.del.Sprint("- "+line))
				}
				for _, line := range preview.after {
					fmt.Fprintf(w, "      %s\n", p.add.Sprint("+ "+line))
				}
			}
		}
	}
}

func writeSnippet(w io.Writer, f *source.File, fs *source.FileSet, sp source.Span, context int8, sevColor *color.Color, p palette) {
	start, end := fs.Resolve(sp)
	lastLine := uint32(len(f.LineIdx)) + 1
	ctx := uint32(max(context, 0))

	first := uint32(1)
	if start.Line > ctx {
		first = start.Line - ctx
	}
	last := min(start.Line+ctx, lastLine)
	width := len(itoa(last))

	for ln := first; ln <= last; ln++ {
		text := f.GetLine(ln)
		fmt.Fprintf(w, "%s %s\n", p.gutter.Sprintf("%*d |", width, ln), text)
		if ln != start.Line {
			continue
		}
		endCol := end.Col
		if end.Line != start.Line {
			endCol = uint32(len(text)) + 1
		}
		fmt.Fprintf(w, "%s %s\n", p.gutter.Sprintf("%*s |", width, ""), sevColor.Sprint(caretLine(text, start.Col, endCol)))
	}
}

// caretLine underlines columns [startCol, endCol) of line with ^~~~. Tabs in
// the prefix are kept so the caret lines up in any terminal; wide runes
// count as two cells.
func caretLine(line string, startCol, endCol uint32) string {
	startIdx := min(int(startCol)-1, len(line))
	endIdx := min(max(int(endCol)-1, startIdx), len(line))

	var sb strings.Builder
	for _, r := range line[:max(startIdx, 0)] {
		if r == '\t' {
			sb.WriteByte('\t')
			continue
		}
		sb.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}

	n := max(runewidth.StringWidth(line[max(startIdx, 0):endIdx]), 1)
	sb.WriteByte('^')
	sb.WriteString(strings.Repeat("~", n-1))
	return sb.String()
}

func itoa(v uint32) string {
	return strconv.FormatUint(uint64(v), 10)
}
