// Package document holds the line-addressable text the summary is spliced into.
package document

import (
	"errors"
	"fmt"
	"strings"

	"document-tldr/internal/models"
)

var ErrOutOfRange = errors.New("position out of range")

// Buffer is the view of a host document the generator works through.
type Buffer interface {
	LineCount() int
	Line(i int) (string, error)
	Lines() []string
	Text() string
	Apply(edit models.Edit) error
}

// Doc is an in-memory Buffer. ends[i] is the terminator that followed
// lines[i] in the source text; the last line's is usually empty.
type Doc struct {
	lines []string
	ends  []string
}

func New(lines []string) *Doc {
	d := &Doc{lines: append([]string(nil), lines...), ends: make([]string, len(lines))}
	for i := 0; i < len(lines)-1; i++ {
		d.ends[i] = "\n"
	}
	return d
}

// FromText splits text into lines, remembering whether each one ended in
// LF or CRLF so Text reproduces untouched lines byte for byte.
func FromText(text string) *Doc {
	d := &Doc{}
	for {
		i := strings.IndexByte(text, '\n')
		if i < 0 {
			d.lines = append(d.lines, text)
			d.ends = append(d.ends, "")
			return d
		}
		line, end := text[:i], "\n"
		if strings.HasSuffix(line, "\r") {
			line, end = line[:len(line)-1], "\r\n"
		}
		d.lines = append(d.lines, line)
		d.ends = append(d.ends, end)
		text = text[i+1:]
	}
}

// Clone returns an independent copy.
func (d *Doc) Clone() *Doc {
	return &Doc{
		lines: append([]string(nil), d.lines...),
		ends:  append([]string(nil), d.ends...),
	}
}

func (d *Doc) LineCount() int {
	return len(d.lines)
}

func (d *Doc) Line(i int) (string, error) {
	if i < 0 || i >= len(d.lines) {
		return "", fmt.Errorf("%w: line %d of %d", ErrOutOfRange, i, len(d.lines))
	}
	return d.lines[i], nil
}

func (d *Doc) Lines() []string {
	return append([]string(nil), d.lines...)
}

func (d *Doc) Text() string {
	var b strings.Builder
	for i, line := range d.lines {
		b.WriteString(line)
		b.WriteString(d.ends[i])
	}
	return b.String()
}

// Apply replaces the edit's range with its text. Newlines in the text
// produce new lines, terminated like the line the range ends on.
func (d *Doc) Apply(edit models.Edit) error {
	start, end := edit.Range.Start, edit.Range.End
	if len(d.lines) == 0 && start == (models.Position{}) && end == start {
		d.lines, d.ends = []string{""}, []string{""}
	}
	if err := d.check(start); err != nil {
		return err
	}
	if err := d.check(end); err != nil {
		return err
	}
	if end.Line < start.Line || (end.Line == start.Line && end.Character < start.Character) {
		return fmt.Errorf("%w: end %v before start %v", ErrOutOfRange, end, start)
	}

	text := strings.ReplaceAll(edit.Text, "\r\n", "\n")
	joined := d.lines[start.Line][:start.Character] + text + d.lines[end.Line][end.Character:]
	replacement := strings.Split(joined, "\n")

	newline := d.newlineAt(end.Line)
	replacementEnds := make([]string, len(replacement))
	for i := range replacementEnds {
		replacementEnds[i] = newline
	}
	replacementEnds[len(replacementEnds)-1] = d.ends[end.Line]

	n := len(d.lines) - (end.Line - start.Line) + len(replacement) - 1
	lines := make([]string, 0, n)
	lines = append(lines, d.lines[:start.Line]...)
	lines = append(lines, replacement...)
	lines = append(lines, d.lines[end.Line+1:]...)

	ends := make([]string, 0, n)
	ends = append(ends, d.ends[:start.Line]...)
	ends = append(ends, replacementEnds...)
	ends = append(ends, d.ends[end.Line+1:]...)

	d.lines, d.ends = lines, ends
	return nil
}

// newlineAt picks the terminator for lines inserted at line i: that line's
// own, else the first one in the document, else LF.
func (d *Doc) newlineAt(i int) string {
	if d.ends[i] != "" {
		return d.ends[i]
	}
	for _, e := range d.ends {
		if e != "" {
			return e
		}
	}
	return "\n"
}

func (d *Doc) check(p models.Position) error {
	if p.Line < 0 || p.Line >= len(d.lines) {
		return fmt.Errorf("%w: line %d of %d", ErrOutOfRange, p.Line, len(d.lines))
	}
	if p.Character < 0 || p.Character > len(d.lines[p.Line]) {
		return fmt.Errorf("%w: character %d on line %d", ErrOutOfRange, p.Character, p.Line)
	}
	return nil
}
