package document

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"document-tldr/internal/models"
)

func insertAt(line int, text string) models.Edit {
	p := models.Position{Line: line}
	return models.Edit{Range: models.Range{Start: p, End: p}, Text: text}
}

func TestDoc_InsertShiftsLinesDown(t *testing.T) {
	d := New([]string{"# Title", "Some text", ""})
	require.NoError(t, d.Apply(insertAt(0, "A\nB\n")))
	assert.Equal(t, []string{"A", "B", "# Title", "Some text", ""}, d.Lines())
}

func TestDoc_ReplaceWholeLine(t *testing.T) {
	d := New([]string{"TLDR: old", "Body text"})
	edit := models.Edit{
		Range: models.Range{End: models.Position{Line: 0, Character: 9}},
		Text:  "new",
	}
	require.NoError(t, d.Apply(edit))
	assert.Equal(t, []string{"new", "Body text"}, d.Lines())
}

func TestDoc_ReplaceAcrossLines(t *testing.T) {
	d := New([]string{"abc", "def", "ghi"})
	edit := models.Edit{
		Range: models.Range{
			Start: models.Position{Line: 0, Character: 1},
			End:   models.Position{Line: 2, Character: 1},
		},
		Text: "X",
	}
	require.NoError(t, d.Apply(edit))
	assert.Equal(t, []string{"aXhi"}, d.Lines())
}

func TestDoc_ApplyOnEmptyDoc(t *testing.T) {
	d := New(nil)
	require.NoError(t, d.Apply(insertAt(0, "hello\n")))
	assert.Equal(t, []string{"hello", ""}, d.Lines())
}

func TestDoc_ApplyOutOfRange(t *testing.T) {
	d := New([]string{"one"})
	assert.ErrorIs(t, d.Apply(insertAt(3, "x")), ErrOutOfRange)

	edit := models.Edit{Range: models.Range{End: models.Position{Character: 10}}}
	assert.ErrorIs(t, d.Apply(edit), ErrOutOfRange)

	backwards := models.Edit{Range: models.Range{Start: models.Position{Character: 2}, End: models.Position{Character: 1}}}
	assert.ErrorIs(t, d.Apply(backwards), ErrOutOfRange)

	_, err := d.Line(1)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestFromText_CRLFRoundTrip(t *testing.T) {
	d := FromText("# A\r\nbody\r\n")
	assert.Equal(t, []string{"# A", "body", ""}, d.Lines())
	require.NoError(t, d.Apply(insertAt(0, "x\n")))
	assert.Equal(t, "x\r\n# A\r\nbody\r\n", d.Text())
}

func TestFromText_MixedEndingsRoundTrip(t *testing.T) {
	tests := []string{
		"# A\r\nbody\nmore\n",
		"one\ntwo\r\nthree",
		"no newline",
		"trailing cr\r",
		"\r\n\n",
	}
	for _, text := range tests {
		assert.Equal(t, text, FromText(text).Text(), "%q", text)
	}
}

func TestDoc_InsertKeepsNeighbourEndings(t *testing.T) {
	d := FromText("# A\r\nbody\nmore\n")
	require.NoError(t, d.Apply(insertAt(1, "X\nY\n")))
	assert.Equal(t, "# A\r\nX\nY\nbody\nmore\n", d.Text())

	d = FromText("# A\r\nbody\nmore\n")
	require.NoError(t, d.Apply(insertAt(0, "top\n")))
	assert.Equal(t, "top\r\n# A\r\nbody\nmore\n", d.Text())
}

func TestDoc_ReplaceKeepsLineEnding(t *testing.T) {
	d := FromText("TLDR: old\r\nbody\n")
	edit := models.Edit{
		Range: models.Range{End: models.Position{Line: 0, Character: 9}},
		Text:  "###### TLDR: \nnew",
	}
	require.NoError(t, d.Apply(edit))
	assert.Equal(t, "###### TLDR: \r\nnew\r\nbody\n", d.Text())
}

func TestDoc_InsertIntoUnterminatedLastLine(t *testing.T) {
	d := FromText("only line")
	require.NoError(t, d.Apply(insertAt(0, "top\n")))
	assert.Equal(t, "top\nonly line", d.Text())

	d = FromText("a\r\nlast")
	require.NoError(t, d.Apply(insertAt(1, "mid\n")))
	assert.Equal(t, "a\r\nmid\r\nlast", d.Text())
}

func TestDoc_CloneIsIndependent(t *testing.T) {
	d := FromText("a\r\nb")
	c := d.Clone()
	require.NoError(t, c.Apply(insertAt(0, "x\n")))
	assert.Equal(t, "a\r\nb", d.Text())
	assert.Equal(t, "x\r\na\r\nb", c.Text())
}

func TestFile_SavePreservesMixedEndings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mixed.md")
	require.NoError(t, os.WriteFile(path, []byte("# A\r\nbody\nmore\n"), 0o600))

	f, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, f.Apply(insertAt(1, "###### TLDR: \nS.\n")))
	require.NoError(t, f.Save())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# A\r\n###### TLDR: \nS.\nbody\nmore\n", string(data))
}

func TestFile_OpenApplySave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "note.md")
	require.NoError(t, os.WriteFile(path, []byte("# Title\nbody\n"), 0o640))

	f, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, 3, f.LineCount())

	require.NoError(t, f.Apply(insertAt(0, "top\n")))
	require.NoError(t, f.Save())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "top\n# Title\nbody\n", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())
}

func TestFile_OpenEmptyHasNoLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.md")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	f, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, 0, f.LineCount())
}

func TestFile_OpenErrors(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.md"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Open(t.TempDir())
	assert.Error(t, err)
}
