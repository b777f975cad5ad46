package models

// Position addresses a point in a document. Character is a byte offset
// into the line.
type Position struct {
	Line      int
	Character int
}

// Range is a half-open span between two positions.
type Range struct {
	Start Position
	End   Position
}

// Edit is a pending change to a document. An empty range is an insertion.
type Edit struct {
	Range Range
	Text  string
}

// IsInsert reports whether the edit removes nothing.
func (e Edit) IsInsert() bool {
	return e.Range.Start == e.Range.End
}
