package lsp

import (
	"unicode/utf16"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"document-tldr/internal/models"
)

// utf16Len counts the UTF-16 code units of s, the unit LSP columns use.
func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// byteOffset converts a UTF-16 column on line to a byte offset, clamped to the line.
func byteOffset(line string, col int) int {
	units := 0
	for i, r := range line {
		if units >= col {
			return i
		}
		units += utf16.RuneLen(r)
	}
	return len(line)
}

func toProtocolPosition(lines []string, p models.Position) protocol.Position {
	col := p.Character
	if p.Line < len(lines) {
		line := lines[p.Line]
		if col > len(line) {
			col = len(line)
		}
		col = utf16Len(line[:col])
	}
	return protocol.Position{Line: protocol.UInteger(p.Line), Character: protocol.UInteger(col)}
}

// fromProtocolPosition converts p to a byte position. Positions past the
// end of a line or of the document are clamped to that end.
func fromProtocolPosition(lines []string, p protocol.Position) models.Position {
	pos := models.Position{Line: int(p.Line), Character: int(p.Character)}
	if len(lines) == 0 {
		return pos
	}
	if pos.Line >= len(lines) {
		last := len(lines) - 1
		return models.Position{Line: last, Character: len(lines[last])}
	}
	pos.Character = byteOffset(lines[pos.Line], pos.Character)
	return pos
}

func toProtocolRange(lines []string, r models.Range) protocol.Range {
	return protocol.Range{
		Start: toProtocolPosition(lines, r.Start),
		End:   toProtocolPosition(lines, r.End),
	}
}

func editFromProtocol(lines []string, r protocol.Range, text string) models.Edit {
	return models.Edit{
		Range: models.Range{
			Start: fromProtocolPosition(lines, r.Start),
			End:   fromProtocolPosition(lines, r.End),
		},
		Text: text,
	}
}
