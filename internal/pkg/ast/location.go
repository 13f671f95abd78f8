package ast

import "fmt"

type Location struct {
	filePath    string
	fileContent []rune
	start       uint32
	end         uint32
}

func NewLocation(filePath string, content []rune, start uint32, end uint32) Location {
	return Location{
		filePath:    filePath,
		fileContent: content,
		start:       start,
		end:         end,
	}
}

func NewLocationCursor(filePath string, content []rune, start uint32) Location {
	return NewLocation(filePath, content, start, start)
}

func (loc Location) EqualsTo(other Location) bool {
	return loc.filePath == other.filePath && loc.start == other.start && loc.end == other.end
}

func (loc Location) IsEmpty() bool {
	return loc.filePath == ""
}

// CursorString renders `file:line:col`, or `file:@offset` when the source text
// was not attached to the location.
func (loc Location) CursorString() string {
	if loc.IsEmpty() {
		return ""
	}
	if len(loc.fileContent) == 0 {
		return fmt.Sprintf("%s:@%d", loc.filePath, loc.start)
	}
	line, col, _, _ := loc.GetLineAndColumn()
	return fmt.Sprintf("%s:%d:%d", loc.filePath, line, col)
}

func (loc Location) GetLineAndColumn() (startLine, startColumn, endLine, endColumn int) {
	line := 1
	column := 1
	startLine, startColumn = 1, 1
	endLine, endColumn = 1, 1

	for i := uint32(0); i <= uint32(len(loc.fileContent)); i++ {
		if i == loc.start {
			startLine = line
			startColumn = column
		}
		if i == loc.end {
			endLine = line
			endColumn = column
			break
		}
		if i == uint32(len(loc.fileContent)) {
			break
		}

		if '\n' == loc.fileContent[i] {
			line++
			column = 1
		} else {
			column++
		}
	}
	return
}

func (loc Location) FilePath() string {
	return loc.filePath
}

func (loc Location) Text() string {
	if loc.end > uint32(len(loc.fileContent)) || loc.start > loc.end {
		return ""
	}
	return string(loc.fileContent[loc.start:loc.end])
}

func (loc Location) Contains(cursor Location) bool {
	return loc.filePath == cursor.filePath && loc.start <= cursor.start && cursor.end <= loc.end
}

func (loc Location) Start() uint32 {
	return loc.start
}

func (loc Location) End() uint32 {
	return loc.end
}

func (loc Location) Size() uint32 {
	return loc.end - loc.start
}

func (loc Location) String() string {
	return loc.CursorString()
}
