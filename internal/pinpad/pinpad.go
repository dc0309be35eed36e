// Package pinpad models the five linked PIN input cells.
package pinpad

import "strings"

// Length is the number of PIN digits.
const Length = 5

// Buffer is a fixed-length run of optional digits with an active cursor.
type Buffer struct {
	cells  [Length]string
	active int
}

// Input sets cell index to value. Only "" or a single ASCII digit is
// accepted; anything else is ignored. A digit moves focus to the next cell,
// clearing a cell moves it to the previous one.
func (b *Buffer) Input(index int, value string) bool {
	if index < 0 || index >= Length || !validCell(value) {
		return false
	}
	b.cells[index] = value
	switch {
	case value != "" && index < Length-1:
		b.active = index + 1
	case value == "" && index > 0:
		b.active = index - 1
	default:
		b.active = index
	}
	return true
}

// Type writes a digit into the active cell.
func (b *Buffer) Type(value string) bool {
	return b.Input(b.active, value)
}

// Backspace on an empty cell moves focus back one cell.
func (b *Buffer) Backspace(index int) {
	if index <= 0 || index >= Length {
		return
	}
	if b.cells[index] == "" {
		b.active = index - 1
	}
}

// Paste fills every cell when text is exactly five digits.
func (b *Buffer) Paste(text string) bool {
	if len(text) != Length {
		return false
	}
	for i := 0; i < Length; i++ {
		if !isDigit(text[i]) {
			return false
		}
	}
	for i := 0; i < Length; i++ {
		b.cells[i] = text[i : i+1]
	}
	b.active = Length - 1
	return true
}

// Set replaces the buffer content from a string, truncating or leaving
// trailing cells empty. Non-digit characters are skipped.
func (b *Buffer) Set(pin string) {
	b.Reset()
	i := 0
	for _, r := range pin {
		if i == Length {
			break
		}
		if r >= '0' && r <= '9' {
			b.cells[i] = string(r)
			i++
		}
	}
	b.active = min(i, Length-1)
}

// Reset clears every cell.
func (b *Buffer) Reset() {
	*b = Buffer{}
}

// Active is the focused cell index.
func (b *Buffer) Active() int { return b.active }

// Cell returns the content of cell i.
func (b *Buffer) Cell(i int) string { return b.cells[i] }

// Complete reports whether every cell holds a digit.
func (b *Buffer) Complete() bool {
	for _, c := range b.cells {
		if c == "" {
			return false
		}
	}
	return true
}

// String concatenates the filled cells.
func (b *Buffer) String() string {
	return strings.Join(b.cells[:], "")
}

// Masked renders filled cells as bullets and empty ones as underscores.
func (b *Buffer) Masked() string {
	var sb strings.Builder
	for _, c := range b.cells {
		if c == "" {
			sb.WriteByte('_')
		} else {
			sb.WriteString("•")
		}
	}
	return sb.String()
}

func validCell(v string) bool {
	return v == "" || (len(v) == 1 && isDigit(v[0]))
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
