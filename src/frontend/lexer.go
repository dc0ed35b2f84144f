// This lexer is based on Rob Pike's talk on Go scanners.
// Link to the talk on YouTube: https://www.youtube.com/watch?v=HxaD_trXwRE
// Link to presentation slides: https://talks.golang.org/2011/lex.slide#1
//
// The lexer uses state functions stateFunc to define the lexer state. States allow the lexer to treat same runes
// differently. State transitions happens in the current states and appearance of key runes, or transition runes if you
// would. The lexer uses the Go 'character' type 'rune' which enables native UTF-8 support for the source being scanned.
//
// The state machine is driven by the parser: nextItem runs states until a token is pending, so lexing and parsing
// share one goroutine.

package frontend

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// stateFunc defines the state of the lexer.
type stateFunc func(*lexer) stateFunc

// itemType is used to differentiate different tokens scanned by the lexer.
type itemType int

// item contains a lexeme scanned by the lexer and its position in the source stream.
type item struct {
	typ  itemType // Token type to emit.
	val  string   // Value of token.
	line int      // Line of token in source stream.
	pos  int      // Start position on current line of token in source stream.
}

// lexer is a lexical type that traverse a source stream character by character and emits lexemes.
type lexer struct {
	input     string    // The source stream of characters to scan for lexemes.
	start     int       // The starting position of the current token.
	pos       int       // The current position of the scanner in the source stream.
	width     int       // The width of the currently scanned rune/character in bytes.
	line      int       // The line of input[counted]. Not zero-indexed.
	lineStart int       // Offset of the first byte of the line.
	counted   int       // Offset up to which lines have been counted.
	state     stateFunc // The next state of the lexer. <nil> when the lexer is done.
	items     []item    // Tokens emitted, but not yet consumed.
}

// ---------------------
// ----- Constants -----
// ---------------------

const eof = 0 // Same as '\0' for null-terminated C strings.

const (
	itemEOF itemType = iota
	itemError
)

// --------------------------
// ----- Item functions -----
// --------------------------

// String returns a print friendly string representation of the item.
func (i item) String() string {
	switch i.typ {
	case itemEOF:
		return "EOF"
	case itemError:
		return fmt.Sprintf("%s [ERROR]", i.val)
	}
	if len(i.val) > 10 {
		return fmt.Sprintf("%.10q... (line %d:%d)", i.val, i.line, i.pos)
	}
	return fmt.Sprintf("%q (line %d:%d)", i.val, i.line, i.pos)
}

// ---------------------------
// ----- Lexer functions -----
// ---------------------------

// newLexer creates and returns a pointer to a new lexer.
func newLexer(src string, start stateFunc) *lexer {
	return &lexer{
		input: src,
		line:  1,
		state: start,
		items: make([]item, 0, 2),
	}
}

// nextItem returns the next item from the input. After the input is exhausted, or after an error, it keeps
// returning itemEOF.
func (l *lexer) nextItem() item {
	for len(l.items) == 0 {
		if l.state == nil {
			l.locate(len(l.input))
			return item{typ: itemEOF, line: l.line, pos: len(l.input) - l.lineStart + 1}
		}
		l.state = l.state(l)
	}
	it := l.items[0]
	l.items = l.items[1:]
	return it
}

// emit queues an item of type typ holding the pending input.
func (l *lexer) emit(typ itemType) {
	l.emitVal(typ, l.input[l.start:l.pos])
}

// emitVal queues an item of type typ holding val, positioned at the start of the pending input.
func (l *lexer) emitVal(typ itemType, val string) {
	l.locate(l.start)
	l.items = append(l.items, item{
		typ:  typ,
		val:  val,
		line: l.line,
		pos:  l.start - l.lineStart + 1,
	})
	l.start = l.pos
}

// locate advances the line count up to offset off.
func (l *lexer) locate(off int) {
	for ; l.counted < off; l.counted++ {
		if l.input[l.counted] == '\n' {
			l.line++
			l.lineStart = l.counted + 1
		}
	}
}

// next returns the next rune in the input. The use of runes makes the lexer UTF-8 compatible.
func (l *lexer) next() (r rune) {
	if l.pos >= len(l.input) {
		l.width = 0
		return eof
	}
	r, l.width = utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += l.width
	return r
}

// ignore skips over the pending input before this point.
func (l *lexer) ignore() {
	l.start = l.pos
}

// backup steps back one rune. Should only be called once per call of next.
func (l *lexer) backup() {
	if l.pos > l.start {
		l.pos -= l.width
	}
}

// peek returns, but does not consume, the next rune in the input.
func (l *lexer) peek() rune {
	if l.pos >= len(l.input) {
		return eof
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.pos:])
	return r
}

// accept consumes the next rune if it's from the set of valid characters defined by the valid string.
func (l *lexer) accept(valid string) bool {
	if strings.ContainsRune(valid, l.peek()) && l.peek() != eof {
		l.next()
		return true
	}
	return false
}

// acceptRun consumes a sequence of runes from the set of valid characters defined by the valid string.
func (l *lexer) acceptRun(valid string) {
	for l.accept(valid) {
	}
}

// errorf emits an error token and terminates the scan by passing back a nil pointer
// that will be the next state.
func (l *lexer) errorf(format string, args ...interface{}) stateFunc {
	l.emitVal(itemError, fmt.Sprintf(format, args...))
	return nil
}
