package frontend

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	decimalDigits = "0123456789_"
	hexDigits     = "0123456789abcdefABCDEF_"
	binaryDigits  = "01_"
)

// lexGlobal starts the lexing process and serves as the default state.
func lexGlobal(l *lexer) stateFunc {
	for {
		r := l.next()
		switch {
		case r == eof && l.width == 0:
			// End of file: stop the state machine.
			return nil
		case isAlpha(r) || r == '_':
			// Keyword or identifier.
			return lexWord
		case isDigit(r) || (r == '.' && isDigit(l.peek())):
			// Number.
			return lexNumber
		case isSpace(r):
			// Ignore whitespace, newlines included. Lines are counted when tokens are emitted.
			l.ignore()
		case r == '#':
			// Comment.
			return lexComment
		case r == '"' || r == '\'':
			// String.
			return lexString(r)
		case r == '=' && l.peek() == '=':
			l.next()
			l.emit(itemEQ)
			return lexGlobal
		case r == '!' && l.peek() == '=':
			l.next()
			l.emit(itemNE)
			return lexGlobal
		case r == '>' && l.peek() == '=':
			l.next()
			l.emit(itemGE)
			return lexGlobal
		case r == '<' && l.peek() == '=':
			l.next()
			l.emit(itemLE)
			return lexGlobal
		default:
			// Let parser use character as is.
			l.emit(itemType(r))
			return lexGlobal
		}
	}
}

// lexComment skips a line comment, # ..., or a block comment, #* ... *#.
// An unterminated block comment runs to the end of the input.
func lexComment(l *lexer) stateFunc {
	if l.accept("*") {
		for {
			r := l.next()
			if r == eof && l.width == 0 {
				break
			}
			if r == '*' && l.accept("#") {
				break
			}
		}
	} else {
		for r := l.next(); r != '\n' && !(r == eof && l.width == 0); r = l.next() {
		}
	}
	l.ignore()
	return lexGlobal
}

// lexWord scans the input string for keywords and identifiers.
func lexWord(l *lexer) stateFunc {
	// We know that the currently scanned rune is an alphabetic character or underscore.
	for {
		r := l.next()

		// Check if character is valid character.
		if !isAlpha(r) && !isDigit(r) && r != '_' {
			l.backup()
			kw, typ := isKeyword(l.input[l.start:l.pos])
			if kw {
				l.emit(typ)
			} else {
				l.emit(itemIdentifier)
			}
			return lexGlobal
		}
	}
}

// lexNumber scans the input stream for an integer or float number. Underscores separate digits and are dropped
// from the token value. Integers are decimal, or hexadecimal and binary with a 0x and 0b prefix respectively.
// A decimal point makes the number a float.
func lexNumber(l *lexer) stateFunc {
	// We've scanned the first rune already. We don't scan negative numbers.
	// We instead let the parser handle negative numbers by grammar rules.
	first := l.input[l.start]

	if first == '0' && (l.accept("x") || l.accept("b")) {
		digits := hexDigits
		if l.input[l.pos-1] == 'b' {
			digits = binaryDigits
		}
		l.acceptRun(digits)
		val := strings.ReplaceAll(l.input[l.start:l.pos], "_", "")
		if len(val) == 2 {
			return l.errorf("malformed integer literal %q", l.input[l.start:l.pos])
		}
		l.emitVal(itemInteger, val)
		return lexGlobal
	}

	typ := itemInteger
	if first == '.' {
		typ = itemFloat
	} else {
		// Scan integer part.
		l.acceptRun(decimalDigits)

		// Check for decimal.
		if l.accept(".") {
			typ = itemFloat
		}
	}
	if typ == itemFloat {
		l.acceptRun(decimalDigits)
	}

	l.emitVal(typ, strings.ReplaceAll(l.input[l.start:l.pos], "_", ""))
	return lexGlobal
}

// lexString returns the state scanning a string literal delimited by quote. Escape sequences are decoded:
// \a \b \t \n \v \f \r \\ and \xHH, any other escaped character stands for itself.
func lexString(quote rune) stateFunc {
	return func(l *lexer) stateFunc {
		// By this point we're in the string. Accept anything until the closing quote appears.
		l.ignore()
		sb := strings.Builder{}
		for {
			r := l.next()
			if r == eof && l.width == 0 {
				return l.errorf("unclosed string literal")
			}
			if r == quote {
				// Found string termination.
				l.backup()
				l.emitVal(itemString, sb.String())
				l.next()
				l.ignore()
				return lexGlobal
			}
			if r != '\\' {
				l.writeRune(&sb, r)
				continue
			}

			e := l.next()
			switch e {
			case 'a':
				sb.WriteByte('\a')
			case 'b':
				sb.WriteByte('\b')
			case 't':
				sb.WriteByte('\t')
			case 'n':
				sb.WriteByte('\n')
			case 'v':
				sb.WriteByte('\v')
			case 'f':
				sb.WriteByte('\f')
			case 'r':
				sb.WriteByte('\r')
			case 'x':
				start := l.pos
				for i1 := 0; i1 < 2 && isHex(l.peek()); i1++ {
					l.next()
				}
				if l.pos == start {
					sb.WriteByte('x')
					break
				}
				v, _ := strconv.ParseUint(l.input[start:l.pos], 16, 8)
				sb.WriteByte(byte(v))
			case eof:
				if l.width == 0 {
					return l.errorf("unclosed string literal")
				}
				sb.WriteRune(e)
			default:
				l.writeRune(&sb, e)
			}
		}
	}
}

// ----------------------------
// ----- Helper functions -----
// ----------------------------

// writeRune appends the rune r just scanned to sb. Bytes that are not valid UTF-8 are copied as is.
func (l *lexer) writeRune(sb *strings.Builder, r rune) {
	if r == utf8.RuneError && l.width == 1 {
		sb.WriteByte(l.input[l.pos-1])
		return
	}
	sb.WriteRune(r)
}

// isAlpha return true if rune r is an alphabetic character in the set [a-zA-Z].
func isAlpha(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// isDigit return true if rune r is a digit in the range [0-9].
func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// isHex return true if rune r is a hexadecimal digit.
func isHex(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

// isSpace return true if rune r is a whitespace character.
func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\f' || r == '\r'
}
