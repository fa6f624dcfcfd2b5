package query

import (
	"strings"
	"unicode"
)

// keywords is the fixed, case-insensitive keyword set. Matching identifiers
// are emitted as keyword tokens with the value normalized to upper case.
var keywords = map[string]bool{
	"SELECT": true, "FROM": true, "WHERE": true, "AND": true, "OR": true,
	"ORDER": true, "BY": true, "ASC": true, "DESC": true, "LIMIT": true,
	"OFFSET": true, "GROUP": true, "HAVING": true, "JOIN": true,
	"INNER": true, "LEFT": true, "RIGHT": true, "ON": true, "AS": true,
	"DISTINCT": true, "COUNT": true, "SUM": true, "AVG": true, "MIN": true,
	"MAX": true, "IN": true, "LIKE": true, "IS": true, "NULL": true,
	"NOT": true, "UNION": true, "ALL": true, "BETWEEN": true,
}

// Lexer tokenizes query strings.
type Lexer struct {
	input string
	pos   int
	ch    rune
}

// NewLexer creates a new lexer.
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

// readChar reads the next character.
func (l *Lexer) readChar() {
	if l.pos >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = rune(l.input[l.pos])
	}
	l.pos++
}

// peekChar looks at the next character without advancing.
func (l *Lexer) peekChar() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	return rune(l.input[l.pos])
}

// skipWhitespace skips whitespace characters.
func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

// readString reads a quoted string literal. The only recognized escape is
// the closing quote itself: everything up to the next matching quote is
// taken verbatim.
func (l *Lexer) readString(quote rune) string {
	var result strings.Builder
	l.readChar() // skip opening quote

	for l.ch != quote && l.ch != 0 {
		result.WriteRune(l.ch)
		l.readChar()
	}

	if l.ch == quote {
		l.readChar() // skip closing quote
	}

	return result.String()
}

// readNumber reads a decimal numeric literal.
func (l *Lexer) readNumber() string {
	var result strings.Builder

	if l.ch == '-' {
		result.WriteRune(l.ch)
		l.readChar()
	}

	for unicode.IsDigit(l.ch) || l.ch == '.' {
		result.WriteRune(l.ch)
		l.readChar()
	}
	return result.String()
}

// readIdentifier reads an identifier or keyword. A dot is allowed after the
// first character so qualified field names like t.id stay one token.
func (l *Lexer) readIdentifier() string {
	var result strings.Builder
	for unicode.IsLetter(l.ch) || unicode.IsDigit(l.ch) || l.ch == '_' || l.ch == '.' {
		result.WriteRune(l.ch)
		l.readChar()
	}
	return result.String()
}

// NextToken returns the next token. Unrecognized characters are skipped.
func (l *Lexer) NextToken() Token {
	for {
		l.skipWhitespace()

		switch l.ch {
		case 0:
			return Token{Kind: TokenEOF}
		case '=':
			l.readChar()
			return Token{Kind: TokenOperator, Value: "="}
		case '!':
			if l.peekChar() == '=' {
				l.readChar()
				l.readChar()
				return Token{Kind: TokenOperator, Value: "!="}
			}
			// Lone '!' is not part of the language; skip it.
			l.readChar()
			continue
		case '<':
			switch l.peekChar() {
			case '=':
				l.readChar()
				l.readChar()
				return Token{Kind: TokenOperator, Value: "<="}
			case '>':
				l.readChar()
				l.readChar()
				return Token{Kind: TokenOperator, Value: "<>"}
			default:
				l.readChar()
				return Token{Kind: TokenOperator, Value: "<"}
			}
		case '>':
			if l.peekChar() == '=' {
				l.readChar()
				l.readChar()
				return Token{Kind: TokenOperator, Value: ">="}
			}
			l.readChar()
			return Token{Kind: TokenOperator, Value: ">"}
		case '\'', '"':
			return Token{Kind: TokenString, Value: l.readString(l.ch)}
		case ',', '(', ')', '*':
			ch := l.ch
			l.readChar()
			return Token{Kind: TokenPunct, Value: string(ch)}
		default:
			if unicode.IsDigit(l.ch) || (l.ch == '-' && unicode.IsDigit(l.peekChar())) {
				return Token{Kind: TokenNumber, Value: l.readNumber()}
			}
			if unicode.IsLetter(l.ch) || l.ch == '_' {
				value := l.readIdentifier()
				if keywords[strings.ToUpper(value)] {
					return Token{Kind: TokenKeyword, Value: strings.ToUpper(value)}
				}
				return Token{Kind: TokenIdent, Value: value}
			}
			// Unrecognized character: discard and keep scanning.
			l.readChar()
		}
	}
}

// Tokenize returns all tokens from the input, terminated by an EOF token.
func Tokenize(input string) []Token {
	lexer := NewLexer(input)
	var tokens []Token

	for {
		tok := lexer.NextToken()
		tokens = append(tokens, tok)
		if tok.Kind == TokenEOF {
			break
		}
	}

	return tokens
}
