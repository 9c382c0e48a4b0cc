package typename

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenIdent
	tokenQuotedIdent
	tokenNumber
	tokenString
	tokenPunct
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

func (t token) String() string {
	switch t.kind {
	case tokenEOF:
		return "end of input"
	case tokenString:
		return fmt.Sprintf("string %q", t.text)
	}
	return fmt.Sprintf("%q", t.text)
}

func tokenize(input string) ([]token, error) {
	var tokens []token
	for i := 0; i < len(input); {
		c := input[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++

		case isIdentStart(c):
			start := i
			for i < len(input) && isIdentPart(input[i]) {
				i++
			}
			tokens = append(tokens, token{kind: tokenIdent, text: input[start:i], pos: start})

		case isDigit(c) || c == '.' && i+1 < len(input) && isDigit(input[i+1]):
			start := i
			i = scanNumber(input, i)
			tokens = append(tokens, token{kind: tokenNumber, text: input[start:i], pos: start})

		case c == '\'' || c == '`':
			text, next, err := scanQuoted(input, i)
			if err != nil {
				return nil, err
			}
			kind := tokenString
			if c == '`' {
				kind = tokenQuotedIdent
			}
			tokens = append(tokens, token{kind: kind, text: text, pos: i})
			i = next

		case c == '-' && i+1 < len(input) && input[i+1] == '>':
			tokens = append(tokens, token{kind: tokenPunct, text: "->", pos: i})
			i += 2

		case strings.IndexByte("(),=[]-+", c) >= 0:
			tokens = append(tokens, token{kind: tokenPunct, text: string(c), pos: i})
			i++

		default:
			return nil, errors.Errorf("unexpected character %q at position %d", c, i)
		}
	}
	return append(tokens, token{kind: tokenEOF, pos: len(input)}), nil
}

func scanNumber(input string, i int) int {
	for i < len(input) && (isDigit(input[i]) || input[i] == '.') {
		i++
	}
	if i < len(input) && (input[i] == 'e' || input[i] == 'E') {
		j := i + 1
		if j < len(input) && (input[j] == '+' || input[j] == '-') {
			j++
		}
		if j < len(input) && isDigit(input[j]) {
			i = j
			for i < len(input) && isDigit(input[i]) {
				i++
			}
		}
	}
	return i
}

func scanQuoted(input string, i int) (string, int, error) {
	quote := input[i]
	var sb strings.Builder
	for j := i + 1; j < len(input); j++ {
		c := input[j]
		switch {
		case c == '\\' && j+1 < len(input):
			j++
			switch input[j] {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case '0':
				sb.WriteByte(0)
			default:
				sb.WriteByte(input[j])
			}
		case c == quote:
			return sb.String(), j + 1, nil
		default:
			sb.WriteByte(c)
		}
	}
	return "", 0, errors.Errorf("unterminated quote starting at position %d", i)
}

func isIdentStart(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
