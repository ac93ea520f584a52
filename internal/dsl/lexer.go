package dsl

import (
	"strings"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokWord
	tokColon
	tokSlash
	tokAt
	tokPipe
	tokAnd
	tokOr
	tokLT
	tokGT
	tokArg
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of input"
	case tokWord:
		return "name"
	case tokColon:
		return "':'"
	case tokSlash:
		return "'/'"
	case tokAt:
		return "'@'"
	case tokPipe:
		return "'|'"
	case tokAnd:
		return "'&&'"
	case tokOr:
		return "'||'"
	case tokLT:
		return "'<'"
	case tokGT:
		return "'>'"
	case tokArg:
		return "argument"
	default:
		return "unknown"
	}
}

type token struct {
	kind  tokenKind
	text  string
	value string // для tokArg: значение после "="
	pos   int
}

// tokenize разбивает DSL на токены.
// Комментарии (# ... до конца строки) и пробельные символы отбрасываются.
func tokenize(input string) ([]token, error) {
	var tokens []token
	i := 0

	for i < len(input) {
		c := input[i]

		switch {
		case c == '#':
			for i < len(input) && input[i] != '\n' {
				i++
			}
		case isSpace(c):
			i++
		case c == ':':
			tokens = append(tokens, token{kind: tokColon, text: ":", pos: i})
			i++
		case c == '/':
			tokens = append(tokens, token{kind: tokSlash, text: "/", pos: i})
			i++
		case c == '@':
			tokens = append(tokens, token{kind: tokAt, text: "@", pos: i})
			i++
		case c == '<':
			tokens = append(tokens, token{kind: tokLT, text: "<", pos: i})
			i++
		case c == '>':
			tokens = append(tokens, token{kind: tokGT, text: ">", pos: i})
			i++
		case c == '|':
			if strings.HasPrefix(input[i:], "||") {
				tokens = append(tokens, token{kind: tokOr, text: "||", pos: i})
				i += 2
			} else {
				tokens = append(tokens, token{kind: tokPipe, text: "|", pos: i})
				i++
			}
		case c == '&':
			if !strings.HasPrefix(input[i:], "&&") {
				return nil, newError(i, ErrUnexpectedToken, "expected '&&'")
			}
			tokens = append(tokens, token{kind: tokAnd, text: "&&", pos: i})
			i += 2
		case strings.HasPrefix(input[i:], "--"):
			tok, next, err := lexArg(input, i)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
			i = next
		case isWordChar(c):
			start := i
			for i < len(input) && isWordChar(input[i]) {
				i++
			}
			tokens = append(tokens, token{kind: tokWord, text: input[start:i], pos: start})
		default:
			return nil, newError(i, ErrUnexpectedToken, "unexpected character %q", c)
		}
	}

	tokens = append(tokens, token{kind: tokEOF, pos: len(input)})
	return tokens, nil
}

// lexArg читает аргумент вида --key=value. Значение может быть в кавычках.
func lexArg(input string, start int) (token, int, error) {
	i := start + 2
	keyStart := i
	for i < len(input) && isWordChar(input[i]) {
		i++
	}
	key := input[keyStart:i]
	if key == "" {
		return token{}, 0, newError(start, ErrBadArgument, "argument has empty key")
	}
	if i >= len(input) || input[i] != '=' {
		return token{}, 0, newError(start, ErrBadArgument, "argument --%s has no value", key)
	}
	i++

	var value string
	if i < len(input) && (input[i] == '\'' || input[i] == '"') {
		quote := input[i]
		end := strings.IndexByte(input[i+1:], quote)
		if end < 0 {
			return token{}, 0, newError(i, ErrUnterminatedQuote, "unterminated quote in --%s", key)
		}
		value = input[i+1 : i+1+end]
		i += end + 2
	} else {
		valStart := i
		for i < len(input) && !isSpace(input[i]) && !isOperatorChar(input[i]) {
			i++
		}
		value = input[valStart:i]
	}

	return token{kind: tokArg, text: key, value: value, pos: start}, i, nil
}

func isWordChar(c byte) bool {
	return c >= 'a' && c <= 'z' ||
		c >= 'A' && c <= 'Z' ||
		c >= '0' && c <= '9' ||
		c == '-' || c == '_' || c == '.'
}

func isOperatorChar(c byte) bool {
	return c == '|' || c == '&' || c == '<' || c == '>'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}
