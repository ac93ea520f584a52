package dsl

import (
	"github.com/shaiso/Dataflow/internal/domain"
)

// Parse разбирает DSL в упорядоченный список шагов.
//
// Результат детерминирован: одинаковый вход даёт одинаковый выход.
// При ошибке возвращает *MalformedDSLError.
func Parse(input string) ([]domain.AppStep, error) {
	tokens, err := tokenize(input)
	if err != nil {
		return nil, err
	}

	p := &parser{tokens: tokens, roles: make(map[string]bool)}
	if p.peek().kind == tokEOF {
		return nil, newError(0, ErrEmptyDSL, "dsl is empty")
	}

	if err := p.parseSequence(); err != nil {
		return nil, err
	}
	return p.steps, nil
}

// Validate проверяет, что DSL разбирается без ошибок.
func Validate(input string) error {
	_, err := Parse(input)
	return err
}

type parser struct {
	tokens []token
	pos    int
	steps  []domain.AppStep
	roles  map[string]bool
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) next() token {
	tok := p.tokens[p.pos]
	if tok.kind != tokEOF {
		p.pos++
	}
	return tok
}

// parseSequence: element { ('|' | '&&') element }
func (p *parser) parseSequence() error {
	if err := p.parseElement(); err != nil {
		return err
	}

	for {
		tok := p.peek()
		switch tok.kind {
		case tokEOF:
			return nil
		case tokPipe, tokAnd:
			p.next()
			if p.peek().kind == tokEOF {
				return newError(tok.pos, ErrTrailingOperator, "operator %s has no right operand", tok.kind)
			}
			if err := p.parseElement(); err != nil {
				return err
			}
		case tokGT:
			return newError(tok.pos, ErrUnmatchedSplit, "'>' without matching '<'")
		default:
			return newError(tok.pos, ErrUnexpectedToken, "unexpected %s, expected '|' or '&&'", tok.kind)
		}
	}
}

// parseElement: step | '<' step { '||' step } '>'
func (p *parser) parseElement() error {
	open := p.peek()
	if open.kind != tokLT {
		return p.parseStep()
	}
	p.next()

	if err := p.parseStep(); err != nil {
		return err
	}
	for {
		tok := p.next()
		switch tok.kind {
		case tokGT:
			return nil
		case tokOr:
			if p.peek().kind == tokEOF {
				return newError(tok.pos, ErrTrailingOperator, "operator '||' has no right operand")
			}
			if err := p.parseStep(); err != nil {
				return err
			}
		case tokEOF:
			return newError(open.pos, ErrUnmatchedSplit, "'<' is never closed")
		default:
			return newError(tok.pos, ErrUnexpectedToken, "unexpected %s inside split, expected '||' or '>'", tok.kind)
		}
	}
}

// parseStep: [label ':'] [type '/'] name ['@' qualifier] {arg}
func (p *parser) parseStep() error {
	first, err := p.expectWord("application name")
	if err != nil {
		return err
	}

	var label string
	if p.peek().kind == tokColon {
		p.next()
		label = first.text
		first, err = p.expectWord("application name after label " + label)
		if err != nil {
			return err
		}
	}

	appType := domain.AppTypeTask
	nameTok := first
	if p.peek().kind == tokSlash {
		p.next()
		t, ok := domain.ParseAppType(first.text)
		if !ok {
			return newError(first.pos, ErrUnknownAppType, "unknown app type %q", first.text)
		}
		appType = t
		nameTok, err = p.expectWord("application name after type " + first.text)
		if err != nil {
			return err
		}
	}

	step := domain.AppStep{
		AppName: nameTok.text,
		AppType: appType,
	}

	if at := p.peek(); at.kind == tokAt {
		p.next()
		q := p.peek()
		if q.kind != tokWord {
			return newError(at.pos, ErrBadQualifier, "'@' after %s has no qualifier", step.AppName)
		}
		p.next()
		step.Qualifier = q.text
	}

	for p.peek().kind == tokArg {
		arg := p.next()
		if step.Args == nil {
			step.Args = make(map[string]string)
		}
		step.Args[arg.text] = arg.value
	}

	step.Role = step.AppName
	if label != "" {
		step.Role = label
	}
	if p.roles[step.Role] {
		return newError(first.pos, ErrDuplicateRole,
			"role %q is used more than once, add a label", step.Role)
	}
	p.roles[step.Role] = true

	p.steps = append(p.steps, step)
	return nil
}

func (p *parser) expectWord(what string) (token, error) {
	tok := p.peek()
	if tok.kind != tokWord {
		if tok.kind == tokEOF {
			return tok, newError(tok.pos, ErrTrailingOperator, "expected %s, got end of input", what)
		}
		return tok, newError(tok.pos, ErrUnexpectedToken, "expected %s, got %s", what, tok.kind)
	}
	p.next()
	return tok, nil
}
