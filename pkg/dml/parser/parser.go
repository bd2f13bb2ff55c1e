package parser

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/platinummonkey/dml/pkg/dml"
)

// SyntaxError is returned when schema source cannot be parsed
type SyntaxError struct {
	File string
	Pos  dml.Position
	Msg  string
}

func (e *SyntaxError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s:%d:%d: %s", e.File, e.Pos.Line, e.Pos.Column, e.Msg)
	}
	return fmt.Sprintf("%d:%d: %s", e.Pos.Line, e.Pos.Column, e.Msg)
}

// Parser builds a Datamodel from schema source
type Parser struct {
	scanner *Scanner
	current Token
	next    Token
	scanErr *SyntaxError
}

// NewParser creates a new parser reading from r
func NewParser(r io.Reader) *Parser {
	p := &Parser{scanner: NewScanner(r)}
	p.next = p.scan()
	p.advance()
	return p
}

// NewStringParser creates a new parser for a string
func NewStringParser(content string) *Parser {
	return NewParser(strings.NewReader(content))
}

// Parse reads a schema from r
func Parse(r io.Reader) (*dml.Datamodel, error) {
	return NewParser(r).Parse()
}

// ParseString parses schema source held in a string
func ParseString(content string) (*dml.Datamodel, error) {
	return NewStringParser(content).Parse()
}

// ParseFile parses the schema file at path
func ParseFile(path string) (*dml.Datamodel, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open schema: %w", err)
	}
	defer f.Close()

	dm, err := Parse(f)
	if err != nil {
		if se, ok := err.(*SyntaxError); ok {
			se.File = path
		}
		return nil, err
	}
	return dm, nil
}

// scan returns the next non-comment token
func (p *Parser) scan() Token {
	for {
		tok, err := p.scanner.Scan()
		if err != nil && p.scanErr == nil {
			p.scanErr = &SyntaxError{Pos: tok.Pos, Msg: err.Error()}
		}
		if tok.Type != TokenComment {
			return tok
		}
	}
}

// advance moves to the next token
func (p *Parser) advance() {
	p.current = p.next
	p.next = p.scan()
}

// errorf reports a syntax error at the current token.
// A pending lexical error takes precedence since it is the root cause.
func (p *Parser) errorf(format string, args ...interface{}) error {
	if p.current.Type == TokenError && p.scanErr != nil {
		return p.scanErr
	}
	return &SyntaxError{Pos: p.current.Pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *Parser) isPunct(text string) bool {
	return p.current.Type == TokenPunctuation && p.current.Text == text
}

// expect checks the current token is the given punctuation and advances
func (p *Parser) expect(text string) error {
	if !p.isPunct(text) {
		return p.errorf("expected '%s' but got %s", text, p.describe())
	}
	p.advance()
	return nil
}

func (p *Parser) expectIdentifier(what string) (string, error) {
	if p.current.Type != TokenIdentifier {
		return "", p.errorf("expected %s but got %s", what, p.describe())
	}
	text := p.current.Text
	p.advance()
	return text, nil
}

func (p *Parser) describe() string {
	switch p.current.Type {
	case TokenEOF:
		return "end of input"
	case TokenString:
		return fmt.Sprintf("string %q", p.current.Text)
	default:
		return fmt.Sprintf("'%s'", p.current.Text)
	}
}

// Parse parses the entire input
func (p *Parser) Parse() (*dml.Datamodel, error) {
	dm := &dml.Datamodel{
		Models: make([]*dml.Model, 0),
		Enums:  make([]*dml.Enum, 0),
	}
	declared := make(map[string]dml.Position)

	for p.current.Type != TokenEOF {
		if p.current.Type != TokenIdentifier {
			return nil, p.errorf("expected model or enum declaration but got %s", p.describe())
		}

		switch p.current.Text {
		case "model":
			model, err := p.parseModel()
			if err != nil {
				return nil, err
			}
			if prev, ok := declared[model.Name]; ok {
				return nil, &SyntaxError{Pos: model.Pos, Msg: fmt.Sprintf("%q is already declared at line %d", model.Name, prev.Line)}
			}
			declared[model.Name] = model.Pos
			dm.Models = append(dm.Models, model)
		case "enum":
			enum, err := p.parseEnum()
			if err != nil {
				return nil, err
			}
			if prev, ok := declared[enum.Name]; ok {
				return nil, &SyntaxError{Pos: enum.Pos, Msg: fmt.Sprintf("%q is already declared at line %d", enum.Name, prev.Line)}
			}
			declared[enum.Name] = enum.Pos
			dm.Enums = append(dm.Enums, enum)
		default:
			return nil, p.errorf("unexpected token '%s'", p.current.Text)
		}
	}

	if p.scanErr != nil {
		return nil, p.scanErr
	}
	return dm, nil
}

// parseModel parses: model Name @directive* { field* }
func (p *Parser) parseModel() (*dml.Model, error) {
	pos := p.current.Pos
	p.advance() // consume "model"

	name, err := p.expectIdentifier("model name")
	if err != nil {
		return nil, err
	}

	directives, err := p.parseDirectives()
	if err != nil {
		return nil, err
	}

	if err := p.expect("{"); err != nil {
		return nil, err
	}

	model := &dml.Model{
		Name:       name,
		Fields:     make([]*dml.Field, 0),
		Directives: directives,
		Pos:        pos,
	}

	for !p.isPunct("}") {
		if p.current.Type == TokenEOF {
			return nil, p.errorf("unterminated model %s", name)
		}
		field, err := p.parseField(name)
		if err != nil {
			return nil, err
		}
		if prev := model.FindField(field.Name); prev != nil {
			return nil, &SyntaxError{Pos: field.Pos, Msg: fmt.Sprintf("field %q is already declared on model %s", field.Name, name)}
		}
		model.Fields = append(model.Fields, field)
	}
	p.advance() // consume "}"

	return model, nil
}

// parseField parses: name [:] Type ([] | ?)? @directive*
func (p *Parser) parseField(model string) (*dml.Field, error) {
	pos := p.current.Pos

	name, err := p.expectIdentifier("field name")
	if err != nil {
		return nil, err
	}

	if p.isPunct(":") {
		p.advance()
	}

	typeName, err := p.expectIdentifier("field type")
	if err != nil {
		return nil, err
	}

	arity := dml.Required
	switch {
	case p.isPunct("["):
		p.advance()
		if err := p.expect("]"); err != nil {
			return nil, err
		}
		arity = dml.List
	case p.isPunct("?"):
		p.advance()
		arity = dml.Optional
	}

	directives, err := p.parseDirectives()
	if err != nil {
		return nil, err
	}

	return &dml.Field{
		Name:       name,
		Type:       typeName,
		Arity:      arity,
		Directives: directives,
		Pos:        pos,
		Model:      model,
	}, nil
}

// parseEnum parses: enum Name @directive* { VALUE* }
func (p *Parser) parseEnum() (*dml.Enum, error) {
	pos := p.current.Pos
	p.advance() // consume "enum"

	name, err := p.expectIdentifier("enum name")
	if err != nil {
		return nil, err
	}

	directives, err := p.parseDirectives()
	if err != nil {
		return nil, err
	}

	if err := p.expect("{"); err != nil {
		return nil, err
	}

	enum := &dml.Enum{
		Name:       name,
		Values:     make([]*dml.EnumValue, 0),
		Directives: directives,
		Pos:        pos,
	}

	for !p.isPunct("}") {
		if p.current.Type == TokenEOF {
			return nil, p.errorf("unterminated enum %s", name)
		}
		valuePos := p.current.Pos
		value, err := p.expectIdentifier("enum value")
		if err != nil {
			return nil, err
		}
		if enum.HasValue(value) {
			return nil, &SyntaxError{Pos: valuePos, Msg: fmt.Sprintf("value %q is already declared on enum %s", value, name)}
		}
		enum.Values = append(enum.Values, &dml.EnumValue{Name: value, Pos: valuePos})
		if p.isPunct(",") {
			p.advance()
		}
	}
	p.advance() // consume "}"

	return enum, nil
}

func (p *Parser) parseDirectives() ([]*dml.Directive, error) {
	directives := make([]*dml.Directive, 0)
	for p.isPunct("@") {
		d, err := p.parseDirective()
		if err != nil {
			return nil, err
		}
		directives = append(directives, d)
	}
	return directives, nil
}

// parseDirective parses: @name or @name(arg, ...)
func (p *Parser) parseDirective() (*dml.Directive, error) {
	pos := p.current.Pos
	p.advance() // consume "@"

	name, err := p.expectIdentifier("directive name")
	if err != nil {
		return nil, err
	}

	directive := &dml.Directive{Name: name, Pos: pos}
	if !p.isPunct("(") {
		return directive, nil
	}
	p.advance()

	for !p.isPunct(")") {
		arg, err := p.parseArgument()
		if err != nil {
			return nil, err
		}
		directive.Arguments = append(directive.Arguments, arg)
		if !p.isPunct(",") {
			break
		}
		p.advance()
	}

	if err := p.expect(")"); err != nil {
		return nil, err
	}
	return directive, nil
}

// parseArgument parses: [name:] value
func (p *Parser) parseArgument() (dml.Argument, error) {
	arg := dml.Argument{Pos: p.current.Pos}

	if p.current.Type == TokenIdentifier && p.next.Type == TokenPunctuation && p.next.Text == ":" {
		arg.Name = p.current.Text
		p.advance()
		p.advance()
	}

	value, err := p.parseValue()
	if err != nil {
		return arg, err
	}
	arg.Value = value
	return arg, nil
}

func (p *Parser) parseValue() (dml.Value, error) {
	tok := p.current
	v := dml.Value{Raw: tok.Text, Pos: tok.Pos}

	switch tok.Type {
	case TokenString:
		v.Kind = dml.ValueString
	case TokenNumber:
		v.Kind = dml.ValueNumber
	case TokenIdentifier:
		if tok.Text == "true" || tok.Text == "false" {
			v.Kind = dml.ValueBoolean
		} else {
			v.Kind = dml.ValueConstant
		}
	case TokenPunctuation:
		if tok.Text != "[" {
			return v, p.errorf("expected value but got %s", p.describe())
		}
		return p.parseList()
	default:
		return v, p.errorf("expected value but got %s", p.describe())
	}

	p.advance()
	return v, nil
}

// parseList parses: [value, ...]
func (p *Parser) parseList() (dml.Value, error) {
	v := dml.Value{Kind: dml.ValueList, Pos: p.current.Pos, Elems: make([]dml.Value, 0)}
	p.advance() // consume "["

	for !p.isPunct("]") {
		elem, err := p.parseValue()
		if err != nil {
			return v, err
		}
		v.Elems = append(v.Elems, elem)
		if !p.isPunct(",") {
			break
		}
		p.advance()
	}

	if err := p.expect("]"); err != nil {
		return v, err
	}
	return v, nil
}
