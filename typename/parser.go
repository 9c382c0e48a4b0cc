// Package typename parses textual type names such as
// Array(Nullable(String)) into type descriptors.
package typename

import (
	"math"
	"math/big"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/cube2222/typewire/datatype"
	"github.com/cube2222/typewire/field"
)

var ErrSyntax = errors.New("typename: syntax error")

// Dynamic without arguments gets the database's default.
const defaultDynamicMaxTypes = 32

var simpleTypes = map[string]datatype.Type{
	"Nothing":  datatype.Nothing,
	"UInt8":    datatype.UInt8,
	"UInt16":   datatype.UInt16,
	"UInt32":   datatype.UInt32,
	"UInt64":   datatype.UInt64,
	"UInt128":  datatype.UInt128,
	"UInt256":  datatype.UInt256,
	"Int8":     datatype.Int8,
	"Int16":    datatype.Int16,
	"Int32":    datatype.Int32,
	"Int64":    datatype.Int64,
	"Int128":   datatype.Int128,
	"Int256":   datatype.Int256,
	"Float32":  datatype.Float32,
	"Float64":  datatype.Float64,
	"Date":     datatype.Date,
	"Date32":   datatype.Date32,
	"String":   datatype.String,
	"UUID":     datatype.UUID,
	"Set":      datatype.Set,
	"Bool":     datatype.Bool,
	"IPv4":     datatype.IPv4,
	"IPv6":     datatype.IPv6,
}

var decimalTypes = map[string]datatype.TypeID{
	"Decimal32":  datatype.TypeIDDecimal32,
	"Decimal64":  datatype.TypeIDDecimal64,
	"Decimal128": datatype.TypeIDDecimal128,
	"Decimal256": datatype.TypeIDDecimal256,
}

var requiresArguments = map[string]bool{
	"DateTime64":              true,
	"FixedString":             true,
	"Enum8":                   true,
	"Enum16":                  true,
	"Array":                   true,
	"Nullable":                true,
	"LowCardinality":          true,
	"Map":                     true,
	"Variant":                 true,
	"Tuple":                   true,
	"Nested":                  true,
	"Function":                true,
	"AggregateFunction":       true,
	"SimpleAggregateFunction": true,
}

// Parse parses a type name. Identifiers that aren't known type names and
// take no arguments are read as custom types.
func Parse(input string) (datatype.Type, error) {
	tokens, err := tokenize(input)
	if err != nil {
		return datatype.Type{}, errors.Wrap(ErrSyntax, err.Error())
	}
	p := &parser{tokens: tokens}
	t, err := p.parseType()
	if err != nil {
		return datatype.Type{}, err
	}
	if tok := p.peek(); tok.kind != tokenEOF {
		return datatype.Type{}, p.errorf(tok, "unexpected %s after type", tok)
	}
	return t, nil
}

// KnownNames lists the type names Parse recognizes, sorted.
func KnownNames() []string {
	names := []string{"DateTime", "Dynamic"}
	for name := range simpleTypes {
		names = append(names, name)
	}
	for name := range decimalTypes {
		names = append(names, name)
	}
	for name := range requiresArguments {
		names = append(names, name)
	}
	for kind := datatype.IntervalKind(0); kind < datatype.NumIntervalKinds; kind++ {
		names = append(names, "Interval"+kind.String())
	}
	sort.Strings(names)
	return names
}

// MustParse is like Parse but panics on error.
func MustParse(input string) datatype.Type {
	t, err := Parse(input)
	if err != nil {
		panic(err)
	}
	return t
}

type parser struct {
	tokens []token
	pos    int
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) peekAt(offset int) token {
	if p.pos+offset >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos+offset]
}

func (p *parser) next() token {
	tok := p.tokens[p.pos]
	if tok.kind != tokenEOF {
		p.pos++
	}
	return tok
}

func (p *parser) isPunct(text string) bool {
	tok := p.peek()
	return tok.kind == tokenPunct && tok.text == text
}

func (p *parser) expectPunct(text string) error {
	if tok := p.next(); tok.kind != tokenPunct || tok.text != text {
		return p.errorf(tok, "expected %q, got %s", text, tok)
	}
	return nil
}

func (p *parser) errorf(tok token, format string, args ...interface{}) error {
	return errors.Wrapf(ErrSyntax, "position %d: "+format, append([]interface{}{tok.pos}, args...)...)
}

func (p *parser) expectIdent() (string, error) {
	tok := p.next()
	if tok.kind != tokenIdent && tok.kind != tokenQuotedIdent {
		return "", p.errorf(tok, "expected identifier, got %s", tok)
	}
	return tok.text, nil
}

func (p *parser) expectUint(bits int) (uint64, error) {
	tok := p.next()
	if tok.kind != tokenNumber {
		return 0, p.errorf(tok, "expected number, got %s", tok)
	}
	v, err := strconv.ParseUint(tok.text, 10, bits)
	if err != nil {
		return 0, p.errorf(tok, "invalid number %s: %s", tok.text, err)
	}
	return v, nil
}

func (p *parser) expectString() (string, error) {
	tok := p.next()
	if tok.kind != tokenString {
		return "", p.errorf(tok, "expected string, got %s", tok)
	}
	return tok.text, nil
}

func (p *parser) parseType() (datatype.Type, error) {
	nameToken := p.next()
	if nameToken.kind != tokenIdent {
		return datatype.Type{}, p.errorf(nameToken, "expected type name, got %s", nameToken)
	}
	name := nameToken.text
	hasArgs := p.isPunct("(")

	if t, ok := simpleTypes[name]; ok && !hasArgs {
		return t, nil
	}
	if id, ok := decimalTypes[name]; ok && hasArgs {
		return p.parseDecimal(id)
	}
	if strings.HasPrefix(name, "Interval") && !hasArgs {
		if kind, ok := datatype.ParseIntervalKind(strings.TrimPrefix(name, "Interval")); ok {
			return datatype.NewInterval(kind), nil
		}
	}

	switch name {
	case "DateTime":
		if !hasArgs {
			return datatype.DateTime, nil
		}
		p.next()
		tz, err := p.expectString()
		if err != nil {
			return datatype.Type{}, err
		}
		return datatype.NewDateTimeWithTimeZone(tz), p.expectPunct(")")

	case "DateTime64":
		if !hasArgs {
			break
		}
		p.next()
		precision, err := p.expectUint(8)
		if err != nil {
			return datatype.Type{}, err
		}
		var tz string
		if p.isPunct(",") {
			p.next()
			if tz, err = p.expectString(); err != nil {
				return datatype.Type{}, err
			}
		}
		return datatype.NewDateTime64(uint8(precision), tz), p.expectPunct(")")

	case "FixedString":
		if !hasArgs {
			break
		}
		p.next()
		size, err := p.expectUint(64)
		if err != nil {
			return datatype.Type{}, err
		}
		return datatype.NewFixedString(size), p.expectPunct(")")

	case "Enum8", "Enum16":
		if !hasArgs {
			break
		}
		return p.parseEnum(name)

	case "Array", "Nullable", "LowCardinality":
		if !hasArgs {
			break
		}
		p.next()
		element, err := p.parseType()
		if err != nil {
			return datatype.Type{}, err
		}
		if err := p.expectPunct(")"); err != nil {
			return datatype.Type{}, err
		}
		switch name {
		case "Array":
			return datatype.NewArray(element), nil
		case "Nullable":
			return datatype.NewNullable(element), nil
		}
		return datatype.NewLowCardinality(element), nil

	case "Map":
		if !hasArgs {
			break
		}
		p.next()
		key, err := p.parseType()
		if err != nil {
			return datatype.Type{}, err
		}
		if err := p.expectPunct(","); err != nil {
			return datatype.Type{}, err
		}
		value, err := p.parseType()
		if err != nil {
			return datatype.Type{}, err
		}
		return datatype.NewMap(key, value), p.expectPunct(")")

	case "Variant":
		if !hasArgs {
			break
		}
		p.next()
		alternatives, err := p.parseTypeList(")")
		if err != nil {
			return datatype.Type{}, err
		}
		return datatype.NewVariant(alternatives...), nil

	case "Tuple", "Nested":
		if !hasArgs {
			break
		}
		return p.parseTuple(name)

	case "Function":
		if !hasArgs {
			break
		}
		return p.parseFunction()

	case "AggregateFunction", "SimpleAggregateFunction":
		if !hasArgs {
			break
		}
		return p.parseAggregateFunction(name)

	case "Dynamic":
		if !hasArgs {
			return datatype.NewDynamic(defaultDynamicMaxTypes), nil
		}
		p.next()
		if key, err := p.expectIdent(); err != nil || key != "max_types" {
			return datatype.Type{}, p.errorf(nameToken, "Dynamic expects max_types=N")
		}
		if err := p.expectPunct("="); err != nil {
			return datatype.Type{}, err
		}
		maxTypes, err := p.expectUint(8)
		if err != nil {
			return datatype.Type{}, err
		}
		return datatype.NewDynamic(uint8(maxTypes)), p.expectPunct(")")
	}

	if hasArgs {
		return datatype.Type{}, p.errorf(nameToken, "unknown type %s with arguments", name)
	}
	if _, ok := decimalTypes[name]; ok || requiresArguments[name] {
		return datatype.Type{}, p.errorf(nameToken, "%s requires arguments", name)
	}
	return datatype.NewCustom(name), nil
}

func (p *parser) parseTypeList(closing string) ([]datatype.Type, error) {
	var out []datatype.Type
	if p.isPunct(closing) {
		p.next()
		return out, nil
	}
	for {
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		out = append(out, t)
		if p.isPunct(",") {
			p.next()
			continue
		}
		return out, p.expectPunct(closing)
	}
}

func (p *parser) parseDecimal(id datatype.TypeID) (datatype.Type, error) {
	p.next()
	precision, err := p.expectUint(8)
	if err != nil {
		return datatype.Type{}, err
	}
	if err := p.expectPunct(","); err != nil {
		return datatype.Type{}, err
	}
	scale, err := p.expectUint(8)
	if err != nil {
		return datatype.Type{}, err
	}
	return datatype.NewDecimal(id, uint8(precision), uint8(scale)), p.expectPunct(")")
}

func (p *parser) parseEnum(name string) (datatype.Type, error) {
	p.next()
	var values []datatype.EnumValue
	for !p.isPunct(")") {
		if len(values) > 0 {
			if err := p.expectPunct(","); err != nil {
				return datatype.Type{}, err
			}
		}
		member, err := p.expectString()
		if err != nil {
			return datatype.Type{}, err
		}
		if err := p.expectPunct("="); err != nil {
			return datatype.Type{}, err
		}
		negative := false
		if p.isPunct("-") {
			p.next()
			negative = true
		}
		tok := p.next()
		if tok.kind != tokenNumber {
			return datatype.Type{}, p.errorf(tok, "expected enum value, got %s", tok)
		}
		v, err := strconv.ParseInt(tok.text, 10, 32)
		if err != nil {
			return datatype.Type{}, p.errorf(tok, "invalid enum value %s", tok.text)
		}
		if negative {
			v = -v
		}
		if v < math.MinInt16 || v > math.MaxInt16 {
			return datatype.Type{}, p.errorf(tok, "enum value %d out of range", v)
		}
		values = append(values, datatype.EnumValue{Name: member, Value: int16(v)})
	}
	p.next()
	if name == "Enum8" {
		return datatype.NewEnum8(values...), nil
	}
	return datatype.NewEnum16(values...), nil
}

// An element is named when an identifier is followed by the start of a type.
func (p *parser) atNamedElement() bool {
	tok := p.peek()
	if tok.kind == tokenQuotedIdent {
		return true
	}
	return tok.kind == tokenIdent && p.peekAt(1).kind == tokenIdent
}

func (p *parser) parseTuple(name string) (datatype.Type, error) {
	p.next()
	if p.isPunct(")") {
		p.next()
		if name == "Nested" {
			return datatype.NewNested(), nil
		}
		return datatype.NewTuple(), nil
	}
	named := name == "Nested" || p.atNamedElement()
	var elements []datatype.Type
	var fields []datatype.NamedField
	for {
		if named {
			fieldName, err := p.expectIdent()
			if err != nil {
				return datatype.Type{}, err
			}
			t, err := p.parseType()
			if err != nil {
				return datatype.Type{}, err
			}
			fields = append(fields, datatype.NamedField{Name: fieldName, Type: t})
		} else {
			t, err := p.parseType()
			if err != nil {
				return datatype.Type{}, err
			}
			elements = append(elements, t)
		}
		if p.isPunct(",") {
			p.next()
			continue
		}
		if err := p.expectPunct(")"); err != nil {
			return datatype.Type{}, err
		}
		break
	}
	switch {
	case name == "Nested":
		return datatype.NewNested(fields...), nil
	case named:
		return datatype.NewNamedTuple(fields...), nil
	}
	return datatype.NewTuple(elements...), nil
}

func (p *parser) parseFunction() (datatype.Type, error) {
	p.next()
	if err := p.expectPunct("("); err != nil {
		return datatype.Type{}, err
	}
	arguments, err := p.parseTypeList(")")
	if err != nil {
		return datatype.Type{}, err
	}
	if err := p.expectPunct("->"); err != nil {
		return datatype.Type{}, err
	}
	result, err := p.parseType()
	if err != nil {
		return datatype.Type{}, err
	}
	return datatype.NewFunction(arguments, result), p.expectPunct(")")
}

func (p *parser) parseAggregateFunction(name string) (datatype.Type, error) {
	p.next()
	var version uint64
	if name == "AggregateFunction" && p.peek().kind == tokenNumber {
		v, err := p.expectUint(64)
		if err != nil {
			return datatype.Type{}, err
		}
		version = v
		if err := p.expectPunct(","); err != nil {
			return datatype.Type{}, err
		}
	}
	function, err := p.expectIdent()
	if err != nil {
		return datatype.Type{}, err
	}
	var parameters []field.Field
	if p.isPunct("(") {
		p.next()
		for !p.isPunct(")") {
			if len(parameters) > 0 {
				if err := p.expectPunct(","); err != nil {
					return datatype.Type{}, err
				}
			}
			param, err := p.parseLiteral()
			if err != nil {
				return datatype.Type{}, err
			}
			parameters = append(parameters, param)
		}
		p.next()
	}
	var arguments []datatype.Type
	if p.isPunct(",") {
		p.next()
		if arguments, err = p.parseTypeList(")"); err != nil {
			return datatype.Type{}, err
		}
	} else if err := p.expectPunct(")"); err != nil {
		return datatype.Type{}, err
	}
	if name == "SimpleAggregateFunction" {
		return datatype.NewSimpleAggregateFunction(function, parameters, arguments...), nil
	}
	return datatype.NewAggregateFunction(version, function, parameters, arguments...), nil
}

func (p *parser) parseLiteral() (field.Field, error) {
	tok := p.next()
	switch tok.kind {
	case tokenString:
		return field.NewString(tok.text), nil
	case tokenNumber:
		return parseNumber(tok, false, p)
	case tokenIdent:
		switch strings.ToLower(tok.text) {
		case "null":
			return field.NewNull(), nil
		case "true":
			return field.NewBool(true), nil
		case "false":
			return field.NewBool(false), nil
		case "inf":
			return field.NewFloat64(math.Inf(1)), nil
		case "nan":
			return field.NewFloat64(math.NaN()), nil
		}
	case tokenPunct:
		switch tok.text {
		case "-", "+":
			next := p.next()
			switch {
			case next.kind == tokenIdent && next.text == "Inf":
				if tok.text == "-" {
					return field.NewNegativeInfinity(), nil
				}
				return field.NewPositiveInfinity(), nil
			case next.kind == tokenIdent && next.text == "inf":
				if tok.text == "-" {
					return field.NewFloat64(math.Inf(-1)), nil
				}
				return field.NewFloat64(math.Inf(1)), nil
			case next.kind == tokenNumber:
				return parseNumber(next, tok.text == "-", p)
			}
			return field.Field{}, p.errorf(next, "expected number after %s", tok.text)
		case "[":
			elements, err := p.parseLiteralList("]")
			return field.NewArray(elements...), err
		case "(":
			elements, err := p.parseLiteralList(")")
			return field.NewTuple(elements...), err
		}
	}
	return field.Field{}, p.errorf(tok, "unsupported literal %s", tok)
}

func (p *parser) parseLiteralList(closing string) ([]field.Field, error) {
	var out []field.Field
	for !p.isPunct(closing) {
		if len(out) > 0 {
			if err := p.expectPunct(","); err != nil {
				return nil, err
			}
		}
		f, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	p.next()
	return out, nil
}

// Non-negative integers become UInt64 (UInt128 past 64 bits), negative
// ones Int64 (Int128 past 64 bits).
func parseNumber(tok token, negative bool, p *parser) (field.Field, error) {
	if strings.ContainsAny(tok.text, ".eE") {
		v, err := strconv.ParseFloat(tok.text, 64)
		if err != nil {
			return field.Field{}, p.errorf(tok, "invalid number %s", tok.text)
		}
		if negative {
			v = -v
		}
		return field.NewFloat64(v), nil
	}
	v, ok := new(big.Int).SetString(tok.text, 10)
	if !ok {
		return field.Field{}, p.errorf(tok, "invalid number %s", tok.text)
	}
	if negative {
		v.Neg(v)
		if v.IsInt64() {
			return field.NewInt64(v.Int64()), nil
		}
		return field.NewInt128(v), nil
	}
	if v.IsUint64() {
		return field.NewUInt64(v.Uint64()), nil
	}
	return field.NewUInt128(v), nil
}
