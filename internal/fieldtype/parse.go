package fieldtype

import (
	"strconv"
	"strings"

	"github.com/hlop3z/sqltable/internal/alerr"
)

// Defaults applied when a parameterised type is written without arguments.
const (
	DefaultCharWidth        = 255
	DefaultVarcharWidth     = 255
	DefaultFixedStringWidth = 255
	DefaultDecimalPrecision = 10
	DefaultDecimalScale     = 2
)

// basicNames maps every argument-free grammar name to its type.
var basicNames = map[string]Basic{
	"int": Int32,
}

func init() {
	for _, k := range Kinds() {
		if !k.HasArgs() {
			basicNames[k.String()] = Basic(k)
		}
	}
}

// Names returns every type name the grammar accepts, in grammar order.
// The "int" alias is listed after int32.
func Names() []string {
	names := make([]string, 0, len(basicNames))
	for _, k := range Kinds() {
		names = append(names, k.String())
		if k == KindInt32 {
			names = append(names, "int")
		}
	}
	return names
}

// Parse parses a field type specification such as "varchar(64)" or "array(decimal(18,4))".
//
// Matching is case-insensitive. A parenthesised argument list that contains anything
// other than ASCII letters, digits and commas (and, for array, nested parentheses) is
// ignored as if no arguments were given, so "decimal(10, 2)" yields the default decimal.
// All failures are *alerr.Error values in the syntax category.
func Parse(text string) (Type, error) {
	spec := strings.ToLower(strings.TrimSpace(text))

	name, rest, hasArgs := strings.Cut(spec, "(")
	if name == "" {
		return nil, alerr.New(alerr.ErrTypeSyntax, "missing type name").
			With("type", text)
	}

	args := ""
	if hasArgs {
		args = argumentBody(rest, name == "array")
	}

	switch name {
	case "char":
		width, err := parseWidth(name, args, DefaultCharWidth, 8)
		if err != nil {
			return nil, err
		}
		return Char{Width: uint8(width)}, nil

	case "varchar":
		width, err := parseWidth(name, args, DefaultVarcharWidth, 32)
		if err != nil {
			return nil, err
		}
		return Varchar{Width: uint32(width)}, nil

	case "fixedstring":
		length, err := parseWidth(name, args, DefaultFixedStringWidth, 32)
		if err != nil {
			return nil, err
		}
		return FixedString{Length: uint32(length)}, nil

	case "decimal":
		return parseDecimal(args)

	case "array":
		elem, err := Parse(args)
		if err != nil {
			return nil, alerr.Wrap(alerr.ErrTypeNested, err, "invalid array element type").
				With("type", text).
				With("element", args)
		}
		return Array{Elem: elem}, nil
	}

	if b, ok := basicNames[name]; ok {
		return b, nil
	}
	return nil, alerr.NewUnknownTypeError(name, Names())
}

// MustParse is like Parse but panics on error. Intended for tests and static tables.
func MustParse(text string) Type {
	t, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return t
}

// argumentBody returns the text between the opening parenthesis (already consumed)
// and its matching closing one. It returns "" when the body is unterminated or holds
// characters outside the allowed set. Parentheses are only allowed when nested is set.
func argumentBody(rest string, nested bool) string {
	depth := 0
	for i := 0; i < len(rest); i++ {
		c := rest[i]
		switch {
		case c == ')':
			if depth == 0 {
				return rest[:i]
			}
			depth--
		case c == '(':
			if !nested {
				return ""
			}
			depth++
		case c == ',', isASCIIAlnum(c):
		default:
			return ""
		}
	}
	return ""
}

func isASCIIAlnum(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}

// parseWidth parses an unsigned width of the given bit size, or returns def when args is empty.
func parseWidth(name, args string, def uint64, bitSize int) (uint64, error) {
	if args == "" {
		return def, nil
	}
	n, err := strconv.ParseUint(args, 10, bitSize)
	if err != nil {
		limit := uint64(1)<<bitSize - 1
		return 0, alerr.Wrapf(alerr.ErrTypeArgument, err, "%s width must be a number between 0 and %d", name, limit).
			With("type", name).
			With("argument", args)
	}
	return n, nil
}

func parseDecimal(args string) (Type, error) {
	if args == "" {
		return Decimal{Precision: DefaultDecimalPrecision, Scale: DefaultDecimalScale}, nil
	}

	parts := strings.Split(args, ",")
	if len(parts) != 2 {
		return nil, alerr.Newf(alerr.ErrTypeArgument, "decimal expects 2 arguments (precision,scale), got %d", len(parts)).
			With("type", "decimal").
			With("argument", args)
	}

	precision, err := strconv.ParseUint(parts[0], 10, 32)
	if err != nil {
		return nil, alerr.Wrap(alerr.ErrTypeArgument, err, "decimal precision must be a positive number of total digits").
			With("type", "decimal").
			With("argument", parts[0])
	}
	scale, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil {
		return nil, alerr.Wrap(alerr.ErrTypeArgument, err, "decimal scale must be a number of digits after the point").
			With("type", "decimal").
			With("argument", parts[1])
	}

	return Decimal{Precision: uint32(precision), Scale: uint32(scale)}, nil
}
