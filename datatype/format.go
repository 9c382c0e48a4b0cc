package datatype

import (
	"fmt"
	"strings"

	"github.com/cube2222/typewire/field"
)

// String renders the textual type name, e.g. Array(Nullable(String)).
func (t Type) String() string {
	switch t.TypeID {
	case TypeIDDateTimeWithTimeZone:
		return fmt.Sprintf("DateTime(%s)", field.Quote(t.DateTime.TimeZone))
	case TypeIDDateTime64:
		return fmt.Sprintf("DateTime64(%d)", t.DateTime.Precision)
	case TypeIDDateTime64WithTimeZone:
		return fmt.Sprintf("DateTime64(%d, %s)", t.DateTime.Precision, field.Quote(t.DateTime.TimeZone))
	case TypeIDFixedString:
		return fmt.Sprintf("FixedString(%d)", t.FixedString.Size)
	case TypeIDDecimal32, TypeIDDecimal64, TypeIDDecimal128, TypeIDDecimal256:
		return fmt.Sprintf("%s(%d, %d)", t.TypeID, t.Decimal.Precision, t.Decimal.Scale)
	case TypeIDEnum8, TypeIDEnum16:
		values := make([]string, len(t.Enum.Values))
		for i, v := range t.Enum.Values {
			values[i] = fmt.Sprintf("%s = %d", field.Quote(v.Name), v.Value)
		}
		return fmt.Sprintf("%s(%s)", t.TypeID, strings.Join(values, ", "))
	case TypeIDCustom:
		return t.Custom.Name
	case TypeIDArray, TypeIDNullable, TypeIDLowCardinality, TypeIDMap, TypeIDVariant:
		return fmt.Sprintf("%s(%s)", t.TypeID, joinTypes(t.Children()))
	case TypeIDTuple:
		return fmt.Sprintf("Tuple(%s)", joinTypes(t.Tuple.Elements))
	case TypeIDNamedTuple, TypeIDNested:
		name := "Tuple"
		if t.TypeID == TypeIDNested {
			name = "Nested"
		}
		fields := make([]string, len(t.Named.Fields))
		for i, f := range t.Named.Fields {
			fields[i] = fmt.Sprintf("%s %s", QuoteIdentifier(f.Name), f.Type)
		}
		return fmt.Sprintf("%s(%s)", name, strings.Join(fields, ", "))
	case TypeIDFunction:
		result := "?"
		if t.Function.Return != nil {
			result = t.Function.Return.String()
		}
		return fmt.Sprintf("Function((%s) -> %s)", joinTypes(t.Function.Arguments), result)
	case TypeIDAggregateFunction, TypeIDSimpleAggregateFunction:
		var parts []string
		if t.TypeID == TypeIDAggregateFunction && t.AggregateFunction.Version != 0 {
			parts = append(parts, fmt.Sprint(t.AggregateFunction.Version))
		}
		function := QuoteIdentifier(t.AggregateFunction.Name)
		if len(t.AggregateFunction.Parameters) > 0 {
			params := make([]string, len(t.AggregateFunction.Parameters))
			for i := range t.AggregateFunction.Parameters {
				params[i] = t.AggregateFunction.Parameters[i].String()
			}
			function += "(" + strings.Join(params, ", ") + ")"
		}
		parts = append(parts, function)
		for _, arg := range t.AggregateFunction.Arguments {
			parts = append(parts, arg.String())
		}
		return fmt.Sprintf("%s(%s)", t.TypeID, strings.Join(parts, ", "))
	case TypeIDDynamic:
		return fmt.Sprintf("Dynamic(max_types=%d)", t.Dynamic.MaxTypes)
	case TypeIDInterval:
		return "Interval" + t.Interval.Kind.String()
	}
	return t.TypeID.String()
}

func joinTypes(types []Type) string {
	parts := make([]string, len(types))
	for i := range types {
		parts[i] = types[i].String()
	}
	return strings.Join(parts, ", ")
}

// QuoteIdentifier backquotes name unless it is a plain identifier.
func QuoteIdentifier(name string) string {
	if IsPlainIdentifier(name) {
		return name
	}
	var sb strings.Builder
	sb.WriteByte('`')
	for i := 0; i < len(name); i++ {
		if name[i] == '`' || name[i] == '\\' {
			sb.WriteByte('\\')
		}
		sb.WriteByte(name[i])
	}
	sb.WriteByte('`')
	return sb.String()
}

func IsPlainIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
