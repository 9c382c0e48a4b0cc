package graph

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kr/text"
	"github.com/valyala/fastjson"

	"github.com/cube2222/typewire/datatype"
	"github.com/cube2222/typewire/typecodec"
)

// Describe builds the node tree of a type descriptor. The first field of every
// node is its wire tag, the rest are the type's parameters.
func Describe(t datatype.Type) *Node {
	node := NewNode(t.TypeID.String())
	if tag, ok := typecodec.TagOf(t.TypeID); ok {
		node.AddField("tag", fmt.Sprintf("0x%02X", byte(tag)))
	} else {
		node.AddField("tag", "invalid")
	}

	switch t.TypeID {
	case datatype.TypeIDFixedString:
		node.AddField("size", strconv.FormatUint(t.FixedString.Size, 10))
	case datatype.TypeIDDecimal32, datatype.TypeIDDecimal64, datatype.TypeIDDecimal128, datatype.TypeIDDecimal256:
		node.AddField("precision", strconv.Itoa(int(t.Decimal.Precision)))
		node.AddField("scale", strconv.Itoa(int(t.Decimal.Scale)))
	case datatype.TypeIDDateTimeWithTimeZone:
		node.AddField("time_zone", t.DateTime.TimeZone)
	case datatype.TypeIDDateTime64:
		node.AddField("precision", strconv.Itoa(int(t.DateTime.Precision)))
	case datatype.TypeIDDateTime64WithTimeZone:
		node.AddField("precision", strconv.Itoa(int(t.DateTime.Precision)))
		node.AddField("time_zone", t.DateTime.TimeZone)
	case datatype.TypeIDCustom:
		node.AddField("name", t.Custom.Name)
	case datatype.TypeIDEnum8, datatype.TypeIDEnum16:
		for _, v := range t.Enum.Values {
			node.AddField(v.Name, strconv.Itoa(int(v.Value)))
		}
	case datatype.TypeIDAggregateFunction, datatype.TypeIDSimpleAggregateFunction:
		if t.TypeID == datatype.TypeIDAggregateFunction {
			node.AddField("version", strconv.FormatUint(t.AggregateFunction.Version, 10))
		}
		node.AddField("function", t.AggregateFunction.Name)
		for i, p := range t.AggregateFunction.Parameters {
			node.AddField(fmt.Sprintf("param%d", i), p.String())
		}
	case datatype.TypeIDDynamic:
		node.AddField("max_types", strconv.Itoa(int(t.Dynamic.MaxTypes)))
	case datatype.TypeIDInterval:
		node.AddField("kind", t.Interval.Kind.String())
		if code, ok := typecodec.IntervalCodeOf(t.Interval.Kind); ok {
			node.AddField("code", fmt.Sprintf("0x%02X", code))
		}
	}

	addChild := func(name string, child *datatype.Type) {
		if child != nil {
			node.AddChild(name, Describe(*child))
		}
	}
	addChildren := func(prefix string, children []datatype.Type) {
		for i := range children {
			node.AddChild(prefix+strconv.Itoa(i), Describe(children[i]))
		}
	}

	switch t.TypeID {
	case datatype.TypeIDArray:
		addChild("element", t.Array.Element)
	case datatype.TypeIDNullable:
		addChild("element", t.Nullable.Element)
	case datatype.TypeIDLowCardinality:
		addChild("element", t.LowCardinality.Element)
	case datatype.TypeIDMap:
		addChild("key", t.Map.Key)
		addChild("value", t.Map.Value)
	case datatype.TypeIDTuple:
		addChildren("", t.Tuple.Elements)
	case datatype.TypeIDNamedTuple, datatype.TypeIDNested:
		for _, f := range t.Named.Fields {
			node.AddChild(f.Name, Describe(f.Type))
		}
	case datatype.TypeIDFunction:
		addChildren("arg", t.Function.Arguments)
		addChild("return", t.Function.Return)
	case datatype.TypeIDAggregateFunction, datatype.TypeIDSimpleAggregateFunction:
		addChildren("arg", t.AggregateFunction.Arguments)
	case datatype.TypeIDVariant:
		addChildren("", t.Variant.Alternatives)
	}

	return node
}

// Walk calls fn for every node in depth-first order. The root's path is "$".
func (n *Node) Walk(fn func(path string, node *Node)) {
	n.walk("$", fn)
}

func (n *Node) walk(path string, fn func(path string, node *Node)) {
	fn(path, n)
	for _, child := range n.Children {
		child.Node.walk(path+"."+child.Name, fn)
	}
}

// Tree renders the node as an indented multi-line listing.
func (n *Node) Tree() string {
	var sb strings.Builder
	sb.WriteString(n.Name)
	sb.WriteByte('\n')
	for _, field := range n.Fields {
		sb.WriteString(text.Indent(fmt.Sprintf("%s: %s\n", field.Name, field.Value), "  "))
	}
	for _, child := range n.Children {
		sb.WriteString(text.Indent(child.Name+": "+child.Node.Tree(), "  "))
	}
	return sb.String()
}

// AppendJSON appends the JSON object form of the node to dst.
func (n *Node) AppendJSON(dst []byte) []byte {
	var arena fastjson.Arena
	return n.jsonValue(&arena).MarshalTo(dst)
}

func (n *Node) jsonValue(a *fastjson.Arena) *fastjson.Value {
	obj := a.NewObject()
	obj.Set("name", a.NewString(n.Name))

	fields := a.NewArray()
	for i, field := range n.Fields {
		f := a.NewObject()
		f.Set("name", a.NewString(field.Name))
		f.Set("value", a.NewString(field.Value))
		fields.SetArrayItem(i, f)
	}
	obj.Set("fields", fields)

	children := a.NewArray()
	for i, child := range n.Children {
		c := a.NewObject()
		c.Set("name", a.NewString(child.Name))
		c.Set("node", child.Node.jsonValue(a))
		children.SetArrayItem(i, c)
	}
	obj.Set("children", children)

	return obj
}
