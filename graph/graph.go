package graph

import (
	"fmt"
	"strings"

	"github.com/awalterschulze/gographviz"
	"github.com/pkg/errors"
)

type Field struct {
	Name, Value string
}

type Child struct {
	Name string
	Node *Node
}

type Node struct {
	Name     string
	Fields   []Field
	Children []Child
}

func NewNode(name string) *Node {
	return &Node{
		Name: name,
	}
}

func (n *Node) AddField(name, value string) {
	n.Fields = append(n.Fields, Field{
		Name:  name,
		Value: value,
	})
}

func (n *Node) AddChild(name string, node *Node) {
	n.Children = append(n.Children, Child{
		Name: name,
		Node: node,
	})
}

// Show lays the tree out as a left-to-right graph of record nodes.
func Show(node *Node) (*gographviz.Graph, error) {
	graph := gographviz.NewGraph()
	graph.Directed = true
	if err := graph.AddAttr("", "rankdir", "LR"); err != nil {
		return nil, errors.Wrap(err, "couldn't set graph direction")
	}
	builder := &graphBuilder{
		graph:        graph,
		nameCounters: make(map[string]int),
	}

	if _, err := getGraphNode(builder, node); err != nil {
		return nil, err
	}

	return graph, nil
}

type graphBuilder struct {
	graph        *gographviz.Graph
	nameCounters map[string]int
}

func (gb *graphBuilder) getID(name string) string {
	count := gb.nameCounters[name]
	gb.nameCounters[name]++
	return fmt.Sprintf("%s_%d", sanitizeID(name), count)
}

func sanitizeID(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, name)
}

var recordEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	`{`, `\{`,
	`}`, `\}`,
	`|`, `\|`,
	`<`, `\<`,
	`>`, `\>`,
)

func getGraphNode(gb *graphBuilder, node *Node) (string, error) {
	fields := make([]string, len(node.Fields))
	for i, field := range node.Fields {
		fields[i] = fmt.Sprintf("<p%d> %s: %s", i, recordEscaper.Replace(field.Name), recordEscaper.Replace(field.Value))
	}
	childPorts := make([]string, len(node.Children))
	for i, child := range node.Children {
		childPorts[i] = fmt.Sprintf("<c%d> %s", i, recordEscaper.Replace(child.Name))
	}

	var labelParts []string
	labelParts = append(labelParts, fmt.Sprintf("<f0> %s", recordEscaper.Replace(node.Name)))

	if len(fields) > 0 {
		labelParts = append(labelParts, strings.Join(fields, "|"))
	}
	if len(childPorts) > 0 {
		labelParts = append(labelParts, strings.Join(childPorts, "|"))
	}

	label := fmt.Sprintf(
		"\"{{%s}}\"",
		strings.Join(labelParts, "}|{"),
	)

	id := gb.getID(node.Name)
	err := gb.graph.AddNode("", id, map[string]string{
		"shape": "record",
		"label": label,
	})
	if err != nil {
		return "", errors.Wrapf(err, "couldn't add node %s", id)
	}

	for i, child := range node.Children {
		childGraphNode, err := getGraphNode(gb, child.Node)
		if err != nil {
			return "", err
		}
		if err := gb.graph.AddPortEdge(id, fmt.Sprintf("c%d", i), childGraphNode, "", true, map[string]string{}); err != nil {
			return "", errors.Wrapf(err, "couldn't add edge %s -> %s", id, childGraphNode)
		}
	}
	return id, nil
}
