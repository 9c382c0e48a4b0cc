package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/cube2222/typewire/graph"
)

var describeTree bool

var describeCmd = &cobra.Command{
	Use:   "describe <hex|type name>",
	Short: "List every node of a type descriptor with its tag and parameters.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return env.describe(cmd.OutOrStdout(), args[0], describeTree)
	},
}

func (e *environment) describe(w io.Writer, input string, tree bool) error {
	t, _, err := e.resolve(input)
	if err != nil {
		return err
	}
	node := graph.Describe(t)
	if tree {
		fmt.Fprint(w, node.Tree())
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"path", "type", "tag", "parameters"})
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	node.Walk(func(path string, node *graph.Node) {
		var tag string
		var params []string
		for _, field := range node.Fields {
			if field.Name == "tag" && tag == "" {
				tag = field.Value
				continue
			}
			params = append(params, fmt.Sprintf("%s=%s", field.Name, field.Value))
		}
		table.Append([]string{path, node.Name, tag, strings.Join(params, ", ")})
	})
	table.Render()
	return nil
}

func init() {
	describeCmd.Flags().BoolVar(&describeTree, "tree", false, "Print an indented tree instead of a table.")
	rootCmd.AddCommand(describeCmd)
}
