package cmd

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"

	"github.com/cube2222/typewire/graph"
)

var diffCmd = &cobra.Command{
	Use:   "diff <hex|type name> <hex|type name>",
	Short: "Show a unified diff of two type descriptors.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return env.diff(cmd.OutOrStdout(), args[0], args[1])
	},
}

func (e *environment) diff(w io.Writer, a, b string) error {
	typeA, _, err := e.resolve(a)
	if err != nil {
		return errors.Wrap(err, "first type")
	}
	typeB, _, err := e.resolve(b)
	if err != nil {
		return errors.Wrap(err, "second type")
	}
	if typeA.Equal(typeB) {
		fmt.Fprintln(w, "Types are equal.")
		return nil
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(graph.Describe(typeA).Tree()),
		B:        difflib.SplitLines(graph.Describe(typeB).Tree()),
		FromFile: typeA.String(),
		ToFile:   typeB.String(),
		Context:  2,
	})
	if err != nil {
		return errors.Wrap(err, "couldn't diff types")
	}
	if diff == "" {
		fmt.Fprintln(w, "Types differ in parameters that render identically.")
		return nil
	}
	fmt.Fprint(w, diff)
	return nil
}

func init() {
	rootCmd.AddCommand(diffCmd)
}
