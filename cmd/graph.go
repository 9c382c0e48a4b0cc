package cmd

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/pkg/errors"
	"github.com/skratchdot/open-golang/open"
	"github.com/spf13/cobra"

	"github.com/cube2222/typewire/graph"
)

var graphOpen bool

var graphCmd = &cobra.Command{
	Use:   "graph <hex|type name>",
	Short: "Print the graphviz dot graph of a type descriptor.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dot, err := env.graph(args[0])
		if err != nil {
			return err
		}
		if !graphOpen {
			_, err := io.WriteString(cmd.OutOrStdout(), dot)
			return err
		}
		return renderAndOpen(dot)
	},
}

func (e *environment) graph(input string) (string, error) {
	t, _, err := e.resolve(input)
	if err != nil {
		return "", err
	}
	g, err := graph.Show(graph.Describe(t))
	if err != nil {
		return "", errors.Wrap(err, "couldn't build graph")
	}
	return g.String(), nil
}

func renderAndOpen(dot string) error {
	file, err := os.CreateTemp(os.TempDir(), "typewire-graph-*.png")
	if err != nil {
		return fmt.Errorf("couldn't create temporary file: %w", err)
	}
	cmd := exec.Command("dot", "-Tpng")
	cmd.Stdin = strings.NewReader(dot)
	cmd.Stdout = file
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		file.Close()
		return fmt.Errorf("couldn't render graph: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("couldn't close temporary file: %w", err)
	}
	if err := open.Start(file.Name()); err != nil {
		return fmt.Errorf("couldn't open graph: %w", err)
	}
	return nil
}

func init() {
	graphCmd.Flags().BoolVar(&graphOpen, "open", false, "Render the graph to png with dot and open it.")
	rootCmd.AddCommand(graphCmd)
}
