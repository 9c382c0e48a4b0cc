package cmd

import (
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/cube2222/typewire/config"
	"github.com/cube2222/typewire/datatype"
	"github.com/cube2222/typewire/graph"
	"github.com/cube2222/typewire/typecodec"
)

var decodeOutput string
var decodeDump bool

var decodeCmd = &cobra.Command{
	Use:   "decode [hex]...",
	Short: "Decode binary type descriptors.",
	Long: `Decodes every hex argument. Without arguments a single raw descriptor is
read from standard input.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		output := decodeOutput
		if output == "" {
			output = env.config.Output
		}
		if len(args) == 0 {
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return errors.Wrap(err, "couldn't read standard input")
			}
			t, err := env.decode(data)
			if err != nil {
				return err
			}
			return printDecoded(cmd.OutOrStdout(), t, output, decodeDump)
		}
		return env.decodeAll(cmd.OutOrStdout(), args, output, decodeDump)
	},
}

func (e *environment) decodeAll(w io.Writer, inputs []string, output string, dump bool) error {
	for _, input := range inputs {
		data, ok := parseHex(input)
		if !ok {
			return errors.Errorf("'%s' isn't valid hex", input)
		}
		t, err := e.decode(data)
		if err != nil {
			return err
		}
		if err := printDecoded(w, t, output, dump); err != nil {
			return err
		}
	}
	return nil
}

func printDecoded(w io.Writer, t datatype.Type, output string, dump bool) error {
	if dump {
		spew.Fdump(w, t)
		return nil
	}
	switch output {
	case config.OutputName:
		fmt.Fprintln(w, t.String())
	case config.OutputHex:
		data, err := typecodec.Encode(t)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, formatHex(data))
	case config.OutputJSON:
		fmt.Fprintln(w, string(graph.Describe(t).AppendJSON(nil)))
	default:
		return errors.Errorf("unknown output '%s', expected one of name, hex, json", output)
	}
	return nil
}

func init() {
	decodeCmd.Flags().StringVar(&decodeOutput, "output", "", "Output format: name, hex or json. Defaults to the configured output.")
	decodeCmd.Flags().BoolVar(&decodeDump, "dump", false, "Dump the decoded descriptor structure.")
	rootCmd.AddCommand(decodeCmd)
}
