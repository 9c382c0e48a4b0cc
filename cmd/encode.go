package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var encodeRaw bool

var encodeCmd = &cobra.Command{
	Use:   "encode <type name>...",
	Short: "Print the binary encoding of type names.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return env.encode(cmd.OutOrStdout(), args, encodeRaw)
	},
}

func (e *environment) encode(w io.Writer, inputs []string, raw bool) error {
	for _, input := range inputs {
		_, data, err := e.resolve(input)
		if err != nil {
			return err
		}
		if raw {
			if _, err := w.Write(data); err != nil {
				return err
			}
			continue
		}
		fmt.Fprintln(w, formatHex(data))
	}
	return nil
}

func init() {
	encodeCmd.Flags().BoolVar(&encodeRaw, "raw", false, "Write raw bytes instead of hex.")
	rootCmd.AddCommand(encodeCmd)
}
