package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/c-bata/go-prompt"
	"github.com/spf13/cobra"

	"github.com/cube2222/typewire/typename"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Interactively encode type names and decode hex.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), "Enter a type name or hex, exit to quit.")
		suggestions := typeSuggestions()
		prompt.New(
			func(line string) {
				env.evaluate(cmd.OutOrStdout(), line)
			},
			func(d prompt.Document) []prompt.Suggest {
				return completeTypeName(suggestions, d)
			},
			prompt.OptionPrefix("typewire> "),
			prompt.OptionSetExitCheckerOnInput(func(in string, breakline bool) bool {
				return breakline && strings.TrimSpace(in) == "exit"
			}),
		).Run()
		return nil
	},
}

// evaluate prints the name and encoding of one repl line.
func (e *environment) evaluate(w io.Writer, line string) {
	line = strings.TrimSpace(line)
	if line == "" || line == "exit" {
		return
	}
	t, data, err := e.resolve(line)
	if err != nil {
		fmt.Fprintln(w, "error:", err)
		return
	}
	fmt.Fprintf(w, "%s\n%s\n", t.String(), formatHex(data))
}

func typeSuggestions() []prompt.Suggest {
	names := typename.KnownNames()
	out := make([]prompt.Suggest, len(names))
	for i, name := range names {
		out[i] = prompt.Suggest{Text: name}
	}
	return out
}

func completeTypeName(suggestions []prompt.Suggest, d prompt.Document) []prompt.Suggest {
	word := d.GetWordBeforeCursorUntilSeparator("(), ")
	if word == "" {
		return nil
	}
	return prompt.FilterHasPrefix(suggestions, word, false)
}

func init() {
	rootCmd.AddCommand(replCmd)
}
