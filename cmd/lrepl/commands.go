package main

import (
	"fmt"
	"io"
	"os"

	"github.com/npillmayer/lalr/lr/parser"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newParseCommand(opts *options) *cobra.Command {
	var showTree bool
	cmd := &cobra.Command{
		Use:   "parse FILE...",
		Short: "Parse input files",
		Long:  "Parse input files concurrently and report syntax errors.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			initDisplay()
			inputs := make([]parser.Input, len(args))
			for i, name := range args {
				data, err := os.ReadFile(name)
				if err != nil {
					return fmt.Errorf("input: %w", err)
				}
				inputs[i] = parser.Input{Text: string(data), FileName: name}
			}
			trees, err := parser.ParseAll(cmd.Context(), opts.lang, parser.ModeFile, inputs...)
			if err != nil {
				return err
			}
			failed := 0
			for _, tree := range trees {
				printMessages(tree)
				if tree.Status != parser.Parsed {
					failed++
					continue
				}
				pterm.Success.Println(fmt.Sprintf("%s: %d tokens in %v", tree.FileName, len(tree.Tokens), tree.ParseTime))
				if showTree {
					printTree(tree)
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d inputs failed to parse", failed, len(trees))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&showTree, "tree", false, "print parse trees")
	return cmd
}

func newTablesCommand(opts *options) *cobra.Command {
	var htmlFile, dotFile string
	var width int
	cmd := &cobra.Command{
		Use:   "tables",
		Short: "Print the parser tables",
		Long:  "Print the ACTION table of the grammar and export tables as HTML or the automaton as GraphViz.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pd := opts.lang.ParserData
			tables := pd.Tables()
			fmt.Fprintln(cmd.OutOrStdout(), tables.ActionTableAsText(width))
			if htmlFile != "" {
				err := writeFile(htmlFile, func(w io.Writer) error {
					if err := tables.ActionTableAsHTML(w); err != nil {
						return err
					}
					return tables.GotoTableAsHTML(w)
				})
				if err != nil {
					return err
				}
			}
			if dotFile != "" {
				return writeFile(dotFile, pd.ToGraphViz)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&htmlFile, "html", "", "write ACTION and GOTO tables as HTML to file")
	cmd.Flags().StringVar(&dotFile, "dot", "", "write the automaton in GraphViz format to file")
	cmd.Flags().IntVarP(&width, "width", "w", 120, "maximum width of the text table")
	return cmd
}

func writeFile(name string, write func(io.Writer) error) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	tracer().Infof("wrote %s", name)
	return f.Close()
}
