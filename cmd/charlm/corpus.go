package main

import (
	"fmt"
	"os"

	"github.com/CTAG07/charlm/pkg/corpus"
	"github.com/spf13/cobra"
)

func (c *CLI) newCorpusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "corpus",
		Short: "Manage corpus documents kept in the corpus database",
	}

	cmd.AddCommand(c.newCorpusAddCommand())
	cmd.AddCommand(c.newCorpusListCommand())
	cmd.AddCommand(c.newCorpusRemoveCommand())
	return cmd
}

func (c *CLI) newCorpusAddCommand() *cobra.Command {
	var isHTML bool

	cmd := &cobra.Command{
		Use:   "add <name> <file>",
		Short: "Store a file as a named corpus document, replacing any existing one",
		Args:  cobra.ExactArgs(2),
		Example: `  charlm corpus add hamlet hamlet.txt
  charlm corpus add blog page.html --html`,
		RunE: func(cmd *cobra.Command, args []string) error {
			name, path := args[0], args[1]

			var text string
			if isHTML {
				f, err := os.Open(path)
				if err != nil {
					return fmt.Errorf("could not open html file: %w", err)
				}
				text, err = corpus.HTMLText(f)
				_ = f.Close()
				if err != nil {
					return err
				}
			} else {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("could not read corpus file: %w", err)
				}
				text = string(data)
			}

			store, closeStore, err := c.openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			id, err := store.Add(cmd.Context(), name, text)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "stored %q as document %d\n", name, id)
			return err
		},
	}

	cmd.Flags().BoolVar(&isHTML, "html", false, "Treat the file as HTML and store only its visible text")
	return cmd
}

func (c *CLI) newCorpusListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored corpus documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeStore, err := c.openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			docs, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, doc := range docs {
				fmt.Fprintf(out, "%d\t%s\t%d\n", doc.Id, doc.Name, doc.Length)
			}
			return nil
		},
	}
}

func (c *CLI) newCorpusRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <name>",
		Aliases: []string{"remove"},
		Short:   "Remove a stored corpus document",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeStore, err := c.openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			return store.Remove(cmd.Context(), args[0])
		},
	}
}
