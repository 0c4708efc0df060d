package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/CTAG07/charlm/pkg/charlm"
	"github.com/CTAG07/charlm/pkg/corpus"
	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"
)

// modelFlags are the flags shared by every command that trains a model.
type modelFlags struct {
	window    int
	seed      uint64
	files     []string
	htmlFiles []string
	docs      []string
	allDocs   bool
}

func (f *modelFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&f.window, "window", "w", 0, "Window length in characters (default from config)")
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "Seed for reproducible generation (default from config, else random)")
	cmd.Flags().StringArrayVarP(&f.files, "file", "f", nil, "Plain text corpus file (repeatable)")
	cmd.Flags().StringArrayVar(&f.htmlFiles, "html", nil, "HTML corpus file, visible text only (repeatable)")
	cmd.Flags().StringArrayVarP(&f.docs, "doc", "d", nil, "Stored corpus document name (repeatable)")
	cmd.Flags().BoolVar(&f.allDocs, "all-docs", false, "Train on every stored corpus document")
}

// prefixRecorder remembers the first n characters read through it.
type prefixRecorder struct {
	r      io.RuneReader
	n      int
	prefix []rune
}

func (p *prefixRecorder) ReadRune() (rune, int, error) {
	c, size, err := p.r.ReadRune()
	if err == nil && len(p.prefix) < p.n {
		p.prefix = append(p.prefix, c)
	}
	return c, size, err
}

// trainModel builds a model from the flags and config and trains it on every
// requested corpus source, joined by corpus.DocumentSeparator. It also returns
// the first window of the corpus.
func (c *CLI) trainModel(ctx context.Context, flags *modelFlags, cmd *cobra.Command) (*charlm.Model, string, error) {
	window := c.config.WindowLength
	if cmd.Flags().Changed("window") {
		window = flags.window
	}

	opts := []charlm.Option{charlm.WithLogger(c.logger)}
	if cmd.Flags().Changed("seed") {
		opts = append(opts, charlm.WithSeed(flags.seed))
	} else if c.config.Seed != nil {
		opts = append(opts, charlm.WithSeed(*c.config.Seed))
	}

	model, err := charlm.New(window, opts...)
	if err != nil {
		return nil, "", err
	}

	readers, closeAll, err := c.corpusReaders(ctx, flags)
	if err != nil {
		return nil, "", err
	}
	defer closeAll()

	if len(readers) == 0 {
		return nil, "", errors.New("no corpus given: use --file, --html, --doc or --all-docs")
	}

	joined := make([]io.Reader, 0, 2*len(readers)-1)
	for i, r := range readers {
		if i > 0 {
			joined = append(joined, strings.NewReader(corpus.DocumentSeparator))
		}
		joined = append(joined, r)
	}

	recorder := &prefixRecorder{r: bufio.NewReader(io.MultiReader(joined...)), n: window}
	start := time.Now()
	if err = model.Train(ctx, recorder); err != nil {
		return nil, "", fmt.Errorf("training failed: %w", err)
	}
	c.logger.Debug("Training finished", slog.Duration("duration", time.Since(start)))

	return model, string(recorder.prefix), nil
}

// corpusReaders opens every corpus source named by the flags, in the order
// files, html files, stored documents.
func (c *CLI) corpusReaders(ctx context.Context, flags *modelFlags) ([]io.Reader, func(), error) {
	var readers []io.Reader
	var closers []io.Closer
	closeAll := func() {
		for _, cl := range closers {
			_ = cl.Close()
		}
	}

	for _, path := range flags.files {
		f, err := corpus.Open(path)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		closers = append(closers, f)
		readers = append(readers, f)
	}

	for _, path := range flags.htmlFiles {
		f, err := os.Open(path)
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("could not open html corpus file: %w", err)
		}
		r, err := corpus.FromHTML(f)
		_ = f.Close()
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		readers = append(readers, r)
	}

	if len(flags.docs) > 0 || flags.allDocs {
		store, closeStore, err := c.openStore()
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		var names []string
		if !flags.allDocs {
			names = flags.docs
		}
		r, err := store.Reader(ctx, names...)
		closeStore()
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		readers = append(readers, r)
	}

	return readers, closeAll, nil
}

func (c *CLI) newGenerateCommand() *cobra.Command {
	var flags modelFlags
	var length int
	var outPath string

	cmd := &cobra.Command{
		Use:   "generate [seed text]",
		Short: "Train on a corpus and generate text from it",
		Example: `  charlm generate --file shakespeare.txt --window 7 --length 1000 "To be"
  charlm generate --doc poems --seed 42 --out poem.txt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			model, firstWindow, err := c.trainModel(ctx, &flags, cmd)
			if err != nil {
				return err
			}

			seedText := strings.Join(args, " ")
			if len(args) == 0 {
				seedText = firstWindow
			}
			if !cmd.Flags().Changed("length") {
				length = c.config.GenerateLength
			}

			text, err := model.Generate(seedText, length)
			if err != nil {
				return err
			}

			if outPath == "" {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
				return err
			}
			if err = atomic.WriteFile(outPath, strings.NewReader(text)); err != nil {
				return fmt.Errorf("failed to write output file: %w", err)
			}
			c.logger.Info("Generated text written", "path", outPath, "bytes", len(text))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVarP(&length, "length", "n", 0, "Number of characters to generate (default from config)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write the generated text to this file instead of stdout")
	return cmd
}

func (c *CLI) newTableCommand() *cobra.Command {
	var flags modelFlags

	cmd := &cobra.Command{
		Use:   "table",
		Short: "Train on a corpus and print every window with its character table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			model, _, err := c.trainModel(ctx, &flags, cmd)
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), model.String())
			return err
		},
	}

	flags.register(cmd)
	return cmd
}

func (c *CLI) newStatsCommand() *cobra.Command {
	var flags modelFlags

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Train on a corpus and print model statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			model, _, err := c.trainModel(ctx, &flags, cmd)
			if err != nil {
				return err
			}
			stats := model.Stats()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "window_length: %d\n", stats.WindowLength)
			fmt.Fprintf(out, "windows:       %d\n", stats.Windows)
			fmt.Fprintf(out, "transitions:   %d\n", stats.Transitions)
			fmt.Fprintf(out, "observations:  %d\n", stats.Observations)
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}
