package charlm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Train reads the corpus from r and replaces the model's table with the
// window statistics it contains. The corpus must hold at least window length
// + 1 characters. On any error the previously trained table is left untouched.
func (m *Model) Train(ctx context.Context, r io.RuneReader) error {
	// ctxCheckInterval is how many characters are consumed between context checks.
	const ctxCheckInterval = 4096

	window := make([]rune, 0, m.windowLength)
	for len(window) < m.windowLength {
		c, _, err := r.ReadRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return fmt.Errorf("%w: read %d of %d characters", ErrCorpusTooShort, len(window), m.windowLength+1)
			}
			return fmt.Errorf("corpus read error: %w", err)
		}
		window = append(window, c)
	}

	table := make(map[string]*WindowTable)
	var observed int64

	for {
		if observed%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		c, _, err := r.ReadRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return fmt.Errorf("corpus read error: %w", err)
		}

		key := string(window)
		wt, ok := table[key]
		if !ok {
			wt = &WindowTable{}
			table[key] = wt
		}
		wt.Observe(c)
		observed++

		slide(window, c)
	}

	if observed == 0 {
		return fmt.Errorf("%w: read %d of %d characters", ErrCorpusTooShort, m.windowLength, m.windowLength+1)
	}

	var transitions int
	for _, wt := range table {
		wt.calculateProbabilities()
		transitions += wt.Len()
	}
	m.table = table

	m.logger.InfoContext(ctx, "Training completed",
		slog.Int("window_length", m.windowLength),
		slog.Int("windows", len(table)),
		slog.Int("transitions", transitions),
		slog.Int64("characters_observed", observed),
	)

	return nil
}

// TrainString is a convenience wrapper around Train for an in-memory corpus.
func (m *Model) TrainString(ctx context.Context, corpus string) error {
	return m.Train(ctx, strings.NewReader(corpus))
}

// slide drops the first character of window and appends c, in place.
func slide(window []rune, c rune) {
	copy(window, window[1:])
	window[len(window)-1] = c
}
