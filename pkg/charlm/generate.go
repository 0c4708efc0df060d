package charlm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"
)

// maxPrealloc bounds the bytes reserved up front for generated text.
const maxPrealloc = 4096

// Generate returns seedText followed by up to targetLength characters sampled
// from the model. The last window length characters of seedText form the
// starting window. Generation stops early, without error, when the current
// window was never seen during training.
func (m *Model) Generate(seedText string, targetLength int) (string, error) {
	window, err := m.startWindow(seedText, targetLength)
	if err != nil {
		return "", err
	}

	var builder strings.Builder
	// A dead end can stop generation long before targetLength.
	builder.Grow(len(seedText) + min(targetLength, maxPrealloc))
	builder.WriteString(seedText)

	generatedCount := 0
	for generatedCount < targetLength {
		wt, ok := m.table[string(window)]
		if !ok { // Dead end in chain
			m.logger.Debug("Generation terminated due to dead-end",
				slog.String("last_window", string(window)),
				slog.Int("generated_length", generatedCount),
			)
			break
		}

		c := wt.Sample(m.rng)
		builder.WriteRune(c)
		slide(window, c)
		generatedCount++
	}

	return builder.String(), nil
}

// GenerateStream runs the same loop as Generate but delivers each generated
// character on the returned channel, which is closed when generation ends or
// ctx is cancelled. The seed text itself is not sent. The model must not be
// used by anything else until the channel is closed.
func (m *Model) GenerateStream(ctx context.Context, seedText string, targetLength int) (<-chan rune, error) {
	window, err := m.startWindow(seedText, targetLength)
	if err != nil {
		return nil, err
	}

	charChan := make(chan rune)

	go func() {
		defer close(charChan)

		for generatedCount := 0; generatedCount < targetLength; generatedCount++ {
			if ctx.Err() != nil {
				m.logger.DebugContext(ctx, "Generation stream cancelled by context")
				return
			}

			wt, ok := m.table[string(window)]
			if !ok {
				m.logger.DebugContext(ctx, "Generation stream terminated due to dead-end",
					slog.String("last_window", string(window)),
					slog.Int("generated_length", generatedCount),
				)
				return
			}

			c := wt.Sample(m.rng)
			select {
			case <-ctx.Done():
				m.logger.DebugContext(ctx, "Generation stream cancelled by context")
				return
			case charChan <- c:
			}
			slide(window, c)
		}
	}()

	return charChan, nil
}

// startWindow validates the generation arguments and returns a fresh copy of
// the last window length characters of seedText.
func (m *Model) startWindow(seedText string, targetLength int) ([]rune, error) {
	if targetLength < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrNegativeLength, targetLength)
	}
	if n := utf8.RuneCountInString(seedText); n < m.windowLength {
		return nil, fmt.Errorf("%w: got %d characters, need %d", ErrSeedTooShort, n, m.windowLength)
	}
	runes := []rune(seedText)
	window := make([]rune, m.windowLength)
	copy(window, runes[len(runes)-m.windowLength:])
	return window, nil
}
