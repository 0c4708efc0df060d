package charlm

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
)

var (
	// ErrInvalidWindowLength is returned by New when the window length is not positive.
	ErrInvalidWindowLength = errors.New("charlm: window length must be positive")
	// ErrCorpusTooShort is returned by Train when the corpus holds fewer than
	// window length + 1 characters.
	ErrCorpusTooShort = errors.New("charlm: corpus shorter than window length + 1")
	// ErrSeedTooShort is returned by Generate when the seed text holds fewer
	// characters than the window length.
	ErrSeedTooShort = errors.New("charlm: seed text shorter than window length")
	// ErrNegativeLength is returned by Generate for a negative target length.
	ErrNegativeLength = errors.New("charlm: target length must not be negative")
)

// Model is a character-level language model mapping every window seen during
// training to the distribution of the character that followed it.
type Model struct {
	windowLength int
	table        map[string]*WindowTable
	rng          *rand.Rand
	seeded       bool
	seed         uint64
	logger       *slog.Logger
}

// Option configures a Model at construction.
type Option func(*Model)

// WithSeed makes generation reproducible: models built with the same seed and
// trained on the same corpus generate the same text.
func WithSeed(seed uint64) Option {
	return func(m *Model) {
		m.seeded = true
		m.seed = seed
	}
}

// WithLogger sets the logger used for training and generation events.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Model) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// New creates an empty model with the given window length. Without WithSeed
// the random source is seeded from runtime entropy.
func New(windowLength int, opts ...Option) (*Model, error) {
	if windowLength <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidWindowLength, windowLength)
	}

	m := &Model{
		windowLength: windowLength,
		table:        make(map[string]*WindowTable),
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(m)
	}

	if !m.seeded {
		m.seed = rand.Uint64()
	}
	// The second PCG word is fixed so a single integer fully determines the stream.
	m.rng = rand.New(rand.NewPCG(m.seed, 0x9e3779b97f4a7c15))

	return m, nil
}

// WindowLength returns the number of characters in each window.
func (m *Model) WindowLength() int {
	return m.windowLength
}

// SetLogger replaces the model's logger. A nil logger is ignored.
func (m *Model) SetLogger(logger *slog.Logger) {
	if logger != nil {
		m.logger = logger
	}
}

// Table returns a copy of the entries recorded for window, in insertion order,
// and whether the window was seen during training.
func (m *Model) Table(window string) ([]CharData, bool) {
	wt, ok := m.table[window]
	if !ok {
		return nil, false
	}
	return wt.Entries(), true
}

// Len returns the number of distinct windows in the model.
func (m *Model) Len() int {
	return len(m.table)
}
