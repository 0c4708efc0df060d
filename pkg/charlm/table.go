package charlm

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// CharData holds the statistics for one character observed after a window.
// P and CP are only meaningful once training has completed.
type CharData struct {
	Char  rune
	Count int
	P     float64 // Count divided by the total observations of the window
	CP    float64 // Running sum of P in insertion order
}

func (cd CharData) String() string {
	return fmt.Sprintf("(%q %d %g %g)", cd.Char, cd.Count, cd.P, cd.CP)
}

// WindowTable is the ordered list of characters that followed a single window,
// kept in order of first observation.
type WindowTable struct {
	entries []CharData
}

// Observe records one more occurrence of c after the window.
func (wt *WindowTable) Observe(c rune) {
	for i := range wt.entries {
		if wt.entries[i].Char == c {
			wt.entries[i].Count++
			return
		}
	}
	wt.entries = append(wt.entries, CharData{Char: c, Count: 1})
}

// Len returns the number of distinct characters in the table.
func (wt *WindowTable) Len() int {
	return len(wt.entries)
}

// Total returns the number of observations recorded in the table.
func (wt *WindowTable) Total() int {
	total := 0
	for _, cd := range wt.entries {
		total += cd.Count
	}
	return total
}

// Entries returns a copy of the table's entries in insertion order.
func (wt *WindowTable) Entries() []CharData {
	out := make([]CharData, len(wt.entries))
	copy(out, wt.entries)
	return out
}

// calculateProbabilities sets P and CP for every entry. It must run once,
// after every observation for the window has been recorded.
func (wt *WindowTable) calculateProbabilities() {
	if len(wt.entries) == 0 {
		panic("charlm: probabilities requested for an empty window table")
	}
	total := float64(wt.Total())

	first := &wt.entries[0]
	first.P = float64(first.Count) / total
	first.CP = first.P

	for i := 1; i < len(wt.entries); i++ {
		current := &wt.entries[i]
		current.P = float64(current.Count) / total
		current.CP = wt.entries[i-1].CP + current.P
	}
}

// Sample draws a character from the table's distribution using rng.
func (wt *WindowTable) Sample(rng *rand.Rand) rune {
	return wt.pick(rng.Float64())
}

// pick returns the first character whose cumulative probability exceeds r.
// Rounding can leave the last CP a hair under r when r is close to 1, in which
// case the last character is returned.
func (wt *WindowTable) pick(r float64) rune {
	for _, cd := range wt.entries {
		if cd.CP > r {
			return cd.Char
		}
	}
	return wt.entries[len(wt.entries)-1].Char
}

// String renders the entries as a space separated list.
func (wt *WindowTable) String() string {
	var sb strings.Builder
	for i, cd := range wt.entries {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(cd.String())
	}
	return sb.String()
}
