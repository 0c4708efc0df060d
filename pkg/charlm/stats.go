package charlm

// Stats holds aggregated statistics for a trained model.
type Stats struct {
	WindowLength int // The number of characters in each window
	Windows      int // The number of distinct windows seen
	Transitions  int // The number of unique window->character links
	Observations int // The sum of counts of all links; the number of trained transitions
}

// Stats returns a snapshot of the model's statistics.
func (m *Model) Stats() Stats {
	stats := Stats{
		WindowLength: m.windowLength,
		Windows:      len(m.table),
	}
	for _, wt := range m.table {
		stats.Transitions += wt.Len()
		stats.Observations += wt.Total()
	}
	return stats
}
