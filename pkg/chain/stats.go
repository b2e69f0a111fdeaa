package chain

// Stats holds aggregate counts for a trained model.
type Stats struct {
	VocabSize int // distinct spellings interned
	EdgeCount int // recorded transitions, duplicates included
	DeadEnds  int // ids with an empty successor list
	Starters  int // spellings beginning with an uppercase letter
	MaxFanout int // longest successor list
}

// Stats walks the model's node records and returns a snapshot of its
// aggregate counts.
func (m *Model) Stats() Stats {
	st := Stats{
		VocabSize: m.VocabLen(),
		EdgeCount: m.edges,
	}
	for id := range m.nodes {
		n := len(m.nodes[id].succ)
		if n == 0 {
			st.DeadEnds++
		}
		if n > st.MaxFanout {
			st.MaxFanout = n
		}
		if startsSentence(m.Spelling(id)) {
			st.Starters++
		}
	}
	return st
}
