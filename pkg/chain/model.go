package chain

import (
	"fmt"
	"io"
	"log/slog"
)

// initialSuccessorCap is the capacity a successor list starts with on its
// first append. Lists grow by amortized doubling from there.
const initialSuccessorCap = 4

// node is the per-id graph record: the multiset of token ids observed
// immediately after this id in the corpus scan. Duplicates are kept because
// they encode transition frequency.
type node struct {
	succ []int
}

// Model is a first-order Markov model over whitespace-delimited tokens.
// It owns the interner that names token spellings and one node record per
// id. A Model is built once by Train (or by explicit Observe/RecordEdge
// calls) and is read-only afterwards; concurrent samplers may share a fully
// built Model without locking.
type Model struct {
	interner *Interner
	splitter *Splitter
	nodes    []node
	edges    int
	logger   *slog.Logger
}

// ModelOption configures a new Model.
type ModelOption func(*Model)

// WithInterner replaces the default growable interner, e.g. with one built
// via WithFixedTable when a hard vocabulary cap is wanted.
func WithInterner(in *Interner) ModelOption {
	return func(m *Model) { m.interner = in }
}

// WithDelimiters replaces the default token delimiter set (space, CR, LF).
func WithDelimiters(delims string) ModelOption {
	return func(m *Model) { m.splitter = NewSplitter(delims) }
}

// NewModel creates an empty Model ready for training.
func NewModel(opts ...ModelOption) *Model {
	m := &Model{
		interner: NewInterner(),
		splitter: NewSplitter(DefaultDelimiters),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SetLogger sets the logger for the Model. By default, all logs are discarded.
func (m *Model) SetLogger(logger *slog.Logger) {
	if logger != nil {
		m.logger = logger
	}
}

// Observe interns a token that has no recorded predecessor, so that tokens
// appearing only at the very start of a corpus still get an id and an
// (empty) successor list. It returns the token's id.
func (m *Model) Observe(spelling string) (int, error) {
	id, err := m.interner.Intern(spelling)
	if err != nil {
		return 0, fmt.Errorf("could not intern %q: %w", spelling, err)
	}
	for len(m.nodes) <= id {
		m.nodes = append(m.nodes, node{})
	}
	return id, nil
}

// RecordEdge interns both spellings and appends curr's id to prev's
// successor list. Repeated observations stay as repeated entries.
func (m *Model) RecordEdge(prev, curr string) error {
	prevID, err := m.Observe(prev)
	if err != nil {
		return err
	}
	currID, err := m.Observe(curr)
	if err != nil {
		return err
	}

	n := &m.nodes[prevID]
	if n.succ == nil {
		n.succ = make([]int, 0, initialSuccessorCap)
	}
	n.succ = append(n.succ, currID)
	m.edges++
	return nil
}

// Successors returns the ordered successor multiset recorded for id. The
// returned slice is empty for a token never observed as a predecessor, and
// must not be modified by the caller.
func (m *Model) Successors(id int) []int {
	if id < 0 || id >= len(m.nodes) {
		return nil
	}
	return m.nodes[id].succ
}

// Spelling returns the spelling interned under id.
func (m *Model) Spelling(id int) string {
	return m.interner.Spelling(id)
}

// Lookup returns the id interned for spelling, if any.
func (m *Model) Lookup(spelling string) (int, bool) {
	return m.interner.Lookup(spelling)
}

// VocabLen returns the number of distinct spellings in the model.
func (m *Model) VocabLen() int {
	return m.interner.Len()
}

// Edges returns the total number of recorded transitions.
func (m *Model) Edges() int {
	return m.edges
}

// Train tokenizes text in a single left-to-right pass and folds every
// consecutive token pair into the model. The text must already be scrubbed
// of non-printable bytes (see the corpus package); token spellings keep
// referencing the text's backing memory, so the text must not be mutated
// afterwards.
func (m *Model) Train(text string) error {
	stream := m.splitter.Split(text)

	var prev string
	first := true
	tokens := 0
	for {
		tok, err := stream.Next()
		if err != nil {
			if err == io.EOF {
				break
			}
			return fmt.Errorf("tokenizer error: %w", err)
		}
		tokens++

		if first {
			// The very first token has no predecessor, but still needs an id.
			if _, err := m.Observe(tok); err != nil {
				return err
			}
			first = false
		} else {
			if err := m.RecordEdge(prev, tok); err != nil {
				return err
			}
		}
		prev = tok
	}

	m.logger.Info("training completed",
		slog.Int("tokens_scanned", tokens),
		slog.Int("vocab_size", m.VocabLen()),
		slog.Int("edges_recorded", m.edges),
	)
	return nil
}

// TrainReader reads r to the end and trains on its contents. Unlike Train,
// the tokens end up referencing a private copy of the data.
func (m *Model) TrainReader(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("could not read training data: %w", err)
	}
	return m.Train(string(data))
}
