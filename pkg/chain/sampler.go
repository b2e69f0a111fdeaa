package chain

import (
	"io"
	"log/slog"
	"math/rand/v2"
	"strings"
	"unicode"
	"unicode/utf8"
)

// StopReason reports why a walk ended.
type StopReason int

const (
	// StopTerminal means the last appended token ends with sentence
	// punctuation ('.', '?' or '!').
	StopTerminal StopReason = iota
	// StopDeadEnd means the current token has an empty successor list.
	StopDeadEnd
	// StopTruncated means appending the next token would have exceeded the
	// output byte budget.
	StopTruncated
)

// String returns a short name for the reason, used in logs and stored in
// the generation log.
func (r StopReason) String() string {
	switch r {
	case StopTerminal:
		return "terminal"
	case StopDeadEnd:
		return "dead_end"
	case StopTruncated:
		return "truncated"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether tok ends a sentence, i.e. its final byte is
// '.', '?' or '!'.
func IsTerminal(tok string) bool {
	if tok == "" {
		return false
	}
	switch tok[len(tok)-1] {
	case '.', '?', '!':
		return true
	}
	return false
}

// startsSentence reports whether tok begins with an uppercase letter, the
// heuristic for a plausible sentence start.
func startsSentence(tok string) bool {
	r, _ := utf8.DecodeRuneInString(tok)
	return unicode.IsLetter(r) && unicode.IsUpper(r)
}

// Sampler performs bounded random walks over a trained Model. The Model
// must be fully built before the first walk; the Sampler only reads it, so
// several Samplers may share one Model.
type Sampler struct {
	model  *Model
	rng    *rand.Rand
	logger *slog.Logger
}

// SamplerOption configures a new Sampler.
type SamplerOption func(*Sampler)

// WithSeed makes the sampler deterministic by seeding its private random
// source. Without it the source is seeded from the global generator.
func WithSeed(seed uint64) SamplerOption {
	return func(s *Sampler) { s.rng = rand.New(rand.NewPCG(seed, seed)) }
}

// WithRand replaces the sampler's random source entirely.
func WithRand(rng *rand.Rand) SamplerOption {
	return func(s *Sampler) {
		if rng != nil {
			s.rng = rng
		}
	}
}

// NewSampler creates a Sampler over model.
func NewSampler(model *Model, opts ...SamplerOption) *Sampler {
	s := &Sampler{
		model:  model,
		rng:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetLogger sets the logger for the Sampler. By default, all logs are discarded.
func (s *Sampler) SetLogger(logger *slog.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// walkOptions holds the per-call knobs for Walk and Sentence.
type walkOptions struct {
	maxBytes      int
	startAttempts int
	retries       int
}

// WalkOption configures a single Walk, WalkStream or Sentence call.
type WalkOption func(*walkOptions)

// WithMaxOutputSize caps the generated output at n bytes, separators
// included. The walk stops before an append that would exceed the cap.
func WithMaxOutputSize(n int) WalkOption {
	return func(o *walkOptions) { o.maxBytes = n }
}

// WithStartAttempts bounds the number of uniform random draws made while
// looking for an uppercase-starting token before falling back to a linear
// scan.
func WithStartAttempts(n int) WalkOption {
	return func(o *walkOptions) { o.startAttempts = n }
}

// WithRetries bounds how many walks Sentence performs before giving up.
func WithRetries(n int) WalkOption {
	return func(o *walkOptions) { o.retries = n }
}

func newWalkOptions(opts []WalkOption) *walkOptions {
	o := &walkOptions{
		maxBytes:      4096,
		startAttempts: 10000,
		retries:       1000,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// pickStart selects a token id whose spelling starts with an uppercase
// letter: first by bounded uniform random draws over the full id space,
// then by an ascending linear scan, and finally id 0 if no spelling
// qualifies at all. The model must be non-empty.
func (s *Sampler) pickStart(attempts int) int {
	n := s.model.VocabLen()
	for i := 0; i < attempts; i++ {
		id := s.rng.IntN(n)
		if startsSentence(s.model.Spelling(id)) {
			return id
		}
	}
	for id := 0; id < n; id++ {
		if startsSentence(s.model.Spelling(id)) {
			return id
		}
	}
	return 0
}

// Walk materializes one candidate output sequence: it picks a start token,
// then repeatedly appends a uniformly chosen successor (single space
// separated) until a terminal token, a dead end, or the byte budget stops
// it. The walk is always finite; the budget bounds it even on cyclic
// graphs.
func (s *Sampler) Walk(opts ...WalkOption) (string, StopReason) {
	return s.walk(newWalkOptions(opts))
}

func (s *Sampler) walk(o *walkOptions) (string, StopReason) {
	if s.model.VocabLen() == 0 {
		return "", StopDeadEnd
	}

	cur := s.pickStart(o.startAttempts)
	tok := s.model.Spelling(cur)

	var b strings.Builder
	if len(tok) > o.maxBytes {
		b.WriteString(tok[:o.maxBytes])
		return b.String(), StopTruncated
	}
	b.WriteString(tok)
	if IsTerminal(tok) {
		return b.String(), StopTerminal
	}

	for {
		succ := s.model.Successors(cur)
		if len(succ) == 0 {
			return b.String(), StopDeadEnd
		}
		next := succ[s.rng.IntN(len(succ))]
		spell := s.model.Spelling(next)

		if b.Len()+1+len(spell) > o.maxBytes {
			return b.String(), StopTruncated
		}
		b.WriteByte(' ')
		b.WriteString(spell)

		if IsTerminal(spell) {
			return b.String(), StopTerminal
		}
		cur = next
	}
}

// Sentence performs rejection sampling over Walk: it retries until a walk
// ends on a terminal token whose final byte equals ending, or the retry
// budget runs out. The second return value distinguishes retry exhaustion
// from success.
func (s *Sampler) Sentence(ending byte, opts ...WalkOption) (string, bool) {
	o := newWalkOptions(opts)
	for try := 0; try < o.retries; try++ {
		out, reason := s.walk(o)
		if reason == StopTerminal && out[len(out)-1] == ending {
			s.logger.Debug("sentence accepted",
				slog.String("ending", string(ending)),
				slog.Int("attempts", try+1),
				slog.Int("length", len(out)),
			)
			return out, true
		}
	}
	s.logger.Debug("sentence retries exhausted",
		slog.String("ending", string(ending)),
		slog.Int("retries", o.retries),
	)
	return "", false
}
