package chain

import "context"

// Step is one element of a streaming walk. The final step has End set and
// carries the StopReason; for a terminal stop the final step is the
// terminal token itself, for a dead end or truncation it carries no text.
type Step struct {
	Text string
	End  bool
	Stop StopReason
}

// WalkStream runs one walk and returns a read-only channel of its tokens,
// which is useful for drip-feeding output or for very large byte budgets.
// The channel is closed once the walk stops or ctx is cancelled; a
// cancelled walk closes the channel without a final End step.
func (s *Sampler) WalkStream(ctx context.Context, opts ...WalkOption) <-chan Step {
	o := newWalkOptions(opts)
	steps := make(chan Step)

	go func() {
		defer close(steps)

		emit := func(st Step) bool {
			select {
			case <-ctx.Done():
				s.logger.DebugContext(ctx, "walk stream cancelled")
				return false
			case steps <- st:
				return true
			}
		}

		if s.model.VocabLen() == 0 {
			emit(Step{End: true, Stop: StopDeadEnd})
			return
		}

		cur := s.pickStart(o.startAttempts)
		tok := s.model.Spelling(cur)
		if len(tok) > o.maxBytes {
			emit(Step{Text: tok[:o.maxBytes], End: true, Stop: StopTruncated})
			return
		}
		if IsTerminal(tok) {
			emit(Step{Text: tok, End: true, Stop: StopTerminal})
			return
		}
		if !emit(Step{Text: tok}) {
			return
		}

		// written tracks output size as Walk would build it, separators
		// included, so both variants truncate at the same point.
		written := len(tok)
		for {
			succ := s.model.Successors(cur)
			if len(succ) == 0 {
				emit(Step{End: true, Stop: StopDeadEnd})
				return
			}
			next := succ[s.rng.IntN(len(succ))]
			spell := s.model.Spelling(next)

			if written+1+len(spell) > o.maxBytes {
				emit(Step{End: true, Stop: StopTruncated})
				return
			}
			written += 1 + len(spell)

			if IsTerminal(spell) {
				emit(Step{Text: spell, End: true, Stop: StopTerminal})
				return
			}
			if !emit(Step{Text: spell}) {
				return
			}
			cur = next
		}
	}()

	return steps
}
