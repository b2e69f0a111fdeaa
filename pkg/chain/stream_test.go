package chain

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// drainStream collects all steps until the channel closes.
func drainStream(steps <-chan Step) (texts []string, last *Step) {
	for st := range steps {
		if st.Text != "" {
			texts = append(texts, st.Text)
		}
		if st.End {
			end := st
			last = &end
		}
	}
	return texts, last
}

func TestWalkStreamMatchesWalk(t *testing.T) {
	const text = "Who are you? Run away! Run fast."

	walker := NewSampler(trainedModel(t, text), WithSeed(7))
	streamer := NewSampler(trainedModel(t, text), WithSeed(7))

	// Same seed, same model: the streaming walk must visit the same tokens
	// and stop for the same reason as the buffered walk.
	for i := 0; i < 10; i++ {
		want, wantReason := walker.Walk()

		texts, last := drainStream(streamer.WalkStream(context.Background()))
		require.NotNil(t, last, "stream must finish with an End step")
		assert.Equal(t, want, strings.Join(texts, " "), "walk %d", i)
		assert.Equal(t, wantReason, last.Stop, "walk %d", i)
	}
}

func TestWalkStreamDeadEnd(t *testing.T) {
	s := NewSampler(trainedModel(t, "One way"))

	texts, last := drainStream(s.WalkStream(context.Background()))
	assert.Equal(t, []string{"One", "way"}, texts)
	require.NotNil(t, last)
	assert.Equal(t, StopDeadEnd, last.Stop)
	assert.Empty(t, last.Text, "a dead-end End step carries no text")
}

func TestWalkStreamEmptyModel(t *testing.T) {
	s := NewSampler(NewModel())

	texts, last := drainStream(s.WalkStream(context.Background()))
	assert.Empty(t, texts)
	require.NotNil(t, last)
	assert.Equal(t, StopDeadEnd, last.Stop)
}

func TestWalkStreamCancel(t *testing.T) {
	// A cycle would stream forever under a huge budget; cancellation must
	// close the channel.
	s := NewSampler(trainedModel(t, "a b a b"))

	ctx, cancel := context.WithCancel(context.Background())
	steps := s.WalkStream(ctx, WithMaxOutputSize(1<<30), WithStartAttempts(10))

	<-steps
	cancel()
	for range steps {
		// Drain whatever was in flight; the loop must end.
	}
}
