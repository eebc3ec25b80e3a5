package async

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/certscan/internal/async"
	"github.com/joseph-ayodele/certscan/internal/common"
	"github.com/joseph-ayodele/certscan/internal/core"
)

type recordingProcessor struct {
	mu     sync.Mutex
	paths  []string
	traces []string
}

func (r *recordingProcessor) ProcessFile(ctx context.Context, path string) (core.Outcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, path)
	r.traces = append(r.traces, common.RequestIDFromContext(ctx))
	if path == "bad.png" {
		return core.Outcome{}, errors.New("boom")
	}
	return core.Outcome{}, nil
}

func TestProcessorQueueDrainsOnShutdown(t *testing.T) {
	proc := &recordingProcessor{}
	q := NewProcessorQueue(proc, nil, WithWorkers(3), WithQueueSize(4), WithProcessTimeout(time.Second))

	for _, p := range []string{"a.png", "bad.png", "c.png", "d.png", "e.png"} {
		require.NoError(t, q.Enqueue(context.Background(), async.Job{Path: p, TraceID: "t-" + p}))
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	q.Shutdown(ctx)

	assert.ElementsMatch(t, []string{"a.png", "bad.png", "c.png", "d.png", "e.png"}, proc.paths)
	assert.Contains(t, proc.traces, "t-a.png")
	assert.ErrorIs(t, q.Enqueue(context.Background(), async.Job{Path: "late.png"}), ErrQueueClosed)
}

func TestProcessorQueueFeed(t *testing.T) {
	proc := &recordingProcessor{}
	q := NewProcessorQueue(proc, nil, WithWorkers(1))

	paths := make(chan string, 2)
	paths <- "x.png"
	paths <- "y.png"
	close(paths)
	q.Feed(context.Background(), paths)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	q.Shutdown(ctx)

	assert.Equal(t, []string{"x.png", "y.png"}, proc.paths)
	for _, tr := range proc.traces {
		assert.NotEmpty(t, tr)
	}
}
