package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/dimgraph/pkg/core/anim"
	"github.com/matzehuels/dimgraph/pkg/engine"
	"github.com/matzehuels/dimgraph/pkg/errors"
	"github.com/matzehuels/dimgraph/pkg/graph"
	"github.com/matzehuels/dimgraph/pkg/observability"
)

// frameBatch is how many frames run between context checks.
const frameBatch = 64

// epoch is the virtual start time of every headless run.
var epoch = time.Unix(0, 0)

// Layout simulates data headless and returns the settled snapshot and the
// number of frames run. It does not consult any cache.
func Layout(ctx context.Context, data graph.GraphData, opts Options) (graph.Snapshot, int, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return graph.Snapshot{}, 0, err
	}

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, len(data.Nodes), len(data.Edges))
	start := time.Now()

	snap, frames, err := simulate(ctx, data, opts)
	hooks.OnLayoutComplete(ctx, snap.Iterations, time.Since(start), err)
	return snap, frames, err
}

func simulate(ctx context.Context, data graph.GraphData, opts Options) (graph.Snapshot, int, error) {
	sched := anim.NewManualScheduler(epoch, anim.DefaultFrameInterval)
	e := engine.New(engine.Options{
		Width:             opts.Width,
		Height:            opts.Height,
		Parameters:        opts.Parameters,
		Mapping:           opts.Mapping,
		Scheduler:         sched,
		NodeDuration:      opts.NodeDuration,
		TransformDuration: opts.TransformDuration,
		Seed:              opts.Seed,
		Logger:            opts.Logger,
	})
	defer e.Destroy()

	if !e.Start(data, opts.Clustering) {
		return graph.Snapshot{}, 0, errors.New(errors.ErrCodeInternal, "engine did not start")
	}

	budget := opts.MaxFrames
	run := func() error {
		for sched.Pending() > 0 && budget > 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
			budget -= sched.RunUntilIdle(min(frameBatch, budget))
		}
		return nil
	}

	if err := run(); err != nil {
		return graph.Snapshot{}, sched.Frames(), err
	}
	if opts.Focus != "" {
		if _, ok := e.Model().Node(opts.Focus); !ok {
			return graph.Snapshot{}, sched.Frames(), errors.New(errors.ErrCodeNodeNotFound, "focus node %q not found", opts.Focus)
		}
		e.SetFocusNode(opts.Focus)
		if err := run(); err != nil {
			return graph.Snapshot{}, sched.Frames(), err
		}
	}
	if opts.Fit {
		e.FitToView()
		if err := run(); err != nil {
			return graph.Snapshot{}, sched.Frames(), err
		}
	}
	if budget <= 0 && sched.Pending() > 0 {
		opts.Logger.Warn("frame budget exhausted before the layout settled",
			"max_frames", opts.MaxFrames,
			"iterations", e.Iteration())
	}

	snap := e.Snapshot()
	// The instance id is random; drop it so equal inputs hash equally.
	snap.ID = ""
	return snap, sched.Frames(), nil
}
