// Package pkg provides the libraries behind dimgraph, a force-directed
// graph layout engine in which node and edge dimensions shape both the
// physics and the style.
//
// # Overview
//
// Graphs arrive as [graph.GraphData]: nodes and edges carrying named
// dimensions in [0, 1] (influence, era, fame, ...). The engine simulates
// them into a settled layout, styles every node from its dimensions and
// hands out [graph.Snapshot] values that renderers and hosts draw.
//
// # Architecture
//
//	GraphData (file, URL)
//	       ↓
//	  [pipeline] Load
//	       ↓
//	  [engine]  ← [core/model], [core/physics], [core/style],
//	       ↓       [core/viewport], [core/anim]
//	   Snapshot
//	       ↓
//	  [render/sink] SVG · [render/nodelink] DOT/PNG · [render] PDF
//
// # Main Packages
//
// ## Core Domain Logic
//
// [dimension] - Dimension vectors, the ordered dimension set and the
// similarity measure used by repulsion and focus placement.
//
// [core/model] - Node and link state with deterministic initial placement.
//
// [core/physics] - The force simulator: repulsion, collision, springs,
// clustering, centering and focus pull, with numeric self-correction.
//
// [core/style] - Maps dimensions to size, shape, HSL color and labels.
//
// [core/viewport] - Pan, zoom, fit and center transforms.
//
// [core/anim] - Easing, tweens, node transitions and frame schedulers.
//
// [engine] - The lifecycle state machine tying it all together. Hosts
// drive it through a [core/anim.FrameScheduler].
//
// ## Output
//
// [graph] - GraphData and Snapshot types with JSON helpers.
//
// [render/sink] - Native SVG of a snapshot.
//
// [render/nodelink] - Pinned Graphviz DOT, and SVG/PNG drawn by Graphviz.
//
// [render] - SVG to PDF/PNG conversion.
//
// ## Infrastructure
//
// [pipeline] - Headless load → layout → render, with caching.
//
// [cache] - File, Redis and MongoDB caches for layouts and artifacts.
//
// [config] - TOML configuration and hot reload.
//
// [httputil] - Fetching graph documents over HTTP with retry.
//
// [observability] - Hooks for engine, pipeline and cache events.
//
// [errors] - Coded errors shared by every package.
//
// # Quick Start
//
// Lay out a graph headless and render it to SVG:
//
//	data, _ := pipeline.Load(ctx, "graph.json")
//	snap, _, _ := pipeline.Layout(ctx, data, pipeline.Options{Fit: true})
//	svg := sink.RenderSVG(snap, sink.WithFit())
//
// Or host an engine yourself:
//
//	sched := anim.NewManualScheduler(time.Now(), 0)
//	e := engine.New(engine.Options{Scheduler: sched})
//	e.Start(data, physics.ClusteringConfig{})
//	sched.RunUntilIdle(10000)
//	snap := e.Snapshot()
package pkg
