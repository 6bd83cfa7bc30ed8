package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/dimgraph/pkg/config"
	"github.com/matzehuels/dimgraph/pkg/core/anim"
	"github.com/matzehuels/dimgraph/pkg/core/physics"
	"github.com/matzehuels/dimgraph/pkg/engine"
	"github.com/matzehuels/dimgraph/pkg/graph"
	"github.com/matzehuels/dimgraph/pkg/pipeline"
)

// Live view key bindings and layout.
const (
	panStep     = 40.0
	footerLines = 2
	watchHelp   = "←↑↓→ pan · +/- zoom · f fit · tab focus · enter center · c clear · r restart · l labels · q quit"
)

// =============================================================================
// Frame Scheduling
// =============================================================================

// frameMsg carries the time of one animation frame.
type frameMsg time.Time

// tickScheduler is the engine's FrameScheduler inside bubbletea: requested
// frames run on the next tick, on the program's update goroutine.
type tickScheduler struct {
	pending []anim.FrameFunc
	ticking bool
}

func (s *tickScheduler) RequestFrame(fn anim.FrameFunc) {
	s.pending = append(s.pending, fn)
}

// next schedules a tick if frames are pending and none is scheduled yet.
func (s *tickScheduler) next() tea.Cmd {
	if s.ticking || len(s.pending) == 0 {
		return nil
	}
	s.ticking = true
	return tea.Tick(anim.DefaultFrameInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// run invokes the frames queued before the tick.
func (s *tickScheduler) run(now time.Time) {
	s.ticking = false
	batch := s.pending
	s.pending = nil
	for _, fn := range batch {
		fn(now)
	}
}

// =============================================================================
// Model
// =============================================================================

// configMsg delivers a reloaded config file.
type configMsg struct {
	cfg config.Config
	err error
}

// watchModel hosts one engine in the terminal.
type watchModel struct {
	eng        *engine.Engine
	sched      *tickScheduler
	data       graph.GraphData
	clustering physics.ClusteringConfig
	cluster    string // --cluster override, kept across reloads
	title      string

	cols, rows int
	labels     bool
	clicked    []string
	status     string
	err        error
}

func newWatchModel(eng *engine.Engine, sched *tickScheduler, data graph.GraphData, clustering physics.ClusteringConfig, title string) *watchModel {
	m := &watchModel{
		eng:        eng,
		sched:      sched,
		data:       data,
		clustering: clustering,
		title:      title,
		cols:       80,
		rows:       24 - footerLines,
		labels:     true,
	}
	eng.On(func(ev engine.Event) {
		if c, ok := ev.(engine.NodeClicked); ok {
			m.clicked = append(m.clicked, c.NodeID)
		}
	})
	return m
}

func (m *watchModel) Init() tea.Cmd {
	return m.sched.next()
}

func (m *watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		m.sched.run(time.Time(msg))
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case configMsg:
		m.reload(msg.cfg, msg.err)
	case tea.MouseMsg:
		m.mouse(msg)
	case tea.KeyMsg:
		if m.key(msg.String()) {
			m.eng.Destroy()
			return m, tea.Quit
		}
	}
	return m, m.sched.next()
}

func (m *watchModel) resize(width, height int) {
	m.cols = max(width, 1)
	m.rows = max(height-footerLines, 1)
	m.eng.Resize(float64(m.cols)*cellWidth, float64(m.rows)*cellHeight)
}

// center returns the middle of the viewport in engine units.
func (m *watchModel) center() (x, y float64) {
	return float64(m.cols) * cellWidth / 2, float64(m.rows) * cellHeight / 2
}

// key applies one key press and reports whether the view should quit.
func (m *watchModel) key(k string) bool {
	m.status = ""
	switch k {
	case "q", "ctrl+c", "esc":
		return true
	case "up":
		m.eng.Pan(0, panStep)
	case "down":
		m.eng.Pan(0, -panStep)
	case "left":
		m.eng.Pan(panStep, 0)
	case "right":
		m.eng.Pan(-panStep, 0)
	case "+", "=":
		x, y := m.center()
		m.eng.Wheel(x, y, -1)
	case "-", "_":
		x, y := m.center()
		m.eng.Wheel(x, y, 1)
	case "f":
		m.eng.FitToView()
	case "tab":
		m.cycleFocus(1)
	case "shift+tab":
		m.cycleFocus(-1)
	case "enter":
		if id := m.eng.Focus(); id != "" {
			m.eng.CenterOnNode(id)
		}
	case "c":
		m.eng.ClearFocus()
	case "l":
		m.labels = !m.labels
	case "r":
		if !m.eng.Start(m.data, m.clustering) {
			m.status = "restart is possible once the layout is idle"
		}
	}
	return false
}

// cycleFocus moves the focus to the next node id in sorted order.
func (m *watchModel) cycleFocus(dir int) {
	nodes := m.eng.Model().Nodes()
	if len(nodes) == 0 {
		return
	}
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	slices.Sort(ids)

	i, found := slices.BinarySearch(ids, m.eng.Focus())
	switch {
	case !found && dir > 0:
		i = 0
	case !found:
		i = len(ids) - 1
	default:
		i = (i + dir + len(ids)) % len(ids)
	}
	m.eng.SetFocusNode(ids[i])
}

func (m *watchModel) mouse(msg tea.MouseMsg) {
	x := (float64(msg.X) + 0.5) * cellWidth
	y := (float64(msg.Y) + 0.5) * cellHeight
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.eng.Wheel(x, y, -1)
		return
	case tea.MouseButtonWheelDown:
		m.eng.Wheel(x, y, 1)
		return
	}
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.eng.PointerDown(x, y)
		}
	case tea.MouseActionMotion:
		m.eng.PointerMove(x, y)
	case tea.MouseActionRelease:
		m.eng.PointerUp()
	}
	// Listeners must not call back into the engine, so clicks are
	// collected and turned into focus changes here.
	clicked := m.clicked
	m.clicked = nil
	for _, id := range clicked {
		m.eng.SetFocusNode(id)
	}
}

// reload applies a changed config file to the running engine.
func (m *watchModel) reload(cfg config.Config, err error) {
	if err != nil {
		m.err = err
		return
	}
	if err := m.eng.SetParameters(cfg.Simulation); err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.clustering = cfg.Clustering
	if m.cluster != "" {
		m.clustering.Enabled = true
		m.clustering.Dimension = m.cluster
	}
	m.eng.UpdateConfiguration(m.data, m.clustering)
	m.status = "config reloaded"
}

func (m *watchModel) View() string {
	snap := m.eng.Snapshot()
	var b strings.Builder
	b.WriteString(drawSnapshot(snap, m.cols, m.rows, m.labels).render())
	b.WriteByte('\n')
	b.WriteString(m.statusLine(snap))
	b.WriteByte('\n')
	b.WriteString(StyleDim.Render(watchHelp))
	return b.String()
}

func (m *watchModel) statusLine(s graph.Snapshot) string {
	parts := []string{
		StyleTitle.Render(m.title),
		StyleValue.Render(s.State),
		fmt.Sprintf("iter %d", s.Iterations),
		fmt.Sprintf("energy %.3g", s.Energy),
		fmt.Sprintf("zoom %.2fx", s.Transform.Scale),
	}
	if s.FocusID != "" {
		parts = append(parts, "focus "+StyleHighlight.Render(s.FocusID))
	}
	switch {
	case m.err != nil:
		parts = append(parts, StyleWarning.Render(m.err.Error()))
	case m.status != "":
		parts = append(parts, StyleDim.Render(m.status))
	}
	return strings.Join(parts, StyleDim.Render(" │ "))
}

// =============================================================================
// Command
// =============================================================================

// watchCommand creates the watch command, which runs the simulation live
// in the terminal.
func (c *CLI) watchCommand() *cobra.Command {
	var (
		flags   layoutFlags
		logFile string
	)

	cmd := &cobra.Command{
		Use:   "watch <graph.json>",
		Short: "Run the simulation live in the terminal",
		Long: `Run the simulation live in the terminal.

Keys: arrows pan, +/- zoom, f fits the view, tab cycles the focus node,
enter centers on it, c clears it, r restarts an idle layout, q quits.
Click a node to focus it; scroll to zoom; drag to pan.

With --config, the simulation parameters and clustering are reloaded
whenever the file changes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runWatch(cmd, args[0], &flags, logFile)
		},
	}

	addLayoutFlags(cmd, &flags)
	cmd.Flags().StringVar(&flags.focus, "focus", "", "focus this node once started")
	cmd.Flags().StringVar(&logFile, "log-file", "", "write engine logs to this file")
	return cmd
}

func (c *CLI) runWatch(cmd *cobra.Command, input string, flags *layoutFlags, logFile string) error {
	ctx := cmd.Context()
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	data, err := pipeline.Load(ctx, input)
	if err != nil {
		return err
	}

	// The alternate screen owns the terminal, so engine logs go to a file
	// or nowhere.
	var logOut io.Writer = io.Discard
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	logger := newLogger(logOut, c.Logger.GetLevel())

	opts := flags.options(cfg)
	sched := &tickScheduler{}
	eng := engine.New(engine.Options{
		Width:             opts.Width,
		Height:            opts.Height,
		Parameters:        opts.Parameters,
		Mapping:           opts.Mapping,
		Scheduler:         sched,
		NodeDuration:      opts.NodeDuration,
		TransformDuration: opts.TransformDuration,
		Seed:              opts.Seed,
		Logger:            logger,
	})

	m := newWatchModel(eng, sched, data, opts.Clustering, appName+" "+input)
	m.cluster = flags.cluster
	eng.Start(data, opts.Clustering)
	if flags.focus != "" {
		eng.SetFocusNode(flags.focus)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithOutput(cmd.OutOrStdout()),
	)

	if c.configPath != "" {
		err := config.Watch(ctx, c.configPath, logger, func(cfg config.Config, err error) {
			p.Send(configMsg{cfg: cfg, err: err})
		})
		if err != nil {
			return err
		}
	}

	_, err = p.Run()
	eng.Destroy()
	if stderrors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}
