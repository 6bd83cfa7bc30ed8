package viewport

import (
	"fmt"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dimgraph/pkg/core/anim"
)

// Zoom and fit constants.
const (
	MinScale    = 0.1
	MaxScale    = 5.0
	ZoomInStep  = 1.1
	ZoomOutStep = 0.9
	FitPadding  = 40.0
	MaxFitScale = 1.5
	CenterZoom  = 1.5
)

// Transform is a pan/zoom transform.
type Transform struct {
	TranslateX float64
	TranslateY float64
	Scale      float64
}

// Identity returns the transform that maps layout space onto the screen
// unchanged.
func Identity() Transform { return Transform{Scale: 1} }

// String formats the transform as an SVG transform attribute.
func (t Transform) String() string {
	return fmt.Sprintf("translate(%g,%g) scale(%g)", t.TranslateX, t.TranslateY, t.Scale)
}

// Apply maps a layout point to the screen.
func (t Transform) Apply(x, y float64) (sx, sy float64) {
	return x*t.Scale + t.TranslateX, y*t.Scale + t.TranslateY
}

// Invert maps a screen point back to layout space.
func (t Transform) Invert(sx, sy float64) (x, y float64) {
	return (sx - t.TranslateX) / t.Scale, (sy - t.TranslateY) / t.Scale
}

func lerpTransform(a, b Transform, e float64) Transform {
	return Transform{
		TranslateX: anim.Lerp(a.TranslateX, b.TranslateX, e),
		TranslateY: anim.Lerp(a.TranslateY, b.TranslateY, e),
		Scale:      anim.Lerp(a.Scale, b.Scale, e),
	}
}

// Shape is a node footprint in layout space.
type Shape struct {
	X, Y, R float64
}

// Options configures a Controller.
type Options struct {
	// Duration of fit and center animations. Zero uses
	// anim.DefaultTransformDuration.
	Duration time.Duration
	OnChange func(Transform)
	Logger   *log.Logger
}

type transition struct {
	from, to Transform
	tween    *anim.Tween
}

// Controller owns the transform of one viewport.
// It is not safe for concurrent use.
type Controller struct {
	width, height float64
	t             Transform
	duration      time.Duration
	active        *transition

	dragging     bool
	lastX, lastY float64

	onChange func(Transform)
	logger   *log.Logger
}

// New creates a controller for a viewport of the given size with the
// identity transform.
func New(width, height float64, opts Options) *Controller {
	if opts.Duration <= 0 {
		opts.Duration = anim.DefaultTransformDuration
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Controller{
		width:    width,
		height:   height,
		t:        Identity(),
		duration: opts.Duration,
		onChange: opts.OnChange,
		logger:   opts.Logger,
	}
}

// Transform returns the current transform.
func (c *Controller) Transform() Transform { return c.t }

// SetTransform replaces the transform immediately, cancelling any animation.
func (c *Controller) SetTransform(t Transform) {
	c.active = nil
	c.set(t)
}

// Resize changes the viewport size.
func (c *Controller) Resize(width, height float64) {
	c.width, c.height = width, height
}

// Size returns the viewport size.
func (c *Controller) Size() (width, height float64) { return c.width, c.height }

// Animating reports whether a transform animation is in progress.
func (c *Controller) Animating() bool { return c.active != nil }

func (c *Controller) set(t Transform) {
	c.t = t
	if c.onChange != nil {
		c.onChange(t)
	}
}

// =============================================================================
// Pointer Input
// =============================================================================

// PointerDown starts a pan at screen point (x, y) unless the press landed
// on a shape or an animation is running. It reports whether a pan started.
func (c *Controller) PointerDown(x, y float64, onShape bool) bool {
	if onShape || c.Animating() {
		return false
	}
	c.dragging = true
	c.lastX, c.lastY = x, y
	return true
}

// PointerMove pans by the movement since the last event. It reports
// whether the transform changed.
func (c *Controller) PointerMove(x, y float64) bool {
	if !c.dragging {
		return false
	}
	dx, dy := x-c.lastX, y-c.lastY
	c.lastX, c.lastY = x, y
	if c.Animating() || (dx == 0 && dy == 0) {
		return false
	}
	t := c.t
	t.TranslateX += dx
	t.TranslateY += dy
	c.set(t)
	return true
}

// PointerUp ends a pan.
func (c *Controller) PointerUp() { c.dragging = false }

// Dragging reports whether a pan is in progress.
func (c *Controller) Dragging() bool { return c.dragging }

// Pan moves the transform by (dx, dy) screen units.
func (c *Controller) Pan(dx, dy float64) bool {
	if c.Animating() {
		return false
	}
	t := c.t
	t.TranslateX += dx
	t.TranslateY += dy
	c.set(t)
	return true
}

// Wheel zooms around screen point (x, y): out when deltaY > 0, in
// otherwise. The layout point under the cursor stays put.
func (c *Controller) Wheel(x, y, deltaY float64) bool {
	factor := ZoomInStep
	if deltaY > 0 {
		factor = ZoomOutStep
	}
	return c.ZoomAt(x, y, factor)
}

// ZoomAt multiplies the scale by factor, clamped to [MinScale, MaxScale],
// anchored at screen point (x, y).
func (c *Controller) ZoomAt(x, y, factor float64) bool {
	if c.Animating() {
		return false
	}
	scale := max(MinScale, min(MaxScale, c.t.Scale*factor))
	if scale == c.t.Scale {
		return false
	}
	lx, ly := c.t.Invert(x, y)
	c.set(Transform{
		TranslateX: x - lx*scale,
		TranslateY: y - ly*scale,
		Scale:      scale,
	})
	return true
}

// TouchStart maps a single touch onto PointerDown.
func (c *Controller) TouchStart(x, y float64, onShape bool) bool {
	return c.PointerDown(x, y, onShape)
}

// TouchMove maps a single touch onto PointerMove.
func (c *Controller) TouchMove(x, y float64) bool { return c.PointerMove(x, y) }

// TouchEnd maps a single touch onto PointerUp.
func (c *Controller) TouchEnd() { c.PointerUp() }

// =============================================================================
// Animated Transforms
// =============================================================================

// FitTransform computes the transform that fits shapes into the viewport
// with FitPadding on every side, never zooming in beyond MaxFitScale.
// ok is false when shapes is empty.
func (c *Controller) FitTransform(shapes []Shape) (Transform, bool) {
	if len(shapes) == 0 {
		return Transform{}, false
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, s := range shapes {
		minX = min(minX, s.X-s.R)
		minY = min(minY, s.Y-s.R)
		maxX = max(maxX, s.X+s.R)
		maxY = max(maxY, s.Y+s.R)
	}

	availW := c.width - 2*FitPadding
	availH := c.height - 2*FitPadding
	scale := MaxFitScale
	if w := maxX - minX; w > 0 {
		scale = min(scale, availW/w)
	}
	if h := maxY - minY; h > 0 {
		scale = min(scale, availH/h)
	}
	if scale <= 0 || math.IsNaN(scale) {
		scale = MinScale
	}

	cx, cy := (minX+maxX)/2, (minY+maxY)/2
	return Transform{
		TranslateX: c.width/2 - cx*scale,
		TranslateY: c.height/2 - cy*scale,
		Scale:      scale,
	}, true
}

// FitToView animates to FitTransform(shapes) and returns the target.
func (c *Controller) FitToView(shapes []Shape) (Transform, bool) {
	target, ok := c.FitTransform(shapes)
	if !ok {
		return c.t, false
	}
	c.AnimateTo(target)
	return target, true
}

// CenterOn animates to center layout point (x, y), zooming in by
// CenterZoom up to MaxScale, and returns the target.
func (c *Controller) CenterOn(x, y float64) Transform {
	scale := min(c.t.Scale*CenterZoom, MaxScale)
	target := Transform{
		TranslateX: c.width/2 - x*scale,
		TranslateY: c.height/2 - y*scale,
		Scale:      scale,
	}
	c.AnimateTo(target)
	return target
}

// AnimateTo starts an eased animation from the current transform to
// target, replacing any animation in progress.
func (c *Controller) AnimateTo(target Transform) {
	c.dragging = false
	c.active = &transition{from: c.t, to: target, tween: anim.NewTween(c.duration)}
	c.logger.Debug("viewport animation", "to", target.String(), "duration", c.duration)
}

// Advance steps the running animation to now. It reports whether an
// animation is still running afterwards.
func (c *Controller) Advance(now time.Time) bool {
	if c.active == nil {
		return false
	}
	e, done := c.active.tween.Progress(now)
	next := lerpTransform(c.active.from, c.active.to, e)
	if done {
		next = c.active.to
		c.active = nil
	}
	if next != c.t {
		c.set(next)
	}
	return !done
}

// Finish jumps to the end of the running animation.
func (c *Controller) Finish() {
	if c.active == nil {
		return
	}
	to := c.active.to
	c.active = nil
	c.set(to)
}
