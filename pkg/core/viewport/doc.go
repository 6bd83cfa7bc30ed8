// Package viewport owns the pan/zoom transform of one engine instance.
//
// The transform maps layout coordinates to screen coordinates:
//
//	screen = layout*Scale + (TranslateX, TranslateY)
//
// A [Controller] updates it from pointer, wheel and single-touch input and
// from animated fit-to-view and center-on-node requests. While an
// animation runs, direct input is ignored so the two never write the
// transform in the same frame.
//
// Every change is reported through [Options.OnChange].
package viewport
