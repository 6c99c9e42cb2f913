// Package viz is the live terminal view of a running FDTD simulation.
//
// The view is a Bubble Tea program that only consumes snapshots: the
// stepping goroutine sends [FrameMsg] values through Program.Send and a final
// [DoneMsg]. Pausing flips a shared [Gate] that the stepping loop waits on
// between steps.
//
// One-dimensional grids are drawn as a Braille [Canvas] profile of Ez;
// two-dimensional grids as signed colour shading with material regions
// dotted in when the field there is near zero.
//
// # Key Bindings
//
//	Space - Pause/Resume stepping
//	T     - Cycle color themes
//	+/-   - Display gain
//	G     - Toggle GIF recording
//	?     - Show help overlay
//	Q     - Quit
package viz
