// Package viz renders a running chain in the terminal.
//
// The live view is a Bubble Tea program:
//
//   - [Model]: steps a [sim.Simulator] at 60 Hz and draws it
//   - [Canvas]: braille pixel canvas, 2x4 dots per cell
//   - [Viewport]: world to canvas mapping, and back for mouse clicks
//   - [Recorder]: GIF capture of the canvas
//
// # Key Bindings
//
//	Click - Add a particle under the pointer
//	Space - Pause/Resume simulation
//	S     - Single step while paused
//	R     - Reset to the initial particles and parameters
//	T     - Cycle color themes
//	G     - Toggle GIF recording
//	?     - Show help overlay
//
// A click beyond the particle capacity is rejected and reported in the
// status line; the simulation keeps running.
package viz
