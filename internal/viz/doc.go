// Package viz provides the terminal visualization for the nozzle flow
// simulation.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [Model]: the live view: duct walls, tracer particles, and decaying
//     shock markers on a Braille canvas, with a lipgloss sidebar
//   - [Canvas]: Braille-based pixel canvas for high-fidelity rendering
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Reset duct and parameters
//	Tab   - Cycle control points
//	Arrows- Drag the selected point (the opposite wall mirrors)
//	P     - Cycle tunable parameters
//	+/-   - Adjust the selected parameter
//	?     - Show help overlay
package viz
