// Package viz renders vehicle rigs in the terminal.
//
//   - [RenderTree]: the rig hierarchy with per-role colors
//   - [Canvas]: Braille-based pixel canvas used for the side view
//   - [Dashboard]: Bubble Tea program that drives a rig live
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Reset controls to defaults
//	J/K   - Select control parameter
//	H/L   - Decrease/increase the selected parameter by one step
//	Tab   - Cycle the plotted channel
//	Q     - Quit
package viz
