// Package viz is the terminal front-end.
//
// [Model] is a Bubble Tea program that plays both outer roles around the
// simulation core: it is the host container (terminal size becomes the
// surface size) and the control layer (key presses add, remove, edit and
// sync pendulums). Frames are drawn on a braille canvas, so each terminal
// cell carries 2x4 dots.
//
// # Key Bindings
//
//	Space     - Pause/Resume
//	R         - Restart every pendulum from its initial angles
//	A / X     - Add a random pendulum / remove the selected one
//	S         - Copy the selected pendulum's physics to all others
//	Tab       - Select the next pendulum
//	Left/Right, Up/Down - Arm 1 length, bob 1 mass
//	[ ] and { }         - Arm 2 length, bob 2 mass
//	+ / -     - Zoom
//	T         - Cycle color themes
//	?         - Full help
package viz
