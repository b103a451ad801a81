// Package viz provides the terminal player for pixel transport animations.
//
// The player is a Bubble Tea program that steps an [anim.Player] at the
// configured frame rate and draws every frame with half-block glyphs: each
// terminal cell shows two grid rows, the top as foreground and the bottom
// as background color.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Restart the pass from the source image
//	[ ]   - Step backward/forward one frame
//	H     - Toggle the histogram panel
//	T     - Cycle color themes
//	?     - Show help overlay
//	Q     - Quit
package viz
