// Package viz renders simulation results in the terminal.
//
//   - [Plot]: asciigraph line chart of a response
//   - [Summary]: metric table styled with lipgloss
//   - [Model]: Bubble Tea playback of a finished run
//
// # Key Bindings
//
//	Space - Pause/Resume playback
//	R     - Restart from t = 0
//	[]    - Step backward/forward one frame
//	+/-   - Change playback speed
//	T     - Cycle color themes
//	?     - Show help overlay
package viz
