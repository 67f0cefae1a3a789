// Package viz renders velocity curves in the terminal.
//
// Charts are drawn with asciigraph and framed with lipgloss styles:
//
//   - [MethodChart]: one method's velocity vs time
//   - [ComparisonChart]: all methods on a shared time grid
//   - [Pager]: a Bubble Tea program that pages through the charts
//
// # Key Bindings
//
//	→ l n tab   next chart
//	← h p       previous chart
//	g G         first / last chart
//	t           cycle color themes
//	q esc       quit
package viz
