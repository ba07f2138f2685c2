// Package tui is the terminal front end for the tableside ordering
// client. It is a bubbletea program: one Model owns all state, every
// backend call runs as a tea.Cmd, and session changes arrive as
// messages from the session manager's subscription channel.
//
// Screens that need a signed-in user (cart, orders, profile) and the
// admin screen are gated by the session guards; while the session is
// still resolving the screen shows a spinner instead of deciding, and
// a rejected guard lands the user on the sign-in form.
package tui
