package tui

import "github.com/charmbracelet/lipgloss"

// Theme is the color palette for the ordering client. All colors use
// lipgloss ANSI 256-color codes for broad terminal compatibility.
type Theme struct {
	NormalText lipgloss.Color
	FaintText  lipgloss.Color
	Accent     lipgloss.Color

	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	TitleForeground  lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color
	ErrorForeground  lipgloss.Color
	NoticeForeground lipgloss.Color

	// Order status colors.
	StatusPending lipgloss.Color
	StatusPaid    lipgloss.Color
}

// StatusColor maps an order status to its display color. Unknown
// statuses render faint.
func (theme Theme) StatusColor(status string) lipgloss.Color {
	switch status {
	case "PENDING":
		return theme.StatusPending
	case "PAID":
		return theme.StatusPaid
	default:
		return theme.FaintText
	}
}

// DefaultTheme is the built-in dark-terminal scheme.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),
	Accent:     lipgloss.Color("178"), // warm gold, the house color

	SelectedBackground: lipgloss.Color("236"),
	SelectedForeground: lipgloss.Color("255"),

	TitleForeground:  lipgloss.Color("255"),
	BorderColor:      lipgloss.Color("240"),
	HelpText:         lipgloss.Color("241"),
	ErrorForeground:  lipgloss.Color("196"),
	NoticeForeground: lipgloss.Color("114"),

	StatusPending: lipgloss.Color("220"),
	StatusPaid:    lipgloss.Color("114"),
}
