package ui

import "github.com/charmbracelet/lipgloss"

// This file centralizes the lipgloss styles used across the TUI.

const (
	amber      = lipgloss.Color("#FFB000")
	amberDim   = lipgloss.Color("#8A5F00")
	amberLight = lipgloss.Color("#FFD27A")
	glitchTint = lipgloss.Color("#5FD7FF")
	failureRed = lipgloss.Color("196")
)

var (
	// General text
	textStyle = lipgloss.NewStyle().Foreground(amber)
	dimStyle  = lipgloss.NewStyle().Foreground(amberDim)

	// Headers
	headerStyle = lipgloss.NewStyle().
			Foreground(amber).
			Bold(true)

	backStyle = lipgloss.NewStyle().
			Foreground(amber).
			Border(lipgloss.NormalBorder()).
			BorderForeground(amberDim).
			Padding(0, 1)

	fileNameStyle = lipgloss.NewStyle().
			Foreground(amberLight).
			Bold(true).
			Padding(0, 2)

	// Grid
	cellStyle     = lipgloss.NewStyle().Foreground(amberDim)
	nearCellStyle = lipgloss.NewStyle().Foreground(amber).Bold(true)
	hotCellStyle  = lipgloss.NewStyle().Foreground(amberLight).Bold(true).Underline(true)

	// Bins
	binLabelStyle = lipgloss.NewStyle().
			Foreground(amber).
			Border(lipgloss.NormalBorder()).
			BorderForeground(amber).
			Padding(0, 1)

	failureStyle = lipgloss.NewStyle().
			Foreground(failureRed).
			Bold(true).
			Padding(0, 2)

	// File selector
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(amber).
			Foreground(amber).
			Padding(1, 4)

	sideCardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(amberDim).
			Foreground(amberDim).
			Padding(1, 2)

	selectedItemStyle = lipgloss.NewStyle().
				Foreground(amberLight).
				Bold(true)

	// Finale
	finalTitleStyle = lipgloss.NewStyle().
			Foreground(amberLight).
			Bold(true).
			Blink(true)

	helpStyle   = lipgloss.NewStyle().PaddingLeft(2).PaddingTop(1)
	glitchStyle = lipgloss.NewStyle().Foreground(glitchTint).Faint(true)
)
