package cmd

import "github.com/charmbracelet/lipgloss"

// ========================================
// Renk Paleti ve Stiller
// ========================================

var (
	primaryColor   = lipgloss.Color("#7C3AED") // Mor
	secondaryColor = lipgloss.Color("#06B6D4") // Cyan
	accentColor    = lipgloss.Color("#10B981") // Yeşil
	warningColor   = lipgloss.Color("#F59E0B") // Sarı
	dangerColor    = lipgloss.Color("#EF4444") // Kırmızı
	textColor      = lipgloss.Color("#E2E8F0") // Açık gri
	dimTextColor   = lipgloss.Color("#64748B") // Koyu gri

	// Editör satırları sabit konumda olmalı; başlık stili margin kullanmaz.
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(primaryColor).
			Padding(0, 2)

	dimStyle = lipgloss.NewStyle().
			Foreground(dimTextColor)

	textStyle = lipgloss.NewStyle().
			Foreground(textColor)

	successStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accentColor)

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(dangerColor)

	infoStyle = lipgloss.NewStyle().
			Foreground(secondaryColor)

	pathStyle = lipgloss.NewStyle().
			Foreground(warningColor).
			Bold(true)

	rangeStyle  = lipgloss.NewStyle().Foreground(accentColor)
	baseStyle   = lipgloss.NewStyle().Foreground(dimTextColor)
	markerStyle = lipgloss.NewStyle().Foreground(warningColor).Bold(true)
	idleHandle  = lipgloss.NewStyle().Foreground(accentColor).Bold(true)
	headStyle   = lipgloss.NewStyle().Foreground(secondaryColor).Bold(true)

	spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
)
