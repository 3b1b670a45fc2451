package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"mdr/internal/refine"
)

const meterWidth = 10

func (m *App) View() string {
	if m.Quitting {
		return ""
	}

	var body string
	switch m.screen {
	case screenBoot:
		body = m.center(m.bootView())
	case screenLanguage:
		body = m.center(m.languageView())
	case screenInstructions:
		body = m.center(m.instructionsView())
	case screenFiles:
		body = m.center(m.filesView())
	case screenRefine:
		// not centered: mouse mapping depends on a fixed origin
		body = m.refineView()
	case screenCongrats:
		body = m.center(m.congratsView())
	}

	if m.screen == screenBoot {
		return body
	}
	return body + "\n" + helpStyle.Render(m.help.View(keys.forScreen(m.screen)))
}

// st swaps a style's colors while a glitch is active.
func (m *App) st(s lipgloss.Style) lipgloss.Style {
	if m.glitch {
		return s.Foreground(glitchTint).Faint(true)
	}
	return s
}

func (m *App) center(s string) string {
	if m.width == 0 || m.height == 0 {
		return s
	}
	// leave room for the help line
	return lipgloss.Place(m.width, max(1, m.height-2), lipgloss.Center, lipgloss.Center, s)
}

func (m *App) bootView() string {
	t := m.lang.Text()
	var lines []string
	if m.bootStep >= 1 {
		lines = append(lines, m.st(headerStyle).Render(t.Loading)+" "+m.spinner.View())
	}
	if m.bootStep >= 2 {
		lines = append(lines, "", m.st(dimStyle).Render(t.Copyright))
	}
	return strings.Join(lines, "\n")
}

func (m *App) languageView() string {
	t := m.lang.Text()
	options := []struct {
		lang  Language
		label string
	}{
		{English, "[1] ENGLISH"},
		{Spanish, "[2] ESPAÑOL"},
	}

	var b strings.Builder
	b.WriteString(m.st(headerStyle).Render(t.LanguagePrompt) + "\n\n")
	for _, o := range options {
		if o.lang == m.lang {
			b.WriteString(m.st(selectedItemStyle).Render("> "+o.label) + "\n")
		} else {
			b.WriteString(m.st(textStyle).Render("  "+o.label) + "\n")
		}
	}
	return b.String()
}

func (m *App) instructionsView() string {
	typed := string(m.protocol[:m.typed])
	return m.st(textStyle).Render(typed + "█")
}

func (m *App) filesView() string {
	if len(m.files) == 0 {
		return m.st(dimStyle).Render("no files configured")
	}
	t := m.lang.Text()
	n := len(m.files)
	file := m.files[m.fileIndex]

	tab := m.st(selectedItemStyle).Render("[" + m.lang.Upper(string([]rune(file)[:1])) + "]")
	main := m.st(cardStyle).Render(lipgloss.JoinVertical(lipgloss.Center,
		tab,
		"",
		m.st(fileNameStyle).Render(file),
		m.st(dimStyle).Render(m.lang.CompleteLabel(m.tracker.FileCompletionPercent(file))),
	))

	cards := []string{main}
	if n > 1 {
		prev := m.files[(m.fileIndex-1+n)%n]
		next := m.files[(m.fileIndex+1)%n]
		cards = []string{
			m.st(sideCardStyle).Render(prev),
			"  ",
			main,
			"  ",
			m.st(sideCardStyle).Render(next),
		}
	}

	return lipgloss.JoinVertical(lipgloss.Center,
		m.st(headerStyle).Render(t.SelectFile),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center, cards...),
		"",
		m.st(dimStyle).Render(fmt.Sprintf("%d / %d", m.fileIndex+1, n)),
	)
}

// refineHeader is also used to locate the grid, so it must not depend on
// the pointer.
func (m *App) refineHeader() string {
	file := ""
	percent := 0
	if m.session != nil {
		file = m.session.File
		percent = m.tracker.FileCompletionPercent(file)
	}
	back := m.st(backStyle).Render("[esc] " + m.lang.Text().Back)
	name := m.st(fileNameStyle).Render(m.lang.Upper(file))
	pct := m.st(headerStyle).Render(m.lang.CompleteLabel(percent))
	return lipgloss.JoinHorizontal(lipgloss.Center, back, name, pct, "   ", HeaderLogo())
}

func (m *App) refineView() string {
	if m.session == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(m.refineHeader())
	b.WriteString("\n\n")
	b.WriteString(m.gridView())
	b.WriteString("\n")
	b.WriteString(m.binsView())
	b.WriteString("\n")
	b.WriteString(m.signalView())
	return b.String()
}

func (m *App) gridView() string {
	grid := m.session.Grid
	pointer := m.session.Pointer
	pad := strings.Repeat(" ", gridLeft)

	var b strings.Builder
	for r := range grid.Cells {
		b.WriteString(pad)
		for c := range grid.Cells[r] {
			cell := &grid.Cells[r][c]
			b.WriteString(m.cellView(cell, pointer))
		}
		if r < grid.Rows-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m *App) cellView(cell *refine.Cell, pointer refine.Point) string {
	if !cell.Idle() {
		return strings.Repeat(" ", cellWidth)
	}
	text := fmt.Sprintf(" %d ", cell.Value)
	style := cellStyle
	if !pointer.IsFarAway() {
		switch d := pointer.Distance(cell.Center()); {
		case d < hotRadius:
			style = hotCellStyle
		case d < nearRadius:
			style = nearCellStyle
		}
	}
	return m.st(style).Render(text)
}

func (m *App) binsView() string {
	progress := m.tracker.Progress(m.session.File)
	bins := make([]string, 0, 2*refine.AudioSources)
	for i := range refine.AudioSources {
		label := m.st(binLabelStyle).Render(fmt.Sprintf("%02d", i+1))
		bar := m.bar.ViewAs(float64(progress[i]) / refine.BinFull)
		pct := m.st(textStyle).Render(fmt.Sprintf(" %3d%%", progress[i]))
		bins = append(bins, lipgloss.JoinHorizontal(lipgloss.Center, label, " ", bar, pct), "   ")
	}
	return lipgloss.NewStyle().PaddingLeft(gridLeft).Render(
		lipgloss.JoinHorizontal(lipgloss.Center, bins[:len(bins)-1]...),
	)
}

// signalView shows the loudest source, or the failure mark after a miss.
func (m *App) signalView() string {
	pad := strings.Repeat(" ", gridLeft)
	if m.session.Failure {
		return pad + failureStyle.Render("X")
	}
	loudest := 0.0
	for _, v := range m.session.Volumes() {
		loudest = max(loudest, v)
	}
	filled := int(loudest*meterWidth + 0.5)
	meter := strings.Repeat("▮", filled) + strings.Repeat("▯", meterWidth-filled)
	return pad + m.st(dimStyle).Render(m.lang.Text().Signal+" ") + m.st(textStyle).Render(meter)
}

func (m *App) congratsView() string {
	t := m.lang.Text()
	return lipgloss.JoinVertical(lipgloss.Center,
		GenerateLogo(),
		"",
		"",
		m.st(finalTitleStyle).Render(t.FinalTitle),
		"",
		m.st(textStyle).Render(t.FinalMessage),
		"",
		"",
		m.st(textStyle).Render(t.FinalPraise),
	)
}
