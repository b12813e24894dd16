package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mlihgenel/videotrim-cli/internal/timeutil"
	"github.com/mlihgenel/videotrim-cli/internal/trim"
)

func (m editorModel) View() string {
	if m.quitting {
		return ""
	}

	lines := make([]string, rowRuler+1)
	lines[rowTitle] = titleStyle.Render(fmt.Sprintf(" ◆ VideoTrim — %s ", m.originalName()))
	lines[rowFile] = dimStyle.Render("  Dosya: " + shortenPath(m.sess.SourcePath()))
	lines[rowClock] = m.clockLine()
	lines[rowSpacer] = ""
	lines[rowStrip] = m.stripRow()
	lines[rowPlayhead] = m.playheadRow()
	lines[rowTrimBar] = m.trimBarRow()
	lines[rowRuler] = m.rulerRow()

	var b strings.Builder
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n\n")
	b.WriteString(m.rangeLine())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render("  Fare: tutamaçları sürükle, çizelgeye tıkla  •  ←/→ Tutamaç  •  Tab Odak  •  [ ] Adım"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  Space Oynat  •  p Aralığı oynat/durdur  •  , . Konum  •  e Dışa aktar  •  s Storyboard  •  r Kareler  •  ctrl+x Sil  •  q Çıkış"))
	b.WriteString("\n")
	return b.String()
}

func (m editorModel) clockLine() string {
	state := m.sess.State()
	view := m.sess.View()

	icon := "⏸"
	if view.IsPlaying {
		icon = "▶"
	}
	line := fmt.Sprintf("  %s %s / %s", icon,
		timeutil.FormatTimeWithMs(state.CurrentTime),
		timeutil.FormatTimeWithMs(state.Duration))
	if view.PreviewMode {
		line += "  [aralık önizleme]"
	}
	if view.Loading {
		line += "  " + spinnerFrames[m.spinnerIdx] + " yükleniyor"
	}
	return infoStyle.Render(line)
}

func (m editorModel) indent() string {
	return strings.Repeat(" ", editorIndent)
}

func (m editorModel) stripRow() string {
	var b strings.Builder
	b.WriteString(m.indent())
	for c := 0; c < m.barWidth; c++ {
		if c < len(m.strip) && m.strip[c] != "" {
			b.WriteString(lipgloss.NewStyle().Background(lipgloss.Color(m.strip[c])).Render(" "))
			continue
		}
		b.WriteString(baseStyle.Render("░"))
	}
	return b.String()
}

func (m editorModel) playheadRow() string {
	state := m.sess.State()
	engine := m.sess.Timeline()
	head := -1
	if state.Loaded {
		head = engine.Cell(engine.Layout(0).Playhead) - editorIndent
	}

	var b strings.Builder
	b.WriteString(m.indent())
	for c := 0; c < m.barWidth; c++ {
		if c == head {
			b.WriteString(headStyle.Render("┃"))
			continue
		}
		b.WriteString(baseStyle.Render("─"))
	}
	return b.String()
}

func (m editorModel) trimBarRow() string {
	state := m.sess.State()
	if !state.Loaded {
		return m.indent() + baseStyle.Render(strings.Repeat("─", m.barWidth))
	}
	engine := m.sess.Timeline()
	layout := engine.Layout(0)
	startCol := engine.Cell(layout.TrimStart) - editorIndent
	endCol := engine.Cell(layout.TrimEnd) - editorIndent

	active := m.focus
	if m.drag != nil && !m.drag.Released() {
		active = m.drag.Handle()
	}
	handleStyle := func(h trim.Handle) lipgloss.Style {
		if h == active {
			return markerStyle
		}
		return idleHandle
	}

	var b strings.Builder
	b.WriteString(m.indent())
	for c := 0; c < m.barWidth; c++ {
		switch {
		case c == endCol:
			b.WriteString(handleStyle(trim.HandleEnd).Render("◆"))
		case c == startCol:
			b.WriteString(handleStyle(trim.HandleStart).Render("◆"))
		case c > startCol && c < endCol:
			b.WriteString(rangeStyle.Render("━"))
		default:
			b.WriteString(baseStyle.Render("─"))
		}
	}
	return b.String()
}

// rulerRow cetvel etiketlerini sütunlarına yerleştirir; çakışan etiketler atlanır.
func (m editorModel) rulerRow() string {
	state := m.sess.State()
	if !state.Loaded {
		return ""
	}
	engine := m.sess.Timeline()
	maxMarks := m.barWidth / 8
	if maxMarks < 2 {
		maxMarks = 2
	}

	buf := []rune(strings.Repeat(" ", m.barWidth+editorIndent+6))
	for _, mark := range timeutil.GenerateRulerMarks(state.Duration, maxMarks) {
		label := []rune(timeutil.FormatTime(mark.Time))
		pos := engine.Cell(mark.PositionPercent)
		if pos+len(label) > len(buf) {
			pos = len(buf) - len(label)
		}
		if !runesFree(buf, pos-1, pos+len(label)+1) {
			continue
		}
		copy(buf[pos:], label)
	}
	return dimStyle.Render(strings.TrimRight(string(buf), " "))
}

func runesFree(buf []rune, from, to int) bool {
	if from < 0 {
		from = 0
	}
	if to > len(buf) {
		to = len(buf)
	}
	for i := from; i < to; i++ {
		if buf[i] != ' ' {
			return false
		}
	}
	return true
}

func (m editorModel) rangeLine() string {
	state := m.sess.State()
	startPrefix, endPrefix := "  ", "  "
	if m.focus == trim.HandleEnd {
		endPrefix = "▸ "
	} else {
		startPrefix = "▸ "
	}
	return infoStyle.Render(fmt.Sprintf("%sBaşlangıç: %s   %sBitiş: %s   Aralık: %s   Adım: %s",
		startPrefix, timeutil.FormatTimeWithMs(state.TrimStart),
		endPrefix, timeutil.FormatTimeWithMs(state.TrimEnd),
		timeutil.FormatHuman(state.TrimEnd-state.TrimStart),
		formatStep(m.step)))
}

func (m editorModel) statusLine() string {
	view := m.sess.View()
	switch {
	case view.Error != "":
		return errorStyle.Render("  Hata: " + view.Error)
	case m.busy != "":
		return pathStyle.Render(fmt.Sprintf("  %s %s...", spinnerFrames[m.spinnerIdx], m.busy))
	case m.sess.Tracker().Generating():
		return dimStyle.Render(fmt.Sprintf("  %s Önizleme kareleri hazırlanıyor...", spinnerFrames[m.spinnerIdx]))
	case m.status != "" && m.statusErr:
		return errorStyle.Render("  " + m.status)
	case m.status != "":
		return successStyle.Render("  " + m.status)
	default:
		return textStyle.Render("  Hazır")
	}
}
