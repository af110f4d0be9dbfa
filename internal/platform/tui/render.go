package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/flappy-wall/internal/core"
)

type cellStyle struct {
	fg, bg core.Color
}

// Painter converts a Screen buffer to styled terminal output. Each SSH
// session gets its own Painter bound to that session's color profile.
type Painter struct {
	renderer *lipgloss.Renderer
	styles   map[cellStyle]lipgloss.Style
}

// NewPainter creates a painter for r; nil uses the default renderer.
func NewPainter(r *lipgloss.Renderer) *Painter {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	return &Painter{renderer: r, styles: make(map[cellStyle]lipgloss.Style)}
}

func (p *Painter) style(cs cellStyle) lipgloss.Style {
	if st, ok := p.styles[cs]; ok {
		return st
	}
	st := p.renderer.NewStyle()
	if cs.fg != core.ColorDefault {
		st = st.Foreground(lipgloss.Color(strconv.Itoa(int(cs.fg))))
	}
	if cs.bg != core.ColorDefault {
		st = st.Background(lipgloss.Color(strconv.Itoa(int(cs.bg))))
	}
	p.styles[cs] = st
	return st
}

// Paint renders the screen. Adjacent cells sharing colors are grouped to
// minimize ANSI escape sequences.
func (p *Painter) Paint(s *core.Screen) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*4 + s.Height())

	var run strings.Builder
	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			cell := s.GetCell(x, y)
			start := cellStyle{cell.Fg, cell.Bg}

			run.Reset()
			for x < s.Width() {
				cell = s.GetCell(x, y)
				if (cellStyle{cell.Fg, cell.Bg}) != start {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			if start == (cellStyle{}) {
				sb.WriteString(run.String())
				continue
			}
			sb.WriteString(p.style(start).Render(run.String()))
		}
	}
	return sb.String()
}
