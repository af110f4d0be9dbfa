package flappy

import (
	"fmt"
	"image"
	"math"

	"github.com/vovakirdan/flappy-wall/internal/config"
	"github.com/vovakirdan/flappy-wall/internal/core"
	"github.com/vovakirdan/flappy-wall/internal/leaderboard"
)

// halfBlock draws two vertical pixels per cell: Fg on top, Bg below.
const halfBlock = '▀'

// Renderer draws a View onto a Screen. It keeps no game state; the same
// View always produces the same picture.
type Renderer struct {
	cfg     config.FlappyConfig
	sprites *Sprites
}

// NewRenderer creates a renderer. sprites may be nil or still loading.
func NewRenderer(cfg config.FlappyConfig, sprites *Sprites) *Renderer {
	return &Renderer{cfg: cfg, sprites: sprites}
}

// Viewport returns the cells the world occupies on a w×h surface: the
// largest centered area keeping the world's aspect ratio, counting two
// pixels per cell vertically.
func (r *Renderer) Viewport(w, h int) core.Rect {
	if w <= 0 || h <= 0 {
		return core.Rect{}
	}
	ww, wh := r.cfg.World.Width, r.cfg.World.Height

	var vw, vh int
	if float64(w)*wh >= float64(2*h)*ww {
		vh = h
		vw = int(float64(2*h) * ww / wh)
	} else {
		vw = w
		vh = int(float64(w) * wh / ww / 2)
	}
	vw = core.Clamp(vw, 1, w)
	vh = core.Clamp(vh, 1, h)
	return core.NewRect((w-vw)/2, (h-vh)/2, vw, vh)
}

// Render draws the full frame.
func (r *Renderer) Render(dst *core.Screen, v View) {
	dst.Clear()
	vp := r.Viewport(dst.Width(), dst.Height())
	if vp.Empty() {
		return
	}

	r.drawWorld(dst, vp, v)
	r.drawHUD(dst, vp, v)

	switch v.State {
	case StateIdle:
		r.drawStart(dst, vp, v)
	case StateGameOver:
		r.drawGameOver(dst, vp, v)
	case StateUnlocked:
		r.drawUnlocked(dst, vp)
	}
}

// sampler maps surface pixels to world coordinates.
type sampler struct {
	fx, fy float64
}

func (r *Renderer) drawWorld(dst *core.Screen, vp core.Rect, v View) {
	sm := sampler{
		fx: r.cfg.World.Width / float64(vp.W),
		fy: r.cfg.World.Height / float64(2*vp.H),
	}
	bird := r.sprites.Frame(v.Flapping)

	for row := 0; row < vp.H; row++ {
		wyTop := (float64(2*row) + 0.5) * sm.fy
		wyBot := (float64(2*row+1) + 0.5) * sm.fy
		for col := 0; col < vp.W; col++ {
			wx := (float64(col) + 0.5) * sm.fx
			dst.SetCell(vp.X+col, vp.Y+row, core.Cell{
				Rune: halfBlock,
				Fg:   r.pixel(v, bird, wx, wyTop),
				Bg:   r.pixel(v, bird, wx, wyBot),
			})
		}
	}
}

// pixel returns the color of the world at (wx, wy), topmost layer first.
func (r *Renderer) pixel(v View, bird image.Image, wx, wy float64) core.Color {
	if c, ok := r.birdPixel(v, bird, wx, wy); ok {
		return c
	}

	h := r.cfg.World.Height
	if wy >= h-r.cfg.World.GroundHeight {
		if wy < h-r.cfg.World.GroundHeight+3 {
			return core.ColorGrass
		}
		return core.ColorGround
	}

	if c, ok := r.obstaclePixel(v.Obstacles, wx, wy); ok {
		return c
	}

	for _, c := range v.Clouds {
		if !c.Contains(wx, wy) {
			continue
		}
		// Two stacked slabs: a wide flat one and a narrower tall one.
		if wy >= c.Y+5 && wy < c.Y+25 || wx >= c.X+10 && wx < c.Right()-10 {
			return core.ColorCloud
		}
	}

	if wy < h/2 {
		return core.ColorSky
	}
	return core.ColorSkyDeep
}

func (r *Renderer) obstaclePixel(obstacles []Obstacle, wx, wy float64) (core.Color, bool) {
	oc := r.cfg.Obstacles
	for _, o := range obstacles {
		if wx < o.X-5 || wx >= o.X+oc.Width+5 {
			continue
		}
		gapTop := math.Floor(o.GapTop)
		gapBottom := gapTop + oc.Gap

		if wy >= gapTop-oc.CapHeight && wy < gapTop || wy >= gapBottom && wy < gapBottom+oc.CapHeight {
			return core.ColorPipeCap, true
		}
		if wx < o.X || wx >= o.X+oc.Width || (wy >= gapTop && wy < gapBottom) {
			continue
		}
		switch {
		case wx < o.X+5 || wx >= o.X+oc.Width-5:
			return core.ColorPipeDark, true
		case wx >= o.X+10 && wx < o.X+20:
			return core.ColorGrass, true
		case wx >= o.X+oc.Width-20 && wx < o.X+oc.Width-10:
			return core.ColorPipeDark, true
		default:
			return core.ColorPipe, true
		}
	}
	return 0, false
}

func (r *Renderer) birdPixel(v View, bird image.Image, wx, wy float64) (core.Color, bool) {
	size := r.cfg.Player.Size
	left := r.cfg.Player.DrawX - size/2
	if wx < left || wx >= left+size || wy < v.PlayerY || wy >= v.PlayerY+size {
		return 0, false
	}
	u := (wx - left) / size
	w := (wy - v.PlayerY) / size

	if bird == nil {
		return fallbackBird(u, w, v.Flapping)
	}

	b := bird.Bounds()
	x := b.Min.X + int(u*float64(b.Dx()))
	y := b.Min.Y + int(w*float64(b.Dy()))
	cr, cg, cb, ca := bird.At(x, y).RGBA()
	if ca < 0x8000 {
		return 0, false
	}
	// Undo alpha premultiplication before matching the palette.
	return core.RGB(uint8(cr*0xff/ca), uint8(cg*0xff/ca), uint8(cb*0xff/ca)), true
}

// fallbackBird is drawn while the sprites are unavailable. u and w are in
// [0, 1) across the player box.
func fallbackBird(u, w float64, flapping bool) (core.Color, bool) {
	dx, dy := u-0.5, w-0.5
	switch {
	case (dx-0.16)*(dx-0.16)+(dy+0.1)*(dy+0.1) < 0.004:
		return core.ColorBlack, true
	case dx > 0.22 && dx < 0.4 && math.Abs(dy) < 0.06:
		return core.ColorBeak, true
	case dx*dx+dy*dy < 0.09:
		wingY := 0.1
		if flapping {
			wingY = -0.12
		}
		if (dx+0.12)*(dx+0.12)+(dy-wingY)*(dy-wingY) < 0.01 {
			return core.ColorHighlight, true
		}
		return core.ColorBird, true
	}
	return 0, false
}

// rowOf returns the surface row showing world height wy.
func (r *Renderer) rowOf(vp core.Rect, wy float64) int {
	return vp.Y + int(wy/r.cfg.World.Height*float64(vp.H))
}

func centered(dst *core.Screen, area core.Rect, y int, text string, fg, bg core.Color) {
	dst.DrawStyledText(core.CenterX(area, text), y, text, fg, bg)
}

func (r *Renderer) drawHUD(dst *core.Screen, vp core.Rect, v View) {
	hud := fmt.Sprintf(" SCORE %d ", v.Score)
	if v.Target > 0 {
		hud = fmt.Sprintf(" SCORE %d/%d ", v.Score, v.Target)
	}
	dst.DrawStyledText(vp.X+1, vp.Y, hud, core.ColorWhite, core.ColorPanel)
}

func (r *Renderer) drawStart(dst *core.Screen, vp core.Rect, v View) {
	mid := r.rowOf(vp, r.cfg.World.Height/2)
	if v.Title != "" {
		centered(dst, vp, mid-3, " "+v.Title+" ", core.ColorHighlight, core.ColorPanel)
	}
	centered(dst, vp, mid, " TAP TO START! ", core.ColorWhite, core.ColorPanel)
	centered(dst, vp, mid+2, " SPACE OR CLICK TO FLAP ", core.ColorGray, core.ColorPanel)
	if v.Target > 0 {
		centered(dst, vp, mid+4, fmt.Sprintf(" SCORE %d TO ENTER ", v.Target), core.ColorHighlight, core.ColorPanel)
	}
}

type panelLine struct {
	text string
	fg   core.Color
}

func (r *Renderer) drawGameOver(dst *core.Screen, vp core.Rect, v View) {
	lines := []panelLine{
		{"GAME OVER", core.ColorRed},
		{fmt.Sprintf("SCORE: %d", v.Score), core.ColorWhite},
	}
	if v.Leaderboard {
		for _, b := range v.Boards {
			lines = append(lines, panelLine{}, panelLine{"-- " + b.Title + " --", core.ColorBird})
			lines = append(lines, boardLines(b)...)
		}
	}
	lines = append(lines, panelLine{}, statusLine(v))

	r.drawPanel(dst, vp, lines)
}

func boardLines(b leaderboard.Board) []panelLine {
	if len(b.Entries) == 0 {
		if b.Kind == leaderboard.BoardDaily {
			return []panelLine{{"NO SCORES TODAY!", core.ColorGray}}
		}
		return []panelLine{{"NO SCORES YET!", core.ColorGray}}
	}

	out := make([]panelLine, 0, len(b.Entries))
	for i, e := range b.Entries {
		fg := core.ColorWhite
		switch i {
		case 0:
			fg = core.ColorBird
		case 1:
			fg = core.ColorGray
		case 2:
			fg = core.ColorBeak
		}
		name := []rune(e.Name)
		if len(name) > leaderboard.DefaultNameMaxLen {
			name = name[:leaderboard.DefaultNameMaxLen]
		}
		out = append(out, panelLine{
			text: fmt.Sprintf("%02d. %-12s %04d", i+1, string(name), e.Score),
			fg:   fg,
		})
	}
	return out
}

func statusLine(v View) panelLine {
	switch v.Phase {
	case PhaseChecking:
		return panelLine{"CHECKING SCORES...", core.ColorGray}
	case PhasePrompt:
		switch {
		case v.SubmitErr != nil:
			return panelLine{"SAVE FAILED - TRY AGAIN", core.ColorRed}
		case v.FailOpen:
			return panelLine{"SCOREBOARD OFFLINE - ENTER NAME", core.ColorBeak}
		default:
			return panelLine{"NEW HIGH SCORE! ENTER YOUR NAME", core.ColorGrass}
		}
	case PhaseSubmitting:
		return panelLine{"SAVING...", core.ColorGray}
	default:
		return panelLine{"TAP TO PLAY AGAIN", core.ColorHighlight}
	}
}

// drawPanel draws lines in a bordered box centered on the viewport. When
// the box does not fit, middle lines are dropped so the first lines and
// the last one stay visible.
func (r *Renderer) drawPanel(dst *core.Screen, vp core.Rect, lines []panelLine) {
	maxLines := vp.H - 2
	if maxLines <= 0 {
		return
	}
	if len(lines) > maxLines {
		last := lines[len(lines)-1]
		lines = append(lines[:maxLines-1:maxLines-1], last)
	}

	w := 4
	for _, l := range lines {
		w = core.Max(w, len([]rune(l.text))+4)
	}
	w = core.Min(w, vp.W)
	h := len(lines) + 2

	panel := core.NewRect(vp.X+(vp.W-w)/2, vp.Y+(vp.H-h)/2, w, h)
	dst.FillRect(panel, core.Cell{Rune: ' ', Fg: core.ColorWhite, Bg: core.ColorBlack})
	dst.DrawBox(panel)
	for i, l := range lines {
		centered(dst, panel, panel.Y+1+i, l.text, l.fg, core.ColorBlack)
	}
}

func (r *Renderer) drawUnlocked(dst *core.Screen, vp core.Rect) {
	r.drawPanel(dst, vp, []panelLine{
		{"SITE UNLOCKED!", core.ColorGrass},
		{},
		{"WELCOME IN", core.ColorWhite},
	})
}
