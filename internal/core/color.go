package core

// Color is a cell color expressed as an xterm 256-color index.
// The zero value means "terminal default" rather than black; true black
// is ColorBlack (cube index 16).
type Color uint8

// Palette used by the renderer.
const (
	ColorDefault   Color = 0
	ColorBlack     Color = 16
	ColorPipeDark  Color = 22
	ColorPipeCap   Color = 28
	ColorPipe      Color = 34
	ColorGrass     Color = 70
	ColorSkyDeep   Color = 110
	ColorSky       Color = 117
	ColorGround    Color = 180
	ColorRed       Color = 196
	ColorBeak      Color = 208
	ColorBird      Color = 220
	ColorHighlight Color = 229
	ColorWhite     Color = 231
	ColorPanel     Color = 236
	ColorGray      Color = 245
	ColorCloud     Color = 255
)

// cubeLevels are the channel intensities of the 6x6x6 xterm color cube.
var cubeLevels = [6]int{0, 95, 135, 175, 215, 255}

// RGB returns the xterm 256-color index closest to the given color,
// considering both the color cube and the grayscale ramp.
func RGB(r, g, b uint8) Color {
	ri, gi, bi := cubeIndex(int(r)), cubeIndex(int(g)), cubeIndex(int(b))
	cube := Color(16 + 36*ri + 6*gi + bi)
	cubeDist := dist2(int(r), int(g), int(b), cubeLevels[ri], cubeLevels[gi], cubeLevels[bi])

	// Grayscale ramp 232..255 covers 8..238 in steps of 10.
	avg := (int(r) + int(g) + int(b)) / 3
	gray := Clamp((avg-3)/10, 0, 23)
	level := 8 + gray*10
	grayDist := dist2(int(r), int(g), int(b), level, level, level)

	if grayDist < cubeDist {
		return Color(232 + gray)
	}
	return cube
}

func cubeIndex(v int) int {
	best := 0
	for i, l := range cubeLevels {
		if abs(v-l) < abs(v-cubeLevels[best]) {
			best = i
		}
	}
	return best
}

func dist2(r1, g1, b1, r2, g2, b2 int) int {
	dr, dg, db := r1-r2, g1-g2, b1-b2
	return dr*dr + dg*dg + db*db
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
