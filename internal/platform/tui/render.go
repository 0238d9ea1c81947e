package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/season-runner/internal/core"
	"github.com/vovakirdan/season-runner/internal/track"
)

// colorStyles maps core.Color to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault:      lipgloss.NewStyle(),
	core.ColorRed:          lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	core.ColorGreen:        lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	core.ColorYellow:       lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	core.ColorBlue:         lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	core.ColorMagenta:      lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
	core.ColorCyan:         lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	core.ColorWhite:        lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
	core.ColorBrightGreen:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	core.ColorBrightYellow: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	core.ColorBrightCyan:   lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
	core.ColorOrange:       lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	core.ColorGray:         lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
}

// styleFor returns the style of c, falling back to the default style.
func styleFor(c core.Color) lipgloss.Style {
	if style, ok := colorStyles[c]; ok {
		return style
	}
	return colorStyles[core.ColorDefault]
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			startColor := s.GetCell(x, y).Color

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			sb.WriteString(styleFor(startColor).Render(run.String()))
		}
	}
	return sb.String()
}

// Top-down projection. A terminal cell is roughly twice as tall as wide.
const (
	colsPerUnit    = 2.0
	rowsPerUnit    = 0.5
	trackHalfWidth = 3.0
)

// Glyphs for track content.
const (
	glyphEdge        = ':'
	glyphObstacle    = '#'
	glyphCollectible = 'o'
	glyphRare        = '*'
	glyphPowerUp     = '+'
	glyphPlayer      = '@'
)

// TrackView is what DrawTrack needs from a run.
type TrackView interface {
	Segments() []*track.Segment
	Palettes() []*track.Palette
	Progress() float64
}

// DrawTrack draws the live segments top-down onto s, following the player
// who sits a few rows above the bottom edge. Each segment uses the color
// of the palette it was built from, so a season change shows up as the
// new color scrolling in.
func DrawTrack(s *core.Screen, v TrackView) {
	s.Clear()
	if s.Width() < 3 || s.Height() < 3 {
		return
	}

	segments := v.Segments()
	palettes := v.Palettes()
	progress := v.Progress()
	pos := PlayerPosition(segments, progress)

	cx := s.Width() / 2
	cy := s.Height() - 3
	project := func(p core.Vec3) (int, int) {
		x := cx + int(math.Round((p.X-pos.X)*colsPerUnit))
		y := cy - int(math.Round((p.Z-pos.Z)*rowsPerUnit))
		return x, y
	}

	for _, seg := range segments {
		color := core.ColorDefault
		if seg.Palette >= 0 && seg.Palette < len(palettes) {
			color = palettes[seg.Palette].Color
		}

		for _, side := range []float64{-trackHalfWidth, trackHalfWidth} {
			x0, y0 := project(seg.Entry.Apply(core.V3(side, 0, 0)))
			x1, y1 := project(seg.Exit.Apply(core.V3(side, 0, 0)))
			s.DrawLine(x0, y0, x1, y1, glyphEdge, color)
		}

		for _, sp := range seg.Anchors {
			glyph, c, ok := anchorGlyph(sp)
			if !ok {
				continue
			}
			x, y := project(sp.World.Position)
			s.SetColored(x, y, glyph, c)
		}
	}

	s.SetColored(cx, cy, glyphPlayer, core.ColorWhite)
	s.DrawBox(core.NewRect(0, 0, s.Width(), s.Height()))
}

// anchorGlyph returns how an occupied anchor is drawn.
func anchorGlyph(sp *track.SpawnPoint) (rune, core.Color, bool) {
	switch sp.Occupancy() {
	case track.Obstacle:
		return glyphObstacle, core.ColorRed, true
	case track.Collectible:
		if sp.Rare() {
			return glyphRare, core.ColorMagenta, true
		}
		return glyphCollectible, core.ColorYellow, true
	case track.PowerUp:
		return glyphPowerUp, core.ColorCyan, true
	default:
		return 0, core.ColorDefault, false
	}
}

// PlayerPosition interpolates the world position at track distance
// progress. Before the first segment it is the first entry; past the last
// it is the last exit.
func PlayerPosition(segments []*track.Segment, progress float64) core.Vec3 {
	if len(segments) == 0 {
		return core.Vec3{}
	}
	if progress < segments[0].Start {
		return segments[0].Entry.Position
	}
	for _, seg := range segments {
		if !seg.Contains(progress) {
			continue
		}
		t := 0.0
		if seg.Length > 0 {
			t = (progress - seg.Start) / seg.Length
		}
		a, b := seg.Entry.Position, seg.Exit.Position
		return core.V3(core.Lerp(a.X, b.X, t), core.Lerp(a.Y, b.Y, t), core.Lerp(a.Z, b.Z, t))
	}
	return segments[len(segments)-1].Exit.Position
}
