package components

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/paulmach/orb"

	"github.com/rendis/hotelrank/internal/engine/geo"
	"github.com/rendis/hotelrank/internal/tui/styles"
)

// Marker is a point plotted on the map. Highlighted markers are drawn in
// the accent colour on top of everything else.
type Marker struct {
	Point     orb.Point
	Highlight bool
}

// MapView renders markers with Braille characters, optionally joined by a
// straight segment (hotel to city centre).
type MapView struct {
	width   int
	height  int
	markers []Marker
	segment *[2]orb.Point
	// base is the fitted bound, view is base after zoom and pan
	base      orb.Bound
	view      orb.Bound
	zoomLevel float64 // 1.0 = no zoom, >1 = zoomed in
	pan       orb.Point
}

func NewMapView(width, height int) MapView {
	return MapView{
		width:     width,
		height:    height,
		zoomLevel: 1.0,
	}
}

func (m *MapView) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetMarkers replaces the markers and refits the viewport around them.
func (m *MapView) SetMarkers(markers []Marker) {
	m.markers = markers
	m.fitBounds()
}

// SetSegment draws a line from a to b and includes both in the fit.
func (m *MapView) SetSegment(a, b orb.Point) {
	m.segment = &[2]orb.Point{a, b}
	m.fitBounds()
}

func (m *MapView) Bound() orb.Bound {
	return m.view
}

func (m *MapView) ZoomIn() {
	m.zoomLevel *= 1.5
	if m.zoomLevel > 20 {
		m.zoomLevel = 20
	}
	m.applyZoom()
}

func (m *MapView) ZoomOut() {
	m.zoomLevel /= 1.5
	if m.zoomLevel < 0.5 {
		m.zoomLevel = 0.5
	}
	m.applyZoom()
}

func (m *MapView) ZoomReset() {
	m.zoomLevel = 1.0
	m.pan = orb.Point{}
	m.applyZoom()
}

// Pan moves the view by a tenth of its size per step; dx is east, dy north.
func (m *MapView) Pan(dx, dy float64) {
	m.pan[0] += dx * (m.base.Max[0] - m.base.Min[0]) * 0.1 / m.zoomLevel
	m.pan[1] += dy * (m.base.Max[1] - m.base.Min[1]) * 0.1 / m.zoomLevel
	m.applyZoom()
}

func (m *MapView) applyZoom() {
	c := m.base.Center()
	halfW := (m.base.Max[0] - m.base.Min[0]) / 2 / m.zoomLevel
	halfH := (m.base.Max[1] - m.base.Min[1]) / 2 / m.zoomLevel
	cx, cy := c[0]+m.pan[0], c[1]+m.pan[1]
	m.view = orb.Bound{
		Min: orb.Point{cx - halfW, cy - halfH},
		Max: orb.Point{cx + halfW, cy + halfH},
	}
}

func (m *MapView) fitBounds() {
	pts := make([]orb.Point, 0, len(m.markers)+2)
	for _, mk := range m.markers {
		pts = append(pts, mk.Point)
	}
	if m.segment != nil {
		pts = append(pts, m.segment[0], m.segment[1])
	}
	m.base = geo.FitBound(pts, 0.1)
	m.applyZoom()
}

// Braille character encoding:
// Each braille char is a 2x4 dot grid.
// Dot positions:  0 3
//
//	1 4
//	2 5
//	6 7
//
// Unicode: 0x2800 + sum of raised dot bits
var brailleDots = [8]rune{0x01, 0x02, 0x04, 0x08, 0x10, 0x20, 0x40, 0x80}

func (m MapView) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}

	cols := m.width
	rows := m.height
	dotW := cols * 2
	dotH := rows * 4

	lngRange := m.view.Max[0] - m.view.Min[0]
	latRange := m.view.Max[1] - m.view.Min[1]
	if latRange == 0 || lngRange == 0 {
		return strings.Repeat(strings.Repeat(" ", cols)+"\n", rows)
	}

	// 1° of longitude shrinks with latitude; braille dots are roughly square
	cosLat := math.Cos(m.view.Center()[1] * math.Pi / 180)
	geoAspect := lngRange * cosLat / latRange
	dotAspect := float64(dotW) / float64(dotH)

	effectiveW, effectiveH := dotW, dotH
	offsetX, offsetY := 0, 0
	if geoAspect < dotAspect {
		effectiveW = max(int(float64(dotH)*geoAspect), 4)
		offsetX = (dotW - effectiveW) / 2
	} else {
		effectiveH = max(int(float64(dotW)/geoAspect), 4)
		offsetY = (dotH - effectiveH) / 2
	}

	lineGrid := newGrid(dotW, dotH)
	pointGrid := newGrid(dotW, dotH)
	hiGrid := newGrid(dotW, dotH)

	toDot := func(p orb.Point) (int, int) {
		x := offsetX + int((p[0]-m.view.Min[0])/lngRange*float64(effectiveW-1))
		y := offsetY + int((m.view.Max[1]-p[1])/latRange*float64(effectiveH-1))
		return x, y
	}

	if m.segment != nil {
		x0, y0 := toDot(m.segment[0])
		x1, y1 := toDot(m.segment[1])
		drawLine(lineGrid, x0, y0, x1, y1, dotW, dotH)
	}

	for _, mk := range m.markers {
		x, y := toDot(mk.Point)
		grid := pointGrid
		if mk.Highlight {
			grid = hiGrid
		}
		// a 2x2 block so a single marker stays visible
		for dy := 0; dy < 2; dy++ {
			for dx := 0; dx < 2; dx++ {
				if x+dx >= 0 && x+dx < dotW && y+dy >= 0 && y+dy < dotH {
					grid[y+dy][x+dx] = true
				}
			}
		}
	}

	lineStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	pointStyle := lipgloss.NewStyle().Foreground(styles.Secondary)
	hiStyle := lipgloss.NewStyle().Foreground(styles.Warning).Bold(true)

	dotPositions := [8][2]int{
		{0, 0}, {1, 0}, {2, 0}, {0, 1},
		{1, 1}, {2, 1}, {3, 0}, {3, 1},
	}

	var sb strings.Builder
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			var lineVal, pointVal, hiVal rune = 0x2800, 0x2800, 0x2800
			for dot := 0; dot < 8; dot++ {
				dy := row*4 + dotPositions[dot][0]
				dx := col*2 + dotPositions[dot][1]
				if lineGrid[dy][dx] {
					lineVal |= brailleDots[dot]
				}
				if pointGrid[dy][dx] {
					pointVal |= brailleDots[dot]
				}
				if hiGrid[dy][dx] {
					hiVal |= brailleDots[dot]
				}
			}

			switch {
			case hiVal != 0x2800:
				sb.WriteString(hiStyle.Render(string(hiVal)))
			case pointVal != 0x2800:
				sb.WriteString(pointStyle.Render(string(pointVal)))
			case lineVal != 0x2800:
				sb.WriteString(lineStyle.Render(string(lineVal)))
			default:
				sb.WriteRune(' ')
			}
		}
		if row < rows-1 {
			sb.WriteRune('\n')
		}
	}

	return sb.String()
}

func newGrid(w, h int) [][]bool {
	g := make([][]bool, h)
	for i := range g {
		g[i] = make([]bool, w)
	}
	return g
}

// drawLine draws a line between two points using Bresenham's algorithm.
func drawLine(grid [][]bool, x0, y0, x1, y1, maxW, maxH int) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 >= x1 {
		sx = -1
	}
	sy := 1
	if y0 >= y1 {
		sy = -1
	}
	err := dx + dy

	for {
		if x0 >= 0 && x0 < maxW && y0 >= 0 && y0 < maxH {
			grid[y0][x0] = true
		}
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
