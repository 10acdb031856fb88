package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Point is one chart sample: X is elapsed seconds, Y is a percentage.
type Point struct {
	X float64
	Y float64
}

// braille dot bit layout within a 2x4 cell.
var brailleBits = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// LineChart plots a series as a braille trace with fixed bounds. Width and
// Height are terminal cells; each cell holds a 2x4 dot grid.
type LineChart struct {
	Width  int
	Height int
	XMax   float64
	YMax   float64
	XLabel string
	YLabel string
}

// NewLineChart returns a chart with the given cell size and axis bounds.
func NewLineChart(width, height int, xMax, yMax float64) LineChart {
	if width < 8 {
		width = 8
	}
	if height < 4 {
		height = 4
	}
	if xMax <= 0 {
		xMax = 1
	}
	if yMax <= 0 {
		yMax = 1
	}
	return LineChart{Width: width, Height: height, XMax: xMax, YMax: yMax}
}

// Render draws the series inside axis labels. Points outside the bounds are
// clamped onto the border.
func (c LineChart) Render(points []Point, styles Styles) string {
	// Reserve columns for y labels and a row for x labels.
	yLabelWidth := len(fmt.Sprintf("%.0f", c.YMax)) + 1
	plotWidth := c.Width - yLabelWidth
	plotHeight := c.Height - 1
	if plotWidth < 4 {
		plotWidth = 4
	}
	if plotHeight < 2 {
		plotHeight = 2
	}

	grid := c.rasterize(points, plotWidth, plotHeight)

	traceStyle := lipgloss.NewStyle().Foreground(Success)
	labelStyle := styles.Muted

	var sb strings.Builder
	for row := 0; row < plotHeight; row++ {
		sb.WriteString(labelStyle.Render(c.yLabelFor(row, plotHeight, yLabelWidth)))
		var line strings.Builder
		for col := 0; col < plotWidth; col++ {
			r := grid[row][col]
			if r == 0 {
				line.WriteRune(' ')
			} else {
				line.WriteRune(0x2800 + r)
			}
		}
		sb.WriteString(traceStyle.Render(line.String()))
		sb.WriteString("\n")
	}
	sb.WriteString(c.xAxisLine(yLabelWidth, plotWidth, labelStyle))
	return sb.String()
}

// rasterize scatters the series into a dot grid, interpolating between
// consecutive samples so the trace reads as a line.
func (c LineChart) rasterize(points []Point, plotWidth, plotHeight int) [][]rune {
	grid := make([][]rune, plotHeight)
	for i := range grid {
		grid[i] = make([]rune, plotWidth)
	}

	dotsX := plotWidth * 2
	dotsY := plotHeight * 4

	set := func(dx, dy int) {
		if dx < 0 {
			dx = 0
		}
		if dx >= dotsX {
			dx = dotsX - 1
		}
		if dy < 0 {
			dy = 0
		}
		if dy >= dotsY {
			dy = dotsY - 1
		}
		grid[dy/4][dx/2] |= brailleBits[dy%4][dx%2]
	}

	toDot := func(p Point) (int, int) {
		x := p.X / c.XMax
		y := p.Y / c.YMax
		dx := int(math.Round(x * float64(dotsX-1)))
		// Dot rows grow downward; invert so larger values plot higher.
		dy := int(math.Round((1 - y) * float64(dotsY-1)))
		return dx, dy
	}

	var prevX, prevY int
	for i, p := range points {
		dx, dy := toDot(p)
		if i > 0 {
			steps := abs(dx-prevX) + abs(dy-prevY)
			for s := 1; s < steps; s++ {
				ix := prevX + (dx-prevX)*s/steps
				iy := prevY + (dy-prevY)*s/steps
				set(ix, iy)
			}
		}
		set(dx, dy)
		prevX, prevY = dx, dy
	}
	return grid
}

func (c LineChart) yLabelFor(row, plotHeight, width int) string {
	var label string
	switch row {
	case 0:
		label = fmt.Sprintf("%.0f", c.YMax)
	case plotHeight / 2:
		label = fmt.Sprintf("%.0f", c.YMax/2)
	case plotHeight - 1:
		label = "0"
	}
	return fmt.Sprintf("%*s ", width-1, label)
}

func (c LineChart) xAxisLine(yLabelWidth, plotWidth int, style lipgloss.Style) string {
	left := "0"
	mid := fmt.Sprintf("%.0f", c.XMax/2)
	right := fmt.Sprintf("%.0f", c.XMax)

	gap1 := plotWidth/2 - len(left) - len(mid)/2
	gap2 := plotWidth - plotWidth/2 - (len(mid) - len(mid)/2) - len(right)
	if gap1 < 1 {
		gap1 = 1
	}
	if gap2 < 1 {
		gap2 = 1
	}
	line := strings.Repeat(" ", yLabelWidth) +
		left + strings.Repeat(" ", gap1) + mid + strings.Repeat(" ", gap2) + right
	return style.Render(line)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
