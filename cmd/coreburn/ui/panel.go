package ui

import (
	"fmt"
	"strings"

	"coreburn/internal/hardware"

	"github.com/charmbracelet/lipgloss"
)

// SystemPanel renders the live hardware readout shown next to the chart:
// RAM usage on top, then per-core utilization two cores per row with a
// cycling color palette.
type SystemPanel struct {
	styles Styles
}

// NewSystemPanel returns a panel using the given styles.
func NewSystemPanel(styles Styles) SystemPanel {
	return SystemPanel{styles: styles}
}

// Render draws the panel content for the given readings.
func (p SystemPanel) Render(mem hardware.MemoryInfo, cores []hardware.CoreUsage) string {
	var sb strings.Builder

	sb.WriteString(p.styles.Bold.Render("System"))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("RAM %d MB / %d MB\n\n",
		mem.Used/1024/1024, mem.Total/1024/1024))

	sb.WriteString(p.styles.Muted.Render("CPU usage"))
	sb.WriteString("\n")

	for i := 0; i < len(cores); i += 2 {
		left := p.coreCell(i, cores[i])
		if i+1 < len(cores) {
			right := p.coreCell(i+1, cores[i+1])
			sb.WriteString(left + "  " + right)
		} else {
			sb.WriteString(left)
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func (p SystemPanel) coreCell(idx int, c hardware.CoreUsage) string {
	color := CoreColors[idx%len(CoreColors)]
	return lipgloss.NewStyle().Foreground(color).
		Render(fmt.Sprintf("%-6s %5.1f%%", c.Name, c.Percent))
}
