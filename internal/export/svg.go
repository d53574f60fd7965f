package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/nozzleflow/internal/geometry"
	"github.com/san-kum/nozzleflow/internal/sim"
)

// FrameToSVG renders one simulation frame as a standalone SVG: both
// wall polylines, control-point handles, live tracers colored by Mach
// regime, and shock markers as fading vertical segments.
func FrameToSVG(frame sim.Frame, width, height int) string {
	if frame.Width == 0 || frame.Height == 0 {
		return ""
	}

	sx := float64(width) / frame.Width
	sy := float64(height) / frame.Height

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	writeWall(&sb, frame.TopWall, sx, sy)
	writeWall(&sb, frame.BottomWall, sx, sy)

	for _, mk := range frame.Markers {
		sb.WriteString(fmt.Sprintf(
			`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#ffcc00" stroke-width="3" opacity="%.2f"/>`+"\n",
			mk.X*sx, mk.TopY*sy, mk.X*sx, mk.BottomY*sy, mk.Opacity))
	}

	for _, p := range frame.Particles {
		color := "#4aa8ff"
		if p.Supersonic {
			color = "#ff5555"
		}
		sb.WriteString(fmt.Sprintf(
			`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s" opacity="%.2f"/>`+"\n",
			p.X*sx, p.Y*sy, p.Size, color, p.Opacity))
	}

	for _, st := range frame.Stations {
		for _, y := range []float64{st.TopY, st.BottomY} {
			sb.WriteString(fmt.Sprintf(
				`<rect x="%.1f" y="%.1f" width="6" height="6" fill="#cccccc"/>`+"\n",
				st.X*sx-3, y*sy-3))
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func writeWall(sb *strings.Builder, pts []geometry.ControlPoint, sx, sy float64) {
	if len(pts) < 2 {
		return
	}
	sb.WriteString(`<path fill="none" stroke="#00ff88" stroke-width="2" d="M`)
	for i, p := range pts {
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", p.X*sx, p.Y*sy))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", p.X*sx, p.Y*sy))
		}
	}
	sb.WriteString("\"/>\n")
}
