package export

import (
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo"

	"github.com/Dicklesworthstone/scene_viewer/pkg/outliner"
	"github.com/Dicklesworthstone/scene_viewer/pkg/scene"
)

const (
	svgWidth   = 640
	svgLineH   = 22
	svgPadding = 16
	svgIndentW = 18
)

// WriteOutlineSVG draws the fully expanded outline as an SVG snapshot
// in the viewer's dark palette.
func WriteOutlineSVG(w io.Writer, scenes []*scene.Scene) error {
	rows := outliner.OutlineRows(scenes)
	if len(rows) == 0 {
		return fmt.Errorf("nothing to export")
	}

	height := 2*svgPadding + (len(rows)+1)*svgLineH

	canvas := svg.New(w)
	canvas.Start(svgWidth, height)
	canvas.Rect(0, 0, svgWidth, height, "fill:#282a36")

	canvas.Text(svgPadding, svgPadding+svgLineH,
		"Scene Outline",
		"font-family:monospace;font-size:15px;font-weight:bold;fill:#bd93f9")

	for i, row := range rows {
		x := svgPadding + row.Indent*svgIndentW
		y := svgPadding + (i+2)*svgLineH

		fill := "#f8f8f2"
		if row.Indent >= 2 {
			fill = "#6272a4"
		}

		canvas.Text(x, y, row.Icon+" "+row.Text,
			"font-family:monospace;font-size:13px;fill:"+fill)
	}

	canvas.End()
	return nil
}
