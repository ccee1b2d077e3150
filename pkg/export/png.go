package export

import (
	"fmt"
	"io"

	"git.sr.ht/~sbinet/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Dicklesworthstone/scene_viewer/pkg/scene"
)

// WriteWireframePNG renders a front-view (XY plane) wireframe of the
// scene's instanced geometry.
func WriteWireframePNG(w io.Writer, sc *scene.Scene, width, height int) error {
	if width <= 0 {
		width = 800
	}
	if height <= 0 {
		height = 600
	}

	box := sc.BoundingBox()
	if box.IsEmpty() {
		return fmt.Errorf("scene %s has no geometry", sc.Name)
	}

	margin := 40.0
	size := box.Size()
	sx, sy := size.X, size.Y
	if sx == 0 {
		sx = 1
	}
	if sy == 0 {
		sy = 1
	}
	scaleX := (float64(width) - 2*margin) / sx
	scaleY := (float64(height) - 2*margin) / sy
	sc2d := scaleX
	if scaleY < sc2d {
		sc2d = scaleY
	}

	// Y grows upward in the scene, downward on the canvas.
	project := func(p r3.Vec) (float64, float64) {
		x := margin + (p.X-box.Min.X)*sc2d
		y := float64(height) - margin - (p.Y-box.Min.Y)*sc2d
		return x, y
	}

	dc := gg.NewContext(width, height)
	dc.SetRGB(0.157, 0.165, 0.212)
	dc.Clear()

	dc.SetRGB(0.545, 0.914, 0.992)
	dc.SetLineWidth(1)

	for _, inst := range sc.Instances.All() {
		g := sc.Instances.Reference(inst.Reference).Geometry
		if g == nil {
			continue
		}
		for _, face := range g.Faces {
			if len(face) < 2 {
				continue
			}
			for i := range face {
				a := face[i]
				b := face[(i+1)%len(face)]
				if a < 0 || b < 0 || a >= len(g.Positions) || b >= len(g.Positions) {
					continue
				}
				pa := scene.TransformPoint(inst.Transform, g.Positions[a])
				pb := scene.TransformPoint(inst.Transform, g.Positions[b])
				x1, y1 := project(pa)
				x2, y2 := project(pb)
				dc.DrawLine(x1, y1, x2, y2)
			}
		}
	}
	dc.Stroke()

	if face, err := labelFace(); err == nil {
		dc.SetFontFace(face)
		dc.SetRGB(0.741, 0.576, 0.976)
		dc.DrawString(sc.Name, 12, 24)
	}

	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

func labelFace() (font.Face, error) {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, err
	}
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    14,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}
