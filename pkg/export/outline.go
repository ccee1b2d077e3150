// Package export renders loaded scenes into shareable artifacts:
// markdown outlines, SVG tree snapshots and PNG wireframes.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/Dicklesworthstone/scene_viewer/pkg/outliner"
	"github.com/Dicklesworthstone/scene_viewer/pkg/scene"
)

// WriteOutlineMarkdown writes the fully expanded scene outline as a
// nested markdown list, one section per scene.
func WriteOutlineMarkdown(w io.Writer, scenes []*scene.Scene) error {
	if _, err := fmt.Fprintf(w, "# Scene Outline\n"); err != nil {
		return fmt.Errorf("write outline: %w", err)
	}

	for _, sc := range scenes {
		fmt.Fprintf(w, "\n## %s\n\n", sc.Name)
		if sc.Source != "" {
			fmt.Fprintf(w, "Source: `%s`\n", sc.Source)
		}
		if !sc.ImportedAt.IsZero() {
			fmt.Fprintf(w, "Imported: %s\n", sc.ImportedAt.Format("2006-01-02 15:04:05"))
		}
		if box := sc.BoundingBox(); !box.IsEmpty() {
			size := box.Size()
			fmt.Fprintf(w, "Bounds: %.3g x %.3g x %.3g\n", size.X, size.Y, size.Z)
		}
		fmt.Fprintln(w)

		rows := outliner.OutlineRows([]*scene.Scene{sc})
		for _, row := range rows[1:] {
			indent := strings.Repeat("  ", row.Indent-1)
			fmt.Fprintf(w, "%s- %s\n", indent, row.Text)
		}
	}

	return nil
}
