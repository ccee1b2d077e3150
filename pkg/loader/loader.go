// Package loader imports scenes from OBJ files, concurrently for
// batches, and keeps viewer state out of version control.
package loader

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/Dicklesworthstone/scene_viewer/pkg/importer"
	"github.com/Dicklesworthstone/scene_viewer/pkg/scene"
)

// Loaded is the outcome of importing one path. Scene is nil when the
// import produced no usable output; Warnings are populated either way.
type Loaded struct {
	Path     string
	Scene    *scene.Scene
	Warnings []importer.Warning
}

// LoadAll imports every path concurrently, bounded by the CPU count.
// Results keep the order of paths. Only context cancellation is an error;
// per-file failures are reported through each result's warnings.
func LoadAll(ctx context.Context, paths []string) ([]Loaded, error) {
	results := make([]Loaded, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			sc, warnings := importer.LoadScene(path, "")
			results[i] = Loaded{Path: path, Scene: sc, Warnings: warnings}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
