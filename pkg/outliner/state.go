package outliner

import (
	"fmt"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"

	"github.com/Dicklesworthstone/scene_viewer/pkg/treeview"
)

// StateStore persists the open flags of collapsible items between runs,
// keyed by item path.
type StateStore interface {
	SaveState(open map[string]bool) error
	LoadState() (map[string]bool, error)
}

// treeStateVersion guards the on-disk format.
const treeStateVersion = 1

type treeStateFile struct {
	Version int             `json:"version"`
	Open    map[string]bool `json:"open"`
}

// FileStateStore stores tree state as JSON at a fixed path, typically
// .sv/tree-state.json.
type FileStateStore struct {
	Path string
}

func (s FileStateStore) SaveState(open map[string]bool) error {
	data, err := json.Marshal(treeStateFile{Version: treeStateVersion, Open: open})
	if err != nil {
		return fmt.Errorf("marshal tree state: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}
	if err := os.WriteFile(s.Path, data, 0o644); err != nil {
		return fmt.Errorf("write tree state: %w", err)
	}
	return nil
}

func (s FileStateStore) LoadState() (map[string]bool, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read tree state: %w", err)
	}

	var file treeStateFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse tree state: %w", err)
	}
	if file.Version != treeStateVersion {
		return nil, nil
	}
	return file.Open, nil
}

// collapsibleItem is satisfied by every concrete item through the
// embedded base.
type collapsibleItem interface {
	treeview.Item
	IsCollapsible() bool
	IsOpen() bool
	SetCollapsed(collapsed bool)
}

// CaptureState records the deviations from the build defaults: items
// start open, so only collapsed items are stored.
func CaptureState(view *SceneView) map[string]bool {
	open := make(map[string]bool)
	view.ForEachItem(func(it treeview.Item) {
		ci, ok := it.(collapsibleItem)
		if !ok || !ci.IsCollapsible() {
			return
		}
		if !ci.IsOpen() {
			open[treeview.Path(it, "/")] = false
		}
	}, false)
	return open
}

// ApplyState restores previously captured open flags onto a freshly
// built view. Paths that no longer exist are ignored.
func ApplyState(view *SceneView, open map[string]bool) {
	if len(open) == 0 {
		return
	}
	view.ForEachItem(func(it treeview.Item) {
		ci, ok := it.(collapsibleItem)
		if !ok || !ci.IsCollapsible() {
			return
		}
		if isOpen, found := open[treeview.Path(it, "/")]; found {
			ci.SetCollapsed(!isOpen)
		}
	}, false)
}
