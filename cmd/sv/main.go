package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/Dicklesworthstone/scene_viewer/pkg/config"
	"github.com/Dicklesworthstone/scene_viewer/pkg/export"
	"github.com/Dicklesworthstone/scene_viewer/pkg/importer"
	"github.com/Dicklesworthstone/scene_viewer/pkg/loader"
	"github.com/Dicklesworthstone/scene_viewer/pkg/outliner"
	"github.com/Dicklesworthstone/scene_viewer/pkg/scene"
	"github.com/Dicklesworthstone/scene_viewer/pkg/session"
	"github.com/Dicklesworthstone/scene_viewer/pkg/version"
	"github.com/Dicklesworthstone/scene_viewer/pkg/watcher"
)

func main() {
	help := flag.Bool("help", false, "Show help")
	versionFlag := flag.Bool("version", false, "Show version")
	robotHelp := flag.Bool("robot-help", false, "Show AI agent help")
	robotOutline := flag.Bool("robot-outline", false, "Output the scene outline as JSON for AI agents")
	robotImports := flag.Bool("robot-imports", false, "Output recent import history as JSON for AI agents")
	exportMD := flag.String("export-md", "", "Export the scene outline to a Markdown file (e.g., outline.md)")
	exportSVG := flag.String("export-svg", "", "Export the scene outline to an SVG snapshot")
	exportPNG := flag.String("export-png", "", "Export a wireframe PNG of the first scene")
	noWatch := flag.Bool("no-watch", false, "Disable re-importing when source files change")
	flag.Parse()

	if *help {
		fmt.Println("Usage: sv [options] [file.obj ...]")
		fmt.Println("\nA terminal outliner for Wavefront OBJ scenes.")
		fmt.Println("Without file arguments, OBJ files are discovered under the")
		fmt.Println("configured scan paths (.sv/config.yaml).")
		flag.PrintDefaults()
		os.Exit(0)
	}

	if *robotHelp {
		printRobotHelp()
		os.Exit(0)
	}

	if *versionFlag {
		fmt.Printf("sv %s\n", version.Version)
		os.Exit(0)
	}

	projectDir := config.DetectProjectDir()
	cfg, err := config.Load(projectDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	db, err := session.OpenDB(filepath.Join(projectDir, config.ConfigDirName, "session.db"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: session database unavailable: %v\n", err)
		db = nil
	}
	if db != nil {
		defer db.Close()
	}

	if *robotImports {
		if db == nil {
			fmt.Fprintln(os.Stderr, "Error: no session database")
			os.Exit(1)
		}
		records, err := db.RecentImports(50)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading import history: %v\n", err)
			os.Exit(1)
		}
		output := struct {
			GeneratedAt string                 `json:"generated_at"`
			Imports     []session.ImportRecord `json:"imports"`
		}{
			GeneratedAt: time.Now().UTC().Format(time.RFC3339),
			Imports:     records,
		}
		writeJSON(output)
		os.Exit(0)
	}

	paths := flag.Args()
	if len(paths) == 0 {
		paths = config.DiscoverOBJFiles(cfg, projectDir)
	}
	if len(paths) == 0 {
		fmt.Println("No OBJ files found. Pass files as arguments or configure scan paths in .sv/config.yaml.")
		os.Exit(0)
	}

	loadStart := time.Now()
	results, err := loader.LoadAll(context.Background(), paths)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading scenes: %v\n", err)
		os.Exit(1)
	}
	loadDuration := time.Since(loadStart)

	var scenes []*scene.Scene
	var warnings []importer.Warning
	for _, res := range results {
		warnings = append(warnings, res.Warnings...)
		if res.Scene == nil {
			fmt.Fprintf(os.Stderr, "Warning: %s produced no geometry\n", res.Path)
			continue
		}
		scenes = append(scenes, res.Scene)
		recordImport(db, res, loadDuration)
	}

	if len(scenes) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no scenes could be loaded")
		for _, w := range warnings {
			fmt.Fprintf(os.Stderr, "  [%s] %s\n", w.Type, w.Message)
		}
		os.Exit(1)
	}

	if *robotOutline {
		writeJSON(outlineDocument(scenes, warnings))
		os.Exit(0)
	}

	if *exportMD != "" {
		exportTo(*exportMD, func(f *os.File) error {
			return export.WriteOutlineMarkdown(f, scenes)
		})
		os.Exit(0)
	}
	if *exportSVG != "" {
		exportTo(*exportSVG, func(f *os.File) error {
			return export.WriteOutlineSVG(f, scenes)
		})
		os.Exit(0)
	}
	if *exportPNG != "" {
		exportTo(*exportPNG, func(f *os.File) error {
			return export.WriteWireframePNG(f, scenes[0], 800, 600)
		})
		os.Exit(0)
	}

	// Without a TTY there is no TUI to run; fall back to the JSON outline
	// so piped invocations still produce useful output.
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		writeJSON(outlineDocument(scenes, warnings))
		os.Exit(0)
	}

	if err := loader.EnsureSVInGitignore(projectDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not update .gitignore: %v\n", err)
	}

	// Collapse state lives in the session database when available, with
	// a JSON file as the fallback.
	var store outliner.StateStore = outliner.FileStateStore{
		Path: filepath.Join(projectDir, config.ConfigDirName, "tree-state.json"),
	}
	if db != nil {
		store = db
	}
	theme := outliner.DefaultTheme(lipgloss.DefaultRenderer())
	title := cfg.Name
	if title == "" {
		title = filepath.Base(projectDir)
	}

	m := outliner.New(theme, title, projectDir, scenes, warnings, store)
	p := tea.NewProgram(m, tea.WithAltScreen())

	if cfg.WatchEnabled() && !*noWatch {
		w, err := watcher.New(0)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: file watching unavailable: %v\n", err)
		} else {
			defer w.Close()
			for _, sc := range scenes {
				if err := w.Add(sc.Source); err != nil {
					fmt.Fprintf(os.Stderr, "Warning: cannot watch %s: %v\n", sc.Source, err)
				}
			}
			go func() {
				for path := range w.Changes() {
					p.Send(outliner.FileChangedMsg{Path: path})
				}
			}()
		}
	}

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running scene viewer: %v\n", err)
		os.Exit(1)
	}
}

// objectDocument is the JSON shape of one object in --robot-outline.
type objectDocument struct {
	Name      string   `json:"name"`
	Vertices  int      `json:"vertices"`
	Faces     int      `json:"faces"`
	Triangles int      `json:"triangles"`
	Materials []string `json:"materials,omitempty"`
}

type sceneDocument struct {
	Name    string           `json:"name"`
	Source  string           `json:"source"`
	Objects []objectDocument `json:"objects"`
}

type outlineDoc struct {
	GeneratedAt string             `json:"generated_at"`
	Scenes      []sceneDocument    `json:"scenes"`
	Warnings    []importer.Warning `json:"warnings,omitempty"`
}

func outlineDocument(scenes []*scene.Scene, warnings []importer.Warning) outlineDoc {
	doc := outlineDoc{
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Warnings:    warnings,
	}
	for _, sc := range scenes {
		sd := sceneDocument{Name: sc.Name, Source: sc.Source}
		for _, ref := range sc.Instances.References() {
			g := ref.Geometry
			sd.Objects = append(sd.Objects, objectDocument{
				Name:      ref.Name,
				Vertices:  g.VertexCount(),
				Faces:     g.FaceCount(),
				Triangles: g.TriangleCount(),
				Materials: g.Materials,
			})
		}
		doc.Scenes = append(doc.Scenes, sd)
	}
	return doc
}

func writeJSON(v any) {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding output: %v\n", err)
		os.Exit(1)
	}
}

func exportTo(path string, write func(*os.File) error) {
	f, err := os.Create(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating %s: %v\n", path, err)
		os.Exit(1)
	}
	defer f.Close()

	if err := write(f); err != nil {
		fmt.Fprintf(os.Stderr, "Error exporting: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Exported to %s\n", path)
}

func recordImport(db *session.DB, res loader.Loaded, duration time.Duration) {
	if db == nil || res.Scene == nil {
		return
	}
	record := session.ImportRecord{
		Path:       res.Path,
		Objects:    len(res.Scene.Instances.References()),
		Warnings:   len(res.Warnings),
		DurationMS: duration.Milliseconds(),
		ImportedAt: res.Scene.ImportedAt,
	}
	if err := db.RecordImport(&record); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not record import: %v\n", err)
	}
}

func printRobotHelp() {
	fmt.Println("sv (Scene Viewer) AI Agent Interface")
	fmt.Println("====================================")
	fmt.Println("This tool imports Wavefront OBJ files and reports their structure.")
	fmt.Println("Use these commands to inspect scenes without parsing OBJ yourself.")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  --robot-outline [files...]")
	fmt.Println("      Outputs the scene outline as JSON.")
	fmt.Println("      Key fields:")
	fmt.Println("      - scenes: one entry per loaded file")
	fmt.Println("      - objects: per-object vertex/face/triangle counts and materials")
	fmt.Println("      - warnings: import diagnostics (type: info or error)")
	fmt.Println("")
	fmt.Println("  --robot-imports")
	fmt.Println("      Outputs recent import history as JSON from .sv/session.db.")
	fmt.Println("")
	fmt.Println("  --export-md <file>")
	fmt.Println("      Writes the outline as a Markdown report.")
	fmt.Println("")
	fmt.Println("  --export-svg <file>")
	fmt.Println("      Writes the outline as an SVG snapshot.")
	fmt.Println("")
	fmt.Println("  --export-png <file>")
	fmt.Println("      Renders a front-view wireframe of the first scene.")
	fmt.Println("")
	fmt.Println("Piping stdout (no TTY) implies --robot-outline.")
}
