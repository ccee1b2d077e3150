package outliner

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/huh"
	"github.com/mattn/go-runewidth"

	"github.com/Dicklesworthstone/scene_viewer/pkg/importer"
	"github.com/Dicklesworthstone/scene_viewer/pkg/scene"
	"github.com/Dicklesworthstone/scene_viewer/pkg/treeview"
)

// outlinerRegion keys the view cache; the outliner is a single-region UI.
const outlinerRegion = "outliner"

// FileChangedMsg reports that a watched scene source changed on disk.
type FileChangedMsg struct {
	Path string
}

// sceneLoadedMsg carries the outcome of an asynchronous (re)import.
type sceneLoadedMsg struct {
	path     string
	scene    *scene.Scene
	warnings []importer.Warning
}

// Model is the outliner's bubbletea model.
type Model struct {
	theme   Theme
	title   string
	baseDir string

	scenes   []*scene.Scene
	warnings []importer.Warning

	cache *treeview.ViewCache
	view  *SceneView
	rows  treeview.RowList

	cursor int
	offset int
	width  int
	height int
	status string

	filterInput textinput.Model
	filtering   bool
	filter      string

	helpView viewport.Model
	showHelp bool

	openForm *huh.Form
	opening  bool

	store StateStore
	saved map[string]bool

	quitting bool
}

// New returns a model over the initially loaded scenes. store may be nil,
// in which case collapse state does not survive restarts.
func New(theme Theme, title, baseDir string, scenes []*scene.Scene, warnings []importer.Warning, store StateStore) Model {
	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "filter objects"

	m := Model{
		theme:       theme,
		title:       title,
		baseDir:     baseDir,
		scenes:      scenes,
		warnings:    warnings,
		cache:       treeview.NewViewCache(),
		filterInput: ti,
		store:       store,
	}

	if store != nil {
		if open, err := store.LoadState(); err == nil {
			m.saved = open
		}
	}

	// Seed the cache with a view carrying the restored state, then
	// rebuild so reconciliation applies it like any other redraw.
	m.rebuild()
	ApplyState(m.view, m.saved)
	m.rebuild()

	return m
}

// Scenes returns the currently loaded scenes in display order.
func (m *Model) Scenes() []*scene.Scene {
	return m.scenes
}

// Rows exposes the current visible rows; tests and exports use this.
func (m *Model) Rows() []treeview.Row {
	return m.rows.Rows
}

func (m Model) Init() tea.Cmd {
	return nil
}

// rebuild runs one build -> reconcile -> layout cycle and re-clamps the
// cursor against the new row count.
func (m *Model) rebuild() {
	m.cache.BeginRedraw()
	m.rows.Reset()
	m.view = NewSceneView(m.scenes, m.filter)
	treeview.NewBuilder(&m.rows, m.cache, outlinerRegion).Build(m.view)

	if m.cursor >= len(m.rows.Rows) {
		m.cursor = len(m.rows.Rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.helpView = viewport.New(msg.Width, msg.Height-2)
		return m, nil

	case FileChangedMsg:
		return m, reloadScene(msg.Path, m.baseDir)

	case sceneLoadedMsg:
		return m.applyLoaded(msg)

	case tea.KeyMsg:
		if m.filtering {
			return m.updateFilter(msg)
		}
		if m.opening {
			return m.updateOpenForm(msg)
		}
		if m.showHelp {
			return m.updateHelp(msg)
		}
		return m.updateKeys(msg)
	}

	if m.opening && m.openForm != nil {
		return m.updateOpenForm(msg)
	}
	return m, nil
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.persistState()
		m.quitting = true
		return m, tea.Quit

	case "j", "down":
		if m.cursor < len(m.rows.Rows)-1 {
			m.cursor++
		}

	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}

	case "g":
		m.cursor = 0

	case "G":
		m.cursor = len(m.rows.Rows) - 1
		if m.cursor < 0 {
			m.cursor = 0
		}

	case " ", "h", "l":
		if row, ok := m.currentRow(); ok && row.OnToggle != nil {
			row.OnToggle()
			m.rebuild()
		}

	case "enter":
		if row, ok := m.currentRow(); ok && row.OnActivate != nil {
			m.clearActive()
			row.OnActivate()
			m.rebuild()
		}

	case "E":
		m.setAllCollapsed(false)

	case "C":
		m.setAllCollapsed(true)

	case "y":
		if row, ok := m.currentRow(); ok {
			path := treeview.Path(row.Item, "/")
			if err := clipboard.WriteAll(path); err != nil {
				m.status = "clipboard unavailable"
			} else {
				m.status = "copied " + path
			}
		}

	case "/":
		m.filtering = true
		m.filterInput.SetValue(m.filter)
		m.filterInput.Focus()
		return m, textinput.Blink

	case "?":
		m.showHelp = true
		m.helpView.SetContent(renderHelp(m.width))

	case "o":
		m.openForm = newOpenForm()
		m.opening = true
		return m, m.openForm.Init()
	}

	m.followCursor()
	return m, nil
}

func (m Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.filtering = false
		m.filter = ""
		m.filterInput.Blur()
		m.rebuild()
		return m, nil
	case "enter":
		m.filtering = false
		m.filterInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	if m.filter != m.filterInput.Value() {
		m.filter = m.filterInput.Value()
		m.cursor = 0
		m.rebuild()
	}
	return m, cmd
}

func (m Model) updateHelp(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "?":
		m.showHelp = false
		return m, nil
	}
	var cmd tea.Cmd
	m.helpView, cmd = m.helpView.Update(msg)
	return m, cmd
}

func (m Model) updateOpenForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		m.opening = false
		m.openForm = nil
		return m, nil
	}

	form, cmd := m.openForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.openForm = f
	}

	switch m.openForm.State {
	case huh.StateCompleted:
		path := strings.TrimSpace(m.openForm.GetString("path"))
		m.opening = false
		m.openForm = nil
		if path == "" {
			return m, cmd
		}
		return m, tea.Batch(cmd, reloadScene(path, m.baseDir))
	case huh.StateAborted:
		m.opening = false
		m.openForm = nil
	}
	return m, cmd
}

func (m Model) applyLoaded(msg sceneLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.scene == nil {
		m.status = fmt.Sprintf("%s: import produced no output (%d warnings)", msg.path, len(msg.warnings))
		m.warnings = append(m.warnings, msg.warnings...)
		return m, nil
	}

	replaced := false
	for i, sc := range m.scenes {
		if sc.Source == msg.scene.Source {
			m.scenes[i] = msg.scene
			replaced = true
			break
		}
	}
	if !replaced {
		m.scenes = append(m.scenes, msg.scene)
	}

	m.warnings = append(m.warnings, msg.warnings...)
	if replaced {
		m.status = "reloaded " + msg.scene.Name
	} else {
		m.status = "opened " + msg.scene.Name
	}
	m.rebuild()
	return m, nil
}

func reloadScene(path, baseDir string) tea.Cmd {
	return func() tea.Msg {
		sc, warnings := importer.LoadScene(path, baseDir)
		return sceneLoadedMsg{path: path, scene: sc, warnings: warnings}
	}
}

func (m *Model) currentRow() (treeview.Row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows.Rows) {
		return treeview.Row{}, false
	}
	return m.rows.Rows[m.cursor], true
}

// clearActive unmarks every item so activation keeps a single selection.
func (m *Model) clearActive() {
	m.view.ForEachItem(func(it treeview.Item) {
		if ci, ok := it.(interface{ SetActive(bool) }); ok {
			ci.SetActive(false)
		}
	}, false)
}

func (m *Model) setAllCollapsed(collapsed bool) {
	m.view.ForEachItem(func(it treeview.Item) {
		if ci, ok := it.(collapsibleItem); ok && ci.IsCollapsible() {
			ci.SetCollapsed(collapsed)
		}
	}, false)
	m.rebuild()
}

func (m *Model) persistState() {
	if m.store == nil || m.view == nil {
		return
	}
	// Best effort; a failed save only costs collapse state.
	_ = m.store.SaveState(CaptureState(m.view))
}

// followCursor keeps the cursor inside the visible window.
func (m *Model) followCursor() {
	visible := m.treeHeight()
	if visible <= 0 {
		return
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+visible {
		m.offset = m.cursor - visible + 1
	}
}

func (m *Model) treeHeight() int {
	h := m.height - 2
	if h < 1 {
		h = 1
	}
	return h
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.showHelp {
		return m.helpView.View() + "\n" + m.theme.Footer.Render("? or esc to close help")
	}
	if m.opening && m.openForm != nil {
		return m.openForm.View()
	}

	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n")

	visible := m.treeHeight()
	end := m.offset + visible
	if end > len(m.rows.Rows) {
		end = len(m.rows.Rows)
	}
	for i := m.offset; i < end; i++ {
		b.WriteString(m.renderRow(i))
		b.WriteString("\n")
	}
	if len(m.rows.Rows) == 0 {
		b.WriteString(m.theme.Footer.Render("  no scenes loaded; press o to open a file"))
		b.WriteString("\n")
	}

	b.WriteString(m.footer())
	return b.String()
}

func (m Model) header() string {
	title := m.title
	if title == "" {
		title = "scene viewer"
	}
	counts := fmt.Sprintf("  %d scenes", len(m.scenes))
	if n := len(m.warnings); n > 0 {
		counts += m.theme.Renderer.NewStyle().Foreground(m.theme.Danger).
			Render(fmt.Sprintf("  %d warnings", n))
	}
	return m.theme.Header.Render(title) + counts
}

func (m Model) renderRow(i int) string {
	row := m.rows.Rows[i]

	line := strings.Repeat("  ", row.Indent) + row.Icon + " " + row.Text
	if m.width > 0 {
		line = runewidth.Truncate(line, m.width-2, "…")
	}

	switch {
	case i == m.cursor:
		return m.theme.Selected.Render("▌" + line)
	case row.Active:
		return m.theme.Renderer.NewStyle().Foreground(m.theme.Highlight).Render(" " + line)
	default:
		return " " + line
	}
}

func (m Model) footer() string {
	if m.filtering {
		return m.filterInput.View()
	}
	parts := []string{"j/k move", "space toggle", "enter select", "/ filter", "o open", "? help", "q quit"}
	hint := m.theme.Footer.Render(strings.Join(parts, " · "))
	if m.status != "" {
		return hint + "  " + m.theme.Footer.Render(m.status)
	}
	return hint
}

func newOpenForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("path").
				Title("Open OBJ file").
				Placeholder("models/ship.obj"),
		),
	)
}

const helpMarkdown = `# Scene Viewer

Navigate the outliner with the keyboard.

## Keys

| Key | Action |
|-----|--------|
| j / k | move down / up |
| g / G | jump to top / bottom |
| space, h, l | collapse or expand the current item |
| enter | select the current item |
| E / C | expand / collapse everything |
| y | copy the current item path |
| / | fuzzy-filter objects by name |
| o | open another OBJ file |
| q | quit |

Collapse state is remembered between runs.
`

func renderHelp(width int) string {
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return helpMarkdown
	}
	out, err := r.Render(helpMarkdown)
	if err != nil {
		return helpMarkdown
	}
	return out
}
