package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/agentscape/pkg/dataset"
	"github.com/matzehuels/agentscape/pkg/pipeline"
	"github.com/matzehuels/agentscape/pkg/plot"
	"github.com/matzehuels/agentscape/pkg/render/styles"
	"github.com/matzehuels/agentscape/pkg/scatter/viewport"
)

// exploreCommand opens the interactive terminal plot.
func (c *CLI) exploreCommand() *cobra.Command {
	var (
		noCache bool
		flags   optionFlags
	)

	cmd := &cobra.Command{
		Use:   "explore [dataset]",
		Short: "Explore a dataset in an interactive terminal plot",
		Long: `Explore a dataset in an interactive terminal plot.

Move the cursor with the arrow keys and press enter to inspect the framework
under it. The cursor is a pixel position on the configured canvas, so what
you select here is what 'hit' reports for the same coordinates.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := c.source(args)
			if err != nil {
				return err
			}
			opts := flags.resolve(cmd.Flags(), c.Config)
			opts.Source = source
			opts.VizType = pipeline.DefaultVizType
			opts.Logger = c.Logger

			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			records, err := runner.Load(ctx, opts)
			if err != nil {
				return fmt.Errorf("load %s: %w", source, err)
			}

			m, err := newExploreModel(ctx, runner, records, opts)
			if err != nil {
				return err
			}
			_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	flags.bindLayout(cmd.Flags())

	return cmd
}

// =============================================================================
// Key Bindings
// =============================================================================

type exploreKeyMap struct {
	Up, Down, Left, Right key.Binding
	Inspect, Close, Next  key.Binding
	ZoomIn, ZoomOut       key.Binding
	Pan, Reset            key.Binding
	AxisX, AxisY          key.Binding
	Category, Search      key.Binding
	Quit                  key.Binding
}

var exploreKeys = exploreKeyMap{
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
	Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
	Inspect:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "inspect")),
	Close:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
	Next:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next point")),
	ZoomIn:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "zoom in")),
	ZoomOut:  key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "zoom out")),
	Pan:      key.NewBinding(key.WithKeys("H", "J", "K", "L"), key.WithHelp("HJKL", "pan")),
	Reset:    key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "reset view")),
	AxisX:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "next x axis")),
	AxisY:    key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "next y axis")),
	Category: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "category")),
	Search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

func (k exploreKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Inspect, k.ZoomIn, k.ZoomOut, k.Pan, k.Category, k.Search, k.Quit}
}

func (k exploreKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Next},
		{k.Inspect, k.Close, k.Search},
		{k.ZoomIn, k.ZoomOut, k.Pan, k.Reset},
		{k.AxisX, k.AxisY, k.Category, k.Quit},
	}
}

// =============================================================================
// ExploreModel - Interactive scatter plot
// =============================================================================

const (
	zoomStep     = 1.25
	panFraction  = 0.1
	defaultCols  = 72
	defaultRows  = 20
	minGridCols  = 20
	minGridRows  = 8
	maxGridCols  = 160
	maxGridRows  = 48
	chromeHeight = 16
)

var (
	exploreFrameStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim)
	exploreCursorStyle = lipgloss.NewStyle().Bold(true).Foreground(colorYellow)
	exploreStatusStyle = lipgloss.NewStyle().Foreground(colorGray)
	exploreErrorStyle  = lipgloss.NewStyle().Foreground(colorRed)
	exploreDetailStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorCyan).Padding(0, 1)
)

// layoutMsg delivers a recomputed layout.
type layoutMsg struct {
	layout plot.Layout
	err    error
}

// exploreModel is the bubbletea model behind `agentscape explore`.
type exploreModel struct {
	ctx     context.Context
	runner  *pipeline.Runner
	records []dataset.Record
	opts    pipeline.Options
	theme   styles.Theme

	layout     plot.Layout
	view       viewport.View
	categories []string

	// Cursor in canvas pixels.
	cursorX, cursorY float64

	selected *plot.Point
	status   string
	err      error

	search    textinput.Model
	searching bool
	help      help.Model

	cols, rows int
}

// newExploreModel computes the initial layout synchronously so the first
// frame is never empty.
func newExploreModel(ctx context.Context, runner *pipeline.Runner, records []dataset.Record, opts pipeline.Options) (exploreModel, error) {
	theme, err := styles.ThemeByName(opts.Theme)
	if err != nil {
		theme = styles.Light
	}

	ti := textinput.New()
	ti.Placeholder = "name or description"
	ti.Prompt = "/ "
	ti.CharLimit = 80
	ti.SetValue(opts.Query)

	m := exploreModel{
		ctx:        ctx,
		runner:     runner,
		records:    records,
		opts:       opts,
		theme:      theme,
		categories: dataset.Categories(records),
		search:     ti,
		help:       help.New(),
		cols:       defaultCols,
		rows:       defaultRows,
	}

	msg := m.computeLayout()
	if msg.err != nil {
		return m, msg.err
	}
	m.layout = msg.layout
	m.view = msg.layout.View()
	m.cursorX, m.cursorY = m.view.Width/2, m.view.Height/2
	return m, nil
}

func (m exploreModel) Init() tea.Cmd {
	return nil
}

func (m exploreModel) computeLayout() layoutMsg {
	records := m.runner.Filter(m.records, m.opts)
	l, err := m.runner.GenerateLayout(m.ctx, records, m.opts)
	return layoutMsg{layout: l, err: err}
}

// relayout recomputes the layout for the current axes and filter.
func (m exploreModel) relayout() tea.Cmd {
	return func() tea.Msg { return m.computeLayout() }
}

func (m exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.cols = clampInt(msg.Width-4, minGridCols, maxGridCols)
		m.rows = clampInt(msg.Height-chromeHeight, minGridRows, maxGridRows)
		m.help.Width = msg.Width
		return m, nil

	case layoutMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.layout = msg.layout.WithView(m.view)
		if m.selected != nil {
			if p, ok := m.layout.Point(m.selected.Name); ok {
				m.selected = &p
			} else {
				m.selected = nil
			}
		}
		m.status = fmt.Sprintf("%d frameworks", len(m.layout.Points))
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateKey(msg)
	}
	return m, nil
}

func (m exploreModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.searching = false
		m.search.Blur()
		m.opts.Query = strings.TrimSpace(m.search.Value())
		return m, m.relayout()
	case tea.KeyEsc:
		m.searching = false
		m.search.Blur()
		m.search.SetValue(m.opts.Query)
		return m, nil
	case tea.KeyCtrlC:
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m exploreModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cellW, cellH := m.cellSize()
	panX, panY := m.view.Width*panFraction, m.view.Height*panFraction

	switch {
	case key.Matches(msg, exploreKeys.Quit):
		return m, tea.Quit

	case key.Matches(msg, exploreKeys.Up):
		m.moveCursor(0, -cellH)
	case key.Matches(msg, exploreKeys.Down):
		m.moveCursor(0, cellH)
	case key.Matches(msg, exploreKeys.Left):
		m.moveCursor(-cellW, 0)
	case key.Matches(msg, exploreKeys.Right):
		m.moveCursor(cellW, 0)

	case key.Matches(msg, exploreKeys.Inspect):
		m.inspect()
	case key.Matches(msg, exploreKeys.Close):
		m.selected = nil
	case key.Matches(msg, exploreKeys.Next):
		m.nextPoint()

	case key.Matches(msg, exploreKeys.ZoomIn):
		m.zoom(zoomStep)
	case key.Matches(msg, exploreKeys.ZoomOut):
		m.zoom(1 / zoomStep)
	case key.Matches(msg, exploreKeys.Pan):
		switch msg.String() {
		case "H":
			m.pan(panX, 0)
		case "L":
			m.pan(-panX, 0)
		case "K":
			m.pan(0, panY)
		case "J":
			m.pan(0, -panY)
		}
	case key.Matches(msg, exploreKeys.Reset):
		m.view.Reset()
		m.layout = m.layout.WithView(m.view)

	case key.Matches(msg, exploreKeys.AxisX):
		m.opts.XAxis = string(m.layout.XAxis.Next())
		return m, m.relayout()
	case key.Matches(msg, exploreKeys.AxisY):
		m.opts.YAxis = string(m.layout.YAxis.Next())
		return m, m.relayout()
	case key.Matches(msg, exploreKeys.Category):
		m.opts.Category = dataset.NextCategory(m.opts.Category, m.categories)
		return m, m.relayout()
	case key.Matches(msg, exploreKeys.Search):
		m.searching = true
		return m, m.search.Focus()
	}
	return m, nil
}

func (m *exploreModel) moveCursor(dx, dy float64) {
	m.cursorX = clamp(m.cursorX+dx, 0, m.view.Width)
	m.cursorY = clamp(m.cursorY+dy, 0, m.view.Height)
}

// inspect hit-tests the cursor pixel.
func (m *exploreModel) inspect() {
	p, ok := m.runner.HitTest(m.ctx, m.layout, m.cursorX, m.cursorY)
	if !ok {
		m.selected = nil
		m.status = fmt.Sprintf("no entity at (%.0f, %.0f)", m.cursorX, m.cursorY)
		return
	}
	m.selected = &p
	m.status = p.Name
}

// nextPoint moves the cursor onto the point after the selection in draw
// order and selects it.
func (m *exploreModel) nextPoint() {
	if len(m.layout.Points) == 0 {
		return
	}
	i := 0
	if m.selected != nil {
		for j, p := range m.layout.Points {
			if p.Name == m.selected.Name {
				i = (j + 1) % len(m.layout.Points)
				break
			}
		}
	}
	p := m.layout.Points[i]
	m.cursorX, m.cursorY = p.PX, p.PY
	m.selected = &p
	m.status = p.Name
}

func (m *exploreModel) zoom(factor float64) {
	m.view.ZoomAt(factor, m.cursorX, m.cursorY)
	m.layout = m.layout.WithView(m.view)
	m.refreshSelection()
}

func (m *exploreModel) pan(dx, dy float64) {
	m.view.Pan(dx, dy)
	m.layout = m.layout.WithView(m.view)
	m.refreshSelection()
}

func (m *exploreModel) refreshSelection() {
	if m.selected == nil {
		return
	}
	if p, ok := m.layout.Point(m.selected.Name); ok {
		m.selected = &p
	}
}

func (m exploreModel) cellSize() (float64, float64) {
	return m.view.Width / float64(m.cols), m.view.Height / float64(m.rows)
}

// cell maps a canvas pixel to a grid cell.
func (m exploreModel) cell(px, py float64) (col, row int, ok bool) {
	if !m.view.Visible(px, py) {
		return 0, 0, false
	}
	cellW, cellH := m.cellSize()
	col = min(int(px/cellW), m.cols-1)
	row = min(int(py/cellH), m.rows-1)
	return col, row, true
}

// =============================================================================
// View
// =============================================================================

func (m exploreModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(appName))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  %s × %s", m.layout.XAxis.Title(), m.layout.YAxis.Title())))
	b.WriteString("\n")
	b.WriteString(exploreFrameStyle.Render(m.grid()))
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")

	if m.searching {
		b.WriteString(m.search.View())
		b.WriteString("\n")
	}
	if m.selected != nil {
		b.WriteString(m.detailPanel(*m.selected))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(exploreKeys))
	return b.String()
}

// grid draws the points in draw order, so later points cover earlier ones
// in the same cell the way they do on the canvas.
func (m exploreModel) grid() string {
	cells := make([][]string, m.rows)
	for r := range cells {
		cells[r] = make([]string, m.cols)
		for c := range cells[r] {
			cells[r][c] = " "
		}
	}

	for _, p := range m.layout.Points {
		col, row, ok := m.cell(p.PX, p.PY)
		if !ok {
			continue
		}
		color := m.theme.CategoryColor(p.Category, m.layout.Categories)
		glyph := "●"
		if m.selected != nil && m.selected.Name == p.Name {
			glyph = "◉"
		}
		cells[row][col] = lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(glyph)
	}

	if col, row, ok := m.cell(m.cursorX, m.cursorY); ok {
		cells[row][col] = exploreCursorStyle.Render("+")
	}

	lines := make([]string, m.rows)
	for r := range cells {
		lines[r] = strings.Join(cells[r], "")
	}
	return strings.Join(lines, "\n")
}

func (m exploreModel) statusLine() string {
	category := m.opts.Category
	if category == "" {
		category = dataset.CategoryAll
	}
	parts := []string{
		fmt.Sprintf("(%.0f, %.0f)", m.cursorX, m.cursorY),
		fmt.Sprintf("zoom %.2f×", m.view.Zoom),
		"category " + category,
	}
	if m.opts.Query != "" {
		parts = append(parts, fmt.Sprintf("query %q", m.opts.Query))
	}
	if m.status != "" {
		parts = append(parts, m.status)
	}
	line := exploreStatusStyle.Render(strings.Join(parts, " · "))
	if m.err != nil {
		line += "\n" + exploreErrorStyle.Render(m.err.Error())
	}
	return line
}

func (m exploreModel) detailPanel(p plot.Point) string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render(p.Name))
	for _, row := range pointRows(m.layout, p) {
		b.WriteString("\n")
		b.WriteString(styleKey.Render(row[0]) + " " + StyleValue.Render(row[1]))
	}
	return exploreDetailStyle.Render(b.String())
}

// =============================================================================
// Helpers
// =============================================================================

func clamp(v, lo, hi float64) float64 {
	return min(max(v, lo), hi)
}

func clampInt(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
