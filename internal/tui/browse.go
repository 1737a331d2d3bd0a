package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rshade/ecosort/internal/engine"
	"github.com/rshade/ecosort/internal/logging"
	"github.com/rshade/ecosort/internal/logistics"
)

// BrowseState is the screen the browser is on.
type BrowseState int

const (
	// BrowseStateMaterial lists material types.
	BrowseStateMaterial BrowseState = iota
	// BrowseStateWeight lists the weights of the chosen material.
	BrowseStateWeight
	// BrowseStateLoading waits for a ranking.
	BrowseStateLoading
	// BrowseStateResults shows the ranking cards.
	BrowseStateResults
	// BrowseStateError shows a failed ranking.
	BrowseStateError
	// BrowseStateQuitting is set once the user quits.
	BrowseStateQuitting
)

// Key bindings.
const (
	keyQuit   = "q"
	keyCtrlC  = "ctrl+c"
	keyEnter  = "enter"
	keyEsc    = "esc"
	keyReseed = "r"
)

// AllWeights is the weight row that disables the weight filter.
const AllWeights = "All"

const (
	browseDefaultHeight = 20
	browseMinTableRows  = 5
	browseChromeRows    = 6
)

// BrowseOptions configures a browser.
type BrowseOptions struct {
	Sampler string
	Seed    uint64
	Unit    string
}

// browseResultMsg delivers a finished ranking.
type browseResultMsg struct {
	result engine.Result
	seed   uint64
	err    error
}

// BrowseModel walks the user from a material to a weight to a ranking.
type BrowseModel struct {
	ctx    context.Context
	ranker *engine.Ranker
	opts   BrowseOptions

	state     BrowseState
	materials table.Model
	weights   table.Model

	material string
	weight   *float64
	seed     uint64

	result engine.Result
	err    error

	width  int
	height int
}

// NewBrowseModel builds a browser over ranker.
func NewBrowseModel(ctx context.Context, ranker *engine.Ranker, opts BrowseOptions) BrowseModel {
	m := BrowseModel{
		ctx:    ctx,
		ranker: ranker,
		opts:   opts,
		state:  BrowseStateMaterial,
		seed:   opts.Seed,
		height: browseDefaultHeight,
	}
	m.materials = m.buildMaterialTable()
	return m
}

// State returns the current screen.
func (m BrowseModel) State() BrowseState { return m.state }

// Material returns the chosen material type.
func (m BrowseModel) Material() string { return m.material }

// Weight returns the chosen weight, nil for AllWeights.
func (m BrowseModel) Weight() *float64 { return m.weight }

// Seed returns the seed of the current ranking.
func (m BrowseModel) Seed() uint64 { return m.seed }

// Result returns the last ranking.
func (m BrowseModel) Result() engine.Result { return m.result }

// Init implements tea.Model.
func (m BrowseModel) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		rows := m.tableHeight()
		m.materials.SetHeight(rows)
		m.weights.SetHeight(rows)
		return m, nil
	case browseResultMsg:
		return m.handleResult(msg), nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m BrowseModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyQuit, keyCtrlC:
		m.state = BrowseStateQuitting
		return m, tea.Quit
	}

	switch m.state {
	case BrowseStateMaterial:
		return m.handleMaterialKey(msg)
	case BrowseStateWeight:
		return m.handleWeightKey(msg)
	case BrowseStateResults, BrowseStateError:
		return m.handleResultsKey(msg)
	case BrowseStateLoading, BrowseStateQuitting:
	}
	return m, nil
}

func (m BrowseModel) handleMaterialKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() != keyEnter {
		var cmd tea.Cmd
		m.materials, cmd = m.materials.Update(msg)
		return m, cmd
	}

	row := m.materials.SelectedRow()
	if row == nil {
		return m, nil
	}
	m.material = row[0]
	m.weights = m.buildWeightTable(m.material)
	m.state = BrowseStateWeight
	return m, nil
}

func (m BrowseModel) handleWeightKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyEsc:
		m.state = BrowseStateMaterial
		return m, nil
	case keyEnter:
		row := m.weights.SelectedRow()
		if row == nil {
			return m, nil
		}
		m.weight = nil
		if row[0] != AllWeights {
			w, err := strconv.ParseFloat(row[0], 64)
			if err != nil {
				m.err = err
				m.state = BrowseStateError
				return m, nil
			}
			m.weight = &w
		}
		m.state = BrowseStateLoading
		return m, m.evaluate(m.seed)
	default:
		var cmd tea.Cmd
		m.weights, cmd = m.weights.Update(msg)
		return m, cmd
	}
}

func (m BrowseModel) handleResultsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyEsc:
		m.err = nil
		m.state = BrowseStateWeight
		return m, nil
	case keyReseed:
		m.state = BrowseStateLoading
		return m, m.evaluate(m.seed + 1)
	}
	return m, nil
}

// evaluate ranks the current selection with seed off the UI goroutine.
func (m BrowseModel) evaluate(seed uint64) tea.Cmd {
	ctx, ranker, opts := m.ctx, m.ranker, m.opts
	q := engine.Query{MaterialType: m.material, WeightKg: m.weight}

	return func() tea.Msg {
		sampler, err := logistics.NewSampler(opts.Sampler, seed)
		if err != nil {
			return browseResultMsg{seed: seed, err: err}
		}
		res, err := ranker.Evaluate(ctx, q, sampler)
		return browseResultMsg{result: res, seed: seed, err: err}
	}
}

func (m BrowseModel) handleResult(msg browseResultMsg) BrowseModel {
	m.seed = msg.seed
	if msg.err != nil {
		logging.FromContext(m.ctx).Debug().
			Ctx(m.ctx).
			Str("component", "tui").
			Str("operation", "browse").
			Err(msg.err).
			Msg("ranking failed")
		m.err = msg.err
		m.state = BrowseStateError
		return m
	}
	m.err = nil
	m.result = msg.result
	m.state = BrowseStateResults
	return m
}

// View implements tea.Model.
func (m BrowseModel) View() string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render("EcoSort"))
	b.WriteString("\n\n")

	switch m.state {
	case BrowseStateQuitting:
		return ""
	case BrowseStateMaterial:
		b.WriteString(LabelStyle.Render("Select a material type"))
		b.WriteString("\n")
		b.WriteString(m.materials.View())
		b.WriteString("\n")
		b.WriteString(SubtleStyle.Render("enter select  q quit"))
	case BrowseStateWeight:
		b.WriteString(LabelStyle.Render("Select a weight for " + m.material))
		b.WriteString("\n")
		b.WriteString(m.weights.View())
		b.WriteString("\n")
		b.WriteString(SubtleStyle.Render("enter select  esc back  q quit"))
	case BrowseStateLoading:
		b.WriteString(RenderLoadingIndicator())
	case BrowseStateResults:
		b.WriteString(LabelStyle.Render(fmt.Sprintf("Lowest-emission %s products (%s, seed %d)",
			m.material, m.weightLabel(), m.seed)))
		b.WriteString("\n")
		b.WriteString(RenderCards(m.result, m.opts.Unit))
		b.WriteString("\n\n")
		b.WriteString(SubtleStyle.Render("r re-draw distances  esc back  q quit"))
	case BrowseStateError:
		b.WriteString(CriticalStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n\n")
		b.WriteString(SubtleStyle.Render("esc back  q quit"))
	}

	return b.String()
}

func (m BrowseModel) weightLabel() string {
	if m.weight == nil {
		return "all weights"
	}
	return strconv.FormatFloat(*m.weight, 'f', -1, 64) + " kg"
}

func (m BrowseModel) tableHeight() int {
	return max(m.height-browseChromeRows, browseMinTableRows)
}

func (m BrowseModel) buildMaterialTable() table.Model {
	c := m.ranker.Catalog()
	materials := c.MaterialTypes()

	rows := make([]table.Row, 0, len(materials))
	for _, material := range materials {
		rows = append(rows, table.Row{
			material,
			strconv.Itoa(c.Count(material)),
			strconv.Itoa(len(c.Weights(material))),
		})
	}

	return newStyledTable([]table.Column{
		{Title: "MATERIAL", Width: 20},
		{Title: "PRODUCTS", Width: 10},
		{Title: "WEIGHTS", Width: 8},
	}, rows, m.tableHeight())
}

func (m BrowseModel) buildWeightTable(material string) table.Model {
	c := m.ranker.Catalog()
	products := c.ByMaterial(material)

	counts := make(map[float64]int)
	for _, p := range products {
		counts[p.WeightKg]++
	}

	rows := []table.Row{{AllWeights, strconv.Itoa(len(products))}}
	for _, w := range c.Weights(material) {
		rows = append(rows, table.Row{strconv.FormatFloat(w, 'f', -1, 64), strconv.Itoa(counts[w])})
	}

	return newStyledTable([]table.Column{
		{Title: "WEIGHT (KG)", Width: 12},
		{Title: "PRODUCTS", Width: 10},
	}, rows, m.tableHeight())
}

func newStyledTable(columns []table.Column, rows []table.Row, height int) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(height),
	)
	s := table.DefaultStyles()
	s.Header = TableHeaderStyle
	s.Selected = TableSelectedStyle
	t.SetStyles(s)
	return t
}
