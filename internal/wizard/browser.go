// Package wizard is the interactive mart/dataset browser.
package wizard

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/martkit/martkit/internal/biomart"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
)

// Selection is what the browser returns when the user picks a dataset.
type Selection struct {
	Mart    *biomart.Mart
	Dataset *biomart.Dataset
}

type stage int

const (
	stageLoadingMarts stage = iota
	stageMarts
	stageLoadingDatasets
	stageDatasets
)

type entry struct {
	name    string
	display string
}

type martsLoadedMsg struct {
	marts map[string]*biomart.Mart
	err   error
}

type datasetsLoadedMsg struct {
	datasets map[string]*biomart.Dataset
	err      error
}

// BrowserModel is the bubbletea model for hierarchy browsing: a mart
// list, then the chosen mart's dataset list, with a filter bar on both.
type BrowserModel struct {
	server *biomart.Server

	stage   stage
	spinner spinner.Model
	filter  textinput.Model

	marts    map[string]*biomart.Mart
	datasets map[string]*biomart.Dataset

	entries []entry // current list, filtered
	all     []entry // current list, unfiltered
	cursor  int

	chosenMart *biomart.Mart
	selection  *Selection
	err        error
	cancelled  bool
	width      int
}

// NewBrowserModel creates a browser over the given server.
func NewBrowserModel(srv *biomart.Server) BrowserModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	f := textinput.New()
	f.Placeholder = "filter"
	f.CharLimit = 64

	return BrowserModel{
		server:  srv,
		stage:   stageLoadingMarts,
		spinner: s,
		filter:  f,
		width:   80,
	}
}

func (m BrowserModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, loadMarts(m.server))
}

func loadMarts(srv *biomart.Server) tea.Cmd {
	return func() tea.Msg {
		marts, err := srv.Marts(context.Background())
		return martsLoadedMsg{marts: marts, err: err}
	}
}

func loadDatasets(mart *biomart.Mart) tea.Cmd {
	return func() tea.Msg {
		datasets, err := mart.Datasets(context.Background())
		return datasetsLoadedMsg{datasets: datasets, err: err}
	}
}

func (m BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case martsLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.marts = msg.marts
		m.stage = stageMarts
		m.all = martEntries(msg.marts)
		m.resetList()
		return m, nil

	case datasetsLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.datasets = msg.datasets
		m.stage = stageDatasets
		m.all = datasetEntries(msg.datasets)
		m.resetList()
		return m, nil

	case tea.KeyMsg:
		if m.filter.Focused() {
			return m.updateFilter(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m BrowserModel) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.filter.Blur()
		return m, nil
	case "ctrl+c":
		m.cancelled = true
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.applyFilter()
	return m, cmd
}

func (m BrowserModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.cancelled = true
		return m, tea.Quit

	case "esc":
		if m.stage == stageDatasets {
			// Back to the mart list.
			m.stage = stageMarts
			m.all = martEntries(m.marts)
			m.resetList()
			return m, nil
		}
		m.cancelled = true
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.entries)-1 {
			m.cursor++
		}

	case "/":
		m.filter.Focus()
		return m, textinput.Blink

	case "enter":
		return m.choose()
	}
	return m, nil
}

func (m BrowserModel) choose() (tea.Model, tea.Cmd) {
	if m.cursor >= len(m.entries) {
		return m, nil
	}
	name := m.entries[m.cursor].name

	switch m.stage {
	case stageMarts:
		m.chosenMart = m.marts[name]
		m.stage = stageLoadingDatasets
		return m, tea.Batch(m.spinner.Tick, loadDatasets(m.chosenMart))

	case stageDatasets:
		m.selection = &Selection{Mart: m.chosenMart, Dataset: m.datasets[name]}
		return m, tea.Quit
	}
	return m, nil
}

func (m *BrowserModel) resetList() {
	m.filter.SetValue("")
	m.filter.Blur()
	m.entries = m.all
	m.cursor = 0
}

func (m *BrowserModel) applyFilter() {
	needle := strings.ToLower(m.filter.Value())
	if needle == "" {
		m.entries = m.all
	} else {
		var filtered []entry
		for _, e := range m.all {
			if strings.Contains(strings.ToLower(e.name), needle) ||
				strings.Contains(strings.ToLower(e.display), needle) {
				filtered = append(filtered, e)
			}
		}
		m.entries = filtered
	}
	if m.cursor >= len(m.entries) {
		m.cursor = 0
	}
}

func (m BrowserModel) View() string {
	var b strings.Builder

	switch m.stage {
	case stageLoadingMarts:
		fmt.Fprintf(&b, "%s Fetching marts from %s...\n", m.spinner.View(), m.server.Host())
		return b.String()
	case stageLoadingDatasets:
		fmt.Fprintf(&b, "%s Fetching datasets of %s...\n", m.spinner.View(), m.chosenMart.Name())
		return b.String()
	case stageMarts:
		b.WriteString(titleStyle.Render("Select a mart"))
	case stageDatasets:
		b.WriteString(titleStyle.Render("Select a dataset in " + m.chosenMart.Name()))
	}
	b.WriteByte('\n')

	if m.filter.Focused() || m.filter.Value() != "" {
		b.WriteString(m.filter.View())
		b.WriteByte('\n')
	}

	if len(m.entries) == 0 {
		b.WriteString(dimStyle.Render("  nothing matches"))
		b.WriteByte('\n')
	}
	for i, e := range m.entries {
		line := fmt.Sprintf("%s  %s", e.name, dimStyle.Render(e.display))
		if i == m.cursor {
			b.WriteString(cursorStyle.Render("> ") + selectedStyle.Render(e.name) +
				"  " + dimStyle.Render(e.display))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteByte('\n')
	}

	b.WriteString(dimStyle.Render("\n↑/↓ move · enter select · / filter · esc back · q quit\n"))
	return b.String()
}

// Run drives the browser to completion and returns the selection.
// A nil selection with a nil error means the user cancelled.
func Run(srv *biomart.Server) (*Selection, error) {
	p := tea.NewProgram(NewBrowserModel(srv))
	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("running browser: %w", err)
	}

	m := final.(BrowserModel)
	if m.err != nil {
		return nil, m.err
	}
	return m.selection, nil
}

func martEntries(marts map[string]*biomart.Mart) []entry {
	entries := make([]entry, 0, len(marts))
	for _, m := range marts {
		entries = append(entries, entry{name: m.Name(), display: m.DisplayName()})
	}
	sortEntries(entries)
	return entries
}

func datasetEntries(datasets map[string]*biomart.Dataset) []entry {
	entries := make([]entry, 0, len(datasets))
	for _, d := range datasets {
		entries = append(entries, entry{name: d.Name(), display: d.DisplayName()})
	}
	sortEntries(entries)
	return entries
}

func sortEntries(entries []entry) {
	sort.Slice(entries, func(i, j int) bool { return entries[i].name < entries[j].name })
}
