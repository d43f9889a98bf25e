package main

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/vango-dev/reactor"
	"github.com/vango-dev/reactor/internal/demo"
	"github.com/vango-dev/reactor/pkg/host/memdom"
)

func demoCmd(configPath *string) *cobra.Command {
	var items int

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Interactive terminal demo",
		Long: `Mount a keyed todo list and mutate its reactive state from the
keyboard. Every key press is one flush: the view shows the resulting
tree and the host operations the flush performed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			cfg := reactor.ConfigFromFile(fc)
			// The terminal belongs to the UI.
			cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
			cfg.Metrics.Enabled = false

			m := newDemoModel(reactor.New(cfg), items)
			_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
			return err
		},
	}

	cmd.Flags().IntVarP(&items, "items", "n", 5, "Initial number of items")

	return cmd
}

// demoKeyMap defines the demo key bindings.
type demoKeyMap struct {
	Add     key.Binding
	Remove  key.Binding
	Reverse key.Binding
	Rotate  key.Binding
	Shuffle key.Binding
	Click   key.Binding
	Quit    key.Binding
}

func defaultDemoKeyMap() demoKeyMap {
	return demoKeyMap{
		Add: key.NewBinding(
			key.WithKeys("a", "+"),
			key.WithHelp("a", "add"),
		),
		Remove: key.NewBinding(
			key.WithKeys("d", "-"),
			key.WithHelp("d", "remove last"),
		),
		Reverse: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reverse"),
		),
		Rotate: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "rotate"),
		),
		Shuffle: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "shuffle"),
		),
		Click: key.NewBinding(
			key.WithKeys("c", " "),
			key.WithHelp("c", "click"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c", "esc"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k demoKeyMap) bindings() []key.Binding {
	return []key.Binding{k.Add, k.Remove, k.Reverse, k.Rotate, k.Shuffle, k.Click, k.Quit}
}

type demoModel struct {
	app     *reactor.App
	doc     *memdom.Document
	todos   *demo.Todos
	rng     *rand.Rand
	keys    demoKeyMap
	last    map[memdom.OpKind]int
	flushes int
}

func newDemoModel(app *reactor.App, items int) *demoModel {
	todos := demo.NewTodos(items)
	app.Mount(todos.Component(), nil, nil)
	return &demoModel{
		app:   app,
		doc:   app.Host().(*memdom.Document),
		todos: todos,
		rng:   rand.New(rand.NewPCG(uint64(items), 1)),
		keys:  defaultDemoKeyMap(),
		last:  map[memdom.OpKind]int{},
	}
}

// Init implements tea.Model.
func (m *demoModel) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m *demoModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		m.app.Unmount()
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Add):
		m.todos.Add()
	case key.Matches(keyMsg, m.keys.Remove):
		m.todos.RemoveLast()
	case key.Matches(keyMsg, m.keys.Reverse):
		m.todos.Reverse()
	case key.Matches(keyMsg, m.keys.Rotate):
		m.todos.Rotate()
	case key.Matches(keyMsg, m.keys.Shuffle):
		m.todos.Shuffle(m.rng)
	case key.Matches(keyMsg, m.keys.Click):
		m.todos.Click()
	default:
		return m, nil
	}
	m.flush()
	return m, nil
}

// flush runs the queued render and records its host operations.
func (m *demoModel) flush() {
	m.doc.ResetOps()
	m.app.Flush()
	m.last = m.doc.Counts()
	m.flushes++
}

// View implements tea.Model.
func (m *demoModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("reactor demo"))
	b.WriteString(dimStyle.Render(fmt.Sprintf("  flush #%d, %d renders", m.flushes, m.todos.Renders)))
	b.WriteString("\n\n")

	tree := lipgloss.NewStyle().Width(72).Render(m.doc.HTML())
	b.WriteString(boxStyle.Render(tree))
	b.WriteString("\n\n")

	b.WriteString(titleStyle.Render("last flush"))
	b.WriteString("\n")
	if len(m.last) == 0 {
		b.WriteString(dimStyle.Render("  no host operations"))
	}
	kinds := make([]memdom.OpKind, 0, len(m.last))
	for k := range m.last {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	for _, k := range kinds {
		b.WriteString(opStyle(k).Render(fmt.Sprintf("  %-14s %d", k, m.last[k])))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	var help []string
	for _, kb := range m.keys.bindings() {
		h := kb.Help()
		help = append(help, titleStyle.Render(h.Key)+" "+dimStyle.Render(h.Desc))
	}
	b.WriteString(strings.Join(help, "  "))
	return b.String()
}
