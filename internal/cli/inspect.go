package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stackdraw/pkg/pipeline"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	listShapeStyle    = lipgloss.NewStyle().Foreground(colorBlue)
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var plain bool
	var input string

	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "Browse the entity tree of a diagram",
		Long: `Build a diagram document and browse the resulting entities: their
place in the tree, z-index and pixel bounding box.

The browser is interactive; --plain prints a table instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entities, err := c.loadEntities(cmd.Context(), cmd.InOrStdin(), args[0], input)
			if err != nil {
				return err
			}
			if plain {
				fmt.Fprintln(cmd.OutOrStdout(), entityTable(entities))
				return nil
			}
			_, err = tea.NewProgram(NewInspectModel(displayName(args[0]), entities), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print a table instead of the interactive browser")
	cmd.Flags().StringVar(&input, "input", "", "document format: toml or json (default from file extension)")
	return cmd
}

// entityInfo is one entity as described by the JSON sink.
type entityInfo struct {
	ID       string   `json:"id"`
	Type     string   `json:"type"`
	Kind     string   `json:"kind"`
	Parent   string   `json:"parent"`
	Children []string `json:"children"`
	ZIndex   int      `json:"z_index"`
	BBox     *struct {
		X      float64 `json:"x"`
		Y      float64 `json:"y"`
		Width  float64 `json:"width"`
		Height float64 `json:"height"`
	} `json:"bbox"`
	Text *struct {
		Content string `json:"content"`
	} `json:"text"`
}

// label is the type, refined by the shape kind when there is one.
func (e entityInfo) label() string {
	if e.Kind != "" && e.Kind != e.Type {
		return e.Type + "/" + e.Kind
	}
	return e.Type
}

func (e entityInfo) box() string {
	if e.BBox == nil {
		return "—"
	}
	return fmt.Sprintf("%.0f,%.0f %.0f×%.0f", e.BBox.X, e.BBox.Y, e.BBox.Width, e.BBox.Height)
}

// loadEntities parses and builds a document without touching the cache and
// returns its entities in paint order.
func (c *CLI) loadEntities(ctx context.Context, stdin io.Reader, input, inputFlag string) ([]entityInfo, error) {
	src, err := readSource(stdin, input)
	if err != nil {
		return nil, err
	}
	format, err := documentFormat(inputFlag, input)
	if err != nil {
		return nil, err
	}

	runner := pipeline.NewRunner(nil, nil, loggerFromContext(ctx))
	res, err := runner.Execute(ctx, src, pipeline.Options{
		Format:  format,
		Formats: []string{pipeline.FormatJSON},
	})
	if err != nil {
		return nil, err
	}
	return decodeEntities(res.Artifacts[pipeline.FormatJSON])
}

func decodeEntities(data []byte) ([]entityInfo, error) {
	var out struct {
		Entities []entityInfo `json:"entities"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode entities: %w", err)
	}
	return out.Entities, nil
}

// entityTable renders entities in paint order as a lipgloss table.
func entityTable(entities []entityInfo) string {
	rows := make([][]string, len(entities))
	for i, e := range entities {
		parent := e.Parent
		if parent == "" {
			parent = "—"
		}
		rows[i] = []string{e.ID, e.label(), parent, fmt.Sprint(e.ZIndex), e.box()}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Type", "Parent", "Z", "Box (px)").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 3 {
				return StyleNumber
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

// =============================================================================
// InspectModel - Interactive entity tree
// =============================================================================

// treeRow is one visible line of the tree.
type treeRow struct {
	entity *entityInfo
	depth  int
}

// InspectModel is the bubbletea model for browsing the entity tree.
type InspectModel struct {
	Title     string
	Cursor    int
	Height    int
	Offset    int
	Collapsed map[string]bool

	byID  map[string]*entityInfo
	roots []string
	rows  []treeRow
}

// NewInspectModel creates a tree browser over entities. Entities without a
// parent are the roots, in paint order.
func NewInspectModel(title string, entities []entityInfo) InspectModel {
	m := InspectModel{
		Title:     title,
		Height:    15,
		Collapsed: make(map[string]bool),
		byID:      make(map[string]*entityInfo, len(entities)),
	}
	for i := range entities {
		e := &entities[i]
		m.byID[e.ID] = e
		if e.Parent == "" {
			m.roots = append(m.roots, e.ID)
		}
	}
	m.rebuild()
	return m
}

// rebuild flattens the expanded part of the tree.
func (m *InspectModel) rebuild() {
	m.rows = nil
	var walk func(id string, depth int)
	walk = func(id string, depth int) {
		e, ok := m.byID[id]
		if !ok {
			return
		}
		m.rows = append(m.rows, treeRow{entity: e, depth: depth})
		if m.Collapsed[id] {
			return
		}
		for _, child := range e.Children {
			walk(child, depth+1)
		}
	}
	for _, id := range m.roots {
		walk(id, 0)
	}
	if m.Cursor >= len(m.rows) {
		m.Cursor = max(len(m.rows)-1, 0)
	}
}

// Rows returns the number of visible rows.
func (m InspectModel) Rows() int { return len(m.rows) }

// Current returns the id under the cursor, or "" for an empty diagram.
func (m InspectModel) Current() string {
	if len(m.rows) == 0 {
		return ""
	}
	return m.rows[m.Cursor].entity.ID
}

func (m InspectModel) Init() tea.Cmd {
	return nil
}

func (m InspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.rows)-1 {
				m.Cursor++
			}
		case "left", "h":
			m.setCollapsed(true)
		case "right", "l":
			m.setCollapsed(false)
		case "enter", " ":
			if id := m.Current(); id != "" {
				m.setCollapsed(!m.Collapsed[id])
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 10
		if m.Height < 5 {
			m.Height = 5
		}
	}

	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
	return m, nil
}

// setCollapsed folds or unfolds the entity under the cursor. Leaves are
// left alone.
func (m *InspectModel) setCollapsed(v bool) {
	id := m.Current()
	if id == "" || len(m.byID[id].Children) == 0 {
		return
	}
	m.Collapsed = cloneSet(m.Collapsed)
	m.Collapsed[id] = v
	m.rebuild()
}

func cloneSet(s map[string]bool) map[string]bool {
	out := make(map[string]bool, len(s)+1)
	for k, v := range s {
		out[k] = v
	}
	return out
}

func (m InspectModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ←/→ fold  ⏎ toggle  q quit"))
	b.WriteString("\n\n")

	if len(m.rows) == 0 {
		b.WriteString(listDimStyle.Render("  (empty diagram)"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.rows))
	for i := m.Offset; i < end; i++ {
		row := m.rows[i]
		e := row.entity

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		fold := "  "
		if len(e.Children) > 0 {
			fold = "▾ "
			if m.Collapsed[e.ID] {
				fold = "▸ "
			}
		}

		name := strings.Repeat("  ", row.depth) + fold + e.ID
		line := fmt.Sprintf("%s%-32s %s", cursor, name, listDimStyle.Render(e.label()))
		switch {
		case i == m.Cursor:
			b.WriteString(listSelectedStyle.Render(line))
		case e.Type == "shape" || e.Type == "line":
			b.WriteString(listShapeStyle.Render(line))
		default:
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.detail(m.rows[m.Cursor].entity))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.rows))))

	return b.String()
}

// detail describes the selected entity.
func (m InspectModel) detail(e *entityInfo) string {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(10)
	var b strings.Builder
	line := func(k, v string) {
		b.WriteString(keyStyle.Render(k) + " " + StyleValue.Render(v) + "\n")
	}
	line("type", e.label())
	line("z-index", StyleNumber.Render(fmt.Sprint(e.ZIndex)))
	line("box (px)", e.box())
	if len(e.Children) > 0 {
		line("children", strings.Join(e.Children, ", "))
	}
	if e.Text != nil {
		line("text", StyleHighlight.Render(e.Text.Content))
	}
	return b.String()
}
