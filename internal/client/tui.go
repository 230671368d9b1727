package client

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/okian/packlist/internal/domain/model"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
)

// listItem adapts a checklist entry to bubbles/list.Item.
type listItem struct {
	Entry
	Done bool
}

func (i listItem) Title() string       { return i.Item }
func (i listItem) Description() string { return i.Category }
func (i listItem) FilterValue() string { return i.Category + " " + i.Item }

// itemDelegate renders one item per line with its category on the right.
type itemDelegate struct{}

func (d itemDelegate) Height() int                             { return 1 }
func (d itemDelegate) Spacing() int                            { return 0 }
func (d itemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}

	line := mutedStyle.Render(boxUnchecked) + " " + it.Item
	if it.Done {
		line = successStyle.Render(boxChecked) + " " + doneStyle.Render(it.Item)
	}
	line += "  " + mutedStyle.Render(it.Category)

	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	fmt.Fprintln(w, prefix+line)
}

// packModel is the Bubble Tea model of the interactive packing list.
type packModel struct {
	list        list.Model
	destination string
	total       int
}

var (
	toggleBind   = key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "pack"))
	categoryBind = key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "pack category"))
	doneBind     = key.NewBinding(key.WithKeys("q", "esc"), key.WithHelp("q", "done"))
)

func newPackModel(resp *model.ChecklistResponse, packed Packed) packModel {
	var items []list.Item
	for _, cat := range resp.Checklist.Categories() {
		for _, it := range cat.Items {
			e := Entry{Category: cat.Name, Item: it}
			items = append(items, listItem{Entry: e, Done: packed[e]})
		}
	}

	l := list.New(items, itemDelegate{}, defaultWidth, defaultHeight-2)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle
	l.Styles.HelpStyle = helpStyle
	l.Styles.PaginationStyle = helpStyle
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("item", "items")
	l.AdditionalShortHelpKeys = func() []key.Binding { return []key.Binding{toggleBind, categoryBind} }
	l.AdditionalFullHelpKeys = func() []key.Binding { return []key.Binding{toggleBind, categoryBind, doneBind} }

	m := packModel{list: l, destination: resp.Destination, total: len(items)}
	m.refreshTitle()
	return m
}

// refreshTitle shows the destination with live packed and pending counts.
func (m *packModel) refreshTitle() {
	done := m.packed().Count()
	m.list.Title = fmt.Sprintf("%s   %s %d  %s %d",
		titleStyle.Render("Packing for "+m.destination),
		successStyle.Render("✔"), done,
		pendingStyle.Render("•"), m.total-done,
	)
}

// packed returns the ticked entries.
func (m packModel) packed() Packed {
	out := make(Packed)
	for _, it := range m.list.Items() {
		if li, ok := it.(listItem); ok && li.Done {
			out[li.Entry] = true
		}
	}
	return out
}

// Init implements tea.Model.
func (m packModel) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m packModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-4, msg.Height-2)
		return m, nil
	case tea.KeyMsg:
		// Let the filter input have every key while typing.
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, doneBind):
			return m, tea.Quit
		case key.Matches(msg, toggleBind):
			m.toggle(m.list.Index())
			return m, nil
		case key.Matches(msg, categoryBind):
			m.packCategory()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *packModel) toggle(i int) {
	items := m.list.Items()
	if i < 0 || i >= len(items) {
		return
	}
	li, ok := items[i].(listItem)
	if !ok {
		return
	}
	li.Done = !li.Done
	m.list.SetItem(i, li)
	m.refreshTitle()
}

// packCategory ticks every item sharing the selected item's category, or
// unticks them all when they are already packed.
func (m *packModel) packCategory() {
	items := m.list.Items()
	i := m.list.Index()
	if i < 0 || i >= len(items) {
		return
	}
	cur, ok := items[i].(listItem)
	if !ok {
		return
	}

	allDone := true
	for _, it := range items {
		if li, ok := it.(listItem); ok && li.Category == cur.Category && !li.Done {
			allDone = false
			break
		}
	}
	for idx, it := range items {
		if li, ok := it.(listItem); ok && li.Category == cur.Category {
			li.Done = !allDone
			m.list.SetItem(idx, li)
		}
	}
	m.refreshTitle()
}

// View implements tea.Model.
func (m packModel) View() string {
	return panelStyle.Render(m.list.View())
}

// RunInteractive shows the checklist as a navigable list where items can be
// ticked off. It returns the ticked entries when the user quits.
func RunInteractive(resp *model.ChecklistResponse, packed Packed, opts ...tea.ProgramOption) (Packed, error) {
	if packed == nil {
		packed = make(Packed)
	}
	opts = append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)
	p := tea.NewProgram(newPackModel(resp, packed), opts...)

	final, err := p.Run()
	if err != nil {
		return packed, err
	}
	fm, ok := final.(packModel)
	if !ok {
		return packed, nil
	}
	return fm.packed(), nil
}
