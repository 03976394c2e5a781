// Package tui provides the interactive terminal catalog browser.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"bookstand/internal/book"
	"bookstand/internal/bookstore"
	"bookstand/internal/catalog"
	"bookstand/internal/links"
	"bookstand/internal/lookup"
	"bookstand/internal/sanitize"
)

var runProgram = func(m tea.Model) (tea.Model, error) {
	return tea.NewProgram(m, tea.WithAltScreen()).Run()
}

type viewMode int

const (
	viewList viewMode = iota
	viewDetail
)

var sortKeys = []catalog.SortKey{catalog.SortNone, catalog.SortTitleAsc, catalog.SortTitleDesc}

// catalogMsg delivers a finished catalog fetch together with the generation
// it was started under. Stale generations are discarded so an abandoned
// fetch can never clobber a newer view.
type catalogMsg struct {
	generation int
	snapshot   *book.Snapshot
	err        error
}

// detailMsg delivers a resolved book for the detail view.
type detailMsg struct {
	generation int
	sku        string
	record     book.Record
	found      bool
	err        error
}

type model struct {
	store      *bookstore.Store
	linksIndex *links.Index
	baseURL    string

	search    textinput.Model
	searching bool

	snapshot  *book.Snapshot
	languages []string
	langIdx   int
	sortIdx   int
	page      int
	cursor    int
	result    catalog.Result

	view       viewMode
	detail     book.Record
	detailOK   bool
	detailSKU  string
	generation int
	loading    bool
	err        error

	width  int
	height int
}

func newModel(store *bookstore.Store, ix *links.Index, baseURL string) *model {
	search := textinput.New()
	search.Placeholder = "search titles..."
	search.CharLimit = 80
	search.Width = 40

	return &model{
		store:      store,
		linksIndex: ix,
		baseURL:    baseURL,
		search:     search,
		page:       1,
		loading:    true,
	}
}

func (m *model) Init() tea.Cmd {
	return m.loadCatalog()
}

// loadCatalog starts a fetch bound to the current generation.
func (m *model) loadCatalog() tea.Cmd {
	generation := m.generation
	store := m.store
	return func() tea.Msg {
		snap, err := store.Catalog(context.Background())
		return catalogMsg{generation: generation, snapshot: snap, err: err}
	}
}

// openDetail resolves a SKU for the detail view, bound to the current
// generation like loadCatalog.
func (m *model) openDetail(sku string) tea.Cmd {
	generation := m.generation
	store := m.store
	return func() tea.Msg {
		snap, err := store.Catalog(context.Background())
		if err != nil {
			return detailMsg{generation: generation, sku: sku, err: err}
		}
		rec, ok := lookup.FindBySKU(snap, sku)
		return detailMsg{generation: generation, sku: sku, record: rec, found: ok}
	}
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case catalogMsg:
		if msg.generation != m.generation {
			// Superseded fetch; the view that wanted it is gone.
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.snapshot = msg.snapshot
		m.languages = catalog.Distinct(m.snapshot, catalog.FieldLanguage)
		m.refresh()
		return m, nil

	case detailMsg:
		if msg.generation != m.generation {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.detail = msg.record
		m.detailOK = msg.found
		m.detailSKU = msg.sku
		m.view = viewDetail
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.searching {
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		switch msg.String() {
		case "enter", "esc":
			m.searching = false
			m.search.Blur()
			m.page = 1
			m.refresh()
			return m, nil
		default:
			var cmd tea.Cmd
			m.search, cmd = m.search.Update(msg)
			m.page = 1
			m.refresh()
			return m, cmd
		}
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "esc":
		if m.view == viewDetail {
			// Abandon any in-flight detail fetch.
			m.generation++
			m.view = viewList
			m.loading = false
		}
		return m, nil

	case "/":
		if m.view == viewList {
			m.searching = true
			m.search.Focus()
		}
		return m, nil

	case "up", "k":
		if m.view == viewList && m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case "down", "j":
		if m.view == viewList && m.cursor < len(m.result.Items)-1 {
			m.cursor++
		}
		return m, nil

	case "left", "h", "pgup":
		if m.view == viewList {
			m.page = catalog.ClampPage(m.page-1, m.result.PageCount)
			m.refresh()
		}
		return m, nil

	case "right", "l", "pgdown":
		if m.view == viewList {
			m.page = catalog.ClampPage(m.page+1, m.result.PageCount)
			m.refresh()
		}
		return m, nil

	case "L":
		if m.view == viewList {
			m.langIdx = (m.langIdx + 1) % (len(m.languages) + 1)
			m.page = 1
			m.refresh()
		}
		return m, nil

	case "s":
		if m.view == viewList {
			m.sortIdx = (m.sortIdx + 1) % len(sortKeys)
			m.refresh()
		}
		return m, nil

	case "r":
		m.generation++
		m.loading = true
		m.store.Invalidate()
		return m, m.loadCatalog()

	case "enter":
		if m.view == viewList {
			if b, ok := m.selected(); ok {
				m.generation++
				m.loading = true
				return m, m.openDetail(b.SKU)
			}
		}
		return m, nil
	}
	return m, nil
}

// selectedLanguage returns the active language filter, "" meaning all.
func (m *model) selectedLanguage() string {
	if m.langIdx == 0 || m.langIdx > len(m.languages) {
		return ""
	}
	return m.languages[m.langIdx-1]
}

func (m *model) selected() (book.Record, bool) {
	if m.cursor < 0 || m.cursor >= len(m.result.Items) {
		return book.Record{}, false
	}
	return m.result.Items[m.cursor], true
}

// refresh recomputes the visible page from the snapshot and current inputs.
func (m *model) refresh() {
	query := catalog.Query{
		Text:     m.search.Value(),
		Language: m.selectedLanguage(),
		SortKey:  sortKeys[m.sortIdx],
		Page:     m.page,
		PageSize: pageSize,
	}
	m.result = catalog.Run(m.snapshot, query)
	m.page = catalog.ClampPage(m.page, m.result.PageCount)
	query.Page = m.page
	m.result = catalog.Run(m.snapshot, query)
	if m.cursor >= len(m.result.Items) {
		m.cursor = len(m.result.Items) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// pageSize keeps list pages short enough for a terminal window.
const pageSize = 15

func (m *model) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("catalog unavailable: %v", m.err)) +
			helpStyle.Render("\nr retry | q quit")
	}
	if m.loading {
		return helpStyle.Render("loading catalog...")
	}
	if m.view == viewDetail {
		return m.detailView()
	}
	return m.listView()
}

func (m *model) listView() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("Worldwide Publications"))
	b.WriteString("\n")

	filters := fmt.Sprintf("search: %s  language: %s  sort: %s",
		orDash(m.search.Value()), orDash(m.selectedLanguage()), string(sortKeys[m.sortIdx]))
	b.WriteString(filterStyle.Render(filters))
	b.WriteString("\n")
	if m.searching {
		b.WriteString(m.search.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if len(m.result.Items) == 0 {
		b.WriteString(emptyStyle.Render("no books match"))
		b.WriteString("\n")
	}
	for i, item := range m.result.Items {
		line := fmt.Sprintf("%-10s %-40s %s", item.SKU, truncate(item.Title, 40), item.Language)
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString(itemStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.pagination())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("/ search | L language | s sort | enter open | ←/→ page | r refresh | q quit"))
	return b.String()
}

// pagination renders the page-window control: first and last page always
// visible, a window around the current page, gaps collapsed to an ellipsis.
func (m *model) pagination() string {
	window := catalog.PageWindow(m.page, m.result.PageCount)
	if len(window) == 0 {
		return pageStyle.Render(fmt.Sprintf("%d books", m.result.Total))
	}

	parts := make([]string, 0, len(window)+1)
	for _, n := range window {
		switch {
		case n == catalog.Ellipsis:
			parts = append(parts, "...")
		case n == m.page:
			parts = append(parts, activePageStyle.Render(fmt.Sprintf("[%d]", n)))
		default:
			parts = append(parts, fmt.Sprintf("%d", n))
		}
	}
	parts = append(parts, fmt.Sprintf("(%d books)", m.result.Total))
	return pageStyle.Render(strings.Join(parts, " "))
}

func (m *model) detailView() string {
	var b strings.Builder

	if !m.detailOK {
		b.WriteString(headerStyle.Render("Book not found"))
		b.WriteString("\n")
		b.WriteString(emptyStyle.Render(fmt.Sprintf("no book with SKU %q in the catalog", m.detailSKU)))
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("esc back | q quit"))
		return b.String()
	}

	d := m.detail
	b.WriteString(headerStyle.Render(d.Title))
	b.WriteString("\n\n")

	meta := [][2]string{
		{"SKU", d.SKU},
		{"Author", d.Author},
		{"Language", d.Language},
		{"Publisher", d.Publisher},
		{"Published", d.PublishedOn},
		{"ISBN", d.ISBN},
	}
	for _, kv := range meta {
		if kv[1] == "" {
			continue
		}
		b.WriteString(labelStyle.Render(kv[0]+": ") + kv[1])
		b.WriteString("\n")
	}

	if desc := sanitize.Text(d.Description); desc != "" {
		b.WriteString("\n")
		b.WriteString(descStyle.Render(truncate(desc, 600)))
		b.WriteString("\n")
	}

	if purchase := m.linksIndex.Find(d.ISBN); len(purchase) > 0 {
		b.WriteString("\n" + labelStyle.Render("Buy: "))
		names := make([]string, 0, len(purchase))
		for _, p := range purchase {
			names = append(names, p.Platform)
		}
		b.WriteString(strings.Join(names, ", "))
		b.WriteString("\n")
	}

	if m.snapshot != nil {
		if editions := lookup.AvailableLanguages(d, m.snapshot.Books); len(editions) > 1 {
			b.WriteString("\n" + labelStyle.Render("Also available in: "))
			names := make([]string, 0, len(editions))
			for _, e := range editions {
				if e.Language == d.Language {
					continue
				}
				names = append(names, e.Language)
			}
			b.WriteString(strings.Join(names, ", "))
			b.WriteString("\n")
		}
		if related := lookup.Related(d, m.snapshot.Books, lookup.DefaultRelatedLimit); len(related) > 0 {
			b.WriteString("\n" + labelStyle.Render("Related:"))
			b.WriteString("\n")
			for _, r := range related {
				b.WriteString(itemStyle.Render(fmt.Sprintf("  %-10s %s", r.SKU, truncate(r.Title, 50))))
				b.WriteString("\n")
			}
		}
	}

	b.WriteString("\n")
	b.WriteString(linkStyle.Render(links.DetailURL(m.baseURL, d.SKU)))
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("esc back | q quit"))
	return b.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func truncate(value string, width int) string {
	value = strings.Join(strings.Fields(value), " ")
	if width <= 0 || len(value) <= width {
		return value
	}
	if width <= 3 {
		return value[:width]
	}
	return value[:width-3] + "..."
}

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214")).
			MarginBottom(1)

	filterStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("247"))

	itemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("237"))

	emptyStyle = lipgloss.NewStyle().
			Faint(true)

	pageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("247"))

	activePageStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214"))

	labelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("110"))

	descStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("248"))

	linkStyle = lipgloss.NewStyle().
			Underline(true).
			Foreground(lipgloss.Color("75"))

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("161"))

	helpStyle = lipgloss.NewStyle().
			MarginTop(1).
			Foreground(lipgloss.Color("244"))
)

// Browse runs the interactive catalog browser until the user quits.
func Browse(store *bookstore.Store, ix *links.Index, baseURL string) error {
	m := newModel(store, ix, baseURL)
	if _, err := runProgram(m); err != nil {
		return fmt.Errorf("browser failed: %w", err)
	}
	return nil
}
