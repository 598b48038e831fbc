package tui

import (
	"context"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/bcdxn/nexttogo/internal/domain"
	"github.com/bcdxn/nexttogo/internal/i18n"
	"github.com/bcdxn/nexttogo/internal/tui/styles"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/evertras/bubble-table/table"
)

// Fetcher retrieves the upcoming races from a schedule source.
type Fetcher interface {
	NextRaces(ctx context.Context) ([]domain.Race, error)
}

// NewRaceList returns the bubbletea program displaying the next-to-go races fetched by f.
func NewRaceList(f Fetcher, opts ...TUIOption) *tea.Program {
	m := newRaceList(f, opts...)
	return tea.NewProgram(m, tea.WithContext(m.ctx), tea.WithAltScreen())
}

func newRaceList(f Fetcher, opts ...TUIOption) RaceList {
	s := spinner.New()
	s.Spinner = spinner.MiniDot

	m := RaceList{
		fetcher:         f,
		races:           make(map[string]domain.Race),
		filter:          domain.NewCategoryFilter(),
		visibleRows:     domain.DefaultListSize,
		refreshInterval: 30 * time.Second,
		isLoading:       true,
		isFetching:      true,
		spinner:         s,
		style:           styles.Default(),
		localizer:       i18n.Default(),
		clock:           time.Now,
		logger:          slog.Default(),
		ctx:             context.Background(),
	}
	// apply given options
	for _, opt := range opts {
		opt(&m)
	}
	m.now = m.clock()
	m.table = m.newTable()
	return m
}

type TUIOption = func(m *RaceList)

// WithLogger configures the logger to use within the TUI program
func WithLogger(l *slog.Logger) TUIOption {
	return func(m *RaceList) { m.logger = l }
}

// WithContext configures the context to use within the TUI program
func WithContext(ctx context.Context) TUIOption {
	return func(m *RaceList) { m.ctx = ctx }
}

// WithLocalizer configures the localizer used for all displayed text
func WithLocalizer(l *i18n.Localizer) TUIOption {
	return func(m *RaceList) { m.localizer = l }
}

// WithStyle configures the theme of the race list
func WithStyle(s *styles.Style) TUIOption {
	return func(m *RaceList) { m.style = s }
}

// WithFilter configures the categories shown when the program starts
func WithFilter(f domain.CategoryFilter) TUIOption {
	return func(m *RaceList) { m.filter = f }
}

// WithVisibleRows configures how many races are listed
func WithVisibleRows(n int) TUIOption {
	return func(m *RaceList) {
		if n > 0 {
			m.visibleRows = n
		}
	}
}

// WithRefreshInterval configures how often races are fetched again
func WithRefreshInterval(d time.Duration) TUIOption {
	return func(m *RaceList) {
		if d > 0 {
			m.refreshInterval = d
		}
	}
}

// WithClock replaces the wall clock; used by tests
func WithClock(clock func() time.Time) TUIOption {
	return func(m *RaceList) { m.clock = clock }
}

/* Bubbletea Interface Implementation
------------------------------------------------------------------------------------------------- */

func (m RaceList) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, fetchCmd(m.ctx, m.fetcher), tickCmd())
}

func (m RaceList) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return handleKeyMsg(m, msg)
	case tea.WindowSizeMsg:
		return handleWindowSizeMsg(m, msg)
	case RacesMsg:
		return handleRacesMsg(m, msg)
	case ErrorMsg:
		return handleErrorMsg(m, msg)
	case TickMsg:
		return handleTickMsg(m, msg)
	case RefreshMsg:
		return handleRefreshMsg(m, msg)
	default:
		var cmd tea.Cmd
		if m.isLoading {
			m.spinner, cmd = m.spinner.Update(msg)
		}
		return m, cmd
	}
}

func (m RaceList) View() string {
	var v string
	switch {
	case m.isLoading:
		v = m.spinner.View() + " " + m.t("race.list.loading")
	case m.err != "" && len(m.visible()) == 0:
		v = lipgloss.JoinVertical(lipgloss.Left, titleView(m), m.style.Error.Render(m.t("race.list.error", m.err)))
	default:
		v = lipgloss.JoinVertical(
			lipgloss.Left,
			titleView(m),
			filterView(m),
			listView(m),
			statusView(m),
			m.style.Help.Render(m.t("help.keys")),
		)
	}
	doc := m.style.Doc
	if m.width > 0 {
		doc = doc.Width(m.width)
	}
	return doc.Render(v)
}

/* Tea Message Types
------------------------------------------------------------------------------------------------- */

// RacesMsg carries a fresh list of races from the Fetcher.
type RacesMsg []domain.Race

// ErrorMsg reports a failed fetch.
type ErrorMsg struct {
	Err error
}

// TickMsg advances the countdown clock.
type TickMsg time.Time

// RefreshMsg requests a new fetch. Only the most recently scheduled refresh is honoured.
type RefreshMsg struct {
	gen int
}

/* Tea Commands
------------------------------------------------------------------------------------------------- */

func fetchCmd(ctx context.Context, f Fetcher) tea.Cmd {
	return func() tea.Msg {
		races, err := f.NextRaces(ctx)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return RacesMsg(races)
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func refreshCmd(d time.Duration, gen int) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return RefreshMsg{gen: gen}
	})
}

/* Tea Message Handlers
------------------------------------------------------------------------------------------------- */

func handleKeyMsg(m RaceList, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.logger.Debug("received quit tea message")
		return m, tea.Quit
	case "1":
		m.filter = m.filter.Toggle(domain.RaceCategoryHorse)
	case "2":
		m.filter = m.filter.Toggle(domain.RaceCategoryGreyhound)
	case "3":
		m.filter = m.filter.Toggle(domain.RaceCategoryHarness)
	case "0":
		m.filter = domain.NewCategoryFilter()
	case "r":
		return m.fetch()
	default:
		return m, nil
	}
	m.logger.Debug("category filter changed", "selected", m.filter.Selected())
	m.table = m.newTable()
	return m, nil
}

func handleWindowSizeMsg(m RaceList, msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	h, _ := m.style.Doc.GetFrameSize()
	m.width = max(msg.Width-h, m.style.Layout.MinWidth)
	return m, nil
}

func handleRacesMsg(m RaceList, msg RacesMsg) (tea.Model, tea.Cmd) {
	for _, r := range msg {
		if existing, ok := m.races[r.ID]; ok {
			if err := mergo.Merge(&existing, r, mergo.WithOverride, mergo.WithTransformers(timeTransformer{})); err != nil {
				m.logger.Error("failed to merge race update", "race_id", r.ID, "err", err)
				continue
			}
			m.races[r.ID] = existing
		} else {
			m.races[r.ID] = r
		}
	}
	m.isLoading = false
	m.isFetching = false
	m.err = ""
	m.now = m.clock()
	m.lastUpdated = m.now
	m.prune()
	m.table = m.newTable()
	m.refreshGen++
	return m, refreshCmd(m.refreshInterval, m.refreshGen)
}

func handleErrorMsg(m RaceList, msg ErrorMsg) (tea.Model, tea.Cmd) {
	m.logger.Error("failed to fetch races", "err", msg.Err)
	m.isLoading = false
	m.isFetching = false
	m.err = msg.Err.Error()
	m.refreshGen++
	return m, refreshCmd(m.refreshInterval, m.refreshGen)
}

func handleTickMsg(m RaceList, msg TickMsg) (tea.Model, tea.Cmd) {
	m.now = time.Time(msg)
	if m.prune() > 0 && len(m.visible()) < m.visibleRows && !m.isFetching {
		// expired races leave gaps in the list; fill them without waiting for the next refresh
		m.isFetching = true
		m.table = m.newTable()
		return m, tea.Batch(tickCmd(), fetchCmd(m.ctx, m.fetcher))
	}
	m.table = m.newTable()
	return m, tickCmd()
}

func handleRefreshMsg(m RaceList, msg RefreshMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.refreshGen {
		return m, nil
	}
	return m.fetch()
}

/* View Helper Functions
------------------------------------------------------------------------------------------------- */

func titleView(m RaceList) string {
	return m.style.TitleBar.Width(m.contentWidth()).Render(m.t("app.title"))
}

func filterView(m RaceList) string {
	label := m.t("filter.all")
	if selected := m.filter.Selected(); len(selected) > 0 {
		names := make([]string, len(selected))
		for i, c := range selected {
			names[i] = m.categoryLabel(c)
		}
		label = strings.Join(names, ", ")
	}
	return m.style.FilterBar.Width(m.contentWidth()).Render(m.t("filter.label", label))
}

func listView(m RaceList) string {
	if len(m.visible()) == 0 {
		return m.style.Typography.Caption.Render(m.t("race.list.empty"))
	}
	t := lipgloss.PlaceHorizontal(m.contentWidth(), lipgloss.Center, m.table.View())
	return lipgloss.JoinVertical(lipgloss.Left, m.style.Typography.Headline.Render(m.t("race.list.subtitle", m.visibleRows)), t)
}

func statusView(m RaceList) string {
	lines := make([]string, 0, 2)
	if races := m.visible(); len(races) > 0 {
		next := races[0]
		lines = append(lines, m.localizer.Lookup(
			"race.summary",
			i18n.WithTable("Accessibility"),
			i18n.WithComment("Spoken summary of the next race: meeting, race number, countdown"),
			i18n.WithArgs(next.MeetingName, next.Number, domain.FormatCountdown(next.Countdown(m.now))),
		))
	}
	if !m.lastUpdated.IsZero() {
		lines = append(lines, m.t("race.list.updated", m.lastUpdated.Local().Format(time.Kitchen)))
	}
	if m.err != "" {
		lines = append(lines, m.t("race.list.error", m.err))
	}
	return m.style.StatusBar.Render(strings.Join(lines, "\n"))
}

/* Private Helper Functions
------------------------------------------------------------------------------------------------- */

// fetch starts a fetch unless one is already in flight.
func (m RaceList) fetch() (tea.Model, tea.Cmd) {
	if m.isFetching {
		return m, nil
	}
	m.isFetching = true
	return m, fetchCmd(m.ctx, m.fetcher)
}

// visible returns the races currently listed, in display order.
func (m RaceList) visible() []domain.Race {
	races := make([]domain.Race, 0, len(m.races))
	for _, r := range m.races {
		races = append(races, r)
	}
	return domain.NextToGo(races, m.filter, m.now, m.visibleRows)
}

// prune drops expired races and reports how many were removed.
func (m RaceList) prune() int {
	n := 0
	for id, r := range m.races {
		if r.Expired(m.now) {
			delete(m.races, id)
			n++
		}
	}
	return n
}

func (m RaceList) newTable() table.Model {
	l := m.style.Layout
	rows := make([]table.Row, 0, m.visibleRows)
	for _, r := range m.visible() {
		countdown := r.Countdown(m.now)
		rows = append(rows, table.NewRow(table.RowData{
			"category": table.NewStyledCell(r.Category.Glyph(), lipgloss.NewStyle().Foreground(m.style.CategoryColor(r.Category))),
			"meeting":  r.MeetingName,
			"race":     m.t("race.number", r.Number),
			"starts":   table.NewStyledCell(domain.FormatCountdown(countdown), m.style.CountdownStyle(countdown)),
		}))
	}

	return table.New([]table.Column{
		table.NewColumn("category", m.t("column.category"), l.ColumnWidthCategory),
		table.NewColumn("meeting", m.t("column.meeting"), l.ColumnWidthMeeting).WithStyle(m.style.Typography.Body.Align(lipgloss.Left)),
		table.NewColumn("race", m.t("column.race"), l.ColumnWidthRace),
		table.NewColumn("starts", m.t("column.starts"), l.ColumnWidthCountdown).WithStyle(lipgloss.NewStyle().Align(lipgloss.Right)),
	}).
		WithRows(rows).
		WithBaseStyle(m.style.TableBase)
}

func (m RaceList) contentWidth() int {
	if m.width > 0 {
		return m.width
	}
	return m.style.Layout.MinWidth
}

// t looks up key in the primary resource group, formatting it with args when given.
func (m RaceList) t(key string, args ...any) string {
	if len(args) == 0 {
		return m.localizer.Lookup(key)
	}
	return m.localizer.Lookup(key, i18n.WithArgs(args...))
}

func (m RaceList) categoryLabel(c domain.RaceCategory) string {
	key := "category." + c.String()
	if label := m.localizer.Lookup(key, i18n.WithTable("Accessibility")); label != key {
		return label
	}
	return c.AccessibleLabel()
}

// timeTransformer lets mergo replace time values, which have no exported fields to merge.
type timeTransformer struct{}

func (timeTransformer) Transformer(typ reflect.Type) func(dst, src reflect.Value) error {
	if typ != reflect.TypeOf(time.Time{}) {
		return nil
	}
	return func(dst, src reflect.Value) error {
		if dst.CanSet() && !src.Interface().(time.Time).IsZero() {
			dst.Set(src)
		}
		return nil
	}
}

/* Type Definitions
------------------------------------------------------------------------------------------------- */

type RaceList struct {
	fetcher         Fetcher
	races           map[string]domain.Race
	filter          domain.CategoryFilter
	visibleRows     int
	refreshInterval time.Duration
	isLoading       bool
	isFetching      bool
	refreshGen      int
	err             string
	lastUpdated     time.Time
	now             time.Time
	width           int
	spinner         spinner.Model
	table           table.Model
	style           *styles.Style
	localizer       *i18n.Localizer
	clock           func() time.Time
	logger          *slog.Logger
	ctx             context.Context
}
