package styles

import (
	"time"

	"github.com/bcdxn/nexttogo/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

const (
	// ImminentThreshold is the countdown below which a race is about to jump.
	ImminentThreshold = 2 * time.Minute
	// SoonThreshold is the countdown below which a race is starting soon.
	SoonThreshold = 5 * time.Minute
)

type Style struct {
	Color      Color
	Typography Typography
	Layout     Layout
	Doc        lipgloss.Style
	TitleBar   lipgloss.Style
	FilterBar  lipgloss.Style
	StatusBar  lipgloss.Style
	Help       lipgloss.Style
	Error      lipgloss.Style
	TableBase  lipgloss.Style
}

type Color struct {
	Brand             lipgloss.Color
	Horse             lipgloss.Color
	Greyhound         lipgloss.Color
	Harness           lipgloss.Color
	Started           lipgloss.Color
	Imminent          lipgloss.Color
	Soon              lipgloss.Color
	Later             lipgloss.Color
	Light             lipgloss.Color
	Subtle            lipgloss.AdaptiveColor
	PrimaryForeground lipgloss.AdaptiveColor
}

// Typography maps the text roles of the race list to terminal text styles.
type Typography struct {
	Title     lipgloss.Style
	Headline  lipgloss.Style
	Body      lipgloss.Style
	Caption   lipgloss.Style
	Countdown lipgloss.Style
}

// Layout holds spacing and sizing in terminal cells.
type Layout struct {
	MarginVertical       int
	MarginHorizontal     int
	CellPadding          int
	ColumnWidthCategory  int
	ColumnWidthMeeting   int
	ColumnWidthRace      int
	ColumnWidthCountdown int
	MinWidth             int
}

func Default() *Style {
	brand := lipgloss.Color("#FF7800")
	horse := lipgloss.Color("#2EA43F")
	greyhound := lipgloss.Color("#1277EF")
	harness := lipgloss.Color("#DA0ED3")
	started := lipgloss.Color("#CF040E")
	imminent := lipgloss.Color("#F77C14")
	soon := lipgloss.Color("#FAD105")
	later := lipgloss.Color("#17C81D")
	light := lipgloss.Color("#D1D4DD")
	subtle := lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	primaryForeground := lipgloss.AdaptiveColor{Light: "#383838", Dark: "#D9DCCF"}

	layout := Layout{
		MarginVertical:       1,
		MarginHorizontal:     1,
		CellPadding:          1,
		ColumnWidthCategory:  6,
		ColumnWidthMeeting:   22,
		ColumnWidthRace:      6,
		ColumnWidthCountdown: 11,
		MinWidth:             52,
	}

	typography := Typography{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(brand),
		Headline:  lipgloss.NewStyle().Bold(true).Foreground(primaryForeground),
		Body:      lipgloss.NewStyle().Foreground(primaryForeground),
		Caption:   lipgloss.NewStyle().Faint(true).Foreground(primaryForeground),
		Countdown: lipgloss.NewStyle().Bold(true),
	}

	return &Style{
		Color: Color{
			// Brand colors
			Brand: brand,
			// Category accents
			Horse:     horse,
			Greyhound: greyhound,
			Harness:   harness,
			// Countdown states
			Started:  started,
			Imminent: imminent,
			Soon:     soon,
			Later:    later,
			// Thematic colors
			Light:             light,
			Subtle:            subtle,
			PrimaryForeground: primaryForeground,
		},
		Typography: typography,
		Layout:     layout,
		Doc:        lipgloss.NewStyle().Margin(layout.MarginVertical, layout.MarginHorizontal),
		// header styles
		TitleBar: typography.Title.
			Align(lipgloss.Center).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(brand),
		FilterBar: lipgloss.NewStyle().
			Align(lipgloss.Center).
			Foreground(primaryForeground).
			PaddingTop(layout.CellPadding),
		// footer styles
		StatusBar: lipgloss.NewStyle().
			Faint(true).
			Foreground(primaryForeground),
		Help: lipgloss.NewStyle().
			Foreground(subtle).
			PaddingTop(layout.CellPadding),
		Error: lipgloss.NewStyle().
			Background(started).
			Foreground(light).
			Padding(layout.CellPadding, 2*layout.CellPadding),
		TableBase: lipgloss.NewStyle().
			AlignHorizontal(lipgloss.Center).
			BorderForeground(subtle),
	}
}

// CategoryColor returns the accent color of a race category.
func (s *Style) CategoryColor(c domain.RaceCategory) lipgloss.TerminalColor {
	switch c {
	case domain.RaceCategoryHorse:
		return s.Color.Horse
	case domain.RaceCategoryGreyhound:
		return s.Color.Greyhound
	case domain.RaceCategoryHarness:
		return s.Color.Harness
	}
	return s.Color.Subtle
}

// CountdownStyle returns the style of a countdown cell for the time remaining to the start.
func (s *Style) CountdownStyle(d time.Duration) lipgloss.Style {
	st := s.Typography.Countdown
	switch {
	case d <= 0:
		return st.Foreground(s.Color.Started)
	case d < ImminentThreshold:
		return st.Foreground(s.Color.Imminent)
	case d < SoonThreshold:
		return st.Foreground(s.Color.Soon)
	}
	return st.Bold(false).Foreground(s.Color.Later)
}
