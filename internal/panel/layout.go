package panel

import (
	"errors"
	"fmt"
)

// ErrUnknownLayout is returned by LayoutByName for names it does not know.
var ErrUnknownLayout = errors.New("unknown layout")

// Layout fixes where the report fields go and which optional lines appear.
// Rows and columns are 1-based terminal coordinates.
type Layout struct {
	Name string

	ShowMode bool
	ModeRow  int

	ShowLegend bool
	LegendRow  int
	Legend     Message

	FieldCol    int
	StrikesRow  int
	DistanceRow int
	EnergyRow   int
	TimeRow     int

	// SinglePlaceholder prints MessageNoThunderstorm once at PlaceholderRow
	// instead of "---" after each field label.
	SinglePlaceholder bool
	PlaceholderRow    int

	// ClearFields erases to end of line after each field value.
	ClearFields bool

	ShowBuildInfo bool
	BuildInfoRow  int
	BuildInfoCol  int
}

// LayoutFull reproduces the original front-panel screen byte for byte.
var LayoutFull = Layout{
	Name:        "full",
	ShowMode:    true,
	ModeRow:     9,
	ShowLegend:  true,
	LegendRow:   19,
	Legend:      MessageKeyLegend,
	FieldCol:    2,
	StrikesRow:  11,
	DistanceRow: 13,
	EnergyRow:   15,
	TimeRow:     17,
}

// LayoutCompact packs the fields together and shows the build metadata
// next to the banner.
var LayoutCompact = Layout{
	Name:              "compact",
	ShowLegend:        true,
	LegendRow:         15,
	Legend:            MessageShortLegend,
	FieldCol:          2,
	StrikesRow:        10,
	DistanceRow:       11,
	EnergyRow:         12,
	TimeRow:           13,
	SinglePlaceholder: true,
	PlaceholderRow:    10,
	ClearFields:       true,
	ShowBuildInfo:     true,
	BuildInfoRow:      3,
	BuildInfoCol:      50,
}

// LayoutByName looks up a predefined layout.
func LayoutByName(name string) (Layout, error) {
	switch name {
	case LayoutFull.Name:
		return LayoutFull, nil
	case LayoutCompact.Name:
		return LayoutCompact, nil
	}
	return Layout{}, fmt.Errorf("%w: %q", ErrUnknownLayout, name)
}

func (l Layout) fieldRows() []int {
	return []int{l.StrikesRow, l.DistanceRow, l.EnergyRow, l.TimeRow}
}
