package ui

import (
	"fmt"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Binding pairs an input with the game action it triggers.
type Binding struct {
	Input  string
	Action string
	Legend bool // also shown in the bottom legend line
}

// Bindings lists the session controls in the order the panel shows them.
// Overlay keys live in the overlay registry.
func Bindings() []Binding {
	return []Binding{
		{Input: "Drag+release", Action: "shoot", Legend: true},
		{Input: "Space", Action: "pause", Legend: true},
		{Input: "R", Action: "restart", Legend: true},
		{Input: "A", Action: "autopilot", Legend: true},
		{Input: "Tab", Action: "overlays", Legend: true},
		{Input: "Right-click", Action: "inspect", Legend: true},
		{Input: "Esc", Action: "clear inspector"},
		{Input: "< >", Action: "speed", Legend: true},
		{Input: "Wheel / + -", Action: "zoom", Legend: true},
		{Input: "Arrows", Action: "pan"},
		{Input: "Home", Action: "reset camera"},
		{Input: "F11", Action: "fullscreen"},
	}
}

// Legend joins the legend bindings into one line.
func Legend(bindings []Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		if b.Legend {
			parts = append(parts, b.Input+": "+b.Action)
		}
	}
	return strings.Join(parts, " | ")
}

// ControlsPanel shows the session key bindings and the overlay toggles.
type ControlsPanel struct {
	renderer *Renderer
	bindings []Binding
	x, y     int32
	width    int32
	visible  bool
}

// NewControlsPanel creates a hidden controls panel.
func NewControlsPanel(x, y, width int32, bindings []Binding) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		bindings: bindings,
		x:        x,
		y:        y,
		width:    width,
	}
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// sectionGap separates the sections and overlay categories.
const sectionGap = 4

// panelHeight sizes the panel: two section titles, one row per binding,
// one header row per overlay category and one row per overlay.
func panelHeight(theme Theme, bindings int, overlays *OverlayRegistry) int32 {
	rows := 2 + bindings
	gaps := 2
	for _, cat := range overlays.Categories() {
		rows += 1 + len(overlays.ByCategory(cat))
		gaps++
	}
	return int32(rows)*theme.LineHeight + int32(gaps)*sectionGap + theme.Padding*2
}

// Draw renders the panel and returns the Y below it.
func (c *ControlsPanel) Draw(overlays *OverlayRegistry) int32 {
	if !c.visible {
		return c.y
	}

	r := c.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight
	inner := c.width - padding*2
	height := panelHeight(r.Theme, len(c.bindings), overlays)
	r.DrawPanel(c.x, c.y, c.width, height)

	x := c.x + padding
	y := c.y + padding
	rl.DrawText("Keys", x, y, 16, rl.White)
	y += lineHeight + sectionGap
	for _, b := range c.bindings {
		rl.DrawText(b.Action, x, y, r.Theme.FontSize, r.Theme.LabelColor)
		drawKeyLabel(x+inner, y, b.Input, r.Theme.FontSize)
		y += lineHeight
	}
	y += sectionGap

	rl.DrawText("Overlays", x, y, 16, rl.White)
	y += lineHeight + sectionGap
	for _, category := range overlays.Categories() {
		rl.DrawText(categoryLabel(category), x, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
		y += lineHeight
		for _, desc := range overlays.ByCategory(category) {
			c.drawOverlayRow(x, y, inner, desc, overlays.IsEnabled(desc.ID))
			y += lineHeight
		}
		y += sectionGap
	}
	return c.y + height
}

// drawOverlayRow draws an on/off marker, the overlay name and its key.
func (c *ControlsPanel) drawOverlayRow(x, y, width int32, desc OverlayDescriptor, on bool) {
	theme := c.renderer.Theme

	marker, name := colorOff, theme.LabelColor
	if on {
		marker, name = colorOn, rl.White
	}
	rl.DrawRectangle(x, y+2, 8, 8, marker)
	rl.DrawText(desc.Name, x+14, y, theme.FontSize, name)
	if desc.KeyLabel != "" {
		drawKeyLabel(x+width, y, desc.KeyLabel, theme.FontSize)
	}
}

var (
	colorOn  = rl.Color{R: 100, G: 200, B: 100, A: 255}
	colorOff = rl.Color{R: 80, G: 80, B: 80, A: 255}
)

// drawKeyLabel draws "[key]" right-aligned against right.
func drawKeyLabel(right, y int32, key string, size int32) {
	text := "[" + key + "]"
	rl.DrawText(text, right-rl.MeasureText(text, size), y, size, rl.Gray)
}

func categoryLabel(cat string) string {
	if cat == "" {
		return cat
	}
	return strings.ToUpper(cat[:1]) + cat[1:]
}

// ShotStatsData holds session totals for the stats panel.
type ShotStatsData struct {
	Shots       int
	Hits        int
	Misses      int
	Streak      int
	BestStreak  int
	LastOutcome string
	LastTicks   int
}

// HitRate returns hits per shot, 0 before the first shot.
func (d ShotStatsData) HitRate() float32 {
	if d.Shots == 0 {
		return 0
	}
	return float32(d.Hits) / float32(d.Shots)
}

// ShotStatsPanel renders session shot statistics.
type ShotStatsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewShotStatsPanel creates a new stats panel.
func NewShotStatsPanel(x, y, width int32) *ShotStatsPanel {
	return &ShotStatsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (p *ShotStatsPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the panel and returns the Y below it.
func (p *ShotStatsPanel) Draw(data ShotStatsData) int32 {
	r := p.renderer
	padding := r.Theme.Padding
	inner := p.width - padding*2
	height := r.Theme.LineHeight*7 + padding*2 + 4
	r.DrawPanel(p.x, p.y, p.width, height)

	x := p.x + padding
	y := r.DrawSectionHeader(x, p.y+padding, "Shot Stats")
	y = r.DrawLabelValue(x, y, "Shots", fmt.Sprintf("%d", data.Shots))
	y = r.DrawLabelValue(x, y, "Hits / Misses", fmt.Sprintf("%d / %d", data.Hits, data.Misses))
	y = r.DrawBar(x, y, "Hit rate", data.HitRate(), inner)
	y = r.DrawLabelValue(x, y, "Streak", fmt.Sprintf("%d (best %d)", data.Streak, data.BestStreak))
	if data.LastOutcome != "" {
		y = r.DrawLabelValue(x, y, "Last shot", fmt.Sprintf("%s after %d ticks", data.LastOutcome, data.LastTicks))
	}
	return p.y + height
}
