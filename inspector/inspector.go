// Package inspector draws a panel listing the components of a picked sprite.
package inspector

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"
)

// Panel dimensions
const (
	PanelWidth   = 300
	PanelPadding = 10
	HeaderHeight = 30
	sectionGap   = 24
)

// Panel colors
var (
	ColorPanelBg     = rl.Color{R: 30, G: 30, B: 35, A: 240}
	ColorPanelHeader = rl.Color{R: 45, G: 45, B: 55, A: 255}
	ColorPanelBorder = rl.Color{R: 70, G: 70, B: 80, A: 255}
	ColorHeaderText  = rl.Color{R: 255, G: 255, B: 255, A: 255}
	ColorCloseBtn    = rl.Color{R: 180, G: 80, B: 80, A: 255}
	ColorSectionText = rl.Color{R: 200, G: 200, B: 220, A: 255}
)

// Source resolves entities for the inspector.
type Source interface {
	Pick(wx, wy float32) (ecs.Entity, bool)
	Inspect(e ecs.Entity) []any
}

// Inspector tracks the selected entity and renders its panel.
type Inspector struct {
	selected    ecs.Entity
	hasSelected bool
	panelX      int32
	panelY      int32
}

// NewInspector creates an inspector docked to the right edge of the screen.
func NewInspector(screenWidth int32) *Inspector {
	ins := &Inspector{}
	ins.Resize(screenWidth)
	return ins
}

// Resize re-docks the panel after a window size change.
func (ins *Inspector) Resize(screenWidth int32) {
	ins.panelX = screenWidth - PanelWidth - 10
	ins.panelY = 60
}

// HandleInput selects with the right button and deselects with Escape or
// the close box. sx, sy are screen coordinates; wx, wy the same point in
// world coordinates. It reports whether the click belonged to the panel.
func (ins *Inspector) HandleInput(sx, sy, wx, wy float32, src Source) bool {
	if rl.IsKeyPressed(rl.KeyEscape) {
		ins.Deselect()
		return false
	}

	onPanel := ins.hasSelected && ins.contains(sx, sy)
	if onPanel && rl.IsMouseButtonPressed(rl.MouseButtonLeft) && ins.onClose(sx, sy) {
		ins.Deselect()
		return true
	}
	if !rl.IsMouseButtonPressed(rl.MouseButtonRight) {
		return onPanel
	}

	if e, ok := src.Pick(wx, wy); ok {
		ins.Select(e)
	} else {
		ins.Deselect()
	}
	return true
}

// Select shows e in the panel.
func (ins *Inspector) Select(e ecs.Entity) {
	ins.selected = e
	ins.hasSelected = true
}

// Deselect clears the current selection.
func (ins *Inspector) Deselect() {
	ins.hasSelected = false
}

// Selected returns the currently selected entity.
func (ins *Inspector) Selected() (ecs.Entity, bool) {
	return ins.selected, ins.hasSelected
}

func (ins *Inspector) contains(sx, sy float32) bool {
	x, y := int32(sx), int32(sy)
	return x >= ins.panelX && x <= ins.panelX+PanelWidth && y >= ins.panelY
}

func (ins *Inspector) onClose(sx, sy float32) bool {
	closeX := ins.panelX + PanelWidth - 25
	closeY := ins.panelY + 5
	x, y := int32(sx), int32(sy)
	return x >= closeX && x <= closeX+20 && y >= closeY && y <= closeY+20
}

// PanelHeight is the height of the panel for the given components.
func PanelHeight(comps []any) int32 {
	h := int32(HeaderHeight + PanelPadding)
	for _, c := range comps {
		h += sectionGap
		for _, f := range ExtractFields(c) {
			h += FieldHeight(f)
		}
	}
	return h + PanelPadding
}

// Draw renders the panel for the selected entity. A selection whose entity
// no longer exists is dropped.
func (ins *Inspector) Draw(src Source) {
	if !ins.hasSelected {
		return
	}
	comps := src.Inspect(ins.selected)
	if len(comps) == 0 {
		ins.Deselect()
		return
	}

	height := PanelHeight(comps)
	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, height, ColorPanelBg)
	rl.DrawRectangleLinesEx(
		rl.Rectangle{X: float32(ins.panelX), Y: float32(ins.panelY), Width: PanelWidth, Height: float32(height)},
		1,
		ColorPanelBorder,
	)

	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, HeaderHeight, ColorPanelHeader)
	rl.DrawText("INSPECTOR", ins.panelX+PanelPadding, ins.panelY+7, 16, ColorHeaderText)
	closeX := ins.panelX + PanelWidth - 25
	closeY := ins.panelY + 5
	rl.DrawRectangle(closeX, closeY, 20, 20, ColorCloseBtn)
	rl.DrawText("X", closeX+6, closeY+3, 14, rl.White)

	x := ins.panelX + PanelPadding
	y := ins.panelY + HeaderHeight + PanelPadding
	for _, c := range comps {
		rl.DrawLine(x, y, ins.panelX+PanelWidth-PanelPadding, y, ColorPanelBorder)
		rl.DrawText(ComponentName(c), x, y+6, 12, ColorSectionText)
		y += sectionGap
		for _, f := range ExtractFields(c) {
			y += DrawField(x, y, f)
		}
	}
}
