package inspector

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Widget colors
var (
	ColorBarBg       = rl.Color{R: 40, G: 40, B: 40, A: 255}
	ColorBarFill     = rl.Color{R: 100, G: 180, B: 100, A: 255}
	ColorText        = rl.Color{R: 220, G: 220, B: 220, A: 255}
	ColorTextDim     = rl.Color{R: 150, G: 150, B: 150, A: 255}
	ColorAngleBg     = rl.Color{R: 50, G: 50, B: 60, A: 255}
	ColorAngleNeedle = rl.Color{R: 255, G: 200, B: 100, A: 255}
	ColorBoolOn      = rl.Color{R: 100, G: 200, B: 100, A: 255}
	ColorBoolOff     = rl.Color{R: 80, G: 80, B: 80, A: 255}
)

// Every widget returns the height it used.

// DrawLabel renders a text value.
func DrawLabel(x, y int32, name string, value any, options map[string]string) int32 {
	text := FormatValue(value, options["fmt"])
	rl.DrawText(fmt.Sprintf("%s: %s", name, text), x, y, 16, ColorText)
	return 20
}

// DrawBar renders a horizontal bar filled to value/max.
func DrawBar(x, y int32, name string, value float32, options map[string]string) int32 {
	ratio := float32(math.Max(0, math.Min(1, float64(value/GetMax(options)))))
	const barWidth, barHeight = 120, 14

	rl.DrawText(name, x, y, 14, ColorTextDim)
	barX := x + 80
	rl.DrawRectangle(barX, y, barWidth, barHeight, ColorBarBg)
	rl.DrawRectangle(barX, y, int32(barWidth*ratio), barHeight, ColorBarFill)
	rl.DrawText(fmt.Sprintf("%.2f", value), barX+barWidth+5, y, 14, ColorTextDim)
	return 18
}

// DrawAngle renders a dial for a clockwise angle in degrees, 0 pointing right.
func DrawAngle(x, y int32, name string, degrees float32) int32 {
	const size = 40
	centerX := x + 60 + size/2
	centerY := y + size/2

	rl.DrawText(name, x, y+size/2-7, 14, ColorTextDim)
	rl.DrawCircle(centerX, centerY, size/2, ColorAngleBg)
	rl.DrawCircleLines(centerX, centerY, size/2, ColorTextDim)

	rad := float64(degrees) * math.Pi / 180
	needle := float32(size/2 - 4)
	rl.DrawLineEx(
		rl.Vector2{X: float32(centerX), Y: float32(centerY)},
		rl.Vector2{
			X: float32(centerX) + needle*float32(math.Cos(rad)),
			Y: float32(centerY) + needle*float32(math.Sin(rad)),
		},
		2,
		ColorAngleNeedle,
	)
	rl.DrawText(fmt.Sprintf("%.0f deg", degrees), x+60+size+5, y+size/2-7, 14, ColorTextDim)
	return size + 4
}

// DrawBool renders an on/off indicator.
func DrawBool(x, y int32, name string, value bool) int32 {
	const indicator = 14
	color, text := ColorBoolOff, "OFF"
	if value {
		color, text = ColorBoolOn, "ON"
	}

	rl.DrawText(name, x, y, 14, ColorTextDim)
	rl.DrawRectangle(x+80, y, indicator, indicator, color)
	rl.DrawText(text, x+80+indicator+5, y, 14, color)
	return 18
}

// DrawField renders a field using its widget type, falling back to a label.
func DrawField(x, y int32, field Field) int32 {
	switch field.Widget {
	case WidgetBar:
		if v, ok := GetFloatValue(field.Value); ok {
			return DrawBar(x, y, field.Name, v, field.Options)
		}
	case WidgetAngle:
		if v, ok := GetFloatValue(field.Value); ok {
			return DrawAngle(x, y, field.Name, v)
		}
	case WidgetBool:
		if v, ok := field.Value.(bool); ok {
			return DrawBool(x, y, field.Name, v)
		}
	}
	return DrawLabel(x, y, field.Name, field.Value, field.Options)
}

// FieldHeight is the height DrawField will use for field.
func FieldHeight(field Field) int32 {
	switch field.Widget {
	case WidgetBar, WidgetBool:
		return 18
	case WidgetAngle:
		return 44
	default:
		return 20
	}
}
