package inspector

import (
	"testing"

	"github.com/pthm-cable/bowshot/components"
)

func TestParseTag(t *testing.T) {
	tests := []struct {
		tag        string
		wantWidget Widget
		wantOpts   map[string]string
	}{
		{"", WidgetAuto, map[string]string{}},
		{"bar", WidgetBar, map[string]string{}},
		{"bar,max:40", WidgetBar, map[string]string{"max": "40"}},
		{"label, fmt:%.1f", WidgetLabel, map[string]string{"fmt": "%.1f"}},
		{"skip", WidgetSkip, map[string]string{}},
		{"mystery", WidgetAuto, map[string]string{}},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			w, opts := ParseTag(tt.tag)
			if w != tt.wantWidget {
				t.Errorf("widget = %v, want %v", w, tt.wantWidget)
			}
			if len(opts) != len(tt.wantOpts) {
				t.Fatalf("options = %v, want %v", opts, tt.wantOpts)
			}
			for k, v := range tt.wantOpts {
				if opts[k] != v {
					t.Errorf("options[%q] = %q, want %q", k, opts[k], v)
				}
			}
		})
	}
}

func TestExtractFieldsFlight(t *testing.T) {
	fields := ExtractFields(components.Flight{VX: 3, VY: 4, Speed: 5, InFlight: true, Ticks: 7})

	want := []struct {
		name   string
		widget Widget
	}{
		{"VX", WidgetLabel},
		{"VY", WidgetLabel},
		{"Speed", WidgetBar},
		{"InFlight", WidgetBool},
		{"Ticks", WidgetLabel},
	}
	if len(fields) != len(want) {
		t.Fatalf("got %d fields, want %d", len(fields), len(want))
	}
	for i, w := range want {
		if fields[i].Name != w.name || fields[i].Widget != w.widget {
			t.Errorf("field %d = %s/%v, want %s/%v", i, fields[i].Name, fields[i].Widget, w.name, w.widget)
		}
	}
	if GetMax(fields[2].Options) != 40 {
		t.Errorf("speed max = %v, want 40", GetMax(fields[2].Options))
	}
}

func TestExtractFieldsSkipsTagged(t *testing.T) {
	fields := ExtractFields(&components.Sprite{Kind: components.KindBow, W: 28, H: 110, Layer: 1})
	for _, f := range fields {
		if f.Name == "Layer" {
			t.Error("Layer should be skipped")
		}
	}
	if len(fields) != 3 {
		t.Errorf("got %d fields, want 3", len(fields))
	}
	if got := FormatValue(fields[0].Value, fields[0].Options["fmt"]); got != "bow" {
		t.Errorf("kind formats as %q, want bow", got)
	}
}

func TestExtractFieldsNonStruct(t *testing.T) {
	if fields := ExtractFields(42); fields != nil {
		t.Errorf("ExtractFields(42) = %v, want nil", fields)
	}
}

func TestComponentName(t *testing.T) {
	if got := ComponentName(components.Transform{}); got != "TRANSFORM" {
		t.Errorf("ComponentName = %q, want TRANSFORM", got)
	}
	if got := ComponentName(&components.Bowstring{}); got != "BOWSTRING" {
		t.Errorf("ComponentName(ptr) = %q, want BOWSTRING", got)
	}
}

func TestPanelHeightGrowsWithComponents(t *testing.T) {
	one := PanelHeight([]any{components.Transform{}})
	two := PanelHeight([]any{components.Transform{}, components.Flight{}})
	if two <= one {
		t.Errorf("panel height %d with two components, %d with one", two, one)
	}
	// Transform: two labels and an angle dial.
	want := int32(HeaderHeight + PanelPadding + sectionGap + 20 + 20 + 44 + PanelPadding)
	if one != want {
		t.Errorf("PanelHeight = %d, want %d", one, want)
	}
}
