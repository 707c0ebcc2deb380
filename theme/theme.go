// Package theme maps a subject name to the colour palette used by every
// renderer.
package theme

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// Color is an sRGB colour.
type Color struct {
	R, G, B uint8
}

// Hex returns the colour as "RRGGBB", the form spreadsheets and CSS expect
// (without the leading '#').
func (c Color) Hex() string {
	return fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B)
}

// RGB returns the components as ints for drawing APIs.
func (c Color) RGB() (r, g, b int) {
	return int(c.R), int(c.G), int(c.B)
}

func (c Color) String() string { return "#" + c.Hex() }

// Theme is the resolved palette for one subject.
type Theme struct {
	Name            string
	Primary         Color
	Secondary       Color
	Accent          Color
	NeutralGray     Color
	LightBackground Color
}

func (t Theme) String() string {
	return fmt.Sprintf("Name: %s, Primary: %s, Secondary: %s, Accent: %s, NeutralGray: %s, LightBackground: %s",
		t.Name, t.Primary, t.Secondary, t.Accent, t.NeutralGray, t.LightBackground)
}

var neutralGray = Color{156, 163, 175}

func family(name string, primary, secondary, accent, light Color) Theme {
	return Theme{
		Name:            name,
		Primary:         primary,
		Secondary:       secondary,
		Accent:          accent,
		NeutralGray:     neutralGray,
		LightBackground: light,
	}
}

var (
	Blue   = family("blue", Color{37, 99, 235}, Color{30, 64, 175}, Color{96, 165, 250}, Color{239, 246, 255})
	Green  = family("green", Color{22, 163, 74}, Color{21, 128, 61}, Color{74, 222, 128}, Color{240, 253, 244})
	Purple = family("purple", Color{147, 51, 234}, Color{107, 33, 168}, Color{192, 132, 252}, Color{250, 245, 255})
	Orange = family("orange", Color{234, 88, 12}, Color{194, 65, 12}, Color{251, 146, 60}, Color{255, 247, 237})
	Red    = family("red", Color{220, 38, 38}, Color{153, 27, 27}, Color{248, 113, 113}, Color{254, 242, 242})
	Teal   = family("teal", Color{13, 148, 136}, Color{17, 94, 89}, Color{45, 212, 191}, Color{240, 253, 250})
	Pink   = family("pink", Color{219, 39, 119}, Color{157, 23, 77}, Color{244, 114, 182}, Color{253, 242, 248})
	Indigo = family("indigo", Color{79, 70, 229}, Color{55, 48, 163}, Color{129, 140, 248}, Color{238, 242, 255})
	Amber  = family("amber", Color{217, 119, 6}, Color{146, 64, 14}, Color{251, 191, 36}, Color{255, 251, 235})
	Slate  = family("slate", Color{71, 85, 105}, Color{30, 41, 59}, Color{148, 163, 184}, Color{248, 250, 252})
)

// Default is returned when no keyword matches.
var Default = Blue

type keyword struct {
	key   string
	theme Theme
}

// Checked in order; the first match wins.
var keywords = []keyword{
	{"math", Blue},
	{"algebra", Blue},
	{"geometry", Blue},
	{"science", Green},
	{"biology", Green},
	{"chemistry", Green},
	{"physics", Green},
	{"english", Purple},
	{"language", Purple},
	{"literature", Purple},
	{"reading", Purple},
	{"writing", Purple},
	{"history", Orange},
	{"social", Orange},
	{"civics", Orange},
	{"geography", Teal},
	{"physical", Red},
	{"sport", Red},
	{"health", Red},
	{"art", Pink},
	{"drama", Pink},
	{"music", Indigo},
	{"spanish", Amber},
	{"french", Amber},
	{"german", Amber},
	{"computer", Slate},
	{"technology", Slate},
	{"coding", Slate},
}

// Resolve returns the palette for subject. Matching is case-insensitive and
// bidirectional: a keyword matches when it contains the subject or the
// subject contains it. Resolve never fails; a blank or unknown subject gets
// Default.
func Resolve(subject string) Theme {
	needle := strings.TrimSpace(cases.Fold().String(subject))
	if needle == "" {
		return Default
	}
	for _, kw := range keywords {
		if strings.Contains(needle, kw.key) || strings.Contains(kw.key, needle) {
			return kw.theme
		}
	}
	return Default
}
