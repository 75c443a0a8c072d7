// =================================================================================
//
//			fox-spl - https://www.foxhollow.cc/projects/fox-spl/
//
//		 Fox SPL is a touchscreen sound level meter that watches one or two
//	  audio inputs and flags material that is too quiet or too loud
//
//		 Copyright (c) 2024 Steve Cross <flip@foxhollow.cc>
//
//			Licensed under the Apache License, Version 2.0 (the "License");
//			you may not use this file except in compliance with the License.
//			You may obtain a copy of the License at
//
//			     http://www.apache.org/licenses/LICENSE-2.0
//
//			Unless required by applicable law or agreed to in writing, software
//			distributed under the License is distributed on an "AS IS" BASIS,
//			WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//			See the License for the specific language governing permissions and
//			limitations under the License.
//
// =================================================================================
package theme

import (
	"fox-spl/model"

	"code.rocketnine.space/tslocum/cview"
	"github.com/gdamore/tcell/v2"
)

// Theme is the palette resolved to terminal colours
type Theme struct {
	Background     tcell.Color
	BackgroundDark tcell.Color
	Border         tcell.Color
	BorderLight    tcell.Color
	Text           tcell.Color
	Foreground     tcell.Color
	Graph1         tcell.Color
	Graph2         tcell.Color
	LightBlue      tcell.Color
	DarkBlue       tcell.Color
	Orange         tcell.Color
	Green          tcell.Color
	Red            tcell.Color
	ButtonActive   tcell.Color
	ButtonInactive tcell.Color
	ButtonDisabled tcell.Color
}

const (
	RuneBlock      = rune(9608) // █
	RuneUpperHalf  = rune(9600) // ▀
	RuneLowerHalf  = rune(9604) // ▄
	RuneShade      = rune(9617) // ░
	RuneHorizontal = rune(9472) // ─
	RuneHeavyLine  = rune(9473) // ━
	RuneVertical   = rune(9474) // │
	RuneDot        = rune(8226) // •
	RuneFailed     = rune(9932) // ⛌
)

// Default builds a theme from cview's stock styles, used when no palette
// has been configured
func Default() Theme {
	return Theme{
		Background:     cview.Styles.PrimitiveBackgroundColor,
		BackgroundDark: cview.Styles.ContrastBackgroundColor,
		Border:         cview.Styles.BorderColor,
		BorderLight:    cview.Styles.GraphicsColor,
		Text:           cview.Styles.SecondaryTextColor,
		Foreground:     cview.Styles.PrimaryTextColor,
		Graph1:         tcell.Color72,
		Graph2:         tcell.Color142,
		LightBlue:      tcell.ColorLightSkyBlue,
		DarkBlue:       tcell.ColorNavy,
		Orange:         tcell.ColorOrange,
		Green:          tcell.Color71,
		Red:            tcell.Color124,
		ButtonActive:   tcell.ColorSteelBlue,
		ButtonInactive: tcell.Color243,
		ButtonDisabled: tcell.Color236,
	}
}

// FromPalette resolves the configured #RRGGBB strings. Any colour that
// fails to parse keeps its default.
func FromPalette(palette *model.Palette) Theme {
	t := Default()

	if palette == nil {
		return t
	}

	resolve := func(target *tcell.Color, hex string) {
		if colour := tcell.GetColor(hex); colour != tcell.ColorDefault {
			*target = colour
		}
	}

	resolve(&t.Background, palette.Background)
	resolve(&t.BackgroundDark, palette.BackgroundDark)
	resolve(&t.Border, palette.Border)
	resolve(&t.BorderLight, palette.BorderLight)
	resolve(&t.Text, palette.Text)
	resolve(&t.Foreground, palette.Foreground)
	resolve(&t.Graph1, palette.Graph1)
	resolve(&t.Graph2, palette.Graph2)
	resolve(&t.LightBlue, palette.LightBlue)
	resolve(&t.DarkBlue, palette.DarkBlue)
	resolve(&t.Orange, palette.Orange)
	resolve(&t.Green, palette.Green)
	resolve(&t.Red, palette.Red)
	resolve(&t.ButtonActive, palette.ButtonActive)
	resolve(&t.ButtonInactive, palette.ButtonInactive)
	resolve(&t.ButtonDisabled, palette.ButtonDisabled)

	return t
}

// Apply pushes the theme into cview's global styles so anything drawn with
// cview primitives matches
func (t Theme) Apply() {
	cview.Styles.PrimitiveBackgroundColor = t.Background
	cview.Styles.ContrastBackgroundColor = t.BackgroundDark
	cview.Styles.BorderColor = t.Border
	cview.Styles.PrimaryTextColor = t.Foreground
	cview.Styles.SecondaryTextColor = t.Text
}

func (t Theme) Style(foreground, background tcell.Color) tcell.Style {
	return tcell.StyleDefault.Foreground(foreground).Background(background)
}
