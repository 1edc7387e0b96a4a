package render

import "github.com/gdamore/tcell/v2"

// ColorTheme defines viewer colors.
type ColorTheme struct {
	Background    tcell.Color
	Foreground    tcell.Color
	HeaderBg      tcell.Color
	HeaderFg      tcell.Color
	FooterBg      tcell.Color
	FooterFg      tcell.Color
	AddressFg     tcell.Color
	HexFg         tcell.Color
	ASCIIFg       tcell.Color
	GutterFg      tcell.Color
	PlaceholderFg tcell.Color
	ErrorFg       tcell.Color
}

// GetColorTheme returns the default color scheme.
func GetColorTheme() ColorTheme {
	return ColorTheme{
		Background:    tcell.ColorDefault,
		Foreground:    tcell.ColorDefault,
		HeaderBg:      tcell.Color33,
		HeaderFg:      tcell.ColorWhite,
		FooterBg:      tcell.ColorDefault,
		FooterFg:      tcell.ColorDefault,
		AddressFg:     tcell.Color44,  // cyan offsets
		HexFg:         tcell.ColorDefault,
		ASCIIFg:       tcell.Color252, // light grey
		GutterFg:      tcell.ColorLightSlateGray,
		PlaceholderFg: tcell.ColorLightSlateGray,
		ErrorFg:       tcell.ColorRed,
	}
}
