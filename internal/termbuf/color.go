package termbuf

import (
	"image/color"

	headlessterm "github.com/danielgatis/go-headless-term"
)

// resolveColor turns any color.Color the library hands back (a concrete
// color.RGBA, an *IndexedColor palette reference, or an *NamedColor
// semantic reference) into a concrete RGBA using the standard xterm-256
// palette, matching the package's documented default resolution rules.
func resolveColor(c color.Color, fg bool) color.RGBA {
	switch v := c.(type) {
	case nil:
		return defaultFor(fg)
	case color.RGBA:
		return v
	case *headlessterm.IndexedColor:
		if v.Index >= 0 && v.Index < len(headlessterm.DefaultPalette) {
			return headlessterm.DefaultPalette[v.Index]
		}
		return defaultFor(fg)
	case *headlessterm.NamedColor:
		return resolveNamed(v.Name, fg)
	default:
		r, g, b, a := c.RGBA()
		return color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8)}
	}
}

func defaultFor(fg bool) color.RGBA {
	if fg {
		return headlessterm.DefaultForeground
	}
	return headlessterm.DefaultBackground
}

func resolveNamed(name int, fg bool) color.RGBA {
	switch name {
	case headlessterm.NamedColorForeground, headlessterm.NamedColorBrightForeground:
		return headlessterm.DefaultForeground
	case headlessterm.NamedColorBackground:
		return headlessterm.DefaultBackground
	case headlessterm.NamedColorCursor:
		return headlessterm.DefaultCursorColor
	case headlessterm.NamedColorDimForeground:
		return dim(headlessterm.DefaultForeground)
	case headlessterm.NamedColorDimBlack, headlessterm.NamedColorDimRed, headlessterm.NamedColorDimGreen,
		headlessterm.NamedColorDimYellow, headlessterm.NamedColorDimBlue, headlessterm.NamedColorDimMagenta,
		headlessterm.NamedColorDimCyan, headlessterm.NamedColorDimWhite:
		idx := name - headlessterm.NamedColorDimBlack
		return dim(headlessterm.DefaultPalette[idx])
	default:
		return defaultFor(fg)
	}
}

func dim(c color.RGBA) color.RGBA {
	return color.RGBA{R: c.R / 2, G: c.G / 2, B: c.B / 2, A: c.A}
}
