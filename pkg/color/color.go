package color

import (
	"math/rand"
	"slices"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/klokku/calgrid/pkg/event"
)

var Palette = []string{
	"#4285f4", // blue
	"#ea4335", // red
	"#34a853", // green
	"#fbbc04", // yellow
	"#9c27b0", // purple
	"#ff9800", // orange
	"#795548", // brown
	"#607d8b", // blue grey
	"#e91e63", // pink
	"#009688", // teal
	"#673ab7", // deep purple
	"#3f51b5", // indigo
	"#2196f3", // light blue
	"#00bcd4", // cyan
	"#4caf50", // light green
	"#8bc34a", // lime
	"#cddc39", // lime green
	"#ffc107", // amber
	"#ff5722", // deep orange
	"#f44336", // bright red
}

const Default = "#4285f4"

func Random(r *rand.Rand) string {
	return Palette[r.Intn(len(Palette))]
}

// Seeded picks a palette color from a hash of seed, so the same seed always
// gets the same color. The hash runs over UTF-16 code units with 32-bit
// wraparound, which keeps colors stable with the web client.
func Seeded(seed string) string {
	var hash int32
	for _, unit := range utf16.Encode([]rune(seed)) {
		hash = (hash << 5) - hash + int32(unit)
	}
	index := int64(hash)
	if index < 0 {
		index = -index
	}
	return Palette[index%int64(len(Palette))]
}

func ByTitle(title string) string {
	return Seeded(title)
}

func IsCustom(c string) bool {
	return !slices.Contains(Palette, strings.ToLower(c))
}

// Brightness is the YIQ perceived brightness of a #rrggbb color in [0, 255].
// Unparseable channels count as 0.
func Brightness(hex string) float64 {
	hex = strings.TrimPrefix(hex, "#")
	channel := func(i int) float64 {
		if len(hex) < i+2 {
			return 0
		}
		v, err := strconv.ParseUint(hex[i:i+2], 16, 8)
		if err != nil {
			return 0
		}
		return float64(v)
	}
	return (channel(0)*299 + channel(2)*587 + channel(4)*114) / 1000
}

// ContrastText returns black text for light backgrounds and white otherwise.
func ContrastText(background string) string {
	if Brightness(background) > 128 {
		return "#000000"
	}
	return "#ffffff"
}

func ForCategory(category string) string {
	if c, ok := event.CategoryByID(category); ok {
		return c.Color
	}
	return Default
}

// BackgroundForCategory is the category color at roughly 12% opacity.
func BackgroundForCategory(category string) string {
	return ForCategory(category) + "20"
}
