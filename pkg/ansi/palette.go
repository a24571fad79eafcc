package ansi

import "fmt"

const (
	DefaultBackgroundColor = "black"
	DefaultForegroundColor = "#aaaaaa"
)

// palette holds the 16 basic colors: 0-7 normal, 8-15 bright.
var palette = [16]string{
	"#000000", "#aa0000", "#00aa00", "#aa5500", "#0000aa", "#aa00aa", "#00aaaa", "#aaaaaa",
	"#555555", "#ff5555", "#55ff55", "#ffff55", "#5555ff", "#ff55ff", "#55ffff", "#ffffff",
}

var cubeLevels = [6]int{0, 95, 135, 175, 215, 255}

// color256 maps an xterm 256-color index to a CSS color.
func color256(n int) string {
	switch {
	case n < 16:
		return palette[n]
	case n < 232:
		n -= 16
		return rgb(cubeLevels[n/36], cubeLevels[(n/6)%6], cubeLevels[n%6])
	default:
		gray := 8 + 10*(n-232)
		return rgb(gray, gray, gray)
	}
}

func rgb(r, g, b int) string {
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}
