package ansi

import (
	"html"
	"strconv"
	"strings"
)

const esc = 0x1b

type style struct {
	bold      bool
	faint     bool
	italic    bool
	underline bool
	strike    bool
	fg        string
	bg        string
}

func (s style) css() string {
	var parts []string
	if s.bold {
		parts = append(parts, "font-weight: bold")
	}
	if s.faint {
		parts = append(parts, "opacity: 0.67")
	}
	if s.italic {
		parts = append(parts, "font-style: italic")
	}
	switch {
	case s.underline && s.strike:
		parts = append(parts, "text-decoration: underline line-through")
	case s.underline:
		parts = append(parts, "text-decoration: underline")
	case s.strike:
		parts = append(parts, "text-decoration: line-through")
	}
	if s.fg != "" {
		parts = append(parts, "color: "+s.fg)
	}
	if s.bg != "" {
		parts = append(parts, "background-color: "+s.bg)
	}
	return strings.Join(parts, "; ")
}

// apply returns s updated by one SGR parameter list. Unknown codes are
// ignored.
func (s style) apply(params string) style {
	codes := parseParams(params)
	for i := 0; i < len(codes); i++ {
		c := codes[i]
		switch {
		case c == 0:
			s = style{}
		case c == 1:
			s.bold = true
		case c == 2:
			s.faint = true
		case c == 3:
			s.italic = true
		case c == 4:
			s.underline = true
		case c == 9:
			s.strike = true
		case c == 22:
			s.bold, s.faint = false, false
		case c == 23:
			s.italic = false
		case c == 24:
			s.underline = false
		case c == 29:
			s.strike = false
		case c >= 30 && c <= 37:
			s.fg = palette[c-30]
		case c >= 90 && c <= 97:
			s.fg = palette[c-90+8]
		case c == 39:
			s.fg = ""
		case c >= 40 && c <= 47:
			s.bg = palette[c-40]
		case c >= 100 && c <= 107:
			s.bg = palette[c-100+8]
		case c == 49:
			s.bg = ""
		case c == 38 || c == 48:
			color, n := extendedColor(codes[i+1:])
			i += n
			if color == "" {
				continue
			}
			if c == 38 {
				s.fg = color
			} else {
				s.bg = color
			}
		}
	}
	return s
}

func parseParams(params string) []int {
	if params == "" {
		return []int{0}
	}
	fields := strings.FieldsFunc(params, func(r rune) bool { return r == ';' || r == ':' })
	if len(fields) == 0 {
		return []int{0}
	}
	codes := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			n = -1
		}
		codes = append(codes, n)
	}
	return codes
}

// extendedColor decodes the arguments of 38/48 (5;n or 2;r;g;b) and reports
// how many codes it consumed.
func extendedColor(rest []int) (string, int) {
	if len(rest) == 0 {
		return "", 0
	}
	switch rest[0] {
	case 5:
		if len(rest) < 2 {
			return "", len(rest)
		}
		if rest[1] < 0 || rest[1] > 255 {
			return "", 2
		}
		return color256(rest[1]), 2
	case 2:
		if len(rest) < 4 {
			return "", len(rest)
		}
		for _, v := range rest[1:4] {
			if v < 0 || v > 255 {
				return "", 4
			}
		}
		return rgb(rest[1], rest[2], rest[3]), 4
	default:
		return "", 1
	}
}

// scanEscape measures the escape sequence at the start of s. For CSI
// sequences it also returns the parameter bytes and the final byte.
func scanEscape(s string) (n int, params string, final byte) {
	if len(s) < 2 {
		return len(s), "", 0
	}
	switch s[1] {
	case '[':
		j := 2
		for j < len(s) && s[j] >= 0x30 && s[j] <= 0x3f {
			j++
		}
		paramsEnd := j
		for j < len(s) && s[j] >= 0x20 && s[j] <= 0x2f {
			j++
		}
		if j < len(s) && s[j] >= 0x40 && s[j] <= 0x7e {
			return j + 1, s[2:paramsEnd], s[j]
		}
		return j, "", 0
	case ']':
		for j := 2; j < len(s); j++ {
			if s[j] == 0x07 {
				return j + 1, "", 0
			}
			if s[j] == esc && j+1 < len(s) && s[j+1] == '\\' {
				return j + 2, "", 0
			}
		}
		return len(s), "", 0
	case '(', ')', '*', '+':
		if len(s) > 2 {
			return 3, "", 0
		}
		return len(s), "", 0
	default:
		return 2, "", 0
	}
}

// Converter turns terminal output into an HTML fragment. Text is escaped and
// styled runs are wrapped in <span style="..."> elements.
type Converter struct {
	// NonBreakingSpaces writes spaces as &nbsp; so clients that collapse
	// whitespace keep column alignment.
	NonBreakingSpaces bool
}

func (c Converter) Convert(s string) string {
	var (
		b       strings.Builder
		want    style
		openCSS string
		open    bool
	)
	writeText := func(text string) {
		if text == "" {
			return
		}
		if css := want.css(); !open || css != openCSS {
			if open {
				b.WriteString("</span>")
				open = false
			}
			if css != "" {
				b.WriteString(`<span style="`)
				b.WriteString(css)
				b.WriteString(`">`)
				open, openCSS = true, css
			}
		}
		escaped := html.EscapeString(text)
		if c.NonBreakingSpaces {
			escaped = strings.ReplaceAll(escaped, " ", "&nbsp;")
		}
		b.WriteString(escaped)
	}

	for i := 0; i < len(s); {
		next := strings.IndexAny(s[i:], "\x1b\r")
		if next < 0 {
			writeText(s[i:])
			break
		}
		writeText(s[i : i+next])
		i += next

		if s[i] == '\r' {
			i++
			continue
		}
		n, params, final := scanEscape(s[i:])
		if final == 'm' {
			want = want.apply(params)
		}
		i += n
	}
	if open {
		b.WriteString("</span>")
	}
	return b.String()
}

// ToHTML converts s with the default Converter.
func ToHTML(s string) string {
	return Converter{}.Convert(s)
}
