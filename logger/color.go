package logger

import (
	"regexp"

	"github.com/fatih/color"
)

// Color is a display color for colorized output.
type Color int

const (
	Red Color = iota
	Yellow
	Cyan
	Blue
	White
	Green
	Magenta
)

var colorAttributes = map[Color]color.Attribute{
	Red:     color.FgRed,
	Yellow:  color.FgYellow,
	Cyan:    color.FgCyan,
	Blue:    color.FgBlue,
	White:   color.FgWhite,
	Green:   color.FgGreen,
	Magenta: color.FgMagenta,
}

func (c Color) String() string {
	switch c {
	case Red:
		return "red"
	case Yellow:
		return "yellow"
	case Cyan:
		return "cyan"
	case Blue:
		return "blue"
	case White:
		return "white"
	case Green:
		return "green"
	case Magenta:
		return "magenta"
	default:
		return "none"
	}
}

// Colorizer wraps text in ANSI color escapes.
//
// Every color is force-enabled on its own *color.Color, so the output does
// not depend on color.NoColor or on whether stdout is a terminal. Whether
// escapes reach a sink is decided by the engine's color mode, not here.
type Colorizer struct {
	colors map[Color]*color.Color
}

// NewColorizer returns a Colorizer with all colors enabled.
func NewColorizer() *Colorizer {
	z := &Colorizer{colors: make(map[Color]*color.Color, len(colorAttributes))}
	for c, attr := range colorAttributes {
		cc := color.New(attr)
		cc.EnableColor()
		z.colors[c] = cc
	}
	return z
}

// Colorize wraps text with the escape for c and a trailing reset.
// Unknown colors return text unchanged.
func (z *Colorizer) Colorize(c Color, text string) string {
	cc, ok := z.colors[c]
	if !ok {
		return text
	}
	return cc.Sprint(text)
}

// ForSeverity colorizes text with the color of level's dispatch group.
func (z *Colorizer) ForSeverity(level Severity, text string) string {
	return z.Colorize(Classify(level).Color(), text)
}

func (z *Colorizer) Red(text string) string     { return z.Colorize(Red, text) }
func (z *Colorizer) Yellow(text string) string  { return z.Colorize(Yellow, text) }
func (z *Colorizer) Cyan(text string) string    { return z.Colorize(Cyan, text) }
func (z *Colorizer) White(text string) string   { return z.Colorize(White, text) }
func (z *Colorizer) Green(text string) string   { return z.Colorize(Green, text) }
func (z *Colorizer) Blue(text string) string    { return z.Colorize(Blue, text) }
func (z *Colorizer) Magenta(text string) string { return z.Colorize(Magenta, text) }

// ansiPattern matches CSI and OSC escape sequences.
var ansiPattern = regexp.MustCompile(
	"[\u001B\u009B][[\\]()#;?]*(?:(?:(?:[a-zA-Z\\d]*(?:;[a-zA-Z\\d]*)*)?\u0007)" +
		"|(?:(?:\\d{1,4}(?:;\\d{0,4})*)?[\\dA-PRZcf-ntqry=><~]))")

// StripANSI removes every ANSI escape sequence from s.
func StripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func stripAll(parts []string) []string {
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = StripANSI(p)
	}
	return out
}

func colorizeAll(z *Colorizer, c Color, parts []string) []string {
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = z.Colorize(c, p)
	}
	return out
}
