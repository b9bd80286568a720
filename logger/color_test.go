package logger

import (
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestColorizeEscapes(t *testing.T) {
	z := NewColorizer()

	assert.Equal(t, "\x1b[31mboom\x1b[0m", z.Red("boom"))
	assert.Equal(t, "\x1b[33mboom\x1b[0m", z.Yellow("boom"))
	assert.Equal(t, "\x1b[36mboom\x1b[0m", z.Cyan("boom"))
	assert.Equal(t, "\x1b[34mboom\x1b[0m", z.Blue("boom"))
	assert.Equal(t, "\x1b[32mboom\x1b[0m", z.Green("boom"))
	assert.Equal(t, "\x1b[37mboom\x1b[0m", z.White("boom"))
	assert.Equal(t, "\x1b[35mboom\x1b[0m", z.Magenta("boom"))
	assert.Equal(t, "boom", z.Colorize(Color(99), "boom"))
}

func TestColorizeIgnoresGlobalNoColor(t *testing.T) {
	old := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = old }()

	assert.Equal(t, "\x1b[31mx\x1b[0m", NewColorizer().Red("x"))
}

func TestForSeverity(t *testing.T) {
	z := NewColorizer()
	tests := map[Severity]string{
		Emergency:     "\x1b[31mx\x1b[0m",
		Error:         "\x1b[31mx\x1b[0m",
		Warning:       "\x1b[33mx\x1b[0m",
		Notice:        "\x1b[36mx\x1b[0m",
		Informational: "\x1b[34mx\x1b[0m",
		Debug:         "\x1b[34mx\x1b[0m",
		Severity(12):  "\x1b[34mx\x1b[0m",
	}
	for level, want := range tests {
		assert.Equal(t, want, z.ForSeverity(level, "x"), level.String())
	}
}

func TestStripANSI(t *testing.T) {
	z := NewColorizer()
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "hello", "hello"},
		{"colorized", z.Red("hello"), "hello"},
		{"nested", z.Green("a " + z.Red("b") + " c"), "a b c"},
		{"bold and 256 colors", "\x1b[1;38;5;208mhot\x1b[0m", "hot"},
		{"cursor movement", "\x1b[2Kline\x1b[1A", "line"},
		{"osc hyperlink title", "\x1b]0;title\x07text", "text"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripANSI(tt.in))
		})
	}
}

func TestStripInvertsColorize(t *testing.T) {
	z := NewColorizer()
	for _, c := range []Color{Red, Yellow, Cyan, Blue, White, Green, Magenta} {
		for _, s := range []string{"", "x", "with spaces", "multi\nline", "[1.000000000] ERROR:"} {
			assert.Equal(t, s, StripANSI(z.Colorize(c, s)), "%s %q", c, s)
		}
	}
}
