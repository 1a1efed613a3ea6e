package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

var bannerLines = []string{
	"              _       _   _                         _ ",
	"  _ __   __ _(_)_ __ | |_| |__   ___   __ _ _ __ __| |",
	" | '_ \\ / _` | | '_ \\| __| '_ \\ / _ \\ / _` | '__/ _` |",
	" | |_) | (_| | | | | | |_| |_) | (_) | (_| | | | (_| |",
	" | .__/ \\__,_|_|_| |_|\\__|_.__/ \\___/ \\__,_|_|  \\__,_|",
	" |_|",
}

// Indigo to rose, one stop per line.
var bannerColors = []string{"#818cf8", "#a78bfa", "#c084fc", "#e879f9", "#f472b6", "#fb7185"}

// Banner renders the ASCII art banner with the given color profile.
func Banner(p termenv.Profile, version string) string {
	var b strings.Builder
	b.WriteString("\n")
	for i, line := range bannerLines {
		b.WriteString(p.String(line).Foreground(p.Color(bannerColors[i])).String())
		b.WriteString("\n")
	}
	if v := strings.TrimSpace(version); v != "" {
		b.WriteString(p.String("  " + v).Faint().String())
		b.WriteString("\n")
	}
	b.WriteString("\n")
	return b.String()
}

// PrintBanner outputs the banner using the terminal's detected color profile.
func PrintBanner(w io.Writer, version string) {
	fmt.Fprint(w, Banner(termenv.ColorProfile(), version))
}
