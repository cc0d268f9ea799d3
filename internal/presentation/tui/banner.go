package tui

import (
	"fmt"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the refscope ASCII banner.
func PrintBanner() {
	p := termenv.ColorProfile()
	// Subtle gradient from indigo to rose.
	lines := []struct {
		text  string
		color string
	}{
		{`              __`, "#818cf8"},
		{`  _______ ___/ _|______ ___  _ __  ___`, "#a78bfa"},
		{` | '__/ _ \  _| __/ __|/ _ \| '_ \/ _ \`, "#c084fc"},
		{` | | |  __/ | | |_\__ \ (_) | |_) |  __/`, "#e879f9"},
		{` |_|  \___|_|  \__|___/\___/| .__/\___|`, "#f472b6"},
		{`                            |_|`, "#fb7185"},
	}

	fmt.Println()
	for _, l := range lines {
		fmt.Println(termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Println()
}
