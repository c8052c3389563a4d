// Package console is the CLI-facing output layer: banner, colored status
// lines, verbose logging. Library packages use slog; this is presentation.
package console

import (
	"fmt"
	"os"
)

const (
	Version = "0.3.0"

	// ANSI color codes (optimized for dark backgrounds).
	ColorReset  = "\033[0m"
	ColorRed    = "\033[38;5;204m"
	ColorBlue   = "\033[38;5;117m"
	ColorGreen  = "\033[38;5;114m"
	ColorCyan   = "\033[38;5;122m"
	ColorYellow = "\033[38;5;222m"
	ColorGray   = "\033[38;5;248m"
)

var NoColors bool

func colorize(color, s string) string {
	if NoColors {
		return s
	}
	return color + s + ColorReset
}

func ShowBanner() {
	fmt.Println(colorize(ColorCyan, `  ______     _           ______`))
	fmt.Println(colorize(ColorCyan, ` |  ____|   | |         |  ____|
 | |__   ___| |__   ___ | |__ ___  _ __ __ _  ___
 |  __| / __| '_ \ / _ \|  __/ _ \| '__/ _`+"`"+` |/ _ \
 | |___| (__| | | | (_) | | | (_) | | | (_| |  __/
 |______\___|_| |_|\___/|_|  \___/|_|  \__, |\___|
                                        __/ |
                                       |___/`))
	fmt.Printf(" EchoForge v%s - OSINT deep search\n\n", Version)
}

// Logv writes a verbose progress line to stderr when verbose mode is on.
func Logv(verbose bool, format string, args ...any) {
	if !verbose {
		return
	}
	fmt.Fprintf(os.Stderr, colorize(ColorGray, format)+"\n", args...)
}

// LogErr always writes an error line to stderr.
func LogErr(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorize(ColorRed, format)+"\n", args...)
}

// LogOK writes a success line to stderr.
func LogOK(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorize(ColorGreen, format)+"\n", args...)
}
