package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette. Numbers are ANSI 256 colours.
var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	StyleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleLink    = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)
	StyleDim     = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	styleKey    = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	styleFresh  = lipgloss.NewStyle().Foreground(colorGray)
	styleCached = lipgloss.NewStyle().Foreground(colorGreen)
)

// statusLine is a leading icon and its colour.
type statusLine struct {
	icon  string
	style lipgloss.Style
}

var (
	lineSuccess = statusLine{"✓", lipgloss.NewStyle().Foreground(colorGreen)}
	lineError   = statusLine{"✗", lipgloss.NewStyle().Foreground(colorRed)}
	lineWarning = statusLine{"!", lipgloss.NewStyle().Foreground(colorYellow)}
	lineInfo    = statusLine{"›", lipgloss.NewStyle().Foreground(colorGray)}
)

// stdout is where command output goes. Tests swap it for a buffer.
var stdout io.Writer = os.Stdout

func (l statusLine) render(text string) string {
	return l.style.Render(l.icon) + " " + text
}

func (l statusLine) print(text string) {
	fmt.Fprintln(stdout, l.render(text))
}

func printSuccess(format string, args ...any) {
	lineSuccess.print(fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	lineWarning.print(StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	lineInfo.print(fmt.Sprintf(format, args...))
}

// printDetail prints an indented, dimmed line under a status line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a path that a command wrote.
func printFile(path string) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render("→")+" "+StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Fprintln(stdout, styleKey.Render(key)+" "+StyleValue.Render(value))
}

// printStats prints "N events · up to M columns · cached|fresh".
func printStats(events, columns int, cached bool) {
	sep := StyleDim.Render(" · ")
	parts := []string{StyleDim.Render(fmt.Sprintf("%d events", events))}
	if columns > 1 {
		parts = append(parts, StyleDim.Render(fmt.Sprintf("up to %d columns", columns)))
	}
	if cached {
		parts = append(parts, styleCached.Render("cached"))
	} else {
		parts = append(parts, styleFresh.Render("fresh"))
	}
	fmt.Fprintln(stdout, "  "+strings.Join(parts, sep))
}
