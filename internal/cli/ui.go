package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Terminal palette shared by all command output.
var (
	colorCyan  = lipgloss.Color("36")  // headings, spinner
	colorGreen = lipgloss.Color("35")  // success marks
	colorRed   = lipgloss.Color("167") // error marks
	colorBlue  = lipgloss.Color("75")  // URLs
	colorWhite = lipgloss.Color("255") // values
	colorGray  = lipgloss.Color("245") // labels
	colorDim   = lipgloss.Color("240") // muted detail lines
)

var (
	// StyleTitle renders node IDs and section headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleLink renders reference URLs.
	StyleLink = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)

	// StyleDim renders secondary detail text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue renders attribute values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(14)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconInfo    = "›"
	iconArrow   = "→"
)

// statusLine prints a marker followed by a formatted message.
func statusLine(mark, format string, args ...any) {
	fmt.Println(mark + " " + fmt.Sprintf(format, args...))
}

func printSuccess(format string, args ...any) {
	statusLine(styleIconSuccess.Render(iconSuccess), format, args...)
}

func printError(format string, args ...any) {
	statusLine(styleIconError.Render(iconError), format, args...)
}

func printInfo(format string, args ...any) {
	statusLine(styleIconInfo.Render(iconInfo), format, args...)
}

// printDetail prints an indented, dimmed detail line under a status line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints the path of a generated file.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// printKeyValue prints an aligned label/value pair.
func printKeyValue(key, value string) {
	fmt.Println(styleKey.Render(key) + " " + StyleValue.Render(value))
}
