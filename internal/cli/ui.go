package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/scynet/scynet/pkg/errors"
	"github.com/scynet/scynet/pkg/flux"
	"github.com/scynet/scynet/pkg/layout"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // organisms, primary actions
	colorGreen  = lipgloss.Color("35")  // success, cross-fed
	colorYellow = lipgloss.Color("220") // warnings
	colorRed    = lipgloss.Color("167") // errors
	colorBlue   = lipgloss.Color("75")  // commands
	colorWhite  = lipgloss.Color("255") // values
	colorGray   = lipgloss.Color("245") // secondary text
	colorDim    = lipgloss.Color("240") // muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	StyleDim     = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	StyleNumber  = lipgloss.NewStyle().Foreground(colorCyan)
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)
	styleCode     = lipgloss.NewStyle().Foreground(colorYellow).Bold(true)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
	styleKey     = lipgloss.NewStyle().Foreground(colorGray).Width(14)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(format string, args ...any) {
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	fmt.Println(styleIconError.Render(iconError) + " " + fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + fmt.Sprintf(format, args...))
}

// printDetail prints an indented, dimmed line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Println(styleKey.Render(key) + " " + StyleValue.Render(value))
}

// printWarnings prints one line per non-fatal stage warning with its code.
func printWarnings(warnings []error) {
	for _, w := range warnings {
		code := string(errors.GetCode(w))
		if code == "" {
			printWarning("%s", w)
			continue
		}
		fmt.Println(styleIconWarning.Render(iconWarning) + " " + styleCode.Render(code) + " " + StyleWarning.Render(errors.UserMessage(w)))
	}
}

// =============================================================================
// Stats Display
// =============================================================================

// printStats prints community network counts on a single line.
func printStats(organisms, metabolites, edges int, cached bool) {
	parts := []string{
		plural(organisms, "organism"),
		plural(metabolites, "metabolite"),
		plural(edges, "edge"),
	}
	status, style := iconFresh, styleComputed
	if cached {
		status, style = iconCached, styleCached
	}
	printParts(parts, style.Render(status))
}

// printFluxSummary prints the outcome of a flux annotation.
func printFluxSummary(s flux.Summary) {
	printParts([]string{
		s.Mode.String(),
		plural(s.Edges, "annotated edge"),
		fmt.Sprintf("%d zero", s.Zero),
		fmt.Sprintf("%d cross-fed", s.CrossFed),
		fmt.Sprintf("%d hidden", s.Hidden),
	}, "")
}

// printRings prints the populated rings of a layout, inside out.
func printRings(r *layout.Result) {
	if r == nil {
		return
	}
	ring := func(name string, n int, radius float64) {
		if n > 0 {
			printDetail("%-9s %3d × r=%.0f", name, n, radius)
		}
	}
	ring("multi", r.Counts.Multis, r.Rings.Multi)
	ring("double", r.Counts.Doubles, r.Rings.Double)
	ring("organism", r.Counts.Organisms, r.Rings.Organism)
	ring("single", r.Counts.Singles, r.Rings.Single)
}

func printParts(parts []string, tail string) {
	var b strings.Builder
	b.WriteString("  ")
	for i, part := range parts {
		if i > 0 {
			b.WriteString(StyleDim.Render(" · "))
		}
		b.WriteString(StyleDim.Render(part))
	}
	if tail != "" {
		b.WriteString(StyleDim.Render(" · ") + tail)
	}
	fmt.Println(b.String())
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// =============================================================================
// Next Steps
// =============================================================================

func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

func printNewline() {
	fmt.Println()
}
