package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"
)

const maxWidth = 60
const minWidth = 40

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("208"))
	sectionStyle = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("208"))
	commandStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	flagStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	italicStyle  = lipgloss.NewStyle().Italic(true)
)

// getTerminalWidth returns the terminal width capped at maxWidth.
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width < minWidth {
		return maxWidth
	}
	if width > maxWidth {
		return maxWidth
	}
	return width
}

// wrapText wraps text to the specified width, preserving existing line breaks.
func wrapText(text string, width int) string {
	if width <= 0 {
		width = maxWidth
	}

	var result []string
	for _, paragraph := range strings.Split(text, "\n") {
		if len(paragraph) <= width {
			result = append(result, paragraph)
			continue
		}

		var line string
		for _, word := range strings.Fields(paragraph) {
			switch {
			case line == "":
				line = word
			case len(line)+1+len(word) <= width:
				line += " " + word
			default:
				result = append(result, line)
				line = word
			}
		}
		if line != "" {
			result = append(result, line)
		}
	}
	return strings.Join(result, "\n")
}

// SetStyledHelp applies the styled help renderer to a command.
func SetStyledHelp(cmd *cobra.Command) {
	cmd.SetHelpFunc(styledHelpFunc)
}

// ApplyStyledHelpRecursive applies styled help and usage to a command and all its subcommands.
// Call this after all subcommands have been added, before Execute().
func ApplyStyledHelpRecursive(cmd *cobra.Command) {
	cmd.SetHelpFunc(styledHelpFunc)
	cmd.SetUsageFunc(styledUsageFunc)
	for _, sub := range cmd.Commands() {
		ApplyStyledHelpRecursive(sub)
	}
}

// styledUsageFunc is a no-op; usage errors are rendered by ErrorHandler.
func styledUsageFunc(cmd *cobra.Command) error {
	return nil
}

// parseDescription splits a command's long description into main text and examples.
func parseDescription(long string) (description string, examples string) {
	markers := []string{"\nExamples:\n", "\nExample:\n", "\nEXAMPLES:\n", "\nEXAMPLE:\n"}
	for _, marker := range markers {
		if idx := strings.Index(long, marker); idx != -1 {
			return strings.TrimSpace(long[:idx]), strings.TrimSpace(long[idx+len(marker):])
		}
	}
	return long, ""
}

func styledHelpFunc(cmd *cobra.Command, args []string) {
	w := cmd.OutOrStdout()
	width := getTerminalWidth() - 2

	description, examples := parseDescription(cmd.Long)
	if cmd.Example != "" {
		examples = cmd.Example
	}

	fmt.Fprintln(w, " "+titleStyle.Render(strings.ToUpper(cmd.CommandPath())))
	printWrapped(w, cmd.Short, width, italicStyle)
	if description != "" && description != cmd.Short {
		fmt.Fprintln(w)
		printWrapped(w, description, width, lipgloss.NewStyle())
	}

	printSection(w, "USAGE", usageLines(cmd))
	printSection(w, "COMMANDS", commandLines(cmd))
	printSection(w, "FLAGS", flagLines(cmd))
	printSection(w, "EXAMPLES", exampleLines(examples))

	if cmd.HasAvailableSubCommands() {
		fmt.Fprintf(w, "\n Use \"%s [command] --help\" for more information.\n", cmd.CommandPath())
	}
}

func printWrapped(w io.Writer, text string, width int, style lipgloss.Style) {
	if text == "" {
		return
	}
	for _, line := range strings.Split(wrapText(text, width), "\n") {
		fmt.Fprintln(w, " "+style.Render(line))
	}
}

// printSection writes a titled block. Empty sections are omitted.
func printSection(w io.Writer, title string, lines []string) {
	if len(lines) == 0 {
		return
	}
	fmt.Fprintln(w, "\n "+sectionStyle.Render(title))
	for _, line := range lines {
		fmt.Fprintln(w, " "+line)
	}
}

func usageLines(cmd *cobra.Command) []string {
	var lines []string
	if cmd.Runnable() {
		lines = append(lines, cmd.UseLine())
	}
	if cmd.HasAvailableSubCommands() {
		lines = append(lines, cmd.CommandPath()+" [command]")
	}
	return lines
}

func commandLines(cmd *cobra.Command) []string {
	var rows [][2]string
	for _, sub := range cmd.Commands() {
		if sub.IsAvailableCommand() {
			rows = append(rows, [2]string{sub.Name(), sub.Short})
		}
	}
	return alignRows(rows, commandStyle)
}

func flagLines(cmd *cobra.Command) []string {
	var rows [][2]string
	add := func(f *pflag.Flag) {
		if f.Hidden || f.Name == "help" {
			return
		}
		name := "    --" + f.Name
		if f.Shorthand != "" {
			name = fmt.Sprintf("-%s, --%s", f.Shorthand, f.Name)
		}
		usage := f.Usage
		switch f.DefValue {
		case "", "false", "[]", "0s":
		default:
			usage += mutedStyle.Render(fmt.Sprintf(" (default: %s)", f.DefValue))
		}
		rows = append(rows, [2]string{name, usage})
	}
	cmd.LocalFlags().VisitAll(add)
	cmd.InheritedFlags().VisitAll(add)
	return alignRows(rows, flagStyle)
}

// exampleLines mutes comment lines and indents invocations.
func exampleLines(examples string) []string {
	if examples == "" {
		return nil
	}
	var lines []string
	for _, line := range strings.Split(examples, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			lines = append(lines, "")
		case strings.HasPrefix(trimmed, "#"):
			lines = append(lines, mutedStyle.Render(trimmed))
		default:
			lines = append(lines, "  "+trimmed)
		}
	}
	return lines
}

// alignRows renders name/description pairs with the descriptions in one column.
func alignRows(rows [][2]string, nameStyle lipgloss.Style) []string {
	nameWidth := 0
	for _, row := range rows {
		if len(row[0]) > nameWidth {
			nameWidth = len(row[0])
		}
	}
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		padding := strings.Repeat(" ", nameWidth-len(row[0]))
		lines = append(lines, nameStyle.Render(row[0])+padding+"  "+row[1])
	}
	return lines
}
