package client

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/okian/packlist/internal/domain/model"
)

// ------- terminal styling (Lip Gloss) -------
var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	accentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)

	selectedStyle = lipgloss.NewStyle().Bold(true).Reverse(true)
	doneStyle     = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	helpStyle     = lipgloss.NewStyle().Faint(true)

	panelStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8")).Padding(0, 1)

	boxChecked   = "☑"
	boxUnchecked = "☐"
)

const progressWidth = 28

// Entry identifies one checklist item.
type Entry struct {
	Category string
	Item     string
}

// Packed records which items were ticked off.
type Packed map[Entry]bool

// Count returns how many entries are ticked.
func (p Packed) Count() int {
	n := 0
	for _, v := range p {
		if v {
			n++
		}
	}
	return n
}

// Render writes the trip header, one bordered panel per category and a
// progress line. Items present in packed are shown ticked.
func Render(w io.Writer, resp *model.ChecklistResponse, packed Packed) error {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Travel checklist"))
	b.WriteString("  " + accentStyle.Render(resp.Destination))
	b.WriteString("  " + mutedStyle.Render(resp.StartDate+" → "+resp.EndDate))
	b.WriteString("\n")

	total := 0
	for _, cat := range resp.Checklist.Categories() {
		lines := []string{titleStyle.Render(cat.Name)}
		for _, item := range cat.Items {
			total++
			if packed[Entry{Category: cat.Name, Item: item}] {
				lines = append(lines, successStyle.Render(boxChecked)+" "+doneStyle.Render(item))
				continue
			}
			lines = append(lines, mutedStyle.Render(boxUnchecked)+" "+item)
		}
		b.WriteString(panelStyle.Render(strings.Join(lines, "\n")))
		b.WriteString("\n")
	}

	done := packed.Count()
	status := pendingStyle
	if done == total {
		status = successStyle
	}
	b.WriteString(status.Render(progressBar(done, total, progressWidth)) + " packed\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// OK prints a success line.
func OK(w io.Writer, msg string) {
	fmt.Fprintln(w, successStyle.Render("✔ "+msg))
}

// Fail prints an error line.
func Fail(w io.Writer, msg string) {
	fmt.Fprintln(w, errorStyle.Render("✖ "+msg))
}

func progressBar(done, total, width int) string {
	if total == 0 {
		total = 1
	}
	if width <= 0 {
		width = progressWidth
	}
	filled := int(float64(done) / float64(total) * float64(width))
	if filled > width {
		filled = width
	}
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + fmt.Sprintf("] %d/%d", done, total)
}
