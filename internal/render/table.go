// Package render draws ledger reports as colored terminal tables.
package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/x/ansi"

	"github.com/jask/rustance/internal/ledger"
	"github.com/jask/rustance/internal/money"
)

// Table columns. The direction column is colored In=green, Out=red.
const (
	ColID = iota
	ColAmount
	ColDirection
	ColNote
	ColUpdatedAt
)

// NoteWidth is where long notes wrap.
const NoteWidth = 40

// StatisticsLabel is drawn into the rule above a month's total row.
const StatisticsLabel = "Statistics"

var headers = []string{"id", "amount", "in_or_out", "append_msg", "updated_at"}

// Table renders to a writer. Colors follow the writer's terminal
// capabilities, so plain files and buffers get uncolored text.
type Table struct {
	w      io.Writer
	styles styles
}

func New(w io.Writer) *Table {
	return &Table{w: w, styles: newStyles(lipgloss.NewRenderer(w))}
}

var _ ledger.Renderer = (*Table)(nil)

// Month draws one month report under a heading.
func (t *Table) Month(heading string, rep ledger.MonthReport) error {
	rows := make([][]string, 0, len(rep.Rows))
	for _, r := range rep.Rows {
		rows = append(rows, Cells(r))
	}

	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(t.styles.border).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return t.styles.header
			}
			if row < 0 || row >= len(rep.Rows) {
				return t.styles.cell
			}
			r := rep.Rows[row]
			if col == ColDirection {
				return t.direction(r.Direction)
			}
			if r.Synthetic {
				return t.styles.total
			}
			return t.styles.cell
		})

	_, err := fmt.Fprintf(t.w, "%s\n%s\n\n", t.styles.title.Render(heading), t.statistics(tbl.String(), rep))
	return err
}

// statistics inserts a labelled rule above the trailing total row. The rule
// reuses the header separator, so it lines up with the column joints.
func (t *Table) statistics(rendered string, rep ledger.MonthReport) string {
	if len(rep.Rows) == 0 || !rep.Rows[len(rep.Rows)-1].Synthetic {
		return rendered
	}
	lines := strings.Split(strings.TrimSuffix(rendered, "\n"), "\n")
	// top border, header, header rule, at least one row, bottom border
	if len(lines) < 5 {
		return rendered
	}
	rule := []rune(ansi.Strip(lines[2]))
	label := []rune(StatisticsLabel)
	if len(rule) < len(label)+2 {
		return rendered
	}
	labelled := t.styles.border.Render(string(rule[:1])) +
		t.styles.stats.Render(StatisticsLabel) +
		t.styles.border.Render(string(rule[1+len(label):]))

	// The total row is a single line directly above the bottom border.
	at := len(lines) - 2
	out := make([]string, 0, len(lines)+1)
	out = append(out, lines[:at]...)
	out = append(out, labelled)
	out = append(out, lines[at:]...)
	return strings.Join(out, "\n")
}

// Total draws the overall total line.
func (t *Table) Total(total ledger.Total) error {
	_, err := fmt.Fprintf(t.w, "%s %s %s\n",
		t.styles.label.Render("Total:"),
		t.styles.amount.Render(total.Amount.String()),
		t.direction(total.Direction).UnsetPadding().Render("("+total.Direction.String()+")"))
	return err
}

func (t *Table) Message(tone ledger.Tone, text string) error {
	var s lipgloss.Style
	switch tone {
	case ledger.TonePrompt:
		s = t.styles.prompt
	case ledger.ToneSuccess:
		s = t.styles.success
	case ledger.ToneAbort:
		s = t.styles.abort
	default:
		s = t.styles.notice
	}
	_, err := fmt.Fprintln(t.w, s.Render(text))
	return err
}

func (t *Table) direction(d money.Direction) lipgloss.Style {
	if d == money.In {
		return t.styles.income
	}
	return t.styles.outcome
}

// Cells lays a row out in column order. Synthetic rows have a blank id.
func Cells(r ledger.DisplayRow) []string {
	id := ""
	if !r.Synthetic {
		id = strconv.FormatInt(r.ID, 10)
	}
	return []string{
		ColID:        id,
		ColAmount:    r.Amount,
		ColDirection: r.Direction.String(),
		ColNote:      ansi.Wordwrap(r.Note, NoteWidth, ""),
		ColUpdatedAt: r.UpdatedAt,
	}
}
