package live

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// defaultColumns returns the page table layout before the first resize.
func defaultColumns() []table.Column {
	return []table.Column{
		{Title: "Page", Width: 6},
		{Title: "Status", Width: 14},
		{Title: "Chars", Width: 8},
		{Title: "Questions", Width: 14},
		{Title: "Conf", Width: 6},
	}
}

// columnsForWidth stretches the questions column into the available width.
func columnsForWidth(width int) []table.Column {
	columns := defaultColumns()
	fixed := 0
	for i, column := range columns {
		if i != 3 {
			fixed += column.Width
		}
	}
	if remaining := width - fixed - len(columns); remaining > columns[3].Width {
		columns[3].Width = remaining
	}
	return columns
}

// tableStyles returns table styles for the UI.
func tableStyles(noColor bool) table.Styles {
	if noColor {
		return table.DefaultStyles()
	}
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Foreground(lipgloss.Color("252"))
	return styles
}

// rowsForState converts UI state into table rows.
func rowsForState(state State) []table.Row {
	rows := make([]table.Row, 0, len(state.Rows))
	for _, row := range state.Rows {
		rows = append(rows, table.Row{
			formatPageNumber(row.Number),
			formatPageStatus(row),
			fmtInt(row.Chars),
			formatQuestions(row.Questions),
			formatConfidence(row),
		})
	}
	return rows
}
