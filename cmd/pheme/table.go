package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"pheme/internal/catalog"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

// tableLayout pairs headers with their column alignment so each command
// declares its table shape once.
type tableLayout struct {
	headers []string
	aligns  []columnAlignment
}

// ledgerLayout is the list layout for one ledger kind. Amounts and counters
// are right-aligned so values line up.
func ledgerLayout(kind catalog.LedgerKind) tableLayout {
	if kind == catalog.LedgerPrice {
		return tableLayout{
			headers: []string{"Name", "Price", "Expansion", "Checked", "URL"},
			aligns:  []columnAlignment{alignLeft, alignRight, alignLeft, alignLeft, alignLeft},
		}
	}
	return tableLayout{
		headers: []string{"Name", "Value", "Checked"},
		aligns:  []columnAlignment{alignLeft, alignRight, alignLeft},
	}
}

// searchLayout is the layout for raw provider search results. The value
// column is labeled by what the category's ledger records.
func searchLayout(kind catalog.LedgerKind) tableLayout {
	valueHeader := "Price"
	if kind == catalog.LedgerStatus {
		valueHeader = "Latest"
	}
	return tableLayout{
		headers: []string{"Name", valueHeader, "URL"},
		aligns:  []columnAlignment{alignLeft, alignLeft, alignLeft},
	}
}

// historyLayout is the layout for journaled sweep runs.
func historyLayout() tableLayout {
	return tableLayout{
		headers: []string{"Started", "Category", "Checked", "Events", "Skipped"},
		aligns:  []columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight},
	}
}

// settingsLayout is the layout for effective configuration output.
func settingsLayout() tableLayout {
	return tableLayout{
		headers: []string{"Setting", "Value"},
		aligns:  []columnAlignment{alignLeft, alignLeft},
	}
}

func renderTable(layout tableLayout, rows [][]string) string {
	if len(layout.headers) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, 0, len(layout.headers))
	for _, h := range layout.headers {
		header = append(header, h)
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, 0, len(layout.headers))
		for i := range layout.headers {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			r = append(r, cell)
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, len(layout.headers))
	for i := range layout.headers {
		align := text.AlignLeft
		if i < len(layout.aligns) && layout.aligns[i] == alignRight {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}
