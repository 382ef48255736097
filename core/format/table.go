package format

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	gptext "github.com/jedib0t/go-pretty/v6/text"

	"github.com/kndndrj/mysql-fdw/core"
)

var _ Formatter = (*Table)(nil)

type Table struct{}

func NewTable() *Table {
	return &Table{}
}

func (tf *Table) Name() string {
	return "table"
}

func (tf *Table) Format(header core.Header, rows []*core.Tuple, writer io.Writer) error {
	var tableHeaders table.Row
	for _, h := range header {
		tableHeaders = append(tableHeaders, h)
	}

	var tableRows []table.Row
	for _, row := range rows {
		tableRow := make(table.Row, row.Len())
		for i, val := range row.Values {
			tableRow[i] = text(val)
		}
		tableRows = append(tableRows, tableRow)
	}

	t := table.NewWriter()
	t.AppendHeader(tableHeaders)
	t.AppendRows(tableRows)
	t.AppendSeparator()
	t.SetStyle(table.StyleLight)
	t.Style().Format = table.FormatOptions{
		Footer: gptext.FormatDefault,
		Header: gptext.FormatDefault,
		Row:    gptext.FormatDefault,
	}
	t.Style().Options.DrawBorder = false
	render := t.Render()

	_, err := writer.Write([]byte(render + "\n"))
	return err
}
