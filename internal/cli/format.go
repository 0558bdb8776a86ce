package cli

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/gosuri/uitable"
)

func newTable(header ...any) *uitable.Table {
	table := uitable.New()
	table.MaxColWidth = 50
	table.Wrap = true
	table.AddRow(header...)
	return table
}

func render(out io.Writer, table *uitable.Table) {
	fmt.Fprintln(out, table)
}

func money(cents int64) string {
	return humanize.FormatFloat("#,###.##", float64(cents)/100)
}
