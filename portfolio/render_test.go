package portfolio

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRenderGainsTable(t *testing.T) {
	rq := require.New(t)

	txs := mkTxs(
		TTx{Id: "B", Date: mkYMD(2022, 1, 1), Kind: BUY, Qty: DInt(100), Value: DInt(100)},
		TTx{Id: "S", Date: mkYMD(2022, 6, 1), Kind: SELL, Qty: DInt(60), Value: DInt(90)},
		TTx{Id: "S2", Date: mkYMD(2023, 6, 1), Kind: SELL, Qty: DInt(50), Value: DStr("30.125")},
	)
	s := BuildTaxSummary(txs, NewOptions(FIFO))
	table := RenderGainsTable(s, false)
	MaybePrintRenderTable("gains", table)

	rq.Len(table.Header, 10)
	rq.Len(table.Rows, 2)
	rq.Equal([]string{"FOO", "2022-06-01", "2022-01-01", "60", "$90.00", "$60.00", "$30.00",
		"Short", "B (60)", "S"}, table.Rows[0])
	rq.Equal("50 *\n(matched 40)", table.Rows[1][3])
	rq.Equal("-$9.88", table.Rows[1][6])
	rq.Equal("Long", table.Rows[1][7])

	rq.Len(table.Footer, 10)
	rq.Equal("Total\n2022\n2023", table.Footer[5])
	rq.Equal("$20.13\n$30.00\n-$9.88", table.Footer[6])
	rq.Len(table.Notes, 1)
	rq.Empty(table.Errors)

	full := RenderGainsTable(s, true)
	rq.Equal("-$9.875", full.Rows[1][6])
}

func TestRenderGainsTableErrors(t *testing.T) {
	rq := require.New(t)

	txs := mkTxs(
		TTx{Id: "B", Day: 1, Kind: BUY, Qty: DInt(1), Value: DInt(1)},
		TTx{Id: "S", Day: 2, Kind: SELL, Qty: DInt(1), Value: DInt(1), Lots: []string{"X"}},
	)
	s := BuildTaxSummary(txs, NewOptions(SpecificID))
	table := RenderGainsTable(s, false)
	rq.Empty(table.Rows)
	rq.Len(table.Errors, 1)
	rq.ErrorIs(table.Errors[0], ErrUnknownLot)
	rq.Equal("Total", table.Footer[5])

	var buf bytes.Buffer
	PrintRenderTable("Gains", table, &buf)
	rq.Contains(buf.String(), "[!] unknown lot: X.\nGains\n")

	issues := RenderIssuesTable(s.Issues)
	rq.Len(issues.Rows, 1)
	rq.Equal([]string{"InvalidConsumption", "2023-01-03", "FOO", "1", "0", "S", "unknown lot: X"},
		issues.Rows[0])
}

func TestRenderSummaryTable(t *testing.T) {
	rq := require.New(t)

	txs := yearlyTestTxs()
	opts := NewOptions(FIFO)
	all := BuildTaxSummary(txs, opts)
	y23 := BuildYearlySummary(txs, 2023, opts)

	table := RenderSummaryTable([]*TaxSummary{all, y23}, false)
	rq.Len(table.Rows, 6)
	rq.Equal([]string{"All time", "Total", "$40.00", "$5.00", "$35.00", "$15.00", "5", "BAR, FOO"},
		table.Rows[2])
	rq.Equal([]string{"2023", "Long", "$30.00", "$0.00", "$30.00", "", "", ""}, table.Rows[4])
	rq.Equal([]string{" Cost basis method: fifo"}, table.Notes)

	yearly := RenderYearlyGainsTable(all, false)
	rq.Equal([][]string{
		{"2022", "$10.00"}, {"2023", "$30.00"}, {"2024", "-$5.00"}, {"Since inception", "$35.00"},
	}, yearly.Rows)

	byAsset := RenderAssetGainsTable(all, false)
	rq.Equal([][]string{{"FOO", "$35.00"}}, byAsset.Rows)
}

func TestRenderWashSalesTable(t *testing.T) {
	rq := require.New(t)

	txs := mkTxs(
		TTx{Id: "B0", Day: 1, Kind: BUY, Qty: DInt(10), Value: DInt(100)},
		TTx{Id: "S0", Day: 10, Kind: SELL, Qty: DInt(10), Value: DInt(60)},
		TTx{Id: "B1", Day: 20, Kind: BUY, Qty: DInt(1), Value: DInt(15)},
	)
	table := RenderWashSalesTable(DetectWashSales(txs, NewOptions(FIFO)), false)
	rq.Equal([][]string{
		{"FOO", "2023-01-11", "$40.00", "2023-01-21", "$15.00", "10", "$15.00", "S0", "B1"},
	}, table.Rows)
	rq.Equal("$15.00", table.Footer[6])

	var buf bytes.Buffer
	PrintRenderTable("Wash Sales", table, &buf)
	rq.Contains(buf.String(), "2023-01-21")
	rq.Contains(buf.String(), "within 30 days")
}
