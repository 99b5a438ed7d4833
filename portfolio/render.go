package portfolio

import (
	"fmt"
	"io"
	"os"
	"strings"

	tw "github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"

	"github.com/tsiemens/capgains/date"
	"github.com/tsiemens/capgains/util"
)

type _PrintHelper struct {
	PrintAllDecimals bool
}

func (h _PrintHelper) CurrStr(val decimal.Decimal) string {
	if h.PrintAllDecimals {
		return val.String()
	}
	return val.StringFixed(2)
}

func (h _PrintHelper) DollarStr(val decimal.Decimal) string {
	return "$" + h.CurrStr(val)
}

func (h _PrintHelper) PlusMinusDollar(val decimal.Decimal, showPlus bool) string {
	if val.IsNegative() {
		return fmt.Sprintf("-$%s", h.CurrStr(val.Neg()))
	}
	plus := ""
	if showPlus {
		plus = "+"
	}
	return fmt.Sprintf("%s$%s", plus, h.CurrStr(val))
}

func dateStr(g *CapitalGain) string {
	return date.NewFromTime(g.DisposedAt).String()
}

type RenderTable struct {
	Header []string
	Rows   [][]string
	Footer []string
	Notes  []string
	Errors []error
}

// RenderGainsTable has one row per disposal, and totals by year in the footer.
func RenderGainsTable(summary *TaxSummary, renderFullDollarValues bool) *RenderTable {
	table := &RenderTable{}
	table.Header = []string{"Asset", "Sold", "Acquired", "Amount", "Proceeds", "Cost Basis",
		"Gain", "Term", "Lots", "Reference",
	}

	ph := _PrintHelper{PrintAllDecimals: renderFullDollarValues}

	sawPartial := false
	for _, g := range summary.Gains {
		amount := g.Quantity.String()
		if !g.MatchedQuantity.Equal(g.Quantity) {
			amount = fmt.Sprintf("%s *\n(matched %s)", g.Quantity, g.MatchedQuantity)
			sawPartial = true
		}
		lotIds := make([]string, 0, len(g.Matches))
		for _, m := range g.Matches {
			lotIds = append(lotIds, fmt.Sprintf("%s (%s)", m.LotId, m.Quantity))
		}
		acquired := "-"
		if len(g.Matches) > 0 {
			acquired = date.NewFromTime(g.EarliestAcquiredAt).String()
		}
		row := []string{
			g.Asset,
			dateStr(g),
			acquired,
			amount,
			ph.DollarStr(g.Proceeds),
			ph.DollarStr(g.CostBasis),
			ph.PlusMinusDollar(g.Gain, false),
			util.Tern(g.IsLongTerm, "Long", "Short"),
			strings.Join(lotIds, "\n"),
			g.Tx.Ref(),
		}
		table.Rows = append(table.Rows, row)
	}

	// Footer
	gains := CalcCumulativeCapitalGains(summary.Gains)
	years := gains.CapitalGainsYearTotalsKeysSorted()
	yearStrs := []string{}
	yearValsStrs := []string{}
	for _, year := range years {
		yearStrs = append(yearStrs, fmt.Sprintf("%d", year))
		yearValsStrs = append(yearValsStrs, ph.PlusMinusDollar(gains.CapitalGainsYearTotals[year], false))
	}
	totalFooterLabel := "Total"
	totalFooterValsStr := ph.PlusMinusDollar(gains.CapitalGainsTotal, false)
	if len(years) > 1 {
		totalFooterLabel += "\n" + strings.Join(yearStrs, "\n")
		totalFooterValsStr += "\n" + strings.Join(yearValsStrs, "\n")
	}
	table.Footer = []string{"", "", "", "", "", totalFooterLabel, totalFooterValsStr, "", "", ""}

	if sawPartial {
		table.Notes = append(table.Notes,
			" * Open lots did not cover the whole sale. Cost basis is understated.")
	}
	for _, issue := range summary.IssuesOfKind(InvalidConsumption) {
		table.Errors = append(table.Errors, issue.Err)
	}
	return table
}

func (s *TaxSummary) Scope() string {
	if s.Year == 0 {
		return "All time"
	}
	return fmt.Sprintf("%d", s.Year)
}

/*
Generates a RenderTable that will render out to this:
| Scope    |          | Gains | Losses | Net  |
+----------+----------+-------+--------+------+
| 2023     | Short    | x.xx  | x.xx   | x.xx |
| 2023     | Long     | x.xx  | x.xx   | x.xx |
| 2023     | Total    | x.xx  | x.xx   | x.xx |
*/
func RenderSummaryTable(summaries []*TaxSummary, renderFullDollarValues bool) *RenderTable {
	table := &RenderTable{}
	table.Header = []string{"Scope", "Term", "Gains", "Losses", "Net", "Fees", "Txs", "Assets"}

	ph := _PrintHelper{PrintAllDecimals: renderFullDollarValues}

	for _, s := range summaries {
		table.Rows = append(table.Rows,
			[]string{s.Scope(), "Short",
				ph.DollarStr(s.ShortTermGains), ph.DollarStr(s.ShortTermLosses),
				ph.PlusMinusDollar(s.ShortTermGains.Sub(s.ShortTermLosses), false), "", "", ""},
			[]string{s.Scope(), "Long",
				ph.DollarStr(s.LongTermGains), ph.DollarStr(s.LongTermLosses),
				ph.PlusMinusDollar(s.LongTermGains.Sub(s.LongTermLosses), false), "", "", ""},
			[]string{s.Scope(), "Total",
				ph.DollarStr(s.TotalGains), ph.DollarStr(s.TotalLosses),
				ph.PlusMinusDollar(s.NetGain, false),
				ph.DollarStr(s.TotalFees),
				fmt.Sprintf("%d", s.TransactionCount),
				strings.Join(s.Assets, ", ")},
		)
	}
	if len(summaries) > 0 {
		table.Notes = append(table.Notes, fmt.Sprintf(" Cost basis method: %s", summaries[0].Method))
	}
	return table
}

// RenderYearlyGainsTable is the net gain of each year, and since inception.
func RenderYearlyGainsTable(allTime *TaxSummary, renderFullDollarValues bool) *RenderTable {
	table := &RenderTable{}
	table.Header = []string{"Year", "Capital Gains"}

	ph := _PrintHelper{PrintAllDecimals: renderFullDollarValues}

	gains := CalcCumulativeCapitalGains(allTime.Gains)
	for _, year := range gains.CapitalGainsYearTotalsKeysSorted() {
		table.Rows = append(table.Rows,
			[]string{fmt.Sprintf("%d", year), ph.PlusMinusDollar(gains.CapitalGainsYearTotals[year], false)})
	}
	table.Rows = append(table.Rows,
		[]string{"Since inception", ph.PlusMinusDollar(gains.CapitalGainsTotal, false)})
	return table
}

func RenderAssetGainsTable(allTime *TaxSummary, renderFullDollarValues bool) *RenderTable {
	table := &RenderTable{}
	table.Header = []string{"Asset", "Capital Gains"}

	ph := _PrintHelper{PrintAllDecimals: renderFullDollarValues}

	byAsset := CalcCumulativeCapitalGainsByAsset(allTime.Gains)
	for _, asset := range allTime.Assets {
		g, ok := byAsset[asset]
		if !ok {
			continue
		}
		table.Rows = append(table.Rows, []string{asset, ph.PlusMinusDollar(g.CapitalGainsTotal, false)})
	}
	return table
}

func RenderWashSalesTable(matches []*WashSaleMatch, renderFullDollarValues bool) *RenderTable {
	table := &RenderTable{}
	table.Header = []string{"Asset", "Loss Date", "Loss", "Repurchase Date", "Repurchase Value",
		"Days", "Disallowed", "Loss Ref", "Repurchase Ref"}

	ph := _PrintHelper{PrintAllDecimals: renderFullDollarValues}

	for _, m := range matches {
		table.Rows = append(table.Rows, []string{
			m.LossTx.Asset,
			date.NewFromTime(m.LossTx.Date).String(),
			ph.DollarStr(m.Loss),
			date.NewFromTime(m.RepurchaseTx.Date).String(),
			ph.DollarStr(m.RepurchaseValue),
			fmt.Sprintf("%d", m.DaysApart),
			ph.DollarStr(m.DisallowedLoss),
			m.LossTx.Ref(),
			m.RepurchaseTx.Ref(),
		})
	}
	table.Footer = []string{"", "", "", "", "", "Total", ph.DollarStr(TotalDisallowedLoss(matches)), "", ""}
	table.Notes = append(table.Notes,
		fmt.Sprintf(" Repurchases within %d days after a loss sale.", WashSaleWindowDays))
	return table
}

func RenderIssuesTable(issues []Issue) *RenderTable {
	table := &RenderTable{}
	table.Header = []string{"Issue", "Date", "Asset", "Requested", "Matched", "Reference", "Detail"}

	for _, i := range issues {
		detail := ""
		if i.Err != nil {
			detail = i.Err.Error()
		}
		table.Rows = append(table.Rows, []string{
			i.Kind.String(),
			date.NewFromTime(i.Tx.Date).String(),
			i.Tx.Asset,
			i.Requested.String(),
			i.Matched.String(),
			i.Tx.Ref(),
			detail,
		})
	}
	return table
}

func PrintRenderTable(title string, tableModel *RenderTable, writer io.Writer) {
	for _, err := range tableModel.Errors {
		fmt.Fprintf(writer, "[!] %v.\n", err)
	}
	fmt.Fprintf(writer, "%s\n", title)

	table := tw.NewWriter(writer)
	table.SetHeader(tableModel.Header)
	table.SetBorder(false)
	table.SetRowLine(true)

	for _, row := range tableModel.Rows {
		table.Append(row)
	}

	if len(tableModel.Footer) > 0 {
		table.SetFooter(tableModel.Footer)
	}

	table.Render()

	for _, note := range tableModel.Notes {
		fmt.Fprintln(writer, note)
	}
}

// Debug helper for tests. Set VERBOSE in the environment to see tables.
func MaybePrintRenderTable(title string, tableModel *RenderTable) {
	if os.Getenv("VERBOSE") != "" {
		PrintRenderTable(title, tableModel, os.Stdout)
	}
}
