package outfmt

import (
	"github.com/tsiemens/capgains/portfolio"
)

type OutputType int

const (
	Gains OutputType = iota
	Summary
	YearlyGains
	AssetGains
	WashSales
	Issues
)

func (t OutputType) String() string {
	switch t {
	case Gains:
		return "gains"
	case Summary:
		return "summary"
	case YearlyGains:
		return "yearly-gains"
	case AssetGains:
		return "asset-gains"
	case WashSales:
		return "wash-sales"
	case Issues:
		return "issues"
	default:
		return "unknown"
	}
}

type ReportWriter interface {
	PrintRenderTable(outType OutputType, tableModel *portfolio.RenderTable) error
}
