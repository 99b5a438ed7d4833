package app

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/tsiemens/capgains/app/outfmt"
	"github.com/tsiemens/capgains/log"
	ptf "github.com/tsiemens/capgains/portfolio"
)

var CapGainsVersion = "0.1.0"

type DescribedReader struct {
	Desc   string
	Reader io.Reader
}

type Options struct {
	Method                 ptf.CostBasisMethod
	Years                  []int // Empty for none
	AllYears               bool  // Every year found in the input
	SortTxs                bool
	WashSales              bool
	RenderFullDollarValues bool
}

type AppRenderResult struct {
	Gains      *ptf.RenderTable
	Summary    *ptf.RenderTable
	Yearly     *ptf.RenderTable
	ByAsset    *ptf.RenderTable
	WashSales  *ptf.RenderTable // nil if not requested
	Issues     *ptf.RenderTable // nil if there were none
	// As replayed, sorted if requested
	Txs        []*ptf.Tx
	AllTime    *ptf.TaxSummary
	YearlyByYr map[int]*ptf.TaxSummary
	WashMatch  []*ptf.WashSaleMatch
}

// ReadAllTxs parses every reader, in order. Read indices continue from one
// reader to the next.
func ReadAllTxs(csvFileReaders []DescribedReader, errPrinter log.ErrorPrinter) ([]*ptf.Tx, error) {
	var globalReadIndex uint32 = 0
	allTxs := make([]*ptf.Tx, 0, 20)
	for _, csvReader := range csvFileReaders {
		txs, err := ptf.ParseTxCsv(csvReader.Reader, globalReadIndex, csvReader.Desc, errPrinter)
		if err != nil {
			return nil, err
		}
		globalReadIndex += uint32(len(txs))
		allTxs = append(allTxs, txs...)
	}
	return allTxs, nil
}

func RunCapGainsAppToModel(
	ctx context.Context, allTxs []*ptf.Tx, options Options) (*AppRenderResult, error) {

	if options.SortTxs {
		allTxs = ptf.SortTxs(allTxs)
	}
	ptfOpts := ptf.NewOptions(options.Method)

	res := &AppRenderResult{Txs: allTxs}
	res.AllTime = ptf.BuildTaxSummary(allTxs, ptfOpts)
	log.Tracef("app", "all time: %d gains, %d issues", len(res.AllTime.Gains), len(res.AllTime.Issues))

	years := options.Years
	if options.AllYears {
		years = ptf.TaxYears(allTxs)
	}
	if len(years) > 0 {
		yearly, err := ptf.BuildYearlySummaries(ctx, allTxs, years, ptfOpts)
		if err != nil {
			return nil, err
		}
		res.YearlyByYr = yearly
	}

	if options.WashSales {
		res.WashMatch = ptf.FindWashSales(allTxs, res.AllTime.Gains)
	}
	return res, nil
}

func RunCapGainsAppToRenderModel(
	ctx context.Context,
	csvFileReaders []DescribedReader,
	options Options,
	errPrinter log.ErrorPrinter) (*AppRenderResult, error) {

	allTxs, err := ReadAllTxs(csvFileReaders, errPrinter)
	if err != nil {
		return nil, err
	}
	res, err := RunCapGainsAppToModel(ctx, allTxs, options)
	if err != nil {
		return nil, err
	}

	full := options.RenderFullDollarValues
	summaries := []*ptf.TaxSummary{res.AllTime}
	for _, y := range sortedYears(res.YearlyByYr) {
		summaries = append(summaries, res.YearlyByYr[y])
	}
	res.Gains = ptf.RenderGainsTable(res.AllTime, full)
	res.Summary = ptf.RenderSummaryTable(summaries, full)
	res.Yearly = ptf.RenderYearlyGainsTable(res.AllTime, full)
	res.ByAsset = ptf.RenderAssetGainsTable(res.AllTime, full)
	if options.WashSales {
		res.WashSales = ptf.RenderWashSalesTable(res.WashMatch, full)
	}
	if len(res.AllTime.Issues) > 0 {
		res.Issues = ptf.RenderIssuesTable(res.AllTime.Issues)
	}
	return res, nil
}

func sortedYears(m map[int]*ptf.TaxSummary) []int {
	years := make([]int, 0, len(m))
	for y := range m {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

func WriteRenderResult(renderRes *AppRenderResult, writer outfmt.ReportWriter) error {
	tables := []struct {
		outType outfmt.OutputType
		table   *ptf.RenderTable
	}{
		{outfmt.Gains, renderRes.Gains},
		{outfmt.Summary, renderRes.Summary},
		{outfmt.YearlyGains, renderRes.Yearly},
		{outfmt.AssetGains, renderRes.ByAsset},
		{outfmt.WashSales, renderRes.WashSales},
		{outfmt.Issues, renderRes.Issues},
	}
	for _, t := range tables {
		if t.table == nil {
			continue
		}
		if err := writer.PrintRenderTable(t.outType, t.table); err != nil {
			return fmt.Errorf("write %s: %w", t.outType, err)
		}
	}
	return nil
}

// Returns the result written, and an OK flag. The flag is used to signal
// what exit code to use.
func RunCapGainsAppToWriter(
	ctx context.Context,
	writer outfmt.ReportWriter,
	csvFileReaders []DescribedReader,
	options Options,
	errPrinter log.ErrorPrinter) (*AppRenderResult, bool) {

	renderRes, err := RunCapGainsAppToRenderModel(ctx, csvFileReaders, options, errPrinter)
	if err != nil {
		errPrinter.Ln("Error:", err)
		return nil, false
	}
	if err := WriteRenderResult(renderRes, writer); err != nil {
		errPrinter.Ln("Error:", err)
		return nil, false
	}
	return renderRes, true
}

// WriteExport writes the tabular export of every transaction replayed.
func WriteExport(w io.Writer, renderRes *AppRenderResult) error {
	return ptf.WriteExportCsv(w, renderRes.Txs)
}
