package outfmt

import (
	"fmt"
	"io"

	"github.com/tsiemens/capgains/portfolio"
)

type STDWriter struct {
	w io.Writer
}

func NewSTDWriter(w io.Writer) *STDWriter {
	return &STDWriter{
		w: w,
	}
}

func title(outType OutputType) string {
	switch outType {
	case Gains:
		return "Realized Capital Gains"
	case Summary:
		return "Tax Summary"
	case YearlyGains:
		return "Capital Gains by Year"
	case AssetGains:
		return "Capital Gains by Asset"
	case WashSales:
		return "Wash Sales"
	case Issues:
		return "Data Issues"
	default:
		panic(fmt.Sprint("OutputType ", int(outType), " is not implemented"))
	}
}

// PrintRenderTable implements ReportWriter.
func (w *STDWriter) PrintRenderTable(outType OutputType, tableModel *portfolio.RenderTable) error {
	portfolio.PrintRenderTable(title(outType), tableModel, w.w)
	_, err := fmt.Fprintln(w.w, "")
	return err
}
