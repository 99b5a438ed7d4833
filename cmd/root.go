package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tsiemens/capgains/app"
	"github.com/tsiemens/capgains/app/outfmt"
	"github.com/tsiemens/capgains/config"
	"github.com/tsiemens/capgains/log"
	ptf "github.com/tsiemens/capgains/portfolio"
)

// Flag values. Empty/zero values mean "use the config".
var (
	ConfigPath      string
	MethodOpt       string
	YearsOpt        []int
	AllYears        bool
	SortTxs         bool
	NoWashSales     bool
	ExportPath      string
	CsvOutDir       string
	DateFmt         string
	PrintFullValues bool
)

// resolveConfig layers the command line flags over the loaded config.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	conf, err := config.Load(ConfigPath)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("method") {
		conf.Method = MethodOpt
	}
	if flags.Changed("year") {
		conf.Years = YearsOpt
	}
	if flags.Changed("sort") {
		conf.SortTxs = SortTxs
	}
	if flags.Changed("no-wash-sales") {
		conf.WashSales = !NoWashSales
	}
	if flags.Changed("csv-outdir") {
		conf.CsvOutDir = CsvOutDir
	}
	if flags.Changed("date-fmt") {
		conf.DateFormat = DateFmt
	}
	if flags.Changed("print-full-values") {
		conf.PrintFullValues = PrintFullValues
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

func appOptions(conf *config.Config) app.Options {
	return app.Options{
		Method:                 conf.CostBasisMethod(),
		Years:                  conf.Years,
		AllYears:               AllYears,
		SortTxs:                conf.SortTxs,
		WashSales:              conf.WashSales,
		RenderFullDollarValues: conf.PrintFullValues,
	}
}

func openCsvs(paths []string) ([]app.DescribedReader, func(), error) {
	var files []*os.File
	closeAll := func() {
		for _, fp := range files {
			fp.Close()
		}
	}
	readers := make([]app.DescribedReader, 0, len(paths))
	for _, csvName := range paths {
		fp, err := os.Open(csvName)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		files = append(files, fp)
		readers = append(readers, app.DescribedReader{Desc: csvName, Reader: fp})
	}
	return readers, closeAll, nil
}

func run(ctx context.Context, cmd *cobra.Command, args []string, out io.Writer,
	errPrinter log.ErrorPrinter) bool {

	conf, err := resolveConfig(cmd)
	if err != nil {
		errPrinter.Ln("Error:", err)
		return false
	}
	ptf.CsvDateFormat = conf.DateFormat

	readers, closeAll, err := openCsvs(args)
	if err != nil {
		errPrinter.Ln("Error:", err)
		return false
	}
	defer closeAll()

	var writer outfmt.ReportWriter
	if conf.CsvOutDir != "" {
		writer, err = outfmt.NewCSVWriter(conf.CsvOutDir)
		if err != nil {
			errPrinter.Ln("Error:", err)
			return false
		}
	} else {
		writer = outfmt.NewSTDWriter(out)
	}

	options := appOptions(conf)
	log.Fverbosef(os.Stderr, "Method: %s, years: %v, wash sales: %v\n",
		options.Method, options.Years, options.WashSales)

	renderRes, ok := app.RunCapGainsAppToWriter(ctx, writer, readers, options, errPrinter)
	if !ok {
		return false
	}
	if ExportPath != "" {
		if err := writeExportFile(ExportPath, renderRes); err != nil {
			errPrinter.Ln("Error writing export:", err)
			return false
		}
		log.Fverbosef(os.Stderr, "Exported %d transactions to %s\n", len(renderRes.Txs), ExportPath)
	}
	return true
}

func writeExportFile(path string, renderRes *app.AppRenderResult) error {
	fp, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := app.WriteExport(fp, renderRes); err != nil {
		fp.Close()
		return err
	}
	return fp.Close()
}

func runRootCmd(cmd *cobra.Command, args []string) {
	ok := run(cmd.Context(), cmd, args, cmd.OutOrStdout(), &log.StderrErrorPrinter{})
	if !ok {
		os.Exit(1)
	}
}

func cmdName() string {
	binName := os.Args[0]
	return filepath.Base(binName)
}

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   cmdName() + " [CSV_FILE ...]",
	Short: "Capital gains and cost basis calculation tool",
	Long: fmt.Sprintf(
		`A cli tool which computes realized capital gains from a history of buy and
sell transactions, using FIFO, LIFO or specific lot identification.

Reports short and long term gains, yearly tax summaries and possible wash
sales (a loss sale followed by a repurchase within %d days).

Each CSV provided should contain a header with some of these column names:
%s
Date, type, asset and amount are required. Either value or price may be given.
 `, ptf.WashSaleWindowDays, strings.Join(ptf.ColNames, ", ")),
	Run:     runRootCmd,
	Args:    cobra.MinimumNArgs(1),
	Version: app.CapGainsVersion,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags, which are global to the app cli
	RootCmd.PersistentFlags().BoolVarP(&log.VerboseEnabled, "verbose", "v", false,
		"Print verbose output")
	RootCmd.PersistentFlags().StringVar(&ConfigPath, "config", "",
		"YAML config file. Defaults to $"+config.EnvConfigFile)
	RootCmd.PersistentFlags().StringVar(&DateFmt, "date-fmt", "",
		"Format of how dates appear in the csv file. Must represent Jan 2, 2006")

	RootCmd.Flags().StringVarP(&MethodOpt, "method", "m", "",
		"Cost basis method: fifo, lifo or specific")
	RootCmd.Flags().IntSliceVarP(&YearsOpt, "year", "y", []int{},
		"Tax year to summarize. May be provided multiple times.")
	RootCmd.Flags().BoolVar(&AllYears, "all-years", false,
		"Summarize every year which has transactions")
	RootCmd.Flags().BoolVar(&SortTxs, "sort", false,
		"Sort transactions by date before processing, instead of using input order")
	RootCmd.Flags().BoolVar(&NoWashSales, "no-wash-sales", false,
		"Do not report wash sales")
	RootCmd.Flags().StringVar(&ExportPath, "export", "",
		"Write every transaction to FILE in the tabular export format")
	RootCmd.Flags().StringVarP(&CsvOutDir, "csv-outdir", "o", "",
		"Write reports as CSV files into this directory, rather than to stdout")
	RootCmd.Flags().BoolVar(&PrintFullValues, "print-full-values", false,
		"Print dollar values without rounding")
}
