package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// This won't be as verbose as tracing, which is likely for testing only.
var VerboseEnabled = false

func Fverbosef(w io.Writer, format string, v ...interface{}) {
	if VerboseEnabled {
		fmt.Fprintf(w, format, v...)
	}
}

var traceMu sync.Mutex
var tracingLoaded = false

// Tags enabled. Value ignored
var TraceSetting = map[string]bool{}

var tracer *zap.SugaredLogger

// Supply the TRACE environment variable with a comma-separated list of
// trace tags to enable.
func LoadTraceSetting() {
	tracingLoaded = true
	traceVar := os.Getenv("TRACE")
	if traceVar != "" {
		tags := strings.Split(traceVar, ",")
		for _, tag := range tags {
			TraceSetting[strings.TrimSpace(tag)] = true
		}
	}
}

func MaybeLoadTraceSetting() {
	if !tracingLoaded {
		LoadTraceSetting()
	}
}

func traceLogger() *zap.SugaredLogger {
	if tracer == nil {
		cfg := zap.NewDevelopmentConfig()
		cfg.OutputPaths = []string{"stderr"}
		cfg.DisableStacktrace = true
		logger, err := cfg.Build()
		if err != nil {
			logger = zap.NewNop()
		}
		tracer = logger.Sugar()
	}
	return tracer
}

// SetTraceLogger overrides the trace backend. Tests use this to observe
// trace output.
func SetTraceLogger(l *zap.Logger) {
	traceMu.Lock()
	defer traceMu.Unlock()
	tracer = l.Sugar()
}

func TraceEnabled(tag string) bool {
	traceMu.Lock()
	defer traceMu.Unlock()
	MaybeLoadTraceSetting()
	return TraceSetting[tag]
}

func Tracef(tag string, format string, v ...interface{}) {
	if !TraceEnabled(tag) {
		return
	}
	traceMu.Lock()
	defer traceMu.Unlock()
	traceLogger().Debugw(fmt.Sprintf(format, v...), "tag", tag)
}

type ErrorPrinter interface {
	Ln(v ...interface{})
	F(format string, v ...interface{})
}

// The default ErrorPrinter
type StderrErrorPrinter struct{}

func (p *StderrErrorPrinter) Ln(v ...interface{}) {
	fmt.Fprintln(os.Stderr, v...)
}

func (p *StderrErrorPrinter) F(format string, v ...interface{}) {
	fmt.Fprintf(os.Stderr, format, v...)
}

// Collects printed errors, for callers that need to show them somewhere
// other than stderr.
type BufErrorPrinter struct {
	Buf strings.Builder
}

func (p *BufErrorPrinter) Ln(v ...interface{}) {
	fmt.Fprintln(&p.Buf, v...)
}

func (p *BufErrorPrinter) F(format string, v ...interface{}) {
	fmt.Fprintf(&p.Buf, format, v...)
}
