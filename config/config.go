package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/tsiemens/capgains/date"
	ptf "github.com/tsiemens/capgains/portfolio"
)

const (
	EnvConfigFile = "CAPGAINS_CONFIG"
	EnvMethod     = "CAPGAINS_METHOD"
	EnvDateFormat = "CAPGAINS_DATE_FMT"
	EnvCsvOutDir  = "CAPGAINS_CSV_OUTDIR"
)

// Config holds the settings of a capgains run. Values are layered:
// defaults, then the YAML file, then the environment, then CLI flags.
type Config struct {
	Method          string `yaml:"method"`
	DateFormat      string `yaml:"date_format"`
	CsvOutDir       string `yaml:"csv_outdir"`
	PrintFullValues bool   `yaml:"print_full_values"`
	WashSales       bool   `yaml:"wash_sales"`
	SortTxs         bool   `yaml:"sort"`
	Years           []int  `yaml:"years"`
}

func Default() *Config {
	return &Config{
		Method:     ptf.FIFO.String(),
		DateFormat: date.DefaultFormat,
		WashSales:  true,
	}
}

func (c *Config) Validate() error {
	if _, err := ptf.ParseCostBasisMethod(c.Method); err != nil {
		return fmt.Errorf("invalid method: %w", err)
	}
	if strings.TrimSpace(c.DateFormat) == "" {
		return fmt.Errorf("date_format cannot be empty")
	}
	for _, y := range c.Years {
		if y < 1 || y > 9999 {
			return fmt.Errorf("invalid year %d", y)
		}
	}
	return nil
}

func (c *Config) CostBasisMethod() ptf.CostBasisMethod {
	m, err := ptf.ParseCostBasisMethod(c.Method)
	if err != nil {
		return ptf.FIFO
	}
	return m
}

// LoadFile overlays the YAML file at path onto c. Keys absent from the file
// keep their current values.
func (c *Config) LoadFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvMethod); v != "" {
		c.Method = v
	}
	if v := os.Getenv(EnvDateFormat); v != "" {
		c.DateFormat = v
	}
	if v := os.Getenv(EnvCsvOutDir); v != "" {
		c.CsvOutDir = v
	}
}

// Load builds the config from defaults, the config file (configPath, or
// $CAPGAINS_CONFIG) and the environment. A .env file in the working
// directory is loaded first if there is one.
func Load(configPath string) (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	c := Default()
	if configPath == "" {
		configPath = os.Getenv(EnvConfigFile)
	}
	if configPath != "" {
		if err := c.LoadFile(configPath); err != nil {
			return nil, fmt.Errorf("config file: %w", err)
		}
	}
	c.applyEnv()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return c, nil
}
