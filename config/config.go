package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. CTR_TARGET_POINTS.
const EnvPrefix = "CTR"

// Config holds runtime configuration for acquisition, display and output.
// Values are layered: defaults, JSON file, environment, command-line flags.
type Config struct {
	// ConfigFile is where the layered values were read from; Save writes back there.
	ConfigFile string `json:"-" mapstructure:"config"`

	Debug      bool `json:"debug" mapstructure:"debug"`
	ConsoleLog bool `json:"console_log" mapstructure:"console_log"`

	// Input
	InputFile string `json:"input_file" mapstructure:"input_file"`
	Variable  string `json:"variable" mapstructure:"variable"`

	// Acquisition
	TargetPoints      int     `json:"target_points" mapstructure:"target_points"`
	StopOnOriginClick bool    `json:"stop_on_origin_click" mapstructure:"stop_on_origin_click"`
	StopThreshold     float64 `json:"stop_threshold" mapstructure:"stop_threshold"`

	// Frame display
	DisplayMin   float64 `json:"display_min" mapstructure:"display_min"`
	DisplayMax   float64 `json:"display_max" mapstructure:"display_max"`
	Aspect       float64 `json:"aspect" mapstructure:"aspect"`
	DisplayWidth int     `json:"display_width" mapstructure:"display_width"`

	// Scatter axes
	ScatterXMax float64 `json:"scatter_x_max" mapstructure:"scatter_x_max"`
	ScatterYMin float64 `json:"scatter_y_min" mapstructure:"scatter_y_min"`
	ScatterYMax float64 `json:"scatter_y_max" mapstructure:"scatter_y_max"`

	// Output
	BinWidth     float64 `json:"bin_width" mapstructure:"bin_width"`
	OutputSuffix string  `json:"output_suffix" mapstructure:"output_suffix"`
}

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	return &Config{
		InputFile:     "./01_element.mat",
		Variable:      "RData",
		TargetPoints:  100,
		StopThreshold: 20,
		DisplayMin:    0,
		DisplayMax:    3e5,
		Aspect:        0.333,
		DisplayWidth:  512,
		ScatterXMax:   500,
		ScatterYMin:   -50,
		ScatterYMax:   0,
		BinWidth:      10,
		OutputSuffix:  "_CTR",
	}
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// Validate clamps/normalizes values to safe ranges.
func (c *Config) Validate() error {
	d := DefaultConfig()
	if c.Variable == "" {
		c.Variable = d.Variable
	}
	if c.TargetPoints <= 0 {
		c.TargetPoints = d.TargetPoints
	}
	if c.StopThreshold < 0 || !finite(c.StopThreshold) {
		c.StopThreshold = d.StopThreshold
	}
	if !finite(c.DisplayMin) || !finite(c.DisplayMax) || c.DisplayMax <= c.DisplayMin {
		c.DisplayMin, c.DisplayMax = d.DisplayMin, d.DisplayMax
	}
	if c.Aspect <= 0 || !finite(c.Aspect) {
		c.Aspect = d.Aspect
	}
	if c.DisplayWidth < 64 {
		c.DisplayWidth = d.DisplayWidth
	}
	if c.ScatterXMax <= 0 || !finite(c.ScatterXMax) {
		c.ScatterXMax = d.ScatterXMax
	}
	if !finite(c.ScatterYMin) || !finite(c.ScatterYMax) || c.ScatterYMax <= c.ScatterYMin {
		c.ScatterYMin, c.ScatterYMax = d.ScatterYMin, d.ScatterYMax
	}
	if c.BinWidth <= 0 || !finite(c.BinWidth) {
		c.BinWidth = d.BinWidth
	}
	if c.InputFile == "" {
		return errors.New("no input file configured")
	}
	return nil
}

// NewFlagSet declares the command-line flags. Flag names use dashes; each
// maps onto the config key with underscores.
func NewFlagSet(name string) *pflag.FlagSet {
	d := DefaultConfig()
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.Usage = func() {}
	fs.StringP("config", "c", "", "JSON config file")
	fs.StringP("input-file", "i", d.InputFile, "MAT file holding the frames")
	fs.String("variable", d.Variable, "variable name inside the MAT file")
	fs.IntP("target-points", "n", d.TargetPoints, "number of records to collect")
	fs.Bool("stop-on-origin-click", d.StopOnOriginClick, "end a frame when a signal click lands in the upper-left corner")
	fs.Float64("stop-threshold", d.StopThreshold, "coordinate sum at or below which a click pair counts as the corner")
	fs.Float64("display-min", d.DisplayMin, "frame value mapped to black")
	fs.Float64("display-max", d.DisplayMax, "frame value mapped to white")
	fs.Float64("aspect", d.Aspect, "vertical pixel aspect of the frame view")
	fs.Int("display-width", d.DisplayWidth, "frame view width in screen pixels")
	fs.Float64("scatter-x-max", d.ScatterXMax, "depth axis limit of the live scatter")
	fs.Float64("scatter-y-min", d.ScatterYMin, "lower contrast limit of the live scatter")
	fs.Float64("scatter-y-max", d.ScatterYMax, "upper contrast limit of the live scatter")
	fs.Float64("bin-width", d.BinWidth, "depth bin width of the summary")
	fs.String("output-suffix", d.OutputSuffix, "suffix appended to the output base name")
	fs.Bool("console-log", d.ConsoleLog, "human readable log output")
	fs.Bool("debug", d.Debug, "debug logging and runtime stats")
	return fs
}

func flagKey(name string) string { return strings.ReplaceAll(name, "-", "_") }

// Load parses args and layers the sources. A positional argument overrides
// the input file. A missing config file is not an error.
func Load(args []string) (*Config, error) {
	fs := NewFlagSet("ctr-meter")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	v := viper.New()
	setDefaults(v, DefaultConfig())
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	var bindErr error
	fs.VisitAll(func(f *pflag.Flag) {
		if err := v.BindPFlag(flagKey(f.Name), f); err != nil && bindErr == nil {
			bindErr = err
		}
	})
	if bindErr != nil {
		return nil, bindErr
	}

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("json")
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if fs.NArg() > 0 {
		cfg.InputFile = fs.Arg(0)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("config", d.ConfigFile)
	v.SetDefault("debug", d.Debug)
	v.SetDefault("console_log", d.ConsoleLog)
	v.SetDefault("input_file", d.InputFile)
	v.SetDefault("variable", d.Variable)
	v.SetDefault("target_points", d.TargetPoints)
	v.SetDefault("stop_on_origin_click", d.StopOnOriginClick)
	v.SetDefault("stop_threshold", d.StopThreshold)
	v.SetDefault("display_min", d.DisplayMin)
	v.SetDefault("display_max", d.DisplayMax)
	v.SetDefault("aspect", d.Aspect)
	v.SetDefault("display_width", d.DisplayWidth)
	v.SetDefault("scatter_x_max", d.ScatterXMax)
	v.SetDefault("scatter_y_min", d.ScatterYMin)
	v.SetDefault("scatter_y_max", d.ScatterYMax)
	v.SetDefault("bin_width", d.BinWidth)
	v.SetDefault("output_suffix", d.OutputSuffix)
}

// Save writes the configuration to the given path in JSON format.
func (c *Config) Save(path string) error {
	_ = c.Validate()
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}
