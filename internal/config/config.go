// Package config loads the scopt CLI configuration from defaults, an
// optional YAML file, SCOPT_* environment variables and command-line flags,
// in increasing order of precedence.
package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/born-ml/scopt/internal/dataset"
	"github.com/born-ml/scopt/internal/nn"
	"github.com/born-ml/scopt/internal/optim"
	"github.com/born-ml/scopt/internal/parallel"
	"github.com/born-ml/scopt/internal/tensor"
)

// EnvPrefix is prepended to every environment override, e.g.
// SCOPT_OPTIMIZER_NAME or SCOPT_TRAIN_STEPS.
const EnvPrefix = "SCOPT"

// Config is the full CLI configuration. Each section maps to a top-level
// key of the YAML file.
type Config struct {
	Optimizer OptimizerConfig `mapstructure:"optimizer"`
	Data      DataConfig      `mapstructure:"data"`
	Train     TrainConfig     `mapstructure:"train"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Log       LogConfig       `mapstructure:"log"`
}

// OptimizerConfig selects the optimizer and its runtime options.
//
// Hyperparameters may be nested under params or written inline next to
// name, which is the shape the config command prints. Nested values win
// when a key appears in both places.
type OptimizerConfig struct {
	Name      string  `mapstructure:"name"`
	ClipNorm  float64 `mapstructure:"clipnorm"`
	ClipValue float64 `mapstructure:"clipvalue"`
	// Workers > 1 updates parameters concurrently; 0 uses one per CPU.
	Workers int `mapstructure:"workers"`
	// Constraint applied to the model weight: none, nonneg, maxnorm or unitnorm.
	Constraint string  `mapstructure:"constraint"`
	MaxNorm    float64 `mapstructure:"max_norm"`
	// Params holds optimizer-specific hyperparameters (lr, xi_1, gamma, ...)
	// under the keys GetConfig produces.
	Params map[string]any `mapstructure:"params"`
	// Inline collects every other key of the section. Load folds it into
	// Params.
	Inline map[string]any `mapstructure:",remain"`
}

// DataConfig describes the synthetic ridge-regression problem.
type DataConfig struct {
	Samples  int             `mapstructure:"samples"`
	Features int             `mapstructure:"features"`
	Noise    float64         `mapstructure:"noise"`
	Lambda   float64         `mapstructure:"lambda"`
	Seed     uint64          `mapstructure:"seed"`
	DType    tensor.DataType `mapstructure:"dtype"`
}

// TrainConfig controls the step driver.
type TrainConfig struct {
	Steps     int    `mapstructure:"steps"`
	LogEvery  int    `mapstructure:"log_every"`
	ModelSeed uint64 `mapstructure:"model_seed"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	// Addr serves /metrics when non-empty, e.g. ":9090".
	Addr string `mapstructure:"addr"`
}

// LogConfig controls logrus output.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // text or json
}

var defaults = map[string]any{
	"optimizer.name":       optim.SCAdagradName,
	"optimizer.clipnorm":   0.0,
	"optimizer.clipvalue":  0.0,
	"optimizer.workers":    1,
	"optimizer.constraint": "none",
	"optimizer.max_norm":   1.0,
	"data.samples":         256,
	"data.features":        8,
	"data.noise":           0.1,
	"data.lambda":          0.01,
	"data.seed":            1,
	"data.dtype":           "float64",
	"train.steps":          500,
	"train.log_every":      50,
	"train.model_seed":     2,
	"metrics.addr":         "",
	"log.level":            "info",
	"log.format":           "text",
}

// FlagKeys maps command-line flag names to the config keys they override.
var FlagKeys = map[string]string{
	"optimizer":    "optimizer.name",
	"lr":           "optimizer.params.lr",
	"decay":        "optimizer.params.decay",
	"workers":      "optimizer.workers",
	"constraint":   "optimizer.constraint",
	"steps":        "train.steps",
	"log-every":    "train.log_every",
	"seed":         "data.seed",
	"dtype":        "data.dtype",
	"metrics-addr": "metrics.addr",
	"log-level":    "log.level",
}

// Load resolves the configuration. path may be empty; flags may be nil.
// Only flags the user changed override lower layers.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "reading config file %s", path)
		}
	}

	if flags != nil {
		flags.Visit(func(f *pflag.Flag) {
			if key, ok := FlagKeys[f.Name]; ok {
				v.Set(key, f.Value.String())
			}
		})
	}

	var cfg Config
	hooks := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		DataTypeHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
	))
	if err := v.Unmarshal(&cfg, hooks); err != nil {
		return nil, errors.Wrap(err, "decoding config")
	}
	cfg.Optimizer.foldInline()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DataTypeHookFunc decodes "float32"/"float64" into a tensor.DataType.
func DataTypeHookFunc() mapstructure.DecodeHookFuncType {
	return func(
		f reflect.Type,
		t reflect.Type,
		data interface{},
	) (interface{}, error) {
		if f.Kind() != reflect.String || t != reflect.TypeOf(tensor.Float32) {
			return data, nil
		}
		dt, ok := tensor.ParseDataType(data.(string))
		if !ok {
			return nil, fmt.Errorf("unknown dtype %q, want float32 or float64", data)
		}
		return dt, nil
	}
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var result *multierror.Error

	known := false
	for _, name := range optim.Names() {
		if name == c.Optimizer.Name {
			known = true
		}
	}
	if !known {
		result = multierror.Append(result, fmt.Errorf("optimizer.name: unknown optimizer %q (known: %s)",
			c.Optimizer.Name, strings.Join(optim.Names(), ", ")))
	}
	if c.Optimizer.Workers < 0 {
		result = multierror.Append(result, fmt.Errorf("optimizer.workers: must be >= 0, got %d", c.Optimizer.Workers))
	}
	if _, err := c.Optimizer.WeightConstraint(); err != nil {
		result = multierror.Append(result, err)
	}
	if c.Data.Samples <= 0 || c.Data.Features <= 0 {
		result = multierror.Append(result, fmt.Errorf("data: samples and features must be > 0"))
	}
	if c.Data.Lambda <= 0 {
		result = multierror.Append(result, fmt.Errorf("data.lambda: must be > 0, got %v", c.Data.Lambda))
	}
	if c.Train.Steps < 0 {
		result = multierror.Append(result, fmt.Errorf("train.steps: must be >= 0, got %d", c.Train.Steps))
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		result = multierror.Append(result, errors.Wrap(err, "log.level"))
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		result = multierror.Append(result, fmt.Errorf("log.format: want text or json, got %q", c.Log.Format))
	}

	return result.ErrorOrNil()
}

// foldInline moves inline hyperparameters into Params without overriding
// nested ones.
func (c *OptimizerConfig) foldInline() {
	if len(c.Inline) == 0 {
		return
	}
	if c.Params == nil {
		c.Params = make(map[string]any, len(c.Inline))
	}
	for k, v := range c.Inline {
		if _, ok := c.Params[k]; !ok {
			c.Params[k] = v
		}
	}
	c.Inline = nil
}

// WorkerCount resolves Workers, mapping 0 to one worker per CPU.
func (c OptimizerConfig) WorkerCount() int {
	if c.Workers == 0 {
		return parallel.DefaultConfig().NumWorkers
	}
	return c.Workers
}

// Hyperparameters returns the map optim.FromConfig accepts.
func (c OptimizerConfig) Hyperparameters() map[string]any {
	out := make(map[string]any, len(c.Params)+3)
	for k, v := range c.Params {
		out[k] = v
	}
	out["name"] = c.Name
	out["clipnorm"] = c.ClipNorm
	out["clipvalue"] = c.ClipValue
	return out
}

// WeightConstraint returns the configured weight constraint, or nil for "none".
func (c OptimizerConfig) WeightConstraint() (nn.Constraint, error) {
	switch c.Constraint {
	case "", "none":
		return nil, nil
	case "nonneg":
		return nn.NonNeg{}, nil
	case "maxnorm":
		if c.MaxNorm <= 0 {
			return nil, fmt.Errorf("optimizer.max_norm: must be > 0, got %v", c.MaxNorm)
		}
		return nn.MaxNorm{Max: c.MaxNorm}, nil
	case "unitnorm":
		return nn.UnitNorm{}, nil
	default:
		return nil, fmt.Errorf("optimizer.constraint: unknown constraint %q", c.Constraint)
	}
}

// Ridge returns the dataset configuration.
func (c DataConfig) Ridge() dataset.RidgeConfig {
	return dataset.RidgeConfig{
		Samples:  c.Samples,
		Features: c.Features,
		Noise:    c.Noise,
		Lambda:   c.Lambda,
		Seed:     c.Seed,
		DType:    c.DType,
	}
}
