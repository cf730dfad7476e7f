package optim

import (
	"fmt"
	"sort"

	"github.com/mitchellh/mapstructure"

	"github.com/born-ml/scopt/internal/nn"
)

// Names lists every optimizer FromConfig can build, sorted.
func Names() []string {
	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// builder decodes a flat hyperparameter map into one optimizer's config
// and constructs it.
type builder func(hyper map[string]any, params []*nn.Parameter, base Config) (Optimizer, error)

var builders = map[string]builder{
	SCAdagradName: func(hyper map[string]any, params []*nn.Parameter, base Config) (Optimizer, error) {
		var c SCAdagradConfig
		if err := decode(hyper, &c); err != nil {
			return nil, err
		}
		c.Constraints, c.Workers = base.Constraints, base.Workers
		return NewSCAdagrad(params, c)
	},
	SCRMSPropName: func(hyper map[string]any, params []*nn.Parameter, base Config) (Optimizer, error) {
		var c SCRMSPropConfig
		if err := decode(hyper, &c); err != nil {
			return nil, err
		}
		c.Constraints, c.Workers = base.Constraints, base.Workers
		return NewSCRMSProp(params, c)
	},
	RMSPropVariantName: func(hyper map[string]any, params []*nn.Parameter, base Config) (Optimizer, error) {
		var c RMSPropVariantConfig
		if err := decode(hyper, &c); err != nil {
			return nil, err
		}
		c.Constraints, c.Workers = base.Constraints, base.Workers
		return NewRMSPropVariant(params, c)
	},
	SGDName: func(hyper map[string]any, params []*nn.Parameter, base Config) (Optimizer, error) {
		var c SGDConfig
		if err := decode(hyper, &c); err != nil {
			return nil, err
		}
		c.Constraints, c.Workers = base.Constraints, base.Workers
		return NewSGD(params, c)
	},
	AdamName: func(hyper map[string]any, params []*nn.Parameter, base Config) (Optimizer, error) {
		var c AdamConfig
		if err := decode(hyper, &c); err != nil {
			return nil, err
		}
		c.Constraints, c.Workers = base.Constraints, base.Workers
		return NewAdam(params, c)
	},
}

// FromConfig reconstructs an optimizer from the map GetConfig returns.
//
// The "name" key selects the optimizer; every other key must be one of
// its hyperparameters. Constraints and Workers are taken from runtime,
// since they are not serializable.
func FromConfig(cfg map[string]any, params []*nn.Parameter, runtime Config) (Optimizer, error) {
	name, ok := cfg["name"].(string)
	if !ok {
		return nil, fmt.Errorf("%w: missing string \"name\" key", ErrInvalidConfig)
	}
	build, ok := builders[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown optimizer %q (known: %v)", ErrInvalidConfig, name, Names())
	}

	hyper := make(map[string]any, len(cfg))
	for k, v := range cfg {
		if k != "name" {
			hyper[k] = v
		}
	}
	return build(hyper, params, runtime)
}

func decode(in map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(in); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}
