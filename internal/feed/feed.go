package feed

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

var ErrMalformed = errors.New("malformed price list")

type Category struct {
	ID   uint   `yaml:"id"`
	Name string `yaml:"name"`
}

type Good struct {
	ID         uint           `yaml:"id"`
	Category   uint           `yaml:"category"`
	Name       string         `yaml:"name"`
	Model      string         `yaml:"model"`
	Price      uint           `yaml:"price"`
	PriceRRC   uint           `yaml:"price_rrc"`
	Quantity   uint           `yaml:"quantity"`
	Parameters map[string]any `yaml:"parameters"`
}

// ParameterValues flattens the mixed-type parameter map to strings,
// the form they are stored in.
func (g Good) ParameterValues() map[string]string {
	out := make(map[string]string, len(g.Parameters))
	for name, value := range g.Parameters {
		out[name] = fmt.Sprint(value)
	}
	return out
}

type PriceList struct {
	Shop       string     `yaml:"shop"`
	Categories []Category `yaml:"categories"`
	Goods      []Good     `yaml:"goods"`
}

func Parse(data []byte) (*PriceList, error) {
	var pl PriceList
	if err := yaml.Unmarshal(data, &pl); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if err := pl.validate(); err != nil {
		return nil, err
	}
	return &pl, nil
}

func (pl *PriceList) validate() error {
	if pl.Shop == "" {
		return fmt.Errorf("%w: missing shop name", ErrMalformed)
	}
	known := make(map[uint]bool, len(pl.Categories))
	for i, c := range pl.Categories {
		if c.ID == 0 || c.Name == "" {
			return fmt.Errorf("%w: category #%d needs id and name", ErrMalformed, i+1)
		}
		known[c.ID] = true
	}
	for i, g := range pl.Goods {
		if g.Name == "" {
			return fmt.Errorf("%w: good #%d has no name", ErrMalformed, i+1)
		}
		if !known[g.Category] {
			return fmt.Errorf("%w: good %q references unknown category %d", ErrMalformed, g.Name, g.Category)
		}
	}
	return nil
}
