// Package seed holds the fixed record set every fresh store starts from.
package seed

import (
	_ "embed"
	"fmt"

	"github.com/Sn1ff3hr/chabella/internal/entity"

	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var _seedYAML []byte

type Data struct {
	Products []*entity.Product       `yaml:"products"`
	Profile  *entity.BusinessProfile `yaml:"profile"`
}

// Load decodes a fresh copy of the seed set on every call, so callers may
// mutate the result.
func Load() (*Data, error) {
	var data Data
	if err := yaml.Unmarshal(_seedYAML, &data); err != nil {
		return nil, fmt.Errorf("seed.Load: unmarshal: %w", err)
	}
	if data.Profile == nil {
		return nil, fmt.Errorf("seed.Load: profile missing")
	}
	return &data, nil
}

// MustLoad is Load for the embedded data, which is known to be valid.
func MustLoad() *Data {
	data, err := Load()
	if err != nil {
		panic(err)
	}
	return data
}

// LastSequence returns the number of seeded asset ids, which is where
// sequence allocation continues from.
func (d *Data) LastSequence() int64 {
	return int64(len(d.Products))
}
