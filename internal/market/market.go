// Package market holds the reference data describing which futures markets
// the pipeline tracks. The collection is loaded from an explicit YAML file
// passed by the caller; nothing here reads ambient environment state.
package market

import (
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/mantle-quant/mantle/pkg/errors"
)

// Market describes one futures market by its root symbol and classification.
type Market struct {
	// Root is the underlying root symbol, e.g. "ES".
	Root string
	// Name is the human-readable market name, e.g. "E-mini S&P 500".
	Name       string `yaml:"name"`
	AssetClass string `yaml:"asset_class"`
	Sector     string `yaml:"sector"`
	SubSector  string `yaml:"sub_sector"`
}

// Markets is a collection of Market entries keyed by root symbol.
type Markets map[string]Market

// LoadMarkets reads a market reference file. When roots is non-empty, only
// the named roots are kept; an unknown requested root is an error.
func LoadMarkets(path string, roots ...string) (Markets, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeMarketConfigNotFound, err, "failed to read market config %s", path)
	}

	var entries map[string]Market
	if err := yaml.Unmarshal(raw, &entries); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeMarketConfigInvalid, err, "failed to parse market config %s", path)
	}

	markets := make(Markets, len(entries))

	for root, m := range entries {
		m.Root = root
		markets[root] = m
	}

	if len(roots) == 0 {
		return markets, nil
	}

	selected := make(Markets, len(roots))

	for _, root := range roots {
		m, ok := markets[root]
		if !ok {
			return nil, errors.Newf(errors.ErrCodeMarketNotFound, "market %s not present in %s", root, path)
		}

		selected[root] = m
	}

	return selected, nil
}

// Filter returns the subset matching the given asset class and/or sector.
// Empty arguments match everything.
func (m Markets) Filter(assetClass, sector string) Markets {
	filtered := make(Markets)

	for root, market := range m {
		if assetClass != "" && market.AssetClass != assetClass {
			continue
		}

		if sector != "" && market.Sector != sector {
			continue
		}

		filtered[root] = market
	}

	return filtered
}

// Roots returns the root symbols in ascending order.
func (m Markets) Roots() []string {
	roots := make([]string, 0, len(m))
	for root := range m {
		roots = append(roots, root)
	}

	sort.Strings(roots)

	return roots
}

// AssetClasses returns the distinct asset classes in the collection.
func (m Markets) AssetClasses() []string {
	return m.distinct(func(market Market) string { return market.AssetClass })
}

// Sectors returns the distinct sectors in the collection.
func (m Markets) Sectors() []string {
	return m.distinct(func(market Market) string { return market.Sector })
}

func (m Markets) distinct(key func(Market) string) []string {
	seen := make(map[string]struct{})

	var values []string

	for _, market := range m {
		k := key(market)
		if _, ok := seen[k]; ok {
			continue
		}

		seen[k] = struct{}{}

		values = append(values, k)
	}

	sort.Strings(values)

	return values
}
