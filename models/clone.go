package models

import (
	"github.com/tiendc/go-deepcopy"
)

// CloneItems returns a deep copy of items. Manual overrides are copied by
// value, so editing the result never reaches the source.
func CloneItems(items []MasterItem) ([]MasterItem, error) {
	if items == nil {
		return []MasterItem{}, nil
	}
	var out []MasterItem
	if err := deepcopy.Copy(&out, items); err != nil {
		return nil, err
	}
	return out, nil
}

// CloneLine returns a deep copy of a BQ line.
func CloneLine(line BQItem) (BQItem, error) {
	var out BQItem
	if err := deepcopy.Copy(&out, line); err != nil {
		return BQItem{}, err
	}
	return out, nil
}
