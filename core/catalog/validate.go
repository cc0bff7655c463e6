package catalog

import (
	"errors"
	"fmt"

	"github.com/kilianp07/agvfleet/core/model"
)

// ErrEmpty is returned by Validate for a catalog without vehicles.
var ErrEmpty = errors.New("catalog has no vehicle types")

// Validate checks cat. An empty catalog is an error. Entries the sizing models
// would have to clamp are returned as warnings, in code order.
func Validate(cat model.Catalog) (warnings []error, err error) {
	if len(cat) == 0 {
		return nil, ErrEmpty
	}
	for _, code := range cat.Codes() {
		v := cat[code]
		if verr := v.Validate(); verr != nil {
			warnings = append(warnings, fmt.Errorf("vehicle %s: %w", code, verr))
		}
		for i, acc := range v.Accessories {
			if acc.BaseTime < 0 || acc.AmpDraw < 0 {
				warnings = append(warnings, fmt.Errorf("vehicle %s: accessory %d (%s) has negative values", code, i, acc.Name))
			}
		}
	}
	return warnings, nil
}
