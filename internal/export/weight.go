package export

import (
	"gonum.org/v1/gonum/stat"

	"grnexport/internal/model"
)

// MeanWeight is the arithmetic mean of the present values. It is missing
// only when every value is missing.
func MeanWeight(vals ...float64) float64 {
	present := make([]float64, 0, len(vals))
	for _, v := range vals {
		if !model.IsNA(v) {
			present = append(present, v)
		}
	}
	if len(present) == 0 {
		return model.NA()
	}
	return stat.Mean(present, nil)
}
