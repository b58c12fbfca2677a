package bignum

import (
	"math"
	"math/big"

	"github.com/montanaflynn/stats"
)

// Stats returns base 2 logarithm of the standard deviation
// and the mean of the values.
// Values are converted to float64 before aggregation.
func Stats(values []big.Int) [2]float64 {

	data := make(stats.Float64Data, len(values))
	f := new(big.Float)
	for i := range values {
		data[i], _ = f.SetInt(&values[i]).Float64()
	}

	mean, err := stats.Mean(data)
	if err != nil {
		return [2]float64{math.Inf(-1), 0}
	}

	std, err := stats.StandardDeviationSample(data)
	if err != nil {
		return [2]float64{math.Inf(-1), mean}
	}

	return [2]float64{math.Log2(std), mean}
}
