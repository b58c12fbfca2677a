package ring

import (
	"encoding/json"
	"fmt"
)

const (
	discreteGaussianName = "DiscreteGaussian"
	ternaryDistName      = "Ternary"
	uniformDistName      = "Uniform"
)

// DistributionParameters is an interface for distribution
// parameters in the ring.
// There are three implementation of this interface:
//   - DiscreteGaussian for sampling polynomials with discretized
//     gaussian coefficient of given standard deviation and bound.
//   - Ternary for sampling polynomials with coefficients in [-1, 1].
//   - Uniform for sampling polynomial with uniformly random
//     coefficients in the ring.
type DistributionParameters interface {
	Equal(DistributionParameters) bool
	json.Marshaler
	mustBeDist()
}

// DiscreteGaussian represents the parameters of a
// discrete Gaussian distribution with standard
// deviation Sigma and bounds [-Bound, Bound].
type DiscreteGaussian struct {
	Sigma float64
	Bound float64
}

// Ternary represent the parameters of a distribution with coefficients
// in [-1, 0, 1]. Only one of its field must be set to a non-zero value:
//
//   - If P is set, each coefficient in the polynomial is sampled in [-1, 0, 1]
//     with probabilities [0.5*P, 1-P, 0.5*P].
//   - if H is set, the coefficients are sampled uniformly in the set of ternary
//     polynomials with H non-zero coefficients (i.e., of hamming weight H).
type Ternary struct {
	P float64
	H int
}

// Uniform represents the parameters of a uniform distribution
// i.e., with coefficients uniformly distributed in the given ring.
type Uniform struct{}

func (d DiscreteGaussian) Equal(other DistributionParameters) bool {
	switch other := other.(type) {
	case *DiscreteGaussian:
		return d.Sigma == other.Sigma && d.Bound == other.Bound
	default:
		return false
	}
}

// MarshalJSON encodes the distribution as a JSON object with its Type.
func (d DiscreteGaussian) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{"Type": discreteGaussianName, "Sigma": d.Sigma, "Bound": d.Bound})
}

func (d DiscreteGaussian) mustBeDist() {}

func (d Ternary) Equal(other DistributionParameters) bool {
	switch other := other.(type) {
	case *Ternary:
		return d.H == other.H && d.P == other.P
	default:
		return false
	}
}

// MarshalJSON encodes the distribution as a JSON object with its Type.
func (d Ternary) MarshalJSON() ([]byte, error) {
	if d.H != 0 {
		return json.Marshal(map[string]interface{}{"Type": ternaryDistName, "H": d.H})
	}
	return json.Marshal(map[string]interface{}{"Type": ternaryDistName, "P": d.P})
}

func (d Ternary) mustBeDist() {}

func (d Uniform) Equal(other DistributionParameters) bool {
	_, isUniform := other.(*Uniform)
	return isUniform
}

// MarshalJSON encodes the distribution as a JSON object with its Type.
func (d Uniform) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{"Type": uniformDistName})
}

func (d Uniform) mustBeDist() {}

func getFloatFromMap(distDef map[string]interface{}, key string) (float64, error) {
	val, hasVal := distDef[key]
	if !hasVal {
		return 0, fmt.Errorf("map specifies no value for %s", key)
	}
	f, isFloat := val.(float64)
	if !isFloat {
		return 0, fmt.Errorf("value for key %s in map should be of type float", key)
	}
	return f, nil
}

func getIntFromMap(distDef map[string]interface{}, key string) (int, error) {
	f, err := getFloatFromMap(distDef, key)
	if err != nil {
		return 0, err
	}
	if f != float64(int(f)) {
		return 0, fmt.Errorf("value for key %s in map should be an integer", key)
	}
	return int(f), nil
}

// DistributionParametersFromMap parses the decoded JSON object distDef,
// whose "Type" field selects the distribution.
func DistributionParametersFromMap(distDef map[string]interface{}) (DistributionParameters, error) {
	distTypeVal, specified := distDef["Type"]
	if !specified {
		return nil, fmt.Errorf("map specifies no distribution type")
	}
	distTypeStr, isString := distTypeVal.(string)
	if !isString {
		return nil, fmt.Errorf("value for key Type of map should be of type string")
	}
	switch distTypeStr {
	case uniformDistName:
		return &Uniform{}, nil
	case ternaryDistName:
		_, hasP := distDef["P"]
		_, hasH := distDef["H"]

		if hasP == hasH {
			return nil, fmt.Errorf("exactly one of the field P or H must be set")
		}

		if hasP {
			p, err := getFloatFromMap(distDef, "P")
			if err != nil {
				return nil, err
			}
			return &Ternary{P: p}, nil
		}

		h, err := getIntFromMap(distDef, "H")
		if err != nil {
			return nil, err
		}
		return &Ternary{H: h}, nil

	case discreteGaussianName:
		sigma, errSigma := getFloatFromMap(distDef, "Sigma")
		if errSigma != nil {
			return nil, errSigma
		}
		bound, errBound := getFloatFromMap(distDef, "Bound")
		if errBound != nil {
			return nil, errBound
		}
		return &DiscreteGaussian{Sigma: sigma, Bound: bound}, nil
	default:
		return nil, fmt.Errorf("distribution type %s does not exist", distTypeStr)
	}
}
