package rlwe

import (
	"encoding/json"

	"github.com/sealedhe/sealed/ring"
)

// ParametersLiteral is a literal representation of BFV parameters. It has public fields and
// is used to express unchecked user-defined parameters literally into Go programs.
// The [NewParametersFromLiteral] function is used to generate the actual checked parameters
// from the literal representation.
//
// Users must set the polynomial degree (LogN) and the plaintext modulus (T).
// The coefficient modulus can be set in one of three ways:
//   - by setting Q to the desired moduli chain;
//   - by setting LogQ to the desired moduli sizes, the primes are then generated;
//   - by leaving both unset, in which case the largest modulus allowed by the
//     [SecurityTable] for (N, Security) is generated.
//
// Optionally, users may specify the distribution of the secret (Xs) and of the error (Xe).
// If left unset, [DefaultXs] and [DefaultXe] are substituted at parameter creation.
type ParametersLiteral struct {
	LogN     int
	Q        []uint64                    `json:",omitempty"`
	LogQ     []int                       `json:",omitempty"`
	T        uint64
	Security int                         `json:",omitempty"`
	Xs       ring.DistributionParameters `json:",omitempty"`
	Xe       ring.DistributionParameters `json:",omitempty"`
}

// DefaultParametersLiteral is a parameter set with N=2048 and T=256, whose
// coefficient modulus is derived from the [SecurityTable] at [DefaultSecurity] bits.
var DefaultParametersLiteral = ParametersLiteral{
	LogN:     11,
	T:        256,
	Security: DefaultSecurity,
}

func (p *ParametersLiteral) UnmarshalJSON(b []byte) (err error) {
	var pl struct {
		LogN     int
		Q        []uint64
		LogQ     []int
		T        uint64
		Security int
		Xs       map[string]interface{}
		Xe       map[string]interface{}
	}

	if err = json.Unmarshal(b, &pl); err != nil {
		return err
	}

	p.LogN = pl.LogN
	p.Q, p.LogQ = pl.Q, pl.LogQ
	p.T = pl.T
	p.Security = pl.Security

	if pl.Xs != nil {
		if p.Xs, err = ring.DistributionParametersFromMap(pl.Xs); err != nil {
			return err
		}
	}

	if pl.Xe != nil {
		if p.Xe, err = ring.DistributionParametersFromMap(pl.Xe); err != nil {
			return err
		}
	}

	return
}
