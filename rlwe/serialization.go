package rlwe

import (
	"bufio"
	"fmt"
	"io"

	"github.com/sealedhe/sealed/ring"
	"github.com/sealedhe/sealed/utils/buffer"
)

const (
	contextDetached uint8 = 0
	contextInline   uint8 = 1
)

// payload is implemented by the objects that are serialized
// along with the parameters needed to interpret them.
type payload interface {
	payloadSize(params *Parameters) int
	writePayload(w buffer.Writer) (n int64, err error)
	readPayload(r buffer.Reader, params *Parameters) (n int64, err error)
}

// objectSize returns the size of flag | [params] | payload.
func objectSize(params *Parameters, obj payload, inline bool) (size int) {
	size = 1
	if inline {
		size += params.BinarySize()
	}
	return size + obj.payloadSize(params)
}

// writeObject writes flag | [params] | payload on w.
func writeObject(w io.Writer, params *Parameters, obj payload, inline bool) (n int64, err error) {
	switch w := w.(type) {
	case buffer.Writer:

		var inc int64

		flag := contextDetached
		if inline {
			flag = contextInline
		}

		if inc, err = buffer.WriteUint8(w, flag); err != nil {
			return n + inc, fmt.Errorf("buffer.WriteUint8: %w", err)
		}

		n += inc

		if inline {
			if inc, err = params.WriteTo(w); err != nil {
				return n + inc, fmt.Errorf("params.WriteTo: %w", err)
			}

			n += inc
		}

		if inc, err = obj.writePayload(w); err != nil {
			return n + inc, err
		}

		n += inc

		return n, w.Flush()

	default:
		return writeObject(bufio.NewWriter(w), params, obj, inline)
	}
}

// readObject reads flag | [params] | payload from r.
// If the object was written without its parameters, params must be given,
// else [ErrMissingContext] is returned. If the object carries its parameters
// and params is not nil, both must be equal.
func readObject(r io.Reader, params *Parameters, obj payload) (p Parameters, n int64, err error) {
	switch r := r.(type) {
	case buffer.Reader:

		var inc int64

		var flag uint8
		if inc, err = buffer.ReadUint8(r, &flag); err != nil {
			return p, n + inc, fmt.Errorf("buffer.ReadUint8: %w", err)
		}

		n += inc

		switch flag {
		case contextDetached:

			if params == nil {
				return p, n, fmt.Errorf("%w: object was serialized without its parameters", ErrMissingContext)
			}

			p = *params

		case contextInline:

			if inc, err = p.ReadFrom(r); err != nil {
				return p, n + inc, fmt.Errorf("params.ReadFrom: %w", err)
			}

			n += inc

			if params != nil && !params.Equal(&p) {
				return p, n, fmt.Errorf("%w: serialized parameters do not match the provided parameters", ErrParameter)
			}

		default:
			return p, n, fmt.Errorf("invalid context flag: %d", flag)
		}

		if inc, err = obj.readPayload(r, &p); err != nil {
			return p, n + inc, err
		}

		return p, n + inc, nil

	default:
		return readObject(bufio.NewReader(r), params, obj)
	}
}

// writePolys writes each polynomial with [ring.RNSPoly.WriteTo].
func writePolys(w buffer.Writer, polys ...ring.RNSPoly) (n int64, err error) {
	var inc int64
	for _, p := range polys {
		if inc, err = p.WriteTo(w); err != nil {
			return n + inc, fmt.Errorf("ring.RNSPoly.WriteTo: %w", err)
		}
		n += inc
	}
	return
}

// readPolys reads polynomials written with [writePolys] and checks that
// their dimensions match params and that every coefficient is reduced
// modulo its prime.
func readPolys(r buffer.Reader, params *Parameters, polys ...*ring.RNSPoly) (n int64, err error) {

	var inc int64

	rQ := params.RingQ()
	N := params.N()

	for _, p := range polys {

		*p = rQ.NewRNSPoly()

		if inc, err = p.ReadFrom(r); err != nil {
			return n + inc, fmt.Errorf("ring.RNSPoly.ReadFrom: %w", err)
		}

		n += inc

		if len(*p) != len(rQ) {
			return n, fmt.Errorf("invalid polynomial: %d moduli but parameters have %d", len(*p), len(rQ))
		}

		for i, limb := range *p {

			if len(limb) != N {
				return n, fmt.Errorf("invalid polynomial: %d coefficients but N=%d", len(limb), N)
			}

			qi := rQ[i].Modulus
			for _, c := range limb {
				if c >= qi {
					return n, fmt.Errorf("invalid coefficient: %d >= q_%d=%d", c, i, qi)
				}
			}
		}
	}

	return
}

// polysSize is the size of count polynomials written with [writePolys]:
// a length prefix per polynomial and per limb.
func polysSize(params *Parameters, count int) int {
	return count * (8 + len(params.RingQ())*(8+8*params.N()))
}
