package ring

// ModExp return y = x^e mod q,
// x and p are required to be at most 64 bits to avoid an overflow.
func ModExp(x, e, q uint64) (y uint64) {

	brc := GetBRedConstant(q)

	y = 1

	if q&1 == 1 {

		mrc := GetMRedConstant(q)

		y = MForm(y, q, brc)
		x = MForm(x, q, brc)

		for i := e; i > 0; i >>= 1 {
			if i&1 == 1 {
				y = MRed(y, x, q, mrc)
			}
			x = MRed(x, x, q, mrc)
		}

		return IMForm(y, q, mrc)
	}

	x = BRedAdd(x, q, brc)

	for i := e; i > 0; i >>= 1 {
		if i&1 == 1 {
			y = BRed(y, x, q, brc)
		}
		x = BRed(x, x, q, brc)
	}

	return BRedAdd(y, q, brc)
}

// ModExpMontgomery performs the modular exponentiation x^e mod p,
// where x is in Montgomery form, and returns x^e in Montgomery form.
func ModExpMontgomery(x, e, q, mrc uint64, bredconstant [2]uint64) (result uint64) {

	result = MForm(1, q, bredconstant)

	for i := e; i > 0; i >>= 1 {
		if i&1 == 1 {
			result = MRed(result, x, q, mrc)
		}
		x = MRed(x, x, q, mrc)
	}
	return result
}
