package ops

func or(l, r uint8, _ Params) uint8  { return l | r }
func and(l, r uint8, _ Params) uint8 { return l & r }
func xor(l, r uint8, _ Params) uint8 { return l ^ r }

// add wraps mod 256
func add(l, r uint8, _ Params) uint8 { return l + r }

func sub(l, r uint8, p Params) uint8 {
	if p.Raw || l >= r {
		return l - r
	}
	return 0
}

// mult wraps mod 256
func mult(l, r uint8, _ Params) uint8 { return l * r }

// pow raises l to the r-th power, saturating at 255. 0^0 is 1.
func pow(l, r uint8, _ Params) uint8 {
	if r == 0 {
		return 1
	}
	if l <= 1 {
		return l
	}
	acc := uint32(1)
	for i := uint8(0); i < r; i++ {
		acc *= uint32(l)
		if acc > 255 {
			return 255
		}
	}
	return uint8(acc)
}

func div(l, r uint8, _ Params) uint8 {
	return l / max(r, 1)
}

func average(l, r uint8, _ Params) uint8 {
	return uint8((uint16(l) + uint16(r)) / 2)
}

func screen(l, r uint8, _ Params) uint8 {
	return uint8(255 - (255-int(l))*(255-int(r))/255)
}

// overlay multiplies in the darks and screens in the lights, keyed on l.
func overlay(l, r uint8, _ Params) uint8 {
	if l < 128 {
		return uint8(2 * int(l) * int(r) / 255)
	}
	return uint8(255 - 2*(255-int(l))*(255-int(r))/255)
}

// shiftLeft saturates at 255 unless raw, in which case it behaves like a
// fixed-width wrapping shift: the amount is taken mod 8 and the result
// truncated to 8 bits.
func shiftLeft(l, _ uint8, p Params) uint8 {
	if p.Raw {
		return l << (p.Bits & 7)
	}
	if l == 0 {
		return 0
	}
	if p.Bits >= 8 {
		return 255
	}
	return uint8(min(uint16(l)<<p.Bits, 255))
}

func shiftRight(l, _ uint8, p Params) uint8 {
	if p.Raw {
		return l >> (p.Bits & 7)
	}
	if p.Bits >= 8 {
		return 0
	}
	return l >> p.Bits
}
