package ring

// ModSwitch returns round(x * 2^logModulus / 2^64) mod 2^logModulus
// for x in the native representation and 1 <= logModulus < 64.
func ModSwitch(x uint64, logModulus int) uint64 {
	res := x >> (63 - logModulus)
	res = (res + 1) >> 1
	return res & (1<<logModulus - 1)
}

// ModSwitchManyLUT returns round(x * 2^logModulus / 2^64) rounded to the closest
// multiple of 2^logLUTCount, mod 2^logModulus.
func ModSwitchManyLUT(x uint64, logModulus, logLUTCount int) uint64 {
	shift := 64 - logModulus + logLUTCount
	res := x + 1<<(shift-1)
	res >>= shift
	return (res << logLUTCount) & (1<<logModulus - 1)
}
