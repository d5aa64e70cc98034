package search

import "math"

// DivisorSum returns the sum of the proper divisors of candidate. Divisors
// are found by trial division up to the integer square root, pairing each hit
// with its cofactor. The accumulator is 64-bit; the divisor sum of a 32-bit
// integer cannot overflow it.
func DivisorSum(candidate uint32) uint64 {
	if candidate < 2 {
		return 0
	}
	sum := uint64(1)
	limit := integerSqrt(candidate)
	for index := uint32(2); index <= limit; index++ {
		if candidate%index != 0 {
			continue
		}
		sum += uint64(index)
		if cofactor := candidate / index; cofactor != index {
			sum += uint64(cofactor)
		}
	}
	return sum
}

// IsPerfect reports whether candidate equals the sum of its proper divisors.
func IsPerfect(candidate uint32) bool {
	if candidate < 2 {
		return false
	}
	return DivisorSum(candidate) == uint64(candidate)
}

// integerSqrt returns floor(sqrt(n)). The float approximation is corrected
// in both directions so the result is exact for every 32-bit input.
func integerSqrt(n uint32) uint32 {
	root := uint64(math.Sqrt(float64(n)))
	for root > 0 && root*root > uint64(n) {
		root--
	}
	for (root+1)*(root+1) <= uint64(n) {
		root++
	}
	return uint32(root)
}
