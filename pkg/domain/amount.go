package domain

import "strconv"

// Amount is a monetary value in minor units of the pool currency. Signed so
// that collaborator ledgers can express debits, but every amount accepted by
// the engines must be strictly positive.
type Amount int64

// Positive reports whether the amount is strictly greater than zero.
func (a Amount) Positive() bool { return a > 0 }

func (a Amount) Int64() int64 { return int64(a) }

func (a Amount) String() string { return strconv.FormatInt(int64(a), 10) }

// AddChecked returns a+b and reports whether the addition overflowed.
func (a Amount) AddChecked(b Amount) (Amount, bool) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, false
	}
	return sum, true
}

// SubChecked returns a-b and reports whether the subtraction overflowed.
func (a Amount) SubChecked(b Amount) (Amount, bool) {
	diff := a - b
	if (b < 0 && diff < a) || (b > 0 && diff > a) {
		return 0, false
	}
	return diff, true
}
