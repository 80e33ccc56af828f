package domain

// EvenSplit divides total into n integer shares as evenly as possible. The
// remainder goes one unit at a time to the last shares.
func EvenSplit(total, n int) []int {
	if n <= 0 {
		return nil
	}
	base := total / n
	shares := make([]int, n)
	for i := range shares {
		shares[i] = base
	}
	for i := 0; i < total-base*n; i++ {
		shares[n-1-i]++
	}
	return shares
}
