package domain

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_EvenSplit(t *testing.T) {
	type Test struct {
		total int
		n     int
		exp   []int
	}
	testCases := []Test{
		{total: 100, n: 4, exp: []int{25, 25, 25, 25}},
		{total: 10, n: 3, exp: []int{3, 3, 4}},
		{total: 11, n: 4, exp: []int{2, 3, 3, 3}},
		{total: 2, n: 3, exp: []int{0, 1, 1}},
		{total: 7, n: 1, exp: []int{7}},
		{total: 7, n: 0, exp: nil},
	}
	for i, tc := range testCases {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			got := EvenSplit(tc.total, tc.n)
			assert.Equal(t, tc.exp, got)
			sum := 0
			for _, s := range got {
				sum += s
			}
			if tc.n > 0 {
				assert.Equal(t, tc.total, sum)
			}
		})
	}
}
