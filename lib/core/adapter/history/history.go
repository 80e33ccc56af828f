//go:generate mockgen -destination ../../../mocks/history/history.go example.com/swarmpolicy/lib/core/adapter/history History
package history

import "example.com/swarmpolicy/lib/core/domain"

// History is the local agent's ledger of past rounds, round 0 first.
type History interface {
	// CurrentRound is the round being decided; rounds [0, CurrentRound) are recorded.
	CurrentRound() int
	// Downloads returns the records of one round, or nil when out of range.
	Downloads(round int) []domain.Download
	// Range returns rounds [from, to). A negative from yields nil rather than
	// wrapping around; to is clamped to the recorded rounds.
	Range(from, to int) [][]domain.Download
}
