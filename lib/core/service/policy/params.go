package policy

import (
	"errors"
	"fmt"
)

var ErrInvalidParams = errors.New("invalid policy params")

// Params tunes every policy; each variant reads only its own fields.
type Params struct {
	// std
	Slots            int `json:"slots"`
	OptimisticRounds int `json:"optimistic_rounds"`

	// propshare, tourney
	FracRandomBW float64 `json:"frac_random_bw"`

	// tourney
	LenHistory         int     `json:"len_history"`
	HistoryDiscount    float64 `json:"history_discount"`
	RequestCountFactor float64 `json:"request_count_factor"`

	// tyrant
	Alpha float64 `json:"alpha"`
	Gamma float64 `json:"gamma"`
	R     int     `json:"r"`
	// Cap of 0 means the agent's upload capacity.
	Cap float64 `json:"cap"`
	// SpareCapacity spreads bandwidth left under the cap over the chosen
	// peers, but only while nobody is unchoked yet. Afterwards peers get tau.
	SpareCapacity bool `json:"spare_capacity"`
}

func DefaultParams() Params {
	return Params{
		Slots:              4,
		OptimisticRounds:   3,
		FracRandomBW:       0.1,
		LenHistory:         2,
		HistoryDiscount:    0.9,
		RequestCountFactor: 0.9,
		Alpha:              0.2,
		Gamma:              0.05,
		R:                  3,
		SpareCapacity:      true,
	}
}

func (p Params) Validate() error {
	switch {
	case p.Slots < 1:
		return fmt.Errorf("%w: slots must be at least 1", ErrInvalidParams)
	case p.OptimisticRounds < 1:
		return fmt.Errorf("%w: optimistic rounds must be at least 1", ErrInvalidParams)
	case p.FracRandomBW < 0 || p.FracRandomBW >= 1:
		return fmt.Errorf("%w: frac random bw must be in [0, 1)", ErrInvalidParams)
	case p.LenHistory < 1:
		return fmt.Errorf("%w: len history must be at least 1", ErrInvalidParams)
	case p.HistoryDiscount <= 0 || p.HistoryDiscount > 1:
		return fmt.Errorf("%w: history discount must be in (0, 1]", ErrInvalidParams)
	case p.RequestCountFactor < 0:
		return fmt.Errorf("%w: request count factor must not be negative", ErrInvalidParams)
	case p.Alpha <= 0:
		return fmt.Errorf("%w: alpha must be positive", ErrInvalidParams)
	case p.Gamma < 0 || p.Gamma >= 1:
		return fmt.Errorf("%w: gamma must be in [0, 1)", ErrInvalidParams)
	case p.R < 1:
		return fmt.Errorf("%w: r must be at least 1", ErrInvalidParams)
	case p.Cap < 0:
		return fmt.Errorf("%w: cap must not be negative", ErrInvalidParams)
	}
	return nil
}
