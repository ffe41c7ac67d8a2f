package statistics

import (
	"fmt"
	"math"
	"sort"
)

// RoundResult represents the outcome of a single blackjack round.
// Amounts are in units of the base bet.
type RoundResult struct {
	Net          float64 // Net winnings across every wager
	Staked       float64 // Main (after doubles and splits), side bets and insurance
	MainNet      float64 // Main plus blackjack bonus
	SideNet      float64 // Perfect Pairs plus 21+3
	InsuranceNet float64
	Seed         int64 // Session seed, for replay

	Wins, Losses, Pushes int // Main-bet outcomes, one per hand
	Busts                int
	Blackjack            bool
	Doubled              bool
	Split                bool
	InsuranceTaken       bool
	InsuranceWon         bool
	SideBetHits          int
	Exited               bool
}

// Statistics tracks aggregate results of many rounds
type Statistics struct {
	Rounds int
	Sum    float64
	Sum2   float64   // Sum of squares for variance calculation
	Values []float64 // Store all values for median/percentile calculation

	// Where the money came from; AllNet must equal the three parts
	MainNet      float64
	SideNet      float64
	InsuranceNet float64
	AllNet       float64
	Staked       float64

	Hands          int
	Wins           int
	Losses         int
	Pushes         int
	Busts          int
	Blackjacks     int
	Doubles        int
	Splits         int
	InsuranceTaken int
	InsuranceWon   int
	SideBetHits    int
	Exits          int

	MaxWin  float64
	MaxLoss float64
}

// Mean returns the arithmetic mean of all results in units per round
func (s *Statistics) Mean() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.Sum / float64(s.Rounds)
}

// Variance returns the sample variance of all results
func (s *Statistics) Variance() float64 {
	if s.Rounds < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.Sum2 - float64(s.Rounds)*mean*mean) / float64(s.Rounds-1)
}

// StdDev returns the sample standard deviation of all results
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Rounds))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Return is the net result per unit staked; negative is the house edge
func (s *Statistics) Return() float64 {
	if s.Staked == 0 {
		return 0
	}
	return s.AllNet / s.Staked
}

// Add incorporates a new round result into the statistics
func (s *Statistics) Add(result RoundResult) {
	net := result.Net
	s.Rounds++
	s.Sum += net
	s.Sum2 += net * net
	s.Values = append(s.Values, net)

	s.MainNet += result.MainNet
	s.SideNet += result.SideNet
	s.InsuranceNet += result.InsuranceNet
	s.AllNet += net
	s.Staked += result.Staked

	s.Hands += result.Wins + result.Losses + result.Pushes
	s.Wins += result.Wins
	s.Losses += result.Losses
	s.Pushes += result.Pushes
	s.Busts += result.Busts
	s.SideBetHits += result.SideBetHits
	if result.Blackjack {
		s.Blackjacks++
	}
	if result.Doubled {
		s.Doubles++
	}
	if result.Split {
		s.Splits++
	}
	if result.InsuranceTaken {
		s.InsuranceTaken++
	}
	if result.InsuranceWon {
		s.InsuranceWon++
	}
	if result.Exited {
		s.Exits++
	}

	if net > s.MaxWin {
		s.MaxWin = net
	}
	if net < s.MaxLoss {
		s.MaxLoss = net
	}
}

// Merge folds other into s, as if every round of other had been added to s
func (s *Statistics) Merge(other *Statistics) {
	s.Rounds += other.Rounds
	s.Sum += other.Sum
	s.Sum2 += other.Sum2
	s.Values = append(s.Values, other.Values...)

	s.MainNet += other.MainNet
	s.SideNet += other.SideNet
	s.InsuranceNet += other.InsuranceNet
	s.AllNet += other.AllNet
	s.Staked += other.Staked

	s.Hands += other.Hands
	s.Wins += other.Wins
	s.Losses += other.Losses
	s.Pushes += other.Pushes
	s.Busts += other.Busts
	s.Blackjacks += other.Blackjacks
	s.Doubles += other.Doubles
	s.Splits += other.Splits
	s.InsuranceTaken += other.InsuranceTaken
	s.InsuranceWon += other.InsuranceWon
	s.SideBetHits += other.SideBetHits
	s.Exits += other.Exits

	s.MaxWin = math.Max(s.MaxWin, other.MaxWin)
	s.MaxLoss = math.Min(s.MaxLoss, other.MaxLoss)
}

// Median returns the median value of all results
func (s *Statistics) Median() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// Percentile returns the value at the given percentile (0.0 to 1.0)
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// Rate returns n as a fraction of rounds
func (s *Statistics) Rate(n int) float64 {
	if s.Rounds == 0 {
		return 0
	}
	return float64(n) / float64(s.Rounds)
}

// IsLedgerBalanced checks that the per-wager totals add up to the net
func (s *Statistics) IsLedgerBalanced() bool {
	return math.Abs(s.AllNet-s.MainNet-s.SideNet-s.InsuranceNet) <= 1e-6
}

// Validate performs consistency checks on the statistics
func (s *Statistics) Validate() error {
	if !s.IsLedgerBalanced() {
		return fmt.Errorf("ledger mismatch: AllNet=%.6f, MainNet=%.6f, SideNet=%.6f, InsuranceNet=%.6f",
			s.AllNet, s.MainNet, s.SideNet, s.InsuranceNet)
	}

	if s.Rounds <= 0 {
		return fmt.Errorf("invalid rounds count: %d", s.Rounds)
	}

	if len(s.Values) != s.Rounds {
		return fmt.Errorf("values array length (%d) does not match rounds count (%d)",
			len(s.Values), s.Rounds)
	}

	if s.Wins+s.Losses+s.Pushes != s.Hands {
		return fmt.Errorf("hand outcomes (%d) do not match hands played (%d)",
			s.Wins+s.Losses+s.Pushes, s.Hands)
	}

	if s.Blackjacks > s.Rounds || s.Splits > s.Rounds {
		return fmt.Errorf("per-round counts exceed rounds: blackjacks=%d splits=%d rounds=%d",
			s.Blackjacks, s.Splits, s.Rounds)
	}

	return nil
}
