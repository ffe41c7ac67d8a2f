package simulator

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lox/blackjack/internal/statistics"
)

// Report is the machine-readable result of a simulation
type Report struct {
	Strategy  string     `json:"strategy"`
	Seed      int64      `json:"seed"`
	Sessions  int        `json:"sessions"`
	Rounds    int        `json:"rounds"`
	Hands     int        `json:"hands"`
	Bet       int        `json:"bet"`
	SideLeft  int        `json:"perfect_pairs"`
	SideRight int        `json:"twenty_one_plus_three"`
	Mean      float64    `json:"mean"`
	Median    float64    `json:"median"`
	StdDev    float64    `json:"std_dev"`
	StdError  float64    `json:"std_error"`
	CI95      [2]float64 `json:"ci95"`
	Return    float64    `json:"return"`

	MainNet      float64 `json:"main_net"`
	SideNet      float64 `json:"side_net"`
	InsuranceNet float64 `json:"insurance_net"`

	Wins           int `json:"wins"`
	Losses         int `json:"losses"`
	Pushes         int `json:"pushes"`
	Busts          int `json:"busts"`
	Blackjacks     int `json:"blackjacks"`
	Doubles        int `json:"doubles"`
	Splits         int `json:"splits"`
	InsuranceTaken int `json:"insurance_taken"`
	InsuranceWon   int `json:"insurance_won"`
	SideBetHits    int `json:"side_bet_hits"`
}

// NewReport summarises stats for the run described by cfg
func NewReport(cfg Config, stats *statistics.Statistics) Report {
	low, high := stats.ConfidenceInterval95()
	return Report{
		Strategy:       cfg.Strategy,
		Seed:           cfg.Seed,
		Sessions:       cfg.Sessions,
		Rounds:         stats.Rounds,
		Hands:          stats.Hands,
		Bet:            cfg.Bet,
		SideLeft:       cfg.SideLeft,
		SideRight:      cfg.SideRight,
		Mean:           stats.Mean(),
		Median:         stats.Median(),
		StdDev:         stats.StdDev(),
		StdError:       stats.StdError(),
		CI95:           [2]float64{low, high},
		Return:         stats.Return(),
		MainNet:        stats.MainNet,
		SideNet:        stats.SideNet,
		InsuranceNet:   stats.InsuranceNet,
		Wins:           stats.Wins,
		Losses:         stats.Losses,
		Pushes:         stats.Pushes,
		Busts:          stats.Busts,
		Blackjacks:     stats.Blackjacks,
		Doubles:        stats.Doubles,
		Splits:         stats.Splits,
		InsuranceTaken: stats.InsuranceTaken,
		InsuranceWon:   stats.InsuranceWon,
		SideBetHits:    stats.SideBetHits,
	}
}

// WriteReport writes the report as JSON. Readers see either the previous
// file or the complete new one, never a partial write.
func WriteReport(filename string, report Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return writeFileAtomic(filename, append(data, '\n'), 0o644)
}

func writeFileAtomic(filename string, data []byte, perm os.FileMode) error {
	// Same directory, so the rename stays on one filesystem
	tmpFile, err := os.CreateTemp(filepath.Dir(filename), filepath.Base(filename)+".tmp.*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	defer func() {
		if tmpFile != nil {
			_ = tmpFile.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	tmpFile = nil

	if err := os.Chmod(tmpPath, perm); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpPath, filename); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}
