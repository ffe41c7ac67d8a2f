// Package config loads table rules from an optional HCL file.
//
//	table {
//	  decks          = 6
//	  shuffle_passes = 3
//	  min_bet        = 10
//	  bet_unit       = 10
//	  min_deposit    = 10
//	}
//
//	payoffs {
//	  blackjack           = 0.5
//	  insurance           = 2.0
//	  insurance_threshold = 1.5
//	}
package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/lox/blackjack/internal/blackjack"
)

// Config represents the complete rules file
type Config struct {
	Table   *TableConfig   `hcl:"table,block"`
	Payoffs *PayoffsConfig `hcl:"payoffs,block"`
}

// TableConfig holds shoe and betting limits
type TableConfig struct {
	Decks         int `hcl:"decks,optional"`
	ShufflePasses int `hcl:"shuffle_passes,optional"`
	MinBet        int `hcl:"min_bet,optional"`
	BetUnit       int `hcl:"bet_unit,optional"`
	MinDeposit    int `hcl:"min_deposit,optional"`
}

// PayoffsConfig holds the fractional payoffs. Side-bet multipliers are fixed.
type PayoffsConfig struct {
	Blackjack          *float64 `hcl:"blackjack,optional"`
	Insurance          *float64 `hcl:"insurance,optional"`
	InsuranceThreshold *float64 `hcl:"insurance_threshold,optional"`
}

// DefaultMinDeposit is the smallest balance a player may sit down with
const DefaultMinDeposit = 10

// Default returns the built-in rules
func Default() *Config {
	rules := blackjack.DefaultRules()
	return &Config{
		Table: &TableConfig{
			Decks:         rules.Decks,
			ShufflePasses: rules.ShufflePasses,
			MinBet:        rules.MinBet,
			BetUnit:       rules.BetUnit,
			MinDeposit:    DefaultMinDeposit,
		},
		Payoffs: &PayoffsConfig{
			Blackjack:          ptr(rules.Payoffs.Blackjack),
			Insurance:          ptr(rules.Payoffs.Insurance),
			InsuranceThreshold: ptr(rules.InsuranceThreshold),
		},
	}
}

// Load reads the rules file. A missing file yields the defaults.
func Load(filename string) (*Config, error) {
	if filename == "" {
		return Default(), nil
	}
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}
	return Parse(src, filename)
}

// Parse decodes HCL source; filename is only used in diagnostics
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config.applyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// applyDefaults fills every field the file left out
func (c *Config) applyDefaults() {
	def := Default()
	if c.Table == nil {
		c.Table = def.Table
	}
	if c.Payoffs == nil {
		c.Payoffs = def.Payoffs
	}

	if c.Table.Decks == 0 {
		c.Table.Decks = def.Table.Decks
	}
	if c.Table.ShufflePasses == 0 {
		c.Table.ShufflePasses = def.Table.ShufflePasses
	}
	if c.Table.MinBet == 0 {
		c.Table.MinBet = def.Table.MinBet
	}
	if c.Table.BetUnit == 0 {
		c.Table.BetUnit = def.Table.BetUnit
	}
	if c.Table.MinDeposit == 0 {
		c.Table.MinDeposit = max(def.Table.MinDeposit, c.Table.MinBet)
	}

	// Zero is a meaningful payoff, so only absent values are defaulted
	if c.Payoffs.Blackjack == nil {
		c.Payoffs.Blackjack = def.Payoffs.Blackjack
	}
	if c.Payoffs.Insurance == nil {
		c.Payoffs.Insurance = def.Payoffs.Insurance
	}
	if c.Payoffs.InsuranceThreshold == nil {
		c.Payoffs.InsuranceThreshold = def.Payoffs.InsuranceThreshold
	}
}

// Validate validates the rules
func (c *Config) Validate() error {
	if c.Table == nil || c.Payoffs == nil {
		return fmt.Errorf("table and payoffs must be set")
	}
	if c.Table.ShufflePasses < 1 {
		return fmt.Errorf("shuffle passes must be positive, got %d", c.Table.ShufflePasses)
	}
	if c.Table.MinDeposit < c.Table.MinBet {
		return fmt.Errorf("min deposit %d is below the minimum bet %d", c.Table.MinDeposit, c.Table.MinBet)
	}
	return c.Rules().Validate()
}

// Rules maps the file onto engine rules
func (c *Config) Rules() blackjack.Rules {
	rules := blackjack.DefaultRules()
	rules.Decks = c.Table.Decks
	rules.ShufflePasses = c.Table.ShufflePasses
	rules.MinBet = c.Table.MinBet
	rules.BetUnit = c.Table.BetUnit
	if c.Payoffs.Blackjack != nil {
		rules.Payoffs.Blackjack = *c.Payoffs.Blackjack
	}
	if c.Payoffs.Insurance != nil {
		rules.Payoffs.Insurance = *c.Payoffs.Insurance
	}
	if c.Payoffs.InsuranceThreshold != nil {
		rules.InsuranceThreshold = *c.Payoffs.InsuranceThreshold
	}
	return rules
}

// CheckDeposit rejects a starting balance below the table minimum
func (c *Config) CheckDeposit(amount int) error {
	if amount < c.Table.MinDeposit {
		return fmt.Errorf("deposit %d is below the minimum of %d", amount, c.Table.MinDeposit)
	}
	return nil
}

func ptr[T any](v T) *T {
	return &v
}
