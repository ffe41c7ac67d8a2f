package main

import (
	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Play     PlayCmd          `cmd:"" default:"withargs" help:"Play at the table from the terminal"`
	Simulate SimulateCmd      `cmd:"" help:"Run bot sessions and report results"`
}

func main() {
	// A missing .env is fine; anything it sets reaches kong through env tags
	_ = godotenv.Load()

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("blackjack"),
		kong.Description("Single-player blackjack with side bets, insurance and splits"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version":    version,
			"strategies": "basic,stand,random",
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
