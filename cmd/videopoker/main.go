package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Globals

	Version kong.VersionFlag `short:"v" help:"Show version"`
	Play    PlayCmd          `cmd:"" default:"1" help:"Play in the terminal (the default)"`
	Serve   ServeCmd         `cmd:"" help:"Serve the machine over HTTP and WebSocket"`
	Demo    DemoCmd          `cmd:"" help:"Watch the machine play itself"`
	History HistoryCmd       `cmd:"" help:"Inspect the gamble history"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("videopoker"),
		kong.Description("Jacks or Better video poker with double-or-nothing"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
