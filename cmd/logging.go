package cmd

import (
	"github.com/achilleasa/sunlight/log"
	"github.com/urfave/cli"
)

var logger = log.New("sunlight")

func setupLogging(ctx *cli.Context) {
	if level := ctx.GlobalString("log-level"); level != "" {
		if parsed, err := log.ParseLevel(level); err == nil {
			log.SetLevel(parsed)
		} else {
			logger.Warningf("ignoring unknown log level %q", level)
		}
	}

	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}

	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}
}
