package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/lukehollenback/cryptsy/config"
	"github.com/lukehollenback/cryptsy/logger"
	"github.com/urfave/cli/v2"
)

const Name = "≪cryptsy-cli≫"

var (
	log = logger.New(Name)
	cfg *config.Config
)

func main() {
	//
	// Register a kill signal handler with the operating system so that we can gracefully shutdown if
	// necessary.
	//
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	osInterrupt := make(chan os.Signal, 1)

	signal.Notify(osInterrupt, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-osInterrupt:
			log.Info("An operating system interrupt has been received. Shutting down...")

			cancel()
		case <-ctx.Done():
		}
	}()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		log.WithError(err).Fatal("Command failed.")
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "cryptsy"
	app.Usage = "command line interface for the Cryptsy API, web front end, and push feed"
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "path to an optional YAML configuration file",
			EnvVars: []string{"CRYPTSY_CONFIG"},
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "enables debug logging",
		},
	}
	app.Before = func(c *cli.Context) error {
		logger.SetVerbose(c.Bool("verbose"))

		var err error

		cfg, err = config.Load(c.String("config"))

		return err
	}
	app.Commands = []*cli.Command{
		infoCommand,
		marketsCommand,
		marketCommand,
		depthCommand,
		ordersCommand,
		tradesCommand,
		transactionsCommand,
		transfersCommand,
		buyCommand,
		sellCommand,
		cancelCommand,
		feesCommand,
		addressCommand,
		withdrawCommand,
		callCommand,
		trustCommand,
		webWithdrawCommand,
		pollCommand,
		watchCommand,
		streamCommand,
	}

	return app
}
