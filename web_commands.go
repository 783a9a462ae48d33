package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/logrusorgru/aurora"
	"github.com/lukehollenback/cryptsy/confirmation"
	"github.com/lukehollenback/cryptsy/exchange/cryptsy/web"
	"github.com/lukehollenback/cryptsy/service"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

var kindFlag = &cli.StringFlag{
	Name:  "kind",
	Value: "trusted",
	Usage: "which confirmation e-mails to look for (trusted or withdrawal)",
}

var trustCommand = &cli.Command{
	Name:      "trust",
	Usage:     "submits an address for pre-approved withdrawals through the web front end",
	ArgsUsage: "<currencyid> <address>",
	Action: func(c *cli.Context) error {
		if err := requireArgs(c, 2); err != nil {
			return err
		}

		currencyID, err := strconv.Atoi(c.Args().First())
		if err != nil {
			return errors.Wrapf(err, "invalid currency id %q", c.Args().First())
		}

		client, err := webSession(c.Context)
		if err != nil {
			return err
		}

		resp, err := client.AddTrustedAddress(c.Context, currencyID, c.Args().Get(1))
		if err != nil {
			return err
		}

		return printResponse(c, resp)
	},
}

var webWithdrawCommand = &cli.Command{
	Name:      "web-withdraw",
	Usage:     "withdraws to any address through the web front end",
	ArgsUsage: "<currencyid> <address> <amount>",
	Action: func(c *cli.Context) error {
		if err := requireArgs(c, 3); err != nil {
			return err
		}

		currencyID, err := strconv.Atoi(c.Args().First())
		if err != nil {
			return errors.Wrapf(err, "invalid currency id %q", c.Args().First())
		}

		amount, err := decimalArg(c, 2, "amount")
		if err != nil {
			return err
		}

		client, err := webSession(c.Context)
		if err != nil {
			return err
		}

		resp, err := client.MakeWithdrawal(c.Context, currencyID, c.Args().Get(1), amount)
		if err != nil {
			return err
		}

		return printResponse(c, resp)
	},
}

var pollCommand = &cli.Command{
	Name:  "poll",
	Usage: "looks for confirmation links in the configured inbox",
	Flags: []cli.Flag{
		kindFlag,
		&cli.BoolFlag{Name: "until-found", Usage: "keep polling until at least one link shows up"},
		&cli.BoolFlag{Name: "confirm", Usage: "log in to the web front end and visit every link found"},
		&cli.DurationFlag{Name: "interval", Usage: "time between polls (defaults to the configured interval)"},
	},
	Action: func(c *cli.Context) error {
		pattern, ok := confirmation.PatternFor(c.String("kind"))
		if !ok {
			return cli.Exit(fmt.Sprintf("unknown confirmation kind %q", c.String("kind")), 1)
		}

		inbox, err := dialInbox(c.Context)
		if err != nil {
			return err
		}

		defer func() {
			if err := inbox.Logout(); err != nil {
				log.WithError(err).Warn("Failed to log out of the inbox.")
			}
		}()

		poller, err := confirmation.NewPoller(inbox, pattern)
		if err != nil {
			return err
		}

		var links []string

		if c.Bool("until-found") {
			interval := c.Duration("interval")
			if interval <= 0 {
				interval = cfg.Poller.Interval
			}

			links, err = poller.RunUntilFound(c.Context, interval)
		} else {
			links, err = poller.RunOnce(c.Context)
		}

		if err != nil {
			return err
		}

		for _, link := range links {
			if _, err := fmt.Fprintln(c.App.Writer, link); err != nil {
				return err
			}
		}

		if !c.Bool("confirm") || len(links) == 0 {
			return nil
		}

		client, err := webSession(c.Context)
		if err != nil {
			return err
		}

		for _, link := range links {
			if err := confirm(c.Context, client, link); err != nil {
				return err
			}
		}

		return nil
	},
}

var watchCommand = &cli.Command{
	Name:  "watch",
	Usage: "keeps watching the inbox and visits every new confirmation link",
	Flags: []cli.Flag{kindFlag},
	Action: func(c *cli.Context) error {
		pattern, ok := confirmation.PatternFor(c.String("kind"))
		if !ok {
			return cli.Exit(fmt.Sprintf("unknown confirmation kind %q", c.String("kind")), 1)
		}

		client, err := webSession(c.Context)
		if err != nil {
			return err
		}

		inbox, err := dialInbox(c.Context)
		if err != nil {
			return err
		}

		defer func() {
			if err := inbox.Logout(); err != nil {
				log.WithError(err).Warn("Failed to log out of the inbox.")
			}
		}()

		poller, err := confirmation.NewPoller(inbox, pattern)
		if err != nil {
			return err
		}

		watcher := confirmation.NewWatcher(poller, cfg.Poller.Interval, cfg.Poller.Memory)
		watcher.RegisterLinkHandler(func(ctx context.Context, link string) error {
			return confirm(ctx, client, link)
		})

		return runUntilDone(c.Context, watcher)
	},
}

func confirm(ctx context.Context, client *web.Client, link string) error {
	resp, err := client.Confirm(ctx, link)
	if err != nil {
		return errors.Wrapf(err, "failed to confirm %s", link)
	}

	log.Infof("Confirmed %s. (Status: %d)", link, aurora.Green(resp.StatusCode()))

	return nil
}

//
// runUntilDone starts a service, blocks until the context is done, and then stops the service and
// waits for it to shut down.
//
func runUntilDone(ctx context.Context, svc service.Service) error {
	chStarted, err := svc.Start()
	if err != nil {
		return err
	}

	<-chStarted

	<-ctx.Done()

	chStopped, err := svc.Stop()
	if err != nil {
		return err
	}

	<-chStopped

	return nil
}
