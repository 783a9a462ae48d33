package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/lukehollenback/cryptsy/exchange/cryptsy"
	"github.com/lukehollenback/cryptsy/exchange/cryptsy/web"
	"github.com/lukehollenback/cryptsy/inbox/imap"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"
)

func jsonOutput(c *cli.Context, in interface{}) error {
	if result, ok := in.(cryptsy.Result); ok {
		in = result.Raw()
	}

	j, err := json.MarshalIndent(in, "", "  ")
	if err != nil {
		return errors.WithStack(err)
	}

	_, err = fmt.Fprintln(c.App.Writer, string(j))

	return err
}

//
// requireArgs shows the command's help and fails unless at least n positional arguments were given.
//
func requireArgs(c *cli.Context, n int) error {
	if c.NArg() >= n {
		return nil
	}

	_ = cli.ShowCommandHelp(c, c.Command.Name)

	return cli.Exit(fmt.Sprintf("%s expects %d argument(s)", c.Command.Name, n), 1)
}

func decimalArg(c *cli.Context, index int, name string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(c.Args().Get(index))
	if err != nil {
		return decimal.Zero, errors.Wrapf(err, "invalid %s %q", name, c.Args().Get(index))
	}

	return d, nil
}

//
// keyValueArgs turns "key=value" arguments into request parameters.
//
func keyValueArgs(args []string) (url.Values, error) {
	params := url.Values{}

	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok || k == "" {
			return nil, errors.Errorf("parameter %q is not of the form key=value", arg)
		}

		params.Add(k, v)
	}

	return params, nil
}

func apiClient() (*cryptsy.Client, error) {
	if err := cfg.ValidateAPI(); err != nil {
		return nil, err
	}

	return cryptsy.NewClient(cfg.API.PublicKey, cfg.API.PrivateKey, cryptsy.Config{
		BaseURL:            cfg.API.URL,
		InsecureSkipVerify: !cfg.API.VerifyTLS,
		Timeout:            cfg.API.Timeout,
		RateLimit:          cfg.API.RateLimit,
	}), nil
}

//
// webSession returns a web client that has completed both login steps.
//
func webSession(ctx context.Context) (*web.Client, error) {
	if err := cfg.ValidateWeb(); err != nil {
		return nil, err
	}

	client, err := web.NewClient(cfg.Web.Username, cfg.Web.Password, cfg.Web.TFASecret, web.Config{
		BaseURL:            cfg.Web.URL,
		InsecureSkipVerify: !cfg.Web.VerifyTLS,
		Timeout:            cfg.Web.Timeout,
	})
	if err != nil {
		return nil, err
	}

	if _, err := client.Login(ctx); err != nil {
		return nil, errors.Wrap(err, "login failed")
	}

	if _, err := client.Pincode(ctx); err != nil {
		return nil, errors.Wrap(err, "pincode failed")
	}

	return client, nil
}

func dialInbox(ctx context.Context) (*imap.Inbox, error) {
	if err := cfg.ValidateInbox(); err != nil {
		return nil, err
	}

	return imap.Dial(ctx, imap.Config{
		Addr:     cfg.Inbox.Addr,
		Username: cfg.Inbox.Username,
		Password: cfg.Inbox.Password,
		Mailbox:  cfg.Inbox.Mailbox,
		Sender:   cfg.Inbox.Sender,
		Peek:     cfg.Inbox.Peek,
	})
}

func printResponse(c *cli.Context, resp *web.Response) error {
	_, err := fmt.Fprintf(c.App.Writer, "%d %s\n", resp.StatusCode(), resp.Location())

	return err
}
