package web

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/logrusorgru/aurora"
	"github.com/lukehollenback/cryptsy/constants"
	"github.com/lukehollenback/cryptsy/exchange"
	"github.com/lukehollenback/cryptsy/logger"
	"github.com/pkg/errors"
	"github.com/pquerna/otp/totp"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/publicsuffix"
)

//
// Config holds the construction-time settings of a Client.
//
type Config struct {
	BaseURL            string         // Root URL of the web front end. Defaults to https://www.cryptsy.com.
	InsecureSkipVerify bool           // Disables verification of server certificates.
	Timeout            time.Duration  // Per-request timeout of the default HTTP client.
	TokenPattern       *regexp.Regexp // Names of the inputs scraped as CSRF tokens. Defaults to DefaultTokenPattern.

	HTTPClient *http.Client  // Template for the HTTP client. Its cookie jar and redirect policy are replaced.
	Logger     *logrus.Entry // Overrides the default service logger.
}

func DefaultConfig() Config {
	return Config{
		BaseURL: constants.WebBaseURL,
		Timeout: constants.DefaultTimeout,
	}
}

//
// Client drives workflows of the exchange's web front end that the API does not permit, including
// withdrawals to untrusted addresses and pre-approving addresses for withdrawal. Authentication is
// carried entirely by the session cookies accumulated in its in-memory jar, so a Client must be
// logged in (Login followed by Pincode) before privileged calls will succeed.
//
// A Client is meant to be owned by a single goroutine.
//
type Client struct {
	username  string
	password  string
	tfaSecret string

	base         *url.URL
	jar          http.CookieJar
	httpClient   *http.Client
	tokenPattern *regexp.Regexp
	now          func() time.Time
	logger       *logrus.Entry
}

func NewClient(username string, password string, tfaSecret string, cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = constants.WebBaseURL
	}

	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid base URL %q", cfg.BaseURL)
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create cookie jar")
	}

	//
	// Build the HTTP client. Redirects are surfaced to the caller rather than followed because they
	// are how the front end reports the outcome of a form submission.
	//
	var httpClient http.Client

	if cfg.HTTPClient != nil {
		httpClient = *cfg.HTTPClient
	} else {
		httpClient = http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				TLSClientConfig: &tls.Config{
					InsecureSkipVerify: cfg.InsecureSkipVerify, // nolint:gosec // opt-in via Config.InsecureSkipVerify
				},
			},
		}
	}

	httpClient.Jar = jar
	httpClient.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}

	o := &Client{
		username:     username,
		password:     password,
		tfaSecret:    tfaSecret,
		base:         base,
		jar:          jar,
		httpClient:   &httpClient,
		tokenPattern: cfg.TokenPattern,
		now:          time.Now,
		logger:       cfg.Logger,
	}

	if o.tokenPattern == nil {
		o.tokenPattern = regexp.MustCompile(DefaultTokenPattern)
	}

	if o.logger == nil {
		o.logger = logger.New(Name)
	}

	return o, nil
}

//
// Login submits the configured username and password. On success the front end redirects either to
// the dashboard or, for accounts with two-factor authentication, to the pincode form.
//
func (o *Client) Login(ctx context.Context) (*Response, error) {
	form := url.Values{}
	form.Set(UsernameField, o.username)
	form.Set(PasswordField, o.password)

	resp, err := o.PostWithCSRF(ctx, LoginPath, form)
	if err != nil {
		return resp, err
	}

	o.logger.Infof("Submitted login for %s. (Status: %d, Location: %q)", o.username, resp.StatusCode(), resp.Location())

	return resp, nil
}

//
// Pincode finishes logging in by submitting the current time-based one-time code.
//
func (o *Client) Pincode(ctx context.Context) (*Response, error) {
	code, err := o.oneTimeCode()
	if err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set(PincodeField, code)

	return o.PostWithCSRF(ctx, PincodePath, form)
}

//
// AddTrustedAddress submits an address for pre-approved withdrawals of the specified currency. The
// exchange then e-mails a confirmation link that must be visited (see Confirm) before the address
// becomes trusted.
//
func (o *Client) AddTrustedAddress(ctx context.Context, currencyID int, address string) (*Response, error) {
	code, err := o.oneTimeCode()
	if err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set(CurrencyIDField, strconv.Itoa(currencyID))
	form.Set(AddressField, address)
	form.Set(ExistingPasswordField, o.password)
	form.Set(WithdrawalPinField, code)

	resp, err := o.PostWithCSRF(ctx, AddTrustedAddressPath, form)
	if err != nil {
		return resp, err
	}

	o.logger.Infof("Requested trusted address %s for currency %d.", aurora.Bold(address), currencyID)

	return resp, nil
}

//
// MakeWithdrawal requests a withdrawal of the specified currency to an address that need not be
// trusted.
//
func (o *Client) MakeWithdrawal(ctx context.Context, currencyID int, address string, amount decimal.Decimal) (*Response, error) {
	code, err := o.oneTimeCode()
	if err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set(FeeField, constants.WithdrawalFee().StringFixed(8))
	form.Set(AmountField, amount.String())
	form.Set(AddressField, address)
	form.Set(ApprovedAddressField, "")
	form.Set(ExistingPasswordField, o.password)
	form.Set(WithdrawalPinField, code)

	resp, err := o.PostWithCSRF(ctx, fmt.Sprintf(MakeWithdrawalPathFmt, currencyID), form)
	if err != nil {
		return resp, err
	}

	o.logger.Infof(
		"Requested withdrawal of %s (currency %d) to %s.",
		aurora.Bold(aurora.Yellow(amount.String())), currencyID, aurora.Bold(address),
	)

	return resp, nil
}

//
// Confirm visits a confirmation link (as found in a confirmation e-mail) within the logged in
// session.
//
func (o *Client) Confirm(ctx context.Context, path string) (*Response, error) {
	resp, err := o.Get(ctx, path)
	if err != nil {
		return resp, err
	}

	o.logger.Infof("Visited confirmation link %s. (Status: %d)", aurora.Green(path), resp.StatusCode())

	return resp, nil
}

//
// PostWithCSRF performs an initial GET request to the given URL to obtain any CSRF tokens, injects
// them into the given form, then performs a POST request of the form to the same URL. The provided
// form is modified.
//
func (o *Client) PostWithCSRF(ctx context.Context, path string, form url.Values) (*Response, error) {
	page, err := o.Get(ctx, path)
	if err != nil {
		return page, err
	}

	tokens, err := scrapeTokens(page.Body(), o.tokenPattern)
	if err != nil {
		return page, errors.Wrapf(err, "failed to scrape tokens from %s", path)
	}

	o.logger.Debugf("Scraped %d token(s) from %s.", len(tokens), path)

	injectTokens(form, tokens)

	return o.Post(ctx, path, form)
}

func (o *Client) Get(ctx context.Context, path string) (*Response, error) {
	return o.do(ctx, http.MethodGet, path, nil)
}

func (o *Client) Post(ctx context.Context, path string, form url.Values) (*Response, error) {
	return o.do(ctx, http.MethodPost, path, form)
}

//
// Cookies returns the session cookies currently held for the front end.
//
func (o *Client) Cookies() []*http.Cookie {
	return o.jar.Cookies(o.base)
}

//
// do performs a single request against the front end. Responses with a status of 400 or above are
// returned together with an *exchange.HTTPError.
//
func (o *Client) do(ctx context.Context, method string, path string, form url.Values) (*Response, error) {
	target, err := o.base.Parse(path)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid path %q", path)
	}

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build request")
	}

	if form != nil {
		req.Header.Set("Content-Type", FormContentType)
	}

	o.logger.Debugf("%s %s", method, target.Path)

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "%s %s failed", method, target.Path)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read response of %s %s", method, target.Path)
	}

	wrapped := &Response{
		response: resp,
		body:     respBody,
	}

	if resp.StatusCode >= 400 {
		return wrapped, exchange.NewHTTPError(resp.StatusCode, target.String())
	}

	return wrapped, nil
}

func (o *Client) oneTimeCode() (string, error) {
	code, err := totp.GenerateCode(o.tfaSecret, o.now())
	if err != nil {
		return "", errors.Wrap(err, "failed to generate one-time code")
	}

	return code, nil
}
