package cryptsy

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"crypto/tls"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/lukehollenback/cryptsy/constants"
	"github.com/lukehollenback/cryptsy/exchange"
	"github.com/lukehollenback/cryptsy/logger"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

//
// Config holds the construction-time settings of a Client.
//
type Config struct {
	BaseURL            string        // Root URL of the API. Defaults to https://api.cryptsy.com.
	InsecureSkipVerify bool          // Disables verification of server certificates.
	Timeout            time.Duration // Per-request timeout of the default HTTP client. Zero means no timeout.
	RateLimit          float64       // Maximum requests per second. Zero means unlimited.

	HTTPClient *http.Client  // Overrides the HTTP client built from the above settings.
	Logger     *logrus.Entry // Overrides the default service logger.
}

//
// DefaultConfig returns the recommended configuration: the production endpoint with certificate
// verification enabled.
//
func DefaultConfig() Config {
	return Config{
		BaseURL: constants.APIBaseURL,
		Timeout: constants.DefaultTimeout,
	}
}

//
// Client implements the exchange.Client interface for the Cryptsy authenticated API. A single
// Client may be shared between goroutines; calls are serialized so that nonces reach the exchange
// in increasing order.
//
type Client struct {
	mu         *sync.Mutex
	publicKey  string
	privateKey string
	endpoint   string
	httpClient *http.Client
	limiter    *rate.Limiter
	nonces     *nonceSource
	logger     *logrus.Entry
}

var _ exchange.Client = (*Client)(nil)

func NewClient(publicKey string, privateKey string, cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = constants.APIBaseURL
	}

	o := &Client{
		mu:         &sync.Mutex{},
		publicKey:  publicKey,
		privateKey: privateKey,
		endpoint:   strings.TrimRight(cfg.BaseURL, "/") + APIPath,
		httpClient: cfg.HTTPClient,
		limiter:    rate.NewLimiter(rate.Inf, 1),
		nonces:     newNonceSource(),
		logger:     cfg.Logger,
	}

	if o.httpClient == nil {
		o.httpClient = &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				TLSClientConfig: &tls.Config{
					InsecureSkipVerify: cfg.InsecureSkipVerify, // nolint:gosec // opt-in via Config.InsecureSkipVerify
				},
			},
		}
	}

	if cfg.RateLimit > 0 {
		o.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
	}

	if o.logger == nil {
		o.logger = logger.New(Name)
	}

	return o
}

//
// Call implements the exchange.Client interface's described method. The provided parameters are
// not modified.
//
func (o *Client) Call(ctx context.Context, method string, params url.Values) (json.RawMessage, error) {
	body, err := o.call(ctx, method, params)
	if err != nil {
		return nil, err
	}

	return extractPayload(body)
}

//
// call performs a signed request and returns the full response body once the envelope has been
// confirmed successful. A few methods (e.g. createorder) report their results outside of the
// "return" member, hence the need to hand back everything.
//
func (o *Client) call(ctx context.Context, method string, params url.Values) ([]byte, error) {
	//
	// Respect the configured rate limit before claiming the client.
	//
	if err := o.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	//
	// Build the request envelope. The nonce must be generated while holding the lock so that it is
	// strictly greater than that of any request already on the wire.
	//
	form := url.Values{}
	for k, v := range params {
		form[k] = append([]string(nil), v...)
	}

	form.Set("method", method)
	form.Set("nonce", strconv.FormatInt(o.nonces.next(), 10))

	encoded := form.Encode()

	o.logger.Debugf("Calling %s.", method)

	//
	// Sign and send it.
	//
	respBody, err := o.request(ctx, encoded, o.sign(encoded))
	if err != nil {
		return nil, err
	}

	if err := checkEnvelope(respBody); err != nil {
		return nil, err
	}

	return respBody, nil
}

//
// sign computes the hex encoded HMAC-SHA512 of the exact request body using the private key.
//
func (o *Client) sign(body string) string {
	mac := hmac.New(sha512.New, []byte(o.privateKey))
	mac.Write([]byte(body))

	return hex.EncodeToString(mac.Sum(nil))
}

//
// request POSTs the provided form body to the API endpoint and returns the raw response body.
//
func (o *Client) request(ctx context.Context, body string, signature string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.endpoint, strings.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "failed to build request")
	}

	req.Header.Set(ContentTypeHeader, FormContentType)
	req.Header.Set(KeyHeader, o.publicKey)
	req.Header.Set(SignHeader, signature)

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "request to the Cryptsy API failed")
	}
	defer resp.Body.Close()

	//
	// Make sure the status code was valid.
	//
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)

		return nil, exchange.NewHTTPError(resp.StatusCode, o.endpoint)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read Cryptsy API response")
	}

	return bytes.TrimSpace(respBody), nil
}
