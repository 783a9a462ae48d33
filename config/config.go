package config

import (
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/lukehollenback/cryptsy/constants"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Environment variables recognised by Load.
const (
	PublicKeyEnvVar          = "CRYPTSY_PUBKEY"
	PrivateKeyEnvVar         = "CRYPTSY_PRIVKEY"
	UsernameEnvVar           = "CRYPTSY_USERNAME"
	PasswordEnvVar           = "CRYPTSY_PASSWORD"
	TFASecretEnvVar          = "CRYPTSY_TFA_SECRET"
	InboxUsernameEnvVar      = "GMAIL_USERNAME"
	InboxPasswordEnvVar      = "GMAIL_PASSWORD"
	APIURLEnvVar             = "CRYPTSY_API_URL"
	WebURLEnvVar             = "CRYPTSY_WEB_URL"
	VerifyTLSEnvVar          = "CRYPTSY_VERIFY_TLS"
	InboxAddrEnvVar          = "IMAP_ADDR"
	InboxMailboxEnvVar       = "IMAP_MAILBOX"
	ConfirmationSenderEnvVar = "CONFIRMATION_SENDER"
	PollIntervalEnvVar       = "POLL_INTERVAL"

	DotEnvFile = ".env"
)

var ErrMissingCredentials = errors.New("missing credentials")

type APIConfig struct {
	URL        string        `yaml:"url"`
	PublicKey  string        `yaml:"public_key"`
	PrivateKey string        `yaml:"private_key"`
	VerifyTLS  bool          `yaml:"verify_tls"`
	Timeout    time.Duration `yaml:"timeout"`
	RateLimit  float64       `yaml:"rate_limit"` // Requests per second. Zero disables limiting.
}

type WebConfig struct {
	URL       string        `yaml:"url"`
	Username  string        `yaml:"username"`
	Password  string        `yaml:"password"`
	TFASecret string        `yaml:"tfa_secret"`
	VerifyTLS bool          `yaml:"verify_tls"`
	Timeout   time.Duration `yaml:"timeout"`
}

type InboxConfig struct {
	Addr     string `yaml:"addr"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Mailbox  string `yaml:"mailbox"`
	Sender   string `yaml:"sender"`
	Peek     bool   `yaml:"peek"`
}

type PollerConfig struct {
	Interval time.Duration `yaml:"interval"`
	Memory   int           `yaml:"memory"`
}

type StreamConfig struct {
	URL     string   `yaml:"url"`
	Markets []string `yaml:"markets"`
	CSVDir  string   `yaml:"csv_dir"`
}

//
// Config is the complete configuration of the command line tool.
//
type Config struct {
	API    APIConfig    `yaml:"api"`
	Web    WebConfig    `yaml:"web"`
	Inbox  InboxConfig  `yaml:"inbox"`
	Poller PollerConfig `yaml:"poller"`
	Stream StreamConfig `yaml:"stream"`
}

func Default() *Config {
	return &Config{
		API: APIConfig{
			URL:       constants.APIBaseURL,
			VerifyTLS: true,
			Timeout:   constants.DefaultTimeout,
		},
		Web: WebConfig{
			URL:       constants.WebBaseURL,
			VerifyTLS: true,
			Timeout:   constants.DefaultTimeout,
		},
		Inbox: InboxConfig{
			Addr:    "imap.gmail.com:993",
			Mailbox: "INBOX",
			Sender:  constants.ConfirmationSender,
		},
		Poller: PollerConfig{
			Interval: constants.DefaultPollInterval,
			Memory:   64,
		},
	}
}

//
// Load builds the configuration in layers: defaults, then the optional YAML file at path, then the
// environment. A .env file in the working directory is loaded into the environment first without
// overriding variables that are already set.
//
func Load(path string) (*Config, error) {
	if err := godotenv.Load(DotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, errors.Wrapf(err, "failed to load %s", DotEnvFile)
	}

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "failed to read config file")
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrap(err, "failed to parse config file")
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	return cfg, nil
}

//
// applyEnv overrides settings with every non-empty environment variable.
//
func (o *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		PublicKeyEnvVar:          &o.API.PublicKey,
		PrivateKeyEnvVar:         &o.API.PrivateKey,
		UsernameEnvVar:           &o.Web.Username,
		PasswordEnvVar:           &o.Web.Password,
		TFASecretEnvVar:          &o.Web.TFASecret,
		InboxUsernameEnvVar:      &o.Inbox.Username,
		InboxPasswordEnvVar:      &o.Inbox.Password,
		APIURLEnvVar:             &o.API.URL,
		WebURLEnvVar:             &o.Web.URL,
		InboxAddrEnvVar:          &o.Inbox.Addr,
		InboxMailboxEnvVar:       &o.Inbox.Mailbox,
		ConfirmationSenderEnvVar: &o.Inbox.Sender,
	}

	for name, field := range strs {
		if v, ok := lookup(name); ok && v != "" {
			*field = v
		}
	}

	if v, ok := lookup(VerifyTLSEnvVar); ok && v != "" {
		verify, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Wrapf(err, "invalid %s", VerifyTLSEnvVar)
		}

		o.API.VerifyTLS = verify
		o.Web.VerifyTLS = verify
	}

	if v, ok := lookup(PollIntervalEnvVar); ok && v != "" {
		interval, err := parseInterval(v)
		if err != nil {
			return errors.Wrapf(err, "invalid %s", PollIntervalEnvVar)
		}

		o.Poller.Interval = interval
	}

	return nil
}

//
// parseInterval accepts a Go duration ("1m30s") or a bare number of seconds ("3", "0.5").
//
func parseInterval(v string) (time.Duration, error) {
	if seconds, err := strconv.ParseFloat(v, 64); err == nil {
		return time.Duration(seconds * float64(time.Second)), nil
	}

	d, err := time.ParseDuration(v)

	return d, errors.WithStack(err)
}

// ValidateAPI reports whether the signed API client can be built.
func (o *Config) ValidateAPI() error {
	return missing(
		required{PublicKeyEnvVar, o.API.PublicKey},
		required{PrivateKeyEnvVar, o.API.PrivateKey},
	)
}

// ValidateWeb reports whether the web client can log in.
func (o *Config) ValidateWeb() error {
	return missing(
		required{UsernameEnvVar, o.Web.Username},
		required{PasswordEnvVar, o.Web.Password},
		required{TFASecretEnvVar, o.Web.TFASecret},
	)
}

// ValidateInbox reports whether the IMAP inbox can log in.
func (o *Config) ValidateInbox() error {
	return missing(
		required{InboxUsernameEnvVar, o.Inbox.Username},
		required{InboxPasswordEnvVar, o.Inbox.Password},
	)
}

type required struct {
	name  string
	value string
}

func missing(fields ...required) error {
	names := make([]string, 0, len(fields))

	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			names = append(names, f.name)
		}
	}

	if len(names) == 0 {
		return nil
	}

	return errors.Wrap(ErrMissingCredentials, strings.Join(names, ", "))
}
