package stream

import (
	"encoding/json"
	"strings"
	"sync"
	"time"

	ws "github.com/gorilla/websocket"
	"github.com/logrusorgru/aurora"
	"github.com/lukehollenback/cryptsy/logger"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var (
	ErrAlreadyStarted = errors.New("stream is already running")
	ErrNotStarted     = errors.New("stream is not running")
	ErrNoMarkets      = errors.New("at least one market must be watched")
)

//
// Config holds the construction-time settings of a Service.
//
type Config struct {
	URL       string        // Push feed endpoint. Defaults to DefaultURL.
	Markets   []string      // Market ids to watch.
	Dialer    *ws.Dialer    // Defaults to the websocket package's DefaultDialer.
	Logger    *logrus.Entry // Overrides the default service logger.
	WriteWait time.Duration // Deadline for outbound frames. Defaults to ten seconds.
}

//
// Service represents a market stream instance. It watches the exchange's push feed for the trades
// and ticker updates of a set of markets and produces them to registered handlers.
//
type Service struct {
	mu        *sync.Mutex
	chKill    chan bool
	chStopped chan bool
	chDone    chan struct{}
	running   bool

	url       string
	markets   []string
	dialer    *ws.Dialer
	writeWait time.Duration
	logger    *logrus.Entry

	state   state
	conn    *ws.Conn
	pending map[string]bool

	onTradeHandlers  []func(*Trade)
	onTickerHandlers []func(*Ticker)
}

func New(cfg Config) (*Service, error) {
	if len(cfg.Markets) == 0 {
		return nil, ErrNoMarkets
	}

	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}

	if cfg.Dialer == nil {
		cfg.Dialer = ws.DefaultDialer
	}

	if cfg.WriteWait <= 0 {
		cfg.WriteWait = 10 * time.Second
	}

	if cfg.Logger == nil {
		cfg.Logger = logger.New(Name)
	}

	return &Service{
		mu:        &sync.Mutex{},
		url:       cfg.URL,
		markets:   append([]string(nil), cfg.Markets...),
		dialer:    cfg.Dialer,
		writeWait: cfg.WriteWait,
		logger:    cfg.Logger,
		state:     disconnected,

		onTradeHandlers:  make([]func(*Trade), 0),
		onTickerHandlers: make([]func(*Ticker), 0),
	}, nil
}

//
// RegisterTradeHandler registers a signal handler to be executed whenever a trade is received.
//
func (o *Service) RegisterTradeHandler(handler func(*Trade)) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.onTradeHandlers = append(o.onTradeHandlers, handler)
}

//
// RegisterTickerHandler registers a signal handler to be executed whenever a ticker update is
// received.
//
func (o *Service) RegisterTickerHandler(handler func(*Ticker)) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.onTickerHandlers = append(o.onTickerHandlers, handler)
}

//
// State returns the name of the connection state the service is currently in.
//
func (o *Service) State() string {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.state.String()
}

//
// Done returns a channel that is closed once the service has shut down for any reason, including the
// loss of its connection. It is nil until the service has been started.
//
func (o *Service) Done() <-chan struct{} {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.chDone
}

//
// Start implements the Service interface's described method. The push feed is dialed before Start
// returns so that connection failures are reported to the caller.
//
func (o *Service) Start() (<-chan bool, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.running {
		return nil, ErrAlreadyStarted
	}

	//
	// Connect to the push feed.
	//
	o.state = connecting

	conn, _, err := o.dialer.Dial(o.url, nil)
	if err != nil {
		o.state = disconnected

		return nil, errors.Wrap(err, "could not connect to the push feed")
	}

	o.conn = conn
	o.running = true
	o.pending = make(map[string]bool)

	//
	// (Re)initialize our instance variables.
	//
	o.chKill = make(chan bool, 1)
	o.chStopped = make(chan bool, 1)
	o.chDone = make(chan struct{})

	//
	// Fire off a goroutine as the executor for the service.
	//
	go o.service(conn, o.chKill, o.chStopped, o.chDone)

	chStarted := make(chan bool, 1)
	chStarted <- true

	o.logger.Infof("Started. (Markets: %s)", aurora.Cyan(strings.Join(o.markets, ", ")))

	return chStarted, nil
}

//
// Stop implements the Service interface's described method.
//
func (o *Service) Stop() (<-chan bool, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.running {
		return nil, ErrNotStarted
	}

	o.logger.Info("Stopping...")

	o.running = false
	o.chKill <- true

	return o.chStopped, nil
}

//
// service reads frames off the push feed until it is killed or the connection fails.
//
func (o *Service) service(conn *ws.Conn, chKill <-chan bool, chStopped chan<- bool, chExited chan<- struct{}) {
	chEvent := make(chan *event)
	chErr := make(chan error, 1)
	chDone := make(chan struct{})

	go readEvents(conn, chEvent, chErr, chDone)

	for cont := true; cont; {
		select {
		case <-chKill:
			cont = false

		case e := <-chEvent:
			if err := o.handleEvent(conn, e); err != nil {
				o.logger.WithError(err).Warnf("Failed to handle %s event.", e.Event)
			}

		case err := <-chErr:
			o.logger.WithError(err).Error("Lost the connection to the push feed.")

			cont = false
		}
	}

	close(chDone)

	//
	// Close our websocket connection.
	//
	deadline := time.Now().Add(o.writeWait)
	_ = conn.WriteControl(ws.CloseMessage, ws.FormatCloseMessage(ws.CloseNormalClosure, ""), deadline)

	if err := conn.Close(); err != nil {
		o.logger.WithError(err).Warn("Failed to close the websocket connection.")
	}

	o.mu.Lock()
	o.state = disconnected
	o.running = false
	o.mu.Unlock()

	o.logger.Info("Stopped.")

	close(chExited)
	chStopped <- true
}

func readEvents(conn *ws.Conn, chEvent chan<- *event, chErr chan<- error, chDone <-chan struct{}) {
	for {
		e := &event{}

		if err := conn.ReadJSON(e); err != nil {
			chErr <- err

			return
		}

		select {
		case chEvent <- e:
		case <-chDone:
			return
		}
	}
}

//
// handleEvent advances the connection state machine and produces market data to handlers.
//
func (o *Service) handleEvent(conn *ws.Conn, e *event) error {
	switch e.Event {
	case eventConnectionEstablished:
		return o.subscribe(conn)

	case eventSubscriptionSucceeded:
		o.mu.Lock()
		delete(o.pending, e.Channel)

		if len(o.pending) == 0 && o.state == connected {
			o.state = subscribed

			o.logger.Infof("Successfully subscribed to %d channels.", 2*len(o.markets))
		}
		o.mu.Unlock()

		return nil

	case eventPing:
		return o.send(conn, &event{Event: eventPong, Data: json.RawMessage("{}")})

	case eventError:
		data, _ := e.payload()

		return errors.Errorf("push feed reported an error: %s", data)

	case eventMessage:
		return o.handleMessage(e)
	}

	o.logger.Debugf("Ignoring %s event.", e.Event)

	return nil
}

//
// subscribe asks for the trade and ticker channels of every configured market.
//
func (o *Service) subscribe(conn *ws.Conn) error {
	o.mu.Lock()
	o.state = connected
	o.mu.Unlock()

	for _, market := range o.markets {
		for _, channel := range []string{TradeChannelPrefix + market, TickerChannelPrefix + market} {
			data, err := json.Marshal(subscription{Channel: channel})
			if err != nil {
				return errors.WithStack(err)
			}

			o.mu.Lock()
			o.pending[channel] = true
			o.mu.Unlock()

			if err := o.send(conn, &event{Event: eventSubscribe, Data: data}); err != nil {
				return err
			}
		}
	}

	return nil
}

func (o *Service) handleMessage(e *event) error {
	data, err := e.payload()
	if err != nil {
		return err
	}

	switch {
	case strings.HasPrefix(e.Channel, TickerChannelPrefix):
		msg := &tickerMessage{}
		if err := json.Unmarshal(data, msg); err != nil {
			return errors.Wrapf(err, "failed to decode ticker on %s", e.Channel)
		}

		o.mu.Lock()
		handlers := append(([]func(*Ticker))(nil), o.onTickerHandlers...)
		o.mu.Unlock()

		for _, handler := range handlers {
			handler(&msg.Trade)
		}

	case strings.HasPrefix(e.Channel, TradeChannelPrefix):
		msg := &tradeMessage{}
		if err := json.Unmarshal(data, msg); err != nil {
			return errors.Wrapf(err, "failed to decode trade on %s", e.Channel)
		}

		o.mu.Lock()
		handlers := append(([]func(*Trade))(nil), o.onTradeHandlers...)
		o.mu.Unlock()

		for _, handler := range handlers {
			handler(&msg.Trade)
		}

	default:
		o.logger.Debugf("Ignoring message on unknown channel %s.", e.Channel)
	}

	return nil
}

func (o *Service) send(conn *ws.Conn, e *event) error {
	if err := conn.SetWriteDeadline(time.Now().Add(o.writeWait)); err != nil {
		return errors.WithStack(err)
	}

	return errors.Wrapf(conn.WriteJSON(e), "failed to send %s", e.Event)
}
