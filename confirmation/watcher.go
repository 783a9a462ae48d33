package confirmation

import (
	"context"
	"sync"
	"time"

	"github.com/logrusorgru/aurora"
	"github.com/lukehollenback/cryptsy/constants"
	"github.com/lukehollenback/cryptsy/logger"
	"github.com/lukehollenback/cryptsy/structs/evictingqueue"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	WatcherName = "≪confirmation-watcher≫"

	// DefaultMemory is how many already-handled links a watcher remembers.
	DefaultMemory = 64
)

var (
	ErrAlreadyStarted = errors.New("watcher is already running")
	ErrNotStarted     = errors.New("watcher is not running")
)

//
// LinkHandler is fired once per newly discovered confirmation link.
//
type LinkHandler func(ctx context.Context, link string) error

//
// Watcher is a long-running service that keeps polling for confirmation links and hands every link
// it has not seen recently to its registered handlers.
//
type Watcher struct {
	mu        *sync.Mutex
	cancel    context.CancelFunc
	chStopped chan bool
	running   bool

	poller   *Poller
	interval time.Duration
	seen     *evictingqueue.EvictingQueue[string]
	handlers []LinkHandler
	logger   *logrus.Entry
}

//
// NewWatcher instantiates a watcher around the provided poller. A non-positive interval falls back
// to the default poll interval and a non-positive memory falls back to DefaultMemory.
//
func NewWatcher(poller *Poller, interval time.Duration, memory int) *Watcher {
	if interval <= 0 {
		interval = constants.DefaultPollInterval
	}

	if memory <= 0 {
		memory = DefaultMemory
	}

	return &Watcher{
		mu:       &sync.Mutex{},
		poller:   poller,
		interval: interval,
		seen:     evictingqueue.New[string](memory),
		handlers: make([]LinkHandler, 0),
		logger:   logger.New(WatcherName),
	}
}

//
// RegisterLinkHandler registers a handler to be executed for each new link.
//
func (o *Watcher) RegisterLinkHandler(handler LinkHandler) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.handlers = append(o.handlers, handler)
}

//
// Start implements the Service interface's described method.
//
func (o *Watcher) Start() (<-chan bool, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.running {
		return nil, ErrAlreadyStarted
	}

	//
	// (Re)initialize our instance variables.
	//
	ctx, cancel := context.WithCancel(context.Background())

	o.cancel = cancel
	o.chStopped = make(chan bool, 1)
	o.running = true

	//
	// Fire off a goroutine as the executor for the service.
	//
	go o.service(ctx, o.chStopped)

	chStarted := make(chan bool, 1)
	chStarted <- true

	o.logger.Infof("Started. (Interval: %s)", aurora.Cyan(o.interval))

	return chStarted, nil
}

//
// Stop implements the Service interface's described method.
//
func (o *Watcher) Stop() (<-chan bool, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.running {
		return nil, ErrNotStarted
	}

	o.logger.Info("Stopping...")

	o.cancel()
	o.running = false

	return o.chStopped, nil
}

//
// service polls until it is cancelled. Inbox failures are logged and retried on the next interval
// so that a flaky mail server does not take the watcher down.
//
func (o *Watcher) service(ctx context.Context, chStopped chan<- bool) {
	for {
		links, err := o.poller.RunUntilFound(ctx, o.interval)

		if ctx.Err() != nil {
			break
		}

		if err != nil {
			o.logger.WithError(err).Warn("Failed to poll the inbox.")
		} else {
			o.dispatch(ctx, links)
		}

		//
		// Give the inbox a breather before the next round, even when everything found was a
		// duplicate.
		//
		if !sleep(ctx, o.interval) {
			break
		}
	}

	o.logger.Info("Stopped.")

	chStopped <- true
}

//
// dispatch fires the registered handlers for every link that has not been handled recently.
//
func (o *Watcher) dispatch(ctx context.Context, links []string) {
	o.mu.Lock()
	handlers := make([]LinkHandler, len(o.handlers))
	copy(handlers, o.handlers)
	o.mu.Unlock()

	for _, link := range links {
		if !o.seen.AddIfAbsent(link) {
			o.logger.Debugf("Skipping already handled link %s.", link)

			continue
		}

		o.logger.Infof("Found confirmation link %s.", aurora.Green(link))

		for _, handler := range handlers {
			if err := handler(ctx, link); err != nil {
				o.logger.WithError(err).Errorf("Handler failed for link %s.", link)
			}
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
