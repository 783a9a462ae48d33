package writer

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/logrusorgru/aurora"
	"github.com/lukehollenback/cryptsy/logger"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	Name         = "≪writer-service≫"
	TimestampKey = "Timestamp"
	CategoryKey  = "Category"
	ValueKey     = "Value"
)

var ErrNotStarted = errors.New("writer is not running")

//
// Service writes timestamped data points out to a CSV file.
//
type Service struct {
	mu         *sync.Mutex
	chKill     chan bool
	chStopped  chan bool
	outputPath string
	outputFile *os.File
	writer     *csv.Writer
	logger     *logrus.Entry
}

//
// New instantiates a writer that will output to "<name>.csv" inside of the provided directory.
//
func New(outputDir string, name string) *Service {
	return &Service{
		mu:         &sync.Mutex{},
		outputPath: filepath.Join(outputDir, name+".csv"),
		logger:     logger.New(Name),
	}
}

//
// Path returns the path of the CSV file the service writes to.
//
func (o *Service) Path() string {
	return o.outputPath
}

//
// Start implements the Service interface's described method.
//
func (o *Service) Start() (<-chan bool, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.writer != nil {
		return nil, errors.New("writer is already running")
	}

	//
	// Create the output CSV file.
	//
	var err error

	o.outputFile, err = os.Create(o.outputPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create the output file")
	}

	o.logger.Infof("Outputing CSV to %s.", aurora.Cyan(o.outputPath))

	//
	// Create the CSV writer and use it to write out the header row.
	//
	o.writer = csv.NewWriter(o.outputFile)

	if err := o.writer.Write([]string{TimestampKey, CategoryKey, ValueKey}); err != nil {
		_ = o.outputFile.Close()
		o.writer = nil

		return nil, errors.Wrap(err, "failed to write the header row")
	}

	//
	// (Re)initialize our instance variables.
	//
	o.chKill = make(chan bool, 1)
	o.chStopped = make(chan bool, 1)

	//
	// Fire off a goroutine as the executor for the service.
	//
	go o.service()

	chStarted := make(chan bool, 1)
	chStarted <- true

	o.logger.Info("Started.")

	return chStarted, nil
}

//
// Stop implements the Service interface's described method.
//
func (o *Service) Stop() (<-chan bool, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.writer == nil {
		return nil, ErrNotStarted
	}

	o.logger.Info("Stopping...")

	o.chKill <- true

	return o.chStopped, nil
}

//
// Write appends a single data point to the CSV file.
//
func (o *Service) Write(timestamp time.Time, category Type, value decimal.Decimal) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.writer == nil {
		return ErrNotStarted
	}

	return errors.WithStack(o.writer.Write([]string{
		timestamp.UTC().Format(time.RFC3339),
		category.String(),
		value.String(),
	}))
}

//
// service waits to be killed and then flushes and closes the output file.
//
func (o *Service) service() {
	//
	// Yield indefinitely.
	//
	<-o.chKill

	o.mu.Lock()

	//
	// Flush the CSV writer's buffer to the output file.
	//
	o.writer.Flush()

	if err := o.writer.Error(); err != nil {
		o.logger.WithError(err).Error("Failed to flush the CSV writer.")
	}

	//
	// Close the handle on the output file.
	//
	if err := o.outputFile.Close(); err != nil {
		o.logger.WithError(err).Error("Failed to close handle on output file.")
	}

	o.writer = nil
	o.outputFile = nil
	chStopped := o.chStopped

	o.mu.Unlock()

	//
	// Send the signal that we have shut down.
	//
	chStopped <- true
}
