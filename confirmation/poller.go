package confirmation

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/lukehollenback/cryptsy/constants"
	"github.com/pkg/errors"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var ErrNoCaptureGroup = errors.New("link pattern must have a capture group")

//
// Poller finds exchange-issued confirmation links (e.g. "confirm trusted address" or "confirm
// withdrawal") inside the unread e-mails of an Inbox.
//
type Poller struct {
	inbox   Inbox
	pattern *regexp.Regexp
}

//
// NewPoller instantiates a poller that extracts the first capture group of every link matching the
// provided pattern.
//
func NewPoller(inbox Inbox, pattern *regexp.Regexp) (*Poller, error) {
	if pattern.NumSubexp() < 1 {
		return nil, ErrNoCaptureGroup
	}

	return &Poller{
		inbox:   inbox,
		pattern: pattern,
	}, nil
}

//
// RunOnce walks the inbox a single time and returns the captured paths of all matching links, in the
// order the e-mails and their anchors were visited. Finding nothing is not an error; errors only come
// from the inbox itself.
//
func (o *Poller) RunOnce(ctx context.Context) ([]string, error) {
	links := make([]string, 0)

	err := o.inbox.Walk(ctx, func(body string) {
		links = o.scan(links, body)
	})
	if err != nil {
		return nil, err
	}

	return links, nil
}

//
// RunUntilFound calls RunOnce repeatedly, waiting the provided interval (three seconds if it is not
// positive) between attempts, until at least one link is found. It gives up as soon as the inbox
// fails or the context is done.
//
func (o *Poller) RunUntilFound(ctx context.Context, interval time.Duration) ([]string, error) {
	if interval <= 0 {
		interval = constants.DefaultPollInterval
	}

	timer := time.NewTimer(interval)
	defer timer.Stop()

	for {
		links, err := o.RunOnce(ctx)
		if err != nil {
			return nil, err
		}

		if len(links) > 0 {
			return links, nil
		}

		//
		// Wait out the interval, unless we are told to stop first.
		//
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}

		timer.Reset(interval)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

//
// scan parses an e-mail body as HTML and appends the capture of every matching anchor href.
//
func (o *Poller) scan(links []string, body string) []string {
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		// NOTE ~> The parser only fails when its reader does, which a strings.Reader never does.
		return links
	}

	var walk func(*html.Node)

	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.A {
			for _, attr := range n.Attr {
				if attr.Key != "href" {
					continue
				}

				if m := o.pattern.FindStringSubmatch(attr.Val); m != nil {
					links = append(links, m[1])
				}
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(doc)

	return links
}
