package stream

type state int

const (
	disconnected state = iota // The stream service has no connection to the push feed.
	connecting                // The stream service is dialing the push feed.
	connected                 // The push feed has acknowledged the connection and subscriptions have been requested.
	subscribed                // Every requested channel has been confirmed by the push feed.
)

func (o state) String() string {
	return [...]string{"disconnected", "connecting", "connected", "subscribed"}[o]
}
