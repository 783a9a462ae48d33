package stream

const (
	Name = "≪cryptsy-stream≫"

	// AppKey identifies the exchange's application on the Pusher service.
	AppKey = "cb65d0a7a72cd94adf1f"

	DefaultURL = "wss://ws.pusherapp.com/app/" + AppKey + "?protocol=7&client=go-cryptsy&version=1.0"

	TradeChannelPrefix  = "trade."
	TickerChannelPrefix = "ticker."
)

const (
	eventConnectionEstablished = "pusher:connection_established"
	eventError                 = "pusher:error"
	eventPing                  = "pusher:ping"
	eventPong                  = "pusher:pong"
	eventSubscribe             = "pusher:subscribe"
	eventSubscriptionSucceeded = "pusher_internal:subscription_succeeded"
	eventMessage               = "message"
)
