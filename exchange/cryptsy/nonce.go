package cryptsy

import "time"

//
// nonceSource hands out epoch millisecond nonces that strictly increase for the lifetime of a
// client. Two calls landing in the same millisecond would otherwise produce a replayed nonce, so
// the second one is bumped past the first. It is not safe for concurrent use on its own; the client
// mutex guards it.
//
type nonceSource struct {
	last int64
	now  func() time.Time
}

func newNonceSource() *nonceSource {
	return &nonceSource{
		now: time.Now,
	}
}

func (o *nonceSource) next() int64 {
	n := o.now().UnixNano() / int64(time.Millisecond)
	if n <= o.last {
		n = o.last + 1
	}

	o.last = n

	return n
}
