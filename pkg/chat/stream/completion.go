package stream

// Completion is the consumer side of a running exchange. Tokens delivers
// output incrementally and closes when the exchange ends; Err reports the
// outcome and is valid only after Tokens is closed.
type Completion struct {
	tokens chan string
	done   chan struct{}
	err    error
}

func newCompletion() *Completion {
	return &Completion{
		tokens: make(chan string, 16),
		done:   make(chan struct{}),
	}
}

func (c *Completion) Tokens() <-chan string {
	return c.tokens
}

// Err blocks until the exchange has finished.
func (c *Completion) Err() error {
	<-c.done
	return c.err
}

func (c *Completion) finish(err error) {
	c.err = err
	close(c.tokens)
	close(c.done)
}
