package eval

import (
	"sync"
	"time"

	"github.com/edwingeng/deque"

	"github.com/strand-sh/strand/pkg/eval/errs"
	"github.com/strand-sh/strand/pkg/eval/vals"
)

// Message is one tagged mailbox message.
type Message struct {
	Tag string
	Val vals.Value
}

// mailboxPollInterval is how often a blocked receive re-checks the
// interrupt flag and the mailbox state, instead of blocking unboundedly.
const mailboxPollInterval = 10 * time.Millisecond

// Mailbox is the tagged message queue used for background job
// communication. Receives poll cooperatively at a fixed short interval, so a
// cancelled job never deadlocks a receiver. A receive pending when the
// mailbox is torn down fails with Disconnected, never Timeout, even if its
// deadline has not elapsed.
type Mailbox struct {
	mu     sync.Mutex
	queue  deque.Deque
	closed bool
}

// NewMailbox creates an empty mailbox.
func NewMailbox() *Mailbox {
	return &Mailbox{queue: deque.NewDeque()}
}

// Send enqueues a message. It fails with Disconnected if the mailbox has
// been closed.
func (m *Mailbox) Send(tag string, v vals.Value) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return errs.Disconnected
	}
	m.queue.PushBack(Message{tag, v})
	return nil
}

// Close tears the mailbox down. Pending and future receives fail with
// Disconnected; pending messages are dropped.
func (m *Mailbox) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.queue = deque.NewDeque()
}

// Len returns the number of queued messages.
func (m *Mailbox) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.queue.Len()
}

// take removes and returns the first message matching the tag. An empty tag
// matches any message. Skipped messages keep their queue positions.
func (m *Mailbox) take(tag string) (Message, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return Message{}, false, errs.Disconnected
	}
	var skipped []Message
	restore := func() {
		for i := len(skipped) - 1; i >= 0; i-- {
			m.queue.PushFront(skipped[i])
		}
	}
	for !m.queue.Empty() {
		msg := m.queue.PopFront().(Message)
		if tag == "" || msg.Tag == tag {
			restore()
			return msg, true, nil
		}
		skipped = append(skipped, msg)
	}
	restore()
	return Message{}, false, nil
}

// Recv waits for a message with the given tag. It polls the interrupt flag
// while waiting and fails with Interrupted when it is set.
func (m *Mailbox) Recv(tag string, interrupt *Interrupt) (Message, error) {
	for {
		msg, ok, err := m.take(tag)
		if err != nil {
			return Message{}, err
		}
		if ok {
			return msg, nil
		}
		if interrupt.IsSet() {
			return Message{}, errs.Interrupted
		}
		time.Sleep(mailboxPollInterval)
	}
}

// RecvTimeout is Recv with a deadline. Elapsing fails with Timeout;
// teardown while waiting fails with Disconnected regardless of the
// deadline.
func (m *Mailbox) RecvTimeout(tag string, timeout time.Duration, interrupt *Interrupt) (Message, error) {
	deadline := time.Now().Add(timeout)
	for {
		msg, ok, err := m.take(tag)
		if err != nil {
			return Message{}, err
		}
		if ok {
			return msg, nil
		}
		if interrupt.IsSet() {
			return Message{}, errs.Interrupted
		}
		if !time.Now().Before(deadline) {
			return Message{}, errs.Timeout
		}
		time.Sleep(mailboxPollInterval)
	}
}
