package streams

import (
	"context"
	"errors"
	"sync"

	"github.com/segmentio/kafka-go"
)

type sentMessage struct {
	topic string
	key   []byte
	value []byte
}

// recordingProducer запоминает все отправленные сообщения.
type recordingProducer struct {
	mu       sync.Mutex
	sent     []sentMessage
	err      error
	flushErr error
	flushes  int
}

func (p *recordingProducer) Send(ctx context.Context, topic string, key, value []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.err != nil {
		return p.err
	}
	p.sent = append(p.sent, sentMessage{topic: topic, key: key, value: value})
	return nil
}

func (p *recordingProducer) Flush(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.flushes++
	return p.flushErr
}

func (p *recordingProducer) byTopic(topic string) []sentMessage {
	p.mu.Lock()
	defer p.mu.Unlock()

	var out []sentMessage
	for _, m := range p.sent {
		if m.topic == topic {
			out = append(out, m)
		}
	}
	return out
}

// fakeReader отдаёт заданные сообщения, затем ждёт новых из push или отмены ctx.
type fakeReader struct {
	mu        sync.Mutex
	messages  []kafka.Message
	committed []kafka.Message
	closed    bool
	fetchErr  error
	wake      chan struct{}
}

func newFakeReader(messages ...kafka.Message) *fakeReader {
	return &fakeReader{messages: messages, wake: make(chan struct{})}
}

func (r *fakeReader) push(messages ...kafka.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.messages = append(r.messages, messages...)
	close(r.wake)
	r.wake = make(chan struct{})
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	for {
		r.mu.Lock()
		if r.fetchErr != nil {
			err := r.fetchErr
			r.mu.Unlock()
			return kafka.Message{}, err
		}
		if len(r.messages) > 0 {
			msg := r.messages[0]
			r.messages = r.messages[1:]
			r.mu.Unlock()
			return msg, nil
		}
		wake := r.wake
		r.mu.Unlock()

		select {
		case <-ctx.Done():
			return kafka.Message{}, ctx.Err()
		case <-wake:
		}
	}
}

func (r *fakeReader) CommitMessages(ctx context.Context, messages ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.committed = append(r.committed, messages...)
	return nil
}

func (r *fakeReader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return errors.New("reader already closed")
	}
	r.closed = true
	return nil
}

func (r *fakeReader) committedCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.committed)
}

func (r *fakeReader) committedMessages() []kafka.Message {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]kafka.Message(nil), r.committed...)
}

func (r *fakeReader) isClosed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.closed
}
