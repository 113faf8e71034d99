package game

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeSocket satisfies WebsocketConnection for gateway tests that drive
// dispatch directly. Read blocks forever; the pumps are never started.
type fakeSocket struct {
	locker sync.Mutex
	closed bool
}

func (fs *fakeSocket) Write(data []byte) error { return nil }
func (fs *fakeSocket) Ping() error             { return nil }
func (fs *fakeSocket) Read() ([]byte, error)   { select {} }

func (fs *fakeSocket) Close(errCode string) {
	fs.locker.Lock()
	defer fs.locker.Unlock()
	fs.closed = true
}

type receivedEvent struct {
	Type string
	Data json.RawMessage
}

// drainEvents empties the client's outbound buffer into decoded envelopes.
func drainEvents(t *testing.T, c *client) []receivedEvent {
	t.Helper()

	var events []receivedEvent
	for {
		select {
		case data := <-c.sendChan:
			var envelope struct {
				Type string          `json:"type"`
				Data json.RawMessage `json:"data"`
			}
			require.NoError(t, json.Unmarshal(data, &envelope))
			events = append(events, receivedEvent(envelope))
		default:
			return events
		}
	}
}

func eventTypes(events []receivedEvent) []string {
	types := make([]string, len(events))
	for i, e := range events {
		types[i] = e.Type
	}
	return types
}

func findEvent(t *testing.T, events []receivedEvent, eventType string) json.RawMessage {
	t.Helper()
	for _, e := range events {
		if e.Type == eventType {
			return e.Data
		}
	}
	t.Fatalf("no %q event in %v", eventType, eventTypes(events))
	return nil
}
