package apiserver

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/meverselabs/metamart/common/rlog"
)

const eventQueueSize = 16

type eventHub struct {
	sync.Mutex
	subs   map[chan []byte]struct{}
	closed bool
}

func newEventHub() *eventHub {
	return &eventHub{
		subs: map[chan []byte]struct{}{},
	}
}

func (h *eventHub) subscribe() (chan []byte, bool) {
	h.Lock()
	defer h.Unlock()

	if h.closed {
		return nil, false
	}
	ch := make(chan []byte, eventQueueSize)
	h.subs[ch] = struct{}{}
	return ch, true
}

func (h *eventHub) unsubscribe(ch chan []byte) {
	h.Lock()
	defer h.Unlock()

	if _, has := h.subs[ch]; has {
		delete(h.subs, ch)
		close(ch)
	}
}

// broadcast drops subscribers whose queue is full
func (h *eventHub) broadcast(ev *Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		rlog.Errorln("event", ev.Type, err)
		return
	}

	h.Lock()
	defer h.Unlock()

	for ch := range h.subs {
		select {
		case ch <- data:
		default:
			delete(h.subs, ch)
			close(ch)
		}
	}
}

func (h *eventHub) count() int {
	h.Lock()
	defer h.Unlock()

	return len(h.subs)
}

func (h *eventHub) close() {
	h.Lock()
	defer h.Unlock()

	h.closed = true
	for ch := range h.subs {
		delete(h.subs, ch)
		close(ch)
	}
}

// serve writes the events to the connection until either side closes
func (h *eventHub) serve(conn *websocket.Conn) error {
	ch, ok := h.subscribe()
	if !ok {
		return nil
	}
	defer h.unsubscribe(ch)

	readErr := make(chan error, 1)
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				readErr <- err
				return
			}
		}
	}()

	for {
		select {
		case data, ok := <-ch:
			if !ok {
				return nil
			}
			if err := conn.SetWriteDeadline(time.Now().Add(10 * time.Second)); err != nil {
				return err
			}
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return err
			}
		case <-readErr:
			return nil
		}
	}
}
