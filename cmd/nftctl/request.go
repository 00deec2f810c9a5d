package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	uuid "github.com/satori/go.uuid"

	"github.com/meverselabs/metamart/service/apiserver"
)

// DoRequest calls the jrpc method of the service and returns its result
func DoRequest(hostURL string, Method string, Params []interface{}) (interface{}, error) {
	id := uuid.NewV1().String()
	req := &apiserver.JRPCRequest{
		JSONRPC: "2.0",
		ID:      id,
		Method:  Method,
		Params:  Params,
	}
	bs, err := json.Marshal(req)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	r, err := http.Post(strings.TrimSuffix(hostURL, "/")+"/api/endpoints/http", "application/json", bytes.NewReader(bs))
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer r.Body.Close()

	var res apiserver.JRPCResponse
	if err := json.NewDecoder(r.Body).Decode(&res); err != nil {
		return nil, errors.WithStack(err)
	}
	if res.Error != "" {
		return nil, errors.New(res.Error)
	}
	return res.Result, nil
}

// eventsURL converts the host url to the websocket url of the events stream
func eventsURL(hostURL string) (string, error) {
	u, err := url.Parse(hostURL)
	if err != nil {
		return "", errors.WithStack(err)
	}
	switch u.Scheme {
	case "https", "wss":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/api/endpoints/websocket"
	u.RawQuery = "type=events"
	return u.String(), nil
}

// WatchEvents calls fn with every event of the stream until fn returns false or the connection closes
func WatchEvents(hostURL string, fn func(ev *apiserver.Event) bool) error {
	target, err := eventsURL(hostURL)
	if err != nil {
		return err
	}
	conn, _, err := websocket.DefaultDialer.Dial(target, nil)
	if err != nil {
		return errors.WithStack(err)
	}
	defer conn.Close()

	for {
		var ev apiserver.Event
		if err := conn.ReadJSON(&ev); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return errors.WithStack(err)
		}
		if !fn(&ev) {
			return nil
		}
	}
}
