package apiserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo"
	"github.com/pkg/errors"

	"github.com/meverselabs/metamart/common/rlog"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type reqData struct {
	req   *JRPCRequest
	resCh chan *JRPCResponse
}

func decodeRequest(data []byte) (*JRPCRequest, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var req JRPCRequest
	if err := dec.Decode(&req); err != nil {
		return nil, errors.WithStack(err)
	}
	return &req, nil
}

// dispatch hands the request to a worker and waits for the response
func (s *APIServer) dispatch(req *JRPCRequest) (*JRPCResponse, error) {
	r := &reqData{
		req:   req,
		resCh: make(chan *JRPCResponse, 1),
	}
	select {
	case s.reqCh <- r:
	case <-s.done:
		return nil, ErrServerClosed
	}
	select {
	case res := <-r.resCh:
		return res, nil
	case <-s.done:
		return nil, ErrServerClosed
	}
}

func (s *APIServer) handleHTTP(c echo.Context) error {
	defer c.Request().Body.Close()
	var buffer bytes.Buffer
	if _, err := buffer.ReadFrom(c.Request().Body); err != nil {
		return err
	}
	req, err := decodeRequest(buffer.Bytes())
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	res, err := s.dispatch(req)
	if err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	}
	if res == nil {
		return c.NoContent(http.StatusOK)
	}
	return c.JSON(http.StatusOK, res)
}

func (s *APIServer) handleWebsocket(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response().Writer, c.Request(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	Type := strings.ToLower(c.QueryParam("type"))
	switch Type {
	case "events":
		return s.hub.serve(conn)
	default:
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					return nil
				}
				return err
			}
			req, err := decodeRequest(data)
			if err != nil {
				return err
			}
			res, err := s.dispatch(req)
			if err != nil {
				return err
			}
			if res != nil {
				if err := conn.SetWriteDeadline(time.Now().Add(10 * time.Second)); err != nil {
					return err
				}
				if err := conn.WriteJSON(res); err != nil {
					return err
				}
			}
		}
	}
}

func (s *APIServer) handleJRPC(req *JRPCRequest) *JRPCResponse {
	ls := strings.SplitN(req.Method, ".", 2)
	if len(ls) != 2 {
		return s.errorResponse(req, ErrInvalidMethod)
	}

	s.Lock()
	sub, has := s.subMap[ls[0]]
	s.Unlock()
	if !has {
		return s.errorResponse(req, ErrInvalidMethod)
	}
	fn, has := sub.handler(ls[1])
	if !has {
		return s.errorResponse(req, ErrInvalidMethod)
	}

	ret, err := s.call(fn, req)
	if err != nil {
		rlog.Debugln("jrpc", req.Method, err)
	}
	if req.ID == nil {
		return nil
	}
	res := &JRPCResponse{
		JSONRPC: req.JSONRPC,
		ID:      req.ID,
	}
	if err != nil {
		res.Error = err.Error()
	} else {
		res.Result = ret
	}
	return res
}

// call recovers a panicking handler so the worker survives it
func (s *APIServer) call(fn Handler, req *JRPCRequest) (ret interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			rlog.Errorln("jrpc", req.Method, "panic", r)
			ret = nil
			err = errors.Errorf("%v", r)
		}
	}()
	return fn(req.ID, NewArgument(req.Params))
}

func (s *APIServer) errorResponse(req *JRPCRequest, err error) *JRPCResponse {
	if req.ID == nil {
		return nil
	}
	return &JRPCResponse{
		JSONRPC: req.JSONRPC,
		ID:      req.ID,
		Error:   err.Error(),
	}
}
