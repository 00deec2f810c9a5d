package apiserver

import (
	"context"
	"net/http"
	"sync"

	"github.com/labstack/echo"
	"github.com/labstack/echo/middleware"
)

const workerCount = 50

// APIServer provides json rpc and web service of the gallery
type APIServer struct {
	sync.Mutex
	e         *echo.Echo
	subMap    map[string]*JRPCSub
	hub       *eventHub
	reqCh     chan *reqData
	done      chan struct{}
	closeOnce sync.Once
}

// NewAPIServer returns a APIServer
func NewAPIServer() *APIServer {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.DefaultCORSConfig))

	s := &APIServer{
		e:      e,
		subMap: map[string]*JRPCSub{},
		hub:    newEventHub(),
		reqCh:  make(chan *reqData),
		done:   make(chan struct{}),
	}
	s.e.POST("/api/endpoints/http", s.handleHTTP)
	s.e.GET("/api/endpoints/websocket", s.handleWebsocket)
	for i := 0; i < workerCount; i++ {
		go func() {
			for {
				select {
				case <-s.done:
					return
				case r := <-s.reqCh:
					r.resCh <- s.handleJRPC(r.req)
				}
			}
		}()
	}
	return s
}

// Name returns the name of the service
func (s *APIServer) Name() string {
	return "metamart.apiserver"
}

// Echo returns the underlying echo instance
func (s *APIServer) Echo() *echo.Echo {
	return s.e
}

// ServeHTTP makes the server usable as a http.Handler
func (s *APIServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.e.ServeHTTP(w, r)
}

// AddGETPath registers the handler of the GET path
func (s *APIServer) AddGETPath(path string, h echo.HandlerFunc) {
	s.e.GET(path, h)
}

// AddPOSTPath registers the handler of the POST path
func (s *APIServer) AddPOSTPath(path string, h echo.HandlerFunc) {
	s.e.POST(path, h)
}

// SetRenderer sets the template renderer of the pages
func (s *APIServer) SetRenderer(r echo.Renderer) {
	s.e.Renderer = r
}

// JRPC provides the json rpc feature as a SubName.FunctionName methods
func (s *APIServer) JRPC(SubName string) (*JRPCSub, error) {
	s.Lock()
	defer s.Unlock()

	if _, has := s.subMap[SubName]; has {
		return nil, ErrExistSubName
	}
	js := NewJRPCSub()
	s.subMap[SubName] = js
	return js, nil
}

// Broadcast pushes the event to every connected events stream
func (s *APIServer) Broadcast(Type string, data interface{}) {
	s.hub.broadcast(&Event{
		Type: Type,
		Data: data,
	})
}

// Run starts web service of the apiserver, it blocks until Close
func (s *APIServer) Run(BindAddress string) error {
	err := s.e.Start(BindAddress)
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Close stops the web service and the rpc workers
func (s *APIServer) Close() {
	s.closeOnce.Do(func() {
		s.e.Shutdown(context.Background())
		s.hub.close()
		close(s.done)
	})
}
