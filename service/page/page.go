package page

import (
	"context"
	"net/http"
	"strconv"

	"github.com/davecgh/go-spew/spew"
	"github.com/labstack/echo"
	"github.com/sirupsen/logrus"

	"github.com/meverselabs/metamart/common/format"
	"github.com/meverselabs/metamart/common/rlog"
	"github.com/meverselabs/metamart/core/accessor"
	"github.com/meverselabs/metamart/core/journal"
	"github.com/meverselabs/metamart/service/apiserver"
)

// EventGallery is broadcast with the cards after every display list change
const EventGallery = "gallery"

const defaultMintsLimit = 50

// Page serves the mint form and the gallery
type Page struct {
	ctrl    *Controller
	query   Query
	journal *journal.Journal
	api     *apiserver.APIServer
}

// New wires the controller to the read query and registers the routes and the nft rpc methods
func New(api *apiserver.APIServer, ctrl *Controller, query Query, j *journal.Journal) (*Page, error) {
	r, err := newRenderer()
	if err != nil {
		return nil, err
	}
	p := &Page{
		ctrl:    ctrl,
		query:   query,
		journal: j,
		api:     api,
	}

	query.OnComplete(func(res accessor.Result) {
		if rlog.Logger().IsLevelEnabled(logrus.DebugLevel) {
			rlog.Debugln("getAllTokens result", spew.Sdump(res.Data))
		}
		ctrl.OnResult(res)
	})
	ctrl.Listen(func(cards []Card) {
		api.Broadcast(EventGallery, cards)
	})

	api.SetRenderer(r)
	api.AddGETPath("/", p.handleIndex)
	api.AddPOSTPath("/mint", p.handleMint)
	api.AddPOSTPath("/refresh", p.handleRefresh)
	api.AddGETPath("/images/*", echo.WrapHandler(http.FileServer(http.FS(staticFiles()))))
	api.AddPOSTPath("/api/cards/:index/image-error", p.handleImageError)
	api.AddGETPath("/api/tokens", p.handleTokens)
	api.AddGETPath("/api/mints", p.handleMints)

	if err := p.registerJRPC(); err != nil {
		return nil, err
	}
	return p, nil
}

// Controller returns the controller of the page
func (p *Page) Controller() *Controller {
	return p.ctrl
}

func (p *Page) render(c echo.Context, form Form) error {
	return c.Render(http.StatusOK, "index", p.ctrl.View(form))
}

func (p *Page) handleIndex(c echo.Context) error {
	p.query.Fetch(c.Request().Context())
	return p.render(c, Form{})
}

func (p *Page) handleMint(c echo.Context) error {
	form := Form{
		Recipient:   c.FormValue("recipient"),
		Name:        c.FormValue("name"),
		Description: c.FormValue("description"),
		ImageURL:    c.FormValue("imageUrl"),
	}
	p.ctrl.Submit(c.Request().Context(), form)
	return p.render(c, form)
}

func (p *Page) handleRefresh(c echo.Context) error {
	p.query.Refetch(c.Request().Context())
	return p.render(c, Form{})
}

func (p *Page) handleImageError(c echo.Context) error {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid card index")
	}
	card, err := p.ctrl.ReportImageError(index)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return c.JSON(http.StatusOK, card)
}

type tokensResponse struct {
	Cards []Card `json:"cards"`
	Error string `json:"error,omitempty"`
}

func (p *Page) tokens() *tokensResponse {
	res := &tokensResponse{
		Cards: p.ctrl.Cards(),
	}
	if err := p.ctrl.ReadError(); err != nil {
		res.Error = err.Error()
	}
	return res
}

func (p *Page) handleTokens(c echo.Context) error {
	p.query.Fetch(c.Request().Context())
	return c.JSON(http.StatusOK, p.tokens())
}

func (p *Page) mints(limit int) ([]*journal.Record, error) {
	if p.journal == nil {
		return []*journal.Record{}, nil
	}
	if limit <= 0 {
		limit = defaultMintsLimit
	}
	return p.journal.List(limit)
}

func (p *Page) handleMints(c echo.Context) error {
	limit := 0
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid limit")
		}
		limit = n
	}
	list, err := p.mints(limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, list)
}

type mintResult struct {
	TxHash string `json:"txHash"`
}

func (p *Page) registerJRPC() error {
	s, err := p.api.JRPC("nft")
	if err != nil {
		return err
	}
	s.Set("getAllTokens", func(ID interface{}, arg *apiserver.Argument) (interface{}, error) {
		p.query.Fetch(context.Background())
		return p.tokens(), nil
	})
	s.Set("refetch", func(ID interface{}, arg *apiserver.Argument) (interface{}, error) {
		p.query.Refetch(context.Background())
		return p.tokens(), nil
	})
	s.Set("safeMint", func(ID interface{}, arg *apiserver.Argument) (interface{}, error) {
		args, err := arg.Strings(0)
		if err != nil {
			return nil, err
		}
		if len(args) != 4 {
			return nil, apiserver.ErrInvalidArgument
		}
		tx, err := p.ctrl.Submit(context.Background(), Form{
			Recipient:   args[0],
			Name:        args[1],
			Description: args[2],
			ImageURL:    args[3],
		})
		if err != nil {
			return nil, err
		}
		return &mintResult{TxHash: tx}, nil
	})
	s.Set("mints", func(ID interface{}, arg *apiserver.Argument) (interface{}, error) {
		limit := 0
		if arg.Len() > 0 {
			n, err := arg.Int(0)
			if err != nil {
				return nil, err
			}
			limit = n
		}
		return p.mints(limit)
	})
	s.Set("compressAddress", func(ID interface{}, arg *apiserver.Argument) (interface{}, error) {
		addr, err := arg.String(0)
		if err != nil {
			return nil, err
		}
		return format.CompressAddress(addr), nil
	})
	s.Set("isValidUrl", func(ID interface{}, arg *apiserver.Argument) (interface{}, error) {
		raw, err := arg.String(0)
		if err != nil {
			return nil, err
		}
		return format.IsValidURL(raw), nil
	})
	return nil
}
