package page

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/meverselabs/metamart/common/format"
	"github.com/meverselabs/metamart/common/rlog"
	"github.com/meverselabs/metamart/contract/mynft"
	"github.com/meverselabs/metamart/core/accessor"
	"github.com/meverselabs/metamart/core/journal"
	"github.com/meverselabs/metamart/extern/txparser"
)

// errors
var (
	ErrInvalidCardIndex = errors.New("invalid card index")
)

// Writer submits a state-changing contract call and returns its transaction hash
type Writer interface {
	Write(ctx context.Context, contract string, fn string, args []string) (string, error)
}

// Query is the read of the token list
type Query interface {
	Fetch(ctx context.Context) accessor.Result
	Refetch(ctx context.Context) accessor.Result
	OnComplete(fn accessor.CompleteListener)
}

// Form holds the four fields of the mint form
type Form struct {
	Recipient   string `json:"recipient"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
}

// Args returns the positional arguments of safeMint
func (f Form) Args() []string {
	return []string{f.Recipient, f.Name, f.Description, f.ImageURL}
}

// Card is the display state of one token
type Card struct {
	Index       int    `json:"index"`
	Number      int    `json:"number"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Owner       string `json:"owner"`
	OwnerShort  string `json:"ownerShort"`
	ImageURL    string `json:"imageUrl"`
	ImageSrc    string `json:"imageSrc"`
	Fallback    bool   `json:"fallback"`
}

// View is everything the page renders
type View struct {
	Form        Form
	Cards       []Card
	Error       string
	FallbackURL string
}

// Controller owns the display list and the per-card fallback flags, form values belong to each request
type Controller struct {
	sync.Mutex
	writer           Writer
	journal          *journal.Journal
	selector         string
	tokens           []mynft.TokenRecord
	failed           map[int]string
	readErr          error
	refresh          func(ctx context.Context)
	refreshAfterMint bool
	listeners        []func(cards []Card)
}

// NewController returns a controller writing through the writer, the journal may be nil
func NewController(writer Writer, j *journal.Journal) *Controller {
	c := &Controller{
		writer:  writer,
		journal: j,
		tokens:  []mynft.TokenRecord{},
		failed:  map[int]string{},
	}
	if parsed, err := mynft.ABI(); err == nil {
		c.selector = "0x" + txparser.FuncSignature(parsed.Methods[mynft.MethodSafeMint].Sig)
	}
	return c
}

// SetRefreshAfterMint makes a successful submission call fn, the read is not refreshed by default
func (c *Controller) SetRefreshAfterMint(enable bool, fn func(ctx context.Context)) {
	c.Lock()
	defer c.Unlock()

	c.refreshAfterMint = enable
	c.refresh = fn
}

// Listen registers fn to be called with the cards after every display list change
func (c *Controller) Listen(fn func(cards []Card)) {
	c.Lock()
	defer c.Unlock()

	c.listeners = append(c.listeners, fn)
}

// Submit forwards the form values to safeMint of MyNFT
// failures are only logged and journaled
func (c *Controller) Submit(ctx context.Context, form Form) (string, error) {
	c.Lock()
	refresh := c.refresh
	refreshAfterMint := c.refreshAfterMint
	c.Unlock()

	args := form.Args()
	start := time.Now()
	tx, err := c.writer.Write(ctx, mynft.ContractName, mynft.MethodSafeMint, args)
	end := time.Now()
	if err != nil {
		rlog.WithFields(map[string]interface{}{
			"function": mynft.MethodSafeMint,
			"args":     args,
		}).Errorln("Transaction failed:", err)
	} else {
		rlog.Println("Transaction successful:", tx)
	}

	if c.journal != nil {
		rec := &journal.Record{
			Contract: mynft.ContractName,
			Function: mynft.MethodSafeMint,
			Selector: c.selector,
			Args:     args,
			TxHash:   tx,
			Start:    uint64(start.UnixNano()),
			End:      uint64(end.UnixNano()),
		}
		if err != nil {
			rec.Error = err.Error()
		}
		if jerr := c.journal.Append(rec); jerr != nil {
			rlog.Errorln("journal", jerr)
		}
	}

	if err == nil && refreshAfterMint && refresh != nil {
		refresh(ctx)
	}
	return tx, err
}

// OnResult applies a completed read to the display list
func (c *Controller) OnResult(res accessor.Result) {
	if res.Err != nil {
		c.OnTokensLoaded(nil, res.Err)
		return
	}
	tokens, err := mynft.DecodeTokens(res.Data)
	c.OnTokensLoaded(tokens, err)
}

// OnTokensLoaded replaces the display list with the tokens
// a failed read keeps the previous list and records the error
func (c *Controller) OnTokensLoaded(tokens []mynft.TokenRecord, err error) {
	c.Lock()
	if err != nil {
		c.readErr = err
	} else {
		c.readErr = nil
		list := make([]mynft.TokenRecord, len(tokens))
		copy(list, tokens)
		c.tokens = list
		for idx, url := range c.failed {
			if idx >= len(list) || list[idx].ImageURL != url {
				delete(c.failed, idx)
			}
		}
	}
	cards := c.cards()
	listeners := make([]func(cards []Card), len(c.listeners))
	copy(listeners, c.listeners)
	c.Unlock()

	if err == nil {
		for _, fn := range listeners {
			fn(cards)
		}
	}
}

// ReportImageError switches the card of the index to the fallback image
func (c *Controller) ReportImageError(index int) (Card, error) {
	c.Lock()
	defer c.Unlock()

	if index < 0 || index >= len(c.tokens) {
		return Card{}, errors.Wrapf(ErrInvalidCardIndex, "%d", index)
	}
	c.failed[index] = c.tokens[index].ImageURL
	return c.card(index), nil
}

// Tokens returns the current display list
func (c *Controller) Tokens() []mynft.TokenRecord {
	c.Lock()
	defer c.Unlock()

	list := make([]mynft.TokenRecord, len(c.tokens))
	copy(list, c.tokens)
	return list
}

// Cards returns the display state of every token
func (c *Controller) Cards() []Card {
	c.Lock()
	defer c.Unlock()

	return c.cards()
}

// ReadError returns the error of the last read, nil after a successful one
func (c *Controller) ReadError() error {
	c.Lock()
	defer c.Unlock()

	return c.readErr
}

// View returns the render state of the page with the form values of the request
func (c *Controller) View(form Form) *View {
	c.Lock()
	defer c.Unlock()

	v := &View{
		Form:        form,
		Cards:       c.cards(),
		FallbackURL: format.FallbackImageURL,
	}
	if c.readErr != nil {
		v.Error = c.readErr.Error()
	}
	return v
}

func (c *Controller) cards() []Card {
	cards := make([]Card, 0, len(c.tokens))
	for i := range c.tokens {
		cards = append(cards, c.card(i))
	}
	return cards
}

func (c *Controller) card(i int) Card {
	t := c.tokens[i]
	url, has := c.failed[i]
	failed := has && url == t.ImageURL
	src := format.ImageSource(t.ImageURL, failed)
	return Card{
		Index:       i,
		Number:      i + 1,
		Name:        t.Name,
		Description: t.Description,
		Owner:       t.Owner,
		OwnerShort:  format.CompressAddress(t.Owner),
		ImageURL:    t.ImageURL,
		ImageSrc:    src,
		Fallback:    src == format.FallbackImageURL,
	}
}
