package page_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"

	"github.com/pkg/errors"

	"github.com/meverselabs/metamart/common/format"
	"github.com/meverselabs/metamart/contract/mynft"
	"github.com/meverselabs/metamart/core/journal"
	"github.com/meverselabs/metamart/service/apiserver"
	"github.com/meverselabs/metamart/service/page"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Page", func() {
	var (
		writer *fakeWriter
		query  *fakeQuery
		jr     *journal.Journal
		api    *apiserver.APIServer
		ts     *httptest.Server
	)

	BeforeEach(func() {
		var err error
		writer = &fakeWriter{tx: "0xfeed"}
		query = &fakeQuery{}
		query.Set(sampleTokens(), nil)
		jr, err = journal.Open("memory", "")
		Expect(err).NotTo(HaveOccurred())
		api = apiserver.NewAPIServer()
		_, err = page.New(api, page.NewController(writer, jr), query, jr)
		Expect(err).NotTo(HaveOccurred())
		ts = httptest.NewServer(api)
	})

	AfterEach(func() {
		ts.Close()
		api.Close()
		jr.Close()
	})

	get := func(path string) (int, string) {
		resp, err := http.Get(ts.URL + path)
		Expect(err).NotTo(HaveOccurred())
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		Expect(err).NotTo(HaveOccurred())
		return resp.StatusCode, string(body)
	}

	post := func(path string, form url.Values) (int, string) {
		resp, err := http.PostForm(ts.URL+path, form)
		Expect(err).NotTo(HaveOccurred())
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		Expect(err).NotTo(HaveOccurred())
		return resp.StatusCode, string(body)
	}

	jrpc := func(method string, params ...interface{}) *apiserver.JRPCResponse {
		data, err := json.Marshal(&apiserver.JRPCRequest{JSONRPC: "2.0", ID: 1, Method: method, Params: params})
		Expect(err).NotTo(HaveOccurred())
		resp, err := http.Post(ts.URL+"/api/endpoints/http", "application/json", strings.NewReader(string(data)))
		Expect(err).NotTo(HaveOccurred())
		defer resp.Body.Close()
		var res apiserver.JRPCResponse
		Expect(json.NewDecoder(resp.Body).Decode(&res)).To(Succeed())
		return &res
	}

	It("renders the form and one card per token", func() {
		code, body := get("/")
		Expect(code).To(Equal(http.StatusOK))
		Expect(body).To(ContainSubstring("MetaMart NFT"))
		Expect(body).To(ContainSubstring("Recipient Address"))
		Expect(body).To(ContainSubstring("Mint NFT"))
		Expect(body).To(ContainSubstring("NFT Collection"))
		Expect(strings.Count(body, `class="card nft"`)).To(Equal(3))
		Expect(body).To(ContainSubstring("NFT 1"))
		Expect(body).To(ContainSubstring("NFT 3"))
		Expect(body).To(ContainSubstring("0x8f3C...A063"))
		Expect(body).To(ContainSubstring(`src="http://img/x.png"`))
		Expect(body).To(ContainSubstring(`src="` + format.FallbackImageURL + `"`))
	})

	It("keeps data and ipfs image urls in the card", func() {
		query.Set([]mynft.TokenRecord{
			{Name: "Inline", ImageURL: "data:image/png;base64,iVBORw0KGgo=", Owner: ownerA},
			{Name: "Pinned", ImageURL: "ipfs://bafybeigdyrzt5sfp7udm7hu76uh7y26nf3efuylqabf3oclgtqy55fbzdi", Owner: ownerA},
			{Name: "Script", ImageURL: "javascript:alert(1)", Owner: ownerB},
		}, nil)
		_, body := get("/")
		Expect(body).To(ContainSubstring(`src="data:image/png;base64,iVBORw0KGgo="`))
		Expect(body).To(ContainSubstring(`src="ipfs://bafybeigdyrzt5sfp7udm7hu76uh7y26nf3efuylqabf3oclgtqy55fbzdi"`))
		Expect(body).NotTo(ContainSubstring("javascript:alert"))
		Expect(strings.Count(body, "#ZgotmplZ")).To(Equal(1))
	})

	It("renders the read error below the gallery", func() {
		query.Set(nil, errors.New("could not reach the node"))
		_, body := get("/")
		Expect(body).To(ContainSubstring("could not reach the node"))
	})

	It("submits the mint form and keeps the values", func() {
		code, body := post("/mint", url.Values{
			"recipient":   {"0xabc..."},
			"name":        {"Card"},
			"description": {"desc"},
			"imageUrl":    {"http://img/x.png"},
		})
		Expect(code).To(Equal(http.StatusOK))
		Expect(body).To(ContainSubstring(`value="0xabc..."`))

		calls := writer.Calls()
		Expect(calls).To(HaveLen(1))
		Expect(calls[0].args).To(Equal([]string{"0xabc...", "Card", "desc", "http://img/x.png"}))
	})

	It("does not show one visitor's submitted values to another", func() {
		code, _ := post("/mint", url.Values{
			"recipient":   {"0x1111111111111111111111111111111111111111"},
			"name":        {"Private Card"},
			"description": {"mine"},
			"imageUrl":    {"http://img/private.png"},
		})
		Expect(code).To(Equal(http.StatusOK))

		code, body := get("/")
		Expect(code).To(Equal(http.StatusOK))
		Expect(body).NotTo(ContainSubstring("0x1111111111111111111111111111111111111111"))
		Expect(body).NotTo(ContainSubstring("Private Card"))
		Expect(body).To(ContainSubstring(`name="recipient" placeholder="0a4321...abcd" value=""`))
		Expect(body).To(ContainSubstring(`<button type="submit">Mint NFT</button>`))
	})

	It("answers with the page when the write fails", func() {
		writer.err = errors.New("insufficient funds")
		code, body := post("/mint", url.Values{"recipient": {"0x1"}, "name": {"n"}})
		Expect(code).To(Equal(http.StatusOK))
		Expect(body).NotTo(ContainSubstring("insufficient funds"))

		code, body = get("/api/mints")
		Expect(code).To(Equal(http.StatusOK))
		var list []*journal.Record
		Expect(json.Unmarshal([]byte(body), &list)).To(Succeed())
		Expect(list).To(HaveLen(1))
		Expect(list[0].Error).To(Equal("insufficient funds"))
	})

	It("refreshes the gallery on request", func() {
		get("/")
		reads := query.Reads()
		query.Set(sampleTokens()[:1], nil)
		_, body := post("/refresh", nil)
		Expect(query.Reads()).To(Equal(reads + 1))
		Expect(strings.Count(body, `class="card nft"`)).To(Equal(1))
	})

	It("switches a card to the fallback image on report", func() {
		get("/")
		code, body := post("/api/cards/2/image-error", nil)
		Expect(code).To(Equal(http.StatusOK))
		var card page.Card
		Expect(json.Unmarshal([]byte(body), &card)).To(Succeed())
		Expect(card.Index).To(Equal(2))
		Expect(card.Fallback).To(BeTrue())

		_, body = get("/api/tokens")
		var tokens struct {
			Cards []page.Card `json:"cards"`
		}
		Expect(json.Unmarshal([]byte(body), &tokens)).To(Succeed())
		Expect(tokens.Cards).To(HaveLen(3))
		Expect(tokens.Cards[0].Fallback).To(BeFalse())
		Expect(tokens.Cards[2].Fallback).To(BeTrue())

		code, _ = post("/api/cards/9/image-error", nil)
		Expect(code).To(Equal(http.StatusNotFound))
		code, _ = post("/api/cards/x/image-error", nil)
		Expect(code).To(Equal(http.StatusBadRequest))
	})

	It("serves the embedded fallback image", func() {
		resp, err := http.Get(ts.URL + format.FallbackImageURL)
		Expect(err).NotTo(HaveOccurred())
		defer resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusOK))
		Expect(resp.Header.Get("Content-Type")).To(Equal("image/png"))
	})

	It("exposes the gallery over json rpc", func() {
		res := jrpc("nft.getAllTokens")
		Expect(res.Error).To(BeEmpty())
		cards := res.Result.(map[string]interface{})["cards"].([]interface{})
		Expect(cards).To(HaveLen(3))

		res = jrpc("nft.safeMint", "0xabc...", "Card", "desc", "http://img/x.png")
		Expect(res.Error).To(BeEmpty())
		Expect(res.Result.(map[string]interface{})["txHash"]).To(Equal("0xfeed"))

		res = jrpc("nft.safeMint", "0xabc...")
		Expect(res.Error).To(Equal(apiserver.ErrInvalidArgument.Error()))

		res = jrpc("nft.mints", 10)
		Expect(res.Error).To(BeEmpty())
		Expect(res.Result.([]interface{})).To(HaveLen(1))

		res = jrpc("nft.compressAddress", "0x8f3Cf7ad23Cd3CaDbD9735AFf958023239c6A063")
		Expect(res.Result).To(Equal("0x8f3C...A063"))

		res = jrpc("nft.isValidUrl", "not a url")
		Expect(res.Result).To(Equal(false))
	})
})
