package page_test

import (
	"context"

	ecommon "github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/meverselabs/metamart/common/format"
	"github.com/meverselabs/metamart/contract/mynft"
	_ "github.com/meverselabs/metamart/core/backend/memory_driver"
	"github.com/meverselabs/metamart/core/journal"
	"github.com/meverselabs/metamart/extern/txparser"
	"github.com/meverselabs/metamart/service/page"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Controller", func() {
	var (
		writer *fakeWriter
		jr     *journal.Journal
		ctrl   *page.Controller
	)

	BeforeEach(func() {
		var err error
		writer = &fakeWriter{tx: "0xabc123"}
		jr, err = journal.Open("memory", "")
		Expect(err).NotTo(HaveOccurred())
		ctrl = page.NewController(writer, jr)
	})

	AfterEach(func() {
		jr.Close()
	})

	Describe("Submit", func() {
		form := page.Form{
			Recipient:   "0xabc...",
			Name:        "Card",
			Description: "desc",
			ImageURL:    "http://img/x.png",
		}

		It("invokes safeMint of MyNFT once with the four values in order", func() {
			tx, err := ctrl.Submit(context.Background(), form)
			Expect(err).NotTo(HaveOccurred())
			Expect(tx).To(Equal("0xabc123"))

			calls := writer.Calls()
			Expect(calls).To(HaveLen(1))
			Expect(calls[0].contract).To(Equal(mynft.ContractName))
			Expect(calls[0].fn).To(Equal(mynft.MethodSafeMint))
			Expect(calls[0].args).To(Equal([]string{"0xabc...", "Card", "desc", "http://img/x.png"}))
		})

		It("renders the submitted values only in the view of the submitter", func() {
			ctrl.Submit(context.Background(), form)
			Expect(ctrl.View(form).Form).To(Equal(form))
			Expect(ctrl.View(page.Form{}).Form).To(Equal(page.Form{}))
		})

		It("journals a successful write with its selector", func() {
			ctrl.Submit(context.Background(), form)
			list, err := jr.List(0)
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(1))
			Expect(list[0].Contract).To(Equal(mynft.ContractName))
			Expect(list[0].Function).To(Equal(mynft.MethodSafeMint))
			Expect(list[0].Selector).To(Equal("0x" + txparser.FuncSignature("safeMint(address,string,string,string)")))
			Expect(list[0].Args).To(Equal(form.Args()))
			Expect(list[0].TxHash).To(Equal("0xabc123"))
			Expect(list[0].Succeeded()).To(BeTrue())
		})

		It("records a failed write only in the journal", func() {
			writer.err = errors.New("user rejected")
			_, err := ctrl.Submit(context.Background(), form)
			Expect(err).To(HaveOccurred())

			view := ctrl.View(form)
			Expect(view.Error).To(BeEmpty())
			Expect(view.Form).To(Equal(form))

			list, err := jr.List(0)
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(1))
			Expect(list[0].Error).To(Equal("user rejected"))
			Expect(list[0].Succeeded()).To(BeFalse())
		})

		It("does not refresh the gallery after a mint unless enabled", func() {
			refreshed := 0
			ctrl.SetRefreshAfterMint(false, func(ctx context.Context) { refreshed++ })
			ctrl.Submit(context.Background(), form)
			Expect(refreshed).To(Equal(0))

			ctrl.SetRefreshAfterMint(true, func(ctx context.Context) { refreshed++ })
			ctrl.Submit(context.Background(), form)
			Expect(refreshed).To(Equal(1))

			writer.err = errors.New("reverted")
			ctrl.Submit(context.Background(), form)
			Expect(refreshed).To(Equal(1))
		})

		It("works without a journal", func() {
			bare := page.NewController(writer, nil)
			_, err := bare.Submit(context.Background(), form)
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("OnTokensLoaded", func() {
		It("renders one card per record after an empty list", func() {
			Expect(ctrl.Cards()).To(BeEmpty())

			ctrl.OnTokensLoaded(sampleTokens(), nil)
			cards := ctrl.Cards()
			Expect(cards).To(HaveLen(3))
			Expect(cards[0].Number).To(Equal(1))
			Expect(cards[0].Name).To(Equal("Card"))
			Expect(cards[0].Description).To(Equal("desc"))
			Expect(cards[0].OwnerShort).To(Equal("0x8f3C...A063"))
			Expect(cards[2].Number).To(Equal(3))
		})

		It("uses the fallback image for invalid urls", func() {
			ctrl.OnTokensLoaded(sampleTokens(), nil)
			cards := ctrl.Cards()
			Expect(cards[0].ImageSrc).To(Equal("http://img/x.png"))
			Expect(cards[0].Fallback).To(BeFalse())
			Expect(cards[1].ImageSrc).To(Equal(format.FallbackImageURL))
			Expect(cards[1].Fallback).To(BeTrue())
		})

		It("keeps the list and records the error of a failed read", func() {
			ctrl.OnTokensLoaded(sampleTokens(), nil)
			ctrl.OnTokensLoaded(nil, errors.New("network down"))
			Expect(ctrl.Cards()).To(HaveLen(3))
			Expect(ctrl.View(page.Form{}).Error).To(Equal("network down"))

			ctrl.OnTokensLoaded(sampleTokens()[:1], nil)
			Expect(ctrl.Cards()).To(HaveLen(1))
			Expect(ctrl.ReadError()).To(BeNil())
		})

		It("replaces the list with an empty successful read", func() {
			ctrl.OnTokensLoaded(sampleTokens(), nil)
			ctrl.OnTokensLoaded([]mynft.TokenRecord{}, nil)
			Expect(ctrl.Cards()).To(BeEmpty())
		})

		It("does not alias the records it was given", func() {
			tokens := sampleTokens()
			ctrl.OnTokensLoaded(tokens, nil)
			tokens[0].Name = "changed"
			Expect(ctrl.Tokens()[0].Name).To(Equal("Card"))
		})

		It("notifies listeners of successful reads only", func() {
			var seen [][]page.Card
			ctrl.Listen(func(cards []page.Card) {
				seen = append(seen, cards)
			})
			ctrl.OnTokensLoaded(sampleTokens(), nil)
			ctrl.OnTokensLoaded(nil, errors.New("boom"))
			Expect(seen).To(HaveLen(1))
			Expect(seen[0]).To(HaveLen(3))
		})
	})

	Describe("OnResult", func() {
		It("decodes the contract outputs", func() {
			data := unpackedTokens(sampleTokens())
			ctrl.OnResult(resultOf(data, nil))
			cards := ctrl.Cards()
			Expect(cards).To(HaveLen(3))
			Expect(cards[1].Owner).To(Equal(ecommon.HexToAddress(ownerB).Hex()))
		})

		It("records an undecodable output as a read error", func() {
			ctrl.OnTokensLoaded(sampleTokens(), nil)
			ctrl.OnResult(resultOf([]interface{}{"garbage"}, nil))
			Expect(ctrl.Cards()).To(HaveLen(3))
			Expect(ctrl.ReadError()).To(HaveOccurred())
		})
	})

	Describe("ReportImageError", func() {
		BeforeEach(func() {
			ctrl.OnTokensLoaded(sampleTokens(), nil)
		})

		It("switches only the failing card to the fallback image", func() {
			card, err := ctrl.ReportImageError(2)
			Expect(err).NotTo(HaveOccurred())
			Expect(card.ImageSrc).To(Equal(format.FallbackImageURL))

			cards := ctrl.Cards()
			Expect(cards).To(HaveLen(3))
			Expect(cards[0].ImageSrc).To(Equal("http://img/x.png"))
			Expect(cards[2].ImageSrc).To(Equal(format.FallbackImageURL))
			Expect(ctrl.View(page.Form{}).Form.ImageURL).To(BeEmpty())
		})

		It("rejects unknown cards", func() {
			_, err := ctrl.ReportImageError(3)
			Expect(errors.Cause(err)).To(Equal(page.ErrInvalidCardIndex))
			_, err = ctrl.ReportImageError(-1)
			Expect(errors.Cause(err)).To(Equal(page.ErrInvalidCardIndex))
		})

		It("forgets the failure when the card gets another image", func() {
			ctrl.ReportImageError(0)
			tokens := sampleTokens()
			ctrl.OnTokensLoaded(tokens, nil)
			Expect(ctrl.Cards()[0].Fallback).To(BeTrue())

			tokens[0].ImageURL = "https://example.com/new.png"
			ctrl.OnTokensLoaded(tokens, nil)
			Expect(ctrl.Cards()[0].Fallback).To(BeFalse())
		})
	})
})
