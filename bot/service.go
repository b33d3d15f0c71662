package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"kriptoradar/coins"
	"kriptoradar/format"
	"kriptoradar/market"
)

// Market is the slice of the market client the service needs.
type Market interface {
	Snapshot(ctx context.Context, id string) (*market.Snapshot, error)
	Markets(ctx context.Context, limit int, window string) ([]market.Coin, error)
	Search(ctx context.Context, query string) ([]market.SearchResult, error)
	TopGainers(ctx context.Context) ([]market.Coin, error)
	LocalCurrency() string
}

// Service implements the bot commands on top of a market client. The
// in-flight guard is supplied by the caller so transports share one
// per-user view.
type Service struct {
	market   Market
	inflight *Inflight
	cache    *Cache
	registry *Registry
}

// NewService builds the service and registers its commands.
func NewService(m Market, inflight *Inflight, cacheTTL time.Duration) *Service {
	s := &Service{
		market:   m,
		inflight: inflight,
		cache:    NewCache(cacheTTL),
		registry: NewRegistry(),
	}
	s.register()
	return s
}

// Registry exposes the command registry to transports.
func (s *Service) Registry() *Registry {
	return s.registry
}

func (s *Service) register() {
	s.registry.Register(&Command{
		Name:        "start",
		Description: "Hoş geldin mesajı",
		Usage:       "/start",
		Instant:     true,
		Handler: func(*Context) (string, error) {
			return msgWelcome, nil
		},
	})
	s.registry.Register(&Command{
		Name:        "help",
		Description: "Yardım menüsü",
		Usage:       "/help",
		Instant:     true,
		Handler: func(*Context) (string, error) {
			return msgHelp, nil
		},
	})
	s.registry.Register(&Command{
		Name:        "fiyat",
		Description: "Kripto para fiyatı",
		Usage:       "/fiyat <coin>",
		Handler:     s.handlePrice,
	})
	s.registry.Register(&Command{
		Name:        "btc",
		Description: "Bitcoin fiyatı",
		Usage:       "/btc",
		Handler: func(ctx *Context) (string, error) {
			ctx.Args = []string{"bitcoin"}
			return s.handlePrice(ctx)
		},
	})
	s.registry.Register(&Command{
		Name:        "eth",
		Description: "Ethereum fiyatı",
		Usage:       "/eth",
		Handler: func(ctx *Context) (string, error) {
			ctx.Args = []string{"ethereum"}
			return s.handlePrice(ctx)
		},
	})
	s.registry.Register(&Command{
		Name:        "top10",
		Description: "Top 10 kripto para",
		Usage:       "/top10",
		Handler:     s.handleTop10,
	})
	s.registry.Register(&Command{
		Name:        "ara",
		Description: "Kripto para ara",
		Usage:       "/ara <isim>",
		Handler:     s.handleSearch,
	})
	s.registry.Register(&Command{
		Name:        "yukselenler",
		Description: "Son 1 saatin yükselenleri",
		Usage:       "/yukselenler",
		Handler:     s.handleGainers,
	})
}

func (s *Service) handlePrice(ctx *Context) (string, error) {
	if !s.inflight.TryAcquire(ctx.User) {
		return msgBusy, nil
	}
	defer s.inflight.Release(ctx.User)

	if len(ctx.Args) == 0 {
		return msgPriceUsage, nil
	}

	query := strings.ToLower(strings.Join(ctx.Args, " "))
	return s.priceReply(ctx.Ctx, query, msgErrorNotFound), nil
}

// priceReply runs the resolve-fetch-format pipeline for one query.
func (s *Service) priceReply(ctx context.Context, query, notFound string) string {
	if cached, ok := s.cache.Get("fiyat:" + query); ok {
		return cached
	}

	id := coins.Resolve(query)
	snap, err := s.market.Snapshot(ctx, id)
	switch {
	case errors.Is(err, market.ErrNotFound):
		return notFound
	case err != nil:
		return msgErrorAPI
	}

	msg := format.PriceMessage(snap, query, s.market.LocalCurrency())
	s.cache.Set("fiyat:"+query, msg)
	return msg
}

func (s *Service) handleTop10(ctx *Context) (string, error) {
	if !s.inflight.TryAcquire(ctx.User) {
		return msgBusy, nil
	}
	defer s.inflight.Release(ctx.User)

	if cached, ok := s.cache.Get("top10"); ok {
		return cached, nil
	}

	listing, err := s.market.Markets(ctx.Ctx, 10, "24h")
	if err != nil || len(listing) == 0 {
		return msgErrorAPI, nil
	}

	msg := format.TopCoinsMessage(listing)
	s.cache.Set("top10", msg)
	return msg, nil
}

func (s *Service) handleSearch(ctx *Context) (string, error) {
	if !s.inflight.TryAcquire(ctx.User) {
		return msgBusy, nil
	}
	defer s.inflight.Release(ctx.User)

	if len(ctx.Args) == 0 {
		return msgAraUsage, nil
	}

	query := strings.Join(ctx.Args, " ")
	results, err := s.market.Search(ctx.Ctx, query)
	if err != nil {
		return msgErrorAPI, nil
	}
	if len(results) == 0 {
		return fmt.Sprintf("❌ '%s' için sonuç bulunamadı.\nFarklı bir arama terimi deneyin.", query), nil
	}

	return format.SearchMessage(results), nil
}

func (s *Service) handleGainers(ctx *Context) (string, error) {
	if !s.inflight.TryAcquire(ctx.User) {
		return msgBusy, nil
	}
	defer s.inflight.Release(ctx.User)

	if cached, ok := s.cache.Get("yukselenler"); ok {
		return cached, nil
	}

	gainers, err := s.market.TopGainers(ctx.Ctx)
	if err != nil || len(gainers) == 0 {
		return msgErrorAPI, nil
	}

	msg := format.GainersMessage(gainers)
	s.cache.Set("yukselenler", msg)
	return msg, nil
}

// Text handles free-form chat text. Ticker-like input goes through the
// implicit price path; an unrecognized single word gets a hint. Returns
// handled=false when the bot should stay quiet.
func (s *Service) Text(ctx *Context, text string) (string, bool) {
	cleaned := coins.Clean(text)

	if coins.IsQuery(cleaned) {
		if !s.inflight.TryAcquire(ctx.User) {
			return "", false
		}
		defer s.inflight.Release(ctx.User)

		notFound := fmt.Sprintf("❌ '%s' bulunamadı.\nDesteklenen kripto paralar için /help komutunu kullanın.", text)
		return s.priceReply(ctx.Ctx, cleaned, notFound), true
	}

	// single unrecognized word, nudge towards /fiyat
	if len(strings.Fields(text)) == 1 && len([]rune(text)) > 2 {
		return fmt.Sprintf("🤔 '%s' tanınamadı.\nKripto para fiyatı için `/fiyat %s` komutunu deneyin.\nVeya /help ile desteklenen paraları görün.", text, text), true
	}

	return "", false
}

// IsQuery reports whether free text would take the implicit price path.
// Transports use it to decide whether to show the fetching notice.
func (s *Service) IsQuery(text string) bool {
	return coins.IsQuery(text)
}

// Busy reports whether the user already has a request in flight.
func (s *Service) Busy(user int64) bool {
	return s.inflight.Busy(user)
}
