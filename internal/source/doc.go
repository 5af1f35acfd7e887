// Package source defines the price source capability and the concrete
// HTTP-backed sources that implement it.
//
// A Source is a named fetch operation that either returns a normalized
// Quote or fails. Sources are registered in a Registry by name and
// materialized into an ordered list for the fallback chain:
//
//	reg := source.NewRegistry()
//	reg.Register("binance", func() (source.Source, error) { return source.NewBinance(client, "USDT"), nil })
//	srcs, err := reg.Build([]string{"binance", "coingecko"})
package source
