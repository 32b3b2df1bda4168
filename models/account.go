package models

import "github.com/shopspring/decimal"

// AccountSnapshot holds the per-cycle view of the account: free and frozen
// balances keyed by asset, plus the last traded price reported alongside the
// user info. A fresh snapshot fully replaces the previous one every cycle.
type AccountSnapshot struct {
	Free      map[string]decimal.Decimal
	Frozen    map[string]decimal.Decimal
	LastPrice decimal.Decimal
}

// FreeBalance returns the available balance for an asset, zero if unknown.
func (s *AccountSnapshot) FreeBalance(asset string) decimal.Decimal {
	return s.Free[asset]
}

// FrozenBalance returns the frozen balance for an asset, zero if unknown.
func (s *AccountSnapshot) FrozenBalance(asset string) decimal.Decimal {
	return s.Frozen[asset]
}
