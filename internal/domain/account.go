package domain

import "github.com/shopspring/decimal"

// AssetBalance is a single asset line from the futures account,
// reported only when the wallet balance is positive.
type AssetBalance struct {
	Asset            string
	WalletBalance    decimal.Decimal
	AvailableBalance decimal.Decimal
}

// Position is an open futures position for one symbol.
type Position struct {
	Symbol           string
	PositionAmt      decimal.Decimal
	EntryPrice       decimal.Decimal
	MarkPrice        decimal.Decimal
	UnrealizedProfit decimal.Decimal
	Leverage         string
}

// PositionStatus distinguishes the three outcomes of a position query.
type PositionStatus int

const (
	// PositionNotFound means the exchange returned no records at all.
	PositionNotFound PositionStatus = iota
	// PositionFlat means the exchange knows the symbol but the
	// position amount is zero.
	PositionFlat
	// PositionOpen means the symbol has a non-zero position.
	PositionOpen
)

// PositionInfo is the tagged result of a position query. Position is
// only meaningful when Status is PositionOpen.
type PositionInfo struct {
	Status   PositionStatus
	Position Position
}
