package binance

import "github.com/shopspring/decimal"

// accountResponse is the subset of GET /fapi/v2/account we consume.
type accountResponse struct {
	Assets []accountAsset `json:"assets"`
}

type accountAsset struct {
	Asset            string          `json:"asset"`
	WalletBalance    decimal.Decimal `json:"walletBalance"`
	AvailableBalance decimal.Decimal `json:"availableBalance"`
}

// positionRisk is one record from GET /fapi/v2/positionRisk.
type positionRisk struct {
	Symbol           string          `json:"symbol"`
	PositionAmt      decimal.Decimal `json:"positionAmt"`
	EntryPrice       decimal.Decimal `json:"entryPrice"`
	MarkPrice        decimal.Decimal `json:"markPrice"`
	UnrealizedProfit decimal.Decimal `json:"unRealizedProfit"`
	Leverage         string          `json:"leverage"`
}

// MarkPriceEvent is a markPrice stream update.
type MarkPriceEvent struct {
	EventType string `json:"e"`
	EventTime int64  `json:"E"`
	Symbol    string `json:"s"`
	MarkPrice string `json:"p"`
	IndexRate string `json:"r"`
}
