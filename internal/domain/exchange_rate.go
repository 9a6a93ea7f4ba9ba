package domain

import (
	"time"
)

// DefaultCurrency is the only currency this deployment records.
const DefaultCurrency = "USD"

// DateLayout is the ISO 8601 calendar date used in API queries and logs.
const DateLayout = "2006-01-02"

// DailyQuote is the decoded payload of the exchange rate API.
type DailyQuote struct {
	Buy  float64
	Sell float64
}

// ExchangeRateRecord is a single row of the tipo_cambio table.
type ExchangeRateRecord struct {
	BuyPrice  float64
	SellPrice float64
	Currency  string
	RateDate  time.Time
}

func NewExchangeRateRecord(quote DailyQuote, currency string, rateDate time.Time) ExchangeRateRecord {
	return ExchangeRateRecord{
		BuyPrice:  quote.Buy,
		SellPrice: quote.Sell,
		Currency:  currency,
		RateDate:  TruncateToDay(rateDate),
	}
}

// TruncateToDay drops the time of day, keeping the location of t.
func TruncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
