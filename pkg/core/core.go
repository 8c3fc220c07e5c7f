package core

import "context"

// CandleFeeder supplies the ordered candle series of one symbol and timeframe
type CandleFeeder interface {
	Candles(ctx context.Context, symbol, timeframe string) ([]Candle, error)
}

// CandleSubscriber receives appended candles
type CandleSubscriber interface {
	OnCandle(Candle)
}
