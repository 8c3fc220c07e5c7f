package core

// Dataframe is a column-oriented view of a candle series used by indicator functions
type Dataframe struct {
	Symbol string

	Close  Series[float64]
	Open   Series[float64]
	High   Series[float64]
	Low    Series[float64]
	Volume Series[float64]

	Time []int64
}

// NewDataframe builds a dataframe from candles ordered ascending by time
func NewDataframe(symbol string, candles []Candle) *Dataframe {
	df := &Dataframe{
		Symbol: symbol,
		Close:  make(Series[float64], 0, len(candles)),
		Open:   make(Series[float64], 0, len(candles)),
		High:   make(Series[float64], 0, len(candles)),
		Low:    make(Series[float64], 0, len(candles)),
		Volume: make(Series[float64], 0, len(candles)),
		Time:   make([]int64, 0, len(candles)),
	}

	for _, c := range candles {
		df.Append(c)
	}

	return df
}

// Append adds one candle to every column
func (df *Dataframe) Append(c Candle) {
	df.Close = append(df.Close, c.Close)
	df.Open = append(df.Open, c.Open)
	df.High = append(df.High, c.High)
	df.Low = append(df.Low, c.Low)
	df.Volume = append(df.Volume, c.Volume)
	df.Time = append(df.Time, c.Time)
}

// Len returns the number of rows
func (df *Dataframe) Len() int { return len(df.Time) }
