package dto

// SnapshotBar is a single session's OHLCV as returned by the snapshot endpoints.
type SnapshotBar struct {
	Open   float64 `json:"o"`
	High   float64 `json:"h"`
	Low    float64 `json:"l"`
	Close  float64 `json:"c"`
	Volume float64 `json:"v"`
	VWAP   float64 `json:"vw"`
}

// SnapshotTicker carries today's and the previous session's bars for one symbol.
// Day or PrevDay may be nil when the provider has no data; callers skip the
// ticker in that case.
type SnapshotTicker struct {
	Ticker           string       `json:"ticker"`
	TodaysChangePerc float64      `json:"todaysChangePerc"`
	Day              *SnapshotBar `json:"day"`
	PrevDay          *SnapshotBar `json:"prevDay"`
	Updated          int64        `json:"updated"`
}

type SnapshotResponse struct {
	Status  string           `json:"status"`
	Count   int              `json:"count"`
	Tickers []SnapshotTicker `json:"tickers"`
}

type SingleSnapshotResponse struct {
	Status string          `json:"status"`
	Ticker *SnapshotTicker `json:"ticker"`
}

// AggBar is one daily aggregate bar.
type AggBar struct {
	Open      float64 `json:"o"`
	High      float64 `json:"h"`
	Low       float64 `json:"l"`
	Close     float64 `json:"c"`
	Volume    float64 `json:"v"`
	VWAP      float64 `json:"vw"`
	Timestamp int64   `json:"t"`
}

type AggsResponse struct {
	Ticker       string   `json:"ticker"`
	ResultsCount int      `json:"resultsCount"`
	Results      []AggBar `json:"results"`
}

type NewsItem struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	PublishedUTC string `json:"published_utc"`
	ArticleURL   string `json:"article_url"`
}

type NewsResponse struct {
	Results []NewsItem `json:"results"`
}
