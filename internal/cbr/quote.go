package cbr

// Quote is one currency's entry in a daily feed. Value is the home-currency
// price of Nominal units; Rate is the derived per-unit price, filled in by
// the rates service rather than the parser.
type Quote struct {
	ID       string  `json:"id"`
	NumCode  string  `json:"numCode"`
	CharCode string  `json:"charCode"`
	Nominal  int     `json:"nominal"`
	Name     string  `json:"name"`
	Value    float64 `json:"value"`
	Rate     float64 `json:"rate"`
}
