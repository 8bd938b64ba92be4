package model

// Ledger is the metadata of one trip ledger as listed by the management
// sheet: where its rows live and how its currency converts to the home
// currency.
type Ledger struct {
	ID            string
	Name          string
	SpreadsheetID string  // sync endpoint
	SourceRef     string  // source sheet/tab reference
	Currency      string  // origin currency of the trip
	ExchangeRate  float64 // nominal origin-to-home rate
	MemberNames   []string
}

// HomeCurrency is the settlement currency every balance is expressed in.
const HomeCurrency = "TWD"
