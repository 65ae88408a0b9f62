package models

import "strings"

// Quote is one entry of the quote API response, kept as received.
//
// Bid and PctChange stay textual: the upstream API sends them as strings,
// sometimes as numbers, and coercion is the ingestion layer's job.
type Quote struct {
	Symbol    string // response key, e.g. "USDBRL"
	Code      string // base ISO code, e.g. "USD"
	CodeIn    string // quote ISO code, e.g. "BRL"
	Name      string // display name, "Dólar Americano/Real Brasileiro"
	Bid       string
	PctChange string
}

// Asset returns the base asset name: the part of Name before the first "/".
// A name without separator is returned whole.
func (q Quote) Asset() string {
	name := strings.TrimSpace(q.Name)
	if i := strings.Index(name, "/"); i >= 0 {
		name = name[:i]
	}
	return strings.TrimSpace(name)
}
