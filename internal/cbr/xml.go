package cbr

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var (
	// ErrParse reports a feed document that is not well-formed XML or does
	// not carry the expected ValCurs collection.
	ErrParse = errors.New("cbr: malformed feed")

	errNoQuotes = errors.New("feed contains no currency entries")
)

type valCurs struct {
	XMLName xml.Name `xml:"ValCurs"`
	Date    string   `xml:"Date,attr"`
	Valute  []valute `xml:"Valute"`
}

type valute struct {
	ID       string `xml:"ID,attr"`
	NumCode  string `xml:"NumCode"`
	CharCode string `xml:"CharCode"`
	Nominal  string `xml:"Nominal"`
	Name     string `xml:"Name"`
	Value    string `xml:"Value"`
}

// Parse decodes a daily feed document into its quotes, preserving feed
// order. A single-entry document and a multi-entry document normalize to
// the same shape. Field extraction is permissive: a missing or mangled
// Nominal falls back to 1, a missing or mangled Value to 0, so one bad
// entry never aborts the rest of the document.
//
// The payload is expected to be decoded to UTF-8 already; the windows-1251
// charset declaration left over from the upstream document is ignored.
func Parse(xmlText string) ([]Quote, error) {
	dec := xml.NewDecoder(strings.NewReader(xmlText))
	dec.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		return input, nil
	}

	var doc valCurs
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	if len(doc.Valute) == 0 {
		return nil, fmt.Errorf("%w: %v", ErrParse, errNoQuotes)
	}

	quotes := make([]Quote, 0, len(doc.Valute))
	for _, v := range doc.Valute {
		quotes = append(quotes, Quote{
			ID:       v.ID,
			NumCode:  v.NumCode,
			CharCode: v.CharCode,
			Nominal:  parseNominal(v.Nominal),
			Name:     v.Name,
			Value:    parseValue(v.Value),
		})
	}

	return quotes, nil
}

func parseNominal(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 1
	}

	return n
}

func parseValue(s string) float64 {
	v, err := strconv.ParseFloat(strings.Replace(strings.TrimSpace(s), ",", ".", -1), 64)
	if err != nil {
		return 0
	}

	return v
}
