// Package exporter renders comparison sets as CSV or JSON and persists saved
// comparisons in a key/value store.
package exporter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/segyhp/credit-engine/internal/domain"
)

// Header is the CSV column order.
var Header = []string{
	"Bank",
	"Product",
	"Rate(%)",
	"Monthly Payment",
	"Total Cost",
	"Total Interest",
	"Processing Time(hours)",
	"Eligible(Yes/No)",
}

func amount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// Row renders one offer in Header order.
func Row(o domain.Offer) []string {
	bank := o.Product.Bank.Name
	if bank == "" {
		bank = o.Product.BankID
	}
	return []string{
		bank,
		o.Product.Name,
		amount(o.Result.AppliedRate),
		amount(o.Result.MonthlyPayment),
		amount(o.Result.TotalCost),
		amount(o.Result.TotalInterest),
		strconv.Itoa(o.Product.ProcessingTimeHours),
		yesNo(o.Result.Eligible),
	}
}

// WriteCSV writes the header followed by one row per offer.
func WriteCSV(w io.Writer, set domain.ComparisonSet) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, o := range set.Offers {
		if err := cw.Write(Row(o)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// CSV returns the CSV export of set as a string.
func CSV(set domain.ComparisonSet) (string, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, set); err != nil {
		return "", fmt.Errorf("write csv: %w", err)
	}
	return buf.String(), nil
}

// JSON returns the indented JSON encoding of set.
func JSON(set domain.ComparisonSet) ([]byte, error) {
	out, err := json.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode comparison: %w", err)
	}
	return out, nil
}

// Filename returns a download name for the export of set with extension ext.
func Filename(set domain.ComparisonSet, ext string) string {
	if set.CreatedAt.IsZero() {
		return "comparison." + ext
	}
	return "comparison-" + set.CreatedAt.UTC().Format("20060102-150405") + "." + ext
}
