package services

import (
	"fmt"

	"github.com/pocketbase/pocketbase"
)

// DefaultTaxRate is the VAT percentage applied when none is provided.
const DefaultTaxRate = 20.0

// LineItemCalc holds the calculated totals for a single proposal line item.
type LineItemCalc struct {
	Quantity   float64
	UnitPrice  float64
	TaxRate    float64
	Subtotal   float64 // Quantity * UnitPrice
	TaxAmount  float64 // Subtotal * TaxRate / 100
	TotalPrice float64 // Subtotal + TaxAmount
}

// ProposalTotals holds the aggregated totals for a proposal.
type ProposalTotals struct {
	Subtotal   float64
	TaxAmount  float64
	GrandTotal float64
}

// CalcLineItem calculates the totals for a single line item.
func CalcLineItem(quantity, unitPrice, taxRate float64) LineItemCalc {
	subtotal := quantity * unitPrice
	taxAmount := subtotal * taxRate / 100
	return LineItemCalc{
		Quantity:   quantity,
		UnitPrice:  unitPrice,
		TaxRate:    taxRate,
		Subtotal:   subtotal,
		TaxAmount:  taxAmount,
		TotalPrice: subtotal + taxAmount,
	}
}

// CalcProposalTotals computes the aggregate totals over all line items of a
// proposal.
func CalcProposalTotals(items []LineItemCalc) ProposalTotals {
	var totals ProposalTotals
	for _, item := range items {
		totals.Subtotal += item.Subtotal
		totals.TaxAmount += item.TaxAmount
		totals.GrandTotal += item.TotalPrice
	}
	return totals
}

// RecalcProposalTotal re-aggregates all line items of a proposal and persists
// the grand total on the proposal record. It must be called after every line
// item add, update or delete so the stored total_amount never goes stale.
func RecalcProposalTotal(app *pocketbase.PocketBase, proposalID string) (ProposalTotals, error) {
	proposal, err := app.FindRecordById("proposals", proposalID)
	if err != nil {
		return ProposalTotals{}, fmt.Errorf("proposal not found: %w", err)
	}

	items, err := app.FindRecordsByFilter(
		"proposal_items",
		"proposal = {:proposalId}",
		"sort_order",
		0,
		0,
		map[string]any{"proposalId": proposalID},
	)
	if err != nil {
		return ProposalTotals{}, fmt.Errorf("fetch proposal items: %w", err)
	}

	calcs := make([]LineItemCalc, 0, len(items))
	for _, item := range items {
		calcs = append(calcs, CalcLineItem(
			item.GetFloat("quantity"),
			item.GetFloat("unit_price"),
			item.GetFloat("tax_rate"),
		))
	}

	totals := CalcProposalTotals(calcs)

	proposal.Set("total_amount", totals.GrandTotal)
	if err := app.Save(proposal); err != nil {
		return ProposalTotals{}, fmt.Errorf("save proposal total: %w", err)
	}

	return totals, nil
}

// CurrencySymbol returns the display symbol for a currency code.
// Unknown codes fall back to the Turkish Lira symbol.
func CurrencySymbol(code string) string {
	switch code {
	case "TL":
		return "₺"
	case "EUR":
		return "€"
	case "USD":
		return "$"
	case "GBP":
		return "£"
	default:
		return "₺"
	}
}

// ProfitMargin returns the sale margin percentage over the purchase price.
// Returns 0 when the purchase price is not set.
func ProfitMargin(purchasePrice, salePrice float64) float64 {
	if purchasePrice <= 0 {
		return 0
	}
	return (salePrice - purchasePrice) / purchasePrice * 100
}

// TotalWithTax returns a price with its VAT percentage applied.
func TotalWithTax(price, taxRate float64) float64 {
	return price * (1 + taxRate/100)
}
