package services

import (
	"fmt"
	"log"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// ProposalExportData holds all data needed to generate a proposal PDF.
type ProposalExportData struct {
	// Issuing firm
	FirmName  string
	FirmEmail string
	FirmPhone string

	// Proposal header
	Number     string
	Title      string
	Date       string
	Status     string
	StatusText string
	Currency   string

	// Client identity (linked customer record or free-text fallback)
	Customer *ProposalExportCustomer

	// Line items
	LineItems []ProposalExportLineItem

	// Totals
	Subtotal   float64
	TaxTotal   float64
	GrandTotal float64

	// Terms
	ValidUntil    string
	PaymentTerms  string
	DeliveryTerms string
	WarrantyTerms string
	Notes         string
}

// ProposalExportCustomer holds client details for PDF export.
type ProposalExportCustomer struct {
	Name      string
	Company   string
	Email     string
	Phone     string
	Address   string
	TaxNumber string
}

// ProposalExportLineItem holds a single line item for PDF export.
type ProposalExportLineItem struct {
	SINo        int
	Name        string
	Description string
	Quantity    float64
	UnitPrice   float64
	TaxRate     float64
	Subtotal    float64
	TaxAmount   float64
	TotalPrice  float64
}

// BuildProposalExportData assembles all data needed for PDF generation from
// PocketBase records. Totals are recomputed from the items rather than read
// from the stored total_amount.
func BuildProposalExportData(app *pocketbase.PocketBase, proposalID string) (*ProposalExportData, error) {
	proposal, err := app.FindRecordById("proposals", proposalID)
	if err != nil {
		return nil, fmt.Errorf("proposal not found: %w", err)
	}

	data := &ProposalExportData{
		Number:        proposal.Id,
		Title:         proposal.GetString("title"),
		Date:          proposal.GetDateTime("created").Time().Format("02.01.2006"),
		Status:        proposal.GetString("status"),
		StatusText:    ProposalStatusText(proposal.GetString("status")),
		Currency:      proposal.GetString("currency"),
		ValidUntil:    proposal.GetString("valid_until"),
		PaymentTerms:  proposal.GetString("payment_terms"),
		DeliveryTerms: proposal.GetString("delivery_terms"),
		WarrantyTerms: proposal.GetString("warranty_terms"),
		Notes:         proposal.GetString("notes"),
	}

	if firmID := proposal.GetString("firm"); firmID != "" {
		if firm, err := app.FindRecordById("firms", firmID); err == nil {
			data.FirmName = firm.GetString("name")
			data.FirmEmail = firm.GetString("contact_email")
			data.FirmPhone = firm.GetString("phone")
		} else {
			log.Printf("proposal_export: could not find firm %s: %v", firmID, err)
		}
	}

	data.Customer = buildExportCustomer(app, proposal)

	itemRecords, err := app.FindRecordsByFilter(
		"proposal_items",
		"proposal = {:proposalId}",
		"sort_order",
		0,
		0,
		map[string]any{"proposalId": proposalID},
	)
	if err != nil {
		log.Printf("proposal_export: could not fetch items for proposal %s: %v", proposalID, err)
		itemRecords = nil
	}

	var calcs []LineItemCalc
	for i, item := range itemRecords {
		calc := CalcLineItem(
			item.GetFloat("quantity"),
			item.GetFloat("unit_price"),
			item.GetFloat("tax_rate"),
		)
		calcs = append(calcs, calc)

		data.LineItems = append(data.LineItems, ProposalExportLineItem{
			SINo:        i + 1,
			Name:        item.GetString("name"),
			Description: item.GetString("description"),
			Quantity:    calc.Quantity,
			UnitPrice:   calc.UnitPrice,
			TaxRate:     calc.TaxRate,
			Subtotal:    calc.Subtotal,
			TaxAmount:   calc.TaxAmount,
			TotalPrice:  calc.TotalPrice,
		})
	}

	totals := CalcProposalTotals(calcs)
	data.Subtotal = totals.Subtotal
	data.TaxTotal = totals.TaxAmount
	data.GrandTotal = totals.GrandTotal

	return data, nil
}

// buildExportCustomer resolves the client block from the linked customer
// record, falling back to the proposal's free-text client fields.
func buildExportCustomer(app *pocketbase.PocketBase, proposal *core.Record) *ProposalExportCustomer {
	if customerID := proposal.GetString("customer"); customerID != "" {
		c, err := app.FindRecordById("customers", customerID)
		if err != nil {
			log.Printf("proposal_export: could not find customer %s: %v", customerID, err)
		} else {
			return &ProposalExportCustomer{
				Name:      c.GetString("name"),
				Company:   c.GetString("company"),
				Email:     c.GetString("email"),
				Phone:     c.GetString("phone"),
				Address:   c.GetString("address"),
				TaxNumber: c.GetString("tax_number"),
			}
		}
	}

	name := strings.TrimSpace(proposal.GetString("client_name"))
	email := strings.TrimSpace(proposal.GetString("client_email"))
	if name == "" && email == "" {
		return nil
	}
	return &ProposalExportCustomer{Name: name, Email: email}
}
