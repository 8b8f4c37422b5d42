package services

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// GenerateProposalPDF creates a PDF document for a proposal using maroto/v2.
// It returns the raw PDF bytes or an error. Pagination is handled by the
// library: long item tables continue on the next page automatically.
func GenerateProposalPDF(data *ProposalExportData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithOrientation(orientation.Horizontal).
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithPageNumber(props.PageNumber{
			Pattern: "Sayfa {current} / {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	addProposalHeader(m, data)
	addProposalDetails(m, data)
	addProposalItemsTable(m, data)
	addProposalTotals(m, data)
	addProposalTerms(m, data)
	addProposalFooter(m, data)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate proposal PDF: %w", err)
	}

	return doc.GetBytes(), nil
}

// proposalStatusColor maps a proposal status to its badge color.
func proposalStatusColor(status string) *props.Color {
	switch status {
	case ProposalStatusApproved:
		return &props.Color{Red: 25, Green: 135, Blue: 84}
	case ProposalStatusRejected:
		return &props.Color{Red: 220, Green: 53, Blue: 69}
	case ProposalStatusSent:
		return &props.Color{Red: 13, Green: 110, Blue: 253}
	default:
		return &props.Color{Red: 108, Green: 117, Blue: 125}
	}
}

// addProposalHeader adds the blue title band: firm name, "TEKLİF" title,
// proposal number, date and status badge.
func addProposalHeader(m core.Maroto, data *ProposalExportData) {
	bandBg := &props.Color{Red: 41, Green: 98, Blue: 255}
	bandCell := &props.Cell{BackgroundColor: bandBg}
	white := &props.Color{Red: 255, Green: 255, Blue: 255}

	m.AddRows(
		row.New(12).Add(
			col.New(6).Add(
				text.New(data.FirmName, props.Text{
					Size:  14,
					Style: fontstyle.Bold,
					Align: align.Left,
					Top:   2,
					Left:  2,
					Color: white,
				}),
			),
			col.New(6).Add(
				text.New("TEKLİF", props.Text{
					Size:  16,
					Style: fontstyle.Bold,
					Align: align.Right,
					Top:   2,
					Right: 2,
					Color: white,
				}),
			),
		).WithStyle(bandCell),
	)

	m.AddRows(
		row.New(8).Add(
			col.New(6).Add(
				text.New(fmt.Sprintf("Teklif No: #%s", data.Number), props.Text{
					Size:  9,
					Style: fontstyle.Bold,
					Align: align.Left,
				}),
			),
			col.New(3).Add(
				text.New(fmt.Sprintf("Tarih: %s", data.Date), props.Text{
					Size:  9,
					Align: align.Right,
				}),
			),
			col.New(3).Add(
				text.New(data.StatusText, props.Text{
					Size:  9,
					Style: fontstyle.Bold,
					Align: align.Right,
					Color: proposalStatusColor(data.Status),
				}),
			),
		),
	)

	m.AddRows(row.New(3))
}

// addProposalDetails adds the two-column block: proposal metadata on the
// left, client identity on the right.
func addProposalDetails(m core.Maroto, data *ProposalExportData) {
	sectionLabel := props.Text{
		Size:  7,
		Style: fontstyle.Bold,
		Align: align.Left,
		Color: &props.Color{Red: 100, Green: 100, Blue: 100},
	}
	valueStyle := props.Text{
		Size:  8,
		Align: align.Left,
	}
	boldValue := props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Align: align.Left,
	}

	headerBg := &props.Color{Red: 245, Green: 243, Blue: 239}
	headerCell := &props.Cell{BackgroundColor: headerBg}

	m.AddRows(
		row.New(7).Add(
			col.New(6).Add(text.New("TEKLİF BİLGİLERİ", sectionLabel)).WithStyle(headerCell),
			col.New(6).Add(text.New("MÜŞTERİ BİLGİLERİ", sectionLabel)).WithStyle(headerCell),
		),
	)

	customerName := ""
	customerCompany := ""
	customerContact := ""
	customerAddress := ""
	if data.Customer != nil {
		customerName = data.Customer.Name
		customerCompany = data.Customer.Company
		customerContact = joinNonEmpty([]string{data.Customer.Email, data.Customer.Phone}, " | ")
		customerAddress = data.Customer.Address
	}

	m.AddRows(
		row.New(7).Add(
			col.New(6).Add(text.New(data.Title, boldValue)),
			col.New(6).Add(text.New(customerName, boldValue)),
		),
	)

	currencyLine := fmt.Sprintf("Para Birimi: %s (%s)", CurrencySymbol(data.Currency), data.Currency)
	m.AddRows(
		row.New(7).Add(
			col.New(6).Add(text.New(currencyLine, valueStyle)),
			col.New(6).Add(text.New(customerCompany, valueStyle)),
		),
	)

	validLine := ""
	if data.ValidUntil != "" {
		validLine = fmt.Sprintf("Geçerlilik: %s", data.ValidUntil)
	}
	if validLine != "" || customerContact != "" {
		m.AddRows(
			row.New(7).Add(
				col.New(6).Add(text.New(validLine, valueStyle)),
				col.New(6).Add(text.New(customerContact, valueStyle)),
			),
		)
	}

	if customerAddress != "" {
		m.AddRows(
			row.New(7).Add(
				col.New(6),
				col.New(6).Add(text.New(customerAddress, valueStyle)),
			),
		)
	}

	m.AddRows(row.New(3))
}

// addProposalItemsTable adds the line item table with header and body rows.
func addProposalItemsTable(m core.Maroto, data *ProposalExportData) {
	headerBg := &props.Color{Red: 33, Green: 37, Blue: 41}
	headerText := props.Text{
		Size:  7,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
	}
	headerTextLeft := headerText
	headerTextLeft.Align = align.Left
	headerCell := props.Cell{BackgroundColor: headerBg}

	m.AddRows(
		row.New(8).Add(
			col.New(1).Add(text.New("No", headerText)).WithStyle(&headerCell),
			col.New(4).Add(text.New("Ürün / Hizmet", headerTextLeft)).WithStyle(&headerCell),
			col.New(1).Add(text.New("Miktar", headerText)).WithStyle(&headerCell),
			col.New(2).Add(text.New("Birim Fiyat", headerText)).WithStyle(&headerCell),
			col.New(1).Add(text.New("KDV %", headerText)).WithStyle(&headerCell),
			col.New(2).Add(text.New("Ara Toplam", headerText)).WithStyle(&headerCell),
			col.New(1).Add(text.New("Toplam", headerText)).WithStyle(&headerCell),
		),
	)

	altBg := &props.Color{Red: 248, Green: 249, Blue: 250}

	for i, item := range data.LineItems {
		bodyText := props.Text{Size: 7, Align: align.Center}
		bodyTextLeft := props.Text{Size: 7, Align: align.Left}
		bodyTextRight := props.Text{Size: 7, Align: align.Right}

		var cellStyle *props.Cell
		if i%2 == 1 {
			cellStyle = &props.Cell{BackgroundColor: altBg}
		}

		name := item.Name
		if item.Description != "" {
			name = fmt.Sprintf("%s - %s", item.Name, item.Description)
		}

		colNo := col.New(1).Add(text.New(fmt.Sprintf("%d", item.SINo), bodyText))
		colName := col.New(4).Add(text.New(name, bodyTextLeft))
		colQty := col.New(1).Add(text.New(formatQuantity(item.Quantity), bodyTextRight))
		colPrice := col.New(2).Add(text.New(FormatMoney(item.UnitPrice, data.Currency), bodyTextRight))
		colTax := col.New(1).Add(text.New(fmt.Sprintf("%.0f%%", item.TaxRate), bodyText))
		colSubtotal := col.New(2).Add(text.New(FormatMoney(item.Subtotal, data.Currency), bodyTextRight))
		colTotal := col.New(1).Add(text.New(FormatMoney(item.TotalPrice, data.Currency), bodyTextRight))

		if cellStyle != nil {
			colNo = colNo.WithStyle(cellStyle)
			colName = colName.WithStyle(cellStyle)
			colQty = colQty.WithStyle(cellStyle)
			colPrice = colPrice.WithStyle(cellStyle)
			colTax = colTax.WithStyle(cellStyle)
			colSubtotal = colSubtotal.WithStyle(cellStyle)
			colTotal = colTotal.WithStyle(cellStyle)
		}

		m.AddRows(
			row.New(7).Add(
				colNo, colName, colQty, colPrice, colTax, colSubtotal, colTotal,
			),
		)
	}

	m.AddRows(row.New(2))
}

// addProposalTotals adds the right-aligned totals block.
func addProposalTotals(m core.Maroto, data *ProposalExportData) {
	summaryBg := &props.Color{Red: 245, Green: 245, Blue: 245}
	summaryCell := &props.Cell{BackgroundColor: summaryBg}

	labelStyle := props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Align: align.Right,
	}
	valueStyle := props.Text{
		Size:  8,
		Align: align.Right,
	}

	m.AddRows(
		row.New(7).Add(
			col.New(9).Add(text.New("Ara Toplam", labelStyle)).WithStyle(summaryCell),
			col.New(3).Add(text.New(FormatMoney(data.Subtotal, data.Currency), valueStyle)).WithStyle(summaryCell),
		),
	)

	m.AddRows(
		row.New(7).Add(
			col.New(9).Add(text.New("KDV Toplam", labelStyle)).WithStyle(summaryCell),
			col.New(3).Add(text.New(FormatMoney(data.TaxTotal, data.Currency), valueStyle)).WithStyle(summaryCell),
		),
	)

	grandBg := &props.Color{Red: 33, Green: 37, Blue: 41}
	grandCell := &props.Cell{BackgroundColor: grandBg}
	white := &props.Color{Red: 255, Green: 255, Blue: 255}
	grandLabelStyle := props.Text{
		Size:  9,
		Style: fontstyle.Bold,
		Align: align.Right,
		Color: white,
	}
	grandValueStyle := props.Text{
		Size:  9,
		Style: fontstyle.Bold,
		Align: align.Right,
		Color: white,
	}

	m.AddRows(
		row.New(8).Add(
			col.New(9).Add(text.New("GENEL TOPLAM", grandLabelStyle)).WithStyle(grandCell),
			col.New(3).Add(text.New(FormatMoney(data.GrandTotal, data.Currency), grandValueStyle)).WithStyle(grandCell),
		),
	)

	m.AddRows(row.New(3))
}

// addProposalTerms adds the payment/delivery/warranty terms and notes.
func addProposalTerms(m core.Maroto, data *ProposalExportData) {
	hasTerms := data.PaymentTerms != "" || data.DeliveryTerms != "" || data.WarrantyTerms != "" || data.Notes != ""
	if !hasTerms {
		return
	}

	sectionLabel := props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Align: align.Left,
		Color: &props.Color{Red: 33, Green: 37, Blue: 41},
	}
	termLabel := props.Text{
		Size:  7,
		Style: fontstyle.Bold,
		Align: align.Left,
		Color: &props.Color{Red: 100, Green: 100, Blue: 100},
	}
	termValue := props.Text{
		Size:  8,
		Align: align.Left,
	}

	m.AddRows(
		row.New(7).Add(
			col.New(12).Add(text.New("ŞARTLAR", sectionLabel)),
		),
	)

	terms := []struct{ label, value string }{
		{"Ödeme Koşulları", data.PaymentTerms},
		{"Teslimat Koşulları", data.DeliveryTerms},
		{"Garanti Koşulları", data.WarrantyTerms},
		{"Notlar", data.Notes},
	}

	for _, term := range terms {
		if term.value == "" {
			continue
		}
		m.AddRows(
			row.New(5).Add(col.New(12).Add(text.New(term.label, termLabel))),
		)
		m.AddRows(
			row.New(6).Add(col.New(12).Add(text.New(term.value, termValue))),
		)
	}

	m.AddRows(row.New(3))
}

// addProposalFooter adds the closing lines below the document body.
func addProposalFooter(m core.Maroto, data *ProposalExportData) {
	footerStyle := props.Text{
		Size:  7,
		Align: align.Center,
		Color: &props.Color{Red: 100, Green: 100, Blue: 100},
	}

	contact := joinNonEmpty([]string{data.FirmName, data.FirmEmail, data.FirmPhone}, " | ")

	m.AddRows(row.New(4))
	m.AddRows(
		row.New(5).Add(
			col.New(12).Add(text.New("Bu teklif elektronik ortamda oluşturulmuştur.", footerStyle)),
		),
	)
	if contact != "" {
		m.AddRows(
			row.New(5).Add(
				col.New(12).Add(text.New(contact, footerStyle)),
			),
		)
	}
}

// formatQuantity renders a quantity without trailing zeros for whole numbers.
func formatQuantity(qty float64) string {
	if qty == float64(int64(qty)) {
		return fmt.Sprintf("%d", int64(qty))
	}
	return fmt.Sprintf("%.2f", qty)
}

// joinNonEmpty joins non-empty strings with the given separator.
func joinNonEmpty(parts []string, sep string) string {
	var nonEmpty []string
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	result := ""
	for i, p := range nonEmpty {
		if i > 0 {
			result += sep
		}
		result += p
	}
	return result
}
