package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
)

// MigrateProposalCurrencies backfills proposals saved before the currency
// field existed and refreshes stored totals from their line items.
// Safe to call on every startup -- returns early if nothing to migrate.
func MigrateProposalCurrencies(app *pocketbase.PocketBase) error {
	stale, err := app.FindRecordsByFilter(
		"proposals",
		"currency = ''",
		"",
		0,
		0,
		nil,
	)
	if err != nil {
		return fmt.Errorf("migrate: could not query proposals without currency: %w", err)
	}

	if len(stale) == 0 {
		return nil
	}

	log.Printf("migrate: found %d proposal(s) without a currency -- backfilling TL...\n", len(stale))

	for _, proposal := range stale {
		proposal.Set("currency", "TL")

		items, err := app.FindRecordsByFilter(
			"proposal_items",
			"proposal = {:proposalId}",
			"",
			0,
			0,
			map[string]any{"proposalId": proposal.Id},
		)
		if err != nil {
			log.Printf("migrate: could not load items of proposal %s: %v\n", proposal.Id, err)
			items = nil
		}

		var total float64
		for _, item := range items {
			subtotal := item.GetFloat("quantity") * item.GetFloat("unit_price")
			total += subtotal + subtotal*item.GetFloat("tax_rate")/100
		}
		proposal.Set("total_amount", total)

		if err := app.Save(proposal); err != nil {
			log.Printf("migrate: failed to backfill proposal %s: %v\n", proposal.Id, err)
			continue
		}
	}

	log.Println("migrate: proposal currency backfill complete.")
	return nil
}
