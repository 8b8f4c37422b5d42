package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
)

// MigrateRequestItemUnits backfills price request items saved before the
// unit and quantity fields became mandatory in the forms.
// Safe to call on every startup -- returns early if nothing to migrate.
func MigrateRequestItemUnits(app *pocketbase.PocketBase) error {
	stale, err := app.FindRecordsByFilter(
		"price_request_items",
		"unit = '' || quantity = 0",
		"",
		0,
		0,
		nil,
	)
	if err != nil {
		return fmt.Errorf("migrate: could not query request items without a unit: %w", err)
	}

	if len(stale) == 0 {
		return nil
	}

	log.Printf("migrate: found %d request item(s) without unit or quantity -- backfilling...\n", len(stale))

	for _, item := range stale {
		if item.GetString("unit") == "" {
			item.Set("unit", "Adet")
		}
		if item.GetFloat("quantity") == 0 {
			item.Set("quantity", 1)
		}
		if err := app.Save(item); err != nil {
			log.Printf("migrate: failed to backfill request item %s: %v\n", item.Id, err)
			continue
		}
	}

	log.Println("migrate: request item backfill complete.")
	return nil
}
