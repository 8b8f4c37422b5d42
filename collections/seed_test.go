package collections_test

import (
	"testing"

	"epica/collections"
	"epica/testhelpers"
)

func TestSeed_CreatesDemoData(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	if err := collections.Seed(app); err != nil {
		t.Fatalf("Seed() error: %v", err)
	}

	counts := map[string]int{
		"firms":          1,
		"customers":      3,
		"suppliers":      2,
		"categories":     3,
		"products":       5,
		"proposals":      2,
		"price_requests": 2,
	}
	for name, want := range counts {
		col, err := app.FindCollectionByNameOrId(name)
		if err != nil {
			t.Fatalf("collection %q not found: %v", name, err)
		}
		records, err := app.FindAllRecords(col)
		if err != nil {
			t.Fatalf("query %q error: %v", name, err)
		}
		if len(records) != want {
			t.Errorf("%s: expected %d records, got %d", name, want, len(records))
		}
	}
}

func TestSeed_Idempotent(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	if err := collections.Seed(app); err != nil {
		t.Fatalf("first Seed() error: %v", err)
	}
	if err := collections.Seed(app); err != nil {
		t.Fatalf("second Seed() error: %v", err)
	}

	firmsCol, _ := app.FindCollectionByNameOrId("firms")
	firms, err := app.FindAllRecords(firmsCol)
	if err != nil {
		t.Fatalf("query error: %v", err)
	}
	if len(firms) != 1 {
		t.Errorf("expected 1 firm after second Seed(), got %d", len(firms))
	}
}

func TestSeed_ProposalTotalsMatchItems(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	if err := collections.Seed(app); err != nil {
		t.Fatalf("Seed() error: %v", err)
	}

	proposalsCol, _ := app.FindCollectionByNameOrId("proposals")
	proposals, err := app.FindAllRecords(proposalsCol)
	if err != nil {
		t.Fatalf("query error: %v", err)
	}

	for _, proposal := range proposals {
		items, err := app.FindRecordsByFilter(
			"proposal_items",
			"proposal = {:p}",
			"", 0, 0,
			map[string]any{"p": proposal.Id},
		)
		if err != nil {
			t.Fatalf("items query error: %v", err)
		}
		if len(items) == 0 {
			t.Errorf("proposal %q has no items", proposal.GetString("title"))
			continue
		}

		var want float64
		for _, item := range items {
			want += item.GetFloat("total_price")
		}
		got := proposal.GetFloat("total_amount")
		if diff := got - want; diff > 0.001 || diff < -0.001 {
			t.Errorf("proposal %q: total_amount = %v, want %v", proposal.GetString("title"), got, want)
		}
	}
}

func TestSeed_RequestItemsLinked(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	if err := collections.Seed(app); err != nil {
		t.Fatalf("Seed() error: %v", err)
	}

	requests, err := app.FindRecordsByFilter("price_requests", "id != ''", "", 0, 0, nil)
	if err != nil {
		t.Fatalf("query error: %v", err)
	}

	for _, request := range requests {
		items, err := app.FindRecordsByFilter(
			"price_request_items",
			"request = {:r}",
			"", 0, 0,
			map[string]any{"r": request.Id},
		)
		if err != nil {
			t.Fatalf("items query error: %v", err)
		}
		if len(items) == 0 {
			t.Errorf("request %q has no items", request.GetString("title"))
		}
	}
}
