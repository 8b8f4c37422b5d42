package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// ── Definition structs ───────────────────────────────────────────────────

type customerDef struct {
	name      string
	company   string
	email     string
	phone     string
	address   string
	taxNumber string
}

type supplierDef struct {
	name          string
	contactPerson string
	email         string
	phone         string
	category      string
	paymentTerms  string
	rating        float64
}

type categoryDef struct {
	name        string
	description string
	color       string
	sortOrder   int
}

type productDef struct {
	name          string
	sku           string
	category      string // category name, resolved at insert time
	unit          string
	purchasePrice float64
	salePrice     float64
	taxRate       float64
	stockQty      float64
	minStock      float64
	brand         string
	isService     bool
}

type proposalItemDef struct {
	sortOrder int
	name      string
	qty       float64
	unitPrice float64
	taxRate   float64
}

type proposalDef struct {
	title        string
	customer     string // customer name, resolved at insert time
	status       string
	currency     string
	paymentTerms string
	items        []proposalItemDef
}

type requestItemDef struct {
	sortOrder   int
	productName string
	qty         float64
	unit        string
	budgetMin   float64
	budgetMax   float64
}

type requestDef struct {
	title    string
	customer string
	status   string
	priority string
	items    []requestItemDef
}

// Seed populates all collections with a realistic demo firm. It is safe to
// call on every startup because it returns early if any firm records
// already exist.
func Seed(app *pocketbase.PocketBase) error {
	// ── idempotency: skip if firms already exist ─────────────────────
	firmsCol, err := app.FindCollectionByNameOrId("firms")
	if err != nil {
		return fmt.Errorf("seed: could not find firms collection: %w", err)
	}
	existing, err := app.FindAllRecords(firmsCol)
	if err != nil {
		return fmt.Errorf("seed: could not query firms: %w", err)
	}
	if len(existing) > 0 {
		return nil // already seeded
	}

	log.Println("seed: firms collection is empty – inserting seed data …")

	// ── lookup helper collections ────────────────────────────────────
	customersCol, err := app.FindCollectionByNameOrId("customers")
	if err != nil {
		return fmt.Errorf("seed: could not find customers collection: %w", err)
	}
	suppliersCol, err := app.FindCollectionByNameOrId("suppliers")
	if err != nil {
		return fmt.Errorf("seed: could not find suppliers collection: %w", err)
	}
	categoriesCol, err := app.FindCollectionByNameOrId("categories")
	if err != nil {
		return fmt.Errorf("seed: could not find categories collection: %w", err)
	}
	productsCol, err := app.FindCollectionByNameOrId("products")
	if err != nil {
		return fmt.Errorf("seed: could not find products collection: %w", err)
	}
	proposalsCol, err := app.FindCollectionByNameOrId("proposals")
	if err != nil {
		return fmt.Errorf("seed: could not find proposals collection: %w", err)
	}
	proposalItemsCol, err := app.FindCollectionByNameOrId("proposal_items")
	if err != nil {
		return fmt.Errorf("seed: could not find proposal_items collection: %w", err)
	}
	requestsCol, err := app.FindCollectionByNameOrId("price_requests")
	if err != nil {
		return fmt.Errorf("seed: could not find price_requests collection: %w", err)
	}
	requestItemsCol, err := app.FindCollectionByNameOrId("price_request_items")
	if err != nil {
		return fmt.Errorf("seed: could not find price_request_items collection: %w", err)
	}

	// ── the demo firm ────────────────────────────────────────────────
	firm := core.NewRecord(firmsCol)
	firm.Set("name", "Epica Demo Bilişim")
	firm.Set("contact_email", "demo@epica.example")
	firm.Set("phone", "0212 555 00 00")
	firm.Set("subscription_plan", "pro")
	firm.Set("status", "active")
	if err := app.Save(firm); err != nil {
		return fmt.Errorf("seed: could not create demo firm: %w", err)
	}

	// ── helper: create customer ──────────────────────────────────────
	customerIDs := make(map[string]string)
	createCustomer := func(d customerDef) error {
		r := core.NewRecord(customersCol)
		r.Set("firm", firm.Id)
		r.Set("name", d.name)
		r.Set("company", d.company)
		r.Set("email", d.email)
		r.Set("phone", d.phone)
		r.Set("address", d.address)
		r.Set("tax_number", d.taxNumber)
		r.Set("is_active", true)
		if err := app.Save(r); err != nil {
			return err
		}
		customerIDs[d.name] = r.Id
		return nil
	}

	// ── helper: create supplier ──────────────────────────────────────
	createSupplier := func(d supplierDef) error {
		r := core.NewRecord(suppliersCol)
		r.Set("firm", firm.Id)
		r.Set("name", d.name)
		r.Set("contact_person", d.contactPerson)
		r.Set("email", d.email)
		r.Set("phone", d.phone)
		r.Set("category", d.category)
		r.Set("payment_terms", d.paymentTerms)
		r.Set("rating", d.rating)
		r.Set("is_active", true)
		return app.Save(r)
	}

	// ── helper: create category ──────────────────────────────────────
	categoryIDs := make(map[string]string)
	createCategory := func(d categoryDef) error {
		r := core.NewRecord(categoriesCol)
		r.Set("firm", firm.Id)
		r.Set("name", d.name)
		r.Set("description", d.description)
		r.Set("color", d.color)
		r.Set("sort_order", d.sortOrder)
		if err := app.Save(r); err != nil {
			return err
		}
		categoryIDs[d.name] = r.Id
		return nil
	}

	// ── helper: create product ───────────────────────────────────────
	createProduct := func(d productDef) error {
		r := core.NewRecord(productsCol)
		r.Set("firm", firm.Id)
		r.Set("name", d.name)
		r.Set("sku", d.sku)
		r.Set("category", categoryIDs[d.category])
		r.Set("unit", d.unit)
		r.Set("purchase_price", d.purchasePrice)
		r.Set("sale_price", d.salePrice)
		r.Set("tax_rate", d.taxRate)
		r.Set("stock_quantity", d.stockQty)
		r.Set("min_stock_level", d.minStock)
		r.Set("brand", d.brand)
		r.Set("is_service", d.isService)
		r.Set("is_active", true)
		return app.Save(r)
	}

	// ── helper: create proposal with items ───────────────────────────
	createProposal := func(d proposalDef) error {
		r := core.NewRecord(proposalsCol)
		r.Set("firm", firm.Id)
		r.Set("title", d.title)
		r.Set("customer", customerIDs[d.customer])
		r.Set("status", d.status)
		r.Set("currency", d.currency)
		r.Set("payment_terms", d.paymentTerms)

		var total float64
		for _, it := range d.items {
			subtotal := it.qty * it.unitPrice
			total += subtotal + subtotal*it.taxRate/100
		}
		r.Set("total_amount", total)

		if err := app.Save(r); err != nil {
			return err
		}

		for _, it := range d.items {
			subtotal := it.qty * it.unitPrice
			taxAmount := subtotal * it.taxRate / 100

			item := core.NewRecord(proposalItemsCol)
			item.Set("proposal", r.Id)
			item.Set("sort_order", it.sortOrder)
			item.Set("name", it.name)
			item.Set("quantity", it.qty)
			item.Set("unit_price", it.unitPrice)
			item.Set("tax_rate", it.taxRate)
			item.Set("subtotal", subtotal)
			item.Set("tax_amount", taxAmount)
			item.Set("total_price", subtotal+taxAmount)
			if err := app.Save(item); err != nil {
				return err
			}
		}
		return nil
	}

	// ── helper: create price request with items ──────────────────────
	createRequest := func(d requestDef) error {
		r := core.NewRecord(requestsCol)
		r.Set("firm", firm.Id)
		r.Set("customer", customerIDs[d.customer])
		r.Set("title", d.title)
		r.Set("status", d.status)
		r.Set("priority", d.priority)
		if err := app.Save(r); err != nil {
			return err
		}

		for _, it := range d.items {
			item := core.NewRecord(requestItemsCol)
			item.Set("request", r.Id)
			item.Set("sort_order", it.sortOrder)
			item.Set("product_name", it.productName)
			item.Set("quantity", it.qty)
			item.Set("unit", it.unit)
			item.Set("budget_min", it.budgetMin)
			item.Set("budget_max", it.budgetMax)
			if err := app.Save(item); err != nil {
				return err
			}
		}
		return nil
	}

	// ── seed data ────────────────────────────────────────────────────
	customers := []customerDef{
		{name: "Ahmet Yılmaz", company: "Yılmaz İnşaat Ltd", email: "ahmet@yilmazinsaat.example", phone: "0532 111 22 33", address: "Kadıköy, İstanbul", taxNumber: "1234567890"},
		{name: "Zeynep Kaya", company: "Kaya Tekstil AŞ", email: "zeynep@kayatekstil.example", phone: "0533 444 55 66", address: "Bornova, İzmir"},
		{name: "Mehmet Demir", company: "", email: "mehmet.demir@example.com", phone: "0534 777 88 99"},
	}
	for _, d := range customers {
		if err := createCustomer(d); err != nil {
			return fmt.Errorf("seed: could not create customer %q: %w", d.name, err)
		}
	}

	suppliers := []supplierDef{
		{name: "Anadolu Bilgisayar", contactPerson: "Murat Aksoy", email: "satis@anadolubilgisayar.example", phone: "0212 333 11 00", category: "Donanım", paymentTerms: "30 gün vade", rating: 4.5},
		{name: "Ege Ofis Mobilyaları", contactPerson: "Elif Şahin", email: "info@egeofis.example", phone: "0232 444 22 00", category: "Mobilya", paymentTerms: "Peşin", rating: 4.0},
	}
	for _, d := range suppliers {
		if err := createSupplier(d); err != nil {
			return fmt.Errorf("seed: could not create supplier %q: %w", d.name, err)
		}
	}

	categories := []categoryDef{
		{name: "Donanım", description: "Bilgisayar ve çevre birimleri", color: "#2962FF", sortOrder: 1},
		{name: "Yazılım", description: "Lisans ve abonelikler", color: "#00C853", sortOrder: 2},
		{name: "Hizmetler", description: "Kurulum ve bakım hizmetleri", color: "#FF6D00", sortOrder: 3},
	}
	for _, d := range categories {
		if err := createCategory(d); err != nil {
			return fmt.Errorf("seed: could not create category %q: %w", d.name, err)
		}
	}

	products := []productDef{
		{name: "Dizüstü Bilgisayar 15.6\"", sku: "NB-1501", category: "Donanım", unit: "Adet", purchasePrice: 24000, salePrice: 29500, taxRate: 20, stockQty: 8, minStock: 3, brand: "Lenovo"},
		{name: "Lazer Yazıcı", sku: "PRN-001", category: "Donanım", unit: "Adet", purchasePrice: 4500, salePrice: 5900, taxRate: 20, stockQty: 12, minStock: 3, brand: "HP"},
		{name: "Ağ Anahtarı 24 Port", sku: "SW-2400", category: "Donanım", unit: "Adet", purchasePrice: 3200, salePrice: 4100, taxRate: 20, stockQty: 2, minStock: 4, brand: "TP-Link"},
		{name: "Ofis Paketi Lisansı", sku: "LIC-OFF", category: "Yazılım", unit: "Adet", purchasePrice: 1800, salePrice: 2400, taxRate: 20, stockQty: 0, minStock: 0},
		{name: "Yerinde Kurulum", sku: "SRV-INS", category: "Hizmetler", unit: "Saat", purchasePrice: 0, salePrice: 750, taxRate: 20, isService: true},
	}
	for _, d := range products {
		if err := createProduct(d); err != nil {
			return fmt.Errorf("seed: could not create product %q: %w", d.name, err)
		}
	}

	proposals := []proposalDef{
		{
			title: "Ofis Ağ Yenileme", customer: "Ahmet Yılmaz", status: "sent", currency: "TL", paymentTerms: "30 gün vade",
			items: []proposalItemDef{
				{sortOrder: 1, name: "Ağ Anahtarı 24 Port", qty: 2, unitPrice: 4100, taxRate: 20},
				{sortOrder: 2, name: "Yerinde Kurulum", qty: 6, unitPrice: 750, taxRate: 20},
			},
		},
		{
			title: "Muhasebe Bilgisayarları", customer: "Zeynep Kaya", status: "draft", currency: "TL",
			items: []proposalItemDef{
				{sortOrder: 1, name: "Dizüstü Bilgisayar 15.6\"", qty: 3, unitPrice: 29500, taxRate: 20},
				{sortOrder: 2, name: "Ofis Paketi Lisansı", qty: 3, unitPrice: 2400, taxRate: 20},
			},
		},
	}
	for _, d := range proposals {
		if err := createProposal(d); err != nil {
			return fmt.Errorf("seed: could not create proposal %q: %w", d.title, err)
		}
	}

	requests := []requestDef{
		{
			title: "Depo Raf Sistemi", customer: "Ahmet Yılmaz", status: "pending", priority: "high",
			items: []requestItemDef{
				{sortOrder: 1, productName: "Çelik Raf Ünitesi", qty: 10, unit: "Adet", budgetMin: 2000, budgetMax: 3500},
				{sortOrder: 2, productName: "Palet", qty: 40, unit: "Adet", budgetMax: 250},
			},
		},
		{
			title: "Toplantı Odası Ekranı", customer: "Mehmet Demir", status: "draft", priority: "normal",
			items: []requestItemDef{
				{sortOrder: 1, productName: "75\" 4K Ekran", qty: 1, unit: "Adet", budgetMin: 30000, budgetMax: 45000},
			},
		},
	}
	for _, d := range requests {
		if err := createRequest(d); err != nil {
			return fmt.Errorf("seed: could not create request %q: %w", d.title, err)
		}
	}

	log.Printf("seed: done – 1 firm, %d customers, %d suppliers, %d categories, %d products, %d proposals, %d requests\n",
		len(customers), len(suppliers), len(categories), len(products), len(proposals), len(requests))
	return nil
}
