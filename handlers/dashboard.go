package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"epica/services"
)

// HandleDashboard returns the headline numbers of a firm: record counts,
// proposal pipeline totals, pending request count and low stock alerts.
func HandleDashboard(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		firm, err := requireFirm(app, e)
		if firm == nil {
			return err
		}

		proposals, err := app.FindRecordsByFilter(
			"proposals",
			"firm = {:firmId}",
			"",
			0,
			0,
			map[string]any{"firmId": firm.Id},
		)
		if err != nil {
			log.Printf("dashboard: HandleDashboard: could not fetch proposals: %v", err)
			return JSONError(e, http.StatusInternalServerError, "Bir hata oluştu")
		}

		proposalsByStatus := make(map[string]int)
		var pipelineTotal, approvedTotal float64
		for _, p := range proposals {
			status := p.GetString("status")
			proposalsByStatus[status]++
			switch status {
			case services.ProposalStatusDraft, services.ProposalStatusSent:
				pipelineTotal += p.GetFloat("total_amount")
			case services.ProposalStatusApproved:
				approvedTotal += p.GetFloat("total_amount")
			}
		}

		requests, err := app.FindRecordsByFilter(
			"price_requests",
			"firm = {:firmId}",
			"",
			0,
			0,
			map[string]any{"firmId": firm.Id},
		)
		if err != nil {
			log.Printf("dashboard: HandleDashboard: could not fetch requests: %v", err)
			requests = nil
		}
		requestsByStatus := make(map[string]int)
		for _, r := range requests {
			requestsByStatus[r.GetString("status")]++
		}

		lowStock := 0
		products, err := app.FindRecordsByFilter(
			"products",
			"firm = {:firmId} && is_service = false",
			"",
			0,
			0,
			map[string]any{"firmId": firm.Id},
		)
		if err == nil {
			for _, p := range products {
				if services.IsLowStock(p.GetFloat("stock_quantity"), p.GetFloat("min_stock_level")) {
					lowStock++
				}
			}
		}

		return JSONSuccess(e, http.StatusOK, map[string]any{
			"stats": map[string]any{
				"customers":           countFirmRecords(app, "customers", firm.Id),
				"suppliers":           countFirmRecords(app, "suppliers", firm.Id),
				"products":            len(products),
				"proposals":           len(proposals),
				"proposals_by_status": proposalsByStatus,
				"pipeline_total":      pipelineTotal,
				"approved_total":      approvedTotal,
				"requests_by_status":  requestsByStatus,
				"pending_requests":    requestsByStatus[services.RequestStatusPending],
				"low_stock_products":  lowStock,
			},
		})
	}
}
