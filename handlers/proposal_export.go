package handlers

import (
	"fmt"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"epica/services"
)

// HandleProposalExport serves a proposal as a PDF download.
func HandleProposalExport(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		firm, err := requireFirm(app, e)
		if firm == nil {
			return err
		}

		proposal, err := findFirmProposal(app, e, firm.Id)
		if proposal == nil {
			return err
		}

		data, err := services.BuildProposalExportData(app, proposal.Id)
		if err != nil {
			log.Printf("proposal_export: HandleProposalExport: could not build export data: %v", err)
			return JSONError(e, http.StatusInternalServerError, "PDF oluşturulamadı")
		}

		pdfBytes, err := services.GenerateProposalPDF(data)
		if err != nil {
			log.Printf("proposal_export: HandleProposalExport: could not generate PDF: %v", err)
			return JSONError(e, http.StatusInternalServerError, "PDF oluşturulamadı")
		}

		filename := fmt.Sprintf("teklif_%s_%s.pdf", proposal.Id, sanitizeFilename(proposal.GetString("title")))
		e.Response.Header().Set("Content-Type", "application/pdf")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.WriteHeader(http.StatusOK)
		_, err = e.Response.Write(pdfBytes)
		return err
	}
}
