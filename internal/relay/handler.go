package relay

import (
	"encoding/base64"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Handler serves the relay endpoints over one configured printer.
type Handler struct {
	printer *NetworkPrinter
	breaker *Breaker
	jobs    *JobLog
	subnets []string
}

// NewHandler wires the relay handler.
func NewHandler(printer *NetworkPrinter, breaker *Breaker, jobs *JobLog, subnets []string) *Handler {
	return &Handler{printer: printer, breaker: breaker, jobs: jobs, subnets: subnets}
}

// printRequest is the body frontends POST: a base64-encoded command buffer.
type printRequest struct {
	Command string `json:"command" binding:"required"`
}

// Print decodes the command buffer and forwards it to the printer through
// the breaker. Mounted at POST / so in-store frontends can use the relay
// URL as-is.
func (h *Handler) Print(c *gin.Context) {
	var req printRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "JSON invalido: se requiere el campo command")
		return
	}

	raw, err := base64.StdEncoding.DecodeString(req.Command)
	if err != nil {
		respondError(c, http.StatusBadRequest, "El campo command no es base64 válido")
		return
	}
	if len(raw) == 0 {
		respondError(c, http.StatusBadRequest, "El comando de impresión está vacío")
		return
	}

	err = h.breaker.Execute(func() error {
		return h.printer.Print(raw)
	})
	if err != nil {
		h.jobs.Record(h.printer.Address(), JobFailed, len(raw), err.Error())
		log.Error().
			Str("request_id", c.GetString(RequestIDKey)).
			Str("printer", h.printer.Address()).
			Int("bytes", len(raw)).
			Err(err).
			Msg("relay: print failed")
		respondError(c, http.StatusBadGateway, "No se pudo imprimir: "+err.Error())
		return
	}

	jobID := h.jobs.Record(h.printer.Address(), JobCompleted, len(raw), "")
	log.Info().
		Str("request_id", c.GetString(RequestIDKey)).
		Str("printer", h.printer.Address()).
		Str("job_id", jobID).
		Int("bytes", len(raw)).
		Msg("relay: printed")
	respondOK(c, gin.H{"job_id": jobID}, "Impresión enviada")
}

// Health reports daemon status, printer reachability, and breaker state.
func (h *Handler) Health(c *gin.Context) {
	online := h.printer.Online()
	status := http.StatusOK
	if !online {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{
		"ok":      online,
		"printer": h.printer.Address(),
		"online":  online,
		"breaker": h.breaker.State().String(),
	})
}

// ListPrinters scans the configured subnets for raw-TCP printers.
func (h *Handler) ListPrinters(c *gin.Context) {
	found := Discover(h.subnets)
	respondOK(c, found, "")
}

// TestPrint sends the diagnostic receipt to the configured printer.
func (h *Handler) TestPrint(c *gin.Context) {
	data := TestReceipt()
	err := h.breaker.Execute(func() error {
		return h.printer.Print(data)
	})
	if err != nil {
		h.jobs.Record(h.printer.Address(), JobFailed, len(data), err.Error())
		respondError(c, http.StatusBadGateway, "No se pudo imprimir la prueba: "+err.Error())
		return
	}
	jobID := h.jobs.Record(h.printer.Address(), JobCompleted, len(data), "")
	respondOK(c, gin.H{"job_id": jobID}, "Impresión de prueba enviada")
}

// ListJobs returns recent jobs, newest first.
func (h *Handler) ListJobs(c *gin.Context) {
	respondOK(c, h.jobs.Entries(), "")
}
