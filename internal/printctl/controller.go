// Package printctl orchestrates one print action end to end: it reads the
// persisted transport preference, runs the per-copy loop with the fixed
// inter-copy delay, decides the user-visible outcome text, and feeds it to
// the notification collaborator. It is the only place that aborts the copy
// loop — transports never retry and never notify.
package printctl

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"ticketera/internal/config"
	"ticketera/internal/dispatch"
	"ticketera/internal/escpos"
	"ticketera/internal/ticket"
)

// State is the controller's per-invocation lifecycle.
type State int

const (
	StateIdle State = iota
	StatePrinting
	StateSuccess
	StateFailure
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePrinting:
		return "printing"
	case StateSuccess:
		return "success"
	case StateFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// Notification severities for the collaborator.
const (
	SeveritySuccess = "success"
	SeverityError   = "error"
)

// Notifier is the user-feedback collaborator (toast, status bar, log).
type Notifier interface {
	Show(message, severity string)
}

// Encoder produces one fresh command buffer per call. *escpos.Client
// satisfies it; tests substitute fakes.
type Encoder interface {
	Generate(ctx context.Context, saleID int64, profile ticket.BusinessProfile, cfg ticket.TicketConfig) (string, error)
}

// ErrPrintingDisabled is returned when the ticket configuration has printing
// globally disabled; the feature is hidden, nothing runs.
var ErrPrintingDisabled = errors.New("printctl: la impresión de tickets está deshabilitada")

// Delay between consecutive copies so device access never overlaps.
const interCopyDelay = 500 * time.Millisecond

// Controller runs print invocations. Single-owner: one UI flow drives it at
// a time, re-entrant across invocations.
type Controller struct {
	encoder    Encoder
	dispatcher *dispatch.Dispatcher
	printer    *dispatch.Printer
	notifier   Notifier
	prefs      config.Prefs

	state     State
	copyDelay time.Duration
}

// NewController wires a controller. printer drives the OS print path,
// dispatcher the device transports; either may go unused depending on the
// persisted preferences.
func NewController(encoder Encoder, dispatcher *dispatch.Dispatcher, printer *dispatch.Printer, notifier Notifier, prefs config.Prefs) *Controller {
	return &Controller{
		encoder:    encoder,
		dispatcher: dispatcher,
		printer:    printer,
		notifier:   notifier,
		prefs:      prefs,
		state:      StateIdle,
		copyDelay:  interCopyDelay,
	}
}

// State returns the outcome of the last invocation.
func (c *Controller) State() State { return c.state }

// Print runs one print action for the job. The first failing copy aborts
// the remaining ones and reports failure; partial completion is not
// distinguished from total failure.
func (c *Controller) Print(ctx context.Context, job *ticket.PrintJob) error {
	if !job.Config.EnablePrint {
		return ErrPrintingDisabled
	}

	c.state = StatePrinting
	copies := job.Copies
	if copies == 0 {
		copies = c.prefs.CopiesCount
	}
	copies = ticket.ClampCopies(copies)

	var err error
	if c.prefs.EscposEnabled {
		err = c.printDevice(ctx, job, copies)
	} else {
		err = c.printDialog(ctx, job, copies)
	}

	if err != nil {
		c.state = StateFailure
		log.Error().Err(err).Int64("sale_id", job.Sale.ID).Msg("printctl: print failed")
		c.notifier.Show(failureMessage(err), SeverityError)
		return err
	}

	c.state = StateSuccess
	c.notifier.Show(successMessage(copies), SeveritySuccess)
	return nil
}

// printDevice regenerates a fresh command buffer per copy and sends it
// through the preferred device transport. Buffers are never reused.
func (c *Controller) printDevice(ctx context.Context, job *ticket.PrintJob, copies int) error {
	method := dispatch.ParseMethod(c.prefs.PrintMethod)

	for i := 0; i < copies; i++ {
		b64, err := c.encoder.Generate(ctx, job.Sale.ID, job.Profile, job.Config)
		if err != nil {
			return err
		}
		raw, err := escpos.Decode(b64)
		if err != nil {
			return err
		}

		res, err := c.dispatcher.Send(ctx, method, raw)
		if err != nil {
			return err
		}
		log.Info().
			Int64("sale_id", job.Sale.ID).
			Str("method", string(method)).
			Int("copy", i+1).
			Str("result", res.Message).
			Msg("printctl: copy dispatched")

		if i < copies-1 {
			if err := c.waitBetweenCopies(ctx); err != nil {
				return err
			}
		}
	}
	return nil
}

// printDialog renders the document once and sends it through the OS print
// flow copies times, reusing the one configured printer.
func (c *Controller) printDialog(ctx context.Context, job *ticket.PrintJob, copies int) error {
	doc := ticket.BuildHTML(job.Sale, job.Profile, job.Config)

	for i := 0; i < copies; i++ {
		if _, err := c.printer.PrintDocument(ctx, doc); err != nil {
			return err
		}
		log.Info().Int64("sale_id", job.Sale.ID).Int("copy", i+1).Msg("printctl: copy printed")

		if i < copies-1 {
			if err := c.waitBetweenCopies(ctx); err != nil {
				return err
			}
		}
	}
	return nil
}

// waitBetweenCopies inserts the fixed delay, honoring cancellation. This is
// the only point an in-progress invocation observes ctx — a copy already
// handed to a device cannot be aborted.
func (c *Controller) waitBetweenCopies(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(c.copyDelay):
		return nil
	}
}

// Preview opens the rendered document in a secondary window.
func (c *Controller) Preview(job *ticket.PrintJob) error {
	if _, err := c.printer.Preview(ticket.BuildHTML(job.Sale, job.Profile, job.Config)); err != nil {
		c.notifier.Show(failureMessage(err), SeverityError)
		return err
	}
	return nil
}

// Download writes the rendered document to dir as an HTML file.
func (c *Controller) Download(job *ticket.PrintJob, dir string) (string, error) {
	path, err := dispatch.Download(ticket.BuildHTML(job.Sale, job.Profile, job.Config), job.Sale.ID, dir)
	if err != nil {
		c.notifier.Show(failureMessage(err), SeverityError)
		return "", err
	}
	c.notifier.Show("El ticket se descargó correctamente", SeveritySuccess)
	return path, nil
}

// DownloadPDF renders and writes the PDF rendition of the ticket.
func (c *Controller) DownloadPDF(job *ticket.PrintJob, dir string) (string, error) {
	pdf, err := ticket.BuildPDF(job.Sale, job.Profile, job.Config)
	if err != nil {
		c.notifier.Show(failureMessage(err), SeverityError)
		return "", err
	}
	path, err := dispatch.DownloadPDF(pdf, job.Sale.ID, dir)
	if err != nil {
		c.notifier.Show(failureMessage(err), SeverityError)
		return "", err
	}
	c.notifier.Show("El ticket se descargó correctamente", SeveritySuccess)
	return path, nil
}

func successMessage(copies int) string {
	if copies > 1 {
		return fmt.Sprintf("Se imprimieron %d copias correctamente", copies)
	}
	return "El ticket se imprimió correctamente"
}

func failureMessage(err error) string {
	if err == nil || err.Error() == "" {
		return "No se pudo imprimir el ticket"
	}
	return err.Error()
}
