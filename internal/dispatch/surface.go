package dispatch

// surface.go — OS print path.
// The host supplies surfaces (a hidden iframe in a webview shell, a native
// window elsewhere); this file owns the control flow and timing: create an
// off-screen surface, write the document, wait a fixed settle delay for
// layout and resources, invoke the platform print flow, then dispose the
// surface after a grace period so the print flow can still read it.

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
)

// Surface is one render target created by the host.
type Surface interface {
	// WriteHTML replaces the surface content with a full HTML document.
	WriteHTML(doc string) error
	// Print invokes the platform print flow for the surface content.
	Print() error
	// Close disposes the surface. Safe to call once.
	Close() error
}

// SurfaceProvider creates render surfaces. NewWindow can fail when the host
// blocks secondary windows (pop-up blocking); that failure must carry a
// user-actionable message.
type SurfaceProvider interface {
	NewHiddenSurface() (Surface, error)
	NewWindow(title string) (Surface, error)
}

// Surface lifecycle timing.
const (
	settleDelay  = 250 * time.Millisecond
	disposeDelay = 1000 * time.Millisecond
)

// Printer drives the OS print path for rendered ticket documents.
// One configured Printer is reused across the copies of a single job;
// each PrintDocument call creates and tears down its own surface.
type Printer struct {
	provider SurfaceProvider
}

// NewPrinter returns a Printer over the host's surface provider.
func NewPrinter(provider SurfaceProvider) *Printer {
	return &Printer{provider: provider}
}

// PrintDocument renders doc on a hidden surface and sends it through the
// platform print flow. The surface is disposed disposeDelay after Print
// returns; the dispose happens off the caller's path and its failure is
// only logged.
func (p *Printer) PrintDocument(ctx context.Context, doc string) (Result, error) {
	surface, err := p.provider.NewHiddenSurface()
	if err != nil {
		return Result{}, fmt.Errorf("dispatch: crear superficie de impresión: %w", err)
	}

	if err := surface.WriteHTML(doc); err != nil {
		_ = surface.Close()
		return Result{}, fmt.Errorf("dispatch: escribir documento: %w", err)
	}

	// Settle: give the surface time to lay out and load resources.
	select {
	case <-ctx.Done():
		_ = surface.Close()
		return Result{}, ctx.Err()
	case <-time.After(settleDelay):
	}

	if err := surface.Print(); err != nil {
		_ = surface.Close()
		return Result{}, fmt.Errorf("dispatch: imprimir: %w", err)
	}

	time.AfterFunc(disposeDelay, func() {
		if err := surface.Close(); err != nil {
			log.Warn().Err(err).Msg("dispatch: failed to dispose print surface")
		}
	})

	return Result{Message: "El ticket se imprimió correctamente"}, nil
}

// Preview opens doc in a secondary window. Synchronous; fails only when the
// host blocks the window.
func (p *Printer) Preview(doc string) (Result, error) {
	window, err := p.provider.NewWindow("Vista Previa Ticket")
	if err != nil {
		return Result{}, fmt.Errorf("dispatch: no se pudo abrir la ventana de vista previa, verifique que las ventanas emergentes estén habilitadas: %w", err)
	}
	if err := window.WriteHTML(doc); err != nil {
		_ = window.Close()
		return Result{}, fmt.Errorf("dispatch: escribir vista previa: %w", err)
	}
	return Result{Message: "Abierta vista previa"}, nil
}

// Download serializes a built document to an HTML file named after the sale
// id and the current timestamp, inside dir. Returns the written path.
func Download(doc string, saleID int64, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("dispatch: crear directorio de descarga: %w", err)
	}
	name := fmt.Sprintf("ticket-%d-%d.html", saleID, time.Now().UnixMilli())
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		return "", fmt.Errorf("dispatch: guardar ticket: %w", err)
	}
	return path, nil
}

// DownloadPDF writes already-rendered PDF bytes next to the HTML downloads.
func DownloadPDF(pdf []byte, saleID int64, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("dispatch: crear directorio de descarga: %w", err)
	}
	name := fmt.Sprintf("ticket-%d-%d.pdf", saleID, time.Now().UnixMilli())
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, pdf, 0644); err != nil {
		return "", fmt.Errorf("dispatch: guardar ticket: %w", err)
	}
	return path, nil
}
