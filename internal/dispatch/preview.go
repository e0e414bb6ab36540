package dispatch

// preview.go — preview transport, the default and the fallback.
// Decodes the command buffer to a readable approximation and shows it in a
// secondary window styled like a thermal strip. Always available: it needs
// no device, no relay, no permission beyond opening a window.

import (
	"context"
	"fmt"
	"html"

	"ticketera/internal/escpos"
)

// PreviewTransport renders command buffers on screen instead of paper.
type PreviewTransport struct {
	provider SurfaceProvider
}

func NewPreviewTransport(provider SurfaceProvider) *PreviewTransport {
	return &PreviewTransport{provider: provider}
}

func (t *PreviewTransport) Name() Method { return MethodPreview }

// Send opens the decoded buffer in a preview window.
func (t *PreviewTransport) Send(_ context.Context, raw []byte) (Result, error) {
	window, err := t.provider.NewWindow("Vista Previa Ticket Térmico")
	if err != nil {
		return Result{}, fmt.Errorf("dispatch: no se pudo abrir la vista previa, verifique que las ventanas emergentes estén habilitadas: %w", err)
	}
	if err := window.WriteHTML(previewHTML(escpos.ToText(raw))); err != nil {
		_ = window.Close()
		return Result{}, fmt.Errorf("dispatch: escribir vista previa: %w", err)
	}
	return Result{Message: "Abierta vista previa"}, nil
}

// previewHTML wraps decoded ticket text in a thermal-strip styled page.
func previewHTML(text string) string {
	return `<html>
<head>
<title>Vista Previa Ticket Térmico</title>
<style>
body { font-family: 'Courier New', monospace; margin: 20px; background: #f5f5f5; }
.ticket { width: 280px; border: 1px solid #ccc; padding: 10px; background: white; margin: auto; }
pre { font-size: 11px; white-space: pre-wrap; margin: 0; }
</style>
</head>
<body>
<div class="ticket"><pre>` + html.EscapeString(text) + `</pre></div>
</body>
</html>`
}
