package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"ticketera/internal/dispatch"
)

// fileSurfaceProvider is the CLI's render host: surfaces are HTML files in
// the download directory. "Printing" a surface only reports the path —
// there is no OS dialog on a headless terminal; device printing goes
// through the relay transport instead.
type fileSurfaceProvider struct {
	dir string
}

func (p fileSurfaceProvider) NewHiddenSurface() (dispatch.Surface, error) {
	return p.newSurface("ticket")
}

func (p fileSurfaceProvider) NewWindow(title string) (dispatch.Surface, error) {
	return p.newSurface("preview")
}

func (p fileSurfaceProvider) newSurface(prefix string) (dispatch.Surface, error) {
	if err := os.MkdirAll(p.dir, 0755); err != nil {
		return nil, err
	}
	path := filepath.Join(p.dir, fmt.Sprintf("%s-%d.html", prefix, time.Now().UnixMilli()))
	return &fileSurface{path: path}, nil
}

type fileSurface struct {
	path string
}

func (s *fileSurface) WriteHTML(doc string) error {
	return os.WriteFile(s.path, []byte(doc), 0644)
}

func (s *fileSurface) Print() error {
	log.Info().Str("path", s.path).Msg("documento listo para imprimir")
	return nil
}

func (s *fileSurface) Close() error { return nil }
