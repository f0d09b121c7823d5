package report

import "context"

// Renderer convierte un Report en un documento descargable.
type Renderer interface {
	Render(ctx context.Context, r *Report) ([]byte, error)
	ContentType() string
	Extension() string
}

// File documento generado listo para enviarse como adjunto.
type File struct {
	Name        string
	ContentType string
	Content     []byte
}
