package render

import (
	"context"

	"gallery/internal/domain/card"
)

type Renderer interface {
	RenderCard(r card.Record) (string, error)
	RenderPage(ctx context.Context, page PageView) ([]byte, error)
}
