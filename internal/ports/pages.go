package ports

import (
	"context"
	"io"
)

// PageStore renders the HTML views.
type PageStore interface {
	Render(ctx context.Context, w io.Writer, page string, data any) error
}
