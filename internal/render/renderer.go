package render

import "context"

type Renderer interface {
	RenderIndex(ctx context.Context, page IndexPage) ([]byte, error)
	RenderListing(ctx context.Context, page ListingPage) ([]byte, error)
	RenderNotFound(ctx context.Context, page NotFoundPage) ([]byte, error)
}
