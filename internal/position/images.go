package position

import "context"

// ImageResolver pre-fetches bead artwork and returns an opaque handle per URL.
type ImageResolver interface {
	Resolve(ctx context.Context, urls []string) (map[string]string, error)
}

// ResolverFunc adapts a function to ImageResolver.
type ResolverFunc func(ctx context.Context, urls []string) (map[string]string, error)

func (f ResolverFunc) Resolve(ctx context.Context, urls []string) (map[string]string, error) {
	return f(ctx, urls)
}

// PassthroughResolver uses each URL as its own handle.
type PassthroughResolver struct{}

func (PassthroughResolver) Resolve(_ context.Context, urls []string) (map[string]string, error) {
	out := make(map[string]string, len(urls))
	for _, u := range urls {
		out[u] = u
	}
	return out, nil
}
