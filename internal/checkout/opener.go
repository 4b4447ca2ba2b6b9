package checkout

import "context"

// Opener is the host hook that opens a deep link in a new context (a browser
// tab, a redirect, a native intent).
type Opener interface {
	Open(ctx context.Context, uri string) error
}

type OpenerFunc func(ctx context.Context, uri string) error

func (f OpenerFunc) Open(ctx context.Context, uri string) error {
	return f(ctx, uri)
}
