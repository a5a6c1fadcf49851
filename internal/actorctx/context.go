package actorctx

import "context"

// Actor is the authenticated caller attached to a request context.
type Actor struct {
	ID        int64
	Email     string
	FirstName string
	LastName  string
	Role      string
}

type contextKey struct{}

func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, contextKey{}, actor)
}

func FromContext(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(contextKey{}).(Actor)
	return actor, ok
}
