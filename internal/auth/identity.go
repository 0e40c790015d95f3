package auth

import (
	"context"

	"github.com/heartmarshall/zinote-backend/pkg/ctxutil"
)

// GuestID is the actor ID assigned to guest sessions.
const GuestID = "guest"

// GuestActor is the identity of a session that skipped sign-in.
func GuestActor() ctxutil.Actor {
	return ctxutil.Actor{ID: GuestID, Guest: true}
}

// ContextIdentity resolves the current actor from the request context.
type ContextIdentity struct{}

// CurrentActor returns the stamping name of a signed-in actor. Guest and
// anonymous contexts report false.
func (ContextIdentity) CurrentActor(ctx context.Context) (string, bool) {
	if ctxutil.IsGuestCtx(ctx) {
		return "", false
	}
	a, _ := ctxutil.ActorFromCtx(ctx)
	return a.Name(), true
}

// StaticIdentity always reports the same actor. Used by the CLI, where
// there is no request context. An empty name behaves like a guest.
type StaticIdentity string

// CurrentActor implements the identity lookup for a fixed actor name.
func (s StaticIdentity) CurrentActor(ctx context.Context) (string, bool) {
	if a, ok := ctxutil.ActorFromCtx(ctx); ok && !a.Guest {
		return a.Name(), true
	}
	if s == "" {
		return "", false
	}
	return string(s), true
}
