package authctx

import (
	"context"

	"github.com/brunesovrbrauns/bdc-manager-app/internal/domain"
)

type contextKey string

const userContextKey contextKey = "currentUser"

// CurrentUser is the verified bearer of the request's token.
type CurrentUser struct {
	Subject string
	Email   string
	Role    domain.AgentRole
}

func WithCurrentUser(ctx context.Context, user CurrentUser) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

func FromContext(ctx context.Context) *CurrentUser {
	val, ok := ctx.Value(userContextKey).(CurrentUser)
	if !ok {
		return nil
	}
	return &val
}
