package reminders

import (
	"context"

	"github.com/aatumaykin/coursebot/internal/domain"
)

// UserLister is the part of the user store recipients are read from.
type UserLister interface {
	ListActiveRecipients(ctx context.Context) ([]int64, error)
	ListVerified(ctx context.Context) ([]domain.User, error)
}

// RecipientResolver looks recipients up on every call, so preference changes
// made after a reminder was armed are honored when it fires.
type RecipientResolver struct {
	users UserLister
}

// NewRecipientResolver creates a resolver over the user store.
func NewRecipientResolver(users UserLister) *RecipientResolver {
	return &RecipientResolver{users: users}
}

// ActiveRecipients returns verified users with reminders enabled.
func (r *RecipientResolver) ActiveRecipients(ctx context.Context) ([]int64, error) {
	return r.users.ListActiveRecipients(ctx)
}

// VerifiedRecipients returns every verified user.
func (r *RecipientResolver) VerifiedRecipients(ctx context.Context) ([]int64, error) {
	users, err := r.users.ListVerified(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	return ids, nil
}
