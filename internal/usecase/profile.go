package usecase

import (
	"context"
	"fmt"

	"github.com/soulease/guidance/internal/domain"
)

// ProfileService stores assessment answers. A write replaces the whole
// profile; partial updates are a client concern.
type ProfileService struct {
	Store domain.SessionStore
}

// NewProfileService constructs a ProfileService.
func NewProfileService(store domain.SessionStore) ProfileService {
	return ProfileService{Store: store}
}

// Save overwrites the session's profile.
func (s ProfileService) Save(ctx context.Context, session string, p domain.UserProfile) error {
	if len(p) == 0 {
		return fmt.Errorf("%w: profile must not be empty", domain.ErrInvalidArgument)
	}
	return s.Store.PutJSON(ctx, profileKey(session), p)
}

// Get returns the stored profile.
func (s ProfileService) Get(ctx context.Context, session string) (domain.UserProfile, error) {
	p := domain.UserProfile{}
	ok, err := s.Store.GetJSON(ctx, profileKey(session), 0, &p)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: no profile stored for session", domain.ErrNotFound)
	}
	return p, nil
}
