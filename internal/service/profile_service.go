package service

import (
	"context"
	"errors"

	"github.com/publishing-api/internal/apperr"
	"github.com/publishing-api/internal/assets"
	"github.com/publishing-api/internal/models"
	"github.com/publishing-api/internal/repository"
	"github.com/rs/zerolog"
)

// profileService is the concrete implementation of ProfileService
type profileService struct {
	repos  *repository.Repositories
	assets assets.Store
	log    zerolog.Logger
}

func newProfileService(repos *repository.Repositories, store assets.Store, log zerolog.Logger) *profileService {
	return &profileService{
		repos:  repos,
		assets: store,
		log:    log.With().Str("service", "profile").Logger(),
	}
}

// UpdateImage stores upload as the user's profile image. The previous image
// is deleted once the user row points at the new one.
func (s *profileService) UpdateImage(ctx context.Context, userID int64, upload *assets.Upload) (*models.User, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	url, err := s.assets.Save(ctx, assets.BucketProfiles, upload)
	if err != nil {
		return nil, err
	}

	if err := s.setImage(ctx, userID, &url); err != nil {
		discardAsset(ctx, s.assets, s.log, url, "profile update failed")
		return nil, err
	}

	old := deref(user.ProfileImage)
	user.ProfileImage = &url
	discardAsset(ctx, s.assets, s.log, old, "profile image replaced")

	s.log.Info().Int64("user_id", userID).Msg("Profile image updated")
	return user, nil
}

// RemoveImage clears the user's profile image
func (s *profileService) RemoveImage(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.ProfileImage == nil {
		return user, nil
	}

	if err := s.setImage(ctx, userID, nil); err != nil {
		return nil, err
	}

	old := *user.ProfileImage
	user.ProfileImage = nil
	discardAsset(ctx, s.assets, s.log, old, "profile image removed")
	return user, nil
}

func (s *profileService) getUser(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.repos.User.GetByID(ctx, userID)
	if err != nil {
		return nil, apperr.Persistence("get user", err)
	}
	if user == nil {
		return nil, apperr.NotFound("user not found")
	}
	return user, nil
}

func (s *profileService) setImage(ctx context.Context, userID int64, url *string) error {
	if err := s.repos.User.SetProfileImage(ctx, userID, url); err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return apperr.NotFound("user not found")
		}
		return apperr.Persistence("update profile image", err)
	}
	return nil
}
