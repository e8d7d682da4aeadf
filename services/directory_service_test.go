package services

import (
	"log/slog"
	"testing"

	"pairchat/domain"
	"pairchat/errors"
	"pairchat/mocks"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func validProfile() domain.UserProfile {
	return domain.UserProfile{
		ID:          "u1",
		Name:        "Alice",
		DateOfBirth: "2000-01-01",
		Gender:      domain.Female,
	}
}

func Test_DirectoryService_CreateProfile(t *testing.T) {
	t.Run("should persist a valid profile", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := mocks.NewMockIUserRepository(ctrl)
		repo.EXPECT().CreateProfile(validProfile()).Return(nil).Times(1)

		service := NewDirectoryService(slog.Default(), repo)
		req.NoError(service.CreateProfile(validProfile()))
	})

	t.Run("should reject an invalid profile without touching the repository", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := mocks.NewMockIUserRepository(ctrl)
		repo.EXPECT().CreateProfile(gomock.Any()).Times(0)

		service := NewDirectoryService(slog.Default(), repo)

		cases := []struct {
			name   string
			mutate func(*domain.UserProfile)
		}{
			{"empty name", func(p *domain.UserProfile) { p.Name = "" }},
			{"bad date format", func(p *domain.UserProfile) { p.DateOfBirth = "01/01/2000" }},
			{"unknown gender", func(p *domain.UserProfile) { p.Gender = "Unknown" }},
			{"missing id", func(p *domain.UserProfile) { p.ID = "" }},
		}
		for _, c := range cases {
			profile := validProfile()
			c.mutate(&profile)
			err := service.CreateProfile(profile)
			req.ErrorIs(err, errors.ErrInvalidProfile, c.name)
		}
	})

	t.Run("should surface a duplicate-profile error from the repository", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := mocks.NewMockIUserRepository(ctrl)
		repo.EXPECT().CreateProfile(gomock.Any()).Return(errors.ErrProfileAlreadyExists)

		service := NewDirectoryService(slog.Default(), repo)
		err := service.CreateProfile(validProfile())
		req.ErrorIs(err, errors.ErrProfileAlreadyExists)
	})
}

func Test_DirectoryService_Lookup(t *testing.T) {
	t.Run("should list every registered profile", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		alice := validProfile()
		bob := domain.UserProfile{ID: "u2", Name: "Bob", DateOfBirth: "1999-06-15", Gender: domain.Male}

		repo := mocks.NewMockIUserRepository(ctrl)
		repo.EXPECT().ListProfiles().Return([]domain.UserProfile{alice, bob}, nil)

		service := NewDirectoryService(slog.Default(), repo)
		users, err := service.ListUsers()
		req.NoError(err)
		req.ElementsMatch([]domain.UserProfile{alice, bob}, users)
	})

	t.Run("should surface a miss as profile-not-found", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := mocks.NewMockIUserRepository(ctrl)
		repo.EXPECT().GetProfile("nobody").Return(domain.UserProfile{}, errors.ErrProfileNotFound)

		service := NewDirectoryService(slog.Default(), repo)
		_, err := service.GetProfile("nobody")
		req.ErrorIs(err, errors.ErrProfileNotFound)
	})
}
