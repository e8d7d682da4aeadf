package repositories

import (
	"testing"

	"pairchat/domain"
	"pairchat/errors"

	"github.com/stretchr/testify/require"
)

func Test_Profile_CreateAndGet(t *testing.T) {
	req := require.New(t)
	repository := NewUserRepository(openTestDB(t))

	profile := domain.UserProfile{
		ID:          "u1",
		Name:        "Alice",
		DateOfBirth: "2000-01-01",
		Gender:      domain.Female,
	}
	req.NoError(repository.CreateProfile(profile))

	fetched, err := repository.GetProfile("u1")
	req.NoError(err)
	req.Equal(profile, fetched)
}

func Test_Profile_CreateTwiceRejected(t *testing.T) {
	req := require.New(t)
	repository := NewUserRepository(openTestDB(t))

	profile := domain.UserProfile{ID: "u1", Name: "Alice", DateOfBirth: "2000-01-01", Gender: domain.Female}
	req.NoError(repository.CreateProfile(profile))

	profile.Name = "Not Alice"
	req.ErrorIs(repository.CreateProfile(profile), errors.ErrProfileAlreadyExists)

	// The original document is untouched
	fetched, err := repository.GetProfile("u1")
	req.NoError(err)
	req.Equal("Alice", fetched.Name)
}

func Test_Profile_GetMissing(t *testing.T) {
	req := require.New(t)
	repository := NewUserRepository(openTestDB(t))

	_, err := repository.GetProfile("nobody")
	req.ErrorIs(err, errors.ErrProfileNotFound)
}

func Test_Profile_ListAll(t *testing.T) {
	req := require.New(t)
	repository := NewUserRepository(openTestDB(t))

	profiles := []domain.UserProfile{
		{ID: "u1", Name: "Alice", DateOfBirth: "2000-01-01", Gender: domain.Female},
		{ID: "u2", Name: "Bob", DateOfBirth: "1995-06-15", Gender: domain.Male},
		{ID: "u3", Name: "Chris", DateOfBirth: "1990-12-31", Gender: domain.Other},
	}
	for _, p := range profiles {
		req.NoError(repository.CreateProfile(p))
	}

	listed, err := repository.ListProfiles()
	req.NoError(err)
	req.ElementsMatch(profiles, listed)
}
