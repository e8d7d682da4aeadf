//go:generate go run go.uber.org/mock/mockgen -source=directory_service.go -destination=../mocks/mock_directory_service.go -package=mocks
package services

import (
	"fmt"
	"log/slog"

	"pairchat/domain"
	"pairchat/errors"
	"pairchat/repositories"

	"github.com/go-playground/validator/v10"
)

type IDirectoryService interface {
	ListUsers() ([]domain.UserProfile, error)
	GetProfile(id string) (domain.UserProfile, error)
	CreateProfile(profile domain.UserProfile) error
}

var validate = validator.New()

// profileRequest mirrors the registration form fields.
type profileRequest struct {
	ID          string `validate:"required"`
	Name        string `validate:"required,max=100"`
	DateOfBirth string `validate:"required,datetime=2006-01-02"`
	Gender      string `validate:"required,oneof=Male Female Other"`
}

// DirectoryService exposes the registered-user directory.
type DirectoryService struct {
	log  *slog.Logger
	repo repositories.IUserRepository
}

func NewDirectoryService(log *slog.Logger, repo repositories.IUserRepository) *DirectoryService {
	return &DirectoryService{log: log, repo: repo}
}

// ListUsers fetches every registered profile in one shot. The signed-in
// user appears in the result as well; callers render the list as-is.
func (d *DirectoryService) ListUsers() ([]domain.UserProfile, error) {
	return d.repo.ListProfiles()
}

// GetProfile resolves one profile by identifier. A miss surfaces
// errors.ErrProfileNotFound rather than an empty profile.
func (d *DirectoryService) GetProfile(id string) (domain.UserProfile, error) {
	return d.repo.GetProfile(id)
}

// CreateProfile validates the registration form and persists the profile.
func (d *DirectoryService) CreateProfile(profile domain.UserProfile) error {
	req := profileRequest{
		ID:          profile.ID,
		Name:        profile.Name,
		DateOfBirth: profile.DateOfBirth,
		Gender:      string(profile.Gender),
	}
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidProfile, err)
	}

	if err := d.repo.CreateProfile(profile); err != nil {
		return err
	}
	d.log.Info("Profile created", "id", profile.ID, "name", profile.Name)
	return nil
}
