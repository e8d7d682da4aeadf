//go:generate go run go.uber.org/mock/mockgen -source=user.go -destination=../mocks/mock_user_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"

	"pairchat/domain"
	"pairchat/errors"

	"github.com/dgraph-io/badger/v4"
)

type IUserRepository interface {
	CreateProfile(profile domain.UserProfile) error
	GetProfile(id string) (domain.UserProfile, error)
	ListProfiles() ([]domain.UserProfile, error)
}

type UserRepository struct {
	db *badger.DB
}

func NewUserRepository(db *badger.DB) IUserRepository {
	return &UserRepository{db: db}
}

// diskProfile is the JSON document stored under "user:{user_id}".
type diskProfile struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DateOfBirth string `json:"dob"`
	Gender      string `json:"gender"`
}

func userKey(id string) []byte {
	return []byte("user:" + id)
}

// CreateProfile persists a new profile document. Profiles are written once,
// at first sign-in completion; an existing key is rejected, never replaced.
func (u UserRepository) CreateProfile(profile domain.UserProfile) error {
	data, err := json.Marshal(fromProfile(profile))
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}

	return u.db.Update(func(txn *badger.Txn) error {
		key := userKey(profile.ID)
		switch _, err := txn.Get(key); err {
		case nil:
			return errors.ErrProfileAlreadyExists
		case badger.ErrKeyNotFound:
			return txn.Set(key, data)
		default:
			return err
		}
	})
}

// GetProfile fetches one profile by its provider-assigned identifier.
func (u UserRepository) GetProfile(id string) (domain.UserProfile, error) {
	var stored diskProfile
	err := u.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(userKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &stored)
		})
	})
	if err == badger.ErrKeyNotFound {
		return domain.UserProfile{}, fmt.Errorf("%w: %s", errors.ErrProfileNotFound, id)
	}
	if err != nil {
		return domain.UserProfile{}, err
	}
	return toProfile(stored), nil
}

// ListProfiles scans every registered profile. One-shot and unpaginated;
// observing new registrants means calling it again.
func (u UserRepository) ListProfiles() ([]domain.UserProfile, error) {
	var profiles []domain.UserProfile
	err := u.db.View(func(txn *badger.Txn) error {
		prefix := []byte("user:")
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var stored diskProfile
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &stored)
			})
			if err != nil {
				return err
			}
			profiles = append(profiles, toProfile(stored))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

func fromProfile(profile domain.UserProfile) diskProfile {
	return diskProfile{
		ID:          profile.ID,
		Name:        profile.Name,
		DateOfBirth: profile.DateOfBirth,
		Gender:      string(profile.Gender),
	}
}

func toProfile(stored diskProfile) domain.UserProfile {
	return domain.UserProfile{
		ID:          stored.ID,
		Name:        stored.Name,
		DateOfBirth: stored.DateOfBirth,
		Gender:      domain.Gender(stored.Gender),
	}
}
