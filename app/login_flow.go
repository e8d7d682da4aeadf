// Package app composes the services into the screens' behavior: the login
// flow and the conversation view-model. It holds no storage or transport
// logic of its own.
package app

import (
	"context"
	stderrors "errors"
	"log/slog"

	"pairchat/contract"
	"pairchat/domain"
	"pairchat/errors"
	"pairchat/services"
)

// LoginFlow drives phone verification and the post-authentication routing
// decision: an existing profile goes straight to the directory, a missing
// one goes through profile creation first.
type LoginFlow struct {
	log       *slog.Logger
	session   services.ISessionService
	directory services.IDirectoryService
	navigator contract.INavigator

	handle contract.IVerificationHandle
}

func NewLoginFlow(log *slog.Logger, session services.ISessionService,
	directory services.IDirectoryService, navigator contract.INavigator) *LoginFlow {
	return &LoginFlow{
		log:       log,
		session:   session,
		directory: directory,
		navigator: navigator,
	}
}

// SubmitPhoneNumber validates the typed number and starts verification.
func (f *LoginFlow) SubmitPhoneNumber(ctx context.Context, phoneNumber string) error {
	handle, err := f.session.RequestVerification(ctx, phoneNumber)
	if err != nil {
		return err
	}
	f.handle = handle
	return nil
}

// SubmitCode confirms the verification code and routes the user: Directory
// when a profile already exists, Detail when one still has to be created.
// A failed confirmation keeps the handle so the user can retry.
func (f *LoginFlow) SubmitCode(ctx context.Context, code string) (string, error) {
	if f.handle == nil {
		return "", errors.ErrNoVerification
	}

	identity, err := f.session.ConfirmVerification(ctx, f.handle, code)
	if err != nil {
		return "", err
	}
	f.handle = nil

	_, err = f.directory.GetProfile(identity)
	switch {
	case err == nil:
		f.navigator.Navigate(contract.RouteDirectory, nil)
	case stderrors.Is(err, errors.ErrProfileNotFound):
		f.navigator.Navigate(contract.RouteDetail, map[string]string{"uid": identity})
	default:
		return identity, err
	}
	return identity, nil
}

// CompleteProfile persists the registration form of a first-time user and
// routes to the directory.
func (f *LoginFlow) CompleteProfile(uid, name, dateOfBirth string, gender domain.Gender) error {
	profile := domain.UserProfile{
		ID:          uid,
		Name:        name,
		DateOfBirth: dateOfBirth,
		Gender:      gender,
	}
	if err := f.directory.CreateProfile(profile); err != nil {
		return err
	}
	f.navigator.Navigate(contract.RouteDirectory, nil)
	return nil
}

// Logout drops the session and returns to the login screen.
func (f *LoginFlow) Logout() {
	f.session.SignOut()
	f.navigator.Navigate(contract.RouteLogin, nil)
}
