package app

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"pairchat/contract"
	"pairchat/domain"
	"pairchat/errors"
	"pairchat/mocks"
	"pairchat/services"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type loginFixture struct {
	flow      *LoginFlow
	session   *services.SessionService
	provider  *mocks.MockIVerificationProvider
	handle    *mocks.MockIVerificationHandle
	directory *mocks.MockIDirectoryService
	navigator *mocks.MockINavigator
}

func newLoginFixture(t *testing.T) *loginFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	log := slog.Default()
	provider := mocks.NewMockIVerificationProvider(ctrl)
	handle := mocks.NewMockIVerificationHandle(ctrl)
	directory := mocks.NewMockIDirectoryService(ctrl)
	navigator := mocks.NewMockINavigator(ctrl)
	session := services.NewSessionService(log, provider, "+91", time.Hour)

	return &loginFixture{
		flow:      NewLoginFlow(log, session, directory, navigator),
		session:   session,
		provider:  provider,
		handle:    handle,
		directory: directory,
		navigator: navigator,
	}
}

func Test_LoginFlow_SubmitCode(t *testing.T) {
	t.Run("should route a returning user to the directory", func(t *testing.T) {
		req := require.New(t)
		f := newLoginFixture(t)

		f.provider.EXPECT().BeginVerification(gomock.Any(), "+919876543210").Return(f.handle, nil)
		f.handle.EXPECT().Confirm(gomock.Any(), "123456").Return("u1", nil)
		f.directory.EXPECT().GetProfile("u1").Return(domain.UserProfile{ID: "u1", Name: "Alice"}, nil)
		f.navigator.EXPECT().Navigate(contract.RouteDirectory, gomock.Nil())

		req.NoError(f.flow.SubmitPhoneNumber(context.Background(), "9876543210"))
		identity, err := f.flow.SubmitCode(context.Background(), "123456")
		req.NoError(err)
		req.Equal("u1", identity)
	})

	t.Run("should route a first-time user to profile creation", func(t *testing.T) {
		req := require.New(t)
		f := newLoginFixture(t)

		f.provider.EXPECT().BeginVerification(gomock.Any(), gomock.Any()).Return(f.handle, nil)
		f.handle.EXPECT().Confirm(gomock.Any(), "123456").Return("u1", nil)
		f.directory.EXPECT().GetProfile("u1").Return(domain.UserProfile{}, errors.ErrProfileNotFound)
		f.navigator.EXPECT().Navigate(contract.RouteDetail, map[string]string{"uid": "u1"})

		req.NoError(f.flow.SubmitPhoneNumber(context.Background(), "9876543210"))
		_, err := f.flow.SubmitCode(context.Background(), "123456")
		req.NoError(err)
	})

	t.Run("should fail when no verification is in flight", func(t *testing.T) {
		req := require.New(t)
		f := newLoginFixture(t)

		_, err := f.flow.SubmitCode(context.Background(), "123456")
		req.ErrorIs(err, errors.ErrNoVerification)
	})

	t.Run("should keep the handle after a rejected code so the user can retry", func(t *testing.T) {
		req := require.New(t)
		f := newLoginFixture(t)

		f.provider.EXPECT().BeginVerification(gomock.Any(), gomock.Any()).Return(f.handle, nil)
		gomock.InOrder(
			f.handle.EXPECT().Confirm(gomock.Any(), "000000").Return("", errors.ErrCodeMismatch),
			f.handle.EXPECT().Confirm(gomock.Any(), "123456").Return("u1", nil),
		)
		f.directory.EXPECT().GetProfile("u1").Return(domain.UserProfile{ID: "u1"}, nil)
		f.navigator.EXPECT().Navigate(contract.RouteDirectory, gomock.Nil())

		req.NoError(f.flow.SubmitPhoneNumber(context.Background(), "9876543210"))

		_, err := f.flow.SubmitCode(context.Background(), "000000")
		req.ErrorIs(err, errors.ErrCodeMismatch)

		identity, err := f.flow.SubmitCode(context.Background(), "123456")
		req.NoError(err)
		req.Equal("u1", identity)
	})
}

func Test_LoginFlow_CompleteProfile(t *testing.T) {
	t.Run("should persist the form and route to the directory", func(t *testing.T) {
		req := require.New(t)
		f := newLoginFixture(t)

		f.directory.EXPECT().
			CreateProfile(domain.UserProfile{ID: "u1", Name: "Alice", DateOfBirth: "2000-01-01", Gender: domain.Female}).
			Return(nil)
		f.navigator.EXPECT().Navigate(contract.RouteDirectory, gomock.Nil())

		req.NoError(f.flow.CompleteProfile("u1", "Alice", "2000-01-01", domain.Female))
	})

	t.Run("should stay on the form when the profile is rejected", func(t *testing.T) {
		req := require.New(t)
		f := newLoginFixture(t)

		f.directory.EXPECT().CreateProfile(gomock.Any()).Return(errors.ErrInvalidProfile)
		f.navigator.EXPECT().Navigate(gomock.Any(), gomock.Any()).Times(0)

		err := f.flow.CompleteProfile("u1", "", "2000-01-01", domain.Female)
		req.ErrorIs(err, errors.ErrInvalidProfile)
	})
}

func Test_LoginFlow_Logout(t *testing.T) {
	t.Run("should drop the session and return to the login screen", func(t *testing.T) {
		req := require.New(t)
		f := newLoginFixture(t)

		f.provider.EXPECT().BeginVerification(gomock.Any(), gomock.Any()).Return(f.handle, nil)
		f.handle.EXPECT().Confirm(gomock.Any(), gomock.Any()).Return("u1", nil)
		f.directory.EXPECT().GetProfile("u1").Return(domain.UserProfile{ID: "u1"}, nil)
		f.navigator.EXPECT().Navigate(contract.RouteDirectory, gomock.Nil())
		f.navigator.EXPECT().Navigate(contract.RouteLogin, gomock.Nil())

		req.NoError(f.flow.SubmitPhoneNumber(context.Background(), "9876543210"))
		_, err := f.flow.SubmitCode(context.Background(), "123456")
		req.NoError(err)

		f.flow.Logout()
		req.Equal(services.StateUnauthenticated, f.session.State())
	})
}
