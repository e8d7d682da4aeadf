//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"

	"pairchat/domain"
	"pairchat/domain/event"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

type WorkerName string

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// SnapshotSink receives the current full state of a watched conversation
// on every committed change. Implementations must tolerate coalescing.
type SnapshotSink interface {
	Consume(ctx context.Context, snapshot event.ChatSnapshot) error
}

// IRegistry tracks which sinks watch which conversation.
type IRegistry interface {
	GetSinksForConversation(id domain.ConversationID) []SnapshotSink
	Subscribe(watcherID string, id domain.ConversationID, sink SnapshotSink)
	Unsubscribe(watcherID string, id domain.ConversationID)
}

// IVerificationProvider stands in for the managed phone-auth backend.
// It accepts an E.164 phone number and yields an opaque handle the caller
// later confirms with the out-of-band code.
type IVerificationProvider interface {
	BeginVerification(ctx context.Context, e164Number string) (IVerificationHandle, error)
}

// IVerificationHandle resolves a submitted code into an identity.
// A failed confirmation leaves the handle usable for a retry.
type IVerificationHandle interface {
	Confirm(ctx context.Context, code string) (identity string, err error)
}

// Route is a named navigation target.
type Route string

const (
	RouteLogin     Route = "Login"
	RouteDetail    Route = "Detail"
	RouteDirectory Route = "Directory"
	RouteChat      Route = "Chat"
)

// INavigator is the navigation host capability the flows call into.
// Parameter payloads travel as plain string pairs (peer id, display name).
type INavigator interface {
	Navigate(route Route, params map[string]string)
}
