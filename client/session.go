package client

import "context"

// FetchState tracks the lifecycle of the listing fetch. A single enum drives
// both the fetch trigger and what the UI renders, so a fetch can never be
// retriggered by unrelated state changes.
type FetchState int

const (
	FetchIdle FetchState = iota
	FetchLoading
	FetchLoaded
	FetchError
)

// String returns the state name for logging.
func (s FetchState) String() string {
	switch s {
	case FetchIdle:
		return "idle"
	case FetchLoading:
		return "loading"
	case FetchLoaded:
		return "loaded"
	case FetchError:
		return "error"
	default:
		return "unknown"
	}
}

// Session is the admin panel's state machine: unauthenticated → authenticated,
// with a listing cache, a retained draft for failed submissions, and a
// pending-delete confirmation step. An authorization failure on any call
// forces the session back to unauthenticated.
//
// Session is not safe for concurrent use; it models a single-operator UI.
type Session struct {
	client *Client
	tokens *TokenStore

	user    *User
	houses  []House
	state   FetchState
	lastErr error

	draft         *HouseUpload
	pendingDelete uint
}

// NewSession creates a Session using the given store for bearer tokens. The
// store must be the same TokenSource the client was built with.
func NewSession(c *Client, tokens *TokenStore) *Session {
	return &Session{client: c, tokens: tokens}
}

// LoggedIn reports whether the session holds valid credentials.
func (s *Session) LoggedIn() bool {
	return s.user != nil && s.tokens.Token() != ""
}

// User returns the authenticated account, or nil when logged out.
func (s *Session) User() *User { return s.user }

// Houses returns the cached listing set.
func (s *Session) Houses() []House { return s.houses }

// State returns the listing fetch state.
func (s *Session) State() FetchState { return s.state }

// LastError returns the most recent failure, or nil.
func (s *Session) LastError() error { return s.lastErr }

// Draft returns the retained form submission after a failed create/update,
// or nil when there is nothing to retain.
func (s *Session) Draft() *HouseUpload { return s.draft }

// Login authenticates and transitions to the authenticated state. On failure
// the session stays unauthenticated and the error is kept for display.
func (s *Session) Login(ctx context.Context, email, password string) error {
	result, err := s.client.Login(ctx, email, password)
	if err != nil {
		s.lastErr = err
		return err
	}
	s.tokens.Set(result.Token)
	s.user = &result.User
	s.state = FetchIdle
	s.lastErr = nil
	return nil
}

// Logout drops the credentials and resets all session state.
func (s *Session) Logout() {
	s.tokens.Clear()
	s.user = nil
	s.houses = nil
	s.state = FetchIdle
	s.draft = nil
	s.pendingDelete = 0
	s.lastErr = nil
}

// LoadHouses fetches the admin listing set once. Repeated calls while a fetch
// is in flight or after a successful load are no-ops; use Refresh to force a
// refetch.
func (s *Session) LoadHouses(ctx context.Context) error {
	if s.state == FetchLoading || s.state == FetchLoaded {
		return nil
	}
	return s.Refresh(ctx)
}

// Refresh unconditionally refetches the admin listing set.
func (s *Session) Refresh(ctx context.Context) error {
	s.state = FetchLoading
	houses, err := s.client.ListAllHouses(ctx)
	if err != nil {
		if s.handleAuthFailure(err) {
			return err
		}
		s.state = FetchError
		s.lastErr = err
		return err
	}
	s.houses = houses
	s.state = FetchLoaded
	s.lastErr = nil
	return nil
}

// SubmitCreate creates a listing from the form. On success the draft is
// cleared and the listing refreshed; on failure the submission is retained so
// the operator can fix and retry.
func (s *Session) SubmitCreate(ctx context.Context, up *HouseUpload) error {
	if _, err := s.client.CreateHouse(ctx, up); err != nil {
		if s.handleAuthFailure(err) {
			return err
		}
		s.draft = up
		s.lastErr = err
		return err
	}
	s.draft = nil
	s.lastErr = nil
	return s.Refresh(ctx)
}

// SubmitUpdate updates a listing from the form, with the same retention
// semantics as SubmitCreate.
func (s *Session) SubmitUpdate(ctx context.Context, id uint, up *HouseUpload) error {
	if _, err := s.client.UpdateHouse(ctx, id, up); err != nil {
		if s.handleAuthFailure(err) {
			return err
		}
		s.draft = up
		s.lastErr = err
		return err
	}
	s.draft = nil
	s.lastErr = nil
	return s.Refresh(ctx)
}

// RequestDelete marks a listing for deletion pending confirmation.
func (s *Session) RequestDelete(id uint) {
	s.pendingDelete = id
}

// PendingDelete returns the listing id awaiting delete confirmation, or 0.
func (s *Session) PendingDelete() uint { return s.pendingDelete }

// CancelDelete clears the pending delete without touching the listing.
func (s *Session) CancelDelete() {
	s.pendingDelete = 0
}

// ConfirmDelete soft-deletes the pending listing and refreshes on success.
func (s *Session) ConfirmDelete(ctx context.Context) error {
	id := s.pendingDelete
	if id == 0 {
		return nil
	}
	s.pendingDelete = 0

	if err := s.client.DeleteHouse(ctx, id); err != nil {
		if s.handleAuthFailure(err) {
			return err
		}
		s.lastErr = err
		return err
	}
	return s.Refresh(ctx)
}

// RemoveImage deletes one image from a listing and refreshes on success.
func (s *Session) RemoveImage(ctx context.Context, houseID, imageID uint) error {
	if err := s.client.DeleteImage(ctx, houseID, imageID); err != nil {
		if s.handleAuthFailure(err) {
			return err
		}
		s.lastErr = err
		return err
	}
	return s.Refresh(ctx)
}

// handleAuthFailure forces a logout when err is an authorization failure,
// keeping the error visible so the login screen can explain the session end.
func (s *Session) handleAuthFailure(err error) bool {
	if !IsAuthFailure(err) {
		return false
	}
	s.Logout()
	s.lastErr = err
	return true
}
