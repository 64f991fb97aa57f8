package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// adminAPIStub is a minimal in-memory stand-in for the listing API.
type adminAPIStub struct {
	houses      []House
	listCalls   int
	deleteCalls int
	failCreate  int // HTTP status to return from create; 0 means success
	failList    int
}

func (a *adminAPIStub) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		json.NewDecoder(r.Body).Decode(&req)
		if req["password"] != "slaptazodis" {
			jsonResponse(w, http.StatusUnauthorized, map[string]any{
				"success": false, "message": "invalid email or password",
			})
			return
		}
		jsonResponse(w, http.StatusOK, map[string]any{
			"success": true,
			"data": LoginResult{
				Token: "session-token",
				User:  User{ID: 1, Email: req["email"], Role: "admin"},
			},
		})
	})
	mux.HandleFunc("GET /api/houses/all", func(w http.ResponseWriter, r *http.Request) {
		a.listCalls++
		if a.failList != 0 {
			jsonResponse(w, a.failList, map[string]any{"success": false, "message": "boom"})
			return
		}
		if r.Header.Get("Authorization") != "Bearer session-token" {
			jsonResponse(w, http.StatusUnauthorized, map[string]any{
				"success": false, "message": "unauthorized",
			})
			return
		}
		jsonResponse(w, http.StatusOK, map[string]any{"success": true, "data": a.houses})
	})
	mux.HandleFunc("POST /api/houses", func(w http.ResponseWriter, r *http.Request) {
		if a.failCreate != 0 {
			jsonResponse(w, a.failCreate, map[string]any{"success": false, "message": "rejected"})
			return
		}
		jsonResponse(w, http.StatusCreated, map[string]any{"success": true, "data": House{ID: 99}})
	})
	mux.HandleFunc("DELETE /api/houses/{id}", func(w http.ResponseWriter, r *http.Request) {
		a.deleteCalls++
		jsonResponse(w, http.StatusOK, map[string]any{"success": true, "message": "House deleted successfully"})
	})
	return mux
}

func newTestSession(t *testing.T, stub *adminAPIStub) *Session {
	t.Helper()
	srv := httptest.NewServer(stub.handler())
	t.Cleanup(srv.Close)
	store := &TokenStore{}
	return NewSession(New(srv.URL, store), store)
}

func login(t *testing.T, s *Session) {
	t.Helper()
	if err := s.Login(context.Background(), "admin@example.com", "slaptazodis"); err != nil {
		t.Fatalf("Login: %v", err)
	}
}

func TestSessionLogin(t *testing.T) {
	s := newTestSession(t, &adminAPIStub{})

	if s.LoggedIn() {
		t.Error("new session must be unauthenticated")
	}

	err := s.Login(context.Background(), "admin@example.com", "blogas")
	if err == nil {
		t.Fatal("wrong password must fail")
	}
	if s.LoggedIn() {
		t.Error("failed login must leave the session unauthenticated")
	}
	if s.LastError() == nil {
		t.Error("failed login must keep the error for display")
	}

	login(t, s)
	if !s.LoggedIn() {
		t.Error("session must be authenticated after login")
	}
	if s.User() == nil || s.User().Email != "admin@example.com" {
		t.Errorf("User = %+v", s.User())
	}
	if s.LastError() != nil {
		t.Error("successful login must clear the error")
	}
}

func TestSessionLoadHouses_SingleShot(t *testing.T) {
	stub := &adminAPIStub{houses: []House{{ID: 1, Title: "Namas"}}}
	s := newTestSession(t, stub)
	login(t, s)

	if err := s.LoadHouses(context.Background()); err != nil {
		t.Fatalf("LoadHouses: %v", err)
	}
	if s.State() != FetchLoaded {
		t.Errorf("State = %v, want loaded", s.State())
	}
	if len(s.Houses()) != 1 {
		t.Errorf("len(Houses) = %d", len(s.Houses()))
	}

	// Further loads are no-ops until an explicit refresh.
	s.LoadHouses(context.Background())
	s.LoadHouses(context.Background())
	if stub.listCalls != 1 {
		t.Errorf("listCalls = %d, want 1 (single-shot fetch)", stub.listCalls)
	}

	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if stub.listCalls != 2 {
		t.Errorf("listCalls = %d, want 2 after explicit refresh", stub.listCalls)
	}
}

func TestSessionExpiredTokenForcesLogout(t *testing.T) {
	stub := &adminAPIStub{failList: http.StatusUnauthorized}
	s := newTestSession(t, stub)
	login(t, s)

	err := s.Refresh(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if s.LoggedIn() {
		t.Error("authorization failure must force logout")
	}
	if s.LastError() == nil {
		t.Error("forced logout must keep the cause visible")
	}
}

func TestSessionSubmitCreate_RetainsDraftOnFailure(t *testing.T) {
	stub := &adminAPIStub{failCreate: http.StatusBadRequest}
	s := newTestSession(t, stub)
	login(t, s)

	title := "Namas"
	up := &HouseUpload{Title: &title}
	if err := s.SubmitCreate(context.Background(), up); err == nil {
		t.Fatal("expected error")
	}
	if s.Draft() != up {
		t.Error("failed submission must be retained for retry")
	}
	if s.LoggedIn() == false {
		t.Error("validation failure must not log the operator out")
	}

	// Retry succeeds: draft cleared, listing refreshed.
	stub.failCreate = 0
	if err := s.SubmitCreate(context.Background(), up); err != nil {
		t.Fatalf("SubmitCreate: %v", err)
	}
	if s.Draft() != nil {
		t.Error("successful submission must clear the draft")
	}
	if stub.listCalls == 0 {
		t.Error("successful submission must refresh the listing")
	}
}

func TestSessionDeleteConfirmation(t *testing.T) {
	stub := &adminAPIStub{}
	s := newTestSession(t, stub)
	login(t, s)

	// Confirm with nothing pending is a no-op.
	if err := s.ConfirmDelete(context.Background()); err != nil {
		t.Fatalf("ConfirmDelete: %v", err)
	}
	if stub.deleteCalls != 0 {
		t.Error("no delete may run without a pending request")
	}

	s.RequestDelete(4)
	if s.PendingDelete() != 4 {
		t.Errorf("PendingDelete = %d", s.PendingDelete())
	}
	s.CancelDelete()
	if s.PendingDelete() != 0 {
		t.Error("CancelDelete must clear the pending id")
	}
	if stub.deleteCalls != 0 {
		t.Error("cancelled delete must not reach the API")
	}

	s.RequestDelete(4)
	if err := s.ConfirmDelete(context.Background()); err != nil {
		t.Fatalf("ConfirmDelete: %v", err)
	}
	if stub.deleteCalls != 1 {
		t.Errorf("deleteCalls = %d, want 1", stub.deleteCalls)
	}
	if s.PendingDelete() != 0 {
		t.Error("confirmation must clear the pending id")
	}
}

func TestSessionLogoutResetsState(t *testing.T) {
	stub := &adminAPIStub{houses: []House{{ID: 1}}}
	s := newTestSession(t, stub)
	login(t, s)
	s.LoadHouses(context.Background())
	s.RequestDelete(1)

	s.Logout()

	if s.LoggedIn() || s.User() != nil {
		t.Error("logout must drop credentials")
	}
	if s.Houses() != nil || s.State() != FetchIdle {
		t.Error("logout must reset the listing cache")
	}
	if s.PendingDelete() != 0 || s.Draft() != nil {
		t.Error("logout must clear pending interactions")
	}
}
