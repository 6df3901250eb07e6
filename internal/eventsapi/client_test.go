package eventsapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/eventify/eventify-desk/internal/domain"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(ClientOptions{BaseURL: srv.URL, Timeout: 2 * time.Second})
}

func TestLoginSendsFormEncodedUsername(t *testing.T) {
	var gotUsername, gotPassword, gotRequestID string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" || r.Method != http.MethodPost {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		gotUsername = r.PostFormValue("username")
		gotPassword = r.PostFormValue("password")
		gotRequestID = r.Header.Get("X-Request-ID")
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(LoginResult{
			AccessToken: "tok",
			User:        domain.Identity{ID: 7, Email: "u@example.test", Role: domain.RoleAttendee},
		})
	}))

	out, err := client.Login(context.Background(), "u@example.test", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if gotUsername != "u@example.test" || gotPassword != "pw" {
		t.Fatalf("unexpected form values: %q %q", gotUsername, gotPassword)
	}
	if gotRequestID == "" {
		t.Fatal("expected X-Request-ID header")
	}
	if out.AccessToken != "tok" || out.User.ID != 7 {
		t.Fatalf("unexpected result: %+v", out)
	}
	if client.Status() != StatusConnected {
		t.Fatalf("status = %s, want connected", client.Status())
	}
}

func TestLoginRejectionCarriesServerReason(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Incorrect email or password"})
	}))

	_, err := client.Login(context.Background(), "u@example.test", "wrong")
	if !errors.Is(err, domain.ErrCredentialsRejected) {
		t.Fatalf("expected ErrCredentialsRejected, got %v", err)
	}
	var rej domain.RejectedError
	if !errors.As(err, &rej) || rej.Reason != "Incorrect email or password" {
		t.Fatalf("expected server reason, got %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var reg domain.Registration
		if err := json.NewDecoder(r.Body).Decode(&reg); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if reg.Role != domain.RoleAttendee {
			t.Fatalf("expected default attendee role, got %q", reg.Role)
		}
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Email already registered"})
	}))

	_, err := client.Register(context.Background(), domain.Registration{
		Email: "u@example.test", FullName: "U", Password: "pw",
	})
	if !errors.Is(err, domain.ErrRegistrationRejected) {
		t.Fatalf("expected ErrRegistrationRejected, got %v", err)
	}
}

func TestMeUnauthorizedMapsToSessionExpired(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	client.SetToken("stale")

	_, err := client.Me(context.Background())
	if !errors.Is(err, domain.ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
}

func TestMeSendsBearerToken(t *testing.T) {
	var gotAuth string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(domain.Identity{ID: 3, Role: domain.RoleOrganizer})
	}))
	client.SetToken("tok-123")

	who, err := client.Me(context.Background())
	if err != nil {
		t.Fatalf("me: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Fatalf("unexpected auth header: %q", gotAuth)
	}
	if who.ID != 3 {
		t.Fatalf("unexpected identity: %+v", who)
	}
}

func TestListEventsPassesFilters(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("category") != "tech" || q.Get("search") != "go" || q.Get("created_by") != "9" || q.Get("rsvp_status") != "going" {
			t.Fatalf("unexpected query: %v", q)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]domain.EventSummary{{ID: 1, Title: "GopherCon"}})
	}))

	events, err := client.ListEvents(context.Background(), domain.EventFilter{
		Search: "go", Category: "tech", CreatedBy: 9, RSVPStatus: domain.RSVPGoing,
	})
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(events) != 1 || events[0].Title != "GopherCon" {
		t.Fatalf("unexpected events: %+v", events)
	}
}

func TestSubmitRSVP(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/events/42/rsvp" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body["status"] != "maybe" {
			t.Fatalf("unexpected status %q", body["status"])
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(domain.RSVPRecord{ID: 1, EventID: 42, UserID: 7, Status: domain.RSVPMaybe})
	}))

	rec, err := client.SubmitRSVP(context.Background(), 42, domain.RSVPMaybe)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if rec.Status != domain.RSVPMaybe || rec.EventID != 42 {
		t.Fatalf("unexpected record: %+v", rec)
	}
}

func TestSubmitRSVPServerErrorWrapsSentinel(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Event not found"})
	}))

	_, err := client.SubmitRSVP(context.Background(), 42, domain.RSVPGoing)
	if !errors.Is(err, domain.ErrRSVPSubmitFailed) {
		t.Fatalf("expected ErrRSVPSubmitFailed, got %v", err)
	}
}

func TestSubmitRSVPRejectsInvalidStatus(t *testing.T) {
	client := NewClient(ClientOptions{BaseURL: "http://127.0.0.1:0"})
	if _, err := client.SubmitRSVP(context.Background(), 1, "perhaps"); !errors.Is(err, domain.ErrRSVPSubmitFailed) {
		t.Fatalf("expected ErrRSVPSubmitFailed, got %v", err)
	}
}

func TestNetworkFailureMarksDisconnected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client := NewClient(ClientOptions{BaseURL: srv.URL, Timeout: time.Second})
	srv.Close()

	if _, err := client.ListEvents(context.Background(), domain.EventFilter{}); err == nil {
		t.Fatal("expected network error")
	}
	if client.Status() != StatusDisconnected {
		t.Fatalf("status = %s, want disconnected", client.Status())
	}
}
