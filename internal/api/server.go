package api

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/eventify/eventify-desk/internal/catalog"
	"github.com/eventify/eventify-desk/internal/domain"
	"github.com/eventify/eventify-desk/internal/eventsapi"
	"github.com/eventify/eventify-desk/internal/rsvp"
	"github.com/eventify/eventify-desk/internal/security"
)

// SessionManager is the session surface the facade renders from.
type SessionManager interface {
	Current() domain.Identity
	Login(ctx context.Context, email, password string) (domain.Identity, error)
	Register(ctx context.Context, reg domain.Registration) (domain.Identity, error)
	Logout()
}

type PreferenceStore interface {
	Avatar() (domain.CatalogOption, bool)
	Banner() (domain.CatalogOption, bool)
	SelectAvatar(who domain.Identity, optionID string) error
	SelectBanner(who domain.Identity, optionID string) error
	ClearAvatar(who domain.Identity) error
	ClearBanner(who domain.Identity) error
}

type RSVPController interface {
	State(eventID int64) rsvp.State
	Hydrate(ctx context.Context, eventID int64) (rsvp.State, error)
	RequestChange(eventID int64) error
	ConfirmChange(eventID int64) error
	CancelChange(eventID int64)
	Submit(ctx context.Context, eventID int64, status domain.RSVPStatus) (rsvp.Result, error)
}

// EventsAPI is the remote passthrough slice the facade exposes.
type EventsAPI interface {
	ListEvents(ctx context.Context, filter domain.EventFilter) ([]domain.EventSummary, error)
	GetEvent(ctx context.Context, id int64) (domain.EventSummary, error)
	CreateEvent(ctx context.Context, in domain.EventMutation, image *eventsapi.Upload) (domain.EventSummary, error)
	UpdateEvent(ctx context.Context, id int64, in domain.EventMutation) (domain.EventSummary, error)
	DeleteEvent(ctx context.Context, id int64) error
	ListRSVPs(ctx context.Context, eventID int64) ([]domain.RSVPRecord, error)
}

type Server struct {
	session SessionManager
	profile PreferenceStore
	rsvp    RSVPController
	events  EventsAPI
	auth    security.BearerAuth
	log     *slog.Logger
	httpSrv *http.Server
}

type Options struct {
	Session SessionManager
	Profile PreferenceStore
	RSVP    RSVPController
	Events  EventsAPI
	Auth    security.BearerAuth
	Logger  *slog.Logger
}

func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		session: opts.Session,
		profile: opts.Profile,
		rsvp:    opts.RSVP,
		events:  opts.Events,
		auth:    opts.Auth,
		log:     logger,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/v1/session", s.handleSession)
	mux.HandleFunc("/v1/session/login", s.handleLogin)
	mux.HandleFunc("/v1/session/register", s.handleRegister)
	mux.HandleFunc("/v1/session/logout", s.handleLogout)
	mux.HandleFunc("/v1/catalog", s.handleCatalog)
	mux.HandleFunc("/v1/profile", s.handleProfile)
	mux.HandleFunc("/v1/profile/avatar", s.handleAvatar)
	mux.HandleFunc("/v1/profile/banner", s.handleBanner)
	mux.HandleFunc("/v1/events", s.handleEvents)
	mux.HandleFunc("/v1/events/get", s.handleGetEvent)
	mux.HandleFunc("/v1/events/create", s.handleCreateEvent)
	mux.HandleFunc("/v1/events/update", s.handleUpdateEvent)
	mux.HandleFunc("/v1/events/delete", s.handleDeleteEvent)
	mux.HandleFunc("/v1/events/rsvp", s.handleRSVPSubmit)
	mux.HandleFunc("/v1/events/rsvp/state", s.handleRSVPState)
	mux.HandleFunc("/v1/events/rsvp/change", s.handleRSVPChange)
	mux.HandleFunc("/v1/events/rsvps", s.handleEventRSVPs)
	s.httpSrv = &http.Server{Handler: s.wrapAuth(mux), ReadHeaderTimeout: 5 * time.Second}
	return s
}

func (s *Server) ServeTCP(ctx context.Context, bind string) error {
	if bind == "" {
		return errors.New("bind required")
	}
	ln, err := net.Listen("tcp", bind)
	if err != nil {
		return err
	}
	go s.shutdownOnContext(ctx)
	return s.httpSrv.Serve(ln)
}

func (s *Server) ServeUnix(ctx context.Context, path string) error {
	if path == "" {
		return errors.New("socket path required")
	}
	_ = os.Remove(path)
	ln, err := net.Listen("unix", path)
	if err != nil {
		return err
	}
	if err := os.Chmod(path, 0o600); err != nil {
		return err
	}
	go s.shutdownOnContext(ctx)
	return s.httpSrv.Serve(ln)
}

func (s *Server) wrapAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/healthz" && !s.auth.Authorize(r) {
			writeErr(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) shutdownOnContext(ctx context.Context) {
	<-ctx.Done()
	timeout, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_ = s.httpSrv.Shutdown(timeout)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type sessionView struct {
	Authenticated bool                  `json:"authenticated"`
	User          *domain.Identity      `json:"user,omitempty"`
	Avatar        *domain.CatalogOption `json:"avatar,omitempty"`
	Banner        *domain.CatalogOption `json:"banner,omitempty"`
}

func (s *Server) sessionView() sessionView {
	who := s.session.Current()
	if who.IsZero() {
		return sessionView{}
	}
	view := sessionView{Authenticated: true, User: &who}
	if avatar, ok := s.profile.Avatar(); ok {
		view.Avatar = &avatar
	}
	if banner, ok := s.profile.Banner(); ok {
		view.Banner = &banner
	}
	return view
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, s.sessionView())
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if _, err := s.session.Login(r.Context(), payload.Email, payload.Password); err != nil {
		writeErr(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.sessionView())
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var payload domain.Registration
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if _, err := s.session.Register(r.Context(), payload); err != nil {
		writeErr(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.sessionView())
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.session.Logout()
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	role := s.session.Current().Role
	writeJSON(w, http.StatusOK, map[string]any{
		"avatars":    catalog.Avatars(role),
		"banners":    catalog.Banners(role),
		"categories": catalog.EventCategories,
	})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	view := s.sessionView()
	writeJSON(w, http.StatusOK, map[string]any{"avatar": view.Avatar, "banner": view.Banner})
}

func (s *Server) handleAvatar(w http.ResponseWriter, r *http.Request) {
	s.handleSelection(w, r, s.profile.SelectAvatar, s.profile.ClearAvatar)
}

func (s *Server) handleBanner(w http.ResponseWriter, r *http.Request) {
	s.handleSelection(w, r, s.profile.SelectBanner, s.profile.ClearBanner)
}

func (s *Server) handleSelection(w http.ResponseWriter, r *http.Request, selectFn func(domain.Identity, string) error, clearFn func(domain.Identity) error) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	who := s.session.Current()
	if who.IsZero() {
		writeErr(w, http.StatusUnauthorized, "authentication required")
		return
	}
	var payload struct {
		OptionID string `json:"option_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	var err error
	if payload.OptionID == "" {
		err = clearFn(who)
	} else {
		err = selectFn(who, payload.OptionID)
	}
	if err != nil {
		writeErr(w, statusFor(err), err.Error())
		return
	}
	view := s.sessionView()
	writeJSON(w, http.StatusOK, map[string]any{"avatar": view.Avatar, "banner": view.Banner})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	q := r.URL.Query()
	createdBy, _ := strconv.ParseInt(q.Get("created_by"), 10, 64)
	filter := domain.EventFilter{
		Search:     q.Get("search"),
		Category:   q.Get("category"),
		Date:       q.Get("date"),
		Location:   q.Get("location"),
		CreatedBy:  createdBy,
		RSVPStatus: domain.RSVPStatus(q.Get("rsvp_status")),
	}
	items, err := s.events.ListEvents(r.Context(), filter)
	if err != nil {
		writeErr(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "invalid event id")
		return
	}
	item, err := s.events.GetEvent(r.Context(), id)
	if err != nil {
		writeErr(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, item)
}

type mutationRequest struct {
	EventID     int64                `json:"event_id"`
	Mutation    domain.EventMutation `json:"mutation"`
	ImageName   string               `json:"image_name,omitempty"`
	ImageBase64 string               `json:"image_base64,omitempty"`
}

func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	s.handleMutation(w, r, func(ctx context.Context, payload mutationRequest) (any, error) {
		var upload *eventsapi.Upload
		if payload.ImageBase64 != "" {
			content, err := base64.StdEncoding.DecodeString(payload.ImageBase64)
			if err != nil {
				return nil, errors.New("invalid image encoding")
			}
			upload = &eventsapi.Upload{FileName: payload.ImageName, Content: content}
		}
		return s.events.CreateEvent(ctx, payload.Mutation, upload)
	})
}

func (s *Server) handleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	s.handleMutation(w, r, func(ctx context.Context, payload mutationRequest) (any, error) {
		return s.events.UpdateEvent(ctx, payload.EventID, payload.Mutation)
	})
}

func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	s.handleMutation(w, r, func(ctx context.Context, payload mutationRequest) (any, error) {
		return map[string]int64{"event_id": payload.EventID}, s.events.DeleteEvent(ctx, payload.EventID)
	})
}

func (s *Server) handleMutation(w http.ResponseWriter, r *http.Request, run func(context.Context, mutationRequest) (any, error)) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var payload mutationRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	out, err := run(r.Context(), payload)
	if err != nil {
		writeErr(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleRSVPSubmit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var payload struct {
		EventID int64             `json:"event_id"`
		Status  domain.RSVPStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	result, err := s.rsvp.Submit(r.Context(), payload.EventID, payload.Status)
	if err != nil {
		writeErr(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleRSVPState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	id, err := strconv.ParseInt(r.URL.Query().Get("event_id"), 10, 64)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "invalid event id")
		return
	}
	if r.URL.Query().Get("hydrate") == "true" {
		state, err := s.rsvp.Hydrate(r.Context(), id)
		if err != nil {
			writeErr(w, statusFor(err), err.Error())
			return
		}
		writeJSON(w, http.StatusOK, state)
		return
	}
	writeJSON(w, http.StatusOK, s.rsvp.State(id))
}

func (s *Server) handleRSVPChange(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var payload struct {
		EventID int64  `json:"event_id"`
		Action  string `json:"action"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	var err error
	switch payload.Action {
	case "request":
		err = s.rsvp.RequestChange(payload.EventID)
	case "confirm":
		err = s.rsvp.ConfirmChange(payload.EventID)
	case "cancel":
		s.rsvp.CancelChange(payload.EventID)
	default:
		writeErr(w, http.StatusBadRequest, "action must be request, confirm or cancel")
		return
	}
	if err != nil {
		writeErr(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.rsvp.State(payload.EventID))
}

func (s *Server) handleEventRSVPs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	id, err := strconv.ParseInt(r.URL.Query().Get("event_id"), 10, 64)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "invalid event id")
		return
	}
	records, err := s.events.ListRSVPs(r.Context(), id)
	if err != nil {
		writeErr(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// statusFor maps component errors onto facade status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrCredentialsRejected), errors.Is(err, rsvp.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrRegistrationRejected), errors.Is(err, domain.ErrInvalidSelection):
		return http.StatusBadRequest
	case errors.Is(err, rsvp.ErrAdminManaged):
		return http.StatusForbidden
	case errors.Is(err, rsvp.ErrLocked), errors.Is(err, rsvp.ErrInFlight), errors.Is(err, rsvp.ErrUnconfirmed):
		return http.StatusConflict
	default:
		return http.StatusBadGateway
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
