// Package rsvp manages one identity's response to one event: the
// NoResponse -> Responded -> Locked state machine, the single-edit rule
// backed by a durable marker, and optimistic updates reconciled against
// the remote API.
package rsvp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/eventify/eventify-desk/internal/domain"
	"github.com/eventify/eventify-desk/internal/storage"
)

const nsEditUsed = "rsvp_edit"

var (
	ErrUnauthenticated = errors.New("rsvp: authentication required")
	ErrAdminManaged    = errors.New("rsvp: admins manage attendance from the admin panel")
	ErrInFlight        = errors.New("rsvp: a submission is already in progress for this event")
	ErrLocked          = errors.New("rsvp: the one allowed change was already used")
	ErrUnconfirmed     = errors.New("rsvp: changing a response requires confirmation")
)

type Kind string

const (
	NoResponse Kind = "no_response"
	Responded  Kind = "responded"
	Locked     Kind = "locked"
)

// State is a snapshot of one (identity, event) pair.
type State struct {
	Kind          Kind              `json:"kind"`
	Status        domain.RSVPStatus `json:"status,omitempty"`
	PromptOpen    bool              `json:"prompt_open,omitempty"`
	EditAvailable bool              `json:"edit_available,omitempty"`
	InFlight      bool              `json:"in_flight,omitempty"`
}

// API is the slice of the remote client the controller needs.
type API interface {
	SubmitRSVP(ctx context.Context, eventID int64, status domain.RSVPStatus) (domain.RSVPRecord, error)
	GetEvent(ctx context.Context, id int64) (domain.EventSummary, error)
	ListRSVPs(ctx context.Context, eventID int64) ([]domain.RSVPRecord, error)
}

type pair struct {
	kind          Kind
	status        domain.RSVPStatus
	promptOpen    bool
	editAvailable bool
	inFlight      bool
}

type Controller struct {
	api API
	kv  storage.KV
	log *slog.Logger

	mu    sync.Mutex
	who   domain.Identity
	gen   uint64
	pairs map[int64]*pair
}

func NewController(api API, kv storage.KV, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{api: api, kv: kv, log: logger, pairs: map[int64]*pair{}}
}

// Resolve rebinds the controller to a new identity. All in-memory pair
// state is discarded, and responses of calls still in flight for the old
// identity will be ignored when they resolve.
func (c *Controller) Resolve(who domain.Identity) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.who = who
	c.gen++
	c.pairs = map[int64]*pair{}
}

// State reports the current snapshot for an event. An event never seen in
// this run starts at NoResponse, or Locked when a durable edit-used marker
// exists for the pair.
func (c *Controller) State(eventID int64) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	p := c.pair(eventID)
	return State{Kind: p.kind, Status: p.status, PromptOpen: p.promptOpen, EditAvailable: p.editAvailable, InFlight: p.inFlight}
}

// Hydrate recovers the pair's status from the server's RSVP list, for
// views that outlive the run the response was submitted in. The event list
// carries no per-identity status, so this is the only recovery path.
func (c *Controller) Hydrate(ctx context.Context, eventID int64) (State, error) {
	c.mu.Lock()
	who := c.who
	gen := c.gen
	c.mu.Unlock()
	if who.IsZero() {
		return State{Kind: NoResponse}, ErrUnauthenticated
	}
	records, err := c.api.ListRSVPs(ctx, eventID)
	if err != nil {
		return c.State(eventID), err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		// Identity changed while the fetch was in flight; drop it.
		return State{Kind: NoResponse}, nil
	}
	p := c.pair(eventID)
	for _, rec := range records {
		if rec.UserID == who.ID {
			p.status = rec.Status
			if p.kind == NoResponse {
				p.kind = Responded
			}
			if c.editUsed(who.ID, eventID) {
				p.kind = Locked
			}
			break
		}
	}
	return State{Kind: p.kind, Status: p.status, PromptOpen: p.promptOpen, EditAvailable: p.editAvailable, InFlight: p.inFlight}, nil
}

// RequestChange opens the "this is your only edit" confirmation prompt.
// Pure UI state: nothing is persisted and no network call is made.
func (c *Controller) RequestChange(eventID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	p := c.pair(eventID)
	switch p.kind {
	case Responded:
		if p.editAvailable {
			return nil // already confirmed
		}
		p.promptOpen = true
		return nil
	case Locked:
		return ErrLocked
	default:
		return fmt.Errorf("rsvp: nothing to change for event %d", eventID)
	}
}

// ConfirmChange consumes the prompt and unlocks the single edit.
func (c *Controller) ConfirmChange(eventID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	p := c.pair(eventID)
	if !p.promptOpen {
		return ErrUnconfirmed
	}
	p.promptOpen = false
	p.editAvailable = true
	return nil
}

// CancelChange dismisses the prompt and leaves the response unchanged.
func (c *Controller) CancelChange(eventID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p := c.pair(eventID)
	p.promptOpen = false
}

// Result is the outcome of a successful submit: the new pair state plus
// the re-fetched event so attendee counts track server truth. Event is nil
// when the refresh failed; the submit itself still succeeded.
type Result struct {
	State State
	Event *domain.EventSummary
}

// Submit writes a response. From NoResponse it creates the first response
// optimistically and rolls back on failure. From a confirmed Responded
// state it consumes the one allowed edit: the durable marker is written
// before the network call and survives its failure.
func (c *Controller) Submit(ctx context.Context, eventID int64, status domain.RSVPStatus) (Result, error) {
	if !status.Valid() {
		return Result{}, fmt.Errorf("rsvp: invalid status %q", status)
	}

	c.mu.Lock()
	who := c.who
	gen := c.gen
	if who.IsZero() {
		c.mu.Unlock()
		return Result{}, ErrUnauthenticated
	}
	if who.Role == domain.RoleAdmin {
		c.mu.Unlock()
		return Result{}, ErrAdminManaged
	}
	p := c.pair(eventID)
	if p.inFlight {
		c.mu.Unlock()
		return Result{}, ErrInFlight
	}

	var prev State
	switch p.kind {
	case NoResponse:
		prev = State{Kind: NoResponse}
		p.kind = Responded
		p.status = status
	case Responded:
		if !p.editAvailable {
			c.mu.Unlock()
			return Result{}, ErrUnconfirmed
		}
		prev = State{Kind: Responded, Status: p.status}
		p.kind = Locked
		p.status = status
		p.editAvailable = false
	default:
		c.mu.Unlock()
		return Result{}, ErrLocked
	}
	p.inFlight = true
	c.mu.Unlock()

	if prev.Kind == Responded {
		// The edit is consumed no matter how the write goes; persisting
		// the marker first closes the retry loophole.
		if err := c.kv.Set(nsEditUsed, markerKey(who.ID, eventID), []byte("true")); err != nil {
			c.log.Warn("persist edit-used marker", "user_id", who.ID, "event_id", eventID, "err", err)
		}
	}

	_, submitErr := c.api.SubmitRSVP(ctx, eventID, status)

	c.mu.Lock()
	if gen != c.gen {
		// Identity changed mid-flight; the pair no longer exists.
		c.mu.Unlock()
		return Result{}, submitErr
	}
	p.inFlight = false
	if submitErr != nil {
		if prev.Kind == NoResponse {
			// First submission: roll back completely.
			p.kind = NoResponse
			p.status = ""
		} else {
			// Failed edit: the attempt is consumed, the last confirmed
			// status stands.
			p.kind = Locked
			p.status = prev.Status
		}
		state := State{Kind: p.kind, Status: p.status}
		c.mu.Unlock()
		return Result{State: state}, submitErr
	}
	state := State{Kind: p.kind, Status: p.status}
	c.mu.Unlock()

	result := Result{State: state}
	event, err := c.api.GetEvent(ctx, eventID)
	if err != nil {
		c.log.Warn("refresh event after rsvp", "event_id", eventID, "err", err)
		return result, nil
	}
	result.Event = &event
	return result, nil
}

// pair returns the in-memory record for an event, seeding it from the
// durable edit-used marker on first sight. Callers hold c.mu.
func (c *Controller) pair(eventID int64) *pair {
	if p, ok := c.pairs[eventID]; ok {
		return p
	}
	p := &pair{kind: NoResponse}
	if !c.who.IsZero() && c.editUsed(c.who.ID, eventID) {
		p.kind = Locked
	}
	c.pairs[eventID] = p
	return p
}

func (c *Controller) editUsed(userID, eventID int64) bool {
	_, err := c.kv.Get(nsEditUsed, markerKey(userID, eventID))
	return err == nil
}

func markerKey(userID, eventID int64) string {
	return fmt.Sprintf("%d:%d", userID, eventID)
}
