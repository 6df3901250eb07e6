// Package profile keeps per-identity avatar and banner selections. State
// is scoped strictly to the resolved identity: switching identities
// re-resolves from storage and never leaks another identity's choices.
package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/eventify/eventify-desk/internal/catalog"
	"github.com/eventify/eventify-desk/internal/domain"
	"github.com/eventify/eventify-desk/internal/storage"
)

const (
	nsAvatar = "avatar"
	nsBanner = "banner"
)

type Store struct {
	kv  storage.KV
	log *slog.Logger

	mu       sync.RWMutex
	identity domain.Identity
	avatar   *domain.CatalogOption
	banner   *domain.CatalogOption
}

func NewStore(kv storage.KV, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{kv: kv, log: logger}
}

// Resolve loads the given identity's persisted selections. A zero identity
// resolves both to unset. Corrupted stored values are treated as unset.
func (s *Store) Resolve(who domain.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = who
	if who.IsZero() {
		s.avatar = nil
		s.banner = nil
		return
	}
	s.avatar = s.load(nsAvatar, who.ID)
	s.banner = s.load(nsBanner, who.ID)
}

// Avatar returns the resolved identity's avatar selection, ok=false when
// unset.
func (s *Store) Avatar() (domain.CatalogOption, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.avatar == nil {
		return domain.CatalogOption{}, false
	}
	return *s.avatar, true
}

func (s *Store) Banner() (domain.CatalogOption, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.banner == nil {
		return domain.CatalogOption{}, false
	}
	return *s.banner, true
}

// SelectAvatar validates optionID against the role-scoped catalog and
// persists it for the given identity. Invalid selections leave existing
// state untouched.
func (s *Store) SelectAvatar(who domain.Identity, optionID string) error {
	opt, err := s.validate(who, optionID, catalog.AvatarAllowed)
	if err != nil {
		return err
	}
	return s.set(nsAvatar, who, opt, &s.avatar)
}

func (s *Store) SelectBanner(who domain.Identity, optionID string) error {
	opt, err := s.validate(who, optionID, catalog.BannerAllowed)
	if err != nil {
		return err
	}
	return s.set(nsBanner, who, opt, &s.banner)
}

// ClearAvatar returns the identity's avatar to unset.
func (s *Store) ClearAvatar(who domain.Identity) error {
	return s.clear(nsAvatar, who, &s.avatar)
}

func (s *Store) ClearBanner(who domain.Identity) error {
	return s.clear(nsBanner, who, &s.banner)
}

func (s *Store) validate(who domain.Identity, optionID string, allowed func(domain.Role, string) (domain.CatalogOption, bool)) (domain.CatalogOption, error) {
	if who.IsZero() {
		return domain.CatalogOption{}, fmt.Errorf("no identity: %w", domain.ErrInvalidSelection)
	}
	opt, ok := allowed(who.Role, optionID)
	if !ok {
		return domain.CatalogOption{}, fmt.Errorf("option %q not in catalog for role %s: %w", optionID, who.Role, domain.ErrInvalidSelection)
	}
	return opt, nil
}

func (s *Store) set(namespace string, who domain.Identity, opt domain.CatalogOption, slot **domain.CatalogOption) error {
	blob, err := json.Marshal(opt)
	if err != nil {
		return fmt.Errorf("encode selection: %w", err)
	}
	if err := s.kv.Set(namespace, key(who.ID), blob); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity.ID == who.ID {
		*slot = &opt
	}
	return nil
}

func (s *Store) clear(namespace string, who domain.Identity, slot **domain.CatalogOption) error {
	if who.IsZero() {
		return nil
	}
	if err := s.kv.Delete(namespace, key(who.ID)); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity.ID == who.ID {
		*slot = nil
	}
	return nil
}

func (s *Store) load(namespace string, id int64) *domain.CatalogOption {
	blob, err := s.kv.Get(namespace, key(id))
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		s.log.Warn("load preference", "namespace", namespace, "user_id", id, "err", err)
		return nil
	}
	var opt domain.CatalogOption
	if err := json.Unmarshal(blob, &opt); err != nil {
		// Corruption recovery: return to unset and drop the bad value.
		s.log.Warn("corrupt preference discarded", "namespace", namespace, "user_id", id, "err", err)
		_ = s.kv.Delete(namespace, key(id))
		return nil
	}
	return &opt
}

func key(id int64) string { return strconv.FormatInt(id, 10) }
