// ABOUTME: Session bootstraps the database and resolves the current user once.
// ABOUTME: Init latches its result so every caller sees the same outcome.
package session

import (
	"errors"
	"fmt"
	gosync "sync"

	"github.com/abhinavk/macrolog/internal/models"
	"github.com/abhinavk/macrolog/internal/storage"
)

// Session holds the open database and the resolved user for one run of
// the tool. A Session with no user is valid: it means onboarding has not
// happened yet.
type Session struct {
	dbPath string

	once    gosync.Once
	initErr error

	db   *storage.DB
	user *models.User
}

// New creates a Session for the database at dbPath. Nothing is opened
// until Init.
func New(dbPath string) *Session {
	return &Session{dbPath: dbPath}
}

// Init opens the database and loads the current user. Safe to call any
// number of times; the first result is latched, including failure.
func (s *Session) Init() error {
	s.once.Do(func() {
		db, err := storage.Open(s.dbPath)
		if err != nil {
			s.initErr = fmt.Errorf("open database: %w", err)
			return
		}
		s.db = db

		user, err := db.CurrentUser()
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			s.initErr = fmt.Errorf("load current user: %w", err)
			return
		}
		s.user = user
	})
	return s.initErr
}

// Ready reports whether Init completed successfully.
func (s *Session) Ready() bool {
	return s.db != nil && s.initErr == nil
}

// DB returns the open database. Only valid after a successful Init.
func (s *Session) DB() *storage.DB {
	return s.db
}

// CurrentUser returns the resolved user, or nil before onboarding.
func (s *Session) CurrentUser() *models.User {
	return s.user
}

// NeedsOnboarding reports whether the tool should run profile setup
// before anything else.
func (s *Session) NeedsOnboarding() bool {
	return s.user == nil || !s.user.Onboarded
}

// RefreshUser reloads the current user from the database, picking up
// streak and target changes made since Init.
func (s *Session) RefreshUser() error {
	if !s.Ready() {
		return fmt.Errorf("session not initialized")
	}
	user, err := s.db.CurrentUser()
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.user = nil
			return nil
		}
		return err
	}
	s.user = user
	return nil
}

// Close closes the database if Init opened one.
func (s *Session) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
