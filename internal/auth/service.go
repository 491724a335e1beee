package auth

import (
	"context"
	"sync"
	"time"

	"github.com/fitlife-app/fitlife/pkg"

	log "github.com/sirupsen/logrus"
)

const DefaultTTL = 24 * 7 * time.Hour

// Session is one simulated login. Authentication here trusts client input,
// the tokens exist to key logouts and give the UI something to hold on to.
// Sessions are deliberately not part of the durable snapshot.
type Session struct {
	Token     string
	CreatedAt time.Time
}

type Service struct {
	mutex    sync.Mutex
	sessions map[string]Session
	ttl      time.Duration
	// ability to inject random string generator func for tokens (for unit and dev testing)
	RandStringFunc func(s int) (string, error)
}

func NewService(ttl time.Duration) *Service {
	return &Service{
		sessions:       make(map[string]Session),
		ttl:            ttl,
		RandStringFunc: pkg.GenerateRandomString,
	}
}

func (s *Service) Login(createdAt time.Time) (string, error) {
	token, err := s.RandStringFunc(35)
	if err != nil {
		return "", err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.sessions[token] = Session{
		Token:     token,
		CreatedAt: createdAt,
	}

	return token, nil
}

func (s *Service) Logout(token string) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, ok := s.sessions[token]; !ok {
		return false
	}
	delete(s.sessions, token)
	return true
}

func (s *Service) IsLogged(token string) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	session, ok := s.sessions[token]
	if !ok {
		return false
	}
	return time.Since(session.CreatedAt) <= s.ttl
}

func (s *Service) SessionsCount() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return len(s.sessions)
}

// ScanAndClean will run through all sessions, check the TTL, and clean them if old
func (s *Service) ScanAndClean() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if len(s.sessions) == 0 {
		return
	}

	var toRemove []string
	for token, session := range s.sessions {
		if time.Since(session.CreatedAt) > s.ttl {
			toRemove = append(toRemove, token)
		}
	}

	for _, token := range toRemove {
		delete(s.sessions, token)
	}

	if len(toRemove) > 0 {
		log.Warnf("=> auth service, scan and clean, removed %d expired sessions", len(toRemove))
	}
}

// StartCleanupLoop periodically cleans expired sessions until ctx is done
func (s *Service) StartCleanupLoop(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.ScanAndClean()
			}
		}
	}()
}
