package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/news-crud-lab/internal/config"
	"github.com/news-crud-lab/internal/events"
	"github.com/news-crud-lab/internal/metrics"
	"github.com/news-crud-lab/internal/models"
	"github.com/news-crud-lab/internal/repository"
	"github.com/rs/zerolog"
)

// Session is one browser tab's worth of state: its own store and news loader
type Session struct {
	ID        string
	Store     PostStore
	News      NewsLoader
	CreatedAt time.Time

	mu       sync.Mutex
	lastSeen time.Time
}

// LastSeen returns when the session was last used
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

// sessionCloser is implemented by publishers holding per-session resources
type sessionCloser interface {
	CloseSession(sessionID string)
}

// sessionWatcher is implemented by publishers that know whether a session
// still has live listeners
type sessionWatcher interface {
	HasClients(sessionID string) bool
}

// sessionService is the concrete implementation of SessionService
type sessionService struct {
	source        NewsSource
	newsLimit     int
	ttl           time.Duration
	sweepInterval time.Duration
	publishers    []events.Publisher
	log           zerolog.Logger
	now           func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session

	// loads outlive the request that created the session
	loadCtx    context.Context
	loadCancel context.CancelFunc

	sweepMu     sync.Mutex
	sweepCancel context.CancelFunc
	running     bool
}

func newSessionService(source NewsSource, cfg *config.Config, log zerolog.Logger, publishers []events.Publisher) *sessionService {
	loadCtx, loadCancel := context.WithCancel(context.Background())
	return &sessionService{
		source:        source,
		newsLimit:     cfg.News.Limit,
		ttl:           cfg.Session.TTL,
		sweepInterval: cfg.Session.SweepInterval,
		publishers:    publishers,
		log:           log.With().Str("service", "session").Logger(),
		now:           time.Now,
		sessions:      make(map[string]*Session),
		loadCtx:       loadCtx,
		loadCancel:    loadCancel,
	}
}

// Create starts a session: a seeded store and a news loader whose single
// fetch begins immediately in the background
func (s *sessionService) Create() (*Session, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session id: %w", err)
	}
	sessionID := id.String()

	repos := repository.New(models.SeedPosts())
	ids := NewClockIDGenerator(time.Now, repos.Post.MaxID())
	storeLog := s.log.With().Str("session_id", sessionID).Logger()

	store := NewPostStore(repos.Post, ids, storeLog)
	store.Subscribe(func(event models.StoreEvent) {
		event.SessionID = sessionID
		for _, p := range s.publishers {
			if err := p.Publish(event); err != nil {
				storeLog.Warn().Err(err).Str("event", string(event.Type)).Msg("Failed to publish store event")
			}
		}
	})

	loader := NewNewsLoader(s.source, s.newsLimit, storeLog)

	now := s.now()
	session := &Session{
		ID:        sessionID,
		Store:     store,
		News:      loader,
		CreatedAt: now,
		lastSeen:  now,
	}

	s.mu.Lock()
	s.sessions[sessionID] = session
	s.mu.Unlock()

	go loader.Load(s.loadCtx)

	metrics.ActiveSessions.Inc()
	storeLog.Info().Msg("Session created")
	return session, nil
}

// Get returns a live session and marks it as used
func (s *sessionService) Get(id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	// Touched under mu so a concurrent sweep sees the new time before deciding
	session.touch(s.now())
	return session, nil
}

// Close ends a session and discards any pending news result
func (s *sessionService) Close(id string) error {
	s.mu.Lock()
	session, ok := s.sessions[id]
	if ok {
		delete(s.sessions, id)
	}
	s.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	s.teardown(session)
	s.log.Info().Str("session_id", id).Msg("Session closed")
	return nil
}

// Count returns the number of live sessions
func (s *sessionService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// StartSweeper expires idle sessions until ctx is done or StopSweeper is called
func (s *sessionService) StartSweeper(ctx context.Context) {
	s.sweepMu.Lock()
	if s.running {
		s.sweepMu.Unlock()
		return
	}
	s.running = true
	ctx, s.sweepCancel = context.WithCancel(ctx)
	s.sweepMu.Unlock()

	s.log.Info().Dur("ttl", s.ttl).Dur("interval", s.sweepInterval).Msg("Session sweeper started")

	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.sweepMu.Lock()
			s.running = false
			s.sweepMu.Unlock()
			s.log.Info().Msg("Session sweeper stopping")
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

// StopSweeper stops a running sweeper
func (s *sessionService) StopSweeper() {
	s.sweepMu.Lock()
	defer s.sweepMu.Unlock()
	if s.sweepCancel != nil {
		s.sweepCancel()
	}
}

// Shutdown closes every session and cancels in-flight news loads
func (s *sessionService) Shutdown() {
	s.StopSweeper()

	s.mu.Lock()
	sessions := s.sessions
	s.sessions = make(map[string]*Session)
	s.mu.Unlock()

	for _, session := range sessions {
		s.teardown(session)
	}
	s.loadCancel()
	s.log.Info().Int("sessions", len(sessions)).Msg("All sessions closed")
}

// sweep removes sessions idle for longer than the TTL.
// A session with a live event stream is never idle.
func (s *sessionService) sweep() int {
	now := s.now()
	cutoff := now.Add(-s.ttl)

	s.mu.Lock()
	var expired []*Session
	for id, session := range s.sessions {
		if !session.LastSeen().Before(cutoff) {
			continue
		}
		if s.watched(id) {
			session.touch(now)
			continue
		}
		expired = append(expired, session)
		delete(s.sessions, id)
	}
	s.mu.Unlock()

	for _, session := range expired {
		s.teardown(session)
	}
	if len(expired) > 0 {
		s.log.Info().Int("expired", len(expired)).Msg("Expired idle sessions")
	}
	return len(expired)
}

func (s *sessionService) watched(sessionID string) bool {
	for _, p := range s.publishers {
		if w, ok := p.(sessionWatcher); ok && w.HasClients(sessionID) {
			return true
		}
	}
	return false
}

func (s *sessionService) teardown(session *Session) {
	session.News.Close()
	for _, p := range s.publishers {
		if closer, ok := p.(sessionCloser); ok {
			closer.CloseSession(session.ID)
		}
	}
	metrics.ActiveSessions.Dec()
}
