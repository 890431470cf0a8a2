package service

import (
	"sync"
	"time"

	"github.com/news-crud-lab/internal/metrics"
	"github.com/news-crud-lab/internal/models"
	"github.com/news-crud-lab/internal/repository"
	"github.com/news-crud-lab/internal/validation"
	"github.com/rs/zerolog"
)

// SubmitOutcome describes what a submit did to the collection
type SubmitOutcome string

const (
	OutcomeCreated SubmitOutcome = "created"
	OutcomeUpdated SubmitOutcome = "updated"
	// OutcomeMissingTarget means the edited post no longer exists; nothing changed
	OutcomeMissingTarget SubmitOutcome = "missing_target"
)

// SubmitResult is returned by a successful submit
type SubmitResult struct {
	Outcome SubmitOutcome `json:"outcome"`
	Post    models.Post   `json:"post"`
}

// postStore is the concrete implementation of PostStore.
// All operations hold mu, so actions on one store never interleave.
// Mutations also hold emitMu until their observers have run, so observers
// see events in the order the changes were made.
type postStore struct {
	emitMu    sync.Mutex
	mu        sync.Mutex
	repo      repository.PostRepository
	ids       IDGenerator
	validator *validation.Validator
	draft     models.Draft
	editing   bool

	obsMu     sync.RWMutex
	observers map[int]Observer
	nextObs   int

	log zerolog.Logger
}

// NewPostStore creates a store in Creating mode over repo
func NewPostStore(repo repository.PostRepository, ids IDGenerator, log zerolog.Logger) PostStore {
	return &postStore{
		repo:      repo,
		ids:       ids,
		validator: validation.NewValidator(),
		draft:     models.EmptyDraft(),
		observers: make(map[int]Observer),
		log:       log.With().Str("service", "post_store").Logger(),
	}
}

// BeginEdit switches to Editing with a copy of the post as the draft
func (s *postStore) BeginEdit(id models.PostID) error {
	s.emitMu.Lock()
	defer s.emitMu.Unlock()

	s.mu.Lock()
	post, ok := s.repo.GetByID(id)
	if !ok {
		s.mu.Unlock()
		metrics.PostOperationsTotal.WithLabelValues("begin_edit", "not_found").Inc()
		return ErrPostNotFound
	}
	s.editing = true
	s.draft = models.DraftFromPost(post)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	metrics.PostOperationsTotal.WithLabelValues("begin_edit", "success").Inc()
	s.log.Debug().Int64("post_id", int64(id)).Msg("Edit started")
	s.emit(models.EventEditStarted, &id, snap)
	return nil
}

// CancelEdit returns to Creating with an empty draft. Safe in any mode.
func (s *postStore) CancelEdit() {
	s.emitMu.Lock()
	defer s.emitMu.Unlock()

	s.mu.Lock()
	s.editing = false
	s.draft = models.EmptyDraft()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	metrics.PostOperationsTotal.WithLabelValues("cancel_edit", "success").Inc()
	s.emit(models.EventEditCanceled, nil, snap)
}

// SetDraft overwrites the draft's text fields, keeping its id and the mode
func (s *postStore) SetDraft(fields models.DraftFields) {
	s.emitMu.Lock()
	defer s.emitMu.Unlock()

	s.mu.Lock()
	s.applyFieldsLocked(fields)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.emit(models.EventDraftChanged, nil, snap)
}

// Submit commits the draft. When fields is non-nil it is applied to the
// draft first. On validation failure the draft keeps those fields and the
// mode is unchanged.
func (s *postStore) Submit(fields *models.DraftFields) (SubmitResult, error) {
	s.emitMu.Lock()
	defer s.emitMu.Unlock()

	s.mu.Lock()

	if fields != nil {
		s.applyFieldsLocked(*fields)
	}

	if errs := s.validator.ValidateDraft(s.draft); len(errs) > 0 {
		s.mu.Unlock()
		metrics.PostOperationsTotal.WithLabelValues("submit", "invalid").Inc()
		return SubmitResult{}, &ValidationError{Errors: errs}
	}

	var result SubmitResult
	var eventType models.StoreEventType

	if s.editing {
		eventType = models.EventPostUpdated
		result.Outcome = OutcomeMissingTarget
		if s.draft.ID != nil {
			post := s.draft.ToPost(*s.draft.ID)
			result.Post = post
			if s.repo.Replace(post) {
				result.Outcome = OutcomeUpdated
			}
		}
		s.editing = false
	} else {
		eventType = models.EventPostCreated
		id := s.ids.Next()
		for s.repo.Exists(id) {
			id = s.ids.Next()
		}
		post := s.draft.ToPost(id)
		if err := s.repo.Append(post); err != nil {
			s.mu.Unlock()
			metrics.PostOperationsTotal.WithLabelValues("submit", "error").Inc()
			return SubmitResult{}, err
		}
		result = SubmitResult{Outcome: OutcomeCreated, Post: post}
	}

	s.draft = models.EmptyDraft()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	metrics.PostOperationsTotal.WithLabelValues("submit", string(result.Outcome)).Inc()
	if result.Outcome == OutcomeMissingTarget {
		s.log.Warn().Int64("post_id", int64(result.Post.ID)).Msg("Submitted edit targets a deleted post, collection unchanged")
	}

	id := result.Post.ID
	s.emit(eventType, &id, snap)
	return result, nil
}

// Delete removes the post with the given id once the caller has confirmed.
// Absent ids are a no-op. Draft and mode are never touched, even when the
// deleted post is the one being edited.
func (s *postStore) Delete(id models.PostID, confirmed bool) (bool, error) {
	if !confirmed {
		metrics.PostOperationsTotal.WithLabelValues("delete", "unconfirmed").Inc()
		return false, ErrConfirmationRequired
	}

	s.emitMu.Lock()
	defer s.emitMu.Unlock()

	s.mu.Lock()
	removed := s.repo.Remove(id)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	if !removed {
		metrics.PostOperationsTotal.WithLabelValues("delete", "absent").Inc()
		return false, nil
	}

	metrics.PostOperationsTotal.WithLabelValues("delete", "success").Inc()
	s.emit(models.EventPostDeleted, &id, snap)
	return true, nil
}

// Snapshot returns a consistent copy of the store's state
func (s *postStore) Snapshot() models.StoreSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe registers an observer for every later state change
func (s *postStore) Subscribe(observer Observer) func() {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()

	key := s.nextObs
	s.nextObs++
	s.observers[key] = observer

	return func() {
		s.obsMu.Lock()
		defer s.obsMu.Unlock()
		delete(s.observers, key)
	}
}

func (s *postStore) applyFieldsLocked(fields models.DraftFields) {
	s.draft.Title = fields.Title
	s.draft.Content = fields.Content
	s.draft.Author = fields.Author
	s.draft.URLToImage = fields.URLToImage
}

func (s *postStore) snapshotLocked() models.StoreSnapshot {
	mode := models.ModeCreating
	if s.editing {
		mode = models.ModeEditing
	}

	draft := s.draft
	if draft.ID != nil {
		id := *draft.ID
		draft.ID = &id
	}

	return models.StoreSnapshot{
		Posts:       s.repo.List(),
		Draft:       draft,
		Editing:     s.editing,
		Mode:        mode,
		SubmitLabel: mode.SubmitLabel(),
	}
}

// emit runs observers outside mu so they may read the store with Snapshot.
// Observers must not mutate the store.
func (s *postStore) emit(eventType models.StoreEventType, id *models.PostID, snap models.StoreSnapshot) {
	s.obsMu.RLock()
	observers := make([]Observer, 0, len(s.observers))
	for _, o := range s.observers {
		observers = append(observers, o)
	}
	s.obsMu.RUnlock()

	if len(observers) == 0 {
		return
	}

	event := models.StoreEvent{
		Type:      eventType,
		PostID:    id,
		Snapshot:  snap,
		Timestamp: time.Now(),
	}
	for _, o := range observers {
		o(event)
	}
}
