package service

import (
	"context"

	"github.com/news-crud-lab/internal/config"
	"github.com/news-crud-lab/internal/events"
	"github.com/news-crud-lab/internal/models"
	"github.com/rs/zerolog"
)

// Observer is called after every store state change, in change order.
// It may call Snapshot but must not mutate the store.
type Observer func(event models.StoreEvent)

// PostStore defines the mock post store: an ordered collection plus one draft.
// Creating is the initial mode; BeginEdit moves to Editing, CancelEdit and a
// successful Submit move back.
type PostStore interface {
	BeginEdit(id models.PostID) error
	CancelEdit()
	SetDraft(fields models.DraftFields)
	Submit(fields *models.DraftFields) (SubmitResult, error)
	Delete(id models.PostID, confirmed bool) (bool, error)
	Snapshot() models.StoreSnapshot
	Subscribe(observer Observer) (unsubscribe func())
}

// NewsSource defines the external headlines collaborator
type NewsSource interface {
	TopHeadlines(ctx context.Context) ([]models.NewsArticle, error)
}

// NewsLoader defines the once-per-session news fetch
type NewsLoader interface {
	Load(ctx context.Context)
	State() models.NewsState
	Done() <-chan struct{}
	Close()
}

// SessionService defines session lifecycle management
type SessionService interface {
	Create() (*Session, error)
	Get(id string) (*Session, error)
	Close(id string) error
	Count() int
	StartSweeper(ctx context.Context)
	StopSweeper()
	Shutdown()
}

// Services holds all service interfaces
type Services struct {
	Sessions SessionService
}

// NewServices creates all services
func NewServices(source NewsSource, cfg *config.Config, log zerolog.Logger, publishers ...events.Publisher) *Services {
	return &Services{
		Sessions: newSessionService(source, cfg, log, publishers),
	}
}
