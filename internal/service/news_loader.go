package service

import (
	"context"
	"sync"
	"time"

	"github.com/news-crud-lab/internal/metrics"
	"github.com/news-crud-lab/internal/models"
	"github.com/rs/zerolog"
)

// NewsFailureMessage is the human-readable error shown in place of the news section
const NewsFailureMessage = "Failed to fetch news. Check API key and network connection."

// DefaultNewsLimit is how many headlines a loader keeps
const DefaultNewsLimit = 5

// newsLoader is the concrete implementation of NewsLoader
type newsLoader struct {
	source NewsSource
	limit  int
	log    zerolog.Logger

	once sync.Once
	done chan struct{}

	mu     sync.RWMutex
	state  models.NewsState
	closed bool
	cancel context.CancelFunc
}

// NewNewsLoader creates a loader in the loading state
func NewNewsLoader(source NewsSource, limit int, log zerolog.Logger) NewsLoader {
	if limit <= 0 {
		limit = DefaultNewsLimit
	}
	return &newsLoader{
		source: source,
		limit:  limit,
		log:    log.With().Str("service", "news_loader").Logger(),
		done:   make(chan struct{}),
		state: models.NewsState{
			Status:  models.NewsStatusLoading,
			Loading: true,
			Items:   []models.NewsItem{},
		},
	}
}

// Load performs the single fetch of this loader. Later calls return at once.
func (l *newsLoader) Load(ctx context.Context) {
	l.once.Do(func() {
		defer close(l.done)

		l.mu.Lock()
		if l.closed {
			l.mu.Unlock()
			return
		}
		ctx, l.cancel = context.WithCancel(ctx)
		cancel := l.cancel
		l.mu.Unlock()
		defer cancel()

		start := time.Now()
		articles, err := l.source.TopHeadlines(ctx)
		metrics.NewsFetchDuration.Observe(time.Since(start).Seconds())

		l.mu.Lock()
		defer l.mu.Unlock()

		if l.closed {
			metrics.NewsFetchesTotal.WithLabelValues("discarded").Inc()
			l.log.Debug().Msg("Loader closed before response, discarding result")
			return
		}

		if err != nil {
			metrics.NewsFetchesTotal.WithLabelValues("error").Inc()
			l.log.Error().Err(err).Msg("Error fetching news")
			l.state = models.NewsState{
				Status:  models.NewsStatusError,
				Loading: false,
				Error:   NewsFailureMessage,
				Items:   []models.NewsItem{},
			}
			return
		}

		if len(articles) > l.limit {
			articles = articles[:l.limit]
		}
		items := make([]models.NewsItem, len(articles))
		for i, a := range articles {
			items[i] = models.NewNewsItem(i, a)
		}

		metrics.NewsFetchesTotal.WithLabelValues("success").Inc()
		metrics.NewsArticlesFetched.Add(float64(len(items)))
		l.log.Info().Int("items", len(items)).Msg("News loaded")

		l.state = models.NewsState{
			Status:  models.NewsStatusReady,
			Loading: false,
			Items:   items,
		}
	})
}

// State returns a copy of the current result
func (l *newsLoader) State() models.NewsState {
	l.mu.RLock()
	defer l.mu.RUnlock()

	state := l.state
	state.Items = make([]models.NewsItem, len(l.state.Items))
	copy(state.Items, l.state.Items)
	return state
}

// Done is closed once Load has finished, whether the result was applied or not
func (l *newsLoader) Done() <-chan struct{} {
	return l.done
}

// Close tears the loader down. An in-flight request is canceled and its
// result discarded. A loader closed before Load never fetches.
func (l *newsLoader) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.closed = true
	if l.cancel != nil {
		l.cancel()
	}
}
