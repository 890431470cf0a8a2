package mocks

import (
	"context"
	"sync"

	"github.com/news-crud-lab/internal/models"
	"github.com/news-crud-lab/internal/service"
)

// MockNewsSource is a mock implementation of NewsSource
type MockNewsSource struct {
	mu       sync.Mutex
	Articles []models.NewsArticle
	Err      error
	// Block, when set, holds every call until it is closed or ctx is done
	Block chan struct{}
	Calls int
}

// Verify interface compliance
var _ service.NewsSource = (*MockNewsSource)(nil)

func NewMockNewsSource(articles ...models.NewsArticle) *MockNewsSource {
	return &MockNewsSource{Articles: articles}
}

func (m *MockNewsSource) TopHeadlines(ctx context.Context) ([]models.NewsArticle, error) {
	m.mu.Lock()
	m.Calls++
	block := m.Block
	m.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			// Mirror a response that still arrives after teardown
			<-block
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]models.NewsArticle, len(m.Articles))
	copy(out, m.Articles)
	return out, nil
}

// CallCount returns how many fetches were issued
func (m *MockNewsSource) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls
}

// Article builds a source article; empty strings become absent fields
func Article(title, description, content, author, image string) models.NewsArticle {
	return models.NewsArticle{
		Title:       strPtr(title),
		Description: strPtr(description),
		Content:     strPtr(content),
		Author:      strPtr(author),
		URLToImage:  strPtr(image),
	}
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
