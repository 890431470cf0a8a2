package repository

import (
	"sync"

	"github.com/news-crud-lab/internal/models"
)

// postRepo is the in-memory implementation of PostRepository
type postRepo struct {
	mu    sync.RWMutex
	posts []models.Post
	index map[models.PostID]int // id -> position in posts
}

// NewPostRepo creates a post repository holding a copy of seed.
// Seed entries with a repeated id are skipped.
func NewPostRepo(seed []models.Post) PostRepository {
	r := &postRepo{
		posts: make([]models.Post, 0, len(seed)),
		index: make(map[models.PostID]int, len(seed)),
	}
	for _, p := range seed {
		_ = r.Append(p)
	}
	return r
}

// List returns a copy of the collection in display order
func (r *postRepo) List() []models.Post {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]models.Post, len(r.posts))
	copy(result, r.posts)
	return result
}

// GetByID retrieves a post by id
func (r *postRepo) GetByID(id models.PostID) (models.Post, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[id]
	if !ok {
		return models.Post{}, false
	}
	return r.posts[i], true
}

// Exists checks if a post with the given id exists
func (r *postRepo) Exists(id models.PostID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.index[id]
	return ok
}

// Append adds a post at the end of the collection
func (r *postRepo) Append(post models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.index[post.ID]; exists {
		return ErrDuplicateID
	}
	r.index[post.ID] = len(r.posts)
	r.posts = append(r.posts, post)
	return nil
}

// Replace overwrites the post with the same id in place.
// Returns false when no such post exists.
func (r *postRepo) Replace(post models.Post) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.index[post.ID]
	if !ok {
		return false
	}
	r.posts[i] = post
	return true
}

// Remove deletes the post with the given id, keeping the order of the rest
func (r *postRepo) Remove(id models.PostID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.index[id]
	if !ok {
		return false
	}
	r.posts = append(r.posts[:i], r.posts[i+1:]...)
	delete(r.index, id)
	for j := i; j < len(r.posts); j++ {
		r.index[r.posts[j].ID] = j
	}
	return true
}

// MaxID returns the largest id in the collection, zero when empty
func (r *postRepo) MaxID() models.PostID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var max models.PostID
	for _, p := range r.posts {
		if p.ID > max {
			max = p.ID
		}
	}
	return max
}

// Count returns the number of posts
func (r *postRepo) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.posts)
}
