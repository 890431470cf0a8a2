package repository

import (
	"errors"

	"github.com/news-crud-lab/internal/models"
)

// ErrDuplicateID is returned when appending a post whose id is already present
var ErrDuplicateID = errors.New("post id already exists")

// PostRepository defines the interface for the ordered mock post collection.
// Insertion order is display order.
type PostRepository interface {
	List() []models.Post
	GetByID(id models.PostID) (models.Post, bool)
	Exists(id models.PostID) bool
	Append(post models.Post) error
	Replace(post models.Post) bool
	Remove(id models.PostID) bool
	MaxID() models.PostID
	Count() int
}

// Repositories holds all repository interfaces
type Repositories struct {
	Post PostRepository
}

// New creates the repositories of one session, seeded with the given posts
func New(seed []models.Post) *Repositories {
	return &Repositories{
		Post: NewPostRepo(seed),
	}
}
