package models

import "time"

// PostID identifies a mock post inside one store
type PostID int64

// Post represents a locally owned mock post
type Post struct {
	ID         PostID `json:"id"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	Author     string `json:"author"`
	URLToImage string `json:"urlToImage"`
}

// Draft is the form's in-progress record. ID is nil in create mode.
type Draft struct {
	ID         *PostID `json:"id"`
	Title      string  `json:"title"`
	Content    string  `json:"content"`
	Author     string  `json:"author"`
	URLToImage string  `json:"urlToImage"`
}

// EmptyDraft returns the create-mode draft
func EmptyDraft() Draft {
	return Draft{}
}

// DraftFromPost copies a post into an edit-mode draft
func DraftFromPost(p Post) Draft {
	id := p.ID
	return Draft{
		ID:         &id,
		Title:      p.Title,
		Content:    p.Content,
		Author:     p.Author,
		URLToImage: p.URLToImage,
	}
}

// ToPost turns the draft into a post with the given id
func (d Draft) ToPost(id PostID) Post {
	return Post{
		ID:         id,
		Title:      d.Title,
		Content:    d.Content,
		Author:     d.Author,
		URLToImage: d.URLToImage,
	}
}

// IsEmpty reports whether the draft equals the empty draft
func (d Draft) IsEmpty() bool {
	return d.ID == nil && d.Title == "" && d.Content == "" && d.Author == "" && d.URLToImage == ""
}

// DraftFields is the request body for form updates and submits
type DraftFields struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	Author     string `json:"author"`
	URLToImage string `json:"urlToImage"`
}

// EditorMode is the state of the post editor
type EditorMode string

const (
	ModeCreating EditorMode = "creating"
	ModeEditing  EditorMode = "editing"
)

// SubmitLabel returns the contextual label of the submit action
func (m EditorMode) SubmitLabel() string {
	if m == ModeEditing {
		return "update"
	}
	return "create"
}

// StoreSnapshot is a consistent copy of a store's state
type StoreSnapshot struct {
	Posts       []Post     `json:"posts"`
	Draft       Draft      `json:"draft"`
	Editing     bool       `json:"editing"`
	Mode        EditorMode `json:"mode"`
	SubmitLabel string     `json:"submit_label"`
}

// StoreEventType names a store state change
type StoreEventType string

const (
	EventPostCreated  StoreEventType = "post.created"
	EventPostUpdated  StoreEventType = "post.updated"
	EventPostDeleted  StoreEventType = "post.deleted"
	EventEditStarted  StoreEventType = "edit.started"
	EventEditCanceled StoreEventType = "edit.canceled"
	EventDraftChanged StoreEventType = "draft.changed"
)

// StoreEvent is emitted to observers after every state change
type StoreEvent struct {
	Type      StoreEventType `json:"type"`
	SessionID string         `json:"session_id,omitempty"`
	PostID    *PostID        `json:"post_id,omitempty"`
	Snapshot  StoreSnapshot  `json:"snapshot"`
	Timestamp time.Time      `json:"timestamp"`
}

// SeedPosts returns the posts every new store starts with
func SeedPosts() []Post {
	return []Post{
		{
			ID:         101,
			Title:      "Lab News: React CRUD Completed",
			Content:    "Successfully implemented mock API handlers for lab tasks.",
			Author:     "Lab Instructor",
			URLToImage: "https://via.placeholder.com/150/007bff/FFFFFF?text=Mock+Post",
		},
	}
}
