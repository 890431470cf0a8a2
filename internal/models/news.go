package models

import "fmt"

// UnknownAuthor is shown when the source omits the author
const UnknownAuthor = "Unknown"

// NewsArticle is one entry of the external source's articles list
type NewsArticle struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Content     *string `json:"content"`
	Author      *string `json:"author"`
	URLToImage  *string `json:"urlToImage"`
}

// NewsItem is a read-only, normalized news record
type NewsItem struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	Author     string `json:"author"`
	URLToImage string `json:"urlToImage"`
}

// NewNewsItem normalizes the article found at index in the source list
func NewNewsItem(index int, a NewsArticle) NewsItem {
	item := NewsItem{
		ID:         fmt.Sprintf("real-%d", index),
		Title:      deref(a.Title),
		Content:    deref(a.Description),
		Author:     deref(a.Author),
		URLToImage: deref(a.URLToImage),
	}
	if item.Content == "" {
		item.Content = deref(a.Content)
	}
	if item.Author == "" {
		item.Author = UnknownAuthor
	}
	return item
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// NewsStatus is the tri-state of a news load
type NewsStatus string

const (
	NewsStatusLoading NewsStatus = "loading"
	NewsStatusError   NewsStatus = "error"
	NewsStatusReady   NewsStatus = "ready"
)

// NewsState is the result exposed by a news loader
type NewsState struct {
	Status  NewsStatus `json:"status"`
	Loading bool       `json:"loading"`
	Error   string     `json:"error,omitempty"`
	Items   []NewsItem `json:"items"`
}
