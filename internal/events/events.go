// Package events fans mock post store changes out to observers.
package events

import "github.com/news-crud-lab/internal/models"

// Publisher receives every store event of every session
type Publisher interface {
	Publish(event models.StoreEvent) error
}
