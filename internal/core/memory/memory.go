// Package memory provides the long-term user memory entities and store
// contract, distinct from per-thread conversation history.
package memory

import (
	"context"
	"time"
)

// DetailsCategory is the namespace category used for user facts.
const DetailsCategory = "details"

// Namespace scopes memory items to one user and category.
type Namespace struct {
	UserID   string `json:"user_id"`
	Category string `json:"category"`
}

// Details returns the fact namespace for a user.
func Details(userID string) Namespace {
	return Namespace{UserID: userID, Category: DetailsCategory}
}

// Validate ensures the namespace is fully qualified.
func (n Namespace) Validate() error {
	if n.UserID == "" {
		return ErrInvalidUserID
	}
	if n.Category == "" {
		return ErrInvalidCategory
	}
	return nil
}

// String returns the canonical storage key for the namespace.
func (n Namespace) String() string {
	return n.UserID + "/" + n.Category
}

// Item is one stored fact. Items are never mutated in place; superseding a
// fact means adding a new item.
type Item struct {
	Key       string    `json:"key"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// Store is the persistence contract for user memory. The base contract has
// no update-in-place and no delete; retraction is a policy question above
// this layer.
type Store interface {
	// Put appends an item under the namespace.
	Put(ctx context.Context, ns Namespace, key, text string) error

	// Search returns all items in the namespace in insertion order.
	Search(ctx context.Context, ns Namespace) ([]Item, error)
}
