package domain

import (
	"time"

	"github.com/google/uuid"
)

// ForumPost is a public question or answer on a lot's Q&A thread. Posts with
// a nil ParentID start a thread; replies reference their parent.
type ForumPost struct {
	ID        uuid.UUID
	LotID     uuid.UUID
	AuthorID  uuid.UUID
	ParentID  *uuid.UUID
	Message   string
	CreatedAt time.Time
}
