// Package publish defines the contract platform publishers implement.
//
// Publishers classify platform failures into two sentinel errors: a
// duplicate rejection is suppressive (the entry is considered handled),
// and a rate limit aborts the whole run. Any other error is fatal.
package publish

import (
	"context"
	"errors"
)

// ErrDuplicate signals that the platform rejected the post as already
// published. Callers treat this as success for dedup purposes.
var ErrDuplicate = errors.New("post already exists")

// ErrRateLimited signals that the platform is rate limiting us. The run
// aborts; already-recorded entries stay recorded.
var ErrRateLimited = errors.New("rate limited")

// Post is one formatted message ready for publication. ImagePath, when
// non-empty, is a local file holding the entry's illustrative image.
type Post struct {
	Text      string
	ImagePath string
}

// Result describes a successful publication.
type Result struct {
	// ID is the platform-assigned identifier of the created post.
	ID string
}

// Publisher publishes one post to a single platform.
type Publisher interface {
	Name() string
	Publish(ctx context.Context, post Post) (Result, error)
}
