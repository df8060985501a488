// Package feedcloud defines the boundary to the activity-feed cloud service.
// It exposes the narrow slice of the vendor contract this project consumes:
// signed user sessions, profile get-or-create, directed follows, activity
// append, enriched feed reads, reactions with caller-supplied ids,
// namespaced stored objects, and per-user analytics tracking.
//
// Two implementations exist: StreamClient, a thin adapter over the official
// vendor SDK, and MemoryClient, an in-process backend with the same
// idempotency semantics for tests and offline dry runs.
package feedcloud

import (
	"context"
	"time"
)

// UserData is the schemaless profile document attached to a user.
// The service imposes no structure; well-known keys used by the demo
// data are "name", "url", "desc", "profileImage" and "coverImage".
type UserData map[string]any

// Name returns the "name" field of the profile, or fallback when absent.
func (d UserData) Name(fallback string) string {
	if s, ok := d["name"].(string); ok && s != "" {
		return s
	}
	return fallback
}

// User is a service-side user record.
type User struct {
	ID   string
	Data UserData
}

// Activity is a single posted event. ForeignID and Time are caller-chosen;
// together they make re-posting the same activity a conflict rather than a
// silent duplicate.
type Activity struct {
	ID        string
	ForeignID string
	Time      time.Time
	Actor     string
	Verb      string
	Object    string
	Content   string
	Extra     map[string]any
}

// Reaction is a typed response attached to an activity. ID is caller-supplied,
// which makes creation idempotent: re-submitting the same id is a conflict.
type Reaction struct {
	ID         string
	Kind       string
	ActivityID string
	UserID     string
	Data       map[string]any
}

// EnrichedActivity is an activity as returned from an enriched feed read.
// The enrichment maps are only populated for the options requested.
type EnrichedActivity struct {
	Activity
	ReactionCounts  map[string]int
	OwnReactions    map[string][]*Reaction
	LatestReactions map[string][]*Reaction
}

// Object is a namespaced key/value record in a collection.
type Object struct {
	Collection string
	ID         string
	Data       map[string]any
}

// Engagement records a user interacting with a piece of feed content.
// Content is the foreign id of the activity the user engaged with.
type Engagement struct {
	Label    string
	Content  string
	FeedID   string
	Position int
	Boost    int
}

// Impression records content that was shown to a user.
type Impression struct {
	ForeignIDs []string
	FeedID     string
	Position   int
}

// ReadOption configures an enriched feed read.
type ReadOption func(*readOptions)

type readOptions struct {
	reactionCounts  bool
	ownReactions    bool
	recentReactions bool
	limit           int
}

// WithReactionCounts requests per-kind reaction totals on each activity.
func WithReactionCounts() ReadOption {
	return func(o *readOptions) { o.reactionCounts = true }
}

// WithOwnReactions requests the reading user's own reactions on each activity.
func WithOwnReactions() ReadOption {
	return func(o *readOptions) { o.ownReactions = true }
}

// WithRecentReactions requests the most recent reactions on each activity.
func WithRecentReactions() ReadOption {
	return func(o *readOptions) { o.recentReactions = true }
}

// WithLimit caps the number of activities returned.
func WithLimit(n int) ReadOption {
	return func(o *readOptions) { o.limit = n }
}

func applyReadOptions(opts []ReadOption) readOptions {
	var o readOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Client is the top-level handle to the feed service, constructed once from
// application credentials and shared by all sessions.
type Client interface {
	// CreateUserToken signs a per-user token with the application secret.
	CreateUserToken(userID string) (string, error)

	// Session binds a user id and token into an authenticated session.
	// No validation happens here; bad credentials surface on first use.
	Session(userID, token string) (Session, error)

	// Analytics returns an event tracker bound to userID.
	Analytics(userID string) Analytics
}

// Analytics tracks how one user interacts with feed content.
type Analytics interface {
	// TrackEngagement reports a single engagement event.
	TrackEngagement(ctx context.Context, e Engagement) error

	// TrackImpression reports one batch of shown content.
	TrackImpression(ctx context.Context, imp Impression) error
}

// Session identifies one authenticated actor. Sessions are created once per
// actor and never mutated; they are safe for concurrent reads.
type Session interface {
	// UserID returns the actor this session is bound to.
	UserID() string

	// GetOrCreateUser ensures the actor's profile exists, creating it with
	// data when absent. Calling it again is a no-op that returns the
	// existing profile; it never conflicts.
	GetOrCreateUser(ctx context.Context, data UserData) (*User, error)

	// Follow subscribes this actor's timeline feed to the target actor's
	// user feed. Following twice is a no-op.
	Follow(ctx context.Context, targetUserID string) error

	// Feed returns a handle to a named feed. With no userID the feed is the
	// session actor's own.
	Feed(group string, userID ...string) Feed

	// AddReaction attaches a reaction to an activity. A duplicate reaction
	// id yields a conflict error.
	AddReaction(ctx context.Context, r Reaction) (*Reaction, error)

	// Collection returns the named key/value object store.
	Collection(name string) ObjectStore
}

// Feed is a named, ordered stream of activities.
type Feed interface {
	// Group returns the feed group slug, e.g. "user" or "timeline".
	Group() string

	// UserID returns the feed owner's user id.
	UserID() string

	// AddActivity appends an activity. Re-posting the same foreign id and
	// time yields a conflict error.
	AddActivity(ctx context.Context, a Activity) (*Activity, error)

	// Activities reads the feed newest-first with the requested enrichment.
	Activities(ctx context.Context, opts ...ReadOption) ([]*EnrichedActivity, error)
}

// ObjectStore is a namespaced key/value store.
type ObjectStore interface {
	// Add creates an object under key. The key must not exist; a duplicate
	// yields a conflict error.
	Add(ctx context.Context, key string, data map[string]any) (*Object, error)

	// Get fetches the object stored under key.
	Get(ctx context.Context, key string) (*Object, error)
}
