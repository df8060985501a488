// Package provider exposes an authenticated feed session to a request or
// component scope through context.Context. It is the Go rendition of the
// vendor's UI context provider: one App per scope carrying the session, the
// actor's profile snapshot, and an optional analytics client, plus a
// narrower "current feed" handle for nested scopes.
package provider

import (
	"context"
	"errors"
	"sync"

	"github.com/akerr/feedseed/internal/feedcloud"
)

// Config describes one application scope.
type Config struct {
	// AppID and APIKey identify the application; they are carried for
	// display, not re-validated here.
	AppID  string
	APIKey string

	// Token is the signed token for UserID.
	Token string

	// UserID is the actor this scope belongs to.
	UserID string

	// AnalyticsToken, when set, binds a secondary analytics tracker to the
	// same user.
	AnalyticsToken string

	// DefaultProfile is upserted on first activation if the actor has no
	// profile yet. Defaults to an empty document.
	DefaultProfile feedcloud.UserData

	// Client is the shared top-level feed client. It is passed in
	// explicitly; the provider never constructs one.
	Client feedcloud.Client
}

// App is the per-scope context value. The session and user handles are
// immutable after construction; the profile snapshot is guarded and
// versioned so consumers can detect changes without relying on reference
// identity (the profile document is mutated in place service-side, which
// identity-based change detection cannot observe).
type App struct {
	Session   feedcloud.Session
	Analytics feedcloud.Analytics

	userID         string
	defaultProfile feedcloud.UserData

	mu       sync.RWMutex
	userData feedcloud.UserData
	revision uint64
}

// New builds an App from cfg: one session from the shared client, and an
// analytics tracker bound to the same user when an analytics token is
// present. Failures propagate to the caller; there are no retries.
func New(cfg Config) (*App, error) {
	if cfg.Client == nil {
		return nil, errors.New("provider: Config.Client is required")
	}
	session, err := cfg.Client.Session(cfg.UserID, cfg.Token)
	if err != nil {
		return nil, err
	}

	defaultProfile := cfg.DefaultProfile
	if defaultProfile == nil {
		defaultProfile = feedcloud.UserData{}
	}
	app := &App{
		Session:        session,
		userID:         cfg.UserID,
		defaultProfile: defaultProfile,
	}
	if cfg.AnalyticsToken != "" {
		app.Analytics = cfg.Client.Analytics(cfg.UserID)
	}
	return app, nil
}

// Activate runs the first-activation step: ensure the actor's profile
// exists, upserting the configured default profile only if absent, then
// publish the resulting snapshot as a new revision.
func (a *App) Activate(ctx context.Context) error {
	user, err := a.Session.GetOrCreateUser(ctx, a.defaultProfile)
	if err != nil {
		return err
	}
	a.setUserData(user.Data)
	return nil
}

// UserID returns the actor this scope belongs to.
func (a *App) UserID() string { return a.userID }

// UserData returns the current profile snapshot together with its revision.
// Consumers should key refresh decisions off the revision: a changed
// revision means the snapshot was republished, regardless of whether the
// underlying map reference changed.
func (a *App) UserData() (feedcloud.UserData, uint64) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.userData, a.revision
}

// RefreshUserData re-reads the profile from the service and publishes it as
// a new revision. It is the explicit successor of the original manual
// "changedUserData" signal.
func (a *App) RefreshUserData(ctx context.Context) error {
	user, err := a.Session.GetOrCreateUser(ctx, feedcloud.UserData{})
	if err != nil {
		return err
	}
	a.setUserData(user.Data)
	return nil
}

func (a *App) setUserData(data feedcloud.UserData) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.userData = data
	a.revision++
}

// CurrentFeed derives a feed handle for a nested scope. With no userID the
// feed belongs to this scope's actor.
func (a *App) CurrentFeed(group string, userID ...string) feedcloud.Feed {
	return a.Session.Feed(group, userID...)
}

type appKey struct{}
type feedKey struct{}

// NewContext returns a context carrying app for all descendants.
func NewContext(ctx context.Context, app *App) context.Context {
	return context.WithValue(ctx, appKey{}, app)
}

// FromContext returns the App published to ctx, or nil when none is set.
func FromContext(ctx context.Context) *App {
	app, _ := ctx.Value(appKey{}).(*App)
	return app
}

// NewFeedContext republishes a current-feed handle to a narrower scope.
func NewFeedContext(ctx context.Context, feed feedcloud.Feed) context.Context {
	return context.WithValue(ctx, feedKey{}, feed)
}

// FeedFromContext returns the current feed published to ctx, or nil.
func FeedFromContext(ctx context.Context) feedcloud.Feed {
	feed, _ := ctx.Value(feedKey{}).(feedcloud.Feed)
	return feed
}
