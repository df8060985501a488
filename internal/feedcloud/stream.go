package feedcloud

import (
	"context"
	"fmt"

	stream "github.com/GetStream/stream-go2/v8"
)

// StreamConfig carries the application credentials for the hosted service.
type StreamConfig struct {
	APIKey    string
	APISecret string
	AppID     string
	// Region optionally targets a non-default API region. The SDK models
	// base-URL overrides as regions.
	Region string
}

// StreamClient adapts the official vendor SDK to the Client interface. It
// contains no logic of its own beyond type mapping and translating SDK API
// errors into *Error values.
type StreamClient struct {
	client *stream.Client
}

// NewStreamClient constructs the shared top-level client. Credentials are not
// validated here beyond what the SDK itself requires; blank values fail at
// first use with whatever the service reports.
func NewStreamClient(cfg StreamConfig) (*StreamClient, error) {
	var opts []stream.ClientOption
	if cfg.Region != "" {
		opts = append(opts, stream.WithAPIRegion(cfg.Region))
	}
	c, err := stream.New(cfg.APIKey, cfg.APISecret, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect feed service: %w", err)
	}
	return &StreamClient{client: c}, nil
}

// CreateUserToken signs a per-user token with the application secret.
func (c *StreamClient) CreateUserToken(userID string) (string, error) {
	token, err := c.client.CreateUserToken(userID)
	if err != nil {
		return "", fmt.Errorf("sign token for %s: %w", userID, err)
	}
	return token, nil
}

// Session binds a user id and signed token into a session handle.
func (c *StreamClient) Session(userID, token string) (Session, error) {
	return &streamSession{client: c.client, userID: userID, token: token}, nil
}

// Analytics returns the SDK-backed event tracker bound to userID.
func (c *StreamClient) Analytics(userID string) Analytics {
	return &streamAnalytics{client: c.client, userID: userID}
}

type streamAnalytics struct {
	client *stream.Client
	userID string
}

func (a *streamAnalytics) TrackEngagement(ctx context.Context, e Engagement) error {
	ev := stream.EngagementEvent{}.
		WithLabel(e.Label).
		WithForeignID(e.Content).
		WithUserData(stream.NewUserData().String(a.userID))
	if e.FeedID != "" {
		ev = ev.WithFeedID(e.FeedID)
	}
	if e.Position > 0 {
		ev = ev.WithPosition(e.Position)
	}
	if e.Boost != 0 {
		ev = ev.WithBoost(e.Boost)
	}
	if _, err := a.client.Analytics().TrackEngagement(ctx, ev); err != nil {
		return wrapStreamError(err)
	}
	return nil
}

func (a *streamAnalytics) TrackImpression(ctx context.Context, imp Impression) error {
	data := stream.ImpressionEventsData{}.
		WithForeignIDs(imp.ForeignIDs...).
		WithUserData(stream.NewUserData().String(a.userID))
	if imp.FeedID != "" {
		data = data.WithFeedID(imp.FeedID)
	}
	if imp.Position > 0 {
		data = data.WithPosition(imp.Position)
	}
	if _, err := a.client.Analytics().TrackImpression(ctx, data); err != nil {
		return wrapStreamError(err)
	}
	return nil
}

type streamSession struct {
	client *stream.Client
	userID string
	token  string
}

func (s *streamSession) UserID() string { return s.userID }

func (s *streamSession) GetOrCreateUser(ctx context.Context, data UserData) (*User, error) {
	if data == nil {
		data = UserData{}
	}
	_, err := s.client.Users().Add(ctx, stream.User{ID: s.userID, Data: data}, true)
	if err != nil {
		return nil, wrapStreamError(err)
	}
	return &User{ID: s.userID, Data: data}, nil
}

func (s *streamSession) Follow(ctx context.Context, targetUserID string) error {
	timeline, err := s.client.FlatFeed("timeline", s.userID)
	if err != nil {
		return wrapStreamError(err)
	}
	target, err := s.client.FlatFeed("user", targetUserID)
	if err != nil {
		return wrapStreamError(err)
	}
	if _, err := timeline.Follow(ctx, target); err != nil {
		return wrapStreamError(err)
	}
	return nil
}

func (s *streamSession) Feed(group string, userID ...string) Feed {
	owner := s.userID
	if len(userID) > 0 && userID[0] != "" {
		owner = userID[0]
	}
	return &streamFeed{client: s.client, group: group, userID: owner}
}

func (s *streamSession) AddReaction(ctx context.Context, r Reaction) (*Reaction, error) {
	req := stream.AddReactionRequestObject{
		ID:         r.ID,
		Kind:       r.Kind,
		ActivityID: r.ActivityID,
		UserID:     s.userID,
		Data:       r.Data,
	}
	if _, err := s.client.Reactions().Add(ctx, req); err != nil {
		return nil, wrapStreamError(err)
	}
	stored := r
	stored.UserID = s.userID
	return &stored, nil
}

func (s *streamSession) Collection(name string) ObjectStore {
	return &streamCollection{client: s.client, name: name}
}

type streamCollection struct {
	client *stream.Client
	name   string
}

func (c *streamCollection) Add(ctx context.Context, key string, data map[string]any) (*Object, error) {
	obj := stream.CollectionObject{ID: key, Data: data}
	resp, err := c.client.Collections().Add(ctx, c.name, obj)
	if err != nil {
		return nil, wrapStreamError(err)
	}
	return &Object{Collection: c.name, ID: resp.ID, Data: resp.Data}, nil
}

func (c *streamCollection) Get(ctx context.Context, key string) (*Object, error) {
	resp, err := c.client.Collections().Get(ctx, c.name, key)
	if err != nil {
		return nil, wrapStreamError(err)
	}
	return &Object{Collection: c.name, ID: resp.ID, Data: resp.Data}, nil
}

type streamFeed struct {
	client *stream.Client
	group  string
	userID string
}

func (f *streamFeed) Group() string  { return f.group }
func (f *streamFeed) UserID() string { return f.userID }

func (f *streamFeed) AddActivity(ctx context.Context, a Activity) (*Activity, error) {
	feed, err := f.client.FlatFeed(f.group, f.userID)
	if err != nil {
		return nil, wrapStreamError(err)
	}
	act := stream.Activity{
		Actor:     a.Actor,
		Verb:      a.Verb,
		Object:    a.Object,
		ForeignID: a.ForeignID,
		Time:      stream.Time{Time: a.Time},
		Extra:     map[string]any{},
	}
	if a.Content != "" {
		act.Extra["content"] = a.Content
	}
	for k, v := range a.Extra {
		act.Extra[k] = v
	}
	resp, err := feed.AddActivity(ctx, act)
	if err != nil {
		return nil, wrapStreamError(err)
	}
	stored := a
	stored.ID = resp.Activity.ID
	return &stored, nil
}

func (f *streamFeed) Activities(ctx context.Context, opts ...ReadOption) ([]*EnrichedActivity, error) {
	o := applyReadOptions(opts)

	feed, err := f.client.FlatFeed(f.group, f.userID)
	if err != nil {
		return nil, wrapStreamError(err)
	}
	var reqOpts []stream.GetActivitiesOption
	if o.reactionCounts {
		reqOpts = append(reqOpts, stream.WithEnrichReactionCounts())
	}
	if o.ownReactions {
		reqOpts = append(reqOpts, stream.WithEnrichOwnReactions())
	}
	if o.recentReactions {
		reqOpts = append(reqOpts, stream.WithEnrichRecentReactions())
	}
	if o.limit > 0 {
		reqOpts = append(reqOpts, stream.WithActivitiesLimit(o.limit))
	}
	resp, err := feed.GetEnrichedActivities(ctx, reqOpts...)
	if err != nil {
		return nil, wrapStreamError(err)
	}

	out := make([]*EnrichedActivity, 0, len(resp.Results))
	for i := range resp.Results {
		out = append(out, fromEnriched(&resp.Results[i]))
	}
	return out, nil
}

func fromEnriched(ea *stream.EnrichedActivity) *EnrichedActivity {
	content, _ := ea.Extra["content"].(string)
	res := &EnrichedActivity{
		Activity: Activity{
			ID:        ea.ID,
			ForeignID: ea.ForeignID,
			Time:      ea.Time.Time,
			Actor:     ea.Actor.ID,
			Verb:      ea.Verb,
			Object:    ea.Object.ID,
			Content:   content,
			Extra:     ea.Extra,
		},
		ReactionCounts:  map[string]int{},
		OwnReactions:    map[string][]*Reaction{},
		LatestReactions: map[string][]*Reaction{},
	}
	for kind, n := range ea.ReactionCounts {
		res.ReactionCounts[kind] = n
	}
	for kind, rs := range ea.OwnReactions {
		res.OwnReactions[kind] = fromEnrichedReactions(rs)
	}
	for kind, rs := range ea.LatestReactions {
		res.LatestReactions[kind] = fromEnrichedReactions(rs)
	}
	return res
}

func fromEnrichedReactions(rs []*stream.EnrichedReaction) []*Reaction {
	out := make([]*Reaction, 0, len(rs))
	for _, r := range rs {
		out = append(out, &Reaction{
			ID:         r.ID,
			Kind:       r.Kind,
			ActivityID: r.ActivityID,
			UserID:     r.UserID,
			Data:       r.Data,
		})
	}
	return out
}

// wrapStreamError converts SDK API errors into *Error so callers can detect
// conflicts with IsConflict. Non-API failures pass through unchanged.
func wrapStreamError(err error) error {
	if apiErr, ok := stream.ToAPIError(err); ok {
		return &Error{
			StatusCode: apiErr.StatusCode,
			Code:       apiErr.Code,
			Detail:     apiErr.Detail,
		}
	}
	return err
}
