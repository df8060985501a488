package feedcloud

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// latestReactionsPerKind caps how many reactions an enriched read returns
// per kind, mirroring the service's recent-reactions window.
const latestReactionsPerKind = 5

// MemoryClient is an in-process implementation of the feed service contract.
// It reproduces the vendor's idempotency semantics: get-or-create profiles,
// no-op duplicate follows, and conflicts for duplicate activities, reaction
// ids and collection keys. It backs the test suite and the CLI's offline
// dry-run mode; restarting loses everything.
type MemoryClient struct {
	mu          sync.Mutex
	users       map[string]UserData
	follows     map[string]map[string]bool // follower id -> followee ids
	feeds       map[string][]*Activity     // "group:user" -> newest-last
	foreignIDs  map[string]bool            // feed key + foreign id + time
	reactions   map[string]*Reaction       // by reaction id
	byActivity  map[string][]*Reaction     // activity id -> newest-last
	collections map[string]map[string]*Object
	engagements map[string][]Engagement // user id -> events, oldest first
	impressions map[string][]Impression
	nextID      int
}

// NewMemoryClient returns an empty in-memory backend.
func NewMemoryClient() *MemoryClient {
	return &MemoryClient{
		users:       make(map[string]UserData),
		follows:     make(map[string]map[string]bool),
		feeds:       make(map[string][]*Activity),
		foreignIDs:  make(map[string]bool),
		reactions:   make(map[string]*Reaction),
		byActivity:  make(map[string][]*Reaction),
		collections: make(map[string]map[string]*Object),
		engagements: make(map[string][]Engagement),
		impressions: make(map[string][]Impression),
	}
}

// CreateUserToken returns a deterministic stand-in token. The memory backend
// performs no verification, matching the contract that credential problems
// only ever surface from the real service.
func (c *MemoryClient) CreateUserToken(userID string) (string, error) {
	return "memory-token-" + userID, nil
}

// Session binds a user id into a session. The token is accepted unchecked.
func (c *MemoryClient) Session(userID, token string) (Session, error) {
	return &memorySession{client: c, userID: userID}, nil
}

// Analytics returns a tracker that records events in memory under userID.
func (c *MemoryClient) Analytics(userID string) Analytics {
	return &memoryAnalytics{client: c, userID: userID}
}

// Engagements returns the engagement events tracked for userID, oldest first.
func (c *MemoryClient) Engagements(userID string) []Engagement {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Engagement(nil), c.engagements[userID]...)
}

// Impressions returns the impression events tracked for userID, oldest first.
func (c *MemoryClient) Impressions(userID string) []Impression {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Impression(nil), c.impressions[userID]...)
}

type memoryAnalytics struct {
	client *MemoryClient
	userID string
}

func (a *memoryAnalytics) TrackEngagement(ctx context.Context, e Engagement) error {
	c := a.client
	c.mu.Lock()
	defer c.mu.Unlock()
	c.engagements[a.userID] = append(c.engagements[a.userID], e)
	return nil
}

func (a *memoryAnalytics) TrackImpression(ctx context.Context, imp Impression) error {
	c := a.client
	c.mu.Lock()
	defer c.mu.Unlock()
	c.impressions[a.userID] = append(c.impressions[a.userID], imp)
	return nil
}

func feedKey(group, userID string) string {
	return group + ":" + userID
}

type memorySession struct {
	client *MemoryClient
	userID string
}

func (s *memorySession) UserID() string { return s.userID }

func (s *memorySession) GetOrCreateUser(ctx context.Context, data UserData) (*User, error) {
	c := s.client
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.users[s.userID]; ok {
		return &User{ID: s.userID, Data: existing}, nil
	}
	if data == nil {
		data = UserData{}
	}
	c.users[s.userID] = data
	return &User{ID: s.userID, Data: data}, nil
}

func (s *memorySession) Follow(ctx context.Context, targetUserID string) error {
	c := s.client
	c.mu.Lock()
	defer c.mu.Unlock()

	set, ok := c.follows[s.userID]
	if !ok {
		set = make(map[string]bool)
		c.follows[s.userID] = set
	}
	if set[targetUserID] {
		return nil
	}
	set[targetUserID] = true

	// Backfill: existing activities on the target's user feed become
	// visible on the new follower's timeline, as the service does.
	src := c.feeds[feedKey("user", targetUserID)]
	dst := feedKey("timeline", s.userID)
	c.feeds[dst] = append(c.feeds[dst], src...)
	return nil
}

func (s *memorySession) Feed(group string, userID ...string) Feed {
	owner := s.userID
	if len(userID) > 0 && userID[0] != "" {
		owner = userID[0]
	}
	return &memoryFeed{client: s.client, group: group, userID: owner, readerID: s.userID}
}

func (s *memorySession) AddReaction(ctx context.Context, r Reaction) (*Reaction, error) {
	c := s.client
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.reactions[r.ID]; ok {
		return nil, NewConflictError(fmt.Sprintf("reaction %q already exists", r.ID))
	}
	stored := r
	stored.UserID = s.userID
	c.reactions[r.ID] = &stored
	c.byActivity[r.ActivityID] = append(c.byActivity[r.ActivityID], &stored)
	return &stored, nil
}

func (s *memorySession) Collection(name string) ObjectStore {
	return &memoryCollection{client: s.client, name: name}
}

type memoryFeed struct {
	client   *MemoryClient
	group    string
	userID   string
	readerID string
}

func (f *memoryFeed) Group() string  { return f.group }
func (f *memoryFeed) UserID() string { return f.userID }

func (f *memoryFeed) AddActivity(ctx context.Context, a Activity) (*Activity, error) {
	c := f.client
	c.mu.Lock()
	defer c.mu.Unlock()

	key := feedKey(f.group, f.userID)
	dedupe := fmt.Sprintf("%s|%s|%d", key, a.ForeignID, a.Time.UnixNano())
	if a.ForeignID != "" && c.foreignIDs[dedupe] {
		return nil, NewConflictError(fmt.Sprintf("activity %q already exists on %s", a.ForeignID, key))
	}

	c.nextID++
	stored := a
	stored.ID = fmt.Sprintf("activity-%d", c.nextID)
	if a.ForeignID != "" {
		c.foreignIDs[dedupe] = true
	}
	c.feeds[key] = append(c.feeds[key], &stored)

	// Fan out user-feed posts to the timelines of current followers.
	if f.group == "user" {
		for follower, set := range c.follows {
			if set[f.userID] {
				tk := feedKey("timeline", follower)
				c.feeds[tk] = append(c.feeds[tk], &stored)
			}
		}
	}
	return &stored, nil
}

func (f *memoryFeed) Activities(ctx context.Context, opts ...ReadOption) ([]*EnrichedActivity, error) {
	o := applyReadOptions(opts)

	c := f.client
	c.mu.Lock()
	defer c.mu.Unlock()

	src := c.feeds[feedKey(f.group, f.userID)]
	out := make([]*EnrichedActivity, 0, len(src))
	for _, a := range src {
		ea := &EnrichedActivity{Activity: *a}
		if o.reactionCounts {
			ea.ReactionCounts = make(map[string]int)
			for _, r := range c.byActivity[a.ID] {
				ea.ReactionCounts[r.Kind]++
			}
		}
		if o.ownReactions {
			ea.OwnReactions = make(map[string][]*Reaction)
			for _, r := range c.byActivity[a.ID] {
				if r.UserID == f.readerID {
					ea.OwnReactions[r.Kind] = append(ea.OwnReactions[r.Kind], r)
				}
			}
		}
		if o.recentReactions {
			ea.LatestReactions = make(map[string][]*Reaction)
			for i := len(c.byActivity[a.ID]) - 1; i >= 0; i-- {
				r := c.byActivity[a.ID][i]
				if len(ea.LatestReactions[r.Kind]) < latestReactionsPerKind {
					ea.LatestReactions[r.Kind] = append(ea.LatestReactions[r.Kind], r)
				}
			}
		}
		out = append(out, ea)
	}

	// Newest first, as the service returns feeds.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Time.After(out[j].Time)
	})
	if o.limit > 0 && len(out) > o.limit {
		out = out[:o.limit]
	}
	return out, nil
}

type memoryCollection struct {
	client *MemoryClient
	name   string
}

func (mc *memoryCollection) Add(ctx context.Context, key string, data map[string]any) (*Object, error) {
	c := mc.client
	c.mu.Lock()
	defer c.mu.Unlock()

	coll, ok := c.collections[mc.name]
	if !ok {
		coll = make(map[string]*Object)
		c.collections[mc.name] = coll
	}
	if _, exists := coll[key]; exists {
		return nil, NewConflictError(fmt.Sprintf("object %q already exists in %q", key, mc.name))
	}
	obj := &Object{Collection: mc.name, ID: key, Data: data}
	coll[key] = obj
	return obj, nil
}

func (mc *memoryCollection) Get(ctx context.Context, key string) (*Object, error) {
	c := mc.client
	c.mu.Lock()
	defer c.mu.Unlock()

	obj, ok := c.collections[mc.name][key]
	if !ok {
		return nil, NewNotFoundError(fmt.Sprintf("object %q not found in %q", key, mc.name))
	}
	return obj, nil
}
