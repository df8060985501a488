// Package seed implements the one-shot demo dataset workflow: named and
// random user profiles, a fixed follow graph, a handful of activities, a
// stored podcast object, and randomized reaction cohorts fanned out with
// duplicate-conflict tolerance. Every write is idempotent by construction
// (fixed foreign ids, fixed reaction ids, get-or-create upserts), so the
// workflow leans on the service's conflict signal rather than local
// deduplication.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/sync/errgroup"

	"github.com/akerr/feedseed/internal/feedcloud"
)

// randomUserCount is how many random-{i} demo actors get created.
const randomUserCount = 30

// Seeder orchestrates the workflow against one feed client.
type Seeder struct {
	client feedcloud.Client
	log    *slog.Logger
	faker  *gofakeit.Faker
}

// Option customizes a Seeder.
type Option func(*Seeder)

// WithRandomSeed makes the generated random profiles deterministic.
func WithRandomSeed(seed int64) Option {
	return func(s *Seeder) { s.faker = gofakeit.New(seed) }
}

// New creates a Seeder using the shared client. The client is passed in
// explicitly; the workflow holds no global state between runs.
func New(client feedcloud.Client, log *slog.Logger, opts ...Option) *Seeder {
	s := &Seeder{
		client: client,
		log:    log,
		faker:  gofakeit.New(0),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Report is the observational read-back of batman's enriched timeline after
// seeding: the first activity's aggregate reaction counts, the reader's own
// reactions, and the most recent reactions per kind.
type Report struct {
	ReactionCounts  map[string]int
	OwnReactions    map[string][]*feedcloud.Reaction
	LatestReactions map[string][]*feedcloud.Reaction
}

// demoUser pairs a session with its generated profile name so comment
// reactions can mention the author.
type demoUser struct {
	session feedcloud.Session
	name    string
}

// Run executes the whole workflow. Duplicate-conflict responses are
// swallowed only around reaction fan-out and the stored-object fallback;
// any other failure aborts the run. There is no checkpointing: a failed run
// is simply re-run from the start.
func (s *Seeder) Run(ctx context.Context) (*Report, error) {
	batman, err := s.session("batman")
	if err != nil {
		return nil, err
	}
	fluff, err := s.session("fluff")
	if err != nil {
		return nil, err
	}
	league, err := s.session("justiceleague")
	if err != nil {
		return nil, err
	}
	bowie, err := s.session("davidbowie")
	if err != nil {
		return nil, err
	}

	s.log.Info("seeding named profiles")
	for _, p := range []struct {
		session feedcloud.Session
		data    feedcloud.UserData
	}{
		{batman, batmanProfile},
		{fluff, fluffProfile},
		{league, leagueProfile},
		{bowie, bowieProfile},
	} {
		if _, err := p.session.GetOrCreateUser(ctx, p.data); err != nil {
			return nil, fmt.Errorf("seed profile %s: %w", p.session.UserID(), err)
		}
	}

	randoms, err := s.seedRandomUsers(ctx)
	if err != nil {
		return nil, err
	}

	s.log.Info("establishing follow graph")
	follows := []struct{ follower, followee feedcloud.Session }{
		{batman, fluff},
		{batman, bowie},
		{batman, league},
		{league, batman},
	}
	for _, f := range follows {
		if err := f.follower.Follow(ctx, f.followee.UserID()); err != nil {
			return nil, fmt.Errorf("follow %s -> %s: %w", f.follower.UserID(), f.followee.UserID(), err)
		}
	}

	s.log.Info("posting activities")
	// Fixed foreign ids and timestamps make re-posting these a conflict
	// rather than a silent duplicate. Unlike the reaction fan-out below,
	// activity creation is not conflict-wrapped, so a full re-run fails
	// here first.
	fluffActivity, err := fluff.Feed("user").AddActivity(ctx, feedcloud.Activity{
		ForeignID: "fluff-2",
		Time:      time.Date(2018, 7, 19, 13, 23, 47, 0, time.UTC),
		Actor:     fluff.UserID(),
		Verb:      "comment",
		Object:    fluff.UserID(),
		Content:   "Great podcast with @getstream and @feeds! Thanks guys!",
	})
	if err != nil {
		return nil, fmt.Errorf("post fluff activity: %w", err)
	}

	leagueActivity, err := league.Feed("user").AddActivity(ctx, feedcloud.Activity{
		ForeignID: "league-2",
		Time:      time.Date(2018, 7, 19, 13, 15, 12, 0, time.UTC),
		Actor:     league.UserID(),
		Verb:      "post",
		Object:    "-",
		Content:   "Wonder Woman is going to be great!",
		Extra: map[string]any{
			"image": "http://www.comingsoon.net/assets/uploads/2018/01/justice_league_2017___diana_hq___v2_by_duck_of_satan-db3kq6k.jpg",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("post league activity: %w", err)
	}

	podcast, err := s.podcastObject(ctx, bowie)
	if err != nil {
		return nil, err
	}

	bowieActivity, err := bowie.Feed("user").AddActivity(ctx, feedcloud.Activity{
		ForeignID: "bowie-2",
		Time:      time.Date(2018, 7, 19, 13, 12, 29, 0, time.UTC),
		Actor:     bowie.UserID(),
		Verb:      "repost",
		Object:    podcast.Collection + ":" + podcast.ID,
		Content:   "Great podcast with @getstream and @feeds! Thanks guys!",
	})
	if err != nil {
		return nil, fmt.Errorf("post bowie activity: %w", err)
	}

	s.log.Info("fanning out reactions")
	cohorts := []reactionCohort{
		{lo: 1, hi: 20, kind: "heart", target: fluffActivity, idPrefix: "random-heart-fluff"},
		{lo: 1, hi: 5, kind: "repost", target: fluffActivity, idPrefix: "random-repost-fluff"},
		{lo: 7, hi: 9, kind: "comment", target: fluffActivity, idPrefix: "random-comment-fluff",
			commentText: func(name string) string {
				return fmt.Sprintf("Oh yeah! %s loves this!", name)
			}},
		{lo: 22, hi: 26, kind: "heart", target: leagueActivity, idPrefix: "random-heart-wonderwomen"},
		// The heart cohort on the league activity runs a second time on
		// purpose; the fixed reaction ids turn the repeat into conflicts.
		{lo: 22, hi: 26, kind: "heart", target: leagueActivity, idPrefix: "random-heart-wonderwomen"},
		{lo: 12, hi: 19, kind: "comment", target: bowieActivity, idPrefix: "random-comment-bowie",
			commentText: func(name string) string {
				return fmt.Sprintf("%s thinks this is the best podcast ever!", name)
			}},
	}
	for _, c := range cohorts {
		if err := s.reactCohort(ctx, randoms, c); err != nil {
			return nil, fmt.Errorf("react %s on %s: %w", c.kind, c.target.ForeignID, err)
		}
	}

	if err := ignoreConflict(func() error {
		_, err := batman.AddReaction(ctx, feedcloud.Reaction{
			ID:         "batman-heart-fluff",
			Kind:       "heart",
			ActivityID: fluffActivity.ID,
		})
		return err
	}); err != nil {
		return nil, fmt.Errorf("batman heart: %w", err)
	}

	return s.readBack(ctx, batman)
}

// session signs a per-user token with the shared client and binds it into a
// session. All demo actors are produced this way.
func (s *Seeder) session(userID string) (feedcloud.Session, error) {
	token, err := s.client.CreateUserToken(userID)
	if err != nil {
		return nil, fmt.Errorf("create session %s: %w", userID, err)
	}
	sess, err := s.client.Session(userID, token)
	if err != nil {
		return nil, fmt.Errorf("create session %s: %w", userID, err)
	}
	return sess, nil
}

// seedRandomUsers creates the random-{i} sessions sequentially, then upserts
// all profiles concurrently. The join is fail-fast: one bad member fails the
// whole batch, which is acceptable for a one-shot script.
func (s *Seeder) seedRandomUsers(ctx context.Context) ([]demoUser, error) {
	s.log.Info("seeding random profiles", "count", randomUserCount)

	users := make([]demoUser, 0, randomUserCount)
	for i := 0; i < randomUserCount; i++ {
		sess, err := s.session(fmt.Sprintf("random-%d", i))
		if err != nil {
			return nil, err
		}
		users = append(users, demoUser{session: sess, name: s.faker.Name()})
	}

	var g errgroup.Group
	for _, u := range users {
		u := u
		data := feedcloud.UserData{
			"name":         u.name,
			"profileImage": s.faker.ImageURL(300, 300),
			"desc":         s.faker.Sentence(6),
		}
		g.Go(func() error {
			_, err := u.session.GetOrCreateUser(ctx, data)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("seed random profiles: %w", err)
	}
	return users, nil
}

// podcastObject creates the podcast record, falling back to a fetch when
// creation fails. Any creation error triggers the fallback, not just
// conflicts; a transport failure would wrongly read instead of propagate.
// Known gap, kept for fidelity with the source behavior.
func (s *Seeder) podcastObject(ctx context.Context, bowie feedcloud.Session) (*feedcloud.Object, error) {
	store := bowie.Collection("podcast")
	obj, err := store.Add(ctx, "hello-world-podcast", map[string]any{
		"title":       "Hello World",
		"description": "This is ground control for mayor Tom",
	})
	if err != nil {
		s.log.Debug("podcast create failed, fetching existing", "error", err)
		obj, err = store.Get(ctx, "hello-world-podcast")
		if err != nil {
			return nil, fmt.Errorf("get podcast object: %w", err)
		}
	}
	return obj, nil
}

// reactionCohort is one slice of the random-actor list reacting to a single
// activity with a fixed kind. The slice-local index forms the reaction id
// suffix, so re-running a cohort reproduces the same ids.
type reactionCohort struct {
	lo, hi      int
	kind        string
	target      *feedcloud.Activity
	idPrefix    string
	commentText func(name string) string
}

// reactCohort issues every reaction in the cohort concurrently and swallows
// duplicate-id conflicts for the batch as a whole. The group deliberately
// carries no cancellation: a conflicting member must not abort its siblings.
func (s *Seeder) reactCohort(ctx context.Context, users []demoUser, c reactionCohort) error {
	return ignoreConflict(func() error {
		var g errgroup.Group
		for i, u := range users[c.lo:c.hi] {
			i, u := i, u
			g.Go(func() error {
				r := feedcloud.Reaction{
					ID:         fmt.Sprintf("%s-%d", c.idPrefix, i),
					Kind:       c.kind,
					ActivityID: c.target.ID,
				}
				if c.commentText != nil {
					r.Data = map[string]any{"text": c.commentText(u.name)}
				}
				_, err := u.session.AddReaction(ctx, r)
				return err
			})
		}
		return g.Wait()
	})
}

// readBack fetches batman's enriched timeline and reports the first
// result's reaction fields. Purely observational; no further writes.
func (s *Seeder) readBack(ctx context.Context, batman feedcloud.Session) (*Report, error) {
	activities, err := batman.Feed("timeline").Activities(ctx,
		feedcloud.WithReactionCounts(),
		feedcloud.WithOwnReactions(),
		feedcloud.WithRecentReactions(),
	)
	if err != nil {
		return nil, fmt.Errorf("read back timeline: %w", err)
	}
	if len(activities) == 0 {
		s.log.Warn("timeline read-back returned no activities")
		return &Report{}, nil
	}

	first := activities[0]
	return &Report{
		ReactionCounts:  first.ReactionCounts,
		OwnReactions:    first.OwnReactions,
		LatestReactions: first.LatestReactions,
	}, nil
}

// ignoreConflict runs one unit of work and swallows the service's
// duplicate-write signal. Every other error, including non-service
// failures, propagates.
func ignoreConflict(fn func() error) error {
	if err := fn(); err != nil && !feedcloud.IsConflict(err) {
		return err
	}
	return nil
}
