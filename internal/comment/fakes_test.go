package comment

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"comment-service/internal/post"
	"comment-service/internal/shared/db"
	"comment-service/internal/user"
)

type fakePosts map[uint64]*post.Post

func (f fakePosts) FindByID(_ context.Context, id uint64) (*post.Post, error) {
	if p, ok := f[id]; ok {
		return p, nil
	}
	return nil, post.ErrNotFound
}

type fakeUsers map[string]*user.User

func (f fakeUsers) FindByUsername(_ context.Context, name string) (*user.User, error) {
	if u, ok := f[name]; ok {
		return u, nil
	}
	return nil, user.ErrNotFound
}

// fakeComments stores copies so callers cannot mutate stored rows in place.
type fakeComments struct {
	mu    sync.Mutex
	rows  map[uint64]Comment
	seq   uint64
	clock time.Time
	err   error

	// afterCount runs once after CountByPost has read the rows.
	afterCount func()
}

func newFakeComments() *fakeComments {
	return &fakeComments{
		rows:  map[uint64]Comment{},
		clock: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (f *fakeComments) FindAllByPost(_ context.Context, postID uint64) ([]Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := []Comment{}
	for _, c := range f.rows {
		if c.PostID == postID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (f *fakeComments) FindByID(_ context.Context, id uint64) (*Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (f *fakeComments) Save(_ context.Context, c *Comment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.clock = f.clock.Add(time.Second)
	if c.ID == 0 {
		f.seq++
		c.ID = f.seq
		c.CreatedAt = f.clock
	}
	c.UpdatedAt = f.clock
	f.rows[c.ID] = *c
	return nil
}

func (f *fakeComments) Delete(_ context.Context, c *Comment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rows, c.ID)
	return nil
}

func (f *fakeComments) CountByPost(ctx context.Context, postID uint64) (int64, error) {
	items, err := f.FindAllByPost(ctx, postID)
	if hook := f.afterCount; hook != nil {
		f.afterCount = nil
		hook()
	}
	return int64(len(items)), err
}

type fakeTx struct{ modes []db.TxMode }

func (f *fakeTx) InTx(ctx context.Context, mode db.TxMode, fn func(ctx context.Context) error) error {
	f.modes = append(f.modes, mode)
	return fn(ctx)
}

type recordingPublisher struct {
	events []Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev Event) error {
	p.events = append(p.events, ev)
	return p.err
}

type fakeCache struct {
	counts      map[uint64]int64
	versions    map[uint64]int64
	invalidated []uint64
	getErr      error
}

func newFakeCache() *fakeCache {
	return &fakeCache{counts: map[uint64]int64{}, versions: map[uint64]int64{}}
}

func (c *fakeCache) Get(_ context.Context, postID uint64) (CountSnapshot, error) {
	if c.getErr != nil {
		return CountSnapshot{}, c.getErr
	}
	n, ok := c.counts[postID]
	return CountSnapshot{N: n, Hit: ok, Version: c.versions[postID]}, nil
}

func (c *fakeCache) Set(_ context.Context, postID uint64, n, version int64) error {
	if c.versions[postID] == version {
		c.counts[postID] = n
	}
	return nil
}

func (c *fakeCache) Invalidate(_ context.Context, postID uint64) error {
	c.invalidated = append(c.invalidated, postID)
	c.versions[postID]++
	delete(c.counts, postID)
	return nil
}

type observation struct {
	op  string
	err error
}

type fakeRecorder struct{ seen []observation }

func (r *fakeRecorder) Observe(op string, _ time.Time, err error) {
	r.seen = append(r.seen, observation{op, err})
}

var errStore = errors.New("store unavailable")

type fixture struct {
	svc      Service
	comments *fakeComments
	tx       *fakeTx
	events   *recordingPublisher
	cache    *fakeCache
	metrics  *fakeRecorder
}

func newFixture() *fixture {
	f := &fixture{
		comments: newFakeComments(),
		tx:       &fakeTx{},
		events:   &recordingPublisher{},
		cache:    newFakeCache(),
		metrics:  &fakeRecorder{},
	}
	f.svc = NewService(Deps{
		Posts: fakePosts{
			1: {ID: 1, Username: "alice", Title: "first"},
			2: {ID: 2, Username: "bob", Title: "second"},
		},
		Users: fakeUsers{
			"alice": {ID: 1, Username: "alice"},
			"bob":   {ID: 2, Username: "bob"},
		},
		Comments: f.comments,
		Tx:       f.tx,
		Events:   f.events,
		Counts:   f.cache,
		Metrics:  f.metrics,
	})
	return f
}
