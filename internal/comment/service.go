package comment

import (
	"context"
	"log"
	"time"

	"comment-service/internal/post"
	"comment-service/internal/shared/db"
	"comment-service/internal/shared/metrics"
	"comment-service/internal/shared/validate"
	"comment-service/internal/user"
)

type PostStore interface {
	FindByID(ctx context.Context, id uint64) (*post.Post, error)
}

type UserStore interface {
	FindByUsername(ctx context.Context, username string) (*user.User, error)
}

type Transactor interface {
	InTx(ctx context.Context, mode db.TxMode, fn func(ctx context.Context) error) error
}

type Service interface {
	ListByPost(ctx context.Context, postID uint64) ([]View, error)
	Create(ctx context.Context, username string, in CreateReq) (*View, error)
	Modify(ctx context.Context, username string, commentID uint64, in ModifyReq) (*View, error)
	Delete(ctx context.Context, username string, commentID uint64) (DeleteResult, error)
	CountByPost(ctx context.Context, postID uint64) (int64, error)
}

// Deps are the collaborators of the comment service. Events, Counts and
// Metrics are optional.
type Deps struct {
	Posts    PostStore
	Users    UserStore
	Comments Repository
	Tx       Transactor
	Events   Publisher
	Counts   CountCache
	Metrics  metrics.Recorder
}

type service struct {
	posts    PostStore
	users    UserStore
	comments Repository
	tx       Transactor
	events   Publisher
	counts   CountCache
	metrics  metrics.Recorder
}

func NewService(d Deps) Service {
	s := &service{
		posts:    d.Posts,
		users:    d.Users,
		comments: d.Comments,
		tx:       d.Tx,
		events:   d.Events,
		counts:   d.Counts,
		metrics:  d.Metrics,
	}
	if s.events == nil {
		s.events = nopPublisher{}
	}
	if s.counts == nil {
		s.counts = nopCountCache{}
	}
	if s.metrics == nil {
		s.metrics = metrics.Nop{}
	}
	return s
}

func (s *service) ListByPost(ctx context.Context, postID uint64) (out []View, err error) {
	defer func(start time.Time) { s.metrics.Observe("list", start, err) }(time.Now())

	err = s.tx.InTx(ctx, db.ReadOnly, func(ctx context.Context) error {
		if _, err := s.posts.FindByID(ctx, postID); err != nil {
			return err
		}
		items, err := s.comments.FindAllByPost(ctx, postID)
		if err != nil {
			return err
		}
		out = make([]View, 0, len(items))
		for i := range items {
			out = append(out, items[i].View())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *service) Create(ctx context.Context, username string, in CreateReq) (_ *View, err error) {
	defer func(start time.Time) { s.metrics.Observe("create", start, err) }(time.Now())

	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	log.Printf("[comment] %s writes on post %d", username, in.PostID)

	var c *Comment
	err = s.tx.InTx(ctx, db.ReadWrite, func(ctx context.Context) error {
		u, err := s.users.FindByUsername(ctx, username)
		if err != nil {
			return err
		}
		p, err := s.posts.FindByID(ctx, in.PostID)
		if err != nil {
			return err
		}
		c = New(u, p, in.Content)
		return s.comments.Save(ctx, c)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateCount(ctx, c.PostID)
	s.publish(ctx, EventCreated, c)
	v := c.View()
	return &v, nil
}

func (s *service) Modify(ctx context.Context, username string, commentID uint64, in ModifyReq) (_ *View, err error) {
	defer func(start time.Time) { s.metrics.Observe("modify", start, err) }(time.Now())

	if err := validate.Struct(in); err != nil {
		return nil, err
	}

	var c *Comment
	err = s.tx.InTx(ctx, db.ReadWrite, func(ctx context.Context) error {
		found, err := s.owned(ctx, username, commentID)
		if err != nil {
			return err
		}
		c = found
		c.Modify(in.Content)
		return s.comments.Save(ctx, c)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, EventModified, c)
	v := c.View()
	return &v, nil
}

func (s *service) Delete(ctx context.Context, username string, commentID uint64) (_ DeleteResult, err error) {
	defer func(start time.Time) { s.metrics.Observe("delete", start, err) }(time.Now())

	var c *Comment
	err = s.tx.InTx(ctx, db.ReadWrite, func(ctx context.Context) error {
		found, err := s.owned(ctx, username, commentID)
		if err != nil {
			return err
		}
		c = found
		return s.comments.Delete(ctx, c)
	})
	if err != nil {
		return DeleteResult{}, err
	}

	s.invalidateCount(ctx, c.PostID)
	s.publish(ctx, EventDeleted, c)
	return Deleted, nil
}

func (s *service) CountByPost(ctx context.Context, postID uint64) (n int64, err error) {
	defer func(start time.Time) { s.metrics.Observe("count", start, err) }(time.Now())

	var (
		snap CountSnapshot
		cerr error
	)
	err = s.tx.InTx(ctx, db.ReadOnly, func(ctx context.Context) error {
		if _, err := s.posts.FindByID(ctx, postID); err != nil {
			return err
		}
		snap, cerr = s.counts.Get(ctx, postID)
		return nil
	})
	if err != nil {
		return 0, err
	}
	if cerr != nil {
		log.Printf("[comment] count cache get post=%d: %v", postID, cerr)
	} else if snap.Hit {
		return snap.N, nil
	}

	// Misses count on the primary; a lagging replica must not be cached.
	err = s.tx.InTx(ctx, db.ReadWrite, func(ctx context.Context) error {
		count, err := s.comments.CountByPost(ctx, postID)
		if err != nil {
			return err
		}
		n = count
		return nil
	})
	if err != nil {
		return 0, err
	}
	if cerr == nil {
		if serr := s.counts.Set(ctx, postID, n, snap.Version); serr != nil {
			log.Printf("[comment] count cache set post=%d: %v", postID, serr)
		}
	}
	return n, nil
}

// owned resolves the acting user before the comment and rejects comments
// written by someone else.
func (s *service) owned(ctx context.Context, username string, commentID uint64) (*Comment, error) {
	u, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	c, err := s.comments.FindByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if !c.OwnedBy(u) {
		return nil, ErrPermissionDenied
	}
	return c, nil
}

func (s *service) invalidateCount(ctx context.Context, postID uint64) {
	if err := s.counts.Invalidate(ctx, postID); err != nil {
		log.Printf("[comment] count cache invalidate post=%d: %v", postID, err)
	}
}

func (s *service) publish(ctx context.Context, t EventType, c *Comment) {
	if err := s.events.Publish(ctx, NewEvent(t, c)); err != nil {
		log.Printf("[comment] publish %s comment=%d: %v", t, c.ID, err)
	}
}
