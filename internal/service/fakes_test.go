package service

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/maheshrc27/postflow/internal/models"
	"github.com/maheshrc27/postflow/internal/publisher"
	"github.com/stretchr/testify/mock"
)

var errDB = errors.New("connection refused")

type statusWrite struct {
	ID            int64
	Status        models.PostStatus
	PublishedDate *time.Time
}

type fakePostRepo struct {
	mu       sync.Mutex
	posts    map[int64]*models.ScheduledPost
	getErr   error
	dueErr   error
	claimErr error
	writeErr error
	claimed  map[int64]bool
	writes   []statusWrite
}

func newFakePostRepo(posts ...*models.ScheduledPost) *fakePostRepo {
	r := &fakePostRepo{posts: map[int64]*models.ScheduledPost{}, claimed: map[int64]bool{}}
	for _, p := range posts {
		r.posts[p.ID] = p
	}
	return r
}

func (r *fakePostRepo) GetByID(ctx context.Context, id int64) (*models.ScheduledPost, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	p, ok := r.posts[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakePostRepo) Create(ctx context.Context, tx *sql.Tx, post *models.ScheduledPost) (int64, error) {
	return 0, errors.New("not implemented")
}

func (r *fakePostRepo) Update(ctx context.Context, tx *sql.Tx, post *models.ScheduledPost) error {
	return errors.New("not implemented")
}

func (r *fakePostRepo) ListByUserID(ctx context.Context, userID int64, status models.PostStatus) ([]*models.ScheduledPost, error) {
	return nil, errors.New("not implemented")
}

func (r *fakePostRepo) ListDue(ctx context.Context, start, end time.Time) ([]*models.ScheduledPost, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.dueErr != nil {
		return nil, r.dueErr
	}
	w := models.DueWindow{Start: start, End: end}
	var due []*models.ScheduledPost
	for _, p := range r.posts {
		if p.IsDue(w) {
			cp := *p
			due = append(due, &cp)
		}
	}
	return due, nil
}

func (r *fakePostRepo) UpdateStatus(ctx context.Context, id int64, status models.PostStatus, publishedDate *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.writeErr != nil {
		return r.writeErr
	}
	r.writes = append(r.writes, statusWrite{ID: id, Status: status, PublishedDate: publishedDate})
	if p, ok := r.posts[id]; ok {
		p.Status = status
		if publishedDate != nil {
			p.PublishedDate = publishedDate
		}
		p.ClaimedAt = nil
	}
	delete(r.claimed, id)
	return nil
}

func (r *fakePostRepo) Claim(ctx context.Context, id int64, now, staleBefore time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.claimErr != nil {
		return false, r.claimErr
	}
	p, ok := r.posts[id]
	if !ok || p.Status != models.PostStatusPending || r.claimed[id] {
		return false, nil
	}
	r.claimed[id] = true
	return true, nil
}

func (r *fakePostRepo) CheckByUserID(ctx context.Context, postID, userID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[postID]
	return ok && p.UserID == userID, nil
}

func (r *fakePostRepo) Remove(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.posts, id)
	return nil
}

func (r *fakePostRepo) statusWrites() []statusWrite {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]statusWrite(nil), r.writes...)
}

type fakePlatformRepo struct {
	mu        sync.Mutex
	rows      map[int64][]*models.PostPlatform
	listErr   error
	updateErr map[int64]error
	updates   int
}

func newFakePlatformRepo(rows ...*models.PostPlatform) *fakePlatformRepo {
	r := &fakePlatformRepo{rows: map[int64][]*models.PostPlatform{}, updateErr: map[int64]error{}}
	for _, pp := range rows {
		r.rows[pp.PostID] = append(r.rows[pp.PostID], pp)
	}
	return r
}

func (r *fakePlatformRepo) Create(ctx context.Context, tx *sql.Tx, pp *models.PostPlatform) (int64, error) {
	return 0, errors.New("not implemented")
}

func (r *fakePlatformRepo) ListByPostID(ctx context.Context, postID int64) ([]*models.PostPlatform, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []*models.PostPlatform
	for _, pp := range r.rows[postID] {
		cp := *pp
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakePlatformRepo) ListByPostIDs(ctx context.Context, postIDs []int64) (map[int64][]*models.PostPlatform, error) {
	return nil, errors.New("not implemented")
}

func (r *fakePlatformRepo) UpdateStatus(ctx context.Context, id int64, status models.PlatformStatus, errorMessage, platformPostID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := r.updateErr[id]; err != nil {
		return err
	}
	r.updates++
	for _, rows := range r.rows {
		for _, pp := range rows {
			if pp.ID == id {
				pp.Status = status
				pp.ErrorMessage = errorMessage
				if platformPostID != "" {
					pp.PlatformPostID = platformPostID
				}
				return nil
			}
		}
	}
	return errors.New("post platform not found")
}

func (r *fakePlatformRepo) RemoveByPostID(ctx context.Context, tx *sql.Tx, postID int64) error {
	return errors.New("not implemented")
}

func (r *fakePlatformRepo) row(id int64) models.PostPlatform {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rows := range r.rows {
		for _, pp := range rows {
			if pp.ID == id {
				return *pp
			}
		}
	}
	return models.PostPlatform{}
}

func (r *fakePlatformRepo) updateCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.updates
}

type fakeAttemptRepo struct {
	mu       sync.Mutex
	attempts []*models.PublishAttempt
	err      error
}

func (r *fakeAttemptRepo) Create(ctx context.Context, pa *models.PublishAttempt) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if r.err != nil {
		return 0, r.err
	}
	r.attempts = append(r.attempts, pa)
	return int64(len(r.attempts)), nil
}

func (r *fakeAttemptRepo) ListByPostID(ctx context.Context, postID int64) ([]*models.PublishAttempt, error) {
	return nil, errors.New("not implemented")
}

type fakePublisher struct {
	platform models.PlatformID
	calls    atomic.Int32
	fn       func(ctx context.Context, content publisher.Content, cred publisher.Credential) (*publisher.Result, error)
}

func (p *fakePublisher) Platform() models.PlatformID {
	return p.platform
}

func (p *fakePublisher) Publish(ctx context.Context, content publisher.Content, cred publisher.Credential) (*publisher.Result, error) {
	p.calls.Add(1)
	return p.fn(ctx, content, cred)
}

func succeeding(platform models.PlatformID, remoteID string) *fakePublisher {
	return &fakePublisher{platform: platform, fn: func(context.Context, publisher.Content, publisher.Credential) (*publisher.Result, error) {
		return &publisher.Result{PlatformPostID: remoteID}, nil
	}}
}

func failing(platform models.PlatformID, message string) *fakePublisher {
	return &fakePublisher{platform: platform, fn: func(context.Context, publisher.Content, publisher.Credential) (*publisher.Result, error) {
		return nil, errors.New(message)
	}}
}

type mockCoordinator struct {
	mock.Mock
}

func (m *mockCoordinator) Publish(ctx context.Context, postID int64) error {
	args := m.Called(ctx, postID)
	return args.Error(0)
}

type mockEnqueuer struct {
	mock.Mock
}

func (m *mockEnqueuer) EnqueueDuePost(ctx context.Context, post *models.ScheduledPost) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func validConnection(id int64, platform models.PlatformID) *models.PlatformConnection {
	expires := time.Now().Add(time.Hour)
	return &models.PlatformConnection{
		ID:          id,
		UserID:      7,
		PlatformID:  platform,
		AccountID:   "acct-" + string(platform),
		AccessToken: "token-" + string(platform),
		ExpiresAt:   &expires,
	}
}

func platformRow(id, postID int64, platform models.PlatformID, conn *models.PlatformConnection) *models.PostPlatform {
	pp := &models.PostPlatform{
		ID:         id,
		PostID:     postID,
		PlatformID: platform,
		Status:     models.PlatformStatusPending,
		Connection: conn,
	}
	if conn != nil {
		pp.ConnectionID = &conn.ID
	}
	return pp
}
