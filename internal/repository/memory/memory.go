// Package memory provides process-local implementations of the repository
// contracts. It backs development runs without MongoDB and the HTTP tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mamadbah2/hivetool/internal/domain/models"
	"github.com/mamadbah2/hivetool/internal/repository"
)

// Records keeps one kind as marshalled BSON documents so callers never share
// memory with the store.
type Records[T any, PT models.Record[T]] struct {
	mu        sync.RWMutex
	kind      models.Kind
	dateField string
	docs      map[primitive.ObjectID]bson.M
	order     []primitive.ObjectID
}

var _ repository.Records[models.Hive, *models.Hive] = (*Records[models.Hive, *models.Hive])(nil)

func NewRecords[T any, PT models.Record[T]](k models.Kind) *Records[T, PT] {
	return &Records[T, PT]{
		kind:      k,
		dateField: models.Info(k).DateField,
		docs:      make(map[primitive.ObjectID]bson.M),
	}
}

func (r *Records[T, PT]) Insert(_ context.Context, rec PT) error {
	if rec.RecordID().IsZero() {
		rec.SetRecordID(primitive.NewObjectID())
	}

	doc, err := toDoc(rec)
	if err != nil {
		return fmt.Errorf("insert %s: %w", r.kind, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.docs[rec.RecordID()]; exists {
		return repository.ErrDuplicate
	}
	r.docs[rec.RecordID()] = doc
	r.order = append(r.order, rec.RecordID())
	return nil
}

func (r *Records[T, PT]) ListByOwner(_ context.Context, owner primitive.ObjectID) ([]PT, error) {
	out, err := r.collect(func(rec PT) bool { return rec.OwnerID() == owner })
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date().After(out[j].Date()) })
	return out, nil
}

func (r *Records[T, PT]) ListBetween(_ context.Context, from, until time.Time) ([]PT, error) {
	return r.collect(func(rec PT) bool {
		d := rec.Date()
		return !d.Before(from) && (until.IsZero() || d.Before(until))
	})
}

func (r *Records[T, PT]) collect(keep func(PT) bool) ([]PT, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]PT, 0)
	// newest insert first, matching the _id tiebreak of the Mongo store
	for i := len(r.order) - 1; i >= 0; i-- {
		doc, ok := r.docs[r.order[i]]
		if !ok {
			continue
		}
		rec, err := fromDoc[T, PT](doc)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", r.kind, err)
		}
		if keep(rec) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *Records[T, PT]) FindOwned(_ context.Context, id, owner primitive.ObjectID) (PT, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, ok := r.docs[id]
	if !ok || doc["userId"] != owner {
		return nil, repository.ErrNotFound
	}
	return fromDoc[T, PT](doc)
}

func (r *Records[T, PT]) UpdateOwned(_ context.Context, id, owner primitive.ObjectID, set bson.D) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, ok := r.docs[id]
	if !ok || doc["userId"] != owner {
		return repository.ErrNotFound
	}

	next := make(bson.M, len(doc))
	for k, v := range doc {
		next[k] = v
	}
	for _, e := range set {
		next[e.Key] = e.Value
	}

	// round trip so a bad field type fails here rather than on the next read
	normalized, err := normalize[T, PT](next)
	if err != nil {
		return fmt.Errorf("update %s %s: %w", r.kind, id.Hex(), err)
	}
	r.docs[id] = normalized
	return nil
}

func (r *Records[T, PT]) DeleteOwned(_ context.Context, id, owner primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, ok := r.docs[id]
	if !ok || doc["userId"] != owner {
		return repository.ErrNotFound
	}
	delete(r.docs, id)
	return nil
}

func toDoc(v any) (bson.M, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func fromDoc[T any, PT models.Record[T]](doc bson.M) (PT, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, err
	}
	rec := PT(new(T))
	if err := bson.Unmarshal(raw, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func normalize[T any, PT models.Record[T]](doc bson.M) (bson.M, error) {
	rec, err := fromDoc[T, PT](doc)
	if err != nil {
		return nil, err
	}
	return toDoc(rec)
}

// Users is an in-memory account store with a unique email index.
type Users struct {
	mu      sync.RWMutex
	byID    map[primitive.ObjectID]models.User
	byEmail map[string]primitive.ObjectID
}

var _ repository.Users = (*Users)(nil)

func NewUsers() *Users {
	return &Users{
		byID:    make(map[primitive.ObjectID]models.User),
		byEmail: make(map[string]primitive.ObjectID),
	}
}

func (u *Users) Create(_ context.Context, user *models.User) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if _, taken := u.byEmail[user.Email]; taken {
		return repository.ErrDuplicate
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	u.byID[user.ID] = *user
	u.byEmail[user.Email] = user.ID
	return nil
}

func (u *Users) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()

	user, ok := u.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &user, nil
}

func (u *Users) FindByEmail(_ context.Context, email string) (*models.User, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()

	id, ok := u.byEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	user := u.byID[id]
	return &user, nil
}

func (u *Users) UpsertFederated(_ context.Context, identity models.Identity, now time.Time) (*models.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if id, ok := u.byEmail[identity.Email]; ok {
		user := u.byID[id]
		user.GoogleID = identity.Subject
		u.byID[id] = user
		return &user, nil
	}

	user := models.User{
		ID:        primitive.NewObjectID(),
		Email:     identity.Email,
		Username:  identity.Email,
		GoogleID:  identity.Subject,
		CreatedAt: now,
	}
	u.byID[user.ID] = user
	u.byEmail[user.Email] = user.ID
	return &user, nil
}

func (u *Users) List(_ context.Context) ([]*models.User, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()

	out := make([]*models.User, 0, len(u.byID))
	for _, user := range u.byID {
		user := user
		out = append(out, &user)
	}
	sort.Slice(out, func(i, j int) bool { return strings.Compare(out[i].Email, out[j].Email) < 0 })
	return out, nil
}

// Sessions is an in-memory session store. Expired records are dropped on read.
type Sessions struct {
	mu   sync.Mutex
	recs map[string]models.SessionRecord
	now  func() time.Time
}

var _ repository.Sessions = (*Sessions)(nil)

func NewSessions() *Sessions {
	return &Sessions{recs: make(map[string]models.SessionRecord), now: time.Now}
}

func (s *Sessions) Find(_ context.Context, id string) (*models.SessionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.recs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if !rec.ExpiresAt.After(s.now()) {
		delete(s.recs, id)
		return nil, repository.ErrNotFound
	}
	rec.Flashes = append([]models.Flash(nil), rec.Flashes...)
	return &rec, nil
}

func (s *Sessions) Save(_ context.Context, rec *models.SessionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *rec
	cp.Flashes = append([]models.Flash(nil), rec.Flashes...)
	s.recs[rec.ID] = cp
	return nil
}

func (s *Sessions) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.recs, id)
	return nil
}

// Len reports the number of stored sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.recs)
}
