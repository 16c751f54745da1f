package records

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/mamadbah2/hivetool/internal/domain/models"
	"github.com/mamadbah2/hivetool/internal/repository"
)

// ErrInvalidDate indicates the update carried a date not in YYYY-MM-DD form.
var ErrInvalidDate = errors.New("invalid date")

// Observer is notified of successful mutations.
type Observer interface {
	RecordMutation(kind models.Kind, op string)
}

type nopObserver struct{}

func (nopObserver) RecordMutation(models.Kind, string) {}

// Service implements create, update, delete and listing for one kind,
// always scoped to the acting user.
type Service[T any, PT models.Record[T]] struct {
	info     models.KindInfo
	repo     repository.Records[T, PT]
	observer Observer
	logger   *zap.Logger
	now      func() time.Time
}

// NewService wires the service for kind k. A nil observer disables metrics.
func NewService[T any, PT models.Record[T]](k models.Kind, repo repository.Records[T, PT], observer Observer, logger *zap.Logger) *Service[T, PT] {
	if logger == nil {
		logger = zap.NewNop()
	}
	if observer == nil {
		observer = nopObserver{}
	}
	return &Service[T, PT]{
		info:     models.Info(k),
		repo:     repo,
		observer: observer,
		logger:   logger,
		now:      time.Now,
	}
}

// Info returns the metadata of the served kind.
func (s *Service[T, PT]) Info() models.KindInfo { return s.info }

func (s *Service[T, PT]) today() time.Time {
	return s.now().UTC().Truncate(24 * time.Hour)
}

// New allocates an empty record, used to bind request bodies.
func (s *Service[T, PT]) New() PT { return PT(new(T)) }

// Create stamps the record with a fresh id, the owner and today's date, then
// stores it.
func (s *Service[T, PT]) Create(ctx context.Context, owner primitive.ObjectID, rec PT) error {
	rec.SetRecordID(primitive.NilObjectID)
	rec.SetOwner(owner)
	rec.SetDate(s.today())

	if err := s.repo.Insert(ctx, rec); err != nil {
		return err
	}

	s.observer.RecordMutation(s.info.Kind, "create")
	s.logger.Debug("record created", zap.String("id", rec.RecordID().Hex()), zap.String("user_id", owner.Hex()))
	return nil
}

func (s *Service[T, PT]) List(ctx context.Context, owner primitive.ObjectID) ([]PT, error) {
	return s.repo.ListByOwner(ctx, owner)
}

func (s *Service[T, PT]) Get(ctx context.Context, owner, id primitive.ObjectID) (PT, error) {
	return s.repo.FindOwned(ctx, id, owner)
}

// Update writes the allow-listed fields of u plus the date field. The date
// comes from u when supplied, otherwise today.
func (s *Service[T, PT]) Update(ctx context.Context, owner, id primitive.ObjectID, u models.Update) error {
	date, err := s.resolveDate(u.DateValue())
	if err != nil {
		return err
	}

	set := append(bson.D{}, u.Fields()...)
	set = append(set, bson.E{Key: s.info.DateField, Value: date})

	if err := s.repo.UpdateOwned(ctx, id, owner, set); err != nil {
		return err
	}

	s.observer.RecordMutation(s.info.Kind, "update")
	return nil
}

func (s *Service[T, PT]) resolveDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return s.today(), nil
	}
	date, err := time.ParseInLocation(models.DateLayout, raw, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
	}
	return date, nil
}

func (s *Service[T, PT]) Delete(ctx context.Context, owner, id primitive.ObjectID) error {
	if err := s.repo.DeleteOwned(ctx, id, owner); err != nil {
		return err
	}

	s.observer.RecordMutation(s.info.Kind, "delete")
	return nil
}

// ListBetween returns every user's records dated in [from, until).
func (s *Service[T, PT]) ListBetween(ctx context.Context, from, until time.Time) ([]PT, error) {
	return s.repo.ListBetween(ctx, from, until)
}
