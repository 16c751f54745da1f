package reporting

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/mamadbah2/hivetool/internal/domain/models"
)

// DigestRange is the sheet range digest rows are appended to.
const DigestRange = "Digest!A:H"

// Lister returns every user's records of one kind dated in [from, until).
type Lister[PT models.Owned] interface {
	ListBetween(ctx context.Context, from, until time.Time) ([]PT, error)
}

// UserLister returns every registered user.
type UserLister interface {
	List(ctx context.Context) ([]*models.User, error)
}

// RowWriter appends a row to a spreadsheet range.
type RowWriter interface {
	WriteRow(ctx context.Context, sheetRange string, values []interface{}) error
}

// Notifier delivers a text summary to the apiary operator.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// Sources are the stores the digest reads from.
type Sources struct {
	Users       UserLister
	Hives       Lister[*models.Hive]
	Feeds       Lister[*models.Feed]
	Harvests    Lister[*models.Harvest]
	Inspections Lister[*models.Inspection]
	Swarms      Lister[*models.Swarm]
	Treatments  Lister[*models.Treatment]
}

// Service builds and publishes the weekly activity digest. Sheets and
// notifier are optional; a nil sink is skipped.
type Service struct {
	src      Sources
	sheets   RowWriter
	notifier Notifier
	loc      *time.Location
	logger   *zap.Logger
}

// NewService wires a new reporting service instance.
func NewService(src Sources, sheets RowWriter, notifier Notifier, loc *time.Location, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Service{src: src, sheets: sheets, notifier: notifier, loc: loc, logger: logger}
}

// WeekStart returns the Monday of the week containing now, in the service
// location, as a UTC calendar date comparable with stored record dates.
func (s *Service) WeekStart(now time.Time) time.Time {
	local := now.In(s.loc)
	offset := (int(local.Weekday()) + 6) % 7
	return time.Date(local.Year(), local.Month(), local.Day()-offset, 0, 0, 0, 0, time.UTC)
}

// Build computes one digest per user for the week containing now.
func (s *Service) Build(ctx context.Context, now time.Time) ([]models.Digest, error) {
	start := s.WeekStart(now)
	end := start.AddDate(0, 0, 7)

	users, err := s.src.Users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	hives, err := s.src.Hives.ListBetween(ctx, time.Time{}, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("load hives: %w", err)
	}
	feeds, err := s.src.Feeds.ListBetween(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("load feeds: %w", err)
	}
	inspections, err := s.src.Inspections.ListBetween(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("load inspections: %w", err)
	}
	treatments, err := s.src.Treatments.ListBetween(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("load treatments: %w", err)
	}
	swarms, err := s.src.Swarms.ListBetween(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("load swarms: %w", err)
	}
	harvests, err := s.src.Harvests.ListBetween(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("load harvests: %w", err)
	}

	hiveCount := countByOwner(hives)
	feedCount := countByOwner(feeds)
	inspectionCount := countByOwner(inspections)
	treatmentCount := countByOwner(treatments)
	swarmCount := countByOwner(swarms)

	harvested := make(map[primitive.ObjectID]float64)
	for _, h := range harvests {
		harvested[h.OwnerID()] += h.HarvestAmount
	}

	digests := make([]models.Digest, 0, len(users))
	for _, u := range users {
		digests = append(digests, models.Digest{
			UserID:        u.ID,
			Email:         u.Email,
			WeekStart:     start,
			Hives:         hiveCount[u.ID],
			Feedings:      feedCount[u.ID],
			Inspections:   inspectionCount[u.ID],
			Treatments:    treatmentCount[u.ID],
			SwarmTraps:    swarmCount[u.ID],
			HarvestAmount: harvested[u.ID],
		})
	}
	sort.Slice(digests, func(i, j int) bool { return digests[i].Email < digests[j].Email })
	return digests, nil
}

func countByOwner[PT models.Owned](list []PT) map[primitive.ObjectID]int {
	out := make(map[primitive.ObjectID]int)
	for _, rec := range list {
		out[rec.OwnerID()]++
	}
	return out
}

// Summary renders the operator message for a set of digests.
func Summary(digests []models.Digest, weekStart time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hive Tool weekly digest (week of %s)\n", weekStart.Format(models.DateLayout))

	active := 0
	var harvest float64
	for _, d := range digests {
		harvest += d.HarvestAmount
		if !d.Active() {
			continue
		}
		active++
		fmt.Fprintf(&b, "- %s: %d hives, %d feedings, %d inspections, %d treatments, %d swarm traps, %.2f harvested\n",
			d.Email, d.Hives, d.Feedings, d.Inspections, d.Treatments, d.SwarmTraps, d.HarvestAmount)
	}

	if active == 0 {
		b.WriteString("No activity recorded this week.")
		return b.String()
	}
	fmt.Fprintf(&b, "%d of %d beekeepers active, %.2f harvested in total.", active, len(digests), harvest)
	return b.String()
}

// Publish appends one sheet row per digest and notifies the operator.
// Both sinks are attempted; their errors are joined.
func (s *Service) Publish(ctx context.Context, digests []models.Digest, weekStart time.Time) error {
	var errs []error

	if s.sheets == nil {
		s.logger.Info("sheets export not configured, skipping")
	} else {
		for _, d := range digests {
			if err := s.sheets.WriteRow(ctx, DigestRange, row(d)); err != nil {
				errs = append(errs, fmt.Errorf("export digest for %s: %w", d.Email, err))
				break
			}
		}
	}

	if s.notifier == nil {
		s.logger.Info("operator notification not configured, skipping")
	} else if err := s.notifier.Notify(ctx, Summary(digests, weekStart)); err != nil {
		errs = append(errs, fmt.Errorf("notify operator: %w", err))
	}

	return errors.Join(errs...)
}

// RunWeekly builds the digest for the week containing now and publishes it.
// With dryRun set nothing is exported. The summary is returned either way.
func (s *Service) RunWeekly(ctx context.Context, now time.Time, dryRun bool) (string, error) {
	digests, err := s.Build(ctx, now)
	if err != nil {
		return "", err
	}

	start := s.WeekStart(now)
	summary := Summary(digests, start)
	if dryRun {
		return summary, nil
	}

	if err := s.Publish(ctx, digests, start); err != nil {
		return summary, err
	}
	s.logger.Info("weekly digest published", zap.Int("users", len(digests)), zap.Time("week_start", start))
	return summary, nil
}

func row(d models.Digest) []interface{} {
	return []interface{}{
		d.WeekStart.Format(models.DateLayout),
		d.Email,
		d.Hives,
		d.Feedings,
		d.Inspections,
		d.Treatments,
		d.SwarmTraps,
		d.HarvestAmount,
	}
}
