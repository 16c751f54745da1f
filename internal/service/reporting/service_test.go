package reporting

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/goleak"

	"github.com/mamadbah2/hivetool/internal/domain/models"
	"github.com/mamadbah2/hivetool/internal/repository/memory"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type mockSheet struct {
	mock.Mock
}

func (m *mockSheet) WriteRow(ctx context.Context, sheetRange string, values []interface{}) error {
	return m.Called(ctx, sheetRange, values).Error(0)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Notify(ctx context.Context, text string) error {
	return m.Called(ctx, text).Error(0)
}

// Friday 14 June 2024; the week starts on Monday 10 June.
var friday = time.Date(2024, 6, 14, 20, 0, 0, 0, time.UTC)

func date(d int) time.Time { return time.Date(2024, 6, d, 0, 0, 0, 0, time.UTC) }

type fixture struct {
	users       *memory.Users
	hives       *memory.Records[models.Hive, *models.Hive]
	feeds       *memory.Records[models.Feed, *models.Feed]
	harvests    *memory.Records[models.Harvest, *models.Harvest]
	inspections *memory.Records[models.Inspection, *models.Inspection]
	swarms      *memory.Records[models.Swarm, *models.Swarm]
	treatments  *memory.Records[models.Treatment, *models.Treatment]
}

func newFixture() *fixture {
	return &fixture{
		users:       memory.NewUsers(),
		hives:       memory.NewRecords[models.Hive](models.KindHive),
		feeds:       memory.NewRecords[models.Feed](models.KindFeed),
		harvests:    memory.NewRecords[models.Harvest](models.KindHarvest),
		inspections: memory.NewRecords[models.Inspection](models.KindInspection),
		swarms:      memory.NewRecords[models.Swarm](models.KindSwarm),
		treatments:  memory.NewRecords[models.Treatment](models.KindTreatment),
	}
}

func (f *fixture) sources() Sources {
	return Sources{
		Users:       f.users,
		Hives:       f.hives,
		Feeds:       f.feeds,
		Harvests:    f.harvests,
		Inspections: f.inspections,
		Swarms:      f.swarms,
		Treatments:  f.treatments,
	}
}

func (f *fixture) user(t *testing.T, email string) primitive.ObjectID {
	t.Helper()
	u := &models.User{Email: email, Username: email}
	require.NoError(t, f.users.Create(context.Background(), u))
	return u.ID
}

func insert[T any, PT models.Record[T]](t *testing.T, repo *memory.Records[T, PT], owner primitive.ObjectID, on time.Time, rec PT) {
	t.Helper()
	rec.SetOwner(owner)
	rec.SetDate(on)
	require.NoError(t, repo.Insert(context.Background(), rec))
}

func seed(t *testing.T, f *fixture) (alice, bob primitive.ObjectID) {
	t.Helper()
	alice = f.user(t, "alice@example.com")
	bob = f.user(t, "bob@example.com")

	insert(t, f.hives, alice, date(1), &models.Hive{HiveNumber: 1, Breed: "Italian", HiveStrength: "Strong"})
	insert(t, f.hives, alice, date(11), &models.Hive{HiveNumber: 2, Breed: "Italian", HiveStrength: "Weak"})
	insert(t, f.feeds, alice, date(10), &models.Feed{Feeding: "syrup"})
	insert(t, f.feeds, alice, date(7), &models.Feed{Feeding: "last week"})
	insert(t, f.inspections, alice, date(12), &models.Inspection{HiveNumber: 1, Temperament: "Calm"})
	insert(t, f.harvests, alice, date(13), &models.Harvest{HarvestType: "honey", HarvestAmount: 7.5})
	insert(t, f.harvests, alice, date(14), &models.Harvest{HarvestType: "wax", HarvestAmount: 0.5})
	insert(t, f.harvests, bob, date(3), &models.Harvest{HarvestType: "honey", HarvestAmount: 20})
	insert(t, f.treatments, bob, date(10), &models.Treatment{Treatment: "oxalic"})
	insert(t, f.swarms, bob, date(14), &models.Swarm{SwarmNumber: 1, Location: "orchard"})
	return alice, bob
}

func TestWeekStart(t *testing.T) {
	svc := NewService(Sources{}, nil, nil, time.UTC, nil)
	assert.Equal(t, date(10), svc.WeekStart(friday))
	assert.Equal(t, date(10), svc.WeekStart(date(10)))
	assert.Equal(t, date(10), svc.WeekStart(time.Date(2024, 6, 16, 23, 59, 0, 0, time.UTC)))

	// Late Sunday in UTC is already Monday in Auckland.
	auckland := time.FixedZone("NZST", 12*60*60)
	svc = NewService(Sources{}, nil, nil, auckland, nil)
	assert.Equal(t, date(17), svc.WeekStart(time.Date(2024, 6, 16, 13, 0, 0, 0, time.UTC)))
}

func TestBuildCountsCurrentWeekOnly(t *testing.T) {
	f := newFixture()
	alice, bob := seed(t, f)

	// dated after the week, so none of these count
	insert(t, f.feeds, alice, date(17), &models.Feed{Feeding: "next monday"})
	insert(t, f.feeds, alice, time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC), &models.Feed{Feeding: "september"})
	insert(t, f.harvests, alice, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), &models.Harvest{HarvestType: "honey", HarvestAmount: 50})
	insert(t, f.treatments, bob, date(17), &models.Treatment{Treatment: "formic"})
	insert(t, f.swarms, bob, time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC), &models.Swarm{SwarmNumber: 2, Location: "ridge"})

	digests, err := NewService(f.sources(), nil, nil, time.UTC, nil).Build(context.Background(), friday)
	require.NoError(t, err)
	require.Len(t, digests, 2)

	a, b := digests[0], digests[1]
	assert.Equal(t, alice, a.UserID)
	assert.Equal(t, date(10), a.WeekStart)
	assert.Equal(t, 2, a.Hives)
	assert.Equal(t, 1, a.Feedings)
	assert.Equal(t, 1, a.Inspections)
	assert.InDelta(t, 8.0, a.HarvestAmount, 1e-9)

	assert.Equal(t, bob, b.UserID)
	assert.Equal(t, 0, b.Hives)
	assert.Equal(t, 1, b.Treatments)
	assert.Equal(t, 1, b.SwarmTraps)
	assert.Zero(t, b.HarvestAmount)
}

func TestRunWeeklyPublishesRowsAndSummary(t *testing.T) {
	f := newFixture()
	seed(t, f)

	sheet := &mockSheet{}
	sheet.On("WriteRow", mock.Anything, DigestRange, []interface{}{"2024-06-10", "alice@example.com", 2, 1, 1, 0, 0, 8.0}).Return(nil).Once()
	sheet.On("WriteRow", mock.Anything, DigestRange, []interface{}{"2024-06-10", "bob@example.com", 0, 0, 0, 1, 1, 0.0}).Return(nil).Once()

	notifier := &mockNotifier{}
	notifier.On("Notify", mock.Anything, mock.MatchedBy(func(text string) bool {
		return strings.Contains(text, "week of 2024-06-10") && strings.Contains(text, "2 of 2 beekeepers active")
	})).Return(nil).Once()

	summary, err := NewService(f.sources(), sheet, notifier, time.UTC, nil).RunWeekly(context.Background(), friday, false)
	require.NoError(t, err)
	assert.Contains(t, summary, "alice@example.com: 2 hives, 1 feedings")

	sheet.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestRunWeeklyDryRunExportsNothing(t *testing.T) {
	f := newFixture()
	seed(t, f)

	sheet := &mockSheet{}
	notifier := &mockNotifier{}
	summary, err := NewService(f.sources(), sheet, notifier, time.UTC, nil).RunWeekly(context.Background(), friday, true)
	require.NoError(t, err)
	assert.NotEmpty(t, summary)

	sheet.AssertNotCalled(t, "WriteRow", mock.Anything, mock.Anything, mock.Anything)
	notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
}

func TestPublishSkipsMissingSinks(t *testing.T) {
	svc := NewService(newFixture().sources(), nil, nil, time.UTC, nil)
	assert.NoError(t, svc.Publish(context.Background(), []models.Digest{{Email: "a@example.com"}}, date(10)))
}

func TestPublishStillNotifiesWhenSheetFails(t *testing.T) {
	sheet := &mockSheet{}
	sheet.On("WriteRow", mock.Anything, DigestRange, mock.Anything).Return(errors.New("quota exceeded")).Once()
	notifier := &mockNotifier{}
	notifier.On("Notify", mock.Anything, mock.Anything).Return(nil).Once()

	svc := NewService(newFixture().sources(), sheet, notifier, time.UTC, nil)
	err := svc.Publish(context.Background(), []models.Digest{{Email: "a@example.com"}, {Email: "b@example.com"}}, date(10))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")

	sheet.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestSummaryWithoutActivity(t *testing.T) {
	text := Summary([]models.Digest{{Email: "a@example.com", Hives: 3}}, date(10))
	assert.True(t, strings.HasSuffix(text, "No activity recorded this week."))
}
