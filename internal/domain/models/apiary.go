package models

import (
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

// Hive is a single colony box in the apiary.
type Hive struct {
	Base         `bson:",inline"`
	HiveNumber   int       `bson:"hiveNumber" form:"hiveNumber"`
	Breed        string    `bson:"breed" form:"breed" binding:"required"`
	HiveStrength string    `bson:"hiveStrength" form:"hiveStrength" binding:"required"`
	HiveDate     time.Time `bson:"hiveDate" form:"-"`
}

func (h *Hive) Date() time.Time     { return h.HiveDate }
func (h *Hive) SetDate(t time.Time) { h.HiveDate = t }

func (h *Hive) Values() map[string]string {
	return map[string]string{
		"hiveNumber":   strconv.Itoa(h.HiveNumber),
		"breed":        h.Breed,
		"hiveStrength": h.HiveStrength,
	}
}

// HiveUpdate lists the hive fields editable after creation.
type HiveUpdate struct {
	HiveNumber   int    `form:"hiveNumber"`
	Breed        string `form:"breed" binding:"required"`
	HiveStrength string `form:"hiveStrength" binding:"required"`
	HiveDate     string `form:"hiveDate"`
}

func (u HiveUpdate) Fields() bson.D {
	return bson.D{
		{Key: "hiveNumber", Value: u.HiveNumber},
		{Key: "breed", Value: u.Breed},
		{Key: "hiveStrength", Value: u.HiveStrength},
	}
}

func (u HiveUpdate) DateValue() string { return u.HiveDate }

// Feed records a feeding given to the colonies.
type Feed struct {
	Base     `bson:",inline"`
	Feeding  string    `bson:"feeding" form:"feeding" binding:"required"`
	FeedDate time.Time `bson:"feedDate" form:"-"`
}

func (f *Feed) Date() time.Time     { return f.FeedDate }
func (f *Feed) SetDate(t time.Time) { f.FeedDate = t }

func (f *Feed) Values() map[string]string {
	return map[string]string{"feeding": f.Feeding}
}

type FeedUpdate struct {
	Feeding  string `form:"feeding" binding:"required"`
	FeedDate string `form:"feedDate"`
}

func (u FeedUpdate) Fields() bson.D {
	return bson.D{{Key: "feeding", Value: u.Feeding}}
}

func (u FeedUpdate) DateValue() string { return u.FeedDate }

// Harvest records a honey, wax or other product harvest.
type Harvest struct {
	Base          `bson:",inline"`
	HarvestType   string    `bson:"harvestType" form:"harvestType" binding:"required"`
	HarvestAmount float64   `bson:"harvestAmount" form:"harvestAmount"`
	HarvestDate   time.Time `bson:"harvestDate" form:"-"`
}

func (h *Harvest) Date() time.Time     { return h.HarvestDate }
func (h *Harvest) SetDate(t time.Time) { h.HarvestDate = t }

func (h *Harvest) Values() map[string]string {
	return map[string]string{
		"harvestType":   h.HarvestType,
		"harvestAmount": strconv.FormatFloat(h.HarvestAmount, 'f', -1, 64),
	}
}

type HarvestUpdate struct {
	HarvestType   string  `form:"harvestType" binding:"required"`
	HarvestAmount float64 `form:"harvestAmount"`
	HarvestDate   string  `form:"harvestDate"`
}

func (u HarvestUpdate) Fields() bson.D {
	return bson.D{
		{Key: "harvestType", Value: u.HarvestType},
		{Key: "harvestAmount", Value: u.HarvestAmount},
	}
}

func (u HarvestUpdate) DateValue() string { return u.HarvestDate }

// Inspection is a hive inspection checklist.
type Inspection struct {
	Base           `bson:",inline"`
	HiveNumber     int       `bson:"hiveNumber" form:"hiveNumber"`
	Temperament    string    `bson:"temperament" form:"temperament" binding:"required"`
	Strength       string    `bson:"strength" form:"strength" binding:"required"`
	Queen          string    `bson:"queen" form:"queen" binding:"required"`
	QueenCell      string    `bson:"queenCell" form:"queenCell" binding:"required"`
	Brood          string    `bson:"brood" form:"brood" binding:"required"`
	Disease        string    `bson:"disease" form:"disease" binding:"required"`
	Pests          string    `bson:"pests" form:"pests" binding:"required"`
	Eggs           string    `bson:"eggs" form:"eggs" binding:"required"`
	InspectionDate time.Time `bson:"inspectionDate" form:"-"`
}

func (i *Inspection) Date() time.Time     { return i.InspectionDate }
func (i *Inspection) SetDate(t time.Time) { i.InspectionDate = t }

func (i *Inspection) Values() map[string]string {
	return map[string]string{
		"hiveNumber":  strconv.Itoa(i.HiveNumber),
		"temperament": i.Temperament,
		"strength":    i.Strength,
		"queen":       i.Queen,
		"queenCell":   i.QueenCell,
		"brood":       i.Brood,
		"disease":     i.Disease,
		"pests":       i.Pests,
		"eggs":        i.Eggs,
	}
}

type InspectionUpdate struct {
	HiveNumber     int    `form:"hiveNumber"`
	Temperament    string `form:"temperament" binding:"required"`
	Strength       string `form:"strength" binding:"required"`
	Queen          string `form:"queen" binding:"required"`
	QueenCell      string `form:"queenCell" binding:"required"`
	Brood          string `form:"brood" binding:"required"`
	Disease        string `form:"disease" binding:"required"`
	Pests          string `form:"pests" binding:"required"`
	Eggs           string `form:"eggs" binding:"required"`
	InspectionDate string `form:"inspectionDate"`
}

func (u InspectionUpdate) Fields() bson.D {
	return bson.D{
		{Key: "hiveNumber", Value: u.HiveNumber},
		{Key: "temperament", Value: u.Temperament},
		{Key: "strength", Value: u.Strength},
		{Key: "queen", Value: u.Queen},
		{Key: "queenCell", Value: u.QueenCell},
		{Key: "brood", Value: u.Brood},
		{Key: "disease", Value: u.Disease},
		{Key: "pests", Value: u.Pests},
		{Key: "eggs", Value: u.Eggs},
	}
}

func (u InspectionUpdate) DateValue() string { return u.InspectionDate }

// Inventory tracks equipment on hand.
type Inventory struct {
	Base            `bson:",inline"`
	InventoryType   string    `bson:"inventoryType" form:"inventoryType" binding:"required"`
	InventoryAmount int       `bson:"inventoryAmount" form:"inventoryAmount"`
	InventoryDate   time.Time `bson:"inventoryDate" form:"-"`
}

func (i *Inventory) Date() time.Time     { return i.InventoryDate }
func (i *Inventory) SetDate(t time.Time) { i.InventoryDate = t }

func (i *Inventory) Values() map[string]string {
	return map[string]string{
		"inventoryType":   i.InventoryType,
		"inventoryAmount": strconv.Itoa(i.InventoryAmount),
	}
}

type InventoryUpdate struct {
	InventoryType   string `form:"inventoryType" binding:"required"`
	InventoryAmount int    `form:"inventoryAmount"`
	InventoryDate   string `form:"inventoryDate"`
}

func (u InventoryUpdate) Fields() bson.D {
	return bson.D{
		{Key: "inventoryType", Value: u.InventoryType},
		{Key: "inventoryAmount", Value: u.InventoryAmount},
	}
}

func (u InventoryUpdate) DateValue() string { return u.InventoryDate }

// Swarm is a swarm trap placed at a location.
type Swarm struct {
	Base        `bson:",inline"`
	SwarmNumber int       `bson:"swarmNumber" form:"swarmNumber"`
	Location    string    `bson:"location" form:"location" binding:"required"`
	SwarmDate   time.Time `bson:"swarmDate" form:"-"`
}

func (s *Swarm) Date() time.Time     { return s.SwarmDate }
func (s *Swarm) SetDate(t time.Time) { s.SwarmDate = t }

func (s *Swarm) Values() map[string]string {
	return map[string]string{
		"swarmNumber": strconv.Itoa(s.SwarmNumber),
		"location":    s.Location,
	}
}

type SwarmUpdate struct {
	SwarmNumber int    `form:"swarmNumber"`
	Location    string `form:"location" binding:"required"`
	SwarmDate   string `form:"swarmDate"`
}

func (u SwarmUpdate) Fields() bson.D {
	return bson.D{
		{Key: "swarmNumber", Value: u.SwarmNumber},
		{Key: "location", Value: u.Location},
	}
}

func (u SwarmUpdate) DateValue() string { return u.SwarmDate }

// Treatment records a mite or disease treatment.
type Treatment struct {
	Base          `bson:",inline"`
	Treatment     string    `bson:"treatment" form:"treatment" binding:"required"`
	TreatmentDate time.Time `bson:"treatmentDate" form:"-"`
}

func (t *Treatment) Date() time.Time      { return t.TreatmentDate }
func (t *Treatment) SetDate(at time.Time) { t.TreatmentDate = at }

func (t *Treatment) Values() map[string]string {
	return map[string]string{"treatment": t.Treatment}
}

type TreatmentUpdate struct {
	Treatment     string `form:"treatment" binding:"required"`
	TreatmentDate string `form:"treatmentDate"`
}

func (u TreatmentUpdate) Fields() bson.D {
	return bson.D{{Key: "treatment", Value: u.Treatment}}
}

func (u TreatmentUpdate) DateValue() string { return u.TreatmentDate }
