package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Digest aggregates one beekeeper's activity for a reporting week.
type Digest struct {
	UserID        primitive.ObjectID `bson:"userId" json:"userId"`
	Email         string             `bson:"email" json:"email"`
	WeekStart     time.Time          `bson:"weekStart" json:"weekStart"`
	Hives         int                `bson:"hives" json:"hives"`
	Feedings      int                `bson:"feedings" json:"feedings"`
	Inspections   int                `bson:"inspections" json:"inspections"`
	Treatments    int                `bson:"treatments" json:"treatments"`
	SwarmTraps    int                `bson:"swarmTraps" json:"swarmTraps"`
	HarvestAmount float64            `bson:"harvestAmount" json:"harvestAmount"`
}

// Active reports whether anything was recorded during the week.
func (d Digest) Active() bool {
	return d.Feedings+d.Inspections+d.Treatments+d.SwarmTraps > 0 || d.HarvestAmount > 0
}
