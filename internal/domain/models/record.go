package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DateLayout is the layout used for record dates in forms and views.
const DateLayout = "2006-01-02"

// Owned is implemented by every beekeeping record. Records belong to exactly
// one user and carry a single date field stamped on create and update.
type Owned interface {
	RecordID() primitive.ObjectID
	SetRecordID(id primitive.ObjectID)
	OwnerID() primitive.ObjectID
	SetOwner(owner primitive.ObjectID)
	Date() time.Time
	SetDate(t time.Time)
	// Values returns the user-editable fields keyed by their form name.
	Values() map[string]string
}

// Record constrains a pointer to a record struct, so generic code can
// allocate a T and still call the Owned methods on it.
type Record[T any] interface {
	*T
	Owned
}

// Update is a typed allow-list of fields a PUT request may change.
type Update interface {
	// Fields returns the $set document. Keys must match the record's bson tags.
	Fields() bson.D
	// DateValue is the raw date supplied with the update, if any.
	DateValue() string
}

// Base carries identity and ownership shared by every record.
type Base struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id" form:"-"`
	UserID primitive.ObjectID `bson:"userId" json:"userId" form:"-"`
}

func (b *Base) RecordID() primitive.ObjectID { return b.ID }

func (b *Base) SetRecordID(id primitive.ObjectID) { b.ID = id }

func (b *Base) OwnerID() primitive.ObjectID { return b.UserID }

func (b *Base) SetOwner(owner primitive.ObjectID) { b.UserID = owner }

// Hex returns the record id in the form used by routes.
func (b *Base) Hex() string { return b.ID.Hex() }
