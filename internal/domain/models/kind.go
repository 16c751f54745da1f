package models

// Kind identifies one of the beekeeping record collections.
type Kind string

const (
	KindHive       Kind = "hive"
	KindFeed       Kind = "feed"
	KindHarvest    Kind = "harvest"
	KindInspection Kind = "inspection"
	KindInventory  Kind = "inventory"
	KindSwarm      Kind = "swarm"
	KindTreatment  Kind = "treatment"
)

// FieldInput is the HTML input type used to edit a field.
type FieldInput string

const (
	InputText   FieldInput = "text"
	InputNumber FieldInput = "number"
	InputSelect FieldInput = "select"
)

// Field describes one editable column of a record kind.
type Field struct {
	Name    string
	Label   string
	Input   FieldInput
	Step    string
	Options []string
}

// KindInfo holds the routing, storage and view metadata of a kind.
type KindInfo struct {
	Kind       Kind
	Collection string
	// Slug is used by the create, edit, update and delete routes.
	Slug      string
	DateField string
	ListPath  string
	FormPath  string
	ListTitle string
	FormTitle string
	EditTitle string
	DateLabel string
	Fields    []Field
}

var strengthOptions = []string{"Strong", "Average", "Weak"}

var yesNo = []string{"Yes", "No"}

var kinds = map[Kind]KindInfo{
	KindHive: {
		Kind:       KindHive,
		Collection: "hives",
		Slug:       "hive",
		DateField:  "hiveDate",
		ListPath:   "/",
		FormPath:   "/hive-form",
		ListTitle:  "Apiary",
		FormTitle:  "New Hive",
		EditTitle:  "Edit Hive",
		DateLabel:  "Date Added",
		Fields: []Field{
			{Name: "hiveNumber", Label: "Hive #", Input: InputNumber, Step: "1"},
			{Name: "breed", Label: "Breed", Input: InputText},
			{Name: "hiveStrength", Label: "Strength", Input: InputSelect, Options: strengthOptions},
		},
	},
	KindFeed: {
		Kind:       KindFeed,
		Collection: "feeds",
		Slug:       "feed",
		DateField:  "feedDate",
		ListPath:   "/feeding",
		FormPath:   "/feeding-form",
		ListTitle:  "Feeding",
		FormTitle:  "New Feeding",
		EditTitle:  "Edit Feeding",
		DateLabel:  "Date Fed",
		Fields: []Field{
			{Name: "feeding", Label: "Feeding", Input: InputText},
		},
	},
	KindHarvest: {
		Kind:       KindHarvest,
		Collection: "harvests",
		Slug:       "harvest",
		DateField:  "harvestDate",
		ListPath:   "/harvest",
		FormPath:   "/harvest-form",
		ListTitle:  "Harvest",
		FormTitle:  "New Harvest",
		EditTitle:  "Edit Harvest",
		DateLabel:  "Harvest Date",
		Fields: []Field{
			{Name: "harvestType", Label: "Type", Input: InputText},
			{Name: "harvestAmount", Label: "Amount", Input: InputNumber, Step: "any"},
		},
	},
	KindInspection: {
		Kind:       KindInspection,
		Collection: "inspections",
		Slug:       "inspection",
		DateField:  "inspectionDate",
		ListPath:   "/inspection",
		FormPath:   "/inspection-form",
		ListTitle:  "Inspection",
		FormTitle:  "New Inspection",
		EditTitle:  "Edit Inspections",
		DateLabel:  "Inspected",
		Fields: []Field{
			{Name: "hiveNumber", Label: "Hive #", Input: InputNumber, Step: "1"},
			{Name: "temperament", Label: "Temperament", Input: InputSelect, Options: []string{"Calm", "Nervous", "Aggressive"}},
			{Name: "strength", Label: "Strength", Input: InputSelect, Options: strengthOptions},
			{Name: "queen", Label: "Queen Seen", Input: InputSelect, Options: yesNo},
			{Name: "queenCell", Label: "Queen Cells", Input: InputSelect, Options: yesNo},
			{Name: "brood", Label: "Brood", Input: InputSelect, Options: yesNo},
			{Name: "disease", Label: "Disease", Input: InputText},
			{Name: "pests", Label: "Pests", Input: InputText},
			{Name: "eggs", Label: "Eggs", Input: InputSelect, Options: yesNo},
		},
	},
	KindInventory: {
		Kind:       KindInventory,
		Collection: "inventories",
		Slug:       "inventory",
		DateField:  "inventoryDate",
		ListPath:   "/inventory",
		FormPath:   "/inventory-form",
		ListTitle:  "Inventory",
		FormTitle:  "New Equipment",
		EditTitle:  "Edit Inventory",
		DateLabel:  "Updated",
		Fields: []Field{
			{Name: "inventoryType", Label: "Equipment", Input: InputText},
			{Name: "inventoryAmount", Label: "Amount", Input: InputNumber, Step: "1"},
		},
	},
	KindSwarm: {
		Kind:       KindSwarm,
		Collection: "swarms",
		Slug:       "swarm",
		DateField:  "swarmDate",
		ListPath:   "/swarmtrap",
		FormPath:   "/swarmtrap-form",
		ListTitle:  "Swarm Traps",
		FormTitle:  "New Swarm Trap",
		EditTitle:  "Edit Swarm Trap",
		DateLabel:  "Placed",
		Fields: []Field{
			{Name: "swarmNumber", Label: "Trap #", Input: InputNumber, Step: "1"},
			{Name: "location", Label: "Location", Input: InputText},
		},
	},
	KindTreatment: {
		Kind:       KindTreatment,
		Collection: "treatments",
		Slug:       "treatment",
		DateField:  "treatmentDate",
		ListPath:   "/treatment",
		FormPath:   "/treatment-form",
		ListTitle:  "Treatment",
		FormTitle:  "New Treatment",
		EditTitle:  "Edit Treatment",
		DateLabel:  "Treated",
		Fields: []Field{
			{Name: "treatment", Label: "Treatment", Input: InputText},
		},
	},
}

// Info returns the metadata registered for k. It panics on an unknown kind,
// which only happens on a programming error.
func Info(k Kind) KindInfo {
	info, ok := kinds[k]
	if !ok {
		panic("models: unknown kind " + string(k))
	}
	return info
}

// Kinds returns every record kind in navigation order.
func Kinds() []Kind {
	return []Kind{KindHive, KindFeed, KindHarvest, KindInspection, KindInventory, KindSwarm, KindTreatment}
}
