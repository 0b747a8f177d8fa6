// ABOUTME: Typed Draft aggregate for an in-progress agent configuration
// ABOUTME: Defines the nested structure, static defaults, and deep copy semantics

package draft

// Day names used as opening-hours keys, in display order.
var DayNames = []string{
	"monday",
	"tuesday",
	"wednesday",
	"thursday",
	"friday",
	"saturday",
	"sunday",
}

// OptionKeys are the general option toggles every draft carries.
var OptionKeys = []string{
	"takeaway",
	"delivery",
	"reservations",
	"voicemail",
	"sms_confirmation",
}

// FoodOptionKeys are the food option toggles every draft carries.
var FoodOptionKeys = []string{
	"vegetarian",
	"vegan",
	"gluten_free",
	"halal",
}

// IntegrationNames are the third-party integrations offered during setup.
var IntegrationNames = []string{
	"uber_eats",
	"deliveroo",
	"google_business",
	"thefork",
}

// MealPeriod is one service window within a day.
type MealPeriod struct {
	Open  bool   `json:"open"`
	Start string `json:"start"` // "HH:MM"
	End   string `json:"end"`   // "HH:MM"
}

// DayHours holds the two meal periods of a single day.
type DayHours struct {
	Lunch  MealPeriod `json:"lunch"`
	Dinner MealPeriod `json:"dinner"`
}

// Establishment holds the business information collected on the second step.
type Establishment struct {
	Name    string `json:"name"`
	Website string `json:"website"`
	Address string `json:"address"`
	City    string `json:"city"`
}

// Telephony holds the phone, device and voice configuration.
type Telephony struct {
	PhoneNumber string `json:"phone_number"`
	Device      string `json:"device"`
	Voice       string `json:"voice"`
}

// IntegrationField is a single key/value setting of an integration.
type IntegrationField struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Integration is a third-party integration toggle with optional settings.
type Integration struct {
	Name    string             `json:"name"`
	Enabled bool               `json:"enabled"`
	Fields  []IntegrationField `json:"fields,omitempty"`
}

// Closures holds the closure-days toggle and the selected calendar dates.
type Closures struct {
	Enabled bool     `json:"enabled"`
	Dates   []string `json:"dates,omitempty"` // "YYYY-MM-DD"
}

// Draft is the client-resident in-progress agent configuration aggregate.
// It is a single mutable aggregate: partial updates replace whole top-level
// keys, never merge inside nested values.
type Draft struct {
	// RecordID is the remote agent record identifier, empty until the
	// backing record is first created.
	RecordID string `json:"record_id,omitempty"`

	Name   string `json:"name"`
	Sector string `json:"sector"`
	Status string `json:"status"`

	Establishment Establishment       `json:"establishment"`
	Telephony     Telephony           `json:"telephony"`
	Hours         map[string]DayHours `json:"opening_hours"`
	Closures      Closures            `json:"closures"`
	Options       map[string]bool     `json:"options"`
	FoodOptions   map[string]bool     `json:"food_options"`
	Integrations  []Integration       `json:"integrations"`
	Documents     []string            `json:"documents,omitempty"`
	Notes         string              `json:"notes,omitempty"`
}

// Default returns a structurally complete draft: every day of the week has
// both meal periods, every declared option key is present and false, and
// every known integration is listed disabled. Steps can render it without
// nil checks.
func Default() Draft {
	hours := make(map[string]DayHours, len(DayNames))
	for _, day := range DayNames {
		hours[day] = DayHours{
			Lunch:  MealPeriod{Open: false, Start: "12:00", End: "14:30"},
			Dinner: MealPeriod{Open: false, Start: "19:00", End: "22:30"},
		}
	}

	options := make(map[string]bool, len(OptionKeys))
	for _, key := range OptionKeys {
		options[key] = false
	}

	foodOptions := make(map[string]bool, len(FoodOptionKeys))
	for _, key := range FoodOptionKeys {
		foodOptions[key] = false
	}

	integrations := make([]Integration, 0, len(IntegrationNames))
	for _, name := range IntegrationNames {
		integrations = append(integrations, Integration{Name: name})
	}

	return Draft{
		Status:       "draft",
		Hours:        hours,
		Closures:     Closures{},
		Options:      options,
		FoodOptions:  foodOptions,
		Integrations: integrations,
	}
}

// Clone returns a deep copy of the draft. Mutating the copy never affects
// the original.
func (d Draft) Clone() Draft {
	out := d

	if d.Hours != nil {
		out.Hours = make(map[string]DayHours, len(d.Hours))
		for k, v := range d.Hours {
			out.Hours[k] = v
		}
	}

	if d.Options != nil {
		out.Options = make(map[string]bool, len(d.Options))
		for k, v := range d.Options {
			out.Options[k] = v
		}
	}

	if d.FoodOptions != nil {
		out.FoodOptions = make(map[string]bool, len(d.FoodOptions))
		for k, v := range d.FoodOptions {
			out.FoodOptions[k] = v
		}
	}

	if d.Closures.Dates != nil {
		out.Closures.Dates = append([]string(nil), d.Closures.Dates...)
	}

	if d.Integrations != nil {
		out.Integrations = make([]Integration, len(d.Integrations))
		for i, integ := range d.Integrations {
			cp := integ
			if integ.Fields != nil {
				cp.Fields = append([]IntegrationField(nil), integ.Fields...)
			}
			out.Integrations[i] = cp
		}
	}

	if d.Documents != nil {
		out.Documents = append([]string(nil), d.Documents...)
	}

	return out
}
