// ABOUTME: Typed partial update applied to the Draft aggregate
// ABOUTME: Each set field fully replaces the previous value for that top-level key

package draft

// Patch is a typed partial draft. A nil field leaves the corresponding
// top-level key untouched; a non-nil field fully replaces it. There is no
// deep merge inside nested values: a step that wants to change one day of
// the opening-hours table reads the table, modifies it, and sets the whole
// table back.
type Patch struct {
	Name          *string              `json:"name,omitempty"`
	Sector        *string              `json:"sector,omitempty"`
	Status        *string              `json:"status,omitempty"`
	Establishment *Establishment       `json:"establishment,omitempty"`
	Telephony     *Telephony           `json:"telephony,omitempty"`
	Hours         map[string]DayHours  `json:"opening_hours,omitempty"`
	Closures      *Closures            `json:"closures,omitempty"`
	Options       map[string]bool      `json:"options,omitempty"`
	FoodOptions   map[string]bool      `json:"food_options,omitempty"`
	Integrations  []Integration        `json:"integrations,omitempty"`
	Documents     *[]string            `json:"documents,omitempty"`
	Notes         *string              `json:"notes,omitempty"`
}

// apply writes the set fields of the patch into d. Values are copied so the
// caller keeps ownership of the patch contents.
func (p Patch) apply(d *Draft) {
	if p.Name != nil {
		d.Name = *p.Name
	}
	if p.Sector != nil {
		d.Sector = *p.Sector
	}
	if p.Status != nil {
		d.Status = *p.Status
	}
	if p.Establishment != nil {
		d.Establishment = *p.Establishment
	}
	if p.Telephony != nil {
		d.Telephony = *p.Telephony
	}
	if p.Hours != nil {
		hours := make(map[string]DayHours, len(p.Hours))
		for k, v := range p.Hours {
			hours[k] = v
		}
		d.Hours = hours
	}
	if p.Closures != nil {
		c := *p.Closures
		if c.Dates != nil {
			c.Dates = append([]string(nil), c.Dates...)
		}
		d.Closures = c
	}
	if p.Options != nil {
		options := make(map[string]bool, len(p.Options))
		for k, v := range p.Options {
			options[k] = v
		}
		d.Options = options
	}
	if p.FoodOptions != nil {
		foodOptions := make(map[string]bool, len(p.FoodOptions))
		for k, v := range p.FoodOptions {
			foodOptions[k] = v
		}
		d.FoodOptions = foodOptions
	}
	if p.Integrations != nil {
		integrations := make([]Integration, len(p.Integrations))
		for i, integ := range p.Integrations {
			cp := integ
			if integ.Fields != nil {
				cp.Fields = append([]IntegrationField(nil), integ.Fields...)
			}
			integrations[i] = cp
		}
		d.Integrations = integrations
	}
	if p.Documents != nil {
		d.Documents = append([]string(nil), (*p.Documents)...)
	}
	if p.Notes != nil {
		d.Notes = *p.Notes
	}
}

// String returns a pointer to s, for building patches inline.
func String(s string) *string { return &s }
