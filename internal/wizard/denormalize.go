// ABOUTME: Denormalization of the draft aggregate into remote record fields
// ABOUTME: Maps draft naming onto the record schema's naming at publish time

package wizard

import (
	"github.com/voxtable/voxtable/internal/agents"
	"github.com/voxtable/voxtable/internal/draft"
)

// recordConfig maps the draft onto the record schema. The two sides do not
// share names; the renames are:
//
//	draft establishment.website -> website_url
//	draft establishment.address -> street_address
//	draft telephony.device      -> device_type
//	draft telephony.voice       -> voice_profile
//	draft documents             -> document_names
//	draft integration fields    -> settings (key/value list becomes a map)
//
// Closure dates are only published when the closure toggle is on.
func recordConfig(d draft.Draft) *agents.AgentConfig {
	cfg := &agents.AgentConfig{
		EstablishmentName: d.Establishment.Name,
		WebsiteURL:        d.Establishment.Website,
		StreetAddress:     d.Establishment.Address,
		City:              d.Establishment.City,
		PhoneNumber:       d.Telephony.PhoneNumber,
		DeviceType:        d.Telephony.Device,
		VoiceProfile:      d.Telephony.Voice,
		GeneralOptions:    d.Options,
		FoodOptions:       d.FoodOptions,
		DocumentNames:     d.Documents,
		Notes:             d.Notes,
	}

	cfg.OpeningHours = make(map[string]agents.DaySchedule, len(d.Hours))
	for day, hours := range d.Hours {
		cfg.OpeningHours[day] = agents.DaySchedule{
			Lunch: agents.ServicePeriod{
				Open:  hours.Lunch.Open,
				Start: hours.Lunch.Start,
				End:   hours.Lunch.End,
			},
			Dinner: agents.ServicePeriod{
				Open:  hours.Dinner.Open,
				Start: hours.Dinner.Start,
				End:   hours.Dinner.End,
			},
		}
	}

	if d.Closures.Enabled {
		cfg.ClosureDates = append([]string(nil), d.Closures.Dates...)
	}

	for _, integ := range d.Integrations {
		ic := agents.IntegrationConfig{Name: integ.Name, Enabled: integ.Enabled}
		if len(integ.Fields) > 0 {
			ic.Settings = make(map[string]string, len(integ.Fields))
			for _, f := range integ.Fields {
				ic.Settings[f.Key] = f.Value
			}
		}
		cfg.Integrations = append(cfg.Integrations, ic)
	}

	return cfg
}
