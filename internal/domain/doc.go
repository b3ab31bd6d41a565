// Package domain models the Karangué heat-wave early-warning data for Senegal.
//
// # Alert levels
//
// A regional alert level is derived from the current air temperature using
// fixed, ordered cut points evaluated from the highest band down:
//
//	> 40°C  extreme
//	> 35°C  very_high
//	> 30°C  high
//	≤ 30°C  no alert
//
// The string values (high, very_high, extreme) are stable identifiers shared
// with the persisted rows and the published alert events. At most one active
// alert may exist per (region, level) pair; repeated crossings at the same
// level are deduplicated at the store. Alerts expire a fixed offset after
// creation (default 6 hours) and are flipped inactive by the expiry sweeper,
// never resurrected.
//
// # Health situations
//
// Citizens register a health-risk situation that drives message selection:
//
//	personne_agee    elderly person
//	femme_enceinte   pregnant woman
//	personne_risque  person with an at-risk condition
//	enfant           child
//	aucune           no particular situation
//
// Message templates are maintained per situation at different temperature
// thresholds. For a triggering temperature, the active template with the
// highest threshold not exceeding the temperature wins (closest-but-not-over
// match). No match means no personalized message for that citizen, which is a
// valid outcome, not an error.
//
// # Template rendering
//
// Templates carry {name}, {temperature}, and {region} placeholders. A missing
// variable renders as the empty string rather than failing: a half-rendered
// warning still reaching a citizen beats a delivery dropped on a formatting
// error.
package domain
