package domain

import "strings"

// SelectTemplate picks the best-matching active template for a situation and
// a triggering temperature: among templates whose threshold does not exceed
// the temperature, the highest threshold wins. Returns nil when nothing
// qualifies; the caller then simply produces no personalized alert.
func SelectTemplate(templates []AlertTemplate, situation Situation, temp float64) *AlertTemplate {
	var best *AlertTemplate
	for i := range templates {
		t := &templates[i]
		if !t.IsActive || t.Situation != situation || t.TemperatureThreshold > temp {
			continue
		}
		if best == nil || t.TemperatureThreshold > best.TemperatureThreshold {
			best = t
		}
	}
	return best
}

// TemplateVars carries the values substituted into a message template.
type TemplateVars struct {
	Name        string
	Temperature string
	Region      string
}

// RenderTemplate substitutes {name}, {temperature}, and {region} placeholders.
// A placeholder with no value renders empty instead of failing.
func RenderTemplate(tpl string, vars TemplateVars) string {
	r := strings.NewReplacer(
		"{name}", vars.Name,
		"{temperature}", vars.Temperature,
		"{region}", vars.Region,
	)
	return r.Replace(tpl)
}
