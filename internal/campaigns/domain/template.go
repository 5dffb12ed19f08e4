package domain

import (
	"regexp"
	"strings"

	leaddomain "github.com/covenantOS/serviceline-dashboard/internal/leads/domain"
)

var templateVariablePattern = regexp.MustCompile(`\{\{(\w+)\}\}`)

// TemplateVariables returns the distinct {{name}} placeholders in text, in order of appearance.
func TemplateVariables(text string) []string {
	matches := templateVariablePattern.FindAllStringSubmatch(text, -1)
	out := make([]string, 0, len(matches))
	seen := make(map[string]struct{}, len(matches))
	for _, m := range matches {
		if _, ok := seen[m[1]]; ok {
			continue
		}
		seen[m[1]] = struct{}{}
		out = append(out, m[1])
	}
	return out
}

// RenderTemplate substitutes every {{name}} with vars[name]. Unknown
// placeholders are left untouched.
func RenderTemplate(text string, vars map[string]string) string {
	return templateVariablePattern.ReplaceAllStringFunc(text, func(match string) string {
		name := match[2 : len(match)-2]
		if value, ok := vars[name]; ok {
			return value
		}
		return match
	})
}

// LeadTemplateVars exposes the lead fields available to campaign templates.
func LeadTemplateVars(lead leaddomain.Lead) map[string]string {
	firstName := lead.Name
	if i := strings.IndexByte(lead.Name, ' '); i > 0 {
		firstName = lead.Name[:i]
	}
	return map[string]string{
		"name":      lead.Name,
		"firstName": firstName,
		"email":     lead.Email,
		"company":   lead.Company,
		"jobTitle":  lead.JobTitle,
		"industry":  lead.Industry,
		"location":  lead.Location,
		"country":   lead.Country,
	}
}

// SampleLead is used to preview templates before a real lead is available.
func SampleLead() leaddomain.Lead {
	return leaddomain.Lead{
		Name:     "Jordan Smith",
		Email:    "jordan.smith@example.com",
		Company:  "Example Co",
		JobTitle: "Operations Manager",
		Industry: "Technology",
		Location: "Austin",
		Country:  "US",
	}
}
