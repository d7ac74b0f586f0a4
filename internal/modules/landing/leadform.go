package landing

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/intentified/web/internal/pkg/mail"
)

const (
	FieldCount    = 10
	RequiredCount = 5

	missingFieldsMessage = "Please fill out all required fields marked with an asterisk (*)."
)

// Category is one intent category of the targeting form.
type Category struct {
	Key         string
	Title       string
	Description string
	Example     string
	LabelPrefix string
	NamePrefix  string
}

var Categories = []Category{
	{
		Key:         "competitor",
		Title:       "1. Competitor Intent",
		Description: "Please provide a list of 5-10 competitors' URLs. The first five must be main website URLs. URLs 6-10 must be subpages that specifically target a service or product closely aligned with your offerings for more focused targeting.",
		Example:     "Example: Main URL: https://www.ford.com | Subpage URL: https://www.ford.com/f150",
		LabelPrefix: "Competitor URL",
		NamePrefix:  "Competitor_URL_",
	},
	{
		Key:         "social",
		Title:       "2. Social Intent",
		Description: "Please provide a list of 5-10 social media URLs relevant to your ideal buyer category. The first five must be main social media platform URLs (e.g., main pages or channels). URLs 6-10 must be subpages or specific content URLs.",
		Example:     "Example: Main URL: https://www.facebook.com/Ford | Subpage URL: https://www.facebook.com/Ford/posts/12345",
		LabelPrefix: "Social Media URL",
		NamePrefix:  "Social_URL_",
	},
	{
		Key:         "keyword",
		Title:       "3. Keyword Intent",
		Description: "Please provide a list of 5-10 URLs related to your service or product, derived from keyword or search phrase research. The first five must be main website URLs relevant to your keywords. URLs 6-10 must be subpages tied to specific products, services, or content.",
		Example:     `Example: Main URL: https://www.ford.com | Subpage URL: https://www.ford.com/trucks/f150 | Keyword: "used ford F150 near Minneapolis"`,
		LabelPrefix: "Keyword/Search Phrase URL",
		NamePrefix:  "Keyword_URL_",
	},
	{
		Key:         "website",
		Title:       "4. Website Intent",
		Description: "Please provide your website URLs to enable retargeting of visitors who do not self-identify or fill out forms. The first five must be your main website URLs. URLs 6-10 must be subpages.",
		Example:     "Example: Main URL: https://yourcompany.com | Subpage URL: https://yourcompany.com/products",
		LabelPrefix: "Website URL",
		NamePrefix:  "Website_URL_",
	},
}

type Field struct {
	ID          string
	Name        string
	Label       string
	Value       string
	Placeholder string
	Required    bool
	Missing     bool
}

type Section struct {
	Title       string
	Description string
	Example     string
	Fields      []Field
}

// Form is a parsed submission of the targeting form.
type Form struct {
	Sections []Section
}

// ParseForm builds the form from submitted values. A nil values yields the
// blank form.
func ParseForm(values url.Values) Form {
	sections := make([]Section, 0, len(Categories))
	for _, cat := range Categories {
		fields := make([]Field, 0, FieldCount)
		for i := 1; i <= FieldCount; i++ {
			n := strconv.Itoa(i)
			required := i <= RequiredCount
			f := Field{
				ID:       cat.Key + n,
				Name:     cat.NamePrefix + n,
				Required: required,
				Value:    strings.TrimSpace(values.Get(cat.NamePrefix + n)),
			}
			if required {
				f.Label = cat.LabelPrefix + " " + n + " (Main URL)"
				f.Placeholder = "https://example.com"
			} else {
				f.Label = cat.LabelPrefix + " " + n + " (Subpage URL, optional)"
				f.Placeholder = "https://example.com/page (optional)"
			}
			fields = append(fields, f)
		}
		sections = append(sections, Section{
			Title:       cat.Title,
			Description: cat.Description,
			Example:     cat.Example,
			Fields:      fields,
		})
	}
	return Form{Sections: sections}
}

// Validate flags every blank required field and reports whether the form
// can be submitted.
func (f *Form) Validate() bool {
	ok := true
	for si := range f.Sections {
		for fi := range f.Sections[si].Fields {
			field := &f.Sections[si].Fields[fi]
			field.Missing = field.Required && field.Value == ""
			if field.Missing {
				ok = false
			}
		}
	}
	return ok
}

// LeadSections returns the filled URLs per category for the notification
// email.
func (f Form) LeadSections() []mail.LeadSection {
	out := make([]mail.LeadSection, 0, len(f.Sections))
	for _, s := range f.Sections {
		urls := make([]string, 0, len(s.Fields))
		for _, field := range s.Fields {
			if field.Value != "" {
				urls = append(urls, field.Value)
			}
		}
		out = append(out, mail.LeadSection{Title: s.Title, URLs: urls})
	}
	return out
}
