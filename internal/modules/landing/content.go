package landing

import "strings"

type NavLink struct {
	Name     string
	Href     string
	External bool
}

type Hero struct {
	Title     string
	Subtitle  string
	CTAHref   string
	CTALabel  string
	TrustedBy []string
}

type Feature struct {
	Title       string
	Description string
	Accent      string
}

// FeatureSection renders its title with the second word highlighted.
type FeatureSection struct {
	Lead      string
	Highlight string
	Rest      string
	Subtitle  string
	Items     []Feature
}

type Client struct {
	Name string
}

type ClientSection struct {
	Title    string
	Subtitle string
	Items    []Client
}

type Plan struct {
	Name     string
	Price    string
	Perks    []string
	Featured bool
}

type CTA struct {
	Title    string
	Subtitle string
	Href     string
	Label    string
}

type FooterColumn struct {
	Heading string
	Links   []NavLink
}

// Page is everything landing.html renders.
type Page struct {
	Title    string
	SignedIn bool
	Nav      []NavLink
	Hero     Hero
	Features FeatureSection
	Clients  ClientSection
	Pricing  []Plan
	CTA      CTA
	Footer   []FooterColumn
}

// splitTitle cuts title around its second word. Titles of one word come
// back whole in lead.
func splitTitle(title string) (lead, highlight, rest string) {
	words := strings.Fields(title)
	switch len(words) {
	case 0:
		return "", "", ""
	case 1:
		return words[0], "", ""
	}
	return words[0], words[1], strings.Join(words[2:], " ")
}

var features = []Feature{
	{
		Title:       "Intent Identification",
		Description: "Real-Time Signals: Capture active buying signals across billions of data points. Competitor Insights: Borrow leads directly from competitors and dominate your niche.",
		Accent:      "blue",
	},
	{
		Title:       "Precision Analytics",
		Description: "AI-driven Insights: Turn anonymous visitors into actionable leads. Intent Dashboard: Clear visuals that highlight critical insights instantly.",
		Accent:      "yellow",
	},
	{
		Title:       "Seamless Integrations",
		Description: "Connect effortlessly with your existing CRM, marketing, and sales platforms. Automate workflows without writing a single line of code.",
		Accent:      "purple",
	},
	{
		Title:       "Built for Growth",
		Description: "Accelerate revenue with precision-driven intent data.",
		Accent:      "green",
	},
	{
		Title:       "Speed of Implementation",
		Description: "Deploy in minutes, not months, to start capturing opportunities immediately.",
		Accent:      "orange",
	},
	{
		Title:       "ROI Guaranteed",
		Description: "Stop guessing. Focus on leads that convert and maximize your marketing spend.",
		Accent:      "sky",
	},
}

var clients = []Client{
	{Name: "TARGET"},
	{Name: "SEIDIO"},
	{Name: "3RHINO"},
	{Name: "BEST BUY"},
	{Name: "DAVISCO FOODS INTERNATIONAL"},
	{Name: "PBS"},
	{Name: "NYU LANGONE MEDICAL CENTER"},
}

var plans = []Plan{
	{
		Name:  "Starter",
		Price: "$499/mo",
		Perks: []string{"Competitor intent", "Weekly lead exports", "Email support"},
	},
	{
		Name:     "Growth",
		Price:    "$1,499/mo",
		Perks:    []string{"All four intent categories", "Daily lead exports", "CRM integrations"},
		Featured: true,
	},
	{
		Name:  "Enterprise",
		Price: "Contact us",
		Perks: []string{"Custom signal sources", "Dedicated strategist", "SLA"},
	},
}

var footer = []FooterColumn{
	{Heading: "Product", Links: []NavLink{
		{Name: "Features", Href: "#features"},
		{Name: "Pricing", Href: "#pricing"},
		{Name: "Testimonials", Href: "#testimonials"},
		{Name: "API", Href: "#"},
	}},
	{Heading: "Company", Links: []NavLink{
		{Name: "About", Href: "#"},
		{Name: "Blog", Href: "#"},
		{Name: "Careers", Href: "#"},
		{Name: "Press", Href: "#"},
	}},
	{Heading: "Support", Links: []NavLink{
		{Name: "Documentation", Href: "#"},
		{Name: "Guides", Href: "#"},
		{Name: "Help Center", Href: "#"},
		{Name: "Contact", Href: "#"},
	}},
	{Heading: "Legal", Links: []NavLink{
		{Name: "Privacy", Href: "#"},
		{Name: "Terms", Href: "#"},
		{Name: "Security", Href: "#"},
	}},
	{Heading: "Social", Links: []NavLink{
		{Name: "X", Href: "https://x.com/intentified", External: true},
		{Name: "GitHub", Href: "https://github.com/intentified", External: true},
		{Name: "LinkedIn", Href: "https://www.linkedin.com/company/intentified", External: true},
	}},
}

const featuresTitle = "Packed with Cutting-Edge Features"

// NewPage assembles the landing content. signUpURL is the target of the
// hero and closing calls to action.
func NewPage(signedIn bool, signUpURL string) Page {
	lead, highlight, rest := splitTitle(featuresTitle)
	ctaHref, ctaLabel := signUpURL, "Get Started"
	if signedIn {
		ctaHref, ctaLabel = "/lead-targeting", "Start Targeting"
	}
	return Page{
		SignedIn: signedIn,
		Nav: []NavLink{
			{Name: "Features", Href: "#features"},
			{Name: "Testimonials", Href: "#testimonials"},
			{Name: "Pricing", Href: "#pricing"},
		},
		Hero: Hero{
			Title:     "Turn Buyer Intent Into Revenue",
			Subtitle:  "Intentified finds the prospects actively researching products like yours and delivers them to your sales team while they are ready to buy.",
			CTAHref:   ctaHref,
			CTALabel:  ctaLabel,
			TrustedBy: []string{"Target", "BestBuy", "Seidio", "Davisco Foods International"},
		},
		Features: FeatureSection{
			Lead:      lead,
			Highlight: highlight,
			Rest:      rest,
			Subtitle:  "Intentified identifies your prospects' real-time interests so you can deliver exactly what they're searching for.",
			Items:     features,
		},
		Clients: ClientSection{
			Title:    "Trusted by Industry Leaders",
			Subtitle: "We partner with top companies across various industries to deliver exceptional results.",
			Items:    clients,
		},
		Pricing: plans,
		CTA: CTA{
			Title:    "Ready to Reach High-Intent Buyers?",
			Subtitle: "Tell us who you compete with and we will start surfacing leads within days.",
			Href:     ctaHref,
			Label:    ctaLabel,
		},
		Footer: footer,
	}
}
