package rules

// DefaultRules is the built-in rule table, in priority order. First match
// wins, so the specific rows sit above the general ones: the housing
// provider literal precedes the education keywords it would otherwise
// collide with, and brand keywords precede source-category relabels.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:     "housing",
			Category: "Housing",
			Keywords: []string{"NASAAMESEXCHANGEL"},
		},
		{
			Name:     "coffee",
			Category: "Coffee & Cafes",
			Keywords: []string{"COFFEE", "COPPERLINE", "STARBUCKS", "COFFEE VILLAGE", "SIGHTGLASS"},
		},
		{
			Name:     "tech",
			Category: "Tech & Software",
			Keywords: []string{"CURSOR", "OPENAI", "CHATGPT", "APPLE.COM"},
		},
		{
			Name:     "transport",
			Category: "Transportation",
			Keywords: []string{"UBER", "LYFT", "CLIPPER", "ZIPCAR"},
		},
		{
			Name:     "airline",
			Category: "Air Travel",
			Keywords: []string{"UNITED AIRLINES"},
		},
		{
			Name:     "restaurants",
			Category: "Restaurants & Dining",
			Keywords: []string{
				"THAI NOODLE", "PHO TO LUV", "5TH ELEMENT INDIA",
				"MCDONALD", "CHIPOTLE", "CHICK-FIL-A", "IN-N-OUT",
			},
			SourceCategories: []string{"Restaurants"},
		},
		{
			Name:            "education-work",
			Category:        "Education/Work",
			Keywords:        []string{"NASA", "EMBRY RIDDLE", "ERAU"},
			ExcludeKeywords: []string{"NASAAMESEXCHANGEL"},
		},
		{
			Name:     "gas",
			Category: "Gas & Fuel",
			Keywords: []string{"EXXONMOBIL", "SHELL", "CHEVRON", "WAWA", "CIRCLE K", "MARATHON"},
		},
		{
			Name:             "groceries",
			Category:         "Groceries & Supermarkets",
			Keywords:         []string{"PUBLIX", "SAFEWAY", "TRADER JOE", "WINN-DIXIE", "TARGET"},
			SourceCategories: []string{"Groceries", "Supermarkets"},
		},
		{
			Name:             "rename-travel",
			Category:         "Travel & Entertainment",
			SourceCategories: []string{"Travel/ Entertainment"},
		},
		{
			Name:             "rename-rebates",
			Category:         "Cashback & Credits",
			SourceCategories: []string{"Awards and Rebate Credits"},
		},
		{
			Name:             "rename-payments",
			Category:         "Payments & Credits",
			SourceCategories: []string{"Payments and Credits"},
		},
	}
}
