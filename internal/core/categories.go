package core

// DefaultCategories seeds local backends. The hosted backend owns its own list.
func DefaultCategories() []Category {
	return []Category{
		{ID: "food-dining", Name: "Food & Dining", Icon: "utensils", Color: "#f97316"},
		{ID: "transportation", Name: "Transportation", Icon: "car", Color: "#3b82f6"},
		{ID: "shopping", Name: "Shopping", Icon: "shopping-bag", Color: "#ec4899"},
		{ID: "entertainment", Name: "Entertainment", Icon: "film", Color: "#8b5cf6"},
		{ID: "bills-utilities", Name: "Bills & Utilities", Icon: "zap", Color: "#eab308"},
		{ID: "healthcare", Name: "Healthcare", Icon: "heart-pulse", Color: "#ef4444"},
		{ID: "housing", Name: "Housing", Icon: "home", Color: "#14b8a6"},
		{ID: "travel", Name: "Travel", Icon: "plane", Color: "#06b6d4"},
		{ID: "education", Name: "Education", Icon: "graduation-cap", Color: "#6366f1"},
		{ID: "other", Name: "Other", Icon: "more-horizontal", Color: "#64748b"},
	}
}
