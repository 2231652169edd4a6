package core

// Category is a fixed spending bucket with a stable id, display name and
// color tag used by charts.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// CategoryOther is the fallback category for transactions whose category is
// missing or unknown.
const CategoryOther = "other"

// TopCategoryNone is returned by aggregations when there are no transactions
// to rank.
const TopCategoryNone = "none"

// Categories is the fixed registry. Order is display order and the order
// aggregations emit per-category rows in. Do not mutate at runtime.
var Categories = []Category{
	{ID: "groceries", Name: "Groceries", Color: "#4CAF50"},
	{ID: "housing", Name: "Housing", Color: "#2196F3"},
	{ID: "transportation", Name: "Transportation", Color: "#FF9800"},
	{ID: "utilities", Name: "Utilities", Color: "#9C27B0"},
	{ID: "entertainment", Name: "Entertainment", Color: "#F44336"},
	{ID: "healthcare", Name: "Healthcare", Color: "#00BCD4"},
	{ID: "dining", Name: "Dining Out", Color: "#795548"},
	{ID: "shopping", Name: "Shopping", Color: "#E91E63"},
	{ID: "education", Name: "Education", Color: "#3F51B5"},
	{ID: "other", Name: "Other", Color: "#607D8B"},
}

var categoryIndex = func() map[string]Category {
	m := make(map[string]Category, len(Categories))
	for _, c := range Categories {
		m[c.ID] = c
	}
	return m
}()

// CategoryByID looks up a category in the registry.
func CategoryByID(id string) (Category, bool) {
	c, ok := categoryIndex[id]
	return c, ok
}

// CategoryName returns the display name for a category id, or "None" for the
// TopCategoryNone sentinel and unknown ids.
func CategoryName(id string) string {
	if c, ok := categoryIndex[id]; ok {
		return c.Name
	}
	return "None"
}

// ResolveCategory returns the category id a transaction counts against.
// Missing or unrecognized categories fall back to "other". Every aggregation
// entry point goes through here so the fallback rule cannot drift.
func ResolveCategory(t Transaction) string {
	if t.Category == "" {
		return CategoryOther
	}
	if _, ok := categoryIndex[t.Category]; !ok {
		return CategoryOther
	}
	return t.Category
}
