package event

type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

var Categories = []Category{
	{ID: "work", Name: "Work", Color: "#4285f4"},
	{ID: "personal", Name: "Personal", Color: "#34a853"},
	{ID: "health", Name: "Health", Color: "#ea4335"},
	{ID: "social", Name: "Social", Color: "#fbbc04"},
	{ID: "other", Name: "Other", Color: "#9c27b0"},
}

func CategoryByID(id string) (Category, bool) {
	for _, c := range Categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}
