package customization

// Template is a named color preset. Selecting one overwrites only the three
// color fields on the active side.
type Template struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	BackgroundColor string `json:"backgroundColor"`
	TextColor       string `json:"textColor"`
	AccentColor     string `json:"accentColor"`
}

var templateCatalog = []Template{
	{ID: "midnight", Name: "Midnight", BackgroundColor: "#1a1a2e", TextColor: "#ffffff", AccentColor: "#6366f1"},
	{ID: "sunset", Name: "Sunset", BackgroundColor: "#2d1b2e", TextColor: "#ffe8d6", AccentColor: "#f97316"},
	{ID: "ocean", Name: "Ocean", BackgroundColor: "#0f2942", TextColor: "#e0f2fe", AccentColor: "#38bdf8"},
	{ID: "forest", Name: "Forest", BackgroundColor: "#14261a", TextColor: "#ecfdf5", AccentColor: "#34d399"},
	{ID: "rose", Name: "Rose", BackgroundColor: "#2e1420", TextColor: "#fdf2f8", AccentColor: "#f472b6"},
	{ID: "mono", Name: "Mono", BackgroundColor: "#111111", TextColor: "#fafafa", AccentColor: "#a3a3a3"},
	{ID: "gold", Name: "Gold", BackgroundColor: "#1c1917", TextColor: "#fef3c7", AccentColor: "#f59e0b"},
}

var templatesByID = func() map[string]Template {
	m := make(map[string]Template, len(templateCatalog))
	for _, t := range templateCatalog {
		m[t.ID] = t
	}
	return m
}()

// Templates returns the full preset catalog in display order.
func Templates() []Template {
	out := make([]Template, len(templateCatalog))
	copy(out, templateCatalog)
	return out
}

// TemplateByID looks up a preset. The second return is false for unknown ids.
func TemplateByID(id string) (Template, bool) {
	t, ok := templatesByID[id]
	return t, ok
}
