package localink

// LinkRule describes how rows of one content type are linked into families.
//
// Resolution order: the row's explicit stored group key wins when non-empty;
// otherwise a composite of the named shared attributes is derived when every
// part is non-empty; otherwise the row's own id is used and the family is
// flagged unlinkable.
type LinkRule struct {
	// Composite names two or more shared attributes whose joined values form
	// a derived group key. Empty means explicit-key-or-id only.
	Composite []string
}

// ContentTypeSpec declares a content type's linking rule, which fields carry
// translatable text, and which attributes must stay identical across locales.
// Field order here is the order fields are walked and reported in.
type ContentTypeSpec struct {
	Name string
	Rule LinkRule
	// TranslatableFields maps to keys in LocalizedItem.Fields.
	TranslatableFields []string
	// SharedAttributes maps to keys in LocalizedItem.Shared; always copied
	// verbatim from the primary-locale row.
	SharedAttributes []string
}

// Content types of the marketing site. Plans and modules carry an explicit
// group identifier; features and testimonials rely on composite heuristics;
// the rest cannot be linked beyond their own id.
var contentTypes = []ContentTypeSpec{
	{
		Name:               "features",
		Rule:               LinkRule{Composite: []string{"icon", "show_on_home"}},
		TranslatableFields: []string{"title", "description", "highlights"},
		SharedAttributes:   []string{"icon", "show_on_home", "display_order"},
	},
	{
		Name:               "plans",
		TranslatableFields: []string{"name", "tagline", "perks"},
		SharedAttributes:   []string{"price", "billing_period", "is_popular", "display_order"},
	},
	{
		Name:               "faqs",
		TranslatableFields: []string{"question", "answer"},
		SharedAttributes:   []string{"display_order"},
	},
	{
		Name:               "testimonials",
		Rule:               LinkRule{Composite: []string{"image", "featured"}},
		TranslatableFields: []string{"author_title", "quote"},
		SharedAttributes:   []string{"image", "featured", "author", "rating"},
	},
	{
		Name:               "modules",
		TranslatableFields: []string{"title", "summary", "sections"},
		SharedAttributes:   []string{"icon", "display_order"},
	},
	{
		Name:               "demos",
		TranslatableFields: []string{"title", "caption"},
		SharedAttributes:   []string{"video_url", "thumbnail", "display_order"},
	},
	{
		Name:               "titles",
		TranslatableFields: []string{"title", "subtitle"},
		SharedAttributes:   []string{"page"},
	},
}

// ContentTypeNames returns the registered content type names in declaration
// order.
func ContentTypeNames() []string {
	names := make([]string, len(contentTypes))
	for i, ct := range contentTypes {
		names[i] = ct.Name
	}
	return names
}

// SpecFor looks up a registered content type spec by name.
func SpecFor(name string) (ContentTypeSpec, bool) {
	for _, ct := range contentTypes {
		if ct.Name == name {
			return ct, true
		}
	}
	return ContentTypeSpec{}, false
}
