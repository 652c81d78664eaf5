// Package schema describes a gallery submission as a typed record so that
// hosts (editors, archive validators) can work with entries before they
// become cards. Nothing in the card pipeline depends on it.
package schema

type QuantityType string

const (
	TypeString QuantityType = "str"
	TypeInt    QuantityType = "int"
	TypeEnum   QuantityType = "enum"
)

// Component names the editor widget a host should offer for a quantity.
type Component string

const (
	StringEdit   Component = "StringEditQuantity"
	RichTextEdit Component = "RichTextEditQuantity"
	EnumEdit     Component = "EnumEditQuantity"
	NumberEdit   Component = "NumberEditQuantity"
)

// Quantity is one typed field. Shape is nil for scalars and {"*"} for lists.
type Quantity struct {
	Name        string
	Type        QuantityType
	Shape       []string
	Enum        []string
	Description string
	Component   Component
}

func (q Quantity) IsList() bool {
	return len(q.Shape) > 0
}

type Section struct {
	Name        string
	Description string
	Quantities  []Quantity
}

func (s Section) Quantity(name string) (Quantity, bool) {
	for _, q := range s.Quantities {
		if q.Name == name {
			return q, true
		}
	}
	return Quantity{}, false
}

type Package struct {
	Name     string
	Sections []Section
}

var MethodologyTypes = []string{"Computational", "Experimental", "Mixed/Hybrid"}

var GalleryEntry = Section{
	Name:        "GalleryEntry",
	Description: "A schema for describing an entry in the NOMAD Gallery, showcasing features, examples, and use cases.",
	Quantities: []Quantity{
		{Name: "name", Type: TypeString, Description: "Title of the Gallery Entry", Component: StringEdit},
		{Name: "research_field", Type: TypeString, Description: "The specific scientific domain (e.g., Battery Science, Catalysis).", Component: StringEdit},
		{Name: "description", Type: TypeString, Description: "Project description, research question, and how NOMAD was integrated.", Component: RichTextEdit},
		{Name: "institution", Type: TypeString, Description: "Name of the institution or research center.", Component: StringEdit},
		{Name: "country", Type: TypeString, Description: "Country of the institution.", Component: StringEdit},
		{Name: "coauthors", Type: TypeString, Shape: []string{"*"}, Description: "List of coauthors involved in the project.", Component: StringEdit},
		{Name: "methodology_type", Type: TypeEnum, Enum: MethodologyTypes, Description: "Whether the work is primarily computational, experimental, or both.", Component: EnumEdit},
		{Name: "technique", Type: TypeString, Description: "Specific experimental or computational techniques used.", Component: StringEdit},
		{Name: "data_size", Type: TypeString, Description: `Approximate size of the dataset (e.g., "50 GB").`, Component: StringEdit},
		{Name: "keywords", Type: TypeString, Shape: []string{"*"}, Description: "Keywords or tags (e.g., AI, NeXus, Perovskite).", Component: StringEdit},
		{Name: "publication_reference", Type: TypeString, Description: "DOI or link to the related publication.", Component: StringEdit},
		{Name: "funding_reference", Type: TypeString, Description: "Grant number or funding agency reference.", Component: StringEdit},
		{Name: "estimated_active_users", Type: TypeInt, Description: "Estimated number of current active users (if applicable).", Component: NumberEdit},
		{Name: "downloads", Type: TypeInt, Description: "Number of downloads (if applicable).", Component: NumberEdit},
		{Name: "media_url", Type: TypeString, Description: "Link to a short video or GIF showcasing the tool.", Component: StringEdit},
	},
}

var galleryPackage = &Package{
	Name:     "nomad_gallery.schema_packages.schema_package",
	Sections: []Section{GalleryEntry},
}

// EntryPoint is how a host discovers the package.
type EntryPoint struct {
	Name        string
	Description string
	// Parameter is a free host-side setting.
	Parameter int
}

var SchemaPackageEntryPoint = EntryPoint{
	Name:        "NewSchemaPackage",
	Description: "New schema package entry point configuration.",
}

func (e EntryPoint) Load() *Package {
	return galleryPackage
}
