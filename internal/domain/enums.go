package domain

type ProductType int

const (
	Undefined ProductType = iota
	Laptop
	Smartphone
	Tablet
	Headphones
	Smartwatch
	Camera
	Monitor
	Console
)

var productTypeNames = [...]string{
	Undefined:  "Undefined",
	Laptop:     "Laptop",
	Smartphone: "Smartphone",
	Tablet:     "Tablet",
	Headphones: "Headphones",
	Smartwatch: "Smartwatch",
	Camera:     "Camera",
	Monitor:    "Monitor",
	Console:    "Console",
}

func (t ProductType) String() string {
	if t < 0 || int(t) >= len(productTypeNames) {
		return productTypeNames[Undefined]
	}
	return productTypeNames[t]
}

// ParseProductType accepts the exact enum name, including "Undefined".
func ParseProductType(s string) (ProductType, bool) {
	for i, name := range productTypeNames {
		if name == s {
			return ProductType(i), true
		}
	}
	return Undefined, false
}

// ProductTypes lists every selectable type. Undefined is never offered.
func ProductTypes() []ProductType {
	out := make([]ProductType, 0, len(productTypeNames)-1)
	for i := range productTypeNames {
		if ProductType(i) != Undefined {
			out = append(out, ProductType(i))
		}
	}
	return out
}

func (t ProductType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText loads unknown names as Undefined rather than failing the
// whole data file.
func (t *ProductType) UnmarshalText(b []byte) error {
	v, _ := ParseProductType(string(b))
	*t = v
	return nil
}

type SearchField string

const (
	FieldUndefined   SearchField = "Undefined"
	FieldBrand       SearchField = "Brand"
	FieldDescription SearchField = "Description"
	FieldType        SearchField = "Type"
)

func ParseSearchField(s string) SearchField {
	switch SearchField(s) {
	case FieldBrand, FieldDescription, FieldType:
		return SearchField(s)
	}
	return FieldUndefined
}

// SearchFields lists the fields the search box can target.
func SearchFields() []SearchField {
	return []SearchField{FieldBrand, FieldDescription, FieldType}
}
