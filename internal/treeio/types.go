package treeio

// AttrType identifies the external type of one tree attribute.
//
// TreeID and CollectionID are synthetic identifier columns added by the
// adapter rather than declared in table options; ParseAttrType therefore
// only recognizes the four declarable tags.
type AttrType int

const (
	Invalid AttrType = iota
	Int32
	UInt32
	Float64
	Bool
	TreeID
	CollectionID
)

// ParseAttrType maps an option type tag to its AttrType.
// Unknown tags map to Invalid.
func ParseAttrType(tag string) AttrType {
	switch tag {
	case "int":
		return Int32
	case "uint":
		return UInt32
	case "float":
		return Float64
	case "bool":
		return Bool
	}
	return Invalid
}

func (t AttrType) String() string {
	switch t {
	case Int32:
		return "int"
	case UInt32:
		return "uint"
	case Float64:
		return "float"
	case Bool:
		return "bool"
	case TreeID:
		return "tree_id"
	case CollectionID:
		return "collection_id"
	}
	return "invalid"
}
