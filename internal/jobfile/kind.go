package jobfile

//go:generate go tool stringer -type=Kind -linecomment -output=kind_string.go

// Kind is the container shape of a document value.
type Kind int

const (
	_ Kind = iota // skip zero value, an unset Value has no kind

	KindScalar  // scalar
	KindList    // list
	KindMapping // mapping
)

// IsValid returns true if the kind is one of the known shapes.
func (k Kind) IsValid() bool {
	return k == KindScalar || k == KindList || k == KindMapping
}
