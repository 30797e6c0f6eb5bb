package source

//go:generate go tool stringer -type=KindEnum -output=kind_string.go

// KindEnum classifies the shape of a source value as produced by a generic
// YAML or JSON decode into any.
type KindEnum int

const (
	KindInvalid KindEnum = iota
	KindNil
	KindBool
	KindInt
	KindFloat
	KindString
	KindSequence
	KindMapping
)
