package types

// Snapshot is a read-only view of the stored collection at the moment of an
// integrity check. Implementations must return records ordered by key from
// AllCharacters and AllVariants so that reports are deterministic.
type Snapshot interface {
	// FindCharacter returns the character with the given key.
	FindCharacter(key CharacterKey) (Character, bool)

	// FindVariant returns the variant with the given key.
	FindVariant(key VariantKey) (Variant, bool)

	// ContainsCharacter reports whether a character with the key of c exists.
	ContainsCharacter(c Character) bool

	// ContainsVariant reports whether a variant with the key of v exists.
	ContainsVariant(v Variant) bool

	// AllCharacters returns every stored character.
	AllCharacters() []Character

	// AllVariants returns every stored variant.
	AllVariants() []Variant
}
