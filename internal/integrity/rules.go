package integrity

import "github.com/pmachovec/asciipinyin/pkg/types"

// The rule functions assume a candidate that already passed entity-local
// validation. Halting rules return as soon as they report.

func createCharacterRules(c types.Character, snap types.Snapshot) types.IntegrityReport {
	var report types.IntegrityReport

	if radicalKey, ok := c.RadicalKey(); ok {
		radical, found := snap.FindCharacter(radicalKey)
		if !found {
			return append(report, types.NewIntegrityError(types.RadicalUnknown))
		}
		if radical.IsDerived() {
			return append(report, types.NewIntegrityError(types.RadicalNotRadical, types.CharacterConflict(radical)))
		}
		if c.RadicalVariant != "" {
			// Derive the lookup from the stored radical, not from the
			// candidate's own radical fields.
			key := types.VariantKey{Glyph: c.RadicalVariant, Original: radical.Key()}
			if _, found := snap.FindVariant(key); !found {
				return append(report, types.NewIntegrityError(types.AlternativeUnknown))
			}
		}
	}

	if snap.ContainsCharacter(c) {
		existing, found := snap.FindCharacter(c.Key())
		if !found {
			existing = c
		}
		report = append(report, types.NewIntegrityError(types.CharacterExists, types.CharacterConflict(existing)))
	}
	return report
}

func createVariantRules(v types.Variant, snap types.Snapshot) types.IntegrityReport {
	var report types.IntegrityReport

	original, found := snap.FindCharacter(v.OriginalKey())
	if !found {
		return append(report, types.NewIntegrityError(types.OriginalUnknown))
	}
	if original.IsDerived() {
		return append(report, types.NewIntegrityError(types.OriginalNotRadical, types.CharacterConflict(original)))
	}

	if snap.ContainsVariant(v) {
		existing, found := snap.FindVariant(v.Key())
		if !found {
			existing = v
		}
		report = append(report, types.NewIntegrityError(types.AlternativeExists, types.VariantConflict(existing)))
	}
	return report
}

func deleteCharacterRules(c types.Character, snap types.Snapshot) types.IntegrityReport {
	var report types.IntegrityReport

	if !snap.ContainsCharacter(c) {
		return append(report, types.NewIntegrityError(types.CharacterUnknown))
	}

	// Base status comes from the stored record; the candidate may carry
	// only the key.
	stored, found := snap.FindCharacter(c.Key())
	if !found {
		stored = c
	}
	key := stored.Key()

	if stored.IsBase() {
		if dependents := charactersWithRadical(snap, key); len(dependents) > 0 {
			report = append(report, types.NewIntegrityError(types.IsRadicalForOthers, dependents...))
		}
	}

	var variants []types.ConflictEntity
	for _, v := range snap.AllVariants() {
		if v.OriginalKey() == key {
			variants = append(variants, types.VariantConflict(v))
		}
	}
	if len(variants) > 0 {
		report = append(report, types.NewIntegrityError(types.HasAlternatives, variants...))
	}
	return report
}

func deleteVariantRules(v types.Variant, snap types.Snapshot) types.IntegrityReport {
	var report types.IntegrityReport

	if !snap.ContainsVariant(v) {
		return append(report, types.NewIntegrityError(types.AlternativeUnknown))
	}

	var dependents []types.ConflictEntity
	for _, c := range snap.AllCharacters() {
		radical, ok := c.RadicalKey()
		if ok && c.RadicalVariant == v.Glyph && radical == v.OriginalKey() {
			dependents = append(dependents, types.CharacterConflict(c))
		}
	}
	if len(dependents) > 0 {
		report = append(report, types.NewIntegrityError(types.IsAlternativeForCharacters, dependents...))
	}
	return report
}

func charactersWithRadical(snap types.Snapshot, key types.CharacterKey) []types.ConflictEntity {
	var out []types.ConflictEntity
	for _, c := range snap.AllCharacters() {
		if radical, ok := c.RadicalKey(); ok && radical == key {
			out = append(out, types.CharacterConflict(c))
		}
	}
	return out
}
