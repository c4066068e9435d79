// Package integrity decides whether a create or delete mutation of the
// dictionary keeps its references intact.
//
// The checker is a set of plain functions over a types.Snapshot. It reads
// nothing but the snapshot, writes nothing, and holds no state, so it can be
// called concurrently as long as every call gets its own consistent view.
// Callers commit the mutation only when the returned report is empty and
// must run the check and the commit inside the same transaction; the
// checker does not serialize mutations itself.
//
// Rule groups, in evaluation order:
//
//	create character  radical exists, radical is base, radical variant
//	                  exists, key is free (each step halts the group)
//	create variant    original exists, original is base, key is free
//	delete character  record is known (halts), no dependent characters,
//	                  no dependent variants (both may be reported)
//	delete variant    record is known (halts), no dependent characters
package integrity
