// Package qual owns the precision lattice {PRECISE, APPROX}.
//
// Everything the checker and the lowering stage need to know about qualifiers
// lives here: the two lattice values, the flow relation per operation class,
// the exact-match rule for pointees, the lowered tag encoding and the sentinel
// values of the escape markers. A Lattice value is immutable and is passed
// explicitly to sema and mir; no other package spells these constants.
package qual
