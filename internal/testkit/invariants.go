// Package testkit holds structural checks shared by parser and checker tests.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"approxc/internal/ast"
	"approxc/internal/source"
)

// CheckSpanInvariants runs span invariants on a parsed translation unit:
// 1) the file span is non-empty and lies within the content
// 2) every top-level item span is non-empty and inside the file span
// 3) items are in source order and do not overlap
// 4) every expression span points into the same file and the content
func CheckSpanInvariants(b *ast.Builder, fileID ast.FileID, sf *source.File) error {
	if b == nil || sf == nil {
		return fmt.Errorf("nil builder or file")
	}
	f := b.Files.Get(fileID)
	if f == nil {
		return fmt.Errorf("file node not found")
	}
	contentLen, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}

	if len(f.Items) > 0 && f.Span.End <= f.Span.Start {
		return fmt.Errorf("file span is empty: %v", f.Span)
	}
	if f.Span.File != sf.ID {
		return fmt.Errorf("file span points to different file id: got=%d want=%d", f.Span.File, sf.ID)
	}
	if f.Span.End > contentLen {
		return fmt.Errorf("file span end beyond content: %d > %d", f.Span.End, contentLen)
	}

	var prev source.Span
	for i, it := range f.Items {
		item := b.Items.Get(it)
		if item == nil {
			return fmt.Errorf("nil item for id=%d", it)
		}
		sp := item.Span
		if sp.End <= sp.Start {
			return fmt.Errorf("empty item span: %v", sp)
		}
		if sp.File != sf.ID {
			return fmt.Errorf("item span file mismatch: got=%d want=%d", sp.File, sf.ID)
		}
		if sp.Start < f.Span.Start || sp.End > f.Span.End {
			return fmt.Errorf("item span %v is outside file span %v", sp, f.Span)
		}
		if i > 0 && sp.Start < prev.End {
			return fmt.Errorf("item span %v overlaps previous item %v", sp, prev)
		}
		prev = sp
	}

	for i, e := range b.Exprs.Arena.Slice() {
		if e.Span.Empty() {
			continue
		}
		if e.Span.File != sf.ID {
			return fmt.Errorf("expr #%d span file mismatch: got=%d want=%d", i+1, e.Span.File, sf.ID)
		}
		if e.Span.Start > e.Span.End || e.Span.End > contentLen {
			return fmt.Errorf("expr #%d span %v outside content (len %d)", i+1, e.Span, contentLen)
		}
	}
	return nil
}
