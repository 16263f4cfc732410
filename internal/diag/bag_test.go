package diag

import (
	"testing"

	"mycompiler/internal/source"
)

func TestBagLimitAndSeverity(t *testing.T) {
	bag := NewBag(2)
	r := BagReporter{Bag: bag}
	ReportWarning(r, BackendUnusedVariable, source.Span{}, "w").Emit()
	if bag.HasErrors() || !bag.HasWarnings() {
		t.Fatalf("unexpected severities in bag")
	}
	b := ReportError(r, BackendUnknownIdentifier, source.Span{}, "e").WithArgs("x")
	b.Emit()
	b.Emit()
	if bag.Len() != 2 {
		t.Fatalf("Emit must be idempotent, got %d items", bag.Len())
	}
	if bag.Add(NewError(UnknownCode, source.Span{}, "over")) {
		t.Fatalf("bag accepted item past its limit")
	}
	if !bag.HasErrors() || bag.Items()[1].Args[0] != "x" {
		t.Fatalf("error with args not stored: %+v", bag.Items())
	}
	bag.Filter(SevError)
	if bag.Len() != 1 {
		t.Fatalf("Filter kept %d items", bag.Len())
	}
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(0)
	r := NewDedupReporter(BagReporter{Bag: bag})
	d := NewError(LexUnknownChar, source.Span{Start: 1, End: 2}, "bad")
	r.Report(d)
	r.Report(d)
	r.Report(d.WithNote(source.Span{}, "ignored for identity"))
	if bag.Len() != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", bag.Len())
	}
}

func TestCodeRendering(t *testing.T) {
	if BackendUnknownIdentifier.String() != "103" {
		t.Errorf("String() = %q", BackendUnknownIdentifier.String())
	}
	if LexBadNumber.ID() != "LEX1104" || LowerArityMismatch.ID() != "LOW4001" {
		t.Errorf("unexpected ids %s %s", LexBadNumber.ID(), LowerArityMismatch.ID())
	}
	if SevError.String() != "Error" {
		t.Errorf("severity label %q", SevError.String())
	}
}
