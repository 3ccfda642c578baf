package directive

import (
	"reflect"
	"testing"
)

func TestIdents(t *testing.T) {
	ids, err := Idents("a == 1 && b < c")
	if err != nil {
		t.Fatalf("Idents failed: %v", err)
	}

	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("expected %v, got %v", want, ids)
	}
}

func TestIdents_ExcludesCallees(t *testing.T) {
	ids, err := Idents("min(a, b) + 1")
	if err != nil {
		t.Fatalf("Idents failed: %v", err)
	}

	for _, id := range ids {
		if id == "min" {
			t.Errorf("callee %q should not be reported as a field reference", id)
		}
	}

	want := []string{"a", "b"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("expected %v, got %v", want, ids)
	}
}

func TestIdents_Deduplicates(t *testing.T) {
	ids, err := Idents("a > 0 && a < 10")
	if err != nil {
		t.Fatalf("Idents failed: %v", err)
	}

	if len(ids) != 1 || ids[0] != "a" {
		t.Errorf("expected [a], got %v", ids)
	}
}

func TestIdents_NoIdents(t *testing.T) {
	ids, err := Idents("1 + 2")
	if err != nil {
		t.Fatalf("Idents failed: %v", err)
	}

	if len(ids) != 0 {
		t.Errorf("expected no identifiers, got %v", ids)
	}
}

func TestCheckExpr(t *testing.T) {
	if err := CheckExpr("a == 1"); err != nil {
		t.Errorf("valid expression rejected: %v", err)
	}

	if err := CheckExpr("a ==="); err == nil {
		t.Error("expected error for malformed expression")
	}
}
