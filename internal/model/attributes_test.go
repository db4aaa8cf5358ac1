package model

import (
	"testing"

	"ridl/internal/source"
)

func attrSpan(start uint32) source.Span {
	return source.Span{File: 1, Start: start, End: start + 1}
}

func TestAttributesTakeWord(t *testing.T) {
	attrs := NewAttributes()
	attrs.AddWord("reserved", attrSpan(10))

	if _, ok := attrs.TakeWord("reserved"); !ok {
		t.Fatal("Expected to take the word")
	}
	if _, ok := attrs.TakeWord("reserved"); ok {
		t.Error("Expected the word to be consumed")
	}
	if got := len(attrs.Unused()); got != 0 {
		t.Errorf("Expected nothing unused, got %d", got)
	}
}

func TestAttributesDuplicateWord(t *testing.T) {
	attrs := NewAttributes()
	if _, dup := attrs.AddWord("x", attrSpan(1)); dup {
		t.Fatal("Expected first add to be fresh")
	}
	prev, dup := attrs.AddWord("x", attrSpan(9))
	if !dup {
		t.Fatal("Expected duplicate to be flagged")
	}
	if prev.Start != 1 {
		t.Errorf("Expected previous span at 1, got %d", prev.Start)
	}
}

func TestAttributesUnusedSorted(t *testing.T) {
	attrs := NewAttributes()
	attrs.AddWord("late", attrSpan(30))
	attrs.AddWord("early", attrSpan(5))
	sel := NewSelection(attrSpan(20))
	attrs.AddSelection("mid", sel)

	unused := attrs.Unused()
	if len(unused) != 3 {
		t.Fatalf("Expected 3 unused spans, got %d", len(unused))
	}
	for i := 1; i < len(unused); i++ {
		if unused[i-1].Start > unused[i].Start {
			t.Fatalf("Expected spans in position order, got %v", unused)
		}
	}
}

func TestSelectionTakeWord(t *testing.T) {
	sel := NewSelection(attrSpan(0))
	sel.AddWord(IdentifierValue("upper_camel", attrSpan(3)))
	sel.AddWord(IdentifierValue("extra", attrSpan(8)))

	first, ok := sel.TakeWord()
	if !ok {
		t.Fatal("Expected first word")
	}
	if first.Str != "upper_camel" {
		t.Errorf("Expected upper_camel, got %q", first.Str)
	}

	unused := sel.Unused()
	if len(unused) != 1 {
		t.Fatalf("Expected 1 unused span, got %d", len(unused))
	}
	if unused[0].Start != 8 {
		t.Errorf("Expected leftover at 8, got %d", unused[0].Start)
	}
}

func TestSelectionTakeValue(t *testing.T) {
	sel := NewSelection(attrSpan(0))
	if _, dup := sel.AddValue("key", StringValue("v1", attrSpan(4))); dup {
		t.Fatal("Expected first value to be fresh")
	}
	if _, dup := sel.AddValue("key", StringValue("v2", attrSpan(9))); !dup {
		t.Fatal("Expected duplicate key to be flagged")
	}

	v, ok := sel.Take("key")
	if !ok {
		t.Fatal("Expected to take the value")
	}
	if v.Str != "v2" {
		t.Errorf("Expected the latest value v2, got %q", v.Str)
	}
	if _, ok := sel.Take("key"); ok {
		t.Error("Expected the value to be consumed")
	}
	if _, ok := sel.Take("missing"); ok {
		t.Error("Expected miss for unknown key")
	}
}

func TestSelectionEmptyTakeWord(t *testing.T) {
	sel := NewSelection(attrSpan(0))
	if _, ok := sel.TakeWord(); ok {
		t.Error("Expected no word in an empty selection")
	}
}
