package decl_test

import (
	"testing"

	"github.com/koreader/crengine-sub001/decl"
)

func TestCompileBlock_Basic(t *testing.T) {
	d, late, ok := decl.CompileBlock(`color: red; font-weight: bold;`, decl.BlockContext{})
	if !ok {
		t.Fatal("expected block to compile")
	}
	if late {
		t.Error("did not expect -cr-hint: late")
	}
	if len(d.Instructions) != 2 {
		t.Fatalf("expected 2 instructions, got %d", len(d.Instructions))
	}
}

func TestCompileBlock_TrailingSemicolonOptional(t *testing.T) {
	d, _, ok := decl.CompileBlock(`color: red`, decl.BlockContext{})
	if !ok || len(d.Instructions) != 1 {
		t.Fatalf("expected 1 instruction, ok=%v", ok)
	}
}

func TestCompileBlock_Important(t *testing.T) {
	d, _, ok := decl.CompileBlock(`color: red !important;`, decl.BlockContext{})
	if !ok {
		t.Fatal("expected block to compile")
	}
	if !d.Instructions[0].Important() {
		t.Error("expected the !important flag to survive compilation")
	}
}

func TestCompileBlock_MalformedDeclarationSkippedNotFatal(t *testing.T) {
	d, _, ok := decl.CompileBlock(`color red; font-weight: bold;`, decl.BlockContext{})
	if !ok {
		t.Fatal("a malformed declaration must not fail the whole block")
	}
	if len(d.Instructions) != 1 {
		t.Fatalf("expected the malformed decl to be skipped and the good one kept, got %d instructions", len(d.Instructions))
	}
}

func TestCompileBlock_CrHintLate(t *testing.T) {
	_, late, ok := decl.CompileBlock(`-cr-hint: late footnote-inpage;`, decl.BlockContext{})
	if !ok {
		t.Fatal("expected block to compile")
	}
	if !late {
		t.Error("expected late=true")
	}
}

func TestCompileBlock_OnlyIfStaticGuardFailureDiscardsBlock(t *testing.T) {
	d, _, ok := decl.CompileBlock(`-cr-only-if: fb2; color: red;`, decl.BlockContext{DocFormat: "epub"})
	if ok {
		t.Fatal("expected a failing static guard to discard the whole block")
	}
	if d != nil {
		t.Error("expected a nil declaration on guard failure")
	}
}

func TestCompileBlock_OnlyIfStaticGuardSuccessKeepsRest(t *testing.T) {
	d, _, ok := decl.CompileBlock(`-cr-only-if: epub; color: red;`, decl.BlockContext{DocFormat: "epub"})
	if !ok {
		t.Fatal("expected the matching static guard to let the block compile")
	}
	if len(d.Instructions) != 1 {
		t.Fatalf("expected 1 instruction, got %d", len(d.Instructions))
	}
}

func TestCompileBlock_CommentsStripped(t *testing.T) {
	d, _, ok := decl.CompileBlock(`/* note */ color: red; /* trailing */`, decl.BlockContext{})
	if !ok || len(d.Instructions) != 1 {
		t.Fatalf("expected comments to be stripped and 1 instruction to remain, ok=%v", ok)
	}
}

func TestCompileBlock_ValueWithSemicolonInString(t *testing.T) {
	d, _, ok := decl.CompileBlock(`content: "a;b"; color: red;`, decl.BlockContext{})
	if !ok {
		t.Fatal("expected block to compile")
	}
	if len(d.Instructions) != 2 {
		t.Fatalf("expected 2 instructions (the quoted ';' must not split the declaration), got %d", len(d.Instructions))
	}
}
