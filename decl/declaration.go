package decl

import "github.com/koreader/crengine-sub001/value"

// Instruction is one (property-code, payload) tuple in the compiled
// instruction stream. Length carries numeric/keyword/colour payloads; Str
// carries string payloads (font-family lists, content: token strings);
// DynamicGuard carries a -cr-only-if condition that must be re-checked
// against the node's style-so-far at application time (compile-time guards
// never reach the stream at all — they discard the whole declaration).
type Instruction struct {
	rawCode      uint16
	Length       value.Length
	Str          string
	DynamicGuard DynamicGuard // zero value means "no guard"
}

// Code returns the property this instruction sets.
func (ins Instruction) Code() PropCode {
	c, _ := unpackCode(ins.rawCode)
	return c
}

// Important reports whether this instruction carries author !important.
func (ins Instruction) Important() bool {
	_, imp := unpackCode(ins.rawCode)
	return imp == ImportanceAuthor
}

// EngineImportant reports whether this instruction carries engine-asserted
// importance (every -cr-hint instruction is emitted this way; ordinary
// declarations never are).
func (ins Instruction) EngineImportant() bool {
	_, imp := unpackCode(ins.rawCode)
	return imp == ImportanceEngine
}

func newInstruction(code PropCode, important bool) Instruction {
	imp := ImportanceNone
	if important {
		imp = ImportanceAuthor
	}
	return Instruction{rawCode: packCode(code, imp)}
}

// Declaration is the compiled, typed instruction stream of §3: a flat slice
// terminated conceptually by PropStop (callers range over Instructions
// directly; the stop marker is implicit in Go as slice end, so no sentinel
// instruction is actually stored).
//
// Declarations are shared by every selector in a comma-separated group
// (§5 "Shared resources"); Go's garbage collector plays the role the
// source's reference count does, so this type carries no explicit refcount.
// By convention a *Declaration is never mutated after it is handed to a
// Selector — build it fully, then publish it.
type Declaration struct {
	Instructions []Instruction
}

// DynamicGuard is a -cr-only-if condition whose truth depends on the node's
// style-so-far during application, not on anything known at compile time.
type DynamicGuard struct {
	Keyword string // e.g. "inline", "inpage-footnote", "inside-inpage-footnote"
	Negated bool   // "not-" prefix
}

// Builder accumulates instructions for one declaration block.
type Builder struct {
	instructions []Instruction
	pendingGuard *DynamicGuard
}

// SetPendingGuard arranges for every instruction emitted from now on to
// carry guard, implementing -cr-only-if's dynamic (non-static) keywords:
// the rest of the declaration block is compiled normally, but each of its
// setters is re-checked against the node's style-so-far at apply time
// instead of being resolved once at compile time (§4.3).
func (b *Builder) SetPendingGuard(guard DynamicGuard) {
	g := guard
	b.pendingGuard = &g
}

// ClearPendingGuard ends the effect of SetPendingGuard, called once the
// declaration block finishes compiling.
func (b *Builder) ClearPendingGuard() {
	b.pendingGuard = nil
}

func (b *Builder) emit(code PropCode, important bool, l value.Length) {
	ins := newInstruction(code, important)
	ins.Length = l
	if b.pendingGuard != nil {
		ins.DynamicGuard = *b.pendingGuard
	}
	b.instructions = append(b.instructions, ins)
}

func (b *Builder) emitStr(code PropCode, important bool, s string) {
	ins := newInstruction(code, important)
	ins.Str = s
	if b.pendingGuard != nil {
		ins.DynamicGuard = *b.pendingGuard
	}
	b.instructions = append(b.instructions, ins)
}

func (b *Builder) emitEngineImportant(code PropCode, l value.Length) {
	ins := Instruction{rawCode: packCode(code, ImportanceEngine), Length: l}
	b.instructions = append(b.instructions, ins)
}

// Build finalises the builder into a Declaration. The builder must not be
// reused afterwards.
func (b *Builder) Build() *Declaration {
	return &Declaration{Instructions: b.instructions}
}
