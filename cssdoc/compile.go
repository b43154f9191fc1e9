// Package cssdoc is the top-level CSS ingestion pipeline (§1's "ingests CSS
// source text ... compiles it into an efficient in-memory representation"):
// it walks raw stylesheet/inline-declaration text at the byte-cursor level
// the way §4.1's lexical primitives describe, dispatching qualified rules
// to the selector compiler (C4) and declaration compiler (C3), at-rules to
// the at-rule evaluator (C5), and publishing the result into a stylesheet
// store (C6). It is the glue component described in §2's "Data flow" line,
// grounded on css/parser.go's top-level Next()-loop dispatch (BeginAtRuleGrammar
// / BeginRulesetGrammar / AtRuleGrammar cases) generalised to hand-rolled
// brace/quote/comment-aware scanning so declaration bodies reach decl.CompileBlock
// as raw text exactly as §4.3 describes, rather than pre-split tdewolff tokens.
package cssdoc

import (
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/koreader/crengine-sub001/atrule"
	"github.com/koreader/crengine-sub001/decl"
	"github.com/koreader/crengine-sub001/domid"
	"github.com/koreader/crengine-sub001/selector"
	"github.com/koreader/crengine-sub001/stylesheet"
)

// Options groups everything the compiler needs beyond the raw CSS text
// itself: the document-level services §6.1/§6.5 describe as external
// collaborators, threaded explicitly instead of as package globals
// (SPEC_FULL.md's engine-configuration value, §9 "Global mutable state").
type Options struct {
	DocFormat    string              // "epub", "fb2", "chm", "html", ... (§4.3 static guards, §4.4 html aliasing)
	RenderLegacy bool                // -cr-only-if legacy-render/auto-render (§4.3)
	Viewport     atrule.Viewport     // §4.5 @media feature evaluation
	Loader       atrule.StylesheetLoader // §6.2; nil disables @import resolution
	BasePath     string              // base path @import targets resolve against
	Alias        selector.AliasFn    // element-name aliasing (§4.4); nil means no aliasing
}

// Compiler parses CSS source text and publishes compiled selectors into a
// stylesheet.Store.
type Compiler struct {
	log      *zap.Logger
	interner domid.Interner
	opts     Options
	warnings error
}

// NewCompiler creates a Compiler bound to interner (the document's name
// interning service, §6.1) and opts.
func NewCompiler(log *zap.Logger, interner domid.Interner, opts Options) *Compiler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Compiler{log: log.Named("css-compiler"), interner: interner, opts: opts}
}

// Compile parses data as a full stylesheet (or a document fragment's
// scoped <style> text) and inserts every surviving selector into store.
// @import nesting is tracked internally and capped at maxImportDepth to
// guard against cycles. Any recoverable selector errors (§7) encountered along the way
// are collected and available from Warnings afterwards, rather than
// aborting the parse.
func (c *Compiler) Compile(data []byte, store *stylesheet.Store) {
	c.compile(string(data), store, 0)
}

// Warnings returns every recoverable selector error (§7's "recoverable
// selector error": the surrounding selector list is dropped, parsing
// continues) accumulated across every Compile call so far, aggregated with
// go.uber.org/multierr the way cmd/fbc/main.go aggregates independent
// non-fatal cleanup errors. Returns nil if nothing was dropped. The style
// computation itself never surfaces these (§7: "no user-visible error
// codes from style computation"); this is purely a diagnostics surface for
// callers such as cmd/csseng that want to report what was skipped.
func (c *Compiler) Warnings() error {
	return c.warnings
}

// CompileInline compiles a bare "prop: value; ..." inline style attribute
// (no selector, no braces) into a single Declaration, per §6.4's inline
// declaration surface.
func (c *Compiler) CompileInline(raw string) *decl.Declaration {
	d, _, _ := decl.CompileBlock(raw, decl.BlockContext{DocFormat: c.opts.DocFormat, RenderLegacy: c.opts.RenderLegacy})
	return d
}

const maxImportDepth = 16

func (c *Compiler) compile(src string, store *stylesheet.Store, importDepth int) {
	pos := 0
	for {
		pos = skipInsignificant(src, pos)
		if pos >= len(src) {
			return
		}
		if src[pos] == '}' {
			// Stray close brace (malformed input): drop it and keep scanning,
			// matching §7's "fatal input" recovery ("parsed from the next
			// recognisable top-level selector or at-rule").
			pos++
			continue
		}
		if src[pos] == '@' {
			pos = c.compileAtRule(src, pos, store, importDepth)
			continue
		}
		pos = c.compileRuleset(src, pos, store)
	}
}

// compileRuleset parses one "selector-list { declarations }" starting at
// pos (which is not whitespace) and returns the index just past the
// closing '}'. A prelude with no '{' before EOF is a fatal truncation
// (§7); the remainder of src is abandoned.
func (c *Compiler) compileRuleset(src string, pos int, store *stylesheet.Store) int {
	preludeEnd, term := scanPrelude(src, pos)
	if term != '{' {
		return len(src)
	}
	prelude := strings.TrimSpace(src[pos:preludeEnd])
	bodyStart := preludeEnd + 1
	bodyEnd, ok := findMatchingBrace(src, bodyStart)
	if !ok {
		return len(src)
	}
	body := src[bodyStart:bodyEnd]
	next := bodyEnd + 1

	if prelude == "" {
		return next
	}

	sels, errs := selector.ParseList(prelude, c.interner, c.opts.Alias)
	for _, err := range errs {
		c.log.Debug("dropping malformed selector", zap.Error(err))
		c.warnings = multierr.Append(c.warnings, err)
	}
	if len(sels) == 0 {
		return next
	}

	d, late, ok := decl.CompileBlock(body, decl.BlockContext{DocFormat: c.opts.DocFormat, RenderLegacy: c.opts.RenderLegacy})
	if !ok {
		// -cr-only-if static guard failed: the entire declaration is
		// discarded, selectors and all (§4.3/§7).
		return next
	}
	for _, sel := range sels {
		sel.Decl = d
		if late {
			sel.SetExtraWeight(true)
		}
		store.Insert(sel)
	}
	return next
}

// compileAtRule dispatches one "@foo ..." construct starting at pos (the
// '@') and returns the index just past it, per §4.5's at-rule
// classification.
func (c *Compiler) compileAtRule(src string, pos int, store *stylesheet.Store, importDepth int) int {
	preludeEnd, term := scanPrelude(src, pos)
	head := src[pos:preludeEnd]
	name, tail := splitAtRuleName(head)
	name = strings.ToLower(name)

	switch term {
	case ';', 0:
		next := preludeEnd
		if term == ';' {
			next++
		} else {
			next = len(src)
		}
		if name == "@import" && term == ';' {
			c.handleImport(tail, store, importDepth)
		}
		// @charset, @namespace, @custom-selector, @custom-media and any
		// other semicolon-terminated at-rule: skip to next ';' (§4.5).
		return next
	case '{':
		bodyStart := preludeEnd + 1
		bodyEnd, ok := findMatchingBrace(src, bodyStart)
		if !ok {
			return len(src)
		}
		body := src[bodyStart:bodyEnd]
		next := bodyEnd + 1

		switch name {
		case "@media":
			ml := atrule.ParseMediaQueryList(tail)
			if ml.Matches(c.opts.Viewport) {
				c.compile(body, store, importDepth)
			}
			// condition false: already fully parsed above to preserve
			// brace balance, now silently discarded (§4.5/§7).
		case "@supports":
			cond := atrule.ParseSupportsCondition(tail)
			if cond.MatchesSupports() {
				c.compile(body, store, importDepth)
			}
		default:
			// @font-face, @page, @keyframes, @font-feature-values,
			// @color-profile, @counter-style, @property, @viewport: parsed
			// to maintain balance, then discarded (§4.5).
		}
		return next
	default:
		return len(src)
	}
}

func (c *Compiler) handleImport(tail string, store *stylesheet.Store, importDepth int) {
	if c.opts.Loader == nil || importDepth >= maxImportDepth {
		return
	}
	imp := atrule.ParseImportTail(tail)
	if imp.Target == "" {
		return
	}
	if imp.MediaList != nil && !imp.MediaList.Matches(c.opts.Viewport) {
		return
	}
	data, err := c.opts.Loader.Load(c.opts.BasePath, imp.Target)
	if err != nil {
		c.log.Debug("unable to load @import target", zap.String("target", imp.Target), zap.Error(err))
		return
	}
	c.compile(string(data), store, importDepth+1)
}

// splitAtRuleName splits "@media (min-width: 10px)" into "@media" and the
// trimmed remainder.
func splitAtRuleName(head string) (name, tail string) {
	head = strings.TrimSpace(head)
	for i, r := range head {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '(' {
			return strings.TrimSpace(head[:i]), strings.TrimSpace(head[i:])
		}
	}
	return head, ""
}
