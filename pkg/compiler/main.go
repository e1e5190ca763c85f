// Package compiler translates QuasiScript, a parenthesised prefix notation, into
// JavaScript source text.
//
// Pipeline: source → Tokenizer → Parser (desugaring) → CodeGen → target text
//
// The lexical rules, sugar and operator tables are data held by a Dialect;
// Default is the standard one.
package compiler
