// Package jsonc implements the comment-tolerant JSON document codec used to
// edit tool configuration files in place.
//
// The codec has two halves. The parser accepts the relaxed JSON dialect that
// developer tools write (// and /* */ comments, trailing commas) and produces
// a tree in which every node carries the byte span it occupies in the
// original text. The editor turns a single key-path mutation into a minimal
// list of TextEdit span replacements against that original text, so applying
// the edits preserves comments, key order, and formatting of everything the
// mutation does not touch.
//
// Documents are never round-tripped through a generic serializer. A write is
// always "splice these few byte ranges", which is what makes repeated runs
// byte-stable and keeps unrelated user content intact.
package jsonc
