package masm

import (
	"regexp"
	"strings"
)

// Error is the typed payload of a MASM error constant. The generated
// error registry binds one Error per ERR_ declaration found in library
// source.
type Error string

// Message returns the human-readable message the constant was declared
// with.
func (e Error) Message() string { return string(e) }

// Error implements the error interface so registry constants can flow
// through ordinary error handling.
func (e Error) Error() string { return string(e) }

// ErrorDecl is a single const.ERR_ declaration extracted from source.
type ErrorDecl struct {
	Name    string // the part after ERR_, trimmed
	Message string // the quoted message, trimmed
}

// errDeclPattern matches error-constant declarations of the form
//
//	const.ERR_SOME_NAME="some message"
//
// Name and message are captured verbatim and trimmed by the caller.
var errDeclPattern = regexp.MustCompile(`const\.ERR_(?P<name>.*)="(?P<message>.*)"`)

// ExtractErrorDecls scans source text for error-constant declarations.
// Lines whose first non-blank character is '#' are comments and are
// never matched, so a declaration-shaped string inside a comment does
// not produce a phantom constant.
func ExtractErrorDecls(text string) []ErrorDecl {
	var decls []ErrorDecl

	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		for _, match := range errDeclPattern.FindAllStringSubmatch(line, -1) {
			decls = append(decls, ErrorDecl{
				Name:    strings.TrimSpace(match[1]),
				Message: strings.TrimSpace(match[2]),
			})
		}
	}

	return decls
}
