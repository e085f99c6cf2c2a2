// Package directive parses the text of binding attributes.
//
// A directive is a list of reference expressions separated by the
// reference separator (whitespace by default). Each expression is either a
// bare reference name or a multivalue expression: several names joined by
// the multivalue separator, optionally followed by the calc separator and
// the name of a registered calculation.
//
//	name                 bare reference
//	first+last           multivalue, default concatenation
//	first+last:join      multivalue combined by the "join" calculation
//	user.name title      two bare references
//
// Parsing is pure; malformed text yields a coded parse error.
package directive
