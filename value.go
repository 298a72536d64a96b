package dictionary

import "strings"

// Value is the text stored under a key, or Undefined.
//
// A key holding Undefined is still present in the table: Contains reports
// true for it and Get returns Undefined rather than the caller's default.
type Value struct {
	text    string
	defined bool
}

// Undefined is the value of a key that was set without text.
var Undefined Value

// Text returns a defined Value holding s. Text("") is defined and empty.
func Text(s string) Value {
	return Value{text: s, defined: true}
}

// IsUndefined reports whether v is Undefined.
func (v Value) IsUndefined() bool {
	return !v.defined
}

// Get returns the text of v and whether v is defined.
func (v Value) Get() (string, bool) {
	return v.text, v.defined
}

// String returns the text of v, or "" if v is Undefined.
func (v Value) String() string {
	return v.text
}

// size is the number of bytes a table charges for owning v.
// Undefined values own no storage.
func (v Value) size() int {
	return len(v.text)
}

// clone returns a copy of v that does not share memory with the caller's string.
func (v Value) clone() Value {
	if !v.defined {
		return Undefined
	}
	return Value{text: strings.Clone(v.text), defined: true}
}

// dumpText is the text Dump writes between the brackets.
func (v Value) dumpText() string {
	if !v.defined {
		return "UNDEF"
	}
	return v.text
}
