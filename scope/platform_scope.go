// Copyright © 2024 The ELPS authors

package scope

// NewPlatformScope constructs the root scope of every scope tree: no
// member files, no parent, its GetOwnCallables drawn straight from the
// platform package's builtin catalog (spec §4.6, GLOSSARY "Platform
// scope"). Every other scope's ancestor chain terminates here.
func NewPlatformScope() *Scope {
	s := New("platform", func(Member) bool { return false }, nil)
	s.IsPlatform = true
	s.isValidated = true
	return s
}
