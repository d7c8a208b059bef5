// Package policy renders Content-Security-Policy text from a set of
// script digests and reads hash sources back out of arbitrary text, such
// as the server source file the policy is pasted into.
package policy
