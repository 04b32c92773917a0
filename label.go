package multipla

import "strings"

// unsafe lists the characters that may appear in caller-supplied names but
// are not safe as extension point labels.
const unsafe = "!#$&^/+-."

var canonicalizer = func() *strings.Replacer {
	pairs := make([]string, 0, 2*len(unsafe))
	for _, r := range unsafe {
		pairs = append(pairs, string(r), "_")
	}
	return strings.NewReplacer(pairs...)
}()

// Canonicalize translates a caller-supplied name into an extension point
// label, mapping each of ! # $ & ^ / + - . to an underscore. The mapping is
// total and idempotent, and it is applied identically on the registration
// and lookup paths, so "application/octet-stream" and
// "application_octet_stream" name the same extension point.
func Canonicalize(name string) string {
	return canonicalizer.Replace(name)
}
