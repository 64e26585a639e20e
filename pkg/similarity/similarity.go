// Package similarity implements the match-index primitives the
// renaming/deletion handler (and its siblings) use to decide whether
// two declarations are "the same thing" across trees the identifier
// index alone cannot connect: HaveEqualSignature, HaveEqualBody,
// HaveEqualSignatureButName, HaveSimilarBody, and
// OneContainsTheBodyFromTheOther.
package similarity

import "strings"

// Tau is the fixed similarity threshold separating "similar" from
// "dissimilar" bodies (spec §3, §4.4). It is not configurable.
const Tau = 0.7

// Declaration is the minimal view a similarity check needs: a terminal's
// signature and body text. pkg/decltree.Node satisfies this shape
// directly via its Signature/Body fields.
type Declaration struct {
	Signature string
	Body      string
}

// HaveEqualSignature reports whether a and b have the same signature,
// modulo whitespace.
func HaveEqualSignature(a, b Declaration) bool {
	return normalizeWhitespace(a.Signature) == normalizeWhitespace(b.Signature)
}

// HaveEqualBody reports whether a and b have the same body. When
// ignoreWhitespace is true, bodies are compared whitespace-normalized.
func HaveEqualBody(a, b Declaration, ignoreWhitespace bool) bool {
	if ignoreWhitespace {
		return normalizeWhitespace(a.Body) == normalizeWhitespace(b.Body)
	}
	return a.Body == b.Body
}

// HaveEqualSignatureButName reports whether a and b's signatures match
// in parameter list and return type but differ in declared name — the
// shape of a pure rename's signature. Signatures are expected in the
// form produced by a declaration's header text (e.g. "int add(int a,
// int b)"); the name token immediately preceding the parameter list's
// opening paren is treated as the declared name.
func HaveEqualSignatureButName(a, b Declaration) bool {
	aName, aRest := splitNameFromSignature(a.Signature)
	bName, bRest := splitNameFromSignature(b.Signature)
	if aName == "" || bName == "" {
		return false
	}
	if aName == bName {
		return false // not a rename if the names are identical
	}
	return aRest == bRest
}

// splitNameFromSignature returns the declared name and the signature
// with that name blanked out, so two signatures that differ only in
// name compare equal on the "rest" half.
func splitNameFromSignature(sig string) (name, rest string) {
	sig = normalizeWhitespace(sig)
	open := strings.IndexByte(sig, '(')
	if open < 0 {
		return "", sig
	}
	head := strings.TrimSpace(sig[:open])
	fields := strings.Fields(head)
	if len(fields) == 0 {
		return "", sig
	}
	name = fields[len(fields)-1]
	rest = strings.Join(fields[:len(fields)-1], " ") + " \x00" + sig[open:]
	return name, rest
}

// HaveSimilarBody reports whether a and b's bodies clear the similarity
// threshold Tau. Empty bodies compare as 1.0 similar to each other and
// 0.0 similar to anything non-empty.
func HaveSimilarBody(a, b Declaration) bool {
	return Ratio(a.Body, b.Body) >= Tau
}

// OneContainsTheBodyFromTheOther reports whether one body's normalized
// token stream is a contiguous subsequence of the other's — catching
// small extractions (one side's body moved, mostly unchanged, into or
// out of a larger body).
func OneContainsTheBodyFromTheOther(a, b Declaration) bool {
	at := tokenize(a.Body)
	bt := tokenize(b.Body)
	if len(at) == 0 || len(bt) == 0 {
		return len(at) == 0 && len(bt) == 0
	}
	if len(at) <= len(bt) {
		return containsSubsequence(bt, at)
	}
	return containsSubsequence(at, bt)
}

func containsSubsequence(haystack, needle []string) bool {
	if len(needle) == 0 {
		return true
	}
	if len(needle) > len(haystack) {
		return false
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		match := true
		for j := range needle {
			if haystack[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// VerySimilar implements the renaming handler's "very similar" test
// (spec §4.6b): equal signature, OR equal body, OR (similar body AND
// equal-signature-but-name), OR one body contains the other's.
func VerySimilar(a, b Declaration) bool {
	if HaveEqualSignature(a, b) {
		return true
	}
	if HaveEqualBody(a, b, true) {
		return true
	}
	if HaveSimilarBody(a, b) && HaveEqualSignatureButName(a, b) {
		return true
	}
	return OneContainsTheBodyFromTheOther(a, b)
}

func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func tokenize(s string) []string {
	return strings.Fields(normalizeWhitespace(s))
}
