package domain

import (
	"regexp"
	"slices"
	"strings"
)

var (
	typeCaseBoundary     = regexp.MustCompile(`([a-z0-9])([A-Z])`)
	typeKindSuffix       = regexp.MustCompile(`(?i)\b(Action|Element)$`)
	propertyCaseBoundary = regexp.MustCompile(`([a-z])([A-Z])`)
	propertySeparators   = regexp.MustCompile(`[_-]+`)
	propertyIDToken      = regexp.MustCompile(`(?i)\bId\b`)
	leadingSigils        = regexp.MustCompile(`^\$+`)
)

// nameLikeTerms is the vocabulary a property name must contain to be searched
var nameLikeTerms = []string{"name", "caption", "title", "label", "text", "display"}

// labelKeys are tried in order when deriving a node's display label
var labelKeys = []string{"caption", "label", "title", "name"}

// IsBlank reports whether s is empty after trimming whitespace
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// HumanizeType turns a type tag such as "Microflows$CreateVariableAction"
// into "Create Variable"
func HumanizeType(typeTag string) string {
	if IsBlank(typeTag) {
		return "Element"
	}
	name := typeTag
	if i := strings.Index(name, "$"); i >= 0 {
		name = name[i+1:]
	}
	spaced := typeCaseBoundary.ReplaceAllString(name, "${1} ${2}")
	if trimmed := strings.TrimSpace(typeKindSuffix.ReplaceAllString(spaced, "")); trimmed != "" {
		return trimmed
	}
	if spaced != "" {
		return spaced
	}
	return "Element"
}

// HumanizeProperty turns a property name such as "targetId" into "target ID"
func HumanizeProperty(propertyName string) string {
	if IsBlank(propertyName) {
		return "Name"
	}
	s := leadingSigils.ReplaceAllString(propertyName, "")
	s = propertyCaseBoundary.ReplaceAllString(s, "${1} ${2}")
	s = propertySeparators.ReplaceAllString(s, " ")
	s = propertyIDToken.ReplaceAllString(s, "ID")
	return strings.TrimSpace(s)
}

// IsNameLike reports whether a property holds a user-facing name or text
func IsNameLike(propertyName string) bool {
	if IsBlank(propertyName) || strings.HasPrefix(propertyName, "$") {
		return false
	}
	lower := strings.ToLower(propertyName)
	for _, term := range nameLikeTerms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}

// DeriveLabel picks the display label for a node: its own caption, label,
// title or name; else its humanized type; else fallback; else the humanized
// property name it was reached through.
func DeriveLabel(n *Node, fallback, propertyName string) string {
	if n != nil {
		for _, key := range labelKeys {
			if s := strings.TrimSpace(n.String(key)); s != "" {
				return s
			}
		}
		if n.Type != "" {
			return HumanizeType(n.Type)
		}
	}
	if !IsBlank(fallback) {
		return fallback
	}
	if propertyName != "" {
		return HumanizeProperty(propertyName)
	}
	return ""
}

// AppendToPath returns a copy of path extended with every non-blank segment
// that differs from the segment immediately before it
func AppendToPath(path []string, segments ...string) []string {
	next := slices.Clone(path)
	for _, seg := range segments {
		if IsBlank(seg) {
			continue
		}
		if len(next) > 0 && next[len(next)-1] == seg {
			continue
		}
		next = append(next, seg)
	}
	return next
}
