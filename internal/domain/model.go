package domain

import "strings"

// PathSeparator joins location path segments for display
const PathSeparator = " › "

// Container is a module or folder in the project hierarchy
type Container struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// DocumentInfo describes a document before its body is loaded
type DocumentInfo struct {
	ID         string   `json:"id"`
	Type       string   `json:"type"`
	Name       string   `json:"name"`
	ModuleName string   `json:"moduleName,omitempty"`
	FolderPath []string `json:"folderPath,omitempty"`
}

// Match is one occurrence of the search term inside a document graph
type Match struct {
	Value         string   `json:"value"`
	// RawValue holds the stored string when it differs from the trimmed Value
	RawValue      string   `json:"rawValue,omitempty"`
	TargetID      string   `json:"targetId"`
	PropertyName  string   `json:"propertyName"`
	PropertyLabel string   `json:"propertyLabel"`
	ElementType   string   `json:"elementType,omitempty"`
	Kind          Kind     `json:"kind"`
	KindLabel     string   `json:"kindLabel"`
	ValueType     string   `json:"valueType"`
	InitialValue  string   `json:"initialValue,omitempty"`
	Caption       string   `json:"caption"`
	Path          []string `json:"path"`
	CollectionKey string   `json:"collectionKey,omitempty"`
	ModelKey      string   `json:"modelKey,omitempty"`
}

// Stored returns the property value as it sits in the document
func (m Match) Stored() string {
	if m.RawValue != "" {
		return m.RawValue
	}
	return m.Value
}

// Key identifies the matched property within one walk
func (m Match) Key() string {
	return m.TargetID + "::" + m.PropertyName
}

// PathDisplay renders the location path as a breadcrumb
func (m Match) PathDisplay() string {
	return strings.Join(m.Path, PathSeparator)
}

// ContextLabel is the innermost path segment, falling back to the caption
func (m Match) ContextLabel() string {
	if len(m.Path) > 0 {
		return m.Path[len(m.Path)-1]
	}
	if m.Caption != "" {
		return m.Caption
	}
	return m.KindLabel
}

// SearchResult is one document together with its matches
type SearchResult struct {
	DocumentID      string  `json:"documentId"`
	DocumentName    string  `json:"documentName"`
	DisplayName     string  `json:"displayName"`
	ModuleName      string  `json:"moduleName,omitempty"`
	QualifiedName   string  `json:"qualifiedName"`
	DocumentType    string  `json:"documentType"`
	TypeTag         string  `json:"typeTag"`
	CollectionKey   string  `json:"collectionKey"`
	ModelKey        string  `json:"modelKey"`
	CollectionLabel string  `json:"collectionLabel"`
	Matches         []Match `json:"matches"`
}

// Key identifies the document across enumeration strategies
func (r SearchResult) Key() string {
	key := r.CollectionKey
	if key == "" {
		key = r.ModelKey
	}
	if key == "" {
		key = "doc"
	}
	return key + "::" + r.DocumentID
}

// Replacement records one applied property change
type Replacement struct {
	TargetID      string `json:"targetId"`
	PropertyName  string `json:"propertyName"`
	Kind          Kind   `json:"kind"`
	KindLabel     string `json:"kindLabel"`
	OldValue      string `json:"oldValue"`
	NewValue      string `json:"newValue"`
	CollectionKey string `json:"collectionKey"`
	ModelKey      string `json:"modelKey"`
	DocumentID    string `json:"documentId"`
}

// ReplaceReport is the outcome of a replace pass
type ReplaceReport struct {
	Success      bool          `json:"success"`
	Replacements []Replacement `json:"replacements"`
	Message      string        `json:"message"`
	Skipped      int           `json:"skipped,omitempty"`
}

// LocateMatch finds a match by document and target. An empty propertyName
// accepts the first match on the target.
func LocateMatch(results []SearchResult, documentID, targetID, propertyName string) (SearchResult, Match, bool) {
	for _, r := range results {
		if r.DocumentID != documentID {
			continue
		}
		for _, m := range r.Matches {
			if m.TargetID == targetID && (propertyName == "" || m.PropertyName == propertyName) {
				return r, m, true
			}
		}
	}
	return SearchResult{}, Match{}, false
}

// FilterDocument keeps the results of one document. An empty id keeps all.
func FilterDocument(results []SearchResult, documentID string) []SearchResult {
	if documentID == "" {
		return results
	}
	var out []SearchResult
	for _, r := range results {
		if r.DocumentID == documentID {
			out = append(out, r)
		}
	}
	return out
}
