package domain

import "errors"

// ChangeSetProperty is the only write operation hosts are asked to perform
const ChangeSetProperty = "setProperty"

var (
	ErrTargetNotFound    = errors.New("target not found")
	ErrUnsupportedChange = errors.New("unsupported change")
)

// Change is one property write against a document
type Change struct {
	Type         string `json:"type"`
	DocumentID   string `json:"documentId"`
	TargetID     string `json:"targetId"`
	PropertyName string `json:"propertyName"`
	Value        string `json:"value"`
}

// SetProperty builds a set-property change
func SetProperty(documentID, targetID, propertyName, value string) Change {
	return Change{
		Type:         ChangeSetProperty,
		DocumentID:   documentID,
		TargetID:     targetID,
		PropertyName: propertyName,
		Value:        value,
	}
}

// GroupByDocument splits changes per document, keeping first-seen order
func GroupByDocument(changes []Change) (order []string, groups map[string][]Change) {
	groups = make(map[string][]Change)
	for _, c := range changes {
		if _, ok := groups[c.DocumentID]; !ok {
			order = append(order, c.DocumentID)
		}
		groups[c.DocumentID] = append(groups[c.DocumentID], c)
	}
	return order, groups
}
