package domain

import "strings"

// Kind classifies what a match refers to
type Kind string

const (
	KindDeclaredVariable Kind = "declared-variable"
	KindParameter        Kind = "parameter"
	KindActionResult     Kind = "action-result"
	KindMappingVariable  Kind = "mapping-variable"
	KindProperty         Kind = "property"
)

func (k Kind) String() string {
	switch k {
	case KindDeclaredVariable:
		return "Declared variable"
	case KindParameter:
		return "Parameter"
	case KindActionResult:
		return "Action result"
	case KindMappingVariable:
		return "Mapping variable"
	default:
		return "Property"
	}
}

const (
	createVariableType  = "Microflows$CreateVariableAction"
	parameterType       = "Microflows$MicroflowParameter"
	variableNameProp    = "variableName"
	outputVariableProp  = "outputVariableName"
	mappingVariableProp = "mappingArgumentVariableName"
)

// Classification is the semantic reading of a matched property
type Classification struct {
	Kind      Kind
	Label     string
	ValueType string
}

// Classify decides what a matched property on a node of the given type
// represents. fallbackLabel names the owning element (usually its display
// label) and falls back to the humanized type tag.
func Classify(typeTag, propertyName, fallbackLabel string) Classification {
	propertyLabel := HumanizeProperty(propertyName)
	base := fallbackLabel
	if base == "" {
		base = HumanizeType(typeTag)
	}

	switch {
	case typeTag == createVariableType && propertyName == variableNameProp:
		return Classification{Kind: KindDeclaredVariable, Label: "Variable", ValueType: "Variable"}
	case typeTag == parameterType && propertyName == "name":
		return Classification{Kind: KindParameter, Label: "Parameter", ValueType: "Parameter"}
	case propertyName == outputVariableProp:
		return Classification{
			Kind:      KindActionResult,
			Label:     strings.TrimSpace(base + " result"),
			ValueType: "Output variable",
		}
	case propertyName == mappingVariableProp:
		return Classification{
			Kind:      KindMappingVariable,
			Label:     strings.TrimSpace(base + " mapping variable"),
			ValueType: "Mapping variable",
		}
	default:
		return Classification{
			Kind:      KindProperty,
			Label:     strings.TrimSpace(base + " " + propertyLabel),
			ValueType: propertyLabel,
		}
	}
}
