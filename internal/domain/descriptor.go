package domain

import (
	"regexp"
	"strings"
)

// ProjectsKey is the generic collection owning every document type without
// a dedicated host sub-API
const ProjectsKey = "projects"

// Descriptor classifies a document type by the collection that owns it
type Descriptor struct {
	// CollectionKey groups documents for display and merging
	CollectionKey string
	// ModelKey names the host access object that loads and writes them
	ModelKey string
	Label    string
	Prefixes []string
	// Enumerable collections list their own unit infos
	Enumerable bool
}

// Matches reports whether typeTag starts with one of the descriptor's prefixes
func (d Descriptor) Matches(typeTag string) bool {
	for _, prefix := range d.Prefixes {
		if strings.HasPrefix(typeTag, prefix) {
			return true
		}
	}
	return false
}

func collection(key, label string, prefixes ...string) Descriptor {
	return Descriptor{CollectionKey: key, ModelKey: key, Label: label, Prefixes: prefixes, Enumerable: true}
}

func projectScoped(key, label string, prefixes ...string) Descriptor {
	return Descriptor{CollectionKey: key, ModelKey: ProjectsKey, Label: label, Prefixes: prefixes}
}

// Specific prefixes precede the namespace they live in; first match wins.
var descriptors = []Descriptor{
	projectScoped("microflowRules", "Microflow rule", "Microflows$Rule"),
	collection("microflows", "Microflow", "Microflows$"),
	collection("snippets", "Snippet", "Pages$Snippet"),
	collection("buildingBlocks", "Building block", "Pages$BuildingBlock"),
	collection("pages", "Page", "Pages$"),
	collection("domainModels", "Domain model", "DomainModels$"),
	collection("enumerations", "Enumeration", "Enumerations$"),
	collection("moduleSettings", "Module settings", "Projects$ModuleSettings"),
	projectScoped("nanoflows", "Nanoflow", "Nanoflows$"),
	projectScoped("javaActions", "Java action", "JavaActions$"),
	projectScoped("importMappings", "Import mapping", "Mappings$ImportMapping"),
	projectScoped("exportMappings", "Export mapping", "Mappings$ExportMapping"),
	projectScoped("messageDefinitions", "Message definition", "Mappings$MessageDefinition"),
	projectScoped("xmlSchemas", "XML schema", "XmlSchemas$"),
	projectScoped("jsonStructures", "JSON structure", "JsonStructures$"),
	projectScoped("documentTemplates", "Document template", "DocumentTemplates$"),
	projectScoped("rules", "Rule", "Rules$"),
	projectScoped("constants", "Constant", "Constants$"),
	projectScoped("javaScriptActions", "JavaScript action", "JavaScriptActions$"),
	projectScoped("workflows", "Workflow", "Workflows$"),
	projectScoped("restServices", "REST service", "RestServices$"),
	projectScoped("odataServices", "OData service", "DataServices$"),
	projectScoped("publishedServices", "Published service", "PublishedServices$"),
	projectScoped("scheduledEvents", "Scheduled event", "ScheduledEvents$"),
	projectScoped("tasks", "Task", "Tasks$"),
}

var unsafeTypeChars = regexp.MustCompile(`(?i)[^a-z0-9$]+`)

// Descriptors returns the static descriptor table in lookup order
func Descriptors() []Descriptor {
	out := make([]Descriptor, len(descriptors))
	copy(out, descriptors)
	return out
}

// EnumerableDescriptors returns the collections that list their own units
func EnumerableDescriptors() []Descriptor {
	var out []Descriptor
	for _, d := range descriptors {
		if d.Enumerable {
			out = append(out, d)
		}
	}
	return out
}

// ResolveDescriptor returns the descriptor owning typeTag. Unknown types get a
// project-scoped descriptor keyed by their sanitized type tag.
func ResolveDescriptor(typeTag string) Descriptor {
	for _, d := range descriptors {
		if d.Matches(typeTag) {
			return d
		}
	}
	sanitized := unsafeTypeChars.ReplaceAllString(typeTag, "-")
	return Descriptor{
		CollectionKey: strings.ToLower(ProjectsKey + ":" + sanitized),
		ModelKey:      ProjectsKey,
		Label:         HumanizeType(typeTag),
		Prefixes:      []string{typeTag},
	}
}

// DescriptorByKey looks a descriptor up by collection key
func DescriptorByKey(collectionKey string) (Descriptor, bool) {
	for _, d := range descriptors {
		if d.CollectionKey == collectionKey {
			return d, true
		}
	}
	return Descriptor{}, false
}
