package metrics

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
)

// Concord wire constants. client_type names the log source configuration on
// the collection side, not the language of the sender; changing it would
// break the existing collection config.
const (
	clearcutEndpoint = "https://play.googleapis.com/log"

	clientType    = "PYTHON"
	logSourceName = "CONCORD"

	eventType    = "DeepVariantRun"
	consoleType  = "CLOUD_HCLS_OSS"
	pageHostname = "virtual.hcls.deepvariant"
)

// Event is one reportable occurrence: a name, a project number and a set of
// free-form attributes. Immutable once constructed; attribute values are
// coerced to strings at construction.
type Event struct {
	name          string
	projectNumber int64
	metadata      map[string]string
}

// NewEvent builds an Event. Any attribute value is accepted and stringified;
// no validation is performed on the name or the attribute content.
func NewEvent(projectNumber int64, name string, attributes map[string]any) *Event {
	metadata := make(map[string]string, len(attributes))
	for k, v := range attributes {
		metadata[k] = stringify(v)
	}
	return &Event{
		name:          name,
		projectNumber: projectNumber,
		metadata:      metadata,
	}
}

func stringify(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// metadataPair is one event_metadata entry.
type metadataPair struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// eventPayload is the wire form of an Event. Fields are declared in
// lexicographic tag order so the encoded keys come out sorted.
type eventPayload struct {
	ConsoleType   string         `json:"console_type"`
	EventMetadata []metadataPair `json:"event_metadata"`
	EventName     string         `json:"event_name"`
	EventType     string         `json:"event_type"`
	PageHostname  string         `json:"page_hostname"`
	ProjectNumber string         `json:"project_number"`
}

// MarshalJSON encodes the event in its canonical wire form: sorted keys,
// project_number rendered as a string, metadata as {key,value} pairs sorted
// by key regardless of how the attributes were supplied.
func (e *Event) MarshalJSON() ([]byte, error) {
	return json.Marshal(eventPayload{
		ConsoleType:   consoleType,
		EventMetadata: e.sortedMetadata(),
		EventName:     e.name,
		EventType:     eventType,
		PageHostname:  pageHostname,
		ProjectNumber: strconv.FormatInt(e.projectNumber, 10),
	})
}

func (e *Event) sortedMetadata() []metadataPair {
	keys := make([]string, 0, len(e.metadata))
	for k := range e.metadata {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	pairs := make([]metadataPair, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, metadataPair{Key: k, Value: e.metadata[k]})
	}
	return pairs
}
