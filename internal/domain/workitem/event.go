package workitem

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// Webhook event types.
const (
	EventCreated = "workitem.created"
	EventUpdated = "workitem.updated"
	EventDeleted = "workitem.deleted"
)

// Event is an inbound service-hook delivery.
type Event struct {
	ID        string   `json:"id"`
	EventType string   `json:"eventType"`
	Resource  Resource `json:"resource"`
}

// Resource carries the work item. Update deliveries describe the change in
// Fields and the full state in Revision.
type Resource struct {
	ID         int             `json:"id"`
	WorkItemID int             `json:"workItemId"`
	Fields     json.RawMessage `json:"fields"`
	Revision   *Revision       `json:"revision,omitempty"`
}

type Revision struct {
	ID     int             `json:"id"`
	Fields json.RawMessage `json:"fields"`
}

// WorkItemID returns the tracker identity the event is about.
func (e *Event) WorkItemID() int {
	if e.Resource.WorkItemID != 0 {
		return e.Resource.WorkItemID
	}
	if e.Resource.Revision != nil && e.Resource.Revision.ID != 0 {
		return e.Resource.Revision.ID
	}
	return e.Resource.ID
}

func (e *Event) fieldPayload() json.RawMessage {
	if e.Resource.Revision != nil && len(e.Resource.Revision.Fields) > 0 {
		return e.Resource.Revision.Fields
	}
	return e.Resource.Fields
}

func (e *Event) decodeFields(dst interface{}) error {
	payload := e.fieldPayload()
	if len(bytes.TrimSpace(payload)) == 0 || bytes.Equal(bytes.TrimSpace(payload), []byte("null")) {
		return fmt.Errorf("event carries no work item fields")
	}
	if err := json.Unmarshal(payload, dst); err != nil {
		return fmt.Errorf("malformed work item fields: %w", err)
	}
	return nil
}

// Identity is a tracker identity flattened to "Display Name <unique name>",
// followed by the identity id in brackets when the tracker sends one. The
// tracker emits identities either as that string or as an object.
type Identity string

type identityObject struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	UniqueName  string `json:"uniqueName"`
}

func (i *Identity) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*i = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*i = Identity(s)
		return nil
	}

	var obj identityObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("identity must be a string or object: %w", err)
	}
	parts := make([]string, 0, 3)
	if obj.DisplayName != "" {
		parts = append(parts, obj.DisplayName)
	}
	if obj.UniqueName != "" {
		parts = append(parts, "<"+obj.UniqueName+">")
	}
	if obj.ID != "" {
		parts = append(parts, "["+obj.ID+"]")
	}
	*i = Identity(strings.Join(parts, " "))
	return nil
}

func (i Identity) String() string {
	return string(i)
}

func (i Identity) IsEmpty() bool {
	return strings.TrimSpace(string(i)) == ""
}

// Contains reports whether needle occurs in the identity ignoring case.
func (i Identity) Contains(needle string) bool {
	if needle == "" {
		return false
	}
	fold := cases.Fold()
	return strings.Contains(fold.String(string(i)), fold.String(needle))
}

// CreatedFields is the field set a creation event must carry.
type CreatedFields struct {
	CreatedDate  string   `json:"System.CreatedDate" validate:"required"`
	CreatedBy    Identity `json:"System.CreatedBy" validate:"required"`
	TeamProject  string   `json:"System.TeamProject" validate:"required"`
	WorkItemType string   `json:"System.WorkItemType" validate:"required"`
	Title        string   `json:"System.Title" validate:"required"`
	Description  string   `json:"System.Description"`
	Priority     *int     `json:"Microsoft.VSTS.Common.Priority" validate:"required"`
	State        string   `json:"System.State" validate:"required"`
	AssignedTo   Identity `json:"System.AssignedTo"`
}

// UpdatedFields is the full post-change state an update event must carry.
// An absent AssignedTo means the work item is unassigned.
type UpdatedFields struct {
	ChangedBy    Identity `json:"System.ChangedBy" validate:"required"`
	WorkItemType string   `json:"System.WorkItemType" validate:"required"`
	Title        string   `json:"System.Title" validate:"required"`
	Description  string   `json:"System.Description"`
	Priority     *int     `json:"Microsoft.VSTS.Common.Priority" validate:"required"`
	State        string   `json:"System.State" validate:"required"`
	AssignedTo   Identity `json:"System.AssignedTo"`
}

type DeletedFields struct {
	ChangedBy Identity `json:"System.ChangedBy" validate:"required"`
}

func (e *Event) CreatedFields() (*CreatedFields, error) {
	var f CreatedFields
	if err := e.decodeFields(&f); err != nil {
		return nil, err
	}
	return &f, nil
}

func (e *Event) UpdatedFields() (*UpdatedFields, error) {
	var f UpdatedFields
	if err := e.decodeFields(&f); err != nil {
		return nil, err
	}
	return &f, nil
}

func (e *Event) DeletedFields() (*DeletedFields, error) {
	var f DeletedFields
	if err := e.decodeFields(&f); err != nil {
		return nil, err
	}
	return &f, nil
}
