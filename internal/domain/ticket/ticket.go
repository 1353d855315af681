package ticket

import (
	"fmt"
	"time"

	vo "github.com/ticketsync/ticketsync/internal/domain/ticket/valueobjects"
	"github.com/ticketsync/ticketsync/internal/shared/biztime"
)

const (
	MaxTitleLength       = 255
	MaxDescriptionLength = 32000
)

// Ticket is the aggregate root of the lifecycle. Version is the optimistic
// concurrency token; it only advances through Repository.UpdateWithVersion.
type Ticket struct {
	id          uint
	ticketType  vo.TicketType
	title       string
	description string
	priority    vo.Priority
	status      vo.TicketStatus
	workItemID  *int
	platformID  uint
	creatorID   uint
	operatorID  *uint
	version     int
	createdAt   time.Time
	updatedAt   time.Time
}

// Fields is the complete editable state of a ticket. A nil OperatorID means
// the ticket has no operator.
type Fields struct {
	Type        vo.TicketType
	Title       string
	Description string
	Priority    vo.Priority
	Status      vo.TicketStatus
	OperatorID  *uint
}

// Diff describes what Apply changed.
type Diff struct {
	ChangedFields   []string
	OldStatus       vo.TicketStatus
	NewStatus       vo.TicketStatus
	OldOperatorID   *uint
	NewOperatorID   *uint
	OperatorChanged bool
}

func (d Diff) StatusChanged() bool {
	return d.OldStatus != d.NewStatus
}

func (d Diff) IsEmpty() bool {
	return len(d.ChangedFields) == 0
}

// NewTicket builds an unassigned ticket. createdAt may be zero, in which case
// the current time is used.
func NewTicket(
	ticketType vo.TicketType,
	title string,
	description string,
	priority vo.Priority,
	platformID uint,
	creatorID uint,
	createdAt time.Time,
) (*Ticket, error) {
	if err := validateContent(ticketType, title, description, priority); err != nil {
		return nil, err
	}
	if platformID == 0 {
		return nil, fmt.Errorf("platform ID is required")
	}
	if creatorID == 0 {
		return nil, fmt.Errorf("creator ID is required")
	}

	now := biztime.NowUTC()
	if createdAt.IsZero() {
		createdAt = now
	}

	return &Ticket{
		ticketType:  ticketType,
		title:       title,
		description: description,
		priority:    priority,
		status:      vo.StatusUnassigned,
		platformID:  platformID,
		creatorID:   creatorID,
		version:     1,
		createdAt:   createdAt.UTC(),
		updatedAt:   now,
	}, nil
}

func ReconstructTicket(
	id uint,
	ticketType vo.TicketType,
	title string,
	description string,
	priority vo.Priority,
	status vo.TicketStatus,
	workItemID *int,
	platformID uint,
	creatorID uint,
	operatorID *uint,
	version int,
	createdAt, updatedAt time.Time,
) (*Ticket, error) {
	if id == 0 {
		return nil, fmt.Errorf("ticket ID cannot be zero")
	}
	if !ticketType.IsValid() {
		return nil, fmt.Errorf("invalid ticket type: %s", ticketType)
	}
	if !priority.IsValid() {
		return nil, fmt.Errorf("invalid priority: %s", priority)
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid status: %s", status)
	}

	return &Ticket{
		id:          id,
		ticketType:  ticketType,
		title:       title,
		description: description,
		priority:    priority,
		status:      status,
		workItemID:  workItemID,
		platformID:  platformID,
		creatorID:   creatorID,
		operatorID:  operatorID,
		version:     version,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}, nil
}

func (t *Ticket) ID() uint {
	return t.id
}

func (t *Ticket) Type() vo.TicketType {
	return t.ticketType
}

func (t *Ticket) Title() string {
	return t.title
}

func (t *Ticket) Description() string {
	return t.description
}

func (t *Ticket) Priority() vo.Priority {
	return t.priority
}

func (t *Ticket) Status() vo.TicketStatus {
	return t.status
}

func (t *Ticket) WorkItemID() *int {
	return t.workItemID
}

func (t *Ticket) HasWorkItem() bool {
	return t.workItemID != nil
}

func (t *Ticket) PlatformID() uint {
	return t.platformID
}

func (t *Ticket) CreatorID() uint {
	return t.creatorID
}

func (t *Ticket) OperatorID() *uint {
	return t.operatorID
}

// IsOperator reports whether userID is the current operator.
func (t *Ticket) IsOperator(userID uint) bool {
	return t.operatorID != nil && *t.operatorID == userID
}

func (t *Ticket) Version() int {
	return t.version
}

func (t *Ticket) CreatedAt() time.Time {
	return t.createdAt
}

func (t *Ticket) UpdatedAt() time.Time {
	return t.updatedAt
}

// Fields returns the current editable state.
func (t *Ticket) Fields() Fields {
	return Fields{
		Type:        t.ticketType,
		Title:       t.title,
		Description: t.description,
		Priority:    t.priority,
		Status:      t.status,
		OperatorID:  copyID(t.operatorID),
	}
}

func (t *Ticket) SetID(id uint) error {
	if t.id != 0 {
		return fmt.Errorf("ticket ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("ticket ID cannot be zero")
	}
	t.id = id
	return nil
}

// SetVersion is called by the repository after a successful versioned write.
func (t *Ticket) SetVersion(version int) {
	t.version = version
}

// LinkWorkItem records the tracker identity. A ticket is linked at most once.
func (t *Ticket) LinkWorkItem(workItemID int) error {
	if workItemID <= 0 {
		return fmt.Errorf("work item ID must be positive")
	}
	if t.workItemID != nil && *t.workItemID != workItemID {
		return fmt.Errorf("ticket is already linked to work item %d", *t.workItemID)
	}
	t.workItemID = &workItemID
	t.updatedAt = biztime.NowUTC()
	return nil
}

// AssignOperator hands the ticket to operatorID. An unassigned ticket moves
// to waiting-operator; waiting-user and closed tickets keep their status.
func (t *Ticket) AssignOperator(operatorID uint) error {
	if operatorID == 0 {
		return fmt.Errorf("operator ID cannot be zero")
	}
	t.operatorID = &operatorID
	if t.status.IsUnassigned() {
		t.status = vo.StatusWaitingOperator
	}
	t.updatedAt = biztime.NowUTC()
	return nil
}

// Apply replaces the editable state with f. The requested status is
// normalised against the operator before the transition is checked: an
// operator on an unassigned ticket means waiting-operator, and an open
// ticket without an operator is unassigned.
func (t *Ticket) Apply(f Fields) (Diff, error) {
	if err := validateContent(f.Type, f.Title, f.Description, f.Priority); err != nil {
		return Diff{}, err
	}
	if !f.Status.IsValid() {
		return Diff{}, fmt.Errorf("invalid status: %s", f.Status)
	}

	operatorID := copyID(f.OperatorID)
	if operatorID != nil && *operatorID == 0 {
		operatorID = nil
	}

	status := normalizeStatus(f.Status, operatorID)
	if status != t.status && !t.status.CanTransitionTo(status) {
		return Diff{}, fmt.Errorf("cannot transition from %s to %s", t.status, status)
	}

	diff := Diff{
		OldStatus:     t.status,
		NewStatus:     status,
		OldOperatorID: copyID(t.operatorID),
		NewOperatorID: copyID(operatorID),
	}

	if t.ticketType != f.Type {
		diff.ChangedFields = append(diff.ChangedFields, "type")
	}
	if t.title != f.Title {
		diff.ChangedFields = append(diff.ChangedFields, "title")
	}
	if t.description != f.Description {
		diff.ChangedFields = append(diff.ChangedFields, "description")
	}
	if t.priority != f.Priority {
		diff.ChangedFields = append(diff.ChangedFields, "priority")
	}
	if t.status != status {
		diff.ChangedFields = append(diff.ChangedFields, "status")
	}
	if !sameID(t.operatorID, operatorID) {
		diff.ChangedFields = append(diff.ChangedFields, "operator")
		diff.OperatorChanged = true
	}

	t.ticketType = f.Type
	t.title = f.Title
	t.description = f.Description
	t.priority = f.Priority
	t.status = status
	t.operatorID = operatorID
	if !diff.IsEmpty() {
		t.updatedAt = biztime.NowUTC()
	}

	return diff, nil
}

// ReplyBy moves the conversation forward: the operator answering waits on
// the requester, the requester answering waits on the operator. Closed and
// unassigned tickets keep their status.
func (t *Ticket) ReplyBy(authorID uint) (oldStatus, newStatus vo.TicketStatus) {
	oldStatus = t.status
	if t.status.IsClosed() || t.operatorID == nil {
		return oldStatus, oldStatus
	}

	switch {
	case t.IsOperator(authorID):
		t.status = vo.StatusWaitingUser
	case authorID == t.creatorID:
		t.status = vo.StatusWaitingOperator
	}
	if t.status != oldStatus {
		t.updatedAt = biztime.NowUTC()
	}
	return oldStatus, t.status
}

func normalizeStatus(requested vo.TicketStatus, operatorID *uint) vo.TicketStatus {
	if operatorID != nil && requested.IsUnassigned() {
		return vo.StatusWaitingOperator
	}
	if operatorID == nil && !requested.IsClosed() {
		return vo.StatusUnassigned
	}
	return requested
}

func validateContent(ticketType vo.TicketType, title, description string, priority vo.Priority) error {
	if len(title) == 0 {
		return fmt.Errorf("title is required")
	}
	if len(title) > MaxTitleLength {
		return fmt.Errorf("title exceeds maximum length of %d characters", MaxTitleLength)
	}
	if len(description) > MaxDescriptionLength {
		return fmt.Errorf("description exceeds maximum length of %d characters", MaxDescriptionLength)
	}
	if !ticketType.IsValid() {
		return fmt.Errorf("invalid ticket type: %s", ticketType)
	}
	if !priority.IsValid() {
		return fmt.Errorf("invalid priority: %s", priority)
	}
	return nil
}

func copyID(id *uint) *uint {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

func sameID(a, b *uint) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
