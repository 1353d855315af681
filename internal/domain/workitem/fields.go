// Package workitem models the external work tracker as this service sees it:
// its field reference names, its webhook events and the value mapping
// between tracker fields and ticket attributes.
package workitem

// Tracker field reference names.
const (
	FieldWorkItemType = "System.WorkItemType"
	FieldTitle        = "System.Title"
	FieldDescription  = "System.Description"
	FieldPriority     = "Microsoft.VSTS.Common.Priority"
	FieldState        = "System.State"
	FieldAssignedTo   = "System.AssignedTo"
	FieldHistory      = "System.History"
)

// Tracker state and type values.
const (
	StateToDo  = "To Do"
	StateDoing = "Doing"
	StateDone  = "Done"

	TypeIssue = "Issue"
	TypeTask  = "Task"
	TypeEpic  = "Epic"
)
