package entities

// IssueState is the lifecycle state of an issue.
type IssueState string

const (
	IssueStateOpen   IssueState = "open"
	IssueStateClosed IssueState = "closed"
)

// Issue is a value object describing an issue on a student repository.
// Identity for matching purposes is the title, never the body.
type Issue struct {
	Number int
	Title  string
	Body   string
	State  IssueState
}
