package mcp

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"
)

// RegisterPrompts registers MCP prompts for common dispatch workflows.
func RegisterPrompts(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return fmt.Errorf("server is required")
	}

	srv.Prompt("incident_triage").
		Description("Review active emergency meetings and decide which need a specialist paged in.").
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			return &mcp.PromptResult{
				Description: "Incident Triage",
				Messages: []mcp.PromptMessage{
					{
						Role: string(mcp.RoleUser),
						Content: mcp.TextContent{
							Type: "text",
							Text: `Help me triage the emergency meetings in progress. Please:

1. Read the active meetings from the responder://meetings/active resource
2. Read the paging roster from the responder://specialists/available resource

For each active meeting:
- Summarize who is on the call, their role and how they joined
- Flag meetings with only a first responder and no specialist or service desk agent
- Suggest a specialist whose occupation fits the meeting title or comments

Only page a specialist with meeting.page after I confirm. Use meeting.annotate
to record the outcome in the meeting comments.`,
						},
					},
				},
			}, nil
		})

	srv.Prompt("roster_review").
		Description("Check specialist coverage and fix statuses that drifted from their schedules.").
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			return &mcp.PromptResult{
				Description: "Roster Review",
				Messages: []mcp.PromptMessage{
					{
						Role: string(mcp.RoleUser),
						Content: mcp.TextContent{
							Type: "text",
							Text: `Let's review on-call coverage. Please:

1. Read every specialist from the responder://specialists resource
2. Group them by occupation and user status
3. Point out occupations with nobody AVAILABLE
4. List specialists who have been OFFLINE while their schedule says they should be on call

Offer to run specialist.refresh, or specialist.status without a status to
recompute one specialist from their schedule.`,
						},
					},
				},
			}, nil
		})

	srv.Prompt("meeting_summary").
		Description("Summarize one meeting for a handover note.").
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			meetingID := args["meeting_id"]
			if meetingID == "" {
				meetingID = "the meeting I name next"
			}
			return &mcp.PromptResult{
				Description: "Meeting Summary",
				Messages: []mcp.PromptMessage{
					{
						Role: string(mcp.RoleUser),
						Content: mcp.TextContent{
							Type: "text",
							Text: fmt.Sprintf(`Write a handover note for %s. Use meeting.get to load it and include
the dial-in code, when it started and ended, every attendee with their role and
final state, and the operator comments. Keep it under 150 words.`, meetingID),
						},
					},
				},
			}, nil
		})

	return nil
}
