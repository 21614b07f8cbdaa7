package feed

import (
	"context"
	"strconv"
	"strings"

	"github.com/theegiza-web/Hebron-Accountability-Platform/src/api/redact"
	"github.com/theegiza-web/Hebron-Accountability-Platform/src/api/tabular"
	"github.com/theegiza-web/Hebron-Accountability-Platform/src/api/types"
)

var issueHeader = tabular.Row{
	"Timestamp", "Date Updated", "ID", "Title", "Description", "Category",
	"Submitter Name", "Contact", "Area", "Media JSON", "Status",
	"Admin Notes", "Resolution Reason", "Verified",
}

// NormalizeStatus maps free-form status text onto the canonical enum.
// Unrecognized values default to Pending rather than failing.
func NormalizeStatus(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending":
		return types.StatusPending
	case "in-process", "inprocess":
		return types.StatusInProcess
	case "solved":
		return types.StatusSolved
	case "discarded":
		return types.StatusDiscarded
	}
	return types.StatusPending
}

func countByStatus(issues []types.Issue) types.StatusCounts {
	var out types.StatusCounts
	for _, i := range issues {
		switch i.Status {
		case types.StatusPending:
			out.Pending++
		case types.StatusInProcess:
			out.InProcess++
		case types.StatusSolved:
			out.Solved++
		case types.StatusDiscarded:
			out.Discarded++
		}
	}
	return out
}

// BuildIssuesFeed reads the full issues table and maps it into feed records.
// The histogram always covers the full set; only the contact field differs
// between the public and privileged views.
func (s *Service) BuildIssuesFeed(ctx context.Context, privileged bool) (*types.IssuesFeed, error) {
	t, err := s.store.EnsureTable(ctx, SheetIssues, issueHeader)
	if err != nil {
		return nil, err
	}
	rows, err := s.store.ReadAll(ctx, t)
	if err != nil {
		return nil, err
	}

	issues := make([]types.Issue, 0)
	for _, r := range rows[1:] {
		if tabular.Blank(r) {
			continue
		}
		contact := t.Get(r, "Contact")
		if !privileged && contact != "" {
			contact = redact.MaskContact(contact)
		}
		issues = append(issues, types.Issue{
			ID:               t.Get(r, "ID"),
			Timestamp:        t.Get(r, "Timestamp"),
			DateUpdated:      t.Get(r, "Date Updated"),
			Title:            t.Get(r, "Title"),
			Description:      t.Get(r, "Description"),
			Category:         t.Get(r, "Category"),
			SubmitterName:    t.Get(r, "Submitter Name"),
			Contact:          contact,
			Area:             t.Get(r, "Area"),
			Media:            safeMedia(t.Get(r, "Media JSON")),
			Status:           NormalizeStatus(t.Get(r, "Status")),
			AdminNotes:       t.Get(r, "Admin Notes"),
			ResolutionReason: t.Get(r, "Resolution Reason"),
			Verified:         parseBool(t.Get(r, "Verified")),
		})
	}

	return &types.IssuesFeed{
		Success:     true,
		UpdatedAt:   nowISO(),
		TotalIssues: len(issues),
		ByStatus:    countByStatus(issues),
		Issues:      issues,
	}, nil
}

// SubmitIssueInput is the typed submit-issue request body.
type SubmitIssueInput struct {
	Title         string        `json:"title" binding:"required,max=255"`
	Description   string        `json:"description" binding:"required,max=10000"`
	Category      string        `json:"category" binding:"max=128"`
	SubmitterName string        `json:"submitterName" binding:"max=128"`
	Contact       string        `json:"contact" binding:"max=256"`
	Area          string        `json:"area" binding:"max=128"`
	Media         []types.Media `json:"media" binding:"max=10"`
}

type SubmitResult struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
	Message string `json:"message"`
}

// SubmitIssue appends a new issue row with a generated id and Pending status.
func (s *Service) SubmitIssue(ctx context.Context, in SubmitIssueInput) (*SubmitResult, error) {
	t, err := s.store.EnsureTable(ctx, SheetIssues, issueHeader)
	if err != nil {
		return nil, err
	}

	id := newID("ISSUE")
	now := nowISO()
	media := stampMedia(in.Media)

	row := t.NewRow()
	t.Set(row, "Timestamp", now)
	t.Set(row, "Date Updated", now)
	t.Set(row, "ID", id)
	t.Set(row, "Title", s.clean(in.Title))
	t.Set(row, "Description", s.clean(in.Description))
	t.Set(row, "Category", s.clean(in.Category))
	t.Set(row, "Submitter Name", s.clean(in.SubmitterName))
	t.Set(row, "Contact", strings.TrimSpace(in.Contact))
	t.Set(row, "Area", s.clean(in.Area))
	t.Set(row, "Media JSON", marshalMedia(media))
	t.Set(row, "Status", types.StatusPending)
	t.Set(row, "Verified", "false")

	if err := s.store.AppendRow(ctx, t, row); err != nil {
		return nil, err
	}

	s.publish(ctx, "issue.submitted", map[string]interface{}{
		"id":       id,
		"category": in.Category,
		"area":     in.Area,
	})

	return &SubmitResult{Success: true, ID: id, Message: "Issue submitted"}, nil
}

// UpdateIssueInput is the typed update-status / admin-update-issue request.
type UpdateIssueInput struct {
	ID               string `json:"id"`
	Status           string `json:"status"`
	AdminNotes       string `json:"adminNotes"`
	ResolutionReason string `json:"resolutionReason"`
	Verified         bool   `json:"verified"`
}

type UpdateIssueResult struct {
	Success   bool   `json:"success"`
	ID        string `json:"id"`
	Message   string `json:"message"`
	UpdatedAt string `json:"updatedAt"`
}

// UpdateIssue overwrites the moderation cells of the first row matching the
// given id. Ids are generated collision-resistant, so first match is the only
// match in practice.
func (s *Service) UpdateIssue(ctx context.Context, in UpdateIssueInput) (*UpdateIssueResult, error) {
	if strings.TrimSpace(in.ID) == "" {
		return nil, ErrMissingID
	}

	t, err := s.store.EnsureTable(ctx, SheetIssues, issueHeader)
	if err != nil {
		return nil, err
	}
	rows, err := s.store.ReadAll(ctx, t)
	if err != nil {
		return nil, err
	}

	rowNumber := -1
	for i := 1; i < len(rows); i++ {
		if t.Get(rows[i], "ID") == in.ID {
			rowNumber = i + 1
			break
		}
	}
	if rowNumber < 0 {
		return nil, &NotFoundError{Kind: "Issue", ID: in.ID}
	}

	now := nowISO()
	status := NormalizeStatus(in.Status)

	writes := []struct {
		column string
		value  string
	}{
		{"Date Updated", now},
		{"Status", status},
		{"Admin Notes", s.clean(in.AdminNotes)},
		{"Resolution Reason", s.clean(in.ResolutionReason)},
		{"Verified", strconv.FormatBool(in.Verified)},
	}
	for _, w := range writes {
		if err := s.store.WriteCell(ctx, t, rowNumber, t.Col(w.column), w.value); err != nil {
			return nil, err
		}
	}

	s.publish(ctx, "issue.updated", map[string]interface{}{
		"id":     in.ID,
		"status": status,
	})

	return &UpdateIssueResult{Success: true, ID: in.ID, Message: "Issue updated", UpdatedAt: now}, nil
}
