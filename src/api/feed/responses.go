package feed

import (
	"context"
	"strconv"
	"strings"

	"github.com/theegiza-web/Hebron-Accountability-Platform/src/api/redact"
	"github.com/theegiza-web/Hebron-Accountability-Platform/src/api/tabular"
	"github.com/theegiza-web/Hebron-Accountability-Platform/src/api/types"
)

var responseHeader = tabular.Row{
	"Timestamp", "ID", "Respondent Name", "Respondent Organization",
	"Respondent Email", "Respondent Phone", "Category", "Issue Reference",
	"Response Title", "Response Content", "Supporting Evidence",
	"Media JSON", "Verified", "Verified At",
}

// BuildResponsesFeed reads the full responses table. Public callers get
// masked contact fields and only verified records; privileged callers get
// everything unmasked.
func (s *Service) BuildResponsesFeed(ctx context.Context, privileged bool) (*types.ResponsesFeed, error) {
	t, err := s.store.EnsureTable(ctx, SheetResponses, responseHeader)
	if err != nil {
		return nil, err
	}
	rows, err := s.store.ReadAll(ctx, t)
	if err != nil {
		return nil, err
	}

	responses := make([]types.Response, 0)
	for _, r := range rows[1:] {
		if tabular.Blank(r) {
			continue
		}
		email := t.Get(r, "Respondent Email")
		phone := t.Get(r, "Respondent Phone")
		if !privileged {
			if email != "" {
				email = redact.MaskEmail(email)
			}
			if phone != "" {
				phone = redact.MaskPhone(phone)
			}
		}
		responses = append(responses, types.Response{
			ID:                     t.Get(r, "ID"),
			Timestamp:              t.Get(r, "Timestamp"),
			RespondentName:         t.Get(r, "Respondent Name"),
			RespondentOrganization: t.Get(r, "Respondent Organization"),
			RespondentEmail:        email,
			RespondentPhone:        phone,
			Category:               t.Get(r, "Category"),
			IssueReference:         t.Get(r, "Issue Reference"),
			ResponseTitle:          t.Get(r, "Response Title"),
			ResponseContent:        t.Get(r, "Response Content"),
			SupportingEvidence:     t.Get(r, "Supporting Evidence"),
			Media:                  safeMedia(t.Get(r, "Media JSON")),
			Verified:               parseBool(t.Get(r, "Verified")),
			VerifiedAt:             t.Get(r, "Verified At"),
		})
	}

	if !privileged {
		verified := make([]types.Response, 0, len(responses))
		for _, r := range responses {
			if r.Verified {
				verified = append(verified, r)
			}
		}
		responses = verified
	}

	return &types.ResponsesFeed{
		Success:        true,
		UpdatedAt:      nowISO(),
		TotalResponses: len(responses),
		Responses:      responses,
	}, nil
}

// SubmitResponseInput is the typed submit-response request body.
type SubmitResponseInput struct {
	RespondentName         string        `json:"respondentName" binding:"required,max=128"`
	RespondentOrganization string        `json:"respondentOrganization" binding:"max=255"`
	RespondentEmail        string        `json:"respondentEmail" binding:"max=256"`
	RespondentPhone        string        `json:"respondentPhone" binding:"max=64"`
	Category               string        `json:"category" binding:"max=128"`
	IssueReference         string        `json:"issueReference" binding:"max=128"`
	ResponseTitle          string        `json:"responseTitle" binding:"max=255"`
	ResponseContent        string        `json:"responseContent" binding:"required,max=10000"`
	SupportingEvidence     string        `json:"supportingEvidence" binding:"max=10000"`
	Media                  []types.Media `json:"media" binding:"max=10"`
}

// SubmitResponse appends a new unverified response row. The row stays out of
// the public feed until an admin verifies it.
func (s *Service) SubmitResponse(ctx context.Context, in SubmitResponseInput) (*SubmitResult, error) {
	t, err := s.store.EnsureTable(ctx, SheetResponses, responseHeader)
	if err != nil {
		return nil, err
	}

	id := newID("RESPONSE")
	now := nowISO()
	media := stampMedia(in.Media)

	row := t.NewRow()
	t.Set(row, "Timestamp", now)
	t.Set(row, "ID", id)
	t.Set(row, "Respondent Name", s.clean(in.RespondentName))
	t.Set(row, "Respondent Organization", s.clean(in.RespondentOrganization))
	t.Set(row, "Respondent Email", strings.TrimSpace(in.RespondentEmail))
	t.Set(row, "Respondent Phone", strings.TrimSpace(in.RespondentPhone))
	t.Set(row, "Category", s.clean(in.Category))
	t.Set(row, "Issue Reference", s.clean(in.IssueReference))
	t.Set(row, "Response Title", s.clean(in.ResponseTitle))
	t.Set(row, "Response Content", s.clean(in.ResponseContent))
	t.Set(row, "Supporting Evidence", s.clean(in.SupportingEvidence))
	t.Set(row, "Media JSON", marshalMedia(media))
	t.Set(row, "Verified", "false")
	t.Set(row, "Verified At", "")

	if err := s.store.AppendRow(ctx, t, row); err != nil {
		return nil, err
	}

	s.publish(ctx, "response.submitted", map[string]interface{}{
		"id":             id,
		"issueReference": in.IssueReference,
	})

	return &SubmitResult{Success: true, ID: id, Message: "Response submitted"}, nil
}

// VerifyResponseInput is the typed admin-verify-response request.
type VerifyResponseInput struct {
	ID       string `json:"id"`
	Verified bool   `json:"verified"`
}

type VerifyResponseResult struct {
	Success  bool   `json:"success"`
	ID       string `json:"id"`
	Verified bool   `json:"verified"`
	Message  string `json:"message"`
}

// VerifyResponse toggles the publication gate on the first row matching the
// given id. Un-verifying clears the verification timestamp.
func (s *Service) VerifyResponse(ctx context.Context, in VerifyResponseInput) (*VerifyResponseResult, error) {
	if strings.TrimSpace(in.ID) == "" {
		return nil, ErrMissingID
	}

	t, err := s.store.EnsureTable(ctx, SheetResponses, responseHeader)
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
		return nil, &NotFoundError{Kind: "Response"}
	}

	verifiedAt := ""
	if in.Verified {
		verifiedAt = nowISO()
	}
	if err := s.store.WriteCell(ctx, t, rowNumber, t.Col("Verified"), strconv.FormatBool(in.Verified)); err != nil {
		return nil, err
	}
	if err := s.store.WriteCell(ctx, t, rowNumber, t.Col("Verified At"), verifiedAt); err != nil {
		return nil, err
	}

	s.publish(ctx, "response.verified", map[string]interface{}{
		"id":       in.ID,
		"verified": in.Verified,
	})

	return &VerifyResponseResult{Success: true, ID: in.ID, Verified: in.Verified, Message: "Response updated"}, nil
}
