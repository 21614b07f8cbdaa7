package feed

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitResponseHiddenUntilVerified(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	res, err := svc.SubmitResponse(ctx, SubmitResponseInput{
		RespondentName:  "Municipal Water Dept",
		RespondentEmail: "press@water.gov.za",
		RespondentPhone: "+27 79 658 6452",
		ResponseContent: "Crews are on site.",
		IssueReference:  "ISSUE-123",
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.ID, "RESPONSE-"))
	assert.Equal(t, "Response submitted", res.Message)

	public, err := svc.BuildResponsesFeed(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, public.Responses, "unverified responses stay out of the public feed")
	assert.Equal(t, 0, public.TotalResponses)

	admin, err := svc.BuildResponsesFeed(ctx, true)
	require.NoError(t, err)
	require.Len(t, admin.Responses, 1)
	got := admin.Responses[0]
	assert.Equal(t, "press@water.gov.za", got.RespondentEmail)
	assert.Equal(t, "+27 79 658 6452", got.RespondentPhone)
	assert.False(t, got.Verified)
	assert.Equal(t, "", got.VerifiedAt)
}

func TestVerifyResponsePublishesAndMasks(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	res, err := svc.SubmitResponse(ctx, SubmitResponseInput{
		RespondentName:  "Municipal Water Dept",
		RespondentEmail: "press@water.gov.za",
		RespondentPhone: "+27 79 658 6452",
		ResponseContent: "Crews are on site.",
	})
	require.NoError(t, err)

	ver, err := svc.VerifyResponse(ctx, VerifyResponseInput{ID: res.ID, Verified: true})
	require.NoError(t, err)
	assert.True(t, ver.Success)
	assert.True(t, ver.Verified)
	assert.Equal(t, "Response updated", ver.Message)

	public, err := svc.BuildResponsesFeed(ctx, false)
	require.NoError(t, err)
	require.Len(t, public.Responses, 1)
	got := public.Responses[0]
	assert.Equal(t, "p***s@water.gov.za", got.RespondentEmail)
	assert.Equal(t, "••••6452", got.RespondentPhone)
	assert.True(t, got.Verified)
	assert.NotEmpty(t, got.VerifiedAt)
}

func TestUnverifyClearsVerifiedAt(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	res, err := svc.SubmitResponse(ctx, SubmitResponseInput{
		RespondentName:  "n",
		ResponseContent: "c",
	})
	require.NoError(t, err)

	_, err = svc.VerifyResponse(ctx, VerifyResponseInput{ID: res.ID, Verified: true})
	require.NoError(t, err)
	_, err = svc.VerifyResponse(ctx, VerifyResponseInput{ID: res.ID, Verified: false})
	require.NoError(t, err)

	admin, err := svc.BuildResponsesFeed(ctx, true)
	require.NoError(t, err)
	require.Len(t, admin.Responses, 1)
	assert.False(t, admin.Responses[0].Verified)
	assert.Equal(t, "", admin.Responses[0].VerifiedAt)

	public, err := svc.BuildResponsesFeed(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, public.Responses)
}

func TestPrivilegedResponsesSuperset(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	first, err := svc.SubmitResponse(ctx, SubmitResponseInput{RespondentName: "a", ResponseContent: "one"})
	require.NoError(t, err)
	_, err = svc.SubmitResponse(ctx, SubmitResponseInput{RespondentName: "b", ResponseContent: "two"})
	require.NoError(t, err)

	_, err = svc.VerifyResponse(ctx, VerifyResponseInput{ID: first.ID, Verified: true})
	require.NoError(t, err)

	public, err := svc.BuildResponsesFeed(ctx, false)
	require.NoError(t, err)
	admin, err := svc.BuildResponsesFeed(ctx, true)
	require.NoError(t, err)

	assert.Len(t, public.Responses, 1)
	assert.Len(t, admin.Responses, 2)
	adminIDs := make(map[string]bool)
	for _, r := range admin.Responses {
		adminIDs[r.ID] = true
	}
	for _, r := range public.Responses {
		assert.True(t, adminIDs[r.ID])
	}
}

func TestVerifyResponseErrors(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	_, err := svc.VerifyResponse(ctx, VerifyResponseInput{})
	assert.ErrorIs(t, err, ErrMissingID)

	_, err = svc.VerifyResponse(ctx, VerifyResponseInput{ID: "RESPONSE-nope"})
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "Response not found", nf.Error())
}
