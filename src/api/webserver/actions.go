package webserver

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/theegiza-web/Hebron-Accountability-Platform/src/api/feed"
	"github.com/theegiza-web/Hebron-Accountability-Platform/src/api/tabular"
)

type Handler struct {
	svc   *feed.Service
	guard Guard
}

// postEnvelope is the common shell of every POST body: the action selector,
// the admin credentials, and the admin mutation fields. Action-specific
// submission fields are bound separately into their typed inputs.
type postEnvelope struct {
	Action           string `json:"action"`
	AdminKey         string `json:"adminKey"`
	Secret           string `json:"secret"`
	ID               string `json:"id"`
	Status           string `json:"status"`
	AdminNotes       string `json:"adminNotes"`
	ResolutionReason string `json:"resolutionReason"`
	Verified         bool   `json:"verified"`
}

const getUsageHint = "Use ?action=issues | responses | petition | admin-issues | admin-responses"

func (h *Handler) HandleGet(c *gin.Context) {
	callback := c.Query("callback")
	action := c.Query("action")
	ctx := c.Request.Context()

	var result interface{}
	var err error

	switch action {
	case "issues":
		result, err = h.svc.BuildIssuesFeed(ctx, false)
	case "responses":
		result, err = h.svc.BuildResponsesFeed(ctx, false)
	case "petition":
		result, err = h.svc.BuildPetitionFeed(ctx)
	case "admin-issues":
		if err = h.guard.Authorize(c, nil); err == nil {
			result, err = h.svc.BuildIssuesFeed(ctx, true)
		}
	case "admin-responses":
		if err = h.guard.Authorize(c, nil); err == nil {
			result, err = h.svc.BuildResponsesFeed(ctx, true)
		}
	case "update-status", "admin-update-issue":
		if err = h.guard.Authorize(c, nil); err == nil {
			result, err = h.svc.UpdateIssue(ctx, feed.UpdateIssueInput{
				ID:               c.Query("id"),
				Status:           c.Query("status"),
				AdminNotes:       c.Query("adminNotes"),
				ResolutionReason: c.Query("resolutionReason"),
				Verified:         strings.EqualFold(c.Query("verified"), "true"),
			})
		}
	case "admin-verify-response":
		if err = h.guard.Authorize(c, nil); err == nil {
			result, err = h.svc.VerifyResponse(ctx, feed.VerifyResponseInput{
				ID:       c.Query("id"),
				Verified: strings.EqualFold(c.Query("verified"), "true"),
			})
		}
	case "ping":
		result, err = h.ping(ctx)
	default:
		result = gin.H{
			"success":   false,
			"error":     "Unknown action: " + action,
			"hint":      getUsageHint,
			"updatedAt": time.Now().UTC().Format(time.RFC3339),
		}
	}

	if err != nil {
		result = errPayload(action, err)
	}
	respond(c, result, callback)
}

func (h *Handler) HandlePost(c *gin.Context) {
	var env postEnvelope
	if err := c.ShouldBindBodyWith(&env, binding.JSON); err != nil {
		respond(c, gin.H{"success": false, "error": "Invalid JSON body"}, "")
		return
	}
	ctx := c.Request.Context()

	var result interface{}
	var err error

	switch env.Action {
	case "submit-issue":
		var in feed.SubmitIssueInput
		if err = c.ShouldBindBodyWith(&in, binding.JSON); err == nil {
			result, err = h.svc.SubmitIssue(ctx, in)
		} else {
			result, err = gin.H{"success": false, "error": err.Error()}, nil
		}
	case "submit-response":
		var in feed.SubmitResponseInput
		if err = c.ShouldBindBodyWith(&in, binding.JSON); err == nil {
			result, err = h.svc.SubmitResponse(ctx, in)
		} else {
			result, err = gin.H{"success": false, "error": err.Error()}, nil
		}
	case "update-status", "admin-update-issue":
		if err = h.guard.Authorize(c, &env); err == nil {
			result, err = h.svc.UpdateIssue(ctx, feed.UpdateIssueInput{
				ID:               env.ID,
				Status:           env.Status,
				AdminNotes:       env.AdminNotes,
				ResolutionReason: env.ResolutionReason,
				Verified:         env.Verified,
			})
		}
	case "admin-verify-response":
		if err = h.guard.Authorize(c, &env); err == nil {
			result, err = h.svc.VerifyResponse(ctx, feed.VerifyResponseInput{
				ID:       env.ID,
				Verified: env.Verified,
			})
		}
	case "admin-login":
		result, err = h.guard.Login(firstNonEmpty(env.AdminKey, env.Secret))
	default:
		result = gin.H{"success": false, "error": "Unknown POST action: " + env.Action}
	}

	if err != nil {
		result = errPayload(env.Action, err)
	}
	respond(c, result, "")
}

func (h *Handler) ping(ctx context.Context) (gin.H, error) {
	store := h.svc.Store()
	names, err := store.TableNames(ctx)
	if err != nil {
		return nil, err
	}
	return gin.H{
		"success":   true,
		"message":   "pong",
		"storeName": store.Name(),
		"sheets":    names,
	}, nil
}

// errPayload maps handler errors onto the uniform failure envelope. Internal
// details are logged, never returned to the caller.
func errPayload(action string, err error) gin.H {
	var nf *feed.NotFoundError
	var msg string
	switch {
	case errors.Is(err, ErrAdminKeyUnset):
		msg = "ADMIN_KEY not configured"
	case errors.Is(err, ErrUnauthorised):
		msg = "Unauthorised (bad key)"
	case errors.Is(err, ErrNoSessionSecret):
		msg = "Admin sessions not configured"
	case errors.Is(err, feed.ErrMissingID):
		msg = "Missing id"
	case errors.As(err, &nf):
		msg = nf.Error()
	case errors.Is(err, tabular.ErrStoreUnavailable):
		log.Printf("action %s: %v", action, err)
		msg = "Store unavailable"
	default:
		log.Printf("action %s: %v", action, err)
		msg = "Internal error"
	}
	return gin.H{"success": false, "error": msg}
}

var callbackName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*$`)

// respond writes the payload as JSON, or as a script-tag callback invocation
// when a valid callback name was supplied (cross-origin GET fallback for
// clients that cannot use CORS). Action responses are always HTTP 200; the
// success flag inside the envelope carries the outcome.
func respond(c *gin.Context, payload interface{}, callback string) {
	if callback != "" && callbackName.MatchString(callback) {
		b, err := json.Marshal(payload)
		if err != nil {
			c.JSON(http.StatusOK, gin.H{"success": false, "error": "Internal error"})
			return
		}
		c.Data(http.StatusOK, "application/javascript; charset=utf-8", []byte(callback+"("+string(b)+");"))
		return
	}
	c.JSON(http.StatusOK, payload)
}
