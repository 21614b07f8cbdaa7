// Package feed turns raw submissions into moderated, privacy-redacted public
// feeds. Redaction and verification filtering happen at read time only, so
// the privileged view is always a strict superset of the public view and the
// stored rows never lose information.
package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/OneOfOne/xxhash"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	"github.com/theegiza-web/Hebron-Accountability-Platform/src/api/data"
	"github.com/theegiza-web/Hebron-Accountability-Platform/src/api/tabular"
	"github.com/theegiza-web/Hebron-Accountability-Platform/src/api/types"
)

const (
	SheetIssues    = "Issues"
	SheetResponses = "Responses"
	SheetPetition  = "Petition"
)

// ErrMissingID rejects admin mutations that carry no record id.
var ErrMissingID = errors.New("missing id")

// NotFoundError reports an admin mutation against an id with no matching row.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return e.Kind + " not found: " + e.ID
	}
	return e.Kind + " not found"
}

// Service exposes the feed builders, submission handlers and admin mutations
// over a tabular store. rdb may be nil; events are then dropped.
type Service struct {
	store     tabular.Store
	rdb       *redis.Client
	sanitizer *bluemonday.Policy
}

func NewService(store tabular.Store, rdb *redis.Client) *Service {
	return &Service{
		store:     store,
		rdb:       rdb,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// Store exposes the underlying tabular store for diagnostics (ping).
func (s *Service) Store() tabular.Store { return s.store }

func (s *Service) clean(v string) string {
	return strings.TrimSpace(s.sanitizer.Sanitize(v))
}

func (s *Service) publish(ctx context.Context, event string, fields map[string]interface{}) {
	payload := map[string]interface{}{
		"event": event,
		"time":  time.Now().Unix(),
	}
	for k, v := range fields {
		payload[k] = v
	}
	_ = data.PublishEvent(ctx, s.rdb, payload)
}

// newID builds a record id from the submission time plus a random fragment,
// so two submissions in the same millisecond cannot collide.
func newID(prefix string) string {
	return fmt.Sprintf("%s-%d-%s", prefix, time.Now().UnixMilli(), uuid.NewString()[:8])
}

// nowISO matches the millisecond ISO-8601 form the feeds have always used.
func nowISO() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05.000Z07:00")
}

// stampMedia fills in the server-side checksum over each inline payload.
func stampMedia(media []types.Media) []types.Media {
	if media == nil {
		return []types.Media{}
	}
	for i := range media {
		if media[i].Data != "" {
			media[i].Checksum = strconv.FormatUint(xxhash.Checksum64([]byte(media[i].Data)), 16)
		}
	}
	return media
}

func marshalMedia(media []types.Media) string {
	b, err := json.Marshal(media)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// safeMedia decodes a stored media cell, degrading to an empty list on any
// parse failure.
func safeMedia(cell string) []types.Media {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return []types.Media{}
	}
	var media []types.Media
	if err := json.Unmarshal([]byte(cell), &media); err != nil || media == nil {
		return []types.Media{}
	}
	return media
}

func parseBool(v string) bool {
	return strings.EqualFold(strings.TrimSpace(v), "true")
}
