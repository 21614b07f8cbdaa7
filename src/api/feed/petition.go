package feed

import (
	"context"
	"strings"

	"github.com/theegiza-web/Hebron-Accountability-Platform/src/api/tabular"
	"github.com/theegiza-web/Hebron-Accountability-Platform/src/api/types"
)

var petitionHeader = tabular.Row{"Timestamp", "Name", "Phone Preview", "Area"}

// BuildPetitionFeed serves the read-only petition signature feed. Rows are
// written pre-redacted by the petition form pipeline; this service never
// mutates them.
func (s *Service) BuildPetitionFeed(ctx context.Context) (*types.PetitionFeed, error) {
	t, err := s.store.EnsureTable(ctx, SheetPetition, petitionHeader)
	if err != nil {
		return nil, err
	}
	rows, err := s.store.ReadAll(ctx, t)
	if err != nil {
		return nil, err
	}

	sigs := make([]types.Signature, 0)
	anonymous := 0
	for _, r := range rows[1:] {
		if tabular.Blank(r) {
			continue
		}
		name := strings.TrimSpace(t.Get(r, "Name"))
		if name == "" || strings.EqualFold(name, "anonymous") {
			anonymous++
		}
		sigs = append(sigs, types.Signature{
			Timestamp:    t.Get(r, "Timestamp"),
			Name:         name,
			PhonePreview: t.Get(r, "Phone Preview"),
			Area:         t.Get(r, "Area"),
		})
	}

	return &types.PetitionFeed{
		Success:             true,
		UpdatedAt:           nowISO(),
		TotalSignatures:     len(sigs),
		AnonymousSignatures: anonymous,
		Rows:                sigs,
	}, nil
}
