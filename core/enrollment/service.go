package enrollment

import (
	"context"
	"errors"

	"github.com/onlineimmigrant/eduplan/core"
)

var (
	// errors
	ErrNoEntitlement = errors.New("no active entitlement for this course")
)

type (
	Repository interface {
		// QueryActiveEntitlements returns the learner's entitlement rows with
		// is_active = true, joined to the connected course id.
		QueryActiveEntitlements(ctx context.Context, learnerID string) ([]Entitlement, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ActiveEntitlement returns the learner's currently-valid entitlement for the
// course, or ErrNoEntitlement.
func (svc *Service) ActiveEntitlement(ctx context.Context, learnerID string, courseID int) (Entitlement, error) {
	ents, err := svc.repo.QueryActiveEntitlements(ctx, learnerID)
	if err != nil {
		return Entitlement{}, err
	}
	today := core.Today()
	for _, ent := range ents {
		if ent.CourseID == courseID && ent.IsCurrent(today) {
			return ent, nil
		}
	}
	return Entitlement{}, ErrNoEntitlement
}
