package tfd

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/atbasica/ubs-server/internal/platform/apperr"
)

var validStatuses = map[string]bool{
	StatusPending: true, StatusApproved: true, StatusScheduled: true,
	StatusCompleted: true, StatusCancelled: true,
}

type Service struct {
	requests RequestRepository
}

func NewService(requests RequestRepository) *Service {
	return &Service{requests: requests}
}

// Create opens a referral. New requests always start pending; request_date
// defaults to now.
func (s *Service) Create(ctx context.Context, r *Request) error {
	var fields []apperr.FieldError
	if r.CitizenID == uuid.Nil {
		fields = append(fields, apperr.FieldError{Field: "citizen_id", Message: "required"})
	}
	if r.ProfessionalID == uuid.Nil {
		fields = append(fields, apperr.FieldError{Field: "professional_id", Message: "required"})
	}
	if r.UnitID == uuid.Nil {
		fields = append(fields, apperr.FieldError{Field: "unit_id", Message: "required"})
	}
	if r.Destination == "" {
		fields = append(fields, apperr.FieldError{Field: "destination", Message: "required"})
	}
	if r.Procedure == "" {
		fields = append(fields, apperr.FieldError{Field: "procedure", Message: "required"})
	}
	if r.Justification == "" {
		fields = append(fields, apperr.FieldError{Field: "justification", Message: "required"})
	}
	if len(fields) > 0 {
		return apperr.Validation("invalid tfd request payload", fields...)
	}
	r.Status = StatusPending
	if r.RequestDate.IsZero() {
		r.RequestDate = time.Now().UTC()
	}
	r.ApprovedBy = nil
	r.ApprovedAt = nil
	return apperr.FromStore(s.requests.Create(ctx, r), "tfd request", nil)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Request, error) {
	r, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.FromStore(err, "tfd request", nil)
	}
	return r, nil
}

func (s *Service) List(ctx context.Context, f Filter, limit, offset int) ([]*Request, int, error) {
	if f.Status != "" && !validStatuses[f.Status] {
		return nil, 0, apperr.Validationf("invalid tfd status: %s", f.Status)
	}
	return s.requests.List(ctx, f, limit, offset)
}

// Update moves the referral through its workflow. Approving requires
// approved_by and stamps approved_at.
func (s *Service) Update(ctx context.Context, id uuid.UUID, upd *RequestUpdate) (*Request, error) {
	r, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.FromStore(err, "tfd request", nil)
	}

	if upd.Status != nil {
		if !validStatuses[*upd.Status] {
			return nil, apperr.Validationf("invalid tfd status: %s", *upd.Status)
		}
		if !CanTransition(r.Status, *upd.Status) {
			return nil, apperr.Validationf("invalid status transition: %s -> %s", r.Status, *upd.Status)
		}
		if *upd.Status == StatusApproved && r.Status != StatusApproved {
			if upd.ApprovedBy == nil {
				return nil, apperr.Validation("invalid tfd request payload",
					apperr.FieldError{Field: "approved_by", Message: "required when approving"})
			}
			now := time.Now().UTC()
			r.ApprovedBy = upd.ApprovedBy
			r.ApprovedAt = &now
		}
		r.Status = *upd.Status
	}
	if upd.TravelDate != nil {
		r.TravelDate = upd.TravelDate
	}
	if upd.ReturnDate != nil {
		r.ReturnDate = upd.ReturnDate
	}
	if upd.TransportType != nil {
		r.TransportType = upd.TransportType
	}
	if upd.Companion != nil {
		r.Companion = *upd.Companion
	}
	if upd.Notes != nil {
		r.Notes = upd.Notes
	}

	if err := s.requests.Update(ctx, r); err != nil {
		return nil, apperr.FromStore(err, "tfd request", nil)
	}
	return r, nil
}
