package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/atbasica/ubs-server/internal/platform/apperr"
)

// CitizenChecker resolves whether a citizen is registered. The registry
// service satisfies it.
type CitizenChecker interface {
	CitizenExists(ctx context.Context, id uuid.UUID) (bool, error)
}

// UnitChecker resolves whether a health unit is registered.
type UnitChecker interface {
	UnitExists(ctx context.Context, id uuid.UUID) (bool, error)
}

var validPriorities = map[string]bool{
	PriorityNormal: true, PriorityUrgent: true, PriorityEmergency: true,
}

var validStatuses = map[string]bool{
	StatusWaiting: true, StatusInProgress: true, StatusCompleted: true, StatusCancelled: true,
}

type Service struct {
	entries  EntryRepository
	citizens CitizenChecker
	units    UnitChecker
}

func NewService(entries EntryRepository, citizens CitizenChecker, units UnitChecker) *Service {
	return &Service{entries: entries, citizens: citizens, units: units}
}

// ticketFor builds the ticket code: priority prefix ("P" for urgent and
// emergency, "A" for normal) plus a zero-padded sequence derived from the
// unit's current queue length.
func ticketFor(priority string, queueLength int) string {
	prefix := "A"
	if priority == PriorityUrgent || priority == PriorityEmergency {
		prefix = "P"
	}
	return fmt.Sprintf("%s%03d", prefix, queueLength+1)
}

// Enqueue admits a citizen to the unit's walk-in queue. The citizen and
// unit must be registered; the entry starts waiting with its arrival
// timestamp fixed at admission.
func (s *Service) Enqueue(ctx context.Context, e *Entry) error {
	var fields []apperr.FieldError
	if e.CitizenID == uuid.Nil {
		fields = append(fields, apperr.FieldError{Field: "citizen_id", Message: "required"})
	}
	if e.UnitID == uuid.Nil {
		fields = append(fields, apperr.FieldError{Field: "unit_id", Message: "required"})
	}
	if e.Type == "" {
		fields = append(fields, apperr.FieldError{Field: "type", Message: "required"})
	}
	if e.Priority == "" {
		e.Priority = PriorityNormal
	}
	if !validPriorities[e.Priority] {
		fields = append(fields, apperr.FieldError{Field: "priority", Message: "must be normal, urgent or emergency"})
	}
	if len(fields) > 0 {
		return apperr.Validation("invalid queue entry payload", fields...)
	}

	ok, err := s.citizens.CitizenExists(ctx, e.CitizenID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.Validation("unknown citizen", apperr.FieldError{Field: "citizen_id", Message: "citizen not found"})
	}
	ok, err = s.units.UnitExists(ctx, e.UnitID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.Validation("unknown health unit", apperr.FieldError{Field: "unit_id", Message: "health unit not found"})
	}

	length, err := s.entries.CountByUnit(ctx, e.UnitID)
	if err != nil {
		return err
	}
	e.Ticket = ticketFor(e.Priority, length)
	e.Status = StatusWaiting
	e.ArrivedAt = time.Now().UTC()
	e.CalledAt = nil
	e.CompletedAt = nil

	return apperr.FromStore(s.entries.Create(ctx, e), "queue entry", nil)
}

// List returns the unit's queue in service order, optionally narrowed by
// status.
func (s *Service) List(ctx context.Context, unitID uuid.UUID, status string) ([]*Entry, error) {
	if status != "" && !validStatuses[status] {
		return nil, apperr.Validationf("invalid queue status: %s", status)
	}
	return s.entries.List(ctx, unitID, status)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Entry, error) {
	e, err := s.entries.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.FromStore(err, "queue entry", nil)
	}
	return e, nil
}

// Call moves a waiting entry to in_progress and stamps called_at. Calling
// an entry in any other state is rejected.
func (s *Service) Call(ctx context.Context, id uuid.UUID) (*Entry, error) {
	e, err := s.entries.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.FromStore(err, "queue entry", nil)
	}
	if e.Status != StatusWaiting {
		return nil, apperr.Validationf("cannot call entry in status %s", e.Status)
	}
	now := time.Now().UTC()
	e.Status = StatusInProgress
	e.CalledAt = &now
	if err := s.entries.Update(ctx, e); err != nil {
		return nil, apperr.FromStore(err, "queue entry", nil)
	}
	return e, nil
}

// Complete moves an in_progress entry to completed and stamps completed_at.
func (s *Service) Complete(ctx context.Context, id uuid.UUID) (*Entry, error) {
	e, err := s.entries.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.FromStore(err, "queue entry", nil)
	}
	if e.Status != StatusInProgress {
		return nil, apperr.Validationf("cannot complete entry in status %s", e.Status)
	}
	now := time.Now().UTC()
	e.Status = StatusCompleted
	e.CompletedAt = &now
	if err := s.entries.Update(ctx, e); err != nil {
		return nil, apperr.FromStore(err, "queue entry", nil)
	}
	return e, nil
}

// Update applies a partial update. Status changes must follow the
// transition table; called_at and completed_at are stamped when the
// transition implies them.
func (s *Service) Update(ctx context.Context, id uuid.UUID, upd *EntryUpdate) (*Entry, error) {
	e, err := s.entries.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.FromStore(err, "queue entry", nil)
	}

	if upd.Status != nil {
		if !validStatuses[*upd.Status] {
			return nil, apperr.Validationf("invalid queue status: %s", *upd.Status)
		}
		if !CanTransition(e.Status, *upd.Status) {
			return nil, apperr.Validationf("invalid status transition: %s -> %s", e.Status, *upd.Status)
		}
		now := time.Now().UTC()
		switch *upd.Status {
		case StatusInProgress:
			if e.CalledAt == nil {
				e.CalledAt = &now
			}
		case StatusCompleted:
			if e.CompletedAt == nil {
				e.CompletedAt = &now
			}
		}
		e.Status = *upd.Status
	}
	if upd.ProfessionalID != nil {
		e.ProfessionalID = upd.ProfessionalID
	}
	if upd.Room != nil {
		e.Room = upd.Room
	}

	if err := s.entries.Update(ctx, e); err != nil {
		return nil, apperr.FromStore(err, "queue entry", nil)
	}
	return e, nil
}

// Remove deletes the entry unconditionally (patient left, erroneous entry).
func (s *Service) Remove(ctx context.Context, id uuid.UUID) error {
	if _, err := s.entries.GetByID(ctx, id); err != nil {
		return apperr.FromStore(err, "queue entry", nil)
	}
	return s.entries.Delete(ctx, id)
}
