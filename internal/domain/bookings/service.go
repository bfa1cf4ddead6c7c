package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"kennel-ops/internal/domain/auditlog"
	"kennel-ops/internal/ports/refdata"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)

// CareLogPurger permite el borrado en cascada opcional de los care
// logs cuando se elimina una reserva.
type CareLogPurger interface {
	DeleteByAppointment(ctx context.Context, appointmentID string) error
}

type Service struct {
	repo Repository
	refs refdata.Accessor
	now  func() time.Time

	// Por defecto los care logs sobreviven a su reserva (registro
	// histórico). La cascada se habilita por configuración.
	careLogs        CareLogPurger
	cascadeCareLogs bool
}

func NewService(repo Repository, refs refdata.Accessor) *Service {
	return &Service{
		repo: repo,
		refs: refs,
		now:  time.Now,
	}
}

// EnableCareLogCascade activa el borrado de care logs junto con la reserva.
func (s *Service) EnableCareLogCascade(p CareLogPurger) {
	s.careLogs = p
	s.cascadeCareLogs = p != nil
}

type CreateInput struct {
	ClientID    string
	AnimalID    string
	ServiceType string
	StartDate   time.Time
	EndDate     time.Time
	StartTime   string
	EndTime     string
	Confirmed   bool
	Notes       string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Appointment, error) {
	clientID := strings.TrimSpace(in.ClientID)
	animalID := strings.TrimSpace(in.AnimalID)

	if clientID == "" || animalID == "" {
		return Appointment{}, ErrInvalidInput
	}
	if in.StartDate.IsZero() || in.EndDate.IsZero() {
		return Appointment{}, ErrInvalidInput
	}

	start := DateOf(in.StartDate)
	end := DateOf(in.EndDate)
	if start.After(end) {
		return Appointment{}, ErrInvalidInput
	}

	// Default centralizado: antes cada pantalla hacía su propio
	// `tipo || boarding`; acá entra una sola vez.
	svcType := ServiceType(strings.TrimSpace(in.ServiceType))
	if svcType == "" {
		svcType = ServiceBoarding
	}
	if !validServiceType(svcType) {
		return Appointment{}, ErrInvalidInput
	}

	client, err := s.refs.ClientByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, refdata.ErrNotFound) {
			return Appointment{}, fmt.Errorf("client %s: %w", clientID, ErrNotFound)
		}
		return Appointment{}, err
	}
	animal, err := s.refs.AnimalByID(ctx, animalID)
	if err != nil {
		if errors.Is(err, refdata.ErrNotFound) {
			return Appointment{}, fmt.Errorf("animal %s: %w", animalID, ErrNotFound)
		}
		return Appointment{}, err
	}

	now := s.now()
	a := Appointment{
		ID:          uuid.NewString(),
		ClientID:    clientID,
		AnimalID:    animalID,
		ClientName:  client.Name,
		AnimalName:  animal.Name,
		ServiceType: svcType,
		StartDate:   start,
		EndDate:     end,
		StartTime:   strings.TrimSpace(in.StartTime),
		EndTime:     strings.TrimSpace(in.EndTime),
		Confirmed:   in.Confirmed,
		Notes:       strings.TrimSpace(in.Notes),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return Appointment{}, err
	}
	return a, nil
}

// UpdateInput usa punteros para PATCH real: nil = no tocar.
// Los flags de check-in/check-out nunca se tocan por acá; esas
// transiciones tienen sus propias operaciones.
type UpdateInput struct {
	ServiceType *string
	StartDate   *time.Time
	EndDate     *time.Time
	StartTime   *string
	EndTime     *string
	Confirmed   *bool
	Notes       *string
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Appointment, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Appointment{}, ErrInvalidInput
	}

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Appointment{}, err
	}
	expected := a.UpdatedAt

	if in.ServiceType != nil {
		t := ServiceType(strings.TrimSpace(*in.ServiceType))
		if !validServiceType(t) {
			return Appointment{}, ErrInvalidInput
		}
		a.ServiceType = t
	}
	if in.StartDate != nil {
		a.StartDate = DateOf(*in.StartDate)
	}
	if in.EndDate != nil {
		a.EndDate = DateOf(*in.EndDate)
	}
	if a.StartDate.After(a.EndDate) {
		return Appointment{}, ErrInvalidInput
	}
	if in.StartTime != nil {
		a.StartTime = strings.TrimSpace(*in.StartTime)
	}
	if in.EndTime != nil {
		a.EndTime = strings.TrimSpace(*in.EndTime)
	}
	if in.Confirmed != nil {
		a.Confirmed = *in.Confirmed
	}
	if in.Notes != nil {
		a.Notes = strings.TrimSpace(*in.Notes)
	}

	a.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, a, expected); err != nil {
		return Appointment{}, err
	}
	return a, nil
}

// Delete borra definitivamente (no hay tombstones). Con la cascada
// deshabilitada, los care logs de la reserva quedan como huérfanos
// históricos.
func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidInput
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if s.cascadeCareLogs {
		if err := s.careLogs.DeleteByAppointment(ctx, id); err != nil {
			return fmt.Errorf("booking deleted, care log cascade failed: %w", err)
		}
	}
	return nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Appointment, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Appointment{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Appointment, error) {
	return s.repo.List(ctx)
}

// TransitionInput permite backdating (At) y una nota opcional.
type TransitionInput struct {
	At    *time.Time
	Notes string
}

// CheckIn marca la llegada física del animal.
// Idempotente: sobre una reserva ya ingresada y no egresada devuelve
// el estado actual sin error y sin nueva entrada de auditoría.
func (s *Service) CheckIn(ctx context.Context, id string, in TransitionInput) (Appointment, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Appointment{}, ErrInvalidInput
	}

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Appointment{}, err
	}

	if a.Cancelled || a.CheckedOut {
		return Appointment{}, ErrConflict
	}
	if a.CheckedIn {
		return a, nil
	}

	now := s.now()
	at := now
	if in.At != nil && !in.At.IsZero() {
		at = *in.At
	}

	expected := a.UpdatedAt
	a.CheckedIn = true
	a.CheckedOut = false
	a.CheckinDateTime = &at
	if n := strings.TrimSpace(in.Notes); n != "" {
		a.CheckinNotes = n
	}
	a.UpdatedAt = now

	entry := auditlog.Entry{
		ID:            uuid.NewString(),
		AppointmentID: a.ID,
		ClientID:      a.ClientID,
		AnimalID:      a.AnimalID,
		AnimalName:    a.AnimalName,
		Action:        auditlog.ActionCheckedIn,
		Timestamp:     now,
		Date:          DateOf(now),
		Note:          a.AnimalName + " checked in",
	}

	if err := s.repo.ApplyTransition(ctx, a, expected, entry); err != nil {
		return Appointment{}, err
	}
	return a, nil
}

// CheckOut marca la salida. Requiere check-in previo y no haber
// egresado ya; en ambos casos contrarios devuelve ErrConflict.
func (s *Service) CheckOut(ctx context.Context, id string, in TransitionInput) (Appointment, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Appointment{}, ErrInvalidInput
	}

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Appointment{}, err
	}

	if !a.CheckedIn || a.CheckedOut {
		return Appointment{}, ErrConflict
	}

	now := s.now()
	at := now
	if in.At != nil && !in.At.IsZero() {
		at = *in.At
	}

	expected := a.UpdatedAt
	a.CheckedOut = true
	a.CheckoutDateTime = &at
	// Igual que el original: la nota de egreso no pisa una existente.
	if n := strings.TrimSpace(in.Notes); n != "" && a.CheckoutNotes == "" {
		a.CheckoutNotes = n
	}
	a.UpdatedAt = now

	entry := auditlog.Entry{
		ID:            uuid.NewString(),
		AppointmentID: a.ID,
		ClientID:      a.ClientID,
		AnimalID:      a.AnimalID,
		AnimalName:    a.AnimalName,
		Action:        auditlog.ActionCheckedOut,
		Timestamp:     now,
		Date:          DateOf(now),
		Note:          a.AnimalName + " checked out",
	}

	if err := s.repo.ApplyTransition(ctx, a, expected, entry); err != nil {
		return Appointment{}, err
	}
	return a, nil
}

// Cancel solo procede antes del check-in. Cancelado es terminal;
// cancelar dos veces es idempotente.
func (s *Service) Cancel(ctx context.Context, id string) (Appointment, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Appointment{}, ErrInvalidInput
	}

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Appointment{}, err
	}

	if a.Cancelled {
		return a, nil
	}
	if a.CheckedIn || a.CheckedOut {
		return Appointment{}, ErrConflict
	}

	expected := a.UpdatedAt
	a.Cancelled = true
	a.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, a, expected); err != nil {
		return Appointment{}, err
	}
	return a, nil
}
