package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type UpdateLeadUseCase struct {
	LeadRepo     entity.LeadRepositoryInterface
	PipelineRepo entity.PipelineRepositoryInterface
	Location     *time.Location
}

func NewUpdateLeadUseCase(leadRepo entity.LeadRepositoryInterface, pipelineRepo entity.PipelineRepositoryInterface, loc *time.Location) *UpdateLeadUseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &UpdateLeadUseCase{
		LeadRepo:     leadRepo,
		PipelineRepo: pipelineRepo,
		Location:     loc,
	}
}

// Execute aplica só os campos presentes no patch. O patch inteiro é validado
// antes de qualquer escrita.
func (uc *UpdateLeadUseCase) Execute(ctx context.Context, principal Principal, leadID string, patch LeadPatch) (*entity.Lead, error) {
	if err := principal.authenticate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(leadID) == "" {
		return nil, validationError("id is required")
	}

	lead, err := loadOwnedLead(ctx, uc.LeadRepo, principal, leadID)
	if err != nil {
		return nil, err
	}

	updated := *lead
	if errs := uc.apply(&updated, patch); len(errs) > 0 {
		return nil, validationError(joinValidation(errs))
	}

	if patch.PipelineID.Set && updated.PipelineID != nil {
		if _, err := loadOwnedPipeline(ctx, uc.PipelineRepo, principal, *updated.PipelineID); err != nil {
			return nil, err
		}
	}

	// Status gravado fora do vocabulário só é checado quando o patch o troca.
	check := updated
	if !patch.Status.Set {
		check.Status = ""
	}
	if err := check.Validate(); err != nil {
		return nil, validationError(err.Error())
	}

	updated.UpdatedAt = time.Now()
	if err := uc.LeadRepo.Update(ctx, &updated); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, notFound(CodeLeadNotFound, "lead não encontrado")
		}
		return nil, databaseError("falha ao atualizar lead", err)
	}
	return &updated, nil
}

func (uc *UpdateLeadUseCase) apply(l *entity.Lead, p LeadPatch) []ValidationError {
	var errs []ValidationError

	if p.Name.Set {
		switch name := strings.TrimSpace(p.Name.Value); {
		case p.Name.Null || name == "":
			errs = append(errs, ValidationError{"name", "is required"})
		case len(name) > maxNameLength:
			errs = append(errs, nameTooLong)
		default:
			l.Name = name
		}
	}

	if p.Phone.Set {
		switch {
		case p.Phone.Null || strings.TrimSpace(p.Phone.Value) == "":
			errs = append(errs, ValidationError{"phone", "is required"})
		case !entity.IsValidPhone(p.Phone.Value):
			errs = append(errs, ValidationError{"phone", "must be a valid phone number"})
		default:
			l.Phone = strings.TrimSpace(p.Phone.Value)
		}
	}

	if p.Email.Set {
		email := strings.TrimSpace(p.Email.Value)
		if !p.Email.Null && email != "" && !isValidEmail(email) {
			errs = append(errs, ValidationError{"email", "is invalid"})
		} else {
			l.Email = email
		}
	}

	if p.Status.Set {
		if p.Status.Null {
			errs = append(errs, ValidationError{"status", "cannot be null"})
		} else if st, err := entity.ParseStatus(p.Status.Value); err != nil {
			errs = append(errs, ValidationError{"status", "is invalid"})
		} else {
			l.Status = st
		}
	}

	setString(&l.Source, p.Source)
	setString(&l.UTMSource, p.UTMSource)
	setString(&l.UTMMedium, p.UTMMedium)
	setString(&l.UTMCampaign, p.UTMCampaign)
	setString(&l.UTMTerm, p.UTMTerm)
	setString(&l.UTMContent, p.UTMContent)
	setString(&l.MedicalNotes, p.MedicalNotes)

	if p.PotentialValue.Set {
		if p.PotentialValue.Null {
			l.PotentialValue = nil
		} else if v, err := decodeAmount(p.PotentialValue.Value); err != nil {
			errs = append(errs, ValidationError{"potentialValue", err.Error()})
		} else {
			l.PotentialValue = &v
		}
	}

	if err := uc.applyAppointment(l, p.AppointmentDate, p.AppointmentTime); err != nil {
		errs = append(errs, *err)
	}

	if p.PipelineID.Set {
		if p.PipelineID.Null || strings.TrimSpace(p.PipelineID.Value) == "" {
			l.PipelineID = nil
		} else {
			id := strings.TrimSpace(p.PipelineID.Value)
			l.PipelineID = &id
		}
	}

	return errs
}

func (uc *UpdateLeadUseCase) applyAppointment(l *entity.Lead, date, clock Optional[string]) *ValidationError {
	if !date.Set && !clock.Set {
		return nil
	}
	// Hora nula ou vazia sem data mantém o agendamento atual.
	if !date.Set && (clock.Null || strings.TrimSpace(clock.Value) == "") {
		return nil
	}

	if date.Set && (date.Null || strings.TrimSpace(date.Value) == "") {
		if clock.Set && !clock.Null && clock.Value != "" {
			return &ValidationError{"appointmentTime", "requires appointmentDate"}
		}
		l.AppointmentDate = nil
		return nil
	}

	var day string
	switch {
	case date.Set:
		day = date.Value
	case l.AppointmentDate != nil:
		// Só a hora mudou: mantém o dia já agendado.
		day = l.AppointmentDate.In(uc.Location).Format("2006-01-02")
	default:
		return &ValidationError{"appointmentTime", "requires appointmentDate"}
	}

	t, err := parseAppointment(day, clock.Value, uc.Location)
	if err != nil {
		return &ValidationError{"appointmentDate", err.Error()}
	}
	l.AppointmentDate = &t
	return nil
}

func setString(dst *string, o Optional[string]) {
	if !o.Set {
		return
	}
	if o.Null {
		*dst = ""
		return
	}
	*dst = strings.TrimSpace(o.Value)
}

// decodeAmount aceita número JSON ou string.
func decodeAmount(raw json.RawMessage) (decimal.Decimal, error) {
	var s string
	if len(raw) > 0 && raw[0] == '"' {
		if err := json.Unmarshal(raw, &s); err != nil {
			return decimal.Decimal{}, err
		}
	} else {
		s = string(raw)
	}
	return parseAmount(s)
}
