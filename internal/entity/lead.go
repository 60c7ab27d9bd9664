package entity

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var nonDigits = regexp.MustCompile(`\D`)

// Attribution agrupa a origem do lead (campos UTM da página pública).
type Attribution struct {
	Source      string `json:"source,omitempty"`
	UTMSource   string `json:"utmSource,omitempty"`
	UTMMedium   string `json:"utmMedium,omitempty"`
	UTMCampaign string `json:"utmCampaign,omitempty"`
	UTMTerm     string `json:"utmTerm,omitempty"`
	UTMContent  string `json:"utmContent,omitempty"`
}

type Lead struct {
	ID           string  `json:"id"`
	UserID       string  `json:"user_id"`
	PipelineID   *string `json:"pipelineId"`
	IndicationID *string `json:"indicationId"`

	Name   string `json:"name"`
	Phone  string `json:"phone"`
	Email  string `json:"email,omitempty"`
	Status Status `json:"status"`

	Attribution

	PotentialValue  *decimal.Decimal `json:"potentialValue"`
	AppointmentDate *time.Time       `json:"appointmentDate"`
	MedicalNotes    string           `json:"medicalNotes,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// LeadFilter restringe a listagem de um usuário. Leads Removido nunca entram.
type LeadFilter struct {
	PipelineID string
}

type LeadRepositoryInterface interface {
	Create(ctx context.Context, lead *Lead) error
	FindByID(ctx context.Context, userID, id string) (*Lead, error)
	ListByUser(ctx context.Context, userID string, filter LeadFilter) ([]*Lead, error)
	Update(ctx context.Context, lead *Lead) error
	UpdateStatus(ctx context.Context, userID, id string, status Status) error
	Delete(ctx context.Context, userID, id string) error
	ExistingPhones(ctx context.Context, userID string, phones []string) (map[string]bool, error)
	CreateBatch(ctx context.Context, leads []*Lead) error
}

func NewLead(userID, name, phone string) (*Lead, error) {
	now := time.Now()
	lead := &Lead{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      strings.TrimSpace(name),
		Phone:     strings.TrimSpace(phone),
		Status:    StatusNew,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := lead.Validate(); err != nil {
		return nil, err
	}
	return lead, nil
}

func (l *Lead) Validate() error {
	if l.UserID == "" {
		return errors.New("user_id is required")
	}
	if strings.TrimSpace(l.Name) == "" {
		return errors.New("name is required")
	}
	if strings.TrimSpace(l.Phone) == "" {
		return errors.New("phone is required")
	}
	if !IsValidPhone(l.Phone) {
		return errors.New("phone must be a valid phone number")
	}
	if l.Status != "" && !l.Status.Valid() {
		return ErrInvalidStatus
	}
	if l.PotentialValue != nil && l.PotentialValue.IsNegative() {
		return ErrNegativeAmount
	}
	return nil
}

func (l *Lead) Removed() bool {
	return l.Status == StatusRemoved
}

// IsValidPhone aceita números com DDD (10-11 dígitos) ou com DDI 55 (12-13).
func IsValidPhone(phone string) bool {
	cleaned := NormalizePhone(phone)
	return len(cleaned) >= 10 && len(cleaned) <= 13
}

func NormalizePhone(phone string) string {
	return nonDigits.ReplaceAllString(phone, "")
}
