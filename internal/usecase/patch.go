package usecase

import (
	"bytes"
	"encoding/json"
)

// Optional distingue campo ausente (Set=false), null explícito (Null=true) e
// valor presente num corpo PATCH.
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

func Null[T any]() Optional[T] {
	return Optional[T]{Set: true, Null: true}
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Null = true
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

// LeadPatch lista os campos mutáveis de um lead.
type LeadPatch struct {
	Name            Optional[string]          `json:"name"`
	Phone           Optional[string]          `json:"phone"`
	Email           Optional[string]          `json:"email"`
	Status          Optional[string]          `json:"status"`
	Source          Optional[string]          `json:"source"`
	UTMSource       Optional[string]          `json:"utmSource"`
	UTMMedium       Optional[string]          `json:"utmMedium"`
	UTMCampaign     Optional[string]          `json:"utmCampaign"`
	UTMTerm         Optional[string]          `json:"utmTerm"`
	UTMContent      Optional[string]          `json:"utmContent"`
	PotentialValue  Optional[json.RawMessage] `json:"potentialValue"`
	AppointmentDate Optional[string]          `json:"appointmentDate"`
	AppointmentTime Optional[string]          `json:"appointmentTime"`
	MedicalNotes    Optional[string]          `json:"medicalNotes"`
	PipelineID      Optional[string]          `json:"pipelineId"`
}

func (p LeadPatch) Empty() bool {
	return !(p.Name.Set || p.Phone.Set || p.Email.Set || p.Status.Set ||
		p.Source.Set || p.UTMSource.Set || p.UTMMedium.Set || p.UTMCampaign.Set ||
		p.UTMTerm.Set || p.UTMContent.Set || p.PotentialValue.Set ||
		p.AppointmentDate.Set || p.AppointmentTime.Set || p.MedicalNotes.Set ||
		p.PipelineID.Set)
}
