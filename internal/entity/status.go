package entity

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// Status é o estágio de um lead no funil. Persistido como texto.
type Status string

const (
	StatusNew       Status = "Novo"
	StatusScheduled Status = "Agendado"
	StatusAttended  Status = "Compareceu"
	StatusClosed    Status = "Fechado"
	StatusNoShow    Status = "Não veio"
	StatusRemoved   Status = "Removido"
)

var Statuses = []Status{
	StatusNew,
	StatusScheduled,
	StatusAttended,
	StatusClosed,
	StatusNoShow,
	StatusRemoved,
}

// Rótulos usados pela listagem de pacientes.
var legacyLabels = map[Status]string{
	StatusNew:       "novo",
	StatusScheduled: "agendado",
	StatusAttended:  "concluído",
}

var legacyAliases = map[string]Status{
	"novo":      StatusNew,
	"agendado":  StatusScheduled,
	"concluído": StatusAttended,
	"concluido": StatusAttended,
}

// ParseStatus aceita o valor canônico (sem diferenciar maiúsculas) ou um dos
// rótulos legados. Vazio significa Novo.
func ParseStatus(s string) (Status, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return StatusNew, nil
	}
	for _, st := range Statuses {
		if strings.EqualFold(s, string(st)) {
			return st, nil
		}
	}
	if st, ok := legacyAliases[strings.ToLower(s)]; ok {
		return st, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// Legacy devolve o rótulo minúsculo da listagem de pacientes.
func (s Status) Legacy() string {
	if label, ok := legacyLabels[s]; ok {
		return label
	}
	return strings.ToLower(string(s))
}

func (s Status) Valid() bool {
	for _, st := range Statuses {
		if s == st {
			return true
		}
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

func (s Status) Value() (driver.Value, error) {
	if s == "" {
		return string(StatusNew), nil
	}
	return string(s), nil
}

// Scan normaliza valores legados ou nulos vindos do banco. Um valor que não
// pertence ao vocabulário é mantido como está para não perder o dado.
func (s *Status) Scan(src any) error {
	var raw string
	switch v := src.(type) {
	case nil:
		raw = ""
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("status: tipo não suportado %T", src)
	}

	parsed, err := ParseStatus(raw)
	if err != nil {
		*s = Status(strings.TrimSpace(raw))
		return nil
	}
	*s = parsed
	return nil
}
