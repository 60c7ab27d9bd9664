package usecase

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/logger"
)

const maxImportRows = 5000

var importHeaders = map[string]string{
	"name":         "name",
	"nome":         "name",
	"phone":        "phone",
	"telefone":     "phone",
	"whatsapp":     "phone",
	"email":        "email",
	"e-mail":       "email",
	"status":       "status",
	"notes":        "notes",
	"observacoes":  "notes",
	"observações":  "notes",
	"medicalnotes": "notes",
	"source":       "source",
	"origem":       "source",
}

type ImportRowError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

type ImportLeadsOutput struct {
	Imported   int              `json:"imported"`
	Duplicates int              `json:"duplicates"`
	Errors     []ImportRowError `json:"errors"`
}

type ImportLeadsUseCase struct {
	LeadRepo     entity.LeadRepositoryInterface
	PipelineRepo entity.PipelineRepositoryInterface
}

func NewImportLeadsUseCase(leadRepo entity.LeadRepositoryInterface, pipelineRepo entity.PipelineRepositoryInterface) *ImportLeadsUseCase {
	return &ImportLeadsUseCase{LeadRepo: leadRepo, PipelineRepo: pipelineRepo}
}

// Execute importa um CSV com cabeçalho. Linhas inválidas são reportadas e
// puladas; telefones já cadastrados contam como duplicados. As linhas aceitas
// entram numa única transação.
func (uc *ImportLeadsUseCase) Execute(ctx context.Context, principal Principal, pipelineID string, r io.Reader) (*ImportLeadsOutput, error) {
	if err := principal.authenticate(); err != nil {
		return nil, err
	}

	var pipelinePtr *string
	if id := strings.TrimSpace(pipelineID); id != "" {
		if _, err := loadOwnedPipeline(ctx, uc.PipelineRepo, principal, id); err != nil {
			return nil, err
		}
		pipelinePtr = &id
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, validationError("csv is empty")
		}
		return nil, validationError("csv is invalid: " + err.Error())
	}
	columns, err := mapImportHeader(header)
	if err != nil {
		return nil, validationError(err.Error())
	}

	out := &ImportLeadsOutput{Errors: []ImportRowError{}}
	var candidates []*entity.Lead
	seen := map[string]bool{}

	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if len(candidates)+len(out.Errors)+out.Duplicates >= maxImportRows {
			return nil, validationError(fmt.Sprintf("csv exceeds %d rows", maxImportRows))
		}
		if err != nil {
			// Só erros de parse continuam; falha de leitura do corpo se repete
			// a cada chamada.
			var parseErr *csv.ParseError
			if !errors.As(err, &parseErr) {
				return nil, validationError("csv is invalid: " + err.Error())
			}
			out.Errors = append(out.Errors, ImportRowError{line, err.Error()})
			continue
		}

		row := rowValues(columns, record)
		lead, err := buildImportedLead(principal.UserID, row)
		if err != nil {
			out.Errors = append(out.Errors, ImportRowError{line, err.Error()})
			continue
		}

		phone := entity.NormalizePhone(lead.Phone)
		if seen[phone] {
			out.Duplicates++
			continue
		}
		seen[phone] = true
		lead.PipelineID = pipelinePtr
		candidates = append(candidates, lead)
	}

	if len(candidates) == 0 {
		return out, nil
	}

	phones := make([]string, 0, len(candidates))
	for _, l := range candidates {
		phones = append(phones, entity.NormalizePhone(l.Phone))
	}
	existing, err := uc.LeadRepo.ExistingPhones(ctx, principal.UserID, phones)
	if err != nil {
		return nil, databaseError("falha ao verificar duplicados", err)
	}

	accepted := candidates[:0]
	for _, l := range candidates {
		if existing[entity.NormalizePhone(l.Phone)] {
			out.Duplicates++
			continue
		}
		accepted = append(accepted, l)
	}

	if len(accepted) > 0 {
		if err := uc.LeadRepo.CreateBatch(ctx, accepted); err != nil {
			return nil, databaseError("falha ao importar leads", err)
		}
	}
	out.Imported = len(accepted)

	logger.FromContext(ctx).Info("importação de leads concluída",
		zap.String("user_id", principal.UserID),
		zap.Int("imported", out.Imported),
		zap.Int("duplicates", out.Duplicates),
		zap.Int("errors", len(out.Errors)))

	return out, nil
}

func mapImportHeader(header []string) (map[string]int, error) {
	columns := map[string]int{}
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if field, ok := importHeaders[key]; ok {
			if _, dup := columns[field]; !dup {
				columns[field] = i
			}
		}
	}
	if _, ok := columns["name"]; !ok {
		return nil, errors.New("csv header must contain name")
	}
	if _, ok := columns["phone"]; !ok {
		return nil, errors.New("csv header must contain phone")
	}
	return columns, nil
}

func rowValues(columns map[string]int, record []string) map[string]string {
	row := make(map[string]string, len(columns))
	for field, i := range columns {
		if i < len(record) {
			row[field] = strings.TrimSpace(record[i])
		}
	}
	return row
}

func buildImportedLead(userID string, row map[string]string) (*entity.Lead, error) {
	if errs := validateContact(row["name"], row["phone"], row["email"]); len(errs) > 0 {
		return nil, errors.New(joinValidation(errs))
	}

	lead, err := entity.NewLead(userID, row["name"], row["phone"])
	if err != nil {
		return nil, err
	}

	status, err := entity.ParseStatus(row["status"])
	if err != nil {
		return nil, err
	}
	lead.Status = status
	lead.Email = row["email"]
	lead.MedicalNotes = row["notes"]
	lead.Source = firstNonEmpty(row["source"], "import")
	return lead, nil
}
