package entity

import "fmt"

// Board mapeia colunas do kanban para status e vice-versa. Colunas são apenas
// apresentação: o lead só guarda o status.
type Board struct {
	columns []Column
}

type BoardColumn struct {
	Column
	Leads []*Lead `json:"leads"`
}

// NewBoard monta o quadro do pipeline; nil usa as colunas padrão.
func NewBoard(p *Pipeline) *Board {
	return &Board{columns: p.EffectiveColumns()}
}

func (b *Board) Columns() []Column {
	out := make([]Column, len(b.columns))
	copy(out, b.columns)
	return out
}

// Resolve traduz a coluna de destino de um drag-and-drop no status a gravar.
func (b *Board) Resolve(columnID string) (Status, error) {
	for _, c := range b.columns {
		if c.ID == columnID {
			return c.Status, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownColumn, columnID)
}

// ColumnFor nunca falha: status vazio vai para novos, status sem coluna vai
// para a primeira coluna do quadro.
func (b *Board) ColumnFor(status Status) Column {
	if status == "" {
		status = StatusNew
	}
	for _, c := range b.columns {
		if c.Status == status {
			return c
		}
	}
	if status != StatusNew {
		for _, c := range b.columns {
			if c.Status == StatusNew {
				return c
			}
		}
	}
	return b.columns[0]
}

// Group distribui os leads nas colunas, ignorando os Removido.
func (b *Board) Group(leads []*Lead) []BoardColumn {
	out := make([]BoardColumn, len(b.columns))
	index := make(map[string]int, len(b.columns))
	for i, c := range b.columns {
		out[i] = BoardColumn{Column: c, Leads: []*Lead{}}
		index[c.ID] = i
	}

	for _, l := range leads {
		if l.Removed() {
			continue
		}
		i := index[b.ColumnFor(l.Status).ID]
		out[i].Leads = append(out[i].Leads, l)
	}
	return out
}
