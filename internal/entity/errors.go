package entity

import "errors"

var (
	ErrNotFound       = errors.New("registro não encontrado")
	ErrConflict       = errors.New("registro duplicado")
	ErrInvalidStatus  = errors.New("status inválido")
	ErrUnknownColumn  = errors.New("coluna desconhecida")
	ErrUnknownBlock   = errors.New("tipo de bloco desconhecido")
	ErrNegativeAmount = errors.New("valor potencial não pode ser negativo")
)
