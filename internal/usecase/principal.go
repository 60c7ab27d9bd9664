package usecase

// Principal identifica o usuário autenticado. Toda operação sobre leads e
// pipelines recebe o principal explicitamente.
type Principal struct {
	UserID string
	Email  string
}

func (p Principal) authenticate() error {
	if p.UserID == "" {
		return errUnauthorized
	}
	return nil
}
