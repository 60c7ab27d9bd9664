// Command token gera um JWT de desenvolvimento para chamar as rotas do painel.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/xavierca1/ligue-crm/internal/infra/auth"
)

func main() {
	_ = godotenv.Load()

	userID := flag.String("user", "", "id do usuário (obrigatório)")
	email := flag.String("email", "", "email do usuário")
	hours := flag.Int("hours", 24, "validade em horas")
	flag.Parse()

	if *userID == "" {
		fmt.Fprintln(os.Stderr, "uso: token -user <uuid> [-email a@b.com] [-hours 24]")
		os.Exit(2)
	}

	j, err := auth.NewJWTUtil(os.Getenv("JWT_SIGNING_KEY"), time.Duration(*hours)*time.Hour)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	token, err := j.GenerateToken(*userID, *email)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(token)
}
