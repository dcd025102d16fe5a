package db

import (
	"os"
	"strconv"

	"gorm.io/gorm"
)

// GetDB resolve host, porta e nome do banco pelas variáveis de ambiente e
// abre a conexão. As credenciais vêm de env ou do Secrets Manager.
func GetDB() (*gorm.DB, error) {
	host := os.Getenv("DB_HOST")
	port, err := strconv.ParseUint(os.Getenv("DB_PORT"), 10, 32)
	if err != nil {
		port = 5432
	}

	nome := os.Getenv("DB_NAME")
	secretID := os.Getenv("DB_SECRET_ID")
	return ConnectDataBase(uint(port), host, nome, secretID)
}
