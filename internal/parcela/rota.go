// internal/parcela/rota.go
package parcela

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/VidaPet/api-assinaturas/internal/contrato"
)

func contratoDaRota(repo *contrato.Repository, r *http.Request) (*contrato.Contrato, error) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		return nil, err
	}
	return repo.FindByID(uint(id))
}
