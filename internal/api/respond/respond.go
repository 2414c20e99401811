package respond

import (
	"encoding/json"
	"net/http"

	"goexam/internal/domain"
	apperror "goexam/internal/errors"
	"goexam/internal/pkg/logger"
)

// JSON escreve uma resposta de sucesso com o status e o corpo informados.
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// Error traduz o erro do serviço para o formato padronizado
// {code, category, message}. Apenas erros 5xx vão para o log de erro;
// falhas de validação/negócio são respostas normais da API.
func Error(w http.ResponseWriter, log logger.Logger, err error) {
	status, category, message := apperror.MapToHTTPStatus(err)

	if status >= 500 && log != nil {
		log.Error("Erro interno no serviço.", err)
	}

	JSON(w, status, domain.ErrorResponse{
		Code:     status,
		Category: category,
		Message:  message,
	})
}

// Service centraliza o padrão "sucesso ou tradução de erro" dos handlers.
func Service(w http.ResponseWriter, log logger.Logger, data interface{}, err error, successStatus int) {
	if err != nil {
		Error(w, log, err)
		return
	}
	JSON(w, successStatus, data)
}
