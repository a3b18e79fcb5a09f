package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/pkordes/travel-orders/internal/domain"
)

// ErrorDetail is the body of every error response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// ErrorResponse wraps ErrorDetail as {"error": {...}}.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// WriteError maps err to an HTTP status and a localized error body.
// Unexpected errors are logged and reported as 500 without detail.
// Middleware uses it so every layer answers with the same shape.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, detail := describeError(err)
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed", "error", err)
	}
	writeJSON(w, status, ErrorResponse{Error: detail})
}

func describeError(err error) (int, ErrorDetail) {
	var (
		validation   *domain.ValidationError
		notFound     *domain.NotFoundError
		forbidden    *domain.ForbiddenError
		transition   *domain.InvalidTransitionError
		unauthorized *domain.UnauthenticatedError
		conflict     *domain.ConflictError
		tooLarge     *http.MaxBytesError
	)

	switch {
	case errors.As(err, &validation):
		code := "dados_invalidos"
		if validation.Reason == domain.ReasonInvalidDates {
			code = "datas_invalidas"
		}
		return http.StatusUnprocessableEntity, ErrorDetail{
			Code:    code,
			Message: validationMessage(validation),
			Field:   validation.Field,
		}

	case errors.As(err, &notFound):
		return http.StatusNotFound, notFoundDetail(notFound.Resource)

	case errors.As(err, &forbidden):
		return http.StatusForbidden, ErrorDetail{
			Code:    "somente_admin",
			Message: "Esta operação só pode ser realizada por administradores.",
		}

	case errors.As(err, &transition):
		return http.StatusUnprocessableEntity, ErrorDetail{
			Code: "status_invalido",
			Message: fmt.Sprintf("Transição de status inválida. O pedido está com status '%s' e não pode ser alterado.",
				transition.Current),
		}

	case errors.As(err, &unauthorized):
		return http.StatusUnauthorized, authDetail(unauthorized.Reason)

	case errors.As(err, &conflict):
		if conflict.Field == "email" {
			return http.StatusConflict, ErrorDetail{
				Code:    "email_ja_existe",
				Message: "Este endereço de e-mail já está em uso.",
				Field:   "email",
			}
		}
		return http.StatusConflict, ErrorDetail{Code: "conflito", Message: "O recurso já existe.", Field: conflict.Field}

	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge, ErrorDetail{
			Code:    "corpo_muito_grande",
			Message: "O corpo da requisição excede o tamanho permitido.",
		}

	case errors.Is(err, errMalformedBody):
		return http.StatusBadRequest, ErrorDetail{
			Code:    "requisicao_invalida",
			Message: "O corpo da requisição deve ser um JSON válido.",
		}
	}

	return http.StatusInternalServerError, ErrorDetail{Code: "erro_interno", Message: "Erro interno do servidor."}
}

func notFoundDetail(resource string) ErrorDetail {
	switch resource {
	case "travel_order":
		return ErrorDetail{Code: "pedido_nao_encontrado", Message: "Pedido de viagem não encontrado."}
	case "notification":
		return ErrorDetail{Code: "notificacao_nao_encontrada", Message: "Notificação não encontrada."}
	case "user":
		return ErrorDetail{Code: "usuario_nao_encontrado", Message: "Usuário não encontrado."}
	}
	return ErrorDetail{Code: "nao_encontrado", Message: "Recurso não encontrado."}
}

func authDetail(reason domain.AuthFailure) ErrorDetail {
	switch reason {
	case domain.AuthInvalidCredentials:
		return ErrorDetail{Code: "credenciais_invalidas", Message: "Credenciais inválidas. Verifique seu email e senha."}
	case domain.AuthTokenMissing:
		return ErrorDetail{Code: "token_nao_fornecido", Message: "Token não fornecido. Por favor, faça login."}
	case domain.AuthTokenExpired:
		return ErrorDetail{Code: "token_expirado", Message: "Seu token expirou. Por favor, faça login novamente."}
	case domain.AuthTokenRevoked, domain.AuthTokenInvalid:
		return ErrorDetail{Code: "token_invalido", Message: "Token inválido. Por favor, faça login novamente."}
	}
	return ErrorDetail{Code: "nao_autenticado", Message: "Você não está autenticado. Por favor, faça login."}
}

// fieldLabels are the Portuguese names used in generic validation messages.
var fieldLabels = map[string]string{
	"requester_name":        "nome do solicitante",
	"destination":           "destino",
	"departure_date":        "data de partida",
	"return_date":           "data de retorno",
	"name":                  "nome",
	"email":                 "e-mail",
	"password":              "senha",
	"password_confirmation": "confirmação da senha",
	"status":                "status",
}

type fieldReason struct {
	field  string
	reason domain.Reason
}

var validationMessages = map[fieldReason]string{
	{"requester_name", domain.ReasonRequired}:        "O nome do solicitante é obrigatório.",
	{"requester_name", domain.ReasonTooLong}:         "O nome do solicitante não pode ter mais de 255 caracteres.",
	{"destination", domain.ReasonRequired}:           "O destino é obrigatório.",
	{"destination", domain.ReasonTooLong}:            "O destino não pode ter mais de 255 caracteres.",
	{"departure_date", domain.ReasonRequired}:        "A data de partida é obrigatória.",
	{"departure_date", domain.ReasonInvalid}:         "A data de partida deve ser uma data válida.",
	{"return_date", domain.ReasonRequired}:           "A data de retorno é obrigatória.",
	{"return_date", domain.ReasonInvalid}:            "A data de retorno deve ser uma data válida.",
	{"return_date", domain.ReasonInvalidDates}:       "Data de retorno deve ser igual ou posterior à data de partida.",
	{"name", domain.ReasonRequired}:                  "O campo nome é obrigatório.",
	{"name", domain.ReasonTooLong}:                   "O campo nome não pode ter mais de 255 caracteres.",
	{"email", domain.ReasonRequired}:                 "O campo e-mail é obrigatório.",
	{"email", domain.ReasonInvalid}:                  "O campo e-mail deve ser um endereço de e-mail válido.",
	{"email", domain.ReasonTooLong}:                  "O campo e-mail não pode ter mais de 255 caracteres.",
	{"password", domain.ReasonRequired}:              "O campo senha é obrigatório.",
	{"password", domain.ReasonTooShort}:              "O campo senha deve ter pelo menos 8 caracteres.",
	{"password_confirmation", domain.ReasonMismatch}: "A confirmação da senha não corresponde.",
	{"status", domain.ReasonUnknownStatus}:           "Status inválido. Valores aceitos: solicitado, aprovado, cancelado.",
}

func validationMessage(e *domain.ValidationError) string {
	if msg, ok := validationMessages[fieldReason{e.Field, e.Reason}]; ok {
		return msg
	}
	label, ok := fieldLabels[e.Field]
	if !ok {
		label = e.Field
	}
	if e.Reason == domain.ReasonRequired {
		return fmt.Sprintf("O campo %s é obrigatório.", label)
	}
	return fmt.Sprintf("O campo %s é inválido.", label)
}
