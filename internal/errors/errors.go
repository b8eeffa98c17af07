package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// AppError é a interface central para todos os erros customizados do GoInventory.
// Ela permite que o código externo (Handler) acesse a Categoria e a Mensagem do erro.
type AppError interface {
	Error() string    // Implementa a interface error padrão do Go
	Category() string // Categoria do erro (e.g., "VALIDATION_ERROR", "NOT_FOUND", "INTERNAL_ERROR")
	HTTPStatus() int  // Código HTTP sugerido para o Handler
	Unwrap() error    // Permite encapsular erros subjacentes (original error)
}

// --- Tipos de Erro Específicos (Erros de Domínio) ---

// ValidationError representa falhas de validação de dados de entrada
// (quantidade negativa ou zero, SKU malformado, IDs não positivos).
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string    { return fmt.Sprintf("Erro de Validação: %s", e.Msg) }
func (e *ValidationError) Category() string { return "VALIDATION_ERROR" }
func (e *ValidationError) HTTPStatus() int  { return http.StatusBadRequest } // 400
func (e *ValidationError) Unwrap() error    { return nil }

// NewValidationError cria um novo erro de validação.
func NewValidationError(msg string) AppError {
	return &ValidationError{Msg: msg}
}

// NotFoundError representa a ausência de um recurso solicitado (pedido, armazém ou SKU).
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string    { return fmt.Sprintf("Recurso não encontrado: %s", e.Msg) }
func (e *NotFoundError) Category() string { return "NOT_FOUND" }
func (e *NotFoundError) HTTPStatus() int  { return http.StatusNotFound } // 404
func (e *NotFoundError) Unwrap() error    { return nil }

// NewNotFoundError cria um novo erro de recurso não encontrado.
func NewNotFoundError(msg string) AppError {
	return &NotFoundError{Msg: msg}
}

// InvariantViolationError representa uma transição de estado ilegal ou a quebra
// de uma regra do agregado (e.g., colocar um pedido fora de Draft). Não é retentável.
type InvariantViolationError struct {
	Msg string
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("Violação de invariante: %s", e.Msg)
}
func (e *InvariantViolationError) Category() string { return "INVARIANT_VIOLATION" }
func (e *InvariantViolationError) HTTPStatus() int  { return http.StatusUnprocessableEntity } // 422
func (e *InvariantViolationError) Unwrap() error    { return nil }

// NewInvariantViolationError cria um novo erro de violação de invariante.
func NewInvariantViolationError(msg string) AppError {
	return &InvariantViolationError{Msg: msg}
}

// InsufficientStockError indica que uma reserva excede a quantidade disponível.
// É separado de InvariantViolationError para que o chamador possa reagir (e.g., back-order).
type InsufficientStockError struct {
	Msg       string
	Sku       string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Estoque insuficiente: %s", e.Msg)
}
func (e *InsufficientStockError) Category() string { return "INSUFFICIENT_STOCK" }
func (e *InsufficientStockError) HTTPStatus() int  { return http.StatusConflict } // 409
func (e *InsufficientStockError) Unwrap() error    { return nil }

// NewInsufficientStockError cria um erro de estoque insuficiente para o SKU informado.
func NewInsufficientStockError(sku string, requested, available int) AppError {
	return &InsufficientStockError{
		Msg:       fmt.Sprintf("SKU %s: solicitado %d, disponível %d", sku, requested, available),
		Sku:       sku,
		Requested: requested,
		Available: available,
	}
}

// ConflictError representa um conflito de concorrência (OCC) ou recurso duplicado.
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string    { return fmt.Sprintf("Conflito de estado: %s", e.Msg) }
func (e *ConflictError) Category() string { return "CONFLICT" }
func (e *ConflictError) HTTPStatus() int  { return http.StatusConflict } // 409
func (e *ConflictError) Unwrap() error    { return nil }

// NewConflictError cria um novo erro de conflito (usado em OCC).
func NewConflictError(msg string) AppError {
	return &ConflictError{Msg: msg}
}

// --- Tipos de Erro de Infraestrutura (Encapsulamento) ---

// InternalError representa falhas inesperadas no servidor, serviço ou repositório.
type InternalError struct {
	Msg string
	Err error // Erro original subjacente (e.g., erro do driver SQL)
}

func (e *InternalError) Error() string    { return fmt.Sprintf("Erro Interno: %s", e.Msg) }
func (e *InternalError) Category() string { return "INTERNAL_ERROR" }
func (e *InternalError) HTTPStatus() int  { return http.StatusInternalServerError } // 500
func (e *InternalError) Unwrap() error    { return e.Err }

// NewInternalError cria um erro de servidor (para falhas de lógica ou código não esperado).
func NewInternalError(msg string, err error) AppError {
	if err != nil {
		msg = fmt.Sprintf("%s: %s", msg, err.Error())
	}
	return &InternalError{Msg: msg, Err: err}
}

// NewDBError é um atalho para criar um InternalError específico de falhas no DB.
func NewDBError(msg string, err error) AppError {
	return &InternalError{Msg: fmt.Sprintf("%s (DB): %s", msg, err.Error()), Err: err}
}

// IsDomainError informa se err (ou algum erro na cadeia) é um erro de regra de negócio,
// e não uma falha de infraestrutura.
func IsDomainError(err error) bool {
	var (
		validation *ValidationError
		notFound   *NotFoundError
		invariant  *InvariantViolationError
		stock      *InsufficientStockError
		conflict   *ConflictError
	)
	return stderrors.As(err, &validation) ||
		stderrors.As(err, &notFound) ||
		stderrors.As(err, &invariant) ||
		stderrors.As(err, &stock) ||
		stderrors.As(err, &conflict)
}

// --- Helper para o Handler (Tradução Final) ---

// MapToHTTPStatus recebe um erro e o traduz para o código HTTP e corpo de resposta.
func MapToHTTPStatus(err error) (int, string, string) {
	var appErr AppError
	if stderrors.As(err, &appErr) {
		return appErr.HTTPStatus(), appErr.Category(), appErr.Error()
	}

	// Erro não tipado: tratado como erro interno genérico.
	return http.StatusInternalServerError, "UNKNOWN_ERROR", "Ocorreu um erro inesperado."
}
