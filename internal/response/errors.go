package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrEmailTaken         ErrCode = "EMAIL_TAKEN"
	ErrGoogleAuthFailed   ErrCode = "GOOGLE_AUTH_FAILED"
	ErrAnonymousDisabled  ErrCode = "ANONYMOUS_DISABLED"
	ErrSessionInvalidated ErrCode = "SESSION_INVALIDATED"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Schedule ──────────────────────────────────────────────────────
	ErrInvalidRange  ErrCode = "INVALID_RANGE"
	ErrEmptySchedule ErrCode = "EMPTY_SCHEDULE"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"
	ErrConflict ErrCode = "CONFLICT"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Email ou senha inválidos."
	case ErrEmailTaken:
		return "Email já cadastrado."
	case ErrGoogleAuthFailed:
		return "Falha na autenticação com Google."
	case ErrAnonymousDisabled:
		return "Acesso anônimo desabilitado."
	case ErrSessionInvalidated:
		return "Sua sessão expirou. Faça login novamente."
	case ErrTokenRequired:
		return "Token de autenticação necessário."
	case ErrTokenInvalid:
		return "Token de autenticação inválido."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validação falhou. Verifique os campos informados."
	case ErrInvalidID:
		return "Formato de ID inválido."
	case ErrInvalidPayload:
		return "Corpo da requisição inválido."

	// ─── Schedule ──────────────────────────────────────────────────────
	case ErrInvalidRange:
		return "A data final não pode ser anterior à data inicial."
	case ErrEmptySchedule:
		return "Nenhuma data do período corresponde aos dias da semana escolhidos."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Recurso não encontrado."
	case ErrConflict:
		return "Recurso já existe."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Muitas requisições. Tente novamente em instantes."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "Erro interno do servidor."
	default:
		return "Ocorreu um erro inesperado."
	}
}
