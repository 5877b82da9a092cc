package http

import "galpe/internal/domain"

// reasonMessages maps account outcome tags to user-facing messages
var reasonMessages = map[domain.Reason]string{
	domain.ReasonMissingFields:      "Por favor, completa todos los campos",
	domain.ReasonPasswordMismatch:   "Las contraseñas no coinciden",
	domain.ReasonPasswordTooShort:   "La contraseña debe tener al menos 6 caracteres",
	domain.ReasonInvalidEmailFormat: "Por favor, introduce un email válido",
	domain.ReasonEmailUnchanged:     "El nuevo correo electrónico debe ser diferente al actual",
	domain.ReasonUserNotFound:       "No se encontró ningún usuario con ese correo electrónico",
	domain.ReasonWrongPassword:      "La contraseña es incorrecta",
	domain.ReasonEmailInUse:         "Este correo electrónico ya está en uso por otra cuenta",
	domain.ReasonInvalidCredentials: "Correo electrónico o contraseña incorrectos",
	domain.ReasonPersistFailed:      "Error al guardar los cambios. Por favor, intenta de nuevo.",
	domain.ReasonStoreUnavailable:   "Ocurrió un error inesperado. Por favor, intenta de nuevo.",
}

const (
	msgPasswordChanged = "Contraseña cambiada exitosamente. Ya puedes iniciar sesión con tu nueva contraseña."
	msgEmailChanged    = "Correo electrónico cambiado exitosamente. Ya puedes iniciar sesión con tu nuevo correo electrónico."
)

// reasonMessage returns the message for a failed outcome
func reasonMessage(r domain.Reason) string {
	if msg, ok := reasonMessages[r]; ok {
		return msg
	}
	return reasonMessages[domain.ReasonStoreUnavailable]
}

