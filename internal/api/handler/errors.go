package handler

import (
	"errors"

	"github.com/crazyimage/task-system/internal/core/domain"
)

// Plain-text bodies returned by the user, task and auth endpoints. Existing
// clients match on these exact strings.
const (
	msgInvalidBody        = "invalid request body"
	msgInvalidCredentials = "Credenciales inválidas al momento de loguearte"

	msgBadBody      = "Error en el body de la request"
	msgUserAdded    = "Usuario Agregado"
	msgUserNotFound = "No se consiguio el usuario"
	msgUserUpdated  = "Usuario Actualizado"
	msgUserDeleted  = "Usuario Eliminado"

	msgTaskAdded      = "Task add"
	msgTaskNotAdded   = "Cannot add the task"
	msgTaskUpdated    = "Task update"
	msgTaskNotUpdated = "Cannot update the task"
	msgTaskDeleted    = "Task delete"
	msgTaskNotDeleted = "Cannot delete the task"
)

// isRejected reports whether err is a business-rule failure that the
// endpoints answer with 400 rather than letting it surface as a 500.
func isRejected(err error) bool {
	return errors.Is(err, domain.ErrInvalidID) ||
		errors.Is(err, domain.ErrInvalidInput) ||
		errors.Is(err, domain.ErrUserExists) ||
		errors.Is(err, domain.ErrUserNotFound) ||
		errors.Is(err, domain.ErrTaskNotFound)
}
