// Package oauth contiene los clientes de proveedores externos de identidad.
package oauth

import (
	"errors"
	"strings"
)

var (
	// ErrUpstream envuelve fallas de llamadas al proveedor; el detalle no se expone al cliente.
	ErrUpstream = errors.New("oauth provider call failed")
	// ErrNoVerifiedEmail indica que el proveedor no entrego un email verificado.
	ErrNoVerifiedEmail = errors.New("no verified email from provider")
	// ErrInvalidCredential indica un ID token rechazado.
	ErrInvalidCredential = errors.New("invalid provider credential")
)

// splitName separa "Nombre Apellido" en sus dos partes.
func splitName(full string) (string, string) {
	parts := strings.Fields(full)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	default:
		return parts[0], strings.Join(parts[1:], " ")
	}
}
