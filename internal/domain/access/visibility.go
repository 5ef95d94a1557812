package access

import (
	"strings"

	"github.com/google/uuid"
)

// Scope resultado del filtro de visibilidad.
// All sin CompanyID: todo el inventario. CompanyID: sólo esa empresa. Ninguno de los dos: nada.
type Scope struct {
	All       bool
	CompanyID *string
}

// Empty informa si el actor no puede ver ningún registro.
func (s Scope) Empty() bool { return !s.All && s.CompanyID == nil }

// Allows informa si un registro de la empresa indicada es visible.
func (s Scope) Allows(companyID *string) bool {
	if s.CompanyID != nil {
		return companyID != nil && *companyID == *s.CompanyID
	}
	return s.All
}

// Visibility calcula qué registros de inventario puede ver el actor.
// Los roles privilegiados ven todo; un filtro de empresa con UUID válido lo acota y uno inválido se ignora.
// El cliente ve sólo su empresa sin importar el filtro. Cualquier otro caso no ve nada.
func Visibility(a Actor, companyFilter string) Scope {
	switch {
	case a.Role.Privileged():
		if id, err := uuid.Parse(strings.TrimSpace(companyFilter)); err == nil {
			s := id.String()
			return Scope{CompanyID: &s}
		}
		return Scope{All: true}
	case a.Role == RoleCliente && a.CompanyID != nil && *a.CompanyID != "":
		s := *a.CompanyID
		return Scope{CompanyID: &s}
	default:
		return Scope{}
	}
}
