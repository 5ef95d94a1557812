// Package access modela los roles, las capacidades por rol y el filtro de visibilidad del inventario.
package access

import (
	"fmt"
	"strings"

	"github.com/jhoicas/Bodegaje-api/internal/domain"
)

// Role conjunto cerrado de roles del sistema.
type Role string

const (
	RoleAdmin          Role = "admin"
	RoleJefeEmpresa    Role = "jefe_empresa"
	RoleJefeInventario Role = "jefe_inventario"
	RoleCliente        Role = "cliente"
	RoleConductor      Role = "conductor"
)

// Roles lista ordenada de todos los roles.
var Roles = []Role{RoleAdmin, RoleJefeEmpresa, RoleJefeInventario, RoleCliente, RoleConductor}

// ParseRole convierte s en un Role conocido.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Roles {
		if r == known {
			return r, true
		}
	}
	return "", false
}

// Privileged roles con visibilidad sobre todas las empresas.
func (r Role) Privileged() bool {
	return r == RoleAdmin || r == RoleJefeEmpresa || r == RoleJefeInventario
}

// Capability operación autorizable.
type Capability string

const (
	CapInventoryView    Capability = "inventory.view"
	CapInventoryManage  Capability = "inventory.manage"
	CapInventoryAdjust  Capability = "inventory.adjust"
	CapInventoryHistory Capability = "inventory.history"
	CapInventoryExport  Capability = "inventory.export"
	CapCatalogView      Capability = "catalog.view"
	CapCatalogManage    Capability = "catalog.manage"
	CapCompanyManage    Capability = "company.manage"
)

var capabilities = map[Role][]Capability{
	RoleAdmin: {
		CapInventoryView, CapInventoryManage, CapInventoryAdjust, CapInventoryHistory,
		CapInventoryExport, CapCatalogView, CapCatalogManage, CapCompanyManage,
	},
	RoleJefeEmpresa: {
		CapInventoryView, CapInventoryManage, CapInventoryAdjust, CapInventoryHistory,
		CapInventoryExport, CapCatalogView, CapCatalogManage, CapCompanyManage,
	},
	RoleJefeInventario: {
		CapInventoryView, CapInventoryManage, CapInventoryAdjust, CapInventoryHistory,
		CapInventoryExport, CapCatalogView, CapCatalogManage,
	},
	RoleCliente:   {CapInventoryView, CapInventoryExport, CapCatalogView},
	RoleConductor: {CapInventoryView, CapCatalogView},
}

// Can consulta la tabla de capacidades.
func (r Role) Can(c Capability) bool {
	for _, allowed := range capabilities[r] {
		if allowed == c {
			return true
		}
	}
	return false
}

// Actor usuario que ejecuta la operación; se pasa explícitamente desde la capa HTTP.
type Actor struct {
	UserID    string
	Role      Role
	CompanyID *string
}

// UserRef referencia al usuario para el historial; nil para acciones del sistema.
func (a Actor) UserRef() *string {
	if a.UserID == "" {
		return nil
	}
	id := a.UserID
	return &id
}

// System actor anónimo con permisos de administrador (comandos de mantenimiento).
func System() Actor { return Actor{Role: RoleAdmin} }

// Require devuelve ErrForbidden si el rol del actor no tiene la capacidad.
func Require(a Actor, c Capability) error {
	if !a.Role.Can(c) {
		return fmt.Errorf("%w: el rol %q no permite %s", domain.ErrForbidden, a.Role, c)
	}
	return nil
}
