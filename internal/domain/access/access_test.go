package access_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Bodegaje-api/internal/domain"
	"github.com/jhoicas/Bodegaje-api/internal/domain/access"
)

const (
	companyA = "11111111-1111-1111-1111-111111111111"
	companyB = "22222222-2222-2222-2222-222222222222"
)

func strp(s string) *string { return &s }

func TestVisibility_PrivilegiadoSinFiltroVeTodo(t *testing.T) {
	for _, r := range []access.Role{access.RoleAdmin, access.RoleJefeEmpresa, access.RoleJefeInventario} {
		s := access.Visibility(access.Actor{Role: r}, "")
		assert.True(t, s.All, "rol %s debe ver todo", r)
		assert.True(t, s.Allows(strp(companyA)))
		assert.True(t, s.Allows(nil), "los registros globales también son visibles")
	}
}

func TestVisibility_PrivilegiadoConFiltroValidoAcota(t *testing.T) {
	s := access.Visibility(access.Actor{Role: access.RoleAdmin}, companyB)
	require.NotNil(t, s.CompanyID)
	assert.Equal(t, companyB, *s.CompanyID)
	assert.True(t, s.Allows(strp(companyB)))
	assert.False(t, s.Allows(strp(companyA)))
	assert.False(t, s.Allows(nil))
}

func TestVisibility_PrivilegiadoConFiltroInvalidoSeIgnora(t *testing.T) {
	s := access.Visibility(access.Actor{Role: access.RoleJefeInventario}, "no-es-un-id")
	assert.True(t, s.All, "un filtro inválido no es error: vuelve a 'todo'")
	assert.Nil(t, s.CompanyID)
}

func TestVisibility_ClienteSoloSuEmpresa(t *testing.T) {
	actor := access.Actor{Role: access.RoleCliente, CompanyID: strp(companyA)}

	s := access.Visibility(actor, companyB)
	require.NotNil(t, s.CompanyID)
	assert.Equal(t, companyA, *s.CompanyID, "el filtro no puede ampliar la vista del cliente")
	assert.False(t, s.Allows(strp(companyB)))
	assert.False(t, s.Allows(nil))
}

func TestVisibility_SinAcceso(t *testing.T) {
	cases := map[string]access.Actor{
		"cliente sin empresa": {Role: access.RoleCliente},
		"conductor":           {Role: access.RoleConductor, CompanyID: strp(companyA)},
		"rol desconocido":     {Role: access.Role("vendedor")},
	}
	for name, actor := range cases {
		t.Run(name, func(t *testing.T) {
			s := access.Visibility(actor, companyA)
			assert.True(t, s.Empty())
			assert.False(t, s.Allows(strp(companyA)))
			assert.False(t, s.Allows(nil))
		})
	}
}

func TestRequire_TablaDeCapacidades(t *testing.T) {
	assert.NoError(t, access.Require(access.Actor{Role: access.RoleJefeInventario}, access.CapInventoryAdjust))
	assert.NoError(t, access.Require(access.Actor{Role: access.RoleCliente}, access.CapInventoryView))

	err := access.Require(access.Actor{Role: access.RoleCliente}, access.CapInventoryAdjust)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	err = access.Require(access.Actor{Role: access.RoleJefeInventario}, access.CapCompanyManage)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	err = access.Require(access.Actor{Role: access.RoleConductor}, access.CapInventoryHistory)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestParseRole(t *testing.T) {
	r, ok := access.ParseRole(" Jefe_Inventario ")
	assert.True(t, ok)
	assert.Equal(t, access.RoleJefeInventario, r)

	_, ok = access.ParseRole("bodeguero")
	assert.False(t, ok)
}
