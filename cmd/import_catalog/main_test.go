package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func TestParseCatalog_DecodificaLatin1(t *testing.T) {
	utf8 := "tipo;codigo;nombre;descripcion\n" +
		"producto;TOR-001;Tornillo cabeza hexagonal;Caja x 100\n" +
		"Ubicación;;Bodega Año Nuevo;Estantería 3\n" +
		"producto;;Sin código;no se importa\n" +
		"otro;X;Ignorado;\n" +
		"producto;TUE-001\n"
	latin1, err := charmap.ISO8859_1.NewEncoder().String(utf8)
	require.NoError(t, err)

	entries, err := parseCatalog(bytes.NewBufferString(latin1))
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "producto", entries[0].kind)
	assert.Equal(t, "TOR-001", entries[0].code)
	assert.Equal(t, "Caja x 100", entries[0].description)

	assert.Equal(t, "ubicacion", entries[1].kind)
	assert.Equal(t, "Bodega Año Nuevo", entries[1].name, "los acentos deben llegar como UTF-8")
	assert.Equal(t, 3, entries[1].line)
}
