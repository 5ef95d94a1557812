// import_catalog carga productos y ubicaciones desde el CSV exportado por el sistema anterior
// (ISO-8859-1, separado por punto y coma).
//
// Uso: go run ./cmd/import_catalog [ruta/catalogo.csv]
// Por defecto busca catalogo.csv en el directorio actual.
// Columnas: tipo;codigo;nombre;descripcion  con tipo = producto | ubicacion.
// Las filas ya existentes (SKU o nombre de ubicación) se omiten; cada alta queda en el historial.
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/Bodegaje-api/internal/application/audit"
	"github.com/jhoicas/Bodegaje-api/internal/application/catalog"
	"github.com/jhoicas/Bodegaje-api/internal/application/dto"
	"github.com/jhoicas/Bodegaje-api/internal/domain"
	"github.com/jhoicas/Bodegaje-api/internal/domain/access"
	"github.com/jhoicas/Bodegaje-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Bodegaje-api/pkg/config"
	"github.com/jhoicas/Bodegaje-api/pkg/logger"
)

// entry fila del catálogo heredado.
type entry struct {
	line        int
	kind        string
	code        string
	name        string
	description string
}

func main() {
	csvPath := "catalogo.csv"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}
	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	entries, err := parseCatalog(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	if err := postgres.Migrate(ctx, pool, log); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	listeners := catalog.NewListeners()
	listeners.Register(audit.NewCatalogNotifier(audit.NewRecorder(log, nil), postgres.NewMovementRepository(pool), nil))
	products := catalog.NewProductUseCase(postgres.NewProductRepository(pool), listeners, log)
	locations := catalog.NewLocationUseCase(postgres.NewLocationRepository(pool), listeners, log)

	var created, skipped, failed int
	actor := access.System()
	for _, e := range entries {
		var err error
		switch e.kind {
		case "producto":
			_, err = products.Create(ctx, actor, dto.CreateProductRequest{SKU: e.code, Name: e.name, Description: e.description})
		case "ubicacion":
			err = createLocation(ctx, locations, actor, e)
		}
		switch {
		case err == nil:
			created++
		case errors.Is(err, domain.ErrDuplicate):
			skipped++
		default:
			failed++
			log.Error().Err(err).Int("line", e.line).Str("kind", e.kind).Str("name", e.name).Msg("fila no importada")
		}
	}

	fmt.Printf("Importado %s: %d creados, %d omitidos, %d con error\n", csvPath, created, skipped, failed)
	if failed > 0 {
		os.Exit(1)
	}
}

// createLocation crea la ubicación salvo que ya exista una con el mismo nombre.
func createLocation(ctx context.Context, uc *catalog.LocationUseCase, actor access.Actor, e entry) error {
	existing, err := uc.List(ctx, actor, e.name, 0, 0)
	if err != nil {
		return err
	}
	for _, l := range existing.Items {
		if strings.EqualFold(l.Name, e.name) {
			return domain.ErrDuplicate
		}
	}
	_, err = uc.Create(ctx, actor, dto.CreateLocationRequest{Name: e.name, Description: e.description})
	return err
}

// parseCatalog decodifica ISO-8859-1 y devuelve las filas válidas. La primera fila es el encabezado.
func parseCatalog(r io.Reader) ([]entry, error) {
	reader := csv.NewReader(transform.NewReader(r, charmap.ISO8859_1.NewDecoder()))
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var out []entry
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++
		if line == 1 || len(record) < 3 {
			continue
		}
		e := entry{
			line: line,
			kind: normalizeKind(record[0]),
			code: strings.TrimSpace(record[1]),
			name: strings.TrimSpace(record[2]),
		}
		if len(record) > 3 {
			e.description = strings.TrimSpace(record[3])
		}
		if e.kind == "" || e.name == "" || (e.kind == "producto" && e.code == "") {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func normalizeKind(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "producto", "product":
		return "producto"
	case "ubicacion", "ubicación", "location":
		return "ubicacion"
	}
	return ""
}
