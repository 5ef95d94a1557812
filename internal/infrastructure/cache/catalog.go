// Package cache guarda en Redis las lecturas por ID del catálogo. Las validaciones de referencias
// de cada entrada y salida consultan producto y ubicación, así que son las lecturas más frecuentes.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/Bodegaje-api/internal/application/catalog"
	"github.com/jhoicas/Bodegaje-api/internal/domain/entity"
	"github.com/jhoicas/Bodegaje-api/internal/domain/repository"
	"github.com/jhoicas/Bodegaje-api/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "bodegaje:catalog:"

var _ catalog.Listener = (*Catalog)(nil)

// Catalog caché de productos y ubicaciones. También es el observador que invalida las entradas
// cuando el catálogo cambia.
type Catalog struct {
	client redis.Cmdable
	ttl    time.Duration
	log    *logger.Logger
}

// NewCatalog construye la caché. ttl <= 0 usa cinco minutos.
func NewCatalog(client redis.Cmdable, ttl time.Duration, log *logger.Logger) *Catalog {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Catalog{client: client, ttl: ttl, log: log.Component("cache")}
}

// Connect abre el cliente Redis y verifica la conexión.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping %s: %w", addr, err)
	}
	return client, nil
}

func productKey(id string) string  { return keyPrefix + "product:" + id }
func locationKey(id string) string { return keyPrefix + "location:" + id }

// OnCatalogChange borra la entrada del producto o la ubicación modificados.
func (c *Catalog) OnCatalogChange(ctx context.Context, ev catalog.Event) error {
	var key string
	switch {
	case ev.Product != nil:
		key = productKey(ev.Product.ID)
	case ev.Location != nil:
		key = locationKey(ev.Location.ID)
	default:
		return nil
	}
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("cache: invalidar %s: %w", key, err)
	}
	return nil
}

// Products envuelve el repositorio con lectura por ID cacheada.
func (c *Catalog) Products(next repository.ProductRepository) repository.ProductRepository {
	return &products{ProductRepository: next, c: c}
}

// Locations envuelve el repositorio con lectura por ID cacheada.
func (c *Catalog) Locations(next repository.LocationRepository) repository.LocationRepository {
	return &locations{LocationRepository: next, c: c}
}

type products struct {
	repository.ProductRepository
	c *Catalog
}

func (p *products) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return cached(ctx, p.c, productKey(id), func() (*entity.Product, error) {
		return p.ProductRepository.GetByID(ctx, id)
	})
}

type locations struct {
	repository.LocationRepository
	c *Catalog
}

func (l *locations) GetByID(ctx context.Context, id string) (*entity.Location, error) {
	return cached(ctx, l.c, locationKey(id), func() (*entity.Location, error) {
		return l.LocationRepository.GetByID(ctx, id)
	})
}

// cached lee key; si falta o Redis falla consulta load y guarda el resultado. Los inexistentes no se guardan.
func cached[T any](ctx context.Context, c *Catalog, key string, load func() (*T, error)) (*T, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var v T
		if jerr := json.Unmarshal(raw, &v); jerr == nil {
			return &v, nil
		}
	case !errors.Is(err, redis.Nil):
		c.log.Debug().Err(err).Str("key", key).Msg("cache no disponible, leyendo de la base")
	}

	v, err := load()
	if err != nil || v == nil {
		return v, err
	}
	if data, jerr := json.Marshal(v); jerr == nil {
		if serr := c.client.Set(ctx, key, data, c.ttl).Err(); serr != nil {
			c.log.Debug().Err(serr).Str("key", key).Msg("no se pudo guardar en cache")
		}
	}
	return v, nil
}
