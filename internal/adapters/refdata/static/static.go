package static

import (
	"context"
	"sync"

	"kennel-ops/internal/ports/refdata"
)

// Accessor sirve clientes y animales desde memoria. Es el directorio
// por defecto cuando no hay un servicio de referencia externo; el
// mostrador carga los datos al arrancar (seed) o vía Put.
type Accessor struct {
	mu      sync.RWMutex
	clients map[string]refdata.Client
	animals map[string]refdata.Animal
}

func New() *Accessor {
	return &Accessor{
		clients: make(map[string]refdata.Client),
		animals: make(map[string]refdata.Animal),
	}
}

// Seed carga un lote inicial. Pensado para main y para tests.
func (a *Accessor) Seed(clients []refdata.Client, animals []refdata.Animal) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, c := range clients {
		a.clients[c.ID] = c
	}
	for _, an := range animals {
		an.Species = refdata.NormalizeSpecies(string(an.Species))
		a.animals[an.ID] = an
	}
}

func (a *Accessor) PutClient(c refdata.Client) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.clients[c.ID] = c
}

func (a *Accessor) PutAnimal(an refdata.Animal) {
	a.mu.Lock()
	defer a.mu.Unlock()
	an.Species = refdata.NormalizeSpecies(string(an.Species))
	a.animals[an.ID] = an
}

func (a *Accessor) ClientByID(ctx context.Context, id string) (refdata.Client, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	c, ok := a.clients[id]
	if !ok {
		return refdata.Client{}, refdata.ErrNotFound
	}
	return c, nil
}

func (a *Accessor) AnimalByID(ctx context.Context, id string) (refdata.Animal, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	an, ok := a.animals[id]
	if !ok {
		return refdata.Animal{}, refdata.ErrNotFound
	}
	return an, nil
}
