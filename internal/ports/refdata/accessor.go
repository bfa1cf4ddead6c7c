package refdata

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("refdata: not found")

// Accessor resuelve clientes y animales contra el registro externo.
// El core nunca muta estos datos; solo los consulta para denormalizar
// nombres y para el reporte de vacunación.
type Accessor interface {
	ClientByID(ctx context.Context, id string) (Client, error)
	AnimalByID(ctx context.Context, id string) (Animal, error)
}
