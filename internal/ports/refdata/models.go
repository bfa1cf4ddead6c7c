package refdata

import "time"

// Species define las especies que maneja la guardería.
// @Enum Dog, Cat
type Species string

const (
	SpeciesDog Species = "Dog"
	SpeciesCat Species = "Cat"
)

// NormalizeSpecies centraliza el default histórico: registros viejos
// sin especie se tratan como perro.
func NormalizeSpecies(s string) Species {
	if s == string(SpeciesCat) {
		return SpeciesCat
	}
	return SpeciesDog
}

// Client es el dueño registrado en el sistema externo de clientes.
// Solo lectura desde este servicio.
type Client struct {
	ID    string
	Name  string
	Phone string
	Email string
}

// Animal es el perfil de la mascota en el registro externo.
// Solo lectura desde este servicio.
type Animal struct {
	ID       string
	ClientID string

	Name    string
	Species Species

	Food        string
	Medications string
	Notes       string

	RabiesExpiration *time.Time
}
