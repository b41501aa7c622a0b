package entity

import "time"

// Roles válidos para User.
const (
	RoleAdministrador = "administrador"
	RoleCajero        = "cajero"
)

// User representa un usuario del sistema.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // administrador, cajero
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
