// Package authz implementa la política de acceso por rol del punto de venta.
// El núcleo (ledger y coordinador de ventas) la consume solo a través de la
// interfaz Policy; las reglas concretas viven aquí.
package authz

import "github.com/tu-usuario/pos-backend/internal/domain/entity"

// Operaciones conocidas por la política.
const (
	OpVentasCrear          = "ventas.crear"
	OpVentasCancelar       = "ventas.cancelar"
	OpVentasVer            = "ventas.ver"
	OpInventarioMovimiento = "inventario.movimiento" // entrada / salida manual
	OpInventarioAjuste     = "inventario.ajuste"     // fijación absoluta de stock
	OpInventarioConsultar  = "inventario.consultar"
	OpProductosCrear       = "productos.crear"
	OpProductosEditar      = "productos.editar"
	OpProductosEliminar    = "productos.eliminar"
	OpCategoriasEditar     = "categorias.editar"
	OpClientesCrear        = "clientes.crear"
	OpClientesEditar       = "clientes.editar"
	OpClientesEliminar     = "clientes.eliminar"
	OpUsuariosCrear        = "usuarios.crear"
)

// Policy decide si un rol puede invocar una operación.
type Policy interface {
	May(role, operation string) bool
}

// CajeroCustomerFields campos de cliente que un cajero puede modificar en una
// actualización parcial. Cualquier otro campo requiere administrador.
var CajeroCustomerFields = map[string]bool{
	"nombre":   true,
	"apellido": true,
	"telefono": true,
	"email":    true,
}

// RolePolicy política por tabla rol→operación. El administrador tiene todas
// las operaciones; el cajero solo las listadas.
type RolePolicy struct {
	cajeroOps map[string]bool
}

// NewRolePolicy construye la política por defecto del sistema.
func NewRolePolicy() *RolePolicy {
	return &RolePolicy{
		cajeroOps: map[string]bool{
			OpVentasCrear:          true,
			OpVentasCancelar:       true, // solo sus propias ventas; el coordinador valida la pertenencia
			OpVentasVer:            true,
			OpInventarioMovimiento: true,
			OpInventarioConsultar:  true,
			OpClientesCrear:        true,
			OpClientesEditar:       true, // limitado a CajeroCustomerFields
		},
	}
}

// May implementa Policy.
func (p *RolePolicy) May(role, operation string) bool {
	switch role {
	case entity.RoleAdministrador:
		return true
	case entity.RoleCajero:
		return p.cajeroOps[operation]
	default:
		return false
	}
}
