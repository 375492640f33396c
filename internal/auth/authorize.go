package auth

import (
	"github.com/centrushr/hr-management/internal"
)

// Capability catalog. These ids come from the original system and are kept
// verbatim so stored permission sets remain meaningful; unknown ids simply
// never match.
const (
	CapEmployeeList      = "lista_funcionarios"
	CapEmployeeCreate    = "cadastro_funcionarios"
	CapEmployeeDocuments = "documentos_funcionarios"
	CapReports           = "relatorios"
	CapCompanyDocuments  = "documentos_empresa"
	CapTravelRequests    = "solicitacoes_viagem"
	CapTravelAttachments = "anexos_viagem"
	CapUserManagement    = "gerenciar_usuarios"
)

// Catalog returns the closed set of capability ids in display order.
func Catalog() []string {
	return []string{
		CapEmployeeList,
		CapEmployeeCreate,
		CapEmployeeDocuments,
		CapReports,
		CapCompanyDocuments,
		CapTravelRequests,
		CapTravelAttachments,
		CapUserManagement,
	}
}

// TravelAction is the finer-grained travel sub-model: three independent
// flags on User rather than generic capability ids.
type TravelAction int

const (
	TravelNone TravelAction = iota
	TravelCreate
	TravelApprove
	TravelDelete
)

// Requirement describes what an operation demands of the caller. Zero value
// means "any authenticated user".
type Requirement struct {
	AdminOnly  bool
	Capability string
	Travel     TravelAction
}

// HasCapability is the permission model's core predicate: admins hold every
// capability implicitly; everyone else needs set membership. A nil user
// never passes.
func HasCapability(u *User, capabilityID string) bool {
	if u == nil {
		return false
	}
	if u.Role == RoleAdmin {
		return true
	}
	for _, p := range u.Permissions {
		if p == capabilityID {
			return true
		}
	}
	return false
}

func canPerformTravel(u *User, action TravelAction) bool {
	switch action {
	case TravelCreate:
		return u.CanCreateTravel
	case TravelApprove:
		return u.CanApproveTravel
	case TravelDelete:
		return u.CanDeleteTravel
	default:
		return true
	}
}

// Authorize is the single access-control gate used by every mutating
// operation. Keeping the admin bypass here avoids the drift that comes
// from re-implementing it at call sites. The travel flags are checked
// before the bypass: they are a separate sub-model on the user, and an
// admin without a flag does not hold the action.
func Authorize(u *User, req Requirement) error {
	if u == nil {
		return internal.ErrForbidden
	}
	if req.Travel != TravelNone && !canPerformTravel(u, req.Travel) {
		return internal.ErrForbidden
	}
	if u.Role == RoleAdmin {
		return nil
	}
	if req.AdminOnly {
		return internal.ErrForbidden
	}
	if req.Capability != "" && !HasCapability(u, req.Capability) {
		return internal.ErrForbidden
	}
	return nil
}
