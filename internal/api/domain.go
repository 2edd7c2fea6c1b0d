package api

import (
	"github.com/JaimeStill/warden/internal/audit"
	"github.com/JaimeStill/warden/internal/classifications"
	"github.com/JaimeStill/warden/internal/conformity"
	"github.com/JaimeStill/warden/internal/documents"
	"github.com/JaimeStill/warden/internal/obligations"
	"github.com/JaimeStill/warden/internal/systems"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Systems         systems.System
	Classifications classifications.System
	Obligations     obligations.System
	Documents       documents.System
	Conformity      conformity.System
	Audit           audit.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	db := runtime.Database.Connection()

	systemsSystem := systems.New(
		db,
		runtime.Audit,
		runtime.Logger,
		runtime.Pagination,
	)

	obligationsSystem := obligations.New(
		db,
		systemsSystem,
		runtime.Audit,
		runtime.Logger,
		runtime.Pagination,
	)

	classificationsSystem := classifications.New(
		db,
		systemsSystem,
		runtime.Audit,
		runtime.Metrics,
		runtime.DefaultActor,
		runtime.Logger,
		runtime.Pagination,
	)

	docsSystem := documents.New(
		db,
		runtime.Storage,
		systemsSystem,
		classificationsSystem,
		runtime.Audit,
		runtime.Logger,
		runtime.Pagination,
	)

	return &Domain{
		Systems:         systemsSystem,
		Classifications: classificationsSystem,
		Obligations:     obligationsSystem,
		Documents:       docsSystem,
		Conformity:      conformity.New(db, runtime.Audit, runtime.Logger, runtime.Pagination),
		Audit:           audit.New(db, runtime.Logger, runtime.Pagination),
	}
}
