// Package query filters, searches and summarizes survey members. It reads
// through a Source, normally a *survey.Repository, and never writes.
package query

import (
	"github.com/mesh-intelligence/census/pkg/types"
)

// Source is the read side of the survey repository.
type Source interface {
	ListVillages() ([]*types.Village, error)
	ListHouses() ([]*types.House, error)
	ListMembers() ([]*types.Member, error)
	HousesByVillage(villageID int64) ([]*types.House, error)
}

// Engine answers member queries against a Source.
type Engine struct {
	src Source
}

// New returns an Engine reading from src.
func New(src Source) *Engine {
	return &Engine{src: src}
}
