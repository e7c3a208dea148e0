package mindmap

import (
	"github.com/daper-app/daper/pkg/flows"
	"github.com/daper-app/daper/pkg/repository"
)

// UseCase provides mind-map generation and tree mutations. Every mutation is
// a read-modify-write of the whole tree inside a single idea transaction, so
// two overlapping edits to the same idea cannot silently lose one update.
//
// Node identity is by title string, not a stable ID: add and expand address
// the parent by its title, edit and delete address the node by a ">"-joined
// root-to-node title path. An ambiguous title resolves to the first match in
// depth-first document order; this is inherited behavior the clients rely on.
type UseCase struct {
	repo  repository.Repository
	flows flows.Flows
}

// New creates a new mindmap UseCase instance
func New(repo repository.Repository, genFlows flows.Flows) *UseCase {
	return &UseCase{
		repo:  repo,
		flows: genFlows,
	}
}
