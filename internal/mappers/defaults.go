package mappers

import (
	"github.com/goliatone/go-cms-content/internal/metadata"
	"github.com/goliatone/go-cms-content/pkg/interfaces"
)

// Dependencies are the collaborators of the default mapper chain.
type Dependencies struct {
	Structures       metadata.StructureFactory
	Contacts         ContactFactory
	Tags             TagFactory
	Categories       CategoryFactory
	Routes           RouteManager
	PathGenerator    PathGenerator
	DefaultWebspace  string
	DefaultTemplates map[string]string
	Logger           interfaces.Logger
}

// NewDefaultChain wires the built-in mappers. Routing runs last so that no
// route is written for input another mapper rejects.
func NewDefaultChain(deps Dependencies) *Chain {
	return NewChain(deps.Logger,
		NewTemplateMapper(deps.Structures, deps.DefaultTemplates),
		NewWebspaceMapper(deps.DefaultWebspace),
		NewAuthorMapper(deps.Contacts),
		NewExcerptMapper(deps.Tags, deps.Categories),
		NewSeoMapper(),
		NewRoutableMapper(deps.Structures, deps.Routes,
			WithPathGenerator(deps.PathGenerator),
			WithDefaultTemplates(deps.DefaultTemplates),
			WithRoutableLogger(deps.Logger),
		),
	)
}
