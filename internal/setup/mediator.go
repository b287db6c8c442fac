package setup

import (
	"github.com/The127/ioc"
	"github.com/The127/mediatr"
	"github.com/the127/keyv/internal/commands"
	"github.com/the127/keyv/internal/queries"
)

func Mediator(dc *ioc.DependencyCollection) {
	mediator := mediatr.NewMediator()

	mediatr.RegisterHandler(mediator, queries.HandleGetValue)
	mediatr.RegisterHandler(mediator, queries.HandleGetValues)

	mediatr.RegisterHandler(mediator, commands.HandleSetValue)
	mediatr.RegisterHandler(mediator, commands.HandleSetValues)
	mediatr.RegisterHandler(mediator, commands.HandleDeleteValue)
	mediatr.RegisterHandler(mediator, commands.HandleClearValues)

	ioc.RegisterSingleton(dc, func(_ *ioc.DependencyProvider) mediatr.Mediator {
		return mediator
	})
}
