package usecase

import "go.uber.org/fx"

// Module provides invoice use cases to the fx container.
var Module = fx.Provide(
	NewInvoiceUseCase,
)
