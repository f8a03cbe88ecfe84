package llm

import "context"

// Middleware wraps a Client with additional behavior. Middlewares are
// composed with Chain to form a processing pipeline.
type Middleware func(next Client) Client

// clientFunc adapts plain functions to the Client interface.
type clientFunc struct {
	query     func(context.Context, string) (Response, error)
	modelName func() string
}

func (f clientFunc) Query(ctx context.Context, prompt string) (Response, error) {
	return f.query(ctx, prompt)
}

func (f clientFunc) ModelName() string {
	return f.modelName()
}

// WrapClient creates a Client from the provided function implementations.
// Helper for middleware implementations.
func WrapClient(
	query func(context.Context, string) (Response, error),
	modelName func() string,
) Client {
	return clientFunc{
		query:     query,
		modelName: modelName,
	}
}

// Chain composes middlewares around a base Client. Middlewares are applied
// in order, with earlier middlewares outermost:
//
//	Chain(client, mw1, mw2) creates the call stack mw1 -> mw2 -> client
func Chain(base Client, middlewares ...Middleware) Client {
	client := base
	for i := len(middlewares) - 1; i >= 0; i-- {
		client = middlewares[i](client)
	}
	return client
}
