package mock

import (
	"context"
)

type connectorConfig struct {
	connectErr       error
	results          map[string]*Result
	queryErrors      map[string]error
	querySideEffects map[string]func(context.Context) error
}

type ConnectorOption func(*connectorConfig)

// ConnectorWithConnectError makes every Connect call fail with err.
func ConnectorWithConnectError(err error) ConnectorOption {
	return func(c *connectorConfig) {
		c.connectErr = err
	}
}

func ConnectorWithResult(query string, result *Result) ConnectorOption {
	return func(c *connectorConfig) {
		_, ok := c.results[query]
		if ok {
			panic("result already registered for query: " + query)
		}

		c.results[query] = result
	}
}

func ConnectorWithQueryError(query string, err error) ConnectorOption {
	return func(c *connectorConfig) {
		_, ok := c.queryErrors[query]
		if ok {
			panic("error already registered for query: " + query)
		}

		c.queryErrors[query] = err
	}
}

func ConnectorWithQuerySideEffect(query string, sideEffect func(context.Context) error) ConnectorOption {
	return func(c *connectorConfig) {
		_, ok := c.querySideEffects[query]
		if ok {
			panic("side effect already registered for query: " + query)
		}

		c.querySideEffects[query] = sideEffect
	}
}
