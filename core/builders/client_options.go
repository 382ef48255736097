package builders

import "strings"

type clientConfig struct {
	typeProcessors map[string]func(any) []byte
}

type ClientOption func(*clientConfig)

// WithCustomTypeProcessor renders values of the given remote type (as
// reported by the driver's DatabaseTypeName) into raw field bytes. The
// first processor registered for a type wins.
func WithCustomTypeProcessor(typ string, fn func(any) []byte) ClientOption {
	return func(cc *clientConfig) {
		t := strings.ToLower(typ)
		if _, ok := cc.typeProcessors[t]; ok {
			return
		}

		cc.typeProcessors[t] = fn
	}
}
