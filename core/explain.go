package core

import "strconv"

// Explainer receives extra EXPLAIN output, one property at a time.
type Explainer interface {
	Property(key, value string)
}

// ExplainProperty is a single line of EXPLAIN output.
type ExplainProperty struct {
	Key   string
	Value string
}

// ExplainList collects properties in order.
type ExplainList []ExplainProperty

func (l *ExplainList) Property(key, value string) {
	*l = append(*l, ExplainProperty{Key: key, Value: value})
}

// Get returns the value of the first property with key.
func (l ExplainList) Get(key string) (string, bool) {
	for _, p := range l {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// explainScan describes the startup cost tier and the remote query. Nothing
// is reported unless costs are requested.
func explainScan(e Explainer, opts *RemoteOptions, query string, costs bool) {
	if !costs {
		return
	}

	startup, tier := StartupCost(opts)
	if tier == CostTierLocal {
		e.Property("Local server startup cost", strconv.FormatFloat(float64(startup), 'f', -1, 64))
	} else {
		e.Property("Remote server startup cost", strconv.FormatFloat(float64(startup), 'f', -1, 64))
	}
	e.Property("MySQL query", query)
}
