package domain

import "errors"

// Record is one provider-native result, as decoded from the vendor's JSON.
type Record = map[string]any

type OutcomeKind string

const (
	OutcomeSuccess        OutcomeKind = "success"
	OutcomeEmpty          OutcomeKind = "empty"
	OutcomeTransportError OutcomeKind = "transport_error"
	OutcomeConfigError    OutcomeKind = "config_error"
)

// Outcome is what an adapter reports instead of returning an error.
type Outcome struct {
	Kind    OutcomeKind
	Records []Record
	Err     error
}

// Success reports records; an empty slice is reported as Empty.
func Success(recs []Record) Outcome {
	if len(recs) == 0 {
		return Empty()
	}
	return Outcome{Kind: OutcomeSuccess, Records: recs}
}

func Empty() Outcome { return Outcome{Kind: OutcomeEmpty} }

func TransportError(err error) Outcome { return Outcome{Kind: OutcomeTransportError, Err: err} }

func ConfigError(err error) Outcome { return Outcome{Kind: OutcomeConfigError, Err: err} }

// OutcomeFromError classifies a failure at the adapter boundary.
func OutcomeFromError(err error) Outcome {
	if errors.Is(err, ErrMissingCredentials) {
		return ConfigError(err)
	}
	return TransportError(err)
}

// Detail is the error text, or "" on success.
func (o Outcome) Detail() string {
	if o.Err == nil {
		return ""
	}
	return o.Err.Error()
}
