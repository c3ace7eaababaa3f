package domain

// OutcomeKind is the terminal state of one listing row.
type OutcomeKind int

const (
	// OutcomeEmitted means the row was fully extracted.
	OutcomeEmitted OutcomeKind = iota
	// OutcomeSkipped means the row had no valid tracking code.
	OutcomeSkipped
	// OutcomeFallback means extraction failed after the code was read.
	OutcomeFallback
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeEmitted:
		return "emitted"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeFallback:
		return "fallback"
	default:
		return "unknown"
	}
}

// RowOutcome is the result of processing one listing row.
type RowOutcome struct {
	Kind   OutcomeKind
	Record ShipmentRecord
	// Err is the extraction failure behind a fallback, or the reason a row was skipped.
	Err error
}

// Emitted wraps a fully extracted record.
func Emitted(rec ShipmentRecord) RowOutcome {
	return RowOutcome{Kind: OutcomeEmitted, Record: rec}
}

// Skipped marks a row that yields no record.
func Skipped(reason error) RowOutcome {
	return RowOutcome{Kind: OutcomeSkipped, Err: reason}
}

// Fallback wraps a record built from the data read before err occurred.
func Fallback(rec ShipmentRecord, err error) RowOutcome {
	return RowOutcome{Kind: OutcomeFallback, Record: rec, Err: err}
}

// ReduceOutcomes turns row outcomes into the listing's records, keeping row order.
func ReduceOutcomes(outcomes []RowOutcome) []ShipmentRecord {
	records := make([]ShipmentRecord, 0, len(outcomes))
	for _, o := range outcomes {
		if o.Kind == OutcomeSkipped {
			continue
		}
		records = append(records, o.Record)
	}
	return records
}
