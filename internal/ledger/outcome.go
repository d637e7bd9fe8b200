package ledger

import "fmt"

// Outcome is the result of applying one record. Everything except Applied
// is a rejection: the record had no effect on any store.
type Outcome uint8

const (
	Applied Outcome = iota
	RejectedLocked
	RejectedInsufficientFunds
	RejectedDuplicateID
	RejectedUnknownTx
	RejectedClientMismatch
	RejectedAlreadyDisputed
	RejectedNotDisputed
	RejectedInvalidAmount
	RejectedOverflow
	RejectedUnknownKind
)

var outcomeNames = [...]string{
	Applied:                   "applied",
	RejectedLocked:            "account locked",
	RejectedInsufficientFunds: "insufficient funds",
	RejectedDuplicateID:       "duplicate transaction id",
	RejectedUnknownTx:         "unknown transaction",
	RejectedClientMismatch:    "client mismatch",
	RejectedAlreadyDisputed:   "already disputed",
	RejectedNotDisputed:       "not disputed",
	RejectedInvalidAmount:     "invalid amount",
	RejectedOverflow:          "balance overflow",
	RejectedUnknownKind:       "unknown kind",
}

func (o Outcome) String() string {
	if int(o) < len(outcomeNames) {
		return outcomeNames[o]
	}
	return fmt.Sprintf("outcome(%d)", uint8(o))
}

// Stats counts what happened to the records of a run.
type Stats struct {
	Processed int
	Applied   int
	Rejected  map[Outcome]int
}

func (s *Stats) record(o Outcome) {
	s.Processed++
	if o == Applied {
		s.Applied++
		return
	}
	if s.Rejected == nil {
		s.Rejected = make(map[Outcome]int)
	}
	s.Rejected[o]++
}

// RejectedTotal is the number of records that were ignored.
func (s Stats) RejectedTotal() int {
	return s.Processed - s.Applied
}

func (s Stats) clone() Stats {
	out := Stats{Processed: s.Processed, Applied: s.Applied}
	if len(s.Rejected) > 0 {
		out.Rejected = make(map[Outcome]int, len(s.Rejected))
		for k, v := range s.Rejected {
			out.Rejected[k] = v
		}
	}
	return out
}
