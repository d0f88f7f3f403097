package dedup

import (
	"fmt"

	"github.com/extracto-dev/extracto/internal/model"
)

// ValidationError describes a stored record that breaks key uniqueness.
type ValidationError struct {
	Index int
	UUID  string
	First int // index of the earlier record holding the same key
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("transaction %d [%s]: duplicate of transaction %d", e.Index, e.UUID, e.First)
}

// Validate checks that no two keyed records in txns share an identity key.
// Keyless legacy records are ignored.
func Validate(txns []model.Transaction) []ValidationError {
	var errs []ValidationError
	first := make(map[string]int, len(txns))
	for i, t := range txns {
		if t.UUID == "" {
			continue
		}
		if j, ok := first[t.UUID]; ok {
			errs = append(errs, ValidationError{Index: i, UUID: t.UUID, First: j})
			continue
		}
		first[t.UUID] = i
	}
	return errs
}
