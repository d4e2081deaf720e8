package graph

import (
	"errors"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j/db"
)

// ErrorKind buckets graph-store failures so the loader can log each class
// distinctly and decide whether a chunk is retriable by replay.
type ErrorKind int

const (
	// KindConstraint: the store rejected a write on a uniqueness/schema
	// constraint. The chunk is abandoned, the operation continues.
	KindConstraint ErrorKind = iota
	// KindStore: a transactional or connectivity fault reported by the
	// store with its own code/message.
	KindStore
	// KindOther: anything else.
	KindOther
)

func (k ErrorKind) String() string {
	switch k {
	case KindConstraint:
		return "constraint"
	case KindStore:
		return "store"
	default:
		return "other"
	}
}

// Classify inspects err and returns its kind plus the store-provided code
// when one exists.
func Classify(err error) (ErrorKind, string) {
	var ne *db.Neo4jError
	if errors.As(err, &ne) {
		if strings.Contains(ne.Code, "ConstraintValidationFailed") || strings.Contains(ne.Code, ".Schema.") {
			return KindConstraint, ne.Code
		}
		return KindStore, ne.Code
	}
	return KindOther, ""
}
