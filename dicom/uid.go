package dicom

import (
	"math/big"

	"github.com/google/uuid"
)

// NewUID generates a DICOM UID under the UUID-derived "2.25" root
// (PS3.5 B.2): the decimal value of a random 128-bit UUID.
func NewUID() string {
	u := uuid.New()
	return "2.25." + new(big.Int).SetBytes(u[:]).String()
}
