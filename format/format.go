package format

import (
	"github.com/dhamidi/mf2/datamodel"
)

// Encoder serializes a parsed message.
type Encoder interface {
	Encode(msg *datamodel.Message) error
}
