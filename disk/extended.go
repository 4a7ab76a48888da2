package disk

// Value is the record callers exchange with the disk tier: a payload
// plus an optional extended-data side-channel. The source attaches
// extended data to an in-memory object via a runtime-wide
// object-identity side table; Go has no equivalent, so the facade asks
// callers to carry the extended bytes explicitly in this record
// instead of threading them through identity.
type Value struct {
	Payload  []byte
	Extended []byte
}

// GetExtendedData returns v's extended data, or (nil, false) if none is
// set. It exists for API-surface parity with the disk cache's static
// helper pair; v.Extended is equally accessible directly.
func GetExtendedData(v *Value) ([]byte, bool) {
	if v == nil || len(v.Extended) == 0 {
		return nil, false
	}
	return v.Extended, true
}

// SetExtendedData attaches data to v.
func SetExtendedData(v *Value, data []byte) {
	v.Extended = data
}
