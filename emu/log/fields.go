package log

import (
	"encoding/hex"
	"fmt"
	"strconv"
)

type FieldType uint8

const (
	FieldTypeUnknown FieldType = iota
	FieldTypeString
	FieldTypeHex8
	FieldTypeHex16
	FieldTypeInt
	FieldTypeError
	FieldTypeStringer
	FieldTypeBytes
)

// ZField is a typed log field, its value is only formatted when the entry is
// emitted.
type ZField struct {
	Type FieldType
	Key  string

	// Only the value matching Type is set.
	String    string
	Integer   int64
	Error     error
	Interface fmt.Stringer
	Bytes     []byte
}

func (f *ZField) Value() string {
	switch f.Type {
	case FieldTypeString:
		return f.String
	case FieldTypeInt:
		return strconv.FormatInt(f.Integer, 10)
	case FieldTypeHex8:
		return fmt.Sprintf("%02x", f.Integer)
	case FieldTypeHex16:
		return fmt.Sprintf("%04x", f.Integer)
	case FieldTypeError:
		if f.Error == nil {
			return "<nil>"
		}
		return f.Error.Error()
	case FieldTypeStringer:
		return f.Interface.String()
	case FieldTypeBytes:
		return hex.EncodeToString(f.Bytes)
	}
	return ""
}
