// Copyright 2012, Google Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

// Package sqltypes implements the SQL literal values that gravity renders
// into statement fragments.
//
// NOTE: This is a trimmed version of vitess's sqltypes module.  Only the
// literal encoding half survives; gravity never reads rows back.
package sqltypes

import (
	"encoding/hex"
	"io"
	"strconv"
	"time"

	"github.com/gravitydb/gravity/errors"
)

var (
	NULL       = Value{}
	DONTESCAPE = byte(255)
	nullstr    = []byte("NULL")
)

// DateTimeFormat is used for time.Time literals without sub-second part.
const DateTimeFormat = "2006-01-02 15:04:05"

// DateTimeMicroFormat is used for time.Time literals with a sub-second part.
const DateTimeMicroFormat = "2006-01-02 15:04:05.000000"

// Writer is the sink EncodeSql writes into.  *bytes.Buffer and
// *strings.Builder both satisfy it.
type Writer interface {
	io.Writer
	io.ByteWriter
}

// Value can store any SQL value. NULL is stored as nil.
type Value struct {
	Inner InnerValue
}

// Numeric represents non-fractional SQL number.
type Numeric []byte

// Fractional represents fractional types like float and decimal
// It's functionally equivalent to Numeric other than how it's constructed
type Fractional []byte

// String represents any SQL type that needs to be represented using quotes.
// If isUtf8 is false, it will be hex encoded.
type String struct {
	data   []byte
	isUtf8 bool
}

// InnerValue defines methods that need to be supported by all non-null value
// types.
type InnerValue interface {
	raw() []byte
	encodeSql(Writer)
}

// MakeNumeric makes a Numeric from a []byte without validation.
func MakeNumeric(b []byte) Value {
	return Value{Numeric(b)}
}

// MakeFractional makes a Fractional value from a []byte without validation.
func MakeFractional(b []byte) Value {
	return Value{Fractional(b)}
}

// MakeString makes a binary String value from a []byte.
func MakeString(b []byte) Value {
	return Value{String{b, false}}
}

// MakeUtf8String makes a String value from a string.
func MakeUtf8String(s string) Value {
	return Value{String{[]byte(s), true}}
}

// Raw returns the raw bytes. All types are currently implemented as []byte.
func (v Value) Raw() []byte {
	if v.Inner == nil {
		return nil
	}
	return v.Inner.raw()
}

// String returns the raw value as a string
func (v Value) String() string {
	if v.Inner == nil {
		return ""
	}
	return string(v.Inner.raw())
}

// EncodeSql encodes the value as a MySQL literal.
func (v Value) EncodeSql(b Writer) {
	if v.Inner == nil {
		if _, err := b.Write(nullstr); err != nil {
			panic(err)
		}
	} else {
		v.Inner.encodeSql(b)
	}
}

func (v Value) IsNull() bool {
	return v.Inner == nil
}

func (v Value) IsNumeric() (ok bool) {
	if v.Inner != nil {
		_, ok = v.Inner.(Numeric)
	}
	return ok
}

func (v Value) IsFractional() (ok bool) {
	if v.Inner != nil {
		_, ok = v.Inner.(Fractional)
	}
	return ok
}

func (v Value) IsString() (ok bool) {
	if v.Inner != nil {
		_, ok = v.Inner.(String)
	}
	return ok
}

func (v Value) IsUtf8String() (ok bool) {
	if v.Inner != nil {
		var s String
		s, ok = v.Inner.(String)
		ok = ok && s.isUtf8
	}
	return ok
}

// BuildValue converts a go value into its SQL literal representation.
func BuildValue(goval interface{}) (v Value, err error) {
	switch bindVal := goval.(type) {
	case nil:
		// no op
	case bool:
		val := 0
		if bindVal {
			val = 1
		}
		v = MakeNumeric(strconv.AppendInt(nil, int64(val), 10))
	case int:
		v = MakeNumeric(strconv.AppendInt(nil, int64(bindVal), 10))
	case int8:
		v = MakeNumeric(strconv.AppendInt(nil, int64(bindVal), 10))
	case int16:
		v = MakeNumeric(strconv.AppendInt(nil, int64(bindVal), 10))
	case int32:
		v = MakeNumeric(strconv.AppendInt(nil, int64(bindVal), 10))
	case int64:
		v = MakeNumeric(strconv.AppendInt(nil, bindVal, 10))
	case uint:
		v = MakeNumeric(strconv.AppendUint(nil, uint64(bindVal), 10))
	case uint8:
		v = MakeNumeric(strconv.AppendUint(nil, uint64(bindVal), 10))
	case uint16:
		v = MakeNumeric(strconv.AppendUint(nil, uint64(bindVal), 10))
	case uint32:
		v = MakeNumeric(strconv.AppendUint(nil, uint64(bindVal), 10))
	case uint64:
		v = MakeNumeric(strconv.AppendUint(nil, bindVal, 10))
	case float32:
		v = MakeFractional(strconv.AppendFloat(nil, float64(bindVal), 'f', -1, 32))
	case float64:
		v = MakeFractional(strconv.AppendFloat(nil, bindVal, 'f', -1, 64))
	case string:
		v = Value{String{[]byte(bindVal), true}}
	case []byte:
		v = Value{String{bindVal, false}}
	case time.Time:
		layout := DateTimeFormat
		if bindVal.Nanosecond() != 0 {
			layout = DateTimeMicroFormat
		}
		v = Value{String{[]byte(bindVal.Format(layout)), true}}
	case Numeric, Fractional, String:
		v = Value{bindVal.(InnerValue)}
	case Value:
		v = bindVal
	default:
		return Value{}, errors.Newf("Unsupported literal type %T: %v", goval, goval)
	}
	return v, nil
}

// BuildNumeric builds a Numeric type that represents any whole number.
// It normalizes the representation to ensure 1:1 mapping between the
// number and its representation.
func BuildNumeric(val string) (n Value, err error) {
	if val == "" {
		return Value{}, errors.New("Empty numeric literal")
	}
	if val[0] == '-' || val[0] == '+' {
		signed, err := strconv.ParseInt(val, 0, 64)
		if err != nil {
			return Value{}, errors.Wrapf(err, "Invalid numeric literal %q", val)
		}
		n = MakeNumeric(strconv.AppendInt(nil, signed, 10))
	} else {
		unsigned, err := strconv.ParseUint(val, 0, 64)
		if err != nil {
			return Value{}, errors.Wrapf(err, "Invalid numeric literal %q", val)
		}
		n = MakeNumeric(strconv.AppendUint(nil, unsigned, 10))
	}
	return n, nil
}

func (n Numeric) raw() []byte {
	return []byte(n)
}

func (n Numeric) encodeSql(b Writer) {
	if _, err := b.Write(n.raw()); err != nil {
		panic(err)
	}
}

func (f Fractional) raw() []byte {
	return []byte(f)
}

func (f Fractional) encodeSql(b Writer) {
	if _, err := b.Write(f.raw()); err != nil {
		panic(err)
	}
}

func (s String) raw() []byte {
	return []byte(s.data)
}

func (s String) encodeSql(b Writer) {
	if !s.isUtf8 {
		if _, err := b.Write([]byte("X'")); err != nil {
			panic(err)
		}
		if _, err := hex.NewEncoder(b).Write(s.raw()); err != nil {
			panic(err)
		}
		writebyte(b, '\'')
		return
	}

	writebyte(b, '\'')
	rawBytes := s.raw()
	for i, ch := range rawBytes {
		if encodedChar := SqlEncodeMap[ch]; encodedChar == DONTESCAPE {
			writebyte(b, ch)
		} else if i < len(rawBytes)-1 && '\\' == ch && ('%' == rawBytes[i+1] || '_' == rawBytes[i+1]) {
			// '\%' and '\_' are LIKE escapes and stay as they are. See the
			// notes following table 9.1 in
			// http://dev.mysql.com/doc/refman/5.7/en/string-literals.html
			writebyte(b, ch)
		} else {
			writebyte(b, '\\')
			writebyte(b, encodedChar)
		}
	}
	writebyte(b, '\'')
}

func writebyte(b Writer, c byte) {
	if err := b.WriteByte(c); err != nil {
		panic(err)
	}
}

// SqlEncodeMap specifies how to escape binary data with '\'.
// Complies to http://dev.mysql.com/doc/refman/5.1/en/string-syntax.html
var SqlEncodeMap [256]byte

var encodeRef = map[byte]byte{
	'\x00': '0',
	'\'':   '\'',
	'"':    '"',
	'\b':   'b',
	'\n':   'n',
	'\r':   'r',
	'\t':   't',
	26:     'Z', // ctl-Z
	'\\':   '\\',
}

func init() {
	for i := range SqlEncodeMap {
		SqlEncodeMap[i] = DONTESCAPE
	}
	for from, to := range encodeRef {
		SqlEncodeMap[from] = to
	}
}
