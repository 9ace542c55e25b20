// Copyright 2020 DataStax
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package protocol

import (
	"errors"
	"fmt"
	"io"

	"github.com/nativecql/corecql/primitive"
)

// ValueType distinguishes a regular [bytes] value from the two special
// lengths the protocol reserves for bind markers: NULL (-1) and, from
// protocol version 4 onwards, "not set" (-2), meaning the server should
// keep whatever value is already bound for that marker.
type ValueType int8

const (
	ValueTypeRegular ValueType = iota
	ValueTypeNull
	ValueTypeUnset
)

// Value is a single bound value, already serialized by the caller; this
// package never interprets its Contents.
type Value struct {
	Type     ValueType
	Contents []byte
}

func NewValue(contents []byte) *Value {
	return &Value{Type: ValueTypeRegular, Contents: contents}
}

var NullValue = &Value{Type: ValueTypeNull}
var UnsetValue = &Value{Type: ValueTypeUnset}

func WriteValue(v *Value, dest io.Writer, version primitive.ProtocolVersion) error {
	if v == nil {
		return primitive.WriteInt(-1, dest)
	}
	switch v.Type {
	case ValueTypeNull:
		return primitive.WriteInt(-1, dest)
	case ValueTypeUnset:
		if version < primitive.ProtocolVersion4 {
			return errors.New("cannot write unset value: not supported before protocol version 4")
		}
		return primitive.WriteInt(-2, dest)
	default:
		return primitive.WriteBytes(v.Contents, dest)
	}
}

func LengthOfValue(v *Value) int {
	if v == nil || v.Type != ValueTypeRegular {
		return primitive.LengthOfInt
	}
	return primitive.LengthOfBytes(v.Contents)
}

func ReadValue(source io.Reader, version primitive.ProtocolVersion) (*Value, error) {
	length, err := primitive.ReadInt(source)
	if err != nil {
		return nil, fmt.Errorf("cannot read [value] length: %w", err)
	}
	switch {
	case length == -1:
		return NullValue, nil
	case length == -2:
		if version < primitive.ProtocolVersion4 {
			return nil, errors.New("cannot read unset value: not supported before protocol version 4")
		}
		return UnsetValue, nil
	case length < -2:
		return nil, fmt.Errorf("invalid [value] length: %d", length)
	default:
		contents := make([]byte, length)
		if n, err := io.ReadFull(source, contents); err != nil {
			return nil, fmt.Errorf("cannot read [value] contents: %w", err)
		} else if n != int(length) {
			return nil, errors.New("not enough bytes to read [value] contents")
		}
		return NewValue(contents), nil
	}
}

func WritePositionalValues(values []*Value, dest io.Writer, version primitive.ProtocolVersion) error {
	if err := primitive.WriteShort(uint16(len(values)), dest); err != nil {
		return fmt.Errorf("cannot write [value]s length: %w", err)
	}
	for i, v := range values {
		if err := WriteValue(v, dest, version); err != nil {
			return fmt.Errorf("cannot write [value] %d: %w", i, err)
		}
	}
	return nil
}

func LengthOfPositionalValues(values []*Value) int {
	length := primitive.LengthOfShort
	for _, v := range values {
		length += LengthOfValue(v)
	}
	return length
}

func ReadPositionalValues(source io.Reader, version primitive.ProtocolVersion) ([]*Value, error) {
	n, err := primitive.ReadShort(source)
	if err != nil {
		return nil, fmt.Errorf("cannot read [value]s length: %w", err)
	}
	values := make([]*Value, n)
	for i := 0; i < int(n); i++ {
		if values[i], err = ReadValue(source, version); err != nil {
			return nil, fmt.Errorf("cannot read [value] %d: %w", i, err)
		}
	}
	return values, nil
}

func WriteNamedValues(values map[string]*Value, dest io.Writer, version primitive.ProtocolVersion) error {
	if err := primitive.WriteShort(uint16(len(values)), dest); err != nil {
		return fmt.Errorf("cannot write named [value]s length: %w", err)
	}
	for name, v := range values {
		if err := primitive.WriteString(name, dest); err != nil {
			return fmt.Errorf("cannot write named [value] name %q: %w", name, err)
		}
		if err := WriteValue(v, dest, version); err != nil {
			return fmt.Errorf("cannot write named [value] %q: %w", name, err)
		}
	}
	return nil
}

func LengthOfNamedValues(values map[string]*Value) int {
	length := primitive.LengthOfShort
	for name, v := range values {
		length += primitive.LengthOfString(name)
		length += LengthOfValue(v)
	}
	return length
}

// CloneValuesSlice deep-clones a slice of positional values, including their contents.
func CloneValuesSlice(values []*Value) []*Value {
	if values == nil {
		return nil
	}
	cloned := make([]*Value, len(values))
	for i, v := range values {
		if v == nil {
			continue
		}
		cloned[i] = &Value{Type: v.Type, Contents: primitive.CloneByteSlice(v.Contents)}
	}
	return cloned
}

func ReadNamedValues(source io.Reader, version primitive.ProtocolVersion) (map[string]*Value, error) {
	n, err := primitive.ReadShort(source)
	if err != nil {
		return nil, fmt.Errorf("cannot read named [value]s length: %w", err)
	}
	values := make(map[string]*Value, n)
	for i := 0; i < int(n); i++ {
		name, err := primitive.ReadString(source)
		if err != nil {
			return nil, fmt.Errorf("cannot read named [value] name %d: %w", i, err)
		}
		if values[name], err = ReadValue(source, version); err != nil {
			return nil, fmt.Errorf("cannot read named [value] %q: %w", name, err)
		}
	}
	return values, nil
}
