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
	"bytes"
	"fmt"
	"io"

	"github.com/nativecql/corecql/primitive"
)

// TypeSpec is a column data type declaration as it appears in RESULT and
// PREPARED metadata. This package does not interpret the type it names; it
// only knows enough of the [option] grammar to find where one ends so that
// row data and subsequent columns can be framed correctly. Custom, list,
// set, map, tuple and UDT declarations carry nested structure, which is
// captured verbatim in Raw and replayed unchanged on re-encode.
type TypeSpec struct {
	Code primitive.DataTypeCode
	Raw  []byte
}

func ReadTypeSpec(source io.Reader) (*TypeSpec, error) {
	code, err := primitive.ReadShort(source)
	if err != nil {
		return nil, fmt.Errorf("cannot read data type code: %w", err)
	}
	typeCode := primitive.DataTypeCode(code)
	raw := &bytes.Buffer{}
	if err := copyTypeSpecTail(typeCode, source, raw); err != nil {
		return nil, fmt.Errorf("cannot read data type %v body: %w", typeCode, err)
	}
	return &TypeSpec{Code: typeCode, Raw: raw.Bytes()}, nil
}

func WriteTypeSpec(t *TypeSpec, dest io.Writer) error {
	if err := primitive.WriteShort(uint16(t.Code), dest); err != nil {
		return fmt.Errorf("cannot write data type code: %w", err)
	}
	if _, err := dest.Write(t.Raw); err != nil {
		return fmt.Errorf("cannot write data type %v body: %w", t.Code, err)
	}
	return nil
}

func LengthOfTypeSpec(t *TypeSpec) int {
	return primitive.LengthOfShort + len(t.Raw)
}

// copyTypeSpecTail reads whatever follows a type code and mirrors it into
// tee, without interpreting it beyond what's needed to know its length.
func copyTypeSpecTail(code primitive.DataTypeCode, source io.Reader, tee io.Writer) error {
	switch code {
	case primitive.DataTypeCodeCustom:
		return copyString(source, tee)
	case primitive.DataTypeCodeList, primitive.DataTypeCodeSet:
		return copyNestedTypeSpec(source, tee)
	case primitive.DataTypeCodeMap:
		if err := copyNestedTypeSpec(source, tee); err != nil {
			return err
		}
		return copyNestedTypeSpec(source, tee)
	case primitive.DataTypeCodeTuple:
		count, err := copyShort(source, tee)
		if err != nil {
			return err
		}
		for i := 0; i < int(count); i++ {
			if err := copyNestedTypeSpec(source, tee); err != nil {
				return err
			}
		}
		return nil
	case primitive.DataTypeCodeUdt:
		if err := copyString(source, tee); err != nil { // keyspace
			return err
		}
		if err := copyString(source, tee); err != nil { // udt name
			return err
		}
		count, err := copyShort(source, tee)
		if err != nil {
			return err
		}
		for i := 0; i < int(count); i++ {
			if err := copyString(source, tee); err != nil { // field name
				return err
			}
			if err := copyNestedTypeSpec(source, tee); err != nil {
				return err
			}
		}
		return nil
	default:
		// fixed-width primitive type: no additional bytes.
		return nil
	}
}

func copyNestedTypeSpec(source io.Reader, tee io.Writer) error {
	code, err := copyShort(source, tee)
	if err != nil {
		return err
	}
	return copyTypeSpecTail(primitive.DataTypeCode(code), source, tee)
}

func copyShort(source io.Reader, tee io.Writer) (uint16, error) {
	v, err := primitive.ReadShort(source)
	if err != nil {
		return 0, err
	}
	if err := primitive.WriteShort(v, tee); err != nil {
		return 0, err
	}
	return v, nil
}

func copyString(source io.Reader, tee io.Writer) error {
	s, err := primitive.ReadString(source)
	if err != nil {
		return err
	}
	return primitive.WriteString(s, tee)
}
