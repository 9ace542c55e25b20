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
	"fmt"
	"io"

	"github.com/nativecql/corecql/primitive"
)

// ColumnMetadata describes one column in a PreparedResult or RowsResult.
// Type is captured opaquely: this package frames it but never interprets it.
type ColumnMetadata struct {
	Keyspace string
	Table    string
	Name     string
	Index    int32
	Type     *TypeSpec
}

// VariablesMetadata describes a prepared statement's bound variables.
type VariablesMetadata struct {
	// Indices of variables belonging to the table's partition key. Valid from protocol version 4 onwards.
	PkIndices []uint16
	Columns   []*ColumnMetadata
}

func (rm *VariablesMetadata) Flags() (flag primitive.VariablesFlag) {
	if len(rm.Columns) > 0 && haveSameTable(rm.Columns) {
		flag |= primitive.VariablesFlagGlobalTablesSpec
	}
	return flag
}

// RowsMetadata describes the result set of a RowsResult, or the result set a
// prepared SELECT will eventually produce.
type RowsMetadata struct {
	// Always present, even when Columns is nil. If Columns is non-nil, ColumnCount must match len(Columns).
	ColumnCount int32
	// If non-nil, this page is not the last one.
	PagingState []byte
	// Valid for protocol version 5 only.
	NewResultMetadataId []byte
	// If nil, the NO_METADATA flag is set.
	Columns []*ColumnMetadata
}

func (rm *RowsMetadata) Flags() (flag primitive.RowsFlag) {
	if len(rm.Columns) == 0 {
		flag |= primitive.RowsFlagNoMetadata
	} else if haveSameTable(rm.Columns) {
		flag |= primitive.RowsFlagGlobalTablesSpec
	}
	if rm.PagingState != nil {
		flag |= primitive.RowsFlagHasMorePages
	}
	if rm.NewResultMetadataId != nil {
		flag |= primitive.RowsFlagMetadataChanged
	}
	return flag
}

func encodeVariablesMetadata(metadata *VariablesMetadata, dest io.Writer, version primitive.ProtocolVersion) (err error) {
	if metadata == nil {
		metadata = &VariablesMetadata{}
	}
	flags := metadata.Flags()
	if err = primitive.WriteInt(int32(flags), dest); err != nil {
		return fmt.Errorf("cannot write variables metadata flags: %w", err)
	}
	if err = primitive.WriteInt(int32(len(metadata.Columns)), dest); err != nil {
		return fmt.Errorf("cannot write variables metadata column count: %w", err)
	}
	if version >= primitive.ProtocolVersion4 {
		if err = primitive.WriteInt(int32(len(metadata.PkIndices)), dest); err != nil {
			return fmt.Errorf("cannot write variables metadata pk indices length: %w", err)
		}
		for i, idx := range metadata.PkIndices {
			if err = primitive.WriteShort(idx, dest); err != nil {
				return fmt.Errorf("cannot write variables metadata pk index %d: %w", i, err)
			}
		}
	}
	if len(metadata.Columns) > 0 {
		globalTableSpec := flags.Contains(primitive.VariablesFlagGlobalTablesSpec)
		if err = encodeColumnsMetadata(globalTableSpec, metadata.Columns, dest); err != nil {
			return fmt.Errorf("cannot write variables metadata columns: %w", err)
		}
	}
	return nil
}

func lengthOfVariablesMetadata(metadata *VariablesMetadata, version primitive.ProtocolVersion) (length int, err error) {
	if metadata == nil {
		metadata = &VariablesMetadata{}
	}
	length += primitive.LengthOfInt // flags
	length += primitive.LengthOfInt // column count
	if version >= primitive.ProtocolVersion4 {
		length += primitive.LengthOfInt
		length += primitive.LengthOfShort * len(metadata.PkIndices)
	}
	if len(metadata.Columns) > 0 {
		globalTableSpec := metadata.Flags()&primitive.VariablesFlagGlobalTablesSpec > 0
		lcs, err := lengthOfColumnsMetadata(globalTableSpec, metadata.Columns)
		if err != nil {
			return -1, fmt.Errorf("cannot compute length of variables metadata columns: %w", err)
		}
		length += lcs
	}
	return length, nil
}

func decodeVariablesMetadata(source io.Reader, version primitive.ProtocolVersion) (metadata *VariablesMetadata, err error) {
	metadata = &VariablesMetadata{}
	var f int32
	if f, err = primitive.ReadInt(source); err != nil {
		return nil, fmt.Errorf("cannot read variables metadata flags: %w", err)
	}
	flags := primitive.VariablesFlag(f)
	var columnCount int32
	if columnCount, err = primitive.ReadInt(source); err != nil {
		return nil, fmt.Errorf("cannot read variables metadata column count: %w", err)
	}
	if version >= primitive.ProtocolVersion4 {
		var pkCount int32
		if pkCount, err = primitive.ReadInt(source); err != nil {
			return nil, fmt.Errorf("cannot read variables metadata pk indices length: %w", err)
		}
		if pkCount > 0 {
			metadata.PkIndices = make([]uint16, pkCount)
			for i := 0; i < int(pkCount); i++ {
				if metadata.PkIndices[i], err = primitive.ReadShort(source); err != nil {
					return nil, fmt.Errorf("cannot read variables metadata pk index %d: %w", i, err)
				}
			}
		}
	}
	if columnCount > 0 {
		globalTableSpec := flags.Contains(primitive.VariablesFlagGlobalTablesSpec)
		if metadata.Columns, err = decodeColumnsMetadata(globalTableSpec, columnCount, source); err != nil {
			return nil, fmt.Errorf("cannot read variables metadata columns: %w", err)
		}
	}
	return metadata, nil
}

func encodeRowsMetadata(metadata *RowsMetadata, dest io.Writer, version primitive.ProtocolVersion) (err error) {
	if metadata == nil {
		metadata = &RowsMetadata{}
	}
	flags := metadata.Flags()
	if err = primitive.WriteInt(int32(flags), dest); err != nil {
		return fmt.Errorf("cannot write rows metadata flags: %w", err)
	}
	columnSpecsLength := len(metadata.Columns)
	if columnSpecsLength > 0 && int(metadata.ColumnCount) != columnSpecsLength {
		return fmt.Errorf("invalid rows metadata: ColumnCount %d != len(Columns) %d", metadata.ColumnCount, columnSpecsLength)
	}
	if err = primitive.WriteInt(metadata.ColumnCount, dest); err != nil {
		return fmt.Errorf("cannot write rows metadata column count: %w", err)
	}
	if flags.Contains(primitive.RowsFlagHasMorePages) {
		if err = primitive.WriteBytes(metadata.PagingState, dest); err != nil {
			return fmt.Errorf("cannot write rows metadata paging state: %w", err)
		}
	}
	if version >= primitive.ProtocolVersion5 && flags.Contains(primitive.RowsFlagMetadataChanged) {
		if err = primitive.WriteShortBytes(metadata.NewResultMetadataId, dest); err != nil {
			return fmt.Errorf("cannot write rows metadata new result metadata id: %w", err)
		}
	}
	if flags&primitive.RowsFlagNoMetadata == 0 && columnSpecsLength > 0 {
		globalTableSpec := flags.Contains(primitive.RowsFlagGlobalTablesSpec)
		if err = encodeColumnsMetadata(globalTableSpec, metadata.Columns, dest); err != nil {
			return fmt.Errorf("cannot write rows metadata columns: %w", err)
		}
	}
	return nil
}

func lengthOfRowsMetadata(metadata *RowsMetadata, version primitive.ProtocolVersion) (length int, err error) {
	if metadata == nil {
		metadata = &RowsMetadata{}
	}
	length += primitive.LengthOfInt // flags
	length += primitive.LengthOfInt // column count
	flags := metadata.Flags()
	if flags.Contains(primitive.RowsFlagHasMorePages) {
		length += primitive.LengthOfBytes(metadata.PagingState)
	}
	if version >= primitive.ProtocolVersion5 && flags.Contains(primitive.RowsFlagMetadataChanged) {
		length += primitive.LengthOfShortBytes(metadata.NewResultMetadataId)
	}
	if flags&primitive.RowsFlagNoMetadata == 0 && len(metadata.Columns) > 0 {
		globalTableSpec := flags.Contains(primitive.RowsFlagGlobalTablesSpec)
		lengthOfCols, err := lengthOfColumnsMetadata(globalTableSpec, metadata.Columns)
		if err != nil {
			return -1, fmt.Errorf("cannot compute length of rows metadata columns: %w", err)
		}
		length += lengthOfCols
	}
	return length, nil
}

func decodeRowsMetadata(source io.Reader, version primitive.ProtocolVersion) (metadata *RowsMetadata, err error) {
	metadata = &RowsMetadata{}
	var f int32
	if f, err = primitive.ReadInt(source); err != nil {
		return nil, fmt.Errorf("cannot read rows metadata flags: %w", err)
	}
	flags := primitive.RowsFlag(f)
	if metadata.ColumnCount, err = primitive.ReadInt(source); err != nil {
		return nil, fmt.Errorf("cannot read rows metadata column count: %w", err)
	}
	if flags.Contains(primitive.RowsFlagHasMorePages) {
		if metadata.PagingState, err = primitive.ReadBytes(source); err != nil {
			return nil, fmt.Errorf("cannot read rows metadata paging state: %w", err)
		}
	}
	if version >= primitive.ProtocolVersion5 && flags.Contains(primitive.RowsFlagMetadataChanged) {
		if metadata.NewResultMetadataId, err = primitive.ReadShortBytes(source); err != nil {
			return nil, fmt.Errorf("cannot read rows metadata new result metadata id: %w", err)
		}
	}
	if flags&primitive.RowsFlagNoMetadata == 0 {
		globalTableSpec := flags.Contains(primitive.RowsFlagGlobalTablesSpec)
		if metadata.Columns, err = decodeColumnsMetadata(globalTableSpec, metadata.ColumnCount, source); err != nil {
			return nil, fmt.Errorf("cannot read rows metadata columns: %w", err)
		}
	}
	return metadata, nil
}

func encodeColumnsMetadata(globalTableSpec bool, cols []*ColumnMetadata, dest io.Writer) (err error) {
	if globalTableSpec {
		first := cols[0]
		if err = primitive.WriteString(first.Keyspace, dest); err != nil {
			return fmt.Errorf("cannot write global keyspace: %w", err)
		}
		if err = primitive.WriteString(first.Table, dest); err != nil {
			return fmt.Errorf("cannot write global table: %w", err)
		}
	}
	for i, col := range cols {
		if !globalTableSpec {
			if err = primitive.WriteString(col.Keyspace, dest); err != nil {
				return fmt.Errorf("cannot write column %d keyspace: %w", i, err)
			}
			if err = primitive.WriteString(col.Table, dest); err != nil {
				return fmt.Errorf("cannot write column %d table: %w", i, err)
			}
		}
		if err = primitive.WriteString(col.Name, dest); err != nil {
			return fmt.Errorf("cannot write column %d name: %w", i, err)
		}
		if err = WriteTypeSpec(col.Type, dest); err != nil {
			return fmt.Errorf("cannot write column %d type: %w", i, err)
		}
	}
	return nil
}

func lengthOfColumnsMetadata(globalTableSpec bool, cols []*ColumnMetadata) (length int, err error) {
	if globalTableSpec {
		first := cols[0]
		length += primitive.LengthOfString(first.Keyspace)
		length += primitive.LengthOfString(first.Table)
	}
	for _, col := range cols {
		if !globalTableSpec {
			length += primitive.LengthOfString(col.Keyspace)
			length += primitive.LengthOfString(col.Table)
		}
		length += primitive.LengthOfString(col.Name)
		length += LengthOfTypeSpec(col.Type)
	}
	return length, nil
}

func decodeColumnsMetadata(globalTableSpec bool, columnCount int32, source io.Reader) (cols []*ColumnMetadata, err error) {
	var globalKsName, globalTableName string
	if globalTableSpec {
		if globalKsName, err = primitive.ReadString(source); err != nil {
			return nil, fmt.Errorf("cannot read global keyspace: %w", err)
		}
		if globalTableName, err = primitive.ReadString(source); err != nil {
			return nil, fmt.Errorf("cannot read global table: %w", err)
		}
	}
	cols = make([]*ColumnMetadata, columnCount)
	for i := 0; i < int(columnCount); i++ {
		cols[i] = &ColumnMetadata{Index: int32(i)}
		if globalTableSpec {
			cols[i].Keyspace = globalKsName
			cols[i].Table = globalTableName
		} else {
			if cols[i].Keyspace, err = primitive.ReadString(source); err != nil {
				return nil, fmt.Errorf("cannot read column %d keyspace: %w", i, err)
			}
			if cols[i].Table, err = primitive.ReadString(source); err != nil {
				return nil, fmt.Errorf("cannot read column %d table: %w", i, err)
			}
		}
		if cols[i].Name, err = primitive.ReadString(source); err != nil {
			return nil, fmt.Errorf("cannot read column %d name: %w", i, err)
		}
		if cols[i].Type, err = ReadTypeSpec(source); err != nil {
			return nil, fmt.Errorf("cannot read column %d type: %w", i, err)
		}
	}
	return cols, nil
}

func (t *TypeSpec) Clone() *TypeSpec {
	if t == nil {
		return nil
	}
	raw := make([]byte, len(t.Raw))
	copy(raw, t.Raw)
	return &TypeSpec{Code: t.Code, Raw: raw}
}

func cloneColumnMetadata(col *ColumnMetadata) *ColumnMetadata {
	if col == nil {
		return nil
	}
	return &ColumnMetadata{
		Keyspace: col.Keyspace,
		Table:    col.Table,
		Name:     col.Name,
		Index:    col.Index,
		Type:     col.Type.Clone(),
	}
}

func cloneColumnsMetadata(cols []*ColumnMetadata) []*ColumnMetadata {
	if cols == nil {
		return nil
	}
	cloned := make([]*ColumnMetadata, len(cols))
	for i, col := range cols {
		cloned[i] = cloneColumnMetadata(col)
	}
	return cloned
}

func cloneVariablesMetadata(metadata *VariablesMetadata) *VariablesMetadata {
	if metadata == nil {
		return nil
	}
	return &VariablesMetadata{
		PkIndices: primitive.CloneUint16Slice(metadata.PkIndices),
		Columns:   cloneColumnsMetadata(metadata.Columns),
	}
}

func cloneRowsMetadata(metadata *RowsMetadata) *RowsMetadata {
	if metadata == nil {
		return nil
	}
	return &RowsMetadata{
		ColumnCount:          metadata.ColumnCount,
		PagingState:          primitive.CloneByteSlice(metadata.PagingState),
		NewResultMetadataId:  primitive.CloneByteSlice(metadata.NewResultMetadataId),
		Columns:              cloneColumnsMetadata(metadata.Columns),
	}
}

func haveSameTable(cols []*ColumnMetadata) bool {
	if len(cols) == 0 {
		return false
	}
	ksName, tableName := cols[0].Keyspace, cols[0].Table
	for _, col := range cols[1:] {
		if col.Keyspace != ksName || col.Table != tableName {
			return false
		}
	}
	return true
}
