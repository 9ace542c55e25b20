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

package primitive

import "fmt"

// flagLabel renders one bit of a named flag set the way every flag type's String method does: the type name, the
// matched label (or "?" when unrecognized), the hex value and its full-width binary form.
func flagLabel(typeName, label string, value uint64, bits int) string {
	format := fmt.Sprintf("%%s %%s [%%#.%dX %%#.%db]", (bits+3)/4, bits)
	return fmt.Sprintf(format, typeName, label, value, value)
}

// HeaderFlag is encoded as a single byte in every frame header, regardless of protocol version.
type HeaderFlag uint8

const (
	HeaderFlagCompressed    = HeaderFlag(0x01)
	HeaderFlagTracing       = HeaderFlag(0x02)
	HeaderFlagCustomPayload = HeaderFlag(0x04)
	HeaderFlagWarning       = HeaderFlag(0x08)
	HeaderFlagUseBeta       = HeaderFlag(0x10)
)

func (f HeaderFlag) Add(other HeaderFlag) HeaderFlag    { return f | other }
func (f HeaderFlag) Remove(other HeaderFlag) HeaderFlag { return f &^ other }
func (f HeaderFlag) Contains(other HeaderFlag) bool     { return f&other != 0 }

func (f HeaderFlag) String() string {
	label := "?"
	switch f {
	case HeaderFlagCompressed:
		label = "Compressed"
	case HeaderFlagTracing:
		label = "Tracing"
	case HeaderFlagCustomPayload:
		label = "CustomPayload"
	case HeaderFlagWarning:
		label = "Warning"
	case HeaderFlagUseBeta:
		label = "UseBeta"
	}
	return flagLabel("HeaderFlag", label, uint64(f), 8)
}

// QueryFlag was encoded as [byte] in v3 and v4, but changed to [int] in v5.
type QueryFlag uint32

const (
	QueryFlagValues            = QueryFlag(0x00000001)
	QueryFlagSkipMetadata      = QueryFlag(0x00000002)
	QueryFlagPageSize          = QueryFlag(0x00000004)
	QueryFlagPagingState       = QueryFlag(0x00000008)
	QueryFlagSerialConsistency = QueryFlag(0x00000010)
	QueryFlagDefaultTimestamp  = QueryFlag(0x00000020)
	QueryFlagValueNames        = QueryFlag(0x00000040)
	QueryFlagWithKeyspace      = QueryFlag(0x00000080) // protocol v5+ and DSE v2
	QueryFlagNowInSeconds      = QueryFlag(0x00000100) // protocol v5+
)

// DSE-specific query flags.
const (
	QueryFlagDsePageSizeBytes               = QueryFlag(0x40000000) // DSE v1+
	QueryFlagDseWithContinuousPagingOptions = QueryFlag(0x80000000) // DSE v1+
)

func (f QueryFlag) Add(other QueryFlag) QueryFlag    { return f | other }
func (f QueryFlag) Remove(other QueryFlag) QueryFlag { return f &^ other }
func (f QueryFlag) Contains(other QueryFlag) bool    { return f&other != 0 }

func (f QueryFlag) String() string {
	label := "?"
	switch f {
	case QueryFlagValues:
		label = "Values"
	case QueryFlagSkipMetadata:
		label = "SkipMetadata"
	case QueryFlagPageSize:
		label = "PageSize"
	case QueryFlagPagingState:
		label = "PagingState"
	case QueryFlagSerialConsistency:
		label = "SerialConsistency"
	case QueryFlagDefaultTimestamp:
		label = "DefaultTimestamp"
	case QueryFlagValueNames:
		label = "ValueNames"
	case QueryFlagWithKeyspace:
		label = "WithKeyspace"
	case QueryFlagNowInSeconds:
		label = "NowInSeconds"
	case QueryFlagDsePageSizeBytes:
		label = "DsePageSizeBytes"
	case QueryFlagDseWithContinuousPagingOptions:
		label = "DseWithContinuousPagingOptions"
	}
	return flagLabel("QueryFlag", label, uint64(f), 32)
}

// RowsFlag qualifies the metadata accompanying a Rows result.
type RowsFlag uint32

const (
	RowsFlagGlobalTablesSpec = RowsFlag(0x00000001)
	RowsFlagHasMorePages     = RowsFlag(0x00000002)
	RowsFlagNoMetadata       = RowsFlag(0x00000004)
	RowsFlagMetadataChanged  = RowsFlag(0x00000008)
)

// DSE-specific rows flags.
const (
	RowsFlagDseContinuousPaging   = RowsFlag(0x40000000) // DSE v1+
	RowsFlagDseLastContinuousPage = RowsFlag(0x80000000) // DSE v1+
)

func (f RowsFlag) Add(other RowsFlag) RowsFlag    { return f | other }
func (f RowsFlag) Remove(other RowsFlag) RowsFlag { return f &^ other }
func (f RowsFlag) Contains(other RowsFlag) bool   { return f&other != 0 }

func (f RowsFlag) String() string {
	label := "?"
	switch f {
	case RowsFlagGlobalTablesSpec:
		label = "GlobalTablesSpec"
	case RowsFlagHasMorePages:
		label = "HasMorePages"
	case RowsFlagNoMetadata:
		label = "NoMetadata"
	case RowsFlagMetadataChanged:
		label = "MetadataChanged"
	case RowsFlagDseContinuousPaging:
		label = "ContinuousPaging"
	case RowsFlagDseLastContinuousPage:
		label = "LastContinuousPage"
	}
	return flagLabel("RowsFlag", label, uint64(f), 32)
}

// VariablesFlag qualifies the metadata describing bound variables or result columns.
type VariablesFlag uint32

const (
	VariablesFlagGlobalTablesSpec = VariablesFlag(0x00000001)
)

func (f VariablesFlag) Add(other VariablesFlag) VariablesFlag    { return f | other }
func (f VariablesFlag) Remove(other VariablesFlag) VariablesFlag { return f &^ other }
func (f VariablesFlag) Contains(other VariablesFlag) bool        { return f&other != 0 }

func (f VariablesFlag) String() string {
	label := "?"
	if f == VariablesFlagGlobalTablesSpec {
		label = "GlobalTablesSpec"
	}
	return flagLabel("VariablesFlag", label, uint64(f), 32)
}

// PrepareFlag qualifies a PREPARE request. Only meaningful from protocol v5 / DSE v2 onward.
type PrepareFlag uint32

const (
	PrepareFlagWithKeyspace = PrepareFlag(0x00000001) // v5 and DSE v2
)

func (f PrepareFlag) Add(other PrepareFlag) PrepareFlag    { return f | other }
func (f PrepareFlag) Remove(other PrepareFlag) PrepareFlag { return f &^ other }
func (f PrepareFlag) Contains(other PrepareFlag) bool      { return f&other != 0 }

func (f PrepareFlag) String() string {
	label := "?"
	if f == PrepareFlagWithKeyspace {
		label = "WithKeyspace"
	}
	return flagLabel("PrepareFlag", label, uint64(f), 32)
}
