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

// DataTypeCode identifies a CQL column type on the wire.
type DataTypeCode uint16

const (
	DataTypeCodeCustom    = DataTypeCode(0x0000)
	DataTypeCodeAscii     = DataTypeCode(0x0001)
	DataTypeCodeBigint    = DataTypeCode(0x0002)
	DataTypeCodeBlob      = DataTypeCode(0x0003)
	DataTypeCodeBoolean   = DataTypeCode(0x0004)
	DataTypeCodeCounter   = DataTypeCode(0x0005)
	DataTypeCodeDecimal   = DataTypeCode(0x0006)
	DataTypeCodeDouble    = DataTypeCode(0x0007)
	DataTypeCodeFloat     = DataTypeCode(0x0008)
	DataTypeCodeInt       = DataTypeCode(0x0009)
	DataTypeCodeText      = DataTypeCode(0x000A) // removed in v3, alias for DataTypeCodeVarchar
	DataTypeCodeTimestamp = DataTypeCode(0x000B)
	DataTypeCodeUuid      = DataTypeCode(0x000C)
	DataTypeCodeVarchar   = DataTypeCode(0x000D)
	DataTypeCodeVarint    = DataTypeCode(0x000E)
	DataTypeCodeTimeuuid  = DataTypeCode(0x000F)
	DataTypeCodeInet      = DataTypeCode(0x0010)
	DataTypeCodeDate      = DataTypeCode(0x0011) // v4+
	DataTypeCodeTime      = DataTypeCode(0x0012) // v4+
	DataTypeCodeSmallint  = DataTypeCode(0x0013) // v4+
	DataTypeCodeTinyint   = DataTypeCode(0x0014) // v4+
	DataTypeCodeDuration  = DataTypeCode(0x0015) // v5, DSE v1 and DSE v2
	DataTypeCodeList      = DataTypeCode(0x0020)
	DataTypeCodeMap       = DataTypeCode(0x0021)
	DataTypeCodeSet       = DataTypeCode(0x0022)
	DataTypeCodeUdt       = DataTypeCode(0x0030) // v3+
	DataTypeCodeTuple     = DataTypeCode(0x0031) // v3+
)

// dataTypeNames backs both IsValid/IsPrimitive and String: every key is a recognized code, and the small subset
// listed in nonPrimitiveDataTypeCodes are the collection/UDT/tuple codes that carry nested type information.
var dataTypeNames = map[DataTypeCode]string{
	DataTypeCodeCustom: "Custom", DataTypeCodeAscii: "Ascii", DataTypeCodeBigint: "Bigint",
	DataTypeCodeBlob: "Blob", DataTypeCodeBoolean: "Boolean", DataTypeCodeCounter: "Counter",
	DataTypeCodeDecimal: "Decimal", DataTypeCodeDouble: "Double", DataTypeCodeFloat: "Float",
	DataTypeCodeInt: "Int", DataTypeCodeText: "Text", DataTypeCodeTimestamp: "Timestamp",
	DataTypeCodeUuid: "Uuid", DataTypeCodeVarchar: "Varchar", DataTypeCodeVarint: "Varint",
	DataTypeCodeTimeuuid: "Timeuuid", DataTypeCodeInet: "Inet", DataTypeCodeDate: "Date",
	DataTypeCodeTime: "Time", DataTypeCodeSmallint: "Smallint", DataTypeCodeTinyint: "Tinyint",
	DataTypeCodeDuration: "Duration", DataTypeCodeList: "List", DataTypeCodeMap: "Map",
	DataTypeCodeSet: "Set", DataTypeCodeUdt: "Udt", DataTypeCodeTuple: "Tuple",
}

var nonPrimitiveDataTypeCodes = map[DataTypeCode]bool{
	DataTypeCodeList: true, DataTypeCodeMap: true, DataTypeCodeSet: true, DataTypeCodeUdt: true, DataTypeCodeTuple: true,
}

func (c DataTypeCode) IsValid() bool {
	_, ok := dataTypeNames[c]
	return ok
}

func (c DataTypeCode) IsPrimitive() bool {
	return c.IsValid() && !nonPrimitiveDataTypeCodes[c]
}

func (c DataTypeCode) String() string {
	if name, ok := dataTypeNames[c]; ok {
		return fmt.Sprintf("DataTypeCode %s [%#.4X]", name, uint16(c))
	}
	return fmt.Sprintf("DataType ? [%#.4X]", uint16(c))
}
