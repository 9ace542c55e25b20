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

// ProtocolVersion identifies the CQL native protocol revision a frame is encoded with. It drives almost every
// other encoding decision in this package, which is why most of its methods answer "does version X support Y"
// rather than encoding anything themselves.
type ProtocolVersion uint8

const (
	ProtocolVersion2 = ProtocolVersion(0x2)
	ProtocolVersion3 = ProtocolVersion(0x3)
	ProtocolVersion4 = ProtocolVersion(0x4)
	ProtocolVersion5 = ProtocolVersion(0x5)
)

// DSE versions carry the 7th bit set, distinguishing them from OSS versions sharing the low bits.
const (
	ProtocolVersionDse1 = ProtocolVersion(0b_1_000001) // 1 + DSE bit = 65
	ProtocolVersionDse2 = ProtocolVersion(0b_1_000010) // 2 + DSE bit = 66
)

const (
	FrameHeaderLengthV3AndHigher = 9
	FrameHeaderLengthV2AndLower  = 8
)

func (v ProtocolVersion) IsSupported() bool {
	for _, supported := range SupportedProtocolVersions() {
		if v == supported {
			return true
		}
	}
	return false
}

func (v ProtocolVersion) IsOss() bool {
	switch v {
	case ProtocolVersion2, ProtocolVersion3, ProtocolVersion4, ProtocolVersion5:
		return true
	default:
		return false
	}
}

func (v ProtocolVersion) IsDse() bool {
	switch v {
	case ProtocolVersionDse1, ProtocolVersionDse2:
		return true
	default:
		return false
	}
}

// IsBeta reports whether v is a beta-only revision. No beta version is currently supported.
func (v ProtocolVersion) IsBeta() bool {
	return false
}

func (v ProtocolVersion) String() string {
	switch v {
	case ProtocolVersion2:
		return "ProtocolVersion OSS 2"
	case ProtocolVersion3:
		return "ProtocolVersion OSS 3"
	case ProtocolVersion4:
		return "ProtocolVersion OSS 4"
	case ProtocolVersion5:
		return "ProtocolVersion OSS 5"
	case ProtocolVersionDse1:
		return "ProtocolVersion DSE 1"
	case ProtocolVersionDse2:
		return "ProtocolVersion DSE 2"
	default:
		return fmt.Sprintf("ProtocolVersion ? [%#.2X]", uint8(v))
	}
}

func (v ProtocolVersion) Uses4BytesCollectionLength() bool {
	return v >= ProtocolVersion3
}

func (v ProtocolVersion) Uses4BytesQueryFlags() bool {
	return v >= ProtocolVersion5
}

func (v ProtocolVersion) SupportsCompression(compression Compression) bool {
	switch compression {
	case CompressionNone:
		return true
	case CompressionLz4:
		return true
	case CompressionSnappy:
		return v != ProtocolVersion5
	default:
		return false
	}
}

func (v ProtocolVersion) SupportsBatchQueryFlags() bool {
	return v >= ProtocolVersion3
}

func (v ProtocolVersion) SupportsPrepareFlags() bool {
	return v >= ProtocolVersion5 && v != ProtocolVersionDse1
}

func (v ProtocolVersion) SupportsQueryFlag(flag QueryFlag) bool {
	switch flag {
	case QueryFlagValues, QueryFlagSkipMetadata, QueryFlagPageSize, QueryFlagPagingState, QueryFlagSerialConsistency:
		return v >= ProtocolVersion2
	case QueryFlagDefaultTimestamp, QueryFlagValueNames:
		return v >= ProtocolVersion3
	case QueryFlagWithKeyspace:
		return v >= ProtocolVersion5 && v != ProtocolVersionDse1
	case QueryFlagNowInSeconds:
		return v >= ProtocolVersion5 && v != ProtocolVersionDse1 && v != ProtocolVersionDse2
	case QueryFlagDsePageSizeBytes, QueryFlagDseWithContinuousPagingOptions:
		return v.IsDse()
	default:
		return false
	}
}

func (v ProtocolVersion) SupportsResultMetadataId() bool {
	return v >= ProtocolVersion5 && v != ProtocolVersionDse1
}

func (v ProtocolVersion) SupportsReadWriteFailureReasonMap() bool {
	return v >= ProtocolVersion5
}

func (v ProtocolVersion) SupportsWriteTimeoutContentions() bool {
	return v >= ProtocolVersion5 && v != ProtocolVersionDse1 && v != ProtocolVersionDse2
}

func (v ProtocolVersion) SupportsDataType(code DataTypeCode) bool {
	switch code {
	case DataTypeCodeText:
		return v <= ProtocolVersion2 // removed in version 3
	case DataTypeCodeUdt, DataTypeCodeTuple:
		return v >= ProtocolVersion3
	case DataTypeCodeDate, DataTypeCodeTime, DataTypeCodeSmallint, DataTypeCodeTinyint:
		return v >= ProtocolVersion4
	case DataTypeCodeDuration:
		return v >= ProtocolVersion5
	case DataTypeCodeCustom, DataTypeCodeAscii, DataTypeCodeBigint, DataTypeCodeBlob, DataTypeCodeBoolean,
		DataTypeCodeCounter, DataTypeCodeDecimal, DataTypeCodeDouble, DataTypeCodeFloat, DataTypeCodeInt,
		DataTypeCodeTimestamp, DataTypeCodeUuid, DataTypeCodeVarchar, DataTypeCodeVarint, DataTypeCodeTimeuuid,
		DataTypeCodeInet, DataTypeCodeList, DataTypeCodeMap, DataTypeCodeSet:
		return true
	default:
		return false
	}
}

func (v ProtocolVersion) SupportsSchemaChangeTarget(target SchemaChangeTarget) bool {
	switch target {
	case SchemaChangeTargetKeyspace, SchemaChangeTargetTable:
		return true
	case SchemaChangeTargetType:
		return v >= ProtocolVersion3
	case SchemaChangeTargetFunction, SchemaChangeTargetAggregate:
		return v >= ProtocolVersion4
	default:
		return false
	}
}

func (v ProtocolVersion) SupportsTopologyChangeType(t TopologyChangeType) bool {
	switch t {
	case TopologyChangeTypeNewNode, TopologyChangeTypeRemovedNode:
		return true
	case TopologyChangeTypeMovedNode:
		return v >= ProtocolVersion3
	default:
		return false
	}
}

func (v ProtocolVersion) SupportsDseRevisionType(t DseRevisionType) bool {
	switch t {
	case DseRevisionTypeCancelContinuousPaging:
		return v >= ProtocolVersionDse1
	case DseRevisionTypeMoreContinuousPages:
		return v >= ProtocolVersionDse2
	default:
		return false
	}
}

func (v ProtocolVersion) FrameHeaderLengthInBytes() int {
	if v >= ProtocolVersion3 {
		return FrameHeaderLengthV3AndHigher
	}
	return FrameHeaderLengthV2AndLower
}

func (v ProtocolVersion) SupportsModernFramingLayout() bool {
	return v >= ProtocolVersion5 && v != ProtocolVersionDse1 && v != ProtocolVersionDse2
}

func (v ProtocolVersion) SupportsUnsetValues() bool {
	return v >= ProtocolVersion4
}
