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

// BatchType selects the logging/atomicity semantics of a BATCH request.
type BatchType uint8

const (
	BatchTypeLogged   = BatchType(0x00)
	BatchTypeUnlogged = BatchType(0x01)
	BatchTypeCounter  = BatchType(0x02)
)

func (t BatchType) IsValid() bool {
	switch t {
	case BatchTypeLogged, BatchTypeUnlogged, BatchTypeCounter:
		return true
	default:
		return false
	}
}

func (t BatchType) String() string {
	switch t {
	case BatchTypeLogged:
		return "BatchType LOGGED [0x00]"
	case BatchTypeUnlogged:
		return "BatchType UNLOGGED [0x01]"
	case BatchTypeCounter:
		return "BatchType COUNTER [0x02]"
	default:
		return fmt.Sprintf("BatchType ? [%#.2X]", uint8(t))
	}
}

// BatchChildType tells whether a batch child statement is a raw query string or a prepared statement id.
type BatchChildType uint8

const (
	BatchChildTypeQueryString = BatchChildType(0x00)
	BatchChildTypePreparedId  = BatchChildType(0x01)
)

func (t BatchChildType) IsValid() bool {
	switch t {
	case BatchChildTypeQueryString, BatchChildTypePreparedId:
		return true
	default:
		return false
	}
}

func (t BatchChildType) String() string {
	switch t {
	case BatchChildTypeQueryString:
		return "BatchChildType QueryString [0x00]"
	case BatchChildTypePreparedId:
		return "BatchChildType PreparedId [0x01]"
	default:
		return fmt.Sprintf("BatchChildType ? [%#.2X]", uint8(t))
	}
}
